package domstore

import "golang.org/x/net/html"

// idAllocator is the narrow interface domstore needs from env.Env —
// just the monotonic per-document counter (spec §5, §6). Defined here
// rather than imported from env to avoid a domstore->env->domstore
// import cycle risk as the env package grows; env.Env satisfies it.
type idAllocator interface {
	NextNodeID() uint64
}

// Store is the DOM Data Store (spec §4.2). One Store is owned by a
// single document; its entries are released with the document (spec
// §3.5, §5 "Resource scoping").
type Store struct {
	alloc idAllocator
	ids   map[*html.Node]uint64
	nodes map[uint64]*html.Node
	data  map[uint64]*NodeData
}

// New builds an empty Store backed by alloc for node-ID allocation.
func New(alloc idAllocator) *Store {
	return &Store{
		alloc: alloc,
		ids:   map[*html.Node]uint64{},
		nodes: map[uint64]*html.Node{},
		data:  map[uint64]*NodeData{},
	}
}

// GetID returns node's stable ID, allocating one lazily on first access
// (spec §3.5, §4.2).
func (s *Store) GetID(node *html.Node) uint64 {
	if id, ok := s.ids[node]; ok {
		return id
	}
	id := s.alloc.NextNodeID()
	s.ids[node] = id
	s.nodes[id] = node
	return id
}

// MarkNew force-assigns a fresh ID to node, discarding any existing
// mapping — the markNew option spec §3.5 names, used when a DOM is
// re-loaded from serialized form and old IDs must not be reused.
func (s *Store) MarkNew(node *html.Node) uint64 {
	delete(s.ids, node)
	return s.GetID(node)
}

// NodeByID looks up the node for a previously-allocated ID.
func (s *Store) NodeByID(id uint64) (*html.Node, bool) {
	n, ok := s.nodes[id]
	return n, ok
}

// getNodeData returns node's data container, allocating an empty one on
// first access (spec §4.2 "getNodeData(node)").
func (s *Store) getNodeData(node *html.Node) *NodeData {
	id := s.GetID(node)
	nd, ok := s.data[id]
	if !ok {
		nd = &NodeData{}
		s.data[id] = nd
	}
	return nd
}

// GetDataParsoid returns node's data-parsoid record, never nil.
func (s *Store) GetDataParsoid(node *html.Node) *DataParsoid {
	nd := s.getNodeData(node)
	if nd.Parsoid == nil {
		nd.Parsoid = &DataParsoid{}
	}
	return nd.Parsoid
}

// SetDataParsoid replaces node's data-parsoid record.
func (s *Store) SetDataParsoid(node *html.Node, dp *DataParsoid) {
	s.getNodeData(node).Parsoid = dp
}

// GetDataMw returns node's data-mw record, or nil if none is set (unlike
// data-parsoid, most nodes never carry one).
func (s *Store) GetDataMw(node *html.Node) *DataMw {
	return s.getNodeData(node).Mw
}

// SetDataMw replaces node's data-mw record.
func (s *Store) SetDataMw(node *html.Node, mw *DataMw) {
	s.getNodeData(node).Mw = mw
}

// GetDiffMarks returns the diff marks attached to node by the DOM Diff
// pass (spec §3.4).
func (s *Store) GetDiffMarks(node *html.Node) DiffMarks {
	return s.getNodeData(node).ParsoidDiff
}

// AddDiffMark ORs mark into node's existing diff marks.
func (s *Store) AddDiffMark(node *html.Node, mark DiffMarks) {
	nd := s.getNodeData(node)
	nd.ParsoidDiff = nd.ParsoidDiff.Add(mark)
}

// GetNodeData returns the full data container for node (spec §4.2).
func (s *Store) GetNodeData(node *html.Node) *NodeData {
	return s.getNodeData(node)
}

// Forget releases node's entry, called when a synthetic node (e.g. a
// deleted-marker meta) is discarded before serialization.
func (s *Store) Forget(node *html.Node) {
	if id, ok := s.ids[node]; ok {
		delete(s.nodes, id)
		delete(s.data, id)
		delete(s.ids, node)
	}
}
