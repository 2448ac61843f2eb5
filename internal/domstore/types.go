// Package domstore implements the DOM Data Store (spec §4.2, component
// C2): it associates side-band JSON (data-parsoid, data-mw, diff marks)
// with DOM nodes via lazily-allocated node IDs, and flushes that data to
// and from the two reserved HTML attributes data-parsoid/data-mw (spec
// §3.3/§3.5).
package domstore

// DiffMarks is the set of diff annotations spec §3.4 names, drawn from
// {inserted, deleted, children-changed, subtree-changed,
// modified-wrapper}. Represented as a bitmask since a node can carry
// more than one simultaneously (e.g. children-changed + subtree-changed).
type DiffMarks uint8

const (
	MarkInserted DiffMarks = 1 << iota
	MarkDeleted
	MarkChildrenChanged
	MarkSubtreeChanged
	MarkModifiedWrapper
)

func (m DiffMarks) Has(mark DiffMarks) bool { return m&mark != 0 }
func (m DiffMarks) Add(mark DiffMarks) DiffMarks { return m | mark }

func (m DiffMarks) String() string {
	names := []struct {
		mark DiffMarks
		name string
	}{
		{MarkInserted, "inserted"},
		{MarkDeleted, "deleted"},
		{MarkChildrenChanged, "children-changed"},
		{MarkSubtreeChanged, "subtree-changed"},
		{MarkModifiedWrapper, "modified-wrapper"},
	}
	out := ""
	for _, n := range names {
		if m.Has(n.mark) {
			if out != "" {
				out += ","
			}
			out += n.name
		}
	}
	return out
}

// DSR is the Document Source Range: [src_start, src_end,
// opening_tag_width, closing_tag_width] (spec §3.3, GLOSSARY).
type DSR [4]int

// DataParsoid is Parsoid-internal bookkeeping attached to a DOM element
// (spec §3.3). Tmp holds scratch fields that never round-trip to the
// page bundle verbatim in a full implementation (here: the
// variantTrailingSemi flag the language-variant handler reads).
type DataParsoid struct {
	Dsr               *DSR                   `json:"dsr,omitempty"`
	Stx               string                 `json:"stx,omitempty"`
	AutoInsertedStart bool                   `json:"autoInsertedStart,omitempty"`
	AutoInsertedEnd   bool                   `json:"autoInsertedEnd,omitempty"`
	Src               string                 `json:"src,omitempty"`
	MagicSrc          string                 `json:"magicSrc,omitempty"`
	Dpi               string                 `json:"dpi,omitempty"`
	Fl                map[string]string      `json:"fl,omitempty"`
	FlSp              [][2]int               `json:"flSp,omitempty"`
	TSp               [][2]int               `json:"tSp,omitempty"`
	Tmp               map[string]interface{} `json:"tmp,omitempty"`
}

// GetTmp reads a Tmp entry, returning ok=false when Tmp or the key is
// absent.
func (dp *DataParsoid) GetTmp(key string) (interface{}, bool) {
	if dp == nil || dp.Tmp == nil {
		return nil, false
	}
	v, ok := dp.Tmp[key]
	return v, ok
}

// SetTmp writes a Tmp entry, allocating the map if necessary.
func (dp *DataParsoid) SetTmp(key string, value interface{}) {
	if dp.Tmp == nil {
		dp.Tmp = map[string]interface{}{}
	}
	dp.Tmp[key] = value
}

// KVProvenance is the per-side (key or value) provenance record spec
// §4.4 step 8 describes: tmpDataMW[keyStr] = {k:{txt,html?,srcOffsets},
// v:{html,srcOffsets}}.
type KVProvenance struct {
	Txt        string   `json:"txt,omitempty"`
	HTML       *string  `json:"html,omitempty"`
	SrcOffsets *[2]int  `json:"srcOffsets,omitempty"`
}

// HasProvenance reports whether HTML carries independent provenance.
// Per SPEC_FULL's open-question decision, a non-nil-but-empty HTML means
// "no independent provenance" (the reparse-KV scenario), distinct from a
// nil HTML meaning "not set at all".
func (p *KVProvenance) HasProvenance() bool {
	return p != nil && p.HTML != nil && *p.HTML != ""
}

// AttribPair is one {k,v} entry of data-mw.attribs (spec §4.4 "Flatten
// to an ordered attribs list alternating k-records and v-records").
type AttribPair struct {
	K KVProvenance `json:"k"`
	V KVProvenance `json:"v"`
}

// DataMwBody carries either an extension's raw source (ExtSrc) or an
// expanded HTML fragment (Html), mirroring how mw:Extension/* and
// mw:Transclusion payloads differ (spec §3.3, §8 scenario 4).
type DataMwBody struct {
	ExtSrc *string `json:"extsrc,omitempty"`
	Html   *string `json:"html,omitempty"`
}

// DataMw is the template/extension payload attached to the first
// element of an encapsulation group (spec §3.3).
type DataMw struct {
	Name    string            `json:"name,omitempty"`
	Attrs   map[string]string `json:"attrs,omitempty"`
	Body    *DataMwBody       `json:"body,omitempty"`
	Attribs []AttribPair      `json:"attribs,omitempty"`
}

// NodeData is the container a node ID indexes into, holding parsoid,
// mw, and diff data (spec §4.2 "getNodeData(node)").
type NodeData struct {
	Parsoid     *DataParsoid
	Mw          *DataMw
	ParsoidDiff DiffMarks
}
