package domdiff

import (
	"golang.org/x/net/html"

	"github.com/google/go-cmp/cmp"

	"github.com/nizambakhshi/wikidom/internal/domstore"
)

// Diff compares oldRoot against newRoot (already paired by the caller,
// e.g. two document or fragment roots) and attaches diff marks to
// newRoot's subtree via store. It reports whether anything changed
// (spec §4.3 "diff(oldRoot, newRoot) → bool modified").
func Diff(store *domstore.Store, oldRoot, newRoot *html.Node) bool {
	return diffPaired(store, oldRoot, newRoot)
}

// diffPaired implements spec §4.3 steps 2-4 for one already-paired
// element/text pair, recursing into children, and returns whether
// newNode (or anything beneath it) ended up carrying a diff mark.
func diffPaired(store *domstore.Store, oldNode, newNode *html.Node) bool {
	if oldNode.Type == html.TextNode || newNode.Type == html.TextNode {
		if oldNode.Type != newNode.Type || oldNode.Data != newNode.Data {
			store.AddDiffMark(newNode, domstore.MarkSubtreeChanged)
		}
		return store.GetDiffMarks(newNode) != 0
	}

	if !attrsEqual(oldNode, newNode) {
		// Any attribute-level change makes this node a "modified
		// wrapper" around its (possibly unchanged) content: its own
		// open/close tags must be regenerated, but nothing below it
		// needs diffing on that account alone (spec §4.3 step 2).
		store.AddDiffMark(newNode, domstore.MarkModifiedWrapper)
		return true
	}

	diffChildren(store, oldNode, newNode)

	return store.GetDiffMarks(newNode) != 0
}

// attrsEqual implements spec §4.3 step 2's "compare attributes (set
// equality, value equality)".
func attrsEqual(a, b *html.Node) bool {
	return cmp.Equal(attrMap(a), attrMap(b))
}

func attrMap(n *html.Node) map[string]string {
	m := make(map[string]string, len(n.Attr))
	for _, a := range n.Attr {
		m[a.Key] = a.Val
	}
	return m
}

// diffOpKind discriminates the three outcomes a greedy LCS child-diff
// produces (spec §4.3 step 3).
type diffOpKind int

const (
	opMatch diffOpKind = iota
	opInsert
	opDelete
)

type diffOp struct {
	kind diffOpKind
	old  *html.Node
	new  *html.Node
}

// diffChildren implements spec §4.3 steps 3-4: a greedy LCS match over
// (tag, identity) tuples for elements (exact string equality for text
// nodes), with unmatched olds becoming synthetic deleted-markers and
// unmatched news becoming inserted.
func diffChildren(store *domstore.Store, oldParent, newParent *html.Node) {
	oldKids := elementAndTextChildren(oldParent)
	newKids := elementAndTextChildren(newParent)

	ops := lcsDiff(store, oldKids, newKids)

	anchor := newParent.FirstChild
	var opaqueAbout string
	anyChildMarked := false
	structuralChange := false
	for _, op := range ops {
		switch op.kind {
		case opMatch:
			if diffPaired(store, op.old, op.new) {
				anyChildMarked = true
			}
			if about := attrVal(op.new, "about"); about != "" && store.GetDiffMarks(op.new).Has(domstore.MarkModifiedWrapper) {
				opaqueAbout = about
			}
			anchor = op.new.NextSibling
		case opInsert:
			if about := attrVal(op.new, "about"); about != "" && about == opaqueAbout {
				// Extra about-sibling added behind an already
				// modified-wrapper leader: ignored, not inserted
				// (spec §4.3 step 5).
				anchor = op.new.NextSibling
				continue
			}
			store.AddDiffMark(op.new, domstore.MarkInserted)
			anyChildMarked = true
			structuralChange = true
			anchor = op.new.NextSibling
		case opDelete:
			marker := deletedMarker()
			newParent.InsertBefore(marker, anchor)
			store.AddDiffMark(marker, domstore.MarkDeleted)
			anyChildMarked = true
			structuralChange = true
		}
	}

	// Any structural child change (insert/delete) means this parent's
	// child list itself changed; any marked child at all (including a
	// recursively-diffed match) means something beneath this parent
	// changed (spec §4.3 step 3's "propagate subtree-changed up to the
	// nearest common ancestor").
	if structuralChange {
		store.AddDiffMark(newParent, domstore.MarkChildrenChanged)
	}
	if anyChildMarked {
		store.AddDiffMark(newParent, domstore.MarkSubtreeChanged)
	}
}

func deletedMarker() *html.Node {
	return &html.Node{
		Type: html.ElementNode,
		Data: "meta",
		Attr: []html.Attribute{{Key: "typeof", Val: "mw:DiffMarker/deleted"}},
	}
}

func elementAndTextChildren(n *html.Node) []*html.Node {
	var out []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode || c.Type == html.TextNode {
			out = append(out, c)
		}
	}
	return out
}

// childrenEqualKind reports whether old and new are pairing candidates:
// same node kind, and — for elements — same tag with matching identity
// keys whenever either side carries one (spec §4.3 step 1); plain text
// nodes pair only on exact content equality (step 4, a content mismatch
// is not a match at all, it is delete+insert).
func childrenEqualKind(store *domstore.Store, old, new *html.Node) bool {
	if old.Type != new.Type {
		return false
	}
	if old.Type == html.TextNode {
		return old.Data == new.Data
	}
	if old.Data != new.Data {
		return false
	}
	oldKey := keyFor(store, old)
	newKey := keyFor(store, new)
	if oldKey.hasKey || newKey.hasKey {
		return oldKey.hasKey && newKey.hasKey && oldKey.ident == newKey.ident
	}
	return true
}

// lcsDiff runs the greedy longest-common-subsequence match and
// reconstructs the ordered match/insert/delete script.
func lcsDiff(store *domstore.Store, olds, news []*html.Node) []diffOp {
	m, n := len(olds), len(news)
	dp := make([][]int, m+1)
	for i := range dp {
		dp[i] = make([]int, n+1)
	}
	for i := m - 1; i >= 0; i-- {
		for j := n - 1; j >= 0; j-- {
			if childrenEqualKind(store, olds[i], news[j]) {
				dp[i][j] = dp[i+1][j+1] + 1
			} else if dp[i+1][j] >= dp[i][j+1] {
				dp[i][j] = dp[i+1][j]
			} else {
				dp[i][j] = dp[i][j+1]
			}
		}
	}

	var ops []diffOp
	i, j := 0, 0
	for i < m && j < n {
		if childrenEqualKind(store, olds[i], news[j]) {
			ops = append(ops, diffOp{kind: opMatch, old: olds[i], new: news[j]})
			i++
			j++
		} else if dp[i+1][j] >= dp[i][j+1] {
			ops = append(ops, diffOp{kind: opDelete, old: olds[i]})
			i++
		} else {
			ops = append(ops, diffOp{kind: opInsert, new: news[j]})
			j++
		}
	}
	for ; i < m; i++ {
		ops = append(ops, diffOp{kind: opDelete, old: olds[i]})
	}
	for ; j < n; j++ {
		ops = append(ops, diffOp{kind: opInsert, new: news[j]})
	}
	return ops
}
