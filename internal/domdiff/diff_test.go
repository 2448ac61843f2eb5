package domdiff

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"github.com/nizambakhshi/wikidom/internal/domstore"
)

type seqAlloc struct{ n uint64 }

func (s *seqAlloc) NextNodeID() uint64 { s.n++; return s.n }

func newStore() *domstore.Store {
	return domstore.New(&seqAlloc{})
}

func findBody(t *testing.T, doc *html.Node) *html.Node {
	t.Helper()
	var body *html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if body != nil {
			return
		}
		if n.Type == html.ElementNode && n.Data == "body" {
			body = n
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	require.NotNil(t, body)
	return body
}

func parseBody(t *testing.T, src string) *html.Node {
	t.Helper()
	doc, err := html.Parse(strings.NewReader(src))
	require.NoError(t, err)
	return findBody(t, doc)
}

func metaChildren(n *html.Node, typeofVal string) []*html.Node {
	var out []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.Data == "meta" && attrVal(c, "typeof") == typeofVal {
			out = append(out, c)
		}
	}
	return out
}

// TestTextChangeInFirstParagraph pins spec §8 scenario 1.
func TestTextChangeInFirstParagraph(t *testing.T) {
	oldBody := parseBody(t, "<p>a</p><p>b</p>")
	newBody := parseBody(t, "<p>A</p><p>b</p>")
	store := newStore()

	Diff(store, oldBody, newBody)

	var ps []*html.Node
	for c := newBody.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.Data == "p" {
			ps = append(ps, c)
		}
	}
	require.Len(t, ps, 2)

	firstMarks := store.GetDiffMarks(ps[0])
	assert.True(t, firstMarks.Has(domstore.MarkChildrenChanged))
	assert.True(t, firstMarks.Has(domstore.MarkSubtreeChanged))
	assert.Len(t, metaChildren(ps[0], "mw:DiffMarker/deleted"), 1)

	assert.Equal(t, domstore.DiffMarks(0), store.GetDiffMarks(ps[1]), "second <p> carries no marks")
}

// TestDeleteTrailingParagraph pins spec §8 scenario 2. Per SPEC_FULL's
// open-question decision (consistent subtree-changed propagation on any
// descendant mark, not the source's inconsistent original behavior), the
// body also carries subtree-changed alongside children-changed.
func TestDeleteTrailingParagraph(t *testing.T) {
	oldBody := parseBody(t, "<p>a</p><p>b</p>")
	newBody := parseBody(t, "<p>a</p>")
	store := newStore()

	Diff(store, oldBody, newBody)

	bodyMarks := store.GetDiffMarks(newBody)
	assert.True(t, bodyMarks.Has(domstore.MarkChildrenChanged))

	deleted := metaChildren(newBody, "mw:DiffMarker/deleted")
	require.Len(t, deleted, 1)
	assert.Nil(t, deleted[0].NextSibling, "deleted-marker appears after the surviving <p>")

	var survivor *html.Node
	for c := newBody.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.Data == "p" {
			survivor = c
		}
	}
	require.NotNil(t, survivor)
	assert.Equal(t, domstore.DiffMarks(0), store.GetDiffMarks(survivor))
}

// TestAttributeChangeIsModifiedWrapperOnly pins spec §8 scenario 3: an
// attribute-only change marks modified-wrapper and nothing else, and the
// element's children are never diffed (opacity).
func TestAttributeChangeIsModifiedWrapperOnly(t *testing.T) {
	oldBody := parseBody(t, `<p class="a">a</p><p class="b">b</p>`)
	newBody := parseBody(t, `<p class="X">a</p><p class="b">b</p>`)
	store := newStore()

	Diff(store, oldBody, newBody)

	var ps []*html.Node
	for c := newBody.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.Data == "p" {
			ps = append(ps, c)
		}
	}
	require.Len(t, ps, 2)

	firstMarks := store.GetDiffMarks(ps[0])
	assert.Equal(t, domstore.MarkModifiedWrapper, firstMarks, "exactly modified-wrapper, nothing else")
	assert.Equal(t, domstore.DiffMarks(0), store.GetDiffMarks(ps[1]))
}

// TestModifiedWrapperSkipsChildRecursion pins the opacity invariant
// directly: even when descendants differ wildly, an attrs-mismatched
// node's children are never visited.
func TestModifiedWrapperSkipsChildRecursion(t *testing.T) {
	oldBody := parseBody(t, `<div id="x"><span>one</span></div>`)
	newBody := parseBody(t, `<div id="y"><span>completely different</span></div>`)
	store := newStore()

	Diff(store, oldBody, newBody)

	var div *html.Node
	for c := newBody.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.Data == "div" {
			div = c
		}
	}
	require.NotNil(t, div)
	assert.Equal(t, domstore.MarkModifiedWrapper, store.GetDiffMarks(div))

	span := div.FirstChild
	require.NotNil(t, span)
	assert.Equal(t, domstore.DiffMarks(0), store.GetDiffMarks(span), "opaque: never visited")
}

// TestIsReusable pins the selective-serializer consumer hook.
func TestIsReusable(t *testing.T) {
	oldBody := parseBody(t, "<p>a</p><p>b</p>")
	newBody := parseBody(t, "<p>A</p><p>b</p>")
	store := newStore()

	Diff(store, oldBody, newBody)

	var ps []*html.Node
	for c := newBody.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.Data == "p" {
			ps = append(ps, c)
		}
	}
	require.Len(t, ps, 2)
	assert.False(t, IsReusable(store, ps[0]), "changed paragraph must be regenerated")
	assert.True(t, IsReusable(store, ps[1]), "unchanged paragraph can reuse its source text")
}
