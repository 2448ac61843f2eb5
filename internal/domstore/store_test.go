package domstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

type counter struct{ n uint64 }

func (c *counter) NextNodeID() uint64 {
	c.n++
	return c.n
}

func TestStoreGetIDLazy(t *testing.T) {
	s := New(&counter{})
	n := &html.Node{Type: html.ElementNode, Data: "p"}

	id1 := s.GetID(n)
	id2 := s.GetID(n)
	assert.Equal(t, id1, id2, "repeated GetID on the same node must be stable")

	other := &html.Node{Type: html.ElementNode, Data: "span"}
	id3 := s.GetID(other)
	assert.NotEqual(t, id1, id3)
}

func TestStoreMarkNew(t *testing.T) {
	s := New(&counter{})
	n := &html.Node{Type: html.ElementNode, Data: "p"}
	first := s.GetID(n)
	second := s.MarkNew(n)
	assert.NotEqual(t, first, second)
}

func TestLoadStoreDataAttribsRoundTrip(t *testing.T) {
	s := New(&counter{})
	n := &html.Node{
		Type: html.ElementNode,
		Data: "div",
		Attr: []html.Attribute{
			{Key: "data-parsoid", Val: `{"dsr":[0,10,1,1],"stx":"html"}`},
			{Key: "data-mw", Val: `{"name":"poem","attrs":{}}`},
			{Key: "class", Val: "x"},
		},
	}

	require.NoError(t, LoadDataAttribs(s, n))

	_, hasParsoid := getAttr(n, attrDataParsoid)
	_, hasMw := getAttr(n, attrDataMw)
	assert.False(t, hasParsoid, "data-parsoid must be removed after loading")
	assert.False(t, hasMw, "data-mw must be removed after loading")

	dp := s.GetDataParsoid(n)
	require.NotNil(t, dp.Dsr)
	assert.Equal(t, DSR{0, 10, 1, 1}, *dp.Dsr)
	assert.Equal(t, "html", dp.Stx)

	mw := s.GetDataMw(n)
	require.NotNil(t, mw)
	assert.Equal(t, "poem", mw.Name)

	require.NoError(t, StoreDataAttribs(s, n))
	raw, ok := getAttr(n, attrDataParsoid)
	require.True(t, ok)
	assert.Contains(t, raw, `"dsr":[0,10,1,1]`)
}

func TestDiffMarksString(t *testing.T) {
	m := MarkChildrenChanged.Add(MarkSubtreeChanged)
	assert.Equal(t, "children-changed,subtree-changed", m.String())
	assert.True(t, m.Has(MarkChildrenChanged))
	assert.False(t, m.Has(MarkDeleted))
}
