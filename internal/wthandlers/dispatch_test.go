package wthandlers

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"github.com/nizambakhshi/wikidom/internal/domstore"
	"github.com/nizambakhshi/wikidom/internal/env"
)

type seqAlloc struct{ n uint64 }

func (s *seqAlloc) NextNodeID() uint64 { s.n++; return s.n }

func parseSpan(t *testing.T, attrs string) *html.Node {
	t.Helper()
	doc, err := html.Parse(strings.NewReader("<body><span " + attrs + "></span></body>"))
	require.NoError(t, err)
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
	return body.FirstChild
}

func parseMeta(t *testing.T, attrs string) *html.Node {
	t.Helper()
	doc, err := html.Parse(strings.NewReader("<body><meta " + attrs + "></body>"))
	require.NoError(t, err)
	var meta *html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if meta != nil {
			return
		}
		if n.Type == html.ElementNode && n.Data == "meta" {
			meta = n
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	require.NotNil(t, meta)
	return meta
}

func TestDispatchPrefersLangVariantOverTagTable(t *testing.T) {
	n := parseSpan(t, `data-mw-variant="{}"`)
	h, ok := Dispatch(n)
	require.True(t, ok)
	assert.NotNil(t, h.Handle)

	m := parseMeta(t, `data-mw-variant="{}"`)
	hm, ok := Dispatch(m)
	require.True(t, ok)
	assert.False(t, hm.ForceSol, "a <meta> with data-mw-variant gets the language-variant handler, not the meta handler")
}

func TestDispatchFallsThroughForUnknownTag(t *testing.T) {
	n := parseSpan(t, "")
	_, ok := Dispatch(n)
	assert.False(t, ok)
}

func TestDispatchMatchesMetaTagTable(t *testing.T) {
	n := parseMeta(t, `typeof="mw:DiffMarker/inserted"`)
	h, ok := Dispatch(n)
	require.True(t, ok)
	assert.True(t, h.ForceSol)
}

func newEnv() *env.Env {
	return env.New(&env.SiteConfig{}, nil)
}

func newStore() *domstore.Store {
	return domstore.New(&seqAlloc{})
}
