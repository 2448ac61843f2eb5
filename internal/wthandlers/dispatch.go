// Package wthandlers implements the html2wt serializer handlers for
// <meta> elements (spec §4.5, component C5a) and language-variant spans
// (spec §4.6, component C5b), dispatched through a capability-record
// table keyed by element name rather than per-tag types (spec §9
// "Dynamic dispatch across handlers").
package wthandlers

import (
	"golang.org/x/net/html"

	"github.com/nizambakhshi/wikidom/internal/domstore"
	"github.com/nizambakhshi/wikidom/internal/env"
)

// SpacingReq is a handler's newline-budget request to the surrounding
// serializer (spec §4.5 "Before/after spacing").
type SpacingReq struct {
	Min int
}

// Handler is the capability record spec §9 names: {handle, before,
// after, forceSol?}. Handle reports ok=false when the element's shape
// doesn't match this handler's cases, signaling the caller to fall
// through to the generic HTML handler (spec §4.5 step 5).
type Handler struct {
	Handle   func(e *env.Env, store *domstore.Store, n *html.Node) (out string, ok bool, err error)
	Before   func(store *domstore.Store, n, prevSibling *html.Node) SpacingReq
	After    func(store *domstore.Store, n *html.Node) SpacingReq
	ForceSol bool
}

// table is keyed by element name; elements not present here always fall
// through to the generic handler.
var table = map[string]Handler{
	"meta": metaHandler,
}

// Dispatch selects the handler for n: the language-variant handler takes
// priority whenever data-mw-variant is present (it can decorate any
// element, not just <meta>), then the per-tag table, and finally ok=false
// to signal the generic fallback.
func Dispatch(n *html.Node) (Handler, bool) {
	if attrVal(n, "data-mw-variant") != "" {
		return langVariantHandler, true
	}
	h, ok := table[n.Data]
	return h, ok
}

func attrVal(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
