// Package domdiff implements the DOM Diff (spec §4.3, component C3): it
// compares an old and a new DOM tree and attaches diff marks (tracked in
// the DOM Data Store) to the new tree's nodes, so a selective serializer
// can decide per-subtree whether to reuse original source text.
package domdiff

import (
	"golang.org/x/net/html"

	"github.com/nizambakhshi/wikidom/internal/domstore"
)

func attrVal(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// identityKey is the pairing key spec §4.3 step 1 describes: tag name
// plus a designated identity (dpi, or about for encapsulation wrappers),
// falling back to pure positional pairing when neither is present.
type identityKey struct {
	tag    string
	ident  string
	hasKey bool
}

func keyFor(store *domstore.Store, n *html.Node) identityKey {
	if n.Type != html.ElementNode {
		return identityKey{tag: "#text"}
	}
	dp := store.GetDataParsoid(n)
	if dp.Dpi != "" {
		return identityKey{tag: n.Data, ident: "dpi:" + dp.Dpi, hasKey: true}
	}
	if about := attrVal(n, "about"); about != "" {
		return identityKey{tag: n.Data, ident: "about:" + about, hasKey: true}
	}
	return identityKey{tag: n.Data}
}
