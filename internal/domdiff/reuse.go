package domdiff

import (
	"golang.org/x/net/html"

	"github.com/nizambakhshi/wikidom/internal/domstore"
)

// IsReusable reports whether node's original source text can be reused
// verbatim by a selective serializer, rather than regenerated from the
// DOM (spec §4.3 "Result marks are consumed by the selective serializer
// ... to decide subtree reuse"). A node is reusable when it carries no
// diff marks at all; modified-wrapper nodes are reusable for everything
// below them (their content is opaque) but not for the wrapper's own
// attributes, so callers that need that finer distinction should check
// GetDiffMarks directly instead.
func IsReusable(store *domstore.Store, node *html.Node) bool {
	return store.GetDiffMarks(node) == 0
}
