package wthandlers

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"

	"github.com/nizambakhshi/wikidom/internal/domstore"
	"github.com/nizambakhshi/wikidom/internal/env"
)

var includeDefaultTags = map[string]string{
	"IncludeOnly": "includeonly",
	"NoInclude":   "noinclude",
	"OnlyInclude": "onlyinclude",
}

var noopTypeofs = map[string]bool{
	"mw:DiffMarker/inserted": true,
	"mw:DiffMarker/deleted":  true,
	"mw:DiffMarker/moved":    true,
	"mw:Separator":           true,
}

func typeofTokens(n *html.Node) []string {
	return strings.Fields(attrVal(n, "typeof"))
}

func hasTypeofPrefix(n *html.Node, prefix string) bool {
	for _, tok := range typeofTokens(n) {
		if tok == prefix || strings.HasPrefix(tok, prefix+"/") {
			return true
		}
	}
	return false
}

func hasTypeofExact(n *html.Node, exact string) bool {
	for _, tok := range typeofTokens(n) {
		if tok == exact {
			return true
		}
	}
	return false
}

func pagePropX(n *html.Node) (string, bool) {
	p := attrVal(n, "property")
	const prefix = "mw:PageProp/"
	if !strings.HasPrefix(p, prefix) {
		return "", false
	}
	return p[len(prefix):], true
}

// metaHandler implements the meta-tag decision tree of spec §4.5.
var metaHandler = Handler{
	Handle:   handleMeta,
	Before:   metaBefore,
	After:    metaAfter,
	ForceSol: true,
}

func handleMeta(e *env.Env, store *domstore.Store, n *html.Node) (string, bool, error) {
	dp := store.GetDataParsoid(n)
	dmw := store.GetDataMw(n)

	// Step 1: verbatim placeholder source.
	if dp.Src != "" && hasTypeofPrefix(n, "mw:Placeholder") {
		return dp.Src, true, nil
	}

	// Step 2: page-prop magic words.
	if x, ok := pagePropX(n); ok {
		return handlePageProp(e, store, n, dp, x)
	}

	// Step 3: include-segment markers.
	if out, handled := handleIncludeMarker(n, dp, dmw); handled {
		return out, true, nil
	}

	// Step 4: silent diff/separator markers.
	for _, tok := range typeofTokens(n) {
		if noopTypeofs[tok] {
			return "", true, nil
		}
	}

	// Step 5: fall through to the generic handler.
	return "", false, nil
}

func handlePageProp(e *env.Env, store *domstore.Store, n *html.Node, dp *domstore.DataParsoid, x string) (string, bool, error) {
	if env.IsMagicMasq(x) {
		content := attrVal(n, "content")
		if hasTypeofExact(n, "mw:ExpandedAttrs") {
			return "{{" + content + "}}", true, nil
		}
		if dp.Src != "" {
			if idx := strings.Index(dp.Src, ":"); idx >= 0 {
				return dp.Src[:idx+1] + content + "}}", true, nil
			}
		}
		e.Warnf("meta-pageprop-no-src", "page-prop %s has no data-parsoid.src; synthesizing canonical form", x)
		return "{{" + strings.ToUpper(x) + ":" + content + "}}", true, nil
	}

	if dp.MagicSrc != "" {
		return dp.MagicSrc, true, nil
	}
	if e.Site != nil {
		if src := e.Site.CanonicalSrc(x); src != "" {
			return src, true, nil
		}
	}
	return fmt.Sprintf("__%s__", strings.ToUpper(x)), true, nil
}

func handleIncludeMarker(n *html.Node, dp *domstore.DataParsoid, dmw *domstore.DataMw) (string, bool) {
	for name, tag := range includeDefaultTags {
		base := "mw:Includes/" + name
		if hasTypeofExact(n, base) {
			return includeSrc(dp, dmw, "<"+tag+">"), true
		}
		if hasTypeofExact(n, base+"/End") {
			if name == "IncludeOnly" {
				return "", true
			}
			return includeSrc(dp, dmw, "</"+tag+">"), true
		}
	}
	return "", false
}

func includeSrc(dp *domstore.DataParsoid, dmw *domstore.DataMw, fallback string) string {
	if dmw != nil && dmw.Body != nil && dmw.Body.ExtSrc != nil && *dmw.Body.ExtSrc != "" {
		return *dmw.Body.ExtSrc
	}
	if dp.Src != "" {
		return dp.Src
	}
	return fallback
}

// metaBefore/metaAfter implement spec §4.5's "Before/after spacing"
// margin contract.
func metaBefore(store *domstore.Store, n, prevSibling *html.Node) SpacingReq {
	prop, _ := pagePropX(n)
	if prop == "categorydefaultsort" {
		if prevSibling != nil && prevSibling.Type == html.ElementNode && prevSibling.Data == "p" && !isHTMLStx(store, prevSibling) {
			return SpacingReq{Min: 2}
		}
		return SpacingReq{Min: 1}
	}
	if isNewlyInserted(store, n) && !hasTypeofPrefix(n, "mw:Placeholder") {
		return SpacingReq{Min: 1}
	}
	return SpacingReq{}
}

func metaAfter(store *domstore.Store, n *html.Node) SpacingReq {
	if isNewlyInserted(store, n) && !hasTypeofPrefix(n, "mw:Placeholder") {
		return SpacingReq{Min: 1}
	}
	return SpacingReq{}
}

func isNewlyInserted(store *domstore.Store, n *html.Node) bool {
	return store.GetDiffMarks(n).Has(domstore.MarkInserted)
}

func isHTMLStx(store *domstore.Store, n *html.Node) bool {
	return store.GetDataParsoid(n).Stx == "html"
}
