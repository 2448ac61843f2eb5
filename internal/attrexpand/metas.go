package attrexpand

import "regexp"

// encapMetaTypeof matches the encapsulation meta markers that must never
// survive inside an element's attributes after this pass (spec §4.4
// invariant, spec §8 "After C4" testable property).
var encapMetaTypeof = regexp.MustCompile(`^mw:(Transclusion|Param|Includes)`)

// passthroughTypeof matches the reserved set of meta typeofs this pass
// always lets through untouched (spec §4.4 "Public operation").
var passthroughTypeof = regexp.MustCompile(`^mw:(TSRMarker|Placeholder|Transclusion|Param|Includes)`)

var includeSegmentTags = map[string]bool{
	"includeonly": true, "noinclude": true, "onlyinclude": true,
}

func isEncapMeta(t Token) bool {
	if t.Name != "meta" {
		return false
	}
	typeofVal, _ := t.Attr("typeof")
	return encapMetaTypeof.MatchString(typeofVal)
}

// isPassthroughToken reports whether tok should bypass expansion
// entirely: no attributes, or a reserved-typeof meta (spec §4.4).
func isPassthroughToken(tok Token) bool {
	if !tok.HasAttribs() {
		return true
	}
	if tok.Name == "meta" {
		typeofVal, _ := tok.Attr("typeof")
		if passthroughTypeof.MatchString(typeofVal) {
			return true
		}
	}
	return false
}

// findNlPos returns the index of the first NewlineTk in tokens that is
// not inside an <includeonly>-style segment, or -1 if newlines are
// permitted for this context: HTML tags and non-table-syntax tags
// always permit newlines in their attributes (spec §4.4 step 3).
func findNlPos(tokens []Token, isHTMLTag, isTableSyntax bool) int {
	if isHTMLTag || !isTableSyntax {
		return -1
	}
	depth := 0
	for i, t := range tokens {
		switch t.Kind {
		case TagTk:
			if includeSegmentTags[t.Name] {
				depth++
			}
		case EndTagTk:
			if includeSegmentTags[t.Name] && depth > 0 {
				depth--
			}
		case NewlineTk:
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// findFirstEncapMeta returns the index of the first encapsulation meta
// in tokens, or -1 if none.
func findFirstEncapMeta(tokens []Token) int {
	for i, t := range tokens {
		if isEncapMeta(t) {
			return i
		}
	}
	return -1
}

// stripEncapMetas removes every encapsulation meta from tokens,
// returning the filtered slice and whether anything was removed (spec
// §4.4 step 5 "Scenario 2").
func stripEncapMetas(tokens []Token) ([]Token, bool) {
	out := make([]Token, 0, len(tokens))
	stripped := false
	for _, t := range tokens {
		if isEncapMeta(t) {
			stripped = true
			continue
		}
		out = append(out, t)
	}
	return out, stripped
}
