package htmlserializer

// voidElements is the fixed void-element set spec §4.1 names; these are
// self-closed (<br/>) rather than given an explicit end tag.
var voidElements = map[string]bool{
	"area": true, "base": true, "basefont": true, "bgsound": true,
	"br": true, "col": true, "command": true, "embed": true,
	"frame": true, "hr": true, "img": true, "input": true,
	"keygen": true, "link": true, "meta": true, "param": true,
	"source": true, "track": true, "wbr": true,
}

// rawContentElements is the fixed set whose single text child is
// emitted verbatim, with no entity escaping (spec §4.1).
var rawContentElements = map[string]bool{
	"style": true, "script": true, "xmp": true, "iframe": true,
	"noembed": true, "noframes": true, "plaintext": true, "noscript": true,
}

// newlineStrippingElements re-parse with a leading newline stripped by
// the HTML5 tree construction algorithm; the serializer must re-emit an
// extra leading newline to preserve it across re-parse (spec §4.1).
var newlineStrippingElements = map[string]bool{
	"pre": true, "textarea": true, "listing": true,
}

func isVoid(tag string) bool             { return voidElements[tag] }
func isRawContent(tag string) bool       { return rawContentElements[tag] }
func isNewlineStripping(tag string) bool { return newlineStrippingElements[tag] }
