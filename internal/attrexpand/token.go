// Package attrexpand implements the Attribute Expander (spec §4.4,
// component C4): it rewrites token attributes whose keys or values are
// produced by template expansion, hoists encapsulation markers out of
// element attributes, and records template provenance in data-mw.
package attrexpand

// Kind discriminates the token shapes spec §3.1 names.
type Kind int

const (
	Text Kind = iota
	TagTk
	EndTagTk
	SelfclosingTagTk
	NewlineTk
	CommentTk
	EOFTk
)

// DataAttribs is the source-range bookkeeping spec §3.1 attaches to
// Tag/EndTag/SelfclosingTag tokens: tsr=[start,end] byte offsets in the
// frame's source, plus optional stx/src and a scratch Tmp map.
type DataAttribs struct {
	Tsr *[2]int
	Stx string
	Src string
	Tmp map[string]interface{}
}

// SetTmp writes a scratch Tmp entry, allocating the map if needed.
func (d *DataAttribs) SetTmp(key string, value interface{}) {
	if d.Tmp == nil {
		d.Tmp = map[string]interface{}{}
	}
	d.Tmp[key] = value
}

// GetTmp reads a scratch Tmp entry.
func (d *DataAttribs) GetTmp(key string) (interface{}, bool) {
	if d == nil || d.Tmp == nil {
		return nil, false
	}
	v, ok := d.Tmp[key]
	return v, ok
}

// KVOffsets is the pair of source ranges spec §3.2 attaches to a KV:
// srcOffsets = {key: [s,e], value: [s,e]}.
type KVOffsets struct {
	Key   [2]int
	Value [2]int
}

// KV is the attribute record spec §3.2 describes. K and V may each be
// either a plain string or a token list (for templated/nested content);
// use AsTokens/AsString to discriminate.
type KV struct {
	K interface{} // string or []Token
	V interface{} // string or []Token

	KSrc       *string
	VSrc       *string
	SrcOffsets *KVOffsets
}

// AsTokens returns v as a token list if it is one.
func AsTokens(v interface{}) ([]Token, bool) {
	toks, ok := v.([]Token)
	return toks, ok
}

// AsString returns v as a plain string if it is one.
func AsString(v interface{}) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

// Token is the tagged union spec §3.1 describes. Only the fields
// relevant to a given Kind are populated; e.g. Text/CommentTk use Text,
// Tag/EndTag/SelfclosingTag use Name/Attribs/DataAttribs.
type Token struct {
	Kind        Kind
	Name        string // tag name, lower-cased
	Text        string // for Text, CommentTk
	Attribs     []KV   // for TagTk, SelfclosingTagTk, EndTagTk
	DataAttribs *DataAttribs
}

// HasAttribs reports whether the token carries any KV pairs at all —
// the fast-path pass-through test of spec §4.4's "Public operation".
func (t Token) HasAttribs() bool {
	return len(t.Attribs) > 0
}

// Attr looks up the first attribute whose key is the plain string name,
// returning its value as a string (templated keys never match by
// design: only already-expanded plain-string keys are addressable this
// way, which is exactly what callers need for "about"/"typeof").
func (t Token) Attr(name string) (string, bool) {
	for _, kv := range t.Attribs {
		if k, ok := AsString(kv.K); ok && k == name {
			if v, ok := AsString(kv.V); ok {
				return v, true
			}
			return "", true
		}
	}
	return "", false
}

// SetAttr sets (or adds) a plain-string attribute.
func (t *Token) SetAttr(name, value string) {
	for i, kv := range t.Attribs {
		if k, ok := AsString(kv.K); ok && k == name {
			t.Attribs[i].V = value
			return
		}
	}
	t.Attribs = append(t.Attribs, KV{K: name, V: value})
}

// AddTypeofSpaceToken appends typeofValue to the token's space-separated
// "typeof" attribute, creating it if absent (spec §4.4 "add typeof
// space-token mw:ExpandedAttrs").
func (t *Token) AddTypeofSpaceToken(typeofValue string) {
	existing, ok := t.Attr("typeof")
	if !ok || existing == "" {
		t.SetAttr("typeof", typeofValue)
		return
	}
	t.SetAttr("typeof", existing+" "+typeofValue)
}
