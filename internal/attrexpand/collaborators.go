package attrexpand

// Rule selects the tokenizer grammar rule used to re-tokenize a
// collapsed k=v string (spec §4.4 step 6, spec §6 "tokenizeAs").
type Rule string

const (
	RuleGenericNewlineAttributes Rule = "generic_newline_attributes"
	RuleTableAttributes          Rule = "table_attributes"
)

// Tokenizer is the narrow external-collaborator interface spec §6
// names. It is adapted here to return the resulting attribute list
// directly rather than a raw token stream: in the one place this core
// calls it (the reparse-KV scenario, spec §4.4 step 6), the caller only
// ever wants "the KVs this string parses to under rule", and a real
// wikitext tokenizer's "tokenizeAs(..., 'generic_newline_attributes',
// ...)" already returns exactly that. A nil slice with a nil error means
// the parse produced no attributes; ok=false means the grammar rejected
// the input outright (spec §6 "Tokens | null").
type Tokenizer interface {
	TokenizeAs(source string, rule Rule, sol bool) (kvs []KV, ok bool, err error)
}

// SerializeTokensFunc renders a token list back to its wikitext-ish
// string form (spec §4.4 step 6 "serialize the expanded key back to a
// string"). For plain Text/CommentTk runs this is just concatenation;
// callers with a fuller token-to-string serializer can plug it in.
type SerializeTokensFunc func(tokens []Token) string

// ExpandToDOMFunc expands a token list to an HTML fragment through the
// external pipeline (spec §4.4 "Expand each entry's html ... to an
// actual DOM fragment ... replacing html with the fragment's serialized
// representation").
type ExpandToDOMFunc func(tokens []Token) (string, error)

// DefaultSerializeTokens concatenates Text/CommentTk/NewlineTk runs and
// falls back to "<tag>" placeholders for element tokens. It is the
// expander's default SerializeTokensFunc when the host doesn't supply a
// fuller wikitext serializer.
func DefaultSerializeTokens(tokens []Token) string {
	var b []byte
	for _, t := range tokens {
		switch t.Kind {
		case Text, CommentTk:
			b = append(b, t.Text...)
		case NewlineTk:
			b = append(b, '\n')
		case TagTk, SelfclosingTagTk:
			b = append(b, '<')
			b = append(b, t.Name...)
			b = append(b, '>')
		case EndTagTk:
			b = append(b, '<', '/')
			b = append(b, t.Name...)
			b = append(b, '>')
		}
	}
	return string(b)
}
