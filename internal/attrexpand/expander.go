package attrexpand

import (
	"encoding/json"
	"strings"

	"github.com/nizambakhshi/wikidom/internal/domstore"
	"github.com/nizambakhshi/wikidom/internal/env"
	"github.com/nizambakhshi/wikidom/internal/wtxerr"
)

// tableSyntaxTagNames are the tags for which wikitext pipe-syntax
// newlines are significant (spec §4.4 step 3).
var tableSyntaxTagNames = map[string]bool{
	"table": true, "tr": true, "td": true, "th": true,
	"caption": true, "tbody": true, "thead": true, "tfoot": true,
}

func isHTMLStx(tok Token) bool {
	return tok.DataAttribs != nil && tok.DataAttribs.Stx == "html"
}

func isTableSyntaxTag(tok Token) bool {
	return tableSyntaxTagNames[tok.Name] && !isHTMLStx(tok)
}

// OnAnyResult is the Attribute Expander's public return shape (spec
// §4.4 "Return").
type OnAnyResult struct {
	Tokens []Token
	Retry  bool
}

// RetryCap bounds how many times the token manager re-submits the
// expander's output to itself before the caller should treat it as an
// ExpansionLimit (spec §9 "Token-stream re-entry", default 40).
const RetryCap = 40

// Expander implements the Attribute Expander (spec §4.4, component C4).
type Expander struct {
	Env             *env.Env
	Frame           *env.Frame
	Tokenizer       Tokenizer
	SerializeTokens SerializeTokensFunc
	ExpandToDOM     ExpandToDOMFunc
}

// New builds an Expander. serializeTokens/expandToDOM/tokenizer may be
// nil; a nil SerializeTokens falls back to DefaultSerializeTokens, and a
// nil Tokenizer simply disables the reparse-KV scenario (step 6 becomes
// a no-op, which is always a safe approximation since the attribute is
// simply left as-is).
func New(e *env.Env, frame *env.Frame, tok Tokenizer, serialize SerializeTokensFunc, expandToDOM ExpandToDOMFunc) *Expander {
	if serialize == nil {
		serialize = DefaultSerializeTokens
	}
	return &Expander{Env: e, Frame: frame, Tokenizer: tok, SerializeTokens: serialize, ExpandToDOM: expandToDOM}
}

// pairAccum is the per-attribute provenance captured during processing,
// kept in original attribute order (spec §4.4 step 8's intent; built as
// a slice rather than the keyed scratch map the source describes, since
// Go preserves slice order for free).
type pairAccum struct {
	pair domstore.AttribPair
	kTok []Token // original (pre-strip) key tokens, for html fragment expansion
	vTok []Token // original (pre-strip) value tokens
}

// OnAny is the Attribute Expander's public operation (spec §4.4). It is
// invoked once per token in the stream.
func (e *Expander) OnAny(tok Token) (OnAnyResult, error) {
	if isPassthroughToken(tok) {
		return OnAnyResult{Tokens: []Token{tok}}, nil
	}

	var allHoisted []Token
	var allPostNL []Token
	var accum []pairAccum

	for i := range tok.Attribs {
		kv := &tok.Attribs[i]
		hoisted, postNL, pa, err := e.processAttribute(kv, &tok)
		if err != nil {
			return OnAnyResult{}, err
		}
		allHoisted = append(allHoisted, hoisted...)
		allPostNL = append(allPostNL, postNL...)
		if pa != nil {
			accum = append(accum, *pa)
		}
	}

	if len(accum) > 0 {
		if _, hasAbout := tok.Attr("about"); !hasAbout {
			if err := e.finalizeTemplatedAttribs(&tok, accum); err != nil {
				return OnAnyResult{}, err
			}
		}
	}

	out := make([]Token, 0, len(allHoisted)+1+len(allPostNL))
	out = append(out, allHoisted...)
	out = append(out, tok)
	out = append(out, allPostNL...)

	return OnAnyResult{Tokens: out, Retry: len(allHoisted) > 0}, nil
}

// processAttribute runs spec §4.4 steps 1-8 for a single KV, mutating kv
// in place (the expanded/reparsed key and value) and returning any metas
// hoisted ahead of the element, tokens to emit after it, and the
// provenance record for data-mw.attribs (nil if no stripping/reparsing
// happened on either side).
func (e *Expander) processAttribute(kv *KV, tok *Token) (hoisted, postNL []Token, pa *pairAccum, err error) {
	origKTokens, kIsTokens := AsTokens(kv.K)
	origVTokens, vIsTokens := AsTokens(kv.V)

	strippedK, strippedV := false, false

	if kIsTokens {
		remaining, h, p, stripped, _ := e.processSide(origKTokens, *tok)
		hoisted = append(hoisted, h...)
		postNL = append(postNL, p...)
		strippedK = stripped

		if isEmptyValue(kv.V) {
			if reparsed, ok, rerr := e.maybeReparseKV(remaining, *tok); rerr != nil {
				return nil, nil, nil, rerr
			} else if ok {
				return e.substituteReparsed(tok, kv, reparsed, hoisted, postNL)
			}
		}
		kv.K = collapseIfPlainText(remaining)
	}

	if vIsTokens {
		remaining, h, p, stripped, _ := e.processSide(origVTokens, *tok)
		// Value-side hoists/postNL are spec'd identically to key-side
		// (spec §4.4 step 7: "Repeat steps 3-5 for the attribute's value").
		hoisted = append(hoisted, h...)
		postNL = append(postNL, p...)
		strippedV = stripped
		kv.V = collapseIfPlainText(remaining)
	}

	if strippedK || strippedV {
		pa = &pairAccum{
			pair: domstore.AttribPair{
				K: provenanceFor(kv.KSrc, origKTokens, kIsTokens),
				V: provenanceFor(kv.VSrc, origVTokens, vIsTokens),
			},
			kTok: origKTokens,
			vTok: origVTokens,
		}
	}
	return hoisted, postNL, pa, nil
}

// processSide implements spec §4.4 steps 3-5 for one side (key or
// value) of an attribute.
func (e *Expander) processSide(tokens []Token, tok Token) (remaining, hoisted, postNL []Token, stripped, hasGenerated bool) {
	nlPos := findNlPos(tokens, isHTMLStx(tok), isTableSyntaxTag(tok))
	if nlPos >= 0 {
		preNL := tokens[:nlPos]
		postNL = tokens[nlPos:]

		if firstIdx := findFirstEncapMeta(preNL); firstIdx >= 0 {
			meta := preNL[firstIdx]
			e.prepareHoistedMeta(&meta, tok)
			hoisted = []Token{meta}
		}

		filtered, strippedAny := stripEncapMetas(preNL)
		remaining = filtered
		stripped = strippedAny

		if tok.DataAttribs != nil {
			tok.DataAttribs.SetTmp("firstWikitextNode", strings.ToUpper(tok.Name)+tok.DataAttribs.Stx)
		}
		return remaining, hoisted, postNL, stripped, false
	}

	remaining, stripped = stripEncapMetas(tokens)
	return remaining, nil, nil, stripped, stripped
}

// prepareHoistedMeta implements spec §4.4 step 4's hoisting bookkeeping:
// the hoisted meta's tsr.start becomes the element's tsr.start, and its
// data-parsoid.unwrappedWT records the source between the element's
// start and the meta's original start.
func (e *Expander) prepareHoistedMeta(meta *Token, tok Token) {
	if meta.DataAttribs == nil {
		meta.DataAttribs = &DataAttribs{}
	}
	if tok.DataAttribs == nil || tok.DataAttribs.Tsr == nil {
		return
	}
	elemStart := tok.DataAttribs.Tsr[0]
	originalMetaStart := elemStart
	if meta.DataAttribs.Tsr != nil {
		originalMetaStart = meta.DataAttribs.Tsr[0]
		meta.DataAttribs.Tsr[0] = elemStart
	} else {
		meta.DataAttribs.Tsr = &[2]int{elemStart, elemStart}
	}
	if e.Frame != nil {
		meta.DataAttribs.SetTmp("unwrappedWT", e.Frame.Substring(elemStart, originalMetaStart))
	}
}

// maybeReparseKV implements spec §4.4 step 6.
func (e *Expander) maybeReparseKV(kTokens []Token, tok Token) ([]KV, bool, error) {
	if e.Tokenizer == nil {
		return nil, false, nil
	}
	str := strings.TrimSpace(e.SerializeTokens(kTokens))
	if !strings.Contains(str, "=") {
		return nil, false, nil
	}
	rule := RuleGenericNewlineAttributes
	if isTableSyntaxTag(tok) {
		rule = RuleTableAttributes
	}
	kvs, ok, err := e.Tokenizer.TokenizeAs(str, rule, false)
	if err != nil {
		return nil, false, wtxerr.Wrap(wtxerr.MalformedInput, err, "reparse-kv tokenize")
	}
	if !ok || len(kvs) == 0 {
		return nil, false, nil
	}
	return kvs, true, nil
}

// substituteReparsed handles the reparse-KV scenario's substitution:
// the current attribute is replaced by the KVs the retokenize produced.
// Only the first is returned through kv (in place); additional KVs are
// appended to tok.Attribs immediately after. Per SPEC_FULL's open
// question decision, the value side's HTML provenance is recorded as a
// non-nil empty string, not left nil, to mark "no independent
// provenance" explicitly.
func (e *Expander) substituteReparsed(tok *Token, kv *KV, reparsed []KV, hoisted, postNL []Token) (hoisted2, postNL2 []Token, pa *pairAccum, err error) {
	*kv = reparsed[0]
	if len(reparsed) > 1 {
		idx := indexOfKV(tok.Attribs, kv)
		if idx >= 0 {
			tail := append([]KV{}, tok.Attribs[idx+1:]...)
			tok.Attribs = append(tok.Attribs[:idx+1], append(reparsed[1:], tail...)...)
		}
	}
	empty := ""
	pa = &pairAccum{
		pair: domstore.AttribPair{
			K: domstore.KVProvenance{Txt: e.SerializeTokens(nil), HTML: &empty},
			V: domstore.KVProvenance{HTML: &empty},
		},
	}
	return hoisted, postNL, pa, nil
}

func indexOfKV(attribs []KV, target *KV) int {
	for i := range attribs {
		if &attribs[i] == target {
			return i
		}
	}
	return -1
}

// finalizeTemplatedAttribs implements spec §4.4's "After all attributes
// processed" block.
func (e *Expander) finalizeTemplatedAttribs(tok *Token, accum []pairAccum) error {
	attribs := make([]domstore.AttribPair, 0, len(accum))
	for _, pa := range accum {
		pair := pa.pair
		if e.ExpandToDOM != nil {
			if pa.kTok != nil && pair.K.HTML != nil && *pair.K.HTML != "" {
				frag, err := e.ExpandToDOM(pa.kTok)
				if err != nil {
					return wtxerr.Wrap(wtxerr.ExpansionLimit, err, "expand templated key to dom")
				}
				pair.K.HTML = &frag
			}
			if pa.vTok != nil && pair.V.HTML != nil && *pair.V.HTML != "" {
				frag, err := e.ExpandToDOM(pa.vTok)
				if err != nil {
					return wtxerr.Wrap(wtxerr.ExpansionLimit, err, "expand templated value to dom")
				}
				pair.V.HTML = &frag
			}
		}
		attribs = append(attribs, pair)
	}

	if tok.Name == "template" {
		if tok.DataAttribs == nil {
			tok.DataAttribs = &DataAttribs{}
		}
		tok.DataAttribs.SetTmp("templatedAttribs", attribs)
		return nil
	}

	about := e.Env.NewAboutId()
	tok.SetAttr("about", about)
	tok.AddTypeofSpaceToken("mw:ExpandedAttrs")

	mw := domstore.DataMw{Attribs: attribs}
	raw, err := json.Marshal(mw)
	if err != nil {
		return wtxerr.Wrap(wtxerr.InvariantViolation, err, "marshal expanded-attrs data-mw")
	}
	tok.SetAttr("data-mw", string(raw))
	return nil
}

func provenanceFor(src *string, tokens []Token, wasTokens bool) domstore.KVProvenance {
	if !wasTokens {
		txt := ""
		if src != nil {
			txt = *src
		}
		return domstore.KVProvenance{Txt: txt}
	}
	html := DefaultSerializeTokens(tokens)
	return domstore.KVProvenance{HTML: &html}
}

func collapseIfPlainText(tokens []Token) interface{} {
	if len(tokens) == 1 && tokens[0].Kind == Text {
		return tokens[0].Text
	}
	if len(tokens) == 0 {
		return ""
	}
	return tokens
}

func isEmptyValue(v interface{}) bool {
	switch val := v.(type) {
	case nil:
		return true
	case string:
		return val == ""
	case []Token:
		return len(val) == 0
	}
	return false
}
