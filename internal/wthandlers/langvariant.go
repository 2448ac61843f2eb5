package wthandlers

import (
	"encoding/json"
	"regexp"
	"sort"
	"strings"

	"golang.org/x/net/html"

	"github.com/nizambakhshi/wikidom/internal/domstore"
	"github.com/nizambakhshi/wikidom/internal/env"
	"github.com/nizambakhshi/wikidom/internal/wtxerr"
)

// variantRule is one {l, f?, t} entry of a twoway/oneway rule list
// (spec §4.6).
type variantRule struct {
	L string `json:"l"`
	F string `json:"f,omitempty"`
	T string `json:"t"`
}

// variantSingle is the body shape for disabled/name (raw, no conversion).
type variantSingle struct {
	T string `json:"t"`
}

// variantFilter restricts the span to a language list.
type variantFilter struct {
	L []string `json:"l"`
	T string   `json:"t"`
}

// dataMwVariant is the parsed data-mw-variant payload (spec §4.6).
type dataMwVariant struct {
	Filter   *variantFilter  `json:"-"`
	Disabled *variantSingle  `json:"-"`
	Name     *variantSingle  `json:"-"`
	Twoway   []variantRule   `json:"-"`
	Oneway   []variantRule   `json:"-"`
	hasFlag  map[string]bool // present top-level keys that map through LCNameMap
}

var langCodeRe = regexp.MustCompile(`^[a-z][-a-z]+$`)

func parseDataMwVariant(site *env.SiteConfig, raw string) (*dataMwVariant, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		return nil, wtxerr.Wrap(wtxerr.MalformedInput, err, "parse data-mw-variant")
	}

	v := &dataMwVariant{hasFlag: map[string]bool{}}
	if raw, ok := fields["filter"]; ok {
		v.Filter = &variantFilter{}
		if err := json.Unmarshal(raw, v.Filter); err != nil {
			return nil, wtxerr.Wrap(wtxerr.MalformedInput, err, "parse variant filter")
		}
	}
	if raw, ok := fields["disabled"]; ok {
		v.Disabled = &variantSingle{}
		_ = json.Unmarshal(raw, v.Disabled)
	}
	if raw, ok := fields["name"]; ok {
		v.Name = &variantSingle{}
		_ = json.Unmarshal(raw, v.Name)
	}
	if raw, ok := fields["twoway"]; ok {
		_ = json.Unmarshal(raw, &v.Twoway)
	}
	if raw, ok := fields["bidir"]; ok && v.Twoway == nil {
		// Legacy shape: bidir renames straight onto twoway (spec §9 open
		// question — no typo-mirroring of the source's both-sides bug).
		_ = json.Unmarshal(raw, &v.Twoway)
	}
	if raw, ok := fields["oneway"]; ok {
		_ = json.Unmarshal(raw, &v.Oneway)
	}
	if raw, ok := fields["unidir"]; ok && v.Oneway == nil {
		_ = json.Unmarshal(raw, &v.Oneway)
	}

	shapeKeys := map[string]bool{"filter": true, "disabled": true, "name": true, "twoway": true, "oneway": true, "bidir": true, "unidir": true}
	for key := range fields {
		if shapeKeys[key] {
			continue
		}
		if _, ok := site.LookupLC(key); ok {
			v.hasFlag[key] = true
		}
	}
	return v, nil
}

// buildFlagSet implements spec §4.6 step 3: translate the present
// flag-keys to their LCNameMap short forms.
func buildFlagSet(site *env.SiteConfig, v *dataMwVariant) map[string]bool {
	out := map[string]bool{}
	for key := range v.hasFlag {
		if short, ok := site.LookupLC(key); ok {
			out[short] = true
		}
	}
	return out
}

// applyImplicitFlags implements spec §4.6 step 4.
func applyImplicitFlags(n *html.Node, v *dataMwVariant, flags map[string]bool) {
	if n.Data != "meta" {
		flags["$S"] = true
	}
	if !flags["$S"] && !flags["T"] && v.Filter == nil {
		flags["H"] = true
	}
}

// canonicalizeFlags implements spec §4.6 step 5's fixed table.
// maybeDelete removes f only when f was not present in originalFlags.
func canonicalizeFlags(flags, originalFlags map[string]bool) {
	maybeDelete := func(f string) {
		if !originalFlags[f] {
			delete(flags, f)
		}
	}

	switch {
	case setEquals(flags, "$S"):
		maybeDelete("$S")
	case flags["D"] && flags["$S"] && flags["A"]:
		flags["H"] = true
		delete(flags, "A")
		maybeDelete("$S")
	case flags["D"] && !flags["$S"]:
		flags["A"] = true
		delete(flags, "H")
	case flags["T"] && flags["A"] && !flags["$S"]:
		delete(flags, "A")
		flags["H"] = true
	}
	if flags["A"] && flags["$S"] {
		maybeDelete("$S")
	}
	if flags["A"] && flags["H"] {
		maybeDelete("A")
	}
	if flags["R"] {
		maybeDelete("$S")
	}
	if flags["-"] {
		maybeDelete("H")
	}
}

func setEquals(flags map[string]bool, only string) bool {
	if len(flags) != 1 {
		return false
	}
	return flags[only]
}

// flagOrder is the fixed precedence used to linearize the canonicalized
// flag set deterministically (spec §4.6 step 6 — original-position
// tracking is approximated by this fixed order, since the RLE whitespace
// arrays carry spacing but not an independent position list).
var flagOrder = []string{"D", "A", "H", "$S", "T", "R", "-"}

func sortedFlags(flags map[string]bool) []string {
	var out []string
	for _, f := range flagOrder {
		if flags[f] {
			out = append(out, f)
		}
	}
	for f := range flags {
		found := false
		for _, known := range flagOrder {
			if f == known {
				found = true
				break
			}
		}
		if !found {
			out = append(out, f)
		}
	}
	sort.Strings(out[len(out)-countUnknown(flags):])
	return out
}

func countUnknown(flags map[string]bool) int {
	n := 0
	for f := range flags {
		known := false
		for _, k := range flagOrder {
			if f == k {
				known = true
				break
			}
		}
		if !known {
			n++
		}
	}
	return n
}

var closeBraceDashRe = regexp.MustCompile(`\}-`)

// protectBody escapes the "}-" sequence that would otherwise terminate
// the -{...}- chunk prematurely (spec §4.6 step 7).
func protectBody(s string) string {
	return closeBraceDashRe.ReplaceAllString(s, "<nowiki>}-</nowiki>")
}

// protectLangCode wraps a language code that doesn't look like a BCP-47
// style tag in <nowiki> so it round-trips literally (spec §4.6 step 7).
func protectLangCode(code string) string {
	if langCodeRe.MatchString(code) {
		return code
	}
	return "<nowiki>" + code + "</nowiki>"
}

func serializeBody(v *dataMwVariant) (string, error) {
	switch {
	case v.Filter != nil:
		langs := make([]string, len(v.Filter.L))
		for i, l := range v.Filter.L {
			langs[i] = protectLangCode(l)
		}
		return strings.Join(langs, ",") + ":" + protectBody(v.Filter.T), nil
	case v.Disabled != nil:
		return protectBody(v.Disabled.T), nil
	case v.Name != nil:
		return protectBody(v.Name.T), nil
	case v.Twoway != nil:
		parts := make([]string, len(v.Twoway))
		for i, r := range v.Twoway {
			parts[i] = protectLangCode(r.L) + ":" + protectBody(r.T)
		}
		return strings.Join(parts, ";"), nil
	case v.Oneway != nil:
		parts := make([]string, len(v.Oneway))
		for i, r := range v.Oneway {
			parts[i] = protectLangCode(r.L) + ":" + protectBody(r.F) + "=>" + protectBody(r.T)
		}
		return strings.Join(parts, ";"), nil
	default:
		return "", wtxerr.New(wtxerr.UnsupportedConstruct, "data-mw-variant has no recognized body shape")
	}
}

// langVariantHandler implements spec §4.6's full algorithm.
var langVariantHandler = Handler{
	Handle: handleLangVariant,
}

func handleLangVariant(e *env.Env, store *domstore.Store, n *html.Node) (string, bool, error) {
	raw := attrVal(n, "data-mw-variant")
	v, err := parseDataMwVariant(e.Site, raw)
	if err != nil {
		return "", false, err
	}

	originalFlags := buildFlagSet(e.Site, v)
	flags := map[string]bool{}
	for f := range originalFlags {
		flags[f] = true
	}
	applyImplicitFlags(n, v, flags)
	canonicalizeFlags(flags, originalFlags)

	bodyStr, err := serializeBody(v)
	if err != nil {
		return "", false, err
	}

	flagList := sortedFlags(flags)
	var result string
	if len(flagList) == 0 {
		result = bodyStr
	} else {
		result = strings.Join(flagList, ";") + "|" + bodyStr
	}

	dp := store.GetDataParsoid(n)
	if trailing, ok := dp.GetTmp("variantTrailingSemi"); ok {
		if b, ok := trailing.(bool); ok && b {
			result += ";"
		}
	}

	return "-{" + result + "}-", true, nil
}
