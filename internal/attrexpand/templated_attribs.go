package attrexpand

import (
	"encoding/json"

	"github.com/nizambakhshi/wikidom/internal/domstore"
	"github.com/nizambakhshi/wikidom/internal/wtxerr"
)

// EncodeTemplatedAttribs serializes the attribs payload spec §4.4's
// "after all attributes processed" step builds into the JSON text a
// data-mw.attribs value (or a stashed data-parsoid.tmp.templatedAttribs
// value, for the "template" token case) carries on the wire.
func EncodeTemplatedAttribs(attribs []domstore.AttribPair) (string, error) {
	raw, err := json.Marshal(attribs)
	if err != nil {
		return "", wtxerr.Wrap(wtxerr.InvariantViolation, err, "encode templated attribs")
	}
	return string(raw), nil
}

// DecodeTemplatedAttribs is EncodeTemplatedAttribs's inverse, for a
// consumer such as the template handler (external, out of scope) that
// needs to read back a templatedAttribs payload that arrived as wire
// text rather than as an already-decoded Go slice. Nothing else in this
// module calls it.
func DecodeTemplatedAttribs(raw string) ([]domstore.AttribPair, error) {
	if raw == "" {
		return nil, nil
	}
	var attribs []domstore.AttribPair
	if err := json.Unmarshal([]byte(raw), &attribs); err != nil {
		return nil, wtxerr.Wrap(wtxerr.MalformedInput, err, "decode templated attribs")
	}
	return attribs, nil
}
