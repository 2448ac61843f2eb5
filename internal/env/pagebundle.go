package env

import (
	"regexp"

	"github.com/nizambakhshi/wikidom/internal/wtxerr"
)

// PageBundle is the persisted output JSON object spec §6 describes:
// { html, data-parsoid: {ids}, data-mw: {ids}, version }.
type PageBundle struct {
	HTML       string                 `json:"html"`
	DataParsoid PageBundleIDs         `json:"data-parsoid"`
	DataMw     PageBundleIDs          `json:"data-mw"`
	Version    string                 `json:"version"`
}

// PageBundleIDs is the {ids: {nodeId -> payload}} shape shared by the
// data-parsoid and data-mw sections of a page bundle.
type PageBundleIDs struct {
	IDs map[string]interface{} `json:"ids"`
}

var version999 = regexp.MustCompile(`^999\.`)

// ValidatePageBundle implements spec §6's validation rule: data-parsoid.ids
// is always required; data-mw.ids is required when version matches
// ^999.0.0. Returns a wtxerr.ValidationError-kinded error with no partial
// result produced, per spec §7.
func ValidatePageBundle(pb *PageBundle) error {
	if pb == nil {
		return wtxerr.New(wtxerr.ValidationError, "page bundle is nil")
	}
	if pb.DataParsoid.IDs == nil {
		return wtxerr.New(wtxerr.ValidationError, "data-parsoid.ids is required")
	}
	if version999.MatchString(pb.Version) && pb.DataMw.IDs == nil {
		return wtxerr.New(wtxerr.ValidationError, "data-mw.ids is required for version "+pb.Version)
	}
	return nil
}

// ContentTypeProfile builds the profile parameter content-types carry,
// naming the spec URL for version (spec §6 "Content-types carry a
// profile parameter naming the spec URL with the version").
func ContentTypeProfile(specBaseURL, version string) string {
	return "https://www.mediawiki.org/wiki/Specs/" + specBaseURL + "/" + version
}
