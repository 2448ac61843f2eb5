package env

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// MagicWord is one entry of the site's magic-word table (spec §4.5 step 2).
// Aliases are the surface wikitext forms; the first alias is the
// canonical wikitext (see CanonicalSrc) the meta handler re-emits when no
// dp.magicSrc is stored.
type MagicWord struct {
	Name      string   `mapstructure:"name"`
	Aliases   []string `mapstructure:"aliases"`
	CaseFold  bool     `mapstructure:"caseFold"`
}

// pagePropMasqSet are the "magic masq" page-props the meta handler treats
// as {{PAGEPROP:content}}-style templates rather than plain magic words
// (spec §4.5 step 2).
var pagePropMasqSet = map[string]bool{
	"defaultsort":   true,
	"displaytitle":  true,
}

// SiteConfig is the read-only, process-wide configuration named in spec
// §5/§6: the magic-word table and the LCNameMap source of truth for the
// language-variant handler (spec §4.6 step 3).
type SiteConfig struct {
	MagicWords map[string]MagicWord `mapstructure:"magicWords"`
	LCNameMap  map[string]string    `mapstructure:"lcNameMap"`
}

// DefaultLCNameMap is the fixed domain constant spec §4.6 step 3 names:
// describe→D, add→A, hidden→H, showflag→$S, title→T, remove→R, -→-.
func DefaultLCNameMap() map[string]string {
	return map[string]string{
		"describe": "D",
		"add":      "A",
		"hidden":   "H",
		"showflag": "$S",
		"title":    "T",
		"remove":   "R",
		"-":        "-",
	}
}

// IsMagicMasq reports whether X (the page-prop suffix after mw:PageProp/)
// belongs to the "magic masq" set of spec §4.5 step 2.
func IsMagicMasq(x string) bool {
	return pagePropMasqSet[x]
}

// LoadSiteConfig loads a SiteConfig from path (json/yaml/toml, by
// extension) using viper, filling in DefaultLCNameMap when the file omits
// lcNameMap entirely.
func LoadSiteConfig(path string) (*SiteConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrap(err, "read site config")
	}
	var cfg SiteConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "unmarshal site config")
	}
	if len(cfg.LCNameMap) == 0 {
		cfg.LCNameMap = DefaultLCNameMap()
	}
	if cfg.MagicWords == nil {
		cfg.MagicWords = map[string]MagicWord{}
	}
	return &cfg, nil
}

// CanonicalSrc returns the canonical wikitext source for magic word name,
// e.g. "__NOTOC__" style forms, using the first alias as the surface
// form. Returns "" if name is not in the table.
func (s *SiteConfig) CanonicalSrc(name string) string {
	mw, ok := s.MagicWords[name]
	if !ok || len(mw.Aliases) == 0 {
		return ""
	}
	return mw.Aliases[0]
}

// LookupLC resolves a data-mw-variant key to its short flag form via
// LCNameMap, falling back to the defaults if the site config is nil or
// doesn't carry an entry.
func (s *SiteConfig) LookupLC(key string) (string, bool) {
	if s != nil {
		if v, ok := s.LCNameMap[key]; ok {
			return v, true
		}
	}
	v, ok := DefaultLCNameMap()[key]
	return v, ok
}

func (mw MagicWord) String() string {
	return fmt.Sprintf("MagicWord(%s, aliases=%v)", mw.Name, mw.Aliases)
}
