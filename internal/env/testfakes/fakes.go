// Package testfakes provides minimal in-memory stand-ins for the
// external collaborators of spec §6, for use in this module's own
// tests only. The real fetchers/preprocessor/CMS integration are out of
// scope (spec §1).
package testfakes

import (
	"fmt"

	"github.com/nizambakhshi/wikidom/internal/env"
)

// PageDataAccess is a fake env.PageDataAccess backed by in-memory maps.
type PageDataAccess struct {
	Pages     map[string]env.PageInfo
	Files     map[string]env.FileInfo
	Templates map[string]map[string]interface{}
	Lints     []env.LintEntry
}

// NewPageDataAccess builds an empty fake.
func NewPageDataAccess() *PageDataAccess {
	return &PageDataAccess{
		Pages:     map[string]env.PageInfo{},
		Files:     map[string]env.FileInfo{},
		Templates: map[string]map[string]interface{}{},
	}
}

func (f *PageDataAccess) GetPageInfo(titles []string) (map[string]env.PageInfo, error) {
	out := map[string]env.PageInfo{}
	for _, t := range titles {
		if pi, ok := f.Pages[t]; ok {
			out[t] = pi
		}
	}
	return out, nil
}

func (f *PageDataAccess) GetFileInfo(files []string) (map[string]env.FileInfo, error) {
	out := map[string]env.FileInfo{}
	for _, fn := range files {
		if fi, ok := f.Files[fn]; ok {
			out[fn] = fi
		}
	}
	return out, nil
}

func (f *PageDataAccess) DoPst(wikitext string) (string, error)          { return wikitext, nil }
func (f *PageDataAccess) ParseWikitext(wikitext string) (string, error)  { return wikitext, nil }
func (f *PageDataAccess) PreprocessWikitext(wt string) (string, error)   { return wt, nil }

func (f *PageDataAccess) FetchPageContent(title string, oldid int64) (string, error) {
	if pi, ok := f.Pages[title]; ok {
		return pi.Title, nil
	}
	return "", fmt.Errorf("no such page: %s", title)
}

func (f *PageDataAccess) FetchTemplateData(title string) (map[string]interface{}, error) {
	return f.Templates[title], nil
}

func (f *PageDataAccess) LogLinterData(lints []env.LintEntry) error {
	f.Lints = append(f.Lints, lints...)
	return nil
}
