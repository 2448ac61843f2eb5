package wthandlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nizambakhshi/wikidom/internal/domstore"
	"github.com/nizambakhshi/wikidom/internal/env"
)

// TestPlaceholderEmitsVerbatimSource pins spec §8 scenario 5: an
// unexpandable construct wrapped as mw:Placeholder round-trips its
// stored source literally.
func TestPlaceholderEmitsVerbatimSource(t *testing.T) {
	n := parseMeta(t, `typeof="mw:Placeholder"`)
	store := newStore()
	store.GetDataParsoid(n).Src = "[[X"

	out, ok, err := handleMeta(newEnv(), store, n)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "[[X", out)
}

func TestPagePropMagicMasqUsesExpandedAttrsContent(t *testing.T) {
	n := parseMeta(t, `property="mw:PageProp/defaultsort" content="Sort Key" typeof="mw:ExpandedAttrs"`)
	store := newStore()

	out, ok, err := handleMeta(newEnv(), store, n)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "{{Sort Key}}", out)
}

func TestPagePropMagicMasqFallsBackToSrcPrefix(t *testing.T) {
	n := parseMeta(t, `property="mw:PageProp/defaultsort" content="Sort Key"`)
	store := newStore()
	store.GetDataParsoid(n).Src = "{{DEFAULTSORT:old}}"

	out, ok, err := handleMeta(newEnv(), store, n)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "{{DEFAULTSORT:Sort Key}}", out)
}

func TestPagePropMagicWordUsesCanonicalSrc(t *testing.T) {
	n := parseMeta(t, `property="mw:PageProp/notoc"`)
	store := newStore()
	e := env.New(&env.SiteConfig{
		MagicWords: map[string]env.MagicWord{
			"notoc": {Name: "notoc", Aliases: []string{"__NOTOC__"}},
		},
	}, nil)

	out, ok, err := handleMeta(e, store, n)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "__NOTOC__", out)
}

func TestPagePropMagicWordPrefersStoredMagicSrc(t *testing.T) {
	n := parseMeta(t, `property="mw:PageProp/notoc"`)
	store := newStore()
	store.GetDataParsoid(n).MagicSrc = "__NOTOC__"

	out, ok, err := handleMeta(newEnv(), store, n)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "__NOTOC__", out)
}

func TestIncludeOnlyOpenTagUsesExtSrc(t *testing.T) {
	n := parseMeta(t, `typeof="mw:Includes/IncludeOnly"`)
	store := newStore()
	src := "<includeonly>"
	store.SetDataMw(n, &domstore.DataMw{Body: &domstore.DataMwBody{ExtSrc: &src}})

	out, ok, err := handleMeta(newEnv(), store, n)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "<includeonly>", out)
}

func TestIncludeOnlyCloseTagIsSilent(t *testing.T) {
	n := parseMeta(t, `typeof="mw:Includes/IncludeOnly/End"`)
	store := newStore()

	out, ok, err := handleMeta(newEnv(), store, n)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "", out)
}

func TestNoIncludeCloseTagFallsBackToDefaultTag(t *testing.T) {
	n := parseMeta(t, `typeof="mw:Includes/NoInclude/End"`)
	store := newStore()

	out, ok, err := handleMeta(newEnv(), store, n)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "</noinclude>", out)
}

func TestDiffMarkerTypeofsAreSilent(t *testing.T) {
	n := parseMeta(t, `typeof="mw:DiffMarker/deleted"`)
	store := newStore()

	out, ok, err := handleMeta(newEnv(), store, n)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "", out)
}

func TestGenericMetaFallsThrough(t *testing.T) {
	n := parseMeta(t, `name="keywords" content="a,b"`)
	store := newStore()

	_, ok, err := handleMeta(newEnv(), store, n)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCategoryDefaultsortBeforeSpacing(t *testing.T) {
	n := parseMeta(t, `property="mw:PageProp/categorydefaultsort"`)
	store := newStore()

	req := metaBefore(store, n, nil)
	assert.Equal(t, 1, req.Min)
}

func TestCategoryDefaultsortAfterPlainParagraphRequiresBlankLine(t *testing.T) {
	n := parseMeta(t, `property="mw:PageProp/categorydefaultsort"`)
	store := newStore()
	prev := parseSpan(t, "")
	prev.Data = "p"

	req := metaBefore(store, n, prev)
	assert.Equal(t, 2, req.Min)
}

func TestNewlyInsertedMetaRequiresSurroundingNewline(t *testing.T) {
	n := parseMeta(t, `name="x"`)
	store := newStore()
	store.AddDiffMark(n, domstore.MarkInserted)

	assert.Equal(t, 1, metaBefore(store, n, nil).Min)
	assert.Equal(t, 1, metaAfter(store, n).Min)
}
