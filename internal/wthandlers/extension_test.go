package wthandlers

import (
	"encoding/json"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nizambakhshi/wikidom/internal/domstore"
)

// extensionAsset mirrors a wt2html/html2wt round-trip fixture: the
// wikitext an extension tag originally carried, and the data-mw JSON
// blob the DOM stores it under (spec §8 scenario 4).
type extensionAsset struct {
	Wikitext string
	DataMw   string
}

func readExtensionAsset(t *testing.T, name string) *extensionAsset {
	t.Helper()
	wt, err := os.ReadFile(fmt.Sprintf("./testdata/%s/wikitext.txt", name))
	require.NoError(t, err)
	dm, err := os.ReadFile(fmt.Sprintf("./testdata/%s/data-mw.json", name))
	require.NoError(t, err)
	return &extensionAsset{Wikitext: string(wt), DataMw: string(dm)}
}

// TestPoemExtensionRoundTrip covers the data side of spec §8 scenario 4:
// the poem fixture's body source equals data-mw.body.extsrc and survives
// a JSON marshal/unmarshal of the data-mw record byte-for-byte. No
// wt2html or html2wt pass is run here.
func TestPoemExtensionRoundTrip(t *testing.T) {
	asset := readExtensionAsset(t, "poem")

	var dmw domstore.DataMw
	require.NoError(t, json.Unmarshal([]byte(asset.DataMw), &dmw))

	require.Equal(t, "poem", dmw.Name)
	require.NotNil(t, dmw.Body)
	require.NotNil(t, dmw.Body.ExtSrc)
	assert.Equal(t, asset.Wikitext, *dmw.Body.ExtSrc)

	reencoded, err := json.Marshal(&dmw)
	require.NoError(t, err)
	var roundTripped domstore.DataMw
	require.NoError(t, json.Unmarshal(reencoded, &roundTripped))
	require.NotNil(t, roundTripped.Body.ExtSrc)
	assert.Equal(t, asset.Wikitext, *roundTripped.Body.ExtSrc, "byte-for-byte after a full marshal round trip")
}
