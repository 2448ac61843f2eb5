package htmlserializer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

func parseFragment(t *testing.T, src string) *html.Node {
	t.Helper()
	doc, err := html.Parse(strings.NewReader(src))
	require.NoError(t, err)
	return doc
}

func TestSerializeVoidElements(t *testing.T) {
	doc := parseFragment(t, `<html><body><br><img src="x.png"></body></html>`)
	res, err := Serialize(doc, NewOptions())
	require.NoError(t, err)
	assert.Contains(t, res.HTML, "<br/>")
	assert.Contains(t, res.HTML, `<img src="x.png"/>`)
}

func TestSerializeRawContentVerbatim(t *testing.T) {
	doc := parseFragment(t, `<html><body><script>if (a < b) { x() }</script></body></html>`)
	res, err := Serialize(doc, NewOptions())
	require.NoError(t, err)
	assert.Contains(t, res.HTML, "if (a < b) { x() }", "raw content must not be entity-escaped")
}

func TestSerializeTextEscaping(t *testing.T) {
	doc := parseFragment(t, `<html><body><p>a &amp; b</p></body></html>`)
	res, err := Serialize(doc, NewOptions())
	require.NoError(t, err)
	assert.Contains(t, res.HTML, "a &amp; b")
}

func TestSerializeSmartQuote(t *testing.T) {
	n := &html.Node{
		Type: html.ElementNode,
		Data: "span",
		Attr: []html.Attribute{{Key: "title", Val: `has "double" quotes`}},
	}
	res, err := Serialize(n, NewOptions().WithInnerXML(false))
	require.NoError(t, err)
	assert.Contains(t, res.HTML, `title='has "double" quotes'`, "more doubles than singles should pick single quotes")
}

func TestSerializeSmartQuoteDisabled(t *testing.T) {
	n := &html.Node{
		Type: html.ElementNode,
		Data: "span",
		Attr: []html.Attribute{{Key: "title", Val: `has "double" quotes`}},
	}
	res, err := Serialize(n, NewOptions().WithSmartQuote(false))
	require.NoError(t, err)
	assert.Contains(t, res.HTML, `title="has &quot;double&quot; quotes"`)
}

func TestSerializeNewlineStrippingPreservesLeadingNewline(t *testing.T) {
	n := &html.Node{Type: html.ElementNode, Data: "pre"}
	text := &html.Node{Type: html.TextNode, Data: "\nhello"}
	n.AppendChild(text)

	res, err := Serialize(n, NewOptions())
	require.NoError(t, err)
	assert.Equal(t, "<pre>\n\nhello</pre>", res.HTML)
}

func TestSerializeDoctypePrelude(t *testing.T) {
	doc := parseFragment(t, `<html><body>x</body></html>`)
	htmlNode := doc.FirstChild
	for htmlNode != nil && !(htmlNode.Type == html.ElementNode && htmlNode.Data == "html") {
		htmlNode = htmlNode.NextSibling
	}
	require.NotNil(t, htmlNode)
	res, err := Serialize(htmlNode, NewOptions())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(res.HTML, "<!DOCTYPE html>\n"))
}

func TestSerializeCaptureOffsets(t *testing.T) {
	doc := parseFragment(t, `<html><body><p id="a">hello</p><span id="b">x</span></body></html>`)
	res, err := Serialize(doc, NewOptions().WithCaptureOffsets(true))
	require.NoError(t, err)
	require.NotNil(t, res.Offsets)

	aOff, ok := res.Offsets["a"]
	require.True(t, ok)
	bOff, ok := res.Offsets["b"]
	require.True(t, ok)

	body := res.HTML[strings.Index(res.HTML, "<body>")+len("<body>"):]
	assert.Equal(t, `<p id="a">hello</p>`, body[aOff[0]:aOff[1]])
	assert.Equal(t, `<span id="b">x</span>`, body[bOff[0]:bOff[1]])
}
