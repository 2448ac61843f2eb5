// Command wikidom is a thin demonstration driver wiring the DOM diff and
// the serializer-handler dispatch together over a small hardcoded
// example. It is not the real tokenizer/CMS integration
// (that stays external, per spec §1) — just enough glue to show the
// pieces fit.
package main

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"

	"github.com/nizambakhshi/wikidom/internal/domdiff"
	"github.com/nizambakhshi/wikidom/internal/domstore"
	"github.com/nizambakhshi/wikidom/internal/env"
	"github.com/nizambakhshi/wikidom/internal/wthandlers"
)

func parseBody(src string) *html.Node {
	doc, err := html.Parse(strings.NewReader(src))
	if err != nil {
		panic(err)
	}
	var body *html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if body != nil {
			return
		}
		if n.Type == html.ElementNode && n.Data == "body" {
			body = n
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	if body == nil {
		panic("no body in parsed fragment")
	}
	return body
}

func main() {
	e := env.New(&env.SiteConfig{}, nil)
	store := domstore.New(e)

	oldBody := parseBody("<p>a</p><p>b</p>")
	newBody := parseBody("<p>A</p><p>b</p>")

	domdiff.Diff(store, oldBody, newBody)

	for c := newBody.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		marks := store.GetDiffMarks(c)
		fmt.Printf("<%s>: %s\n", c.Data, marks)
		if h, ok := wthandlers.Dispatch(c); ok {
			fmt.Printf("  dispatches to a handler (forceSol=%v)\n", h.ForceSol)
		}
	}

	for _, lint := range e.Lints {
		fmt.Printf("lint: %s: %s\n", lint.Kind, lint.Message)
	}
}
