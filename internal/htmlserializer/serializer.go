// Package htmlserializer implements the XML/HTML5 Serializer (spec
// §4.1, component C1): it emits XHTML-compatible bytes from a DOM,
// optionally recording per-element byte offsets for wt2html output.
package htmlserializer

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"
)

// Result is Serialize's return value (spec §4.1's
// `{ html: string, offsets?: map<nodeId, [start,end]> }`). Offsets is
// keyed by the serialized element's `id` attribute value, not the
// internal domstore node ID — the offset map is a wire-facing artifact,
// produced before data-parsoid/data-mw are stripped of bookkeeping.
type Result struct {
	HTML    string
	Offsets map[string][2]int
}

type serializer struct {
	opts         Options
	buf          bytes.Buffer
	offsets      map[string][2]int
	bodyNode     *html.Node
	bodyBaseline int
	aboutToID    map[string]string
}

// Serialize renders node (or, with WithInnerXML(true), node's children)
// to XHTML-compatible bytes (spec §4.1).
func Serialize(node *html.Node, opts Options) (*Result, error) {
	s := &serializer{opts: opts, offsets: map[string][2]int{}, aboutToID: map[string]string{}}

	if opts.captureOffsets {
		s.bodyNode = findBody(node)
		if s.bodyNode != nil {
			s.precomputeAboutIDs(s.bodyNode)
		}
	}

	if !opts.innerXML && node.Type == html.ElementNode && node.Data == "html" {
		s.buf.WriteString("<!DOCTYPE html>\n")
	}

	if opts.innerXML {
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			if err := s.writeNode(c); err != nil {
				return nil, err
			}
		}
	} else if err := s.writeNode(node); err != nil {
		return nil, err
	}

	res := &Result{HTML: s.buf.String()}
	if opts.captureOffsets {
		res.Offsets = s.offsets
	}
	return res, nil
}

func (s *serializer) writeNode(n *html.Node) error {
	switch n.Type {
	case html.ElementNode:
		return s.writeElement(n)
	case html.TextNode:
		s.buf.WriteString(escapeText(n.Data))
		return nil
	case html.CommentNode:
		// The comment's data is assumed pre-escaped by the caller (spec §4.1).
		s.buf.WriteString("<!--")
		s.buf.WriteString(n.Data)
		s.buf.WriteString("-->")
		return nil
	case html.DoctypeNode:
		return nil
	case html.DocumentNode:
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if err := s.writeNode(c); err != nil {
				return err
			}
		}
		return nil
	default:
		return nil
	}
}

func (s *serializer) writeElement(n *html.Node) error {
	tag := n.Data
	selfClosing := isVoid(tag)
	startOffset := s.buf.Len()

	s.buf.WriteByte('<')
	s.buf.WriteString(tag)
	for _, a := range n.Attr {
		s.writeAttr(a)
	}
	if selfClosing {
		s.buf.WriteString("/>")
	} else {
		s.buf.WriteByte('>')
	}

	if s.opts.captureOffsets && n == s.bodyNode {
		s.bodyBaseline = s.buf.Len()
	}

	if isRawContent(tag) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.TextNode {
				s.buf.WriteString(c.Data)
			}
		}
	} else {
		first := n.FirstChild
		if isNewlineStripping(tag) && first != nil && first.Type == html.TextNode && strings.HasPrefix(first.Data, "\n") {
			s.buf.WriteByte('\n')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if err := s.writeNode(c); err != nil {
				return err
			}
		}
	}

	if !selfClosing {
		s.buf.WriteString("</")
		s.buf.WriteString(tag)
		s.buf.WriteByte('>')
	}

	endOffset := s.buf.Len()
	if s.opts.captureOffsets && n.Parent == s.bodyNode {
		s.recordOffset(n, startOffset-s.bodyBaseline, endOffset-s.bodyBaseline)
	}
	return nil
}

func (s *serializer) writeAttr(a html.Attribute) {
	quote := chooseQuote(a.Val, s.opts.smartQuote)
	s.buf.WriteByte(' ')
	s.buf.WriteString(a.Key)
	s.buf.WriteByte('=')
	s.buf.WriteByte(quote)
	s.buf.WriteString(escapeAttrValue(a.Val, quote))
	s.buf.WriteByte(quote)
}

func attrVal(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "body" {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if b := findBody(c); b != nil {
			return b
		}
	}
	return nil
}

// precomputeAboutIDs records, for each about group among body's direct
// children, the id of its first (and typically only id-bearing) member,
// so encapsulation wrappers propagate that id to their about-siblings
// (spec §4.1 "Offsets").
func (s *serializer) precomputeAboutIDs(body *html.Node) {
	for c := body.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		about := attrVal(c, "about")
		if about == "" {
			continue
		}
		if _, ok := s.aboutToID[about]; ok {
			continue
		}
		if id := attrVal(c, "id"); id != "" {
			s.aboutToID[about] = id
		}
	}
}

func (s *serializer) recordOffset(n *html.Node, start, end int) {
	id := attrVal(n, "id")
	if id == "" {
		if about := attrVal(n, "about"); about != "" {
			id = s.aboutToID[about]
		}
	}
	if id == "" {
		return
	}
	if existing, ok := s.offsets[id]; ok {
		if start < existing[0] {
			existing[0] = start
		}
		if end > existing[1] {
			existing[1] = end
		}
		s.offsets[id] = existing
		return
	}
	s.offsets[id] = [2]int{start, end}
}
