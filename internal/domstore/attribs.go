package domstore

import (
	"encoding/json"

	"github.com/pkg/errors"
	"golang.org/x/net/html"
)

const (
	attrDataParsoid = "data-parsoid"
	attrDataMw      = "data-mw"
)

func getAttr(node *html.Node, key string) (string, bool) {
	for _, a := range node.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func removeAttr(node *html.Node, key string) {
	out := node.Attr[:0]
	for _, a := range node.Attr {
		if a.Key != key {
			out = append(out, a)
		}
	}
	node.Attr = out
}

func setAttr(node *html.Node, key, val string) {
	for i, a := range node.Attr {
		if a.Key == key {
			node.Attr[i].Val = val
			return
		}
	}
	node.Attr = append(node.Attr, html.Attribute{Key: key, Val: val})
}

// LoadDataAttribs reads the data-parsoid/data-mw attribute JSON off node
// into the store, and deletes the attributes (spec §4.2). A missing
// attribute is not an error: data-parsoid always defaults to an empty
// record, data-mw is simply left absent. An attribute whose JSON does
// not parse is returned as an error and left on the node.
func LoadDataAttribs(s *Store, node *html.Node) error {
	if raw, ok := getAttr(node, attrDataParsoid); ok {
		var dp DataParsoid
		if err := json.Unmarshal([]byte(raw), &dp); err != nil {
			return errors.Wrap(err, "parse data-parsoid")
		}
		s.SetDataParsoid(node, &dp)
		removeAttr(node, attrDataParsoid)
	}
	if raw, ok := getAttr(node, attrDataMw); ok {
		var mw DataMw
		if err := json.Unmarshal([]byte(raw), &mw); err != nil {
			return errors.Wrap(err, "parse data-mw")
		}
		s.SetDataMw(node, &mw)
		removeAttr(node, attrDataMw)
	}
	return nil
}

// StoreDataAttribs is the reverse of LoadDataAttribs: it flushes the
// store's data-parsoid/data-mw records for node back onto the element as
// JSON attributes, ready for the C1 serializer (spec §4.2, §3.5 "flushed
// back to attributes prior to serialization").
func StoreDataAttribs(s *Store, node *html.Node) error {
	nd := s.getNodeData(node)
	if nd.Parsoid != nil {
		raw, err := json.Marshal(nd.Parsoid)
		if err != nil {
			return errors.Wrap(err, "marshal data-parsoid")
		}
		setAttr(node, attrDataParsoid, string(raw))
	}
	if nd.Mw != nil {
		raw, err := json.Marshal(nd.Mw)
		if err != nil {
			return errors.Wrap(err, "marshal data-mw")
		}
		setAttr(node, attrDataMw, string(raw))
	}
	return nil
}

// LoadDataAttribsTree walks root and its descendants, calling
// LoadDataAttribs on every element node.
func LoadDataAttribsTree(s *Store, root *html.Node) error {
	return walkElements(root, func(n *html.Node) error {
		return LoadDataAttribs(s, n)
	})
}

// StoreDataAttribsTree walks root and its descendants, calling
// StoreDataAttribs on every element node.
func StoreDataAttribsTree(s *Store, root *html.Node) error {
	return walkElements(root, func(n *html.Node) error {
		return StoreDataAttribs(s, n)
	})
}

func walkElements(n *html.Node, fn func(*html.Node) error) error {
	if n.Type == html.ElementNode {
		if err := fn(n); err != nil {
			return err
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if err := walkElements(c, fn); err != nil {
			return err
		}
	}
	return nil
}
