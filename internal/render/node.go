// Package render turns backend payloads into typed node trees. The trees are
// plain data: tests inspect them directly, and Write serializes them to HTML.
package render

import (
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

type Attr struct{ Key, Val string }

// Node is an element (Tag set) or a text node (Tag empty).
type Node struct {
	Tag      string
	Text     string
	Class    string
	Attrs    []Attr
	Hidden   bool // rendered as style="display:none"
	Children []*Node
}

func El(tag, class string, children ...*Node) *Node {
	return &Node{Tag: tag, Class: class, Children: children}
}

func Text(s string) *Node { return &Node{Text: s} }

// Set replaces or adds an attribute.
func (n *Node) Set(key, val string) *Node {
	for i := range n.Attrs {
		if n.Attrs[i].Key == key {
			n.Attrs[i].Val = val
			return n
		}
	}
	n.Attrs = append(n.Attrs, Attr{key, val})
	return n
}

func (n *Node) Get(key string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func (n *Node) Append(children ...*Node) *Node {
	n.Children = append(n.Children, children...)
	return n
}

func (n *Node) HasClass(class string) bool {
	for _, c := range strings.Fields(n.Class) {
		if c == class {
			return true
		}
	}
	return false
}

// FindClass returns every element under n (n included) carrying class, in
// document order.
func (n *Node) FindClass(class string) []*Node {
	var out []*Node
	n.walk(func(x *Node) {
		if x.Tag != "" && x.HasClass(class) {
			out = append(out, x)
		}
	})
	return out
}

func (n *Node) FindID(id string) *Node {
	var found *Node
	n.walk(func(x *Node) {
		if found != nil {
			return
		}
		if v, ok := x.Get("id"); ok && v == id {
			found = x
		}
	})
	return found
}

// TextContent concatenates all text below n.
func (n *Node) TextContent() string {
	var b strings.Builder
	n.walk(func(x *Node) {
		if x.Tag == "" {
			b.WriteString(x.Text)
		}
	})
	return b.String()
}

func (n *Node) walk(fn func(*Node)) {
	fn(n)
	for _, c := range n.Children {
		c.walk(fn)
	}
}

// Write serializes n as an HTML fragment.
func Write(w io.Writer, n *Node) error {
	return html.Render(w, n.htmlNode())
}

// WriteDocument serializes root preceded by the HTML5 doctype.
func WriteDocument(w io.Writer, root *Node) error {
	doc := &html.Node{Type: html.DocumentNode}
	doc.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})
	doc.AppendChild(root.htmlNode())
	return html.Render(w, doc)
}

func (n *Node) htmlNode() *html.Node {
	if n.Tag == "" {
		return &html.Node{Type: html.TextNode, Data: n.Text}
	}
	hn := &html.Node{Type: html.ElementNode, Data: n.Tag, DataAtom: atom.Lookup([]byte(n.Tag))}
	if n.Class != "" {
		hn.Attr = append(hn.Attr, html.Attribute{Key: "class", Val: n.Class})
	}
	for _, a := range n.Attrs {
		hn.Attr = append(hn.Attr, html.Attribute{Key: a.Key, Val: a.Val})
	}
	if n.Hidden {
		hn.Attr = append(hn.Attr, html.Attribute{Key: "style", Val: "display:none"})
	}
	for _, c := range n.Children {
		hn.AppendChild(c.htmlNode())
	}
	return hn
}
