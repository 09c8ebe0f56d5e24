// Package dom is a small DOM toolkit over golang.org/x/net/html: parsing and
// serialising fragments, class lists, data attributes, text content and a
// CSS-subset selector engine. Every block transform and the decorator work
// through it.
package dom

import (
	"bytes"
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Parse parses a complete HTML document.
func Parse(src string) (*html.Node, error) {
	doc, err := html.Parse(strings.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("dom: parse document: %w", err)
	}
	return doc, nil
}

// ParseFragment parses src as the children of context. A nil context parses
// in the context of a <div>.
func ParseFragment(src string, context *html.Node) ([]*html.Node, error) {
	if context == nil || context.Type != html.ElementNode {
		context = &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	}
	nodes, err := html.ParseFragment(strings.NewReader(src), context)
	if err != nil {
		return nil, fmt.Errorf("dom: parse fragment: %w", err)
	}
	return nodes, nil
}

// Fragment parses src into a detached <div> holding the parsed nodes.
func Fragment(src string) (*html.Node, error) {
	wrapper := Element("div")
	if err := SetInnerHTML(wrapper, src); err != nil {
		return nil, err
	}
	return wrapper, nil
}

// Element creates a detached element. attrs are key/value pairs.
func Element(tag string, attrs ...string) *html.Node {
	n := &html.Node{Type: html.ElementNode, Data: tag, DataAtom: atom.Lookup([]byte(tag))}
	for i := 0; i+1 < len(attrs); i += 2 {
		n.Attr = append(n.Attr, html.Attribute{Key: attrs[i], Val: attrs[i+1]})
	}
	return n
}

// TextNode creates a detached text node.
func TextNode(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

// OuterHTML serialises n and its subtree.
func OuterHTML(n *html.Node) string {
	if n == nil {
		return ""
	}
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return ""
	}
	return buf.String()
}

// InnerHTML serialises the children of n.
func InnerHTML(n *html.Node) string {
	if n == nil {
		return ""
	}
	var buf bytes.Buffer
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return ""
		}
	}
	return buf.String()
}

// SetInnerHTML replaces the children of n with the parsed src.
func SetInnerHTML(n *html.Node, src string) error {
	nodes, err := ParseFragment(src, n)
	if err != nil {
		return err
	}
	ReplaceChildren(n, nodes...)
	return nil
}

// RemoveChildren detaches every child of n.
func RemoveChildren(n *html.Node) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		n.RemoveChild(c)
		c = next
	}
}

// ReplaceChildren detaches the children of n and appends nodes in order.
func ReplaceChildren(n *html.Node, nodes ...*html.Node) {
	RemoveChildren(n)
	for _, c := range nodes {
		Append(n, c)
	}
}

// Append moves child under parent, detaching it from its current parent.
func Append(parent, child *html.Node) {
	if child.Parent != nil {
		child.Parent.RemoveChild(child)
	}
	parent.AppendChild(child)
}

// Remove detaches n from its parent.
func Remove(n *html.Node) {
	if n != nil && n.Parent != nil {
		n.Parent.RemoveChild(n)
	}
}

// Children returns the element children of n.
func Children(n *html.Node) []*html.Node {
	if n == nil {
		return nil
	}
	var out []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			out = append(out, c)
		}
	}
	return out
}

// ChildNodeCount counts every child of n, text nodes included.
func ChildNodeCount(n *html.Node) int {
	count := 0
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		count++
	}
	return count
}

// ParentElement returns the nearest element ancestor of n.
func ParentElement(n *html.Node) *html.Node {
	for p := n.Parent; p != nil; p = p.Parent {
		if p.Type == html.ElementNode {
			return p
		}
	}
	return nil
}

// Text returns the concatenated text content of n, like Node.textContent.
func Text(n *html.Node) string {
	if n == nil {
		return ""
	}
	if n.Type == html.TextNode {
		return n.Data
	}
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(c *html.Node) {
		switch c.Type {
		case html.TextNode:
			b.WriteString(c.Data)
		case html.CommentNode:
		default:
			for cc := c.FirstChild; cc != nil; cc = cc.NextSibling {
				walk(cc)
			}
		}
	}
	walk(n)
	return b.String()
}

// TrimmedText is Text with surrounding whitespace removed.
func TrimmedText(n *html.Node) string {
	return strings.TrimSpace(Text(n))
}

// SetText replaces the children of n with a single text node.
func SetText(n *html.Node, s string) {
	ReplaceChildren(n, TextNode(s))
}

// Attr returns the value of attribute key, or "".
func Attr(n *html.Node, key string) string {
	if n == nil {
		return ""
	}
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// HasAttr reports whether n carries attribute key.
func HasAttr(n *html.Node, key string) bool {
	if n == nil {
		return false
	}
	for _, a := range n.Attr {
		if a.Key == key {
			return true
		}
	}
	return false
}

// SetAttr sets attribute key on n, replacing any existing value.
func SetAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

// RemoveAttr deletes attribute key from n.
func RemoveAttr(n *html.Node, key string) {
	kept := n.Attr[:0]
	for _, a := range n.Attr {
		if a.Key != key {
			kept = append(kept, a)
		}
	}
	n.Attr = kept
}

// Classes returns the class tokens of n in order.
func Classes(n *html.Node) []string {
	return strings.Fields(Attr(n, "class"))
}

// HasClass reports whether n carries class c.
func HasClass(n *html.Node, c string) bool {
	for _, have := range Classes(n) {
		if have == c {
			return true
		}
	}
	return false
}

// AddClass appends each missing class to n.
func AddClass(n *html.Node, classes ...string) {
	have := Classes(n)
	changed := false
	for _, c := range classes {
		c = strings.TrimSpace(c)
		if c == "" || contains(have, c) {
			continue
		}
		have = append(have, c)
		changed = true
	}
	if changed {
		SetAttr(n, "class", strings.Join(have, " "))
	}
}

// RemoveClass drops each given class from n.
func RemoveClass(n *html.Node, classes ...string) {
	have := Classes(n)
	kept := have[:0]
	for _, c := range have {
		if !contains(classes, c) {
			kept = append(kept, c)
		}
	}
	if len(kept) == 0 {
		RemoveAttr(n, "class")
		return
	}
	SetAttr(n, "class", strings.Join(kept, " "))
}

// ToggleClass adds c when on is true and removes it otherwise.
func ToggleClass(n *html.Node, c string, on bool) {
	if on {
		AddClass(n, c)
		return
	}
	RemoveClass(n, c)
}

// Data returns the dataset value for a camelCase key (blockName ->
// data-block-name).
func Data(n *html.Node, key string) string {
	return Attr(n, DataAttr(key))
}

// SetData sets the dataset value for a camelCase key.
func SetData(n *html.Node, key, val string) {
	SetAttr(n, DataAttr(key), val)
}

// DataAttr converts a dataset property name to its attribute name.
func DataAttr(key string) string {
	var b strings.Builder
	b.WriteString("data-")
	for _, r := range key {
		if unicode.IsUpper(r) {
			b.WriteByte('-')
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// FindTag returns the first element under root (inclusive) with tag a.
func FindTag(root *html.Node, a atom.Atom) *html.Node {
	if root == nil {
		return nil
	}
	if root.Type == html.ElementNode && root.DataAtom == a {
		return root
	}
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if n := FindTag(c, a); n != nil {
			return n
		}
	}
	return nil
}

// Body returns the <body> of doc, creating none.
func Body(doc *html.Node) *html.Node { return FindTag(doc, atom.Body) }

// Head returns the <head> of doc.
func Head(doc *html.Node) *html.Node { return FindTag(doc, atom.Head) }

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
