// Package block loads decorated blocks: it looks up a block's transform in
// an explicit registry, runs it alongside the block's stylesheet check and
// replaces the block's authored rows with the rendered output.
package block

import (
	"html/template"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/eringen/contentflow/dom"
)

// Block is the authored view of a block node handed to a transform. Rows
// are captured when the Block is created so transforms read the authored
// content even after the node has been replaced.
type Block struct {
	name string
	node *html.Node
	rows []*html.Node
	env  *Env
}

// New wraps a decorated block node.
func New(node *html.Node, env *Env) *Block {
	if env == nil {
		env = &Env{}
	}
	return &Block{
		name: dom.Data(node, "blockName"),
		node: node,
		rows: dom.Children(node),
		env:  env,
	}
}

func (b *Block) Name() string       { return b.name }
func (b *Block) Node() *html.Node   { return b.node }
func (b *Block) Env() *Env          { return b.env }
func (b *Block) Rows() []*html.Node { return b.rows }

// Row returns row i or nil.
func (b *Block) Row(i int) *html.Node {
	if i < 0 || i >= len(b.rows) {
		return nil
	}
	return b.rows[i]
}

// Cols returns the cells of row i.
func (b *Block) Cols(i int) []*html.Node {
	return dom.Children(b.Row(i))
}

// Col returns cell j of row i or nil.
func (b *Block) Col(i, j int) *html.Node {
	cols := b.Cols(i)
	if j < 0 || j >= len(cols) {
		return nil
	}
	return cols[j]
}

// Text returns the trimmed text of row i, or fallback when the row is
// missing or blank.
func (b *Block) Text(i int, fallback string) string {
	return textOr(b.Row(i), fallback)
}

// ColText is Text for cell j of row i.
func (b *Block) ColText(i, j int, fallback string) string {
	return textOr(b.Col(i, j), fallback)
}

func textOr(n *html.Node, fallback string) string {
	if n == nil {
		return fallback
	}
	if s := dom.TrimmedText(n); s != "" {
		return s
	}
	return fallback
}

// Int parses the text of row i as a positive integer, using fallback for
// missing, malformed or non-positive values.
func (b *Block) Int(i int, fallback int) int {
	s := b.Text(i, "")
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

// Heading returns the outer HTML of the first heading in row i matching
// sel ("h1, h2, h3" when empty), or fallback.
func (b *Block) Heading(i int, sel string, fallback template.HTML) template.HTML {
	if sel == "" {
		sel = "h1, h2, h3"
	}
	h := dom.Query(b.Row(i), sel)
	if h == nil {
		return fallback
	}
	return template.HTML(dom.OuterHTML(h))
}

// CellHTML returns the inner HTML of the first cell of row i.
func (b *Block) CellHTML(i int) template.HTML {
	cell := dom.Query(b.Row(i), "div")
	if cell == nil {
		return ""
	}
	return template.HTML(strings.TrimSpace(dom.InnerHTML(cell)))
}

// Link is an authored anchor.
type Link struct {
	Href string
	Text string
}

// Links returns every anchor in row i in document order.
func (b *Block) Links(i int) []Link {
	var out []Link
	for _, a := range dom.QueryAll(b.Row(i), "a") {
		out = append(out, Link{Href: dom.Attr(a, "href"), Text: dom.Text(a)})
	}
	return out
}

// ColLink returns the first anchor in cell j of row i.
func (b *Block) ColLink(i, j int) (Link, bool) {
	a := dom.Query(b.Col(i, j), "a")
	if a == nil {
		return Link{}, false
	}
	return Link{Href: dom.Attr(a, "href"), Text: dom.Text(a)}, true
}

// Href returns the target of cell j of row i: the anchor's href, else the
// cell text, else fallback.
func (b *Block) Href(i, j int, fallback string) string {
	if l, ok := b.ColLink(i, j); ok && l.Href != "" {
		return b.env.Relative(l.Href)
	}
	return b.ColText(i, j, fallback)
}

// Image returns row i's <picture> as authored, or a rebuilt <img> for a
// bare image, or "".
func (b *Block) Image(i int) template.HTML {
	row := b.Row(i)
	if pic := dom.Query(row, "picture"); pic != nil {
		return template.HTML(dom.OuterHTML(pic))
	}
	img := dom.Query(row, "img")
	if img == nil {
		return ""
	}
	el := dom.Element("img", "src", dom.Attr(img, "src"), "alt", dom.Attr(img, "alt"), "loading", "eager")
	return template.HTML(dom.OuterHTML(el))
}

// SetID sets the block node's id.
func (b *Block) SetID(id string) { dom.SetAttr(b.node, "id", id) }

// SetAttr sets an attribute on the block node.
func (b *Block) SetAttr(key, val string) { dom.SetAttr(b.node, key, val) }

// AddClass adds classes to the block node.
func (b *Block) AddClass(classes ...string) { dom.AddClass(b.node, classes...) }

// Section returns the enclosing section, or nil.
func (b *Block) Section() *html.Node {
	return dom.Closest(b.node, ".section")
}
