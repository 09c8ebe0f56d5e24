// Package markdown converts markdown authoring into the plain page markup
// the decorator works on. Thematic breaks split sections and a table whose
// first header cell names a block becomes that block:
//
//	| Hero (dark, wide) |
//	| ----------------- |
//	| # Ship faster     |
//	| Copy              |
//
// renders as <div class="hero dark wide"> with one <div> per row and cell.
// A cell starting with "#" marks becomes a heading of that level.
package markdown

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	gmhtml "github.com/yuin/goldmark/renderer/html"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/eringen/contentflow/dom"
)

var (
	md = goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(gmhtml.WithUnsafe()),
	)
	reBlockName = regexp.MustCompile(`^([^()]+?)\s*(?:\(([^)]*)\))?$`)
	reHeading   = regexp.MustCompile(`^(#{1,6})\s+`)
)

// Sections converts src into one <div> per section.
func Sections(src []byte) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert(src, &buf); err != nil {
		return "", fmt.Errorf("markdown: convert: %w", err)
	}
	nodes, err := dom.ParseFragment(buf.String(), nil)
	if err != nil {
		return "", fmt.Errorf("markdown: parse: %w", err)
	}

	var sections []*html.Node
	current := dom.Element("div")
	flush := func() {
		if current.FirstChild != nil {
			sections = append(sections, current)
		}
		current = dom.Element("div")
	}
	for _, n := range nodes {
		switch {
		case n.Type == html.TextNode && strings.TrimSpace(n.Data) == "":
			continue
		case n.Type == html.ElementNode && n.DataAtom == atom.Hr:
			flush()
			continue
		case n.Type == html.ElementNode && n.DataAtom == atom.Table:
			if b := tableBlock(n); b != nil {
				current.AppendChild(b)
				continue
			}
		}
		current.AppendChild(n)
	}
	flush()

	var out strings.Builder
	for _, s := range sections {
		out.WriteString(dom.OuterHTML(s))
	}
	return out.String(), nil
}

// BlockClasses parses a block header such as "Product Hero (dark, wide)"
// into its class list. It returns nil when the header names no block.
func BlockClasses(header string) []string {
	m := reBlockName.FindStringSubmatch(strings.TrimSpace(header))
	if m == nil {
		return nil
	}
	name := dom.ToClassName(m[1])
	if name == "" {
		return nil
	}
	classes := []string{name}
	for _, v := range strings.Split(m[2], ",") {
		if c := dom.ToClassName(v); c != "" {
			classes = append(classes, c)
		}
	}
	return classes
}

func tableBlock(table *html.Node) *html.Node {
	th := dom.Query(table, "thead th")
	if th == nil {
		return nil
	}
	classes := BlockClasses(dom.Text(th))
	if classes == nil {
		return nil
	}
	b := dom.Element("div", "class", strings.Join(classes, " "))
	for _, tr := range dom.QueryAll(table, "tbody tr") {
		row := dom.Element("div")
		for _, td := range dom.Children(tr) {
			cell := dom.Element("div")
			for c := td.FirstChild; c != nil; {
				next := c.NextSibling
				td.RemoveChild(c)
				cell.AppendChild(c)
				c = next
			}
			promoteHeading(cell)
			row.AppendChild(cell)
		}
		b.AppendChild(row)
	}
	return b
}

// promoteHeading turns a cell whose text starts with "#" marks into a
// heading of that level.
func promoteHeading(cell *html.Node) {
	first := cell.FirstChild
	if first == nil || first.Type != html.TextNode {
		return
	}
	m := reHeading.FindStringSubmatch(first.Data)
	if m == nil {
		return
	}
	first.Data = first.Data[len(m[0]):]
	h := dom.Element(fmt.Sprintf("h%d", len(m[1])))
	for c := cell.FirstChild; c != nil; {
		next := c.NextSibling
		cell.RemoveChild(c)
		h.AppendChild(c)
		c = next
	}
	cell.AppendChild(h)
}
