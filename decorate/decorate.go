// Package decorate turns authored page markup into the section/block
// structure the block loader works on. It wraps loose content, applies
// section metadata, tags blocks with their name and load status, and
// promotes lone links to buttons.
package decorate

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/eringen/contentflow/dom"
)

const (
	// DefaultContentClass marks the synthetic wrapper around loose content.
	DefaultContentClass = "default-content-wrapper"
	// SectionMetadataClass is the reserved block holding section key/values.
	SectionMetadataClass = "section-metadata"
	// StatusLoading is the initial block status.
	StatusLoading = "loading"
)

// Main decorates buttons, sections and blocks under main. Calling it again on
// decorated content leaves the content unchanged.
func Main(main *html.Node) {
	Buttons(main)
	Sections(main)
	Blocks(main)
}

// Buttons promotes standalone links to buttons: a link alone in a paragraph
// becomes a primary button, wrapped in <strong> primary, in <em> secondary.
func Buttons(root *html.Node) {
	for _, a := range dom.QueryAll(root, "a") {
		if dom.Attr(a, "title") == "" {
			if text := dom.TrimmedText(a); text != "" {
				dom.SetAttr(a, "title", text)
			}
		}
		if dom.Query(a, "img") != nil {
			continue
		}
		up := a.Parent
		if up == nil || up.Type != html.ElementNode || dom.ChildNodeCount(up) != 1 {
			continue
		}
		switch up.DataAtom {
		case atom.P, atom.Div:
			dom.SetAttr(a, "class", "button primary")
			dom.AddClass(up, "button-container")
		case atom.Strong, atom.Em:
			twoup := up.Parent
			if twoup == nil || twoup.DataAtom != atom.P || dom.ChildNodeCount(twoup) != 1 {
				continue
			}
			variant := "primary"
			if up.DataAtom == atom.Em {
				variant = "secondary"
			}
			dom.SetAttr(a, "class", "button "+variant)
			dom.AddClass(twoup, "button-container")
		}
	}
}

// Sections wraps runs of loose content in each top-level section, marks every
// section and applies its section-metadata block.
func Sections(main *html.Node) {
	for _, section := range dom.Children(main) {
		if section.DataAtom != atom.Div {
			continue
		}
		wrapRuns(section)
		dom.AddClass(section, "section")
		applySectionMetadata(section)
	}
}

// wrapRuns groups consecutive non-block children into default content
// wrappers. Existing wrappers are blocks by this rule, so a second pass is a
// no-op.
func wrapRuns(section *html.Node) {
	var current *html.Node
	for c := section.FirstChild; c != nil; {
		next := c.NextSibling
		if isBlockBoundary(c) {
			current = nil
			c = next
			continue
		}
		if c.Type == html.TextNode && strings.TrimSpace(c.Data) == "" && current == nil {
			// whitespace between blocks stays where it is
			c = next
			continue
		}
		if current == nil {
			current = dom.Element("div", "class", DefaultContentClass)
			section.InsertBefore(current, c)
		}
		section.RemoveChild(c)
		current.AppendChild(c)
		c = next
	}
}

func isBlockBoundary(n *html.Node) bool {
	return n.Type == html.ElementNode && n.DataAtom == atom.Div && len(dom.Classes(n)) > 0
}

func applySectionMetadata(section *html.Node) {
	meta := dom.Query(section, "div."+SectionMetadataClass)
	if meta == nil {
		return
	}
	for _, kv := range Pairs(meta) {
		if kv.Key == "style" {
			for _, cls := range strings.Split(kv.Value, ",") {
				dom.AddClass(section, dom.ToClassName(cls))
			}
			continue
		}
		dom.SetData(section, dom.ToCamelCase(kv.Key), kv.Value)
	}
	dom.Remove(meta)
}

// Pair is one key/value row of a metadata table.
type Pair struct {
	Key   string
	Value string
}

// Pairs reads a two-column metadata table: key from the first column
// normalised with dom.ToClassName, value from the trimmed second column.
// Rows with an empty key or value are skipped; later rows win.
func Pairs(table *html.Node) []Pair {
	var out []Pair
	index := make(map[string]int)
	for _, row := range dom.Children(table) {
		cols := dom.Children(row)
		if len(cols) < 2 {
			continue
		}
		key := dom.ToClassName(dom.Text(cols[0]))
		value := dom.TrimmedText(cols[1])
		if key == "" || value == "" {
			continue
		}
		if i, ok := index[key]; ok {
			out[i].Value = value
			continue
		}
		index[key] = len(out)
		out = append(out, Pair{Key: key, Value: value})
	}
	return out
}

// Blocks tags every block under main: the "block" class, the block name from
// the first class token, a load status (kept when already set) and
// "<name>-row"/"<name>-col" hooks on children and grandchildren.
func Blocks(main *html.Node) {
	for _, b := range dom.QueryAll(main, "div.section > div") {
		name := BlockName(b)
		if name == "" {
			continue
		}
		dom.AddClass(b, "block")
		dom.SetData(b, "blockName", name)
		if dom.Data(b, "blockStatus") == "" {
			dom.SetData(b, "blockStatus", StatusLoading)
		}
		for _, row := range dom.Children(b) {
			dom.AddClass(row, name+"-row")
			for _, col := range dom.Children(row) {
				dom.AddClass(col, name+"-col")
			}
		}
	}
}

// BlockName returns the first class token of a block container, or "" for
// unclassed nodes and default content wrappers.
func BlockName(n *html.Node) string {
	classes := dom.Classes(n)
	if len(classes) == 0 {
		return ""
	}
	allWrapper := true
	for _, c := range classes {
		if c != DefaultContentClass {
			allWrapper = false
			break
		}
	}
	if allWrapper {
		return ""
	}
	return classes[0]
}
