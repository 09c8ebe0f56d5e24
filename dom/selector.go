package dom

import (
	"strings"
	"sync"

	"golang.org/x/net/html"
)

// Supported selector subset:
//   - tag, .class, #id, [attr], [attr=val], [attr="val"] and compounds of them
//     ("div.section", ".hero.block", "head > link[href=/x.css]")
//   - descendant (space) and child (>) combinators
//   - selector lists separated by commas ("h1, h2, h3")

type attrSel struct {
	key    string
	val    string
	hasVal bool
}

type compound struct {
	tag     string
	id      string
	classes []string
	attrs   []attrSel
}

type complexSel struct {
	parts []compound
	combs []byte // combs[i] joins parts[i] and parts[i+1]: ' ' or '>'
}

var selectorCache sync.Map // string -> []complexSel

// QueryAll returns every element below root that matches sel, in document
// order. Ancestor matching may look above root, like Element.querySelectorAll.
// An invalid selector matches nothing.
func QueryAll(root *html.Node, sel string) []*html.Node {
	list := compile(sel)
	if root == nil || len(list) == 0 {
		return nil
	}
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode && matchesAny(c, list) {
				out = append(out, c)
			}
			walk(c)
		}
	}
	walk(root)
	return out
}

// Query returns the first match of sel below root, or nil.
func Query(root *html.Node, sel string) *html.Node {
	list := compile(sel)
	if root == nil || len(list) == 0 {
		return nil
	}
	var found *html.Node
	var walk func(*html.Node) bool
	walk = func(n *html.Node) bool {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode && matchesAny(c, list) {
				found = c
				return true
			}
			if walk(c) {
				return true
			}
		}
		return false
	}
	walk(root)
	return found
}

// Matches reports whether n matches sel.
func Matches(n *html.Node, sel string) bool {
	if n == nil || n.Type != html.ElementNode {
		return false
	}
	return matchesAny(n, compile(sel))
}

// Closest returns n or its nearest ancestor matching sel.
func Closest(n *html.Node, sel string) *html.Node {
	list := compile(sel)
	for p := n; p != nil; p = p.Parent {
		if p.Type == html.ElementNode && matchesAny(p, list) {
			return p
		}
	}
	return nil
}

func matchesAny(n *html.Node, list []complexSel) bool {
	for _, s := range list {
		if matchFrom(n, s, len(s.parts)-1) {
			return true
		}
	}
	return false
}

func matchFrom(n *html.Node, s complexSel, i int) bool {
	if !s.parts[i].match(n) {
		return false
	}
	if i == 0 {
		return true
	}
	if s.combs[i-1] == '>' {
		p := ParentElement(n)
		return p != nil && matchFrom(p, s, i-1)
	}
	for p := ParentElement(n); p != nil; p = ParentElement(p) {
		if matchFrom(p, s, i-1) {
			return true
		}
	}
	return false
}

func (c compound) match(n *html.Node) bool {
	if n.Type != html.ElementNode {
		return false
	}
	if c.tag != "" && c.tag != "*" && n.Data != c.tag {
		return false
	}
	if c.id != "" && Attr(n, "id") != c.id {
		return false
	}
	for _, cls := range c.classes {
		if !HasClass(n, cls) {
			return false
		}
	}
	for _, a := range c.attrs {
		if !HasAttr(n, a.key) {
			return false
		}
		if a.hasVal && Attr(n, a.key) != a.val {
			return false
		}
	}
	return true
}

func compile(sel string) []complexSel {
	if v, ok := selectorCache.Load(sel); ok {
		return v.([]complexSel)
	}
	var list []complexSel
	for _, group := range splitGroups(sel) {
		cs, ok := parseComplex(group)
		if !ok {
			return nil
		}
		list = append(list, cs)
	}
	selectorCache.Store(sel, list)
	return list
}

// splitGroups splits on commas outside attribute brackets.
func splitGroups(sel string) []string {
	var groups []string
	depth := 0
	start := 0
	for i := 0; i < len(sel); i++ {
		switch sel[i] {
		case '[':
			depth++
		case ']':
			depth--
		case ',':
			if depth == 0 {
				groups = append(groups, strings.TrimSpace(sel[start:i]))
				start = i + 1
			}
		}
	}
	groups = append(groups, strings.TrimSpace(sel[start:]))
	return groups
}

func parseComplex(sel string) (complexSel, bool) {
	var cs complexSel
	pendingComb := byte(0)
	i := 0
	for i < len(sel) {
		switch ch := sel[i]; {
		case ch == ' ' || ch == '\t' || ch == '\n':
			if pendingComb == 0 && len(cs.parts) > 0 {
				pendingComb = ' '
			}
			i++
		case ch == '>':
			if len(cs.parts) == 0 {
				return cs, false
			}
			pendingComb = '>'
			i++
		default:
			end := compoundEnd(sel, i)
			part, ok := parseCompound(sel[i:end])
			if !ok {
				return cs, false
			}
			if len(cs.parts) > 0 {
				if pendingComb == 0 {
					return cs, false
				}
				cs.combs = append(cs.combs, pendingComb)
			}
			cs.parts = append(cs.parts, part)
			pendingComb = 0
			i = end
		}
	}
	if len(cs.parts) == 0 || pendingComb == '>' {
		return cs, false
	}
	return cs, true
}

func compoundEnd(sel string, i int) int {
	depth := 0
	for ; i < len(sel); i++ {
		switch sel[i] {
		case '[':
			depth++
		case ']':
			depth--
		case ' ', '\t', '\n', '>':
			if depth == 0 {
				return i
			}
		}
	}
	return i
}

func parseCompound(s string) (compound, bool) {
	var c compound
	i := 0
	readIdent := func() string {
		start := i
		for i < len(s) && s[i] != '.' && s[i] != '#' && s[i] != '[' {
			i++
		}
		return s[start:i]
	}
	c.tag = strings.ToLower(readIdent())
	for i < len(s) {
		switch s[i] {
		case '.':
			i++
			name := readIdent()
			if name == "" {
				return c, false
			}
			c.classes = append(c.classes, name)
		case '#':
			i++
			c.id = readIdent()
			if c.id == "" {
				return c, false
			}
		case '[':
			end := strings.IndexByte(s[i:], ']')
			if end < 0 {
				return c, false
			}
			body := s[i+1 : i+end]
			i += end + 1
			var a attrSel
			if eq := strings.IndexByte(body, '='); eq >= 0 {
				a.key = strings.TrimSpace(body[:eq])
				a.val = strings.Trim(strings.TrimSpace(body[eq+1:]), `"'`)
				a.hasVal = true
			} else {
				a.key = strings.TrimSpace(body)
			}
			if a.key == "" {
				return c, false
			}
			c.attrs = append(c.attrs, a)
		default:
			return c, false
		}
	}
	return c, true
}
