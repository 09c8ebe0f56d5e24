package page

import (
	"github.com/labstack/echo/v4"
	"golang.org/x/net/html"

	"github.com/eringen/contentflow/anim"
	"github.com/eringen/contentflow/block"
	"github.com/eringen/contentflow/dom"
)

// Bound is an animation attached to a block node.
type Bound struct {
	Name string
	Node *html.Node
	block.Animation
}

// Bind attaches animations to every loaded block under root whose definition
// has a binder. Blocks that fail to bind are logged and skipped. Pausable
// effects run on ctl; countdowns run on ctl's clock.
func Bind(root *html.Node, reg *block.Registry, ctl *anim.Controller, logger echo.Logger) []Bound {
	var out []Bound
	for _, n := range dom.QueryAll(root, "div.block") {
		if block.StatusOf(n) != block.StatusLoaded {
			continue
		}
		name := dom.Data(n, "blockName")
		def, ok := reg.Lookup(name)
		if !ok || def.Bind == nil {
			continue
		}
		a, err := def.Bind(n, ctl, ctl.Clock())
		if err != nil {
			if logger != nil {
				logger.Warnf("page: bind %s: %v", name, err)
			}
			continue
		}
		out = append(out, Bound{Name: name, Node: n, Animation: a})
	}
	return out
}
