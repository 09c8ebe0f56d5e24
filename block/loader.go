package block

import (
	"bytes"
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/a-h/templ"
	"golang.org/x/net/html"
	"golang.org/x/sync/errgroup"

	"github.com/eringen/contentflow/dom"
	"github.com/eringen/contentflow/metrics"
	"github.com/eringen/contentflow/resource"
)

// Status is a block's load status.
type Status string

const (
	StatusLoading Status = "loading"
	StatusLoaded  Status = "loaded"
	StatusError   Status = "error"
)

// StatusOf returns the status recorded on node.
func StatusOf(node *html.Node) Status {
	return Status(dom.Data(node, "blockStatus"))
}

func setStatus(node *html.Node, s Status) {
	dom.SetData(node, "blockStatus", string(s))
}

// Loader loads blocks. Failures never propagate: a failed block is marked
// with StatusError, logged and counted, and the caller moves on.
type Loader struct {
	Registry  *Registry
	Resources *resource.Loader
	Metrics   *metrics.Recorder
}

// NewLoader returns a loader over reg injecting stylesheets through res.
func NewLoader(reg *Registry, res *resource.Loader, rec *metrics.Recorder) *Loader {
	if res == nil {
		res = resource.NewLoader(nil)
	}
	return &Loader{Registry: reg, Resources: res, Metrics: rec}
}

// Load loads one block node. The node must carry data-block-name; a node
// already marked loaded is returned immediately without any work.
func (l *Loader) Load(ctx context.Context, node *html.Node, env *Env) *html.Node {
	name := dom.Data(node, "blockName")
	if name == "" {
		return node
	}
	if StatusOf(node) == StatusLoaded {
		l.Metrics.BlockLoad(name, metrics.ResultSkipped, 0)
		return node
	}
	if env == nil {
		env = &Env{}
	}
	if env.Loader == nil {
		env.Loader = l
	}
	setStatus(node, StatusLoading)
	start := time.Now()

	if err := l.load(ctx, name, node, env); err != nil {
		setStatus(node, StatusError)
		env.Log().Errorf("failed to load block %s: %v", name, err)
		l.Metrics.BlockLoad(name, metrics.ResultError, time.Since(start))
		return node
	}
	setStatus(node, StatusLoaded)
	l.Metrics.BlockLoad(name, metrics.ResultLoaded, time.Since(start))
	return node
}

func (l *Loader) load(ctx context.Context, name string, node *html.Node, env *Env) error {
	def, ok := l.Registry.Lookup(name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownBlock, name)
	}
	b := New(node, env)

	g, gctx := errgroup.WithContext(ctx)
	if head := env.Head(); head != nil {
		g.Go(func() error {
			return l.Resources.LoadCSS(gctx, head, def.StyleFor(name))
		})
	}
	var cmp templ.Component
	g.Go(func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("block: %s transform panicked: %v\n%s", name, r, debug.Stack())
			}
		}()
		cmp, err = def.Transform(gctx, b)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}
	if cmp == nil {
		return nil
	}

	var buf bytes.Buffer
	if err := cmp.Render(ctx, &buf); err != nil {
		return fmt.Errorf("block: render %s: %w", name, err)
	}
	nodes, err := dom.ParseFragment(buf.String(), node)
	if err != nil {
		return err
	}
	dom.ReplaceChildren(node, nodes...)
	return nil
}

// LoadAll loads every div.block under root one at a time in document order.
func (l *Loader) LoadAll(ctx context.Context, root *html.Node, env *Env) {
	for _, b := range dom.QueryAll(root, "div.block") {
		if ctx.Err() != nil {
			return
		}
		l.Load(ctx, b, env)
	}
}
