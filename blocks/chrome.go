package blocks

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"net/url"

	"github.com/a-h/templ"
	"golang.org/x/net/html"

	"github.com/eringen/contentflow/block"
	"github.com/eringen/contentflow/decorate"
	"github.com/eringen/contentflow/dom"
)

// MaxFragmentDepth bounds how deeply fragment blocks may include each other.
const MaxFragmentDepth = 4

// ErrFragmentDepth reports a fragment chain deeper than MaxFragmentDepth.
var ErrFragmentDepth = errors.New("blocks: fragments nested too deeply")

// fetchFragment loads p through the environment's fragment source and
// parses it into a detached wrapper.
func fetchFragment(ctx context.Context, env *block.Env, p string) (*html.Node, error) {
	if env.Fragments == nil {
		return nil, errors.New("blocks: no fragment source")
	}
	src, err := env.Fragments.Fragment(ctx, p)
	if err != nil {
		return nil, err
	}
	return dom.Fragment(src)
}

// navPath resolves the nav fragment path from the "nav" metadata.
func navPath(env *block.Env) string {
	meta := env.Metadata("nav")
	if meta == "" {
		return "/nav"
	}
	u, err := url.Parse(meta)
	if err != nil || u.Path == "" {
		return "/nav"
	}
	return u.Path
}

// header builds the site navigation from the nav fragment's list links. A
// missing nav leaves the block as authored.
func header(ctx context.Context, b *block.Block) (templ.Component, error) {
	env := b.Env()
	p := navPath(env)
	frag, err := fetchFragment(ctx, env, p)
	if err != nil {
		env.Log().Debugf("header: nav %s unavailable: %v", p, err)
		return nil, nil
	}
	var links []block.Link
	for _, a := range dom.QueryAll(frag, "ul a") {
		links = append(links, block.Link{Href: dom.Attr(a, "href"), Text: dom.Text(a)})
	}
	return render("header", links), nil
}

// footer wraps the footer fragment. A missing footer leaves the block as
// authored.
func footer(ctx context.Context, b *block.Block) (templ.Component, error) {
	env := b.Env()
	frag, err := fetchFragment(ctx, env, "/footer")
	if err != nil {
		env.Log().Debugf("footer: unavailable: %v", err)
		return nil, nil
	}
	return render("footer", template.HTML(dom.InnerHTML(frag))), nil
}

type depthKey struct{}

func fragmentDepth(ctx context.Context) int {
	d, _ := ctx.Value(depthKey{}).(int)
	return d
}

// fragment rows: the fragment path as a link or text. The fragment is
// decorated and its blocks are loaded before it is inlined. Without a path
// the block is left as authored.
func fragment(ctx context.Context, b *block.Block) (templ.Component, error) {
	p := b.Href(0, 0, "")
	if p == "" {
		b.Env().Log().Debugf("fragment: no path authored")
		return nil, nil
	}
	depth := fragmentDepth(ctx) + 1
	if depth > MaxFragmentDepth {
		return nil, fmt.Errorf("%w: %s", ErrFragmentDepth, p)
	}
	env := b.Env()
	frag, err := fetchFragment(ctx, env, p)
	if err != nil {
		return nil, fmt.Errorf("blocks: fragment %s: %w", p, err)
	}
	main := dom.Element("main")
	for c := frag.FirstChild; c != nil; {
		next := c.NextSibling
		frag.RemoveChild(c)
		main.AppendChild(c)
		c = next
	}
	decorate.Main(main)
	if env.Loader != nil {
		env.Loader.LoadAll(context.WithValue(ctx, depthKey{}, depth), main, env)
	}
	return render("fragment", template.HTML(dom.InnerHTML(main))), nil
}
