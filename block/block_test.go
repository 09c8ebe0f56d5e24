package block

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"sync/atomic"
	"testing"
	"testing/fstest"

	"github.com/a-h/templ"
	"github.com/labstack/gommon/log"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"github.com/eringen/contentflow/decorate"
	"github.com/eringen/contentflow/dom"
	"github.com/eringen/contentflow/resource"
)

const page = `<html><head><meta name="nav" content="/nav"></head><body><main>
<div>
  <div class="hero">
    <div><div>Eyebrow <em>text</em></div></div>
    <div><div><h1>Launch <em>fast</em></h1></div></div>
    <div><div></div></div>
    <div><div><a href="https://example.com/a">A</a> <a href="/b">B</a></div></div>
  </div>
  <div class="broken"><div><div>x</div></div></div>
  <div class="panicky"><div><div>x</div></div></div>
  <div class="mystery"><div><div>x</div></div></div>
</div>
</main></body></html>`

func text(s string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := io.WriteString(w, s)
		return err
	})
}

type fixture struct {
	doc    *html.Node
	main   *html.Node
	env    *Env
	loader *Loader
	calls  atomic.Int32
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	doc, err := dom.Parse(page)
	require.NoError(t, err)
	main := dom.Query(doc, "main")
	decorate.Main(main)

	f := &fixture{doc: doc, main: main}
	reg := NewRegistry()
	reg.Register("hero", Definition{Transform: func(_ context.Context, b *Block) (templ.Component, error) {
		f.calls.Add(1)
		return text(`<p class="out">` + b.Text(0, "none") + `</p>`), nil
	}})
	reg.Register("broken", Definition{Transform: func(context.Context, *Block) (templ.Component, error) {
		return nil, errors.New("boom")
	}})
	reg.Register("panicky", Definition{Transform: func(context.Context, *Block) (templ.Component, error) {
		panic("kaboom")
	}})
	assets := fstest.MapFS{
		"blocks/hero/hero.css":       {Data: []byte("")},
		"blocks/broken/broken.css":   {Data: []byte("")},
		"blocks/panicky/panicky.css": {Data: []byte("")},
	}
	f.loader = NewLoader(reg, resource.NewLoader(assets), nil)

	logger := log.New("test")
	logger.SetOutput(io.Discard)
	f.env = &Env{Logger: logger}
	f.env.SetDocument(doc)
	return f
}

func TestLoadReplacesContentAndInjectsStyle(t *testing.T) {
	f := newFixture(t)
	hero := dom.Query(f.main, ".hero")

	f.loader.Load(context.Background(), hero, f.env)

	require.Equal(t, StatusLoaded, StatusOf(hero))
	require.Equal(t, `<p class="out">Eyebrow text</p>`, dom.InnerHTML(hero))
	require.NotNil(t, dom.Query(dom.Head(f.doc), `link[href="/blocks/hero/hero.css"]`))
}

func TestLoadSkipsLoadedBlocks(t *testing.T) {
	f := newFixture(t)
	hero := dom.Query(f.main, ".hero")
	f.loader.Load(context.Background(), hero, f.env)
	before := dom.OuterHTML(f.doc)

	f.loader.Load(context.Background(), hero, f.env)

	require.Equal(t, int32(1), f.calls.Load())
	require.Equal(t, before, dom.OuterHTML(f.doc))
}

func TestLoadFailuresAreContained(t *testing.T) {
	f := newFixture(t)
	var logs bytes.Buffer
	f.env.Logger.SetOutput(&logs)

	f.loader.LoadAll(context.Background(), f.main, f.env)

	tests := []struct {
		sel  string
		want Status
	}{
		{".hero", StatusLoaded},
		{".broken", StatusError},
		{".panicky", StatusError},
		{".mystery", StatusError},
	}
	for _, tt := range tests {
		n := dom.Query(f.main, tt.sel)
		if got := StatusOf(n); got != tt.want {
			t.Errorf("%s status = %q, want %q", tt.sel, got, tt.want)
		}
	}
	for _, name := range []string{"broken", "panicky", "mystery"} {
		if !strings.Contains(logs.String(), "failed to load block "+name) {
			t.Errorf("no error logged for %s", name)
		}
	}
	if dom.Query(f.main, ".broken .broken-row") == nil {
		t.Error("failed block must keep its authored rows")
	}
}

func TestLoadMissingStylesheetMarksError(t *testing.T) {
	f := newFixture(t)
	f.loader.Registry.Register("mystery", Definition{Transform: func(context.Context, *Block) (templ.Component, error) {
		return text("ok"), nil
	}})
	n := dom.Query(f.main, ".mystery")
	f.loader.Load(context.Background(), n, f.env)
	require.Equal(t, StatusError, StatusOf(n))
}

func TestBlockHelpers(t *testing.T) {
	f := newFixture(t)
	f.env.Host = "example.com"
	b := New(dom.Query(f.main, ".hero"), f.env)

	require.Equal(t, "hero", b.Name())
	require.Len(t, b.Rows(), 4)
	require.Equal(t, "fallback", b.Text(2, "fallback"), "blank row uses fallback")
	require.Equal(t, "fallback", b.Text(9, "fallback"), "missing row uses fallback")
	require.Equal(t, "Eyebrow <em>text</em>", string(b.CellHTML(0)))
	require.Equal(t, "<h1>Launch <em>fast</em></h1>", string(b.Heading(1, "", "<h1>x</h1>")))
	require.Equal(t, "<h2>x</h2>", string(b.Heading(0, "h2", "<h2>x</h2>")))

	links := b.Links(3)
	require.Len(t, links, 2)
	require.Equal(t, Link{Href: "/b", Text: "B"}, links[1])
	require.Equal(t, "/a", b.Href(3, 0, "#"))
	require.Equal(t, "#", b.Href(5, 0, "#"))
	require.Equal(t, "/nav", f.env.Metadata("nav"))
	require.NotNil(t, b.Section())
}

func TestInt(t *testing.T) {
	doc, _ := dom.Fragment(`<div data-block-name="x"><div><div>90</div></div><div><div>abc</div></div><div><div>15s</div></div><div><div>0</div></div></div>`)
	b := New(dom.Children(doc)[0], nil)
	tests := []struct {
		row  int
		want int
	}{
		{0, 90},
		{1, 120},
		{2, 15},
		{3, 120},
		{7, 120},
	}
	for _, tt := range tests {
		if got := b.Int(tt.row, 120); got != tt.want {
			t.Errorf("Int(%d) = %d, want %d", tt.row, got, tt.want)
		}
	}
}

func TestRegistry(t *testing.T) {
	reg := NewRegistry()
	reg.Register("b", Definition{Transform: func(context.Context, *Block) (templ.Component, error) { return nil, nil }})
	reg.Register("a", Definition{Style: "/x.css", Transform: func(context.Context, *Block) (templ.Component, error) { return nil, nil }})

	require.Equal(t, []string{"a", "b"}, reg.Names())
	a, _ := reg.Lookup("a")
	b, _ := reg.Lookup("b")
	require.Equal(t, "/x.css", a.StyleFor("a"))
	require.Equal(t, "/blocks/b/b.css", b.StyleFor("b"))
	require.Panics(t, func() { reg.Register("c", Definition{}) })
}
