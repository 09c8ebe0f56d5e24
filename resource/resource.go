// Package resource injects stylesheet and script tags into a document head,
// at most once per address, after checking the asset exists.
package resource

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"strings"
	"sync"

	"golang.org/x/net/html"

	"github.com/eringen/contentflow/dom"
)

// ErrNotFound reports an address the asset store cannot serve.
var ErrNotFound = errors.New("resource: not found")

// Kind selects the element a resource is injected as.
type Kind int

const (
	CSS Kind = iota
	Script
)

func (k Kind) String() string {
	if k == Script {
		return "script"
	}
	return "css"
}

// Loader injects resources into document heads. Assets is consulted for
// site-relative addresses; a nil Assets accepts every address.
type Loader struct {
	Assets fs.FS

	mu sync.Mutex
}

// NewLoader returns a Loader backed by assets.
func NewLoader(assets fs.FS) *Loader {
	return &Loader{Assets: assets}
}

// Load appends a <link rel=stylesheet> or <script> for address to head unless
// one is already present. attrs are extra key/value attribute pairs for
// scripts. A missing asset returns an error wrapping ErrNotFound and leaves
// head untouched.
func (l *Loader) Load(ctx context.Context, head *html.Node, kind Kind, address string, attrs ...string) error {
	if head == nil {
		return fmt.Errorf("resource: load %s %s: no head", kind, address)
	}
	l.mu.Lock()
	present := l.present(head, kind, address)
	l.mu.Unlock()
	if present {
		return nil
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	if err := l.check(address); err != nil {
		return fmt.Errorf("resource: load %s %s: %w", kind, address, err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.present(head, kind, address) {
		return nil
	}
	var el *html.Node
	switch kind {
	case Script:
		el = dom.Element("script", "src", address)
		for i := 0; i+1 < len(attrs); i += 2 {
			dom.SetAttr(el, attrs[i], attrs[i+1])
		}
	default:
		el = dom.Element("link", "rel", "stylesheet", "href", address)
	}
	head.AppendChild(el)
	return nil
}

// LoadCSS is Load for stylesheets.
func (l *Loader) LoadCSS(ctx context.Context, head *html.Node, href string) error {
	return l.Load(ctx, head, CSS, href)
}

// LoadScript is Load for scripts.
func (l *Loader) LoadScript(ctx context.Context, head *html.Node, src string, attrs ...string) error {
	return l.Load(ctx, head, Script, src, attrs...)
}

func (l *Loader) present(head *html.Node, kind Kind, address string) bool {
	for _, c := range dom.Children(head) {
		switch {
		case kind == CSS && c.Data == "link" && dom.Attr(c, "href") == address:
			return true
		case kind == Script && c.Data == "script" && dom.Attr(c, "src") == address:
			return true
		}
	}
	return false
}

func (l *Loader) check(address string) error {
	if l.Assets == nil {
		return nil
	}
	u, err := url.Parse(address)
	if err != nil {
		return err
	}
	if u.Scheme != "" || u.Host != "" {
		return nil
	}
	name := strings.TrimPrefix(u.Path, "/")
	if name == "" || !fs.ValidPath(name) {
		return ErrNotFound
	}
	info, err := fs.Stat(l.Assets, name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ErrNotFound
		}
		return err
	}
	if info.IsDir() {
		return ErrNotFound
	}
	return nil
}
