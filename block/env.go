package block

import (
	"context"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	"golang.org/x/net/html"

	"github.com/eringen/contentflow/anim"
	"github.com/eringen/contentflow/content"
	"github.com/eringen/contentflow/dom"
)

// FragmentSource fetches the plain markup of a page.
type FragmentSource interface {
	Fragment(ctx context.Context, path string) (string, error)
}

// Env is the per-document environment transforms run in.
type Env struct {
	Fragments FragmentSource
	Products  content.EntrySource
	Anim      *anim.Controller
	Clock     anim.Clock
	Logger    echo.Logger
	Loader    *Loader
	// Host is the site host; same-host links are made relative.
	Host string

	doc  *html.Node
	meta map[string]string
}

// SetDocument records doc and snapshots its metadata. Transforms read the
// snapshot, never the live head.
func (e *Env) SetDocument(doc *html.Node) {
	e.doc = doc
	e.meta = dom.MetadataMap(doc)
}

// Document returns the document being loaded.
func (e *Env) Document() *html.Node { return e.doc }

// Head returns the document head, or nil.
func (e *Env) Head() *html.Node {
	if e.doc == nil {
		return nil
	}
	return dom.Head(e.doc)
}

// Metadata returns the named page metadata from the snapshot.
func (e *Env) Metadata(name string) string {
	return e.meta[name]
}

// Relative strips the scheme and host from same-site links.
func (e *Env) Relative(href string) string {
	if e.Host == "" {
		return href
	}
	return dom.MakeRelative(href, e.Host)
}

// Log returns the environment logger, falling back to gommon's default.
func (e *Env) Log() echo.Logger {
	if e.Logger != nil {
		return e.Logger
	}
	return log.New("contentflow")
}

// Fork returns a copy sharing every collaborator but bound to doc.
func (e *Env) Fork(doc *html.Node) *Env {
	cp := *e
	cp.SetDocument(doc)
	return &cp
}
