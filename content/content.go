// Package content locates authored pages and fragments and describes the
// product entries listed from the query index.
package content

import (
	"context"
	"errors"
	"path"
	"strings"
	"time"
)

// ErrNotFound reports a page or fragment the source does not have.
var ErrNotFound = errors.New("content: not found")

// Source serves authored content by site path ("/", "/products/pulse",
// "/nav").
type Source interface {
	// Page returns a complete HTML document.
	Page(ctx context.Context, p string) (string, error)
	// Fragment returns the plain body markup of a page, as served at
	// <path>.plain.html.
	Fragment(ctx context.Context, p string) (string, error)
}

// Info describes one listed page.
type Info struct {
	Path     string
	Modified time.Time
}

// Lister enumerates the pages a source holds.
type Lister interface {
	List(ctx context.Context) ([]Info, error)
}

// Entry is one row of the query index.
type Entry struct {
	Path         string `json:"path"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	Image        string `json:"image"`
	Audience     string `json:"audience"`
	LastModified int64  `json:"lastModified"`
}

// EntrySource lists query index entries.
type EntrySource interface {
	Entries(ctx context.Context) ([]Entry, error)
}

// CleanPath normalises a request path: leading slash, no trailing slash
// except for the root, no ".html"/".plain.html" suffix, no dot segments.
func CleanPath(p string) string {
	p = strings.TrimSuffix(p, ".plain.html")
	p = strings.TrimSuffix(p, ".html")
	p = path.Clean("/" + p)
	if p == "/index" {
		return "/"
	}
	return strings.TrimSuffix(p, "/index")
}
