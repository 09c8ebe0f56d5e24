package block

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/a-h/templ"
	"golang.org/x/net/html"

	"github.com/eringen/contentflow/anim"
)

// ErrUnknownBlock reports a block name with no registered definition.
var ErrUnknownBlock = errors.New("block: unknown block")

// Transform turns a block's authored rows into its output. A nil component
// leaves the node's children untouched.
type Transform func(ctx context.Context, b *Block) (templ.Component, error)

// Animation is a time-driven behaviour bound to a loaded block.
type Animation interface {
	SetVisible(bool)
	Close()
}

// Binder attaches an animation to a loaded block node. ctl drives
// pausable effects; clock drives effects that ignore the pause toggle.
type Binder func(node *html.Node, ctl *anim.Controller, clock anim.Clock) (Animation, error)

// Definition describes how a block is loaded.
type Definition struct {
	// Style is the stylesheet address; empty means /blocks/<name>/<name>.css.
	Style     string
	Transform Transform
	Bind      Binder
}

// Registry maps block names to definitions. It is filled at startup and
// read concurrently afterwards.
type Registry struct {
	mu   sync.RWMutex
	defs map[string]Definition
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{defs: make(map[string]Definition)}
}

// Register adds or replaces the definition for name.
func (r *Registry) Register(name string, def Definition) {
	if def.Transform == nil {
		panic(fmt.Sprintf("block: register %q: nil transform", name))
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.defs[name] = def
}

// Lookup returns the definition for name.
func (r *Registry) Lookup(name string) (Definition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.defs[name]
	return def, ok
}

// Names returns the registered block names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.defs))
	for n := range r.defs {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// StyleFor returns the stylesheet address for a block named name.
func (d Definition) StyleFor(name string) string {
	if d.Style != "" {
		return d.Style
	}
	return "/blocks/" + name + "/" + name + ".css"
}
