// Package page runs the page load sequence over a parsed document: decorate
// the structure, load priority blocks, load the rest, load the header and
// footer, then prepare the document for the client runtime.
package page

import (
	"context"
	"strings"
	"time"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/eringen/contentflow/block"
	"github.com/eringen/contentflow/decorate"
	"github.com/eringen/contentflow/dom"
	"github.com/eringen/contentflow/metrics"
)

// State is a stage of the page load. Stages are reached in order.
type State int

const (
	Init State = iota
	StructureDecorated
	PriorityBlocksLoaded
	AllBlocksLoaded
	ChromeLoaded
	Interactive
)

var stateNames = [...]string{"init", "structure-decorated", "priority-blocks-loaded", "all-blocks-loaded", "chrome-loaded", "interactive"}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

const (
	// StylesPath is the site stylesheet loaded before decoration.
	StylesPath = "/styles/styles.css"
	// ScriptPath is the client runtime: reveal observer, toggle, timers.
	ScriptPath = "/public/contentflow.js"
	// RevealThreshold is the visible fraction at which .sr targets reveal.
	RevealThreshold = "0.15"
)

// DefaultPriority selects the blocks loaded before all others.
var DefaultPriority = []string{".hero.block", ".pipeline.block"}

// Orchestrator loads pages. It holds no per-page state and is safe for
// concurrent use when its Loader is.
type Orchestrator struct {
	Loader   *block.Loader
	Priority []string
	Styles   string
	Script   string
	Metrics  *metrics.Recorder
	// OnState observes every transition with the time spent reaching it.
	OnState func(s State, took time.Duration)
}

// New returns an orchestrator with the default priority selectors and asset
// paths.
func New(loader *block.Loader) *Orchestrator {
	return &Orchestrator{
		Loader:   loader,
		Priority: DefaultPriority,
		Styles:   StylesPath,
		Script:   ScriptPath,
	}
}

// Options are per-request choices.
type Options struct {
	// Paused renders the animation toggle in its paused state.
	Paused bool
}

// Load runs the sequence over doc using env for every block, and returns the
// last state reached. A document without <main> is left untouched in Init.
// Block and chrome failures are recorded on the nodes and do not stop the
// sequence; a cancelled ctx stops it at the current state.
func (o *Orchestrator) Load(ctx context.Context, doc *html.Node, env *block.Env, opts Options) State {
	main := dom.Query(doc, "main")
	if main == nil {
		return Init
	}
	env.SetDocument(doc)
	if env.Loader == nil {
		env.Loader = o.Loader
	}
	head := dom.Head(doc)
	body := dom.Body(doc)
	last := time.Now()
	reach := func(s State) {
		took := time.Since(last)
		last = time.Now()
		o.Metrics.PageState(s.String(), took)
		if o.OnState != nil {
			o.OnState(s, took)
		}
	}

	if root := dom.FindTag(doc, atom.Html); root != nil {
		dom.SetAttr(root, "lang", "en")
	}
	if head != nil && o.Styles != "" {
		if err := o.Loader.Resources.LoadCSS(ctx, head, o.Styles); err != nil {
			env.Log().Errorf("page: %v", err)
		}
	}
	decorate.Main(main)
	reach(StructureDecorated)

	if len(o.Priority) > 0 {
		for _, b := range dom.QueryAll(main, strings.Join(o.Priority, ", ")) {
			if ctx.Err() != nil {
				return StructureDecorated
			}
			o.Loader.Load(ctx, b, env)
		}
	}
	reach(PriorityBlocksLoaded)
	if ctx.Err() != nil {
		return PriorityBlocksLoaded
	}

	o.Loader.LoadAll(ctx, main, env)
	if ctx.Err() != nil {
		return PriorityBlocksLoaded
	}
	reach(AllBlocksLoaded)

	if body != nil {
		for _, name := range []string{"header", "footer"} {
			if ctx.Err() != nil {
				return AllBlocksLoaded
			}
			o.Loader.Load(ctx, chromeBlock(body, main, name), env)
		}
	}
	reach(ChromeLoaded)
	if ctx.Err() != nil {
		return ChromeLoaded
	}

	if body != nil {
		dom.SetData(body, "srThreshold", RevealThreshold)
		if head != nil && o.Script != "" {
			if err := o.Loader.Resources.LoadScript(ctx, head, o.Script, "defer", ""); err != nil {
				env.Log().Errorf("page: %v", err)
			}
		}
		if dom.Query(body, "#animToggle") == nil {
			dom.Append(body, toggleButton(opts.Paused))
		}
		dom.AddClass(body, "appear")
	}
	reach(Interactive)
	return Interactive
}

// chromeBlock returns the header or footer block, creating the landmark and
// the block div when missing.
func chromeBlock(body, main *html.Node, name string) *html.Node {
	landmark := dom.Query(body, name)
	if landmark == nil {
		landmark = dom.Element(name)
		if name == "header" {
			body.InsertBefore(landmark, body.FirstChild)
		} else {
			dom.Append(body, landmark)
		}
	}
	if b := dom.Query(landmark, "div."+name+".block"); b != nil {
		return b
	}
	b := dom.Element("div", "class", name+" block")
	dom.SetData(b, "blockName", name)
	dom.Append(landmark, b)
	return b
}

const toggleIcons = `<svg class="icon-pause" viewBox="0 0 24 24"><rect x="6" y="4" width="4" height="16" rx="1"></rect><rect x="14" y="4" width="4" height="16" rx="1"></rect></svg><svg class="icon-play" viewBox="0 0 24 24"><polygon points="6,4 20,12 6,20"></polygon></svg>`

// ToggleLabel is the toggle button text for the given pause state.
func ToggleLabel(paused bool) string {
	if paused {
		return "Play animations"
	}
	return "Pause animations"
}

func toggleButton(paused bool) *html.Node {
	btn := dom.Element("button", "class", "anim-toggle", "id", "animToggle", "type", "button", "aria-label", ToggleLabel(paused))
	if paused {
		dom.AddClass(btn, "paused")
	}
	label := dom.Element("span", "class", "anim-toggle-label")
	dom.SetText(label, ToggleLabel(paused))
	dom.Append(btn, label)
	icons, err := dom.ParseFragment(toggleIcons, btn)
	if err == nil {
		for _, n := range icons {
			dom.Append(btn, n)
		}
	}
	return btn
}
