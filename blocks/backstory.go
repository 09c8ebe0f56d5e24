package blocks

import (
	"context"
	"errors"
	"time"

	"github.com/a-h/templ"
	"golang.org/x/net/html"

	"github.com/eringen/contentflow/anim"
	"github.com/eringen/contentflow/block"
	"github.com/eringen/contentflow/dom"
)

type phase struct {
	Num   string
	Name  string
	Label string
	Title string
	Desc  string
}

var phases = []phase{
	{
		Num:   "Phase 1",
		Name:  "DA.live Today",
		Label: "Phase 1 — DA.live Today",
		Title: "The Authoring Revolution",
		Desc:  "DA.live has changed how content teams author for Edge Delivery Services. Browser-based, collaborative, and browser-agnostic — it removed the Chrome-only Sidekick dependency and made EDS authoring accessible to everyone. Organizations are rapidly adopting it as their primary authoring surface.",
	},
	{
		Num:   "Phase 2",
		Name:  "The Gap",
		Label: "Phase 2 — The Governance Gap",
		Title: "No Review, No Approval, No Control",
		Desc:  "DA.live has no built-in review or approval workflow. Authors can preview and publish without any oversight. There is no integration with Workfront or any enterprise workflow tool. Status tracking, audit trails, and governance are completely absent — the approval and workflow layer is broken.",
	},
	{
		Num:   "Phase 3",
		Name:  "The Bridge",
		Label: "Phase 3 — Building the Bridge",
		Title: "Connecting DA.live to Workfront via Fusion",
		Desc:  "Content Workflow creates the missing governance layer. Custom DA.live Library plugins let authors trigger reviews and check status without leaving the editor. Fusion scenarios connect to Workfront for project management, task-based approvals, and decision routing — all secured through I/O Runtime proxy endpoints.",
	},
	{
		Num:   "Phase 4",
		Name:  "Auto-Publish",
		Label: "Phase 4 — Automated Publishing",
		Title: "Approve Once, Publish Everywhere",
		Desc:  "When a reviewer approves in Workfront, Fusion automatically publishes the page via the EDS Admin API. Rejected pages route back to the author with comments. Live URLs are tracked in Workfront. The full content lifecycle — from authoring to governance to publishing — runs without a single manual handoff.",
	},
}

var backstoryProse = []string{
	"DA.live is the latest trend in EDS authoring — and for good reason. It gives content teams a browser-based, collaborative WYSIWYG editor that works on any browser, removing the Chrome-only Sidekick dependency that held back adoption. Organizations are moving to DA.live fast.",
	"But there is a critical gap. DA.live has no built-in governance layer. There is no review process, no approval workflow, no integration with enterprise workflow tools like Workfront. Authors can preview and publish without any oversight. The approval and workflow story is completely broken.",
	"Content Workflow solves this by bridging DA.live authoring to Workfront governance and EDS publishing automation — all orchestrated through Fusion, secured by I/O Runtime, with AI-powered page creation via Google Imagen.",
}

const backstoryQuote = `"DA.live is transforming how teams author for EDS — but without governance, review, and automated publishing, enterprise adoption hits a wall. Content Workflow builds the missing bridge."`

// PhaseInterval is how long each backstory phase stays up while cycling.
const PhaseInterval = 4 * time.Second

type backstoryData struct {
	intro
	Prose    []string
	Quote    string
	Phases   []phase
	Interval int64 // PhaseInterval in milliseconds

}

// backstory rows: label, heading. Prose, quote and phase tabs are generated.
func backstory(_ context.Context, b *block.Block) (templ.Component, error) {
	region(b, "background", "Background")
	in := readIntro(b, "The Background", "<h2>Why DA.live needs governance.</h2>")
	in.Subtitle = ""
	return render("backstory", backstoryData{
		intro:    in,
		Prose:    backstoryProse,
		Quote:    backstoryQuote,
		Phases:   phases,
		Interval: PhaseInterval.Milliseconds(),
	}), nil
}

// PhaseTabs is the tab cycler bound to a backstory block.
type PhaseTabs struct {
	*anim.Cycler
}

// BindBackstory attaches the phase tab cycler to a loaded backstory block.
func BindBackstory(node *html.Node, ctl *anim.Controller, _ anim.Clock) (block.Animation, error) {
	tabs := dom.QueryAll(node, ".phase-tab")
	panels := dom.QueryAll(node, ".phase-panel")
	if len(tabs) == 0 || len(tabs) != len(panels) {
		return nil, errors.New("blocks: backstory tabs and panels do not match")
	}
	show := func(i int) {
		for j := range tabs {
			dom.ToggleClass(tabs[j], "active", j == i)
			dom.ToggleClass(panels[j], "active", j == i)
		}
	}
	return PhaseTabs{anim.NewCycler(ctl, len(tabs), PhaseInterval, show)}, nil
}
