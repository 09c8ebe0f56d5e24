package blocks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"time"

	"github.com/a-h/templ"
	"golang.org/x/net/html"

	"github.com/eringen/contentflow/anim"
	"github.com/eringen/contentflow/block"
	"github.com/eringen/contentflow/dom"
)

type solutionStep struct {
	Num   string
	Title string
	Desc  string
	Color string
	Icon  template.HTML
}

var solutionSteps = []solutionStep{
	{
		Num:   "01",
		Title: "Submit",
		Desc:  "Fill one form with product details — name, tagline, features. Fusion creates everything automatically.",
		Color: "#4B9CF5",
		Icon:  `<rect x="3" y="3" width="18" height="18" rx="3"/><path d="M9 12h6M12 9v6"/>`,
	},
	{
		Num:   "02",
		Title: "Auto-Create",
		Desc:  "Fusion creates a Workfront project, product page, article, and brochure with Google Imagen hero images.",
		Color: "#B07CE8",
		Icon:  `<path d="M13 2L3 14h9l-1 8 10-12h-9l1-8z"/>`,
	},
	{
		Num:   "03",
		Title: "Review & Approve",
		Desc:  "Authors send for review from DA.live. Workfront manages the approval workflow with full audit trail.",
		Color: "#F5A623",
		Icon:  `<circle cx="11" cy="11" r="8"/><path d="m21 21-4.3-4.3"/>`,
	},
	{
		Num:   "04",
		Title: "Auto-Publish",
		Desc:  "Approved pages auto-publish via EDS Admin API. Rejected pages route back to author with comments.",
		Color: "#33AB84",
		Icon:  `<path d="M22 2L11 13"/><path d="M22 2l-7 20-4-9-9-4z"/>`,
	},
}

// progress bar right offsets once step i is lit.
var solutionRights = []string{"62.5%", "37.5%", "20%", "calc(12.5% + 10px)"}

const solutionProgressStart = "calc(87.5% - 10px)"

// SolutionScript pulses through the four steps 700ms apart, lighting each
// 300ms after the pulse arrives, and restarts 6s after the run began.
func SolutionScript() anim.Script {
	steps := make([]anim.Step, len(solutionSteps))
	for i, s := range solutionSteps {
		steps[i] = anim.Step{Name: s.Title, Run: 300 * time.Millisecond}
	}
	return anim.Script{
		Steps: steps,
		Lead:  200 * time.Millisecond,
		Gap:   400 * time.Millisecond,
		Tail:  200 * time.Millisecond,
		Hold:  3000 * time.Millisecond,
		Loop:  true,
	}
}

type solutionData struct {
	intro
	Steps    []solutionStep
	Rights   []string
	Start    string
	Timeline string
}

// solution rows: label, heading, subtitle. Steps are generated.
func solution(_ context.Context, b *block.Block) (templ.Component, error) {
	b.SetID("solution")
	timeline, err := json.Marshal(SolutionScript().Timeline())
	if err != nil {
		return nil, err
	}
	return render("solution", solutionData{
		intro:    readIntro(b, "The Solution", `<h2>One request.<br><span class="gradient-text">Everything automated.</span></h2>`),
		Steps:    solutionSteps,
		Rights:   solutionRights,
		Start:    solutionProgressStart,
		Timeline: string(timeline),
	}), nil
}

type solutionView struct {
	steps    []*html.Node
	progress *html.Node
	pulse    *html.Node
}

func (v *solutionView) Reset() {
	for _, s := range v.steps {
		dom.RemoveClass(s, "lit")
	}
	dom.SetAttr(v.progress, "style", "right:"+solutionProgressStart)
	dom.SetAttr(v.pulse, "class", "sol-pulse")
}

func (v *solutionView) Begin() {}

func (v *solutionView) Enter(i int, s anim.State) {
	if i < 0 || i >= len(v.steps) {
		return
	}
	switch s {
	case anim.Running:
		dom.SetAttr(v.pulse, "class", fmt.Sprintf("sol-pulse s%d", i))
	case anim.Done:
		dom.AddClass(v.steps[i], "lit")
		if i < len(solutionRights) {
			dom.SetAttr(v.progress, "style", "right:"+solutionRights[i])
		}
	}
}

func (v *solutionView) Reveal(string) {}

func (v *solutionView) Finish() { dom.SetAttr(v.pulse, "class", "sol-pulse done") }

// BindSolution attaches the step sequencer to a loaded solution block.
func BindSolution(node *html.Node, ctl *anim.Controller, _ anim.Clock) (block.Animation, error) {
	v := &solutionView{
		steps:    dom.QueryAll(node, ".sol-step"),
		progress: dom.Query(node, "#solProgress"),
		pulse:    dom.Query(node, "#solPulse"),
	}
	if v.progress == nil || v.pulse == nil || len(v.steps) == 0 {
		return nil, errors.New("blocks: solution has no step track")
	}
	return anim.NewSequencer(ctl, SolutionScript(), v), nil
}
