package blocks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"math"
	"strconv"
	"time"

	"github.com/a-h/templ"
	"golang.org/x/net/html"

	"github.com/eringen/contentflow/anim"
	"github.com/eringen/contentflow/block"
	"github.com/eringen/contentflow/dom"
)

type pipelineStep struct {
	Name string
	Tool string
	// Secs is the simulated run time shown once the step completes.
	Secs float64
}

func (s pipelineStep) Time() string { return strconv.FormatFloat(s.Secs, 'f', 1, 64) }

var pipelineSteps = []pipelineStep{
	{"Create Workfront Project", "Fusion", 1.2},
	{"Generate Product Image", "Firefly", 2.4},
	{"Create Product Page", "EDS API", 0.8},
	{"Create Blog Article", "EDS API", 1.1},
	{"Create Campaign", "EDS API", 0.9},
	{"Generate Brochure PDF", "PDF Services", 1.6},
	{"Assign Review Tasks", "Workfront", 0.7},
	{"Publish Product Page", "Fusion", 0.6},
	{"Unpublish Campaign", "Fusion", 0.5},
}

type pipelineAsset struct {
	Label string
	Color string
	BG    template.CSS
	Icon  template.HTML
}

var pipelineAssets = []pipelineAsset{
	{"Product", "#4B9CF5", "background:rgb(20 115 230 / 0.08)", `<path d="M14 2H6a2 2 0 0 0-2 2v16a2 2 0 0 0 2 2h12a2 2 0 0 0 2-2V8z"/><polyline points="14 2 14 8 20 8"/>`},
	{"Article", "#B07CE8", "background:rgb(146 86 217 / 0.08)", `<path d="M12 20h9M16.5 3.5a2.12 2.12 0 0 1 3 3L7 19l-4 1 1-4Z"/>`},
	{"Campaign", "#0FB5AE", "background:rgb(15 181 174 / 0.08)", `<circle cx="12" cy="12" r="10"/><polyline points="12 6 12 12 16 14"/>`},
	{"Brochure", "#F5A623", "background:rgb(230 134 25 / 0.08)", `<path d="M4 19.5v-15A2.5 2.5 0 0 1 6.5 2H20v20H6.5a2.5 2.5 0 0 1 0-5H20"/>`},
}

// firstRevealStep is the step whose completion shows the first asset.
const firstRevealStep = 2

func assetID(i int) string { return fmt.Sprintf("plAsset%d", i) }

// PipelineScript is the hero console's timeline: trigger at 300ms, first
// step at 900ms, 150ms between steps, summary 200ms after the last step and
// a restart 3.5s after it.
func PipelineScript() anim.Script {
	steps := make([]anim.Step, len(pipelineSteps))
	for i, s := range pipelineSteps {
		steps[i] = anim.Step{Name: s.Name, Run: time.Duration(math.Round(s.Secs*1000)) * time.Millisecond}
		if a := i - firstRevealStep; a >= 0 && a < len(pipelineAssets) {
			steps[i].Reveal = assetID(a)
		}
	}
	return anim.Script{
		Steps: steps,
		Intro: 300 * time.Millisecond,
		Lead:  900 * time.Millisecond,
		Gap:   150 * time.Millisecond,
		Tail:  200 * time.Millisecond,
		Hold:  3500 * time.Millisecond,
		Loop:  true,
	}
}

func pipelineTotal() string {
	var total float64
	for _, s := range pipelineSteps {
		total += s.Secs
	}
	return strconv.FormatFloat(total, 'f', 1, 64) + "s"
}

type button struct {
	Href  string
	Text  string
	Class string
}

type heroData struct {
	Eyebrow  template.HTML
	Heading  template.HTML
	Desc     template.HTML
	Buttons  []button
	Steps    []pipelineStep
	Assets   []pipelineAsset
	Timeline string
	Total    string
}

// hero rows: eyebrow, heading, description, buttons. The pipeline console
// beside it is generated.
func hero(_ context.Context, b *block.Block) (templ.Component, error) {
	if s := b.Section(); s != nil {
		dom.AddClass(s, "hero-section")
	}
	data := heroData{
		Eyebrow: b.CellHTML(0),
		Heading: b.Heading(1, "", "<h1>ContentFlow</h1>"),
		Desc:    b.CellHTML(2),
		Steps:   pipelineSteps,
		Assets:  pipelineAssets,
		Total:   pipelineTotal(),
	}
	for i, l := range b.Links(3) {
		cls := "btn btn-outline"
		if i == 0 {
			cls = "btn btn-blue"
		}
		data.Buttons = append(data.Buttons, button{Href: b.Env().Relative(l.Href), Text: l.Text, Class: cls})
	}
	timeline, err := json.Marshal(PipelineScript().Timeline())
	if err != nil {
		return nil, err
	}
	data.Timeline = string(timeline)
	return render("hero", data), nil
}

// pipelineView applies sequencer cues to a rendered pipeline console.
type pipelineView struct {
	trigger *html.Node
	steps   []*html.Node
	assets  map[string]*html.Node
	summary *html.Node
	replay  *html.Node
	total   *html.Node
}

func (v *pipelineView) Reset() {
	dom.RemoveClass(v.trigger, "vis")
	for _, s := range v.steps {
		dom.RemoveClass(s, "vis", "active", "done")
		if st := dom.Query(s, ".pl-status"); st != nil {
			dom.SetAttr(st, "class", "pl-status waiting")
			dom.SetText(st, "○")
		}
		if t := dom.Query(s, ".pl-step-time"); t != nil {
			dom.SetText(t, "—")
		}
	}
	for _, a := range v.assets {
		dom.RemoveClass(a, "vis")
	}
	dom.RemoveClass(v.summary, "vis")
	dom.RemoveClass(v.replay, "vis")
}

func (v *pipelineView) Begin() { dom.AddClass(v.trigger, "vis") }

func (v *pipelineView) Enter(i int, s anim.State) {
	if i < 0 || i >= len(v.steps) {
		return
	}
	step := v.steps[i]
	st := dom.Query(step, ".pl-status")
	switch s {
	case anim.Running:
		dom.AddClass(step, "vis", "active")
		if st != nil {
			dom.SetAttr(st, "class", "pl-status running")
			dom.SetText(st, "◉")
		}
	case anim.Done:
		dom.RemoveClass(step, "active")
		dom.AddClass(step, "done")
		if st != nil {
			dom.SetAttr(st, "class", "pl-status done")
			dom.SetText(st, "✓")
		}
		if t := dom.Query(step, ".pl-step-time"); t != nil {
			dom.SetText(t, dom.Attr(step, "data-time")+"s")
		}
	}
}

func (v *pipelineView) Reveal(name string) {
	if a := v.assets[name]; a != nil {
		dom.AddClass(a, "vis")
	}
}

func (v *pipelineView) Finish() {
	dom.AddClass(v.summary, "vis")
	dom.AddClass(v.replay, "vis")
	if v.total != nil {
		dom.SetText(v.total, pipelineTotal())
	}
}

// BindPipeline attaches the pipeline sequencer to a loaded hero block.
func BindPipeline(node *html.Node, ctl *anim.Controller, _ anim.Clock) (block.Animation, error) {
	v := &pipelineView{
		trigger: dom.Query(node, "#plTrigger"),
		steps:   dom.QueryAll(node, ".pl-step"),
		assets:  make(map[string]*html.Node),
		summary: dom.Query(node, "#plSummary"),
		replay:  dom.Query(node, "#plReplay"),
		total:   dom.Query(node, "#plTotal"),
	}
	if v.trigger == nil || v.summary == nil || len(v.steps) == 0 {
		return nil, errors.New("blocks: hero has no pipeline console")
	}
	for i := range pipelineAssets {
		if a := dom.Query(node, "#"+assetID(i)); a != nil {
			v.assets[assetID(i)] = a
		}
	}
	return anim.NewSequencer(ctl, PipelineScript(), v), nil
}
