package blocks

import (
	"context"
	"html/template"

	"github.com/a-h/templ"

	"github.com/eringen/contentflow/block"
)

type statCard struct {
	Stat  string
	Title string
	Desc  string
}

type problemData struct {
	intro
	Cards []statCard
}

// problem rows: label, heading, subtitle, then one row per card with
// stat | title | description.
func problem(_ context.Context, b *block.Block) (templ.Component, error) {
	b.SetID("problem")
	data := problemData{intro: readIntro(b, "The Problem", "<h2>DA.live authoring lacks governance.</h2>")}
	for i := 3; i < len(b.Rows()); i++ {
		data.Cards = append(data.Cards, statCard{
			Stat:  b.ColText(i, 0, ""),
			Title: b.ColText(i, 1, ""),
			Desc:  b.ColText(i, 2, ""),
		})
	}
	return render("problem", data), nil
}

type deliverable struct {
	URL     string
	Badge   string
	Title   string
	Desc    string
	Preview template.HTML
}

var deliverableCards = []deliverable{
	{
		URL:   "sbtechlabs.com/products/pulse",
		Badge: "Auto-Created",
		Title: "Product Page",
		Desc:  "Hero, features grid, pricing, and CTAs — pre-filled from form.",
		Preview: `<div class="mock-h" style="width:60%"></div>
<div class="mock-line" style="width:85%"></div>
<div class="mock-line" style="width:70%"></div>
<div class="mock-blocks"><div class="mock-block"></div><div class="mock-block"></div><div class="mock-block"></div></div>
<div class="mock-line" style="width:40%;margin-top:14px;height:12px;border-radius:6px;background:rgb(20 115 230 / 12%)"></div>`,
	},
	{
		URL:   "sbtechlabs.com/blog/introducing-pulse",
		Badge: "Auto-Generated",
		Title: "Blog Article",
		Desc:  "Launch announcement drafted from product description.",
		Preview: `<div class="mock-h" style="width:80%"></div>
<div class="del-meta"><span class="del-tag">PRODUCT</span><span class="del-date">Feb 6, 2026 · 4 min</span></div>
<div class="mock-line" style="width:100%"></div>
<div class="mock-line" style="width:95%"></div>
<div class="mock-line" style="width:90%"></div>
<div class="mock-line" style="width:85%"></div>
<div class="mock-line" style="width:65%"></div>`,
	},
	{
		URL:   "sbtechlabs.com/resources/pulse-brochure.pdf",
		Badge: "Auto-Generated",
		Title: "Product Brochure",
		Desc:  "Branded PDF from template and product data. Print-ready.",
		Preview: `<div class="del-pdf-layout">
<div class="del-pdf-left">
<div class="del-pdf-icon"><svg width="28" height="28" viewBox="0 0 24 24" fill="none" stroke="rgb(45 157 120 / 30%)" stroke-width="1"><path d="M14 2H6a2 2 0 0 0-2 2v16a2 2 0 0 0 2 2h12a2 2 0 0 0 2-2V8z"/><polyline points="14 2 14 8 20 8"/></svg></div>
<div class="mock-line" style="width:70%"></div>
<div class="mock-line" style="width:55%"></div>
</div>
<div class="del-pdf-right">
<div class="mock-line" style="width:100%"></div>
<div class="mock-line" style="width:90%"></div>
<div class="mock-line" style="width:95%"></div>
<div class="mock-line" style="width:75%"></div>
<div class="mock-line" style="width:85%"></div>
</div>
</div>`,
	},
}

type deliverablesData struct {
	intro
	Cards []deliverable
}

// deliverables rows: label, heading, subtitle. Cards are generated.
func deliverables(_ context.Context, b *block.Block) (templ.Component, error) {
	region(b, "deliverables", "Auto-Generated Assets")
	return render("deliverables", deliverablesData{
		intro: readIntro(b, "Auto-Generated Assets", "<h2>One Workflow. Three deliverables.</h2>"),
		Cards: deliverableCards,
	}), nil
}

type member struct {
	Initial string
	Name    string
	Role    string
	Desc    string
}

var teamMembers = []member{
	{"P", "Princy", "Enterprise Architect", "Led enterprise architecture strategy, ensuring ContentFlow integrates seamlessly with security and scalability across client ecosystems."},
	{"A", "Andreaas", "EDS Architect", "Designed the Edge Delivery Services architecture — page templates, custom blocks, Admin API integrations, and multi-environment deployment."},
	{"S", "Shravan Bachu", "Workfront Architect", "Built end-to-end workflow automation — Fusion scenarios, I/O Runtime proxy, DA.live Library plugins, and the review-to-publish pipeline."},
}

const teamOrg template.HTML = "Representing <strong>Cognizant Technology Solutions</strong> · Adobe Practice"

type teamData struct {
	intro
	Members []member
	Org     template.HTML
}

// team rows: label, heading, subtitle. Member cards are generated.
func team(_ context.Context, b *block.Block) (templ.Component, error) {
	region(b, "team", "Team")
	return render("team", teamData{
		intro:   readIntro(b, "The Team", "<h2>Key contributors.</h2>"),
		Members: teamMembers,
		Org:     teamOrg,
	}), nil
}

type techItem struct {
	Abbr string
	Name string
	Role string
}

var techItems = []techItem{
	{"Da", "DA.live", "Author"},
	{"Ed", "Edge Delivery", "Deliver"},
	{"Wf", "Workfront", "Govern"},
	{"Fn", "Fusion", "Automate"},
	{"Io", "I/O Runtime", "Secure"},
	{"Fi", "Firefly", "Generate"},
}

type technologyData struct {
	intro
	Items []techItem
}

// technology rows: label, heading, subtitle. The stack row is generated.
func technology(_ context.Context, b *block.Block) (templ.Component, error) {
	region(b, "technology", "Technology")
	return render("technology", technologyData{
		intro: readIntro(b, "Technology", `<h2>Powered by the <span class="gradient-text">Adobe ecosystem.</span></h2>`),
		Items: techItems,
	}), nil
}

var terminalLines = template.HTML(`<div class="tc"># ContentFlow Documentation Generator</div>
<div class="tc"># Powered by Workfront Fusion + EDS Admin API</div>
<br>
<div><span class="tp"></span><span class="tcmd">contentflow generate --docs</span></div>
<br>
<div class="ti">→ Creating Workfront project: "ContentFlow Docs"</div>
<div class="ti">→ Generating pages via EDS Admin API...</div>
<br>
<div class="tok">  ✓ <span class="tf">/docs/architecture</span>      created</div>
<div class="tok">  ✓ <span class="tf">/docs/implementation</span>    created</div>
<div class="tok">  ✓ <span class="tf">/docs/fusion-scenarios</span>  created</div>
<div class="tok">  ✓ <span class="tf">/docs/da-live-plugins</span>  created</div>
<div class="tok">  ✓ <span class="tf">/docs/api-reference</span>    created</div>
<div class="tok">  ✓ <span class="tf">/docs/resources</span>        created</div>
<br>
<div class="ti">→ 6 pages generated in 8.2s</div>
<div class="ti">→ Workfront tasks assigned for review</div>
<br>
<div><span class="tp"></span><span class="cursor">_</span></div>`)

type docsData struct {
	intro
	TextHeading string
	TextPara    string
	Note        string
	Terminal    template.HTML
	CTALabel    string
	CTASub      string
}

// docs rows: label, heading, subtitle. The generator mockup is generated.
func docs(_ context.Context, b *block.Block) (templ.Component, error) {
	region(b, "docs", "Behind the Build")
	return render("docs", docsData{
		intro:       readIntro(b, "Behind the Build", "<h2>How was this site built?</h2>"),
		TextHeading: "Every great accelerator deserves great documentation.",
		TextPara:    "One click triggers a Fusion workflow that generates complete site documentation — architecture, Fusion scenarios, DA.live plugin docs, API references, and step-by-step implementation guides.",
		Note:        "The documentation pages don’t exist yet. Click the button below and watch ContentFlow create them in real-time — the same way it creates product pages.",
		Terminal:    terminalLines,
		CTALabel:    "Generate Site Documentation",
		CTASub:      "One click · Six pages · Full documentation via Fusion",
	}), nil
}

type featureCard struct {
	Title string
	Desc  string
	Icon  template.HTML
}

var featureIcons = []template.HTML{
	`<svg viewBox="0 0 24 24" fill="none" stroke="currentColor" stroke-width="2"><rect x="3" y="3" width="18" height="18" rx="2"/><path d="M3 9h18M9 21V9"/></svg>`,
	`<svg viewBox="0 0 24 24" fill="none" stroke="currentColor" stroke-width="2"><path d="M18 8A6 6 0 0 0 6 8c0 7-3 9-3 9h18s-3-2-3-9"/><path d="M13.73 21a2 2 0 0 1-3.46 0"/></svg>`,
	`<svg viewBox="0 0 24 24" fill="none" stroke="currentColor" stroke-width="2"><path d="M22 12h-4l-3 9L9 3l-3 9H2"/></svg>`,
	`<svg viewBox="0 0 24 24" fill="none" stroke="currentColor" stroke-width="2"><path d="M14 2H6a2 2 0 0 0-2 2v16a2 2 0 0 0 2 2h12a2 2 0 0 0 2-2V8z"/><polyline points="14 2 14 8 20 8"/><line x1="16" y1="13" x2="8" y2="13"/><line x1="16" y1="17" x2="8" y2="17"/></svg>`,
	`<svg viewBox="0 0 24 24" fill="none" stroke="currentColor" stroke-width="2"><circle cx="11" cy="11" r="8"/><line x1="21" y1="21" x2="16.65" y2="16.65"/></svg>`,
	`<svg viewBox="0 0 24 24" fill="none" stroke="currentColor" stroke-width="2"><path d="M12 22s8-4 8-10V5l-8-3-8 3v7c0 6 8 10 8 10z"/></svg>`,
}

type featuresData struct {
	Heading template.HTML
	Cards   []featureCard
}

// features rows: heading, then title | description per card.
func features(_ context.Context, b *block.Block) (templ.Component, error) {
	data := featuresData{Heading: b.Heading(0, "h2, h3", "<h2>Key Features</h2>")}
	for i := 1; i < len(b.Rows()); i++ {
		data.Cards = append(data.Cards, featureCard{
			Title: b.ColText(i, 0, ""),
			Desc:  b.ColText(i, 1, ""),
			Icon:  featureIcons[(i-1)%len(featureIcons)],
		})
	}
	return render("features", data), nil
}
