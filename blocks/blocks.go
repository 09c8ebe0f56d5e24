// Package blocks holds the site's block transforms. Each block reads a fixed
// row shape from the authored table and renders its markup from an embedded
// template; rows that are missing or blank fall back to built-in copy.
package blocks

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/a-h/templ"

	"github.com/eringen/contentflow/block"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.New("blocks").Funcs(template.FuncMap{
	"delay": delay,
	"inc":   func(i int) int { return i + 1 },
}).ParseFS(templateFS, "templates/*.html"))

// render executes the named block template as a component.
func render(name string, data any) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		return templates.ExecuteTemplate(w, name, data)
	})
}

// delay returns the staggered reveal class for item i, capped at limit
// (0 means uncapped).
func delay(i, limit int) string {
	n := i + 1
	if limit > 0 && n > limit {
		n = limit
	}
	return fmt.Sprintf("sr-d%d", n)
}

// Register adds every block to reg.
func Register(reg *block.Registry) {
	for name, def := range Definitions() {
		reg.Register(name, def)
	}
}

// Definitions returns the block definitions keyed by block name.
func Definitions() map[string]block.Definition {
	return map[string]block.Definition{
		"article-callout":  {Transform: articleCallout},
		"article-hero":     {Transform: articleHero},
		"articlelinks":     {Transform: articleLinks},
		"backstory":        {Transform: backstory, Bind: BindBackstory},
		"campaignhero":     {Transform: campaignHero, Bind: BindCampaignTimer},
		"countdown-banner": {Transform: countdownBanner, Bind: BindCountdownBanner},
		"deliverables":     {Transform: deliverables},
		"docs":             {Transform: docs},
		"features":         {Transform: features},
		"footer":           {Transform: footer},
		"fragment":         {Transform: fragment},
		"header":           {Transform: header},
		"hero":             {Transform: hero, Bind: BindPipeline},
		"problem":          {Transform: problem},
		"product-hero":     {Transform: productHero},
		"product-info":     {Transform: productInfo},
		"product-listing":  {Transform: productListing},
		"relatedcontent":   {Transform: relatedContent},
		"solution":         {Transform: solution, Bind: BindSolution},
		"team":             {Transform: team},
		"technology":       {Transform: technology},
	}
}

// intro is the label/heading/subtitle head shared by the landing sections.
type intro struct {
	Label    string
	Heading  template.HTML
	Subtitle string
}

// readIntro reads rows 0-2 as label, heading and subtitle.
func readIntro(b *block.Block, label string, heading template.HTML) intro {
	return intro{
		Label:    b.Text(0, label),
		Heading:  b.Heading(1, "", heading),
		Subtitle: b.Text(2, ""),
	}
}

// region marks the block as a named landmark with an anchor id.
func region(b *block.Block, id, label string) {
	b.SetID(id)
	if label != "" {
		b.SetAttr("role", "region")
		b.SetAttr("aria-label", label)
	}
}
