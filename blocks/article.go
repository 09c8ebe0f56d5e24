package blocks

import (
	"context"
	"html/template"
	"strings"

	"github.com/a-h/templ"

	"github.com/eringen/contentflow/block"
)

type articleHeroData struct {
	Crumb   block.Link
	Tag     string
	Date    string
	Author  string
	Heading template.HTML
	Lead    string
	Image   template.HTML
}

// articleHero rows: breadcrumb (label | url), meta (tag | date | author),
// heading, lead, optional image.
func articleHero(_ context.Context, b *block.Block) (templ.Component, error) {
	return render("article-hero", articleHeroData{
		Crumb:   block.Link{Text: b.ColText(0, 0, ""), Href: b.Href(0, 1, "/")},
		Tag:     b.ColText(1, 0, "Article"),
		Date:    b.ColText(1, 1, ""),
		Author:  b.ColText(1, 2, ""),
		Heading: b.Heading(2, "h1, h2", "<h1>Article</h1>"),
		Lead:    b.Text(3, ""),
		Image:   b.Image(4),
	}), nil
}

type calloutData struct {
	Label string
	Text  string
}

func articleCallout(_ context.Context, b *block.Block) (templ.Component, error) {
	return render("article-callout", calloutData{Label: b.Text(0, ""), Text: b.Text(1, "")}), nil
}

type linkCard struct {
	Label string
	Title string
	Href  string
}

// articleLinks rows: label | title | url.
func articleLinks(_ context.Context, b *block.Block) (templ.Component, error) {
	var cards []linkCard
	for i := range b.Rows() {
		cards = append(cards, linkCard{
			Label: b.ColText(i, 0, ""),
			Title: b.ColText(i, 1, ""),
			Href:  b.Href(i, 2, "#"),
		})
	}
	return render("articlelinks", cards), nil
}

var relatedIcons = map[string]template.HTML{
	"article":      `<svg viewBox="0 0 24 24" fill="none" stroke="currentColor" stroke-width="1.5"><path d="M12 20h9M16.5 3.5a2.12 2.12 0 0 1 3 3L7 19l-4 1 1-4Z"/></svg>`,
	"campaign":     `<svg viewBox="0 0 24 24" fill="none" stroke="currentColor" stroke-width="1.5"><circle cx="12" cy="12" r="10"/><polyline points="12 6 12 12 16 14"/></svg>`,
	"pdf download": `<svg viewBox="0 0 24 24" fill="none" stroke="currentColor" stroke-width="1.5"><path d="M21 15v4a2 2 0 0 1-2 2H5a2 2 0 0 1-2-2v-4"/><polyline points="7 10 12 15 17 10"/><line x1="12" y1="15" x2="12" y2="3"/></svg>`,
}

type relatedCard struct {
	Type     string
	Title    string
	Desc     string
	Href     string
	Icon     template.HTML
	Download bool
}

// relatedContent rows: type | title | description | url, where type is
// Article, Campaign or PDF Download.
func relatedContent(_ context.Context, b *block.Block) (templ.Component, error) {
	var cards []relatedCard
	for i := range b.Rows() {
		typ := b.ColText(i, 0, "Article")
		key := strings.ToLower(typ)
		icon, ok := relatedIcons[key]
		if !ok {
			icon = relatedIcons["article"]
		}
		cards = append(cards, relatedCard{
			Type:     typ,
			Title:    b.ColText(i, 1, ""),
			Desc:     b.ColText(i, 2, ""),
			Href:     b.Href(i, 3, "#"),
			Icon:     icon,
			Download: strings.Contains(key, "pdf"),
		})
	}
	return render("relatedcontent", cards), nil
}
