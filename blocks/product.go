package blocks

import (
	"cmp"
	"context"
	"errors"
	"html/template"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/a-h/templ"

	"github.com/eringen/contentflow/block"
	"github.com/eringen/contentflow/content"
)

type productHeroData struct {
	Eyebrow   string
	Heading   template.HTML
	Tagline   string
	Primary   *block.Link
	Secondary *block.Link
	Image     template.HTML
}

// productHero rows: eyebrow, heading, tagline, CTA links (primary |
// secondary), image.
func productHero(_ context.Context, b *block.Block) (templ.Component, error) {
	data := productHeroData{
		Eyebrow: b.Text(0, "New Product Launch"),
		Heading: b.Heading(1, "h1, h2", "<h1>Product</h1>"),
		Tagline: b.Text(2, ""),
		Image:   b.Image(4),
	}
	if l, ok := b.ColLink(3, 0); ok {
		l.Href = b.Env().Relative(l.Href)
		data.Primary = &l
	}
	if l, ok := b.ColLink(3, 1); ok {
		l.Href = b.Env().Relative(l.Href)
		data.Secondary = &l
	}
	return render("product-hero", data), nil
}

type metaCell struct {
	Label string
	Value string
}

type productInfoData struct {
	Heading template.HTML
	Desc    string
	Meta    []metaCell
}

// productInfo rows: heading, description, then label | value pairs.
func productInfo(_ context.Context, b *block.Block) (templ.Component, error) {
	data := productInfoData{
		Heading: b.Heading(0, "h2, h3", "<h2>About</h2>"),
		Desc:    b.Text(1, ""),
	}
	for i := 2; i < len(b.Rows()); i++ {
		data.Meta = append(data.Meta, metaCell{Label: b.ColText(i, 0, ""), Value: b.ColText(i, 1, "")})
	}
	return render("product-info", data), nil
}

var errNoProducts = errors.New("blocks: no product index configured")

type productCard struct {
	Path     string
	Title    string
	Desc     string
	Image    string
	Audience string
	Date     string
}

type productListingData struct {
	Failed bool
	Cards  []productCard
}

// Count is the launched-products line under the listing heading.
func (d productListingData) Count() string {
	if len(d.Cards) == 1 {
		return "1 product launched"
	}
	return strconv.Itoa(len(d.Cards)) + " products launched"
}

// Products filters entries down to product pages, newest first.
func Products(entries []content.Entry) []content.Entry {
	var out []content.Entry
	for _, e := range entries {
		if strings.HasPrefix(e.Path, "/products/") && e.Path != "/products/" && !strings.HasSuffix(e.Path, "/nav") {
			out = append(out, e)
		}
	}
	slices.SortStableFunc(out, func(a, b content.Entry) int {
		return cmp.Compare(b.LastModified, a.LastModified)
	})
	return out
}

func productCardOf(e content.Entry) productCard {
	c := productCard{
		Path:     cmp.Or(e.Path, "#"),
		Title:    cmp.Or(e.Title, "Untitled Product"),
		Desc:     e.Description,
		Image:    e.Image,
		Audience: e.Audience,
	}
	if e.LastModified > 0 {
		c.Date = time.Unix(e.LastModified, 0).UTC().Format("Jan 2, 2006")
	}
	return c
}

// productListing lists every product page from the query index. It has no
// authored rows.
func productListing(ctx context.Context, b *block.Block) (templ.Component, error) {
	src := b.Env().Products
	var (
		entries []content.Entry
		err     = errNoProducts
	)
	if src != nil {
		entries, err = src.Entries(ctx)
	}
	if err != nil {
		b.Env().Log().Errorf("product listing: %v", err)
		return render("product-listing", productListingData{Failed: true}), nil
	}
	var data productListingData
	for _, e := range Products(entries) {
		data.Cards = append(data.Cards, productCardOf(e))
	}
	return render("product-listing", data), nil
}
