package contentflow

import (
	"encoding/xml"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/eringen/contentflow/blocks"
	"github.com/eringen/contentflow/content"
)

type rssXML struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title       string    `xml:"title"`
	Link        string    `xml:"link"`
	Description string    `xml:"description"`
	Items       []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	Description string `xml:"description"`
	PubDate     string `xml:"pubDate,omitempty"`
	GUID        string `xml:"guid"`
}

// renderRSS writes the product launch feed: the same entries, in the same
// order, as the product listing block.
func (a *App) renderRSS(c echo.Context, entries []content.Entry) error {
	base := a.Config.URL
	products := blocks.Products(entries)
	items := make([]rssItem, 0, len(products))
	for _, p := range products {
		link := BuildURL(base, p.Path)
		item := rssItem{
			Title:       p.Title,
			Link:        link,
			Description: p.Description,
			GUID:        link,
		}
		if p.LastModified > 0 {
			item.PubDate = time.Unix(p.LastModified, 0).UTC().Format(time.RFC1123Z)
		}
		items = append(items, item)
	}
	feed := rssXML{
		Version: "2.0",
		Channel: rssChannel{
			Title:       a.Config.Name + " products",
			Link:        BuildURL(base, "/products"),
			Description: a.Config.Description,
			Items:       items,
		},
	}
	c.Response().Header().Set(echo.HeaderContentType, "application/rss+xml; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	c.Response().Write([]byte(xml.Header))
	return xml.NewEncoder(c.Response()).Encode(feed)
}
