package contentflow

import (
	"encoding/xml"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/eringen/contentflow/content"
)

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

// excludedFromSitemap are fragment pages, never visited on their own.
var excludedFromSitemap = map[string]bool{"/nav": true, "/footer": true, "/404": true}

func (a *App) renderSitemap(c echo.Context, entries []content.Entry) error {
	base := a.Config.URL
	urls := make([]sitemapURL, 0, len(entries))
	for _, e := range entries {
		if excludedFromSitemap[e.Path] {
			continue
		}
		u := sitemapURL{Loc: BuildURL(base, e.Path)}
		if e.LastModified > 0 {
			u.LastMod = time.Unix(e.LastModified, 0).UTC().Format("2006-01-02")
		}
		urls = append(urls, u)
	}
	sitemap := sitemapURLSet{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  urls,
	}
	c.Response().Header().Set(echo.HeaderContentType, "application/xml; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	c.Response().Write([]byte(xml.Header))
	return xml.NewEncoder(c.Response()).Encode(sitemap)
}
