package contentflow

import (
	"errors"
	"io/fs"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/eringen/contentflow/content"
	"github.com/eringen/contentflow/index"
	"github.com/eringen/contentflow/page"
	"github.com/eringen/contentflow/views"
)

func (a *App) setupRoutes() {
	e := a.Echo

	// Embedded client runtime.
	embeddedFS, _ := fs.Sub(EmbeddedAssets, "embedded")
	embeddedHandler := http.FileServer(http.FS(embeddedFS))
	e.GET("/public/contentflow.js", echo.WrapHandler(http.StripPrefix("/public/", embeddedHandler)))

	// Site assets.
	for _, dir := range []string{"blocks", "styles", "scripts"} {
		e.Static("/"+dir, filepath.Join(a.Config.AssetsDir, dir))
	}
	e.GET("/media/*", a.handleMedia, a.mediaLimiter.Middleware)

	e.GET("/healthz", handleHealth)
	e.GET("/metrics", echo.WrapHandler(a.Metrics.Handler()))
	e.GET("/query-index.json", a.handleQueryIndex)
	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/products/feed.xml", a.handleFeed)
	e.POST("/api/animations/toggle", handleToggleAnimations)

	e.GET("/*", a.handlePage)
}

func (a *App) handlePage(c echo.Context) error {
	reqPath := c.Request().URL.Path
	if strings.HasSuffix(reqPath, ".plain.html") {
		return a.handleFragment(c)
	}
	p := content.CleanPath(reqPath)
	doc, err := a.Cache.Get(c.Request().Context(), p, AnimationsPaused(c))
	if err != nil {
		if errors.Is(err, content.ErrNotFound) {
			return echo.ErrNotFound
		}
		return err
	}
	return RenderHTML(c, http.StatusOK, doc)
}

func (a *App) handleFragment(c echo.Context) error {
	frag, err := a.Source.Fragment(c.Request().Context(), c.Request().URL.Path)
	if err != nil {
		if errors.Is(err, content.ErrNotFound) {
			return echo.ErrNotFound
		}
		return err
	}
	return c.HTML(http.StatusOK, frag)
}

func (a *App) handleQueryIndex(c echo.Context) error {
	q := index.Query{Prefix: c.QueryParam("prefix")}
	q.Offset, _ = strconv.Atoi(c.QueryParam("offset"))
	q.Limit, _ = strconv.Atoi(c.QueryParam("limit"))
	res, err := a.Store.Response(c.Request().Context(), q)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, res)
}

func (a *App) handleSitemap(c echo.Context) error {
	entries, err := a.Store.Entries(c.Request().Context())
	if err != nil {
		return err
	}
	return a.renderSitemap(c, entries)
}

func (a *App) handleFeed(c echo.Context) error {
	entries, err := a.Products.Entries(c.Request().Context())
	if err != nil {
		return err
	}
	return a.renderRSS(c, entries)
}

// toggleResponse is the body of POST /api/animations/toggle.
type toggleResponse struct {
	Paused bool   `json:"paused"`
	Label  string `json:"label"`
}

func handleToggleAnimations(c echo.Context) error {
	paused := !AnimationsPaused(c)
	if err := setAnimationsPaused(c, paused); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toggleResponse{Paused: paused, Label: page.ToggleLabel(paused)})
}

func handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (a *App) site() views.Site {
	return views.Site{Name: a.Config.Name, URL: a.Config.URL}
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	he, ok := err.(*echo.HTTPError)
	if ok && he.Code == http.StatusNotFound && c.Request().Method == http.MethodGet {
		a.renderNotFound(c)
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		c.Logger().Errorf("server error: %v", err)
		_ = RenderStatus(c, code, views.ServerError(a.site()))
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}

// renderNotFound serves the authored /404 page, or the built-in one when the
// content has none.
func (a *App) renderNotFound(c echo.Context) {
	doc, err := a.Cache.Get(c.Request().Context(), "/404", AnimationsPaused(c))
	if err == nil {
		_ = RenderHTML(c, http.StatusNotFound, doc)
		return
	}
	if !errors.Is(err, content.ErrNotFound) {
		c.Logger().Errorf("not found page: %v", err)
	}
	_ = RenderStatus(c, http.StatusNotFound, views.NotFound(a.site()))
}
