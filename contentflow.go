// Package contentflow serves a marketing site from authored block tables.
// Each request loads the authored page, decorates its sections and blocks,
// runs the block transforms, adds the header and footer, and returns the
// finished document. Pages come from a content directory or an upstream
// origin; the product listing reads a SQLite-backed query index.
package contentflow

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"

	"github.com/eringen/contentflow/anim"
	"github.com/eringen/contentflow/block"
	"github.com/eringen/contentflow/blocks"
	"github.com/eringen/contentflow/content"
	"github.com/eringen/contentflow/dom"
	"github.com/eringen/contentflow/index"
	"github.com/eringen/contentflow/metrics"
	"github.com/eringen/contentflow/page"
	"github.com/eringen/contentflow/resource"
)

// App is the central contentflow application. It wires together the content
// source, query index, page cache, block pipeline, handlers and middleware.
type App struct {
	Config   SiteConfig
	Echo     *echo.Echo
	Source   content.Source
	Products content.EntrySource
	Store    *index.Store
	Indexer  *index.Indexer
	Cache    *PageCache
	Registry *block.Registry
	Pages    *page.Orchestrator
	Metrics  *metrics.Recorder

	customRoutes []func(*App)
	mediaLimiter *RateLimiter
	stopWatch    context.CancelFunc
	ready        bool
}

// New creates an App with the given configuration. Every block transform is
// registered; Options may replace the content and product sources.
func New(cfg SiteConfig, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config:   cfg,
		Echo:     echo.New(),
		Registry: block.NewRegistry(),
		Metrics:  metrics.New(nil),
	}
	a.Echo.HideBanner = true
	a.Echo.Logger.SetLevel(logLevel(cfg.LogLevel))
	blocks.Register(a.Registry)

	for _, opt := range opts {
		opt(a)
	}
	return a
}

func logLevel(s string) log.Lvl {
	switch strings.ToLower(s) {
	case "debug":
		return log.DEBUG
	case "warn":
		return log.WARN
	case "error":
		return log.ERROR
	case "off":
		return log.OFF
	default:
		return log.INFO
	}
}

// Init opens the query index and builds the page pipeline. It is safe to
// call more than once.
func (a *App) Init() error {
	if a.ready {
		return nil
	}
	if a.Source == nil {
		if a.Config.Origin != "" {
			a.Source = content.NewHTTPSource(a.Config.Origin, a.Config.FetchTimeout)
		} else {
			a.Source = content.NewDirSource(a.Config.ContentDir)
		}
	}

	store, err := index.NewStore(a.Config.IndexPath)
	if err != nil {
		return fmt.Errorf("contentflow: init index: %w", err)
	}
	a.Store = store
	if lister, ok := a.Source.(content.Lister); ok {
		a.Indexer = index.NewIndexer(a.Source, lister, a.Store, a.Echo.Logger)
		a.Indexer.Metrics = a.Metrics
	}
	if a.Products == nil {
		if a.Config.IndexURL != "" {
			a.Products = index.NewHTTPIndex(a.Config.IndexURL, a.Config.FetchTimeout)
		} else {
			a.Products = a.Store
		}
	}

	assets, err := a.assetFS()
	if err != nil {
		return err
	}
	loader := block.NewLoader(a.Registry, resource.NewLoader(assets), a.Metrics)
	a.Pages = page.New(loader)
	a.Pages.Metrics = a.Metrics
	if len(a.Config.PriorityBlocks) > 0 {
		a.Pages.Priority = a.Config.PriorityBlocks
	}
	a.Cache = NewPageCache(a.RenderPage, a.Config.PageCacheTTL, a.Metrics)
	a.mediaLimiter = NewRateLimiter(a.Config.MediaRate, rateWindow)
	a.ready = true
	return nil
}

// Setup runs Init and installs middleware and routes without listening.
func (a *App) Setup() error {
	if err := a.Init(); err != nil {
		return err
	}
	if a.Config.SessionSecret == "" {
		return fmt.Errorf("contentflow: SessionSecret is required")
	}
	a.setupMiddleware()
	a.setupRoutes()
	for _, fn := range a.customRoutes {
		fn(a)
	}
	return nil
}

// Start sets the app up, starts the periodic reindex and the content
// watcher, and serves until the server stops.
func (a *App) Start() error {
	if err := a.Setup(); err != nil {
		return err
	}
	if a.Indexer != nil {
		if err := a.Indexer.Schedule(a.Config.IndexInterval); err != nil {
			return err
		}
	}
	if a.Config.Watch {
		if err := a.watch(); err != nil {
			return err
		}
	}
	if err := a.Echo.Start(a.Config.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// watch invalidates cached pages and reindexes whenever the content
// directory changes.
func (a *App) watch() error {
	dir, ok := a.Source.(*content.DirSource)
	if !ok {
		return fmt.Errorf("contentflow: watch needs a content directory")
	}
	w, err := content.NewWatcher(dir.Root, content.DefaultDebounce, a.contentChanged, a.Echo.Logger)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithCancel(context.Background())
	a.stopWatch = cancel
	go func() {
		if err := w.Run(ctx); err != nil {
			a.Echo.Logger.Errorf("content watcher: %v", err)
		}
	}()
	return nil
}

func (a *App) contentChanged() {
	a.Cache.Invalidate()
	if a.Indexer == nil {
		return
	}
	if _, err := a.Indexer.Refresh(context.Background()); err != nil {
		a.Echo.Logger.Errorf("reindex: %v", err)
	}
}

// RenderPage loads the authored page at p and returns the decorated
// document. paused renders the animation toggle in its paused state. A
// document without <main> comes back unchanged; a load cancelled part way
// returns the context error.
func (a *App) RenderPage(ctx context.Context, p string, paused bool) (string, error) {
	if err := a.Init(); err != nil {
		return "", err
	}
	src, err := a.Source.Page(ctx, p)
	if err != nil {
		return "", err
	}
	doc, err := dom.Parse(src)
	if err != nil {
		return "", err
	}
	// A load cut short leaves blocks half built; never hand that out.
	if state := a.Pages.Load(ctx, doc, a.env(paused), page.Options{Paused: paused}); state != page.Interactive {
		if err := ctx.Err(); err != nil {
			return "", fmt.Errorf("contentflow: render %s: %w", p, err)
		}
		if state != page.Init {
			return "", fmt.Errorf("contentflow: render %s: stopped at %s", p, state)
		}
	}
	return dom.OuterHTML(doc), nil
}

func (a *App) env(paused bool) *block.Env {
	clock := anim.RealClock()
	ctl := anim.NewController(clock)
	if paused {
		ctl.Pause()
	}
	return &block.Env{
		Fragments: meteredFragments{src: a.Source, rec: a.Metrics},
		Products:  a.Products,
		Anim:      ctl,
		Clock:     clock,
		Logger:    a.Echo.Logger,
		Host:      a.host(),
	}
}

func (a *App) host() string {
	u, err := url.Parse(a.Config.URL)
	if err != nil {
		return ""
	}
	return u.Host
}

// Close cleans up resources. Call this when the app is shutting down.
func (a *App) Close() error {
	if a.stopWatch != nil {
		a.stopWatch()
	}
	if a.Indexer != nil {
		a.Indexer.Stop()
	}
	if a.mediaLimiter != nil {
		a.mediaLimiter.Stop()
	}
	if a.Store != nil {
		a.Store.Close()
	}
	return nil
}

// meteredFragments counts fragment fetches by source kind.
type meteredFragments struct {
	src content.Source
	rec *metrics.Recorder
}

func (m meteredFragments) Fragment(ctx context.Context, p string) (string, error) {
	s, err := m.src.Fragment(ctx, p)
	kind := "dir"
	if _, ok := m.src.(*content.HTTPSource); ok {
		kind = "http"
	}
	m.rec.Fetch(kind, err == nil)
	return s, err
}
