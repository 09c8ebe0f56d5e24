package contentflow

import (
	"bytes"
	"context"
	"encoding/json"
	"encoding/xml"
	"errors"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eringen/contentflow/content"
	"github.com/eringen/contentflow/index"
)

const homePage = `<div>
  <div class="features">
    <div><div><h2>Key Features</h2></div></div>
    <div><div>Templates</div><div>Every page starts from an approved layout.</div></div>
  </div>
</div>
<div>
  <div class="metadata">
    <div><div>Title</div><div>Home</div></div>
  </div>
</div>`

func productPage(title string) string {
	return `<div><p>` + title + ` launches today.</p>
<div class="metadata">
  <div><div>Title</div><div>` + title + `</div></div>
  <div><div>Description</div><div>All about ` + title + `</div></div>
</div></div>`
}

func writeFile(t *testing.T, root, name, body string) {
	t.Helper()
	p := filepath.Join(root, filepath.FromSlash(name))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
}

func newTestApp(t *testing.T) (*App, string) {
	t.Helper()
	dir := t.TempDir()
	contentDir := filepath.Join(dir, "content")
	writeFile(t, contentDir, "index.plain.html", homePage)
	writeFile(t, contentDir, "products/pulse.plain.html", productPage("Pulse"))
	writeFile(t, contentDir, "products/beacon.plain.html", productPage("Beacon"))

	app := New(SiteConfig{
		Name:          "Test Site",
		URL:           "https://example.com",
		Description:   "Launches",
		ContentDir:    contentDir,
		AssetsDir:     filepath.Join(dir, "missing"),
		MediaDir:      filepath.Join(dir, "media"),
		IndexPath:     ":memory:",
		SessionSecret: "test-secret-with-enough-length-123",
		LogLevel:      "off",
	})
	require.NoError(t, app.Setup())
	t.Cleanup(func() { app.Close() })
	return app, dir
}

func serve(app *App, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	app.Echo.ServeHTTP(rec, req)
	return rec
}

func get(app *App, target string) *httptest.ResponseRecorder {
	return serve(app, httptest.NewRequest(http.MethodGet, target, nil))
}

func TestSetupRequiresSessionSecret(t *testing.T) {
	app := New(SiteConfig{IndexPath: ":memory:", ContentDir: t.TempDir()})
	defer app.Close()
	assert.Error(t, app.Setup())
}

func TestHomePageIsDecorated(t *testing.T) {
	app, _ := newTestApp(t)

	rec := get(app, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `<html lang="en">`)
	assert.Contains(t, body, `data-block-name="features"`)
	assert.Contains(t, body, `data-block-status="loaded"`)
	assert.Contains(t, body, "Key Features")
	assert.Contains(t, body, "<title>Home</title>")
	assert.Contains(t, body, "/public/contentflow.js")
	assert.Contains(t, body, `id="animToggle"`)
	assert.Equal(t, "private, max-age=60", rec.Header().Get("Cache-Control"))
}

func TestPlainFragment(t *testing.T) {
	app, _ := newTestApp(t)

	rec := get(app, "/products/pulse.plain.html")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Pulse launches today.")
	assert.NotContains(t, rec.Body.String(), "<html")
}

func TestNotFound(t *testing.T) {
	app, dir := newTestApp(t)

	rec := get(app, "/no/such/page")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Page not found")

	writeFile(t, filepath.Join(dir, "content"), "404.plain.html", `<div><h1>Lost in space</h1></div>`)
	app.Cache.Invalidate()
	rec = get(app, "/still/missing")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Lost in space")
}

func TestQueryIndex(t *testing.T) {
	app, _ := newTestApp(t)
	n, err := app.Indexer.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	rec := get(app, "/query-index.json?prefix=/products/&limit=1")
	require.Equal(t, http.StatusOK, rec.Code)
	var res index.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, 2, res.Total)
	assert.Equal(t, 1, res.Limit)
	require.Len(t, res.Data, 1)
	assert.Equal(t, "/products/beacon", res.Data[0].Path)
	assert.Equal(t, "Beacon", res.Data[0].Title)
}

func TestSitemapAndFeed(t *testing.T) {
	app, _ := newTestApp(t)
	_, err := app.Indexer.Refresh(context.Background())
	require.NoError(t, err)

	rec := get(app, "/sitemap.xml")
	require.Equal(t, http.StatusOK, rec.Code)
	var sm sitemapURLSet
	require.NoError(t, xml.Unmarshal(rec.Body.Bytes(), &sm))
	var locs []string
	for _, u := range sm.URLs {
		locs = append(locs, u.Loc)
		assert.Len(t, u.LastMod, len("2006-01-02"))
	}
	assert.ElementsMatch(t, []string{
		"https://example.com/",
		"https://example.com/products/beacon",
		"https://example.com/products/pulse",
	}, locs)

	rec = get(app, "/products/feed.xml")
	require.Equal(t, http.StatusOK, rec.Code)
	var feed rssXML
	require.NoError(t, xml.Unmarshal(rec.Body.Bytes(), &feed))
	assert.Equal(t, "Test Site products", feed.Channel.Title)
	require.Len(t, feed.Channel.Items, 2)
	for _, item := range feed.Channel.Items {
		assert.True(t, strings.HasPrefix(item.Link, "https://example.com/products/"), item.Link)
	}
}

func TestToggleAnimations(t *testing.T) {
	app, _ := newTestApp(t)

	rec := get(app, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	var csrf *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == "_csrf" {
			csrf = c
		}
	}
	require.NotNil(t, csrf, "csrf cookie")

	toggle := func(cookies []*http.Cookie) (*httptest.ResponseRecorder, toggleResponse) {
		req := httptest.NewRequest(http.MethodPost, "/api/animations/toggle", nil)
		req.Header.Set("X-CSRF-Token", csrf.Value)
		for _, c := range cookies {
			req.AddCookie(c)
		}
		rec := serve(app, req)
		var res toggleResponse
		if rec.Code == http.StatusOK {
			_ = json.Unmarshal(rec.Body.Bytes(), &res)
		}
		return rec, res
	}

	rec, res := toggle([]*http.Cookie{csrf})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, res.Paused)
	assert.Equal(t, "Play animations", res.Label)

	cookies := []*http.Cookie{csrf}
	for _, c := range rec.Result().Cookies() {
		if c.Name == sessionName {
			cookies = append(cookies, c)
		}
	}
	require.Len(t, cookies, 2, "session cookie")

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	page := serve(app, req)
	assert.Contains(t, page.Body.String(), "Play animations")

	_, res = toggle(cookies)
	assert.False(t, res.Paused)
	assert.Equal(t, "Pause animations", res.Label)
}

func TestToggleRequiresCSRF(t *testing.T) {
	app, _ := newTestApp(t)
	rec := serve(app, httptest.NewRequest(http.MethodPost, "/api/animations/toggle", nil))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestHealthAndMetrics(t *testing.T) {
	app, _ := newTestApp(t)

	rec := get(app, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	get(app, "/")
	rec = get(app, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "contentflow_page_cache_lookups_total")
	assert.Contains(t, rec.Body.String(), "contentflow_block_loads_total")
}

func TestEmbeddedRuntime(t *testing.T) {
	app, _ := newTestApp(t)
	rec := get(app, "/public/contentflow.js")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "/api/animations/toggle")
}

func TestMediaResize(t *testing.T) {
	app, dir := newTestApp(t)

	img := image.NewRGBA(image.Rect(0, 0, 400, 200))
	for x := range 400 {
		for y := range 200 {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 80, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	writeFile(t, filepath.Join(dir, "media"), "hero.png", buf.String())
	writeFile(t, filepath.Join(dir, "media"), "notes.txt", "plain text")

	rec := get(app, "/media/hero.png?width=100")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	cfg, err := png.DecodeConfig(rec.Body)
	require.NoError(t, err)
	assert.Equal(t, 100, cfg.Width)
	assert.Equal(t, 50, cfg.Height)

	rec = get(app, "/media/hero.png?width=800")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, buf.Len(), rec.Body.Len())

	assert.Equal(t, http.StatusUnsupportedMediaType, get(app, "/media/notes.txt?width=10").Code)
	assert.Equal(t, http.StatusNotFound, get(app, "/media/missing.png").Code)
}

// cancelAfter reports context.Canceled once Err has been called n times.
type cancelAfter struct {
	context.Context
	mu sync.Mutex
	n  int
}

func (c *cancelAfter) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.n <= 0 {
		return context.Canceled
	}
	c.n--
	return nil
}

func TestCancelledRenderIsNotCached(t *testing.T) {
	app, _ := newTestApp(t)

	ctx := &cancelAfter{Context: context.Background(), n: 1}
	_, err := app.Cache.Get(ctx, "/", false)
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, app.Cache.Len())

	doc, err := app.Cache.Get(context.Background(), "/", false)
	require.NoError(t, err)
	assert.Contains(t, doc, `data-block-status="loaded"`)
	assert.NotContains(t, doc, `data-block-status="loading"`)
	assert.Contains(t, doc, `id="animToggle"`)
	assert.Equal(t, 1, app.Cache.Len())
}

func TestRenderPageWithoutMain(t *testing.T) {
	app, dir := newTestApp(t)
	writeFile(t, filepath.Join(dir, "content"), "raw.html", `<!DOCTYPE html><html><head></head><body><p>Raw</p></body></html>`)

	doc, err := app.RenderPage(context.Background(), "/raw", false)
	require.NoError(t, err)
	assert.Contains(t, doc, "<p>Raw</p>")
	assert.NotContains(t, doc, `id="animToggle"`)
}

func TestRuntimePlaysSequencesAndTabs(t *testing.T) {
	app, dir := newTestApp(t)

	js, err := EmbeddedAssets.ReadFile("embedded/contentflow.js")
	require.NoError(t, err)
	runtime := string(js)
	for _, want := range []string{
		"dataset.timeline",
		"getElementById('pipeline')",
		"getElementById('solSteps')",
		"#plReplay",
		"replay.addEventListener('click', seq.replay)",
		".phase-tab",
		"manual = true",
		"addEventListener('animations:resume'",
		"threshold: sequenceThreshold",
		"sequenceThreshold = 0.2",
	} {
		assert.Contains(t, runtime, want)
	}

	// The served markup carries everything the runtime reads.
	writeFile(t, filepath.Join(dir, "content"), "launch.plain.html", `<div>
<div class="hero"><div><div>Eyebrow</div></div><div><div><h1>Launch</h1></div></div></div>
</div>
<div><div class="solution"><div><div>The Solution</div></div></div></div>
<div><div class="backstory"><div><div>Background</div></div></div></div>`)
	rec := get(app, "/launch")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `id="pipeline" data-timeline="[{`)
	assert.Contains(t, body, `id="plReplay"`)
	assert.Contains(t, body, `data-total="9.8s"`)
	assert.Contains(t, body, `id="solSteps" data-timeline="[{`)
	assert.Contains(t, body, `data-right="62.5%"`)
	assert.Contains(t, body, `class="phase-tabs" data-interval="4000"`)
}

func TestPageCache(t *testing.T) {
	calls := 0
	render := func(_ context.Context, p string, paused bool) (string, error) {
		calls++
		if p == "/missing" {
			return "", content.ErrNotFound
		}
		if paused {
			return p + " paused", nil
		}
		return p, nil
	}
	cache := NewPageCache(render, time.Minute, nil)
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return now }
	ctx := context.Background()

	got, err := cache.Get(ctx, "/a", false)
	require.NoError(t, err)
	assert.Equal(t, "/a", got)
	_, _ = cache.Get(ctx, "/a", false)
	assert.Equal(t, 1, calls)

	got, _ = cache.Get(ctx, "/a", true)
	assert.Equal(t, "/a paused", got)
	assert.Equal(t, 2, calls)
	assert.Equal(t, 2, cache.Len())

	now = now.Add(2 * time.Minute)
	_, _ = cache.Get(ctx, "/a", false)
	assert.Equal(t, 3, calls)

	_, err = cache.Get(ctx, "/missing", false)
	assert.True(t, errors.Is(err, content.ErrNotFound))
	assert.Equal(t, 2, cache.Len())

	cache.Invalidate()
	assert.Equal(t, 0, cache.Len())
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "contentflow.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`name: Launches
url: https://launch.example
media_rate: 10
page_cache_ttl: 30s
priority_blocks:
  - .hero.block
`), 0o644))
	t.Setenv("SITE_URL", "https://override.example")
	t.Setenv("PRIORITY_BLOCKS", ".campaign-hero.block,.hero.block")
	t.Setenv("SESSION_SECRET", "from-env")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "Launches", cfg.Name)
	assert.Equal(t, "https://override.example", cfg.URL)
	assert.Equal(t, 10, cfg.MediaRate)
	assert.Equal(t, 30*time.Second, cfg.PageCacheTTL)
	assert.Equal(t, []string{".campaign-hero.block", ".hero.block"}, cfg.PriorityBlocks)
	assert.Equal(t, "from-env", cfg.SessionSecret)
	assert.Equal(t, ":3000", cfg.Addr)
	assert.Equal(t, "data/index.db", cfg.IndexPath)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestBuildURL(t *testing.T) {
	assert.Equal(t, "https://example.com/products/pulse", BuildURL("https://example.com/", "/products/pulse"))
	assert.Equal(t, "https://example.com/", BuildURL("https://example.com", "/"))
}
