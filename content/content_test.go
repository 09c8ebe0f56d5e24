package content

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCleanPath(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", "/"},
		{"/", "/"},
		{"/index", "/"},
		{"/index.html", "/"},
		{"/products/pulse/", "/products/pulse"},
		{"/products/pulse.plain.html", "/products/pulse"},
		{"/products/index", "/products"},
		{"/../../etc/passwd", "/etc/passwd"},
		{"nav", "/nav"},
	}
	for _, tt := range tests {
		if got := CleanPath(tt.in); got != tt.want {
			t.Errorf("CleanPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func writeFile(t *testing.T, root, rel, body string) {
	t.Helper()
	p := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
}

const plainPage = `<div><h1>Pulse</h1></div>
<div><div class="metadata"><div><div>Title</div><div>Pulse Monitor</div></div><div><div>Description</div><div>Uptime for everyone</div></div><div><div>Image</div><div>/media/pulse.png</div></div><div><div>Audience</div><div>ops</div></div></div></div>`

func TestShell(t *testing.T) {
	doc, err := Shell(plainPage)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(doc, "<!DOCTYPE html>"))
	require.Contains(t, doc, "<title>Pulse Monitor</title>")
	require.Contains(t, doc, `<meta property="og:title" content="Pulse Monitor"/>`)
	require.Contains(t, doc, `<meta name="description" content="Uptime for everyone"/>`)
	require.Contains(t, doc, `<meta property="og:image" content="/media/pulse.png"/>`)
	require.Contains(t, doc, `<meta name="audience" content="ops"/>`)
	require.Contains(t, doc, "<main><div><h1>Pulse</h1></div>")
	require.NotContains(t, doc, "metadata")
	require.Contains(t, doc, "<header></header>")
	require.Contains(t, doc, "<footer></footer>")
}

func TestDirSourceFormats(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "index.html", `<!DOCTYPE html><html><head><title>Home</title></head><body><main><div>home</div></main></body></html>`)
	writeFile(t, root, "products/pulse.plain.html", plainPage)
	writeFile(t, root, "blog/index.md", "# Notes\n\n---\n\nSecond\n")
	writeFile(t, root, "nav.plain.html", `<div><ul><li><a href="/">Home</a></li></ul></div>`)
	src := NewDirSource(root)
	ctx := context.Background()

	page, err := src.Page(ctx, "/")
	require.NoError(t, err)
	require.Contains(t, page, "<title>Home</title>")
	frag, err := src.Fragment(ctx, "/index.plain.html")
	require.NoError(t, err)
	require.Equal(t, "<div>home</div>", frag)

	page, err = src.Page(ctx, "/products/pulse")
	require.NoError(t, err)
	require.Contains(t, page, "<title>Pulse Monitor</title>")

	page, err = src.Page(ctx, "/blog/")
	require.NoError(t, err)
	require.Contains(t, page, "<h1")
	require.Contains(t, page, "Second")

	frag, err = src.Fragment(ctx, "/nav")
	require.NoError(t, err)
	require.Contains(t, frag, `<a href="/">Home</a>`)

	_, err = src.Page(ctx, "/missing")
	require.True(t, errors.Is(err, ErrNotFound))
	_, err = src.Fragment(ctx, "/../outside")
	require.True(t, errors.Is(err, ErrNotFound))
}

func TestDirSourceList(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "index.html", "<p>home</p>")
	writeFile(t, root, "products/pulse.plain.html", plainPage)
	writeFile(t, root, "products/index.md", "# Products")
	writeFile(t, root, ".drafts/secret.md", "# hidden")
	writeFile(t, root, "media/pulse.png", "png")
	old := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	require.NoError(t, os.Chtimes(filepath.Join(root, "index.html"), old, old))

	list, err := NewDirSource(root).List(context.Background())
	require.NoError(t, err)
	var paths []string
	for _, e := range list {
		paths = append(paths, e.Path)
	}
	require.Equal(t, []string{"/", "/products", "/products/pulse"}, paths)
	require.True(t, list[0].Modified.Equal(old))
}

func TestHTTPSource(t *testing.T) {
	var (
		mu   sync.Mutex
		hits []string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		hits = append(hits, r.URL.Path)
		mu.Unlock()
		switch r.URL.Path {
		case "/index.plain.html":
			w.Write([]byte(`<div class="hero"><div><div><h1 id="t" onclick="x()">Hi</h1><script>alert(1)</script></div></div></div>`))
		case "/products/pulse.plain.html":
			w.Write([]byte(plainPage))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	src := NewHTTPSource(srv.URL+"/", time.Second)
	ctx := context.Background()

	frag, err := src.Fragment(ctx, "/")
	require.NoError(t, err)
	require.Contains(t, frag, `class="hero"`)
	require.Contains(t, frag, `id="t"`)
	require.NotContains(t, frag, "script")
	require.NotContains(t, frag, "onclick")

	page, err := src.Page(ctx, "/products/pulse")
	require.NoError(t, err)
	require.Contains(t, page, "<title>Pulse Monitor</title>")

	_, err = src.Fragment(ctx, "/missing")
	require.True(t, errors.Is(err, ErrNotFound))
	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, []string{"/index.plain.html", "/products/pulse.plain.html", "/missing.plain.html"}, hits)
}

func TestHTTPSourceRejectsOversizedFragment(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/exact.plain.html":
			w.Write([]byte(strings.Repeat("a", 64)))
		default:
			w.Write([]byte(strings.Repeat("a", 65)))
		}
	}))
	defer srv.Close()

	src := NewHTTPSource(srv.URL, time.Second)
	src.MaxBytes = 64
	ctx := context.Background()

	frag, err := src.Fragment(ctx, "/exact")
	require.NoError(t, err)
	require.Len(t, frag, 64)

	_, err = src.Fragment(ctx, "/big")
	require.ErrorIs(t, err, ErrTooLarge)
	_, err = src.Page(ctx, "/big")
	require.ErrorIs(t, err, ErrTooLarge)
}

func TestWatcherDebounces(t *testing.T) {
	root := t.TempDir()
	var calls atomic.Int32
	w, err := NewWatcher(root, 50*time.Millisecond, func() { calls.Add(1) }, nil)
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	for i := 0; i < 5; i++ {
		writeFile(t, root, "page.md", strings.Repeat("x", i+1))
	}
	require.Eventually(t, func() bool { return calls.Load() >= 1 }, 2*time.Second, 10*time.Millisecond)
	time.Sleep(150 * time.Millisecond)
	require.Equal(t, int32(1), calls.Load())

	writeFile(t, root, "sub/new.md", "# new")
	require.Eventually(t, func() bool { return calls.Load() >= 2 }, 2*time.Second, 10*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
}
