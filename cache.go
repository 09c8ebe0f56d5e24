package contentflow

import (
	"context"
	"sync"
	"time"

	"github.com/eringen/contentflow/metrics"
)

// RenderFunc produces the decorated document for a path.
type RenderFunc func(ctx context.Context, p string, paused bool) (string, error)

type pageKey struct {
	path   string
	paused bool
}

type cachedPage struct {
	html    string
	fetched time.Time
}

// PageCache is an in-memory cache of decorated pages with TTL. Render errors
// are not cached.
type PageCache struct {
	mu      sync.RWMutex
	pages   map[pageKey]cachedPage
	ttl     time.Duration
	render  RenderFunc
	metrics *metrics.Recorder
	now     func() time.Time
}

// NewPageCache creates a PageCache backed by render.
func NewPageCache(render RenderFunc, ttl time.Duration, rec *metrics.Recorder) *PageCache {
	return &PageCache{
		pages:   make(map[pageKey]cachedPage),
		ttl:     ttl,
		render:  render,
		metrics: rec,
		now:     time.Now,
	}
}

func (c *PageCache) valid(p cachedPage) bool {
	return c.now().Sub(p.fetched) < c.ttl
}

// Invalidate clears the cache so the next read renders afresh.
func (c *PageCache) Invalidate() {
	c.mu.Lock()
	c.pages = make(map[pageKey]cachedPage)
	c.mu.Unlock()
}

// Len returns the number of cached pages, fresh or stale.
func (c *PageCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.pages)
}

// Get returns the decorated page for p, rendering it when missing or stale.
// It tries a read lock first; rendering happens outside any lock.
func (c *PageCache) Get(ctx context.Context, p string, paused bool) (string, error) {
	key := pageKey{path: p, paused: paused}
	c.mu.RLock()
	cached, ok := c.pages[key]
	c.mu.RUnlock()
	if ok && c.valid(cached) {
		c.metrics.CacheLookup(true)
		return cached.html, nil
	}
	c.metrics.CacheLookup(false)

	html, err := c.render(ctx, p, paused)
	if err != nil {
		return "", err
	}
	c.mu.Lock()
	c.pages[key] = cachedPage{html: html, fetched: c.now()}
	c.mu.Unlock()
	return html, nil
}
