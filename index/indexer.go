package index

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/labstack/echo/v4"

	"github.com/eringen/contentflow/content"
	"github.com/eringen/contentflow/dom"
	"github.com/eringen/contentflow/metrics"
)

// Indexer rebuilds the store from a content source.
type Indexer struct {
	Source  content.Source
	Lister  content.Lister
	Store   *Store
	Logger  echo.Logger
	Metrics *metrics.Recorder

	mu    sync.Mutex
	sched gocron.Scheduler
}

// NewIndexer returns an indexer reading pages from src, enumerated by lister.
func NewIndexer(src content.Source, lister content.Lister, store *Store, logger echo.Logger) *Indexer {
	return &Indexer{Source: src, Lister: lister, Store: store, Logger: logger}
}

// EntryOf reads the index row for a page document.
func EntryOf(p, page string, modified time.Time) (content.Entry, error) {
	doc, err := dom.Parse(page)
	if err != nil {
		return content.Entry{}, err
	}
	meta := dom.MetadataMap(doc)
	title := ""
	if t := dom.Query(doc, "title"); t != nil {
		title = dom.TrimmedText(t)
	}
	return content.Entry{
		Path:         p,
		Title:        cmp.Or(meta["og:title"], title),
		Description:  meta["description"],
		Image:        cmp.Or(meta["og:image"], meta["image"]),
		Audience:     meta["audience"],
		LastModified: modified.Unix(),
	}, nil
}

// Refresh indexes every listed page and drops rows for pages that are gone.
// It returns the number of rows written. Concurrent calls run one at a time.
func (ix *Indexer) Refresh(ctx context.Context) (int, error) {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	list, err := ix.Lister.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("index: refresh: %w", err)
	}
	seen := make(map[string]bool, len(list))
	n := 0
	for _, info := range list {
		page, err := ix.Source.Page(ctx, info.Path)
		if errors.Is(err, content.ErrNotFound) {
			continue
		}
		if err != nil {
			return n, fmt.Errorf("index: refresh %s: %w", info.Path, err)
		}
		e, err := EntryOf(info.Path, page, info.Modified)
		if err != nil {
			return n, fmt.Errorf("index: refresh %s: %w", info.Path, err)
		}
		if err := ix.Store.Upsert(ctx, e); err != nil {
			return n, err
		}
		seen[info.Path] = true
		n++
	}
	paths, err := ix.Store.Paths(ctx)
	if err != nil {
		return n, err
	}
	for _, p := range paths {
		if !seen[p] {
			if err := ix.Store.Delete(ctx, p); err != nil {
				return n, err
			}
		}
	}
	ix.Metrics.IndexSize(n)
	if ix.Logger != nil {
		ix.Logger.Infof("index: %d pages", n)
	}
	return n, nil
}

// Schedule refreshes the index every interval until Stop. The first run
// happens immediately.
func (ix *Indexer) Schedule(interval time.Duration) error {
	s, err := gocron.NewScheduler()
	if err != nil {
		return fmt.Errorf("index: create scheduler: %w", err)
	}
	_, err = s.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(ix.scheduledRefresh),
		gocron.WithName("index-refresh"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		_ = s.Shutdown()
		return fmt.Errorf("index: schedule refresh: %w", err)
	}
	ix.mu.Lock()
	ix.sched = s
	ix.mu.Unlock()
	s.Start()
	return nil
}

func (ix *Indexer) scheduledRefresh() {
	if _, err := ix.Refresh(context.Background()); err != nil && ix.Logger != nil {
		ix.Logger.Errorf("index: scheduled refresh: %v", err)
	}
}

// Stop shuts the scheduler down, waiting for a running refresh.
func (ix *Indexer) Stop() error {
	ix.mu.Lock()
	s := ix.sched
	ix.sched = nil
	ix.mu.Unlock()
	if s == nil {
		return nil
	}
	return s.Shutdown()
}
