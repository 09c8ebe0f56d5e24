// Package metrics records block, page and cache measurements in Prometheus.
// A nil *Recorder is valid and records nothing.
package metrics

import (
	"net/http"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Block load results.
const (
	ResultLoaded  = "loaded"
	ResultError   = "error"
	ResultSkipped = "skipped"
)

// Recorder holds the registered collectors.
type Recorder struct {
	reg          *prom.Registry
	blockLoads   *prom.CounterVec
	blockLatency *prom.HistogramVec
	pageDuration *prom.HistogramVec
	cacheLookups *prom.CounterVec
	indexEntries prom.Gauge
	fetches      *prom.CounterVec
}

// New registers the collectors on reg, creating a registry when nil.
func New(reg *prom.Registry) *Recorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	r := &Recorder{
		reg: reg,
		blockLoads: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "contentflow",
			Name:      "block_loads_total",
			Help:      "Block loads by block name and result",
		}, []string{"block", "result"}),
		blockLatency: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "contentflow",
			Name:      "block_load_duration_seconds",
			Help:      "Duration of a single block load",
			Buckets:   prom.DefBuckets,
		}, []string{"block"}),
		pageDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "contentflow",
			Name:      "page_stage_duration_seconds",
			Help:      "Time spent reaching each page load state",
			Buckets:   prom.DefBuckets,
		}, []string{"state"}),
		cacheLookups: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "contentflow",
			Name:      "page_cache_lookups_total",
			Help:      "Decorated page cache lookups by outcome",
		}, []string{"outcome"}),
		indexEntries: prom.NewGauge(prom.GaugeOpts{
			Namespace: "contentflow",
			Name:      "index_entries",
			Help:      "Pages in the query index after the last refresh",
		}),
		fetches: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "contentflow",
			Name:      "fragment_fetches_total",
			Help:      "Fragment fetches by source and result",
		}, []string{"source", "result"}),
	}
	reg.MustRegister(r.blockLoads, r.blockLatency, r.pageDuration, r.cacheLookups, r.indexEntries, r.fetches)
	return r
}

// Registry returns the registry the collectors live in.
func (r *Recorder) Registry() *prom.Registry {
	if r == nil {
		return nil
	}
	return r.reg
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{EnableOpenMetrics: true})
}

func (r *Recorder) BlockLoad(block, result string, d time.Duration) {
	if r == nil {
		return
	}
	r.blockLoads.WithLabelValues(block, result).Inc()
	if result != ResultSkipped {
		r.blockLatency.WithLabelValues(block).Observe(d.Seconds())
	}
}

func (r *Recorder) PageState(state string, d time.Duration) {
	if r == nil {
		return
	}
	r.pageDuration.WithLabelValues(state).Observe(d.Seconds())
}

func (r *Recorder) CacheLookup(hit bool) {
	if r == nil {
		return
	}
	outcome := "miss"
	if hit {
		outcome = "hit"
	}
	r.cacheLookups.WithLabelValues(outcome).Inc()
}

func (r *Recorder) IndexSize(n int) {
	if r == nil {
		return
	}
	r.indexEntries.Set(float64(n))
}

func (r *Recorder) Fetch(source string, ok bool) {
	if r == nil {
		return
	}
	result := "ok"
	if !ok {
		result = "failed"
	}
	r.fetches.WithLabelValues(source, result).Inc()
}
