// Package metrics wraps the Prometheus collectors the server exposes at
// /metrics: HTTP request latency, collision-index cache hit ratio, and
// enumeration duration/result-count histograms.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics encapsulates every collector registered for a server process. A
// nil *Metrics is safe to call methods on: every method is a no-op, so CLI
// code paths that never construct one don't need nil checks of their own.
type Metrics struct {
	registry            *prometheus.Registry
	handler             http.Handler
	requestDuration     *prometheus.HistogramVec
	requestTotal        *prometheus.CounterVec
	cacheHits           prometheus.Counter
	cacheMisses         prometheus.Counter
	cacheHitRatio       prometheus.Gauge
	enumerationDuration prometheus.Histogram
	enumerationResults  prometheus.Histogram

	cacheHitCount  uint64
	cacheMissCount uint64
}

// New registers a fresh, isolated set of collectors.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "schedgen_http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "schedgen_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	cacheHits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "schedgen_collision_cache_hits_total",
		Help: "Total collision index cache hits",
	})
	cacheMisses := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "schedgen_collision_cache_misses_total",
		Help: "Total collision index cache misses",
	})
	cacheHitRatio := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "schedgen_collision_cache_hit_ratio",
		Help: "Ratio of collision index cache hits to total lookups",
	})

	enumerationDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "schedgen_enumeration_duration_seconds",
		Help:    "Wall-clock time to fully drain an enumeration request",
		Buckets: prometheus.DefBuckets,
	})
	enumerationResults := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "schedgen_enumeration_results_count",
		Help:    "Number of assignments a request yielded after filtering",
		Buckets: prometheus.ExponentialBuckets(1, 4, 10),
	})

	registry.MustRegister(requestDuration, requestTotal, cacheHits, cacheMisses, cacheHitRatio, enumerationDuration, enumerationResults)

	return &Metrics{
		registry:            registry,
		handler:             promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration:     requestDuration,
		requestTotal:        requestTotal,
		cacheHits:           cacheHits,
		cacheMisses:         cacheMisses,
		cacheHitRatio:       cacheHitRatio,
		enumerationDuration: enumerationDuration,
		enumerationResults:  enumerationResults,
	}
}

// Handler exposes the Prometheus scrape endpoint.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records one request's duration and outcome status.
func (m *Metrics) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := http.StatusText(status)
	if labelStatus == "" {
		labelStatus = "unknown"
	}
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// RecordCacheLookup updates hit/miss counters and the derived hit ratio.
func (m *Metrics) RecordCacheLookup(hit bool) {
	if m == nil {
		return
	}
	if hit {
		m.cacheHits.Inc()
		m.cacheHitCount++
	} else {
		m.cacheMisses.Inc()
		m.cacheMissCount++
	}
	total := m.cacheHitCount + m.cacheMissCount
	if total > 0 {
		m.cacheHitRatio.Set(float64(m.cacheHitCount) / float64(total))
	}
}

// ObserveEnumeration records how long a full generate-and-filter request
// took and how many assignments it produced.
func (m *Metrics) ObserveEnumeration(duration time.Duration, resultCount int) {
	if m == nil {
		return
	}
	m.enumerationDuration.Observe(duration.Seconds())
	m.enumerationResults.Observe(float64(resultCount))
}
