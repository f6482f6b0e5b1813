// Package metrics exposes prometheus collectors for the cache and the scoring pipeline.
// All methods are safe on a nil *Metrics so components can run without instrumentation.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "match_engine"

// Eviction reasons
const (
	EvictLRU     = "lru"
	EvictMemory  = "memory"
	EvictExpired = "expired"
)

// Metrics holds the collectors registered for one engine instance.
type Metrics struct {
	cacheRequests   *prometheus.CounterVec
	cacheEvictions  *prometheus.CounterVec
	cacheEntries    prometheus.Gauge
	signalDuration  *prometheus.HistogramVec
	signalFailures  *prometheus.CounterVec
	finalScore      prometheus.Histogram
	embeddingCalls  *prometheus.CounterVec
	httpDuration    *prometheus.HistogramVec
	httpRequests    *prometheus.CounterVec
	dimensionScores *prometheus.HistogramVec
}

// New creates the collectors and registers them on reg. A nil reg uses the default registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	m := &Metrics{
		cacheRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_requests_total",
				Help:      "Cache lookups by result",
			},
			[]string{"result"}, // "hit" / "miss"
		),
		cacheEvictions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_evictions_total",
				Help:      "Cache evictions by reason",
			},
			[]string{"reason"},
		),
		cacheEntries: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "cache_entries",
				Help:      "Current number of cache entries",
			},
		),
		signalDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "signal_duration_seconds",
				Help:      "Signal computation duration in seconds",
				Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 30, 120},
			},
			[]string{"signal"},
		),
		signalFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "signal_failures_total",
				Help:      "Signal failures by signal and error kind",
			},
			[]string{"signal", "kind"},
		),
		finalScore: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "final_score",
				Help:      "Distribution of hybrid final scores",
				Buckets:   prometheus.LinearBuckets(0, 10, 11),
			},
		),
		embeddingCalls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "embedding_requests_total",
				Help:      "Embedding provider calls by status",
			},
			[]string{"provider", "status"},
		),
		httpDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path", "status"},
		),
		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		dimensionScores: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "dimension_score",
				Help:      "Distribution of multi-dimensional scores",
				Buckets:   prometheus.LinearBuckets(0, 0.1, 11),
			},
			[]string{"dimension"},
		),
	}

	reg.MustRegister(
		m.cacheRequests,
		m.cacheEvictions,
		m.cacheEntries,
		m.signalDuration,
		m.signalFailures,
		m.finalScore,
		m.embeddingCalls,
		m.httpDuration,
		m.httpRequests,
		m.dimensionScores,
	)
	return m
}

// CacheHit counts a cache hit.
func (m *Metrics) CacheHit() {
	if m == nil {
		return
	}
	m.cacheRequests.WithLabelValues("hit").Inc()
}

// CacheMiss counts a cache miss.
func (m *Metrics) CacheMiss() {
	if m == nil {
		return
	}
	m.cacheRequests.WithLabelValues("miss").Inc()
}

// CacheEviction counts n evictions for reason.
func (m *Metrics) CacheEviction(reason string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.cacheEvictions.WithLabelValues(reason).Add(float64(n))
}

// CacheEntries sets the current entry count.
func (m *Metrics) CacheEntries(n int) {
	if m == nil {
		return
	}
	m.cacheEntries.Set(float64(n))
}

// ObserveSignal records how long one signal took.
func (m *Metrics) ObserveSignal(signal string, seconds float64) {
	if m == nil {
		return
	}
	m.signalDuration.WithLabelValues(signal).Observe(seconds)
}

// SignalFailure counts a degraded or failed signal.
func (m *Metrics) SignalFailure(signal, kind string) {
	if m == nil {
		return
	}
	m.signalFailures.WithLabelValues(signal, kind).Inc()
}

// ObserveFinalScore records a hybrid final score.
func (m *Metrics) ObserveFinalScore(score float64) {
	if m == nil {
		return
	}
	m.finalScore.Observe(score)
}

// EmbeddingCall counts a provider call with status "ok" or "error".
func (m *Metrics) EmbeddingCall(provider, status string) {
	if m == nil {
		return
	}
	m.embeddingCalls.WithLabelValues(provider, status).Inc()
}

// ObserveDimension records one dimension score in [0,1].
func (m *Metrics) ObserveDimension(dimension string, score float64) {
	if m == nil {
		return
	}
	m.dimensionScores.WithLabelValues(dimension).Observe(score)
}
