// Package metrics provides Prometheus metrics for the TalkLens scoring service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the scoring service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	registry         prometheus.Registerer

	// Scoring metrics - what really matters for a scoring engine
	scoringRequests prometheus.Counter
	scoringLatency  prometheus.Histogram
	scoringErrors   *prometheus.CounterVec
	degradedScores  prometheus.Counter
	overallScores   prometheus.Histogram

	// Embedding provider metrics
	embeddingLatency   prometheus.Histogram
	embeddingErrors    prometheus.Counter
	embeddingCacheHits prometheus.Counter
	embeddingCacheMiss prometheus.Counter

	// Rubric metrics
	rubricCriteria prometheus.Gauge

	// HTTP performance metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// System performance metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "talklens",
		subsystem:        "scoring",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	factory := promauto.With(m.registry)

	m.scoringRequests = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "requests_total",
		Help:      "Total number of transcript scoring requests.",
	})
	m.scoringLatency = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "latency_ms",
		Help:      "Latency of a full transcript scoring call in milliseconds.",
		Buckets:   []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500},
	})
	m.scoringErrors = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "errors_total",
		Help:      "Scoring failures by kind.",
	}, []string{"kind"})
	m.degradedScores = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "degraded_total",
		Help:      "Scores produced in degraded (no-semantic) mode.",
	})
	m.overallScores = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "overall_score",
		Help:      "Distribution of overall scores handed to callers.",
		Buckets:   []float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100},
	})

	m.embeddingLatency = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "embedding",
		Name:      "latency_ms",
		Help:      "Latency of a single embedding call in milliseconds.",
		Buckets:   m.histogramBuckets,
	})
	m.embeddingErrors = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "embedding",
		Name:      "errors_total",
		Help:      "Embedding provider failures.",
	})
	m.embeddingCacheHits = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "embedding",
		Name:      "cache_hits_total",
		Help:      "Embedding cache hits.",
	})
	m.embeddingCacheMiss = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "embedding",
		Name:      "cache_misses_total",
		Help:      "Embedding cache misses.",
	})

	m.rubricCriteria = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "rubric",
		Name:      "criteria",
		Help:      "Number of criteria in the loaded rubric.",
	})

	m.httpRequests = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests by endpoint, method and status.",
	}, []string{"endpoint", "method", "status"})
	m.httpRequestDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "http",
		Name:      "request_duration_ms",
		Help:      "HTTP request duration in milliseconds.",
		Buckets:   []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500},
	}, []string{"endpoint", "method", "status"})

	m.systemMemoryUsage = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "system",
		Name:      "memory_bytes",
		Help:      "Current allocated heap memory in bytes.",
	})
	m.systemGoroutineCount = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "system",
		Name:      "goroutines",
		Help:      "Current number of goroutines.",
	})
}

// GetRegistry returns the custom Prometheus registry used by the global manager.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// Package-level recording helpers operating on the global manager.

// RecordScoringRequest increments the scoring request counter.
func RecordScoringRequest() {
	if globalManager.enabled {
		globalManager.scoringRequests.Inc()
	}
}

// RecordScoringLatency records the latency of a scoring call in milliseconds.
func RecordScoringLatency(ms float64) {
	if globalManager.enabled {
		globalManager.scoringLatency.Observe(ms)
	}
}

// RecordScoringError records a scoring failure with its kind label.
func RecordScoringError(kind string) {
	if globalManager.enabled {
		globalManager.scoringErrors.WithLabelValues(kind).Inc()
	}
}

// RecordDegradedScore increments the degraded-mode score counter.
func RecordDegradedScore() {
	if globalManager.enabled {
		globalManager.degradedScores.Inc()
	}
}

// RecordOverallScore observes a produced overall score.
func RecordOverallScore(score float64) {
	if globalManager.enabled {
		globalManager.overallScores.Observe(score)
	}
}

// RecordEmbeddingLatency records the latency of an embedding call in milliseconds.
func RecordEmbeddingLatency(ms float64) {
	if globalManager.enabled {
		globalManager.embeddingLatency.Observe(ms)
	}
}

// RecordEmbeddingError increments the embedding error counter.
func RecordEmbeddingError() {
	if globalManager.enabled {
		globalManager.embeddingErrors.Inc()
	}
}

// RecordEmbeddingCacheHit increments the embedding cache hit counter.
func RecordEmbeddingCacheHit() {
	if globalManager.enabled {
		globalManager.embeddingCacheHits.Inc()
	}
}

// RecordEmbeddingCacheMiss increments the embedding cache miss counter.
func RecordEmbeddingCacheMiss() {
	if globalManager.enabled {
		globalManager.embeddingCacheMiss.Inc()
	}
}

// UpdateRubricCriteria sets the loaded rubric criteria gauge.
func UpdateRubricCriteria(n int) {
	if globalManager.enabled {
		globalManager.rubricCriteria.Set(float64(n))
	}
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, status string) {
	if globalManager.enabled {
		globalManager.httpRequests.WithLabelValues(endpoint, method, status).Inc()
	}
}

// RecordHTTPRequestDuration records the duration of an HTTP request in milliseconds.
func RecordHTTPRequestDuration(endpoint, method, status string, ms float64) {
	if globalManager.enabled {
		globalManager.httpRequestDuration.WithLabelValues(endpoint, method, status).Observe(ms)
	}
}

// UpdateSystemMemoryUsage sets the allocated heap gauge.
func UpdateSystemMemoryUsage(bytes uint64) {
	if globalManager.enabled {
		globalManager.systemMemoryUsage.Set(float64(bytes))
	}
}

// UpdateSystemGoroutineCount sets the goroutine gauge.
func UpdateSystemGoroutineCount(n int) {
	if globalManager.enabled {
		globalManager.systemGoroutineCount.Set(float64(n))
	}
}
