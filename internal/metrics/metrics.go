// schoolrank: weighted multi-criteria school ranking
// SPDX-License-Identifier: MIT
//
// Prometheus metrics for ranking passes, the score cache and dataset reloads.

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	MetricRankTotal            = "schoolrank_rank_total"
	MetricRankDuration         = "schoolrank_rank_duration_seconds"
	MetricRankSkipped          = "schoolrank_rank_skipped_total"
	MetricLastRankedCount      = "schoolrank_last_ranked_count"
	MetricValidationErrors     = "schoolrank_weight_validation_errors_total"
	MetricCacheHits            = "schoolrank_score_cache_hits_total"
	MetricCacheMisses          = "schoolrank_score_cache_misses_total"
	MetricDatasetSchools       = "schoolrank_dataset_schools"
	MetricDatasetReloads       = "schoolrank_dataset_reloads_total"
	MetricDatasetInvalidations = "schoolrank_dataset_invalidated_scores_total"
	MetricToolCalls            = "schoolrank_tool_calls_total"
)

// CacheStats reports cumulative cache hits and misses.
type CacheStats func() (hits, misses uint64)

// Metrics implements ranking.Observer. All operations are thread-safe.
type Metrics struct {
	rankTotal        prometheus.Counter
	rankDuration     prometheus.Histogram
	rankSkipped      prometheus.Counter
	lastRankedCount  prometheus.Gauge
	validationErrors prometheus.Counter
	datasetSchools   prometheus.Gauge
	datasetReloads   *prometheus.CounterVec
	invalidations    prometheus.Counter
	toolCalls        *prometheus.CounterVec
	cacheHits        prometheus.CounterFunc
	cacheMisses      prometheus.CounterFunc
}

// New creates the collectors. stats may be nil when caching is disabled. The
// metrics are not registered; call Register.
func New(stats CacheStats) *Metrics {
	if stats == nil {
		stats = func() (uint64, uint64) { return 0, 0 }
	}
	return &Metrics{
		rankTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: MetricRankTotal,
			Help: "Total number of completed ranking passes",
		}),
		rankDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    MetricRankDuration,
			Help:    "Histogram of ranking pass duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 1},
		}),
		rankSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: MetricRankSkipped,
			Help: "Total number of entities skipped for unreadable or duplicate identifiers",
		}),
		lastRankedCount: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: MetricLastRankedCount,
			Help: "Number of schools ranked in the last pass",
		}),
		validationErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: MetricValidationErrors,
			Help: "Total number of rejected weight maps",
		}),
		datasetSchools: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: MetricDatasetSchools,
			Help: "Number of schools in the current dataset snapshot",
		}),
		datasetReloads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: MetricDatasetReloads,
			Help: "Total number of dataset reloads by result",
		}, []string{"result"}),
		invalidations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: MetricDatasetInvalidations,
			Help: "Total number of cached criterion scores dropped by reloads",
		}),
		toolCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: MetricToolCalls,
			Help: "Total number of MCP tool calls by tool and outcome",
		}, []string{"tool", "outcome"}),
		cacheHits: prometheus.NewCounterFunc(prometheus.CounterOpts{
			Name: MetricCacheHits,
			Help: "Total number of criterion score cache hits",
		}, func() float64 { h, _ := stats(); return float64(h) }),
		cacheMisses: prometheus.NewCounterFunc(prometheus.CounterOpts{
			Name: MetricCacheMisses,
			Help: "Total number of criterion score cache misses",
		}, func() float64 { _, m := stats(); return float64(m) }),
	}
}

// Register registers all metrics with the given registry.
func (m *Metrics) Register(reg prometheus.Registerer) error {
	for _, c := range m.Collectors() {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// ObserveRank records one completed pass.
func (m *Metrics) ObserveRank(d time.Duration, ranked, skipped int) {
	m.rankTotal.Inc()
	m.rankDuration.Observe(d.Seconds())
	m.rankSkipped.Add(float64(skipped))
	m.lastRankedCount.Set(float64(ranked))
}

func (m *Metrics) ObserveValidationError() {
	m.validationErrors.Inc()
}

// ObserveReload records a reload attempt; schools and invalidated are ignored
// when err is set.
func (m *Metrics) ObserveReload(schools, invalidated int, err error) {
	if err != nil {
		m.datasetReloads.WithLabelValues("error").Inc()
		return
	}
	m.datasetReloads.WithLabelValues("ok").Inc()
	m.datasetSchools.Set(float64(schools))
	m.invalidations.Add(float64(invalidated))
}

// ObserveToolCall counts a tool call; outcome is "ok" or an error code.
func (m *Metrics) ObserveToolCall(tool, outcome string) {
	m.toolCalls.WithLabelValues(tool, outcome).Inc()
}

// Collectors returns all Prometheus collectors for testing.
func (m *Metrics) Collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.rankTotal,
		m.rankDuration,
		m.rankSkipped,
		m.lastRankedCount,
		m.validationErrors,
		m.datasetSchools,
		m.datasetReloads,
		m.invalidations,
		m.toolCalls,
		m.cacheHits,
		m.cacheMisses,
	}
}
