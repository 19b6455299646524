// Package metrics holds the Prometheus collectors of the service.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "vecjudge"

// Semantic checker, judge and index metrics.
var (
	SemanticRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "semantic_requests_total",
			Help:      "Total number of semantic checker requests",
		},
		[]string{"model", "status"},
	)

	SemanticRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "semantic_request_duration_seconds",
			Help:      "Semantic checker request duration in seconds",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20, 40},
		},
		[]string{"model"},
	)

	SemanticErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "semantic_errors_total",
			Help:      "Total semantic checker errors",
		},
		[]string{"model", "error_type"},
	)

	RuleOutcomesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rule_outcomes_total",
			Help:      "Rule evaluations by checker kind and outcome",
		},
		[]string{"checker", "outcome"}, // outcome: pass, fail, inconclusive, error, timeout, unavailable
	)

	JudgeRunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "judge_runs_total",
			Help:      "Judging runs by rubric and verdict",
		},
		[]string{"rubric", "result"}, // "pass" / "fail"
	)

	VerdictCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "verdict_cache_total",
			Help:      "Semantic verdict cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)

	IndexChunks = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "index_chunks",
			Help:      "Chunks in the current index snapshot",
		},
	)

	IndexVocabularySize = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "index_vocabulary_size",
			Help:      "Terms in the current index vocabulary",
		},
	)

	IndexBuildDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "index_build_duration_seconds",
			Help:      "Corpus load and index build duration in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12),
		},
	)
)

var registerOnce sync.Once

// Register registers every collector with the default registry. Must be called from main;
// repeated calls are no-ops.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			httpRequestDuration,
			httpRequestsTotal,
			httpRequestsInFlight,
			SemanticRequestsTotal,
			SemanticRequestDuration,
			SemanticErrorsTotal,
			RuleOutcomesTotal,
			JudgeRunsTotal,
			VerdictCacheTotal,
			IndexChunks,
			IndexVocabularySize,
			IndexBuildDuration,
		)
	})
}
