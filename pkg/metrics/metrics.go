// Package metrics exposes Prometheus instrumentation for the quoting engine.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	recomputeTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ichra_recompute_total",
		Help: "Number of recomputation passes completed.",
	})

	recomputeSuperseded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ichra_recompute_superseded_total",
		Help: "Number of in-flight passes discarded because newer inputs arrived.",
	})

	recomputeErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ichra_recompute_errors_total",
		Help: "Number of recomputation passes that failed.",
	})

	recomputeDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "ichra_recompute_duration_seconds",
		Help:    "Wall-clock duration of completed recomputation passes.",
		Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
	})

	dataIssues = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ichra_data_issues_total",
		Help: "Number of rating/configuration data issues collected across passes.",
	})
)

// RecordRecompute records a completed pass and its duration in seconds.
func RecordRecompute(seconds float64) {
	recomputeTotal.Inc()
	recomputeDuration.Observe(seconds)
}

// RecordSuperseded records an in-flight pass discarded as stale.
func RecordSuperseded() { recomputeSuperseded.Inc() }

// RecordError records a failed pass.
func RecordError() { recomputeErrors.Inc() }

// RecordDataIssues adds n collected data issues.
func RecordDataIssues(n int) { dataIssues.Add(float64(n)) }
