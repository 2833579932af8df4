// Package pmetrics adapts the teacher's internal/metrics Prometheus
// instrumentation to the generation pipeline. The core never starts an
// HTTP listener (spec.md §1 places the runtime out of scope for serving);
// a collaborator that does run a registry/scrape endpoint can import
// Registry and expose it.
package pmetrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// Registry is a dedicated registry rather than the global default, so
	// embedding this module in a larger process never collides with that
	// process's own metric names.
	Registry = prometheus.NewRegistry()

	// StageDuration records the wall-clock time of each of the five
	// pipeline stages, labeled by stage name.
	StageDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "planetforge",
		Name:      "stage_duration_seconds",
		Help:      "Wall-clock duration of a single pipeline stage.",
		Buckets:   prometheus.ExponentialBuckets(0.001, 2, 16),
	}, []string{"stage"})

	// RealismScore records the last computed total realism score, so a
	// long-running host process can chart score drift across seeds.
	RealismScore = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "planetforge",
		Name:      "realism_score",
		Help:      "Most recently computed total realism score (0-100).",
	})

	// GenerationsTotal counts completed generate() calls.
	GenerationsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "planetforge",
		Name:      "generations_total",
		Help:      "Total number of completed generate() calls.",
	})
)

func init() {
	Registry.MustRegister(StageDuration, RealismScore, GenerationsTotal)
}

// ObserveStage records a stage's duration in seconds.
func ObserveStage(stage string, seconds float64) {
	StageDuration.WithLabelValues(stage).Observe(seconds)
}
