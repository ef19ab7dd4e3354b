// Package metrics exposes the prometheus collectors for the component
// pipeline. The HTTP server serves them on /metrics via promhttp.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SelectionsTotal is exported so selector tests can assert on mode
	// accounting via prometheus testutil.
	SelectionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mosaic_selections_total",
		Help: "Component selections by generator mode (model, deterministic, fallback).",
	}, []string{"mode"})

	candidatesDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mosaic_candidates_dropped_total",
		Help: "Model-produced component candidates rejected by catalog validation.",
	})

	enrichmentFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mosaic_enrichment_failures_total",
		Help: "Adapter calls that failed or timed out, by adapter.",
	}, []string{"adapter"})

	stageDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "mosaic_stage_duration_seconds",
		Help:    "Wall-clock duration of pipeline stages.",
		Buckets: prometheus.DefBuckets,
	}, []string{"stage"})
)

// RecordSelection counts one completed selection in the given mode.
func RecordSelection(mode string) {
	SelectionsTotal.WithLabelValues(mode).Inc()
}

// RecordDroppedCandidate counts one candidate rejected by validation.
func RecordDroppedCandidate() {
	candidatesDropped.Inc()
}

// RecordEnrichmentFailure counts one failed adapter dispatch.
func RecordEnrichmentFailure(adapter string) {
	enrichmentFailures.WithLabelValues(adapter).Inc()
}

// ObserveStage records how long a pipeline stage took.
func ObserveStage(stage string, d time.Duration) {
	stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}
