package metrics

import "github.com/prometheus/client_golang/prometheus"

// Ingestion Prometheus metrics.
var (
	IngestDecisionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "matchdex",
			Name:      "ingest_decisions_total",
			Help:      "Reconciliation decisions by kind (skip, mark_ineligible, full_upsert, smart_update)",
		},
		[]string{"decision"},
	)

	IngestVectorUpdatesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "matchdex",
			Name:      "ingest_vector_updates_total",
			Help:      "Vector regenerations during smart updates, by vector space",
		},
		[]string{"space"},
	)

	IngestNarrativesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "matchdex",
			Name:      "ingest_narratives_total",
			Help:      "Narrative generation attempts by status",
		},
		[]string{"status"},
	)

	IngestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "matchdex",
			Name:      "ingest_duration_seconds",
			Help:      "Single-profile ingestion duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"decision"},
	)
)

var ingestMetricsRegistered bool

// RegisterIngestMetrics registers Prometheus ingestion metrics. Must be called once from main.
func RegisterIngestMetrics() {
	if ingestMetricsRegistered {
		return
	}
	prometheus.MustRegister(IngestDecisionsTotal)
	prometheus.MustRegister(IngestVectorUpdatesTotal)
	prometheus.MustRegister(IngestNarrativesTotal)
	prometheus.MustRegister(IngestDuration)
	ingestMetricsRegistered = true
}
