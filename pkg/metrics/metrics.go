package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "invoice_rag_requests_total",
			Help: "Total number of API operations by outcome",
		},
		[]string{"operation", "status"},
	)

	ExternalCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "invoice_rag_external_call_duration_seconds",
			Help:    "Duration of calls to external parsing, embedding and LLM services",
			Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		},
		[]string{"service", "operation"},
	)

	ExternalCallErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "invoice_rag_external_call_errors_total",
			Help: "Total number of failed calls to external services",
		},
		[]string{"service", "operation"},
	)

	QueryCacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "invoice_rag_query_cache_total",
			Help: "Query cache lookups by result",
		},
		[]string{"result"},
	)

	IndexedChunks = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "invoice_rag_active_index_chunks",
			Help: "Number of chunks in the active document index",
		},
	)
)

// ObserveExternal records the duration and outcome of one external call.
func ObserveExternal(service, operation string, start time.Time, err error) {
	ExternalCallDuration.WithLabelValues(service, operation).Observe(time.Since(start).Seconds())
	if err != nil {
		ExternalCallErrors.WithLabelValues(service, operation).Inc()
	}
}
