// Package metrics provides Prometheus metrics instrumentation.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestDuration tracks HTTP request duration.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path", "status"},
	)

	// RequestsTotal tracks total HTTP requests.
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// ConversationsSavedTotal tracks records written by the save endpoint.
	ConversationsSavedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "conversations_saved_total",
			Help: "Total conversation records saved",
		},
	)

	// ConversationExportsTotal tracks plain-text exports served.
	ConversationExportsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "conversation_exports_total",
			Help: "Total conversation transcripts exported as text",
		},
	)

	// StoreErrorsTotal tracks data-layer failures by operation.
	StoreErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "store_errors_total",
			Help: "Total database errors",
		},
		[]string{"operation"},
	)

	// UnauthorizedTotal tracks requests rejected by the API key gate.
	UnauthorizedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "unauthorized_requests_total",
			Help: "Total requests rejected by the API key gate",
		},
	)
)

// RecordRequest records metrics for an HTTP request.
func RecordRequest(method, path, status string, duration float64) {
	RequestDuration.WithLabelValues(method, path, status).Observe(duration)
	RequestsTotal.WithLabelValues(method, path, status).Inc()
}

// RecordStoreError records a data-layer failure for an operation.
func RecordStoreError(operation string) {
	StoreErrorsTotal.WithLabelValues(operation).Inc()
}
