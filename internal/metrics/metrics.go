// internal/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	PrivacyRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "privacy_requests_total",
			Help: "Total number of privacy operations",
		},
		[]string{"operation"},
	)

	RowsDeletedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "privacy_rows_deleted_total",
			Help: "Total number of rows erased by privacy requests",
		},
		[]string{"table"},
	)

	CompletionChecksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "completion_state_checks_total",
			Help: "Total number of completion state evaluations",
		},
		[]string{"state"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path", "method", "status"},
	)
)
