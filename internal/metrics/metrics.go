// internal/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "middleware_requests_total",
			Help: "Total number of front-end requests by action and reply status",
		},
		[]string{"action", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path", "method", "status"},
	)

	BackendRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "backend_request_duration_seconds",
			Help:    "Duration of calls to the back-end table service in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"table", "action"},
	)

	CascadeFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "test_score_cascade_failures_total",
			Help: "Test edits where at least one related test_score update did not succeed",
		},
	)
)
