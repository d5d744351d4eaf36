// Package metrics holds the process-wide Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "folio_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "folio_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// LoginAttempts is labelled by outcome: success, invalid, throttled.
	LoginAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "folio_login_attempts_total",
			Help: "Login attempts by outcome",
		},
		[]string{"outcome"},
	)

	UploadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "folio_uploads_total",
			Help: "Uploaded or presigned blobs by mode and folder",
		},
		[]string{"mode", "folder"},
	)

	TasksEnqueued = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "folio_tasks_enqueued_total",
			Help: "Background tasks written to the stream",
		},
		[]string{"type"},
	)

	TasksProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "folio_tasks_processed_total",
			Help: "Background tasks handled by the worker",
		},
		[]string{"type", "result"},
	)
)
