package http

import (
	"pulse-reports/internal/shared/metrics"
)

var (
	// metricHTTPRequestsTotal counts report API requests by route pattern, status and error code.
	metricHTTPRequestsTotal = metrics.NewCounterVec(
		metrics.CounterOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubHTTP,
			Name:      "requests_total",
		},
		[]string{"method", "path", "status", metrics.FieldErrorCode},
	)

	metricHTTPRequestDuration = metrics.NewHistogramVec(
		metrics.HistogramOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubHTTP,
			Name:      "request_duration_seconds",
			Buckets:   metrics.QueryBuckets,
		},
		[]string{"method", "path", "status", metrics.FieldErrorCode},
	)
)
