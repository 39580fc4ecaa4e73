package reports

import (
	"pulse-reports/internal/shared/metrics"
)

const (
	reportSlowRoutes        = "slow_routes"
	reportCachedSlowRoutes  = "cached_slow_routes"
	reportCacheInteractions = "cache_interactions"
	reportCacheAll          = "cache_all"
	reportCacheMonitored    = "cache_monitored"
)

var (
	// metricReportRequestsTotal counts report requests by report and error code.
	// A successful request carries an empty error_code.
	metricReportRequestsTotal = metrics.NewCounterVec(
		metrics.CounterOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubReport,
			Name:      "requests_total",
		},
		[]string{metrics.FieldReport, metrics.FieldErrorCode},
	)

	// metricComputationsTotal counts cache misses that ran an aggregation, by report and error code.
	metricComputationsTotal = metrics.NewCounterVec(
		metrics.CounterOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubReport,
			Name:      "computations_total",
		},
		[]string{metrics.FieldReport, metrics.FieldErrorCode},
	)

	// metricComputationDurationSeconds observes the compute time stored with each fresh report.
	metricComputationDurationSeconds = metrics.NewHistogramVec(
		metrics.HistogramOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubReport,
			Name:      "computation_duration_seconds",
			Buckets:   metrics.QueryBuckets,
		},
		[]string{metrics.FieldReport},
	)
)
