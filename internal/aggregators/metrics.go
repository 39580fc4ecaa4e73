package aggregators

import (
	"pulse-reports/internal/shared/metrics"
)

const (
	reportSlowRoutes     = "slow_routes"
	reportCacheAll       = "cache_all"
	reportCacheMonitored = "cache_monitored"
)

// metricAggregatedRowsTotal counts the grouped rows returned by the event store per report.
//
// For slow routes a row is one route, for monitored cache interactions one distinct key,
// and cache_all always contributes exactly one row per computation.
var (
	metricAggregatedRowsTotal = metrics.NewCounterVec(
		metrics.CounterOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubAggregation,
			Name:      "rows_total",
		},
		[]string{metrics.FieldReport},
	)

	// metricUnmatchedKeysTotal counts keys the store matched with the OR-combined patterns
	// that no pattern matched again during bucketing. Non-zero values point at a regex dialect
	// difference between the store and the service.
	metricUnmatchedKeysTotal = metrics.NewCounterVec(
		metrics.CounterOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubAggregation,
			Name:      "unmatched_keys_total",
		},
		[]string{},
	)
)
