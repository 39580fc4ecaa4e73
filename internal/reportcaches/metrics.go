package reportcaches

import (
	"pulse-reports/internal/shared/metrics"
)

const (
	resultCanceled = "canceled"

	opGet    = "get"
	opSet    = "set"
	opEncode = "encode"
	opDecode = "decode"
)

var (
	// metricLookupsTotal counts GetOrCompute calls by Lookup, or canceled when the caller gave up waiting.
	// An expired entry counts as a miss.
	metricLookupsTotal = metrics.NewCounterVec(
		metrics.CounterOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubReportCache,
			Name:      "lookups_total",
		},
		[]string{"result"},
	)

	metricBackendErrorsTotal = metrics.NewCounterVec(
		metrics.CounterOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubReportCache,
			Name:      "backend_errors_total",
		},
		[]string{"operation"},
	)
)
