package stores

import (
	"time"

	"pulse-reports/internal/shared/metrics"
)

// metricQueryDurationSeconds observes every EventStore query by table and outcome.
// outcome is "ok" or "error"; a timeout shows up as "error".
var metricQueryDurationSeconds = metrics.NewHistogramVec(
	metrics.HistogramOpts{
		Namespace: metrics.Namespace,
		Subsystem: metrics.SubStore,
		Name:      "query_duration_seconds",
		Buckets:   metrics.QueryBuckets,
	},
	[]string{"table", "outcome"},
)

func observeQuery(table string, elapsed time.Duration, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	if table == "" {
		table = "unknown"
	}
	metricQueryDurationSeconds.WithLabelValues(table, outcome).Observe(elapsed.Seconds())
}
