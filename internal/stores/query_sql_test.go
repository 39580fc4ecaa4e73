package stores

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderQuery(t *testing.T) {
	t.Parallel()

	since := time.Date(2025, 12, 28, 17, 3, 0, 0, time.FixedZone("ICT", 7*3600))

	tests := []struct {
		name     string
		query    Query
		wantSQL  string
		wantArgs []any
	}{
		{
			name: "slow routes",
			query: Query{
				Table:   TableRequests,
				Where:   All(Since(ColumnRecordedAt, since), AtLeast(ColumnDurationMs, 1000)),
				GroupBy: []string{ColumnRoute},
				Select:  []Aggregation{Count("count"), Max(ColumnDurationMs, "slowest")},
				OrderBy: []Order{Desc("slowest"), Asc(ColumnRoute)},
			},
			wantSQL: `SELECT CAST("route" AS VARCHAR) AS "route", CAST(COUNT(*) AS BIGINT) AS "count", ` +
				`CAST(COALESCE(MAX("duration_ms"), 0) AS BIGINT) AS "slowest" FROM "requests" ` +
				`WHERE ("recorded_at" >= CAST(? AS TIMESTAMP) AND "duration_ms" >= ?) ` +
				`GROUP BY "route" ORDER BY "slowest" DESC, "route" ASC`,
			wantArgs: []any{"2025-12-28 10:03:00.000000", int64(1000)},
		},
		{
			name: "ungrouped cache totals",
			query: Query{
				Table:  TableCacheHits,
				Where:  Since(ColumnRecordedAt, since),
				Select: []Aggregation{Count("count"), CountTrue(ColumnHit, "hits")},
			},
			wantSQL: `SELECT CAST(COUNT(*) AS BIGINT) AS "count", ` +
				`CAST(COALESCE(SUM(CASE WHEN "hit" THEN 1 ELSE 0 END), 0) AS BIGINT) AS "hits" FROM "cache_hits" ` +
				`WHERE "recorded_at" >= CAST(? AS TIMESTAMP)`,
			wantArgs: []any{"2025-12-28 10:03:00.000000"},
		},
		{
			name: "patterns combined with OR",
			query: Query{
				Table:   TableCacheHits,
				Where:   All(Since(ColumnRecordedAt, since), Any(Matches(ColumnKey, "^api:"), Matches(ColumnKey, "^sess:"))),
				GroupBy: []string{ColumnKey},
				Select:  []Aggregation{Count("count")},
			},
			wantSQL: `SELECT CAST("key" AS VARCHAR) AS "key", CAST(COUNT(*) AS BIGINT) AS "count" FROM "cache_hits" ` +
				`WHERE ("recorded_at" >= CAST(? AS TIMESTAMP) AND (regexp_matches("key", ?) OR regexp_matches("key", ?))) ` +
				`GROUP BY "key"`,
			wantArgs: []any{"2025-12-28 10:03:00.000000", "^api:", "^sess:"},
		},
		{
			name: "empty junctions",
			query: Query{
				Table:  TableCacheHits,
				Where:  All(Any(), All()),
				Select: []Aggregation{Count("count")},
			},
			wantSQL: `SELECT CAST(COUNT(*) AS BIGINT) AS "count" FROM "cache_hits" WHERE (FALSE AND TRUE)`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			sql, args, err := renderQuery(tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.wantSQL, sql)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestRenderQuery_Rejects(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		query Query
	}{
		{name: "injected table", query: Query{Table: `requests"; DROP TABLE requests; --`, Select: []Aggregation{Count("c")}}},
		{name: "bad alias", query: Query{Table: TableRequests, Select: []Aggregation{Count("Count Me")}}},
		{name: "bad group column", query: Query{Table: TableRequests, GroupBy: []string{"1route"}}},
		{name: "bad filter column", query: Query{Table: TableRequests, Select: []Aggregation{Count("c")}, Where: Since("recorded-at", time.Now())}},
		{name: "unknown aggregation", query: Query{Table: TableRequests, Select: []Aggregation{{Func: "avg", Column: ColumnDurationMs, Alias: "a"}}}},
		{name: "nothing selected", query: Query{Table: TableRequests}},
		{name: "bad order column", query: Query{Table: TableRequests, Select: []Aggregation{Count("c")}, OrderBy: []Order{Asc("c;")}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, _, err := renderQuery(tt.query)
			assert.Error(t, err)
		})
	}
}
