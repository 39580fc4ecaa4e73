package stores

import (
	"context"
	"errors"
	"time"
)

// ErrStoreUnavailable wraps every failure of an EventStore query: connectivity, timeout or a malformed query.
var ErrStoreUnavailable = errors.New("event store unavailable")

const (
	TableRequests  = "requests"
	TableCacheHits = "cache_hits"

	ColumnRoute      = "route"
	ColumnDurationMs = "duration_ms"
	ColumnRecordedAt = "recorded_at"
	ColumnKey        = "key"
	ColumnHit        = "hit"
)

// EventStore is the read side of the time-indexed event tables.
//
//go:generate mockgen -source=event_store.go -destination=./mocks/event_store_mock.go -package=mocks
type EventStore interface {
	// Query runs a single aggregate query. Rows come back in the order requested by q.OrderBy,
	// or in storage order when none is given.
	Query(ctx context.Context, q Query) ([]Row, error)
}

// Query describes one aggregate query over a table:
//
//	SELECT <GroupBy...>, <Select...> FROM <Table> WHERE <Where> GROUP BY <GroupBy...> ORDER BY <OrderBy...>
type Query struct {
	Table   string
	Where   Filter
	GroupBy []string
	Select  []Aggregation
	OrderBy []Order
}

// Row is one result row. Groups holds the GroupBy columns as text, Values the aggregations by alias.
type Row struct {
	Groups map[string]string
	Values map[string]int64
}

type Order struct {
	Column string
	Desc   bool
}

func Asc(column string) Order {
	return Order{Column: column}
}

func Desc(column string) Order {
	return Order{Column: column, Desc: true}
}

// Filter is a predicate over the rows of a table.
type Filter interface {
	isFilter()
}

// SinceFilter keeps rows whose timestamp column is at or after Time.
type SinceFilter struct {
	Column string
	Time   time.Time
}

// AtLeastFilter keeps rows whose integer column is greater than or equal to Value.
type AtLeastFilter struct {
	Column string
	Value  int64
}

// MatchesFilter keeps rows whose text column matches the regular expression Pattern.
type MatchesFilter struct {
	Column  string
	Pattern string
}

// AllFilter is the conjunction of Filters. An empty AllFilter keeps every row.
type AllFilter struct {
	Filters []Filter
}

// AnyFilter is the disjunction of Filters. An empty AnyFilter keeps no row.
type AnyFilter struct {
	Filters []Filter
}

func (SinceFilter) isFilter()   {}
func (AtLeastFilter) isFilter() {}
func (MatchesFilter) isFilter() {}
func (AllFilter) isFilter()     {}
func (AnyFilter) isFilter()     {}

func Since(column string, t time.Time) Filter {
	return SinceFilter{Column: column, Time: t}
}

func AtLeast(column string, value int64) Filter {
	return AtLeastFilter{Column: column, Value: value}
}

func Matches(column, pattern string) Filter {
	return MatchesFilter{Column: column, Pattern: pattern}
}

func All(filters ...Filter) Filter {
	return AllFilter{Filters: filters}
}

func Any(filters ...Filter) Filter {
	return AnyFilter{Filters: filters}
}

type AggregationFunc string

const (
	AggCount     AggregationFunc = "count"
	AggMax       AggregationFunc = "max"
	AggCountTrue AggregationFunc = "count_true"
)

// Aggregation is an integer aggregate exposed in Row.Values under Alias.
type Aggregation struct {
	Func   AggregationFunc
	Column string
	Alias  string
}

// Count counts the rows of each group.
func Count(alias string) Aggregation {
	return Aggregation{Func: AggCount, Alias: alias}
}

// Max is the maximum of an integer column, 0 for an empty group.
func Max(column, alias string) Aggregation {
	return Aggregation{Func: AggMax, Column: column, Alias: alias}
}

// CountTrue counts the rows where a boolean column is true.
func CountTrue(column, alias string) Aggregation {
	return Aggregation{Func: AggCountTrue, Column: column, Alias: alias}
}
