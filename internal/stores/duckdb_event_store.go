package stores

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"

	"pulse-reports/internal/models"
	"pulse-reports/internal/shared/loggers"
	"pulse-reports/internal/stores/migrate"
)

const defaultQueryTimeout = 30 * time.Second

// DuckDBEventStore serves EventStore queries from a DuckDB database.
type DuckDBEventStore struct {
	db           *sql.DB
	queryTimeout time.Duration
}

// NewDuckDBEventStore opens or creates a DuckDB database and applies pending migrations.
// An empty path opens an in-memory database. A non-positive queryTimeout falls back to 30s.
func NewDuckDBEventStore(path string, queryTimeout time.Duration) (*DuckDBEventStore, error) {
	if path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create event store directory: %w", err)
		}
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open event store: %w", err)
	}
	if err := migrate.NewRunner(db).Run(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate event store: %w", err)
	}

	if queryTimeout <= 0 {
		queryTimeout = defaultQueryTimeout
	}
	return &DuckDBEventStore{db: db, queryTimeout: queryTimeout}, nil
}

func (s *DuckDBEventStore) Close() error {
	return s.db.Close()
}

// queryCtx bounds a single statement by the configured query timeout.
func (s *DuckDBEventStore) queryCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.queryTimeout)
}

func (s *DuckDBEventStore) Query(ctx context.Context, q Query) (rows []Row, err error) {
	start := time.Now()
	defer func() {
		observeQuery(q.Table, time.Since(start), err)
	}()

	stmt, args, err := renderQuery(q)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed query: %w", ErrStoreUnavailable, err)
	}

	ctx, cancel := s.queryCtx(ctx)
	defer cancel()

	loggers.Ctx(ctx).Debug().Str(loggers.FieldTable, q.Table).Str("sql", stmt).Msg("running event store query")

	sqlRows, err := s.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: query %s: %w", ErrStoreUnavailable, q.Table, err)
	}
	defer sqlRows.Close()

	groupValues := make([]string, len(q.GroupBy))
	aggValues := make([]int64, len(q.Select))
	dest := make([]any, 0, len(q.GroupBy)+len(q.Select))
	for i := range groupValues {
		dest = append(dest, &groupValues[i])
	}
	for i := range aggValues {
		dest = append(dest, &aggValues[i])
	}

	rows = []Row{}
	for sqlRows.Next() {
		if err := sqlRows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("%w: scan %s row: %w", ErrStoreUnavailable, q.Table, err)
		}
		row := Row{
			Groups: make(map[string]string, len(q.GroupBy)),
			Values: make(map[string]int64, len(q.Select)),
		}
		for i, g := range q.GroupBy {
			row.Groups[g] = groupValues[i]
		}
		for i, a := range q.Select {
			row.Values[a.Alias] = aggValues[i]
		}
		rows = append(rows, row)
	}
	if err := sqlRows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate %s rows: %w", ErrStoreUnavailable, q.Table, err)
	}
	return rows, nil
}

// AppendRequests inserts request events in one transaction. Used to seed fixtures, not for ingestion.
func (s *DuckDBEventStore) AppendRequests(ctx context.Context, events []models.RequestEvent) error {
	return s.appendInTx(ctx, TableRequests,
		`INSERT INTO requests (route, duration_ms, recorded_at) VALUES (?, ?, CAST(? AS TIMESTAMP))`,
		len(events), func(i int) []any {
			e := events[i]
			return []any{e.Route, e.DurationMs, formatTimestamp(e.RecordedAt)}
		})
}

// AppendCacheHits inserts cache hit events in one transaction. Used to seed fixtures, not for ingestion.
func (s *DuckDBEventStore) AppendCacheHits(ctx context.Context, events []models.CacheHitEvent) error {
	return s.appendInTx(ctx, TableCacheHits,
		`INSERT INTO cache_hits (key, hit, recorded_at) VALUES (?, ?, CAST(? AS TIMESTAMP))`,
		len(events), func(i int) []any {
			e := events[i]
			return []any{e.Key, e.Hit, formatTimestamp(e.RecordedAt)}
		})
}

func (s *DuckDBEventStore) appendInTx(ctx context.Context, table, insert string, n int, argsAt func(i int) []any) error {
	if n == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin %s insert: %w", table, err)
	}
	stmt, err := tx.PrepareContext(ctx, insert)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to prepare %s insert: %w", table, err)
	}
	defer stmt.Close()

	for i := 0; i < n; i++ {
		if _, err := stmt.ExecContext(ctx, argsAt(i)...); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to insert into %s: %w", table, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit %s insert: %w", table, err)
	}
	return nil
}
