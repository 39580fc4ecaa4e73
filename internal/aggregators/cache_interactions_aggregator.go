package aggregators

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"pulse-reports/internal/models"
	"pulse-reports/internal/shared/loggers"
	"pulse-reports/internal/stores"
)

// CacheInteractionsConfig holds the monitored key patterns in display order.
type CacheInteractionsConfig struct {
	Patterns []models.MonitoredKeyPattern
}

//go:generate mockgen -source=cache_interactions_aggregator.go -destination=./mocks/cache_interactions_aggregator_mock.go -package=mocks
type CacheInteractionsAggregator interface {
	// All counts every cache lookup of the period window.
	All(ctx context.Context, period models.Period) (*models.Computed[models.CacheInteractionSummary], error)
	// Monitored buckets the cache lookups of the period window by the first matching pattern.
	// Every configured pattern is present in the result, in configuration order.
	Monitored(ctx context.Context, period models.Period) (*models.Computed[[]models.MonitoredCacheInteraction], error)
	Patterns() []models.MonitoredKeyPattern
}

type compiledPattern struct {
	models.MonitoredKeyPattern
	re *regexp.Regexp
}

type cacheInteractionsAggregator struct {
	store    stores.EventStore
	patterns []compiledPattern
	clock    func() time.Time
}

// NewCacheInteractionsAggregator fails when a pattern is not a valid regular expression.
func NewCacheInteractionsAggregator(store stores.EventStore, cfg CacheInteractionsConfig) (CacheInteractionsAggregator, error) {
	patterns := make([]compiledPattern, 0, len(cfg.Patterns))
	for _, p := range cfg.Patterns {
		re, err := regexp.Compile(p.Pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid cache key pattern %q: %w", p.Name, err)
		}
		patterns = append(patterns, compiledPattern{MonitoredKeyPattern: p, re: re})
	}
	return &cacheInteractionsAggregator{
		store:    store,
		patterns: patterns,
		clock:    time.Now,
	}, nil
}

func (a *cacheInteractionsAggregator) Patterns() []models.MonitoredKeyPattern {
	out := make([]models.MonitoredKeyPattern, len(a.patterns))
	for i, p := range a.patterns {
		out[i] = p.MonitoredKeyPattern
	}
	return out
}

func (a *cacheInteractionsAggregator) All(ctx context.Context, period models.Period) (*models.Computed[models.CacheInteractionSummary], error) {
	if err := period.Validate(); err != nil {
		return nil, err
	}
	now := a.clock()
	start := time.Now()

	rows, err := a.store.Query(ctx, stores.Query{
		Table: stores.TableCacheHits,
		Where: stores.Since(stores.ColumnRecordedAt, period.WindowStart(now)),
		Select: []stores.Aggregation{
			stores.Count(aliasCount),
			stores.CountTrue(stores.ColumnHit, aliasHits),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query cache interactions: %w", err)
	}
	metricAggregatedRowsTotal.WithLabelValues(reportCacheAll).Add(float64(len(rows)))

	var summary models.CacheInteractionSummary
	if len(rows) > 0 {
		summary.Count = rows[0].Values[aliasCount]
		summary.Hits = rows[0].Values[aliasHits]
	}
	return models.NewComputed(summary, time.Since(start), now), nil
}

func (a *cacheInteractionsAggregator) Monitored(ctx context.Context, period models.Period) (*models.Computed[[]models.MonitoredCacheInteraction], error) {
	if err := period.Validate(); err != nil {
		return nil, err
	}
	now := a.clock()
	if len(a.patterns) == 0 {
		return models.NewComputed([]models.MonitoredCacheInteraction{}, 0, now), nil
	}

	summaries := make([]models.MonitoredCacheInteraction, len(a.patterns))
	matchers := make([]stores.Filter, len(a.patterns))
	for i, p := range a.patterns {
		summaries[i] = models.MonitoredCacheInteraction{Name: p.Name, Pattern: p.Pattern}
		matchers[i] = stores.Matches(stores.ColumnKey, p.Pattern)
	}

	start := time.Now()
	rows, err := a.store.Query(ctx, stores.Query{
		Table: stores.TableCacheHits,
		Where: stores.All(
			stores.Since(stores.ColumnRecordedAt, period.WindowStart(now)),
			stores.Any(matchers...),
		),
		GroupBy: []string{stores.ColumnKey},
		Select: []stores.Aggregation{
			stores.Count(aliasCount),
			stores.CountTrue(stores.ColumnHit, aliasHits),
		},
		OrderBy: []stores.Order{stores.Asc(stores.ColumnKey)},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query monitored cache interactions: %w", err)
	}
	metricAggregatedRowsTotal.WithLabelValues(reportCacheMonitored).Add(float64(len(rows)))

	var unmatched int
	for _, row := range rows {
		i := a.firstMatch(row.Groups[stores.ColumnKey])
		if i < 0 {
			unmatched++
			continue
		}
		summaries[i].UniqueKeys++
		summaries[i].Hits += row.Values[aliasHits]
		summaries[i].Count += row.Values[aliasCount]
	}
	if unmatched > 0 {
		metricUnmatchedKeysTotal.WithLabelValues().Add(float64(unmatched))
		loggers.Ctx(ctx).Debug().Int("unmatched_keys", unmatched).Msg("dropped cache keys matched by the store but not by any pattern")
	}

	return models.NewComputed(summaries, time.Since(start), now), nil
}

// firstMatch returns the index of the first pattern matching key, -1 if none does.
func (a *cacheInteractionsAggregator) firstMatch(key string) int {
	for i, p := range a.patterns {
		if p.re.MatchString(key) {
			return i
		}
	}
	return -1
}
