package aggregators

import (
	"context"
	"fmt"
	"sort"
	"time"

	"pulse-reports/internal/models"
	"pulse-reports/internal/routes"
	"pulse-reports/internal/shared/loggers"
	"pulse-reports/internal/stores"
)

const (
	aliasCount   = "count"
	aliasSlowest = "slowest"
	aliasHits    = "hits"
)

// SlowRoutesConfig holds the slow routes settings the aggregator is built with.
type SlowRoutesConfig struct {
	// ThresholdMs is the minimum duration for a request to count as slow.
	ThresholdMs int64
}

//go:generate mockgen -source=slow_routes_aggregator.go -destination=./mocks/slow_routes_aggregator_mock.go -package=mocks
type SlowRoutesAggregator interface {
	// Aggregate groups the slow requests of the period window by route, slowest first.
	Aggregate(ctx context.Context, period models.Period) (*models.Computed[[]models.SlowRouteSummary], error)
	ThresholdMs() int64
}

type slowRoutesAggregator struct {
	store    stores.EventStore
	resolver routes.RouteResolver
	cfg      SlowRoutesConfig
	clock    func() time.Time
}

func NewSlowRoutesAggregator(store stores.EventStore, resolver routes.RouteResolver, cfg SlowRoutesConfig) SlowRoutesAggregator {
	return &slowRoutesAggregator{
		store:    store,
		resolver: resolver,
		cfg:      cfg,
		clock:    time.Now,
	}
}

func (a *slowRoutesAggregator) ThresholdMs() int64 {
	return a.cfg.ThresholdMs
}

func (a *slowRoutesAggregator) Aggregate(ctx context.Context, period models.Period) (*models.Computed[[]models.SlowRouteSummary], error) {
	if err := period.Validate(); err != nil {
		return nil, err
	}
	now := a.clock()
	start := time.Now()

	rows, err := a.store.Query(ctx, stores.Query{
		Table: stores.TableRequests,
		Where: stores.All(
			stores.Since(stores.ColumnRecordedAt, period.WindowStart(now)),
			stores.AtLeast(stores.ColumnDurationMs, a.cfg.ThresholdMs),
		),
		GroupBy: []string{stores.ColumnRoute},
		Select: []stores.Aggregation{
			stores.Count(aliasCount),
			stores.Max(stores.ColumnDurationMs, aliasSlowest),
		},
		OrderBy: []stores.Order{stores.Desc(aliasSlowest), stores.Asc(stores.ColumnRoute)},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query slow routes: %w", err)
	}
	metricAggregatedRowsTotal.WithLabelValues(reportSlowRoutes).Add(float64(len(rows)))

	summaries := make([]models.SlowRouteSummary, 0, len(rows))
	for _, row := range rows {
		summaries = append(summaries, models.SlowRouteSummary{
			URI:             row.Groups[stores.ColumnRoute],
			RequestCount:    row.Values[aliasCount],
			SlowestDuration: row.Values[aliasSlowest],
		})
	}
	sort.SliceStable(summaries, func(i, j int) bool {
		if summaries[i].SlowestDuration != summaries[j].SlowestDuration {
			return summaries[i].SlowestDuration > summaries[j].SlowestDuration
		}
		return summaries[i].URI < summaries[j].URI
	})
	for i := range summaries {
		summaries[i].Action = a.resolveAction(summaries[i])
	}

	elapsed := time.Since(start)
	loggers.Ctx(ctx).Debug().
		Str(loggers.FieldPeriod, string(period)).
		Int("routes", len(summaries)).
		Dur(loggers.FieldDuration, elapsed).
		Msg("slow routes aggregated")

	return models.NewComputed(summaries, elapsed, now), nil
}

// resolveAction returns nil when the route key has no method or the registry does not know the route.
func (a *slowRoutesAggregator) resolveAction(s models.SlowRouteSummary) *string {
	method := s.Method()
	if method == "" {
		return nil
	}
	handler, ok := a.resolver.ResolveHandler(method, s.Path())
	if !ok {
		return nil
	}
	return &handler
}
