package aggregators

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"pulse-reports/internal/models"
	"pulse-reports/internal/stores"
	storemocks "pulse-reports/internal/stores/mocks"
)

var apiAndSessionPatterns = []models.MonitoredKeyPattern{
	{Name: "api", Pattern: "^api:"},
	{Name: "sessions", Pattern: "^sess:"},
}

func newTestCacheInteractionsAggregator(t *testing.T, store stores.EventStore, patterns []models.MonitoredKeyPattern) *cacheInteractionsAggregator {
	t.Helper()
	a, err := NewCacheInteractionsAggregator(store, CacheInteractionsConfig{Patterns: patterns})
	require.NoError(t, err)
	impl := a.(*cacheInteractionsAggregator)
	impl.clock = func() time.Time { return fixedNow }
	return impl
}

func keyRow(key string, count, hits int64) stores.Row {
	return stores.Row{
		Groups: map[string]string{stores.ColumnKey: key},
		Values: map[string]int64{aliasCount: count, aliasHits: hits},
	}
}

func TestCacheInteractionsAggregator_All(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		rows []stores.Row
		want models.CacheInteractionSummary
	}{
		{name: "no rows", rows: []stores.Row{}, want: models.CacheInteractionSummary{}},
		{name: "zero totals", rows: []stores.Row{{Values: map[string]int64{aliasCount: 0, aliasHits: 0}}}, want: models.CacheInteractionSummary{}},
		{name: "totals", rows: []stores.Row{{Values: map[string]int64{aliasCount: 3, aliasHits: 2}}}, want: models.CacheInteractionSummary{Count: 3, Hits: 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ctrl := gomock.NewController(t)
			ctx := context.Background()
			store := storemocks.NewMockEventStore(ctrl)
			agg := newTestCacheInteractionsAggregator(t, store, nil)

			store.EXPECT().Query(ctx, stores.Query{
				Table:  stores.TableCacheHits,
				Where:  stores.Since(stores.ColumnRecordedAt, fixedNow.Add(-time.Hour)),
				Select: []stores.Aggregation{stores.Count(aliasCount), stores.CountTrue(stores.ColumnHit, aliasHits)},
			}).Return(tt.rows, nil)

			computed, err := agg.All(ctx, models.Period1Hour)
			require.NoError(t, err)
			assert.Equal(t, tt.want, computed.Payload)
			assert.Equal(t, fixedNow, computed.ComputedAt)
		})
	}
}

func TestCacheInteractionsAggregator_All_StoreError(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	store := storemocks.NewMockEventStore(ctrl)
	agg := newTestCacheInteractionsAggregator(t, store, nil)

	store.EXPECT().Query(gomock.Any(), gomock.Any()).Return(nil, fmt.Errorf("%w: timeout", stores.ErrStoreUnavailable))

	_, err := agg.All(context.Background(), models.Period24Hours)
	assert.ErrorIs(t, err, stores.ErrStoreUnavailable)
}

func TestCacheInteractionsAggregator_Monitored_NoMatches(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	ctx := context.Background()
	store := storemocks.NewMockEventStore(ctrl)
	agg := newTestCacheInteractionsAggregator(t, store, apiAndSessionPatterns)

	store.EXPECT().Query(ctx, stores.Query{
		Table: stores.TableCacheHits,
		Where: stores.All(
			stores.Since(stores.ColumnRecordedAt, fixedNow.Add(-168*time.Hour)),
			stores.Any(stores.Matches(stores.ColumnKey, "^api:"), stores.Matches(stores.ColumnKey, "^sess:")),
		),
		GroupBy: []string{stores.ColumnKey},
		Select:  []stores.Aggregation{stores.Count(aliasCount), stores.CountTrue(stores.ColumnHit, aliasHits)},
		OrderBy: []stores.Order{stores.Asc(stores.ColumnKey)},
	}).Return([]stores.Row{}, nil)

	computed, err := agg.Monitored(ctx, models.Period7Days)
	require.NoError(t, err)
	assert.Equal(t, []models.MonitoredCacheInteraction{
		{Name: "api", Pattern: "^api:"},
		{Name: "sessions", Pattern: "^sess:"},
	}, computed.Payload)
}

func TestCacheInteractionsAggregator_Monitored_BucketsInConfigOrder(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	store := storemocks.NewMockEventStore(ctrl)
	agg := newTestCacheInteractionsAggregator(t, store, []models.MonitoredKeyPattern{
		{Name: "sess", Pattern: "^sess:"},
		{Name: "api", Pattern: "^api:"},
		{Name: "unused", Pattern: "^nothing:"},
	})

	store.EXPECT().Query(gomock.Any(), gomock.Any()).Return([]stores.Row{
		keyRow("api:1", 1, 1),
		keyRow("api:2", 1, 0),
		keyRow("sess:1", 1, 1),
	}, nil)

	computed, err := agg.Monitored(context.Background(), models.Period1Hour)
	require.NoError(t, err)
	assert.Equal(t, []models.MonitoredCacheInteraction{
		{Name: "sess", Pattern: "^sess:", UniqueKeys: 1, Hits: 1, Count: 1},
		{Name: "api", Pattern: "^api:", UniqueKeys: 2, Hits: 1, Count: 2},
		{Name: "unused", Pattern: "^nothing:"},
	}, computed.Payload)
	assert.Equal(t, fixedNow, computed.ComputedAt)
}

func TestCacheInteractionsAggregator_Monitored_FirstMatchWins(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	store := storemocks.NewMockEventStore(ctrl)
	agg := newTestCacheInteractionsAggregator(t, store, []models.MonitoredKeyPattern{
		{Name: "users", Pattern: "^api:users:"},
		{Name: "api", Pattern: "^api:"},
	})

	store.EXPECT().Query(gomock.Any(), gomock.Any()).Return([]stores.Row{
		keyRow("api:orders:1", 5, 4),
		keyRow("api:users:1", 3, 1),
		keyRow("unrelated", 9, 9),
	}, nil)

	computed, err := agg.Monitored(context.Background(), models.Period1Hour)
	require.NoError(t, err)
	assert.Equal(t, []models.MonitoredCacheInteraction{
		{Name: "users", Pattern: "^api:users:", UniqueKeys: 1, Hits: 1, Count: 3},
		{Name: "api", Pattern: "^api:", UniqueKeys: 1, Hits: 4, Count: 5},
	}, computed.Payload)
}

func TestCacheInteractionsAggregator_Monitored_NoPatternsSkipsStore(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	// No EXPECT: any store call fails the test.
	agg := newTestCacheInteractionsAggregator(t, storemocks.NewMockEventStore(ctrl), nil)

	computed, err := agg.Monitored(context.Background(), models.Period6Hours)
	require.NoError(t, err)
	assert.Equal(t, []models.MonitoredCacheInteraction{}, computed.Payload)
	assert.Zero(t, computed.ComputeTimeMs)
	assert.Equal(t, fixedNow, computed.ComputedAt)
}

func TestCacheInteractionsAggregator_Monitored_StoreError(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	store := storemocks.NewMockEventStore(ctrl)
	agg := newTestCacheInteractionsAggregator(t, store, apiAndSessionPatterns)

	store.EXPECT().Query(gomock.Any(), gomock.Any()).Return(nil, fmt.Errorf("%w: closed", stores.ErrStoreUnavailable))

	computed, err := agg.Monitored(context.Background(), models.Period1Hour)
	assert.Nil(t, computed)
	assert.ErrorIs(t, err, stores.ErrStoreUnavailable)
}

func TestCacheInteractionsAggregator_Patterns(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)

	agg := newTestCacheInteractionsAggregator(t, storemocks.NewMockEventStore(ctrl), apiAndSessionPatterns)
	assert.Equal(t, apiAndSessionPatterns, agg.Patterns())
}

func TestNewCacheInteractionsAggregator_InvalidPattern(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)

	_, err := NewCacheInteractionsAggregator(storemocks.NewMockEventStore(ctrl), CacheInteractionsConfig{
		Patterns: []models.MonitoredKeyPattern{{Name: "broken", Pattern: "^(api"}},
	})
	assert.ErrorContains(t, err, `invalid cache key pattern "broken"`)
}
