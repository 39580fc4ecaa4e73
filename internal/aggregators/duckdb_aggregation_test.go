package aggregators

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pulse-reports/internal/models"
	"pulse-reports/internal/routes"
	"pulse-reports/internal/stores"
)

func newInMemoryStore(t *testing.T) *stores.DuckDBEventStore {
	t.Helper()
	store, err := stores.NewDuckDBEventStore("", time.Minute)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func newDuckDBAggregators(t *testing.T, store stores.EventStore) (*slowRoutesAggregator, *cacheInteractionsAggregator) {
	t.Helper()
	registry, err := routes.NewRegistry([]routes.Definition{
		{Method: "GET", Path: "/a", Handler: "AController@index"},
	})
	require.NoError(t, err)

	slow := NewSlowRoutesAggregator(store, registry, SlowRoutesConfig{ThresholdMs: 100}).(*slowRoutesAggregator)
	slow.clock = func() time.Time { return fixedNow }
	return slow, newTestCacheInteractionsAggregator(t, store, apiAndSessionPatterns)
}

// marshalTwice runs compute twice and returns both JSON encodings of the payload.
func marshalTwice[T any](t *testing.T, compute func() (*models.Computed[T], error)) (first, second []byte) {
	t.Helper()
	runs := make([][]byte, 2)
	for i := range runs {
		computed, err := compute()
		require.NoError(t, err)
		runs[i], err = json.Marshal(computed.Payload)
		require.NoError(t, err)
	}
	return runs[0], runs[1]
}

func TestAggregators_DuckDB_SeededWindow(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := newInMemoryStore(t)

	require.NoError(t, store.AppendRequests(ctx, []models.RequestEvent{
		{Route: "GET /a", DurationMs: 120, RecordedAt: fixedNow.Add(-10 * time.Minute)},
		{Route: "GET /a", DurationMs: 200, RecordedAt: fixedNow.Add(-20 * time.Minute)},
		{Route: "GET /b", DurationMs: 150, RecordedAt: fixedNow.Add(-30 * time.Minute)},
		{Route: "GET /c", DurationMs: 50, RecordedAt: fixedNow.Add(-5 * time.Minute)},
	}))
	require.NoError(t, store.AppendCacheHits(ctx, []models.CacheHitEvent{
		{Key: "api:1", Hit: true, RecordedAt: fixedNow.Add(-time.Minute)},
		{Key: "api:2", Hit: false, RecordedAt: fixedNow.Add(-time.Minute)},
		{Key: "sess:1", Hit: true, RecordedAt: fixedNow.Add(-time.Minute)},
	}))
	slow, cacheUsage := newDuckDBAggregators(t, store)

	t.Run("slow routes", func(t *testing.T) {
		first, second := marshalTwice(t, func() (*models.Computed[[]models.SlowRouteSummary], error) {
			return slow.Aggregate(ctx, models.Period1Hour)
		})
		assert.JSONEq(t, `[
			{"uri": "GET /a", "action": "AController@index", "requestCount": 2, "slowestDuration": 200},
			{"uri": "GET /b", "action": null, "requestCount": 1, "slowestDuration": 150}
		]`, string(first))
		assert.Equal(t, first, second)
	})

	t.Run("all cache interactions", func(t *testing.T) {
		first, second := marshalTwice(t, func() (*models.Computed[models.CacheInteractionSummary], error) {
			return cacheUsage.All(ctx, models.Period1Hour)
		})
		assert.JSONEq(t, `{"count": 3, "hits": 2}`, string(first))
		assert.Equal(t, first, second)
	})

	t.Run("monitored cache interactions", func(t *testing.T) {
		first, second := marshalTwice(t, func() (*models.Computed[[]models.MonitoredCacheInteraction], error) {
			return cacheUsage.Monitored(ctx, models.Period1Hour)
		})
		assert.JSONEq(t, `[
			{"name": "api", "pattern": "^api:", "uniqueKeys": 2, "hits": 1, "count": 2},
			{"name": "sessions", "pattern": "^sess:", "uniqueKeys": 1, "hits": 1, "count": 1}
		]`, string(first))
		assert.Equal(t, first, second)
	})
}

func TestAggregators_DuckDB_EmptyWindow(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := newInMemoryStore(t)
	slow, cacheUsage := newDuckDBAggregators(t, store)

	routesComputed, err := slow.Aggregate(ctx, models.Period24Hours)
	require.NoError(t, err)
	routesJSON, err := json.Marshal(routesComputed.Payload)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(routesJSON))

	all, err := cacheUsage.All(ctx, models.Period24Hours)
	require.NoError(t, err)
	assert.Equal(t, models.CacheInteractionSummary{Count: 0, Hits: 0}, all.Payload)

	monitored, err := cacheUsage.Monitored(ctx, models.Period24Hours)
	require.NoError(t, err)
	assert.Equal(t, []models.MonitoredCacheInteraction{
		{Name: "api", Pattern: "^api:"},
		{Name: "sessions", Pattern: "^sess:"},
	}, monitored.Payload)
}
