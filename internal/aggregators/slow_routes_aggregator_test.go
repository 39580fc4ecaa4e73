package aggregators

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"pulse-reports/internal/models"
	routemocks "pulse-reports/internal/routes/mocks"
	"pulse-reports/internal/stores"
	storemocks "pulse-reports/internal/stores/mocks"
)

var fixedNow = time.Date(2025, 12, 28, 18, 3, 0, 0, time.UTC)

func newTestSlowRoutesAggregator(store stores.EventStore, resolver *routemocks.MockRouteResolver, threshold int64) *slowRoutesAggregator {
	a := NewSlowRoutesAggregator(store, resolver, SlowRoutesConfig{ThresholdMs: threshold}).(*slowRoutesAggregator)
	a.clock = func() time.Time { return fixedNow }
	return a
}

func slowRouteRow(route string, count, slowest int64) stores.Row {
	return stores.Row{
		Groups: map[string]string{stores.ColumnRoute: route},
		Values: map[string]int64{aliasCount: count, aliasSlowest: slowest},
	}
}

func ptr(s string) *string { return &s }

func TestSlowRoutesAggregator_Aggregate_GroupsAndSorts(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	ctx := context.Background()

	store := storemocks.NewMockEventStore(ctrl)
	resolver := routemocks.NewMockRouteResolver(ctrl)
	agg := newTestSlowRoutesAggregator(store, resolver, 100)

	expectedQuery := stores.Query{
		Table: stores.TableRequests,
		Where: stores.All(
			stores.Since(stores.ColumnRecordedAt, fixedNow.Add(-6*time.Hour)),
			stores.AtLeast(stores.ColumnDurationMs, 100),
		),
		GroupBy: []string{stores.ColumnRoute},
		Select:  []stores.Aggregation{stores.Count(aliasCount), stores.Max(stores.ColumnDurationMs, aliasSlowest)},
		OrderBy: []stores.Order{stores.Desc(aliasSlowest), stores.Asc(stores.ColumnRoute)},
	}
	// Storage order is deliberately not the report order.
	store.EXPECT().Query(ctx, expectedQuery).Return([]stores.Row{
		slowRouteRow("GET /b", 1, 150),
		slowRouteRow("GET /z", 3, 200),
		slowRouteRow("GET /a", 2, 200),
	}, nil)
	resolver.EXPECT().ResolveHandler("GET", "/a").Return("AController@index", true)
	resolver.EXPECT().ResolveHandler("GET", "/z").Return("", false)
	resolver.EXPECT().ResolveHandler("GET", "/b").Return("BController@index", true)

	computed, err := agg.Aggregate(ctx, models.Period6Hours)
	require.NoError(t, err)

	assert.Equal(t, []models.SlowRouteSummary{
		{URI: "GET /a", Action: ptr("AController@index"), RequestCount: 2, SlowestDuration: 200},
		{URI: "GET /z", Action: nil, RequestCount: 3, SlowestDuration: 200},
		{URI: "GET /b", Action: ptr("BController@index"), RequestCount: 1, SlowestDuration: 150},
	}, computed.Payload)
	assert.Equal(t, fixedNow, computed.ComputedAt)
	assert.GreaterOrEqual(t, computed.ComputeTimeMs, int64(0))
}

func TestSlowRoutesAggregator_Aggregate_Empty(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)

	store := storemocks.NewMockEventStore(ctrl)
	agg := newTestSlowRoutesAggregator(store, routemocks.NewMockRouteResolver(ctrl), 1000)

	store.EXPECT().Query(gomock.Any(), gomock.Any()).Return([]stores.Row{}, nil)

	computed, err := agg.Aggregate(context.Background(), models.Period1Hour)
	require.NoError(t, err)
	assert.NotNil(t, computed.Payload)
	assert.Empty(t, computed.Payload)
}

func TestSlowRoutesAggregator_Aggregate_RouteWithoutMethod(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)

	store := storemocks.NewMockEventStore(ctrl)
	agg := newTestSlowRoutesAggregator(store, routemocks.NewMockRouteResolver(ctrl), 0)

	store.EXPECT().Query(gomock.Any(), gomock.Any()).Return([]stores.Row{slowRouteRow("/healthz", 4, 3000)}, nil)

	computed, err := agg.Aggregate(context.Background(), models.Period24Hours)
	require.NoError(t, err)
	require.Len(t, computed.Payload, 1)
	assert.Nil(t, computed.Payload[0].Action)
	assert.Equal(t, "/healthz", computed.Payload[0].URI)
}

func TestSlowRoutesAggregator_Aggregate_StoreError(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)

	store := storemocks.NewMockEventStore(ctrl)
	agg := newTestSlowRoutesAggregator(store, routemocks.NewMockRouteResolver(ctrl), 1000)

	store.EXPECT().Query(gomock.Any(), gomock.Any()).
		Return(nil, fmt.Errorf("%w: connection refused", stores.ErrStoreUnavailable))

	computed, err := agg.Aggregate(context.Background(), models.Period7Days)
	assert.Nil(t, computed)
	assert.ErrorIs(t, err, stores.ErrStoreUnavailable)
}

func TestSlowRoutesAggregator_Aggregate_InvalidPeriod(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)

	agg := newTestSlowRoutesAggregator(storemocks.NewMockEventStore(ctrl), routemocks.NewMockRouteResolver(ctrl), 1000)

	_, err := agg.Aggregate(context.Background(), models.Period("2_hours"))
	assert.True(t, errors.Is(err, models.ErrInvalidPeriod))
}

func TestSlowRoutesAggregator_ThresholdMs(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)

	agg := NewSlowRoutesAggregator(storemocks.NewMockEventStore(ctrl), routemocks.NewMockRouteResolver(ctrl), SlowRoutesConfig{ThresholdMs: 750})
	assert.Equal(t, int64(750), agg.ThresholdMs())
}
