package reports

import (
	"context"
	"time"

	"pulse-reports/internal/aggregators"
	"pulse-reports/internal/models"
	"pulse-reports/internal/reportcaches"
	"pulse-reports/internal/shared/loggers"
	"pulse-reports/internal/shared/metrics"
)

//go:generate mockgen -source=report_service.go -destination=./mocks/report_service_mock.go -package=mocks
type ReportService interface {
	// SlowRoutes returns the slow routes of the period window, computing them when the cached copy is missing or stale.
	SlowRoutes(ctx context.Context, period models.Period) (*models.SlowRoutesReport, error)
	// CachedSlowRoutes never computes. A cold or stale cache yields a report with nil SlowRoutes and ComputedAt.
	CachedSlowRoutes(ctx context.Context, period models.Period) (*models.SlowRoutesReport, error)
	// CacheInteractions returns the overall and the per-pattern cache interactions of the period window.
	CacheInteractions(ctx context.Context, period models.Period) (*models.CacheReport, error)
}

// Config holds the report service settings.
type Config struct {
	// KeyPrefix namespaces fingerprints in a shared cache backend.
	KeyPrefix string
}

type reportService struct {
	cfg          Config
	cache        *reportcaches.ReportCache
	slowRoutes   aggregators.SlowRoutesAggregator
	cacheUsage   aggregators.CacheInteractionsAggregator
	patternsHash string
}

func NewReportService(
	cfg Config,
	cache *reportcaches.ReportCache,
	slowRoutes aggregators.SlowRoutesAggregator,
	cacheUsage aggregators.CacheInteractionsAggregator,
) (ReportService, error) {
	patternsHash, err := hashPatterns(cacheUsage.Patterns())
	if err != nil {
		return nil, err
	}
	return &reportService{
		cfg:          cfg,
		cache:        cache,
		slowRoutes:   slowRoutes,
		cacheUsage:   cacheUsage,
		patternsHash: patternsHash,
	}, nil
}

func (s *reportService) SlowRoutes(ctx context.Context, period models.Period) (report *models.SlowRoutesReport, err error) {
	defer func() { countRequest(reportSlowRoutes, err) }()
	if err := period.Validate(); err != nil {
		return nil, errInvalidPeriod(err)
	}

	fingerprint := slowRoutesFingerprint(s.cfg.KeyPrefix, period, s.slowRoutes.ThresholdMs())
	entry, err := getOrCompute(ctx, s.cache, reportSlowRoutes, fingerprint, period, func(ctx context.Context) (*models.Computed[[]models.SlowRouteSummary], error) {
		return s.slowRoutes.Aggregate(ctx, period)
	})
	if err != nil {
		return nil, err
	}

	computedAt := entry.ComputedAt
	return &models.SlowRoutesReport{
		Period:        period,
		SlowRoutes:    entry.Payload,
		ComputeTimeMs: entry.ComputeTimeMs,
		ComputedAt:    &computedAt,
	}, nil
}

func (s *reportService) CachedSlowRoutes(ctx context.Context, period models.Period) (report *models.SlowRoutesReport, err error) {
	defer func() { countRequest(reportCachedSlowRoutes, err) }()
	if err := period.Validate(); err != nil {
		return nil, errInvalidPeriod(err)
	}

	fingerprint := slowRoutesFingerprint(s.cfg.KeyPrefix, period, s.slowRoutes.ThresholdMs())
	entry, ok, err := reportcaches.Peek[[]models.SlowRouteSummary](ctx, s.cache, fingerprint)
	if err != nil {
		return nil, errInternalReportFailed(err)
	}
	report = &models.SlowRoutesReport{Period: period}
	if !ok {
		return report, nil
	}

	computedAt := entry.ComputedAt
	report.SlowRoutes = entry.Payload
	report.ComputeTimeMs = entry.ComputeTimeMs
	report.ComputedAt = &computedAt
	return report, nil
}

func (s *reportService) CacheInteractions(ctx context.Context, period models.Period) (report *models.CacheReport, err error) {
	defer func() { countRequest(reportCacheInteractions, err) }()
	if err := period.Validate(); err != nil {
		return nil, errInvalidPeriod(err)
	}

	all, err := getOrCompute(ctx, s.cache, reportCacheAll, cacheAllFingerprint(s.cfg.KeyPrefix, period), period, func(ctx context.Context) (*models.Computed[models.CacheInteractionSummary], error) {
		return s.cacheUsage.All(ctx, period)
	})
	if err != nil {
		return nil, err
	}

	monitoredFingerprint := cacheMonitoredFingerprint(s.cfg.KeyPrefix, period, s.patternsHash)
	monitored, err := getOrCompute(ctx, s.cache, reportCacheMonitored, monitoredFingerprint, period, func(ctx context.Context) (*models.Computed[[]models.MonitoredCacheInteraction], error) {
		return s.cacheUsage.Monitored(ctx, period)
	})
	if err != nil {
		return nil, err
	}

	allSummary := all.Payload
	allAt, monitoredAt := all.ComputedAt, monitored.ComputedAt
	return &models.CacheReport{
		Period:                 period,
		All:                    &allSummary,
		AllComputeTimeMs:       all.ComputeTimeMs,
		AllComputedAt:          &allAt,
		Monitored:              monitored.Payload,
		MonitoredComputeTimeMs: monitored.ComputeTimeMs,
		MonitoredComputedAt:    &monitoredAt,
	}, nil
}

// getOrCompute runs a cached report computation with the period TTL and maps its failure to a ServiceError.
func getOrCompute[T any](
	ctx context.Context,
	cache *reportcaches.ReportCache,
	report, fingerprint string,
	period models.Period,
	compute func(ctx context.Context) (*models.Computed[T], error),
) (*reportcaches.Entry[T], error) {
	entry, lookup, err := reportcaches.GetOrCompute(ctx, cache, fingerprint, period.CacheTTL(), func(ctx context.Context) (*models.Computed[T], error) {
		computed, err := compute(ctx)
		if err != nil {
			metricComputationsTotal.WithLabelValues(report, toServiceError(err).Code).Inc()
			return nil, err
		}
		metricComputationsTotal.WithLabelValues(report, metrics.ValueNoError).Inc()
		metricComputationDurationSeconds.WithLabelValues(report).Observe((time.Duration(computed.ComputeTimeMs) * time.Millisecond).Seconds())
		return computed, nil
	})
	if err != nil {
		svcErr := toServiceError(err)
		loggers.Ctx(ctx).Error().Err(err).
			Str(loggers.FieldReport, report).
			Str(loggers.FieldPeriod, string(period)).
			Str(loggers.FieldErrorCode, svcErr.Code).
			Msg("report computation failed")
		return nil, svcErr
	}

	loggers.Ctx(ctx).Debug().
		Str(loggers.FieldReport, report).
		Str(loggers.FieldPeriod, string(period)).
		Str(loggers.FieldFingerprint, fingerprint).
		Str(loggers.FieldCacheResult, string(lookup)).
		Int64(loggers.FieldComputeMs, entry.ComputeTimeMs).
		Msg("report served")
	return entry, nil
}

func countRequest(report string, err error) {
	code := metrics.ValueNoError
	if err != nil {
		code = toServiceError(err).Code
	}
	metricReportRequestsTotal.WithLabelValues(report, code).Inc()
}
