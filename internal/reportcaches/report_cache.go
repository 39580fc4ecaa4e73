package reportcaches

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"

	"pulse-reports/internal/models"
	"pulse-reports/internal/shared/loggers"
)

// Entry is a cached report computation. Entries are replaced on recomputation, never mutated.
//
// Example JSON:
//
//	{
//	  "payload": {"count": 3, "hits": 2},
//	  "computeTimeMs": 12,
//	  "computedAt": "2025-12-28T18:03:00Z",
//	  "expiresAt": "2025-12-28T18:03:05Z"
//	}
type Entry[T any] struct {
	models.Computed[T]
	ExpiresAt time.Time `json:"expiresAt"`
}

// ReportCache memoizes report computations by fingerprint on top of a Backend.
type ReportCache struct {
	backend Backend
	group   singleflight.Group
	clock   func() time.Time
}

func NewReportCache(backend Backend) *ReportCache {
	return &ReportCache{backend: backend, clock: time.Now}
}

// Lookup tells how GetOrCompute served an entry.
type Lookup string

const (
	// LookupHit means an unexpired entry was already stored.
	LookupHit Lookup = "hit"
	// LookupMiss means this caller ran the computation.
	LookupMiss Lookup = "miss"
	// LookupShared means this caller waited on a computation started by another caller.
	LookupShared Lookup = "shared"
)

type flightResult struct {
	entry  any
	lookup Lookup
}

// GetOrCompute returns the unexpired entry stored under fingerprint, or runs compute and stores its result for ttl.
//
// Concurrent misses on the same fingerprint share a single compute call. The computation is detached from
// the cancellation of whichever caller started it, and every caller stops waiting when its own ctx is done.
// A compute error is returned as is and leaves the cache untouched. Backend failures are logged: a failed
// read counts as a miss and a failed write still returns the computed entry.
func GetOrCompute[T any](ctx context.Context, c *ReportCache, fingerprint string, ttl time.Duration, compute func(ctx context.Context) (*models.Computed[T], error)) (*Entry[T], Lookup, error) {
	if entry, ok := read[T](ctx, c, fingerprint); ok {
		metricLookupsTotal.WithLabelValues(string(LookupHit)).Inc()
		return entry, LookupHit, nil
	}

	// led is only written by the flight goroutine before it publishes the result.
	led := false
	results := c.group.DoChan(fingerprint, func() (v any, err error) {
		led = true
		defer func() {
			if r := recover(); r != nil {
				v, err = nil, fmt.Errorf("report computation panicked: %v", r)
			}
		}()

		flightCtx := context.WithoutCancel(ctx)
		// a computation may have finished between the read above and joining the group
		if entry, ok := read[T](flightCtx, c, fingerprint); ok {
			return flightResult{entry: entry, lookup: LookupHit}, nil
		}
		computed, err := compute(flightCtx)
		if err != nil {
			return nil, err
		}
		entry := &Entry[T]{
			Computed:  *computed,
			ExpiresAt: c.clock().Add(ttl).UTC(),
		}
		entry.ComputedAt = entry.ComputedAt.UTC()
		write(flightCtx, c, fingerprint, entry, ttl)
		return flightResult{entry: entry, lookup: LookupMiss}, nil
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		metricLookupsTotal.WithLabelValues(resultCanceled).Inc()
		return nil, "", ctx.Err()
	case res = <-results:
	}
	if res.Err != nil {
		metricLookupsTotal.WithLabelValues(string(LookupMiss)).Inc()
		return nil, "", res.Err
	}

	flight, ok := res.Val.(flightResult)
	if !ok {
		return nil, "", fmt.Errorf("fingerprint %s flight returned %T", fingerprint, res.Val)
	}
	entry, ok := flight.entry.(*Entry[T])
	if !ok {
		return nil, "", fmt.Errorf("fingerprint %s holds %T, not %T", fingerprint, flight.entry, entry)
	}

	lookup := flight.lookup
	if !led && lookup == LookupMiss {
		lookup = LookupShared
	}
	metricLookupsTotal.WithLabelValues(string(lookup)).Inc()
	return entry, lookup, nil
}

// Peek returns the unexpired entry stored under fingerprint without computing. false means never computed or expired.
func Peek[T any](ctx context.Context, c *ReportCache, fingerprint string) (*Entry[T], bool, error) {
	data, ok, err := c.backend.Get(ctx, fingerprint)
	if err != nil {
		metricBackendErrorsTotal.WithLabelValues(opGet).Inc()
		return nil, false, fmt.Errorf("failed to read report cache: %w", err)
	}
	if !ok {
		return nil, false, nil
	}
	entry, err := decode[T](data)
	if err != nil {
		return nil, false, err
	}
	if !c.clock().Before(entry.ExpiresAt) {
		return nil, false, nil
	}
	return entry, true, nil
}

func read[T any](ctx context.Context, c *ReportCache, fingerprint string) (*Entry[T], bool) {
	entry, ok, err := Peek[T](ctx, c, fingerprint)
	if err != nil {
		loggers.Ctx(ctx).Warn().Err(err).Str(loggers.FieldFingerprint, fingerprint).Msg("report cache read failed, recomputing")
		return nil, false
	}
	return entry, ok
}

func write[T any](ctx context.Context, c *ReportCache, fingerprint string, entry *Entry[T], ttl time.Duration) {
	data, err := json.Marshal(entry)
	if err != nil {
		metricBackendErrorsTotal.WithLabelValues(opEncode).Inc()
		loggers.Ctx(ctx).Error().Err(err).Str(loggers.FieldFingerprint, fingerprint).Msg("failed to encode report cache entry")
		return
	}
	if err := c.backend.Set(ctx, fingerprint, data, ttl); err != nil {
		metricBackendErrorsTotal.WithLabelValues(opSet).Inc()
		loggers.Ctx(ctx).Warn().Err(err).Str(loggers.FieldFingerprint, fingerprint).Msg("report cache write failed")
	}
}

func decode[T any](data []byte) (*Entry[T], error) {
	var entry Entry[T]
	if err := json.Unmarshal(data, &entry); err != nil {
		metricBackendErrorsTotal.WithLabelValues(opDecode).Inc()
		return nil, fmt.Errorf("failed to decode report cache entry: %w", err)
	}
	return &entry, nil
}
