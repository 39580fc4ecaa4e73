package models

import (
	"strings"
	"time"
)

// SlowRouteSummary aggregates the requests of one route that exceeded the slow threshold.
//
// Example JSON:
//
//	{
//	  "uri": "GET /users/{user}",
//	  "action": "UserController@show",
//	  "requestCount": 12,
//	  "slowestDuration": 2140
//	}
type SlowRouteSummary struct {
	URI             string  `json:"uri"`
	Action          *string `json:"action"`
	RequestCount    int64   `json:"requestCount"`
	SlowestDuration int64   `json:"slowestDuration"`
}

// Method returns the HTTP method part of URI, or "" when URI has no space.
func (s SlowRouteSummary) Method() string {
	method, _, ok := strings.Cut(s.URI, " ")
	if !ok {
		return ""
	}
	return method
}

// Path returns the path part of URI, or URI itself when it has no space.
func (s SlowRouteSummary) Path() string {
	_, path, ok := strings.Cut(s.URI, " ")
	if !ok {
		return s.URI
	}
	return path
}

type CacheInteractionSummary struct {
	Count int64 `json:"count"`
	Hits  int64 `json:"hits"`
}

// Misses is always Count - Hits.
func (s CacheInteractionSummary) Misses() int64 {
	return s.Count - s.Hits
}

// MonitoredKeyPattern buckets cache keys under a display name.
type MonitoredKeyPattern struct {
	Name    string `json:"name"`
	Pattern string `json:"pattern"`
}

type MonitoredCacheInteraction struct {
	Name       string `json:"name"`
	Pattern    string `json:"pattern"`
	UniqueKeys int64  `json:"uniqueKeys"`
	Hits       int64  `json:"hits"`
	Count      int64  `json:"count"`
}

// Computed is an aggregation result together with how long it took to produce.
// ComputeTimeMs is measured once at computation time and never refreshed on a cache hit.
type Computed[T any] struct {
	Payload       T         `json:"payload"`
	ComputeTimeMs int64     `json:"computeTimeMs"`
	ComputedAt    time.Time `json:"computedAt"`
}

// NewComputed wraps payload, truncating elapsed to whole milliseconds.
func NewComputed[T any](payload T, elapsed time.Duration, computedAt time.Time) *Computed[T] {
	return &Computed[T]{
		Payload:       payload,
		ComputeTimeMs: elapsed.Milliseconds(),
		ComputedAt:    computedAt,
	}
}
