package models

import "time"

// RequestEvent is one recorded HTTP request. Route is "METHOD PATH", e.g. "GET /users/{user}".
type RequestEvent struct {
	Route      string    `json:"route"`
	DurationMs int64     `json:"durationMs"`
	RecordedAt time.Time `json:"recordedAt"`
}

// CacheHitEvent is one recorded cache lookup.
type CacheHitEvent struct {
	Key        string    `json:"key"`
	Hit        bool      `json:"hit"`
	RecordedAt time.Time `json:"recordedAt"`
}
