package reportcaches

import (
	"context"
	"time"
)

// Backend stores serialized report entries with an expiry.
// Implementations must be safe for concurrent use and must never expose a partially written value.
//
//go:generate mockgen -source=backend.go -destination=./mocks/backend_mock.go -package=mocks
type Backend interface {
	// Get returns the value stored under key, false when it is absent or expired.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set replaces the value stored under key. It expires after ttl.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}
