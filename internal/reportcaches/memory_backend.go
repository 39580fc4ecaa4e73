package reportcaches

import (
	"context"
	"sync"
	"time"
)

type memoryItem struct {
	value     []byte
	expiresAt time.Time
}

type memoryBackend struct {
	mu    sync.RWMutex
	items map[string]memoryItem
	clock func() time.Time
}

// NewMemoryBackend keeps entries in process. Expired entries are dropped when next read.
func NewMemoryBackend() Backend {
	return &memoryBackend{
		items: make(map[string]memoryItem),
		clock: time.Now,
	}
}

func (b *memoryBackend) Get(_ context.Context, key string) ([]byte, bool, error) {
	b.mu.RLock()
	item, ok := b.items[key]
	b.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	if !b.clock().Before(item.expiresAt) {
		b.mu.Lock()
		// Only drop it if no writer replaced it meanwhile.
		if current, ok := b.items[key]; ok && current.expiresAt.Equal(item.expiresAt) {
			delete(b.items, key)
		}
		b.mu.Unlock()
		return nil, false, nil
	}
	return item.value, true, nil
}

func (b *memoryBackend) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	stored := make([]byte, len(value))
	copy(stored, value)

	b.mu.Lock()
	b.items[key] = memoryItem{value: stored, expiresAt: b.clock().Add(ttl)}
	b.mu.Unlock()
	return nil
}
