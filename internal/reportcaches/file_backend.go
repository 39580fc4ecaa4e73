package reportcaches

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

var ErrInvalidRootDir = errors.New("invalid report cache root directory")

// fileEnvelope is the on-disk form of one cached value.
type fileEnvelope struct {
	Key       string          `json:"key"`
	ExpiresAt time.Time       `json:"expiresAt"`
	Value     json.RawMessage `json:"value"`
}

type fileBackend struct {
	dir   string
	clock func() time.Time
}

// NewFileBackend stores one JSON file per key under rootDir, so cached reports survive restarts
// and can be shared by processes on the same host.
func NewFileBackend(rootDir string) (Backend, error) {
	if rootDir == "" {
		return nil, fmt.Errorf("%w: root directory cannot be empty", ErrInvalidRootDir)
	}
	absRootDir, err := filepath.Abs(rootDir)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to resolve absolute path: %w", ErrInvalidRootDir, err)
	}
	if err := os.MkdirAll(absRootDir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRootDir, err)
	}
	return &fileBackend{dir: absRootDir, clock: time.Now}, nil
}

// path maps a key to a flat file name; keys carry ':' and '/' which are not portable in file names.
func (b *fileBackend) path(key string) string {
	return filepath.Join(b.dir, base64.RawURLEncoding.EncodeToString([]byte(key))+".json")
}

func (b *fileBackend) Get(_ context.Context, key string) ([]byte, bool, error) {
	data, err := os.ReadFile(b.path(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}

	var envelope fileEnvelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, false, fmt.Errorf("failed to decode %s: %w", key, err)
	}
	if envelope.Key != key || !b.clock().Before(envelope.ExpiresAt) {
		return nil, false, nil
	}
	return envelope.Value, true, nil
}

func (b *fileBackend) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	data, err := json.Marshal(fileEnvelope{
		Key:       key,
		ExpiresAt: b.clock().Add(ttl).UTC(),
		Value:     value,
	})
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}

	// Write to temp to avoid partial files
	tmp, err := os.CreateTemp(b.dir, ".tmp-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	defer func() { _ = tmp.Close(); _ = os.Remove(tmpPath) }()

	if _, err := tmp.Write(data); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	// Atomic replace (POSIX)
	return os.Rename(tmpPath, b.path(key))
}
