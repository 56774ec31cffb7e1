package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

var (
	ErrCacheMiss = errors.New("cache: key not found")
)

// Store is the string key/value contract shared by the in-memory and Redis backends.
// Payloads are opaque strings; callers encode JSON themselves.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// GetJSON reads key and decodes it into T. Any failure (miss, backend error,
// undecodable payload) is reported as ok=false.
func GetJSON[T any](ctx context.Context, s Store, key string) (T, bool) {
	var obj T
	if s == nil {
		return obj, false
	}

	raw, err := s.Get(ctx, key)
	if err != nil || raw == "" {
		return obj, false
	}

	if err := json.Unmarshal([]byte(raw), &obj); err != nil {
		var zero T
		return zero, false
	}
	return obj, true
}

// SetJSON encodes value as JSON and stores it under key.
func SetJSON(ctx context.Context, s Store, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return s.Set(ctx, key, string(data), ttl)
}
