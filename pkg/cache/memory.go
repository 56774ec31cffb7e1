package cache

import (
	"context"
	"time"
)

// MemoryItem stores a cached value with its expiry.
type MemoryItem struct {
	Value    string
	ExpireAt time.Time
}

// IsExpired checks if item has expired at now.
func (m MemoryItem) IsExpired(now time.Time) bool {
	return !m.ExpireAt.IsZero() && now.After(m.ExpireAt)
}

// MemoryCache implements Store in process memory. Entries are bounded by an
// LRU and expiry is evaluated lazily on read.
type MemoryCache struct {
	items      *LRU[string, MemoryItem]
	defaultTTL time.Duration
	now        func() time.Time
}

// NewMemoryCache creates an in-memory store.
func NewMemoryCache(opts ...MemoryOption) *MemoryCache {
	cfg := &MemoryConfig{
		MaxSize:    DefaultLRUCapacity,
		DefaultTTL: 7 * 24 * time.Hour,
		Clock:      time.Now,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	return &MemoryCache{
		items:      NewLRU[string, MemoryItem](cfg.MaxSize),
		defaultTTL: cfg.DefaultTTL,
		now:        cfg.Clock,
	}
}

func (mc *MemoryCache) Set(_ context.Context, key string, value string, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = mc.defaultTTL
	}
	mc.items.Set(key, MemoryItem{Value: value, ExpireAt: mc.now().Add(ttl)})
	return nil
}

func (mc *MemoryCache) Get(_ context.Context, key string) (string, error) {
	item, ok := mc.items.Get(key)
	if !ok {
		return "", ErrCacheMiss
	}
	if item.IsExpired(mc.now()) {
		mc.items.Remove(key)
		return "", ErrCacheMiss
	}
	return item.Value, nil
}

func (mc *MemoryCache) Delete(_ context.Context, keys ...string) error {
	for _, key := range keys {
		mc.items.Remove(key)
	}
	return nil
}

// Len reports the number of stored entries, expired ones included.
func (mc *MemoryCache) Len() int { return mc.items.Len() }

// Close is a no-op kept for symmetry with RedisCache.
func (mc *MemoryCache) Close() error { return nil }

var _ Store = (*MemoryCache)(nil)
