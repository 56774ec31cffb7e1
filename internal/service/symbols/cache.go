package symbols

import (
	"context"
	"time"

	"FinAssist/internal/domain/models"
	"FinAssist/pkg/cache"
)

// DistributedKeyPrefix namespaces resolver entries in the shared store.
const DistributedKeyPrefix = "symbol-resolution:"

// EntryCache is one tier of resolved-entity storage keyed by normalized entity.
type EntryCache interface {
	Get(ctx context.Context, key string) (models.CacheEntry, bool)
	Set(ctx context.Context, key string, entry models.CacheEntry) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}

// localEntryCache is the in-process tier: a bounded LRU of entries.
type localEntryCache struct {
	lru *cache.LRU[string, models.CacheEntry]
}

func newLocalEntryCache(capacity int) *localEntryCache {
	return &localEntryCache{lru: cache.NewLRU[string, models.CacheEntry](capacity)}
}

func (c *localEntryCache) Get(_ context.Context, key string) (models.CacheEntry, bool) {
	return c.lru.Get(key)
}

func (c *localEntryCache) Set(_ context.Context, key string, entry models.CacheEntry) error {
	c.lru.Set(key, entry)
	return nil
}

func (c *localEntryCache) Delete(_ context.Context, key string) error {
	c.lru.Remove(key)
	return nil
}

func (c *localEntryCache) Clear(_ context.Context) error {
	c.lru.Clear()
	return nil
}

func (c *localEntryCache) Len() int { return c.lru.Len() }

// remoteEntryCache is the shared tier. Entries are JSON encoded and expire
// through the store's own TTL.
type remoteEntryCache struct {
	store cache.Store
	ttl   time.Duration
}

func newRemoteEntryCache(store cache.Store, ttl time.Duration) *remoteEntryCache {
	return &remoteEntryCache{store: store, ttl: ttl}
}

func (c *remoteEntryCache) Get(ctx context.Context, key string) (models.CacheEntry, bool) {
	entry, ok := cache.GetJSON[models.CacheEntry](ctx, c.store, DistributedKeyPrefix+key)
	if !ok || entry.Symbol == "" {
		return models.CacheEntry{}, false
	}
	return entry, true
}

func (c *remoteEntryCache) Set(ctx context.Context, key string, entry models.CacheEntry) error {
	return cache.SetJSON(ctx, c.store, DistributedKeyPrefix+key, entry, c.ttl)
}

func (c *remoteEntryCache) Delete(ctx context.Context, key string) error {
	return c.store.Delete(ctx, DistributedKeyPrefix+key)
}

// Clear is a no-op: the shared store cannot be enumerated by prefix and other
// instances may still rely on its entries.
func (c *remoteEntryCache) Clear(context.Context) error { return nil }

// noopEntryCache is used when no distributed store is configured.
type noopEntryCache struct{}

func (noopEntryCache) Get(context.Context, string) (models.CacheEntry, bool) {
	return models.CacheEntry{}, false
}
func (noopEntryCache) Set(context.Context, string, models.CacheEntry) error { return nil }
func (noopEntryCache) Delete(context.Context, string) error                 { return nil }
func (noopEntryCache) Clear(context.Context) error                          { return nil }
