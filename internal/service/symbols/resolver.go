package symbols

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"FinAssist/internal/domain/models"
	"FinAssist/internal/domain/repository"
	"FinAssist/pkg/cache"
	applogger "FinAssist/pkg/logger"
)

const DefaultTTL = time.Hour

// Confidence assigned to each resolution path.
const (
	ConfidenceAlias       = 1.0
	ConfidenceExactName   = 0.95
	ConfidenceLocalCache  = 0.9
	ConfidenceRemoteCache = 0.85
	ConfidenceStartsWith  = 0.85
	ConfidenceContains    = 0.75
	ConfidenceFirstResult = 0.6
)

// Resolution layers reported to metrics.
const (
	layerAlias  = "alias"
	layerLocal  = "local"
	layerRemote = "remote"
	layerSearch = "search"
	layerMiss   = "miss"
)

type Option func(*Resolver)

// WithLocalCapacity bounds the in-process tier.
func WithLocalCapacity(capacity int) Option {
	return func(r *Resolver) { r.local = newLocalEntryCache(capacity) }
}

// WithDistributedStore enables the shared tier on top of store.
func WithDistributedStore(store cache.Store) Option {
	return func(r *Resolver) { r.store = store }
}

// WithTTL sets the freshness window for cached entries.
func WithTTL(ttl time.Duration) Option {
	return func(r *Resolver) {
		if ttl > 0 {
			r.ttl = ttl
		}
	}
}

// WithCoarseExpiry makes a single stale in-process entry flush the whole
// in-process tier instead of only that entry.
func WithCoarseExpiry(enabled bool) Option {
	return func(r *Resolver) { r.coarseExpiry = enabled }
}

func WithClock(now func() time.Time) Option {
	return func(r *Resolver) {
		if now != nil {
			r.now = now
		}
	}
}

func WithLogger(l *applogger.Logger) Option {
	return func(r *Resolver) { r.logger = applogger.OrNop(l) }
}

func WithMetrics(m repository.Metrics) Option {
	return func(r *Resolver) { r.metrics = repository.MetricsOrNop(m) }
}

// Resolver turns free-text entity mentions into ticker symbols. Lookups go
// alias table, in-process cache, distributed cache, then the search collaborator.
type Resolver struct {
	searcher     repository.SymbolSearcher
	local        *localEntryCache
	remote       EntryCache
	store        cache.Store
	ttl          time.Duration
	coarseExpiry bool
	now          func() time.Time
	logger       *applogger.Logger
	metrics      repository.Metrics
}

func NewResolver(searcher repository.SymbolSearcher, opts ...Option) *Resolver {
	r := &Resolver{
		searcher: searcher,
		ttl:      DefaultTTL,
		now:      time.Now,
		logger:   applogger.Nop(),
		metrics:  repository.NopMetrics{},
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.local == nil {
		r.local = newLocalEntryCache(cache.DefaultLRUCapacity)
	}
	if r.store != nil {
		r.remote = newRemoteEntryCache(r.store, r.ttl)
	} else {
		r.remote = noopEntryCache{}
	}
	return r
}

// Normalize lower-cases and trims an entity mention.
func Normalize(entity string) string {
	return strings.ToLower(strings.TrimSpace(entity))
}

// Resolve maps each entity to at most one symbol. Entities shorter than two
// characters after normalization are ignored and duplicates are resolved once.
// Lookup failures never surface as errors; the entity is simply omitted.
func (r *Resolver) Resolve(ctx context.Context, entities []string, user models.UserContext) []models.ResolvedSymbol {
	hits := r.resolveEach(ctx, entities, user)
	out := make([]models.ResolvedSymbol, 0, len(hits))
	for _, h := range hits {
		out = append(out, h.resolved)
	}
	return out
}

// entityHit pairs a resolved symbol with the entity it came from.
type entityHit struct {
	entity   string
	resolved models.ResolvedSymbol
}

func (r *Resolver) resolveEach(ctx context.Context, entities []string, user models.UserContext) []entityHit {
	seen := make(map[string]struct{}, len(entities))
	out := make([]entityHit, 0, len(entities))

	for _, raw := range entities {
		key := Normalize(raw)
		if utf8.RuneCountInString(key) < 2 {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		if res, ok := r.resolveOne(ctx, raw, key, user); ok {
			out = append(out, entityHit{entity: raw, resolved: res})
		}
	}
	return out
}

func (r *Resolver) resolveOne(ctx context.Context, raw, key string, user models.UserContext) (models.ResolvedSymbol, bool) {
	if alias, ok := lookupAlias(key); ok {
		r.metrics.RecordResolution(layerAlias)
		return models.ResolvedSymbol{
			Symbol:     alias.Symbol,
			Name:       alias.Name,
			DataSource: AliasDataSource,
			Confidence: ConfidenceAlias,
		}, true
	}

	now := r.now()

	if entry, ok := r.local.Get(ctx, key); ok {
		if r.fresh(entry, now) {
			r.metrics.RecordResolution(layerLocal)
			return fromEntry(entry, ConfidenceLocalCache), true
		}
		if r.coarseExpiry {
			_ = r.local.Clear(ctx)
		} else {
			_ = r.local.Delete(ctx, key)
		}
	}

	if entry, ok := r.remote.Get(ctx, key); ok && r.fresh(entry, now) {
		_ = r.local.Set(ctx, key, entry)
		r.metrics.RecordResolution(layerRemote)
		return fromEntry(entry, ConfidenceRemoteCache), true
	}

	if r.searcher == nil {
		r.metrics.RecordResolution(layerMiss)
		return models.ResolvedSymbol{}, false
	}

	start := time.Now()
	resp, err := r.search(ctx, models.SearchRequest{
		Query:          strings.TrimSpace(raw),
		User:           user,
		IncludeIndices: true,
	})
	r.metrics.RecordLatency("symbol_search", time.Since(start).Seconds())
	if err != nil {
		r.logger.Warn("Symbol search failed",
			applogger.String("entity", key),
			applogger.Error(err),
		)
		r.metrics.RecordError("symbol_search")
		r.metrics.RecordResolution(layerMiss)
		return models.ResolvedSymbol{}, false
	}

	item, confidence, ok := selectBestMatch(key, resp.Items)
	if !ok {
		r.logger.Debug("No symbol match", applogger.String("entity", key))
		r.metrics.RecordResolution(layerMiss)
		return models.ResolvedSymbol{}, false
	}

	entry := models.CacheEntry{
		Symbol:     item.Symbol,
		Name:       item.Name,
		DataSource: item.DataSource,
		ResolvedAt: now,
	}
	_ = r.local.Set(ctx, key, entry)
	if err := r.remote.Set(ctx, key, entry); err != nil {
		r.logger.Warn("Failed to write symbol to distributed cache",
			applogger.String("entity", key),
			applogger.Error(err),
		)
	}

	r.metrics.RecordResolution(layerSearch)
	return models.ResolvedSymbol{
		Symbol:     item.Symbol,
		Name:       item.Name,
		DataSource: item.DataSource,
		Confidence: confidence,
	}, true
}

func (r *Resolver) fresh(entry models.CacheEntry, now time.Time) bool {
	if entry.ResolvedAt.IsZero() {
		return false
	}
	return now.Sub(entry.ResolvedAt) < r.ttl
}

// NameForSymbol returns the alias display name for symbol, "" when unknown.
func (r *Resolver) NameForSymbol(symbol string) string {
	return NameForSymbol(symbol)
}

// LocalLen reports how many entries the in-process tier holds.
func (r *Resolver) LocalLen() int { return r.local.Len() }

func fromEntry(e models.CacheEntry, confidence float64) models.ResolvedSymbol {
	return models.ResolvedSymbol{
		Symbol:     e.Symbol,
		Name:       e.Name,
		DataSource: e.DataSource,
		Confidence: confidence,
		Cached:     true,
	}
}

// selectBestMatch picks the first item by decreasing strength: exact name,
// name prefix, name substring, then the first usable item.
func selectBestMatch(needle string, items []models.SearchItem) (models.SearchItem, float64, bool) {
	candidates := make([]models.SearchItem, 0, len(items))
	for _, it := range items {
		if strings.TrimSpace(it.Symbol) != "" {
			candidates = append(candidates, it)
		}
	}
	if len(candidates) == 0 {
		return models.SearchItem{}, 0, false
	}

	tiers := []struct {
		match      func(name string) bool
		confidence float64
	}{
		{func(name string) bool { return name == needle }, ConfidenceExactName},
		{func(name string) bool { return strings.HasPrefix(name, needle) }, ConfidenceStartsWith},
		{func(name string) bool { return strings.Contains(name, needle) }, ConfidenceContains},
	}
	for _, tier := range tiers {
		for _, it := range candidates {
			if tier.match(Normalize(it.Name)) {
				return it, tier.confidence, true
			}
		}
	}
	return candidates[0], ConfidenceFirstResult, true
}

var _ repository.NameLookup = (*Resolver)(nil)

// search calls the search collaborator, reporting a panic as an error.
func (r *Resolver) search(ctx context.Context, req models.SearchRequest) (resp models.SearchResponse, err error) {
	defer func() {
		if p := recover(); p != nil {
			resp, err = models.SearchResponse{}, fmt.Errorf("symbol search panic: %v", p)
		}
	}()
	return r.searcher.Search(ctx, req)
}
