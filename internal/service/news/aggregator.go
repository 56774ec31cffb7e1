package news

import (
	"context"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"FinAssist/internal/domain/models"
	"FinAssist/internal/domain/repository"
	applogger "FinAssist/pkg/logger"
)

const (
	DefaultMaxSymbols = 2
	DefaultMaxItems   = 5
)

type Option func(*Aggregator)

// WithMaxSymbols caps how many distinct symbols are searched per call.
func WithMaxSymbols(n int) Option {
	return func(a *Aggregator) {
		if n > 0 {
			a.maxSymbols = n
		}
	}
}

func WithLogger(l *applogger.Logger) Option {
	return func(a *Aggregator) { a.logger = applogger.OrNop(l) }
}

func WithMetrics(m repository.Metrics) Option {
	return func(a *Aggregator) { a.metrics = repository.MetricsOrNop(m) }
}

// Aggregator fans out per-symbol news searches and renders a digest.
type Aggregator struct {
	searcher   repository.NewsSearcher
	names      repository.NameLookup
	maxSymbols int
	logger     *applogger.Logger
	metrics    repository.Metrics
}

func NewAggregator(searcher repository.NewsSearcher, names repository.NameLookup, opts ...Option) *Aggregator {
	a := &Aggregator{
		searcher:   searcher,
		names:      names,
		maxSymbols: DefaultMaxSymbols,
		logger:     applogger.Nop(),
		metrics:    repository.NopMetrics{},
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

type symbolNews struct {
	symbol string
	name   string
	items  []models.NewsItem
	ok     bool
}

// SearchWebNewsForSymbols searches news for the first few distinct symbols
// concurrently. The summary follows the order of the normalized input, not
// the order in which searches complete.
func (a *Aggregator) SearchWebNewsForSymbols(ctx context.Context, symbols []string, maxItemsPerSymbol int) models.NewsDigest {
	if maxItemsPerSymbol <= 0 {
		maxItemsPerSymbol = DefaultMaxItems
	}

	normalized := NormalizeSymbols(symbols, a.maxSymbols)
	digest := models.NewsDigest{
		SearchResultsBySymbol: make(map[string][]models.NewsItem),
		SymbolsSearched:       normalized,
	}
	if len(normalized) == 0 {
		digest.Success = true
		return digest
	}

	results := make([]symbolNews, len(normalized))
	start := time.Now()

	var g errgroup.Group
	for i, sym := range normalized {
		i, sym := i, sym
		name := a.nameFor(sym)
		g.Go(func() error {
			res := a.search(ctx, sym, name)
			results[i] = symbolNews{
				symbol: sym,
				name:   name,
				items:  res.Results,
				ok:     res.Success && len(res.Results) > 0,
			}
			return nil
		})
	}
	_ = g.Wait()
	a.metrics.RecordLatency("news_search", time.Since(start).Seconds())

	blocks := make([]string, 0, len(results))
	for _, r := range results {
		a.metrics.RecordNewsSearch(r.ok)
		if !r.ok {
			a.logger.Debug("No news for symbol", applogger.String("symbol", r.symbol))
			continue
		}
		items := r.items
		if len(items) > maxItemsPerSymbol {
			items = items[:maxItemsPerSymbol]
		}
		digest.SearchResultsBySymbol[r.symbol] = items
		blocks = append(blocks, formatBlock(r.symbol, r.name, items))
	}

	digest.Success = len(blocks) > 0
	digest.FormattedSummary = strings.Join(blocks, "\n\n")
	return digest
}

// search calls the news collaborator, turning a panic into an unsuccessful
// result for that symbol.
func (a *Aggregator) search(ctx context.Context, symbol, name string) (res models.NewsSearchResult) {
	defer func() {
		if r := recover(); r != nil {
			a.logger.Error("News search panicked",
				applogger.String("symbol", symbol),
				applogger.Any("panic", r),
			)
			a.metrics.RecordError("news_search_panic")
			res = models.NewsSearchResult{Results: []models.NewsItem{}}
		}
	}()
	return a.searcher.SearchStockNews(ctx, symbol, name)
}

func (a *Aggregator) nameFor(symbol string) string {
	if a.names == nil {
		return ""
	}
	return strings.TrimSpace(a.names.NameForSymbol(symbol))
}

// NormalizeSymbols trims, upper-cases and de-duplicates symbols, keeping at
// most limit entries in first-seen order. limit <= 0 means no cap.
func NormalizeSymbols(symbols []string, limit int) []string {
	seen := make(map[string]struct{}, len(symbols))
	out := make([]string, 0, len(symbols))
	for _, s := range symbols {
		s = strings.ToUpper(strings.TrimSpace(s))
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}
