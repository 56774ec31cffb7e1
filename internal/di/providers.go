package di

import (
	"fmt"
	"time"

	"FinAssist/internal/domain/repository"
	"FinAssist/internal/handler/api"
	"FinAssist/internal/service/answer"
	"FinAssist/internal/service/llm"
	"FinAssist/internal/service/news"
	"FinAssist/internal/service/preferences"
	"FinAssist/internal/service/ratelimit"
	"FinAssist/internal/service/search"
	"FinAssist/internal/service/symbols"
	"FinAssist/internal/service/yahoo"
	"FinAssist/internal/usecase"
	"FinAssist/pkg/cache"
	"FinAssist/pkg/config"
	xhttp "FinAssist/pkg/http"
	applogger "FinAssist/pkg/logger"
	"FinAssist/pkg/metrics"
	"FinAssist/pkg/server"
)

const symbolSearchTimeout = 5 * time.Second

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	l, err := applogger.New(&applogger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l, nil
}

// ProvideMetrics creates a Prometheus metrics recorder on the default registry.
func ProvideMetrics() repository.Metrics {
	return metrics.New(nil)
}

// ProvideCacheStore returns Redis when enabled, otherwise a process-local store.
func ProvideCacheStore(cfg *config.Config, l *applogger.Logger) (cache.Store, func(), error) {
	if !cfg.Redis.Enabled {
		l.Info("redis disabled, using in-memory store")
		return cache.NewMemoryCache(), func() {}, nil
	}

	rc, err := cache.NewRedisCache(
		cache.WithRedisHost(cfg.Redis.Host),
		cache.WithRedisPort(cfg.Redis.Port),
		cache.WithRedisPassword(cfg.Redis.Password),
		cache.WithRedisDB(cfg.Redis.DB),
		cache.WithRedisPrefix(cfg.Redis.Prefix),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("redis cache: %w", err)
	}
	l.Info("redis connected", applogger.String("host", cfg.Redis.Host), applogger.Int("port", cfg.Redis.Port))

	cleanup := func() {
		if err := rc.Close(); err != nil {
			l.Warn("redis close error", applogger.Error(err))
		}
	}
	return rc, cleanup, nil
}

// ProvideSymbolSearcher chains the remote Yahoo search with a local bleve
// index seeded from the alias table and the optional listings file.
func ProvideSymbolSearcher(cfg *config.Config, l *applogger.Logger) (repository.SymbolSearcher, func(), error) {
	listings := search.ListingsFromNames(symbols.KnownInstruments())
	if cfg.Symbols.ListingsFile != "" {
		extra, err := search.LoadListings(cfg.Symbols.ListingsFile)
		if err != nil {
			return nil, nil, fmt.Errorf("symbol listings: %w", err)
		}
		listings = append(listings, extra...)
	}

	index, err := search.NewIndexSearcher(listings)
	if err != nil {
		return nil, nil, fmt.Errorf("symbol index: %w", err)
	}
	count, _ := index.Count()
	l.Info("symbol index ready", applogger.Int64("documents", int64(count)))

	remote := yahoo.NewSymbolSearcher(cfg.Symbols.SearchBaseURL, symbolSearchTimeout)
	cleanup := func() {
		if err := index.Close(); err != nil {
			l.Warn("symbol index close error", applogger.Error(err))
		}
	}
	return search.NewChain(l, remote, index), cleanup, nil
}

// ProvideResolver creates the symbol resolution service.
func ProvideResolver(cfg *config.Config, searcher repository.SymbolSearcher, store cache.Store, l *applogger.Logger, m repository.Metrics) *symbols.Resolver {
	return symbols.NewResolver(searcher,
		symbols.WithLocalCapacity(cfg.Symbols.CacheSize),
		symbols.WithDistributedStore(store),
		symbols.WithTTL(cfg.Symbols.CacheTTL),
		symbols.WithCoarseExpiry(cfg.Symbols.CoarseExpiry),
		symbols.WithLogger(l),
		symbols.WithMetrics(m),
	)
}

// ProvideNewsSearcher creates the per-symbol news collaborator.
func ProvideNewsSearcher(cfg *config.Config, l *applogger.Logger) repository.NewsSearcher {
	return yahoo.NewNewsSearcher(cfg.News.BaseURL, cfg.News.Timeout, l)
}

// ProvideNewsAggregator creates the news aggregation helper.
func ProvideNewsAggregator(cfg *config.Config, searcher repository.NewsSearcher, resolver *symbols.Resolver, l *applogger.Logger, m repository.Metrics) *news.Aggregator {
	return news.NewAggregator(searcher, resolver,
		news.WithMaxSymbols(cfg.News.MaxSymbols),
		news.WithLogger(l),
		news.WithMetrics(m),
	)
}

// ProvideTextGenerator returns nil when no API key is configured; the pipeline
// then always answers from the fallback composer.
func ProvideTextGenerator(cfg *config.Config, l *applogger.Logger) repository.TextGenerator {
	if cfg.LLM.APIKey == "" {
		l.Warn("llm api key not set, answers will use the fallback composer")
		return nil
	}
	return llm.NewOpenAIGenerator(cfg.LLM.APIKey, cfg.LLM.BaseURL, cfg.LLM.Model, l,
		llm.WithRequestTimeout(cfg.LLM.RequestTimeout),
	)
}

// ProvidePipeline creates the answer synthesis pipeline.
func ProvidePipeline(cfg *config.Config, gen repository.TextGenerator, l *applogger.Logger, m repository.Metrics) *answer.Pipeline {
	return answer.NewPipeline(gen,
		answer.WithModel(cfg.LLM.Model),
		answer.WithCallLimit(cfg.LLM.RequestTimeout),
		answer.WithLogger(l),
		answer.WithMetrics(m),
	)
}

// ProvidePreferenceStore creates the persisted preference store.
func ProvidePreferenceStore(store cache.Store, l *applogger.Logger) *preferences.Store {
	return preferences.NewStore(store, preferences.WithLogger(l))
}

// ProvideChatUseCase creates the chat use case.
func ProvideChatUseCase(
	cfg *config.Config,
	prefs *preferences.Store,
	resolver *symbols.Resolver,
	agg *news.Aggregator,
	pipeline *answer.Pipeline,
	l *applogger.Logger,
	m repository.Metrics,
) *usecase.ChatUseCase {
	return usecase.NewChatUseCase(prefs, resolver, agg, pipeline,
		usecase.WithNewsItems(cfg.News.MaxItems),
		usecase.WithChatLogger(l),
		usecase.WithChatMetrics(m),
	)
}

// ProvideLimiter creates the per-user chat rate limiter.
func ProvideLimiter(cfg *config.Config) *ratelimit.Limiter {
	return ratelimit.New(cfg.Chat.RateCapacity, cfg.Chat.RateRefillSec)
}

// ProvideAgentHandler creates the HTTP handler.
func ProvideAgentHandler(
	l *applogger.Logger,
	chat *usecase.ChatUseCase,
	resolver *symbols.Resolver,
	agg *news.Aggregator,
	prefs *preferences.Store,
	limiter *ratelimit.Limiter,
) *api.AgentEchoHandler {
	return api.NewAgentEchoHandler(l, chat, resolver, agg, prefs, limiter)
}

// ProvideHTTPServer creates the echo server.
func ProvideHTTPServer(cfg *config.Config, h *api.AgentEchoHandler, l *applogger.Logger) *xhttp.Server {
	return xhttp.NewServer(h,
		xhttp.WithPort(cfg.Server.Port),
		xhttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout),
		xhttp.WithCORSOrigins(cfg.Server.CORSOrigins...),
		xhttp.WithLogger(l),
	)
}

// ProvideApp creates the application server.
func ProvideApp(cfg *config.Config, l *applogger.Logger, srv *xhttp.Server) *server.App {
	return server.New(cfg, l, srv)
}
