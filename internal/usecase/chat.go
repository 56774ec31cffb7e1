package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"FinAssist/internal/domain/models"
	"FinAssist/internal/domain/repository"
	"FinAssist/internal/service/answer"
	"FinAssist/internal/service/preferences"
	applogger "FinAssist/pkg/logger"
)

// PreferenceStore persists the per-user preference record.
type PreferenceStore interface {
	GetUserPreferences(ctx context.Context, userID string) models.UserPreferences
	SaveUserPreferences(ctx context.Context, userID string, prefs models.UserPreferences) error
}

// SymbolExtractor finds ticker symbols mentioned in free text.
type SymbolExtractor interface {
	ExtractSymbolsFromQuery(ctx context.Context, query string, user models.UserContext) []string
}

// NewsDigester builds a per-symbol news digest.
type NewsDigester interface {
	SearchWebNewsForSymbols(ctx context.Context, symbols []string, maxItemsPerSymbol int) models.NewsDigest
}

// Answerer produces the final answer text.
type Answerer interface {
	Answer(ctx context.Context, in answer.Input) answer.Result
}

type ChatOption func(*ChatUseCase)

func WithNewsItems(n int) ChatOption {
	return func(u *ChatUseCase) {
		if n > 0 {
			u.newsItems = n
		}
	}
}

func WithChatClock(now func() time.Time) ChatOption {
	return func(u *ChatUseCase) {
		if now != nil {
			u.now = now
		}
	}
}

func WithChatLogger(l *applogger.Logger) ChatOption {
	return func(u *ChatUseCase) { u.logger = applogger.OrNop(l) }
}

func WithChatMetrics(m repository.Metrics) ChatOption {
	return func(u *ChatUseCase) { u.metrics = repository.MetricsOrNop(m) }
}

// ChatUseCase answers one user turn. Preference mutations and recall questions
// short-circuit the pipeline; news questions without a supplied narrative get
// one from the news digester first.
type ChatUseCase struct {
	prefs     PreferenceStore
	symbols   SymbolExtractor
	news      NewsDigester
	pipeline  Answerer
	newsItems int
	now       func() time.Time
	logger    *applogger.Logger
	metrics   repository.Metrics
}

func NewChatUseCase(prefs PreferenceStore, symbols SymbolExtractor, news NewsDigester, pipeline Answerer, opts ...ChatOption) *ChatUseCase {
	u := &ChatUseCase{
		prefs:     prefs,
		symbols:   symbols,
		news:      news,
		pipeline:  pipeline,
		newsItems: 5,
		now:       time.Now,
		logger:    applogger.Nop(),
		metrics:   repository.NopMetrics{},
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// Chat handles req. The only error is a failed preference write.
func (u *ChatUseCase) Chat(ctx context.Context, req models.ChatRequest) (models.ChatResponse, error) {
	current := u.prefs.GetUserPreferences(ctx, req.UserID)

	update := preferences.ResolvePreferenceUpdateAt(req.Query, current, u.now())
	if update.ShouldPersist {
		if err := u.prefs.SaveUserPreferences(ctx, req.UserID, update.UserPreferences); err != nil {
			u.metrics.RecordError("preferences_save")
			return models.ChatResponse{}, fmt.Errorf("chat: %w", err)
		}
		u.logger.Info("Preferences updated",
			applogger.String("user_id", req.UserID),
			applogger.String("response_style", string(update.UserPreferences.ResponseStyle)),
		)
	}
	if update.Acknowledgement != "" {
		u.metrics.RecordAnswer("preferences", "acknowledged")
		return models.ChatResponse{
			Answer:            update.Acknowledgement,
			Preferences:       update.UserPreferences,
			PreferenceUpdated: update.ShouldPersist,
		}, nil
	}

	prefs := update.UserPreferences
	if preferences.IsPreferenceRecallQuery(req.Query) {
		u.metrics.RecordAnswer("preferences", "recalled")
		return models.ChatResponse{
			Answer:      preferences.CreatePreferenceSummaryResponse(prefs),
			Preferences: prefs,
		}, nil
	}

	structured := req.Context
	var symbols []string
	if u.wantsNews(req.Query, structured) {
		symbols = u.symbols.ExtractSymbolsFromQuery(ctx, req.Query, models.UserContext{UserID: req.UserID})
		if len(symbols) > 0 {
			digest := u.news.SearchWebNewsForSymbols(ctx, symbols, u.newsItems)
			if digest.FormattedSummary != "" {
				structured.FinancialNews = digest.FormattedSummary
			}
			u.logger.Debug("News context attached",
				applogger.Strings("symbols", digest.SymbolsSearched),
				applogger.Bool("has_summary", digest.FormattedSummary != ""),
			)
		}
	}

	res := u.pipeline.Answer(ctx, answer.Input{
		Query:       req.Query,
		Context:     structured,
		Memory:      req.Memory,
		Preferences: prefs,
	})

	return models.ChatResponse{
		Answer:      res.Text,
		Preferences: prefs,
		Symbols:     symbols,
	}, nil
}

func (u *ChatUseCase) wantsNews(query string, structured models.StructuredContext) bool {
	if u.symbols == nil || u.news == nil {
		return false
	}
	if strings.TrimSpace(structured.FinancialNews) != "" {
		return false
	}
	return answer.DetectIntents(query).News
}
