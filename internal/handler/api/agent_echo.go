package api

import (
	"context"
	"net/http"
	"time"

	"FinAssist/internal/domain/models"
	"FinAssist/internal/service/preferences"
	xhttp "FinAssist/pkg/http"
	applogger "FinAssist/pkg/logger"
	"FinAssist/pkg/util"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type ChatService interface {
	Chat(ctx context.Context, req models.ChatRequest) (models.ChatResponse, error)
}

type SymbolService interface {
	ResolveQuery(ctx context.Context, query string, user models.UserContext) models.ResolveResponse
}

type NewsService interface {
	SearchWebNewsForSymbols(ctx context.Context, symbols []string, maxItemsPerSymbol int) models.NewsDigest
}

type PreferenceReader interface {
	GetUserPreferences(ctx context.Context, userID string) models.UserPreferences
}

// Limiter admits or rejects one request for key.
type Limiter interface {
	Allow(key string) bool
}

// AgentEchoHandler exposes the assistant over HTTP.
type AgentEchoHandler struct {
	logger  *applogger.Logger
	chat    ChatService
	symbols SymbolService
	news    NewsService
	prefs   PreferenceReader
	limiter Limiter
}

func NewAgentEchoHandler(logger *applogger.Logger, chat ChatService, syms SymbolService, news NewsService, prefs PreferenceReader, limiter Limiter) *AgentEchoHandler {
	return &AgentEchoHandler{
		logger:  applogger.OrNop(logger),
		chat:    chat,
		symbols: syms,
		news:    news,
		prefs:   prefs,
		limiter: limiter,
	}
}

func (h *AgentEchoHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", h.Health)

	g := e.Group("/api/v1")
	g.POST("/agent/chat", h.Chat)
	g.GET("/symbols/resolve", h.ResolveSymbols)
	g.GET("/news", h.News)
	g.GET("/preferences/:userId", h.Preferences)
}

func (h *AgentEchoHandler) Health(c echo.Context) error {
	return xhttp.SuccessResponse(c, map[string]string{"status": "ok"})
}

func (h *AgentEchoHandler) Chat(c echo.Context) error {
	start := time.Now()
	requestID := c.Request().Header.Get(echo.HeaderXRequestID)
	if requestID == "" {
		requestID = uuid.NewString()
	}
	c.Response().Header().Set(echo.HeaderXRequestID, requestID)

	req := &models.ChatRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if h.limiter != nil && !h.limiter.Allow(req.UserID) {
		h.logger.Warn("agent.chat rate_limited",
			applogger.String("request_id", requestID),
			applogger.String("user_id", req.UserID),
		)
		return xhttp.AppErrorResponse(c, xhttp.TooManyRequestsError("too many chat requests, please retry shortly"))
	}

	res, err := h.chat.Chat(c.Request().Context(), *req)
	if err != nil {
		h.logger.Error("agent.chat usecase error",
			applogger.String("request_id", requestID),
			applogger.Error(err),
		)
		return xhttp.AppErrorResponse(c, xhttp.InternalError("could not process chat request").WithError(err))
	}

	h.logger.Info("agent.chat answered",
		applogger.String("request_id", requestID),
		applogger.String("user_id", req.UserID),
		applogger.Bool("preference_updated", res.PreferenceUpdated),
		applogger.Duration("elapsed", time.Since(start)),
	)
	return xhttp.SuccessResponse(c, res)
}

func (h *AgentEchoHandler) ResolveSymbols(c echo.Context) error {
	req := &models.ResolveRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res := h.symbols.ResolveQuery(c.Request().Context(), req.Query, models.UserContext{UserID: req.UserID})
	if res.Entities == nil {
		res.Entities = []string{}
	}
	if res.Symbols == nil {
		res.Symbols = []string{}
	}
	if res.Resolved == nil {
		res.Resolved = []models.ResolvedSymbol{}
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *AgentEchoHandler) News(c echo.Context) error {
	req := &models.NewsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	syms := util.SplitCSV(req.Symbols)
	if len(syms) == 0 {
		return xhttp.AppErrorResponse(c, xhttp.NewAppError("ERR_REQUIRED", "Symbols", "Symbols must name at least one ticker", http.StatusBadRequest))
	}

	digest := h.news.SearchWebNewsForSymbols(c.Request().Context(), syms, req.Limit)
	return xhttp.SuccessResponse(c, digest)
}

func (h *AgentEchoHandler) Preferences(c echo.Context) error {
	req := &models.PreferencesRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	prefs := h.prefs.GetUserPreferences(c.Request().Context(), req.UserID)
	return xhttp.SuccessResponse(c, models.PreferencesResponse{
		Preferences: prefs,
		Summary:     preferences.CreatePreferenceSummaryResponse(prefs),
	})
}
