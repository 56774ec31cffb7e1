package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sashabaranov/go-openai"

	"FinAssist/internal/domain/models"
	"FinAssist/internal/domain/repository"
	applogger "FinAssist/pkg/logger"
)

const (
	samplingTemperature = 0.2

	DefaultRequestTimeout = 30 * time.Second
)

var ErrNoChoices = errors.New("no response from openai")

// OpenAIGenerator implements TextGenerator over an OpenAI compatible chat
// completions API.
type OpenAIGenerator struct {
	client       *openai.Client
	defaultModel string
	logger       *applogger.Logger
}

type GeneratorOption func(*generatorOptions)

type generatorOptions struct {
	requestTimeout time.Duration
}

// WithRequestTimeout bounds every completion request, including ones whose
// context is never cancelled. Non-positive values keep the default.
func WithRequestTimeout(d time.Duration) GeneratorOption {
	return func(o *generatorOptions) {
		if d > 0 {
			o.requestTimeout = d
		}
	}
}

// NewOpenAIGenerator builds a generator. baseURL may be empty to use the
// public API.
func NewOpenAIGenerator(apiKey, baseURL, model string, logger *applogger.Logger, opts ...GeneratorOption) *OpenAIGenerator {
	o := generatorOptions{requestTimeout: DefaultRequestTimeout}
	for _, opt := range opts {
		opt(&o)
	}

	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	cfg.HTTPClient = &http.Client{Timeout: o.requestTimeout}
	return &OpenAIGenerator{
		client:       openai.NewClientWithConfig(cfg),
		defaultModel: model,
		logger:       applogger.OrNop(logger),
	}
}

func (g *OpenAIGenerator) Generate(ctx context.Context, req models.GenerationRequest) (string, error) {
	model := req.Model
	if model == "" {
		model = g.defaultModel
	}

	messages := make([]openai.ChatCompletionMessage, 0, len(req.Messages))
	for _, m := range req.Messages {
		messages = append(messages, openai.ChatCompletionMessage{Role: toRole(m.Role), Content: m.Content})
	}

	start := time.Now()
	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       model,
		Temperature: samplingTemperature,
		Messages:    messages,
	})
	latency := time.Since(start)
	if err != nil {
		g.logger.Debug("Chat completion failed",
			applogger.String("model", model),
			applogger.Duration("latency", latency),
			applogger.Error(err),
		)
		return "", fmt.Errorf("openai api error: %w", err)
	}

	g.logger.Debug("Chat completion finished",
		applogger.String("model", model),
		applogger.Duration("latency", latency),
		applogger.Int("total_tokens", resp.Usage.TotalTokens),
	)

	if len(resp.Choices) == 0 {
		return "", ErrNoChoices
	}
	return resp.Choices[0].Message.Content, nil
}

func toRole(role string) string {
	switch role {
	case models.RoleSystem:
		return openai.ChatMessageRoleSystem
	case models.RoleAssistant:
		return openai.ChatMessageRoleAssistant
	default:
		return openai.ChatMessageRoleUser
	}
}

var _ repository.TextGenerator = (*OpenAIGenerator)(nil)
