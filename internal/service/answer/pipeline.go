package answer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"FinAssist/internal/domain/models"
	"FinAssist/internal/domain/repository"
	applogger "FinAssist/pkg/logger"
	"FinAssist/pkg/util"
)

const (
	// TimeoutEnv names the variable holding the generation budget in milliseconds.
	TimeoutEnv     = "AGENT_LLM_TIMEOUT_MS"
	DefaultTimeout = 1500 * time.Millisecond

	// DefaultCallLimit caps an abandoned generation call.
	DefaultCallLimit = 30 * time.Second

	conciseMaxLines = 2
)

// Outcome is the branch a BuildAnswer call took. It is used for logs and
// metrics only; callers cannot tell fallback outcomes apart from the text.
type Outcome string

const (
	OutcomeGenerated Outcome = "generated"
	OutcomeTimeout   Outcome = "timeout"
	OutcomeFailed    Outcome = "failed"
	OutcomeRejected  Outcome = "rejected"
)

var errNoGenerator = errors.New("no text generator configured")

// Input is everything one answer is built from.
type Input struct {
	Query       string
	Context     models.StructuredContext
	Memory      []models.MemoryTurn
	Preferences models.UserPreferences
}

type Result struct {
	Text    string
	Outcome Outcome
}

type Option func(*Pipeline)

func WithModel(model string) Option {
	return func(p *Pipeline) { p.model = model }
}

// WithTimeoutSource overrides how the generation budget is obtained. The
// source is consulted once per call.
func WithTimeoutSource(src func() time.Duration) Option {
	return func(p *Pipeline) {
		if src != nil {
			p.timeout = src
		}
	}
}

// WithCallLimit bounds how long a generation call may keep running after the
// answer budget has expired. Non-positive values keep DefaultCallLimit.
func WithCallLimit(d time.Duration) Option {
	return func(p *Pipeline) {
		if d > 0 {
			p.callLimit = d
		}
	}
}

func WithLogger(l *applogger.Logger) Option {
	return func(p *Pipeline) { p.logger = applogger.OrNop(l) }
}

func WithMetrics(m repository.Metrics) Option {
	return func(p *Pipeline) { p.metrics = repository.MetricsOrNop(m) }
}

// Pipeline races text generation against a timeout and falls back to a
// deterministic answer composed from structured context.
type Pipeline struct {
	generator repository.TextGenerator
	model     string
	timeout   func() time.Duration
	callLimit time.Duration
	logger    *applogger.Logger
	metrics   repository.Metrics
}

func NewPipeline(generator repository.TextGenerator, opts ...Option) *Pipeline {
	p := &Pipeline{
		generator: generator,
		timeout:   TimeoutFromEnv,
		callLimit: DefaultCallLimit,
		logger:    applogger.Nop(),
		metrics:   repository.NopMetrics{},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// TimeoutFromEnv reads TimeoutEnv; absent, invalid or non-positive values
// yield DefaultTimeout.
func TimeoutFromEnv() time.Duration {
	ms := util.ParseIntDefault(os.Getenv(TimeoutEnv), 0)
	if ms <= 0 {
		return DefaultTimeout
	}
	return time.Duration(ms) * time.Millisecond
}

// BuildAnswer always returns a non-empty answer.
func (p *Pipeline) BuildAnswer(ctx context.Context, in Input) string {
	return p.Answer(ctx, in).Text
}

// Answer is BuildAnswer with the branch taken.
func (p *Pipeline) Answer(ctx context.Context, in Input) Result {
	start := time.Now()
	intents := DetectIntents(in.Query)

	if len(in.Memory) > 0 {
		p.logger.Debug("Session memory applied", applogger.Int("turns", len(in.Memory)))
	}

	text, outcome := p.generate(ctx, in, intents)
	if outcome == OutcomeGenerated {
		if reason := checkReliability(text, in.Query, intents); reason != "" {
			p.logger.Info("Generated answer rejected", applogger.String("reason", reason))
			outcome = OutcomeRejected
		}
	}

	result := Result{Outcome: outcome}
	if outcome == OutcomeGenerated {
		result.Text = text
	} else {
		result.Text = p.fallback(in, intents)
	}

	p.metrics.RecordAnswer("pipeline", string(outcome))
	p.metrics.RecordLatency("build_answer", time.Since(start).Seconds())
	p.logger.Info("Answer built",
		applogger.String("outcome", string(outcome)),
		applogger.Duration("elapsed", time.Since(start)),
	)
	return result
}

type generation struct {
	text string
	err  error
}

// generate runs the generator in its own goroutine so a slow call can be
// abandoned. Request cancellation does not reach the call, which is bounded
// by callLimit instead; a late result lands in the buffered channel and is
// dropped.
func (p *Pipeline) generate(ctx context.Context, in Input, intents Intents) (string, Outcome) {
	if p.generator == nil {
		p.logger.Debug("Generation skipped", applogger.Error(errNoGenerator))
		return "", OutcomeFailed
	}

	req := models.GenerationRequest{Model: p.model, Messages: buildMessages(in, intents)}
	results := make(chan generation, 1)

	callCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.callLimit)
	go func() {
		defer cancel()
		defer func() {
			if r := recover(); r != nil {
				results <- generation{err: fmt.Errorf("generator panic: %v", r)}
			}
		}()
		text, err := p.generator.Generate(callCtx, req)
		results <- generation{text: text, err: err}
	}()

	budget := p.timeout()
	if budget <= 0 {
		budget = DefaultTimeout
	}
	timer := time.NewTimer(budget)
	defer timer.Stop()

	select {
	case g := <-results:
		if g.err != nil {
			p.logger.Warn("Generation failed", applogger.Error(g.err))
			p.metrics.RecordError("generation")
			return "", OutcomeFailed
		}
		if strings.TrimSpace(g.text) == "" {
			p.logger.Warn("Generation returned empty text")
			return "", OutcomeFailed
		}
		return g.text, OutcomeGenerated
	case <-timer.C:
		p.logger.Warn("Generation timed out", applogger.Duration("budget", budget))
		p.metrics.RecordError("generation_timeout")
		return "", OutcomeTimeout
	case <-ctx.Done():
		p.logger.Warn("Request cancelled during generation", applogger.Error(ctx.Err()))
		return "", OutcomeFailed
	}
}

func (p *Pipeline) fallback(in Input, intents Intents) string {
	concise := in.Preferences.ResponseStyle == models.ResponseStyleConcise
	text := composeFallback(fallbackInput{context: in.Context, intents: intents, concise: concise})
	if concise {
		text = truncateLines(text, conciseMaxLines)
	}
	return text
}
