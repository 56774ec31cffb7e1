package repository

import (
	"context"

	"FinAssist/internal/domain/models"
)

// SymbolSearcher looks up instruments matching free text.
type SymbolSearcher interface {
	Search(ctx context.Context, req models.SearchRequest) (models.SearchResponse, error)
}

// NewsSearcher fetches recent headlines for a symbol. Failures are reported
// through Success=false rather than an error.
type NewsSearcher interface {
	SearchStockNews(ctx context.Context, symbol, companyName string) models.NewsSearchResult
}

// TextGenerator produces an answer for a chat transcript.
type TextGenerator interface {
	Generate(ctx context.Context, req models.GenerationRequest) (string, error)
}

// NameLookup maps a ticker symbol to a display name, "" when unknown.
type NameLookup interface {
	NameForSymbol(symbol string) string
}

type Metrics interface {
	RecordAnswer(path, outcome string)
	RecordResolution(layer string)
	RecordNewsSearch(ok bool)
	RecordError(kind string)
	RecordLatency(op string, seconds float64)
}

// NopMetrics discards all observations.
type NopMetrics struct{}

func (NopMetrics) RecordAnswer(string, string)   {}
func (NopMetrics) RecordResolution(string)       {}
func (NopMetrics) RecordNewsSearch(bool)         {}
func (NopMetrics) RecordError(string)            {}
func (NopMetrics) RecordLatency(string, float64) {}

// MetricsOrNop returns m, or NopMetrics when m is nil.
func MetricsOrNop(m Metrics) Metrics {
	if m == nil {
		return NopMetrics{}
	}
	return m
}
