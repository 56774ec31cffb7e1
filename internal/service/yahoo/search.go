package yahoo

import (
	"context"
	"net/url"
	"strconv"
	"strings"
	"time"

	"FinAssist/internal/domain/models"
	"FinAssist/internal/domain/repository"
)

const defaultQuotesCount = 10

// assetClasses maps Yahoo quote types to asset class and sub class.
var assetClasses = map[string][2]string{
	"EQUITY":         {"EQUITY", "STOCK"},
	"ETF":            {"EQUITY", "ETF"},
	"MUTUALFUND":     {"EQUITY", "MUTUALFUND"},
	"CRYPTOCURRENCY": {"LIQUIDITY", "CRYPTOCURRENCY"},
	"CURRENCY":       {"LIQUIDITY", "CASH"},
	"FUTURE":         {"COMMODITY", "FUTURE"},
	"INDEX":          {"EQUITY", "INDEX"},
}

// SymbolSearcher resolves free text through the Yahoo Finance search endpoint.
type SymbolSearcher struct {
	base *httpBase
}

func NewSymbolSearcher(baseURL string, timeout time.Duration) *SymbolSearcher {
	return &SymbolSearcher{base: newHTTPBase(baseURL, timeout, 2)}
}

func (s *SymbolSearcher) Search(ctx context.Context, req models.SearchRequest) (models.SearchResponse, error) {
	query := strings.TrimSpace(req.Query)
	if query == "" {
		return models.SearchResponse{}, nil
	}

	var resp searchResponse
	err := s.base.getJSONWithRetry(ctx, searchPath, url.Values{
		"q":           {query},
		"quotesCount": {strconv.Itoa(defaultQuotesCount)},
		"newsCount":   {"0"},
	}, &resp)
	if err != nil {
		return models.SearchResponse{}, err
	}

	items := make([]models.SearchItem, 0, len(resp.Quotes))
	for _, q := range resp.Quotes {
		if q.Symbol == "" {
			continue
		}
		if !req.IncludeIndices && strings.EqualFold(q.QuoteType, "INDEX") {
			continue
		}
		name := q.LongName
		if name == "" {
			name = q.ShortName
		}
		class := assetClasses[strings.ToUpper(q.QuoteType)]
		items = append(items, models.SearchItem{
			Symbol:        q.Symbol,
			Name:          name,
			Currency:      req.User.Currency,
			DataSource:    DataSource,
			AssetClass:    class[0],
			AssetSubClass: class[1],
		})
	}
	return models.SearchResponse{Items: items}, nil
}

var _ repository.SymbolSearcher = (*SymbolSearcher)(nil)
