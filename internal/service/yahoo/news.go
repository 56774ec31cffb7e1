package yahoo

import (
	"context"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"FinAssist/internal/domain/models"
	"FinAssist/internal/domain/repository"
	applogger "FinAssist/pkg/logger"
)

const defaultNewsCount = 8

var corporateSuffix = regexp.MustCompile(`(?i)[,.]?\s+(inc|incorporated|corp|corporation|co|company|ltd|limited|plc|holdings|group|sa|ag|nv)\.?$`)

// NewsSearcher fetches headlines for a symbol from the Yahoo Finance search endpoint.
type NewsSearcher struct {
	base   *httpBase
	count  int
	logger *applogger.Logger
}

func NewNewsSearcher(baseURL string, timeout time.Duration, logger *applogger.Logger) *NewsSearcher {
	return &NewsSearcher{
		base:   newHTTPBase(baseURL, timeout, 1),
		count:  defaultNewsCount,
		logger: applogger.OrNop(logger),
	}
}

// SearchStockNews queries by ticker. When companyName is known, articles tagged
// only with other tickers are kept only if their title names the company.
// It never returns an error; fetch failures and timeouts are reported as an
// unsuccessful empty result.
func (n *NewsSearcher) SearchStockNews(ctx context.Context, symbol, companyName string) models.NewsSearchResult {
	failed := models.NewsSearchResult{Results: []models.NewsItem{}, Success: false}

	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return failed
	}

	var resp searchResponse
	err := n.base.getJSON(ctx, searchPath, url.Values{
		"q":           {symbol},
		"quotesCount": {"0"},
		"newsCount":   {strconv.Itoa(n.count)},
	}, &resp)
	if err != nil {
		n.logger.Warn("News search failed",
			applogger.String("symbol", symbol),
			applogger.Error(err),
		)
		return failed
	}

	name := shortCompanyName(companyName)
	items := make([]models.NewsItem, 0, len(resp.News))
	for _, a := range resp.News {
		title := strings.TrimSpace(a.Title)
		if title == "" || a.Link == "" {
			continue
		}
		if !aboutCompany(a, symbol, name) {
			continue
		}
		item := models.NewsItem{
			Title:  title,
			Link:   a.Link,
			Source: a.Publisher,
		}
		if a.ProviderPublishTime > 0 {
			item.PublishedDate = time.Unix(a.ProviderPublishTime, 0).UTC().Format("2006-01-02")
		}
		items = append(items, item)
	}
	return models.NewsSearchResult{Results: items, Success: true}
}

// shortCompanyName lowercases name and strips trailing corporate suffixes,
// so "Apple Inc." becomes "apple".
func shortCompanyName(name string) string {
	name = strings.TrimSpace(name)
	for {
		trimmed := strings.TrimSpace(corporateSuffix.ReplaceAllString(name, ""))
		if trimmed == name || trimmed == "" {
			break
		}
		name = trimmed
	}
	return strings.ToLower(name)
}

func aboutCompany(a searchNews, symbol, name string) bool {
	if name == "" || len(a.RelatedTickers) == 0 {
		return true
	}
	for _, t := range a.RelatedTickers {
		if strings.EqualFold(t, symbol) {
			return true
		}
	}
	return strings.Contains(strings.ToLower(a.Title), name)
}

var _ repository.NewsSearcher = (*NewsSearcher)(nil)
