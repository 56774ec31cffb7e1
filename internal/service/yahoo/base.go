package yahoo

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	xhttp "FinAssist/pkg/http"
)

const (
	DefaultBaseURL = "https://query1.finance.yahoo.com"
	DataSource     = "YAHOO"

	searchPath = "/v1/finance/search"
	userAgent  = "Mozilla/5.0 (compatible; finassist/1.0)"
)

// httpBase holds the shared client and base URL for the Yahoo endpoints.
type httpBase struct {
	baseURL  string
	client   *xhttp.Client
	attempts int
}

func newHTTPBase(baseURL string, timeout time.Duration, attempts int) *httpBase {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	if attempts < 1 {
		attempts = 1
	}
	return &httpBase{
		baseURL:  strings.TrimRight(baseURL, "/"),
		client:   xhttp.NewClient(xhttp.WithTimeout(timeout), xhttp.WithUserAgent(userAgent)),
		attempts: attempts,
	}
}

// getJSON issues a GET against path and decodes the JSON body into dest.
func (b *httpBase) getJSON(ctx context.Context, path string, query url.Values, dest interface{}) error {
	if err := b.client.GetJSON(ctx, b.baseURL+path, query, dest); err != nil {
		return fmt.Errorf("get %s: %w", path, err)
	}
	return nil
}

// getJSONWithRetry retries transient failures with a linear backoff. Client
// errors other than 429 are returned at once.
func (b *httpBase) getJSONWithRetry(ctx context.Context, path string, query url.Values, dest interface{}) error {
	var err error
	for i := 1; i <= b.attempts; i++ {
		err = b.getJSON(ctx, path, query, dest)
		if err == nil || i == b.attempts || !retryable(err) {
			break
		}
		select {
		case <-time.After(time.Duration(i) * 50 * time.Millisecond):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return err
}

func retryable(err error) bool {
	var se *xhttp.StatusError
	if errors.As(err, &se) {
		return se.Temporary()
	}
	return true
}

type searchResponse struct {
	Quotes []searchQuote `json:"quotes"`
	News   []searchNews  `json:"news"`
}

type searchQuote struct {
	Symbol    string `json:"symbol"`
	ShortName string `json:"shortname"`
	LongName  string `json:"longname"`
	QuoteType string `json:"quoteType"`
	Exchange  string `json:"exchange"`
	TypeDisp  string `json:"typeDisp"`
}

type searchNews struct {
	UUID                string   `json:"uuid"`
	Title               string   `json:"title"`
	Publisher           string   `json:"publisher"`
	Link                string   `json:"link"`
	ProviderPublishTime int64    `json:"providerPublishTime"`
	RelatedTickers      []string `json:"relatedTickers"`
}
