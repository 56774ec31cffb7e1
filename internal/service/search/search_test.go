package search

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"FinAssist/internal/domain/models"
)

const listingsCSV = `Symbol,Name,Exchange,Type
AAPL,Apple Inc.,NASDAQ,Equity
tsla, "Tesla, Inc.",NASDAQ,Equity
RIVN,"Rivian Automotive, Inc.",NASDAQ,Equity
^GSPC,S&P 500,SNP,Index
,missing symbol
ONLYSYMBOL
`

func newTestIndex(t *testing.T) *IndexSearcher {
	t.Helper()
	listings, err := ParseListings(strings.NewReader(listingsCSV))
	require.NoError(t, err)
	idx, err := NewIndexSearcher(listings)
	require.NoError(t, err)
	t.Cleanup(func() { _ = idx.Close() })
	return idx
}

func TestParseListings(t *testing.T) {
	listings, err := ParseListings(strings.NewReader(listingsCSV))
	require.NoError(t, err)
	require.Len(t, listings, 4)
	assert.Equal(t, Listing{Symbol: "TSLA", Name: "Tesla, Inc.", Exchange: "NASDAQ", Type: "Equity"}, listings[1])
}

func TestLoadListings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "listings.csv")
	require.NoError(t, os.WriteFile(path, []byte("SHOP,Shopify Inc.\n"), 0o600))

	listings, err := LoadListings(path)
	require.NoError(t, err)
	assert.Equal(t, []Listing{{Symbol: "SHOP", Name: "Shopify Inc."}}, listings)

	_, err = LoadListings(filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}

func TestListingsFromNames(t *testing.T) {
	got := ListingsFromNames(map[string]string{"TSLA": "Tesla, Inc.", "AAPL": "Apple Inc."})
	assert.Equal(t, []Listing{{Symbol: "AAPL", Name: "Apple Inc."}, {Symbol: "TSLA", Name: "Tesla, Inc."}}, got)
}

func TestIndexSearcher_Search(t *testing.T) {
	idx := newTestIndex(t)
	ctx := context.Background()

	count, err := idx.Count()
	require.NoError(t, err)
	assert.Equal(t, uint64(4), count)

	tests := []struct {
		name  string
		query string
		want  string
	}{
		{"by name", "rivian", "RIVN"},
		{"by ticker", "AAPL", "AAPL"},
		{"by dollar ticker", "$tsla", "TSLA"},
		{"by name prefix", "tes", "TSLA"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := idx.Search(ctx, models.SearchRequest{Query: tt.query, IncludeIndices: true})
			require.NoError(t, err)
			require.NotEmpty(t, resp.Items)
			assert.Equal(t, tt.want, resp.Items[0].Symbol)
			assert.Equal(t, LocalDataSource, resp.Items[0].DataSource)
		})
	}
}

func TestIndexSearcher_IndicesFilter(t *testing.T) {
	idx := newTestIndex(t)
	ctx := context.Background()

	with, err := idx.Search(ctx, models.SearchRequest{Query: "^GSPC", IncludeIndices: true})
	require.NoError(t, err)
	require.Len(t, with.Items, 1)
	assert.Equal(t, "S&P 500", with.Items[0].Name)

	without, err := idx.Search(ctx, models.SearchRequest{Query: "^GSPC"})
	require.NoError(t, err)
	assert.Empty(t, without.Items)
}

func TestIndexSearcher_EmptyQuery(t *testing.T) {
	resp, err := newTestIndex(t).Search(context.Background(), models.SearchRequest{Query: " "})
	require.NoError(t, err)
	assert.Empty(t, resp.Items)
}

type stubSearcher struct {
	items []models.SearchItem
	err   error
	calls int
}

func (s *stubSearcher) Search(context.Context, models.SearchRequest) (models.SearchResponse, error) {
	s.calls++
	return models.SearchResponse{Items: s.items}, s.err
}

func TestChain(t *testing.T) {
	ctx := context.Background()
	hit := []models.SearchItem{{Symbol: "RIVN", Name: "Rivian"}}

	t.Run("first non-empty wins", func(t *testing.T) {
		first, second := &stubSearcher{items: hit}, &stubSearcher{}
		resp, err := NewChain(nil, first, second).Search(ctx, models.SearchRequest{Query: "rivian"})
		require.NoError(t, err)
		assert.Equal(t, hit, resp.Items)
		assert.Zero(t, second.calls)
	})

	t.Run("falls through failure and empty", func(t *testing.T) {
		failing, empty, last := &stubSearcher{err: errors.New("down")}, &stubSearcher{}, &stubSearcher{items: hit}
		resp, err := NewChain(nil, failing, nil, empty, last).Search(ctx, models.SearchRequest{Query: "rivian"})
		require.NoError(t, err)
		assert.Equal(t, hit, resp.Items)
	})

	t.Run("partial failure with no results is empty", func(t *testing.T) {
		resp, err := NewChain(nil, &stubSearcher{err: errors.New("down")}, &stubSearcher{}).Search(ctx, models.SearchRequest{Query: "x"})
		require.NoError(t, err)
		assert.Empty(t, resp.Items)
	})

	t.Run("all failing is an error", func(t *testing.T) {
		_, err := NewChain(nil, &stubSearcher{err: errors.New("a")}, &stubSearcher{err: errors.New("b")}).Search(ctx, models.SearchRequest{Query: "x"})
		assert.Error(t, err)
	})
}
