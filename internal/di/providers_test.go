package di

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"FinAssist/internal/domain/models"
	"FinAssist/pkg/cache"
	"FinAssist/pkg/config"
	applogger "FinAssist/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.LoadFromEnv()
	require.NoError(t, err)
	cfg.Log.Output = "stderr"
	// Unroutable so the remote searcher fails fast and the chain falls back.
	cfg.Symbols.SearchBaseURL = "http://127.0.0.1:1"
	return cfg
}

func TestProvideCacheStore_InMemoryWhenRedisDisabled(t *testing.T) {
	cfg := testConfig(t)
	cfg.Redis.Enabled = false

	store, cleanup, err := ProvideCacheStore(cfg, applogger.Nop())
	require.NoError(t, err)
	defer cleanup()

	_, ok := store.(*cache.MemoryCache)
	assert.True(t, ok)
}

func TestProvideSymbolSearcher_FallsBackToLocalIndex(t *testing.T) {
	cfg := testConfig(t)
	path := filepath.Join(t.TempDir(), "listings.csv")
	require.NoError(t, os.WriteFile(path, []byte("symbol,name,exchange,type\nZETA,Zeta Global Holdings,NYSE,EQUITY\n"), 0o644))
	cfg.Symbols.ListingsFile = path

	searcher, cleanup, err := ProvideSymbolSearcher(cfg, applogger.Nop())
	require.NoError(t, err)
	defer cleanup()

	resp, err := searcher.Search(context.Background(), models.SearchRequest{Query: "zeta global"})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Items)
	assert.Equal(t, "ZETA", resp.Items[0].Symbol)
}

func TestProvideSymbolSearcher_MissingListingsFile(t *testing.T) {
	cfg := testConfig(t)
	cfg.Symbols.ListingsFile = filepath.Join(t.TempDir(), "missing.csv")

	_, _, err := ProvideSymbolSearcher(cfg, applogger.Nop())
	assert.Error(t, err)
}

func TestProvideTextGenerator_NilWithoutKey(t *testing.T) {
	cfg := testConfig(t)
	cfg.LLM.APIKey = ""
	assert.Nil(t, ProvideTextGenerator(cfg, applogger.Nop()))

	cfg.LLM.APIKey = "sk-test"
	assert.NotNil(t, ProvideTextGenerator(cfg, applogger.Nop()))
}

func TestInitializeApp(t *testing.T) {
	cfg := testConfig(t)
	cfg.LLM.APIKey = ""

	app, cleanup, err := InitializeApp(cfg)
	require.NoError(t, err)
	defer cleanup()

	require.NotNil(t, app)
	routes := app.HTTPServer().Echo().Routes()
	paths := make([]string, 0, len(routes))
	for _, r := range routes {
		paths = append(paths, r.Method+" "+r.Path)
	}
	assert.Contains(t, paths, "POST /api/v1/agent/chat")
	assert.Contains(t, paths, "GET /api/v1/symbols/resolve")
	assert.Contains(t, paths, "GET /metrics")
}
