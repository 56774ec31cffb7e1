package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"FinAssist/internal/domain/models"
	"FinAssist/internal/service/answer"
	"FinAssist/internal/service/preferences"
	"FinAssist/pkg/cache"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)

type fakeExtractor struct {
	symbols []string
	calls   int
}

func (f *fakeExtractor) ExtractSymbolsFromQuery(context.Context, string, models.UserContext) []string {
	f.calls++
	return f.symbols
}

type fakeDigester struct {
	digest   models.NewsDigest
	symbols  []string
	maxItems int
	calls    int
}

func (f *fakeDigester) SearchWebNewsForSymbols(_ context.Context, symbols []string, maxItems int) models.NewsDigest {
	f.calls++
	f.symbols = symbols
	f.maxItems = maxItems
	return f.digest
}

type recordingAnswerer struct {
	mu    sync.Mutex
	text  string
	calls []answer.Input
}

func (r *recordingAnswerer) Answer(_ context.Context, in answer.Input) answer.Result {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, in)
	return answer.Result{Text: r.text, Outcome: answer.OutcomeGenerated}
}

type failingStore struct{}

func (failingStore) Get(context.Context, string) (string, error) { return "", cache.ErrCacheMiss }
func (failingStore) Set(context.Context, string, string, time.Duration) error {
	return errors.New("redis down")
}
func (failingStore) Delete(context.Context, ...string) error { return nil }

type fixture struct {
	store     *preferences.Store
	extractor *fakeExtractor
	digester  *fakeDigester
	answerer  *recordingAnswerer
	uc        *ChatUseCase
}

func newFixture() *fixture {
	f := &fixture{
		store:     preferences.NewStore(cache.NewMemoryCache()),
		extractor: &fakeExtractor{},
		digester:  &fakeDigester{},
		answerer:  &recordingAnswerer{text: "generated answer"},
	}
	f.uc = NewChatUseCase(f.store, f.extractor, f.digester, f.answerer,
		WithChatClock(func() time.Time { return fixedNow }),
	)
	return f
}

func TestChat_SavesStylePreference(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	resp, err := f.uc.Chat(ctx, models.ChatRequest{UserID: "u1", Query: "Please keep it concise"})
	require.NoError(t, err)

	assert.Equal(t, "Got it. I'll keep my answers concise from now on.", resp.Answer)
	assert.True(t, resp.PreferenceUpdated)
	assert.Equal(t, models.ResponseStyleConcise, resp.Preferences.ResponseStyle)
	assert.Equal(t, "2024-05-06T07:08:09.000Z", resp.Preferences.UpdatedAt)
	assert.Empty(t, f.answerer.calls)

	stored := f.store.GetUserPreferences(ctx, "u1")
	assert.Equal(t, resp.Preferences, stored)
}

func TestChat_AlreadySavedIsNotRewritten(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	saved := models.UserPreferences{ResponseStyle: models.ResponseStyleConcise, UpdatedAt: "2024-01-01T00:00:00.000Z"}
	require.NoError(t, f.store.SaveUserPreferences(ctx, "u1", saved))

	resp, err := f.uc.Chat(ctx, models.ChatRequest{UserID: "u1", Query: "be concise"})
	require.NoError(t, err)

	assert.Equal(t, "Your response style is already set to concise, so nothing changed.", resp.Answer)
	assert.False(t, resp.PreferenceUpdated)
	assert.Equal(t, saved, f.store.GetUserPreferences(ctx, "u1"))
}

func TestChat_ClearWithNothingSaved(t *testing.T) {
	f := newFixture()

	resp, err := f.uc.Chat(context.Background(), models.ChatRequest{UserID: "u1", Query: "reset my preferences"})
	require.NoError(t, err)

	assert.Equal(t, preferences.AckNothingToClear, resp.Answer)
	assert.False(t, resp.PreferenceUpdated)
	assert.Empty(t, f.answerer.calls)
}

func TestChat_ClearRemovesSavedStyle(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	require.NoError(t, f.store.SaveUserPreferences(ctx, "u1", models.UserPreferences{ResponseStyle: models.ResponseStyleDetailed}))

	resp, err := f.uc.Chat(ctx, models.ChatRequest{UserID: "u1", Query: "reset my preferences"})
	require.NoError(t, err)

	assert.Equal(t, preferences.AckCleared, resp.Answer)
	assert.True(t, resp.PreferenceUpdated)
	assert.True(t, f.store.GetUserPreferences(ctx, "u1").IsEmpty())
}

func TestChat_RecallQuery(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	require.NoError(t, f.store.SaveUserPreferences(ctx, "u1", models.UserPreferences{
		ResponseStyle: models.ResponseStyleDetailed,
		UpdatedAt:     "2024-03-02T10:30:00.000Z",
	}))

	resp, err := f.uc.Chat(ctx, models.ChatRequest{UserID: "u1", Query: "What do you remember about me?"})
	require.NoError(t, err)

	assert.Equal(t, "Your saved preference: detailed responses (last updated 2024-03-02 10:30 UTC).", resp.Answer)
	assert.False(t, resp.PreferenceUpdated)
	assert.Empty(t, f.answerer.calls)
}

func TestChat_NewsQueryAttachesDigest(t *testing.T) {
	f := newFixture()
	f.extractor.symbols = []string{"TSLA"}
	f.digester.digest = models.NewsDigest{
		FormattedSummary: "News for Tesla (TSLA):\n1 recent article:",
		SymbolsSearched:  []string{"TSLA"},
		Success:          true,
	}

	resp, err := f.uc.Chat(context.Background(), models.ChatRequest{UserID: "u1", Query: "Any news on Tesla?"})
	require.NoError(t, err)

	assert.Equal(t, "generated answer", resp.Answer)
	assert.Equal(t, []string{"TSLA"}, resp.Symbols)
	assert.Equal(t, []string{"TSLA"}, f.digester.symbols)
	assert.Equal(t, 5, f.digester.maxItems)
	require.Len(t, f.answerer.calls, 1)
	assert.Equal(t, f.digester.digest.FormattedSummary, f.answerer.calls[0].Context.FinancialNews)
}

func TestChat_SuppliedNewsIsKept(t *testing.T) {
	f := newFixture()
	f.extractor.symbols = []string{"TSLA"}

	req := models.ChatRequest{
		UserID:  "u1",
		Query:   "Any news on Tesla?",
		Context: models.StructuredContext{FinancialNews: "caller supplied"},
	}
	_, err := f.uc.Chat(context.Background(), req)
	require.NoError(t, err)

	assert.Zero(t, f.extractor.calls)
	assert.Zero(t, f.digester.calls)
	require.Len(t, f.answerer.calls, 1)
	assert.Equal(t, "caller supplied", f.answerer.calls[0].Context.FinancialNews)
}

func TestChat_NewsWithoutSymbolsSkipsDigest(t *testing.T) {
	f := newFixture()

	_, err := f.uc.Chat(context.Background(), models.ChatRequest{UserID: "u1", Query: "what is in the news today"})
	require.NoError(t, err)

	assert.Equal(t, 1, f.extractor.calls)
	assert.Zero(t, f.digester.calls)
	require.Len(t, f.answerer.calls, 1)
	assert.Empty(t, f.answerer.calls[0].Context.FinancialNews)
}

func TestChat_PassesPreferencesAndMemory(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	saved := models.UserPreferences{ResponseStyle: models.ResponseStyleConcise, UpdatedAt: "2024-01-01T00:00:00.000Z"}
	require.NoError(t, f.store.SaveUserPreferences(ctx, "u1", saved))

	memory := []models.MemoryTurn{{Query: "hi", Answer: "hello"}}
	resp, err := f.uc.Chat(ctx, models.ChatRequest{UserID: "u1", Query: "How risky is my portfolio?", Memory: memory})
	require.NoError(t, err)

	assert.Equal(t, "generated answer", resp.Answer)
	assert.Equal(t, saved, resp.Preferences)
	assert.Zero(t, f.extractor.calls)
	require.Len(t, f.answerer.calls, 1)
	assert.Equal(t, saved, f.answerer.calls[0].Preferences)
	assert.Equal(t, memory, f.answerer.calls[0].Memory)
}

func TestChat_SaveFailureIsReturned(t *testing.T) {
	answerer := &recordingAnswerer{}
	uc := NewChatUseCase(preferences.NewStore(failingStore{}), nil, nil, answerer)

	_, err := uc.Chat(context.Background(), models.ChatRequest{UserID: "u1", Query: "be concise"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis down")
	assert.Empty(t, answerer.calls)
}

func TestChat_NilNewsCollaboratorsAreSkipped(t *testing.T) {
	answerer := &recordingAnswerer{text: "ok"}
	uc := NewChatUseCase(preferences.NewStore(cache.NewMemoryCache()), nil, nil, answerer)

	resp, err := uc.Chat(context.Background(), models.ChatRequest{UserID: "u1", Query: "latest news on Apple"})
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Answer)
}
