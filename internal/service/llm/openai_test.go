package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"FinAssist/internal/domain/models"
)

type completionRequest struct {
	Model    string `json:"model"`
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

func newCompletionServer(t *testing.T, reply string, got *completionRequest) *httptest.Server {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		if got != nil {
			assert.NoError(t, json.NewDecoder(r.Body).Decode(got))
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(reply))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestOpenAIGenerator_Generate(t *testing.T) {
	var got completionRequest
	srv := newCompletionServer(t, `{"id":"c1","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"Option 1 ..."},"finish_reason":"stop"}],"usage":{"total_tokens":42}}`, &got)
	g := NewOpenAIGenerator("test-key", srv.URL+"/v1", "default-model", nil)

	text, err := g.Generate(context.Background(), models.GenerationRequest{
		Messages: []models.ChatMessage{
			{Role: models.RoleSystem, Content: "sys"},
			{Role: models.RoleUser, Content: "q"},
			{Role: models.RoleAssistant, Content: "a"},
		},
	})

	require.NoError(t, err)
	assert.Equal(t, "Option 1 ...", text)
	assert.Equal(t, "default-model", got.Model)
	require.Len(t, got.Messages, 3)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Equal(t, "assistant", got.Messages[2].Role)
}

func TestOpenAIGenerator_NoChoices(t *testing.T) {
	srv := newCompletionServer(t, `{"id":"c1","object":"chat.completion","choices":[]}`, nil)
	g := NewOpenAIGenerator("test-key", srv.URL+"/v1", "m", nil)

	_, err := g.Generate(context.Background(), models.GenerationRequest{Model: "m"})
	assert.ErrorIs(t, err, ErrNoChoices)
}

func TestOpenAIGenerator_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"rate limited","type":"rate_limit"}}`))
	}))
	t.Cleanup(srv.Close)
	g := NewOpenAIGenerator("test-key", srv.URL+"/v1", "m", nil)

	_, err := g.Generate(context.Background(), models.GenerationRequest{Model: "m"})
	assert.Error(t, err)
}

func TestOpenAIGenerator_RequestTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(srv.Close)
	t.Cleanup(func() { close(release) })
	g := NewOpenAIGenerator("test-key", srv.URL+"/v1", "m", nil, WithRequestTimeout(50*time.Millisecond))

	start := time.Now()
	_, err := g.Generate(context.Background(), models.GenerationRequest{Model: "m"})

	assert.Error(t, err)
	assert.Less(t, time.Since(start), 2*time.Second)
}
