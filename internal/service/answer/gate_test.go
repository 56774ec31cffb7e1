package answer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckReliability(t *testing.T) {
	echoQuery := "Summarize the risk exposure of my current holdings please"

	tests := []struct {
		name  string
		query string
		text  string
		want  string
	}{
		{"empty", "hello", "  \n ", rejectEmpty},
		{"too short for general", "hello", "Hi!", rejectTooShort},
		{"general ok", "hello", "Hello, how can I help you today?", ""},
		{"too short for analysis", "What is my concentration risk?", "Risk is high.", rejectTooShort},
		{
			name:  "action without options",
			query: "Should I sell TSLA?",
			text:  strings.Repeat("Selling part of the position reduces single-name exposure. ", 4),
			want:  rejectNoOptions,
		},
		{
			name:  "action with lettered options",
			query: "Should I sell TSLA?",
			text:  "Option A: " + strings.Repeat("hold and add new cash elsewhere. ", 3) + "Option B: " + strings.Repeat("sell a third and buy a broad fund. ", 3),
			want:  "",
		},
		{"action with numbered options", "How should I diversify?", optionAnswer, ""},
		{"exact echo", echoQuery, echoQuery + "!!!", rejectPromptEchoed},
		{"echo with short tail", echoQuery, echoQuery + " right now", rejectPromptEchoed},
		{"repeated echo", echoQuery, echoQuery + ". " + echoQuery, rejectPromptEchoed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, checkReliability(tt.text, tt.query, DetectIntents(tt.query)))
		})
	}
}

func TestJaccard(t *testing.T) {
	assert.Equal(t, 1.0, jaccard(nil, nil))
	assert.Equal(t, 1.0, jaccard([]string{"a", "b"}, []string{"b", "a", "a"}))
	assert.InDelta(t, 1.0/3.0, jaccard([]string{"a", "b"}, []string{"b", "c"}), 1e-9)
}
