package preferences

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"FinAssist/internal/domain/models"
)

var fixedNow = time.Date(2025, 3, 1, 9, 30, 15, 0, time.UTC)

func TestResolvePreferenceUpdate(t *testing.T) {
	concise := models.UserPreferences{ResponseStyle: models.ResponseStyleConcise, UpdatedAt: "2025-02-01T08:00:00.000Z"}

	tests := []struct {
		name        string
		query       string
		current     models.UserPreferences
		wantPersist bool
		wantStyle   models.ResponseStyle
		wantAck     string
	}{
		{
			name:        "save concise",
			query:       "Please keep it short from now on",
			wantPersist: true,
			wantStyle:   models.ResponseStyleConcise,
			wantAck:     "Got it. I'll keep my answers concise from now on.",
		},
		{
			name:        "save detailed over concise",
			query:       "I prefer detailed answers",
			current:     concise,
			wantPersist: true,
			wantStyle:   models.ResponseStyleDetailed,
			wantAck:     "Got it. I'll keep my answers detailed from now on.",
		},
		{
			name:      "already saved",
			query:     "be concise",
			current:   concise,
			wantStyle: models.ResponseStyleConcise,
			wantAck:   "Your response style is already set to concise, so nothing changed.",
		},
		{
			name:  "ambiguous is a silent no-op",
			query: "be concise but also give me detailed answers",
		},
		{
			name:    "clear on empty",
			query:   "reset my preferences",
			wantAck: AckNothingToClear,
		},
		{
			name:        "clear on populated",
			query:       "Forget my saved preferences",
			current:     concise,
			wantPersist: true,
			wantAck:     AckCleared,
		},
		{
			name:      "unrelated query",
			query:     "How concentrated is my portfolio?",
			current:   concise,
			wantStyle: models.ResponseStyleConcise,
		},
		{
			name:      "more details on a topic",
			query:     "Give me more details on Apple's earnings",
			current:   concise,
			wantStyle: models.ResponseStyleConcise,
		},
		{
			name:  "short-term instruments",
			query: "I want short-term bonds, what are my options?",
		},
		{
			name:  "brief overview of a topic",
			query: "I'd like brief overview of Tesla news",
		},
		{
			name:  "short position",
			query: "Should I be short Tesla into earnings?",
		},
		{
			name:  "detailed explanation of a topic",
			query: "Can you explain in more detail how the Fed affects bonds?",
		},
		{
			name:        "answers should be shorter",
			query:       "Your answers should be shorter",
			wantPersist: true,
			wantStyle:   models.ResponseStyleConcise,
			wantAck:     "Got it. I'll keep my answers concise from now on.",
		},
		{
			name:        "always answer in detail",
			query:       "Always answer in more detail please",
			wantPersist: true,
			wantStyle:   models.ResponseStyleDetailed,
			wantAck:     "Got it. I'll keep my answers detailed from now on.",
		},
		{
			name:  "empty query",
			query: "   ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolvePreferenceUpdateAt(tt.query, tt.current, fixedNow)
			assert.Equal(t, tt.wantPersist, got.ShouldPersist)
			assert.Equal(t, tt.wantStyle, got.UserPreferences.ResponseStyle)
			assert.Equal(t, tt.wantAck, got.Acknowledgement)
		})
	}
}

func TestResolvePreferenceUpdate_StampsUpdatedAt(t *testing.T) {
	got := ResolvePreferenceUpdateAt("switch to concise answers", models.UserPreferences{}, fixedNow)

	assert.True(t, got.ShouldPersist)
	assert.Equal(t, "2025-03-01T09:30:15.000Z", got.UserPreferences.UpdatedAt)
}

func TestResolvePreferenceUpdate_ClearAcksAreDistinct(t *testing.T) {
	populated := models.UserPreferences{ResponseStyle: models.ResponseStyleDetailed}

	onEmpty := ResolvePreferenceUpdateAt("clear my preferences", models.UserPreferences{}, fixedNow)
	onPopulated := ResolvePreferenceUpdateAt("clear my preferences", populated, fixedNow)

	assert.False(t, onEmpty.ShouldPersist)
	assert.True(t, onPopulated.ShouldPersist)
	assert.True(t, onPopulated.UserPreferences.IsEmpty())
	assert.NotEqual(t, onEmpty.Acknowledgement, onPopulated.Acknowledgement)
	assert.Equal(t, models.ResponseStyleDetailed, populated.ResponseStyle)
}

func TestPreferenceRoundTrip(t *testing.T) {
	update := ResolvePreferenceUpdateAt("give me detailed responses", models.UserPreferences{}, fixedNow)
	summary := CreatePreferenceSummaryResponse(update.UserPreferences)

	assert.Equal(t, "Your saved preference: detailed responses (last updated 2025-03-01 09:30 UTC).", summary)
}

func TestCreatePreferenceSummaryResponse(t *testing.T) {
	assert.Equal(t, NoPreferencesSummary, CreatePreferenceSummaryResponse(models.UserPreferences{}))
	assert.Equal(t, NoPreferencesSummary, CreatePreferenceSummaryResponse(models.UserPreferences{UpdatedAt: "2025-03-01T09:30:15.000Z"}))
	assert.Equal(t, "Your saved preference: concise responses.",
		CreatePreferenceSummaryResponse(models.UserPreferences{ResponseStyle: models.ResponseStyleConcise}))
	assert.Equal(t, "Your saved preference: concise responses (last updated yesterday).",
		CreatePreferenceSummaryResponse(models.UserPreferences{ResponseStyle: models.ResponseStyleConcise, UpdatedAt: "yesterday"}))
}

func TestIsPreferenceRecallQuery(t *testing.T) {
	tests := []struct {
		query string
		want  bool
	}{
		{"What do you remember about me?", true},
		{"what do you know about me", true},
		{"Show my preferences", true},
		{"list my saved settings", true},
		{"Which preferences have I set?", true},
		{"What are my preferences?", true},
		{"What preferences do you have for me?", true},
		{"Show my portfolio allocation", false},
		{"What do you know about Tesla?", false},
		{"I prefer detailed answers", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			assert.Equal(t, tt.want, IsPreferenceRecallQuery(tt.query))
		})
	}
}
