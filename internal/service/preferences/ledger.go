package preferences

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"FinAssist/internal/domain/models"
	"FinAssist/pkg/util"
)

// Acknowledgements returned by ResolvePreferenceUpdate.
const (
	AckNothingToClear = "You don't have any saved preferences, so there was nothing to clear."
	AckCleared        = "Done. I cleared your saved preferences and will go back to my default response style."
	ackAlreadySaved   = "Your response style is already set to %s, so nothing changed."
	ackSaved          = "Got it. I'll keep my answers %s from now on."

	NoPreferencesSummary = "I don't have any saved preferences for you yet. You can ask me to keep answers concise or detailed."
)

var (
	concisePatterns = compileAll(
		`\bbe\s+(more\s+)?(concise|brief|briefer)\b`,
		`\b(keep|make)\s+(it|things|them|your\s+(answers|responses|replies))\s+(more\s+)?(concise|brief|briefer|short|shorter)\b`,
		`\b(concise|brief|briefer|short|shorter)\s+(answers|responses|replies|mode|style)\b`,
		`\b(answers|responses|replies)\s+(should\s+be|to\s+be)\s+(more\s+)?(concise|brief|short|shorter)\b`,
		`\b(answer|respond|reply)\s+(more\s+)?(concisely|briefly)\b`,
		`\bless\s+(verbose|wordy)\b`,
	)
	detailedPatterns = compileAll(
		`\bbe\s+(more\s+)?(detailed|in[- ]depth|verbose)\b`,
		`\b(keep|make)\s+(it|things|them|your\s+(answers|responses|replies))\s+(more\s+)?(detailed|thorough|longer|in[- ]depth|verbose)\b`,
		`\b(detailed|thorough|longer|in[- ]depth|verbose)\s+(answers|responses|replies|mode|style)\b`,
		`\b(answers|responses|replies)\s+(should\s+be|to\s+be)\s+(more\s+)?(detailed|thorough|longer|in[- ]depth)\b`,
		`\balways\s+(answer|respond|reply|explain(\s+things)?)\s+in\s+(more\s+)?detail\b`,
	)
	clearPatterns = compileAll(
		`\b(clear|reset|forget|delete|remove|erase|wipe)\s+(all\s+)?(of\s+)?(my|the|your)?\s*(saved\s+|stored\s+)?(preferences?|settings|response style)\b`,
		`\bforget\s+(everything|what you know|what you remember)\s+about\s+me\b`,
		`\b(go back|revert)\s+to\s+(the\s+)?default\s+(style|preferences?|settings)\b`,
	)
	recallPatterns = compileAll(
		`\bwhat\s+do\s+you\s+(remember|know)\s+about\s+me\b`,
		`\b(show|list|display)\s+(me\s+)?(all\s+)?my\s+(saved\s+|stored\s+)?(preferences|settings)\b`,
		`\bwhich\s+(saved\s+)?preferences\b`,
		`\bwhat\s+(are|is)\s+my\s+(saved\s+|current\s+)?(preferences|settings|response style)\b`,
		`\bwhat\s+preferences\s+(do\s+you\s+have|have\s+i\s+saved|did\s+i\s+save)\b`,
	)
)

func compileAll(exprs ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(exprs))
	for _, e := range exprs {
		out = append(out, regexp.MustCompile(`(?i)`+e))
	}
	return out
}

func matchesAny(patterns []*regexp.Regexp, s string) bool {
	for _, p := range patterns {
		if p.MatchString(s) {
			return true
		}
	}
	return false
}

// ResolvePreferenceUpdate interprets query as a preference mutation against current.
func ResolvePreferenceUpdate(query string, current models.UserPreferences) models.PreferenceUpdate {
	return ResolvePreferenceUpdateAt(query, current, time.Now())
}

// ResolvePreferenceUpdateAt is ResolvePreferenceUpdate with an explicit clock.
// The returned preferences are always a new value; current is never modified.
func ResolvePreferenceUpdateAt(query string, current models.UserPreferences, now time.Time) models.PreferenceUpdate {
	q := strings.TrimSpace(query)
	noop := models.PreferenceUpdate{UserPreferences: current}
	if q == "" {
		return noop
	}

	wantsConcise := matchesAny(concisePatterns, q)
	wantsDetailed := matchesAny(detailedPatterns, q)

	if wantsConcise && wantsDetailed {
		return noop
	}

	if matchesAny(clearPatterns, q) {
		if current.IsEmpty() {
			noop.Acknowledgement = AckNothingToClear
			return noop
		}
		return models.PreferenceUpdate{
			ShouldPersist:   true,
			UserPreferences: models.UserPreferences{},
			Acknowledgement: AckCleared,
		}
	}

	var style models.ResponseStyle
	switch {
	case wantsConcise:
		style = models.ResponseStyleConcise
	case wantsDetailed:
		style = models.ResponseStyleDetailed
	default:
		return noop
	}

	if current.ResponseStyle == style {
		noop.Acknowledgement = fmt.Sprintf(ackAlreadySaved, style)
		return noop
	}

	return models.PreferenceUpdate{
		ShouldPersist: true,
		UserPreferences: models.UserPreferences{
			ResponseStyle: style,
			UpdatedAt:     util.FormatISO(now),
		},
		Acknowledgement: fmt.Sprintf(ackSaved, style),
	}
}

// IsPreferenceRecallQuery reports whether query asks to restate saved preferences.
func IsPreferenceRecallQuery(query string) bool {
	return matchesAny(recallPatterns, query)
}

// CreatePreferenceSummaryResponse renders prefs as a short sentence.
func CreatePreferenceSummaryResponse(prefs models.UserPreferences) string {
	if prefs.ResponseStyle == "" {
		return NoPreferencesSummary
	}

	summary := fmt.Sprintf("Your saved preference: %s responses", prefs.ResponseStyle)
	if prefs.UpdatedAt != "" {
		updated := prefs.UpdatedAt
		if t, ok := util.ParseTime(prefs.UpdatedAt); ok {
			updated = t.UTC().Format("2006-01-02 15:04 UTC")
		}
		summary += fmt.Sprintf(" (last updated %s)", updated)
	}
	return summary + "."
}
