package answer

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	minActionChars   = 160
	minAnalysisChars = 60
	minGeneralChars  = 12

	echoSimilarity = 0.85
	echoSlackChars = 16
)

// Reasons a generated text is rejected.
const (
	rejectEmpty        = "empty"
	rejectTooShort     = "too_short"
	rejectNoOptions    = "missing_options"
	rejectPromptEchoed = "prompt_echo"
)

var (
	optionOneLabel = regexp.MustCompile(`(?i)\boption\s*(1|a|one)\b`)
	optionTwoLabel = regexp.MustCompile(`(?i)\boption\s*(2|b|two)\b`)
	nonWord        = regexp.MustCompile(`[^\p{L}\p{N}]+`)
)

// checkReliability returns "" when text can be returned verbatim, otherwise
// the rejection reason.
func checkReliability(text, query string, intents Intents) string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return rejectEmpty
	}

	if utf8.RuneCountInString(trimmed) < minimumLength(intents) {
		return rejectTooShort
	}

	if intents.Action && !(optionOneLabel.MatchString(trimmed) && optionTwoLabel.MatchString(trimmed)) {
		return rejectNoOptions
	}

	if isPromptEcho(trimmed, query) {
		return rejectPromptEchoed
	}
	return ""
}

func minimumLength(intents Intents) int {
	switch {
	case intents.Action:
		return minActionChars
	case intents.Analysis():
		return minAnalysisChars
	default:
		return minGeneralChars
	}
}

func isPromptEcho(text, query string) bool {
	t, q := normalizeText(text), normalizeText(query)
	if q == "" {
		return false
	}
	if t == q {
		return true
	}
	if strings.HasPrefix(t, q) && utf8.RuneCountInString(t)-utf8.RuneCountInString(q) < echoSlackChars {
		return true
	}
	return jaccard(strings.Fields(t), strings.Fields(q)) >= echoSimilarity
}

func normalizeText(s string) string {
	return strings.TrimSpace(nonWord.ReplaceAllString(strings.ToLower(s), " "))
}

func jaccard(a, b []string) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1
	}
	setA := make(map[string]struct{}, len(a))
	for _, w := range a {
		setA[w] = struct{}{}
	}
	setB := make(map[string]struct{}, len(b))
	for _, w := range b {
		setB[w] = struct{}{}
	}

	inter := 0
	for w := range setA {
		if _, ok := setB[w]; ok {
			inter++
		}
	}
	union := len(setA) + len(setB) - inter
	return float64(inter) / float64(union)
}
