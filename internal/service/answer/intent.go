package answer

import "regexp"

// Intents are the coarse query categories that shape gating and fallback.
type Intents struct {
	Action       bool
	Risk         bool
	Fundamentals bool
	News         bool
	Rebalance    bool
	Stress       bool
}

var (
	actionIntent = regexp.MustCompile(`(?i)\b(diversif\w*|reallocat\w*|what should i do|` +
		`(should|shall|must|do)\s+i\s+(buy|sell|trim|reduce|add|hedge|invest|allocate|move|rotate|exit|cut)|` +
		`(how|where)\s+(should|can|do)\s+i\s+(invest|allocate|hedge|reduce|trim|spread|lower)|` +
		`(reduce|cut|lower|trim)\s+(my\s+)?(concentration|exposure|position|positions|holdings?|stake)|` +
		`(spread|move)\s+(my\s+)?(money|cash|savings))\b`)
	riskIntent = regexp.MustCompile(`(?i)\b(risk\w*|concentrat\w*|volatil\w*|drawdown|exposure|hhi|herfindahl|too much in|overexposed)\b`)
	// fundam, fundem and fundment cover common misspellings of "fundamentals"
	fundamentalsIntent = regexp.MustCompile(`(?i)\b(fundam\w*|fundem\w*|fundment\w*|valuation|valued|p/e|pe ratio|earnings|revenue|margins?|balance sheet|cash flow|eps|overvalued|undervalued)\b`)
	newsIntent         = regexp.MustCompile(`(?i)\b(news|headlines?|latest on|what happened|happening with|announce\w*|articles?|press release)\b`)
	rebalanceIntent    = regexp.MustCompile(`(?i)\b(rebalanc\w*|overweight|underweight|target allocation)\b`)
	stressIntent       = regexp.MustCompile(`(?i)\b(stress\w*|shock|crash\w*|scenario|downturn|recession|what if)\b`)
)

// DetectIntents classifies query. Several intents may hold at once.
func DetectIntents(query string) Intents {
	return Intents{
		Action:       actionIntent.MatchString(query),
		Risk:         riskIntent.MatchString(query),
		Fundamentals: fundamentalsIntent.MatchString(query),
		News:         newsIntent.MatchString(query),
		Rebalance:    rebalanceIntent.MatchString(query),
		Stress:       stressIntent.MatchString(query),
	}
}

// Analysis reports whether the query asks for any analytical content.
func (i Intents) Analysis() bool {
	return i.Risk || i.Fundamentals || i.News || i.Rebalance || i.Stress
}
