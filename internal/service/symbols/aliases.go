package symbols

import (
	"regexp"
	"sort"
	"strings"
)

// AliasDataSource is reported for symbols resolved from the static alias table.
const AliasDataSource = "YAHOO"

type aliasTarget struct {
	Symbol string
	Name   string
}

// aliasTable maps common company and fund names to ticker symbols.
// Keys are lower-case and trimmed.
var aliasTable = map[string]aliasTarget{
	"apple":                 {"AAPL", "Apple Inc."},
	"microsoft":             {"MSFT", "Microsoft Corporation"},
	"tesla":                 {"TSLA", "Tesla, Inc."},
	"amazon":                {"AMZN", "Amazon.com, Inc."},
	"google":                {"GOOGL", "Alphabet Inc."},
	"alphabet":              {"GOOGL", "Alphabet Inc."},
	"meta":                  {"META", "Meta Platforms, Inc."},
	"facebook":              {"META", "Meta Platforms, Inc."},
	"nvidia":                {"NVDA", "NVIDIA Corporation"},
	"netflix":               {"NFLX", "Netflix, Inc."},
	"berkshire":             {"BRK-B", "Berkshire Hathaway Inc."},
	"berkshire hathaway":    {"BRK-B", "Berkshire Hathaway Inc."},
	"jpmorgan":              {"JPM", "JPMorgan Chase & Co."},
	"jp morgan":             {"JPM", "JPMorgan Chase & Co."},
	"visa":                  {"V", "Visa Inc."},
	"mastercard":            {"MA", "Mastercard Incorporated"},
	"walmart":               {"WMT", "Walmart Inc."},
	"coca cola":             {"KO", "The Coca-Cola Company"},
	"coca-cola":             {"KO", "The Coca-Cola Company"},
	"pepsi":                 {"PEP", "PepsiCo, Inc."},
	"pepsico":               {"PEP", "PepsiCo, Inc."},
	"johnson & johnson":     {"JNJ", "Johnson & Johnson"},
	"intel":                 {"INTC", "Intel Corporation"},
	"amd":                   {"AMD", "Advanced Micro Devices, Inc."},
	"ibm":                   {"IBM", "International Business Machines Corporation"},
	"oracle":                {"ORCL", "Oracle Corporation"},
	"salesforce":            {"CRM", "Salesforce, Inc."},
	"adobe":                 {"ADBE", "Adobe Inc."},
	"paypal":                {"PYPL", "PayPal Holdings, Inc."},
	"disney":                {"DIS", "The Walt Disney Company"},
	"nike":                  {"NKE", "NIKE, Inc."},
	"mcdonalds":             {"MCD", "McDonald's Corporation"},
	"starbucks":             {"SBUX", "Starbucks Corporation"},
	"exxon":                 {"XOM", "Exxon Mobil Corporation"},
	"exxonmobil":            {"XOM", "Exxon Mobil Corporation"},
	"chevron":               {"CVX", "Chevron Corporation"},
	"pfizer":                {"PFE", "Pfizer Inc."},
	"broadcom":              {"AVGO", "Broadcom Inc."},
	"costco":                {"COST", "Costco Wholesale Corporation"},
	"palantir":              {"PLTR", "Palantir Technologies Inc."},
	"uber":                  {"UBER", "Uber Technologies, Inc."},
	"s&p 500":               {"SPY", "SPDR S&P 500 ETF Trust"},
	"sp500":                 {"SPY", "SPDR S&P 500 ETF Trust"},
	"s&p500":                {"SPY", "SPDR S&P 500 ETF Trust"},
	"nasdaq 100":            {"QQQ", "Invesco QQQ Trust"},
	"vanguard total market": {"VTI", "Vanguard Total Stock Market ETF"},
	"total stock market":    {"VTI", "Vanguard Total Stock Market ETF"},
	"vanguard s&p 500":      {"VOO", "Vanguard S&P 500 ETF"},
	"total world":           {"VT", "Vanguard Total World Stock ETF"},
	"total bond market":     {"BND", "Vanguard Total Bond Market ETF"},
	"bitcoin":               {"BTCUSD", "Bitcoin"},
	"ethereum":              {"ETHUSD", "Ethereum"},
	"solana":                {"SOLUSD", "Solana"},
}

// displayNames maps a ticker back to the display name of its first alias.
var displayNames = func() map[string]string {
	names := make(map[string]string, len(aliasTable))
	for _, t := range aliasTable {
		if _, ok := names[t.Symbol]; !ok {
			names[t.Symbol] = t.Name
		}
	}
	return names
}()

type aliasPattern struct {
	alias string
	re    *regexp.Regexp
}

// aliasPatterns holds whole-word matchers for every alias, longest first.
var aliasPatterns = func() []aliasPattern {
	keys := make([]string, 0, len(aliasTable))
	for k := range aliasTable {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})

	patterns := make([]aliasPattern, 0, len(keys))
	for _, k := range keys {
		patterns = append(patterns, aliasPattern{
			alias: k,
			re:    regexp.MustCompile(`(?i)(?:^|[^\p{L}\p{N}])` + regexp.QuoteMeta(k) + `(?:$|[^\p{L}\p{N}])`),
		})
	}
	return patterns
}()

func lookupAlias(normalized string) (aliasTarget, bool) {
	t, ok := aliasTable[normalized]
	return t, ok
}

// NameForSymbol returns the display name for a ticker, "" when unknown.
func NameForSymbol(symbol string) string {
	return displayNames[strings.ToUpper(strings.TrimSpace(symbol))]
}

// stopWords are dropped before phrase generation: generic English words plus
// finance nouns that never identify an instrument on their own.
var stopWords = toSet(
	// english
	"a", "about", "all", "also", "am", "an", "and", "any", "are", "as", "at", "be", "been",
	"before", "but", "by", "can", "could", "did", "do", "does", "doing", "for", "from", "get",
	"give", "go", "had", "has", "have", "how", "i", "if", "in", "into", "is", "it", "its", "just",
	"know", "latest", "let", "like", "look", "me", "more", "most", "much", "my", "need", "new", "now",
	"of", "on", "or", "our", "please", "right", "see", "should", "show", "so", "some", "tell",
	"than", "that", "the", "their", "them", "then", "there", "these", "they", "this", "to", "today",
	"up", "us", "vs", "want", "was", "we", "were", "what", "whats", "when", "where", "which", "who",
	"why", "will", "with", "would", "you", "your",
	// finance generic
	"analysis", "allocation", "buy", "chart", "company", "companies", "compare", "dividend",
	"dividends", "doing", "earnings", "etf", "etfs", "fund", "funds", "fundamentals", "headlines",
	"holding", "holdings", "invest", "investing", "investment", "market", "markets", "news",
	"outlook", "performance", "portfolio", "position", "positions", "price", "prices", "quote",
	"quotes", "rebalance", "return", "returns", "risk", "sell", "share", "shares", "stock", "stocks",
	"ticker", "tickers", "trade", "trading", "valuation", "value",
)

// nonTickers are upper-case tokens that look like tickers but are not.
var nonTickers = toSet(
	"AI", "API", "CEO", "CFO", "EPS", "ETF", "ETFS", "EU", "GDP", "IPO", "IRA", "OK", "PE", "ROI",
	"UK", "US", "USA", "USD", "EUR", "GBP", "YTD", "FAQ", "TLDR", "IMO", "ASAP",
	"AND", "BUY", "FOR", "HOLD", "NEWS", "SELL", "THE", "WHAT",
)

func toSet(words ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

// KnownInstruments returns symbol to display name for every aliased instrument.
func KnownInstruments() map[string]string {
	out := make(map[string]string, len(displayNames))
	for sym, name := range displayNames {
		out[sym] = name
	}
	return out
}
