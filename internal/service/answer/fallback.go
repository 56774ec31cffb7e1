package answer

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"FinAssist/internal/domain/models"
)

const (
	maxOverviewHoldings     = 5
	maxCompactHoldings      = 3
	maxCompactHeadlines     = 3
	defaultTargetAllocation = 0.25
)

var numberedHeadline = regexp.MustCompile(`^\s*\d+\.\s+(.+)$`)

// GenericGuidance is returned when no context qualifies for any section.
const GenericGuidance = "I couldn't complete a full analysis just now. Ask about your holdings, allocation, " +
	"concentration risk or a specific symbol and I'll answer from your portfolio data."

type fallbackInput struct {
	context models.StructuredContext
	intents Intents
	concise bool
}

// section is one independently rendered part of the fallback answer. compact,
// when set, is used for concise answers and must not start with a bare
// heading.
type section struct {
	name    string
	applies func(in fallbackInput) bool
	render  func(in fallbackInput) []string
	compact func(in fallbackInput) []string
}

var fallbackSections = []section{
	{
		name: "portfolio_overview",
		applies: func(in fallbackInput) bool {
			return in.context.Portfolio != nil && len(longHoldings(in.context.Portfolio)) > 0
		},
		render:  renderPortfolioOverview,
		compact: compactPortfolioOverview,
	},
	{
		name: "recommendation",
		applies: func(in fallbackInput) bool {
			return in.context.Risk != nil || in.intents.Action
		},
		render:  renderRecommendation,
		compact: compactRecommendation,
	},
	{
		name: "rebalance_priorities",
		applies: func(in fallbackInput) bool {
			r := in.context.Rebalance
			return r != nil && (len(r.Overweight) > 0 || len(r.Underweight) > 0 || r.TargetAllocation > 0)
		},
		render:  renderRebalance,
		compact: compactRebalance,
	},
	{
		name:    "stress_test",
		applies: func(in fallbackInput) bool { return in.context.Stress != nil },
		render:  renderStress,
	},
	{
		name: "market_snapshot",
		applies: func(in fallbackInput) bool {
			m := in.context.Market
			return m != nil && (len(m.RequestedSymbols) > 0 || len(m.Quotes) > 0)
		},
		render:  renderMarket,
		compact: compactMarket,
	},
	{
		name: "fundamentals",
		applies: func(in fallbackInput) bool {
			return in.intents.Fundamentals && strings.TrimSpace(in.context.AssetFundamentals) != ""
		},
		render:  renderFundamentals,
		compact: compactFundamentals,
	},
	{
		name: "news_brief",
		applies: func(in fallbackInput) bool {
			return in.intents.News && strings.TrimSpace(in.context.FinancialNews) != ""
		},
		render:  renderNews,
		compact: compactNews,
	},
	{
		name: "additional_context",
		applies: func(in fallbackInput) bool {
			return len(nonEmpty(in.context.AdditionalContext)) > 0
		},
		render: func(in fallbackInput) []string { return nonEmpty(in.context.AdditionalContext) },
	},
}

// composeFallback renders every applicable section in order, separated by a
// blank line, or the generic guidance when nothing applies.
func composeFallback(in fallbackInput) string {
	blocks := make([]string, 0, len(fallbackSections))
	for _, s := range fallbackSections {
		if !s.applies(in) {
			continue
		}
		render := s.render
		if in.concise && s.compact != nil {
			render = s.compact
		}
		if lines := render(in); len(lines) > 0 {
			blocks = append(blocks, strings.Join(lines, "\n"))
		}
	}
	if len(blocks) == 0 {
		return GenericGuidance
	}
	return strings.Join(blocks, "\n\n")
}

// truncateLines keeps the first n non-empty lines of s.
func truncateLines(s string, n int) string {
	out := make([]string, 0, n)
	for _, line := range strings.Split(s, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		out = append(out, line)
		if len(out) == n {
			break
		}
	}
	return strings.Join(out, "\n")
}

func sortedLongHoldings(p *models.PortfolioAnalysis) []models.Holding {
	holdings := longHoldings(p)
	sort.SliceStable(holdings, func(i, j int) bool {
		if holdings[i].Allocation != holdings[j].Allocation {
			return holdings[i].Allocation > holdings[j].Allocation
		}
		return holdings[i].Symbol < holdings[j].Symbol
	})
	return holdings
}

func portfolioHeader(p *models.PortfolioAnalysis, count int) string {
	noun := "holdings"
	if count == 1 {
		noun = "holding"
	}
	header := fmt.Sprintf("Portfolio overview: %d %s", count, noun)
	if p.TotalValue > 0 {
		header += fmt.Sprintf(", total value %s", money(p.TotalValue, p.BaseCurrency))
	}
	return header + "."
}

func renderPortfolioOverview(in fallbackInput) []string {
	p := in.context.Portfolio
	holdings := sortedLongHoldings(p)
	lines := []string{portfolioHeader(p, len(holdings)), "Largest long allocations:"}

	if len(holdings) > maxOverviewHoldings {
		holdings = holdings[:maxOverviewHoldings]
	}
	for _, h := range holdings {
		line := fmt.Sprintf("- %s: %s", h.Symbol, percent(h.Allocation))
		if h.Value > 0 {
			line += fmt.Sprintf(" (%s)", money(h.Value, p.BaseCurrency))
		}
		lines = append(lines, line)
	}
	return lines
}

func compactPortfolioOverview(in fallbackInput) []string {
	p := in.context.Portfolio
	holdings := sortedLongHoldings(p)
	header := portfolioHeader(p, len(holdings))

	if len(holdings) > maxCompactHoldings {
		holdings = holdings[:maxCompactHoldings]
	}
	parts := make([]string, 0, len(holdings))
	for _, h := range holdings {
		parts = append(parts, fmt.Sprintf("%s %s", h.Symbol, percent(h.Allocation)))
	}
	return []string{header, "Largest long allocations: " + strings.Join(parts, ", ") + "."}
}

func recommendationOptions(sc models.StructuredContext) []string {
	top := topHoldingSymbol(sc)
	target := percent(targetAllocation(sc))
	return []string{
		fmt.Sprintf("Option 1 (new money first): direct new contributions to underweight positions or a broad index fund until %s is below %s of the portfolio. No sales are required.", top, target),
		fmt.Sprintf("Option 2 (sell and rebalance): trim %s toward %s and redeploy the proceeds into underweight or diversified holdings. Check tax lots and trading costs before selling.", top, target),
	}
}

func compactRecommendation(in fallbackInput) []string {
	return recommendationOptions(in.context)
}

func renderRecommendation(in fallbackInput) []string {
	top := topHoldingSymbol(in.context)
	target := percent(targetAllocation(in.context))

	lines := append([]string{"Two ways to reduce concentration:"}, recommendationOptions(in.context)...)
	lines = append(lines,
		"Assumptions:",
		"- Allocations come from the latest portfolio snapshot.",
		fmt.Sprintf("- Target cap per holding is %s.", target),
		"- Taxes and transaction costs are not modeled.",
	)

	if r := in.context.Risk; r != nil {
		lines = append(lines, "Risk notes:")
		if band := strings.TrimSpace(r.ConcentrationBand); band != "" {
			lines = append(lines, fmt.Sprintf("- Concentration band: %s (HHI %s).", strings.ToUpper(band), ratio(r.HHI)))
		}
		if r.TopHoldingAllocation > 0 {
			lines = append(lines, fmt.Sprintf("- Largest holding %s is %s of the portfolio.", top, percent(r.TopHoldingAllocation)))
		}
		if in.context.Portfolio != nil && len(longHoldings(in.context.Portfolio)) < 5 {
			lines = append(lines, "- Fewer than five long positions leaves little room to absorb a single-name drawdown.")
		}
	}

	lines = append(lines,
		"Next questions:",
		"- Do you want to avoid realizing capital gains this year?",
		"- Is there new cash you plan to invest soon?",
		"- What maximum allocation per holding are you comfortable with?",
	)
	return lines
}

func rebalanceEntries(r *models.RebalancePlan) []string {
	entries := make([]string, 0, len(r.Overweight)+len(r.Underweight))
	for _, h := range r.Overweight {
		entries = append(entries, fmt.Sprintf("Reduce %s from %s (overweight).", h.Symbol, percent(h.CurrentAllocation)))
	}
	for _, h := range r.Underweight {
		entries = append(entries, fmt.Sprintf("Add to %s at %s (underweight).", h.Symbol, percent(h.CurrentAllocation)))
	}
	return entries
}

func renderRebalance(in fallbackInput) []string {
	r := in.context.Rebalance
	lines := []string{"Rebalance priorities:"}
	for _, e := range rebalanceEntries(r) {
		lines = append(lines, "- "+e)
	}
	if r.TargetAllocation > 0 {
		lines = append(lines, fmt.Sprintf("Target maximum allocation per holding: %s.", percent(r.TargetAllocation)))
	}
	return lines
}

func compactRebalance(in fallbackInput) []string {
	r := in.context.Rebalance
	entries := rebalanceEntries(r)
	if len(entries) == 0 {
		return []string{fmt.Sprintf("Target maximum allocation per holding: %s.", percent(r.TargetAllocation))}
	}
	return []string{"Rebalance priorities: " + strings.Join(entries, " ")}
}

func renderStress(in fallbackInput) []string {
	s := in.context.Stress
	shock := s.ShockPercentage
	if shock < 0 {
		shock = -shock
	}
	line := fmt.Sprintf("Stress test (-%s market shock): estimated drawdown %s", percent(shock), money(s.EstimatedDrawdown, baseCurrency(in.context)))
	if s.EstimatedValueAfterShock > 0 {
		line += fmt.Sprintf(", portfolio value after shock %s", money(s.EstimatedValueAfterShock, baseCurrency(in.context)))
	}
	return []string{line + "."}
}

func marketEntries(m *models.MarketData) []string {
	symbols := m.RequestedSymbols
	if len(symbols) == 0 {
		for sym := range m.Quotes {
			symbols = append(symbols, sym)
		}
		sort.Strings(symbols)
	}

	entries := make([]string, 0, len(symbols))
	for _, sym := range symbols {
		q, ok := lookupQuote(m.Quotes, sym)
		if !ok || q.Price <= 0 {
			entries = append(entries, fmt.Sprintf("%s: no quote coverage from the current data provider.", strings.ToUpper(sym)))
			continue
		}
		entry := fmt.Sprintf("%s: %s", strings.ToUpper(sym), money(q.Price, q.Currency))
		if q.ChangePercent != 0 {
			entry += fmt.Sprintf(" (%s%% today)", decimal.NewFromFloat(q.ChangePercent).StringFixed(2))
		}
		entries = append(entries, entry)
	}
	return entries
}

func renderMarket(in fallbackInput) []string {
	lines := []string{"Market snapshot:"}
	for _, e := range marketEntries(in.context.Market) {
		lines = append(lines, "- "+e)
	}
	return lines
}

func compactMarket(in fallbackInput) []string {
	return []string{"Market snapshot: " + strings.Join(marketEntries(in.context.Market), "; ")}
}

func renderFundamentals(in fallbackInput) []string {
	return []string{
		"Fundamentals:",
		strings.TrimSpace(in.context.AssetFundamentals),
		"Decision checklist:",
		"- Does the valuation leave room for error against expected growth?",
		"- Are revenue and earnings trends durable over the next few years?",
		"- Would the balance sheet hold up if funding conditions tighten?",
		"- Would adding this position push a single holding above your target allocation?",
	}
}

func compactFundamentals(in fallbackInput) []string {
	return []string{"Fundamentals: " + strings.TrimSpace(in.context.AssetFundamentals)}
}

func compactNews(in fallbackInput) []string {
	headlines := make([]string, 0, maxCompactHeadlines)
	for _, line := range strings.Split(in.context.FinancialNews, "\n") {
		if m := numberedHeadline.FindStringSubmatch(line); m != nil {
			headlines = append(headlines, strings.TrimSpace(m[1]))
			if len(headlines) == maxCompactHeadlines {
				break
			}
		}
	}
	if len(headlines) == 0 {
		return []string{"News brief: " + firstLine(in.context.FinancialNews)}
	}
	return []string{"News brief: " + strings.Join(headlines, "; ") + "."}
}

func firstLine(s string) string {
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			return line
		}
	}
	return ""
}

func renderNews(in fallbackInput) []string {
	return []string{
		"News brief:",
		strings.TrimSpace(in.context.FinancialNews),
		"Watch next: follow-up coverage on these headlines and the next earnings date before acting on them.",
	}
}

func longHoldings(p *models.PortfolioAnalysis) []models.Holding {
	if p == nil {
		return nil
	}
	out := make([]models.Holding, 0, len(p.Holdings))
	for _, h := range p.Holdings {
		if strings.TrimSpace(h.Symbol) != "" && h.Allocation > 0 {
			out = append(out, h)
		}
	}
	return out
}

func topHoldingSymbol(sc models.StructuredContext) string {
	if sc.Risk != nil && sc.Risk.TopHoldingSymbol != "" {
		return sc.Risk.TopHoldingSymbol
	}
	var top models.Holding
	for _, h := range longHoldings(sc.Portfolio) {
		if h.Allocation > top.Allocation {
			top = h
		}
	}
	if top.Symbol != "" {
		return top.Symbol
	}
	return "your largest position"
}

func targetAllocation(sc models.StructuredContext) float64 {
	if sc.Rebalance != nil && sc.Rebalance.TargetAllocation > 0 {
		return sc.Rebalance.TargetAllocation
	}
	return defaultTargetAllocation
}

func baseCurrency(sc models.StructuredContext) string {
	if sc.Portfolio != nil {
		return sc.Portfolio.BaseCurrency
	}
	return ""
}

func lookupQuote(quotes map[string]models.Quote, symbol string) (models.Quote, bool) {
	if q, ok := quotes[symbol]; ok {
		return q, true
	}
	q, ok := quotes[strings.ToUpper(strings.TrimSpace(symbol))]
	return q, ok
}

func nonEmpty(items []string) []string {
	out := make([]string, 0, len(items))
	for _, s := range items {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// percent renders a fraction as a percentage with one decimal.
func percent(fraction float64) string {
	return decimal.NewFromFloat(fraction).Mul(decimal.NewFromInt(100)).StringFixed(1) + "%"
}

func ratio(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

func money(v float64, currency string) string {
	s := decimal.NewFromFloat(v).StringFixed(2)
	if currency = strings.TrimSpace(currency); currency != "" {
		return s + " " + strings.ToUpper(currency)
	}
	return s
}
