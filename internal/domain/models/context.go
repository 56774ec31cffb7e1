package models

import "time"

// MemoryTurn is one prior exchange of the conversation, owned by the caller.
type MemoryTurn struct {
	Query     string    `json:"query"`
	Answer    string    `json:"answer"`
	Timestamp time.Time `json:"timestamp"`
	ToolCalls []string  `json:"toolCalls,omitempty"`
}

// Holding is one position in a portfolio analysis. Allocation is a fraction in [0,1].
type Holding struct {
	Symbol     string  `json:"symbol"`
	Name       string  `json:"name,omitempty"`
	Allocation float64 `json:"allocationInPercentage"`
	Value      float64 `json:"valueInBaseCurrency"`
	DataSource string  `json:"dataSource,omitempty"`
}

type PortfolioAnalysis struct {
	Holdings     []Holding `json:"holdings"`
	TotalValue   float64   `json:"totalValueInBaseCurrency"`
	BaseCurrency string    `json:"baseCurrency,omitempty"`
}

type RiskAssessment struct {
	ConcentrationBand    string  `json:"concentrationBand"`
	HHI                  float64 `json:"hhi"`
	TopHoldingAllocation float64 `json:"topHoldingAllocation"`
	TopHoldingSymbol     string  `json:"topHoldingSymbol,omitempty"`
}

type RebalanceHolding struct {
	Symbol            string  `json:"symbol"`
	CurrentAllocation float64 `json:"currentAllocation"`
	Delta             float64 `json:"delta,omitempty"`
}

type RebalancePlan struct {
	Overweight       []RebalanceHolding `json:"overweightHoldings"`
	Underweight      []RebalanceHolding `json:"underweightHoldings"`
	TargetAllocation float64            `json:"maxAllocationTarget"`
}

type StressTest struct {
	ShockPercentage          float64 `json:"shockPercentage"`
	EstimatedDrawdown        float64 `json:"estimatedDrawdownInBaseCurrency"`
	EstimatedValueAfterShock float64 `json:"estimatedPortfolioValueAfterShock,omitempty"`
	LongExposure             float64 `json:"longExposureInBaseCurrency,omitempty"`
}

type Quote struct {
	Symbol        string  `json:"symbol"`
	Price         float64 `json:"marketPrice"`
	Currency      string  `json:"currency,omitempty"`
	ChangePercent float64 `json:"changePercent,omitempty"`
}

type MarketData struct {
	RequestedSymbols []string         `json:"symbolsRequested"`
	Quotes           map[string]Quote `json:"quotes"`
}

// StructuredContext bundles whatever upstream tools produced. Every field is optional.
type StructuredContext struct {
	Portfolio         *PortfolioAnalysis `json:"portfolioAnalysis,omitempty"`
	Risk              *RiskAssessment    `json:"riskAssessment,omitempty"`
	Rebalance         *RebalancePlan     `json:"rebalancePlan,omitempty"`
	Stress            *StressTest        `json:"stressTest,omitempty"`
	Market            *MarketData        `json:"marketData,omitempty"`
	AssetFundamentals string             `json:"assetFundamentalsSummary,omitempty"`
	FinancialNews     string             `json:"financialNewsSummary,omitempty"`
	AdditionalContext []string           `json:"additionalContextSummaries,omitempty"`
}

// IsEmpty reports whether no context field is populated.
func (c StructuredContext) IsEmpty() bool {
	return c.Portfolio == nil && c.Risk == nil && c.Rebalance == nil && c.Stress == nil &&
		c.Market == nil && c.AssetFundamentals == "" && c.FinancialNews == "" && len(c.AdditionalContext) == 0
}

// ChatMessage is one message sent to the text-generation collaborator.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

type GenerationRequest struct {
	Model    string        `json:"model"`
	Messages []ChatMessage `json:"messages"`
}
