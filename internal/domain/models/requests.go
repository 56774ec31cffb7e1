package models

// Requests for the agent HTTP endpoints.

type ChatRequest struct {
	UserID  string            `json:"userId" validate:"required,max=128"`
	Query   string            `json:"query" validate:"required,max=4000"`
	Context StructuredContext `json:"context"`
	Memory  []MemoryTurn      `json:"memory" validate:"max=50"`
}

type ChatResponse struct {
	Answer            string          `json:"answer"`
	Preferences       UserPreferences `json:"preferences"`
	PreferenceUpdated bool            `json:"preferenceUpdated"`
	Symbols           []string        `json:"symbols,omitempty"`
}

type ResolveRequest struct {
	Query  string `query:"q" json:"q" validate:"required,max=500"`
	UserID string `query:"userId" json:"userId"`
}

type ResolveResponse struct {
	Entities []string         `json:"entities"`
	Symbols  []string         `json:"symbols"`
	Resolved []ResolvedSymbol `json:"resolved"`
}

type NewsRequest struct {
	Symbols string `query:"symbols" json:"symbols" validate:"required"`
	Limit   int    `query:"limit" json:"limit" default:"5" validate:"gte=1,lte=20"`
}

type PreferencesRequest struct {
	UserID string `param:"userId" json:"userId" validate:"required,max=128"`
}

type PreferencesResponse struct {
	Preferences UserPreferences `json:"preferences"`
	Summary     string          `json:"summary"`
}
