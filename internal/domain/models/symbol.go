package models

import "time"

// ResolvedSymbol is the outcome of resolving one entity mention.
type ResolvedSymbol struct {
	Symbol     string  `json:"symbol"`
	Name       string  `json:"name"`
	DataSource string  `json:"dataSource"`
	Confidence float64 `json:"confidence"`
	Cached     bool    `json:"cached"`
}

// CacheEntry is what either cache tier stores for a resolved entity.
type CacheEntry struct {
	Symbol     string    `json:"symbol"`
	Name       string    `json:"name"`
	DataSource string    `json:"dataSource"`
	ResolvedAt time.Time `json:"resolvedAt"`
}

// UserContext identifies who a lookup is made for.
type UserContext struct {
	UserID   string `json:"userId"`
	Currency string `json:"currency,omitempty"`
	Language string `json:"language,omitempty"`
}

// SearchRequest is sent to the data-provider search collaborator.
type SearchRequest struct {
	Query          string
	User           UserContext
	IncludeIndices bool
}

// SearchItem is a single match returned by the search collaborator.
type SearchItem struct {
	Symbol        string `json:"symbol"`
	Name          string `json:"name"`
	Currency      string `json:"currency,omitempty"`
	DataSource    string `json:"dataSource"`
	AssetClass    string `json:"assetClass,omitempty"`
	AssetSubClass string `json:"assetSubClass,omitempty"`
}

type SearchResponse struct {
	Items []SearchItem `json:"items"`
}
