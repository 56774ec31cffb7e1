package models

// NewsItem is a single headline returned by the news-search collaborator.
type NewsItem struct {
	Title         string `json:"title"`
	Link          string `json:"link"`
	Snippet       string `json:"snippet"`
	Source        string `json:"source"`
	PublishedDate string `json:"publishedDate,omitempty"`
}

type NewsSearchResult struct {
	Results []NewsItem `json:"results"`
	Success bool       `json:"success"`
}

// NewsDigest is the aggregated per-symbol news output.
type NewsDigest struct {
	FormattedSummary      string                `json:"formattedSummary"`
	SearchResultsBySymbol map[string][]NewsItem `json:"searchResultsBySymbol"`
	Success               bool                  `json:"success"`
	SymbolsSearched       []string              `json:"symbolsSearched"`
}
