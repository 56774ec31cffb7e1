package search

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
)

// Listing is one instrument known to the local index.
type Listing struct {
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Exchange string `json:"exchange"`
	Type     string `json:"type"`
}

// LoadListings reads a CSV of Symbol,Name[,Exchange[,Type]] rows. A header row
// starting with "Symbol" is skipped.
func LoadListings(path string) ([]Listing, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open listings: %w", err)
	}
	defer f.Close()
	return ParseListings(f)
}

func ParseListings(r io.Reader) ([]Listing, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse listings: %w", err)
	}
	if len(records) > 0 && len(records[0]) > 0 && strings.EqualFold(strings.TrimSpace(records[0][0]), "symbol") {
		records = records[1:]
	}

	listings := make([]Listing, 0, len(records))
	for _, rec := range records {
		if len(rec) < 2 || strings.TrimSpace(rec[0]) == "" {
			continue
		}
		l := Listing{
			Symbol: strings.ToUpper(strings.TrimSpace(rec[0])),
			Name:   strings.TrimSpace(rec[1]),
		}
		if len(rec) > 2 {
			l.Exchange = strings.TrimSpace(rec[2])
		}
		if len(rec) > 3 {
			l.Type = strings.TrimSpace(rec[3])
		}
		listings = append(listings, l)
	}
	return listings, nil
}

// ListingsFromNames converts a symbol to name map into listings sorted by symbol.
func ListingsFromNames(names map[string]string) []Listing {
	out := make([]Listing, 0, len(names))
	for sym, name := range names {
		out = append(out, Listing{Symbol: sym, Name: name})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Symbol < out[j].Symbol })
	return out
}
