package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/mapping"

	"FinAssist/internal/domain/models"
	"FinAssist/internal/domain/repository"
)

const (
	LocalDataSource = "LOCAL"
	maxHits         = 10
)

type document struct {
	Ticker   string `json:"ticker"`
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Exchange string `json:"exchange"`
	Type     string `json:"type"`
}

// IndexSearcher answers symbol searches from an in-memory bleve index.
type IndexSearcher struct {
	index bleve.Index
}

// NewIndexSearcher indexes listings in memory. Later duplicates of a symbol
// replace earlier ones.
func NewIndexSearcher(listings []Listing) (*IndexSearcher, error) {
	index, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("create index: %w", err)
	}

	batch := index.NewBatch()
	for _, l := range listings {
		doc := document{
			Ticker:   strings.ToLower(l.Symbol),
			Symbol:   l.Symbol,
			Name:     l.Name,
			Exchange: l.Exchange,
			Type:     l.Type,
		}
		if err := batch.Index(l.Symbol, doc); err != nil {
			return nil, fmt.Errorf("add to batch: %w", err)
		}
	}
	if err := index.Batch(batch); err != nil {
		return nil, fmt.Errorf("execute batch: %w", err)
	}
	return &IndexSearcher{index: index}, nil
}

func buildIndexMapping() mapping.IndexMapping {
	indexMapping := bleve.NewIndexMapping()
	docMapping := bleve.NewDocumentMapping()

	tickerField := bleve.NewTextFieldMapping()
	tickerField.Analyzer = keyword.Name
	tickerField.Store = false
	docMapping.AddFieldMappingsAt("ticker", tickerField)

	for _, name := range []string{"symbol", "name", "exchange", "type"} {
		f := bleve.NewTextFieldMapping()
		f.Store = true
		docMapping.AddFieldMappingsAt(name, f)
	}

	indexMapping.DefaultMapping = docMapping
	return indexMapping
}

func (s *IndexSearcher) Search(_ context.Context, req models.SearchRequest) (models.SearchResponse, error) {
	q := strings.ToLower(strings.TrimSpace(req.Query))
	if q == "" {
		return models.SearchResponse{}, nil
	}
	ticker := strings.TrimPrefix(q, "$")

	exact := bleve.NewTermQuery(ticker)
	exact.SetField("ticker")
	exact.SetBoost(10.0)

	prefix := bleve.NewPrefixQuery(ticker)
	prefix.SetField("ticker")
	prefix.SetBoost(5.0)

	nameMatch := bleve.NewMatchQuery(q)
	nameMatch.SetField("name")
	nameMatch.SetBoost(3.0)

	namePrefix := bleve.NewPrefixQuery(lastToken(q))
	namePrefix.SetField("name")
	namePrefix.SetBoost(1.5)

	searchRequest := bleve.NewSearchRequest(bleve.NewDisjunctionQuery(exact, prefix, nameMatch, namePrefix))
	searchRequest.Fields = []string{"symbol", "name", "exchange", "type"}
	searchRequest.Size = maxHits

	result, err := s.index.Search(searchRequest)
	if err != nil {
		return models.SearchResponse{}, fmt.Errorf("index search: %w", err)
	}

	items := make([]models.SearchItem, 0, len(result.Hits))
	for _, hit := range result.Hits {
		typ := fieldString(hit.Fields, "type")
		if !req.IncludeIndices && strings.EqualFold(typ, "index") {
			continue
		}
		items = append(items, models.SearchItem{
			Symbol:     fieldString(hit.Fields, "symbol"),
			Name:       fieldString(hit.Fields, "name"),
			Currency:   req.User.Currency,
			DataSource: LocalDataSource,
			AssetClass: strings.ToUpper(typ),
		})
	}
	return models.SearchResponse{Items: items}, nil
}

// Count reports the number of indexed listings.
func (s *IndexSearcher) Count() (uint64, error) {
	return s.index.DocCount()
}

func (s *IndexSearcher) Close() error {
	return s.index.Close()
}

func fieldString(fields map[string]interface{}, key string) string {
	if v, ok := fields[key].(string); ok {
		return v
	}
	return ""
}

func lastToken(q string) string {
	fields := strings.Fields(q)
	if len(fields) == 0 {
		return q
	}
	return fields[len(fields)-1]
}

var _ repository.SymbolSearcher = (*IndexSearcher)(nil)
