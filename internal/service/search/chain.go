package search

import (
	"context"
	"errors"

	"FinAssist/internal/domain/models"
	"FinAssist/internal/domain/repository"
	applogger "FinAssist/pkg/logger"
)

// Chain queries searchers in order and returns the first non-empty answer.
// It fails only when every searcher failed.
type Chain struct {
	searchers []repository.SymbolSearcher
	logger    *applogger.Logger
}

func NewChain(logger *applogger.Logger, searchers ...repository.SymbolSearcher) *Chain {
	list := make([]repository.SymbolSearcher, 0, len(searchers))
	for _, s := range searchers {
		if s != nil {
			list = append(list, s)
		}
	}
	return &Chain{searchers: list, logger: applogger.OrNop(logger)}
}

func (c *Chain) Search(ctx context.Context, req models.SearchRequest) (models.SearchResponse, error) {
	var errs []error
	for i, s := range c.searchers {
		resp, err := s.Search(ctx, req)
		if err != nil {
			c.logger.Warn("Symbol searcher failed",
				applogger.Int("position", i),
				applogger.String("query", req.Query),
				applogger.Error(err),
			)
			errs = append(errs, err)
			continue
		}
		if len(resp.Items) > 0 {
			return resp, nil
		}
	}
	if len(errs) > 0 && len(errs) == len(c.searchers) {
		return models.SearchResponse{}, errors.Join(errs...)
	}
	return models.SearchResponse{}, nil
}

var _ repository.SymbolSearcher = (*Chain)(nil)
