package loader

import (
	"context"
	"fmt"

	"github.com/nostalgiabin/catalog-service/models"
	"github.com/nostalgiabin/catalog-service/pkg/database"
	"github.com/nostalgiabin/catalog-service/pkg/embedding"
)

// Searcher answers free-text similarity queries against a store.
type Searcher struct {
	store    database.Store
	embedder embedding.Embedder
}

func NewSearcher(store database.Store, embedder embedding.Embedder) *Searcher {
	return &Searcher{store: store, embedder: embedder}
}

// Search embeds text and returns the topN nearest products. filter is a raw
// conjunctive condition without the WHERE keyword; empty means none.
func (s *Searcher) Search(ctx context.Context, text string, topN int, filter string) ([]models.SearchResult, error) {
	vec, err := s.embedder.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}
	return s.store.SimilaritySearch(ctx, database.SimilarityQuery{
		Vector: vec,
		Filter: filter,
		Limit:  topN,
	})
}
