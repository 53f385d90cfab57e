package embedding

import (
	"context"

	"github.com/nostalgiabin/catalog-service/pkg/cache"
	"github.com/nostalgiabin/catalog-service/pkg/logging"
)

// CachedEmbedder checks the embedding cache before calling the service.
// Cache errors are logged and otherwise ignored.
type CachedEmbedder struct {
	next  Embedder
	cache *cache.EmbeddingCache
	model string
}

// NewCachedEmbedder wraps next. model namespaces the cache keys.
func NewCachedEmbedder(next Embedder, c *cache.EmbeddingCache, model string) *CachedEmbedder {
	return &CachedEmbedder{next: next, cache: c, model: model}
}

// Embed returns the cached vector or asks next and caches its answer.
func (e *CachedEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vec, found, err := e.cache.Get(ctx, e.model, text)
	if err != nil {
		logging.Warn().Err(err).Msg("Embedding cache read failed")
	}
	if found {
		return vec, nil
	}

	vec, err = e.next.Embed(ctx, text)
	if err != nil {
		return nil, err
	}

	if err := e.cache.Set(ctx, e.model, text, vec); err != nil {
		logging.Warn().Err(err).Msg("Embedding cache write failed")
	}
	return vec, nil
}
