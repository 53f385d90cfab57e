package embedding

import (
	"context"
	"fmt"

	"github.com/nostalgiabin/catalog-service/pkg/cache"
	"github.com/nostalgiabin/catalog-service/pkg/config"
	"github.com/nostalgiabin/catalog-service/pkg/logging"
)

// FromConfig builds the OpenAI embedder, wrapped in the Redis cache when
// REDIS_ADDR is configured. The returned func releases the cache connection.
func FromConfig(ctx context.Context, cfg config.EmbeddingConfig) (Embedder, func(), error) {
	client := NewOpenAIEmbedder(cfg.APIKey, cfg.BaseURL, cfg.Model, cfg.Dimensions)
	if cfg.RedisAddr == "" {
		return client, func() {}, nil
	}

	redisClient, err := cache.NewRedisClient(ctx, cfg.RedisAddr)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize embedding cache: %w", err)
	}
	logging.Info().Str("addr", cfg.RedisAddr).Dur("ttl", cfg.CacheTTL).Msg("Embedding cache enabled")

	cached := NewCachedEmbedder(client, cache.NewEmbeddingCache(redisClient, cfg.CacheTTL), client.CacheNamespace())
	return cached, redisClient.Close, nil
}
