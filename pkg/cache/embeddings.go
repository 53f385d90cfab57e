package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// EmbeddingCache stores embedding vectors keyed by model and text.
type EmbeddingCache struct {
	client *RedisClient
	ttl    time.Duration
}

// NewEmbeddingCache wraps a Redis client. A zero ttl keeps entries forever.
func NewEmbeddingCache(client *RedisClient, ttl time.Duration) *EmbeddingCache {
	return &EmbeddingCache{client: client, ttl: ttl}
}

// EmbeddingKey is embedding:<model>:<sha256 of text>.
func EmbeddingKey(model, text string) string {
	sum := sha256.Sum256([]byte(text))
	return fmt.Sprintf("embedding:%s:%s", model, hex.EncodeToString(sum[:]))
}

// Get returns the cached vector; found is false on a miss.
func (c *EmbeddingCache) Get(ctx context.Context, model, text string) (vec []float32, found bool, err error) {
	raw, err := c.client.GetClient().Get(ctx, EmbeddingKey(model, text)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get embedding from Redis: %w", err)
	}
	if err := json.Unmarshal(raw, &vec); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal cached embedding: %w", err)
	}
	return vec, true, nil
}

// Set stores a vector.
func (c *EmbeddingCache) Set(ctx context.Context, model, text string, vec []float32) error {
	raw, err := json.Marshal(vec)
	if err != nil {
		return fmt.Errorf("failed to marshal embedding: %w", err)
	}
	if err := c.client.GetClient().Set(ctx, EmbeddingKey(model, text), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set embedding in Redis: %w", err)
	}
	return nil
}
