package redis

import (
	"adPulse/business/similarity"
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// SimilarityCache fronts the winning_patterns table for the per-cycle
// similarity lookups the scorer makes.
type SimilarityCache struct {
	client *redis.Client
}

var _ similarity.PatternCache = (*SimilarityCache)(nil)

func NewSimilarityCache(client *redis.Client) *SimilarityCache {
	return &SimilarityCache{
		client: client,
	}
}

func similarityKey(creativeKey string) string {
	return fmt.Sprintf("similarity:creative:%s", creativeKey)
}

func (c *SimilarityCache) GetSimilarity(ctx context.Context, creativeKey string) (float64, bool, error) {
	val, err := c.client.Get(ctx, similarityKey(creativeKey)).Result()
	if err != nil {
		if err == redis.Nil {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("failed to get similarity from Redis: %w", err)
	}

	sim, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, false, fmt.Errorf("failed to parse cached similarity: %w", err)
	}

	return sim, true, nil
}

func (c *SimilarityCache) SetSimilarity(ctx context.Context, creativeKey string, similarity float64, ttl time.Duration) error {
	val := strconv.FormatFloat(similarity, 'f', -1, 64)

	if err := c.client.Set(ctx, similarityKey(creativeKey), val, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store similarity in Redis: %w", err)
	}

	return nil
}

func (c *SimilarityCache) InvalidateSimilarity(ctx context.Context, creativeKey string) error {
	if err := c.client.Del(ctx, similarityKey(creativeKey)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate similarity: %w", err)
	}

	return nil
}
