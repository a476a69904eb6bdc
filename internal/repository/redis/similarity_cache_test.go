package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis, func()) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	cleanup := func() {
		client.Close()
		mr.Close()
	}
	return client, mr, cleanup
}

func TestSimilarityCacheMissReturnsNotFound(t *testing.T) {
	client, _, cleanup := setupTestRedis(t)
	defer cleanup()

	cache := NewSimilarityCache(client)
	sim, found, err := cache.GetSimilarity(context.Background(), "hero-video-v2")

	require.NoError(t, err)
	assert.False(t, found)
	assert.Equal(t, 0.0, sim)
}

func TestSimilarityCacheRoundTrip(t *testing.T) {
	client, mr, cleanup := setupTestRedis(t)
	defer cleanup()

	cache := NewSimilarityCache(client)
	ctx := context.Background()

	err := cache.SetSimilarity(ctx, "hero-video-v2", 0.73, time.Hour)
	require.NoError(t, err)

	sim, found, err := cache.GetSimilarity(ctx, "hero-video-v2")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 0.73, sim)

	// stored under the creative-scoped key
	assert.True(t, mr.Exists("similarity:creative:hero-video-v2"))
}

func TestSimilarityCacheEntryExpires(t *testing.T) {
	client, mr, cleanup := setupTestRedis(t)
	defer cleanup()

	cache := NewSimilarityCache(client)
	ctx := context.Background()

	require.NoError(t, cache.SetSimilarity(ctx, "hero-video-v2", 0.5, time.Minute))

	mr.FastForward(2 * time.Minute)

	_, found, err := cache.GetSimilarity(ctx, "hero-video-v2")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestSimilarityCacheInvalidate(t *testing.T) {
	client, _, cleanup := setupTestRedis(t)
	defer cleanup()

	cache := NewSimilarityCache(client)
	ctx := context.Background()

	require.NoError(t, cache.SetSimilarity(ctx, "hero-video-v2", 0.9, time.Hour))
	require.NoError(t, cache.InvalidateSimilarity(ctx, "hero-video-v2"))

	_, found, err := cache.GetSimilarity(ctx, "hero-video-v2")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestSimilarityCacheRejectsCorruptValue(t *testing.T) {
	client, mr, cleanup := setupTestRedis(t)
	defer cleanup()

	require.NoError(t, mr.Set("similarity:creative:hero-video-v2", "not-a-float"))

	cache := NewSimilarityCache(client)
	_, found, err := cache.GetSimilarity(context.Background(), "hero-video-v2")

	require.Error(t, err)
	assert.False(t, found)
}
