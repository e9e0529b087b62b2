package cache

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DmitryShetinin/The-X-Shop-sub001/internal/domain"
)

func setupTestRedis(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
	t.Cleanup(func() { client.Close() })

	return NewRedisCache(client), mr
}

func TestGet_Success(t *testing.T) {
	cache, mr := setupTestRedis(t)
	ctx := context.Background()

	products := []domain.DisplayProduct{
		{Product: domain.Product{ID: "p-1", Title: "Mug", Price: 100}},
		{Product: domain.Product{ID: "p-2-red", Title: "Hoodie"}, ParentID: "p-2", Color: "red", FromColorVariant: true},
	}
	data, _ := json.Marshal(products)
	mr.Set(catalogKey, string(data))

	result, err := cache.Get(ctx)
	require.NoError(t, err)
	require.Len(t, result, 2)
	assert.Equal(t, "p-1", result[0].ID)
	assert.Equal(t, "p-2", result[1].ParentID)
	assert.True(t, result[1].FromColorVariant)
}

func TestGet_CacheMiss(t *testing.T) {
	cache, _ := setupTestRedis(t)

	result, err := cache.Get(context.Background())
	assert.ErrorIs(t, err, ErrCacheMiss)
	assert.Nil(t, result)
}

func TestGet_InvalidJSON(t *testing.T) {
	cache, mr := setupTestRedis(t)
	mr.Set(catalogKey, "not-json")

	_, err := cache.Get(context.Background())
	assert.ErrorContains(t, err, "unmarshal catalog failed")
}

func TestSet_RoundTrip(t *testing.T) {
	cache, mr := setupTestRedis(t)
	ctx := context.Background()

	products := []domain.DisplayProduct{
		{Product: domain.Product{ID: "p-1", Title: "Mug", Price: 100}},
	}
	require.NoError(t, cache.Set(ctx, products))
	assert.True(t, mr.Exists(catalogKey))

	result, err := cache.Get(ctx)
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, "Mug", result[0].Title)
}
