package repository

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DmitryShetinin/The-X-Shop-sub001/internal/domain"
)

func setupTestRepo(t *testing.T) (CartRepository, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
	t.Cleanup(func() { client.Close() })

	return NewRedisRepository(client), mr
}

func testLine(id, title string, qty int) domain.CartLine {
	return domain.CartLine{
		Product:  domain.Product{ID: id, Title: title, Price: 100},
		Quantity: qty,
		AddedAt:  time.Now(),
	}
}

func TestLoad_EmptyWhenNothingStored(t *testing.T) {
	repo, _ := setupTestRepo(t)

	lines, err := repo.Load(context.Background(), "s-1")
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	repo, _ := setupTestRepo(t)
	ctx := context.Background()

	saved := []domain.CartLine{
		testLine("p-1", "Mug", 2),
		{Product: domain.Product{ID: "p-2", Title: "Hoodie", Price: 3490}, Color: "Graphite", Size: "M", Quantity: 1},
	}
	require.NoError(t, repo.Save(ctx, "s-1", saved))

	lines, err := repo.Load(ctx, "s-1")
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.Equal(t, "p-1", lines[0].Product.ID)
	assert.Equal(t, "Graphite", lines[1].Color)
	assert.Equal(t, "M", lines[1].Size)
}

func TestLoad_MalformedJSONResetsStorage(t *testing.T) {
	repo, mr := setupTestRepo(t)
	mr.Set(cartKey("s-1"), "not-json")

	lines, err := repo.Load(context.Background(), "s-1")
	require.NoError(t, err)
	assert.Empty(t, lines)

	// Storage is overwritten with an empty list, not left corrupted.
	raw, errGet := mr.Get(cartKey("s-1"))
	require.NoError(t, errGet)
	assert.JSONEq(t, "[]", raw)
}

func TestLoad_DropsInvalidLinesAndRePersists(t *testing.T) {
	repo, mr := setupTestRepo(t)
	ctx := context.Background()

	stored := []domain.CartLine{
		testLine("p-1", "Mug", 2),
		testLine("", "No ID", 1),      // missing product id
		testLine("p-3", "", 1),        // missing title
		testLine("p-4", "Blanket", 0), // non-positive quantity
	}
	data, _ := json.Marshal(stored)
	mr.Set(cartKey("s-1"), string(data))

	lines, err := repo.Load(ctx, "s-1")
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, "p-1", lines[0].Product.ID)

	// The cleaned list replaced the stored one.
	raw, _ := mr.Get(cartKey("s-1"))
	var rePersisted []domain.CartLine
	require.NoError(t, json.Unmarshal([]byte(raw), &rePersisted))
	assert.Len(t, rePersisted, 1)
}

func TestClear_PersistsEmptyList(t *testing.T) {
	repo, mr := setupTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, "s-1", []domain.CartLine{testLine("p-1", "Mug", 1)}))
	require.NoError(t, repo.Clear(ctx, "s-1"))

	raw, err := mr.Get(cartKey("s-1"))
	require.NoError(t, err)
	assert.JSONEq(t, "[]", raw)
}

func TestSave_NilLinesStoredAsEmptyArray(t *testing.T) {
	repo, mr := setupTestRepo(t)

	require.NoError(t, repo.Save(context.Background(), "s-1", nil))

	raw, err := mr.Get(cartKey("s-1"))
	require.NoError(t, err)
	assert.Equal(t, "[]", raw)
}
