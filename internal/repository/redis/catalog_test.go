package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/storefront/internal/domain"
	apperrors "github.com/utafrali/storefront/pkg/errors"
)

func setupTestCache(t *testing.T) (*CatalogCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewCatalogCache(client), mr
}

func sampleItem() *domain.Item {
	return &domain.Item{
		ID:        "item-001",
		Title:     "Wool Hat",
		Slug:      "wool-hat",
		Price:     2500,
		CreatedAt: time.Now().UTC().Truncate(time.Millisecond),
	}
}

func TestCatalogCache_ItemRoundTrip(t *testing.T) {
	cache, _ := setupTestCache(t)
	ctx := context.Background()
	item := sampleItem()

	require.NoError(t, cache.SetItem(ctx, item, time.Minute))

	got, err := cache.GetItem(ctx, "wool-hat")
	require.NoError(t, err)
	assert.Equal(t, item, got)
}

func TestCatalogCache_GetItem_Miss(t *testing.T) {
	cache, _ := setupTestCache(t)

	_, err := cache.GetItem(context.Background(), "missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestCatalogCache_ItemExpires(t *testing.T) {
	cache, mr := setupTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.SetItem(ctx, sampleItem(), time.Minute))
	mr.FastForward(2 * time.Minute)

	_, err := cache.GetItem(ctx, "wool-hat")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestCatalogCache_ListRoundTrip(t *testing.T) {
	cache, _ := setupTestCache(t)
	ctx := context.Background()

	items := []domain.Item{*sampleItem()}
	require.NoError(t, cache.SetList(ctx, "page:1:per_page:20", items, 42, time.Minute))

	got, total, err := cache.GetList(ctx, "page:1:per_page:20")
	require.NoError(t, err)
	assert.Equal(t, items, got)
	assert.Equal(t, 42, total)
}

func TestCatalogCache_GetList_Miss(t *testing.T) {
	cache, _ := setupTestCache(t)

	_, _, err := cache.GetList(context.Background(), "page:9")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestCatalogCache_Invalidate(t *testing.T) {
	cache, mr := setupTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.SetItem(ctx, sampleItem(), time.Minute))
	require.NoError(t, cache.SetList(ctx, "page:1:per_page:20", []domain.Item{*sampleItem()}, 1, time.Minute))
	mr.Set("unrelated:key", "kept")

	require.NoError(t, cache.Invalidate(ctx))

	_, err := cache.GetItem(ctx, "wool-hat")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	_, _, err = cache.GetList(ctx, "page:1:per_page:20")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.True(t, mr.Exists("unrelated:key"))
}

func TestCatalogCache_Invalidate_Empty(t *testing.T) {
	cache, _ := setupTestCache(t)

	assert.NoError(t, cache.Invalidate(context.Background()))
}
