package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/utafrali/storefront/internal/domain"
	apperrors "github.com/utafrali/storefront/pkg/errors"
)

const (
	itemKeyPrefix = "catalog:item:"
	listKeyPrefix = "catalog:list:"
)

// cachedList is the stored shape for a cached catalog page.
type cachedList struct {
	Items []domain.Item `json:"items"`
	Total int           `json:"total"`
}

// CatalogCache implements repository.CatalogCache using Redis.
type CatalogCache struct {
	client *redis.Client
}

// NewCatalogCache creates a new Redis-backed catalog cache.
func NewCatalogCache(client *redis.Client) *CatalogCache {
	return &CatalogCache{client: client}
}

// GetItem retrieves a cached item by slug. A miss is reported as ErrNotFound.
func (c *CatalogCache) GetItem(ctx context.Context, slug string) (*domain.Item, error) {
	data, err := c.client.Get(ctx, itemKeyPrefix+slug).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("redis get item: %w", err)
	}

	var item domain.Item
	if err := json.Unmarshal(data, &item); err != nil {
		return nil, fmt.Errorf("unmarshal cached item: %w", err)
	}
	return &item, nil
}

// SetItem caches an item under its slug with the given TTL.
func (c *CatalogCache) SetItem(ctx context.Context, item *domain.Item, ttl time.Duration) error {
	data, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("marshal item: %w", err)
	}
	if err := c.client.Set(ctx, itemKeyPrefix+item.Slug, data, ttl).Err(); err != nil {
		return fmt.Errorf("redis set item: %w", err)
	}
	return nil
}

// GetList retrieves a cached catalog page. A miss is reported as ErrNotFound.
func (c *CatalogCache) GetList(ctx context.Context, key string) ([]domain.Item, int, error) {
	data, err := c.client.Get(ctx, listKeyPrefix+key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, 0, apperrors.ErrNotFound
		}
		return nil, 0, fmt.Errorf("redis get list: %w", err)
	}

	var cached cachedList
	if err := json.Unmarshal(data, &cached); err != nil {
		return nil, 0, fmt.Errorf("unmarshal cached list: %w", err)
	}
	return cached.Items, cached.Total, nil
}

// SetList caches a catalog page with the given TTL.
func (c *CatalogCache) SetList(ctx context.Context, key string, items []domain.Item, total int, ttl time.Duration) error {
	data, err := json.Marshal(cachedList{Items: items, Total: total})
	if err != nil {
		return fmt.Errorf("marshal list: %w", err)
	}
	if err := c.client.Set(ctx, listKeyPrefix+key, data, ttl).Err(); err != nil {
		return fmt.Errorf("redis set list: %w", err)
	}
	return nil
}

// Invalidate drops every cached catalog entry, both items and list pages.
func (c *CatalogCache) Invalidate(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, "catalog:*", 100).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("redis del %s: %w", iter.Val(), err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("redis scan: %w", err)
	}
	return nil
}
