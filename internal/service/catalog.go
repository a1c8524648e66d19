package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/internal/repository"
	apperrors "github.com/utafrali/storefront/pkg/errors"
	"github.com/utafrali/storefront/pkg/pagination"
	"github.com/utafrali/storefront/pkg/slug"
)

// CatalogService serves catalog reads with a cache-aside Redis layer. Cache
// failures are logged and the read falls through to Postgres.
type CatalogService struct {
	repo     repository.CatalogRepository
	cache    repository.CatalogCache
	logger   *slog.Logger
	cacheTTL time.Duration
}

// NewCatalogService creates a new catalog service.
func NewCatalogService(repo repository.CatalogRepository, cache repository.CatalogCache, logger *slog.Logger, cacheTTL time.Duration) *CatalogService {
	return &CatalogService{
		repo:     repo,
		cache:    cache,
		logger:   logger,
		cacheTTL: cacheTTL,
	}
}

// CreateItemInput carries the fields for a new catalog item. Price is in
// minor units.
type CreateItemInput struct {
	Title string
	Price int64
}

// CreateItem adds an item to the catalog, deriving its slug from the title,
// and drops the cached catalog so the new item shows up immediately.
func (s *CatalogService) CreateItem(ctx context.Context, input *CreateItemInput) (*domain.Item, error) {
	if input == nil || strings.TrimSpace(input.Title) == "" {
		return nil, apperrors.InvalidInput("title is required")
	}
	if input.Price < 0 {
		return nil, apperrors.InvalidInput("price must not be negative")
	}

	itemSlug := slug.Generate(input.Title)
	if itemSlug == "" {
		return nil, apperrors.InvalidInput("title must contain at least one letter or digit")
	}

	item := &domain.Item{
		ID:        uuid.New().String(),
		Title:     strings.TrimSpace(input.Title),
		Slug:      itemSlug,
		Price:     input.Price,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, item); err != nil {
		return nil, err
	}

	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.WarnContext(ctx, "catalog cache invalidation failed",
			slog.String("slug", item.Slug),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "catalog item created",
		slog.String("item_id", item.ID),
		slog.String("slug", item.Slug),
	)

	return item, nil
}

// ListItems returns a page of catalog items, newest first.
func (s *CatalogService) ListItems(ctx context.Context, params pagination.Params) (*pagination.Result[domain.Item], error) {
	key := fmt.Sprintf("page:%d:per_page:%d", params.Page, params.PerPage)

	if items, total, err := s.cache.GetList(ctx, key); err == nil {
		result := pagination.NewResult(items, total, params)
		return &result, nil
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		s.logger.WarnContext(ctx, "catalog list cache read failed",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
	}

	items, total, err := s.repo.List(ctx, params.PerPage, params.Offset)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}

	if err := s.cache.SetList(ctx, key, items, total, s.cacheTTL); err != nil {
		s.logger.WarnContext(ctx, "catalog list cache write failed",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
	}

	result := pagination.NewResult(items, total, params)
	return &result, nil
}

// GetItem returns a single catalog item by slug.
func (s *CatalogService) GetItem(ctx context.Context, slug string) (*domain.Item, error) {
	if slug == "" {
		return nil, apperrors.InvalidInput("slug is required")
	}

	if item, err := s.cache.GetItem(ctx, slug); err == nil {
		return item, nil
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		s.logger.WarnContext(ctx, "catalog item cache read failed",
			slog.String("slug", slug),
			slog.String("error", err.Error()),
		)
	}

	item, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	if err := s.cache.SetItem(ctx, item, s.cacheTTL); err != nil {
		s.logger.WarnContext(ctx, "catalog item cache write failed",
			slog.String("slug", slug),
			slog.String("error", err.Error()),
		)
	}

	return item, nil
}
