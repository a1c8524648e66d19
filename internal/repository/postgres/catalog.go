package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/pkg/database"
	apperrors "github.com/utafrali/storefront/pkg/errors"
)

// CatalogRepository implements repository.CatalogRepository using PostgreSQL.
type CatalogRepository struct {
	pool database.DBTX
}

// NewCatalogRepository creates a new PostgreSQL-backed catalog repository.
func NewCatalogRepository(pool database.DBTX) *CatalogRepository {
	return &CatalogRepository{pool: pool}
}

// Create inserts a new catalog item.
func (r *CatalogRepository) Create(ctx context.Context, item *domain.Item) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO items (id, title, slug, price, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		item.ID, item.Title, item.Slug, item.Price, item.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.AlreadyExists("item", "slug", item.Slug)
		}
		return fmt.Errorf("insert item: %w", err)
	}
	return nil
}

// isUniqueViolation checks if the error is a PostgreSQL unique constraint violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "23505")
}

// List returns a page of items, newest first, with the total count.
func (r *CatalogRepository) List(ctx context.Context, limit, offset int) ([]domain.Item, int, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, title, slug, price, created_at, count(*) OVER() AS total_count
		FROM items
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	var totalCount int
	items := make([]domain.Item, 0)

	for rows.Next() {
		var item domain.Item
		if err := rows.Scan(&item.ID, &item.Title, &item.Slug, &item.Price, &item.CreatedAt, &totalCount); err != nil {
			return nil, 0, fmt.Errorf("scan item row: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate item rows: %w", err)
	}

	return items, totalCount, nil
}

// GetBySlug returns a single item by its slug.
func (r *CatalogRepository) GetBySlug(ctx context.Context, slug string) (*domain.Item, error) {
	var item domain.Item
	err := r.pool.QueryRow(ctx, `
		SELECT id, title, slug, price, created_at
		FROM items
		WHERE slug = $1`, slug,
	).Scan(&item.ID, &item.Title, &item.Slug, &item.Price, &item.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("item", slug)
		}
		return nil, fmt.Errorf("scan item: %w", err)
	}
	return &item, nil
}
