package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/pkg/database"
)

// ProfileRepository implements repository.ProfileRepository using PostgreSQL.
type ProfileRepository struct {
	pool database.DBTX
}

// NewProfileRepository creates a new PostgreSQL-backed profile repository.
func NewProfileRepository(pool database.DBTX) *ProfileRepository {
	return &ProfileRepository{pool: pool}
}

// Get returns the user's payment profile. A user without a stored profile gets
// an empty one back.
func (r *ProfileRepository) Get(ctx context.Context, userID string) (*domain.Profile, error) {
	var p domain.Profile
	err := r.pool.QueryRow(ctx, `
		SELECT user_id, gateway_customer_id, one_click_purchasing, updated_at
		FROM profiles
		WHERE user_id = $1`, userID,
	).Scan(&p.UserID, &p.GatewayCustomerID, &p.OneClickPurchasing, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &domain.Profile{UserID: userID}, nil
		}
		return nil, fmt.Errorf("scan profile: %w", err)
	}
	return &p, nil
}

// Upsert inserts or replaces the user's profile.
func (r *ProfileRepository) Upsert(ctx context.Context, p *domain.Profile) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO profiles (user_id, gateway_customer_id, one_click_purchasing, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id) DO UPDATE
		SET gateway_customer_id = EXCLUDED.gateway_customer_id,
		    one_click_purchasing = EXCLUDED.one_click_purchasing,
		    updated_at = EXCLUDED.updated_at`,
		p.UserID, p.GatewayCustomerID, p.OneClickPurchasing, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert profile: %w", err)
	}
	return nil
}
