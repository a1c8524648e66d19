package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/pkg/database"
	apperrors "github.com/utafrali/storefront/pkg/errors"
)

// AddressRepository implements repository.AddressRepository using PostgreSQL.
type AddressRepository struct {
	pool database.DBTX
}

// NewAddressRepository creates a new PostgreSQL-backed address repository.
func NewAddressRepository(pool database.DBTX) *AddressRepository {
	return &AddressRepository{pool: pool}
}

// FindDefault returns the user's newest default address of the given type.
// Users may have several defaults on file; the most recently created wins.
func (r *AddressRepository) FindDefault(ctx context.Context, userID, addressType string) (*domain.Address, error) {
	var addr domain.Address
	err := r.pool.QueryRow(ctx, `
		SELECT id, user_id, street_address, apartment_address, country_code, postal_code, address_type, is_default, created_at
		FROM addresses
		WHERE user_id = $1 AND address_type = $2 AND is_default
		ORDER BY created_at DESC
		LIMIT 1`,
		userID, addressType,
	).Scan(
		&addr.ID,
		&addr.UserID,
		&addr.StreetAddress,
		&addr.ApartmentAddress,
		&addr.CountryCode,
		&addr.PostalCode,
		&addr.Type,
		&addr.Default,
		&addr.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan address: %w", err)
	}
	return &addr, nil
}
