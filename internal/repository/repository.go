package repository

import (
	"context"
	"time"

	"github.com/utafrali/storefront/internal/domain"
)

// OrderRepository defines persistence operations for orders and their lines.
type OrderRepository interface {
	// FindActiveOrder returns the user's single not-yet-ordered order with its
	// lines and attached coupon, or ErrNotFound.
	FindActiveOrder(ctx context.Context, userID string) (*domain.Order, error)

	// GetByRefCode returns a placed order by its reference code.
	GetByRefCode(ctx context.Context, refCode string) (*domain.Order, error)

	// RefCodeExists reports whether any order already carries the given
	// reference code.
	RefCodeExists(ctx context.Context, refCode string) (bool, error)

	// CreateWithItem inserts a new active order and its first line atomically.
	CreateWithItem(ctx context.Context, order *domain.Order, line *domain.OrderItem) error

	// AddItem inserts a new line into an existing order.
	AddItem(ctx context.Context, line *domain.OrderItem) error

	// UpdateItemQuantity sets the quantity of an existing line.
	UpdateItemQuantity(ctx context.Context, lineID string, quantity int) error

	// RemoveItem deletes a line from an order.
	RemoveItem(ctx context.Context, lineID string) error

	// AttachAddresses inserts the given addresses and points the order at them
	// atomically. Either address may be nil if the order already references one.
	AttachAddresses(ctx context.Context, orderID string, shipping, billing *domain.Address) error

	// AttachCoupon points the order at a coupon.
	AttachCoupon(ctx context.Context, orderID, couponID string) error

	// Finalize atomically records the payment, marks every line ordered, and
	// flips the order to ordered with its reference code.
	Finalize(ctx context.Context, order *domain.Order, payment *domain.Payment) error

	// RequestRefund flags the order and appends the refund record atomically.
	RequestRefund(ctx context.Context, orderID string, refund *domain.Refund) error
}

// CatalogRepository defines persistence operations for catalog items.
type CatalogRepository interface {
	// Create inserts a new item. A duplicate slug is reported as
	// ErrAlreadyExists.
	Create(ctx context.Context, item *domain.Item) error

	// List returns a page of items ordered by creation time, newest first,
	// along with the total count.
	List(ctx context.Context, limit, offset int) ([]domain.Item, int, error)

	// GetBySlug returns a single item by its slug.
	GetBySlug(ctx context.Context, slug string) (*domain.Item, error)
}

// AddressRepository defines persistence operations for saved addresses.
type AddressRepository interface {
	// FindDefault returns the user's newest default address of the given type,
	// or ErrNotFound.
	FindDefault(ctx context.Context, userID, addressType string) (*domain.Address, error)
}

// CouponRepository defines persistence operations for coupons.
type CouponRepository interface {
	// GetByCode returns a coupon by its code, or ErrNotFound.
	GetByCode(ctx context.Context, code string) (*domain.Coupon, error)
}

// ProfileRepository defines persistence operations for payment profiles.
type ProfileRepository interface {
	// Get returns the user's profile. A missing row is returned as an empty
	// profile, not an error.
	Get(ctx context.Context, userID string) (*domain.Profile, error)

	// Upsert inserts or replaces the user's profile.
	Upsert(ctx context.Context, profile *domain.Profile) error
}

// CatalogCache caches catalog reads. Implementations must treat a miss as a
// soft failure: callers fall back to the repository.
type CatalogCache interface {
	GetItem(ctx context.Context, slug string) (*domain.Item, error)
	SetItem(ctx context.Context, item *domain.Item, ttl time.Duration) error
	GetList(ctx context.Context, key string) ([]domain.Item, int, error)
	SetList(ctx context.Context, key string, items []domain.Item, total int, ttl time.Duration) error

	// Invalidate drops every cached catalog entry. Called after catalog
	// mutations so stale pages do not linger for a full TTL.
	Invalidate(ctx context.Context) error
}
