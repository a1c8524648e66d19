package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/pkg/database"
	apperrors "github.com/utafrali/storefront/pkg/errors"
)

// OrderRepository implements repository.OrderRepository using PostgreSQL.
type OrderRepository struct {
	pool database.DBTX
}

// NewOrderRepository creates a new PostgreSQL-backed order repository.
func NewOrderRepository(pool database.DBTX) *OrderRepository {
	return &OrderRepository{pool: pool}
}

const orderColumns = `
	o.id, o.user_id,
	COALESCE(o.shipping_address_id::text, ''),
	COALESCE(o.billing_address_id::text, ''),
	COALESCE(o.payment_id::text, ''),
	o.ordered, o.ordered_at, COALESCE(o.ref_code, ''), o.refund_requested,
	o.created_at, o.updated_at,
	COALESCE(c.id::text, ''), COALESCE(c.code, ''), COALESCE(c.amount, 0)`

// FindActiveOrder returns the user's not-yet-ordered order with its lines.
func (r *OrderRepository) FindActiveOrder(ctx context.Context, userID string) (*domain.Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM orders o
		LEFT JOIN coupons c ON c.id = o.coupon_id
		WHERE o.user_id = $1 AND NOT o.ordered`

	return r.queryOrder(ctx, query, userID)
}

// GetByRefCode returns a placed order by its reference code.
func (r *OrderRepository) GetByRefCode(ctx context.Context, refCode string) (*domain.Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM orders o
		LEFT JOIN coupons c ON c.id = o.coupon_id
		WHERE o.ref_code = $1`

	return r.queryOrder(ctx, query, refCode)
}

func (r *OrderRepository) queryOrder(ctx context.Context, query string, arg any) (*domain.Order, error) {
	var (
		o            domain.Order
		couponID     string
		couponCode   string
		couponAmount int64
	)

	err := r.pool.QueryRow(ctx, query, arg).Scan(
		&o.ID,
		&o.UserID,
		&o.ShippingAddressID,
		&o.BillingAddressID,
		&o.PaymentID,
		&o.Ordered,
		&o.OrderedAt,
		&o.RefCode,
		&o.RefundRequested,
		&o.CreatedAt,
		&o.UpdatedAt,
		&couponID,
		&couponCode,
		&couponAmount,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan order: %w", err)
	}

	if couponID != "" {
		o.Coupon = &domain.Coupon{ID: couponID, Code: couponCode, Amount: couponAmount}
	}

	items, err := r.loadOrderItems(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	o.Items = items

	return &o, nil
}

// RefCodeExists reports whether any order already carries the given code.
func (r *OrderRepository) RefCodeExists(ctx context.Context, refCode string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		"SELECT EXISTS (SELECT 1 FROM orders WHERE ref_code = $1)", refCode,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check ref code: %w", err)
	}
	return exists, nil
}

// CreateWithItem inserts a new active order and its first line atomically.
func (r *OrderRepository) CreateWithItem(ctx context.Context, o *domain.Order, line *domain.OrderItem) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO orders (id, user_id, ordered, created_at, updated_at)
		VALUES ($1, $2, FALSE, $3, $4)`,
		o.ID, o.UserID, o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO order_items (id, order_id, item_id, title, slug, price, quantity, ordered)
		VALUES ($1, $2, $3, $4, $5, $6, $7, FALSE)`,
		line.ID, line.OrderID, line.ItemID, line.Title, line.Slug, line.Price, line.Quantity,
	)
	if err != nil {
		return fmt.Errorf("insert order item: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

// AddItem inserts a new line into an existing order.
func (r *OrderRepository) AddItem(ctx context.Context, line *domain.OrderItem) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO order_items (id, order_id, item_id, title, slug, price, quantity, ordered)
		VALUES ($1, $2, $3, $4, $5, $6, $7, FALSE)`,
		line.ID, line.OrderID, line.ItemID, line.Title, line.Slug, line.Price, line.Quantity,
	)
	if err != nil {
		return fmt.Errorf("insert order item: %w", err)
	}
	return nil
}

// UpdateItemQuantity sets the quantity of an existing line.
func (r *OrderRepository) UpdateItemQuantity(ctx context.Context, lineID string, quantity int) error {
	ct, err := r.pool.Exec(ctx,
		"UPDATE order_items SET quantity = $1 WHERE id = $2 AND NOT ordered",
		quantity, lineID,
	)
	if err != nil {
		return fmt.Errorf("update item quantity: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("order item", lineID)
	}
	return nil
}

// RemoveItem deletes a line from an order.
func (r *OrderRepository) RemoveItem(ctx context.Context, lineID string) error {
	ct, err := r.pool.Exec(ctx,
		"DELETE FROM order_items WHERE id = $1 AND NOT ordered", lineID,
	)
	if err != nil {
		return fmt.Errorf("delete order item: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("order item", lineID)
	}
	return nil
}

// AttachAddresses inserts the given addresses and points the order at them
// within one transaction.
func (r *OrderRepository) AttachAddresses(ctx context.Context, orderID string, shipping, billing *domain.Address) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	insertQuery := `
		INSERT INTO addresses (id, user_id, street_address, apartment_address, country_code, postal_code, address_type, is_default, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO NOTHING`

	for _, addr := range []*domain.Address{shipping, billing} {
		if addr == nil {
			continue
		}
		_, err = tx.Exec(ctx, insertQuery,
			addr.ID, addr.UserID, addr.StreetAddress, addr.ApartmentAddress,
			addr.CountryCode, addr.PostalCode, addr.Type, addr.Default, addr.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("insert %s address: %w", addr.Type, err)
		}
	}

	var shippingID, billingID any
	if shipping != nil {
		shippingID = shipping.ID
	}
	if billing != nil {
		billingID = billing.ID
	}

	ct, err := tx.Exec(ctx, `
		UPDATE orders
		SET shipping_address_id = COALESCE($1, shipping_address_id),
		    billing_address_id  = COALESCE($2, billing_address_id),
		    updated_at = $3
		WHERE id = $4 AND NOT ordered`,
		shippingID, billingID, time.Now().UTC(), orderID,
	)
	if err != nil {
		return fmt.Errorf("update order addresses: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("order", orderID)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

// AttachCoupon points the order at a coupon.
func (r *OrderRepository) AttachCoupon(ctx context.Context, orderID, couponID string) error {
	ct, err := r.pool.Exec(ctx, `
		UPDATE orders SET coupon_id = $1, updated_at = $2
		WHERE id = $3 AND NOT ordered`,
		couponID, time.Now().UTC(), orderID,
	)
	if err != nil {
		return fmt.Errorf("attach coupon: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("order", orderID)
	}
	return nil
}

// Finalize records the payment, marks every line ordered, and flips the order
// to ordered with its reference code, all in one transaction.
func (r *OrderRepository) Finalize(ctx context.Context, o *domain.Order, payment *domain.Payment) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO payments (id, charge_id, user_id, amount, currency, option, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		payment.ID, payment.ChargeID, payment.UserID, payment.Amount, payment.Currency, payment.Option, payment.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert payment: %w", err)
	}

	_, err = tx.Exec(ctx,
		"UPDATE order_items SET ordered = TRUE WHERE order_id = $1", o.ID,
	)
	if err != nil {
		return fmt.Errorf("mark items ordered: %w", err)
	}

	ct, err := tx.Exec(ctx, `
		UPDATE orders
		SET ordered = TRUE, ordered_at = $1, ref_code = $2, payment_id = $3, updated_at = $4
		WHERE id = $5 AND NOT ordered`,
		o.OrderedAt, o.RefCode, payment.ID, time.Now().UTC(), o.ID,
	)
	if err != nil {
		return fmt.Errorf("mark order placed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.Conflict("order already placed")
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

// RequestRefund flags the order and appends the refund record atomically.
func (r *OrderRepository) RequestRefund(ctx context.Context, orderID string, refund *domain.Refund) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	ct, err := tx.Exec(ctx, `
		UPDATE orders SET refund_requested = TRUE, updated_at = $1
		WHERE id = $2 AND ordered`,
		time.Now().UTC(), orderID,
	)
	if err != nil {
		return fmt.Errorf("flag refund requested: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("order", orderID)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO refunds (id, order_id, ref_code, reason, email, accepted, created_at)
		VALUES ($1, $2, $3, $4, $5, FALSE, $6)`,
		refund.ID, refund.OrderID, refund.RefCode, refund.Reason, refund.Email, refund.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert refund: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

func (r *OrderRepository) loadOrderItems(ctx context.Context, orderID string) ([]domain.OrderItem, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, order_id, item_id, title, slug, price, quantity, ordered
		FROM order_items
		WHERE order_id = $1
		ORDER BY created_at`, orderID,
	)
	if err != nil {
		return nil, fmt.Errorf("query order items: %w", err)
	}
	defer rows.Close()

	items := make([]domain.OrderItem, 0)
	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(
			&item.ID,
			&item.OrderID,
			&item.ItemID,
			&item.Title,
			&item.Slug,
			&item.Price,
			&item.Quantity,
			&item.Ordered,
		); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order item rows: %w", err)
	}

	return items, nil
}
