package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/internal/event"
	"github.com/utafrali/storefront/internal/repository"
	apperrors "github.com/utafrali/storefront/pkg/errors"
)

// CouponService applies discount codes to the user's active order.
type CouponService struct {
	orders   repository.OrderRepository
	coupons  repository.CouponRepository
	producer *event.Producer
	logger   *slog.Logger
}

// NewCouponService creates a new coupon service.
func NewCouponService(orders repository.OrderRepository, coupons repository.CouponRepository, producer *event.Producer, logger *slog.Logger) *CouponService {
	return &CouponService{
		orders:   orders,
		coupons:  coupons,
		producer: producer,
		logger:   logger,
	}
}

// ApplyCoupon attaches the coupon with the given code to the user's active
// order and returns the updated order. Applying a new coupon replaces any
// previously attached one.
func (s *CouponService) ApplyCoupon(ctx context.Context, userID, code string) (*domain.Order, error) {
	if userID == "" {
		return nil, apperrors.InvalidInput("user id is required")
	}
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, apperrors.InvalidInput("coupon code is required")
	}

	order, err := s.orders.FindActiveOrder(ctx, userID)
	if err != nil {
		return nil, err
	}
	if order.IsEmpty() {
		return nil, apperrors.InvalidInput("cart is empty")
	}

	coupon, err := s.coupons.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	if err := s.orders.AttachCoupon(ctx, order.ID, coupon.ID); err != nil {
		return nil, fmt.Errorf("attach coupon: %w", err)
	}
	order.Coupon = coupon

	if err := s.producer.PublishCouponApplied(ctx, order, coupon); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish coupon.applied event",
			slog.String("order_id", order.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "coupon applied",
		slog.String("order_id", order.ID),
		slog.String("code", coupon.Code),
		slog.Int64("amount", coupon.Amount),
	)

	return order, nil
}
