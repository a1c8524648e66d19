package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/internal/event"
	"github.com/utafrali/storefront/internal/repository"
	apperrors "github.com/utafrali/storefront/pkg/errors"
	"github.com/utafrali/storefront/pkg/refcode"
)

// RefundInput holds the parameters for requesting a refund on a placed order.
type RefundInput struct {
	RefCode string `json:"ref_code" validate:"required,len=20"`
	Reason  string `json:"reason" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
}

// RefundService records refund requests against placed orders. Requests are
// append-only; a repeated request adds another record for review.
type RefundService struct {
	orders   repository.OrderRepository
	producer *event.Producer
	logger   *slog.Logger
}

// NewRefundService creates a new refund service.
func NewRefundService(orders repository.OrderRepository, producer *event.Producer, logger *slog.Logger) *RefundService {
	return &RefundService{
		orders:   orders,
		producer: producer,
		logger:   logger,
	}
}

// RequestRefund flags the order identified by its reference code and appends
// a refund record.
func (s *RefundService) RequestRefund(ctx context.Context, input *RefundInput) (*domain.Refund, error) {
	if input == nil {
		return nil, apperrors.InvalidInput("refund input is required")
	}

	code := strings.ToLower(strings.TrimSpace(input.RefCode))
	if len(code) != refcode.Length {
		return nil, apperrors.InvalidInput("ref code must be 20 characters")
	}
	if strings.TrimSpace(input.Reason) == "" {
		return nil, apperrors.InvalidInput("reason is required")
	}

	order, err := s.orders.GetByRefCode(ctx, code)
	if err != nil {
		return nil, err
	}

	refund := &domain.Refund{
		ID:        uuid.New().String(),
		OrderID:   order.ID,
		RefCode:   code,
		Reason:    strings.TrimSpace(input.Reason),
		Email:     strings.TrimSpace(input.Email),
		CreatedAt: time.Now().UTC(),
	}

	if err := s.orders.RequestRefund(ctx, order.ID, refund); err != nil {
		return nil, fmt.Errorf("request refund: %w", err)
	}
	order.RefundRequested = true

	if err := s.producer.PublishRefundRequested(ctx, order, refund); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish refund.requested event",
			slog.String("order_id", order.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "refund requested",
		slog.String("order_id", order.ID),
		slog.String("ref_code", code),
	)

	return refund, nil
}
