package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/utafrali/storefront/internal/domain"
	pkgkafka "github.com/utafrali/storefront/pkg/kafka"
)

// Kafka topic constants for storefront domain events.
const (
	TopicCartUpdated     = "storefront.cart.updated"
	TopicOrderPlaced     = "storefront.order.placed"
	TopicPaymentFailed   = "storefront.payment.failed"
	TopicCouponApplied   = "storefront.coupon.applied"
	TopicRefundRequested = "storefront.refund.requested"
)

// Aggregate type constant.
const AggregateTypeOrder = "order"

// Source identifier for events originating from the storefront service.
const SourceStorefront = "storefront"

// Cart actions carried on cart.updated events.
const (
	CartActionAdded       = "added"
	CartActionRemoved     = "removed"
	CartActionDecremented = "decremented"
)

// CartUpdatedData is the payload for a cart.updated event.
type CartUpdatedData struct {
	OrderID  string `json:"order_id"`
	UserID   string `json:"user_id"`
	ItemID   string `json:"item_id"`
	Slug     string `json:"slug"`
	Quantity int    `json:"quantity"`
	Action   string `json:"action"`
}

// OrderPlacedData is the payload for an order.placed event.
type OrderPlacedData struct {
	OrderID       string `json:"order_id"`
	UserID        string `json:"user_id"`
	RefCode       string `json:"ref_code"`
	PaymentOption string `json:"payment_option"`
	Amount        int64  `json:"amount"`
	Currency      string `json:"currency"`
	ItemCount     int    `json:"item_count"`
}

// PaymentFailedData is the payload for a payment.failed event.
type PaymentFailedData struct {
	OrderID  string `json:"order_id"`
	UserID   string `json:"user_id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Reason   string `json:"reason"`
}

// CouponAppliedData is the payload for a coupon.applied event.
type CouponAppliedData struct {
	OrderID string `json:"order_id"`
	UserID  string `json:"user_id"`
	Code    string `json:"code"`
	Amount  int64  `json:"amount"`
}

// RefundRequestedData is the payload for a refund.requested event.
type RefundRequestedData struct {
	OrderID string `json:"order_id"`
	UserID  string `json:"user_id"`
	RefCode string `json:"ref_code"`
	Reason  string `json:"reason"`
}

// Producer publishes storefront domain events to Kafka.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates a new event producer for the storefront service.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// PublishCartUpdated publishes a cart.updated event.
func (p *Producer) PublishCartUpdated(ctx context.Context, order *domain.Order, line *domain.OrderItem, action string) error {
	data := CartUpdatedData{
		OrderID:  order.ID,
		UserID:   order.UserID,
		ItemID:   line.ItemID,
		Slug:     line.Slug,
		Quantity: line.Quantity,
		Action:   action,
	}

	event, err := pkgkafka.NewEvent(TopicCartUpdated, order.ID, AggregateTypeOrder, SourceStorefront, data)
	if err != nil {
		return fmt.Errorf("create cart.updated event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicCartUpdated, event); err != nil {
		return fmt.Errorf("publish cart.updated event: %w", err)
	}

	p.logger.DebugContext(ctx, "published cart.updated event",
		slog.String("order_id", order.ID),
		slog.String("slug", line.Slug),
		slog.String("action", action),
	)

	return nil
}

// PublishOrderPlaced publishes an order.placed event.
func (p *Producer) PublishOrderPlaced(ctx context.Context, order *domain.Order, payment *domain.Payment) error {
	data := OrderPlacedData{
		OrderID:       order.ID,
		UserID:        order.UserID,
		RefCode:       order.RefCode,
		PaymentOption: payment.Option,
		Amount:        payment.Amount,
		Currency:      payment.Currency,
		ItemCount:     len(order.Items),
	}

	event, err := pkgkafka.NewEvent(TopicOrderPlaced, order.ID, AggregateTypeOrder, SourceStorefront, data)
	if err != nil {
		return fmt.Errorf("create order.placed event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicOrderPlaced, event); err != nil {
		return fmt.Errorf("publish order.placed event: %w", err)
	}

	p.logger.DebugContext(ctx, "published order.placed event",
		slog.String("order_id", order.ID),
		slog.String("ref_code", order.RefCode),
	)

	return nil
}

// PublishPaymentFailed publishes a payment.failed event.
func (p *Producer) PublishPaymentFailed(ctx context.Context, order *domain.Order, reason string) error {
	data := PaymentFailedData{
		OrderID:  order.ID,
		UserID:   order.UserID,
		Amount:   order.Total(),
		Currency: domain.CurrencyEUR,
		Reason:   reason,
	}

	event, err := pkgkafka.NewEvent(TopicPaymentFailed, order.ID, AggregateTypeOrder, SourceStorefront, data)
	if err != nil {
		return fmt.Errorf("create payment.failed event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicPaymentFailed, event); err != nil {
		return fmt.Errorf("publish payment.failed event: %w", err)
	}

	p.logger.DebugContext(ctx, "published payment.failed event",
		slog.String("order_id", order.ID),
		slog.String("reason", reason),
	)

	return nil
}

// PublishCouponApplied publishes a coupon.applied event.
func (p *Producer) PublishCouponApplied(ctx context.Context, order *domain.Order, coupon *domain.Coupon) error {
	data := CouponAppliedData{
		OrderID: order.ID,
		UserID:  order.UserID,
		Code:    coupon.Code,
		Amount:  coupon.Amount,
	}

	event, err := pkgkafka.NewEvent(TopicCouponApplied, order.ID, AggregateTypeOrder, SourceStorefront, data)
	if err != nil {
		return fmt.Errorf("create coupon.applied event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicCouponApplied, event); err != nil {
		return fmt.Errorf("publish coupon.applied event: %w", err)
	}

	p.logger.DebugContext(ctx, "published coupon.applied event",
		slog.String("order_id", order.ID),
		slog.String("code", coupon.Code),
	)

	return nil
}

// PublishRefundRequested publishes a refund.requested event.
func (p *Producer) PublishRefundRequested(ctx context.Context, order *domain.Order, refund *domain.Refund) error {
	data := RefundRequestedData{
		OrderID: order.ID,
		UserID:  order.UserID,
		RefCode: order.RefCode,
		Reason:  refund.Reason,
	}

	event, err := pkgkafka.NewEvent(TopicRefundRequested, order.ID, AggregateTypeOrder, SourceStorefront, data)
	if err != nil {
		return fmt.Errorf("create refund.requested event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicRefundRequested, event); err != nil {
		return fmt.Errorf("publish refund.requested event: %w", err)
	}

	p.logger.DebugContext(ctx, "published refund.requested event",
		slog.String("order_id", order.ID),
		slog.String("ref_code", order.RefCode),
	)

	return nil
}
