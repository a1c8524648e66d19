package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/internal/event"
	"github.com/utafrali/storefront/internal/gateway"
	"github.com/utafrali/storefront/internal/repository"
	apperrors "github.com/utafrali/storefront/pkg/errors"
	"github.com/utafrali/storefront/pkg/httpclient"
	"github.com/utafrali/storefront/pkg/refcode"
)

// refCodeAttempts bounds the reference code collision retry loop. With a
// 36^20 code space a collision is vanishingly rare.
const refCodeAttempts = 5

// PaymentInput holds the parameters for paying the active order.
type PaymentInput struct {
	Option     string `json:"payment_option" validate:"required,oneof=stripe paypal"`
	Token      string `json:"token"`
	Save       bool   `json:"save"`
	UseDefault bool   `json:"use_default"`
}

// PaymentService charges the active order through the payment gateway and
// places the order on success. The charge itself is attempted exactly once.
type PaymentService struct {
	orders   repository.OrderRepository
	profiles repository.ProfileRepository
	gateway  gateway.Gateway
	producer *event.Producer
	logger   *slog.Logger
}

// NewPaymentService creates a new payment service.
func NewPaymentService(
	orders repository.OrderRepository,
	profiles repository.ProfileRepository,
	gw gateway.Gateway,
	producer *event.Producer,
	logger *slog.Logger,
) *PaymentService {
	return &PaymentService{
		orders:   orders,
		profiles: profiles,
		gateway:  gw,
		producer: producer,
		logger:   logger,
	}
}

// Pay charges the user's active order and finalizes it with a fresh
// reference code. A failed charge leaves the order untouched so the user can
// retry with another payment source.
func (s *PaymentService) Pay(ctx context.Context, userID string, input *PaymentInput) (*domain.Order, error) {
	if userID == "" {
		return nil, apperrors.InvalidInput("user id is required")
	}
	if input == nil {
		return nil, apperrors.InvalidInput("payment input is required")
	}
	if !domain.IsValidPaymentOption(input.Option) {
		return nil, apperrors.InvalidInput("payment option must be stripe or paypal")
	}

	order, err := s.orders.FindActiveOrder(ctx, userID)
	if err != nil {
		return nil, err
	}
	if order.IsEmpty() {
		return nil, apperrors.InvalidInput("cart is empty")
	}
	if order.ShippingAddressID == "" || order.BillingAddressID == "" {
		return nil, apperrors.InvalidInput("checkout must be completed before payment")
	}

	profile, err := s.profiles.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load payment profile: %w", err)
	}

	// Reserve the reference code before charging so a code failure can never
	// strand a charged customer behind an unfinalized order.
	code, err := s.freshRefCode(ctx)
	if err != nil {
		return nil, err
	}

	charge, err := s.buildCharge(ctx, userID, order, profile, input)
	if err != nil {
		return nil, err
	}

	result, err := s.gateway.Charge(ctx, *charge)
	if err != nil {
		return nil, s.chargeError(ctx, order, err)
	}

	now := time.Now().UTC()
	payment := &domain.Payment{
		ID:        uuid.New().String(),
		ChargeID:  result.ChargeID,
		UserID:    userID,
		Amount:    charge.Amount,
		Currency:  charge.Currency,
		Option:    input.Option,
		CreatedAt: now,
	}

	order.RefCode = code
	order.OrderedAt = &now
	if err := s.orders.Finalize(ctx, order, payment); err != nil {
		return nil, fmt.Errorf("finalize order: %w", err)
	}
	order.Ordered = true
	order.PaymentID = payment.ID

	if err := s.producer.PublishOrderPlaced(ctx, order, payment); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish order.placed event",
			slog.String("order_id", order.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "order placed",
		slog.String("order_id", order.ID),
		slog.String("ref_code", order.RefCode),
		slog.Int64("amount", payment.Amount),
	)

	return order, nil
}

// buildCharge resolves the payment source. Saving a card creates the gateway
// customer on first use and attaches the token as a stored source.
func (s *PaymentService) buildCharge(ctx context.Context, userID string, order *domain.Order, profile *domain.Profile, input *PaymentInput) (*gateway.ChargeInput, error) {
	charge := &gateway.ChargeInput{
		Amount:      order.Total(),
		Currency:    domain.CurrencyEUR,
		Description: "order " + order.ID,
	}

	if input.UseDefault {
		if !profile.CanOneClickPurchase() {
			return nil, apperrors.InvalidInput("no stored payment source on file")
		}
		charge.CustomerID = profile.GatewayCustomerID
		return charge, nil
	}

	if input.Token == "" {
		return nil, apperrors.InvalidInput("payment token is required")
	}

	if !input.Save {
		charge.Token = input.Token
		return charge, nil
	}

	customerID := profile.GatewayCustomerID
	if customerID == "" {
		customer, err := s.gateway.CreateCustomer(ctx, userID)
		if err != nil {
			return nil, s.chargeError(ctx, order, err)
		}
		customerID = customer.ID
	}

	if _, err := s.gateway.AttachSource(ctx, customerID, input.Token); err != nil {
		return nil, s.chargeError(ctx, order, err)
	}

	profile.GatewayCustomerID = customerID
	profile.OneClickPurchasing = true
	profile.UpdatedAt = time.Now().UTC()
	if err := s.profiles.Upsert(ctx, profile); err != nil {
		return nil, fmt.Errorf("save payment profile: %w", err)
	}

	charge.CustomerID = customerID
	return charge, nil
}

// chargeError maps gateway failures onto API errors and records the failed
// payment attempt. An open circuit breaker surfaces as service unavailable.
func (s *PaymentService) chargeError(ctx context.Context, order *domain.Order, err error) error {
	if errors.Is(err, httpclient.ErrCircuitOpen) {
		return apperrors.ServiceUnavailable("payment provider is temporarily unavailable, please retry later")
	}

	var gwErr *gateway.Error
	if !errors.As(err, &gwErr) {
		return fmt.Errorf("charge order: %w", err)
	}

	reason := gwErr.UserMessage()
	if pubErr := s.producer.PublishPaymentFailed(ctx, order, reason); pubErr != nil {
		s.logger.ErrorContext(ctx, "failed to publish payment.failed event",
			slog.String("order_id", order.ID),
			slog.String("error", pubErr.Error()),
		)
	}

	s.logger.WarnContext(ctx, "payment failed",
		slog.String("order_id", order.ID),
		slog.String("category", string(gwErr.Category)),
		slog.String("code", gwErr.Code),
	)

	return apperrors.PaymentFailed(reason)
}

// freshRefCode generates a reference code not yet carried by any order.
func (s *PaymentService) freshRefCode(ctx context.Context) (string, error) {
	for range refCodeAttempts {
		code, err := refcode.New()
		if err != nil {
			return "", fmt.Errorf("generate ref code: %w", err)
		}

		exists, err := s.orders.RefCodeExists(ctx, code)
		if err != nil {
			return "", fmt.Errorf("check ref code: %w", err)
		}
		if !exists {
			return code, nil
		}
	}
	return "", apperrors.Internal(errors.New("could not generate a unique ref code"))
}
