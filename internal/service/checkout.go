package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/internal/repository"
	apperrors "github.com/utafrali/storefront/pkg/errors"
)

// AddressInput holds the fields for a new address supplied at checkout.
type AddressInput struct {
	StreetAddress    string `json:"street_address" validate:"required"`
	ApartmentAddress string `json:"apartment_address"`
	CountryCode      string `json:"country_code" validate:"required,iso3166_1_alpha2"`
	PostalCode       string `json:"postal_code" validate:"required"`
}

// CheckoutInput holds the parameters for attaching addresses and choosing a
// payment option on the active order.
type CheckoutInput struct {
	ShippingAddress    *AddressInput `json:"shipping_address"`
	UseDefaultShipping bool          `json:"use_default_shipping"`
	SetDefaultShipping bool          `json:"set_default_shipping"`

	BillingAddress     *AddressInput `json:"billing_address"`
	SameBillingAddress bool          `json:"same_billing_address"`
	UseDefaultBilling  bool          `json:"use_default_billing"`
	SetDefaultBilling  bool          `json:"set_default_billing"`

	PaymentOption string `json:"payment_option" validate:"required,oneof=stripe paypal"`
}

// CheckoutService resolves addresses onto the user's active order and
// validates the chosen payment option.
type CheckoutService struct {
	orders    repository.OrderRepository
	addresses repository.AddressRepository
	logger    *slog.Logger
}

// NewCheckoutService creates a new checkout service.
func NewCheckoutService(orders repository.OrderRepository, addresses repository.AddressRepository, logger *slog.Logger) *CheckoutService {
	return &CheckoutService{
		orders:    orders,
		addresses: addresses,
		logger:    logger,
	}
}

// Checkout attaches shipping and billing addresses to the user's active
// order. When SameBillingAddress is set the shipping address is copied as
// the billing address; that takes precedence over UseDefaultBilling.
func (s *CheckoutService) Checkout(ctx context.Context, userID string, input *CheckoutInput) (*domain.Order, error) {
	if userID == "" {
		return nil, apperrors.InvalidInput("user id is required")
	}
	if input == nil {
		return nil, apperrors.InvalidInput("checkout input is required")
	}
	if !domain.IsValidPaymentOption(input.PaymentOption) {
		return nil, apperrors.InvalidInput("payment option must be stripe or paypal")
	}

	order, err := s.orders.FindActiveOrder(ctx, userID)
	if err != nil {
		return nil, err
	}
	if order.IsEmpty() {
		return nil, apperrors.InvalidInput("cart is empty")
	}

	shipping, err := s.resolveShipping(ctx, userID, input)
	if err != nil {
		return nil, err
	}

	billing, err := s.resolveBilling(ctx, userID, input, shipping)
	if err != nil {
		return nil, err
	}

	if err := s.orders.AttachAddresses(ctx, order.ID, shipping, billing); err != nil {
		return nil, fmt.Errorf("attach addresses: %w", err)
	}

	s.logger.InfoContext(ctx, "checkout completed",
		slog.String("order_id", order.ID),
		slog.String("payment_option", input.PaymentOption),
	)

	return s.orders.FindActiveOrder(ctx, userID)
}

func (s *CheckoutService) resolveShipping(ctx context.Context, userID string, input *CheckoutInput) (*domain.Address, error) {
	if input.UseDefaultShipping {
		addr, err := s.addresses.FindDefault(ctx, userID, domain.AddressTypeShipping)
		if err != nil {
			return nil, apperrors.InvalidInput("no default shipping address on file")
		}
		return addr, nil
	}

	if input.ShippingAddress == nil {
		return nil, apperrors.InvalidInput("shipping address is required")
	}
	return s.newAddress(userID, input.ShippingAddress, domain.AddressTypeShipping, input.SetDefaultShipping)
}

func (s *CheckoutService) resolveBilling(ctx context.Context, userID string, input *CheckoutInput, shipping *domain.Address) (*domain.Address, error) {
	if input.SameBillingAddress {
		billing := *shipping
		billing.ID = uuid.New().String()
		billing.Type = domain.AddressTypeBilling
		billing.Default = input.SetDefaultBilling
		billing.CreatedAt = time.Now().UTC()
		return &billing, nil
	}

	if input.UseDefaultBilling {
		addr, err := s.addresses.FindDefault(ctx, userID, domain.AddressTypeBilling)
		if err != nil {
			return nil, apperrors.InvalidInput("no default billing address on file")
		}
		return addr, nil
	}

	if input.BillingAddress == nil {
		return nil, apperrors.InvalidInput("billing address is required")
	}
	return s.newAddress(userID, input.BillingAddress, domain.AddressTypeBilling, input.SetDefaultBilling)
}

func (s *CheckoutService) newAddress(userID string, input *AddressInput, addressType string, isDefault bool) (*domain.Address, error) {
	street := strings.TrimSpace(input.StreetAddress)
	country := strings.ToUpper(strings.TrimSpace(input.CountryCode))
	postal := strings.TrimSpace(input.PostalCode)

	if street == "" {
		return nil, apperrors.InvalidInput("street address is required")
	}
	if len(country) != 2 {
		return nil, apperrors.InvalidInput("country code must be a 2-letter ISO code")
	}
	if postal == "" {
		return nil, apperrors.InvalidInput("postal code is required")
	}

	return &domain.Address{
		ID:               uuid.New().String(),
		UserID:           userID,
		StreetAddress:    street,
		ApartmentAddress: strings.TrimSpace(input.ApartmentAddress),
		CountryCode:      country,
		PostalCode:       postal,
		Type:             addressType,
		Default:          isDefault,
		CreatedAt:        time.Now().UTC(),
	}, nil
}
