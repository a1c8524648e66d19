// Package gateway defines the boundary to the external hosted payment
// provider. Adapters translate provider responses into the closed error
// taxonomy below so the rest of the service never inspects provider details.
package gateway

import (
	"context"
	"fmt"
)

// Category classifies gateway failures. The set is closed: adapters must map
// every provider failure onto one of these.
type Category string

const (
	CategoryCardDeclined    Category = "card_declined"
	CategoryRateLimited     Category = "rate_limited"
	CategoryInvalidRequest  Category = "invalid_request"
	CategoryAuthFailed      Category = "auth_failed"
	CategoryNetworkError    Category = "network_error"
	CategoryGatewayInternal Category = "gateway_internal"
)

// Error is a classified gateway failure.
type Error struct {
	Category Category
	Code     string
	Message  string
	Err      error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("gateway %s: %s: %v", e.Category, e.Message, e.Err)
	}
	return fmt.Sprintf("gateway %s: %s", e.Category, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// UserMessage returns the customer-facing message for this failure. Card
// declines surface the provider's own message; everything else gets a fixed
// message per category.
func (e *Error) UserMessage() string {
	switch e.Category {
	case CategoryCardDeclined:
		return e.Message
	case CategoryRateLimited:
		return "rate limit error"
	case CategoryInvalidRequest:
		return "invalid parameters"
	case CategoryAuthFailed:
		return "not authenticated"
	case CategoryNetworkError:
		return "network error"
	case CategoryGatewayInternal:
		return "something went wrong, you were not charged, please try again"
	default:
		return "a serious error occurred, we have been notified"
	}
}

// ChargeInput describes a single charge attempt. Exactly one of Token or
// CustomerID must be set.
type ChargeInput struct {
	// Amount in minor units.
	Amount   int64
	Currency string

	// Token is a one-time payment source token.
	Token string

	// CustomerID charges the customer's stored default source.
	CustomerID string

	Description string
}

// ChargeResult is the outcome of a successful charge.
type ChargeResult struct {
	ChargeID string
}

// Customer is a customer record at the payment provider.
type Customer struct {
	ID    string
	Email string
}

// Source is a stored payment source attached to a customer.
type Source struct {
	ID       string
	Brand    string
	Last4    string
	ExpMonth int
	ExpYear  int
}

// Gateway is the payment provider boundary. Charge must attempt the charge
// exactly once; implementations never retry it.
type Gateway interface {
	Charge(ctx context.Context, input ChargeInput) (*ChargeResult, error)
	CreateCustomer(ctx context.Context, userID string) (*Customer, error)
	AttachSource(ctx context.Context, customerID, token string) (*Source, error)
	ListSources(ctx context.Context, customerID string) ([]Source, error)
}
