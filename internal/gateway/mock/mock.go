// Package mock provides an in-memory payment gateway for local development
// and tests. Well-known tokens trigger failure paths: "tok_declined" is
// rejected as a card decline and "tok_error" as a provider internal error.
package mock

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/utafrali/storefront/internal/gateway"
)

const (
	TokenDeclined = "tok_declined"
	TokenError    = "tok_error"
)

// Gateway is an in-memory implementation of gateway.Gateway.
type Gateway struct {
	mu        sync.Mutex
	customers map[string]*gateway.Customer
	sources   map[string][]gateway.Source
	charges   []gateway.ChargeInput
}

// New creates an empty mock gateway.
func New() *Gateway {
	return &Gateway{
		customers: make(map[string]*gateway.Customer),
		sources:   make(map[string][]gateway.Source),
	}
}

// Charge records the charge and returns a generated charge ID. The
// well-known failure tokens short-circuit with the matching error category.
func (g *Gateway) Charge(_ context.Context, input gateway.ChargeInput) (*gateway.ChargeResult, error) {
	switch input.Token {
	case TokenDeclined:
		return nil, &gateway.Error{
			Category: gateway.CategoryCardDeclined,
			Code:     "card_declined",
			Message:  "your card was declined",
		}
	case TokenError:
		return nil, &gateway.Error{
			Category: gateway.CategoryGatewayInternal,
			Code:     "provider_error",
			Message:  "payment provider error",
		}
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if input.CustomerID != "" {
		if _, ok := g.customers[input.CustomerID]; !ok {
			return nil, &gateway.Error{
				Category: gateway.CategoryInvalidRequest,
				Code:     "customer_not_found",
				Message:  fmt.Sprintf("no such customer: %s", input.CustomerID),
			}
		}
		if len(g.sources[input.CustomerID]) == 0 {
			return nil, &gateway.Error{
				Category: gateway.CategoryInvalidRequest,
				Code:     "no_source",
				Message:  "customer has no payment source",
			}
		}
	}

	g.charges = append(g.charges, input)
	return &gateway.ChargeResult{ChargeID: "ch_" + uuid.New().String()}, nil
}

// CreateCustomer registers a new in-memory customer.
func (g *Gateway) CreateCustomer(_ context.Context, userID string) (*gateway.Customer, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	customer := &gateway.Customer{
		ID:    "cus_" + uuid.New().String(),
		Email: userID + "@example.com",
	}
	g.customers[customer.ID] = customer
	return customer, nil
}

// AttachSource stores a card source on the customer.
func (g *Gateway) AttachSource(_ context.Context, customerID, token string) (*gateway.Source, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.customers[customerID]; !ok {
		return nil, &gateway.Error{
			Category: gateway.CategoryInvalidRequest,
			Code:     "customer_not_found",
			Message:  fmt.Sprintf("no such customer: %s", customerID),
		}
	}

	source := gateway.Source{
		ID:       "src_" + uuid.New().String(),
		Brand:    "visa",
		Last4:    "4242",
		ExpMonth: 12,
		ExpYear:  2030,
	}
	g.sources[customerID] = append(g.sources[customerID], source)
	return &source, nil
}

// ListSources returns the customer's stored sources.
func (g *Gateway) ListSources(_ context.Context, customerID string) ([]gateway.Source, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	return append([]gateway.Source(nil), g.sources[customerID]...), nil
}

// Charges returns a copy of every successful charge, oldest first.
func (g *Gateway) Charges() []gateway.ChargeInput {
	g.mu.Lock()
	defer g.mu.Unlock()

	return append([]gateway.ChargeInput(nil), g.charges...)
}
