// Package hosted implements the gateway boundary against the hosted payment
// provider's JSON HTTP API.
package hosted

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"

	"github.com/utafrali/storefront/internal/gateway"
	"github.com/utafrali/storefront/pkg/httpclient"
)

// Config holds hosted gateway connection settings.
type Config struct {
	BaseURL string
	APIKey  string
}

// Client speaks to the hosted payment provider. All calls go through a
// circuit breaker; the underlying HTTP client never retries, so a charge is
// attempted at most once.
type Client struct {
	http    *httpclient.CircuitBreakerClient
	baseURL string
	apiKey  string
	logger  *slog.Logger
}

// New creates a hosted gateway client.
func New(cfg Config, logger *slog.Logger) *Client {
	base := httpclient.New(httpclient.NoRetryConfig())
	cb := httpclient.NewCircuitBreakerClient(base, httpclient.DefaultCircuitBreakerConfig("payment-gateway"), logger)

	return &Client{
		http:    cb,
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		logger:  logger,
	}
}

type providerError struct {
	Error struct {
		Type    string `json:"type"`
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type chargeRequest struct {
	Amount      int64  `json:"amount"`
	Currency    string `json:"currency"`
	Source      string `json:"source,omitempty"`
	Customer    string `json:"customer,omitempty"`
	Description string `json:"description,omitempty"`
}

type chargeResponse struct {
	ID string `json:"id"`
}

// Charge attempts the charge exactly once.
func (c *Client) Charge(ctx context.Context, input gateway.ChargeInput) (*gateway.ChargeResult, error) {
	req := chargeRequest{
		Amount:      input.Amount,
		Currency:    input.Currency,
		Source:      input.Token,
		Customer:    input.CustomerID,
		Description: input.Description,
	}

	var resp chargeResponse
	if err := c.post(ctx, "/v1/charges", req, &resp); err != nil {
		return nil, err
	}

	return &gateway.ChargeResult{ChargeID: resp.ID}, nil
}

type customerRequest struct {
	UserID string `json:"user_id"`
}

type customerResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// CreateCustomer registers a customer record with the provider.
func (c *Client) CreateCustomer(ctx context.Context, userID string) (*gateway.Customer, error) {
	var resp customerResponse
	if err := c.post(ctx, "/v1/customers", customerRequest{UserID: userID}, &resp); err != nil {
		return nil, err
	}
	return &gateway.Customer{ID: resp.ID, Email: resp.Email}, nil
}

type attachSourceRequest struct {
	Source string `json:"source"`
}

type sourceResponse struct {
	ID       string `json:"id"`
	Brand    string `json:"brand"`
	Last4    string `json:"last4"`
	ExpMonth int    `json:"exp_month"`
	ExpYear  int    `json:"exp_year"`
}

// AttachSource stores a payment source on the customer.
func (c *Client) AttachSource(ctx context.Context, customerID, token string) (*gateway.Source, error) {
	var resp sourceResponse
	path := fmt.Sprintf("/v1/customers/%s/sources", customerID)
	if err := c.post(ctx, path, attachSourceRequest{Source: token}, &resp); err != nil {
		return nil, err
	}
	return toSource(resp), nil
}

type listSourcesResponse struct {
	Data []sourceResponse `json:"data"`
}

// ListSources returns the customer's stored payment sources.
func (c *Client) ListSources(ctx context.Context, customerID string) ([]gateway.Source, error) {
	url := c.baseURL + fmt.Sprintf("/v1/customers/%s/sources", customerID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	c.authorize(req)

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		return nil, c.transportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.statusError(resp)
	}

	var body listSourcesResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode sources response: %w", err)
	}

	sources := make([]gateway.Source, 0, len(body.Data))
	for _, s := range body.Data {
		sources = append(sources, *toSource(s))
	}
	return sources, nil
}

func toSource(s sourceResponse) *gateway.Source {
	return &gateway.Source{
		ID:       s.ID,
		Brand:    s.Brand,
		Last4:    s.Last4,
		ExpMonth: s.ExpMonth,
		ExpYear:  s.ExpYear,
	}
}

func (c *Client) post(ctx context.Context, path string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	c.authorize(req)

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		return c.transportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.statusError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) authorize(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
}

// transportError classifies failures where no HTTP response was received.
// 5xx responses converted to errors by the circuit breaker land here too and
// count as provider-internal.
func (c *Client) transportError(err error) *gateway.Error {
	switch {
	case errors.Is(err, httpclient.ErrCircuitOpen):
		return &gateway.Error{
			Category: gateway.CategoryNetworkError,
			Code:     "circuit_open",
			Message:  "payment provider unavailable",
			Err:      err,
		}
	case isNetworkError(err):
		return &gateway.Error{
			Category: gateway.CategoryNetworkError,
			Code:     "network_error",
			Message:  "could not reach payment provider",
			Err:      err,
		}
	default:
		return &gateway.Error{
			Category: gateway.CategoryGatewayInternal,
			Code:     "provider_error",
			Message:  "payment provider error",
			Err:      err,
		}
	}
}

func isNetworkError(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

// statusError classifies non-2xx provider responses.
func (c *Client) statusError(resp *http.Response) *gateway.Error {
	var provider providerError
	bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	_ = json.Unmarshal(bodyBytes, &provider)

	code := provider.Error.Code
	message := provider.Error.Message
	if message == "" {
		message = fmt.Sprintf("provider returned status %d", resp.StatusCode)
	}

	var category gateway.Category
	switch {
	case resp.StatusCode == http.StatusPaymentRequired:
		category = gateway.CategoryCardDeclined
	case resp.StatusCode == http.StatusTooManyRequests:
		category = gateway.CategoryRateLimited
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		category = gateway.CategoryAuthFailed
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		category = gateway.CategoryInvalidRequest
	default:
		category = gateway.CategoryGatewayInternal
	}

	return &gateway.Error{Category: category, Code: code, Message: message}
}
