package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/utafrali/storefront/internal/service"
	"github.com/utafrali/storefront/pkg/httputil"
	"github.com/utafrali/storefront/pkg/validator"
)

// CheckoutHandler handles HTTP requests for checkout endpoints.
type CheckoutHandler struct {
	service *service.CheckoutService
	logger  *slog.Logger
}

// NewCheckoutHandler creates a new checkout HTTP handler.
func NewCheckoutHandler(svc *service.CheckoutService, logger *slog.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		service: svc,
		logger:  logger,
	}
}

// AddressRequest is the JSON body for a new address supplied at checkout.
type AddressRequest struct {
	StreetAddress    string `json:"street_address" validate:"required"`
	ApartmentAddress string `json:"apartment_address"`
	CountryCode      string `json:"country_code" validate:"required,len=2"`
	PostalCode       string `json:"postal_code" validate:"required"`
}

// CheckoutRequest is the JSON request body for completing checkout.
type CheckoutRequest struct {
	ShippingAddress    *AddressRequest `json:"shipping_address"`
	UseDefaultShipping bool            `json:"use_default_shipping"`
	SetDefaultShipping bool            `json:"set_default_shipping"`

	BillingAddress     *AddressRequest `json:"billing_address"`
	SameBillingAddress bool            `json:"same_billing_address"`
	UseDefaultBilling  bool            `json:"use_default_billing"`
	SetDefaultBilling  bool            `json:"set_default_billing"`

	PaymentOption string `json:"payment_option" validate:"required,oneof=stripe paypal"`
}

// Checkout handles POST /api/v1/checkout
// @Summary Complete checkout
// @Description Attaches shipping and billing addresses to the active order and records the chosen payment option.
// @Tags checkout
// @Accept json
// @Produce json
// @Param X-User-ID header string true "Authenticated user ID"
// @Param request body CheckoutRequest true "Checkout data"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/checkout [post]
func (h *CheckoutHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	input := &service.CheckoutInput{
		ShippingAddress:    toAddressInput(req.ShippingAddress),
		UseDefaultShipping: req.UseDefaultShipping,
		SetDefaultShipping: req.SetDefaultShipping,
		BillingAddress:     toAddressInput(req.BillingAddress),
		SameBillingAddress: req.SameBillingAddress,
		UseDefaultBilling:  req.UseDefaultBilling,
		SetDefaultBilling:  req.SetDefaultBilling,
		PaymentOption:      req.PaymentOption,
	}

	order, err := h.service.Checkout(r.Context(), userID(r), input)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: order})
}

func toAddressInput(req *AddressRequest) *service.AddressInput {
	if req == nil {
		return nil
	}
	return &service.AddressInput{
		StreetAddress:    req.StreetAddress,
		ApartmentAddress: req.ApartmentAddress,
		CountryCode:      req.CountryCode,
		PostalCode:       req.PostalCode,
	}
}
