package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/utafrali/storefront/internal/service"
	"github.com/utafrali/storefront/pkg/httputil"
	"github.com/utafrali/storefront/pkg/validator"
)

// CartHandler handles HTTP requests for cart endpoints.
type CartHandler struct {
	service *service.CartService
	logger  *slog.Logger
}

// NewCartHandler creates a new cart HTTP handler.
func NewCartHandler(svc *service.CartService, logger *slog.Logger) *CartHandler {
	return &CartHandler{
		service: svc,
		logger:  logger,
	}
}

// AddItemRequest is the JSON request body for adding an item to the cart.
type AddItemRequest struct {
	Slug string `json:"slug" validate:"required"`
}

// GetCart handles GET /api/v1/cart
// @Summary Get the active cart
// @Description Returns the authenticated user's active order with its lines and totals.
// @Tags cart
// @Produce json
// @Param X-User-ID header string true "Authenticated user ID"
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/cart [get]
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	order, err := h.service.GetCart(r.Context(), userID(r))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: order})
}

// AddItem handles POST /api/v1/cart/items
// @Summary Add an item to the cart
// @Description Adds one unit of the item to the user's active order, creating the order if needed.
// @Tags cart
// @Accept json
// @Produce json
// @Param X-User-ID header string true "Authenticated user ID"
// @Param request body AddItemRequest true "Item to add"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/cart/items [post]
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req AddItemRequest
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

	order, err := h.service.AddToCart(r.Context(), userID(r), req.Slug)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: order})
}

// RemoveItem handles DELETE /api/v1/cart/items/{slug}
// @Summary Remove an item from the cart
// @Description Removes the entire line for the item from the user's active order.
// @Tags cart
// @Produce json
// @Param X-User-ID header string true "Authenticated user ID"
// @Param slug path string true "Item slug"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/cart/items/{slug} [delete]
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	order, err := h.service.RemoveFromCart(r.Context(), userID(r), slug)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: order})
}

// RemoveSingleItem handles DELETE /api/v1/cart/items/{slug}/one
// @Summary Remove a single unit from the cart
// @Description Decrements the line for the item by one unit, dropping the line at zero.
// @Tags cart
// @Produce json
// @Param X-User-ID header string true "Authenticated user ID"
// @Param slug path string true "Item slug"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/cart/items/{slug}/one [delete]
func (h *CartHandler) RemoveSingleItem(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	order, err := h.service.RemoveSingleItem(r.Context(), userID(r), slug)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: order})
}
