package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/utafrali/storefront/internal/service"
	"github.com/utafrali/storefront/pkg/httputil"
	"github.com/utafrali/storefront/pkg/validator"
)

// RefundHandler handles HTTP requests for refund endpoints.
type RefundHandler struct {
	service *service.RefundService
	logger  *slog.Logger
}

// NewRefundHandler creates a new refund HTTP handler.
func NewRefundHandler(svc *service.RefundService, logger *slog.Logger) *RefundHandler {
	return &RefundHandler{
		service: svc,
		logger:  logger,
	}
}

// RefundRequest is the JSON request body for requesting a refund.
type RefundRequest struct {
	RefCode string `json:"ref_code" validate:"required"`
	Reason  string `json:"reason" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
}

// RequestRefund handles POST /api/v1/refunds
// @Summary Request a refund
// @Description Flags the order identified by its reference code and appends a refund record.
// @Tags refunds
// @Accept json
// @Produce json
// @Param request body RefundRequest true "Refund request data"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/refunds [post]
func (h *RefundHandler) RequestRefund(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req RefundRequest
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

	refund, err := h.service.RequestRefund(r.Context(), &service.RefundInput{
		RefCode: req.RefCode,
		Reason:  req.Reason,
		Email:   req.Email,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: refund})
}
