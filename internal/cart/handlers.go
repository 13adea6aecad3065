package cart

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/ridoy-adhikary/towerCrane/internal/common"
)

// Handlers exposes the cart HTTP surface.
type Handlers struct {
	svc      *Service
	validate *validator.Validate
}

// NewHandlers wires cart HTTP handlers.
func NewHandlers(svc *Service) *Handlers {
	return &Handlers{
		svc:      svc,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

type addRequest struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  *int64 `json:"quantity" validate:"omitempty"`
}

// Get handles GET /api/v1/cart.
func (h *Handlers) Get(w http.ResponseWriter, r *http.Request) {
	owner, ok := common.UserID(r.Context())
	if !ok {
		common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "unauthorized", nil)
		return
	}
	view, err := h.svc.GetCart(r.Context(), owner)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, view)
}

// Add handles POST /api/v1/cart.
func (h *Handlers) Add(w http.ResponseWriter, r *http.Request) {
	owner, ok := common.UserID(r.Context())
	if !ok {
		common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "unauthorized", nil)
		return
	}
	var req addRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.JSONError(w, http.StatusBadRequest, "INVALID_JSON", "invalid request body", nil)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		common.JSONError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid cart payload", map[string]string{"reason": err.Error()})
		return
	}
	quantity := int64(1)
	if req.Quantity != nil {
		quantity = *req.Quantity
	}
	view, err := h.svc.AddToCart(r.Context(), owner, req.ProductID, quantity)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusCreated, view)
}

// Remove handles DELETE /api/v1/cart/{productId}.
func (h *Handlers) Remove(w http.ResponseWriter, r *http.Request) {
	owner, ok := common.UserID(r.Context())
	if !ok {
		common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "unauthorized", nil)
		return
	}
	view, err := h.svc.RemoveFromCart(r.Context(), owner, chi.URLParam(r, "productId"))
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, view)
}
