package catalog

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/ridoy-adhikary/towerCrane/internal/common"
)

// Handlers exposes the catalog HTTP surface.
type Handlers struct {
	svc      *Service
	validate *validator.Validate
}

// NewHandlers wires catalog HTTP handlers.
func NewHandlers(svc *Service) *Handlers {
	return &Handlers{
		svc:      svc,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

type createRequest struct {
	Title       string   `json:"title" validate:"required"`
	Description string   `json:"description" validate:"required"`
	Price       int64    `json:"price" validate:"gte=0"`
	Category    string   `json:"category" validate:"required"`
	Location    string   `json:"location" validate:"required"`
	Images      []string `json:"images" validate:"omitempty,dive,url"`
}

type updateRequest struct {
	Title       *string   `json:"title" validate:"omitempty,min=1"`
	Description *string   `json:"description" validate:"omitempty,min=1"`
	Price       *int64    `json:"price" validate:"omitempty,gte=0"`
	Category    *string   `json:"category" validate:"omitempty,min=1"`
	Location    *string   `json:"location" validate:"omitempty,min=1"`
	Images      *[]string `json:"images" validate:"omitempty,dive,url"`
	Status      *string   `json:"status" validate:"omitempty,oneof=Active Sold Hidden"`
}

// List handles GET /api/v1/products.
func (h *Handlers) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.svc.List(r.Context())
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"products": products})
}

// Get handles GET /api/v1/products/{id}.
func (h *Handlers) Get(w http.ResponseWriter, r *http.Request) {
	product, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"product": product})
}

// ListMine handles GET /api/v1/products/mine.
func (h *Handlers) ListMine(w http.ResponseWriter, r *http.Request) {
	sellerID, ok := common.UserID(r.Context())
	if !ok {
		common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "unauthorized", nil)
		return
	}
	products, err := h.svc.ListMine(r.Context(), sellerID)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"products": products})
}

// Create handles POST /api/v1/products.
func (h *Handlers) Create(w http.ResponseWriter, r *http.Request) {
	sellerID, ok := common.UserID(r.Context())
	if !ok {
		common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "unauthorized", nil)
		return
	}
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.JSONError(w, http.StatusBadRequest, "INVALID_JSON", "invalid request body", nil)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		common.JSONError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid product payload", map[string]string{"reason": err.Error()})
		return
	}
	product, err := h.svc.Create(r.Context(), CreateParams{
		SellerID:    sellerID,
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		Location:    req.Location,
		Images:      req.Images,
	})
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusCreated, map[string]any{"product": product})
}

// Update handles PATCH /api/v1/products/{id}.
func (h *Handlers) Update(w http.ResponseWriter, r *http.Request) {
	sellerID, ok := common.UserID(r.Context())
	if !ok {
		common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "unauthorized", nil)
		return
	}
	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.JSONError(w, http.StatusBadRequest, "INVALID_JSON", "invalid request body", nil)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		common.JSONError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid product payload", map[string]string{"reason": err.Error()})
		return
	}
	product, err := h.svc.Update(r.Context(), sellerID, chi.URLParam(r, "id"), UpdateParams{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		Location:    req.Location,
		Images:      req.Images,
		Status:      req.Status,
	})
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"product": product})
}

// Delete handles DELETE /api/v1/products/{id}.
func (h *Handlers) Delete(w http.ResponseWriter, r *http.Request) {
	sellerID, ok := common.UserID(r.Context())
	if !ok {
		common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "unauthorized", nil)
		return
	}
	if err := h.svc.Delete(r.Context(), sellerID, chi.URLParam(r, "id")); err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"deleted": true})
}

// ContactSeller handles GET /api/v1/products/{id}/contact.
func (h *Handlers) ContactSeller(w http.ResponseWriter, r *http.Request) {
	contact, err := h.svc.ContactSeller(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"contact": contact})
}
