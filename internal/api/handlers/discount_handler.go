package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/bleupos/promo-service/internal/models"
)

// DiscountService is the lifecycle contract the handler drives.
type DiscountService interface {
	Create(ctx context.Context, token string, in *models.DiscountInput) (*models.Discount, error)
	List(ctx context.Context, token string) ([]models.DiscountListItem, error)
	Get(ctx context.Context, token string, id int) (*models.Discount, error)
	Update(ctx context.Context, token string, id int, in *models.DiscountInput) (*models.Discount, error)
	Delete(ctx context.Context, token string, id int) error
}

type DiscountHandler struct {
	svc DiscountService
}

func NewDiscountHandler(svc DiscountService) *DiscountHandler {
	return &DiscountHandler{svc: svc}
}

// Create handles POST /discounts/
func (h *DiscountHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in models.DiscountInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, errBody("invalid request body"))
		return
	}
	d, err := h.svc.Create(r.Context(), bearerToken(r), &in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, d)
}

// List handles GET /discounts/
func (h *DiscountHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.List(r.Context(), bearerToken(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// Get handles GET /discounts/{id}
func (h *DiscountHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	d, err := h.svc.Get(r.Context(), bearerToken(r), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// Update handles PUT /discounts/{id}
func (h *DiscountHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var in models.DiscountInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, errBody("invalid request body"))
		return
	}
	d, err := h.svc.Update(r.Context(), bearerToken(r), id, &in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// Delete handles DELETE /discounts/{id}
func (h *DiscountHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.svc.Delete(r.Context(), bearerToken(r), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Discount deleted successfully."})
}

func pathID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errBody("id must be an integer"))
		return 0, false
	}
	return id, true
}
