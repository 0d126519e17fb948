package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/bleupos/promo-service/internal/models"
)

// PromotionService is the lifecycle contract the handler drives.
type PromotionService interface {
	Create(ctx context.Context, token string, in *models.PromotionInput) (*models.Promotion, error)
	List(ctx context.Context, token string) ([]models.PromotionListItem, error)
	ListBogo(ctx context.Context, token string) ([]models.PromotionListItem, error)
	ListActive(ctx context.Context, token string) ([]models.Promotion, error)
	Get(ctx context.Context, token string, id int) (*models.Promotion, error)
	Update(ctx context.Context, token string, id int, in *models.PromotionInput) (*models.Promotion, error)
	Delete(ctx context.Context, token string, id int) error
}

type PromotionHandler struct {
	svc PromotionService
}

func NewPromotionHandler(svc PromotionService) *PromotionHandler {
	return &PromotionHandler{svc: svc}
}

// Create handles POST /promotions/
func (h *PromotionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in models.PromotionInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, errBody("invalid request body"))
		return
	}
	p, err := h.svc.Create(r.Context(), bearerToken(r), &in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

// List handles GET /promotions/
func (h *PromotionHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.List(r.Context(), bearerToken(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// ListBogo handles GET /promotions/bogo
func (h *PromotionHandler) ListBogo(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.ListBogo(r.Context(), bearerToken(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// ListActive handles GET /promotions/active
func (h *PromotionHandler) ListActive(w http.ResponseWriter, r *http.Request) {
	promotions, err := h.svc.ListActive(r.Context(), bearerToken(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, promotions)
}

// Get handles GET /promotions/{id}
func (h *PromotionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	p, err := h.svc.Get(r.Context(), bearerToken(r), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// Update handles PUT /promotions/{id}
func (h *PromotionHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var in models.PromotionInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, errBody("invalid request body"))
		return
	}
	p, err := h.svc.Update(r.Context(), bearerToken(r), id, &in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// Delete handles DELETE /promotions/{id}
func (h *PromotionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.svc.Delete(r.Context(), bearerToken(r), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Promotion deleted successfully."})
}
