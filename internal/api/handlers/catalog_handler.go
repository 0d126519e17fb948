package handlers

import (
	"context"
	"net/http"

	"github.com/bleupos/promo-service/internal/service"
)

// ChoiceResolver fetches the valid product and category names from the
// external catalog.
type ChoiceResolver interface {
	FetchChoices(ctx context.Context, token string) (products, categories []string, err error)
}

// CatalogHandler serves the read-only "available choices" endpoints
// used to populate selection pickers.
type CatalogHandler struct {
	guard    service.Authorizer
	resolver ChoiceResolver
}

func NewCatalogHandler(guard service.Authorizer, resolver ChoiceResolver) *CatalogHandler {
	return &CatalogHandler{guard: guard, resolver: resolver}
}

// AvailableProducts handles GET /available-products
func (h *CatalogHandler) AvailableProducts(w http.ResponseWriter, r *http.Request) {
	token := bearerToken(r)
	if _, err := h.guard.Authorize(r.Context(), token, service.StaffRoles...); err != nil {
		writeError(w, err)
		return
	}
	products, _, err := h.resolver.FetchChoices(r.Context(), token)
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]map[string]string, 0, len(products))
	for _, name := range products {
		out = append(out, map[string]string{"ProductName": name})
	}
	writeJSON(w, http.StatusOK, out)
}

// AvailableCategories handles GET /available-categories. The response
// key differs from the products endpoint; clients depend on both shapes.
func (h *CatalogHandler) AvailableCategories(w http.ResponseWriter, r *http.Request) {
	token := bearerToken(r)
	if _, err := h.guard.Authorize(r.Context(), token, service.StaffRoles...); err != nil {
		writeError(w, err)
		return
	}
	_, categories, err := h.resolver.FetchChoices(r.Context(), token)
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]map[string]string, 0, len(categories))
	for _, name := range categories {
		out = append(out, map[string]string{"name": name})
	}
	writeJSON(w, http.StatusOK, out)
}
