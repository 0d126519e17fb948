package api

import (
	"database/sql"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/bleupos/promo-service/internal/api/handlers"
	"github.com/bleupos/promo-service/internal/audit"
	"github.com/bleupos/promo-service/internal/auth"
	"github.com/bleupos/promo-service/internal/catalog"
	"github.com/bleupos/promo-service/internal/config"
	"github.com/bleupos/promo-service/internal/repository"
	"github.com/bleupos/promo-service/internal/service"
)

// NewRouter wires repositories, external-service clients and lifecycle
// services into the HTTP router for the promo-service.
func NewRouter(db *sql.DB, cfg *config.Config) http.Handler {
	guard := auth.NewGuard(cfg.AuthServiceURL)
	resolver := catalog.NewResolver(cfg.CatalogServiceURL)
	emitter := audit.NewEmitter(cfg.AuditServiceURL)

	discountHandler := handlers.NewDiscountHandler(
		service.NewDiscountService(repository.NewDiscountRepo(db), guard, emitter))
	promotionHandler := handlers.NewPromotionHandler(
		service.NewPromotionService(repository.NewPromotionRepo(db), guard, emitter))
	catalogHandler := handlers.NewCatalogHandler(guard, resolver)

	r := chi.NewRouter()

	r.Route("/discounts", func(r chi.Router) {
		r.Post("/", discountHandler.Create)
		r.Get("/", discountHandler.List)
		r.Get("/{id}", discountHandler.Get)
		r.Put("/{id}", discountHandler.Update)
		r.Delete("/{id}", discountHandler.Delete)
	})

	r.Route("/promotions", func(r chi.Router) {
		r.Post("/", promotionHandler.Create)
		r.Get("/", promotionHandler.List)
		r.Get("/bogo", promotionHandler.ListBogo)
		r.Get("/active", promotionHandler.ListActive)
		r.Get("/{id}", promotionHandler.Get)
		r.Put("/{id}", promotionHandler.Update)
		r.Delete("/{id}", promotionHandler.Delete)
	})

	// Read-only selection choices backed by the external catalog
	r.Get("/available-products", catalogHandler.AvailableProducts)
	r.Get("/available-categories", catalogHandler.AvailableCategories)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"message":"Welcome to the Discount & Promotion Service API."}`))
	})

	// health
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	return r
}
