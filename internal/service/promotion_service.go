package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/bleupos/promo-service/internal/audit"
	"github.com/bleupos/promo-service/internal/models"
)

// PromotionStore is the persistence contract for promotions.
type PromotionStore interface {
	Create(ctx context.Context, in *models.PromotionInput) (int, error)
	GetByID(ctx context.Context, id int) (*models.Promotion, error)
	List(ctx context.Context) ([]models.Promotion, error)
	Update(ctx context.Context, id int, in *models.PromotionInput) error
	SoftDelete(ctx context.Context, id int) error
	ExpireOverdue(ctx context.Context) error
}

const promotionAuditService = "PROMOTIONS"

type PromotionService struct {
	store   PromotionStore
	guard   Authorizer
	emitter Emitter
}

func NewPromotionService(store PromotionStore, guard Authorizer, emitter Emitter) *PromotionService {
	return &PromotionService{store: store, guard: guard, emitter: emitter}
}

func (s *PromotionService) Create(ctx context.Context, token string, in *models.PromotionInput) (*models.Promotion, error) {
	user, err := s.guard.Authorize(ctx, token, AdminOnly...)
	if err != nil {
		return nil, err
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}

	id, err := s.store.Create(ctx, in)
	if err != nil {
		return nil, err
	}

	p := &models.Promotion{ID: id, PromotionInput: *in}
	s.emitter.Emit(token, audit.Event{
		Service:     promotionAuditService,
		Action:      "CREATE",
		EntityType:  "Promotion",
		EntityID:    id,
		Actor:       user.Username,
		Description: fmt.Sprintf("Created promotion: %s", in.Name),
		Data:        promotionAuditData(p),
	})
	return p, nil
}

func (s *PromotionService) List(ctx context.Context, token string) ([]models.PromotionListItem, error) {
	if _, err := s.guard.Authorize(ctx, token, StaffRoles...); err != nil {
		return nil, err
	}
	s.expire(ctx)

	promotions, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]models.PromotionListItem, 0, len(promotions))
	for i := range promotions {
		items = append(items, promotionListItem(&promotions[i], false))
	}
	return items, nil
}

// ListBogo returns the active bogo promotions with their full bogo
// detail fields populated.
func (s *PromotionService) ListBogo(ctx context.Context, token string) ([]models.PromotionListItem, error) {
	if _, err := s.guard.Authorize(ctx, token, StaffRoles...); err != nil {
		return nil, err
	}
	s.expire(ctx)

	promotions, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}

	items := []models.PromotionListItem{}
	for i := range promotions {
		p := &promotions[i]
		if p.PromotionType != models.PromotionTypeBogo || p.Status != models.StatusActive {
			continue
		}
		items = append(items, promotionListItem(p, true))
	}
	return items, nil
}

// ListActive returns the full detail shape of promotions that are
// active and inside their validity window today. Consumed by other
// services through the `user` role.
func (s *PromotionService) ListActive(ctx context.Context, token string) ([]models.Promotion, error) {
	if _, err := s.guard.Authorize(ctx, token, UserRoles...); err != nil {
		return nil, err
	}
	s.expire(ctx)

	promotions, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}

	today := models.Today()
	active := []models.Promotion{}
	for _, p := range promotions {
		if p.Status != models.StatusActive {
			continue
		}
		if today.Before(p.ValidFrom.Time) || today.After(p.ValidTo.Time) {
			continue
		}
		active = append(active, p)
	}
	return active, nil
}

func (s *PromotionService) Get(ctx context.Context, token string, id int) (*models.Promotion, error) {
	if _, err := s.guard.Authorize(ctx, token, StaffRoles...); err != nil {
		return nil, err
	}
	s.expire(ctx)
	return s.store.GetByID(ctx, id)
}

func (s *PromotionService) Update(ctx context.Context, token string, id int, in *models.PromotionInput) (*models.Promotion, error) {
	user, err := s.guard.Authorize(ctx, token, AdminOnly...)
	if err != nil {
		return nil, err
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}

	old, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.store.Update(ctx, id, in); err != nil {
		return nil, err
	}

	p := &models.Promotion{ID: id, PromotionInput: *in}
	data := promotionAuditData(p)
	data["previous_values"] = map[string]interface{}{
		"name":   old.Name,
		"status": old.Status,
	}
	s.emitter.Emit(token, audit.Event{
		Service:     promotionAuditService,
		Action:      "UPDATE",
		EntityType:  "Promotion",
		EntityID:    id,
		Actor:       user.Username,
		Description: promotionChangeDescription(old, in),
		Data:        data,
	})
	return p, nil
}

func (s *PromotionService) Delete(ctx context.Context, token string, id int) error {
	user, err := s.guard.Authorize(ctx, token, AdminOnly...)
	if err != nil {
		return err
	}

	old, err := s.store.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.SoftDelete(ctx, id); err != nil {
		return err
	}

	s.emitter.Emit(token, audit.Event{
		Service:     promotionAuditService,
		Action:      "DELETE",
		EntityType:  "Promotion",
		EntityID:    id,
		Actor:       user.Username,
		Description: fmt.Sprintf("Deleted promotion: %s", old.Name),
		Data:        map[string]interface{}{"id": id, "name": old.Name, "deleted": true},
	})
	return nil
}

func (s *PromotionService) expire(ctx context.Context) {
	if err := s.store.ExpireOverdue(ctx); err != nil {
		log.Warn().Err(err).Msg("auto-expire promotions failed")
	}
}

func promotionAuditData(p *models.Promotion) map[string]interface{} {
	return map[string]interface{}{
		"id":                  p.ID,
		"name":                p.Name,
		"status":              p.Status,
		"application_type":    p.ApplicationType,
		"promotion_type":      p.PromotionType,
		"promotion_value":     p.PromotionValue,
		"buy_quantity":        p.BuyQuantity,
		"get_quantity":        p.GetQuantity,
		"valid_from":          p.ValidFrom.String(),
		"valid_to":            p.ValidTo.String(),
		"selected_products":   p.SelectedProducts,
		"selected_categories": p.SelectedCategories,
	}
}

func promotionChangeDescription(old *models.Promotion, in *models.PromotionInput) string {
	var changes []string
	if old.Name != in.Name {
		changes = append(changes, fmt.Sprintf("name: '%s' -> '%s'", old.Name, in.Name))
	}
	if old.Status != in.Status {
		changes = append(changes, fmt.Sprintf("status: '%s' -> '%s'", old.Status, in.Status))
	}
	if old.PromotionType != in.PromotionType {
		changes = append(changes, fmt.Sprintf("type: '%s' -> '%s'", old.PromotionType, in.PromotionType))
	}
	if len(changes) == 0 {
		return "Updated promotion: modified fields"
	}
	return "Updated promotion: " + strings.Join(changes, ", ")
}
