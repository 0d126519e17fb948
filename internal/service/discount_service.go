// Package service implements the per-entity lifecycle rules: authorize,
// auto-expire on reads, storage operation, audit emission on writes,
// response shaping. Collaborators are interfaces so tests can substitute
// them.
package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/bleupos/promo-service/internal/audit"
	"github.com/bleupos/promo-service/internal/auth"
	"github.com/bleupos/promo-service/internal/models"
)

// Role allow-lists per operation class.
var (
	AdminOnly  = []string{"admin"}
	StaffRoles = []string{"admin", "manager", "cashier"}
	UserRoles  = []string{"user"}
)

// Authorizer validates a bearer credential and enforces a role
// allow-list.
type Authorizer interface {
	Authorize(ctx context.Context, token string, allowedRoles ...string) (*auth.User, error)
}

// Emitter schedules a fire-and-forget audit record.
type Emitter interface {
	Emit(token string, ev audit.Event)
}

// DiscountStore is the persistence contract for discounts.
type DiscountStore interface {
	Create(ctx context.Context, in *models.DiscountInput) (int, error)
	GetByID(ctx context.Context, id int) (*models.Discount, error)
	List(ctx context.Context) ([]models.Discount, error)
	Update(ctx context.Context, id int, in *models.DiscountInput) error
	SoftDelete(ctx context.Context, id int) error
	ExpireOverdue(ctx context.Context) error
}

const discountAuditService = "DISCOUNTS_SERVICE"

type DiscountService struct {
	store   DiscountStore
	guard   Authorizer
	emitter Emitter
}

func NewDiscountService(store DiscountStore, guard Authorizer, emitter Emitter) *DiscountService {
	return &DiscountService{store: store, guard: guard, emitter: emitter}
}

func (s *DiscountService) Create(ctx context.Context, token string, in *models.DiscountInput) (*models.Discount, error) {
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

	d := &models.Discount{ID: id, DiscountInput: *in}
	s.emitter.Emit(token, audit.Event{
		Service:     discountAuditService,
		Action:      "CREATE",
		EntityType:  "Discount",
		EntityID:    id,
		Actor:       user.Username,
		Description: fmt.Sprintf("Created discount: %s", in.Name),
		Data:        discountAuditData(d),
	})
	return d, nil
}

func (s *DiscountService) List(ctx context.Context, token string) ([]models.DiscountListItem, error) {
	if _, err := s.guard.Authorize(ctx, token, StaffRoles...); err != nil {
		return nil, err
	}
	s.expire(ctx)

	discounts, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]models.DiscountListItem, 0, len(discounts))
	for i := range discounts {
		items = append(items, discountListItem(&discounts[i]))
	}
	return items, nil
}

func (s *DiscountService) Get(ctx context.Context, token string, id int) (*models.Discount, error) {
	if _, err := s.guard.Authorize(ctx, token, StaffRoles...); err != nil {
		return nil, err
	}
	s.expire(ctx)
	return s.store.GetByID(ctx, id)
}

func (s *DiscountService) Update(ctx context.Context, token string, id int, in *models.DiscountInput) (*models.Discount, error) {
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

	d := &models.Discount{ID: id, DiscountInput: *in}
	data := discountAuditData(d)
	data["previous_values"] = map[string]interface{}{
		"name":           old.Name,
		"status":         old.Status,
		"discount_value": old.DiscountValue,
	}
	s.emitter.Emit(token, audit.Event{
		Service:     discountAuditService,
		Action:      "UPDATE",
		EntityType:  "Discount",
		EntityID:    id,
		Actor:       user.Username,
		Description: discountChangeDescription(old, in),
		Data:        data,
	})
	return d, nil
}

func (s *DiscountService) Delete(ctx context.Context, token string, id int) error {
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
		Service:     discountAuditService,
		Action:      "DELETE",
		EntityType:  "Discount",
		EntityID:    id,
		Actor:       user.Username,
		Description: fmt.Sprintf("Deleted discount: %s", old.Name),
		Data:        map[string]interface{}{"id": id, "name": old.Name, "deleted": true},
	})
	return nil
}

// expire runs the auto-expiration sweep. Failures are logged and
// swallowed so a stuck sweep never blocks reads.
func (s *DiscountService) expire(ctx context.Context) {
	if err := s.store.ExpireOverdue(ctx); err != nil {
		log.Warn().Err(err).Msg("auto-expire discounts failed")
	}
}

func discountAuditData(d *models.Discount) map[string]interface{} {
	return map[string]interface{}{
		"id":                  d.ID,
		"name":                d.Name,
		"status":              d.Status,
		"application_type":    d.ApplicationType,
		"discount_type":       d.DiscountType,
		"discount_value":      d.DiscountValue,
		"minimum_spend":       d.MinSpend,
		"valid_from":          d.ValidFrom.String(),
		"valid_to":            d.ValidTo.String(),
		"selected_products":   d.SelectedProducts,
		"selected_categories": d.SelectedCategories,
	}
}

func discountChangeDescription(old *models.Discount, in *models.DiscountInput) string {
	var changes []string
	if old.Name != in.Name {
		changes = append(changes, fmt.Sprintf("name: '%s' -> '%s'", old.Name, in.Name))
	}
	if old.Status != in.Status {
		changes = append(changes, fmt.Sprintf("status: '%s' -> '%s'", old.Status, in.Status))
	}
	if old.DiscountValue != in.DiscountValue {
		changes = append(changes, fmt.Sprintf("value: %v -> %v", old.DiscountValue, in.DiscountValue))
	}
	if len(changes) == 0 {
		return "Updated discount: modified fields"
	}
	return "Updated discount: " + strings.Join(changes, ", ")
}
