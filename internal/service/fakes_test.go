package service

import (
	"context"
	"sort"
	"time"

	"github.com/bleupos/promo-service/internal/audit"
	"github.com/bleupos/promo-service/internal/auth"
	"github.com/bleupos/promo-service/internal/models"
)

type fakeGuard struct {
	user      *auth.User
	err       error
	lastRoles []string
	calls     int
}

func (g *fakeGuard) Authorize(ctx context.Context, token string, allowedRoles ...string) (*auth.User, error) {
	g.calls++
	g.lastRoles = allowedRoles
	if g.err != nil {
		return nil, g.err
	}
	if g.user != nil {
		return g.user, nil
	}
	return &auth.User{Username: "tester", Role: "admin"}, nil
}

type fakeEmitter struct {
	events []audit.Event
	tokens []string
}

func (e *fakeEmitter) Emit(token string, ev audit.Event) {
	e.tokens = append(e.tokens, token)
	e.events = append(e.events, ev)
}

// fakeDiscountStore keeps rows in memory with soft-delete and
// auto-expire semantics matching the repository contract.
type fakeDiscountStore struct {
	rows        map[int]*models.Discount
	deleted     map[int]bool
	nextID      int
	expireCalls int

	createErr, getErr, listErr, updateErr, deleteErr, expireErr error
}

func newFakeDiscountStore() *fakeDiscountStore {
	return &fakeDiscountStore{rows: map[int]*models.Discount{}, deleted: map[int]bool{}, nextID: 1}
}

func (s *fakeDiscountStore) Create(ctx context.Context, in *models.DiscountInput) (int, error) {
	if s.createErr != nil {
		return 0, s.createErr
	}
	id := s.nextID
	s.nextID++
	cp := *in
	s.rows[id] = &models.Discount{ID: id, DiscountInput: cp}
	return id, nil
}

func (s *fakeDiscountStore) GetByID(ctx context.Context, id int) (*models.Discount, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	d, ok := s.rows[id]
	if !ok || s.deleted[id] {
		return nil, models.ErrNotFound
	}
	cp := *d
	return &cp, nil
}

func (s *fakeDiscountStore) List(ctx context.Context) ([]models.Discount, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	var out []models.Discount
	for id, d := range s.rows {
		if s.deleted[id] {
			continue
		}
		out = append(out, *d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (s *fakeDiscountStore) Update(ctx context.Context, id int, in *models.DiscountInput) error {
	if s.updateErr != nil {
		return s.updateErr
	}
	if _, ok := s.rows[id]; !ok || s.deleted[id] {
		return models.ErrNotFound
	}
	cp := *in
	s.rows[id] = &models.Discount{ID: id, DiscountInput: cp}
	return nil
}

func (s *fakeDiscountStore) SoftDelete(ctx context.Context, id int) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	if _, ok := s.rows[id]; !ok || s.deleted[id] {
		return models.ErrNotFound
	}
	s.deleted[id] = true
	return nil
}

func (s *fakeDiscountStore) ExpireOverdue(ctx context.Context) error {
	s.expireCalls++
	if s.expireErr != nil {
		return s.expireErr
	}
	today := models.Today()
	for id, d := range s.rows {
		if s.deleted[id] || d.Status == models.StatusExpired {
			continue
		}
		if d.ValidTo.Before(today.Time) {
			d.Status = models.StatusExpired
		}
	}
	return nil
}

// fakePromotionStore mirrors fakeDiscountStore for promotions.
type fakePromotionStore struct {
	rows        map[int]*models.Promotion
	deleted     map[int]bool
	nextID      int
	expireCalls int

	createErr, getErr, listErr, updateErr, deleteErr, expireErr error
}

func newFakePromotionStore() *fakePromotionStore {
	return &fakePromotionStore{rows: map[int]*models.Promotion{}, deleted: map[int]bool{}, nextID: 1}
}

func (s *fakePromotionStore) Create(ctx context.Context, in *models.PromotionInput) (int, error) {
	if s.createErr != nil {
		return 0, s.createErr
	}
	id := s.nextID
	s.nextID++
	cp := *in
	s.rows[id] = &models.Promotion{ID: id, PromotionInput: cp}
	return id, nil
}

func (s *fakePromotionStore) GetByID(ctx context.Context, id int) (*models.Promotion, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	p, ok := s.rows[id]
	if !ok || s.deleted[id] {
		return nil, models.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (s *fakePromotionStore) List(ctx context.Context) ([]models.Promotion, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	var out []models.Promotion
	for id, p := range s.rows {
		if s.deleted[id] {
			continue
		}
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (s *fakePromotionStore) Update(ctx context.Context, id int, in *models.PromotionInput) error {
	if s.updateErr != nil {
		return s.updateErr
	}
	if _, ok := s.rows[id]; !ok || s.deleted[id] {
		return models.ErrNotFound
	}
	cp := *in
	s.rows[id] = &models.Promotion{ID: id, PromotionInput: cp}
	return nil
}

func (s *fakePromotionStore) SoftDelete(ctx context.Context, id int) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	if _, ok := s.rows[id]; !ok || s.deleted[id] {
		return models.ErrNotFound
	}
	s.deleted[id] = true
	return nil
}

func (s *fakePromotionStore) ExpireOverdue(ctx context.Context) error {
	s.expireCalls++
	if s.expireErr != nil {
		return s.expireErr
	}
	today := models.Today()
	for id, p := range s.rows {
		if s.deleted[id] || p.Status == models.StatusExpired {
			continue
		}
		if p.ValidTo.Before(today.Time) {
			p.Status = models.StatusExpired
		}
	}
	return nil
}

func daysFromNow(n int) models.Date {
	t := time.Now().UTC().AddDate(0, 0, n)
	return models.NewDate(t.Year(), t.Month(), t.Day())
}

func fp(v float64) *float64 { return &v }
