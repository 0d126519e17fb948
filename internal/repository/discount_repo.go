package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/bleupos/promo-service/internal/models"
)

var (
	discountProducts   = assocTable{table: "discount_applicable_products", idCol: "discount_id", nameCol: "product_name"}
	discountCategories = assocTable{table: "discount_applicable_categories", idCol: "discount_id", nameCol: "category_name"}
)

// DiscountRepo persists discounts and their applicable product/category
// association rows. Every mutation runs in a single transaction.
type DiscountRepo struct {
	db *sql.DB
}

func NewDiscountRepo(db *sql.DB) *DiscountRepo {
	return &DiscountRepo{db: db}
}

// Create inserts the discount row and, depending on applicationType,
// its association rows. Returns the server-assigned id.
func (r *DiscountRepo) Create(ctx context.Context, in *models.DiscountInput) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	const insert = `
		INSERT INTO discounts
		(name, status, application_type, discount_type, discount_value, minimum_spend, valid_from, valid_to, is_deleted, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, FALSE, NOW(), NOW())
		RETURNING id
	`
	var id int
	err = tx.QueryRowContext(ctx, insert,
		in.Name, in.Status, in.ApplicationType, in.DiscountType,
		in.DiscountValue, in.MinSpend, in.ValidFrom, in.ValidTo,
	).Scan(&id)
	if err != nil {
		return 0, classifyWriteErr(err, "discount", in.Name)
	}

	if err := r.insertSelections(ctx, tx, id, in); err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return id, nil
}

// GetByID returns the discount with its association lists, excluding
// soft-deleted rows.
func (r *DiscountRepo) GetByID(ctx context.Context, id int) (*models.Discount, error) {
	const query = `
		SELECT id, name, status, application_type, discount_type, discount_value, minimum_spend, valid_from, valid_to
		FROM discounts
		WHERE id = $1 AND is_deleted = FALSE
	`
	var d models.Discount
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&d.ID, &d.Name, &d.Status, &d.ApplicationType, &d.DiscountType,
		&d.DiscountValue, &d.MinSpend, &d.ValidFrom, &d.ValidTo,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("query discount: %w", err)
	}

	if d.SelectedProducts, err = discountProducts.names(ctx, r.db, id); err != nil {
		return nil, err
	}
	if d.SelectedCategories, err = discountCategories.names(ctx, r.db, id); err != nil {
		return nil, err
	}
	return &d, nil
}

// List returns all non-deleted discounts newest-first, with association
// names aggregated per row.
func (r *DiscountRepo) List(ctx context.Context) ([]models.Discount, error) {
	const query = `
		SELECT d.id, d.name, d.status, d.application_type, d.discount_type,
		       d.discount_value, d.minimum_spend, d.valid_from, d.valid_to,
		       (SELECT string_agg(DISTINCT dp.product_name, ',')
		        FROM discount_applicable_products dp
		        WHERE dp.discount_id = d.id) AS products,
		       (SELECT string_agg(DISTINCT dc.category_name, ',')
		        FROM discount_applicable_categories dc
		        WHERE dc.discount_id = d.id) AS categories
		FROM discounts d
		WHERE d.is_deleted = FALSE
		ORDER BY d.id DESC
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query discounts: %w", err)
	}
	defer rows.Close()

	var out []models.Discount
	for rows.Next() {
		var d models.Discount
		var products, categories sql.NullString
		err := rows.Scan(
			&d.ID, &d.Name, &d.Status, &d.ApplicationType, &d.DiscountType,
			&d.DiscountValue, &d.MinSpend, &d.ValidFrom, &d.ValidTo,
			&products, &categories,
		)
		if err != nil {
			return nil, err
		}
		d.SelectedProducts = splitAgg(products)
		d.SelectedCategories = splitAgg(categories)
		out = append(out, d)
	}
	return out, rows.Err()
}

// Update overwrites the discount row and replaces both association
// tables in the same transaction, so no empty-association window is
// ever observable.
func (r *DiscountRepo) Update(ctx context.Context, id int, in *models.DiscountInput) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	const update = `
		UPDATE discounts
		SET name = $1, status = $2, application_type = $3, discount_type = $4,
		    discount_value = $5, minimum_spend = $6, valid_from = $7, valid_to = $8,
		    updated_at = NOW()
		WHERE id = $9 AND is_deleted = FALSE
	`
	res, err := tx.ExecContext(ctx, update,
		in.Name, in.Status, in.ApplicationType, in.DiscountType,
		in.DiscountValue, in.MinSpend, in.ValidFrom, in.ValidTo, id,
	)
	if err != nil {
		return classifyWriteErr(err, "discount", in.Name)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return models.ErrNotFound
	}

	if err := discountProducts.deleteAll(ctx, tx, id); err != nil {
		return err
	}
	if err := discountCategories.deleteAll(ctx, tx, id); err != nil {
		return err
	}
	if err := r.insertSelections(ctx, tx, id, in); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// SoftDelete hides the row from all reads without removing it.
func (r *DiscountRepo) SoftDelete(ctx context.Context, id int) error {
	const del = `UPDATE discounts SET is_deleted = TRUE, updated_at = NOW() WHERE id = $1 AND is_deleted = FALSE`
	res, err := r.db.ExecContext(ctx, del, id)
	if err != nil {
		return fmt.Errorf("soft delete discount: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return models.ErrNotFound
	}
	return nil
}

// ExpireOverdue transitions every non-deleted, non-expired discount
// whose validTo has passed to status 'expired'. Idempotent.
func (r *DiscountRepo) ExpireOverdue(ctx context.Context) error {
	const expire = `
		UPDATE discounts
		SET status = 'expired', updated_at = NOW()
		WHERE valid_to < CURRENT_DATE AND status <> 'expired' AND is_deleted = FALSE
	`
	if _, err := r.db.ExecContext(ctx, expire); err != nil {
		return fmt.Errorf("expire discounts: %w", err)
	}
	return nil
}

// Only the selection list matching applicationType is persisted.
func (r *DiscountRepo) insertSelections(ctx context.Context, tx *sql.Tx, id int, in *models.DiscountInput) error {
	switch in.ApplicationType {
	case models.ApplicationSpecificProducts:
		return discountProducts.insert(ctx, tx, id, in.SelectedProducts)
	case models.ApplicationSpecificCategories:
		return discountCategories.insert(ctx, tx, id, in.SelectedCategories)
	}
	return nil
}
