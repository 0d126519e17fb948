package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/bleupos/promo-service/internal/models"
)

var (
	promotionProducts   = assocTable{table: "promotion_applicable_products", idCol: "promotion_id", nameCol: "product_name"}
	promotionCategories = assocTable{table: "promotion_applicable_categories", idCol: "promotion_id", nameCol: "category_name"}
)

// PromotionRepo persists promotions and their applicable
// product/category association rows.
type PromotionRepo struct {
	db *sql.DB
}

func NewPromotionRepo(db *sql.DB) *PromotionRepo {
	return &PromotionRepo{db: db}
}

// Create inserts the promotion row plus every selected product and
// category. Unlike discounts, both selection lists are persisted
// regardless of applicationType.
func (r *PromotionRepo) Create(ctx context.Context, in *models.PromotionInput) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	const insert = `
		INSERT INTO promotions
		(name, description, application_type, promotion_type, promotion_value,
		 buy_quantity, get_quantity, bogo_discount_type, bogo_discount_value,
		 bogo_promotion_image, min_quantity, valid_from, valid_to, status, is_deleted,
		 created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, FALSE, NOW(), NOW())
		RETURNING id
	`
	var id int
	err = tx.QueryRowContext(ctx, insert,
		in.Name, nullString(in.Description), in.ApplicationType, in.PromotionType,
		nullFloat(in.PromotionValue), in.BuyQuantity, in.GetQuantity,
		nullString(in.BogoDiscountType), nullFloat(in.BogoDiscountValue),
		nullString(in.BogoPromotionImage), nullInt(in.MinQuantity),
		in.ValidFrom, in.ValidTo, in.Status,
	).Scan(&id)
	if err != nil {
		return 0, classifyWriteErr(err, "promotion", in.Name)
	}

	if err := promotionProducts.insert(ctx, tx, id, in.SelectedProducts); err != nil {
		return 0, err
	}
	if err := promotionCategories.insert(ctx, tx, id, in.SelectedCategories); err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return id, nil
}

// GetByID returns the promotion with its association lists, excluding
// soft-deleted rows.
func (r *PromotionRepo) GetByID(ctx context.Context, id int) (*models.Promotion, error) {
	const query = `
		SELECT id, name, description, application_type, promotion_type, promotion_value,
		       buy_quantity, get_quantity, bogo_discount_type, bogo_discount_value,
		       bogo_promotion_image, min_quantity, valid_from, valid_to, status
		FROM promotions
		WHERE id = $1 AND is_deleted = FALSE
	`
	p, err := scanPromotion(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("query promotion: %w", err)
	}

	if p.SelectedProducts, err = promotionProducts.names(ctx, r.db, id); err != nil {
		return nil, err
	}
	if p.SelectedCategories, err = promotionCategories.names(ctx, r.db, id); err != nil {
		return nil, err
	}
	return p, nil
}

// List returns all non-deleted promotions newest-first with association
// names aggregated per row.
func (r *PromotionRepo) List(ctx context.Context) ([]models.Promotion, error) {
	const query = `
		SELECT p.id, p.name, p.description, p.application_type, p.promotion_type, p.promotion_value,
		       p.buy_quantity, p.get_quantity, p.bogo_discount_type, p.bogo_discount_value,
		       p.bogo_promotion_image, p.min_quantity, p.valid_from, p.valid_to, p.status,
		       (SELECT string_agg(DISTINCT pp.product_name, ',')
		        FROM promotion_applicable_products pp
		        WHERE pp.promotion_id = p.id) AS products,
		       (SELECT string_agg(DISTINCT pc.category_name, ',')
		        FROM promotion_applicable_categories pc
		        WHERE pc.promotion_id = p.id) AS categories
		FROM promotions p
		WHERE p.is_deleted = FALSE
		ORDER BY p.id DESC
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query promotions: %w", err)
	}
	defer rows.Close()

	var out []models.Promotion
	for rows.Next() {
		var p models.Promotion
		var description, bogoType, bogoImage sql.NullString
		var promoValue, bogoValue sql.NullFloat64
		var minQty sql.NullInt64
		var products, categories sql.NullString
		err := rows.Scan(
			&p.ID, &p.Name, &description, &p.ApplicationType, &p.PromotionType, &promoValue,
			&p.BuyQuantity, &p.GetQuantity, &bogoType, &bogoValue,
			&bogoImage, &minQty, &p.ValidFrom, &p.ValidTo, &p.Status,
			&products, &categories,
		)
		if err != nil {
			return nil, err
		}
		p.Description = description.String
		p.PromotionValue = floatPtr(promoValue)
		p.BogoDiscountType = bogoType.String
		p.BogoDiscountValue = floatPtr(bogoValue)
		p.BogoPromotionImage = bogoImage.String
		p.MinQuantity = intPtr(minQty)
		p.SelectedProducts = splitAgg(products)
		p.SelectedCategories = splitAgg(categories)
		out = append(out, p)
	}
	return out, rows.Err()
}

// Update overwrites the promotion row and replaces both association
// tables in the same transaction.
func (r *PromotionRepo) Update(ctx context.Context, id int, in *models.PromotionInput) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	const update = `
		UPDATE promotions
		SET name = $1, description = $2, application_type = $3, promotion_type = $4,
		    promotion_value = $5, buy_quantity = $6, get_quantity = $7,
		    bogo_discount_type = $8, bogo_discount_value = $9, bogo_promotion_image = $10,
		    min_quantity = $11, valid_from = $12, valid_to = $13, status = $14,
		    updated_at = NOW()
		WHERE id = $15 AND is_deleted = FALSE
	`
	res, err := tx.ExecContext(ctx, update,
		in.Name, nullString(in.Description), in.ApplicationType, in.PromotionType,
		nullFloat(in.PromotionValue), in.BuyQuantity, in.GetQuantity,
		nullString(in.BogoDiscountType), nullFloat(in.BogoDiscountValue),
		nullString(in.BogoPromotionImage), nullInt(in.MinQuantity),
		in.ValidFrom, in.ValidTo, in.Status, id,
	)
	if err != nil {
		return classifyWriteErr(err, "promotion", in.Name)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return models.ErrNotFound
	}

	if err := promotionProducts.deleteAll(ctx, tx, id); err != nil {
		return err
	}
	if err := promotionProducts.insert(ctx, tx, id, in.SelectedProducts); err != nil {
		return err
	}
	if err := promotionCategories.deleteAll(ctx, tx, id); err != nil {
		return err
	}
	if err := promotionCategories.insert(ctx, tx, id, in.SelectedCategories); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// SoftDelete hides the row from all reads without removing it.
func (r *PromotionRepo) SoftDelete(ctx context.Context, id int) error {
	const del = `UPDATE promotions SET is_deleted = TRUE, updated_at = NOW() WHERE id = $1 AND is_deleted = FALSE`
	res, err := r.db.ExecContext(ctx, del, id)
	if err != nil {
		return fmt.Errorf("soft delete promotion: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return models.ErrNotFound
	}
	return nil
}

// ExpireOverdue transitions every non-deleted, non-expired promotion
// whose validTo has passed to status 'expired'. Idempotent.
func (r *PromotionRepo) ExpireOverdue(ctx context.Context) error {
	const expire = `
		UPDATE promotions
		SET status = 'expired', updated_at = NOW()
		WHERE valid_to < CURRENT_DATE AND status <> 'expired' AND is_deleted = FALSE
	`
	if _, err := r.db.ExecContext(ctx, expire); err != nil {
		return fmt.Errorf("expire promotions: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPromotion(row rowScanner) (*models.Promotion, error) {
	var p models.Promotion
	var description, bogoType, bogoImage sql.NullString
	var promoValue, bogoValue sql.NullFloat64
	var minQty sql.NullInt64
	err := row.Scan(
		&p.ID, &p.Name, &description, &p.ApplicationType, &p.PromotionType, &promoValue,
		&p.BuyQuantity, &p.GetQuantity, &bogoType, &bogoValue,
		&bogoImage, &minQty, &p.ValidFrom, &p.ValidTo, &p.Status,
	)
	if err != nil {
		return nil, err
	}
	p.Description = description.String
	p.PromotionValue = floatPtr(promoValue)
	p.BogoDiscountType = bogoType.String
	p.BogoDiscountValue = floatPtr(bogoValue)
	p.BogoPromotionImage = bogoImage.String
	p.MinQuantity = intPtr(minQty)
	return &p, nil
}
