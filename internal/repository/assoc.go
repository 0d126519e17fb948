package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"github.com/bleupos/promo-service/internal/models"
)

// assocTable describes one entity-to-name join table.
type assocTable struct {
	table   string
	idCol   string
	nameCol string
}

func (t assocTable) insert(ctx context.Context, tx *sql.Tx, id int, names []string) error {
	stmt := fmt.Sprintf("INSERT INTO %s (%s, %s) VALUES ($1, $2)", t.table, t.idCol, t.nameCol)
	for _, name := range names {
		if _, err := tx.ExecContext(ctx, stmt, id, name); err != nil {
			return fmt.Errorf("insert into %s: %w", t.table, err)
		}
	}
	return nil
}

func (t assocTable) deleteAll(ctx context.Context, tx *sql.Tx, id int) error {
	stmt := fmt.Sprintf("DELETE FROM %s WHERE %s = $1", t.table, t.idCol)
	if _, err := tx.ExecContext(ctx, stmt, id); err != nil {
		return fmt.Errorf("clear %s: %w", t.table, err)
	}
	return nil
}

func (t assocTable) names(ctx context.Context, db *sql.DB, id int) ([]string, error) {
	stmt := fmt.Sprintf("SELECT %s FROM %s WHERE %s = $1", t.nameCol, t.table, t.idCol)
	rows, err := db.QueryContext(ctx, stmt, id)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", t.table, err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// classifyWriteErr maps a unique-violation on the entity name to a
// Conflict error; everything else passes through unchanged.
func classifyWriteErr(err error, entity, name string) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return &models.ConflictError{Entity: entity, Name: name}
	}
	return err
}

// splitAgg unpacks a string_agg() column into its name list.
func splitAgg(agg sql.NullString) []string {
	if !agg.Valid || agg.String == "" {
		return nil
	}
	return strings.Split(agg.String, ",")
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}

func nullInt(i *int) sql.NullInt64 {
	if i == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*i), Valid: true}
}

func floatPtr(n sql.NullFloat64) *float64 {
	if !n.Valid {
		return nil
	}
	f := n.Float64
	return &f
}

func intPtr(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	i := int(n.Int64)
	return &i
}
