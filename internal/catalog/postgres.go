package catalog

import (
	"context"
	"database/sql"
	"fmt"

	"personnel/pkg/platform/sentinel"
)

// PostgresStore serves option catalogs from the field_options table.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed catalog.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Values returns the ordered values for a category. A category with no rows
// is reported as sentinel.ErrNotFound so the validator treats it as unknown.
func (s *PostgresStore) Values(ctx context.Context, category string) ([]string, error) {
	query := `
		SELECT value
		FROM field_options
		WHERE category = $1
		ORDER BY sort_order, value
	`
	rows, err := s.db.QueryContext(ctx, query, category)
	if err != nil {
		return nil, fmt.Errorf("query field options: %w", err)
	}
	defer rows.Close()

	var values []string
	for rows.Next() {
		var value string
		if err := rows.Scan(&value); err != nil {
			return nil, fmt.Errorf("scan field option: %w", err)
		}
		values = append(values, value)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate field options: %w", err)
	}
	if len(values) == 0 {
		return nil, sentinel.ErrNotFound
	}
	return values, nil
}

// Has reports whether any option exists for the category.
func (s *PostgresStore) Has(ctx context.Context, category string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM field_options WHERE category = $1)`
	if err := s.db.QueryRowContext(ctx, query, category).Scan(&exists); err != nil {
		return false, fmt.Errorf("check field option category: %w", err)
	}
	return exists, nil
}
