package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/desertthunder/acms/internal/models"
	"github.com/desertthunder/acms/internal/shared"
)

// LabelRepository persists reference labels (categories and focus areas).
//
// Both tables share a shape, so one repository serves either by [models.LabelTable].
type LabelRepository struct {
	db *sql.DB
}

// NewLabelRepository creates a new LabelRepository with the given database connection
func NewLabelRepository(db *sql.DB) *LabelRepository {
	return &LabelRepository{db: db}
}

// Lookup finds a label by exact name. It returns nil, nil when no row matches.
func (r *LabelRepository) Lookup(ctx context.Context, table models.LabelTable, name string) (*models.ReferenceLabel, error) {
	quoted, err := labelTable(table)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`SELECT id, name FROM %s WHERE name = $1`, quoted)

	var label models.ReferenceLabel
	err = r.db.QueryRowContext(ctx, query, name).Scan(&label.ID, &label.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up %s %q: %w", table, name, err)
	}

	return &label, nil
}

// Upsert inserts a label or returns the existing row with the same name.
//
// The unique constraint on name makes this a single atomic statement, so two
// concurrent callers always end up with the same id.
func (r *LabelRepository) Upsert(ctx context.Context, table models.LabelTable, name string) (*models.ReferenceLabel, error) {
	quoted, err := labelTable(table)
	if err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: label name is empty", shared.ErrInvalidInput)
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (id, name, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (name) DO UPDATE SET name = excluded.name
		RETURNING id, name
	`, quoted)

	var label models.ReferenceLabel
	err = r.db.QueryRowContext(ctx, query, shared.GenerateID(), name, time.Now().UTC()).Scan(&label.ID, &label.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert %s %q: %w", table, name, err)
	}

	return &label, nil
}

// List returns every label in table ordered by name.
func (r *LabelRepository) List(ctx context.Context, table models.LabelTable) ([]models.ReferenceLabel, error) {
	quoted, err := labelTable(table)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, fmt.Sprintf(`SELECT id, name FROM %s ORDER BY name ASC`, quoted))
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", table, err)
	}
	defer rows.Close()

	return scanLabels(rows)
}

// scanLabels drains rows of (id, name) pairs.
func scanLabels(rows *sql.Rows) ([]models.ReferenceLabel, error) {
	labels := []models.ReferenceLabel{}
	for rows.Next() {
		var label models.ReferenceLabel
		if err := rows.Scan(&label.ID, &label.Name); err != nil {
			return nil, fmt.Errorf("failed to scan label: %w", err)
		}
		labels = append(labels, label)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return labels, nil
}
