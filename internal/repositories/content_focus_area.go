package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/desertthunder/acms/internal/models"
)

// ContentFocusAreaRepository manages the content_focus_areas junction table.
type ContentFocusAreaRepository struct {
	db *sql.DB
}

// NewContentFocusAreaRepository creates a new ContentFocusAreaRepository with the given database connection
func NewContentFocusAreaRepository(db *sql.DB) *ContentFocusAreaRepository {
	return &ContentFocusAreaRepository{db: db}
}

// DeleteByContent removes every link of contentID. Zero matches is not an error.
func (r *ContentFocusAreaRepository) DeleteByContent(ctx context.Context, contentID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM content_focus_areas WHERE content_id = $1`, contentID); err != nil {
		return fmt.Errorf("failed to delete focus area links: %w", err)
	}
	return nil
}

// InsertBatch writes all links in one statement. Pairs that already exist are skipped.
func (r *ContentFocusAreaRepository) InsertBatch(ctx context.Context, links []models.JunctionRow) error {
	if len(links) == 0 {
		return nil
	}

	args := make([]any, 0, len(links)*2)
	for _, l := range links {
		args = append(args, l.ContentID, l.FocusAreaID)
	}

	query := `INSERT INTO content_focus_areas (content_id, focus_area_id) VALUES ` +
		placeholders(len(links), 2) +
		` ON CONFLICT DO NOTHING`

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to insert focus area links: %w", err)
	}
	return nil
}

// FocusAreas returns the focus areas linked to contentID ordered by name.
func (r *ContentFocusAreaRepository) FocusAreas(ctx context.Context, contentID string) ([]models.ReferenceLabel, error) {
	query := `
		SELECT f.id, f.name
		FROM content_focus_areas cf
		JOIN focus_areas f ON f.id = cf.focus_area_id
		WHERE cf.content_id = $1
		ORDER BY f.name ASC
	`

	rows, err := r.db.QueryContext(ctx, query, contentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query focus area links: %w", err)
	}
	defer rows.Close()

	return scanLabels(rows)
}
