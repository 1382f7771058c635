package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/acms/internal/models"
	"github.com/desertthunder/acms/internal/shared"
)

const contentSelect = `
	SELECT c.id, c.content_type, c.title, COALESCE(c.category_id, ''), COALESCE(cat.name, ''),
		c.content_link, c.content_body, c.thumbnail_url, c.duration, c.description,
		c.is_published, c.created_at, c.updated_at
	FROM academy_content c
	LEFT JOIN categories cat ON cat.id = c.category_id
`

// ContentRepository persists academy_content rows.
type ContentRepository struct {
	db *sql.DB
}

// NewContentRepository creates a new ContentRepository with the given database connection
func NewContentRepository(db *sql.DB) *ContentRepository {
	return &ContentRepository{db: db}
}

// Insert writes a new row and returns it with the stored id and timestamps.
//
// A blank id is generated; zero timestamps are set to the current time.
// A nil row with a nil error means the statement returned nothing.
func (r *ContentRepository) Insert(ctx context.Context, row *models.ContentRow) (*models.ContentRow, error) {
	stored := *row
	if stored.ID == "" {
		stored.ID = shared.GenerateID()
	}

	now := time.Now().UTC()
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = now
	}
	if stored.UpdatedAt.IsZero() {
		stored.UpdatedAt = stored.CreatedAt
	}

	query := `
		INSERT INTO academy_content (id, content_type, title, category_id, content_link, content_body,
			thumbnail_url, duration, description, is_published, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id
	`

	var id string
	err := r.db.QueryRowContext(ctx, query,
		stored.ID,
		stored.ContentType,
		stored.Title,
		nullString(stored.CategoryID),
		stored.ContentLink,
		stored.ContentBody,
		stored.ThumbnailURL,
		stored.Duration,
		stored.Description,
		stored.Published,
		stored.CreatedAt,
		stored.UpdatedAt,
	).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to insert content: %w", err)
	}

	stored.ID = id
	stored.CategoryName = ""
	return &stored, nil
}

// Update rewrites every scalar column of the row matching row.ID and refreshes updated_at.
func (r *ContentRepository) Update(ctx context.Context, row *models.ContentRow) error {
	now := time.Now().UTC()

	query := `
		UPDATE academy_content
		SET content_type = $1, title = $2, category_id = $3, content_link = $4, content_body = $5,
			thumbnail_url = $6, duration = $7, description = $8, is_published = $9, updated_at = $10
		WHERE id = $11
	`

	result, err := r.db.ExecContext(ctx, query,
		row.ContentType,
		row.Title,
		nullString(row.CategoryID),
		row.ContentLink,
		row.ContentBody,
		row.ThumbnailURL,
		row.Duration,
		row.Description,
		row.Published,
		now,
		row.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update content: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrContentNotFound, row.ID)
	}

	row.UpdatedAt = now
	return nil
}

// Delete removes the row with id. Deleting a missing row is not an error.
func (r *ContentRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM academy_content WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete content: %w", err)
	}
	return nil
}

// Get retrieves a row by id with its category name. It returns nil, nil when absent.
func (r *ContentRepository) Get(ctx context.Context, id string) (*models.ContentRow, error) {
	row, err := scanContent(r.db.QueryRowContext(ctx, contentSelect+` WHERE c.id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return row, nil
}

// List returns the rows in the inclusive window q, newest first.
func (r *ContentRepository) List(ctx context.Context, q models.ContentQuery) ([]*models.ContentRow, error) {
	if q.Limit() == 0 {
		return []*models.ContentRow{}, nil
	}

	query := contentSelect
	args := []any{}

	if q.Search != "" {
		pattern := likePattern(q.Search)
		query += ` WHERE LOWER(c.title) LIKE $1 ESCAPE '\'
			OR LOWER(c.content_type) LIKE $2 ESCAPE '\'
			OR LOWER(COALESCE(cat.name, '')) LIKE $3 ESCAPE '\'`
		args = append(args, pattern, pattern, pattern)
	}

	query += fmt.Sprintf(" ORDER BY c.created_at DESC, c.id DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, q.Limit(), q.From)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query content: %w", err)
	}
	defer rows.Close()

	content := []*models.ContentRow{}
	for rows.Next() {
		row, err := scanContent(rows)
		if err != nil {
			return nil, err
		}
		content = append(content, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return content, nil
}

type scanner interface {
	Scan(dest ...any) error
}

// scanContent scans a [contentSelect] row into a [models.ContentRow]
func scanContent(s scanner) (*models.ContentRow, error) {
	var row models.ContentRow
	err := s.Scan(
		&row.ID,
		&row.ContentType,
		&row.Title,
		&row.CategoryID,
		&row.CategoryName,
		&row.ContentLink,
		&row.ContentBody,
		&row.ThumbnailURL,
		&row.Duration,
		&row.Description,
		&row.Published,
		&row.CreatedAt,
		&row.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan content: %w", err)
	}

	row.CreatedAt = row.CreatedAt.UTC()
	row.UpdatedAt = row.UpdatedAt.UTC()
	return &row, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
