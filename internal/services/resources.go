package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/desertthunder/acms/internal/models"
)

// contentPayload is the academy_content body sent on insert and update.
// The category name is never sent.
type contentPayload struct {
	ID           string     `json:"id,omitempty"`
	ContentType  string     `json:"content_type"`
	Title        string     `json:"title"`
	CategoryID   *string    `json:"category_id"`
	ContentLink  string     `json:"content_link"`
	ContentBody  string     `json:"content_body"`
	ThumbnailURL string     `json:"thumbnail_url"`
	Duration     string     `json:"duration"`
	Description  string     `json:"description"`
	Published    bool       `json:"is_published"`
	UpdatedAt    *time.Time `json:"updated_at,omitempty"`
}

func newContentPayload(row *models.ContentRow, withID bool) *contentPayload {
	p := &contentPayload{
		ContentType:  row.ContentType,
		Title:        row.Title,
		ContentLink:  row.ContentLink,
		ContentBody:  row.ContentBody,
		ThumbnailURL: row.ThumbnailURL,
		Duration:     row.Duration,
		Description:  row.Description,
		Published:    row.Published,
	}
	if withID {
		p.ID = row.ID
	}
	if row.CategoryID != "" {
		id := row.CategoryID
		p.CategoryID = &id
	}
	return p
}

// contentResource is an academy_content row as PostgREST returns it, with the
// category embedded.
type contentResource struct {
	ID           string  `json:"id"`
	ContentType  string  `json:"content_type"`
	Title        string  `json:"title"`
	CategoryID   *string `json:"category_id"`
	ContentLink  *string `json:"content_link"`
	ContentBody  *string `json:"content_body"`
	ThumbnailURL *string `json:"thumbnail_url"`
	Duration     *string `json:"duration"`
	Description  *string `json:"description"`
	Published    bool    `json:"is_published"`
	CreatedAt    pgTime  `json:"created_at"`
	UpdatedAt    pgTime  `json:"updated_at"`
	Category     *struct {
		Name string `json:"name"`
	} `json:"categories"`
}

func (r contentResource) toRow() *models.ContentRow {
	row := &models.ContentRow{
		ID:           r.ID,
		ContentType:  r.ContentType,
		Title:        r.Title,
		CategoryID:   deref(r.CategoryID),
		ContentLink:  deref(r.ContentLink),
		ContentBody:  deref(r.ContentBody),
		ThumbnailURL: deref(r.ThumbnailURL),
		Duration:     deref(r.Duration),
		Description:  deref(r.Description),
		Published:    r.Published,
		CreatedAt:    r.CreatedAt.Time,
		UpdatedAt:    r.UpdatedAt.Time,
	}
	if r.Category != nil {
		row.CategoryName = r.Category.Name
	}
	return row
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// pgTime decodes Postgres timestamps with or without a zone offset.
type pgTime struct {
	time.Time
}

var pgTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999-07",
	"2006-01-02 15:04:05.999999999",
}

func (t *pgTime) UnmarshalJSON(data []byte) error {
	raw := strings.Trim(strings.TrimSpace(string(data)), `"`)
	if raw == "" || raw == "null" {
		t.Time = time.Time{}
		return nil
	}
	for _, layout := range pgTimeLayouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			t.Time = parsed.UTC()
			return nil
		}
	}
	return fmt.Errorf("unrecognized timestamp %q", raw)
}
