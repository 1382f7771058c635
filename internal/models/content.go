package models

import (
	"errors"
	"strings"
	"time"
)

// DefaultPageSize is used when a caller asks for a non-positive page size.
const DefaultPageSize = 20

// ErrTitleRequired is returned by [ContentRecord.Validate] for a blank title.
var ErrTitleRequired = errors.New("title is required")

// Timestamp is a [time.Time] whose zero value travels as an empty JSON string.
//
// The editor sends createdAt as "" for records that were never saved.
type Timestamp struct {
	time.Time
}

// NewTimestamp wraps t, normalized to UTC.
func NewTimestamp(t time.Time) Timestamp {
	if t.IsZero() {
		return Timestamp{}
	}
	return Timestamp{Time: t.UTC()}
}

// MarshalJSON encodes the zero value as "" and everything else as RFC 3339.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte(`""`), nil
	}
	return []byte(`"` + t.UTC().Format(time.RFC3339Nano) + `"`), nil
}

// UnmarshalJSON accepts "", null, or an RFC 3339 string.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" || raw == `""` {
		t.Time = time.Time{}
		return nil
	}
	raw = strings.Trim(raw, `"`)
	parsed, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return err
	}
	t.Time = parsed.UTC()
	return nil
}

// ContentRecord is the denormalized content item the editor works with.
//
// Category and FocusAreas hold display names. FocusAreas has set semantics:
// order is irrelevant and duplicates collapse.
type ContentRecord struct {
	ID           string    `json:"id"`
	ContentType  string    `json:"contentType"`
	Title        string    `json:"title"`
	Category     string    `json:"category"`
	FocusAreas   []string  `json:"focusAreas"`
	ContentLink  string    `json:"contentLink"`
	ContentBody  string    `json:"contentBody"`
	ThumbnailURL string    `json:"thumbnailUrl"`
	Duration     string    `json:"duration"`
	Description  string    `json:"description"`
	Published    bool      `json:"published"`
	CreatedAt    Timestamp `json:"createdAt"`
	UpdatedAt    Timestamp `json:"updatedAt"`
}

// IsPersisted reports whether the record has been saved at least once.
// It decides insert versus update; the ID does not.
func (r *ContentRecord) IsPersisted() bool {
	return !r.CreatedAt.IsZero()
}

// Validate checks the fields the editor requires before saving.
func (r *ContentRecord) Validate() error {
	if strings.TrimSpace(r.Title) == "" {
		return ErrTitleRequired
	}
	return nil
}

// FocusAreaSet returns the focus area names trimmed, without blanks and duplicates, in first-seen order.
func (r *ContentRecord) FocusAreaSet() []string {
	return UniqueNames(r.FocusAreas)
}

// ToRow converts the record to its storage shape. The category is referenced by id only.
func (r *ContentRecord) ToRow(categoryID string) *ContentRow {
	return &ContentRow{
		ID:           r.ID,
		ContentType:  NormalizeContentType(r.ContentType),
		Title:        strings.TrimSpace(r.Title),
		CategoryID:   categoryID,
		ContentLink:  r.ContentLink,
		ContentBody:  r.ContentBody,
		ThumbnailURL: r.ThumbnailURL,
		Duration:     r.Duration,
		Description:  r.Description,
		Published:    r.Published,
		CreatedAt:    r.CreatedAt.Time,
		UpdatedAt:    r.UpdatedAt.Time,
	}
}

// ContentSummary is the list projection of a content item.
//
// FocusAreas, ContentBody and Description are never populated for summaries.
type ContentSummary struct {
	ContentRecord
}

// ContentRow is a row of academy_content.
//
// CategoryName is read-only: stores fill it through a join on reads and never write it.
type ContentRow struct {
	ID           string
	ContentType  string
	Title        string
	CategoryID   string
	CategoryName string
	ContentLink  string
	ContentBody  string
	ThumbnailURL string
	Duration     string
	Description  string
	Published    bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ToRecord converts a stored row back to the editor shape with the given focus area names.
func (r *ContentRow) ToRecord(focusAreas []string) *ContentRecord {
	if focusAreas == nil {
		focusAreas = []string{}
	}
	return &ContentRecord{
		ID:           r.ID,
		ContentType:  DisplayContentType(r.ContentType),
		Title:        r.Title,
		Category:     r.CategoryName,
		FocusAreas:   focusAreas,
		ContentLink:  r.ContentLink,
		ContentBody:  r.ContentBody,
		ThumbnailURL: r.ThumbnailURL,
		Duration:     r.Duration,
		Description:  r.Description,
		Published:    r.Published,
		CreatedAt:    NewTimestamp(r.CreatedAt),
		UpdatedAt:    NewTimestamp(r.UpdatedAt),
	}
}

// ToSummary converts a stored row to the list projection.
func (r *ContentRow) ToSummary() ContentSummary {
	record := r.ToRecord(nil)
	record.ContentBody = ""
	record.Description = ""
	return ContentSummary{ContentRecord: *record}
}
