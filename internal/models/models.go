// package models defines the data model for the academy content admin service
package models

import (
	"context"
	"errors"
	"fmt"
	"math"
)

// LabelStore defines access to the reference tables (categories, focus_areas).
type LabelStore interface {
	LookupLabel(ctx context.Context, table LabelTable, name string) (*ReferenceLabel, error) // LookupLabel returns nil, nil when no row has the name
	UpsertLabel(ctx context.Context, table LabelTable, name string) (*ReferenceLabel, error) // UpsertLabel inserts the name or returns the existing row atomically
	ListLabels(ctx context.Context, table LabelTable) ([]ReferenceLabel, error)             // ListLabels returns every label ordered by name
}

// ContentStore defines access to the academy_content table.
type ContentStore interface {
	InsertContent(ctx context.Context, row *ContentRow) (*ContentRow, error) // InsertContent writes a row and reads it back; a nil row means nothing was returned
	UpdateContent(ctx context.Context, row *ContentRow) error                // UpdateContent rewrites the row matching row.ID
	DeleteContent(ctx context.Context, id string) error                      // DeleteContent removes the row by id; zero matches is not an error
	GetContent(ctx context.Context, id string) (*ContentRow, error)          // GetContent returns nil, nil when absent
	ListContent(ctx context.Context, q ContentQuery) ([]*ContentRow, error)  // ListContent returns a newest-first window
}

// JunctionStore defines access to the content_focus_areas join table.
type JunctionStore interface {
	DeleteLinks(ctx context.Context, contentID string) error                      // DeleteLinks removes every link of the content item
	InsertLinks(ctx context.Context, rows []JunctionRow) error                    // InsertLinks writes all rows in a single batch
	LinkedLabels(ctx context.Context, contentID string) ([]ReferenceLabel, error) // LinkedLabels returns the focus areas linked to the content item
}

// Store is the complete data-access surface consumed by the sync core.
// Implementations must be safe for concurrent use.
type Store interface {
	LabelStore
	ContentStore
	JunctionStore
}

// ContentQuery selects a window of content rows ordered by created_at descending.
//
// From and To are inclusive row offsets. Search, when set, matches title,
// content type or category name case-insensitively.
type ContentQuery struct {
	From   int
	To     int
	Search string
}

// Limit returns the number of rows covered by the window.
func (q ContentQuery) Limit() int {
	if q.To < q.From {
		return 0
	}
	return q.To - q.From + 1
}

// ErrPageOutOfRange reports a page whose first row offset does not fit in an int.
var ErrPageOutOfRange = errors.New("page out of range")

// CheckPage rejects pages whose window would overflow. Negative pages and
// non-positive sizes are normalized the way [PageQuery] does first.
func CheckPage(page, pageSize int) error {
	page, pageSize = normalizePage(page, pageSize)
	if page > maxPage(pageSize) {
		return fmt.Errorf("%w: page %d with size %d", ErrPageOutOfRange, page, pageSize)
	}
	return nil
}

// PageQuery builds the inclusive window for a zero-based page. Pages past the
// last representable window are clamped to it; use [CheckPage] to reject them.
func PageQuery(page, pageSize int, search string) ContentQuery {
	page, pageSize = normalizePage(page, pageSize)
	page = min(page, maxPage(pageSize))
	from := page * pageSize
	return ContentQuery{From: from, To: from + pageSize - 1, Search: search}
}

func normalizePage(page, pageSize int) (int, int) {
	if page < 0 {
		page = 0
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return page, pageSize
}

// maxPage is the largest page whose last row offset fits in an int.
func maxPage(pageSize int) int {
	return (math.MaxInt - pageSize) / pageSize
}
