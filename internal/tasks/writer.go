package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/acms/internal/models"
	"github.com/desertthunder/acms/internal/shared"
)

// ContentWriter writes the academy_content row for a record.
type ContentWriter struct {
	store  models.ContentStore
	logger *log.Logger
}

// NewContentWriter creates a ContentWriter over store. A nil logger discards output.
func NewContentWriter(store models.ContentStore, logger *log.Logger) *ContentWriter {
	if logger == nil {
		logger = shared.DiscardLogger()
	}
	return &ContentWriter{store: store, logger: logger}
}

// Upsert updates the row of a persisted record or inserts a new one, referencing
// categoryID. It returns the stored id and whether a row was created.
//
// On insert the id comes from the row the store returns, not from the record.
func (w *ContentWriter) Upsert(ctx context.Context, record *models.ContentRecord, categoryID string) (string, bool, error) {
	row := record.ToRow(categoryID)

	if record.IsPersisted() {
		if err := w.store.UpdateContent(ctx, row); err != nil {
			return "", false, fmt.Errorf("%w: %w", shared.ErrContentWrite, err)
		}
		w.logger.Debug("updated content", "id", row.ID)
		return row.ID, false, nil
	}

	row.CreatedAt = time.Time{}
	row.UpdatedAt = time.Time{}

	stored, err := w.store.InsertContent(ctx, row)
	if err != nil {
		return "", false, fmt.Errorf("%w: %w", shared.ErrContentWrite, err)
	}
	if stored == nil || stored.ID == "" {
		return "", false, fmt.Errorf("%w: content %q", shared.ErrPersistenceInconsistency, record.Title)
	}

	w.logger.Debug("inserted content", "id", stored.ID)
	return stored.ID, true, nil
}
