package tasks

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/acms/internal/models"
	"github.com/desertthunder/acms/internal/shared"
)

// Resolver maps a reference label name to its id, creating the label when absent.
type Resolver struct {
	store  models.LabelStore
	logger *log.Logger
}

// NewResolver creates a Resolver over store. A nil logger discards output.
func NewResolver(store models.LabelStore, logger *log.Logger) *Resolver {
	if logger == nil {
		logger = shared.DiscardLogger()
	}
	return &Resolver{store: store, logger: logger}
}

// Resolve returns the id of the label called name in table.
//
// A blank name means "no label" and returns "" without any store access. The
// lookup runs first; a miss is followed by an upsert on the unique name, so
// concurrent callers resolving the same new name get the same id.
func (r *Resolver) Resolve(ctx context.Context, table models.LabelTable, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", nil
	}

	existing, err := r.store.LookupLabel(ctx, table, name)
	if err != nil {
		return "", fmt.Errorf("%w: %w", shared.ErrResolver, err)
	}
	if existing != nil {
		return existing.ID, nil
	}

	created, err := r.store.UpsertLabel(ctx, table, name)
	if err != nil {
		return "", fmt.Errorf("%w: %w", shared.ErrResolver, err)
	}
	if created == nil || created.ID == "" {
		return "", fmt.Errorf("%w: upsert of %s %q returned no id", shared.ErrResolver, table, name)
	}

	r.logger.Debug("created reference label", "table", table, "name", name, "id", created.ID)
	return created.ID, nil
}
