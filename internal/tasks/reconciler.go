package tasks

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/desertthunder/acms/internal/models"
	"github.com/desertthunder/acms/internal/shared"
)

// DefaultMaxConcurrency bounds concurrent label resolution when no limit is configured.
const DefaultMaxConcurrency = 8

// Reconciler rewrites the focus area links of one content item.
type Reconciler struct {
	links          models.JunctionStore
	resolver       *Resolver
	maxConcurrency int
	logger         *log.Logger
}

// NewReconciler creates a Reconciler. maxConcurrency bounds the number of
// in-flight label resolutions; zero or less uses [DefaultMaxConcurrency].
func NewReconciler(links models.JunctionStore, resolver *Resolver, maxConcurrency int, logger *log.Logger) *Reconciler {
	if maxConcurrency <= 0 {
		maxConcurrency = DefaultMaxConcurrency
	}
	if logger == nil {
		logger = shared.DiscardLogger()
	}
	return &Reconciler{links: links, resolver: resolver, maxConcurrency: maxConcurrency, logger: logger}
}

// Reconcile makes the links of contentID equal the ids of names.
//
// The old links are deleted while the names are resolved; the two touch
// different tables and run concurrently. The new links are inserted in a single
// batch after both finish. It returns the linked focus area ids in name order.
func (r *Reconciler) Reconcile(ctx context.Context, contentID string, names []string) ([]string, error) {
	names = models.UniqueNames(names)
	resolved := make([]string, len(names))

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := r.links.DeleteLinks(gctx, contentID); err != nil {
			return fmt.Errorf("%w: %w", shared.ErrJunctionSync, err)
		}
		return nil
	})

	g.Go(func() error {
		rg, rctx := errgroup.WithContext(gctx)
		rg.SetLimit(r.maxConcurrency)
		for i, name := range names {
			rg.Go(func() error {
				id, err := r.resolver.Resolve(rctx, models.FocusAreasTable, name)
				if err != nil {
					return err
				}
				resolved[i] = id
				return nil
			})
		}
		return rg.Wait()
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	ids := uniqueIDs(resolved)
	if len(ids) == 0 {
		return ids, nil
	}

	rows := make([]models.JunctionRow, 0, len(ids))
	for _, id := range ids {
		rows = append(rows, models.JunctionRow{ContentID: contentID, FocusAreaID: id})
	}

	if err := r.links.InsertLinks(ctx, rows); err != nil {
		return nil, fmt.Errorf("%w: %w", shared.ErrJunctionSync, err)
	}

	r.logger.Debug("reconciled focus areas", "content_id", contentID, "links", len(rows))
	return ids, nil
}

// uniqueIDs drops empty ids and duplicates, keeping first-seen order.
func uniqueIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
