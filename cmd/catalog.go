package main

import (
	"context"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/acms/internal/tasks"
)

// CatalogList prints the content types, categories and focus areas.
func (r *Runner) CatalogList(ctx context.Context, cmd *cli.Command) error {
	return r.withSyncer(ctx, func(syncer *tasks.ContentSyncer) error {
		catalog, err := syncer.Catalog(ctx)
		if err != nil {
			return err
		}

		if cmd.Bool("json") {
			return r.writeJSON(catalog, true)
		}

		return r.writePlain("Content types: %s\nCategories (%d): %s\nFocus areas (%d): %s\n",
			strings.Join(catalog.ContentTypes, ", "),
			len(catalog.Categories), strings.Join(catalog.Categories, ", "),
			len(catalog.FocusAreas), strings.Join(catalog.FocusAreas, ", "))
	})
}

// CatalogSeed creates the default categories and focus areas.
func (r *Runner) CatalogSeed(ctx context.Context, cmd *cli.Command) error {
	return r.withSyncer(ctx, func(syncer *tasks.ContentSyncer) error {
		n, err := syncer.SeedCatalog(ctx)
		if err != nil {
			return err
		}
		return r.writePlain("✓ Seeded %d labels\n", n)
	})
}
