package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/acms/internal/repositories"
	"github.com/desertthunder/acms/internal/shared"
	"github.com/desertthunder/acms/internal/tasks"
)

// SetupConfig writes the bundled config template to the --config path.
func (r *Runner) SetupConfig(ctx context.Context, cmd *cli.Command) error {
	if err := shared.CreateConfigFile(r.configPath); err != nil {
		return err
	}

	r.logger.Info("config file created", "path", r.configPath)
	return r.writePlain("✓ Config written to %s\n", r.configPath)
}

// SetupDatabase opens the configured SQL database and creates the tables.
func (r *Runner) SetupDatabase(ctx context.Context, cmd *cli.Command) error {
	if r.config.Database.Driver == shared.DriverPostgREST {
		return fmt.Errorf("%w: the postgrest backend manages its own schema", shared.ErrInvalidConfig)
	}

	r.logger.Info("initializing database", "driver", r.config.Database.Driver)

	store, err := repositories.OpenSQLStore(ctx, r.config.Database)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer store.Close()

	if err := r.writePlain("✓ Schema ready (%d tables)\n", len(shared.Tables)); err != nil {
		return err
	}

	if !cmd.Bool("seed") {
		return nil
	}

	syncer := tasks.NewContentSyncer(store, tasks.SyncOptions{
		MaxConcurrency: r.config.Sync.MaxConcurrency,
		Logger:         r.logger,
	})
	n, err := syncer.SeedCatalog(ctx)
	if err != nil {
		return fmt.Errorf("failed to seed catalog: %w", err)
	}
	return r.writePlain("✓ Seeded %d labels\n", n)
}
