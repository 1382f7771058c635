package repositories

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/acms/internal/models"
	"github.com/desertthunder/acms/internal/services"
	"github.com/desertthunder/acms/internal/shared"
)

// Backend is a [models.Store] that owns a connection.
type Backend interface {
	models.Store
	Close() error
}

// OpenBackend returns the store selected by database.driver: a SQL store for
// sqlite3 and postgres (schema applied), or the hosted PostgREST client.
func OpenBackend(ctx context.Context, cfg *shared.Config) (Backend, error) {
	switch strings.ToLower(cfg.Database.Driver) {
	case shared.DriverSQLite, shared.DriverPostgres:
		dbCfg := cfg.Database
		dbCfg.Driver = strings.ToLower(dbCfg.Driver)
		return OpenSQLStore(ctx, dbCfg)
	case shared.DriverPostgREST:
		if cfg.PostgREST.URL == "" {
			return nil, fmt.Errorf("%w: postgrest.url is required", shared.ErrInvalidConfig)
		}
		return services.NewPostgRESTServiceFromConfig(cfg.PostgREST), nil
	default:
		return nil, fmt.Errorf("%w: unknown database driver %q", shared.ErrInvalidConfig, cfg.Database.Driver)
	}
}
