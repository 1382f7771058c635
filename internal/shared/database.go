package shared

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// NewDatabase opens a connection using the named driver ("sqlite3" or "postgres").
//
// For sqlite3 the DSN can be ":memory:" for an in-memory database. Foreign keys
// and a busy timeout are always enabled, and in-memory databases are pinned to a
// single connection so every query sees the same schema.
func NewDatabase(driver, dsn string) (*sql.DB, error) {
	driver = strings.ToLower(driver)

	switch driver {
	case DriverSQLite:
		dsn = sqliteDSN(dsn)
	case DriverPostgres:
	default:
		return nil, fmt.Errorf("%w: unsupported database driver %q", ErrInvalidConfig, driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if driver == DriverSQLite && isMemoryDSN(dsn) {
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// OpenDatabase opens and configures the database described by cfg.
func OpenDatabase(cfg DatabaseConfig) (*sql.DB, error) {
	db, err := NewDatabase(cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, err
	}

	if !(strings.EqualFold(cfg.Driver, DriverSQLite) && isMemoryDSN(cfg.DSN)) {
		ConfigureDatabase(db, cfg.MaxOpenConns, cfg.MaxIdleConns)
	}
	return db, nil
}

// ConfigureDatabase sets connection pool settings for the database.
// Non-positive values leave the driver default in place.
func ConfigureDatabase(db *sql.DB, maxOpenConns, maxIdleConns int) {
	if maxOpenConns > 0 {
		db.SetMaxOpenConns(maxOpenConns)
	}
	if maxIdleConns > 0 {
		db.SetMaxIdleConns(maxIdleConns)
	}
}

func isMemoryDSN(dsn string) bool {
	return strings.Contains(dsn, ":memory:") || strings.Contains(dsn, "mode=memory")
}

// sqliteDSN appends the connection options the stores rely on.
func sqliteDSN(dsn string) string {
	var opts []string
	if !strings.Contains(dsn, "_foreign_keys") && !strings.Contains(dsn, "_fk=") {
		opts = append(opts, "_foreign_keys=on")
	}
	if !strings.Contains(dsn, "_busy_timeout") && !strings.Contains(dsn, "_timeout=") {
		opts = append(opts, "_busy_timeout=5000")
	}
	if len(opts) == 0 {
		return dsn
	}

	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + strings.Join(opts, "&")
}
