package shared

import (
	"context"
	"strings"
	"testing"
)

func TestSchema(t *testing.T) {
	t.Run("splitStatements", func(t *testing.T) {
		stmts := splitStatements(schemaSQL)
		if len(stmts) == 0 {
			t.Fatal("expected statements in embedded schema")
		}
		for _, stmt := range stmts {
			if strings.Contains(stmt, "--") {
				t.Errorf("comment left in statement: %s", stmt)
			}
		}
	})

	t.Run("ApplySchema", func(t *testing.T) {
		db, err := NewDatabase(DriverSQLite, ":memory:")
		if err != nil {
			t.Fatalf("failed to create database: %v", err)
		}
		defer db.Close()

		if err := ApplySchema(context.Background(), db); err != nil {
			t.Fatalf("failed to apply schema: %v", err)
		}

		for _, table := range Tables {
			if _, err := db.Exec("SELECT 1 FROM " + table + " LIMIT 1"); err != nil {
				t.Errorf("%s table should exist: %v", table, err)
			}
		}
	})

	t.Run("ApplySchema is idempotent", func(t *testing.T) {
		db, err := NewDatabase(DriverSQLite, ":memory:")
		if err != nil {
			t.Fatalf("failed to create database: %v", err)
		}
		defer db.Close()

		for i := range 2 {
			if err := ApplySchema(context.Background(), db); err != nil {
				t.Fatalf("apply %d failed: %v", i, err)
			}
		}
	})

	t.Run("foreign keys enforced", func(t *testing.T) {
		db, err := NewDatabase(DriverSQLite, ":memory:")
		if err != nil {
			t.Fatalf("failed to create database: %v", err)
		}
		defer db.Close()

		if err := ApplySchema(context.Background(), db); err != nil {
			t.Fatalf("failed to apply schema: %v", err)
		}

		_, err = db.Exec("INSERT INTO content_focus_areas (content_id, focus_area_id) VALUES ('missing', 'missing')")
		if err == nil {
			t.Error("expected foreign key violation")
		}
	})
}

func TestNewDatabase(t *testing.T) {
	t.Run("unknown driver", func(t *testing.T) {
		if _, err := NewDatabase("oracle", "x"); err == nil {
			t.Error("expected error for unsupported driver")
		}
	})

	t.Run("sqliteDSN", func(t *testing.T) {
		tc := []struct {
			in   string
			want string
		}{
			{":memory:", ":memory:?_foreign_keys=on&_busy_timeout=5000"},
			{"file:acms.db?cache=shared", "file:acms.db?cache=shared&_foreign_keys=on&_busy_timeout=5000"},
			{"acms.db?_fk=1&_busy_timeout=100", "acms.db?_fk=1&_busy_timeout=100"},
		}

		for _, tt := range tc {
			if got := sqliteDSN(tt.in); got != tt.want {
				t.Errorf("sqliteDSN(%q) = %q, want %q", tt.in, got, tt.want)
			}
		}
	})
}
