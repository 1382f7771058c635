package shared

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"strings"
)

//go:embed sql/schema.sql
var schemaSQL string

// Tables lists the tables created by [ApplySchema], in creation order.
var Tables = []string{"categories", "focus_areas", "academy_content", "content_focus_areas"}

// ApplySchema creates the content tables when they are missing.
//
// Every statement is idempotent, so it is safe to run on each start. There is no
// version tracking: existing tables are left as they are.
func ApplySchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range splitStatements(schemaSQL) {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to execute statement: %w\nStatement: %s", err, stmt)
		}
	}
	return nil
}

// splitStatements breaks a script into statements on ';', dropping comments and blanks.
func splitStatements(script string) []string {
	var stmts []string
	for _, stmt := range strings.Split(script, ";") {
		stmt = strings.TrimSpace(removeComments(stmt))
		if stmt != "" {
			stmts = append(stmts, stmt)
		}
	}
	return stmts
}

// removeComments removes SQL comments from a statement.
func removeComments(sql string) string {
	lines := strings.Split(sql, "\n")
	var result []string
	for _, line := range lines {
		if idx := strings.Index(line, "--"); idx >= 0 {
			line = line[:idx]
		}
		line = strings.TrimSpace(line)
		if line != "" {
			result = append(result, line)
		}
	}
	return strings.Join(result, "\n")
}
