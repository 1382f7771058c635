package repositories

import (
	"fmt"
	"strings"

	"github.com/desertthunder/acms/internal/models"
)

// quoteIdentifier quotes a table or column name for both SQLite and PostgreSQL.
func quoteIdentifier(identifier string) string {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return `""`
	}
	return `"` + strings.ReplaceAll(identifier, `"`, `""`) + `"`
}

// labelTable validates table and returns it quoted for use in a query.
func labelTable(table models.LabelTable) (string, error) {
	if err := table.Validate(); err != nil {
		return "", err
	}
	return quoteIdentifier(table.String()), nil
}

// placeholders returns "($n, $n+1, ...)" groups for a multi-row VALUES clause,
// numbering from 1.
func placeholders(rows, cols int) string {
	var b strings.Builder
	n := 1
	for r := range rows {
		if r > 0 {
			b.WriteString(", ")
		}
		b.WriteByte('(')
		for c := range cols {
			if c > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "$%d", n)
			n++
		}
		b.WriteByte(')')
	}
	return b.String()
}

// likePattern builds a case-insensitive substring pattern for LOWER(col) LIKE.
func likePattern(search string) string {
	search = strings.ToLower(strings.TrimSpace(search))
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(search) + "%"
}
