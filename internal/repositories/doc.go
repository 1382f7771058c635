// Package repositories implements SQL persistence for academy content.
//
// The same queries run against SQLite (mattn/go-sqlite3) and PostgreSQL (lib/pq):
// placeholders are written as $1..$n, label upserts use ON CONFLICT (name), and
// timestamps are assigned in Go rather than by the database.
//
// Key Implementations:
//   - [LabelRepository] : lookup and upsert-by-name for categories and focus areas
//   - [ContentRepository] : academy_content rows, paged and searchable listing
//   - [ContentFocusAreaRepository] : the content_focus_areas junction table
//   - [SQLStore] : all three composed into a [models.Store]
//
// None of the repositories open transactions. Junction rows for deleted content
// are removed by the ON DELETE CASCADE rule in the bundled schema.
package repositories
