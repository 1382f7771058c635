// Package models defines domain entities and persistence interfaces for the academy content admin service.
//
// The package contains two categories of types:
//
// 1. Editor-facing records: denormalized shapes exchanged with the admin UI
//   - [ContentRecord] : A content item with its category and focus areas as display names
//   - [ContentSummary] : The list projection of a content item
//   - [Catalog] : Options offered by the editor's select inputs
//
// 2. Storage rows: normalized shapes written to the relational backend
//   - [ContentRow] : A row of academy_content referencing its category by id
//   - [ReferenceLabel] : A row of categories or focus_areas, keyed by unique name
//   - [JunctionRow] : A content_focus_areas association
//
// The [Store] interface groups the per-table operations the sync core needs.
// Name to id translation happens above the store, never inside it.
package models
