package repositories

import (
	"context"
	"database/sql"

	"github.com/desertthunder/acms/internal/models"
	"github.com/desertthunder/acms/internal/shared"
)

var _ models.Store = (*SQLStore)(nil)

// SQLStore composes the repositories into a [models.Store] backed by one [sql.DB].
type SQLStore struct {
	db      *sql.DB
	Labels  *LabelRepository
	Content *ContentRepository
	Links   *ContentFocusAreaRepository
}

// NewSQLStore creates a new SQLStore over db. The schema must already exist.
func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{
		db:      db,
		Labels:  NewLabelRepository(db),
		Content: NewContentRepository(db),
		Links:   NewContentFocusAreaRepository(db),
	}
}

// OpenSQLStore opens the configured database, applies the schema and returns the store.
func OpenSQLStore(ctx context.Context, cfg shared.DatabaseConfig) (*SQLStore, error) {
	db, err := shared.OpenDatabase(cfg)
	if err != nil {
		return nil, err
	}

	if err := shared.ApplySchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return NewSQLStore(db), nil
}

// DB returns the underlying connection pool.
func (s *SQLStore) DB() *sql.DB { return s.db }

// Close closes the underlying connection pool.
func (s *SQLStore) Close() error { return s.db.Close() }

func (s *SQLStore) LookupLabel(ctx context.Context, table models.LabelTable, name string) (*models.ReferenceLabel, error) {
	return s.Labels.Lookup(ctx, table, name)
}

func (s *SQLStore) UpsertLabel(ctx context.Context, table models.LabelTable, name string) (*models.ReferenceLabel, error) {
	return s.Labels.Upsert(ctx, table, name)
}

func (s *SQLStore) ListLabels(ctx context.Context, table models.LabelTable) ([]models.ReferenceLabel, error) {
	return s.Labels.List(ctx, table)
}

func (s *SQLStore) InsertContent(ctx context.Context, row *models.ContentRow) (*models.ContentRow, error) {
	return s.Content.Insert(ctx, row)
}

func (s *SQLStore) UpdateContent(ctx context.Context, row *models.ContentRow) error {
	return s.Content.Update(ctx, row)
}

func (s *SQLStore) DeleteContent(ctx context.Context, id string) error {
	return s.Content.Delete(ctx, id)
}

func (s *SQLStore) GetContent(ctx context.Context, id string) (*models.ContentRow, error) {
	return s.Content.Get(ctx, id)
}

func (s *SQLStore) ListContent(ctx context.Context, q models.ContentQuery) ([]*models.ContentRow, error) {
	return s.Content.List(ctx, q)
}

func (s *SQLStore) DeleteLinks(ctx context.Context, contentID string) error {
	return s.Links.DeleteByContent(ctx, contentID)
}

func (s *SQLStore) InsertLinks(ctx context.Context, rows []models.JunctionRow) error {
	return s.Links.InsertBatch(ctx, rows)
}

func (s *SQLStore) LinkedLabels(ctx context.Context, contentID string) ([]models.ReferenceLabel, error) {
	return s.Links.FocusAreas(ctx, contentID)
}
