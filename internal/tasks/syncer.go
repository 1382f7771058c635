package tasks

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/acms/internal/models"
	"github.com/desertthunder/acms/internal/shared"
)

// SyncOptions configures a [ContentSyncer].
type SyncOptions struct {
	MaxConcurrency int         // bound on concurrent label resolution
	Logger         *log.Logger // defaults to a discarding logger
}

// SaveResult describes a successful save.
type SaveResult struct {
	ID           string   `json:"id"`
	Created      bool     `json:"created"`
	CategoryID   string   `json:"categoryId,omitempty"`
	FocusAreaIDs []string `json:"focusAreaIds"`
}

// ContentSyncer keeps a content item, its category and its focus area links in
// step with the editor's record.
type ContentSyncer struct {
	store      models.Store
	resolver   *Resolver
	writer     *ContentWriter
	reconciler *Reconciler
	logger     *log.Logger
}

// NewContentSyncer wires the sync components over store.
func NewContentSyncer(store models.Store, opts SyncOptions) *ContentSyncer {
	logger := opts.Logger
	if logger == nil {
		logger = shared.DiscardLogger()
	}

	resolver := NewResolver(store, logger)
	return &ContentSyncer{
		store:      store,
		resolver:   resolver,
		writer:     NewContentWriter(store, logger),
		reconciler: NewReconciler(store, resolver, opts.MaxConcurrency, logger),
		logger:     logger,
	}
}

// Stage outputs. Each stage takes the previous one's output, so the order is fixed by the types.
type (
	validRecord struct {
		record *models.ContentRecord
	}

	categorizedRecord struct {
		validRecord
		categoryID string
	}

	writtenRecord struct {
		categorizedRecord
		id      string
		created bool
	}
)

// Save persists record: validate, resolve the category, write the content row,
// then reconcile focus areas. The record passed in is not modified.
//
// Any failure stops the pipeline and is returned as a [*SaveError]. Earlier
// writes are not rolled back.
func (s *ContentSyncer) Save(ctx context.Context, record *models.ContentRecord) (*SaveResult, error) {
	logger := shared.WithLogger(s.logger, "title", titleOf(record))

	fail := func(stage Stage, err error) (*SaveResult, error) {
		saveErr := &SaveError{Stage: stage, Err: err}
		logger.Error("save failed", "stage", stage, "err", err)
		return nil, saveErr
	}

	logger.Debug("stage", "name", StageValidate)
	valid, err := s.validate(record)
	if err != nil {
		return fail(StageValidate, err)
	}

	logger.Debug("stage", "name", StageResolveCategory)
	categorized, err := s.resolveCategory(ctx, valid)
	if err != nil {
		return fail(StageResolveCategory, err)
	}

	logger.Debug("stage", "name", StageWriteContent)
	written, err := s.writeContent(ctx, categorized)
	if err != nil {
		return fail(StageWriteContent, err)
	}

	logger.Debug("stage", "name", StageReconcileFocusAreas)
	result, err := s.reconcileFocusAreas(ctx, written)
	if err != nil {
		return fail(StageReconcileFocusAreas, err)
	}

	logger.Info("saved content", "id", result.ID, "created", result.Created, "focus_areas", len(result.FocusAreaIDs))
	return result, nil
}

func (s *ContentSyncer) validate(record *models.ContentRecord) (validRecord, error) {
	if record == nil {
		return validRecord{}, fmt.Errorf("%w: record is required", shared.ErrInvalidInput)
	}
	if err := record.Validate(); err != nil {
		return validRecord{}, fmt.Errorf("%w: %w", shared.ErrInvalidInput, err)
	}

	copied := *record
	copied.ID = strings.TrimSpace(copied.ID)
	copied.Category = strings.TrimSpace(copied.Category)
	copied.FocusAreas = record.FocusAreaSet()

	if copied.IsPersisted() && copied.ID == "" {
		return validRecord{}, fmt.Errorf("%w: a saved record must keep its id", shared.ErrInvalidInput)
	}
	if copied.ID == "" {
		copied.ID = shared.GenerateID()
	}

	return validRecord{record: &copied}, nil
}

func (s *ContentSyncer) resolveCategory(ctx context.Context, v validRecord) (categorizedRecord, error) {
	id, err := s.resolver.Resolve(ctx, models.CategoriesTable, v.record.Category)
	if err != nil {
		return categorizedRecord{}, err
	}
	return categorizedRecord{validRecord: v, categoryID: id}, nil
}

func (s *ContentSyncer) writeContent(ctx context.Context, c categorizedRecord) (writtenRecord, error) {
	id, created, err := s.writer.Upsert(ctx, c.record, c.categoryID)
	if err != nil {
		return writtenRecord{}, err
	}
	return writtenRecord{categorizedRecord: c, id: id, created: created}, nil
}

func (s *ContentSyncer) reconcileFocusAreas(ctx context.Context, w writtenRecord) (*SaveResult, error) {
	ids, err := s.reconciler.Reconcile(ctx, w.id, w.record.FocusAreas)
	if err != nil {
		return nil, err
	}
	return &SaveResult{ID: w.id, Created: w.created, CategoryID: w.categoryID, FocusAreaIDs: ids}, nil
}

// Remove deletes the content item and its focus area links. Removing an id that
// does not exist succeeds.
//
// Links go first so stores without ON DELETE CASCADE are left without orphans.
// If the row delete then fails, the item survives with no focus areas until it
// is saved again or the removal is retried.
func (s *ContentSyncer) Remove(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Errorf("%w: id is required", shared.ErrInvalidInput)
	}

	if err := s.store.DeleteLinks(ctx, id); err != nil {
		return fmt.Errorf("%w: %w", shared.ErrContentWrite, err)
	}
	if err := s.store.DeleteContent(ctx, id); err != nil {
		return fmt.Errorf("%w: %w", shared.ErrContentWrite, err)
	}

	s.logger.Info("removed content", "id", id)
	return nil
}

// FetchOne returns the fully hydrated record with its category and focus area names.
//
// A missing item is [shared.ErrContentNotFound]; a store failure is [shared.ErrContentRead].
func (s *ContentSyncer) FetchOne(ctx context.Context, id string) (*models.ContentRecord, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("%w: id is required", shared.ErrInvalidInput)
	}

	row, err := s.store.GetContent(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", shared.ErrContentRead, err)
	}
	if row == nil {
		return nil, fmt.Errorf("%w: %s", shared.ErrContentNotFound, id)
	}

	labels, err := s.store.LinkedLabels(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", shared.ErrContentRead, err)
	}

	return row.ToRecord(models.LabelNames(labels)), nil
}

// FetchPage returns summaries for rows [page*pageSize, page*pageSize+pageSize-1],
// newest first. A non-empty search filters on title, content type and category name.
//
// A page whose offset overflows is [shared.ErrInvalidInput].
func (s *ContentSyncer) FetchPage(ctx context.Context, page, pageSize int, search string) ([]models.ContentSummary, error) {
	if err := models.CheckPage(page, pageSize); err != nil {
		return nil, fmt.Errorf("%w: %w", shared.ErrInvalidInput, err)
	}

	rows, err := s.store.ListContent(ctx, models.PageQuery(page, pageSize, strings.TrimSpace(search)))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", shared.ErrContentRead, err)
	}

	summaries := make([]models.ContentSummary, 0, len(rows))
	for _, row := range rows {
		summaries = append(summaries, row.ToSummary())
	}
	return summaries, nil
}

// Catalog lists the options for the editor: the fixed content types and the
// current category and focus area names.
func (s *ContentSyncer) Catalog(ctx context.Context) (*models.Catalog, error) {
	categories, err := s.store.ListLabels(ctx, models.CategoriesTable)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", shared.ErrContentRead, err)
	}

	focusAreas, err := s.store.ListLabels(ctx, models.FocusAreasTable)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", shared.ErrContentRead, err)
	}

	return &models.Catalog{
		ContentTypes: append([]string(nil), models.ContentTypes...),
		Categories:   models.LabelNames(categories),
		FocusAreas:   models.LabelNames(focusAreas),
	}, nil
}

// SeedCatalog resolves every default category and focus area, creating the
// missing ones. It returns how many labels were resolved.
func (s *ContentSyncer) SeedCatalog(ctx context.Context) (int, error) {
	seeds := []struct {
		table models.LabelTable
		names []string
	}{
		{models.CategoriesTable, models.DefaultCategories},
		{models.FocusAreasTable, models.DefaultFocusAreas},
	}

	var errs []error
	count := 0
	for _, seed := range seeds {
		for _, name := range seed.names {
			if _, err := s.resolver.Resolve(ctx, seed.table, name); err != nil {
				errs = append(errs, err)
				continue
			}
			count++
		}
	}

	if len(errs) > 0 {
		return count, errors.Join(errs...)
	}

	s.logger.Info("seeded catalog", "labels", count)
	return count, nil
}

func titleOf(record *models.ContentRecord) string {
	if record == nil {
		return ""
	}
	return record.Title
}
