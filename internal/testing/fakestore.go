package testing

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/desertthunder/acms/internal/models"
	"github.com/desertthunder/acms/internal/shared"
)

// Store operation names recorded by [FakeStore].
const (
	OpLookupLabel   = "LookupLabel"
	OpUpsertLabel   = "UpsertLabel"
	OpListLabels    = "ListLabels"
	OpInsertContent = "InsertContent"
	OpUpdateContent = "UpdateContent"
	OpDeleteContent = "DeleteContent"
	OpGetContent    = "GetContent"
	OpListContent   = "ListContent"
	OpDeleteLinks   = "DeleteLinks"
	OpInsertLinks   = "InsertLinks"
	OpLinkedLabels  = "LinkedLabels"
)

// Call is one recorded store operation. Key is the label name for label
// operations and the content id otherwise.
type Call struct {
	Op    string
	Table models.LabelTable
	Key   string
}

type failure struct {
	op  string
	key string
	err error
}

var _ models.Store = (*FakeStore)(nil)

// FakeStore is an in-memory [models.Store] with call recording and failure injection.
//
// It enforces the same constraints as the bundled schema: unique label names,
// junction rows referencing existing rows, and cascading link removal.
type FakeStore struct {
	// Hook, when set, runs before every operation without the store lock held.
	Hook func(Call)
	// InsertReturnsNothing makes InsertContent report success without a row.
	InsertReturnsNothing bool

	mu       sync.Mutex
	labels   map[models.LabelTable]map[string]models.ReferenceLabel // table -> name -> label
	content  map[string]models.ContentRow
	links    map[string]map[string]struct{} // content id -> focus area ids
	calls    []Call
	failures []failure
	clock    time.Time
}

// NewFakeStore creates an empty FakeStore.
func NewFakeStore() *FakeStore {
	return &FakeStore{
		labels: map[models.LabelTable]map[string]models.ReferenceLabel{
			models.CategoriesTable: {},
			models.FocusAreasTable: {},
		},
		content: map[string]models.ContentRow{},
		links:   map[string]map[string]struct{}{},
	}
}

// Fail makes every call to op return err.
func (f *FakeStore) Fail(op string, err error) {
	f.FailFor(op, "", err)
}

// FailFor makes calls to op with the given key return err. An empty key matches every call.
func (f *FakeStore) FailFor(op, key string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures = append(f.failures, failure{op: op, key: key, err: err})
}

// Calls returns a copy of the recorded calls.
func (f *FakeStore) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.calls...)
}

// CallCount returns how many times op was called.
func (f *FakeStore) CallCount(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c.Op == op {
			n++
		}
	}
	return n
}

// ResetCalls clears the call log.
func (f *FakeStore) ResetCalls() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = nil
}

// SeedLabel adds a label directly, bypassing the call log.
func (f *FakeStore) SeedLabel(table models.LabelTable, name string) models.ReferenceLabel {
	f.mu.Lock()
	defer f.mu.Unlock()
	if l, ok := f.labels[table][name]; ok {
		return l
	}
	l := models.ReferenceLabel{ID: shared.GenerateID(), Name: name}
	f.labels[table][name] = l
	return l
}

// LabelCount returns the number of labels in table.
func (f *FakeStore) LabelCount(table models.LabelTable) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.labels[table])
}

// ContentCount returns the number of content rows.
func (f *FakeStore) ContentCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.content)
}

// Row returns a copy of the stored content row.
func (f *FakeStore) Row(id string) (models.ContentRow, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	row, ok := f.content[id]
	return row, ok
}

// LinkedIDs returns the focus area ids linked to contentID, sorted.
func (f *FakeStore) LinkedIDs(contentID string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	ids := make([]string, 0, len(f.links[contentID]))
	for id := range f.links[contentID] {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// LinkCount returns the total number of junction rows.
func (f *FakeStore) LinkCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, set := range f.links {
		n += len(set)
	}
	return n
}

// begin runs the hook, records the call and returns an injected failure if any.
// On success the store lock is held and must be released by the caller.
func (f *FakeStore) begin(c Call) error {
	if f.Hook != nil {
		f.Hook(c)
	}

	f.mu.Lock()
	f.calls = append(f.calls, c)
	for _, fl := range f.failures {
		if fl.op == c.Op && (fl.key == "" || fl.key == c.Key) {
			f.mu.Unlock()
			return fl.err
		}
	}
	return nil
}

func (f *FakeStore) tick() time.Time {
	now := time.Now().UTC()
	if !now.After(f.clock) {
		now = f.clock.Add(time.Microsecond)
	}
	f.clock = now
	return now
}

func (f *FakeStore) LookupLabel(ctx context.Context, table models.LabelTable, name string) (*models.ReferenceLabel, error) {
	if err := table.Validate(); err != nil {
		return nil, err
	}
	if err := f.begin(Call{Op: OpLookupLabel, Table: table, Key: name}); err != nil {
		return nil, err
	}
	defer f.mu.Unlock()

	if l, ok := f.labels[table][name]; ok {
		return &l, nil
	}
	return nil, nil
}

func (f *FakeStore) UpsertLabel(ctx context.Context, table models.LabelTable, name string) (*models.ReferenceLabel, error) {
	if err := table.Validate(); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if err := f.begin(Call{Op: OpUpsertLabel, Table: table, Key: name}); err != nil {
		return nil, err
	}
	defer f.mu.Unlock()

	if name == "" {
		return nil, fmt.Errorf("%w: label name is empty", shared.ErrInvalidInput)
	}
	if l, ok := f.labels[table][name]; ok {
		return &l, nil
	}
	l := models.ReferenceLabel{ID: shared.GenerateID(), Name: name}
	f.labels[table][name] = l
	return &l, nil
}

func (f *FakeStore) ListLabels(ctx context.Context, table models.LabelTable) ([]models.ReferenceLabel, error) {
	if err := table.Validate(); err != nil {
		return nil, err
	}
	if err := f.begin(Call{Op: OpListLabels, Table: table}); err != nil {
		return nil, err
	}
	defer f.mu.Unlock()

	labels := make([]models.ReferenceLabel, 0, len(f.labels[table]))
	for _, l := range f.labels[table] {
		labels = append(labels, l)
	}
	sort.Slice(labels, func(i, j int) bool { return labels[i].Name < labels[j].Name })
	return labels, nil
}

func (f *FakeStore) InsertContent(ctx context.Context, row *models.ContentRow) (*models.ContentRow, error) {
	if err := f.begin(Call{Op: OpInsertContent, Key: row.ID}); err != nil {
		return nil, err
	}
	defer f.mu.Unlock()

	stored := *row
	if stored.ID == "" {
		stored.ID = shared.GenerateID()
	}
	if _, ok := f.content[stored.ID]; ok {
		return nil, fmt.Errorf("duplicate key value violates unique constraint: id=%s", stored.ID)
	}
	if stored.CategoryID != "" && !f.hasLabelID(models.CategoriesTable, stored.CategoryID) {
		return nil, fmt.Errorf("foreign key violation: category %s", stored.CategoryID)
	}

	now := f.tick()
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = now
	}
	stored.UpdatedAt = stored.CreatedAt
	stored.CategoryName = ""
	f.content[stored.ID] = stored

	if f.InsertReturnsNothing {
		return nil, nil
	}
	return &stored, nil
}

func (f *FakeStore) UpdateContent(ctx context.Context, row *models.ContentRow) error {
	if err := f.begin(Call{Op: OpUpdateContent, Key: row.ID}); err != nil {
		return err
	}
	defer f.mu.Unlock()

	existing, ok := f.content[row.ID]
	if !ok {
		return fmt.Errorf("%w: %s", shared.ErrContentNotFound, row.ID)
	}
	if row.CategoryID != "" && !f.hasLabelID(models.CategoriesTable, row.CategoryID) {
		return fmt.Errorf("foreign key violation: category %s", row.CategoryID)
	}

	updated := *row
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = f.tick()
	updated.CategoryName = ""
	f.content[row.ID] = updated
	row.UpdatedAt = updated.UpdatedAt
	return nil
}

func (f *FakeStore) DeleteContent(ctx context.Context, id string) error {
	if err := f.begin(Call{Op: OpDeleteContent, Key: id}); err != nil {
		return err
	}
	defer f.mu.Unlock()

	delete(f.content, id)
	delete(f.links, id)
	return nil
}

func (f *FakeStore) GetContent(ctx context.Context, id string) (*models.ContentRow, error) {
	if err := f.begin(Call{Op: OpGetContent, Key: id}); err != nil {
		return nil, err
	}
	defer f.mu.Unlock()

	row, ok := f.content[id]
	if !ok {
		return nil, nil
	}
	row.CategoryName = f.labelName(models.CategoriesTable, row.CategoryID)
	return &row, nil
}

func (f *FakeStore) ListContent(ctx context.Context, q models.ContentQuery) ([]*models.ContentRow, error) {
	if err := f.begin(Call{Op: OpListContent, Key: q.Search}); err != nil {
		return nil, err
	}
	defer f.mu.Unlock()

	search := strings.ToLower(strings.TrimSpace(q.Search))
	matched := []*models.ContentRow{}
	for _, row := range f.content {
		row.CategoryName = f.labelName(models.CategoriesTable, row.CategoryID)
		if search != "" &&
			!strings.Contains(strings.ToLower(row.Title), search) &&
			!strings.Contains(strings.ToLower(row.ContentType), search) &&
			!strings.Contains(strings.ToLower(row.CategoryName), search) {
			continue
		}
		matched = append(matched, &row)
	}

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID > matched[j].ID
	})

	if q.From >= len(matched) || q.Limit() == 0 {
		return []*models.ContentRow{}, nil
	}
	end := min(q.From+q.Limit(), len(matched))
	return matched[q.From:end], nil
}

func (f *FakeStore) DeleteLinks(ctx context.Context, contentID string) error {
	if err := f.begin(Call{Op: OpDeleteLinks, Key: contentID}); err != nil {
		return err
	}
	defer f.mu.Unlock()

	delete(f.links, contentID)
	return nil
}

// InsertLinks applies the batch atomically: one bad row rejects all of them.
func (f *FakeStore) InsertLinks(ctx context.Context, rows []models.JunctionRow) error {
	key := ""
	if len(rows) > 0 {
		key = rows[0].ContentID
	}
	if err := f.begin(Call{Op: OpInsertLinks, Key: key}); err != nil {
		return err
	}
	defer f.mu.Unlock()

	for _, r := range rows {
		if _, ok := f.content[r.ContentID]; !ok {
			return fmt.Errorf("foreign key violation: content %s", r.ContentID)
		}
		if !f.hasLabelID(models.FocusAreasTable, r.FocusAreaID) {
			return fmt.Errorf("foreign key violation: focus area %s", r.FocusAreaID)
		}
	}

	for _, r := range rows {
		if f.links[r.ContentID] == nil {
			f.links[r.ContentID] = map[string]struct{}{}
		}
		f.links[r.ContentID][r.FocusAreaID] = struct{}{}
	}
	return nil
}

func (f *FakeStore) LinkedLabels(ctx context.Context, contentID string) ([]models.ReferenceLabel, error) {
	if err := f.begin(Call{Op: OpLinkedLabels, Key: contentID}); err != nil {
		return nil, err
	}
	defer f.mu.Unlock()

	labels := []models.ReferenceLabel{}
	for id := range f.links[contentID] {
		labels = append(labels, models.ReferenceLabel{ID: id, Name: f.labelName(models.FocusAreasTable, id)})
	}
	sort.Slice(labels, func(i, j int) bool { return labels[i].Name < labels[j].Name })
	return labels, nil
}

func (f *FakeStore) hasLabelID(table models.LabelTable, id string) bool {
	return f.labelName(table, id) != ""
}

func (f *FakeStore) labelName(table models.LabelTable, id string) string {
	if id == "" {
		return ""
	}
	for _, l := range f.labels[table] {
		if l.ID == id {
			return l.Name
		}
	}
	return ""
}

// ErrInjected is a convenience error for failure injection.
var ErrInjected = errors.New("injected failure")
