package tasks

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/desertthunder/acms/internal/models"
	"github.com/desertthunder/acms/internal/shared"
	tu "github.com/desertthunder/acms/internal/testing"
)

// seedContent inserts a bare content row and returns its id.
func seedContent(t *testing.T, store *tu.FakeStore) string {
	t.Helper()
	row, err := store.InsertContent(context.Background(), &models.ContentRow{Title: "Seed"})
	require.NoError(t, err)
	store.ResetCalls()
	return row.ID
}

func linkedNames(t *testing.T, store models.Store, contentID string) []string {
	t.Helper()
	labels, err := store.LinkedLabels(context.Background(), contentID)
	require.NoError(t, err)
	names := models.LabelNames(labels)
	sort.Strings(names)
	return names
}

func newTestReconciler(store *tu.FakeStore) *Reconciler {
	return NewReconciler(store, NewResolver(store, nil), 4, nil)
}

func TestReconciler(t *testing.T) {
	ctx := context.Background()

	t.Run("links equal the name set", func(t *testing.T) {
		tc := []struct {
			name  string
			input []string
			want  []string
		}{
			{"empty", nil, []string{}},
			{"single", []string{"Mindfulness"}, []string{"Mindfulness"}},
			{"several", []string{"Resilience", "Mindfulness", "Vision"}, []string{"Mindfulness", "Resilience", "Vision"}},
			{"duplicates collapse", []string{"Vision", "Vision ", " Vision"}, []string{"Vision"}},
			{"blanks dropped", []string{"", "Values", "  "}, []string{"Values"}},
		}

		for _, tt := range tc {
			t.Run(tt.name, func(t *testing.T) {
				store := tu.NewFakeStore()
				contentID := seedContent(t, store)

				ids, err := newTestReconciler(store).Reconcile(ctx, contentID, tt.input)
				require.NoError(t, err)

				assert.Len(t, ids, len(tt.want))
				assert.Equal(t, tt.want, linkedNames(t, store, contentID))
				assert.Equal(t, len(tt.want), store.LinkCount())
			})
		}
	})

	t.Run("second reconcile replaces the first", func(t *testing.T) {
		tc := []struct {
			name   string
			first  []string
			second []string
		}{
			{"shrink", []string{"Mindfulness", "Resilience"}, []string{"Mindfulness"}},
			{"grow", []string{"Mindfulness"}, []string{"Mindfulness", "Resilience", "Vision"}},
			{"disjoint", []string{"Feedback"}, []string{"Vision"}},
			{"clear", []string{"Feedback", "Vision"}, nil},
			{"same", []string{"Vision"}, []string{"Vision"}},
		}

		for _, tt := range tc {
			t.Run(tt.name, func(t *testing.T) {
				store := tu.NewFakeStore()
				contentID := seedContent(t, store)
				r := newTestReconciler(store)

				_, err := r.Reconcile(ctx, contentID, tt.first)
				require.NoError(t, err)
				_, err = r.Reconcile(ctx, contentID, tt.second)
				require.NoError(t, err)

				want := models.UniqueNames(tt.second)
				sort.Strings(want)
				assert.Equal(t, want, linkedNames(t, store, contentID))
			})
		}
	})

	t.Run("empty set writes nothing", func(t *testing.T) {
		store := tu.NewFakeStore()
		contentID := seedContent(t, store)

		_, err := newTestReconciler(store).Reconcile(ctx, contentID, []string{})
		require.NoError(t, err)

		assert.Equal(t, 1, store.CallCount(tu.OpDeleteLinks))
		assert.Zero(t, store.CallCount(tu.OpInsertLinks))
	})

	t.Run("links are inserted in one batch", func(t *testing.T) {
		store := tu.NewFakeStore()
		contentID := seedContent(t, store)

		_, err := newTestReconciler(store).Reconcile(ctx, contentID, []string{"A", "B", "C", "D", "E"})
		require.NoError(t, err)

		assert.Equal(t, 1, store.CallCount(tu.OpInsertLinks))
		assert.Equal(t, 5, store.LinkCount())
	})

	t.Run("delete and resolve overlap", func(t *testing.T) {
		store := tu.NewFakeStore()
		contentID := seedContent(t, store)

		resolving := make(chan struct{})
		var once sync.Once
		store.Hook = func(c tu.Call) {
			switch c.Op {
			case tu.OpLookupLabel:
				once.Do(func() { close(resolving) })
			case tu.OpDeleteLinks:
				select {
				case <-resolving:
				case <-time.After(2 * time.Second):
					t.Error("delete ran without a concurrent resolve")
				}
			}
		}

		_, err := newTestReconciler(store).Reconcile(ctx, contentID, []string{"Mindfulness"})
		require.NoError(t, err)
	})

	t.Run("resolution respects the concurrency bound", func(t *testing.T) {
		store := tu.NewFakeStore()
		contentID := seedContent(t, store)

		var inFlight, peak atomic.Int32
		store.Hook = func(c tu.Call) {
			if c.Op != tu.OpLookupLabel {
				return
			}
			n := inFlight.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			time.Sleep(5 * time.Millisecond)
			inFlight.Add(-1)
		}

		names := []string{"A", "B", "C", "D", "E", "F", "G", "H"}
		_, err := NewReconciler(store, NewResolver(store, nil), 2, nil).Reconcile(ctx, contentID, names)
		require.NoError(t, err)

		assert.LessOrEqual(t, peak.Load(), int32(2))
		assert.Equal(t, len(names), store.LinkCount())
	})

	t.Run("delete failure", func(t *testing.T) {
		store := tu.NewFakeStore()
		contentID := seedContent(t, store)
		store.Fail(tu.OpDeleteLinks, tu.ErrInjected)

		_, err := newTestReconciler(store).Reconcile(ctx, contentID, []string{"Mindfulness"})
		assert.ErrorIs(t, err, shared.ErrJunctionSync)
		assert.ErrorIs(t, err, tu.ErrInjected)
		assert.Zero(t, store.CallCount(tu.OpInsertLinks))
	})

	t.Run("resolver failure aborts", func(t *testing.T) {
		store := tu.NewFakeStore()
		contentID := seedContent(t, store)
		store.FailFor(tu.OpUpsertLabel, "Resilience", tu.ErrInjected)

		_, err := newTestReconciler(store).Reconcile(ctx, contentID, []string{"Mindfulness", "Resilience"})
		assert.ErrorIs(t, err, shared.ErrResolver)
		assert.NotErrorIs(t, err, shared.ErrJunctionSync)
		assert.Zero(t, store.CallCount(tu.OpInsertLinks))
	})

	t.Run("insert failure", func(t *testing.T) {
		store := tu.NewFakeStore()
		contentID := seedContent(t, store)
		store.Fail(tu.OpInsertLinks, tu.ErrInjected)

		_, err := newTestReconciler(store).Reconcile(ctx, contentID, []string{"Mindfulness"})
		assert.ErrorIs(t, err, shared.ErrJunctionSync)
		assert.Zero(t, store.LinkCount())
	})
}

func TestUniqueIDs(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, uniqueIDs([]string{"", "a", "b", "a", ""}))
	assert.Empty(t, uniqueIDs(nil))
}
