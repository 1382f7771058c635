package tasks

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/desertthunder/acms/internal/models"
	"github.com/desertthunder/acms/internal/shared"
	tu "github.com/desertthunder/acms/internal/testing"
)

func TestResolver(t *testing.T) {
	ctx := context.Background()

	t.Run("blank name skips the store", func(t *testing.T) {
		store := tu.NewFakeStore()
		r := NewResolver(store, nil)

		for _, name := range []string{"", "   "} {
			id, err := r.Resolve(ctx, models.CategoriesTable, name)
			require.NoError(t, err)
			assert.Empty(t, id)
		}
		assert.Empty(t, store.Calls())
	})

	t.Run("creates once and reuses", func(t *testing.T) {
		store := tu.NewFakeStore()
		r := NewResolver(store, nil)

		first, err := r.Resolve(ctx, models.CategoriesTable, "Balance")
		require.NoError(t, err)
		require.NotEmpty(t, first)

		second, err := r.Resolve(ctx, models.CategoriesTable, "Balance")
		require.NoError(t, err)

		assert.Equal(t, first, second)
		assert.Equal(t, 1, store.LabelCount(models.CategoriesTable))
		assert.Equal(t, 1, store.CallCount(tu.OpUpsertLabel))
		assert.Equal(t, 2, store.CallCount(tu.OpLookupLabel))
	})

	t.Run("existing label is not upserted", func(t *testing.T) {
		store := tu.NewFakeStore()
		seeded := store.SeedLabel(models.FocusAreasTable, "Vision")

		id, err := NewResolver(store, nil).Resolve(ctx, models.FocusAreasTable, " Vision ")
		require.NoError(t, err)

		assert.Equal(t, seeded.ID, id)
		assert.Zero(t, store.CallCount(tu.OpUpsertLabel))
	})

	t.Run("lookup failure", func(t *testing.T) {
		store := tu.NewFakeStore()
		store.Fail(tu.OpLookupLabel, tu.ErrInjected)

		_, err := NewResolver(store, nil).Resolve(ctx, models.CategoriesTable, "Balance")
		assert.ErrorIs(t, err, shared.ErrResolver)
		assert.ErrorIs(t, err, tu.ErrInjected)
		assert.Zero(t, store.CallCount(tu.OpUpsertLabel))
	})

	t.Run("upsert failure", func(t *testing.T) {
		store := tu.NewFakeStore()
		store.Fail(tu.OpUpsertLabel, tu.ErrInjected)

		_, err := NewResolver(store, nil).Resolve(ctx, models.CategoriesTable, "Balance")
		assert.ErrorIs(t, err, shared.ErrResolver)
		assert.Zero(t, store.LabelCount(models.CategoriesTable))
	})
}
