package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) (*SQLiteStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nested", "history.db")
	store, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store, path
}

func TestSQLiteStoreListsOldestFirst(t *testing.T) {
	ctx := context.Background()
	store, _ := openTestStore(t)
	base := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

	require.NoError(t, store.Insert(ctx, Calculation{ID: "b", Expression: "1+1", Result: "2", CreatedAt: base.Add(time.Minute)}))
	require.NoError(t, store.Insert(ctx, Calculation{ID: "a", Expression: "2*2", Result: "4", CreatedAt: base}))
	require.NoError(t, store.Insert(ctx, Calculation{ID: "c", Expression: "9/3", Result: "3", CreatedAt: base.Add(time.Hour)}))

	calcs, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, calcs, 3)
	assert.Equal(t, []string{"a", "b", "c"}, []string{calcs[0].ID, calcs[1].ID, calcs[2].ID})
	assert.True(t, calcs[0].CreatedAt.Equal(base))
	assert.Equal(t, "2*2", calcs[0].Expression)
	assert.Equal(t, "4", calcs[0].Result)
}

func TestSQLiteStoreKeepsInsertionOrderOnTies(t *testing.T) {
	ctx := context.Background()
	store, _ := openTestStore(t)
	at := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	for _, id := range []string{"z", "y", "x"} {
		require.NoError(t, store.Insert(ctx, Calculation{ID: id, Expression: "1+1", Result: "2", CreatedAt: at}))
	}

	calcs, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, calcs, 3)
	assert.Equal(t, []string{"z", "y", "x"}, []string{calcs[0].ID, calcs[1].ID, calcs[2].ID})
}

func TestSQLiteStoreGet(t *testing.T) {
	ctx := context.Background()
	store, _ := openTestStore(t)
	want := Calculation{ID: "id-1", Expression: "0.1+0.2", Result: "0.3", CreatedAt: time.Unix(1700000000, 123456789).UTC()}
	require.NoError(t, store.Insert(ctx, want))

	got, err := store.Get(ctx, "id-1")
	require.NoError(t, err)
	assert.Equal(t, want, got)

	_, err = store.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLiteStoreRejectsDuplicateAndEmptyIDs(t *testing.T) {
	ctx := context.Background()
	store, _ := openTestStore(t)
	c := Calculation{ID: "dup", Expression: "1+1", Result: "2", CreatedAt: time.Now()}

	require.NoError(t, store.Insert(ctx, c))
	assert.Error(t, store.Insert(ctx, c))
	assert.Error(t, store.Insert(ctx, Calculation{Expression: "1+1", Result: "2"}))
}

func TestSQLiteStoreClear(t *testing.T) {
	ctx := context.Background()
	store, _ := openTestStore(t)
	require.NoError(t, store.Insert(ctx, Calculation{ID: "1", Expression: "1+1", Result: "2", CreatedAt: time.Now()}))

	require.NoError(t, store.Clear(ctx))

	calcs, err := store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, calcs)
	assert.NotNil(t, calcs)
}

func TestSQLiteStoreSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	store, path := openTestStore(t)
	require.NoError(t, store.Insert(ctx, Calculation{ID: "keep", Expression: "3*3", Result: "9", CreatedAt: time.Now()}))
	require.NoError(t, store.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.Get(ctx, "keep")
	require.NoError(t, err)
	assert.Equal(t, "9", got.Result)
	assert.Equal(t, path, reopened.Path())
}

func TestOpenRejectsEmptyPath(t *testing.T) {
	_, err := Open("")
	assert.Error(t, err)
}
