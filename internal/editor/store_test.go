package editor

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func storeCases(t *testing.T) map[string]SnapshotStore {
	t.Helper()
	sqlite, err := OpenSQLiteStore(context.Background(), filepath.Join(t.TempDir(), "snapshots.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlite.Close() })

	return map[string]SnapshotStore{
		"memory": NewMemoryStore(),
		"file":   NewFileStore(filepath.Join(t.TempDir(), "nested")),
		"sqlite": sqlite,
	}
}

func TestSnapshotStores(t *testing.T) {
	ctx := context.Background()
	for name, store := range storeCases(t) {
		t.Run(name, func(t *testing.T) {
			_, err := store.Load(ctx, SnapshotKey)
			require.ErrorIs(t, err, ErrNoSnapshot)

			require.NoError(t, store.Save(ctx, SnapshotKey, []byte(`{"a":1}`)))
			require.NoError(t, store.Save(ctx, SnapshotKey, []byte(`{"a":2}`)))
			got, err := store.Load(ctx, SnapshotKey)
			require.NoError(t, err)
			assert.JSONEq(t, `{"a":2}`, string(got))

			require.NoError(t, store.Save(ctx, SessionKey, []byte(`{}`)))

			require.NoError(t, store.Delete(ctx, SnapshotKey))
			require.NoError(t, store.Delete(ctx, SnapshotKey), "deleting twice is fine")
			_, err = store.Load(ctx, SnapshotKey)
			require.ErrorIs(t, err, ErrNoSnapshot)

			_, err = store.Load(ctx, SessionKey)
			assert.NoError(t, err, "keys are independent")
		})
	}
}

func TestFileStoreLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	store := NewFileStore(dir)
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		require.NoError(t, store.Save(ctx, SnapshotKey, []byte(`{}`)))
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, SnapshotKey+".json", entries[0].Name())
}

func TestSQLiteStoreSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "snapshots.db")

	store, err := OpenSQLiteStore(ctx, path)
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, SnapshotKey, []byte(`{"personal":{}}`)))
	require.NoError(t, store.Close())

	reopened, err := OpenSQLiteStore(ctx, path)
	require.NoError(t, err)
	defer reopened.Close()
	got, err := reopened.Load(ctx, SnapshotKey)
	require.NoError(t, err)
	assert.JSONEq(t, `{"personal":{}}`, string(got))
}

func TestMemoryStoreCopies(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	blob := []byte(`{"a":1}`)
	require.NoError(t, store.Save(ctx, SnapshotKey, blob))
	blob[2] = 'b'

	got, err := store.Load(ctx, SnapshotKey)
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, string(got))
}
