package storage

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", "file:kvstore_test?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE kvstore (
  key   TEXT PRIMARY KEY,
  value BLOB NOT NULL
);
`)
	require.NoError(t, err)
	return db
}

func TestSQLiteRepository_GetMissingKey_ReturnsNil(t *testing.T) {
	repo := NewSQLiteRepository(setupDB(t))

	value, err := repo.Get(context.Background(), "absent")
	require.NoError(t, err)
	require.Nil(t, value)
}

func TestSQLiteRepository_SetGetRoundTrip(t *testing.T) {
	repo := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, "k", []byte("v1")))
	value, err := repo.Get(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, []byte("v1"), value)

	// Upsert replaces.
	require.NoError(t, repo.Set(ctx, "k", []byte("v2")))
	value, err = repo.Get(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, []byte("v2"), value)
}

func TestSQLiteRepository_DeleteAndClear(t *testing.T) {
	repo := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, "a", []byte("1")))
	require.NoError(t, repo.Set(ctx, "b", []byte("2")))

	require.NoError(t, repo.Delete(ctx, "a"))
	value, err := repo.Get(ctx, "a")
	require.NoError(t, err)
	require.Nil(t, value)

	// Deleting an absent key is a no-op.
	require.NoError(t, repo.Delete(ctx, "a"))

	require.NoError(t, repo.Clear(ctx))
	value, err = repo.Get(ctx, "b")
	require.NoError(t, err)
	require.Nil(t, value)
}

func TestTokenStore_Lifecycle(t *testing.T) {
	store := NewTokenStore(NewMemoryRepository())

	token, err := store.Token()
	require.NoError(t, err)
	require.Empty(t, token)

	require.NoError(t, store.Save("bearer-123"))
	token, err = store.Token()
	require.NoError(t, err)
	require.Equal(t, "bearer-123", token)

	require.NoError(t, store.Clear())
	token, err = store.Token()
	require.NoError(t, err)
	require.Empty(t, token)

	// Clearing again is a no-op.
	require.NoError(t, store.Clear())
}
