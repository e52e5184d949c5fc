package credentials

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/dmitrijs2005/companyadmin/internal/common"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "session.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE credentials (
  key        TEXT PRIMARY KEY,
  value      TEXT NOT NULL,
  updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);`)
	require.NoError(t, err)
	return db
}

func TestSQLiteStore_SetGetOverwrite(t *testing.T) {
	s := NewSQLiteStore(setupDB(t))
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, common.AccessTokenKey, "old"))
	require.NoError(t, s.Set(ctx, common.AccessTokenKey, "new"))

	v, err := s.Get(ctx, common.AccessTokenKey)
	require.NoError(t, err)
	require.Equal(t, "new", v)
}

func TestSQLiteStore_MissingKeyIsEmpty(t *testing.T) {
	s := NewSQLiteStore(setupDB(t))

	v, err := s.Get(context.Background(), "absent")
	require.NoError(t, err)
	require.Empty(t, v)
}

func TestSQLiteStore_PairHelpers(t *testing.T) {
	s := NewSQLiteStore(setupDB(t))
	ctx := context.Background()

	require.NoError(t, SavePair(ctx, s, "A1", "R1"))
	access, refresh, err := LoadPair(ctx, s)
	require.NoError(t, err)
	require.Equal(t, "A1", access)
	require.Equal(t, "R1", refresh)

	require.NoError(t, ClearPair(ctx, s))
	require.NoError(t, ClearPair(ctx, s))
	access, refresh, err = LoadPair(ctx, s)
	require.NoError(t, err)
	require.Empty(t, access)
	require.Empty(t, refresh)
}

func TestSQLiteStore_Clear(t *testing.T) {
	s := NewSQLiteStore(setupDB(t))
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "a", "1"))
	require.NoError(t, s.Set(ctx, "b", "2"))
	require.NoError(t, s.Clear(ctx))

	v, err := s.Get(ctx, "a")
	require.NoError(t, err)
	require.Empty(t, v)
}

func TestSQLiteStore_ErrorsWrapped(t *testing.T) {
	db := setupDB(t)
	s := NewSQLiteStore(db)
	ctx := context.Background()
	require.NoError(t, db.Close())

	_, err := s.Get(ctx, "k")
	require.ErrorContains(t, err, "failed to get credential[k]")
	require.ErrorContains(t, s.Set(ctx, "k", "v"), "failed to set credential[k]")
	require.ErrorContains(t, s.Delete(ctx, "k"), "failed to delete credential[k]")
	require.ErrorContains(t, s.Clear(ctx), "failed to clear credentials")
	require.ErrorContains(t, ClearPair(ctx, s), "clear credentials: failed to clear credentials")
	require.Error(t, s.SetPair(ctx, "a", "r"))
}
