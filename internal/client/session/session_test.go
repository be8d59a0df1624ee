package session

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", "file:session_tests?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE IF NOT EXISTS metadata (
  key   TEXT PRIMARY KEY,
  value BLOB NOT NULL
);
DELETE FROM metadata;
`)
	require.NoError(t, err)
	return db
}

func TestSession_Valid(t *testing.T) {
	require.True(t, Session{Token: "T", Role: RoleStaff, Username: "alice"}.Valid())
	require.False(t, Session{}.Valid())
	require.False(t, Session{Token: "T"}.Valid())
	require.False(t, Session{Token: "T", Role: RoleStaff}.Valid())
}

func TestKVStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewKVStore(setupDB(t))

	got, err := store.Get(ctx)
	require.NoError(t, err)
	require.False(t, got.Valid())

	want := Session{Token: "T", Role: RoleStaff, Username: "alice"}
	require.NoError(t, store.Set(ctx, want))

	got, err = store.Get(ctx)
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestKVStore_ClearRemovesEverything(t *testing.T) {
	ctx := context.Background()
	db := setupDB(t)
	store := NewKVStore(db)

	require.NoError(t, store.Set(ctx, Session{Token: "T", Role: RoleAdmin, Username: "bob"}))
	require.NoError(t, store.Clear(ctx))

	got, err := store.Get(ctx)
	require.NoError(t, err)
	require.Equal(t, Session{}, got)

	var n int
	require.NoError(t, db.QueryRow(
		`SELECT COUNT(*) FROM metadata WHERE key IN ('session_token','session_role','session_username')`).Scan(&n))
	require.Equal(t, 0, n, "all three keys must be gone")
}

func TestKVStore_ClearEmptyIsNoOp(t *testing.T) {
	ctx := context.Background()
	store := NewKVStore(setupDB(t))
	require.NoError(t, store.Clear(ctx))
}

func TestKVStore_PartialStateReadsAsAbsent(t *testing.T) {
	ctx := context.Background()
	db := setupDB(t)
	store := NewKVStore(db)

	// simulate a damaged store with only a token present
	_, err := db.Exec(`INSERT INTO metadata(key, value) VALUES ('session_token', 'T')`)
	require.NoError(t, err)

	got, err := store.Get(ctx)
	require.NoError(t, err)
	require.False(t, got.Valid())
	require.Equal(t, Session{}, got)
}

func TestSession_ExpiresAt(t *testing.T) {
	exp := time.Now().Add(24 * time.Hour).Truncate(time.Second)
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "alice",
		"exp": exp.Unix(),
	})
	signed, err := tok.SignedString([]byte("test-secret"))
	require.NoError(t, err)

	s := Session{Token: signed, Role: RoleStaff, Username: "alice"}
	require.Equal(t, exp.Unix(), s.ExpiresAt())
}

func TestSession_ExpiresAt_OpaqueToken(t *testing.T) {
	s := Session{Token: "not-a-jwt", Role: RoleStaff, Username: "alice"}
	require.Zero(t, s.ExpiresAt())
}
