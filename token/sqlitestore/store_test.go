package sqlitestore_test

import (
	"path/filepath"
	"testing"

	"github.com/jrsteele09/go-clinic-console/staff"
	"github.com/jrsteele09/go-clinic-console/token"
	"github.com/jrsteele09/go-clinic-console/token/sqlitestore"
	"github.com/stretchr/testify/require"
)

func openBackend(t *testing.T, path string) *sqlitestore.Backend {
	t.Helper()
	b, err := sqlitestore.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = b.Close() })
	return b
}

func TestBackend_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.db")
	identity := staff.Identity{ID: 3, FamilyName: "Durand", GivenName: "Paul", Role: staff.RoleNurse}

	first := token.New(openBackend(t, path))
	require.NoError(t, first.Save(token.Pair{AccessToken: "a1", RefreshToken: "r1"}, identity))

	second := token.New(openBackend(t, path))
	require.True(t, second.HasToken())
	got, ok := second.CurrentIdentity()
	require.True(t, ok)
	require.Equal(t, identity, got)
	refresh, ok := second.CurrentRefreshToken()
	require.True(t, ok)
	require.Equal(t, "r1", refresh)
}

func TestBackend_ClearIsIdempotent(t *testing.T) {
	store := token.New(openBackend(t, filepath.Join(t.TempDir(), "session.db")))

	require.NoError(t, store.Clear())
	require.NoError(t, store.Save(token.Pair{AccessToken: "a1"}, staff.Identity{ID: 1, Role: staff.RoleDirector}))
	require.NoError(t, store.Clear())
	require.NoError(t, store.Clear())
	require.False(t, store.HasToken())
	_, ok := store.CurrentIdentity()
	require.False(t, ok)
}

func TestBackend_PutOverwrites(t *testing.T) {
	b := openBackend(t, filepath.Join(t.TempDir(), "session.db"))

	require.NoError(t, b.Put(map[string]string{"k": "v1"}))
	require.NoError(t, b.Put(map[string]string{"k": "v2"}))

	v, ok, err := b.Get("k")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "v2", v)

	_, ok, err = b.Get("missing")
	require.NoError(t, err)
	require.False(t, ok)
}
