package token_test

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	clinicerrors "github.com/jrsteele09/go-clinic-console/internal/errors"
	"github.com/jrsteele09/go-clinic-console/staff"
	"github.com/jrsteele09/go-clinic-console/token"
	"github.com/stretchr/testify/require"
)

const testKey = "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"

var testIdentity = staff.Identity{ID: 12, FamilyName: "Bernard", GivenName: "Claire", Role: staff.RoleDirector}

func TestSlotStore_RoundTrip(t *testing.T) {
	store := token.NewMemoryStore()

	require.False(t, store.HasToken())
	_, ok := store.CurrentIdentity()
	require.False(t, ok)

	require.NoError(t, store.Save(token.Pair{AccessToken: "access", RefreshToken: "refresh"}, testIdentity))

	require.True(t, store.HasToken())
	tok, ok := store.CurrentToken()
	require.True(t, ok)
	require.Equal(t, "access", tok)

	got, ok := store.CurrentIdentity()
	require.True(t, ok)
	require.Equal(t, testIdentity, got)

	require.NoError(t, store.Clear())
	require.False(t, store.HasToken())
	_, ok = store.CurrentIdentity()
	require.False(t, ok)

	t.Run("clear on empty store", func(t *testing.T) {
		require.NoError(t, token.NewMemoryStore().Clear())
	})
}

func TestSlotStore_SaveRejectsEmptyAccessToken(t *testing.T) {
	store := token.NewMemoryStore()
	require.Error(t, store.Save(token.Pair{RefreshToken: "r"}, testIdentity))
	require.False(t, store.HasToken())
}

func TestSlotStore_CorruptIdentity(t *testing.T) {
	backend := token.NewMemoryBackend()
	store := token.New(backend)
	require.NoError(t, store.Save(token.Pair{AccessToken: "access"}, testIdentity))

	require.NoError(t, store.Verify())

	t.Run("not json", func(t *testing.T) {
		require.NoError(t, backend.Put(map[string]string{token.SlotIdentity: "{not json"}))
		_, ok := store.CurrentIdentity()
		require.False(t, ok)
		require.True(t, store.HasToken())
		require.ErrorIs(t, store.Verify(), clinicerrors.ErrCorruptValue)
	})

	t.Run("unknown role", func(t *testing.T) {
		require.NoError(t, backend.Put(map[string]string{token.SlotIdentity: `{"id":1,"role":"CHEF"}`}))
		_, ok := store.CurrentIdentity()
		require.False(t, ok)
		require.ErrorIs(t, store.Verify(), clinicerrors.ErrCorruptValue)
	})

	t.Run("cleared store verifies", func(t *testing.T) {
		require.NoError(t, store.Clear())
		require.NoError(t, store.Verify())
	})
}

func TestSlotStore_Sealed(t *testing.T) {
	sealer, err := token.NewSealerFromHex(testKey)
	require.NoError(t, err)

	backend := token.NewMemoryBackend()
	store := token.New(backend, token.WithSealer(sealer))
	require.NoError(t, store.Save(token.Pair{AccessToken: "access", RefreshToken: "refresh"}, testIdentity))

	raw, ok, err := backend.Get(token.SlotAccessToken)
	require.NoError(t, err)
	require.True(t, ok)
	require.NotContains(t, raw, "access")

	got, ok := store.CurrentIdentity()
	require.True(t, ok)
	require.Equal(t, testIdentity, got)

	t.Run("wrong key reads as absent", func(t *testing.T) {
		other, err := token.NewSealerFromHex(strings.Repeat("ff", 32))
		require.NoError(t, err)
		reader := token.New(backend, token.WithSealer(other))
		require.False(t, reader.HasToken())
		require.ErrorIs(t, reader.Verify(), clinicerrors.ErrCorruptValue)
		_, ok := reader.CurrentIdentity()
		require.False(t, ok)
	})

	t.Run("bad keys", func(t *testing.T) {
		_, err := token.NewSealerFromHex("zz")
		require.Error(t, err)
		_, err = token.NewSealerFromHex("0011")
		require.Error(t, err)
	})
}

func TestExpired(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	sign := func(t *testing.T, claims jwt.MapClaims) string {
		t.Helper()
		s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
		require.NoError(t, err)
		return s
	}

	t.Run("past exp", func(t *testing.T) {
		require.True(t, token.Expired(sign(t, jwt.MapClaims{"exp": now.Add(-time.Minute).Unix()}), now))
	})
	t.Run("future exp", func(t *testing.T) {
		require.False(t, token.Expired(sign(t, jwt.MapClaims{"exp": now.Add(time.Hour).Unix()}), now))
	})
	t.Run("no exp", func(t *testing.T) {
		require.False(t, token.Expired(sign(t, jwt.MapClaims{"idEmploye": 1}), now))
	})
	t.Run("opaque token", func(t *testing.T) {
		require.False(t, token.Expired("not-a-jwt", now))
	})
}

func TestPairOAuth2(t *testing.T) {
	p := token.Pair{AccessToken: "a", RefreshToken: "r"}
	ot := p.OAuth2Token()
	require.Equal(t, "Bearer", ot.Type())
	require.Equal(t, p, token.PairFromOAuth2(ot))
	require.Equal(t, token.Pair{}, token.PairFromOAuth2(nil))
}
