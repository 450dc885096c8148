package auth_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jrsteele09/go-clinic-console/apiclient"
	"github.com/jrsteele09/go-clinic-console/auth"
	clinicerrors "github.com/jrsteele09/go-clinic-console/internal/errors"
	"github.com/jrsteele09/go-clinic-console/staff"
	"github.com/jrsteele09/go-clinic-console/token"
	"github.com/stretchr/testify/require"
)

const (
	testEmail    = "claire.bernard@clinique.fr"
	testPassword = "Secret123"
)

var testNow = time.Date(2026, 5, 4, 9, 30, 0, 0, time.UTC)

type testConfig struct{ url string }

func (c testConfig) GetAPIURL() string                { return c.url }
func (c testConfig) GetRequestTimeout() time.Duration { return 2 * time.Second }
func (c testConfig) GetRateLimit() float64            { return 0 }
func (c testConfig) GetRateBurst() int                { return 1 }

// testFixture wires a fake authenticator, a real API client and an in-memory store.
type testFixture struct {
	tokens  *token.SlotStore
	service *auth.Service
	state   *auth.State
	calls   int
	release chan struct{} // when set, the authenticator waits on it
}

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"idEmploye":   12,
		"roleEmploye": "DIRECTEUR",
		"exp":         exp.Unix(),
	}).SignedString([]byte("backend-secret"))
	require.NoError(t, err)
	return s
}

func setupTestFixture(t *testing.T) *testFixture {
	t.Helper()
	f := &testFixture{tokens: token.NewMemoryStore()}
	access := signedToken(t, testNow.Add(time.Hour))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.calls++
		if f.release != nil {
			<-f.release
		}
		var creds auth.Credentials
		_ = json.NewDecoder(r.Body).Decode(&creds)
		switch {
		case r.URL.Path != "/api/auth/login":
			w.WriteHeader(http.StatusNotFound)
		case creds.Email == testEmail && creds.Password == testPassword:
			_, _ = w.Write([]byte(`{"message":"Connexion réussie","accessToken":"` + access + `","refreshToken":"refresh-1",
				"employe":{"id":12,"nom":"Bernard","prenom":"Claire","role":"DIRECTEUR"}}`))
		case creds.Email == "silent@clinique.fr":
			w.WriteHeader(http.StatusUnauthorized)
		case creds.Email == "nobody@clinique.fr":
			_, _ = w.Write([]byte(`{"message":"ok","accessToken":"x","employe":{"id":1,"role":"JARDINIER"}}`))
		default:
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"message":"Email ou mot de passe incorrect"}`))
		}
	}))
	t.Cleanup(srv.Close)

	client, err := apiclient.New(testConfig{url: srv.URL + "/api"}, f.tokens)
	require.NoError(t, err)

	f.service, err = auth.NewService(client, f.tokens, auth.WithNowTime(func() time.Time { return testNow }))
	require.NoError(t, err)
	f.state = auth.NewState(f.service)
	return f
}

func TestNewService_RequiresDependencies(t *testing.T) {
	_, err := auth.NewService(nil, token.NewMemoryStore())
	require.Error(t, err)
}

func TestState_LoginSuccess(t *testing.T) {
	f := setupTestFixture(t)
	require.False(t, f.state.IsAuthenticated())

	identity, err := f.state.Login(context.Background(), auth.Credentials{Email: testEmail, Password: testPassword})
	require.NoError(t, err)
	require.Equal(t, staff.RoleDirector, identity.Role)

	snap := f.state.Snapshot()
	require.True(t, snap.IsAuthenticated)
	require.NotNil(t, snap.User)
	require.False(t, snap.Loading)
	require.Empty(t, snap.Error)
	require.Equal(t, "Claire Bernard", f.state.FullName())
	require.True(t, f.state.IsDirector())
	require.False(t, f.state.IsNurse())

	stored, ok := f.tokens.CurrentIdentity()
	require.True(t, ok)
	require.Equal(t, identity, stored)
	refresh, ok := f.tokens.CurrentRefreshToken()
	require.True(t, ok)
	require.Equal(t, "refresh-1", refresh)
}

func TestState_LoginFailure(t *testing.T) {
	t.Run("server message", func(t *testing.T) {
		f := setupTestFixture(t)
		_, err := f.state.Login(context.Background(), auth.Credentials{Email: testEmail, Password: "wrong"})
		require.Error(t, err)
		require.True(t, errors.Is(err, clinicerrors.ErrInvalidCredentials))

		var authErr *auth.AuthError
		require.True(t, errors.As(err, &authErr))
		require.Equal(t, "Email ou mot de passe incorrect", authErr.Message)

		snap := f.state.Snapshot()
		require.False(t, snap.IsAuthenticated)
		require.Nil(t, snap.User)
		require.False(t, snap.Loading)
		require.Equal(t, "Email ou mot de passe incorrect", snap.Error)
		require.False(t, f.tokens.HasToken())
	})

	t.Run("generic fallback", func(t *testing.T) {
		f := setupTestFixture(t)
		_, err := f.state.Login(context.Background(), auth.Credentials{Email: "silent@clinique.fr", Password: "x"})
		require.Error(t, err)
		require.Equal(t, auth.LoginFallbackMessage, f.state.Snapshot().Error)
	})

	t.Run("unusable identity is not stored", func(t *testing.T) {
		f := setupTestFixture(t)
		_, err := f.state.Login(context.Background(), auth.Credentials{Email: "nobody@clinique.fr", Password: "x"})
		require.Error(t, err)
		require.False(t, f.tokens.HasToken())
		require.False(t, f.state.IsAuthenticated())
	})

	t.Run("error cleared by next attempt", func(t *testing.T) {
		f := setupTestFixture(t)
		_, _ = f.state.Login(context.Background(), auth.Credentials{Email: testEmail, Password: "wrong"})
		require.NotEmpty(t, f.state.Snapshot().Error)
		_, err := f.state.Login(context.Background(), auth.Credentials{Email: testEmail, Password: testPassword})
		require.NoError(t, err)
		require.Empty(t, f.state.Snapshot().Error)
	})
}

func TestState_LoadingDuringLogin(t *testing.T) {
	f := setupTestFixture(t)
	f.release = make(chan struct{})

	done := make(chan error, 1)
	go func() {
		_, err := f.state.Login(context.Background(), auth.Credentials{Email: testEmail, Password: testPassword})
		done <- err
	}()

	require.Eventually(t, func() bool { return f.state.Snapshot().Loading }, time.Second, 5*time.Millisecond)
	require.False(t, f.tokens.HasToken(), "nothing is persisted before the call resolves")
	close(f.release)
	require.NoError(t, <-done)
	require.False(t, f.state.Snapshot().Loading)
}

func TestState_Logout(t *testing.T) {
	f := setupTestFixture(t)
	_, err := f.state.Login(context.Background(), auth.Credentials{Email: testEmail, Password: testPassword})
	require.NoError(t, err)

	f.state.Logout()
	require.Equal(t, auth.Session{}, f.state.Snapshot())
	require.False(t, f.tokens.HasToken())

	t.Run("logout when already logged out", func(t *testing.T) {
		f.state.Logout()
		require.Equal(t, auth.Session{}, f.state.Snapshot())
	})
}

func TestState_HasRole(t *testing.T) {
	f := setupTestFixture(t)
	require.False(t, f.state.HasRole(staff.RoleDirector, staff.RoleSecretary, staff.RoleNurse))
	require.Equal(t, staff.RoleUnknown, f.state.Role())
	require.Empty(t, f.state.FullName())

	_, err := f.state.Login(context.Background(), auth.Credentials{Email: testEmail, Password: testPassword})
	require.NoError(t, err)

	require.True(t, f.state.HasRole(staff.RoleDirector))
	require.True(t, f.state.HasRole(staff.RoleSecretary, staff.RoleDirector))
	require.False(t, f.state.HasRole(staff.RoleSecretary, staff.RoleNurse))
	require.False(t, f.state.HasRole())
}

func TestState_InitializeFromStorage(t *testing.T) {
	identity := staff.Identity{ID: 4, FamilyName: "Petit", GivenName: "Luc", Role: staff.RoleNurse}

	t.Run("valid token", func(t *testing.T) {
		f := setupTestFixture(t)
		require.NoError(t, f.tokens.Save(token.Pair{AccessToken: signedToken(t, testNow.Add(time.Minute))}, identity))

		f.state.InitializeFromStorage()
		f.state.InitializeFromStorage()
		require.True(t, f.state.IsAuthenticated())
		require.True(t, f.state.IsNurse())
		require.Zero(t, f.calls, "rehydration never calls the api")
	})

	t.Run("opaque token", func(t *testing.T) {
		f := setupTestFixture(t)
		require.NoError(t, f.tokens.Save(token.Pair{AccessToken: "opaque"}, identity))
		f.state.InitializeFromStorage()
		require.True(t, f.state.IsAuthenticated())
	})

	t.Run("expired token", func(t *testing.T) {
		f := setupTestFixture(t)
		require.NoError(t, f.tokens.Save(token.Pair{AccessToken: signedToken(t, testNow.Add(-time.Minute))}, identity))
		f.state.InitializeFromStorage()
		require.False(t, f.state.IsAuthenticated())
		_, ok := f.state.User()
		require.False(t, ok)
	})

	t.Run("token without identity", func(t *testing.T) {
		f := setupTestFixture(t)
		backend := token.NewMemoryBackend()
		require.NoError(t, backend.Put(map[string]string{token.SlotAccessToken: "opaque"}))
		state := auth.NewState(mustService(t, token.New(backend)))
		state.InitializeFromStorage()
		require.False(t, state.IsAuthenticated())
		require.Zero(t, f.calls)
	})

	t.Run("empty storage after a login elsewhere was undone", func(t *testing.T) {
		f := setupTestFixture(t)
		require.NoError(t, f.tokens.Save(token.Pair{AccessToken: "opaque"}, identity))
		f.state.InitializeFromStorage()
		require.True(t, f.state.IsAuthenticated())
		require.NoError(t, f.tokens.Clear())
		f.state.InitializeFromStorage()
		require.False(t, f.state.IsAuthenticated())
	})
}

type nopPoster struct{}

func (nopPoster) Post(context.Context, string, any, any) error { return nil }

func mustService(t *testing.T, store token.Store) *auth.Service {
	t.Helper()
	svc, err := auth.NewService(nopPoster{}, store)
	require.NoError(t, err)
	return svc
}
