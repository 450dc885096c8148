package apiclient_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/jrsteele09/go-clinic-console/apiclient"
	clinicerrors "github.com/jrsteele09/go-clinic-console/internal/errors"
	"github.com/stretchr/testify/require"
)

type testConfig struct {
	url     string
	timeout time.Duration
}

func (c testConfig) GetAPIURL() string { return c.url }
func (c testConfig) GetRequestTimeout() time.Duration {
	if c.timeout == 0 {
		return 10 * time.Second
	}
	return c.timeout
}
func (c testConfig) GetRateLimit() float64 { return 0 }
func (c testConfig) GetRateBurst() int      { return 1 }

type fixedToken string

func (f fixedToken) CurrentToken() (string, bool) { return string(f), f != "" }

type fakeRecorder struct {
	mu           sync.Mutex
	statuses     []int
	unauthorized int
}

func (r *fakeRecorder) ObserveRequest(_ string, status int, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.statuses = append(r.statuses, status)
}

func (r *fakeRecorder) RecordUnauthorized() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.unauthorized++
}

func newClient(t *testing.T, srv *httptest.Server, tok string, opts ...apiclient.Option) *apiclient.Client {
	t.Helper()
	c, err := apiclient.New(testConfig{url: srv.URL + "/api"}, fixedToken(tok), opts...)
	require.NoError(t, err)
	return c
}

func TestClient_BearerInjection(t *testing.T) {
	var gotAuth, gotRequestID, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotRequestID = r.Header.Get("X-Request-ID")
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(`[{"idPatient":1}]`))
	}))
	defer srv.Close()

	t.Run("token present", func(t *testing.T) {
		var out []map[string]int
		require.NoError(t, newClient(t, srv, "abc").Get(context.Background(), "/patients", nil, &out))
		require.Equal(t, "Bearer abc", gotAuth)
		require.NotEmpty(t, gotRequestID)
		require.Equal(t, "/api/patients", gotPath)
		require.Equal(t, 1, out[0]["idPatient"])
	})

	t.Run("token absent", func(t *testing.T) {
		require.NoError(t, newClient(t, srv, "").Get(context.Background(), "patients", nil, nil))
		require.Empty(t, gotAuth)
	})
}

func TestClient_QueryAndBody(t *testing.T) {
	var gotQuery url.Values
	var gotBody map[string]string
	var gotMethod string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotQuery = r.URL.Query()
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()
	c := newClient(t, srv, "abc")

	require.NoError(t, c.Get(context.Background(), "/ecoles", url.Values{"withStagiaires": {"true"}}, nil))
	require.Equal(t, "true", gotQuery.Get("withStagiaires"))

	require.NoError(t, c.Put(context.Background(), "/patients/2", map[string]string{"nomPatient": "Roux"}, nil))
	require.Equal(t, http.MethodPut, gotMethod)
	require.Equal(t, "Roux", gotBody["nomPatient"])

	require.NoError(t, c.Delete(context.Background(), "/patients/2"))
	require.Equal(t, http.MethodDelete, gotMethod)
}

func TestClient_Unauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"Token invalide"}`))
	}))
	defer srv.Close()

	rec := &fakeRecorder{}
	err := newClient(t, srv, "expired", apiclient.WithRecorder(rec)).Get(context.Background(), "/rdv", nil, nil)
	require.Error(t, err)
	require.True(t, errors.Is(err, clinicerrors.ErrStaleSession))
	require.Equal(t, "Token invalide", apiclient.ErrorMessage(err))

	var apiErr *apiclient.Error
	require.True(t, errors.As(err, &apiErr))
	require.True(t, apiErr.Unauthorized())
	require.Equal(t, 1, rec.unauthorized)
	require.Equal(t, []int{http.StatusUnauthorized}, rec.statuses)
}

func TestErrorMessage(t *testing.T) {
	t.Run("server message wins", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"message":"Patient introuvable"}`))
		}))
		defer srv.Close()
		err := newClient(t, srv, "t").Get(context.Background(), "/patients/9", nil, nil)
		require.Equal(t, "Patient introuvable", apiclient.ErrorMessage(err))
	})

	t.Run("status line without message", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer srv.Close()
		err := newClient(t, srv, "t").Get(context.Background(), "/patients/9", nil, nil)
		require.Equal(t, "request failed with status code 404", apiclient.ErrorMessage(err))
		require.True(t, errors.Is(err, clinicerrors.ErrNotFound))
	})

	t.Run("transport failure", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		c := newClient(t, srv, "t")
		srv.Close()
		err := c.Get(context.Background(), "/patients", nil, nil)
		require.True(t, errors.Is(err, clinicerrors.ErrTransport))
		require.NotEmpty(t, apiclient.ErrorMessage(err))
		require.NotEqual(t, apiclient.UnknownMessage, apiclient.ErrorMessage(err))
	})

	t.Run("timeout", func(t *testing.T) {
		release := make(chan struct{})
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			<-release
		}))
		defer srv.Close()
		defer close(release)
		c, err := apiclient.New(testConfig{url: srv.URL, timeout: 50 * time.Millisecond}, fixedToken(""))
		require.NoError(t, err)
		err = c.Get(context.Background(), "/slow", nil, nil)
		require.True(t, errors.Is(err, clinicerrors.ErrTimeout))
		require.True(t, errors.Is(err, clinicerrors.ErrTransport))
	})

	t.Run("foreign error", func(t *testing.T) {
		require.Equal(t, apiclient.UnknownMessage, apiclient.ErrorMessage(errors.New("boom")))
	})

	t.Run("nil", func(t *testing.T) {
		require.Empty(t, apiclient.ErrorMessage(nil))
	})

	t.Run("empty error", func(t *testing.T) {
		require.Equal(t, apiclient.FallbackMessage, apiclient.ErrorMessage(&apiclient.Error{}))
	})
}

func TestNew_InvalidBaseURL(t *testing.T) {
	_, err := apiclient.New(testConfig{url: "not a url"}, fixedToken(""))
	require.Error(t, err)
}
