package apiclient

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/jrsteele09/go-clinic-console/token"
)

const headerRequestID = "X-Request-ID"

// bearerTransport reads the token store on every request, so a login or logout is
// visible to the next call without rebuilding the client.
type bearerTransport struct {
	tokens TokenSource
	base   http.RoundTripper
}

func (t *bearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	r := req.Clone(req.Context())
	if r.Header.Get(headerRequestID) == "" {
		r.Header.Set(headerRequestID, uuid.NewString())
	}
	if t.tokens != nil {
		if access, ok := t.tokens.CurrentToken(); ok {
			token.Pair{AccessToken: access}.OAuth2Token().SetAuthHeader(r)
		}
	}
	return t.transport().RoundTrip(r)
}

func (t *bearerTransport) transport() http.RoundTripper {
	if t.base != nil {
		return t.base
	}
	return http.DefaultTransport
}
