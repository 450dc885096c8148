// Package auth holds the session service (login, logout and the local session check)
// and the in-memory session state consulted by the route guard.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/jrsteele09/go-clinic-console/apiclient"
	clinicerrors "github.com/jrsteele09/go-clinic-console/internal/errors"
	"github.com/jrsteele09/go-clinic-console/staff"
	"github.com/jrsteele09/go-clinic-console/token"
	"github.com/rs/zerolog/log"
)

const loginPath = "/auth/login"

// Credentials are posted as-is to the remote authenticator.
type Credentials struct {
	Email    string `json:"mailEmploye"`
	Password string `json:"mdpEmploye"`
}

// LoginResponse is the body of a successful POST /auth/login.
type LoginResponse struct {
	Message      string         `json:"message"`
	AccessToken  string         `json:"accessToken"`
	RefreshToken string         `json:"refreshToken"`
	Employee     staff.Identity `json:"employe"`
}

// LoginResult is what a successful login hands back to the caller.
type LoginResult struct {
	Identity staff.Identity
	Pair     token.Pair
	Message  string
}

// Poster is the part of the API client the service needs.
type Poster interface {
	Post(ctx context.Context, path string, body, out any) error
}

// Service implements the session primitives over the remote authenticator and the
// token store.
type Service struct {
	api     Poster
	tokens  token.Store
	nowTime func() time.Time
}

type ServiceOption func(*Service)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) ServiceOption {
	return func(s *Service) {
		s.nowTime = nowFunc
	}
}

func NewService(api Poster, tokens token.Store, options ...ServiceOption) (*Service, error) {
	if api == nil {
		return nil, errors.New("[NewService] api client is required")
	}
	if tokens == nil {
		return nil, errors.New("[NewService] token store is required")
	}
	s := &Service{
		api:     api,
		tokens:  tokens,
		nowTime: time.Now,
	}
	for _, opt := range options {
		opt(s)
	}
	return s, nil
}

// Login sends the credentials to the authenticator and, on success, persists the pair
// and the identity. Nothing is written before the remote call resolves. Failures are
// returned as *AuthError.
func (s *Service) Login(ctx context.Context, creds Credentials) (LoginResult, error) {
	var resp LoginResponse
	if err := s.api.Post(ctx, loginPath, creds, &resp); err != nil {
		return LoginResult{}, &AuthError{
			Message: apiclient.ServerMessage(err, LoginFallbackMessage),
			Err:     classifyLoginError(err),
		}
	}

	if resp.AccessToken == "" {
		return LoginResult{}, &AuthError{Message: LoginFallbackMessage, Err: MissingAccessTokenErr}
	}
	if err := resp.Employee.Validate(); err != nil {
		return LoginResult{}, &AuthError{Message: LoginFallbackMessage, Err: fmt.Errorf("%w: %w", InvalidIdentityErr, err)}
	}

	pair := token.Pair{AccessToken: resp.AccessToken, RefreshToken: resp.RefreshToken}
	if err := s.tokens.Save(pair, resp.Employee); err != nil {
		return LoginResult{}, &AuthError{Message: LoginFallbackMessage, Err: err}
	}

	log.Info().Int("employee_id", resp.Employee.ID).Str("role", resp.Employee.Role.String()).Msg("logged in")
	return LoginResult{Identity: resp.Employee, Pair: pair, Message: resp.Message}, nil
}

// Logout clears the token store. It is purely local and always succeeds; a storage
// failure is logged.
func (s *Service) Logout() {
	if err := s.tokens.Clear(); err != nil {
		log.Err(err).Msg("logout: failed to clear token store")
	}
}

// HasSession reports whether a locally usable access token is stored. The server is not
// consulted; a JWT whose exp claim has passed counts as no session.
func (s *Service) HasSession() bool {
	access, ok := s.tokens.CurrentToken()
	if !ok {
		return false
	}
	return !token.Expired(access, s.nowTime())
}

func (s *Service) CurrentIdentity() (staff.Identity, bool) {
	return s.tokens.CurrentIdentity()
}

func classifyLoginError(err error) error {
	var apiErr *apiclient.Error
	if clinicerrors.As(err, &apiErr) && apiErr.StatusCode >= http.StatusBadRequest && apiErr.StatusCode < http.StatusInternalServerError {
		return fmt.Errorf("%w: %w", clinicerrors.ErrInvalidCredentials, err)
	}
	return err
}
