package auth

import (
	"context"
	"sync"

	clinicerrors "github.com/jrsteele09/go-clinic-console/internal/errors"
	"github.com/jrsteele09/go-clinic-console/staff"
)

// SessionService is what State needs from Service.
type SessionService interface {
	Login(ctx context.Context, creds Credentials) (LoginResult, error)
	Logout()
	HasSession() bool
	CurrentIdentity() (staff.Identity, bool)
}

// Session is a snapshot of the authenticated state. Error is empty when absent.
type Session struct {
	User            *staff.Identity `json:"user"`
	IsAuthenticated bool            `json:"isAuthenticated"`
	Loading         bool            `json:"loading"`
	Error           string          `json:"error,omitempty"`
}

// State is the in-memory projection of the session service. One State is built per
// process and handed to the guard, the server and the stores.
type State struct {
	svc SessionService

	mu      sync.RWMutex
	session Session
}

func NewState(svc SessionService) *State {
	return &State{svc: svc}
}

// Snapshot returns a copy of the current session.
func (s *State) Snapshot() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.session
	if snap.User != nil {
		u := *snap.User
		snap.User = &u
	}
	return snap
}

func (s *State) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session.IsAuthenticated
}

// User returns the signed-in identity.
func (s *State) User() (staff.Identity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.session.User == nil {
		return staff.Identity{}, false
	}
	return *s.session.User, true
}

// Role returns RoleUnknown when nobody is signed in.
func (s *State) Role() staff.Role {
	if u, ok := s.User(); ok {
		return u.Role
	}
	return staff.RoleUnknown
}

// FullName is empty when nobody is signed in.
func (s *State) FullName() string {
	if u, ok := s.User(); ok {
		return u.FullName()
	}
	return ""
}

func (s *State) IsDirector() bool  { return s.Role() == staff.RoleDirector }
func (s *State) IsSecretary() bool { return s.Role() == staff.RoleSecretary }
func (s *State) IsNurse() bool     { return s.Role() == staff.RoleNurse }

// HasRole is false when unauthenticated, otherwise true iff the current role is one of roles.
func (s *State) HasRole(roles ...staff.Role) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.session.IsAuthenticated || s.session.User == nil {
		return false
	}
	return s.session.User.Role.In(roles...)
}

// InitializeFromStorage rebuilds the session from the token store. It never touches the
// network and can be called any number of times.
func (s *State) InitializeFromStorage() {
	identity, hasIdentity := s.svc.CurrentIdentity()
	authenticated := s.svc.HasSession() && hasIdentity

	s.mu.Lock()
	defer s.mu.Unlock()
	s.session.IsAuthenticated = authenticated
	if authenticated {
		s.session.User = &identity
	} else {
		s.session.User = nil
	}
}

// Login authenticates against the remote service. Loading is true for the duration of
// the call and reset on every exit path; a failure is stored in Error and returned.
func (s *State) Login(ctx context.Context, creds Credentials) (staff.Identity, error) {
	s.mu.Lock()
	s.session.Loading = true
	s.session.Error = ""
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.session.Loading = false
		s.mu.Unlock()
	}()

	result, err := s.svc.Login(ctx, creds)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.session.Error = loginErrorMessage(err)
		return staff.Identity{}, err
	}
	identity := result.Identity
	s.session.User = &identity
	s.session.IsAuthenticated = true
	return identity, nil
}

// Logout clears storage and resets the session to empty.
func (s *State) Logout() {
	s.svc.Logout()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = Session{}
}

func loginErrorMessage(err error) string {
	var authErr *AuthError
	if clinicerrors.As(err, &authErr) && authErr.Message != "" {
		return authErr.Message
	}
	return LoginFallbackMessage
}
