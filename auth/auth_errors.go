package auth

import (
	"errors"
	"fmt"
)

const (
	// LoginFallbackMessage is used when the server rejected a login without explaining why.
	LoginFallbackMessage = "Erreur de connexion"
)

var (
	MissingAccessTokenErr = errors.New("login response has no access token")
	InvalidIdentityErr    = errors.New("login response has no valid employee")
)

// AuthError is a failed login. Message is what should be shown to the user.
type AuthError struct {
	Message string
	Err     error
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("login failed: %s: %v", e.Message, e.Err)
	}
	return "login failed: " + e.Message
}

func (e *AuthError) Unwrap() error {
	return e.Err
}
