package errors

import (
	"errors"
	"fmt"
)

// Common error types for the clinic console
var (
	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid credentials")

	// Session errors
	ErrStaleSession = errors.New("stale session")

	// Authorization errors
	ErrAuthorizationDenied = errors.New("authorization denied")

	// Transport errors
	ErrTransport = errors.New("transport error")
	ErrTimeout   = errors.New("request timeout")

	// Storage errors
	ErrCorruptValue = errors.New("corrupt stored value")

	// General errors
	ErrNotFound       = errors.New("not found")
	ErrInvalidRequest = errors.New("invalid request")
)

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
