package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"

	clinicerrors "github.com/jrsteele09/go-clinic-console/internal/errors"
)

const (
	// FallbackMessage is shown when neither the server nor the transport said anything useful.
	FallbackMessage = "Une erreur est survenue"
	// UnknownMessage is shown for failures that did not come from this client.
	UnknownMessage = "Une erreur inconnue est survenue"
)

// Error is a failed API call. StatusCode is 0 when no response was received.
type Error struct {
	StatusCode int
	Message    string // message field of the response body, if any
	Err        error

	detail string // low level message, without sentinel prefixes
}

func (e *Error) Error() string {
	switch {
	case e.Message != "":
		return fmt.Sprintf("api status %d: %s", e.StatusCode, e.Message)
	case e.Err != nil:
		return e.Err.Error()
	}
	return FallbackMessage
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Unauthorized reports whether the server rejected the bearer token.
func (e *Error) Unauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized
}

type errorBody struct {
	Message string `json:"message"`
}

func responseError(status int, body []byte) *Error {
	var eb errorBody
	_ = json.Unmarshal(body, &eb)

	detail := fmt.Sprintf("request failed with status code %d", status)
	cause := errors.New(detail)
	switch status {
	case http.StatusUnauthorized:
		cause = fmt.Errorf("%w: %w", clinicerrors.ErrStaleSession, cause)
	case http.StatusForbidden:
		cause = fmt.Errorf("%w: %w", clinicerrors.ErrAuthorizationDenied, cause)
	case http.StatusNotFound:
		cause = fmt.Errorf("%w: %w", clinicerrors.ErrNotFound, cause)
	}
	return &Error{StatusCode: status, Message: eb.Message, Err: cause, detail: detail}
}

func transportError(err error) *Error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return &Error{Err: fmt.Errorf("%w: %w: %w", clinicerrors.ErrTransport, clinicerrors.ErrTimeout, err), detail: err.Error()}
	}
	return &Error{Err: fmt.Errorf("%w: %w", clinicerrors.ErrTransport, err), detail: err.Error()}
}

// ErrorMessage turns any failure into one human readable string: the server message,
// else the low level message, else a generic fallback.
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		return UnknownMessage
	}
	if apiErr.Message != "" {
		return apiErr.Message
	}
	if apiErr.detail != "" {
		return apiErr.detail
	}
	if apiErr.Err != nil && apiErr.Err.Error() != "" {
		return apiErr.Err.Error()
	}
	return FallbackMessage
}

// ServerMessage returns the message field of a failed response, or fallback.
func ServerMessage(err error, fallback string) string {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
