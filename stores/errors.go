package stores

import (
	"fmt"

	"github.com/jrsteele09/go-clinic-console/apiclient"
	clinicerrors "github.com/jrsteele09/go-clinic-console/internal/errors"
)

// Error is a failed store call. Message is what the store recorded for the operator.
type Error struct {
	Store   string
	Message string
	Err     error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Store, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// ErrorMessage returns the operator message carried by err. Errors that did not come
// from a store are normalized by the API client.
func ErrorMessage(err error) string {
	var storeErr *Error
	if clinicerrors.As(err, &storeErr) {
		return storeErr.Message
	}
	return apiclient.ErrorMessage(err)
}
