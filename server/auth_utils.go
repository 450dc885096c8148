package server

import (
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"

	clinicerrors "github.com/jrsteele09/go-clinic-console/internal/errors"
	"github.com/rs/zerolog/log"
)

const (
	contentTypeJSON = "application/json; charset=utf-8"
	maxBodyBytes    = 1 << 20
)

// redirectTo answers with 303 See Other so a POST is followed by a GET.
func redirectTo(w http.ResponseWriter, r *http.Request, path string) {
	http.Redirect(w, r, path, http.StatusSeeOther)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Err(err).Msg("failed to encode response")
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// invalidRequest marks a rejected body. A nil cause is described by reason.
func invalidRequest(cause error, reason string) error {
	if clinicerrors.Is(cause, clinicerrors.ErrInvalidRequest) {
		return cause
	}
	if cause == nil {
		return clinicerrors.Wrapf(clinicerrors.ErrInvalidRequest, "%s", reason)
	}
	return fmt.Errorf("%w: %w", clinicerrors.ErrInvalidRequest, cause)
}

// badRequest logs err and answers 400 with message.
func badRequest(w http.ResponseWriter, err error, message string) {
	log.Debug().Err(err).Msg("bad request")
	writeError(w, http.StatusBadRequest, message)
}

// isJSONRequest reports whether the request body is JSON rather than a form.
func isJSONRequest(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "application/json"
}

// decodeJSON reads a JSON body into v. Failures wrap ErrInvalidRequest.
func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(v); err != nil {
		return invalidRequest(err, "")
	}
	return nil
}
