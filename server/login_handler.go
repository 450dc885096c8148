package server

import (
	"net/http"

	"github.com/jrsteele09/go-clinic-console/auth"
	clinicerrors "github.com/jrsteele09/go-clinic-console/internal/errors"
	"github.com/jrsteele09/go-clinic-console/router"
	"github.com/rs/zerolog/log"
)

// LoginPageData is the login view.
type LoginPageData struct {
	AppName  string       `json:"appName"`
	Session  auth.Session `json:"session"`
	Redirect string       `json:"redirect,omitempty"`
	Error    string       `json:"error,omitempty"`
}

// loginRequest is accepted as JSON or as a form with the same field names.
type loginRequest struct {
	Email    string `json:"mailEmploye"`
	Password string `json:"mdpEmploye"`
	Redirect string `json:"redirect"`
}

// LoginPageHandler serves GET /login. The guard has already sent signed-in users away.
func (s *Server) LoginPageHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, LoginPageData{
			AppName:  s.appName,
			Session:  s.state.Snapshot(),
			Redirect: r.URL.Query().Get(router.RedirectQueryParam),
			Error:    r.URL.Query().Get("error"),
		})
	}
}

// LoginSubmissionHandler processes POST /login and forwards to the page the user was
// heading to before being sent to login.
func (s *Server) LoginSubmissionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, err := parseLoginRequest(r)
		if err != nil {
			badRequest(w, err, "Requête invalide")
			return
		}
		if req.Email == "" || req.Password == "" {
			writeJSON(w, http.StatusBadRequest, LoginPageData{
				AppName:  s.appName,
				Session:  s.state.Snapshot(),
				Redirect: req.Redirect,
				Error:    "Email et mot de passe requis",
			})
			return
		}

		_, err = s.state.Login(r.Context(), auth.Credentials{Email: req.Email, Password: req.Password})
		if err != nil {
			status := http.StatusUnauthorized
			var authErr *auth.AuthError
			if !clinicerrors.As(err, &authErr) {
				status = http.StatusBadGateway
			}
			log.Warn().Err(err).Str("email", req.Email).Msg("login failed")
			writeJSON(w, status, LoginPageData{
				AppName:  s.appName,
				Session:  s.state.Snapshot(),
				Redirect: req.Redirect,
				Error:    s.state.Snapshot().Error,
			})
			return
		}

		redirectTo(w, r, router.SafeReturnPath(req.Redirect))
	}
}

// LogoutHandler clears the session and every store, then goes back to login.
func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.state.Logout()
		s.stores.Reset()
		redirectTo(w, r, RouteLogin)
	}
}

// SessionHandler returns the current session with the menu for its role.
func (s *Server) SessionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.state.IsAuthenticated() {
			s.state.InitializeFromStorage()
		}
		writeJSON(w, http.StatusOK, s.sessionView())
	}
}

func parseLoginRequest(r *http.Request) (loginRequest, error) {
	var req loginRequest
	if isJSONRequest(r) {
		err := decodeJSON(r, &req)
		return req, err
	}
	if err := r.ParseForm(); err != nil {
		return req, invalidRequest(err, "")
	}
	req.Email = r.FormValue("mailEmploye")
	req.Password = r.FormValue("mdpEmploye")
	// FormValue falls back to the query string, where the guard put the return path.
	req.Redirect = r.FormValue(router.RedirectQueryParam)
	return req, nil
}
