package server

import (
	"context"
	"net/http"

	"github.com/jrsteele09/go-clinic-console/router"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const (
	// ContextKeyDecision stores the route guard decision for the request
	ContextKeyDecision ContextKey = "navigation"
)

// RequireNavigation runs the route guard on the requested path. Denied navigations are
// answered with a 303 to the guard's redirect target.
func (s *Server) RequireNavigation() func(http.HandlerFunc) http.HandlerFunc {
	return s.guarded(func(r *http.Request) string { return r.URL.RequestURI() })
}

// RequireViewAccess guards an action with the rules of the view it belongs to.
func (s *Server) RequireViewAccess(viewPath string) func(http.HandlerFunc) http.HandlerFunc {
	return s.guarded(func(*http.Request) string { return viewPath })
}

func (s *Server) guarded(target func(*http.Request) string) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			decision := s.guard.Resolve(target(r))
			if !decision.Allow {
				redirectTo(w, r, decision.Redirect)
				return
			}
			ctx := context.WithValue(r.Context(), ContextKeyDecision, decision)
			next(w, r.WithContext(ctx))
		}
	}
}

func decisionFromContext(ctx context.Context) (router.Decision, bool) {
	d, ok := ctx.Value(ContextKeyDecision).(router.Decision)
	return d, ok
}
