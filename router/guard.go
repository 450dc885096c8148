package router

import (
	"errors"
	"net/url"

	"github.com/jrsteele09/go-clinic-console/staff"
	"github.com/rs/zerolog/log"
)

// Navigator is the session view the guard consults.
type Navigator interface {
	IsAuthenticated() bool
	InitializeFromStorage()
	Role() staff.Role
	HasRole(roles ...staff.Role) bool
}

// Reason explains a guard decision.
type Reason string

const (
	ReasonAllowed              Reason = "allowed"
	ReasonUnknownRoute         Reason = "unknown_route"
	ReasonUnauthenticated      Reason = "unauthenticated"
	ReasonAlreadyAuthenticated Reason = "already_authenticated"
	ReasonRoleDenied           Reason = "role_denied"
	ReasonLanding              Reason = "landing"
)

// Decision is the outcome of one navigation. Redirect is set iff Allow is false.
type Decision struct {
	Allow    bool
	Redirect string
	Reason   Reason
	Route    Route
}

// Observer is notified of every decision.
type Observer interface {
	ObserveDecision(d Decision)
}

type GuardOption func(*Guard)

func WithObserver(o Observer) GuardOption {
	return func(g *Guard) {
		g.observer = o
	}
}

type Guard struct {
	nav      Navigator
	observer Observer
}

func NewGuard(nav Navigator, options ...GuardOption) (*Guard, error) {
	if nav == nil {
		return nil, errors.New("[NewGuard] navigator is required")
	}
	g := &Guard{nav: nav}
	for _, opt := range options {
		opt(g)
	}
	return g, nil
}

// Resolve decides the navigation to target, a path with an optional query string.
func (g *Guard) Resolve(target string) Decision {
	d := g.resolve(target)
	log.Debug().
		Str("target", target).
		Bool("allow", d.Allow).
		Str("redirect", d.Redirect).
		Str("reason", string(d.Reason)).
		Msg("navigation")
	if g.observer != nil {
		g.observer.ObserveDecision(d)
	}
	return d
}

func (g *Guard) resolve(target string) Decision {
	u, err := url.Parse(target)
	if err != nil {
		return redirect(PathRoot, ReasonUnknownRoute, Route{})
	}
	route, ok := Lookup(u.Path)
	if !ok {
		return redirect(PathRoot, ReasonUnknownRoute, Route{})
	}

	if !g.nav.IsAuthenticated() {
		g.nav.InitializeFromStorage()
	}
	authenticated := g.nav.IsAuthenticated()

	if route.RequiresAuth && !authenticated {
		return redirect(LoginRedirect(fullPath(u.Path, u.RawQuery)), ReasonUnauthenticated, route)
	}

	role := g.nav.Role()
	landing := DefaultRoute(role)

	if route.Path == PathLogin && authenticated && landing != PathLogin {
		return redirect(landing, ReasonAlreadyAuthenticated, route)
	}

	if len(route.AllowedRoles) > 0 && !g.nav.HasRole(route.AllowedRoles...) {
		return redirect(landing, ReasonRoleDenied, route)
	}

	if route.Path == PathRoot {
		return redirect(landing, ReasonLanding, route)
	}

	return Decision{Allow: true, Reason: ReasonAllowed, Route: route}
}

// LoginRedirect builds the login URL carrying the path to return to after sign-in.
func LoginRedirect(returnTo string) string {
	return PathLogin + "?" + url.Values{RedirectQueryParam: {returnTo}}.Encode()
}

// SafeReturnPath returns target when it is a local route path, else PathRoot.
func SafeReturnPath(target string) string {
	if target == "" {
		return PathRoot
	}
	u, err := url.Parse(target)
	if err != nil || u.IsAbs() || u.Host != "" || u.Opaque != "" || len(u.Path) == 0 || u.Path[0] != '/' {
		return PathRoot
	}
	if len(target) > 1 && (target[1] == '/' || target[1] == '\\') {
		return PathRoot
	}
	if _, ok := Lookup(u.Path); !ok || normalizePath(u.Path) == PathLogin {
		return PathRoot
	}
	return target
}

func redirect(to string, reason Reason, route Route) Decision {
	return Decision{Redirect: to, Reason: reason, Route: route}
}

func fullPath(path, rawQuery string) string {
	if rawQuery == "" {
		return path
	}
	return path + "?" + rawQuery
}
