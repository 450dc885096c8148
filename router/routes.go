// Package router holds the navigable route table of the console and the guard that
// decides, for every navigation, whether to render the target or redirect elsewhere.
package router

import (
	"strings"

	"github.com/jrsteele09/go-clinic-console/staff"
)

// Route path constants
const (
	PathLogin          = "/login"
	PathRoot           = "/"
	PathDirector       = "/directeur"
	PathSecretary      = "/secretaire"
	PathNurse          = "/infirmier"
	PathPatients       = "/patients"
	PathPrestations    = "/prestations"
	PathAppointments   = "/rdv"
	PathSchools        = "/ecoles"
	PathInvoices       = "/factures"
	PathStatistics     = "/statistiques"
	RedirectQueryParam = "redirect"
)

// Route describes one navigable view. An empty AllowedRoles means any signed-in role.
type Route struct {
	Path         string
	Name         string
	Title        string
	RequiresAuth bool
	AllowedRoles []staff.Role
}

// Allows reports whether role may open the route. Role checks ignore RequiresAuth.
func (r Route) Allows(role staff.Role) bool {
	if len(r.AllowedRoles) == 0 {
		return true
	}
	return role.In(r.AllowedRoles...)
}

var (
	directorAndSecretary = []staff.Role{staff.RoleDirector, staff.RoleSecretary}
	allStaff             = []staff.Role{staff.RoleDirector, staff.RoleSecretary, staff.RoleNurse}
)

var routes = []Route{
	{Path: PathLogin, Name: "login", Title: "Connexion"},
	{Path: PathRoot, Name: "dashboard", Title: "Tableau de bord", RequiresAuth: true},
	{Path: PathDirector, Name: "dashboard-directeur", Title: "Tableau de bord", RequiresAuth: true, AllowedRoles: []staff.Role{staff.RoleDirector}},
	{Path: PathSecretary, Name: "dashboard-secretaire", Title: "Tableau de bord", RequiresAuth: true, AllowedRoles: []staff.Role{staff.RoleSecretary}},
	{Path: PathNurse, Name: "dashboard-infirmier", Title: "Tableau de bord", RequiresAuth: true, AllowedRoles: []staff.Role{staff.RoleNurse}},
	{Path: PathPatients, Name: "patients", Title: "Patients", RequiresAuth: true, AllowedRoles: directorAndSecretary},
	{Path: PathPrestations, Name: "prestations", Title: "Prestations", RequiresAuth: true, AllowedRoles: directorAndSecretary},
	{Path: PathAppointments, Name: "rdv", Title: "Rendez-vous", RequiresAuth: true, AllowedRoles: allStaff},
	{Path: PathSchools, Name: "ecoles", Title: "Écoles", RequiresAuth: true, AllowedRoles: directorAndSecretary},
	{Path: PathInvoices, Name: "factures", Title: "Facturation", RequiresAuth: true, AllowedRoles: directorAndSecretary},
	{Path: PathStatistics, Name: "statistiques", Title: "Statistiques", RequiresAuth: true, AllowedRoles: []staff.Role{staff.RoleDirector}},
}

// Routes returns a copy of the route table.
func Routes() []Route {
	out := make([]Route, len(routes))
	copy(out, routes)
	return out
}

// Lookup matches path against the route table. A trailing slash is ignored.
func Lookup(path string) (Route, bool) {
	path = normalizePath(path)
	for _, r := range routes {
		if r.Path == path {
			return r, true
		}
	}
	return Route{}, false
}

// DefaultRoute is the landing dashboard for role. Anything else lands on login.
func DefaultRoute(role staff.Role) string {
	switch role {
	case staff.RoleDirector:
		return PathDirector
	case staff.RoleSecretary:
		return PathSecretary
	case staff.RoleNurse:
		return PathNurse
	case staff.RoleUnknown:
		return PathLogin
	}
	return PathLogin
}

// Menu lists the module routes role can open, in table order. Dashboards other than the
// role's own are left out.
func Menu(role staff.Role) []Route {
	var out []Route
	for _, r := range routes {
		if !r.RequiresAuth || r.Path == PathRoot {
			continue
		}
		if isDashboard(r.Path) && r.Path != DefaultRoute(role) {
			continue
		}
		if r.Allows(role) {
			out = append(out, r)
		}
	}
	return out
}

func isDashboard(path string) bool {
	return path == PathDirector || path == PathSecretary || path == PathNurse
}

func normalizePath(path string) string {
	if path == "" {
		return PathRoot
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
		if path == "" {
			return PathRoot
		}
	}
	return path
}
