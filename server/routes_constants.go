package server

import "github.com/jrsteele09/go-clinic-console/router"

// Route path constants
// All console routes are defined here to ensure consistency and prevent typos
const (
	// Session
	RouteLogin   = router.PathLogin
	RouteLogout  = "/logout"
	RouteSession = "/session"

	// Views, guarded
	RouteRoot         = router.PathRoot
	RouteDirector     = router.PathDirector
	RouteSecretary    = router.PathSecretary
	RouteNurse        = router.PathNurse
	RoutePatients     = router.PathPatients
	RoutePrestations  = router.PathPrestations
	RouteAppointments = router.PathAppointments
	RouteSchools      = router.PathSchools
	RouteInvoices     = router.PathInvoices
	RouteStatistics   = router.PathStatistics

	// Actions, guarded by the view they belong to
	RouteAppointmentComplete = "/rdv/{employee}/{prestation}/{patient}/{trainee}/realise"
	RouteServicesInvoice     = "/prestations/facturer"
	RouteInvoiceStatus       = "/factures/{id}/statut"

	// Operations
	RouteMetrics = "/metrics"
	RouteHealth  = "/healthz"
)
