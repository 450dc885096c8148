package server

import "net/http"

func (s *Server) initRoutes() {
	views := map[string]http.HandlerFunc{
		RouteLogin:        s.LoginPageHandler(),
		RouteDirector:     s.DirectorDashboardHandler(),
		RouteSecretary:    s.SecretaryDashboardHandler(),
		RouteNurse:        s.NurseDashboardHandler(),
		RoutePatients:     s.PatientsHandler(),
		RoutePrestations:  s.PrestationsHandler(),
		RouteAppointments: s.AppointmentsHandler(),
		RouteSchools:      s.SchoolsHandler(),
		RouteInvoices:     s.InvoicesHandler(),
		RouteStatistics:   s.StatisticsHandler(),
	}

	// Everything else, including "/" and unknown paths, goes through the guard too.
	s.RegisterRouteHandler("GET "+RouteRoot, ChainMiddleware(s.NavigationHandler(views), s.ViewMiddleware(s.RequireNavigation())...))

	// SESSION
	s.RegisterRouteHandler("POST "+RouteLogin, ChainMiddleware(s.LoginSubmissionHandler(), s.ViewMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteLogout, ChainMiddleware(s.LogoutHandler(), s.ViewMiddleware()...))
	s.RegisterRouteHandler("GET "+RouteSession, ChainMiddleware(s.SessionHandler(), s.ViewMiddleware()...))

	// VIEWS
	for _, path := range []string{
		RouteLogin, RouteDirector, RouteSecretary, RouteNurse, RoutePatients,
		RoutePrestations, RouteAppointments, RouteSchools, RouteInvoices, RouteStatistics,
	} {
		s.RegisterRouteHandler("GET "+path, ChainMiddleware(views[path], s.ViewMiddleware(s.RequireNavigation())...))
	}

	// ACTIONS
	s.RegisterRouteHandler("POST "+RouteAppointmentComplete, ChainMiddleware(s.CompleteAppointmentHandler(), s.ViewMiddleware(s.RequireViewAccess(RouteAppointments))...))
	s.RegisterRouteHandler("POST "+RouteServicesInvoice, ChainMiddleware(s.InvoiceServicesHandler(), s.ViewMiddleware(s.RequireViewAccess(RoutePrestations))...))
	s.RegisterRouteHandler("POST "+RouteInvoiceStatus, ChainMiddleware(s.InvoiceStatusHandler(), s.ViewMiddleware(s.RequireViewAccess(RouteInvoices))...))

	// OPERATIONS
	s.RegisterRouteFunc("GET "+RouteHealth, s.HealthHandler())
	if s.metrics != nil {
		s.RegisterRouteHandler("GET "+RouteMetrics, s.metrics)
	}
}
