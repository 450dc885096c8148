package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"sync"

	"github.com/jrsteele09/go-clinic-console/auth"
	"github.com/jrsteele09/go-clinic-console/clinic"
	"github.com/jrsteele09/go-clinic-console/router"
	"github.com/jrsteele09/go-clinic-console/stores"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

const searchQueryParam = "q"

type MenuItem struct {
	Path  string `json:"path"`
	Title string `json:"title"`
}

// SessionView is the session as shown in the console header.
type SessionView struct {
	auth.Session
	FullName string     `json:"fullName,omitempty"`
	Role     string     `json:"role,omitempty"`
	Home     string     `json:"home"`
	Menu     []MenuItem `json:"menu"`
}

// View is the document every guarded page responds with. Errors holds, per data
// source, the message of a load that failed; the other sources are still rendered.
type View struct {
	Title   string            `json:"title"`
	Path    string            `json:"path"`
	Session SessionView       `json:"session"`
	Query   string            `json:"query,omitempty"`
	Data    any               `json:"data"`
	Errors  map[string]string `json:"errors,omitempty"`
}

func (s *Server) sessionView() SessionView {
	snap := s.state.Snapshot()
	role := s.state.Role()
	view := SessionView{Session: snap, Home: router.DefaultRoute(role), Menu: []MenuItem{}}
	if !snap.IsAuthenticated {
		return view
	}
	view.FullName = s.state.FullName()
	view.Role = role.String()
	for _, r := range router.Menu(role) {
		view.Menu = append(view.Menu, MenuItem{Path: r.Path, Title: r.Title})
	}
	return view
}

// source is one remote load feeding a view.
type source struct {
	name string
	load func(context.Context) error
}

// loadAll runs the loads concurrently and collects the failures by source name.
func loadAll(ctx context.Context, sources ...source) map[string]string {
	var (
		g      errgroup.Group
		mu     sync.Mutex
		failed map[string]string
	)
	for _, src := range sources {
		g.Go(func() error {
			if err := src.load(ctx); err != nil {
				mu.Lock()
				defer mu.Unlock()
				if failed == nil {
					failed = make(map[string]string)
				}
				failed[src.name] = stores.ErrorMessage(err)
			}
			return nil
		})
	}
	_ = g.Wait()
	return failed
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, data any, errs map[string]string) {
	view := View{
		Path:    r.URL.Path,
		Session: s.sessionView(),
		Query:   r.URL.Query().Get(searchQueryParam),
		Data:    data,
		Errors:  errs,
	}
	if d, ok := decisionFromContext(r.Context()); ok {
		view.Title = d.Route.Title
		view.Path = d.Route.Path
	}
	writeJSON(w, http.StatusOK, view)
}

// rawSource loads an aggregation endpoint into dst.
func rawSource(name string, dst *json.RawMessage, fetch func(context.Context) (json.RawMessage, error)) source {
	return source{name: name, load: func(ctx context.Context) error {
		data, err := fetch(ctx)
		*dst = data
		return err
	}}
}

func (s *Server) DirectorDashboardHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st := s.stores
		var stats json.RawMessage
		errs := loadAll(r.Context(),
			rawSource("stats", &stats, st.Stats.Dashboard),
			source{"rdv", st.Appointments.FetchAll},
		)
		s.render(w, r, map[string]any{
			"stats":             stats,
			"appointmentsToday": st.Appointments.Today(s.nowTime()),
		}, errs)
	}
}

func (s *Server) SecretaryDashboardHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st := s.stores.Secretariat
		today := s.nowTime().Format("2006-01-02")
		var dashboard, agenda, late, reminders json.RawMessage
		errs := loadAll(r.Context(),
			rawSource("dashboard", &dashboard, st.Dashboard),
			rawSource("agenda", &agenda, func(ctx context.Context) (json.RawMessage, error) { return st.DayAgenda(ctx, today) }),
			rawSource("lateInvoices", &late, st.LateInvoices),
			rawSource("reminders", &reminders, st.RemindersForTomorrow),
		)
		s.render(w, r, map[string]any{
			"dashboard":    dashboard,
			"agenda":       agenda,
			"lateInvoices": late,
			"reminders":    reminders,
		}, errs)
	}
}

func (s *Server) NurseDashboardHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		appts := s.stores.Appointments
		errs := loadAll(r.Context(), source{"rdv", appts.FetchAll})

		user, _ := s.state.User()
		mine := func(a clinic.Appointment) bool { return a.EmployeeID == user.ID }
		var today, pending []clinic.Appointment
		for _, a := range appts.Today(s.nowTime()) {
			if mine(a) {
				today = append(today, a)
			}
		}
		for _, a := range appts.NotCompleted() {
			if mine(a) {
				pending = append(pending, a)
			}
		}
		s.render(w, r, map[string]any{
			"today":   today,
			"pending": pending,
		}, errs)
	}
}

func (s *Server) PatientsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p := s.stores.Patients
		errs := loadAll(r.Context(), source{"patients", p.FetchAll})
		s.render(w, r, map[string]any{
			"patients": p.Search(r.URL.Query().Get(searchQueryParam)),
			"total":    p.Total(),
		}, errs)
	}
}

type completedSummary struct {
	ToInvoice       []clinic.Appointment `json:"toInvoice"`
	AmountToInvoice decimal.Decimal      `json:"amountToInvoice"`
	AmountInvoiced  decimal.Decimal      `json:"amountInvoiced"`
	ExportedToPGI   int                  `json:"exportedToPGI"`
}

func (s *Server) PrestationsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st := s.stores
		q := r.URL.Query().Get(searchQueryParam)
		errs := loadAll(r.Context(),
			source{"prestations", st.Prestations.FetchAll},
			source{"categories", st.Categories.FetchAll},
			source{"completed", st.CompletedServices.FetchAll},
		)

		prestations := st.Prestations.Search(q)
		if raw := r.URL.Query().Get("categorie"); raw != "" {
			if id, err := strconv.Atoi(raw); err == nil {
				prestations = st.Prestations.ByCategory(id)
			}
		}
		s.render(w, r, map[string]any{
			"prestations": prestations,
			"categories":  st.Categories.Items(),
			"completed": completedSummary{
				ToInvoice:       st.CompletedServices.ToInvoice(),
				AmountToInvoice: st.CompletedServices.AmountToInvoice(),
				AmountInvoiced:  st.CompletedServices.AmountInvoiced(),
				ExportedToPGI:   len(st.CompletedServices.ExportedToPGI()),
			},
		}, errs)
	}
}

func (s *Server) AppointmentsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		appts := s.stores.Appointments
		errs := loadAll(r.Context(), source{"rdv", appts.FetchAll})
		s.render(w, r, map[string]any{
			"appointments": appts.Search(r.URL.Query().Get(searchQueryParam)),
			"notCompleted": len(appts.NotCompleted()),
			"calendar":     appts.CalendarEvents(),
		}, errs)
	}
}

func (s *Server) SchoolsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st := s.stores
		q := r.URL.Query().Get(searchQueryParam)
		errs := loadAll(r.Context(),
			source{"ecoles", func(ctx context.Context) error { return st.Schools.FetchAll(ctx, true) }},
			source{"stagiaires", st.Trainees.FetchAll},
		)
		s.render(w, r, map[string]any{
			"schools":  st.Schools.Search(q),
			"trainees": st.Trainees.Search(q),
		}, errs)
	}
}

type invoiceTotals struct {
	Paid   decimal.Decimal `json:"paid"`
	Unpaid decimal.Decimal `json:"unpaid"`
}

func (s *Server) InvoicesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		inv := s.stores.Invoices
		errs := loadAll(r.Context(), source{"factures", inv.FetchAll})

		list := inv.Search(r.URL.Query().Get(searchQueryParam))
		if status := r.URL.Query().Get("statut"); status != "" {
			list = inv.ByStatus(clinic.InvoiceStatus(status))
		}
		s.render(w, r, map[string]any{
			"invoices": list,
			"totals":   invoiceTotals{Paid: inv.TotalPaid(), Unpaid: inv.TotalUnpaid()},
			"overdue":  inv.Overdue(s.nowTime()),
		}, errs)
	}
}

func (s *Server) StatisticsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st := s.stores.Stats
		year, _ := strconv.Atoi(r.URL.Query().Get("annee"))
		var financial, monthly, appointments, patients, popular, performance json.RawMessage
		errs := loadAll(r.Context(),
			rawSource("financial", &financial, st.FinancialOverview),
			rawSource("monthlyRevenue", &monthly, func(ctx context.Context) (json.RawMessage, error) { return st.MonthlyRevenue(ctx, year) }),
			rawSource("appointments", &appointments, st.AppointmentsOverview),
			rawSource("patients", &patients, st.PatientsOverview),
			rawSource("popularPrestations", &popular, func(ctx context.Context) (json.RawMessage, error) { return st.PopularPrestations(ctx, 0) }),
			rawSource("employeePerformance", &performance, st.EmployeePerformance),
		)
		s.render(w, r, map[string]any{
			"financial":           financial,
			"monthlyRevenue":      monthly,
			"appointments":        appointments,
			"patients":            patients,
			"popularPrestations":  popular,
			"employeePerformance": performance,
		}, errs)
	}
}

// NavigationHandler serves guarded paths without a view of their own, such as a
// trailing slash variant. Allowed navigations are dispatched to the route's view.
func (s *Server) NavigationHandler(views map[string]http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d, _ := decisionFromContext(r.Context())
		if view, ok := views[d.Route.Path]; ok {
			view(w, r)
			return
		}
		redirectTo(w, r, RouteRoot)
	}
}

func (s *Server) HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"status":        "ok",
			"authenticated": s.state.IsAuthenticated(),
		})
	}
}
