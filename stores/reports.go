package stores

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/jrsteele09/go-clinic-console/clinic"
)

// reports fetches aggregation endpoints whose payloads the console passes through
// untouched.
type reports struct {
	statusTracker
	api      API
	prefix   string
	fallback string
}

func (r *reports) get(ctx context.Context, endpoint string, query url.Values) (data json.RawMessage, err error) {
	defer r.track(r.fallback)(&err)

	if err := r.api.Get(ctx, r.prefix+endpoint, query, &data); err != nil {
		return nil, err
	}
	return data, nil
}

// params builds a query from key/value pairs, skipping empty values.
func params(kv ...string) url.Values {
	q := url.Values{}
	for i := 0; i+1 < len(kv); i += 2 {
		if kv[i+1] != "" {
			q.Set(kv[i], kv[i+1])
		}
	}
	return q
}

func optionalInt(v int) string {
	if v == 0 {
		return ""
	}
	return strconv.Itoa(v)
}

// Stats reads the /stats endpoints. A zero year or limit is left to the server default.
type Stats struct {
	reports
}

func NewStats(api API) *Stats {
	return &Stats{reports{
		statusTracker: statusTracker{name: "stats"},
		api:           api,
		prefix:        "/stats/",
		fallback:      "Erreur lors de la récupération des statistiques",
	}}
}

func (s *Stats) Dashboard(ctx context.Context) (json.RawMessage, error) {
	return s.get(ctx, "dashboard", nil)
}

func (s *Stats) FinancialOverview(ctx context.Context) (json.RawMessage, error) {
	return s.get(ctx, "financier/global", nil)
}

func (s *Stats) MonthlyRevenue(ctx context.Context, year int) (json.RawMessage, error) {
	return s.get(ctx, "financier/mensuel", params("annee", optionalInt(year)))
}

func (s *Stats) RevenueByEmployee(ctx context.Context) (json.RawMessage, error) {
	return s.get(ctx, "financier/par-employe", nil)
}

func (s *Stats) AppointmentsOverview(ctx context.Context) (json.RawMessage, error) {
	return s.get(ctx, "rdv/global", nil)
}

func (s *Stats) AppointmentsPerDay(ctx context.Context, from, to string) (json.RawMessage, error) {
	return s.get(ctx, "rdv/par-jour", params("debut", from, "fin", to))
}

func (s *Stats) AppointmentsPerMonth(ctx context.Context, year int) (json.RawMessage, error) {
	return s.get(ctx, "rdv/par-mois", params("annee", optionalInt(year)))
}

// AppointmentsByEmployee sends the period only when both bounds are set.
func (s *Stats) AppointmentsByEmployee(ctx context.Context, from, to string) (json.RawMessage, error) {
	var q url.Values
	if from != "" && to != "" {
		q = params("debut", from, "fin", to)
	}
	return s.get(ctx, "rdv/par-employe", q)
}

func (s *Stats) EmployeeAppointmentsPerDay(ctx context.Context, employeeID int, from, to string) (json.RawMessage, error) {
	return s.get(ctx, fmt.Sprintf("rdv/employe/%d/par-jour", employeeID), params("debut", from, "fin", to))
}

func (s *Stats) PatientsOverview(ctx context.Context) (json.RawMessage, error) {
	return s.get(ctx, "patients/global", nil)
}

func (s *Stats) NewPatientsPerMonth(ctx context.Context, year int) (json.RawMessage, error) {
	return s.get(ctx, "patients/nouveaux", params("annee", optionalInt(year)))
}

func (s *Stats) TopPatients(ctx context.Context, limit int) (json.RawMessage, error) {
	return s.get(ctx, "patients/top", params("limit", strconv.Itoa(defaultLimit(limit))))
}

func (s *Stats) PopularPrestations(ctx context.Context, limit int) (json.RawMessage, error) {
	return s.get(ctx, "prestations/populaires", params("limit", strconv.Itoa(defaultLimit(limit))))
}

func (s *Stats) EmployeePerformance(ctx context.Context) (json.RawMessage, error) {
	return s.get(ctx, "employes/performance", nil)
}

func (s *Stats) EmployeeDetail(ctx context.Context, employeeID int) (json.RawMessage, error) {
	return s.get(ctx, fmt.Sprintf("employes/%d/detaille", employeeID), nil)
}

func defaultLimit(limit int) int {
	if limit <= 0 {
		return 10
	}
	return limit
}

// Secretariat reads the /secretariat endpoints. Dates are YYYY-MM-DD; empty means today
// on the server side.
type Secretariat struct {
	reports
}

func NewSecretariat(api API) *Secretariat {
	return &Secretariat{reports{
		statusTracker: statusTracker{name: "secretariat"},
		api:           api,
		prefix:        "/secretariat/",
		fallback:      "Erreur lors de la récupération des données",
	}}
}

func (s *Secretariat) Dashboard(ctx context.Context) (json.RawMessage, error) {
	return s.get(ctx, "dashboard", nil)
}

func (s *Secretariat) DayAgenda(ctx context.Context, date string) (json.RawMessage, error) {
	return s.get(ctx, "agenda/jour", params("date", date))
}

func (s *Secretariat) WeekAgenda(ctx context.Context, date string) (json.RawMessage, error) {
	return s.get(ctx, "agenda/semaine", params("date", date))
}

func (s *Secretariat) EmployeeDayAgenda(ctx context.Context, employeeID int, date string) (json.RawMessage, error) {
	return s.get(ctx, fmt.Sprintf("agenda/employe/%d", employeeID), params("date", date))
}

// Availability lists free slots on date, for one employee when employeeID is non-zero.
func (s *Secretariat) Availability(ctx context.Context, date string, employeeID int) (json.RawMessage, error) {
	return s.get(ctx, "agenda/disponibilites", params("date", date, "idEmploye", optionalInt(employeeID)))
}

func (s *Secretariat) RemindersForTomorrow(ctx context.Context) (json.RawMessage, error) {
	return s.get(ctx, "rappels/demain", nil)
}

func (s *Secretariat) PendingInvoices(ctx context.Context) (json.RawMessage, error) {
	return s.get(ctx, "factures/en-attente", nil)
}

func (s *Secretariat) LateInvoices(ctx context.Context) (json.RawMessage, error) {
	return s.get(ctx, "factures/en-retard", nil)
}

func (s *Secretariat) PatientHistory(ctx context.Context, patientID int) (json.RawMessage, error) {
	return s.get(ctx, fmt.Sprintf("patient/%d/historique", patientID), nil)
}

func (s *Secretariat) PatientUnpaidInvoices(ctx context.Context, patientID int) (json.RawMessage, error) {
	return s.get(ctx, fmt.Sprintf("patient/%d/factures-impayees", patientID), nil)
}

// RecordPayment posts a payment against an invoice.
func (s *Secretariat) RecordPayment(ctx context.Context, invoiceID int, payment clinic.Payment) (data json.RawMessage, err error) {
	defer s.track("Erreur lors de l'enregistrement")(&err)

	if err := s.api.Post(ctx, fmt.Sprintf("%spaiement/%d", s.prefix, invoiceID), payment, &data); err != nil {
		return nil, err
	}
	return data, nil
}
