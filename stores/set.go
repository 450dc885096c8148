package stores

// Set is every store the console uses, built over one API client.
type Set struct {
	Patients          *Patients
	Categories        *Categories
	Prestations       *Prestations
	Schools           *Schools
	Trainees          *Trainees
	Employees         *Employees
	Appointments      *Appointments
	CompletedServices *CompletedServices
	Invoices          *Invoices
	Stats             *Stats
	Secretariat       *Secretariat
}

func NewSet(api API, opts ...Option) *Set {
	return &Set{
		Patients:          NewPatients(api),
		Categories:        NewCategories(api),
		Prestations:       NewPrestations(api),
		Schools:           NewSchools(api),
		Trainees:          NewTrainees(api),
		Employees:         NewEmployees(api),
		Appointments:      NewAppointments(api, opts...),
		CompletedServices: NewCompletedServices(api, opts...),
		Invoices:          NewInvoices(api, opts...),
		Stats:             NewStats(api),
		Secretariat:       NewSecretariat(api),
	}
}

// Reset empties every list-backed store, typically on logout.
func (s *Set) Reset() {
	s.Patients.Reset()
	s.Categories.Reset()
	s.Prestations.Reset()
	s.Schools.Reset()
	s.Trainees.Reset()
	s.Employees.Reset()
	s.Appointments.Reset()
	s.CompletedServices.Reset()
	s.Invoices.Reset()
}
