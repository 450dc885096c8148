package clinic

import (
	"fmt"

	"github.com/jrsteele09/go-clinic-console/internal/utils"
	"github.com/shopspring/decimal"
)

// AppointmentKey identifies an appointment for the /rdv endpoints.
type AppointmentKey struct {
	EmployeeID   int `json:"idEmploye"`
	PrestationID int `json:"idPrestation"`
	PatientID    int `json:"idPatient"`
	TraineeID    int `json:"idStagiaire"`
}

// Path is the key as the /rdv/{employee}/{prestation}/{patient}/{trainee} suffix.
func (k AppointmentKey) Path() string {
	return fmt.Sprintf("%d/%d/%d/%d", k.EmployeeID, k.PrestationID, k.PatientID, k.TraineeID)
}

// Appointment (RDV) links a staff member, a prestation, a patient and a trainee.
// Performed, Invoiced and ExportedToPGI are set as it moves through billing.
type Appointment struct {
	ID *int `json:"idRdv,omitempty"`
	AppointmentKey
	Scheduled      Timestamp  `json:"timestamp_RDV_prevu"`
	Performed      *Timestamp `json:"timestamp_RDV_reel,omitempty"`
	Invoiced       *Timestamp `json:"timestamp_RDV_facture,omitempty"`
	ExportedToPGI  *Timestamp `json:"timestamp_RDV_integrePGI,omitempty"`
	TraineeGrade   *float64   `json:"noteStagiaire,omitempty"`
	TraineeComment *string    `json:"commentaireStagiaire,omitempty"`

	Employee   *StaffRef   `json:"employe,omitempty"`
	Prestation *Prestation `json:"prestation,omitempty"`
	Patient    *Patient    `json:"patient,omitempty"`
	Trainee    *Trainee    `json:"stagiaire,omitempty"`
}

func (a Appointment) Completed() bool     { return Set(a.Performed) }
func (a Appointment) IsInvoiced() bool    { return Set(a.Invoiced) }
func (a Appointment) IsExported() bool    { return Set(a.ExportedToPGI) }
func (a Appointment) AwaitsInvoice() bool { return a.Completed() && !a.IsInvoiced() }

// Price is the prestation price, zero when the prestation is not embedded.
func (a Appointment) Price() decimal.Decimal {
	if a.Prestation == nil {
		return decimal.Zero
	}
	return a.Prestation.Price
}

// HasID reports whether the record carries id.
func (a Appointment) HasID(id int) bool {
	return a.ID != nil && *a.ID == id
}

func (a Appointment) Matches(term string) bool {
	var values []string
	if a.Patient != nil {
		values = append(values, a.Patient.FamilyName, a.Patient.GivenName)
	}
	if a.Employee != nil {
		values = append(values, a.Employee.FamilyName, a.Employee.GivenName)
	}
	if a.Prestation != nil {
		values = append(values, a.Prestation.Name)
	}
	return utils.AnyContainsFold(term, values...)
}

// AppointmentForm is the body of POST and PUT /rdv.
type AppointmentForm struct {
	AppointmentKey
	Scheduled      Timestamp  `json:"timestamp_RDV_prevu"`
	Performed      *Timestamp `json:"timestamp_RDV_reel,omitempty"`
	Invoiced       *Timestamp `json:"timestamp_RDV_facture,omitempty"`
	ExportedToPGI  *Timestamp `json:"timestamp_RDV_integrePGI,omitempty"`
	TraineeGrade   *float64   `json:"noteStagiaire,omitempty"`
	TraineeComment *string    `json:"commentaireStagiaire,omitempty"`
}

// Calendar colours.
const (
	CalendarColourCompleted = "#67C23A"
	CalendarColourPlanned   = "#409EFF"
)

// CalendarEvent is an appointment laid out for a calendar widget.
type CalendarEvent struct {
	ID         string      `json:"id"`
	Title      string      `json:"title"`
	Start      Timestamp   `json:"start"`
	End        Timestamp   `json:"end"`
	Background string      `json:"backgroundColor"`
	Completed  bool        `json:"completed"`
	Details    Appointment `json:"extendedProps"`
}

func (a Appointment) CalendarEvent() CalendarEvent {
	patient, prestation := "", ""
	if a.Patient != nil {
		patient = a.Patient.FullName()
	}
	if a.Prestation != nil {
		prestation = a.Prestation.Name
	}
	ev := CalendarEvent{
		ID:         fmt.Sprintf("%d-%d-%d-%d", a.EmployeeID, a.PrestationID, a.PatientID, a.TraineeID),
		Title:      patient + " - " + prestation,
		Start:      a.Scheduled,
		End:        a.Scheduled,
		Background: CalendarColourPlanned,
		Completed:  a.Completed(),
		Details:    a,
	}
	if ev.Completed {
		ev.End = *a.Performed
		ev.Background = CalendarColourCompleted
	}
	return ev
}
