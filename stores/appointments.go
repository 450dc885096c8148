package stores

import (
	"context"
	"time"

	"github.com/jrsteele09/go-clinic-console/clinic"
)

const appointmentsPath = "/rdv"

// Appointments is addressed by the four-part appointment key.
type Appointments struct {
	*Collection[clinic.Appointment]
	nowTime func() time.Time
}

func NewAppointments(api API, opts ...Option) *Appointments {
	o := buildOptions(opts)
	return &Appointments{Collection: newCollection[clinic.Appointment]("rdv", api), nowTime: o.nowTime}
}

func hasKey(key clinic.AppointmentKey) func(clinic.Appointment) bool {
	return func(a clinic.Appointment) bool { return a.AppointmentKey == key }
}

func (a *Appointments) FetchAll(ctx context.Context) (err error) {
	defer a.track("")(&err)

	var list []clinic.Appointment
	if err := a.api.Get(ctx, appointmentsPath, nil, &list); err != nil {
		return err
	}
	a.setItems(list)
	return nil
}

func (a *Appointments) FetchOne(ctx context.Context, key clinic.AppointmentKey) (appt clinic.Appointment, err error) {
	defer a.track("")(&err)

	if err := a.api.Get(ctx, appointmentsPath+"/"+key.Path(), nil, &appt); err != nil {
		return appt, err
	}
	a.setCurrent(appt)
	return appt, nil
}

func (a *Appointments) Create(ctx context.Context, form clinic.AppointmentForm) (appt clinic.Appointment, err error) {
	defer a.track("")(&err)

	if err := a.api.Post(ctx, appointmentsPath, form, &appt); err != nil {
		return appt, err
	}
	a.appendItem(appt)
	return appt, nil
}

// Update replaces the appointment identified by the key carried in form.
func (a *Appointments) Update(ctx context.Context, form clinic.AppointmentForm) (appt clinic.Appointment, err error) {
	defer a.track("")(&err)

	if err := a.api.Put(ctx, appointmentsPath, form, &appt); err != nil {
		return appt, err
	}
	a.replaceWhere(hasKey(form.AppointmentKey), appt)
	return appt, nil
}

func (a *Appointments) Delete(ctx context.Context, key clinic.AppointmentKey) (err error) {
	defer a.track("")(&err)

	if err := a.api.Delete(ctx, appointmentsPath+"/"+key.Path()); err != nil {
		return err
	}
	a.removeWhere(hasKey(key))
	return nil
}

// MarkCompleted records the appointment as performed now, with the trainee's grade and
// comment when given. The scheduled time is kept when the appointment is listed.
func (a *Appointments) MarkCompleted(ctx context.Context, key clinic.AppointmentKey, grade *float64, comment *string) (clinic.Appointment, error) {
	now := a.nowTime()
	scheduled := clinic.NewTimestamp(now)
	if listed := a.Filter(hasKey(key)); len(listed) > 0 && !listed[0].Scheduled.IsZero() {
		scheduled = listed[0].Scheduled
	}
	return a.Update(ctx, clinic.AppointmentForm{
		AppointmentKey: key,
		Scheduled:      scheduled,
		Performed:      clinic.TimestampPtr(now),
		TraineeGrade:   grade,
		TraineeComment: comment,
	})
}

// Today lists the appointments scheduled on now's calendar day.
func (a *Appointments) Today(now time.Time) []clinic.Appointment {
	return a.Filter(func(appt clinic.Appointment) bool {
		return !appt.Scheduled.IsZero() && clinic.SameDay(appt.Scheduled.Time, now, now.Location())
	})
}

func (a *Appointments) ByEmployee(employeeID int) []clinic.Appointment {
	return a.Filter(func(appt clinic.Appointment) bool { return appt.EmployeeID == employeeID })
}

func (a *Appointments) ByPatient(patientID int) []clinic.Appointment {
	return a.Filter(func(appt clinic.Appointment) bool { return appt.PatientID == patientID })
}

func (a *Appointments) NotCompleted() []clinic.Appointment {
	return a.Filter(func(appt clinic.Appointment) bool { return !appt.Completed() })
}

func (a *Appointments) CalendarEvents() []clinic.CalendarEvent {
	items := a.Items()
	events := make([]clinic.CalendarEvent, 0, len(items))
	for _, appt := range items {
		events = append(events, appt.CalendarEvent())
	}
	return events
}

func (a *Appointments) Search(term string) []clinic.Appointment {
	return search(a.Collection, term)
}
