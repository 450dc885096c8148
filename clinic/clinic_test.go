package clinic_test

import (
	"encoding/json"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/jrsteele09/go-clinic-console/clinic"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestTimestamp_Unmarshal(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{`"2026-03-02T09:15:00.000Z"`, time.Date(2026, 3, 2, 9, 15, 0, 0, time.UTC)},
		{`"2026-03-02T09:15:00"`, time.Date(2026, 3, 2, 9, 15, 0, 0, time.Local)},
		{`"2026-03-02 09:15:00"`, time.Date(2026, 3, 2, 9, 15, 0, 0, time.Local)},
		{`"2026-03-02"`, time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var ts clinic.Timestamp
			require.NoError(t, json.Unmarshal([]byte(tt.in), &ts))
			require.True(t, tt.want.Equal(ts.Time))
		})
	}

	t.Run("null and empty", func(t *testing.T) {
		var ts clinic.Timestamp
		require.NoError(t, json.Unmarshal([]byte(`null`), &ts))
		require.True(t, ts.IsZero())
		require.NoError(t, json.Unmarshal([]byte(`""`), &ts))
		require.True(t, ts.IsZero())
	})

	t.Run("garbage", func(t *testing.T) {
		var ts clinic.Timestamp
		require.Error(t, json.Unmarshal([]byte(`"yesterday"`), &ts))
	})
}

func TestParseTimestampIn_WallClock(t *testing.T) {
	paris, err := time.LoadLocation("Europe/Paris")
	require.NoError(t, err)

	tests := []struct {
		in   string
		want time.Time
	}{
		{"2026-10-15T23:30:00", time.Date(2026, 10, 15, 23, 30, 0, 0, paris)},
		{"2026-10-15 23:30:00", time.Date(2026, 10, 15, 23, 30, 0, 0, paris)},
		{"2026-10-15T21:30:00Z", time.Date(2026, 10, 15, 21, 30, 0, 0, time.UTC)},
		{"2026-10-15", time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			ts, err := clinic.ParseTimestampIn(tt.in, paris)
			require.NoError(t, err)
			require.True(t, tt.want.Equal(ts.Time), "got %s", ts.Time)
		})
	}

	t.Run("evening appointment stays on its day", func(t *testing.T) {
		ts, err := clinic.ParseTimestampIn("2026-10-15T23:30:00", paris)
		require.NoError(t, err)
		now := time.Date(2026, 10, 15, 20, 0, 0, 0, paris)
		require.True(t, clinic.SameDay(ts.Time, now, paris))
	})

	t.Run("marshals with the local offset", func(t *testing.T) {
		ts, err := clinic.ParseTimestampIn("2026-10-15T23:30:00", paris)
		require.NoError(t, err)
		data, err := json.Marshal(ts)
		require.NoError(t, err)
		require.JSONEq(t, `"2026-10-15T23:30:00+02:00"`, string(data))
	})
}

func TestAppointment_Decode(t *testing.T) {
	raw := `{"idRdv":7,"idEmploye":1,"idPrestation":2,"idPatient":3,"idStagiaire":4,
		"timestamp_RDV_prevu":"2026-03-02T09:00:00Z","timestamp_RDV_reel":null,
		"prestation":{"idPrestation":2,"nomPrestation":"Soin visage","prix_TTC":"45.50","idCategorie":1},
		"patient":{"idPatient":3,"nomPatient":"Martin","prenomPatient":"Léa"}}`
	var a clinic.Appointment
	require.NoError(t, json.Unmarshal([]byte(raw), &a))
	require.True(t, a.HasID(7))
	require.Equal(t, "1/2/3/4", a.AppointmentKey.Path())
	require.False(t, a.Completed())
	require.True(t, decimal.RequireFromString("45.5").Equal(a.Price()))

	ev := a.CalendarEvent()
	require.Equal(t, "1-2-3-4", ev.ID)
	require.Equal(t, "Léa Martin - Soin visage", ev.Title)
	require.Equal(t, clinic.CalendarColourPlanned, ev.Background)

	done := clinic.TimestampPtr(time.Date(2026, 3, 2, 9, 40, 0, 0, time.UTC))
	a.Performed = done
	ev = a.CalendarEvent()
	require.True(t, ev.Completed)
	require.Equal(t, done.Time, ev.End.Time)
	require.Equal(t, clinic.CalendarColourCompleted, ev.Background)
}

func TestInvoice_Overdue(t *testing.T) {
	now := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)
	past := clinic.NewTimestamp(now.AddDate(0, 0, -1))
	future := clinic.NewTimestamp(now.AddDate(0, 0, 1))

	require.True(t, clinic.Invoice{Status: clinic.InvoiceSent, DueAt: past}.Overdue(now))
	require.True(t, clinic.Invoice{Status: clinic.InvoiceUnpaid, DueAt: past}.Overdue(now))
	require.False(t, clinic.Invoice{Status: clinic.InvoicePaid, DueAt: past}.Overdue(now))
	require.False(t, clinic.Invoice{Status: clinic.InvoiceSent, DueAt: future}.Overdue(now))
	require.False(t, clinic.Invoice{Status: clinic.InvoiceSent}.Overdue(now))
}

func TestStatusUpdate_Apply(t *testing.T) {
	now := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)
	paid := decimal.NewFromInt(80)
	method := clinic.PaymentCard
	inv := clinic.Invoice{ID: 3, Status: clinic.InvoiceSent, Number: "F-003"}

	clinic.StatusUpdate{Status: clinic.InvoicePaid, AmountPaid: &paid, PaymentMethod: &method}.Apply(&inv, now)
	require.Equal(t, clinic.InvoicePaid, inv.Status)
	require.True(t, paid.Equal(*inv.AmountPaid))
	require.Equal(t, clinic.PaymentCard, *inv.PaymentMethod)
	require.Equal(t, "F-003", inv.Number)
	require.Equal(t, now, inv.UpdatedAt.Time)
}

func TestSearchMatching(t *testing.T) {
	email := "Jean@Ecole.fr"
	tr := clinic.Trainee{FamilyName: "Durand", GivenName: "Jean", Email: &email, School: &clinic.School{Name: "Institut Beauté"}}
	require.True(t, tr.Matches("ecole"))
	require.True(t, tr.Matches("BEAUTÉ"))
	require.False(t, tr.Matches("zzz"))

	require.True(t, clinic.Prestation{Name: "Massage", Category: &clinic.Category{Name: "Bien-être"}}.Matches("bien"))
	require.True(t, clinic.Patient{FamilyName: "Martin", Email: "lea@x.fr"}.Matches("LEA@"))
}
