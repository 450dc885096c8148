package stores

import (
	"context"
	"fmt"
	"time"

	"github.com/jrsteele09/go-clinic-console/clinic"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

const (
	completedPath        = "/rdv/prestations"
	completedRealised    = completedPath + "/realisees"
	completedToInvoice   = completedPath + "/a-facturer"
	completedInvoiced    = completedPath + "/facturees"
	maxParallelInvoicing = 4
)

// CompletedServices tracks performed appointments through invoicing and the export to
// the accounting system (PGI).
type CompletedServices struct {
	*Collection[clinic.Appointment]
	nowTime func() time.Time
}

func NewCompletedServices(api API, opts ...Option) *CompletedServices {
	o := buildOptions(opts)
	return &CompletedServices{Collection: newCollection[clinic.Appointment]("rdv-realises", api), nowTime: o.nowTime}
}

func (c *CompletedServices) load(ctx context.Context, path string) (err error) {
	defer c.track("")(&err)

	var list []clinic.Appointment
	if err := c.api.Get(ctx, path, nil, &list); err != nil {
		return err
	}
	c.setItems(list)
	return nil
}

// FetchAll lists every performed appointment.
func (c *CompletedServices) FetchAll(ctx context.Context) error {
	return c.load(ctx, completedRealised)
}

func (c *CompletedServices) FetchToInvoice(ctx context.Context) error {
	return c.load(ctx, completedToInvoice)
}

func (c *CompletedServices) FetchInvoiced(ctx context.Context) error {
	return c.load(ctx, completedInvoiced)
}

func (c *CompletedServices) FetchOne(ctx context.Context, appointmentID int) (appt clinic.Appointment, err error) {
	defer c.track("")(&err)

	if err := c.api.Get(ctx, fmt.Sprintf("%s/%d", completedPath, appointmentID), nil, &appt); err != nil {
		return appt, err
	}
	c.setCurrent(appt)
	return appt, nil
}

func (c *CompletedServices) MarkInvoiced(ctx context.Context, appointmentID int) (err error) {
	defer c.track("")(&err)

	if err := c.putMark(ctx, appointmentID, "facturer"); err != nil {
		return err
	}
	c.stamp(appointmentID, func(a *clinic.Appointment, ts *clinic.Timestamp) { a.Invoiced = ts })
	return nil
}

func (c *CompletedServices) MarkExportedToPGI(ctx context.Context, appointmentID int) (err error) {
	defer c.track("")(&err)

	if err := c.putMark(ctx, appointmentID, "integrer-pgi"); err != nil {
		return err
	}
	c.stamp(appointmentID, func(a *clinic.Appointment, ts *clinic.Timestamp) { a.ExportedToPGI = ts })
	return nil
}

// MarkManyInvoiced invoices the appointments in parallel. The local list is only
// updated when every request succeeded.
func (c *CompletedServices) MarkManyInvoiced(ctx context.Context, appointmentIDs []int) (err error) {
	defer c.track("")(&err)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelInvoicing)
	for _, id := range appointmentIDs {
		g.Go(func() error {
			return c.putMark(gctx, id, "facturer")
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for _, id := range appointmentIDs {
		c.stamp(id, func(a *clinic.Appointment, ts *clinic.Timestamp) { a.Invoiced = ts })
	}
	return nil
}

func (c *CompletedServices) putMark(ctx context.Context, appointmentID int, action string) error {
	return c.api.Put(ctx, fmt.Sprintf("%s/%d/%s", completedPath, appointmentID, action), nil, nil)
}

func (c *CompletedServices) stamp(appointmentID int, set func(*clinic.Appointment, *clinic.Timestamp)) {
	now := c.nowTime()
	c.modify(
		func(a clinic.Appointment) bool { return a.HasID(appointmentID) },
		func(a *clinic.Appointment) { set(a, clinic.TimestampPtr(now)) },
	)
}

// ToInvoice lists performed appointments not yet invoiced.
func (c *CompletedServices) ToInvoice() []clinic.Appointment {
	return c.Filter(clinic.Appointment.AwaitsInvoice)
}

func (c *CompletedServices) Invoiced() []clinic.Appointment {
	return c.Filter(clinic.Appointment.IsInvoiced)
}

func (c *CompletedServices) ExportedToPGI() []clinic.Appointment {
	return c.Filter(clinic.Appointment.IsExported)
}

func (c *CompletedServices) AmountToInvoice() decimal.Decimal {
	return sumPrices(c.ToInvoice())
}

func (c *CompletedServices) AmountInvoiced() decimal.Decimal {
	return sumPrices(c.Invoiced())
}

// Search matches patient names, employee names and the prestation name.
func (c *CompletedServices) Search(term string) []clinic.Appointment {
	return search(c.Collection, term)
}

func sumPrices(list []clinic.Appointment) decimal.Decimal {
	total := decimal.Zero
	for _, a := range list {
		total = total.Add(a.Price())
	}
	return total
}
