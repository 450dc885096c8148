package stores

import (
	"context"
	"fmt"
	"time"

	"github.com/jrsteele09/go-clinic-console/clinic"
	"github.com/shopspring/decimal"
)

const invoicesPath = "/factures"

type Invoices struct {
	*Resource[clinic.Invoice]
	nowTime func() time.Time
}

func NewInvoices(api API, opts ...Option) *Invoices {
	o := buildOptions(opts)
	return &Invoices{
		Resource: newResource("factures", invoicesPath, api, func(i clinic.Invoice) int { return i.ID }, Messages{}),
		nowTime:  o.nowTime,
	}
}

// NewInvoice is the body of POST /factures.
type NewInvoice struct {
	Invoice clinic.InvoiceForm       `json:"facture"`
	Lines   []clinic.InvoiceLineForm `json:"lignes,omitempty"`
}

type createdInvoice struct {
	Message string         `json:"message"`
	Invoice clinic.Invoice `json:"facture"`
}

type createdLine struct {
	Message string `json:"message"`
	LineID  int    `json:"idLigne"`
}

// Create posts the invoice and puts it at the head of the list.
func (i *Invoices) Create(ctx context.Context, inv NewInvoice) (created clinic.Invoice, err error) {
	defer i.track("")(&err)

	var resp createdInvoice
	if err := i.api.Post(ctx, invoicesPath, inv, &resp); err != nil {
		return created, err
	}
	i.prependItem(resp.Invoice)
	return resp.Invoice, nil
}

// FetchByStatus reloads the invoices of one status, keeping the others as listed.
func (i *Invoices) FetchByStatus(ctx context.Context, status clinic.InvoiceStatus) (list []clinic.Invoice, err error) {
	defer i.track("")(&err)

	if err := i.api.Get(ctx, invoicesPath+"/statut/"+string(status), nil, &list); err != nil {
		return nil, err
	}
	others := i.Filter(func(inv clinic.Invoice) bool { return inv.Status != status })
	i.setItems(append(others, list...))
	return list, nil
}

// FetchByPatient returns a patient's invoices without touching the list.
func (i *Invoices) FetchByPatient(ctx context.Context, patientID int) (list []clinic.Invoice, err error) {
	defer i.track("")(&err)

	if err := i.api.Get(ctx, fmt.Sprintf("%s/patient/%d", invoicesPath, patientID), nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// AddLine appends a line and reloads the invoice as current.
func (i *Invoices) AddLine(ctx context.Context, invoiceID int, line clinic.InvoiceLineForm) (lineID int, err error) {
	defer i.track("")(&err)

	var resp createdLine
	if err := i.api.Post(ctx, fmt.Sprintf("%s/%d/lignes", invoicesPath, invoiceID), line, &resp); err != nil {
		return 0, err
	}
	if _, err := i.FetchOne(ctx, invoiceID); err != nil {
		return resp.LineID, err
	}
	return resp.LineID, nil
}

// UpdateStatus sends the new status and merges it locally into the list and current.
func (i *Invoices) UpdateStatus(ctx context.Context, invoiceID int, update clinic.StatusUpdate) (err error) {
	defer i.track("")(&err)

	if err := i.api.Put(ctx, fmt.Sprintf("%s/%d/statut", invoicesPath, invoiceID), update, nil); err != nil {
		return err
	}
	now := i.nowTime()
	i.modify(i.hasID(invoiceID), func(inv *clinic.Invoice) { update.Apply(inv, now) })
	return nil
}

func (i *Invoices) ByStatus(status clinic.InvoiceStatus) []clinic.Invoice {
	return i.Filter(func(inv clinic.Invoice) bool { return inv.Status == status })
}

func (i *Invoices) ByPatient(patientID int) []clinic.Invoice {
	return i.Filter(func(inv clinic.Invoice) bool { return inv.PatientID == patientID })
}

// TotalPaid sums the tax-inclusive amount of paid invoices.
func (i *Invoices) TotalPaid() decimal.Decimal {
	return sumInvoices(i.ByStatus(clinic.InvoicePaid))
}

// TotalUnpaid sums unpaid and sent invoices.
func (i *Invoices) TotalUnpaid() decimal.Decimal {
	return sumInvoices(i.Filter(func(inv clinic.Invoice) bool { return inv.Status.Outstanding() }))
}

func (i *Invoices) Overdue(now time.Time) []clinic.Invoice {
	return i.Filter(func(inv clinic.Invoice) bool { return inv.Overdue(now) })
}

// Search matches the invoice number and the patient's names.
func (i *Invoices) Search(term string) []clinic.Invoice {
	return search(i.Collection, term)
}

func sumInvoices(list []clinic.Invoice) decimal.Decimal {
	total := decimal.Zero
	for _, inv := range list {
		total = total.Add(inv.AmountInclTax)
	}
	return total
}
