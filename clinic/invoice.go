package clinic

import (
	"time"

	"github.com/jrsteele09/go-clinic-console/internal/utils"
	"github.com/shopspring/decimal"
)

type InvoiceStatus string

const (
	InvoiceDraft     InvoiceStatus = "BROUILLON"
	InvoiceSent      InvoiceStatus = "ENVOYEE"
	InvoicePaid      InvoiceStatus = "PAYEE"
	InvoicePartial   InvoiceStatus = "PARTIELLE"
	InvoiceUnpaid    InvoiceStatus = "IMPAYEE"
	InvoiceCancelled InvoiceStatus = "ANNULEE"
)

// Outstanding reports whether the invoice still waits for payment.
func (s InvoiceStatus) Outstanding() bool {
	return s == InvoiceUnpaid || s == InvoiceSent
}

type PaymentMethod string

const (
	PaymentCash      PaymentMethod = "ESPECES"
	PaymentCard      PaymentMethod = "CARTE"
	PaymentCheque    PaymentMethod = "CHEQUE"
	PaymentTransfer  PaymentMethod = "VIREMENT"
	PaymentInsurance PaymentMethod = "MUTUELLE"
)

type InvoiceLine struct {
	ID            int             `json:"idLigne,omitempty"`
	InvoiceID     int             `json:"idFacture"`
	PrestationID  int             `json:"idPrestation"`
	AppointmentID *int            `json:"idRdv,omitempty"`
	Description   string          `json:"description"`
	Quantity      int             `json:"quantite"`
	UnitPrice     decimal.Decimal `json:"prixUnitaire"`
	AmountExclTax decimal.Decimal `json:"montantHT"`
	TaxRate       decimal.Decimal `json:"tauxTVA"`
	TaxAmount     decimal.Decimal `json:"montantTVA"`
	AmountInclTax decimal.Decimal `json:"montantTTC"`
	Prestation    *struct {
		Name string `json:"nomPrestation"`
	} `json:"prestation,omitempty"`
}

type Invoice struct {
	ID            int              `json:"idFacture,omitempty"`
	Number        string           `json:"numeroFacture"`
	PatientID     int              `json:"idPatient"`
	IssuedAt      Timestamp        `json:"dateFacture"`
	DueAt         Timestamp        `json:"dateEcheance"`
	AmountExclTax decimal.Decimal  `json:"montantHT"`
	TaxAmount     decimal.Decimal  `json:"montantTVA"`
	AmountInclTax decimal.Decimal  `json:"montantTTC"`
	AmountPaid    *decimal.Decimal `json:"montantPaye,omitempty"`
	Status        InvoiceStatus    `json:"statutFacture"`
	PaymentMethod *PaymentMethod   `json:"modePaiement,omitempty"`
	PaidAt        *Timestamp       `json:"datePaiement,omitempty"`
	Notes         *string          `json:"notes,omitempty"`
	CreatedAt     *Timestamp       `json:"createdAt,omitempty"`
	UpdatedAt     *Timestamp       `json:"updatedAt,omitempty"`
	Patient       *Patient         `json:"patient,omitempty"`
	Lines         []InvoiceLine    `json:"lignes,omitempty"`
}

// Overdue reports whether an outstanding invoice is past its due date at now.
func (i Invoice) Overdue(now time.Time) bool {
	return i.Status.Outstanding() && !i.DueAt.IsZero() && i.DueAt.Before(now)
}

func (i Invoice) Matches(term string) bool {
	values := []string{i.Number}
	if i.Patient != nil {
		values = append(values, i.Patient.FamilyName, i.Patient.GivenName)
	}
	return utils.AnyContainsFold(term, values...)
}

// InvoiceForm is the invoice part of POST /factures.
type InvoiceForm struct {
	PatientID     int              `json:"idPatient"`
	IssuedAt      Timestamp        `json:"dateFacture"`
	DueAt         Timestamp        `json:"dateEcheance"`
	AmountExclTax decimal.Decimal  `json:"montantHT"`
	TaxAmount     decimal.Decimal  `json:"montantTVA"`
	AmountInclTax decimal.Decimal  `json:"montantTTC"`
	AmountPaid    *decimal.Decimal `json:"montantPaye,omitempty"`
	Status        InvoiceStatus    `json:"statutFacture"`
	PaymentMethod *PaymentMethod   `json:"modePaiement,omitempty"`
	PaidAt        *Timestamp       `json:"datePaiement,omitempty"`
	Notes         *string          `json:"notes,omitempty"`
}

// InvoiceLineForm adds a line to an existing invoice.
type InvoiceLineForm struct {
	PrestationID  int             `json:"idPrestation"`
	AppointmentID *int            `json:"idRdv,omitempty"`
	Description   string          `json:"description"`
	Quantity      int             `json:"quantite"`
	UnitPrice     decimal.Decimal `json:"prixUnitaire"`
	AmountExclTax decimal.Decimal `json:"montantHT"`
	TaxRate       decimal.Decimal `json:"tauxTVA"`
	TaxAmount     decimal.Decimal `json:"montantTVA"`
	AmountInclTax decimal.Decimal `json:"montantTTC"`
}

// StatusUpdate is the body of PUT /factures/{id}/statut.
type StatusUpdate struct {
	Status        InvoiceStatus    `json:"statutFacture"`
	AmountPaid    *decimal.Decimal `json:"montantPaye,omitempty"`
	PaymentMethod *PaymentMethod   `json:"modePaiement,omitempty"`
	PaidAt        *Timestamp       `json:"datePaiement,omitempty"`
}

// Apply merges u into i the way the server does.
func (u StatusUpdate) Apply(i *Invoice, now time.Time) {
	i.Status = u.Status
	if u.AmountPaid != nil {
		i.AmountPaid = u.AmountPaid
	}
	if u.PaymentMethod != nil {
		i.PaymentMethod = u.PaymentMethod
	}
	if u.PaidAt != nil {
		i.PaidAt = u.PaidAt
	}
	i.UpdatedAt = TimestampPtr(now)
}

// Payment is recorded through the secretariat endpoints.
type Payment struct {
	AmountPaid    decimal.Decimal `json:"montantPaye"`
	PaymentMethod PaymentMethod   `json:"modePaiement"`
	PaidAt        *Timestamp      `json:"datePaiement,omitempty"`
}
