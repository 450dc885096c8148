package stores

import (
	"github.com/jrsteele09/go-clinic-console/clinic"
)

type Patients struct {
	*Resource[clinic.Patient]
}

func NewPatients(api API) *Patients {
	return &Patients{newResource("patients", "/patients", api, func(p clinic.Patient) int { return p.ID }, Messages{})}
}

// Search matches family name, given name and e-mail.
func (p *Patients) Search(term string) []clinic.Patient {
	return search(p.Collection, term)
}
