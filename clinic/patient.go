// Package clinic holds the back office records the console lists and edits. JSON names
// follow the remote API.
package clinic

import "github.com/jrsteele09/go-clinic-console/internal/utils"

type Patient struct {
	ID         int    `json:"idPatient,omitempty"`
	FamilyName string `json:"nomPatient"`
	GivenName  string `json:"prenomPatient"`
	Address    string `json:"adressePatient"`
	Phone      string `json:"numPatient"`
	Email      string `json:"mailPatient"`
}

func (p Patient) FullName() string {
	return p.GivenName + " " + p.FamilyName
}

// PatientUpdate is a partial patient; nil fields are left unchanged.
type PatientUpdate struct {
	FamilyName *string `json:"nomPatient,omitempty"`
	GivenName  *string `json:"prenomPatient,omitempty"`
	Address    *string `json:"adressePatient,omitempty"`
	Phone      *string `json:"numPatient,omitempty"`
	Email      *string `json:"mailPatient,omitempty"`
}

// StaffRef is the employee summary embedded in other records.
type StaffRef struct {
	ID         int    `json:"idEmploye"`
	FamilyName string `json:"nomEmploye"`
	GivenName  string `json:"prenomEmploye"`
	Email      string `json:"mailEmploye,omitempty"`
}

func (s *StaffRef) FullName() string {
	if s == nil {
		return ""
	}
	return s.GivenName + " " + s.FamilyName
}

// Matches is the case-insensitive search used by the patient list.
func (p Patient) Matches(term string) bool {
	return utils.AnyContainsFold(term, p.FamilyName, p.GivenName, p.Email)
}
