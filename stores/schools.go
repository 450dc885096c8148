package stores

import (
	"context"
	"net/url"
	"strconv"

	"github.com/jrsteele09/go-clinic-console/clinic"
)

var schoolMessages = Messages{
	Load:   "Erreur lors du chargement",
	Create: "Erreur lors de la création",
	Update: "Erreur lors de la modification",
	Delete: "Erreur lors de la suppression",
}

type Schools struct {
	*Resource[clinic.School]
}

func NewSchools(api API) *Schools {
	return &Schools{newResource("ecoles", "/ecoles", api, func(s clinic.School) int { return s.ID }, schoolMessages)}
}

// FetchAll lists the schools, embedding their trainees when withTrainees is set.
func (s *Schools) FetchAll(ctx context.Context, withTrainees bool) error {
	return s.fetchAll(ctx, url.Values{"withStagiaires": {strconv.FormatBool(withTrainees)}})
}

// Search matches name, address, city and referent contact.
func (s *Schools) Search(term string) []clinic.School {
	return search(s.Collection, term)
}

type Trainees struct {
	*Resource[clinic.Trainee]
}

func NewTrainees(api API) *Trainees {
	return &Trainees{newResource("stagiaires", "/stagiaires", api, func(t clinic.Trainee) int { return t.ID }, schoolMessages)}
}

// Search matches names, e-mail and school name.
func (t *Trainees) Search(term string) []clinic.Trainee {
	return search(t.Collection, term)
}

func (t *Trainees) BySchool(schoolID int) []clinic.Trainee {
	return t.Filter(func(tr clinic.Trainee) bool { return tr.SchoolID == schoolID })
}
