package stores

import (
	"github.com/jrsteele09/go-clinic-console/clinic"
)

type Categories struct {
	*Resource[clinic.Category]
}

func NewCategories(api API) *Categories {
	return &Categories{newResource("categories", "/categories", api, func(c clinic.Category) int { return c.ID }, Messages{})}
}

func (c *Categories) Search(term string) []clinic.Category {
	return search(c.Collection, term)
}

type Prestations struct {
	*Resource[clinic.Prestation]
}

func NewPrestations(api API) *Prestations {
	return &Prestations{newResource("prestations", "/prestations", api, func(p clinic.Prestation) int { return p.ID }, Messages{})}
}

// Search matches the prestation name or its category name.
func (p *Prestations) Search(term string) []clinic.Prestation {
	return search(p.Collection, term)
}

func (p *Prestations) ByCategory(categoryID int) []clinic.Prestation {
	return p.Filter(func(pr clinic.Prestation) bool { return pr.CategoryID == categoryID })
}
