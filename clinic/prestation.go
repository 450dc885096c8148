package clinic

import (
	"github.com/jrsteele09/go-clinic-console/internal/utils"
	"github.com/shopspring/decimal"
)

type Category struct {
	ID   int    `json:"idCategorie,omitempty"`
	Name string `json:"nomCategorie"`
}

func (c Category) Matches(term string) bool {
	return utils.ContainsFold(c.Name, term)
}

// Prestation is a billable service. Price is tax inclusive.
type Prestation struct {
	ID         int             `json:"idPrestation,omitempty"`
	Name       string          `json:"nomPrestation"`
	Price      decimal.Decimal `json:"prix_TTC"`
	CategoryID int             `json:"idCategorie"`
	Category   *Category       `json:"categorie,omitempty"`
}

func (p Prestation) Matches(term string) bool {
	if utils.ContainsFold(p.Name, term) {
		return true
	}
	return p.Category != nil && p.Category.Matches(term)
}

type PrestationUpdate struct {
	Name       *string          `json:"nomPrestation,omitempty"`
	Price      *decimal.Decimal `json:"prix_TTC,omitempty"`
	CategoryID *int             `json:"idCategorie,omitempty"`
}
