package filters

import (
	"github.com/angelmondragon/designstudio-backend/pkg/catalog"
	"github.com/angelmondragon/designstudio-backend/pkg/enums"
)

// StoneQuery renders the catalog stone query for the current state.
func (s State) StoneQuery(opts Options, pageSize int, stoneType enums.StoneType) catalog.StoneQuery {
	f := s.Filters.Normalize()
	caratMin, caratMax := f.Carat.Min, f.Carat.Max
	budgetMin, budgetMax := f.Budget.Min, f.Budget.Max
	page := s.Page
	if page < 1 {
		page = 1
	}
	return catalog.StoneQuery{
		Page:        page,
		PageSize:    pageSize,
		Shape:       opts.ShapeCode(s.Shape),
		Color:       f.Color,
		Clarity:     f.Clarity,
		Cut:         f.Cut,
		MinCarat:    &caratMin,
		MaxCarat:    &caratMax,
		MinBudget:   &budgetMin,
		MaxBudget:   &budgetMax,
		Certificate: f.Certificate,
		Type:        stoneType,
		Sort:        s.Sort,
	}
}
