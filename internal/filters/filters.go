// Package filters models the stone browser's filter panel: band selections,
// numeric ranges, sort and paging, plus the bundle persisted per session.
package filters

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/designstudio-backend/pkg/enums"
)

const (
	CaratMin   = 0.5
	CaratMax   = 20.0
	BudgetMin  = 250.0
	BudgetMax  = 5000.0
	BudgetStep = 250.0
)

var (
	defaultClarity      = []string{"SI1", "VS2", "VS1", "VVS2", "VVS1", "IF", "FL"}
	defaultColor        = []string{"J", "I", "H", "G", "F", "E", "D"}
	defaultCut          = []string{"good", "veryGood", "excellent"}
	defaultCertificates = []string{"IGI", "GIA"}
)

// Range is an inclusive numeric interval.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// StoneFilters is the filter panel's value set.
type StoneFilters struct {
	Clarity     []string `json:"clarity"`
	Color       []string `json:"color"`
	Cut         []string `json:"cut"`
	Carat       Range    `json:"carat"`
	Budget      Range    `json:"budget"`
	Certificate []string `json:"certificate"`
}

// DefaultFilters is the widest filter set: every grade, the full carat and
// budget ranges and no certificate restriction.
func DefaultFilters() StoneFilters {
	return StoneFilters{
		Clarity:     clone(defaultClarity),
		Color:       clone(defaultColor),
		Cut:         clone(defaultCut),
		Carat:       Range{Min: CaratMin, Max: CaratMax},
		Budget:      Range{Min: BudgetMin, Max: BudgetMax},
		Certificate: []string{},
	}
}

// Normalize clamps carat into its bounds rounded to two decimals and keeps
// the budget bounds at least one step apart.
func (f StoneFilters) Normalize() StoneFilters {
	out := f
	out.Clarity = nonNil(f.Clarity)
	out.Color = nonNil(f.Color)
	out.Cut = nonNil(f.Cut)
	out.Certificate = nonNil(f.Certificate)

	caratMin := clampCarat(f.Carat.Min)
	caratMax := clampCarat(max(caratMin, f.Carat.Max))
	out.Carat = Range{Min: round2(caratMin), Max: round2(caratMax)}

	budgetMin := max(0, f.Budget.Min)
	budgetMax := max(0, f.Budget.Max)
	if budgetMax < budgetMin+BudgetStep {
		budgetMax = budgetMin + BudgetStep
	}
	out.Budget = Range{Min: budgetMin, Max: budgetMax}
	return out
}

func (f StoneFilters) isZero() bool {
	return f.Clarity == nil && f.Color == nil && f.Cut == nil && f.Certificate == nil &&
		f.Carat == (Range{}) && f.Budget == (Range{})
}

func (f StoneFilters) band(b Band) []string {
	switch b {
	case BandColor:
		return f.Color
	case BandClarity:
		return f.Clarity
	case BandCut:
		return f.Cut
	}
	return nil
}

func (f *StoneFilters) setBand(b Band, codes []string) {
	switch b {
	case BandColor:
		f.Color = codes
	case BandClarity:
		f.Clarity = codes
	case BandCut:
		f.Cut = codes
	}
}

// Band names one of the contiguous grade selectors.
type Band string

const (
	BandColor   Band = "color"
	BandClarity Band = "clarity"
	BandCut     Band = "cut"
)

func ParseBand(value string) (Band, error) {
	switch b := Band(strings.ToLower(strings.TrimSpace(value))); b {
	case BandColor, BandClarity, BandCut:
		return b, nil
	}
	return "", fmt.Errorf("invalid filter band %q", value)
}

// State is everything the stone browser keeps for one session.
type State struct {
	Filters StoneFilters    `json:"filters"`
	Ranges  RangeSelections `json:"ranges"`
	Page    int             `json:"page"`
	Sort    enums.StoneSort `json:"sort"`
	Shape   string          `json:"shape"`
}

// DefaultState returns default filters over opts, page 1 and the default sort.
func DefaultState(opts Options) State {
	filters := DefaultFilters()
	filters.Clarity = clone(opts.Clarity)
	filters.Color = clone(opts.Color)
	filters.Cut = clone(opts.Cut)
	return State{
		Filters: filters,
		Ranges:  InitialRanges(opts),
		Page:    1,
		Sort:    enums.StoneSortDefault,
	}
}

// FromBundle restores a persisted bundle; band ranges are rebuilt from the
// stored codes since they are not persisted.
func FromBundle(b Bundle, opts Options) State {
	b = b.normalized()
	filters := b.Filters.Normalize()
	return State{
		Filters: filters,
		Ranges: RangeSelections{
			Color:   RangeFromCodes(opts.Color, filters.Color),
			Clarity: RangeFromCodes(opts.Clarity, filters.Clarity),
			Cut:     RangeFromCodes(opts.Cut, filters.Cut),
		},
		Page:  b.CurrentPage,
		Sort:  b.SortBy,
		Shape: b.SelectedShape,
	}
}

// ClickBand applies a band click at index and rewrites that band's filter
// values to the selected codes.
func (s State) ClickBand(band Band, index int, opts Options) (State, error) {
	codes := opts.band(band)
	if index < 0 || index >= len(codes) {
		return s, fmt.Errorf("band %s index %d out of range", band, index)
	}
	next := s
	selection := s.Ranges.get(band).Click(index)
	next.Ranges = s.Ranges.with(band, selection)
	next.Filters.setBand(band, selection.Codes(codes))
	next.Page = 1
	return next, nil
}

// WithFilters replaces the filter values, resets paging and realigns band ranges.
func (s State) WithFilters(f StoneFilters, opts Options) State {
	next := s
	next.Filters = f.Normalize()
	next.Ranges = RangeSelections{
		Color:   RangeFromCodes(opts.Color, next.Filters.Color),
		Clarity: RangeFromCodes(opts.Clarity, next.Filters.Clarity),
		Cut:     RangeFromCodes(opts.Cut, next.Filters.Cut),
	}
	next.Page = 1
	return next
}

func (s State) WithShape(shape string) State {
	next := s
	next.Shape = strings.TrimSpace(shape)
	next.Page = 1
	return next
}

func (s State) WithSort(sort enums.StoneSort) State {
	next := s
	next.Sort = sort
	next.Page = 1
	return next
}

func (s State) WithPage(page int) State {
	next := s
	if page < 1 {
		page = 1
	}
	next.Page = page
	return next
}

func clampCarat(v float64) float64 {
	return min(CaratMax, max(CaratMin, v))
}

func round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

func clone(values []string) []string {
	return append([]string{}, values...)
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
