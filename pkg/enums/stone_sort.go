package enums

import "fmt"

// StoneSort orders the stone grid.
type StoneSort string

const (
	StoneSortDefault   StoneSort = "default"
	StoneSortPriceAsc  StoneSort = "price_asc"
	StoneSortPriceDesc StoneSort = "price_desc"
)

var validStoneSorts = []StoneSort{
	StoneSortDefault,
	StoneSortPriceAsc,
	StoneSortPriceDesc,
}

// String implements fmt.Stringer.
func (s StoneSort) String() string {
	return string(s)
}

// IsValid reports whether the value is a known StoneSort.
func (s StoneSort) IsValid() bool {
	for _, candidate := range validStoneSorts {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseStoneSort converts raw input into a StoneSort.
func ParseStoneSort(value string) (StoneSort, error) {
	for _, candidate := range validStoneSorts {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid stone sort %q", value)
}
