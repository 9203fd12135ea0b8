package filters

import (
	"time"

	"github.com/angelmondragon/designstudio-backend/pkg/enums"
)

// DefaultFreshness is how long a persisted bundle stays usable.
const DefaultFreshness = 24 * time.Hour

// Bundle is the persisted filter snapshot. Timestamp is epoch milliseconds.
type Bundle struct {
	Filters       StoneFilters    `json:"filters"`
	CurrentPage   int             `json:"currentPage"`
	SortBy        enums.StoneSort `json:"sortBy"`
	SelectedShape string          `json:"selectedShape"`
	Timestamp     int64           `json:"timestamp"`
}

// NewBundle captures s at now.
func NewBundle(s State, now time.Time) Bundle {
	return Bundle{
		Filters:       s.Filters,
		CurrentPage:   s.Page,
		SortBy:        s.Sort,
		SelectedShape: s.Shape,
		Timestamp:     now.UnixMilli(),
	}
}

// Fresh reports whether the bundle is no older than ttl at now.
func (b Bundle) Fresh(now time.Time, ttl time.Duration) bool {
	return now.UnixMilli()-b.Timestamp <= ttl.Milliseconds()
}

func (b Bundle) normalized() Bundle {
	if b.CurrentPage < 1 {
		b.CurrentPage = 1
	}
	if b.Filters.isZero() {
		b.Filters = DefaultFilters()
	}
	if !b.SortBy.IsValid() {
		b.SortBy = enums.StoneSortDefault
	}
	return b
}
