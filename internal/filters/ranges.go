package filters

// RangeSelection is a contiguous highlighted band over an ordered option
// list. Anchor is set after a first click and cleared once the range is closed.
type RangeSelection struct {
	Start  int  `json:"start"`
	End    int  `json:"end"`
	Anchor *int `json:"anchor"`
}

type RangeSelections struct {
	Color   RangeSelection `json:"color"`
	Clarity RangeSelection `json:"clarity"`
	Cut     RangeSelection `json:"cut"`
}

// InitialRange spans every option.
func InitialRange(length int) RangeSelection {
	return RangeSelection{Start: 0, End: max(0, length-1)}
}

func InitialRanges(opts Options) RangeSelections {
	return RangeSelections{
		Color:   InitialRange(len(opts.Color)),
		Clarity: InitialRange(len(opts.Clarity)),
		Cut:     InitialRange(len(opts.Cut)),
	}
}

// Click applies one click at index. The first click anchors a single index,
// clicking the anchor again collapses to that index, and any other index
// closes the range between the anchor and it.
func (r RangeSelection) Click(index int) RangeSelection {
	switch {
	case r.Anchor == nil:
		anchor := index
		return RangeSelection{Start: index, End: index, Anchor: &anchor}
	case *r.Anchor == index:
		return RangeSelection{Start: index, End: index}
	default:
		return RangeSelection{Start: min(*r.Anchor, index), End: max(*r.Anchor, index)}
	}
}

// Bounds returns the ordered inclusive bounds.
func (r RangeSelection) Bounds() (int, int) {
	return min(r.Start, r.End), max(r.Start, r.End)
}

// Contains reports whether index falls inside the band.
func (r RangeSelection) Contains(index int) bool {
	lo, hi := r.Bounds()
	return index >= lo && index <= hi
}

// Codes returns options[lo..hi] in canonical order.
func (r RangeSelection) Codes(options []string) []string {
	lo, hi := r.Bounds()
	lo = max(0, lo)
	hi = min(len(options)-1, hi)
	if lo > hi {
		return []string{}
	}
	return clone(options[lo : hi+1])
}

// RangeFromCodes finds the band spanning codes when they form a contiguous
// run of options, and otherwise spans every option.
func RangeFromCodes(options, codes []string) RangeSelection {
	if len(codes) == 0 {
		return InitialRange(len(options))
	}
	selected := make(map[string]struct{}, len(codes))
	for _, code := range codes {
		selected[code] = struct{}{}
	}
	lo, hi := -1, -1
	for i, option := range options {
		if _, ok := selected[option]; !ok {
			continue
		}
		if lo == -1 {
			lo = i
		} else if i != hi+1 {
			return InitialRange(len(options))
		}
		hi = i
	}
	if lo == -1 || hi-lo+1 != len(selected) {
		return InitialRange(len(options))
	}
	return RangeSelection{Start: lo, End: hi}
}

func (r RangeSelections) get(b Band) RangeSelection {
	switch b {
	case BandColor:
		return r.Color
	case BandClarity:
		return r.Clarity
	default:
		return r.Cut
	}
}

func (r RangeSelections) with(b Band, sel RangeSelection) RangeSelections {
	switch b {
	case BandColor:
		r.Color = sel
	case BandClarity:
		r.Clarity = sel
	case BandCut:
		r.Cut = sel
	}
	return r
}
