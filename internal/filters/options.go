package filters

import (
	"strings"

	"github.com/angelmondragon/designstudio-backend/pkg/catalog"
)

// Options are the ordered codes each band offers.
type Options struct {
	Clarity     []string               `json:"clarity"`
	Color       []string               `json:"color"`
	Cut         []string               `json:"cut"`
	Certificate []string               `json:"certificate"`
	Shapes      []catalog.FilterOption `json:"shapes"`
}

func DefaultOptions() Options {
	return Options{
		Clarity:     clone(defaultClarity),
		Color:       clone(defaultColor),
		Cut:         clone(defaultCut),
		Certificate: clone(defaultCertificates),
		Shapes:      []catalog.FilterOption{},
	}
}

// OptionsFromCatalog uses the catalog's enumerations, keeping the defaults for
// any band the catalog leaves empty. Cuts keep the canonical grade order.
func OptionsFromCatalog(src *catalog.StoneFilterOptions) Options {
	opts := DefaultOptions()
	if src == nil {
		return opts
	}
	if codes := optionCodes(src.Clarities); len(codes) > 0 {
		opts.Clarity = codes
	}
	if codes := optionCodes(src.Colors); len(codes) > 0 {
		opts.Color = codes
	}
	if codes := optionCodes(src.Cuts); len(codes) > 0 {
		available := make(map[string]struct{}, len(codes))
		for _, code := range codes {
			available[code] = struct{}{}
		}
		ordered := []string{}
		for _, code := range defaultCut {
			if _, ok := available[code]; ok {
				ordered = append(ordered, code)
			}
		}
		if len(ordered) > 0 {
			opts.Cut = ordered
		}
	}
	if codes := optionCodes(src.Certificates); len(codes) > 0 {
		opts.Certificate = codes
	}
	if len(src.Shapes) > 0 {
		opts.Shapes = append([]catalog.FilterOption(nil), src.Shapes...)
	}
	return opts
}

// ShapeCode maps a shape label or code onto the catalog code. Unknown values
// pass through unchanged.
func (o Options) ShapeCode(shape string) string {
	shape = strings.TrimSpace(shape)
	for _, option := range o.Shapes {
		if strings.EqualFold(option.Code, shape) || strings.EqualFold(option.Label, shape) {
			return option.Code
		}
	}
	return shape
}

func (o Options) band(b Band) []string {
	switch b {
	case BandColor:
		return o.Color
	case BandClarity:
		return o.Clarity
	case BandCut:
		return o.Cut
	}
	return nil
}

func optionCodes(options []catalog.FilterOption) []string {
	codes := make([]string, 0, len(options))
	for _, option := range options {
		if option.Code != "" {
			codes = append(codes, option.Code)
		}
	}
	return codes
}
