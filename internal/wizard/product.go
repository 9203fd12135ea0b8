package wizard

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/designstudio-backend/pkg/catalog"
)

var metalColors = []string{"white", "yellow", "rose"}

// Product is a setting as shown in the grid, detail and summary.
type Product struct {
	ID      int64          `json:"id"`
	Name    string         `json:"name"`
	Price   string         `json:"price"`
	Image   string         `json:"image"`
	Colors  []string       `json:"colors"`
	Gallery []GalleryImage `json:"gallery,omitempty"`
}

type GalleryImage struct {
	URL    string `json:"url"`
	Alt    string `json:"alt"`
	Badge  string `json:"badge,omitempty"`
	Aspect string `json:"aspect,omitempty"`
}

// ImageResolver turns catalog-relative media paths into absolute URLs.
type ImageResolver func(path string) string

// ProductFromSummary maps a grid entry.
func ProductFromSummary(p catalog.ProductSummary, resolve ImageResolver) Product {
	return Product{
		ID:     p.ID,
		Name:   p.Name,
		Price:  FormatPrice(p.Price, p.Currency),
		Image:  resolveWith(resolve, p.Image),
		Colors: NormalizeColors(p.Colors),
	}
}

// ProductFromDetail maps a product detail, including its ordered gallery.
func ProductFromDetail(d catalog.ProductDetail, resolve ImageResolver) Product {
	image := ""
	if primary, ok := catalog.PrimaryImage(d.Images); ok {
		image = primary.URL
	}
	gallery := []GalleryImage{}
	for _, img := range catalog.OrderedImages(d.Images) {
		url := resolveWith(resolve, img.URL)
		if url == "" {
			continue
		}
		alt := img.Alt
		if alt == "" {
			alt = d.Name
		}
		gallery = append(gallery, GalleryImage{URL: url, Alt: alt, Badge: img.Badge, Aspect: img.Aspect})
	}
	return Product{
		ID:      d.ID,
		Name:    d.Name,
		Price:   FormatPrice(d.BasePrice, d.Currency),
		Image:   resolveWith(resolve, image),
		Colors:  NormalizeColors(d.AvailableColors),
		Gallery: gallery,
	}
}

// FormatPrice renders "USD 1,234.5": thousands grouped, at most three
// fraction digits, trailing zeros dropped.
func FormatPrice(amount decimal.Decimal, currency string) string {
	currency = strings.TrimSpace(currency)
	if currency == "" {
		currency = "USD"
	}
	rounded := amount.Round(3)
	sign := ""
	if rounded.IsNegative() {
		sign = "-"
		rounded = rounded.Abs()
	}
	text := rounded.String()
	intPart, fracPart, _ := strings.Cut(text, ".")
	fracPart = strings.TrimRight(fracPart, "0")

	var grouped strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			grouped.WriteByte(',')
		}
		grouped.WriteRune(r)
	}
	out := sign + grouped.String()
	if fracPart != "" {
		out += "." + fracPart
	}
	return currency + " " + out
}

// NormalizeColors keeps the known metal colors, defaulting to all of them.
func NormalizeColors(colors []string) []string {
	normalized := []string{}
	for _, c := range colors {
		c = strings.ToLower(strings.TrimSpace(c))
		for _, known := range metalColors {
			if c == known {
				normalized = append(normalized, c)
				break
			}
		}
	}
	if len(normalized) == 0 {
		return append([]string{}, metalColors...)
	}
	return normalized
}

func resolveWith(resolve ImageResolver, path string) string {
	if resolve == nil {
		return strings.TrimSpace(path)
	}
	return resolve(path)
}
