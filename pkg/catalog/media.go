package catalog

import (
	"net/url"
	"sort"
	"strings"
)

const giaReportCheckURL = "https://www.gia.edu/report-check?reportno="

// ResolveImageURL makes a catalog-relative image path absolute against base.
// Absolute http(s) URLs pass through; unparseable input is returned trimmed.
func ResolveImageURL(base, path string) string {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return ""
	}
	if strings.HasPrefix(trimmed, "http://") || strings.HasPrefix(trimmed, "https://") {
		return trimmed
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return trimmed
	}
	ref, err := url.Parse(trimmed)
	if err != nil {
		return trimmed
	}
	return baseURL.ResolveReference(ref).String()
}

// PrimaryImage returns the image flagged primary, else the first one.
func PrimaryImage(images []Image) (Image, bool) {
	for _, image := range images {
		if image.Primary() {
			return image, true
		}
	}
	if len(images) == 0 {
		return Image{}, false
	}
	return images[0], true
}

// OrderedImages sorts the gallery by sort order and moves the primary image to the front.
func OrderedImages(images []Image) []Image {
	if len(images) == 0 {
		return nil
	}
	ordered := make([]Image, len(images))
	copy(ordered, images)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].order() < ordered[j].order()
	})
	for i, image := range ordered {
		if image.Primary() && i > 0 {
			primary := ordered[i]
			copy(ordered[1:i+1], ordered[:i])
			ordered[0] = primary
			break
		}
	}
	return ordered
}

// CertificateURL links a stone to its GIA report check page. It returns ""
// when the stone carries neither a report nor a certificate number.
func CertificateURL(stone *Stone) string {
	if stone == nil {
		return ""
	}
	number := strings.TrimSpace(stone.ExternalReportNo)
	if number == "" {
		number = strings.TrimSpace(stone.ExternalCertNo)
	}
	if number == "" {
		return ""
	}
	return giaReportCheckURL + url.QueryEscape(number)
}

var shapeLabels = map[string]string{
	"round":     "Round",
	"emerald":   "Emerald",
	"heart":     "Heart",
	"marquise":  "Marquise",
	"oval":      "Oval",
	"pear":      "Pear",
	"princess":  "Princess",
	"radiant":   "Radiant",
	"cushion":   "Cushion",
	"e_cushion": "E. Cushion",
}

// ShapeLabel returns the display label for a shape code, or the input when unknown.
func ShapeLabel(shape string) string {
	if shape == "" {
		return ""
	}
	if label, ok := shapeLabels[strings.ToLower(shape)]; ok {
		return label
	}
	return shape
}
