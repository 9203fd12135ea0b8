package cart

import (
	"encoding/json"
	"math"
	"strings"

	"github.com/angelmondragon/designstudio-backend/pkg/shopify"
)

// LineInput is one requested cart line as sent by the storefront.
type LineInput struct {
	MerchandiseID string            `json:"merchandiseId"`
	Quantity      float64           `json:"quantity"`
	Attributes    []json.RawMessage `json:"attributes,omitempty"`
}

type attributeInput struct {
	Key   *string `json:"key"`
	Value *string `json:"value"`
}

// DecodeLines decodes each raw line on its own; lines that do not decode are
// dropped rather than failing the request.
func DecodeLines(raw []json.RawMessage) []LineInput {
	lines := make([]LineInput, 0, len(raw))
	for _, item := range raw {
		var line LineInput
		if err := json.Unmarshal(item, &line); err != nil {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

// NormalizeLines keeps lines with a merchandise id and a positive quantity,
// floors the quantity and drops attributes without a string key and value.
func NormalizeLines(lines []LineInput) []shopify.CartLineInput {
	normalized := []shopify.CartLineInput{}
	for _, line := range lines {
		if line.MerchandiseID == "" || line.Quantity <= 0 {
			continue
		}
		quantity := int(math.Floor(line.Quantity))
		if quantity <= 0 {
			continue
		}
		normalized = append(normalized, shopify.CartLineInput{
			MerchandiseID: line.MerchandiseID,
			Quantity:      quantity,
			Attributes:    normalizeAttributes(line.Attributes),
		})
	}
	return normalized
}

func normalizeAttributes(raw []json.RawMessage) []shopify.Attribute {
	if len(raw) == 0 {
		return nil
	}
	attrs := []shopify.Attribute{}
	for _, item := range raw {
		var attr attributeInput
		if err := json.Unmarshal(item, &attr); err != nil {
			continue
		}
		if attr.Key == nil || attr.Value == nil || strings.TrimSpace(*attr.Key) == "" {
			continue
		}
		attrs = append(attrs, shopify.Attribute{Key: *attr.Key, Value: *attr.Value})
	}
	return attrs
}
