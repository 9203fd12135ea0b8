// Package settingtypes holds the setting choices offered once a stone is picked
// and how each maps onto the product catalog.
package settingtypes

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/angelmondragon/designstudio-backend/pkg/catalog"
	"github.com/angelmondragon/designstudio-backend/pkg/enums"
)

//go:embed setting_types.yaml
var defaultDefinitions []byte

// Option is one entry of the setting-type selector.
type Option struct {
	Choice              enums.SettingChoice `yaml:"choice" json:"choice" validate:"required"`
	Title               string              `yaml:"title" json:"title" validate:"required"`
	CategoryCode        string              `yaml:"categoryCode" json:"categoryCode" validate:"required"`
	DefaultProductIndex int                 `yaml:"defaultProductIndex" json:"defaultProductIndex" validate:"gte=0"`
	FallbackIcon        string              `yaml:"fallbackIcon" json:"fallbackIcon,omitempty"`
	DisplayOrder        int                 `yaml:"displayOrder" json:"displayOrder"`
	IconSVG             string              `yaml:"-" json:"iconSvg,omitempty"`
}

type definitions struct {
	Options []Option `yaml:"options" validate:"required,min=1,dive"`
}

// Catalog is an immutable, validated set of setting options.
type Catalog struct {
	options  []Option
	byChoice map[enums.SettingChoice]Option
}

// Default returns the built-in setting catalog.
func Default() *Catalog {
	c, err := Parse(defaultDefinitions)
	if err != nil {
		panic(fmt.Sprintf("settingtypes: embedded definitions invalid: %v", err))
	}
	return c
}

// Load reads definitions from path, or returns the built-in catalog when path is empty.
func Load(path string) (*Catalog, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read setting types %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes and validates YAML definitions. Every setting choice must be
// declared exactly once.
func Parse(data []byte) (*Catalog, error) {
	var defs definitions
	if err := yaml.Unmarshal(data, &defs); err != nil {
		return nil, fmt.Errorf("decode setting types: %w", err)
	}
	if err := validator.New().Struct(defs); err != nil {
		return nil, fmt.Errorf("validate setting types: %w", err)
	}

	byChoice := make(map[enums.SettingChoice]Option, len(defs.Options))
	for _, opt := range defs.Options {
		if !opt.Choice.IsValid() {
			return nil, fmt.Errorf("unknown setting choice %q", opt.Choice)
		}
		if _, dup := byChoice[opt.Choice]; dup {
			return nil, fmt.Errorf("duplicate setting choice %q", opt.Choice)
		}
		byChoice[opt.Choice] = opt
	}
	for _, choice := range enums.SettingChoices() {
		if _, ok := byChoice[choice]; !ok {
			return nil, fmt.Errorf("setting choice %q is not declared", choice)
		}
	}

	options := append([]Option(nil), defs.Options...)
	sort.SliceStable(options, func(i, j int) bool {
		return options[i].DisplayOrder < options[j].DisplayOrder
	})
	return &Catalog{options: options, byChoice: byChoice}, nil
}

// Options returns the selector entries in display order.
func (c *Catalog) Options() []Option {
	return append([]Option(nil), c.options...)
}

func (c *Catalog) Lookup(choice enums.SettingChoice) (Option, bool) {
	opt, ok := c.byChoice[choice]
	return opt, ok
}

// CategoryCode maps a choice onto its product category code.
func (c *Catalog) CategoryCode(choice enums.SettingChoice) string {
	return c.byChoice[choice].CategoryCode
}

// DefaultProductIndex is the preferred position in the loaded product list
// for choice; unknown choices use the first product.
func (c *Catalog) DefaultProductIndex(choice enums.SettingChoice) int {
	opt, ok := c.byChoice[choice]
	if !ok {
		return 0
	}
	return opt.DefaultProductIndex
}

// WithIcons returns the options with IconSVG filled from the catalog
// categories sharing their category code.
func (c *Catalog) WithIcons(categories []catalog.ProductCategory) []Option {
	icons := make(map[string]string, len(categories))
	for _, category := range categories {
		if category.IconSVG != "" {
			icons[category.Code] = category.IconSVG
		}
	}
	options := c.Options()
	for i := range options {
		options[i].IconSVG = icons[options[i].CategoryCode]
	}
	return options
}
