package wizard

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/angelmondragon/designstudio-backend/pkg/enums"
)

// DefaultBasePath is where the studio is mounted on the storefront.
const DefaultBasePath = "/design-studio"

const (
	sectionStone   = "stone"
	sectionSetting = "setting"
	sectionSummary = "summary"
)

// Step is the active wizard step.
type Step int

const (
	StepStone   Step = 1
	StepSetting Step = 2
	StepSummary Step = 3
)

func (s Step) IsValid() bool {
	return s >= StepStone && s <= StepSummary
}

func normalizeStep(s Step) Step {
	if !s.IsValid() {
		return StepStone
	}
	return s
}

// Detail is the overlay layered over a step; DetailNone when nothing is pinned.
type Detail int

const (
	DetailNone    Detail = 0
	DetailStone   Detail = 1
	DetailProduct Detail = 2
)

// Route is the state derivable from a studio URL alone.
type Route struct {
	Step       Step                `json:"step"`
	Detail     Detail              `json:"detail"`
	StoneID    *int64              `json:"stoneId,omitempty"`
	StoneShape string              `json:"stoneShape,omitempty"`
	StoneType  enums.StoneType     `json:"stoneType,omitempty"`
	ProductID  *int64              `json:"productId,omitempty"`
	Setting    enums.SettingChoice `json:"setting,omitempty"`
}

// HasSelectionParams reports whether the URL names a stone, product or setting.
func (r Route) HasSelectionParams() bool {
	return r.StoneID != nil || r.ProductID != nil || r.Setting != ""
}

// Paths renders and parses studio URLs under Base.
type Paths struct {
	Base string
}

// DefaultPaths mounts the studio at DefaultBasePath.
var DefaultPaths = NewPaths(DefaultBasePath)

func NewPaths(base string) Paths {
	base = "/" + strings.Trim(strings.TrimSpace(base), "/")
	if base == "/" {
		base = DefaultBasePath
	}
	return Paths{Base: base}
}

// ParseRoute derives a Route from rawURL under DefaultBasePath.
func ParseRoute(rawURL string) Route {
	return DefaultPaths.Parse(rawURL)
}

// Parse derives a Route from rawURL. Path segments win over query
// parameters; anything unparseable degrades to step 1 with absent values.
func (p Paths) Parse(rawURL string) Route {
	route := Route{Step: StepStone}
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return route
	}

	var (
		pathStone   *int64
		pathProduct *int64
		pathSetting enums.SettingChoice
	)
	if segments, ok := p.segments(u.Path); ok && len(segments) > 0 {
		switch segments[0] {
		case sectionStone:
			if id := parseID(segmentAt(segments, 1)); id != nil {
				pathStone = id
				route.Detail = DetailStone
			}
		case sectionSetting:
			route.Step = StepSetting
			pathSetting = parseSetting(segmentAt(segments, 1))
			if id := parseID(segmentAt(segments, 2)); id != nil && pathSetting != "" {
				pathProduct = id
				route.Detail = DetailProduct
			}
		case sectionSummary:
			route.Step = StepSummary
			pathSetting = parseSetting(segmentAt(segments, 1))
		}
	}

	q := u.Query()
	route.StoneID = firstID(pathStone, q.Get("stone"), q.Get("stoneId"))
	route.ProductID = firstID(pathProduct, q.Get("product"), q.Get("productId"))
	route.StoneShape = strings.TrimSpace(firstNonEmpty(q.Get("stoneShape"), q.Get("centerStoneShape")))
	if stoneType, err := enums.ParseStoneType(firstNonEmpty(q.Get("stoneType"), q.Get("centerStoneType"))); err == nil {
		route.StoneType = stoneType
	}
	route.Setting = pathSetting
	if route.Setting == "" {
		route.Setting = parseSetting(q.Get("setting"))
	}
	route.Step = normalizeStep(route.Step)
	return route
}

// URLParams are the selection values carried by a studio URL.
type URLParams struct {
	StoneID    *int64
	StoneShape string
	StoneType  enums.StoneType
	ProductID  *int64
	Setting    enums.SettingChoice
}

// Build renders the canonical URL for step. Empty values are omitted.
func (p Paths) Build(step Step, detail Detail, params URLParams) string {
	switch normalizeStep(step) {
	case StepSetting:
		segments := []string{sectionSetting}
		if params.Setting != "" {
			segments = append(segments, params.Setting.String())
			if detail == DetailProduct && params.ProductID != nil {
				segments = append(segments, formatID(*params.ProductID))
			}
		}
		q := url.Values{}
		setID(q, "stone", params.StoneID)
		setValue(q, "stoneShape", params.StoneShape)
		setValue(q, "stoneType", params.StoneType.String())
		return p.join(segments, q)
	case StepSummary:
		segments := []string{sectionSummary}
		if params.Setting != "" {
			segments = append(segments, params.Setting.String())
		}
		q := url.Values{}
		setID(q, "stone", params.StoneID)
		setID(q, "product", params.ProductID)
		return p.join(segments, q)
	default:
		if detail == DetailStone && params.StoneID != nil {
			return p.join([]string{sectionStone, formatID(*params.StoneID)}, nil)
		}
		return p.join(nil, nil)
	}
}

func (p Paths) segments(path string) ([]string, bool) {
	clean := "/" + strings.Trim(path, "/")
	if clean != p.Base && !strings.HasPrefix(clean, p.Base+"/") {
		return nil, false
	}
	rest := strings.Trim(strings.TrimPrefix(clean, p.Base), "/")
	if rest == "" {
		return nil, true
	}
	return strings.Split(rest, "/"), true
}

func (p Paths) join(segments []string, q url.Values) string {
	path := p.Base
	if len(segments) > 0 {
		path += "/" + strings.Join(segments, "/")
	}
	if encoded := q.Encode(); encoded != "" {
		path += "?" + encoded
	}
	return path
}

func segmentAt(segments []string, i int) string {
	if i < len(segments) {
		return segments[i]
	}
	return ""
}

// parseID accepts positive integers only.
func parseID(raw string) *int64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return nil
	}
	return &id
}

func firstID(path *int64, candidates ...string) *int64 {
	if path != nil {
		return path
	}
	for _, raw := range candidates {
		if id := parseID(raw); id != nil {
			return id
		}
	}
	return nil
}

func parseSetting(raw string) enums.SettingChoice {
	choice, err := enums.ParseSettingChoice(raw)
	if err != nil {
		return ""
	}
	return choice
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}

func setID(q url.Values, key string, id *int64) {
	if id != nil {
		q.Set(key, formatID(*id))
	}
}

func setValue(q url.Values, key, value string) {
	if value != "" {
		q.Set(key, value)
	}
}
