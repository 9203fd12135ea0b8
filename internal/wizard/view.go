package wizard

import (
	"github.com/angelmondragon/designstudio-backend/internal/filters"
	"github.com/angelmondragon/designstudio-backend/pkg/catalog"
	"github.com/angelmondragon/designstudio-backend/pkg/enums"
)

// StoneView is a stone enriched for display.
type StoneView struct {
	*catalog.Stone
	ShapeLabel     string         `json:"shapeLabel"`
	CertificateURL string         `json:"certificateUrl,omitempty"`
	PrimaryImage   string         `json:"primaryImage,omitempty"`
	Gallery        []GalleryImage `json:"gallery"`
}

// NewStoneView decorates stone; nil in, nil out.
func NewStoneView(stone *catalog.Stone, resolve ImageResolver) *StoneView {
	if stone == nil {
		return nil
	}
	gallery := []GalleryImage{}
	for _, img := range catalog.OrderedImages(stone.Images) {
		url := resolveWith(resolve, img.URL)
		if url == "" {
			continue
		}
		alt := img.Alt
		if alt == "" {
			alt = stone.Name
		}
		gallery = append(gallery, GalleryImage{URL: url, Alt: alt, Badge: img.Badge, Aspect: img.Aspect})
	}
	primary := resolveWith(resolve, stone.PrimaryImageURL)
	if primary == "" && len(gallery) > 0 {
		primary = gallery[0].URL
	}
	return &StoneView{
		Stone:          stone,
		ShapeLabel:     catalog.ShapeLabel(stone.Shape),
		CertificateURL: catalog.CertificateURL(stone),
		PrimaryImage:   primary,
		Gallery:        gallery,
	}
}

// FilterView is the stone browser's state together with its options.
type FilterView struct {
	filters.State
	Options  filters.Options `json:"options"`
	PageSize int             `json:"pageSize"`
}

// Snapshot is the renderable wizard state returned after every operation.
type Snapshot struct {
	SessionID      string              `json:"sessionId"`
	Step           Step                `json:"step"`
	Detail         *Detail             `json:"detail"`
	Phase          Phase               `json:"phase"`
	Entry          Entry               `json:"entry"`
	URL            string              `json:"url"`
	ScrollToTop    bool                `json:"scrollToTop"`
	SelectorOpen   bool                `json:"selectorOpen"`
	Setting        enums.SettingChoice `json:"setting,omitempty"`
	SettingIcon    string              `json:"settingIcon,omitempty"`
	StoneID        *int64              `json:"stoneId,omitempty"`
	Stone          *StoneView          `json:"stone"`
	StoneLoading   bool                `json:"stoneLoading"`
	ProductID      *int64              `json:"productId,omitempty"`
	Product        *Product            `json:"product"`
	ProductLoading bool                `json:"productLoading"`
	Filters        FilterView          `json:"filters"`
}
