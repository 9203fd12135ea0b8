package wizard

import (
	"github.com/angelmondragon/designstudio-backend/pkg/catalog"
	"github.com/angelmondragon/designstudio-backend/pkg/enums"
)

// Phase tracks whether a product has been confirmed and whether returning to
// the setting step should reopen its detail.
type Phase string

const (
	PhaseBrowsing Phase = "browsing"
	// PhaseConfirmed reopens the product detail on the next view of step 2.
	PhaseConfirmed Phase = "confirmed"
	// PhaseConfirmedRevisited is confirmed with the reopen already consumed.
	PhaseConfirmedRevisited Phase = "confirmed_revisited"
)

func (p Phase) IsConfirmed() bool {
	return p == PhaseConfirmed || p == PhaseConfirmedRevisited
}

// Entry remembers whether step 1 was left from the grid or the stone detail.
type Entry string

const (
	EntryGrid   Entry = "grid"
	EntryDetail Entry = "detail"
)

// State is the wizard's full navigation state. StoneID and ProductID are the
// intended selections; Stone and Product hold the resolved entities, which may
// lag behind while a fetch is outstanding.
type State struct {
	Step         Step                `json:"step"`
	Detail       Detail              `json:"detail"`
	Phase        Phase               `json:"phase"`
	Entry        Entry               `json:"entry"`
	StoneID      *int64              `json:"stoneId,omitempty"`
	StoneShape   string              `json:"stoneShape,omitempty"`
	StoneType    enums.StoneType     `json:"stoneType,omitempty"`
	Stone        *catalog.Stone      `json:"stone,omitempty"`
	ProductID    *int64              `json:"productId,omitempty"`
	Product      *Product            `json:"product,omitempty"`
	Setting      enums.SettingChoice `json:"setting,omitempty"`
	SettingIcon  string              `json:"settingIcon,omitempty"`
	SelectorOpen bool                `json:"selectorOpen"`
	ScrollToTop  bool                `json:"scrollToTop"`
	URL          string              `json:"url"`
}

// InitialState is a fresh session on the stone grid.
func InitialState(paths Paths) State {
	s := State{Step: StepStone, Phase: PhaseBrowsing, Entry: EntryGrid}
	s.URL = paths.Build(s.Step, s.Detail, s.urlParams())
	return s
}

// StoneResolved reports whether Stone matches the intended stone.
func (s State) StoneResolved() bool {
	return s.Stone != nil && s.StoneID != nil && s.Stone.ID == *s.StoneID
}

// ProductResolved reports whether Product matches the intended product.
func (s State) ProductResolved() bool {
	return s.Product != nil && s.ProductID != nil && s.Product.ID == *s.ProductID
}

func (s State) urlParams() URLParams {
	return URLParams{
		StoneID:    s.StoneID,
		StoneShape: s.StoneShape,
		StoneType:  s.StoneType,
		ProductID:  s.ProductID,
		Setting:    s.Setting,
	}
}

func (s *State) setStone(stone *catalog.Stone) {
	id := stone.ID
	s.Stone = stone
	s.StoneID = &id
	s.StoneShape = catalog.ShapeLabel(stone.Shape)
	s.StoneType = stone.Type
}

func (s *State) setProduct(p Product) {
	id := p.ID
	s.Product = &p
	s.ProductID = &id
}

func (s *State) clearProduct() {
	s.Product = nil
	s.ProductID = nil
}
