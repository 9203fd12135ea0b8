package wizard

import (
	"github.com/angelmondragon/designstudio-backend/pkg/catalog"
	"github.com/angelmondragon/designstudio-backend/pkg/enums"
)

// Event is one input to the navigation reducer.
type Event interface {
	Name() string
}

// Navigate mirrors an externally supplied URL into the state.
type Navigate struct{ Route Route }

type ChangeStep struct {
	Step   Step
	Intent enums.StepIntent
}

// StoneMoreInfo opens the stone detail from the grid.
type StoneMoreInfo struct{ Stone *catalog.Stone }

// AddPendantFromGrid picks a stone from the grid and opens the setting selector.
type AddPendantFromGrid struct{ Stone *catalog.Stone }

// AddPendant opens the setting selector for the stone shown in the detail.
type AddPendant struct{}

// SettingTypeSelected closes the selector and advances to step 2 with a
// preselected product from Products.
type SettingTypeSelected struct {
	Choice         enums.SettingChoice
	Icon           string
	Products       []Product
	PreferredIndex int
}

type SelectorClosed struct{}

type ProductMoreInfo struct{ Product Product }

// CompleteRing confirms a product as a ring and jumps to the summary.
type CompleteRing struct{ Product Product }

// ConfirmProduct confirms the selected product and jumps to the summary.
type ConfirmProduct struct{}

// DetailBack hides the current detail overlay.
type DetailBack struct{}

// StoneResolved commits a fetched stone.
type StoneResolved struct{ Stone *catalog.Stone }

// ProductResolved commits a fetched or adopted product.
type ProductResolved struct{ Product Product }

func (Navigate) Name() string            { return "navigate" }
func (ChangeStep) Name() string          { return "change_step" }
func (StoneMoreInfo) Name() string       { return "stone_more_info" }
func (AddPendantFromGrid) Name() string  { return "add_pendant_grid" }
func (AddPendant) Name() string          { return "add_pendant_detail" }
func (SettingTypeSelected) Name() string { return "setting_type_selected" }
func (SelectorClosed) Name() string      { return "selector_closed" }
func (ProductMoreInfo) Name() string     { return "product_more_info" }
func (CompleteRing) Name() string        { return "complete_ring" }
func (ConfirmProduct) Name() string      { return "confirm_product" }
func (DetailBack) Name() string          { return "detail_back" }
func (StoneResolved) Name() string       { return "stone_resolved" }
func (ProductResolved) Name() string     { return "product_resolved" }
