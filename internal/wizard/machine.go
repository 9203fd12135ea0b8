package wizard

import (
	"fmt"

	"github.com/angelmondragon/designstudio-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/designstudio-backend/pkg/errors"
)

// Machine is the single reducer for every navigation event.
type Machine struct {
	paths Paths
}

func NewMachine(paths Paths) Machine {
	return Machine{paths: paths}
}

// Apply computes the state following e. A rejected event returns s unchanged
// together with a STATE_CONFLICT error. Every accepted event re-renders URL.
func (m Machine) Apply(s State, e Event) (State, error) {
	next := s
	next.ScrollToTop = false

	var err error
	switch ev := e.(type) {
	case Navigate:
		m.navigate(&next, ev.Route)
	case ChangeStep:
		err = m.changeStep(&next, ev)
	case StoneMoreInfo:
		if err = requireStep(s, StepStone, e); err == nil {
			next.setStone(ev.Stone)
			next.Detail = DetailStone
			next.Entry = EntryDetail
		}
	case AddPendantFromGrid:
		if err = requireStep(s, StepStone, e); err == nil {
			next.setStone(ev.Stone)
			next.Detail = DetailNone
			next.Entry = EntryGrid
			next.SelectorOpen = true
		}
	case AddPendant:
		if err = requireStep(s, StepStone, e); err == nil {
			if !s.StoneResolved() {
				err = conflict(e, "no stone selected")
			} else {
				next.Entry = EntryDetail
				next.SelectorOpen = true
			}
		}
	case SettingTypeSelected:
		err = m.settingTypeSelected(&next, ev)
	case SelectorClosed:
		next.SelectorOpen = false
	case ProductMoreInfo:
		if err = requireStep(s, StepSetting, e); err == nil {
			next.setProduct(ev.Product)
			next.Detail = DetailProduct
			next.Phase = PhaseBrowsing
		}
	case CompleteRing:
		next.setProduct(ev.Product)
		next.Setting = enums.SettingChoiceRing
		m.confirm(&next)
	case ConfirmProduct:
		if !s.ProductResolved() || s.Setting == "" {
			err = conflict(e, "no product selected")
		} else {
			m.confirm(&next)
		}
	case DetailBack:
		if next.Detail == DetailProduct {
			next.Phase = PhaseBrowsing
		}
		next.Detail = DetailNone
	case StoneResolved:
		if s.StoneID != nil && *s.StoneID != ev.Stone.ID {
			return s, conflict(e, "stone no longer selected")
		}
		shape, stoneType := s.StoneShape, s.StoneType
		next.setStone(ev.Stone)
		if shape != "" {
			next.StoneShape = shape
		}
		if stoneType != "" {
			next.StoneType = stoneType
		}
		if next.Step == StepStone && next.Detail == DetailStone {
			next.Entry = EntryDetail
		}
	case ProductResolved:
		if s.ProductID != nil && *s.ProductID != ev.Product.ID {
			return s, conflict(e, "product no longer selected")
		}
		next.setProduct(ev.Product)
	default:
		return s, pkgerrors.New(pkgerrors.CodeInternal, fmt.Sprintf("unknown wizard event %T", e))
	}
	if err != nil {
		return s, err
	}

	next.URL = m.paths.Build(next.Step, next.Detail, next.urlParams())
	return next, nil
}

func (m Machine) navigate(s *State, r Route) {
	s.Step = r.Step
	s.Detail = r.Detail
	s.SelectorOpen = false
	if r.StoneID != nil {
		if s.StoneID == nil || *s.StoneID != *r.StoneID {
			s.Stone = nil
			s.StoneShape = ""
			s.StoneType = ""
		}
		id := *r.StoneID
		s.StoneID = &id
	}
	if r.StoneShape != "" {
		s.StoneShape = r.StoneShape
	}
	if r.StoneType != "" {
		s.StoneType = r.StoneType
	}
	if r.ProductID != nil {
		if s.ProductID == nil || *s.ProductID != *r.ProductID {
			s.Product = nil
		}
		id := *r.ProductID
		s.ProductID = &id
	}
	if r.Setting != "" {
		s.Setting = r.Setting
		if s.Step == StepSummary && s.Phase == PhaseBrowsing && s.ProductResolved() {
			s.Phase = PhaseConfirmedRevisited
		}
	}
}

func (m Machine) changeStep(s *State, ev ChangeStep) error {
	if ev.Step == s.Step {
		return nil
	}
	isChange := ev.Intent.IsChange()

	switch ev.Step {
	case StepStone:
		if s.Step == StepSummary || s.Phase == PhaseConfirmed || isChange {
			s.clearProduct()
			s.Setting = ""
			s.SettingIcon = ""
			s.Phase = PhaseBrowsing
		}
		if isChange {
			s.Entry = EntryGrid
		}
		s.Detail = DetailNone
		if s.Entry == EntryDetail && s.StoneResolved() && !isChange {
			s.Detail = DetailStone
		}
	case StepSetting:
		if !s.StoneResolved() || s.Setting == "" {
			return conflict(ev, "a stone and a setting type are required")
		}
		s.Detail = DetailNone
		if ev.Intent == enums.StepIntentView {
			switch {
			case s.Phase == PhaseConfirmed && s.ProductResolved():
				s.Detail = DetailProduct
			case s.Entry == EntryDetail && s.StoneResolved():
				s.Detail = DetailStone
			}
			if s.Phase == PhaseConfirmed {
				s.Phase = PhaseConfirmedRevisited
			}
		}
	case StepSummary:
		urlRoute := m.paths.Parse(s.URL)
		if !s.Phase.IsConfirmed() && !urlRoute.HasSelectionParams() && !s.ProductResolved() {
			return conflict(ev, "no confirmed product")
		}
		s.Detail = DetailNone
	default:
		return conflict(ev, fmt.Sprintf("unknown step %d", ev.Step))
	}
	s.Step = ev.Step
	return nil
}

func (m Machine) settingTypeSelected(s *State, ev SettingTypeSelected) error {
	if !ev.Choice.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid setting choice %q", ev.Choice))
	}
	if !s.StoneResolved() {
		return conflict(ev, "no stone selected")
	}
	cameFromDetail := s.Detail == DetailStone
	s.SelectorOpen = false
	s.Detail = DetailNone
	s.Phase = PhaseBrowsing
	if cameFromDetail {
		s.Entry = EntryDetail
	} else {
		s.Entry = EntryGrid
	}
	s.Setting = ev.Choice
	s.SettingIcon = ev.Icon
	s.clearProduct()
	if preferred, ok := preferredProduct(ev.Products, ev.PreferredIndex); ok {
		s.setProduct(preferred)
	}
	s.setStone(s.Stone)
	s.Step = StepSetting
	s.ScrollToTop = true
	return nil
}

func (m Machine) confirm(s *State) {
	s.Detail = DetailNone
	s.Phase = PhaseConfirmed
	s.Step = StepSummary
}

func preferredProduct(products []Product, index int) (Product, bool) {
	if index >= 0 && index < len(products) {
		return products[index], true
	}
	if len(products) > 0 {
		return products[0], true
	}
	return Product{}, false
}

func requireStep(s State, step Step, e Event) error {
	if s.Step != step {
		return conflict(e, fmt.Sprintf("only available on step %d", step))
	}
	return nil
}

func conflict(e Event, reason string) error {
	return pkgerrors.New(pkgerrors.CodeStateConflict, reason).WithDetails(map[string]any{
		"event": e.Name(),
	})
}
