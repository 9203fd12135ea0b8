package wizard

import (
	"context"

	"github.com/angelmondragon/designstudio-backend/internal/filters"
	"github.com/angelmondragon/designstudio-backend/pkg/catalog"
	"github.com/angelmondragon/designstudio-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/designstudio-backend/pkg/errors"
)

// StoneList is one page of the stone browser.
type StoneList struct {
	Items      []StoneView         `json:"items"`
	Pagination *catalog.Pagination `json:"pagination,omitempty"`
	Filters    FilterView          `json:"filters"`
}

// Filters returns the stone browser state with its options.
func (c *Controller) Filters(ctx context.Context) FilterView {
	c.ensureOptions(ctx)
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filterViewLocked()
}

// UpdateFilters replaces the filter values and resets paging.
func (c *Controller) UpdateFilters(ctx context.Context, f filters.StoneFilters) FilterView {
	opts := c.ensureOptions(ctx)
	return c.changeFilters(ctx, func(s filters.State) (filters.State, error) {
		return s.WithFilters(f, opts), nil
	})
}

// ClickBand applies a click on the index-th code of band.
func (c *Controller) ClickBand(ctx context.Context, band filters.Band, index int) (FilterView, error) {
	opts := c.ensureOptions(ctx)
	var clickErr error
	view := c.changeFilters(ctx, func(s filters.State) (filters.State, error) {
		next, err := s.ClickBand(band, index, opts)
		if err != nil {
			clickErr = pkgerrors.Wrap(pkgerrors.CodeValidation, err, err.Error())
		}
		return next, clickErr
	})
	return view, clickErr
}

func (c *Controller) SetShape(ctx context.Context, shape string) FilterView {
	return c.changeFilters(ctx, func(s filters.State) (filters.State, error) {
		return s.WithShape(shape), nil
	})
}

func (c *Controller) SetSort(ctx context.Context, sort enums.StoneSort) FilterView {
	return c.changeFilters(ctx, func(s filters.State) (filters.State, error) {
		return s.WithSort(sort), nil
	})
}

func (c *Controller) SetPage(ctx context.Context, page int) FilterView {
	return c.changeFilters(ctx, func(s filters.State) (filters.State, error) {
		return s.WithPage(page), nil
	})
}

// Stones lists the current page of stones for the browser's filters.
func (c *Controller) Stones(ctx context.Context, stoneType enums.StoneType) (*StoneList, error) {
	opts := c.ensureOptions(ctx)
	c.mu.Lock()
	query := c.filterState.StoneQuery(opts, c.stonePageSize, stoneType)
	c.mu.Unlock()

	page, err := c.catalog.ListStones(ctx, query)
	if err != nil {
		return nil, err
	}
	items := make([]StoneView, 0, len(page.Items))
	for i := range page.Items {
		items = append(items, *NewStoneView(&page.Items[i], c.catalog.ResolveImageURL))
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	return &StoneList{Items: items, Pagination: page.Pagination, Filters: c.filterViewLocked()}, nil
}

func (c *Controller) changeFilters(ctx context.Context, change func(filters.State) (filters.State, error)) FilterView {
	c.mu.Lock()
	next, err := change(c.filterState)
	if err != nil {
		view := c.filterViewLocked()
		c.mu.Unlock()
		return view
	}
	c.filterState = next
	persist := c.state.Step == StepStone
	view := c.filterViewLocked()
	c.mu.Unlock()

	if persist {
		c.saveFilters(ctx, next)
	}
	return view
}

// reloadFilters restores the persisted bundle, or the defaults when none is
// usable.
func (c *Controller) reloadFilters(ctx context.Context) {
	opts := c.ensureOptions(ctx)
	state := filters.DefaultState(opts)
	if c.store != nil {
		bundle, err := c.store.Load(ctx, c.sessionID)
		if err != nil {
			c.warn(ctx, "load filter bundle failed", err)
		} else if bundle != nil {
			state = filters.FromBundle(*bundle, opts)
		}
	}
	c.mu.Lock()
	c.filterState = state
	c.mu.Unlock()
}

func (c *Controller) saveFilters(ctx context.Context, s filters.State) {
	if c.store == nil {
		return
	}
	if err := c.store.Save(ctx, c.sessionID, filters.NewBundle(s, c.now())); err != nil {
		c.warn(ctx, "save filter bundle failed", err)
	}
}

// ensureOptions loads the filter options once. A failed load keeps the
// defaults and is retried on the next call.
func (c *Controller) ensureOptions(ctx context.Context) filters.Options {
	c.mu.Lock()
	if c.optionsLoaded {
		opts := c.options
		c.mu.Unlock()
		return opts
	}
	c.mu.Unlock()

	src, err := c.catalog.StoneFilters(ctx)
	if err != nil {
		c.warn(ctx, "load stone filter options failed", err)
		c.mu.Lock()
		defer c.mu.Unlock()
		return c.options
	}

	opts := filters.OptionsFromCatalog(src)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.options = opts
	c.optionsLoaded = true
	return opts
}

// filterViewLocked renders the browser state; callers hold mu.
func (c *Controller) filterViewLocked() FilterView {
	return FilterView{State: c.filterState, Options: c.options, PageSize: c.stonePageSize}
}
