package wizard

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/angelmondragon/designstudio-backend/internal/filters"
	"github.com/angelmondragon/designstudio-backend/internal/settingtypes"
	"github.com/angelmondragon/designstudio-backend/pkg/catalog"
	"github.com/angelmondragon/designstudio-backend/pkg/config"
	"github.com/angelmondragon/designstudio-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/designstudio-backend/pkg/errors"
	"github.com/angelmondragon/designstudio-backend/pkg/flight"
	"github.com/angelmondragon/designstudio-backend/pkg/logger"
)

const (
	defaultStonePageSize   = 8
	defaultProductCategory = "pendant"
	defaultProductPageSize = 24
)

// Catalog is the slice of the catalog backend the wizard reads from.
type Catalog interface {
	GetStone(ctx context.Context, id int64) (*catalog.Stone, error)
	GetProduct(ctx context.Context, id int64) (*catalog.ProductDetail, error)
	ListProducts(ctx context.Context, query catalog.ProductQuery) (*catalog.ProductPage, error)
	ListStones(ctx context.Context, query catalog.StoneQuery) (*catalog.StonePage, error)
	StoneFilters(ctx context.Context) (*catalog.StoneFilterOptions, error)
	ProductCategories(ctx context.Context) ([]catalog.ProductCategory, error)
	ResolveImageURL(path string) string
}

// Metrics records reducer outcomes and discarded fetches.
type Metrics interface {
	ObserveTransition(event string, accepted bool)
	IncStaleDiscard(entity string)
}

type Params struct {
	SessionID    string
	Catalog      Catalog
	FilterStore  filters.Store
	SettingTypes *settingtypes.Catalog
	Metrics      Metrics
	Logger       *logger.Logger
	Config       config.WizardConfig
}

// Controller owns one session's wizard. State changes are serialized behind
// mu; catalog fetches run unlocked and commit only while their ticket is the
// latest one issued for that entity type.
type Controller struct {
	sessionID     string
	catalog       Catalog
	store         filters.Store
	types         *settingtypes.Catalog
	metrics       Metrics
	logg          *logger.Logger
	machine       Machine
	productQuery  catalog.ProductQuery
	stonePageSize int
	now           func() time.Time

	mu             sync.Mutex
	state          State
	filterState    filters.State
	options        filters.Options
	optionsLoaded  bool
	products       []Product
	productsLoaded bool
	categories     []catalog.ProductCategory

	stones        *flight.Tracker[int64]
	productFlight *flight.Tracker[int64]
}

func NewController(p Params) (*Controller, error) {
	if p.SessionID == "" {
		return nil, errors.New("session id is required")
	}
	if p.Catalog == nil {
		return nil, errors.New("catalog is required")
	}
	types := p.SettingTypes
	if types == nil {
		types = settingtypes.Default()
	}
	pageSize := p.Config.StonePageSize
	if pageSize <= 0 {
		pageSize = defaultStonePageSize
	}
	category := p.Config.ProductCategory
	if category == "" {
		category = defaultProductCategory
	}
	productPageSize := p.Config.ProductPageSize
	if productPageSize <= 0 {
		productPageSize = defaultProductPageSize
	}

	machine := NewMachine(NewPaths(p.Config.BasePath))
	options := filters.DefaultOptions()
	return &Controller{
		sessionID:     p.SessionID,
		catalog:       p.Catalog,
		store:         p.FilterStore,
		types:         types,
		metrics:       p.Metrics,
		logg:          p.Logger,
		machine:       machine,
		productQuery:  catalog.ProductQuery{CategoryCode: category, Page: 1, PageSize: productPageSize},
		stonePageSize: pageSize,
		now:           time.Now,
		state:         InitialState(machine.paths),
		filterState:   filters.DefaultState(options),
		options:       options,
		stones:        flight.NewTracker[int64](),
		productFlight: flight.NewTracker[int64](),
	}, nil
}

func (c *Controller) SessionID() string {
	return c.sessionID
}

// Open starts the session at rawURL and loads the persisted filters.
func (c *Controller) Open(ctx context.Context, rawURL string) Snapshot {
	if rawURL == "" {
		rawURL = c.machine.paths.Base
	}
	c.navigate(ctx, rawURL)
	c.reloadFilters(ctx)
	return c.Snapshot()
}

// Navigate mirrors rawURL into the state and resolves any ids it references.
func (c *Controller) Navigate(ctx context.Context, rawURL string) Snapshot {
	if entered := c.navigate(ctx, rawURL); entered {
		c.reloadFilters(ctx)
	}
	return c.Snapshot()
}

func (c *Controller) navigate(ctx context.Context, rawURL string) bool {
	route := c.machine.paths.Parse(rawURL)

	c.mu.Lock()
	prev := c.state.Step
	_ = c.apply(Navigate{Route: route})
	plan := c.planHydration(route)
	c.mu.Unlock()

	c.hydrate(ctx, plan)
	return route.Step == StepStone && prev != StepStone
}

// Restore replaces the state with a persisted one and re-resolves its ids.
func (c *Controller) Restore(ctx context.Context, s State) Snapshot {
	s.Step = normalizeStep(s.Step)
	if s.Phase == "" {
		s.Phase = PhaseBrowsing
	}
	if s.Entry == "" {
		s.Entry = EntryGrid
	}
	s.ScrollToTop = false
	s.URL = c.machine.paths.Build(s.Step, s.Detail, s.urlParams())

	c.mu.Lock()
	c.state = s
	if s.StoneResolved() {
		c.stones.Adopt(s.Stone.ID)
	}
	if s.ProductResolved() {
		c.productFlight.Adopt(s.Product.ID)
	}
	plan := c.planHydration(Route{Step: s.Step, Detail: s.Detail, StoneID: s.StoneID, ProductID: s.ProductID})
	c.mu.Unlock()

	c.hydrate(ctx, plan)
	c.reloadFilters(ctx)
	return c.Snapshot()
}

// State returns a copy of the navigation state for persistence.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// ChangeStep moves to step with intent, rejecting disallowed transitions.
func (c *Controller) ChangeStep(ctx context.Context, step Step, intent enums.StepIntent) (Snapshot, error) {
	c.mu.Lock()
	prev := c.state.Step
	err := c.apply(ChangeStep{Step: step, Intent: intent})
	current := c.state.Step
	c.mu.Unlock()
	if err != nil {
		return c.Snapshot(), err
	}

	if current == StepStone && prev != StepStone {
		c.reloadFilters(ctx)
	}
	if current >= StepSetting {
		c.ensureProducts(ctx)
	}
	return c.Snapshot(), nil
}

// StoneMoreInfo opens the detail overlay for stone id.
func (c *Controller) StoneMoreInfo(ctx context.Context, id int64) (Snapshot, error) {
	return c.selectStone(ctx, id, func(stone *catalog.Stone) Event { return StoneMoreInfo{Stone: stone} })
}

// AddPendantFromGrid selects stone id and opens the setting selector.
func (c *Controller) AddPendantFromGrid(ctx context.Context, id int64) (Snapshot, error) {
	return c.selectStone(ctx, id, func(stone *catalog.Stone) Event { return AddPendantFromGrid{Stone: stone} })
}

// AddPendant opens the setting selector for the stone in the detail overlay.
func (c *Controller) AddPendant(_ context.Context) (Snapshot, error) {
	return c.update(AddPendant{})
}

func (c *Controller) selectStone(ctx context.Context, id int64, event func(*catalog.Stone) Event) (Snapshot, error) {
	c.mu.Lock()
	if _, err := c.machine.Apply(c.state, event(&catalog.Stone{ID: id})); err != nil {
		c.observe(event(nil), false)
		c.mu.Unlock()
		return c.Snapshot(), err
	}
	if c.state.StoneResolved() && c.state.Stone.ID == id {
		c.stones.Adopt(id)
		err := c.apply(event(c.state.Stone))
		c.mu.Unlock()
		return c.Snapshot(), err
	}
	ticket := c.stones.Force(id)
	c.mu.Unlock()

	stone, err := c.catalog.GetStone(ctx, id)
	if err != nil {
		c.stones.Fail(ticket)
		return c.Snapshot(), err
	}

	c.mu.Lock()
	if !c.stones.Commit(ticket) {
		c.mu.Unlock()
		c.staleDiscard("stone")
		return c.Snapshot(), nil
	}
	err = c.apply(event(stone))
	c.mu.Unlock()
	return c.Snapshot(), err
}

// SettingTypes lists the selector entries with icons from the catalog.
func (c *Controller) SettingTypes(ctx context.Context) []settingtypes.Option {
	return c.types.WithIcons(c.loadCategories(ctx))
}

// SelectSettingType chooses a setting type, preselects a product and
// advances to step 2. An empty icon falls back to the catalog category icon.
func (c *Controller) SelectSettingType(ctx context.Context, choice enums.SettingChoice, icon string) (Snapshot, error) {
	c.ensureProducts(ctx)
	if icon == "" {
		for _, opt := range c.types.WithIcons(c.loadCategories(ctx)) {
			if opt.Choice == choice {
				icon = opt.IconSVG
			}
		}
	}

	c.mu.Lock()
	err := c.apply(SettingTypeSelected{
		Choice:         choice,
		Icon:           icon,
		Products:       c.products,
		PreferredIndex: c.types.DefaultProductIndex(choice),
	})
	if err == nil && c.state.ProductID != nil {
		c.productFlight.Adopt(*c.state.ProductID)
	}
	c.mu.Unlock()
	return c.Snapshot(), err
}

func (c *Controller) CloseSettingSelector(_ context.Context) (Snapshot, error) {
	return c.update(SelectorClosed{})
}

// ProductMoreInfo opens the product detail, fetching its gallery. When the
// detail fetch fails a product already in the grid is shown without one.
func (c *Controller) ProductMoreInfo(ctx context.Context, id int64) (Snapshot, error) {
	c.ensureProducts(ctx)

	c.mu.Lock()
	if _, err := c.machine.Apply(c.state, ProductMoreInfo{Product: Product{ID: id}}); err != nil {
		c.observe(ProductMoreInfo{}, false)
		c.mu.Unlock()
		return c.Snapshot(), err
	}
	if p := c.state.Product; p != nil && p.ID == id && len(p.Gallery) > 0 {
		err := c.apply(ProductMoreInfo{Product: *p})
		c.mu.Unlock()
		return c.Snapshot(), err
	}
	listed, inList := c.findProduct(id)
	ticket := c.productFlight.Force(id)
	c.mu.Unlock()

	product, err := c.fetchProduct(ctx, id)
	if err != nil {
		if !inList {
			c.productFlight.Fail(ticket)
			return c.Snapshot(), err
		}
		c.warn(ctx, "load product detail failed", err)
		product = listed
	}

	c.mu.Lock()
	if !c.productFlight.Commit(ticket) {
		c.mu.Unlock()
		c.staleDiscard("product")
		return c.Snapshot(), nil
	}
	c.rememberProduct(product)
	err = c.apply(ProductMoreInfo{Product: product})
	c.mu.Unlock()
	return c.Snapshot(), err
}

// CompleteRing confirms product id as a ring and moves to the summary.
func (c *Controller) CompleteRing(ctx context.Context, id int64) (Snapshot, error) {
	c.ensureProducts(ctx)

	c.mu.Lock()
	var product *Product
	if p := c.state.Product; p != nil && p.ID == id {
		product = p
	} else if listed, ok := c.findProduct(id); ok {
		product = &listed
	}
	if product != nil {
		c.productFlight.Adopt(id)
		err := c.apply(CompleteRing{Product: *product})
		c.mu.Unlock()
		return c.Snapshot(), err
	}
	ticket := c.productFlight.Force(id)
	c.mu.Unlock()

	fetched, err := c.fetchProduct(ctx, id)
	if err != nil {
		c.productFlight.Fail(ticket)
		return c.Snapshot(), err
	}

	c.mu.Lock()
	if !c.productFlight.Commit(ticket) {
		c.mu.Unlock()
		c.staleDiscard("product")
		return c.Snapshot(), nil
	}
	c.rememberProduct(fetched)
	err = c.apply(CompleteRing{Product: fetched})
	c.mu.Unlock()
	return c.Snapshot(), err
}

// Confirm confirms the selected product and moves to the summary.
func (c *Controller) Confirm(_ context.Context) (Snapshot, error) {
	return c.update(ConfirmProduct{})
}

func (c *Controller) DetailBack(_ context.Context) (Snapshot, error) {
	return c.update(DetailBack{})
}

func (c *Controller) update(e Event) (Snapshot, error) {
	c.mu.Lock()
	err := c.apply(e)
	c.mu.Unlock()
	return c.Snapshot(), err
}

// apply runs the reducer; callers hold mu.
func (c *Controller) apply(e Event) error {
	next, err := c.machine.Apply(c.state, e)
	c.observe(e, err == nil)
	if err != nil {
		return err
	}
	c.state = next
	if c.state.StoneID == nil {
		c.stones.Reset()
	}
	if c.state.ProductID == nil {
		c.productFlight.Reset()
	}
	return nil
}

type hydrationPlan struct {
	stone     *flight.Ticket[int64]
	loadList  bool
	productID *int64
}

// planHydration decides which fetches route needs; callers hold mu.
func (c *Controller) planHydration(route Route) hydrationPlan {
	var plan hydrationPlan
	if route.StoneID != nil {
		id := *route.StoneID
		if c.state.StoneResolved() && c.state.Stone.ID == id {
			c.stones.Adopt(id)
		} else if ticket, ok := c.stones.Begin(id); ok {
			plan.stone = &ticket
		}
	}
	if (route.Step >= StepSetting || route.Detail == DetailProduct) && !c.productsLoaded {
		plan.loadList = true
	}
	if route.ProductID != nil && !c.state.ProductResolved() {
		id := *route.ProductID
		plan.productID = &id
	}
	return plan
}

func (c *Controller) hydrate(ctx context.Context, plan hydrationPlan) {
	var g errgroup.Group
	if plan.stone != nil {
		ticket := *plan.stone
		g.Go(func() error {
			c.resolveStone(ctx, ticket)
			return nil
		})
	}
	if plan.loadList || plan.productID != nil {
		g.Go(func() error {
			if plan.loadList {
				c.ensureProducts(ctx)
			}
			if plan.productID != nil {
				c.resolveProduct(ctx, *plan.productID)
			}
			return nil
		})
	}
	_ = g.Wait()
}

func (c *Controller) resolveStone(ctx context.Context, ticket flight.Ticket[int64]) {
	stone, err := c.catalog.GetStone(ctx, ticket.ID)
	if err != nil {
		c.stones.Fail(ticket)
		c.warn(ctx, "resolve stone from url failed", err)
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.stones.Commit(ticket) {
		c.staleDiscard("stone")
		return
	}
	if err := c.apply(StoneResolved{Stone: stone}); err != nil {
		c.staleDiscard("stone")
	}
}

func (c *Controller) resolveProduct(ctx context.Context, id int64) {
	c.mu.Lock()
	if c.state.ProductResolved() && c.state.Product.ID == id {
		c.mu.Unlock()
		return
	}
	if listed, ok := c.findProduct(id); ok {
		c.productFlight.Adopt(id)
		_ = c.apply(ProductResolved{Product: listed})
		c.mu.Unlock()
		return
	}
	ticket, ok := c.productFlight.Begin(id)
	c.mu.Unlock()
	if !ok {
		return
	}

	product, err := c.fetchProduct(ctx, id)
	if err != nil {
		c.productFlight.Fail(ticket)
		c.warn(ctx, "resolve product from url failed", err)
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.productFlight.Commit(ticket) {
		c.staleDiscard("product")
		return
	}
	c.rememberProduct(product)
	if err := c.apply(ProductResolved{Product: product}); err != nil {
		c.staleDiscard("product")
	}
}

func (c *Controller) fetchProduct(ctx context.Context, id int64) (Product, error) {
	detail, err := c.catalog.GetProduct(ctx, id)
	if err != nil {
		return Product{}, err
	}
	return ProductFromDetail(*detail, c.catalog.ResolveImageURL), nil
}

// ensureProducts loads the product grid once. Failures are logged and the
// next caller retries.
func (c *Controller) ensureProducts(ctx context.Context) {
	c.mu.Lock()
	loaded := c.productsLoaded
	c.mu.Unlock()
	if loaded {
		return
	}

	page, err := c.catalog.ListProducts(ctx, c.productQuery)
	if err != nil {
		c.warn(ctx, "load product list failed", err)
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.productsLoaded {
		return
	}
	fetched := make([]Product, 0, len(page.Items))
	for _, item := range page.Items {
		fetched = append(fetched, ProductFromSummary(item, c.catalog.ResolveImageURL))
	}
	extra := c.products
	c.products = fetched
	for _, p := range extra {
		c.rememberProduct(p)
	}
	c.productsLoaded = true
}

// findProduct looks id up in the loaded grid; callers hold mu.
func (c *Controller) findProduct(id int64) (Product, bool) {
	for _, p := range c.products {
		if p.ID == id {
			return p, true
		}
	}
	return Product{}, false
}

// rememberProduct appends p to the grid unless already present; callers hold mu.
func (c *Controller) rememberProduct(p Product) {
	if _, ok := c.findProduct(p.ID); ok {
		return
	}
	c.products = append(c.products, p)
}

func (c *Controller) loadCategories(ctx context.Context) []catalog.ProductCategory {
	c.mu.Lock()
	cached := c.categories
	c.mu.Unlock()
	if cached != nil {
		return cached
	}

	categories, err := c.catalog.ProductCategories(ctx)
	if err != nil {
		c.warn(ctx, "load product categories failed", err)
		return nil
	}
	c.mu.Lock()
	c.categories = categories
	c.mu.Unlock()
	return categories
}

// Snapshot renders the current state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.state
	snap := Snapshot{
		SessionID:    c.sessionID,
		Step:         s.Step,
		Phase:        s.Phase,
		Entry:        s.Entry,
		URL:          s.URL,
		ScrollToTop:  s.ScrollToTop,
		SelectorOpen: s.SelectorOpen,
		Setting:      s.Setting,
		SettingIcon:  s.SettingIcon,
		StoneID:      s.StoneID,
		Stone:        NewStoneView(s.Stone, c.catalog.ResolveImageURL),
		ProductID:    s.ProductID,
		Product:      s.Product,
		Filters:      c.filterViewLocked(),
	}
	if s.Detail != DetailNone {
		detail := s.Detail
		snap.Detail = &detail
	}
	if s.StoneID != nil {
		snap.StoneLoading = c.stones.Status(*s.StoneID) == flight.StatusPending
	}
	if s.ProductID != nil {
		snap.ProductLoading = c.productFlight.Status(*s.ProductID) == flight.StatusPending
	}
	return snap
}

func (c *Controller) observe(e Event, accepted bool) {
	if c.metrics == nil || e == nil {
		return
	}
	c.metrics.ObserveTransition(e.Name(), accepted)
}

func (c *Controller) staleDiscard(entity string) {
	if c.metrics != nil {
		c.metrics.IncStaleDiscard(entity)
	}
}

func (c *Controller) warn(ctx context.Context, msg string, err error) {
	if c.logg == nil {
		return
	}
	ctx = c.logg.WithSessionID(ctx, c.sessionID)
	if err != nil {
		ctx = c.logg.WithField(ctx, "error", err.Error())
		if typed := pkgerrors.As(err); typed != nil {
			ctx = c.logg.WithField(ctx, "error_code", string(typed.Code()))
		}
	}
	c.logg.Warn(ctx, msg)
}
