package designsessions

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/designstudio-backend/internal/wizard"
	"github.com/angelmondragon/designstudio-backend/pkg/catalog"
	"github.com/angelmondragon/designstudio-backend/pkg/config"
	"github.com/angelmondragon/designstudio-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/designstudio-backend/pkg/errors"
)

type stubCatalog struct{}

func (stubCatalog) GetStone(_ context.Context, id int64) (*catalog.Stone, error) {
	return &catalog.Stone{ID: id, Shape: "round", Type: enums.StoneTypeNatural}, nil
}

func (stubCatalog) GetProduct(context.Context, int64) (*catalog.ProductDetail, error) {
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
}

func (stubCatalog) ListProducts(context.Context, catalog.ProductQuery) (*catalog.ProductPage, error) {
	return &catalog.ProductPage{Items: []catalog.ProductSummary{{ID: 7, Name: "Bezel", Currency: "USD"}}}, nil
}

func (stubCatalog) ListStones(context.Context, catalog.StoneQuery) (*catalog.StonePage, error) {
	return &catalog.StonePage{Items: []catalog.Stone{}}, nil
}

func (stubCatalog) StoneFilters(context.Context) (*catalog.StoneFilterOptions, error) {
	return &catalog.StoneFilterOptions{}, nil
}

func (stubCatalog) ProductCategories(context.Context) ([]catalog.ProductCategory, error) {
	return nil, nil
}

func (stubCatalog) ResolveImageURL(path string) string { return path }

func testSessionConfig() config.SessionConfig {
	return config.SessionConfig{Secret: "test-secret", Issuer: "designstudio", TTLMinutes: 60, IdleEvict: 30 * time.Minute}
}

func newTestService(t *testing.T) (*Service, *Repository) {
	t.Helper()
	repo := NewRepository(setupSessionsTestDB(t))
	factory := func(sessionID string) (*wizard.Controller, error) {
		return wizard.NewController(wizard.Params{SessionID: sessionID, Catalog: stubCatalog{}})
	}
	svc, err := NewService(ServiceParams{Repo: repo, Factory: factory, Session: testSessionConfig()})
	require.NoError(t, err)
	return svc, repo
}

func TestNewServiceValidatesParams(t *testing.T) {
	_, err := NewService(ServiceParams{})
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeValidation))

	repo := NewRepository(setupSessionsTestDB(t))
	factory := func(string) (*wizard.Controller, error) { return nil, nil }
	_, err = NewService(ServiceParams{Repo: repo, Factory: factory})
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeValidation))
}

func TestServiceCreateAndAuthenticate(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, "/design-studio/stone/5")
	require.NoError(t, err)
	assert.NotEmpty(t, created.Token)
	assert.Equal(t, created.SessionID.String(), created.Snapshot.SessionID)
	assert.Equal(t, "/design-studio/stone/5", created.Snapshot.URL)

	id, err := svc.Authenticate(created.Token)
	require.NoError(t, err)
	assert.Equal(t, created.SessionID, id)

	row, err := repo.FindActive(ctx, id, time.Now())
	require.NoError(t, err)
	assert.Equal(t, "/design-studio/stone/5", row.CurrentURL)

	_, err = svc.Authenticate("not-a-token")
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeUnauthorized))
}

func TestServiceDoPersistsState(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, "")
	require.NoError(t, err)

	snap, err := svc.Do(ctx, created.SessionID, func(c *wizard.Controller) (wizard.Snapshot, error) {
		return c.AddPendantFromGrid(ctx, 5)
	})
	require.NoError(t, err)
	assert.True(t, snap.SelectorOpen)

	_, err = svc.Do(ctx, created.SessionID, func(c *wizard.Controller) (wizard.Snapshot, error) {
		return c.SelectSettingType(ctx, enums.SettingChoiceNecklace, "")
	})
	require.NoError(t, err)

	row, err := repo.FindActive(ctx, created.SessionID, time.Now())
	require.NoError(t, err)
	assert.Equal(t, 2, row.Step)
	assert.Equal(t, "/design-studio/setting/necklace?stone=5&stoneShape=Round&stoneType=natural", row.CurrentURL)
}

func TestServiceDoSkipsPersistForRejectedOrNoOpCalls(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, "")
	require.NoError(t, err)
	row, err := repo.FindActive(ctx, created.SessionID, time.Now())
	require.NoError(t, err)
	initialExpiry := row.ExpiresAt

	later := time.Now().Add(10 * time.Minute)
	svc.now = func() time.Time { return later }

	_, err = svc.Do(ctx, created.SessionID, func(c *wizard.Controller) (wizard.Snapshot, error) {
		return c.Confirm(ctx)
	})
	require.True(t, pkgerrors.Is(err, pkgerrors.CodeStateConflict))

	_, err = svc.Do(ctx, created.SessionID, func(c *wizard.Controller) (wizard.Snapshot, error) {
		return c.Snapshot(), nil
	})
	require.NoError(t, err)

	row, err = repo.FindActive(ctx, created.SessionID, time.Now())
	require.NoError(t, err)
	assert.WithinDuration(t, initialExpiry, row.ExpiresAt, time.Second)

	_, err = svc.Do(ctx, created.SessionID, func(c *wizard.Controller) (wizard.Snapshot, error) {
		return c.AddPendantFromGrid(ctx, 5)
	})
	require.NoError(t, err)

	row, err = repo.FindActive(ctx, created.SessionID, time.Now())
	require.NoError(t, err)
	assert.WithinDuration(t, later.Add(testSessionConfig().TTL()), row.ExpiresAt, time.Second)
}

func TestServiceRestoresEvictedController(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, "/design-studio/setting/ring/7?stone=5")
	require.NoError(t, err)
	require.Equal(t, 1, svc.Live())

	assert.Equal(t, 0, svc.Evict(time.Now()))
	assert.Equal(t, 1, svc.Evict(time.Now().Add(time.Hour)))
	assert.Equal(t, 0, svc.Live())

	ctrl, err := svc.Controller(ctx, created.SessionID)
	require.NoError(t, err)
	snap := ctrl.Snapshot()
	assert.Equal(t, wizard.StepSetting, snap.Step)
	require.NotNil(t, snap.Product)
	assert.Equal(t, int64(7), snap.Product.ID)
	require.NotNil(t, snap.Stone)
	assert.Equal(t, int64(5), snap.Stone.ID)
	assert.Equal(t, 1, svc.Live())
}

func TestServiceUnknownSession(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Controller(context.Background(), uuid.New())
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeNotFound))

	err = svc.RecordCart(context.Background(), uuid.New(), "gid://shopify/Cart/1")
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeNotFound))
}

func TestServiceRecordCart(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, "")
	require.NoError(t, err)
	require.NoError(t, svc.RecordCart(ctx, created.SessionID, "gid://shopify/Cart/9"))

	row, err := repo.FindActive(ctx, created.SessionID, time.Now())
	require.NoError(t, err)
	require.NotNil(t, row.CartID)
	assert.Equal(t, "gid://shopify/Cart/9", *row.CartID)
}
