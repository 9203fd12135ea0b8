package designsessions

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/angelmondragon/designstudio-backend/pkg/db"
	"github.com/angelmondragon/designstudio-backend/pkg/db/models"
	"github.com/angelmondragon/designstudio-backend/pkg/types"
)

func setupSessionsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file:"+uuid.NewString()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	designSessions := `
CREATE TABLE IF NOT EXISTS design_sessions (
  id TEXT PRIMARY KEY,
  step INTEGER NOT NULL DEFAULT 1,
  current_url TEXT NOT NULL,
  state TEXT NOT NULL,
  cart_id TEXT,
  expires_at DATETIME NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, conn.Exec(designSessions).Error)

	sqlDB, err := conn.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return conn
}

func newSessionRow(t *testing.T, expiresAt time.Time) *models.DesignSession {
	t.Helper()
	state, err := types.NewJSONDocument(map[string]any{"step": 1})
	require.NoError(t, err)
	return &models.DesignSession{
		ID:         uuid.New(),
		Step:       1,
		CurrentURL: "/design-studio",
		State:      state,
		ExpiresAt:  expiresAt.UTC(),
	}
}

func TestRepositoryCreateAndFindActive(t *testing.T) {
	repo := NewRepository(setupSessionsTestDB(t))
	ctx := context.Background()
	now := time.Now().UTC()

	row := newSessionRow(t, now.Add(time.Hour))
	require.NoError(t, repo.Create(ctx, row))

	found, err := repo.FindActive(ctx, row.ID, now)
	require.NoError(t, err)
	assert.Equal(t, row.ID, found.ID)
	assert.Equal(t, "/design-studio", found.CurrentURL)
	assert.JSONEq(t, `{"step":1}`, string(found.State))
	assert.Nil(t, found.CartID)

	_, err = repo.FindActive(ctx, row.ID, now.Add(2*time.Hour))
	assert.True(t, db.IsNotFound(err))

	_, err = repo.FindActive(ctx, uuid.New(), now)
	assert.True(t, db.IsNotFound(err))
}

func TestRepositoryCreateRejectsMissingID(t *testing.T) {
	repo := NewRepository(setupSessionsTestDB(t))
	assert.ErrorIs(t, repo.Create(context.Background(), &models.DesignSession{}), gorm.ErrInvalidValue)
}

func TestRepositorySaveStateSlidesExpiry(t *testing.T) {
	repo := NewRepository(setupSessionsTestDB(t))
	ctx := context.Background()
	now := time.Now().UTC()

	row := newSessionRow(t, now.Add(time.Minute))
	require.NoError(t, repo.Create(ctx, row))

	state, err := types.NewJSONDocument(map[string]any{"step": 2})
	require.NoError(t, err)
	require.NoError(t, repo.SaveState(ctx, row.ID, StateUpdate{
		Step:       2,
		CurrentURL: "/design-studio/setting/ring?stone=42",
		State:      state,
		ExpiresAt:  now.Add(48 * time.Hour),
	}))

	found, err := repo.FindActive(ctx, row.ID, now.Add(24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 2, found.Step)
	assert.Equal(t, "/design-studio/setting/ring?stone=42", found.CurrentURL)
	assert.JSONEq(t, `{"step":2}`, string(found.State))

	err = repo.SaveState(ctx, uuid.New(), StateUpdate{State: state, ExpiresAt: now})
	assert.True(t, db.IsNotFound(err))
}

func TestRepositorySetCartID(t *testing.T) {
	repo := NewRepository(setupSessionsTestDB(t))
	ctx := context.Background()
	now := time.Now().UTC()

	row := newSessionRow(t, now.Add(time.Hour))
	require.NoError(t, repo.Create(ctx, row))
	require.NoError(t, repo.SetCartID(ctx, row.ID, "gid://shopify/Cart/1"))

	found, err := repo.FindActive(ctx, row.ID, now)
	require.NoError(t, err)
	require.NotNil(t, found.CartID)
	assert.Equal(t, "gid://shopify/Cart/1", *found.CartID)

	assert.True(t, db.IsNotFound(repo.SetCartID(ctx, uuid.New(), "x")))
}

func TestRepositoryDeleteExpired(t *testing.T) {
	repo := NewRepository(setupSessionsTestDB(t))
	ctx := context.Background()
	now := time.Now().UTC()

	expired := newSessionRow(t, now.Add(-time.Hour))
	live := newSessionRow(t, now.Add(time.Hour))
	require.NoError(t, repo.Create(ctx, expired))
	require.NoError(t, repo.Create(ctx, live))

	purged, err := repo.DeleteExpired(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), purged)

	_, err = repo.FindActive(ctx, live.ID, now)
	assert.NoError(t, err)
}
