package migrate

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/angelmondragon/designstudio-backend/pkg/config"
)

func TestEmbeddedMigrationsAreValid(t *testing.T) {
	require.NoError(t, ValidateFS(Embedded()))
	require.NoError(t, ValidateFS(Source("migrations")))
}

func TestValidateFSRejectsBadNames(t *testing.T) {
	err := ValidateFS(fstest.MapFS{
		"001_bad.sql": {Data: []byte("-- +goose Up\n-- +goose Down\n")},
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), "invalid migration filename")
}

func TestValidateFSRequiresGooseMarkers(t *testing.T) {
	err := ValidateFS(fstest.MapFS{
		"20260101000000_only_up.sql": {Data: []byte("-- +goose Up\nSELECT 1;\n")},
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), "-- +goose Down")
}

func TestValidateFSRejectsDuplicateVersions(t *testing.T) {
	body := []byte("-- +goose Up\n-- +goose Down\n")
	err := ValidateFS(fstest.MapFS{
		"20260101000000_a.sql": {Data: body},
		"20260101000000_b.sql": {Data: body},
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), "duplicate migration version")
}

func TestCreateSQLMigration(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2026, 4, 2, 9, 30, 0, 0, time.UTC)

	path, err := CreateSQLMigration(dir, "Add Stone Cache!", now)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "20260402093000_add_stone_cache.sql"), path)
	require.NoError(t, ValidateFS(os.DirFS(dir)))

	_, err = CreateSQLMigration(dir, "add stone cache", now)
	require.Error(t, err)

	_, err = CreateSQLMigration(dir, "!!!", now)
	require.Error(t, err)
}

func TestDialectFor(t *testing.T) {
	require.Equal(t, goose.DialectSQLite3, DialectFor(config.DBConfig{Driver: "sqlite"}))
	require.Equal(t, goose.DialectPostgres, DialectFor(config.DBConfig{Driver: "postgres"}))
}

func TestRunnerAppliesAndRollsBackOnSQLite(t *testing.T) {
	conn, err := gorm.Open(sqlite.Open("file:migrate_run?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := conn.DB()
	require.NoError(t, err)

	ctx := context.Background()
	runner, err := NewRunner(sqlDB, config.DBConfig{Driver: "sqlite"}, Embedded())
	require.NoError(t, err)

	applied, err := runner.Up(ctx)
	require.NoError(t, err)
	require.Equal(t, []int64{20260301120000}, applied)

	var count int64
	require.NoError(t, conn.Raw("SELECT COUNT(*) FROM design_sessions").Scan(&count).Error)
	require.Zero(t, count)

	version, err := runner.Version(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 20260301120000, version)

	statuses, err := runner.Status(ctx)
	require.NoError(t, err)
	require.Len(t, statuses, 1)
	require.Equal(t, goose.StateApplied, statuses[0].State)

	require.NoError(t, runner.MigrateTo(ctx, 0))
	err = conn.Raw("SELECT COUNT(*) FROM design_sessions").Scan(&count).Error
	require.Error(t, err)
	require.True(t, strings.Contains(err.Error(), "no such table"), err.Error())

	_, err = NewRunner(nil, config.DBConfig{}, Embedded())
	require.Error(t, err)
}
