package db

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/angelmondragon/designstudio-backend/pkg/config"
	"github.com/angelmondragon/designstudio-backend/pkg/logger"
)

type testModel struct {
	ID   int
	Name string
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := conn.AutoMigrate(&testModel{}); err != nil {
		t.Fatalf("failed to migrate sqlite: %v", err)
	}
	return conn
}

func TestQueryLoggerReportsFailedAndSlowQueries(t *testing.T) {
	buf := &bytes.Buffer{}
	logg := logger.New(logger.Options{ServiceName: "test", Output: buf})
	db := newTestDB(t).Session(&gorm.Session{Logger: newQueryLogger(logg, time.Hour)})

	var missing testModel
	_ = db.First(&missing, "name = ?", "nobody").Error
	if buf.Len() != 0 {
		t.Fatalf("missing rows must not be logged, got %s", buf.String())
	}

	_ = db.Exec("SELECT * FROM no_such_table").Error
	if !bytes.Contains(buf.Bytes(), []byte("db.query_failed")) || !bytes.Contains(buf.Bytes(), []byte("no_such_table")) {
		t.Fatalf("expected failed query entry, got %s", buf.String())
	}

	buf.Reset()
	slow := newTestDB(t).Session(&gorm.Session{Logger: newQueryLogger(logg, time.Nanosecond)})
	if err := slow.Create(&testModel{Name: "slow"}).Error; err != nil {
		t.Fatalf("create: %v", err)
	}
	if !bytes.Contains(buf.Bytes(), []byte("db.slow_query")) {
		t.Fatalf("expected slow query entry, got %s", buf.String())
	}

	if newQueryLogger(nil, 0) != gormlogger.Discard {
		t.Fatalf("nil logger should discard")
	}
}

func TestNewRequiresDSN(t *testing.T) {
	if _, err := New(context.Background(), config.DBConfig{}, nil); err == nil {
		t.Fatal("expected missing dsn error")
	}
}

func TestNewOpensSQLite(t *testing.T) {
	client, err := New(context.Background(), config.DBConfig{Driver: "sqlite", DSN: "file:db_new?mode=memory&cache=shared"}, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := client.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

func TestPing(t *testing.T) {
	db := newTestDB(t)
	client := &Client{conn: db}
	if err := client.Ping(context.Background()); err != nil {
		t.Fatalf("unexpected ping error: %v", err)
	}
}

func TestDialectorForSelectsDriver(t *testing.T) {
	if got := dialectorFor(config.DBConfig{Driver: "sqlite", DSN: "file::memory:"}).Name(); got != "sqlite" {
		t.Fatalf("expected sqlite dialector, got %s", got)
	}
	if got := dialectorFor(config.DBConfig{Driver: "postgres", DSN: "postgres://localhost/x"}).Name(); got != "postgres" {
		t.Fatalf("expected postgres dialector, got %s", got)
	}
}

func TestIsNotFound(t *testing.T) {
	db := newTestDB(t)
	var missing testModel
	err := db.First(&missing, "name = ?", "nobody").Error
	if !IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
	if IsNotFound(errors.New("other")) {
		t.Fatalf("plain errors are not not-found")
	}
}

func TestNewFromConnPing(t *testing.T) {
	client := NewFromConn(newTestDB(t))
	if client.DB() == nil {
		t.Fatalf("expected underlying connection")
	}
	if err := client.Ping(context.Background()); err != nil {
		t.Fatalf("unexpected ping error: %v", err)
	}
}
