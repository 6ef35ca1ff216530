package testing

import (
	"path/filepath"
	"testing"
	"time"

	"gorm.io/gorm"

	"taskflow-server-go/internal/platform/config"
	"taskflow-server-go/internal/platform/logging"
	"taskflow-server-go/internal/platform/storage"
)

// SetupTestConfig returns a config suitable for unit tests: release mode,
// no redis, database in a per-test temp dir.
func SetupTestConfig(t *testing.T) *config.Config {
	t.Helper()

	cfg := config.DefaultConfig()
	cfg.Server.Mode = "release"
	cfg.Log.Level = "error"
	cfg.Web.Enabled = false
	cfg.Auth.Secret = "test-secret"
	cfg.Auth.TokenTTL = config.Duration(time.Hour)
	cfg.Database.DSN = filepath.Join(t.TempDir(), "test.db")
	return cfg
}

// SetupTestLogger returns a logger that drops all output.
func SetupTestLogger(t *testing.T) *logging.Logger {
	t.Helper()
	return logging.NewDiscard()
}

// SetupTestDB opens a throwaway migrated database in a temp dir.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := storage.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	return db
}

func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func AssertError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error but got nil")
	}
}

func AssertEqual(t *testing.T, expected, actual interface{}) {
	t.Helper()
	if expected != actual {
		t.Fatalf("expected %v, got %v", expected, actual)
	}
}
