package testutil

import (
	"testing"
	"time"

	"github.com/Baaaki/learning-platform/internal/config"
	"github.com/Baaaki/learning-platform/internal/database"
	"github.com/Baaaki/learning-platform/internal/utils"
	"gorm.io/gorm"
)

const TestSecret = "test-secret-key"

// TestDatabase holds test database connection (in-memory SQLite)
type TestDatabase struct {
	DB  *gorm.DB
	DSN string
}

// SetupTestDatabase creates an in-memory SQLite database migrated with the
// production models. No Docker required.
func SetupTestDatabase(t *testing.T) *TestDatabase {
	dsn := "file::memory:?cache=shared"

	db, err := database.Open(config.DriverSQLite, dsn)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	// A single connection keeps the shared in-memory database free of lock contention
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Failed to get underlying DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := database.Migrate(db); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	return &TestDatabase{
		DB:  db,
		DSN: dsn,
	}
}

// Teardown cleans up the test database (closes connection)
func (td *TestDatabase) Teardown(t *testing.T) {
	if err := database.Close(td.DB); err != nil {
		t.Logf("Warning: Failed to close database: %v", err)
	}
}

// CleanDatabase deletes all records from tables (for test isolation)
func CleanDatabase(t *testing.T, db *gorm.DB) {
	if err := db.Exec("DELETE FROM users").Error; err != nil {
		t.Logf("Warning: Failed to clean table users: %v", err)
	}
}

// NewTokenService returns a token service signed with TestSecret.
func NewTokenService(t *testing.T) *utils.TokenService {
	tokens, err := utils.NewTokenService(utils.TokenConfig{
		SecretKey: TestSecret,
		Algorithm: "HS256",
		Lifetime:  30 * time.Minute,
	})
	if err != nil {
		t.Fatalf("Failed to build token service: %v", err)
	}
	return tokens
}
