// Package testutil holds helpers shared by package tests.
package testutil

import (
	"fmt"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/startrack/intake-backend/internal/config"
	"github.com/startrack/intake-backend/internal/database"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB returns a migrated in-memory database private to the calling test.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// one connection keeps the shared in-memory database alive for the test
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	require.NoError(t, database.SeedRoles(db))
	return db
}

// Config returns a configuration suitable for tests.
func Config() *config.Config {
	return &config.Config{
		ServerHost:           "127.0.0.1",
		ServerPort:           "0",
		DatabaseType:         "sqlite",
		JWTSecret:            "test-secret",
		JWTExpiration:        1,
		ResetPasswordDefault: "123456",
		AdminEmail:           "admin@test.local",
		AdminPassword:        "admin-pass",
		MultiSelectFormat:    config.MultiSelectLegacy,
		RateLimitBurst:       20,
		FromEmail:            "noreply@test.local",
		AppName:              "StarTrack",
		AppURL:               "http://localhost",
	}
}
