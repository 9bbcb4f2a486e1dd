package database

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/glebarez/sqlite"
	"github.com/startrack/intake-backend/internal/config"
	"github.com/startrack/intake-backend/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open connects to the configured store and migrates the schema.
func Open(cfg *config.Config) (*gorm.DB, error) {
	var dialector gorm.Dialector

	switch cfg.DatabaseType {
	case "postgres":
		dialector = postgres.Open(cfg.DatabaseURL)
	default:
		dialector = sqlite.Open(cfg.DatabaseURL)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(parseLogLevel(cfg.DBLogLevel)),
	})
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", cfg.DatabaseType, err)
	}
	slog.Info("database connected", "type", cfg.DatabaseType)

	if err := Migrate(db); err != nil {
		return nil, err
	}
	if err := SeedRoles(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate creates or updates every table the service uses.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.Role{},
		&models.User{},
		&models.Project{},
		&models.GroupMemberRow{},
		&models.OutputRow{},
		&models.CollaborationRow{},
		&models.ExternalAdvisorRow{},
		&models.SubContractorRow{},
		&models.PpiRow{},
		&models.OtrRow{},
		&models.FundingRow{},
		&models.FundingOverviewRow{},
	)
	if err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

// SeedRoles makes sure the built-in roles exist.
func SeedRoles(db *gorm.DB) error {
	for _, name := range []string{models.RoleUser, models.RoleAdmin} {
		var role models.Role
		err := db.Where("name = ?", name).First(&role).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("look up role %s: %w", name, err)
		}
		if err := db.Create(&models.Role{Name: name}).Error; err != nil {
			return fmt.Errorf("seed role %s: %w", name, err)
		}
		slog.Info("seeded role", "name", name)
	}
	return nil
}

// Ping reports whether the underlying connection is usable.
func Ping(db *gorm.DB) bool {
	if db == nil {
		return false
	}
	sqlDB, err := db.DB()
	if err != nil {
		return false
	}
	return sqlDB.Ping() == nil
}

func parseLogLevel(level string) logger.LogLevel {
	switch level {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	default:
		return logger.Warn
	}
}
