package database

import (
	"context"
	"fmt"

	"github.com/askmebuddy/askmebuddy-api/internal/badges"
	"github.com/askmebuddy/askmebuddy-api/internal/config"
	"github.com/askmebuddy/askmebuddy-api/internal/models"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Connect opens the database, migrates the schema and seeds the badge
// catalog when it is empty.
func Connect(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*gorm.DB, error) {
	db, err := Open(cfg.DatabasePath)
	if err != nil {
		return nil, err
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	if _, err := badges.Seed(ctx, db, logger); err != nil {
		return nil, err
	}

	return db, nil
}

// Open opens a sqlite database at path. Duplicate-key violations are
// reported as gorm.ErrDuplicatedKey.
func Open(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	return db, nil
}

func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.APIKey{},
		&models.Question{},
		&models.Badge{},
		&models.UserBadge{},
	)
	if err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
