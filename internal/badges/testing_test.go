package badges

import (
	"context"
	"testing"

	"github.com/askmebuddy/askmebuddy-api/internal/models"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// Every new connection to :memory: is a separate database.
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.Question{}, &models.Badge{}, &models.UserBadge{}))
	return db
}

func newSeededDB(t *testing.T) *gorm.DB {
	t.Helper()
	db := newTestDB(t)
	_, err := Seed(context.Background(), db, nil)
	require.NoError(t, err)
	return db
}

func badgeByName(t *testing.T, db *gorm.DB, name string) models.Badge {
	t.Helper()
	var b models.Badge
	require.NoError(t, db.Where("name = ?", name).First(&b).Error)
	return b
}
