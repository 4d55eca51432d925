package handlers

import (
	"context"
	"errors"
	"testing"

	"github.com/askmebuddy/askmebuddy-api/internal/auth"
	"github.com/askmebuddy/askmebuddy-api/internal/badges"
	"github.com/askmebuddy/askmebuddy-api/internal/config"
	"github.com/askmebuddy/askmebuddy-api/internal/database"
	"github.com/askmebuddy/askmebuddy-api/internal/models"
	"github.com/askmebuddy/askmebuddy-api/internal/questions"
	"github.com/danielgtaylor/huma/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type testEnv struct {
	db        *gorm.DB
	auth      *auth.AuthHandler
	catalog   *badges.GormCatalog
	ledger    *badges.GormLedger
	store     *questions.Store
	evaluator *badges.Evaluator
	user      models.User
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	// Every new connection to :memory: is a separate database.
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))
	_, err = badges.Seed(context.Background(), db, nil)
	require.NoError(t, err)

	user := models.User{DiscordID: "42", Username: "parent"}
	require.NoError(t, db.Create(&user).Error)

	catalog := badges.NewCatalog(db, nil)
	ledger := badges.NewLedger(db)
	store := questions.NewStore(db, 0)
	return &testEnv{
		db:        db,
		auth:      auth.NewAuthHandler(&config.Config{JWTSecret: "test-secret"}, db, nil),
		catalog:   catalog,
		ledger:    ledger,
		store:     store,
		evaluator: badges.NewEvaluator(store, catalog, ledger, nil),
		user:      user,
	}
}

func (e *testEnv) userCtx() context.Context {
	return context.WithValue(context.Background(), auth.UserIDKey, e.user.ID)
}

func statusOf(t *testing.T, err error) int {
	t.Helper()
	var se huma.StatusError
	require.True(t, errors.As(err, &se), "expected a huma status error, got %v", err)
	return se.GetStatus()
}

// authInput carries no cookie; tests authenticate through the context.
var authInput = auth.AuthInput{}
