package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("ANSWER_CACHE_TTL", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "askmebuddy.db", cfg.DatabasePath)
	assert.Equal(t, time.Hour, cfg.AnswerCacheTTL)
	assert.Equal(t, 0, cfg.QuestionHistoryLimit)
	assert.Equal(t, "public/audio", cfg.AudioDir)
}

func TestLoadConfig_Env(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("REDIS_URL", "redis://localhost:6379/2")
	t.Setenv("ANSWER_CACHE_TTL", "15m")
	t.Setenv("QUESTION_HISTORY_LIMIT", "100")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "s3cret", cfg.JWTSecret)
	assert.Equal(t, "redis://localhost:6379/2", cfg.RedisURL)
	assert.Equal(t, 15*time.Minute, cfg.AnswerCacheTTL)
	assert.Equal(t, 100, cfg.QuestionHistoryLimit)
}

func TestValidate(t *testing.T) {
	cfg := &Config{
		JWTSecret:                     "x",
		OpenAIAPIKey:                  "sk",
		DiscordBotToken:               "bot",
		DiscordNotificationsChannelID: "chan",
	}
	assert.NoError(t, cfg.Validate())

	cfg.JWTSecret = ""
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}
