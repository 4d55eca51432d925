package config

import (
	"errors"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port                          string        `mapstructure:"PORT"`
	DatabasePath                  string        `mapstructure:"DATABASE_PATH"`
	JWTSecret                     string        `mapstructure:"JWT_SECRET"`
	FrontendURL                   string        `mapstructure:"FRONTEND_URL"`
	EnableCORS                    bool          `mapstructure:"ENABLE_CORS"`
	LogLevel                      string        `mapstructure:"LOG_LEVEL"`
	LogFormat                     string        `mapstructure:"LOG_FORMAT"`
	DiscordClientID               string        `mapstructure:"DISCORD_CLIENT_ID"`
	DiscordClientSecret           string        `mapstructure:"DISCORD_CLIENT_SECRET"`
	DiscordRedirectURL            string        `mapstructure:"DISCORD_REDIRECT_URL"`
	DiscordBotToken               string        `mapstructure:"DISCORD_BOT_TOKEN"`
	DiscordNotificationsChannelID string        `mapstructure:"DISCORD_NOTIFICATIONS_CHANNEL_ID"`
	OpenAIAPIKey                  string        `mapstructure:"OPENAI_API_KEY"`
	OpenAIBaseURL                 string        `mapstructure:"OPENAI_BASE_URL"`
	OpenAIModel                   string        `mapstructure:"OPENAI_MODEL"`
	AudioDir                      string        `mapstructure:"AUDIO_DIR"`
	RedisURL                      string        `mapstructure:"REDIS_URL"`
	AnswerCacheTTL                time.Duration `mapstructure:"ANSWER_CACHE_TTL"`
	QuestionHistoryLimit          int           `mapstructure:"QUESTION_HISTORY_LIMIT"`
}

func LoadConfig() (*Config, error) {
	v := viper.New()

	v.SetDefault("PORT", "8080")
	v.SetDefault("DATABASE_PATH", "askmebuddy.db")
	v.SetDefault("FRONTEND_URL", "http://127.0.0.1:5173/")
	v.SetDefault("DISCORD_REDIRECT_URL", "http://127.0.0.1:8080/auth/discord/callback")
	v.SetDefault("ENABLE_CORS", false)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("OPENAI_MODEL", "gpt-4o")
	v.SetDefault("AUDIO_DIR", "public/audio")
	v.SetDefault("ANSWER_CACHE_TTL", "1h")
	v.SetDefault("QUESTION_HISTORY_LIMIT", 0)

	for _, key := range []string{
		"JWT_SECRET",
		"DISCORD_CLIENT_ID",
		"DISCORD_CLIENT_SECRET",
		"DISCORD_BOT_TOKEN",
		"DISCORD_NOTIFICATIONS_CHANNEL_ID",
		"OPENAI_API_KEY",
		"OPENAI_BASE_URL",
		"REDIS_URL",
	} {
		if err := v.BindEnv(key); err != nil {
			return nil, err
		}
	}

	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}
	return &config, nil
}

// Validate reports settings that leave parts of the service disabled. The
// server still starts; callers log the result.
func (c *Config) Validate() error {
	var errs []error
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is not set; sessions cannot be issued"))
	}
	if c.OpenAIAPIKey == "" {
		errs = append(errs, errors.New("OPENAI_API_KEY is not set; answers use the offline placeholder"))
	}
	if c.DiscordBotToken == "" || c.DiscordNotificationsChannelID == "" {
		errs = append(errs, errors.New("discord bot token or channel missing; badge notifications disabled"))
	}
	return errors.Join(errs...)
}
