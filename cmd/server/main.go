package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/askmebuddy/askmebuddy-api/internal/answer"
	"github.com/askmebuddy/askmebuddy-api/internal/auth"
	"github.com/askmebuddy/askmebuddy-api/internal/badges"
	"github.com/askmebuddy/askmebuddy-api/internal/cache"
	"github.com/askmebuddy/askmebuddy-api/internal/config"
	"github.com/askmebuddy/askmebuddy-api/internal/database"
	"github.com/askmebuddy/askmebuddy-api/internal/handlers"
	"github.com/askmebuddy/askmebuddy-api/internal/logger"
	"github.com/askmebuddy/askmebuddy-api/internal/notifier"
	"github.com/askmebuddy/askmebuddy-api/internal/questions"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := cfg.Validate(); err != nil {
		log.Warn("Incomplete configuration", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Connect to Database
	db, err := database.Connect(ctx, cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}

	catalog := badges.NewCatalog(db, log)
	if err := catalog.Reload(ctx); err != nil {
		log.Fatal("Failed to load badge catalog", zap.Error(err))
	}
	ledger := badges.NewLedger(db)
	questionStore := questions.NewStore(db, cfg.QuestionHistoryLimit)
	evaluator := badges.NewEvaluator(questionStore, catalog, ledger, log)

	answerCache := cache.New(cache.Config{
		RedisURL:        cfg.RedisURL,
		KeyPrefix:       "askmebuddy:",
		CleanupInterval: 5 * time.Minute,
	}, log)
	defer answerCache.Close()

	var answerer answer.Answerer = answer.Offline{}
	if cfg.OpenAIAPIKey != "" {
		openaiAnswerer, err := answer.NewOpenAIAnswerer(answer.OpenAIConfig{
			APIKey:   cfg.OpenAIAPIKey,
			BaseURL:  cfg.OpenAIBaseURL,
			Model:    cfg.OpenAIModel,
			AudioDir: cfg.AudioDir,
		}, log)
		if err != nil {
			log.Fatal("Failed to initialize OpenAI client", zap.Error(err))
		}
		answerer = answer.NewCached(openaiAnswerer, answerCache, cfg.AnswerCacheTTL, log)
	}

	var badgeNotifier notifier.Notifier
	discordNotifier, err := notifier.NewDiscordNotifierFromToken(cfg.DiscordBotToken, cfg.DiscordNotificationsChannelID)
	if err != nil {
		log.Info("Discord notifier not initialized", zap.Error(err))
	} else {
		badgeNotifier = discordNotifier
	}

	authHandler := auth.NewAuthHandler(cfg, db, log)

	var corsOrigin string
	if cfg.EnableCORS {
		corsOrigin = cfg.FrontendURL
	}

	r := chi.NewRouter()
	handlers.RegisterRoutes(r, handlers.Handlers{
		Auth:       authHandler,
		Ask:        handlers.NewAskHandler(db, answerer, questionStore, evaluator, badgeNotifier, log),
		Questions:  handlers.NewQuestionHandler(questionStore, authHandler, log),
		Badges:     handlers.NewBadgeHandler(catalog, ledger, authHandler, log),
		APIKeys:    handlers.NewAPIKeyHandler(db, authHandler),
		AudioDir:   cfg.AudioDir,
		CORSOrigin: corsOrigin,
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("Starting server", zap.String("port", cfg.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Graceful shutdown failed", zap.Error(err))
	}
}
