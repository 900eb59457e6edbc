// cmd/server/main.go
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"

	"medtrack/config"
	"medtrack/internal/api"
	"medtrack/internal/auth"
	"medtrack/internal/chat"
	"medtrack/internal/db"
	"medtrack/internal/intake"
	"medtrack/internal/logbook"
	"medtrack/internal/news"
	"medtrack/internal/onboarding"
	"medtrack/internal/profile"
	"medtrack/internal/reminder"
	"medtrack/internal/server"
	"medtrack/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	l := logger.New(cfg.LogLevel)
	l.Info("Starting medtrack server...")

	// Validate critical configuration
	if cfg.LLM.APIKey == "" {
		l.Fatal("LLM API key is not configured")
	}
	if cfg.JWT.Secret == "" {
		l.Fatal("JWT secret is not configured")
	}

	// Initialize database connection with retry
	var database *db.PostgresDB
	maxRetries := 5
	for i := 0; i < maxRetries; i++ {
		database, err = db.NewPostgresDB(cfg.DB)
		if err == nil {
			break
		}
		l.Error("Failed to connect to database, retrying...", err)
		time.Sleep(time.Duration(i+1) * time.Second)
	}
	if database == nil {
		l.Fatal("Failed to connect to database after multiple attempts", err)
	}
	defer database.Close()

	// Initialize redis
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer rdb.Close()
	{
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := rdb.Ping(ctx).Err(); err != nil {
			cancel()
			l.Fatal("Failed to ping redis", err)
		}
		cancel()
	}

	// Wire services
	counters := intake.NewCounters(rdb, l)
	profileService := profile.NewService(database, counters, l)
	onboardingCtrl := onboarding.NewController(profileService)
	logbookService := logbook.NewService(database, counters, l)
	upstream := chat.NewOpenAIUpstream(cfg.LLM.APIKey, cfg.LLM.Model)
	relay := chat.NewRelay(upstream, database, l, cfg.LLM.Timeout)
	newsService := news.NewService(cfg.News.BaseURL, cfg.News.APIKey, rdb, l, cfg.News.CacheTTL)
	authManager := auth.NewManager(cfg.JWT.Secret, cfg.JWT.TTL)

	// Start the daily reminder scheduler
	scheduler := reminder.NewScheduler(database, l, cfg.Scheduler.HourUTC, cfg.Scheduler.DBTimeout)
	scheduler.Start()

	// Start HTTP server
	handler := api.NewHandler(authManager, database, profileService, onboardingCtrl,
		logbookService, counters, relay, newsService, l)
	httpServer := server.NewServer(cfg.Server.Port, api.NewRouter(handler), l)
	go func() {
		if err := httpServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			l.Fatal("Failed to start HTTP server", err)
		}
	}()

	// Wait for termination signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	l.Info("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := httpServer.Stop(ctx); err != nil {
		l.Error("Error during HTTP server shutdown", err)
	}
	if err := scheduler.Stop(ctx); err != nil {
		l.Error("Error during scheduler shutdown", err)
	}

	l.Info("Server stopped successfully")
}
