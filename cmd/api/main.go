package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bankpulse/dashboard-api/internal/analytics"
	"github.com/bankpulse/dashboard-api/internal/api"
	"github.com/bankpulse/dashboard-api/internal/config"
	"github.com/bankpulse/dashboard-api/internal/metrics"
	"github.com/bankpulse/dashboard-api/internal/notifications"
	"github.com/bankpulse/dashboard-api/internal/overview"
	"github.com/bankpulse/dashboard-api/internal/scheduler"
	"github.com/bankpulse/dashboard-api/internal/scraper"
	"github.com/bankpulse/dashboard-api/internal/sources"
	"github.com/bankpulse/dashboard-api/internal/storage"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func main() {
	// Load environment variables from .env file if it exists
	if err := godotenv.Load(); err != nil {
		logrus.Info("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	setupLogging(cfg)
	logrus.Info("Starting Bank Social Analytics Dashboard API")

	metrics.Register()

	store, closeStore, err := storage.Open(context.Background(), cfg)
	if err != nil {
		logrus.Fatalf("Failed to initialize storage: %v", err)
	}
	defer func() {
		if err := closeStore(); err != nil {
			logrus.Errorf("Failed to close storage: %v", err)
		}
	}()

	repo := sources.NewFileRepository(cfg.PostsCSV, cfg.CommentsCSV, cfg.PrimeCorpus, cfg.OtherBankCorpus)

	mentions, err := analytics.NewMentionCounter(cfg.Analytics.Banks)
	if err != nil {
		logrus.Fatalf("Failed to compile bank patterns: %v", err)
	}

	narrator := overview.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.OpenAIBaseURL, cfg.BrandName)
	if !narrator.Enabled() {
		logrus.Warn("OPENAI_API_KEY is not set, the AI overview will use the keyword fallback")
	}
	overviewCache := overview.NewCache(
		store,
		repo,
		narrator,
		overview.NewFallback(cfg.Analytics.Keywords, cfg.BrandName),
		cfg.OverviewKey,
		cfg.OverviewTTL,
	)

	// a nil *notifications.Service must not end up inside the interface
	var notifier notifications.NotificationInterface
	if notificationService := notifications.NewService(cfg); notificationService.Enabled() {
		notifier = notificationService
	}
	runner := scraper.NewRunner(scraper.NewExecPipeline(cfg.ScraperCommand, cfg.ScraperDir), notifier)

	analyticsService := analytics.NewService(repo, mentions, overviewCache, runner, analytics.Options{
		PostsLimit:    cfg.ActionItemsPostsLimit,
		CommentsLimit: cfg.ActionItemsCommentsLimit,
		TopPostsLimit: cfg.TopPostsLimit,
		Geolocation:   cfg.Analytics.Geolocation,
	})

	schedulerService := scheduler.NewService(cfg, overviewCache, runner)
	if err := schedulerService.Start(); err != nil {
		logrus.Fatalf("Failed to start scheduler: %v", err)
	}
	defer schedulerService.Stop()

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      api.NewServer(analyticsService, overviewCache, runner, cfg.TopPostsLimit).Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 150 * time.Second, // overview refresh waits on the completion API
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logrus.Infof("HTTP server starting on port %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("HTTP server failed: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logrus.Errorf("Server forced to shutdown: %v", err)
	}

	logrus.Info("Server exited")
}

func setupLogging(cfg *config.Config) {
	logrus.SetFormatter(&logrus.JSONFormatter{})

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logrus.Warnf("Unknown LOG_LEVEL %q, using info", cfg.LogLevel)
		level = logrus.InfoLevel
	}
	if cfg.Debug {
		level = logrus.DebugLevel
	}
	logrus.SetLevel(level)
}
