package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/user/aimpact-scanner/internal/adapter/chromedp_scraper"
	"github.com/user/aimpact-scanner/internal/adapter/postgres"
	redis_adapter "github.com/user/aimpact-scanner/internal/adapter/redis"
	stripe_adapter "github.com/user/aimpact-scanner/internal/adapter/stripe"
	"github.com/user/aimpact-scanner/internal/delivery/http/handler"
	"github.com/user/aimpact-scanner/internal/delivery/http/router"
	"github.com/user/aimpact-scanner/internal/usecase"
	"github.com/user/aimpact-scanner/pkg/config"
	"github.com/user/aimpact-scanner/pkg/logger"
	"github.com/user/aimpact-scanner/pkg/metrics"
)

func main() {
	// --- Configuration ---
	_ = godotenv.Load() // optional .env for local runs
	cfg := config.Load()

	// --- Logger ---
	logLevel := logger.ParseLevel(cfg.LogLevel)
	logger.Init(os.Stdout, logLevel)
	slog.Info("Logger initialized", "level", logLevel.String())

	// Missing credentials are a startup failure, not a degraded mode.
	if err := cfg.Validate(); err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	// --- Metrics ---
	metrics.Init()
	slog.Info("Metrics initialized")

	// --- External Connections ---
	ctx := context.Background()

	// PostgreSQL
	pgConnString := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		cfg.PostgresUser, cfg.PostgresPassword, cfg.PostgresHost, cfg.PostgresPort, cfg.PostgresDB)
	dbpool, err := pgxpool.New(ctx, pgConnString)
	if err != nil {
		slog.Error("Unable to connect to database", "error", err)
		os.Exit(1)
	}
	defer dbpool.Close()
	slog.Info("PostgreSQL connection pool established")

	// Redis
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		slog.Error("Unable to connect to Redis", "error", err)
		os.Exit(1)
	}
	slog.Info("Redis connection established")

	// Headless browser pool
	scraper, err := chromedp_scraper.NewChromedpScraper(cfg.MaxConcurrency, cfg.NavigationTimeout)
	if err != nil {
		slog.Error("Unable to initialize browser pool", "error", err)
		os.Exit(1)
	}

	// Stripe
	paymentGateway := stripe_adapter.NewGateway(cfg.StripeSecretKey)

	// --- Repositories ---
	analysisRepo := postgres.NewAnalysisRepo(dbpool)
	progressRepo := postgres.NewProgressRepo(dbpool)
	factorRepo := postgres.NewFactorRepo(dbpool)
	userRepo := postgres.NewUserRepo(dbpool)
	inflightRepo := redis_adapter.NewInflightRepo(rdb)

	// --- Use Cases ---
	analysisManager := usecase.NewAnalysisManager(
		analysisRepo, progressRepo, factorRepo, inflightRepo, scraper, cfg.NavigationTimeout)
	checkoutInitiator := usecase.NewCheckoutInitiator(
		userRepo, paymentGateway, cfg.CheckoutSuccessURL, cfg.CheckoutCancelURL)

	// --- HTTP Server ---
	apiHandler := handler.NewHandler(analysisManager, checkoutInitiator)
	httpRouter := router.New(apiHandler)

	server := &http.Server{
		Addr:        ":" + cfg.ServerPort,
		Handler:     httpRouter,
		ReadTimeout: 5 * time.Second,
		// The analyze endpoint runs the full navigation synchronously, so
		// the write timeout must exceed the navigation deadline.
		WriteTimeout: cfg.NavigationTimeout + 30*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	slog.Info("Starting server", "port", cfg.ServerPort)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("Could not listen on port", "port", cfg.ServerPort, "error", err)
		os.Exit(1)
	}
}
