package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/joho/godotenv"

	"github.com/ahmetcoskunkizilkaya/sewage-tracker/internal/assets"
	"github.com/ahmetcoskunkizilkaya/sewage-tracker/internal/cache"
	"github.com/ahmetcoskunkizilkaya/sewage-tracker/internal/config"
	"github.com/ahmetcoskunkizilkaya/sewage-tracker/internal/database"
	"github.com/ahmetcoskunkizilkaya/sewage-tracker/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/sewage-tracker/internal/logging"
	"github.com/ahmetcoskunkizilkaya/sewage-tracker/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/sewage-tracker/internal/routes"
	"github.com/ahmetcoskunkizilkaya/sewage-tracker/internal/services"
	"github.com/ahmetcoskunkizilkaya/sewage-tracker/internal/storage"
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

func main() {
	// .env is optional
	envErr := godotenv.Load()

	cfg := config.Load()
	stdout := logging.Setup(cfg.AppEnv)
	if envErr == nil {
		slog.Info("loaded .env file")
	}

	if cfg.AdminAuthRequired && cfg.JWTSecret == "" {
		slog.Error("JWT_SECRET is required when ADMIN_AUTH_REQUIRED is set")
		os.Exit(1)
	}

	// Database
	if err := database.Connect(cfg); err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	if cfg.AutoMigrate {
		if err := database.Migrate(database.DB); err != nil {
			slog.Error("migration failed", "error", err)
			os.Exit(1)
		}
		slog.Info("migrations applied")
	}

	// PostgreSQL log handler (ERROR+ async batch)
	pgLogHandler := logging.NewPGHandler(database.DB)
	slog.SetDefault(slog.New(logging.NewMultiHandler(stdout, pgLogHandler)))

	cleanupDone := make(chan struct{})
	logging.StartCleanup(database.DB, cfg.LogRetentionDays, cleanupDone)

	// Asset store (nil when unprovisioned)
	assetStore, err := assets.Open(cfg)
	if err != nil {
		slog.Error("asset store unavailable, image uploads will fail", "error", err)
		assetStore = nil
	}

	// Stats cache (optional)
	var statsCache cache.StatsCache
	var cachePinger handlers.Pinger
	if cfg.RedisAddr != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		rdb, err := cache.Connect(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		cancel()
		if err != nil {
			slog.Warn("stats cache disabled", "error", err)
		} else {
			defer rdb.Close()
			rc := cache.NewRedisStatsCache(rdb, cfg.StatsCacheTTL)
			statsCache = rc
			cachePinger = rc
			slog.Info("stats cache connected", "addr", cfg.RedisAddr)
		}
	}

	// Services
	store := storage.NewGormComplaintStore(database.DB)
	complaintService := services.NewComplaintService(store, assetStore, statsCache)
	authService := services.NewAuthService(cfg)

	// Handlers
	_, usernameSet := os.LookupEnv("ADMIN_USERNAME")
	_, passwordSet := os.LookupEnv("ADMIN_PASSWORD")
	h := routes.Handlers{
		Complaint: handlers.NewComplaintHandler(complaintService),
		Auth:      handlers.NewAuthHandler(authService),
		Health: handlers.NewHealthHandler(handlers.HealthDeps{
			Records:          store,
			ImageStoreReady:  assetStore != nil,
			Cache:            cachePinger,
			AdminUsernameSet: usernameSet,
			AdminPasswordSet: passwordSet,
		}),
	}

	// Sentry error tracking
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      cfg.AppEnv,
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	// Fiber app
	app := fiber.New(fiber.Config{
		BodyLimit:    cfg.MaxUploadBytes,
		ErrorHandler: handlers.ErrorHandler,
	})

	app.Use(sentryfiber.New(sentryfiber.Options{
		Repanic:         true,
		WaitForDelivery: false,
	}))

	// Global middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path} | ${locals:requestid}\n",
	}))
	app.Use(middleware.CORS(cfg))
	app.Use(middleware.SecurityHeaders())

	routes.Setup(app, cfg, h)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "port", cfg.Port, "prefix", cfg.APIPrefix)
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-quit
	slog.Info("shutting down server...")

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	close(cleanupDone)
	pgLogHandler.Stop()
	sentry.Flush(2 * time.Second)

	if err := database.Close(); err != nil {
		slog.Error("database close error", "error", err)
	}

	slog.Info("server stopped")
}
