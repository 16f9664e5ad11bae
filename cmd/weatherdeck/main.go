package main

import (
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	httpapi "github.com/weatherdeck/weatherdeck/internal/api/http"
	"github.com/weatherdeck/weatherdeck/internal/config"
	"github.com/weatherdeck/weatherdeck/internal/logging"
	"github.com/weatherdeck/weatherdeck/internal/scheduler"
	"github.com/weatherdeck/weatherdeck/internal/store"
	"github.com/weatherdeck/weatherdeck/internal/weather"
	"github.com/weatherdeck/weatherdeck/internal/weather/providers"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: no .env file found: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	zlog, err := logging.New(cfg.Debug)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer zlog.Sync()

	// Shared HTTP client for outbound provider calls; the timeout is the
	// per-call bound every suspension point inherits.
	httpClient := &http.Client{Timeout: cfg.RequestTimeout}

	backend := providers.NewBackendClient(httpClient, cfg.BackendBaseURL, zlog)
	fallback := providers.NewFallbackClient(httpClient,
		cfg.FallbackWeatherURL, cfg.FallbackAirURL, cfg.FallbackGeocodeURL, zlog)

	service := weather.NewService(weather.Options{
		UseBackend:      cfg.UseBackend,
		FallbackEnabled: cfg.FallbackEnabled,
	}, backend, fallback, zlog)

	snapStore := store.NewMemoryStore(cfg.SnapshotMaxAge)

	sched := scheduler.New(cfg.TrackedCities, cfg.RefreshInterval, 2*time.Minute, service, snapStore, zlog)
	if err := sched.Start(); err != nil {
		zlog.Fatal("failed to start scheduler", zap.Error(err))
	}
	defer sched.Stop()

	app := fiber.New()
	app.Use(recover.New())
	app.Use(logger.New())

	httpapi.RegisterRoutes(app, service, snapStore, zlog)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			zlog.Fatal("server stopped", zap.Error(err))
		}
	}()
	zlog.Info("listening", zap.String("port", cfg.Port))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zlog.Info("shutting down")
	if err := app.Shutdown(); err != nil {
		zlog.Error("shutdown error", zap.Error(err))
	}
}
