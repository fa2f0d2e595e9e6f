package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"

	appLogger "github.com/FACorreiaa/go-travel-places-api/app/logger"
	"github.com/FACorreiaa/go-travel-places-api/app/tracer"
	"github.com/FACorreiaa/go-travel-places-api/config"
	"github.com/FACorreiaa/go-travel-places-api/internal/api/places"
	"github.com/FACorreiaa/go-travel-places-api/internal/api/tripplanner"
	"github.com/FACorreiaa/go-travel-places-api/internal/api/weather"
	"github.com/FACorreiaa/go-travel-places-api/internal/cache"
	api "github.com/FACorreiaa/go-travel-places-api/internal/router"
)

func main() {
	// --- Initial Loading ---
	// Use standard log until slog is configured, in case godotenv fails
	err := godotenv.Load()
	if err != nil {
		log.Println("Warning: .env file not found or error loading:", err)
	}

	cfg, err := config.InitConfig()
	if err != nil {
		log.Fatalf("FATAL: Error initializing config: %v", err)
	}
	if cfg.Providers.Places.APIKey == "" {
		log.Fatal("FATAL: GOOGLE_PLACES_API_KEY is not set")
	}

	// --- Logger Setup ---
	logger := setupLogger(cfg.Mode)
	slog.SetDefault(logger)

	// --- Application Context & Shutdown ---
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// --- Observability ---
	tracer.InitTracingAndMetrics("TravelPlacesAPI", cfg.Server.MetricsPort)

	// --- Dependency Injection ---
	appCache := cache.New()

	placesClient := places.NewClient(
		cfg.Providers.Places.BaseURL,
		cfg.Providers.Places.APIKey,
		cfg.Providers.Places.Timeout,
		logger,
	)
	weatherClient := weather.NewClient(
		cfg.Providers.Weather.BaseURL,
		cfg.Providers.Weather.APIKey,
		cfg.Providers.Weather.Timeout,
		logger,
	)

	tripService := tripplanner.NewService(
		placesClient,
		appCache,
		tripplanner.WellKnownTable(cfg.TripPlanner.WellKnownLocations),
		logger,
	).WithTTLs(cfg.TripPlanner.WellKnownTTL, cfg.TripPlanner.DefaultTTL).
		WithTopRatedLimit(cfg.TripPlanner.TopRatedLimit)

	routerConfig := &api.Config{
		PlacesHandler:      places.NewHandler(placesClient, appCache, logger),
		WeatherHandler:     weather.NewHandler(placesClient, weatherClient, appCache, logger),
		TripPlannerHandler: tripplanner.NewHandler(tripService, logger),
		CORSOrigins:        cfg.Server.CORSOrigins,
	}
	mainRouter := api.SetupRouter(routerConfig)

	// --- Router Setup ---
	router := chi.NewMux()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(appLogger.StructuredLogger(logger))
	router.Use(middleware.Recoverer)
	router.Use(middleware.StripSlashes)
	router.Use(middleware.Timeout(cfg.Server.Timeout))
	router.Use(middleware.Compress(5, "application/json"))
	router.Use(httprate.LimitByIP(cfg.RateLimit.Requests, cfg.RateLimit.Window))
	router.Mount("/", mainRouter)

	// --- HTTP Server Setup ---
	serverAddress := fmt.Sprintf(":%s", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         serverAddress,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	// --- Start Server Goroutine ---
	go func() {
		logger.Info("Starting HTTP server", slog.String("address", serverAddress))
		err := srv.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server ListenAndServe error", slog.Any("error", err))
			cancel() // Trigger shutdown if server fails unexpectedly
		}
	}()

	// --- Wait for Shutdown Signal ---
	<-ctx.Done()

	// --- Graceful Shutdown ---
	logger.Info("Shutdown signal received, starting graceful shutdown...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server graceful shutdown failed", slog.Any("error", err))
	} else {
		logger.Info("HTTP server gracefully stopped")
	}

	logger.Info("Application shut down complete.")
}

// setupLogger configures and returns the application logger.
func setupLogger(mode string) *slog.Logger {
	var logger *slog.Logger

	if mode == "development" || mode == "" { // Default to development if not set
		// Colored logs for development
		tintOpts := &tint.Options{
			Level:      slog.LevelDebug, // More verbose in dev
			TimeFormat: time.Kitchen,
			AddSource:  true,
		}
		logger = slog.New(tint.NewHandler(os.Stdout, tintOpts))
		log.Println("Initialized development logger (tint)")
	} else {
		// JSON logs for production or other environments
		jsonOpts := &slog.HandlerOptions{
			Level:     slog.LevelInfo,
			AddSource: false,
		}
		logger = slog.New(slog.NewJSONHandler(os.Stdout, jsonOpts))
		log.Println("Initialized production logger (JSON)")
	}
	return logger
}
