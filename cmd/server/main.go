// Package main is the entry point for the travel booking orchestration service.
//
//	@title						Travel Booking Orchestration API
//	@version					1.0.0
//	@description				Books cached flight and hotel offers for paid itineraries against the travel provider, with provider failure classification and retry scheduling.
//
//	@contact.name				API Support
//	@contact.url				https://github.com/Jake-Oz/travel-ai/issues
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/api/v1
//
//	@schemes					http https
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

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	echoSwagger "github.com/swaggo/echo-swagger"

	// Import generated docs for swagger
	_ "github.com/Jake-Oz/travel-ai/docs"

	bookinghttp "github.com/Jake-Oz/travel-ai/internal/adapter/http"
	"github.com/Jake-Oz/travel-ai/internal/adapter/http/middleware"
	"github.com/Jake-Oz/travel-ai/internal/adapter/provider/amadeus"
	"github.com/Jake-Oz/travel-ai/internal/adapter/store"
	"github.com/Jake-Oz/travel-ai/internal/config"
	"github.com/Jake-Oz/travel-ai/internal/domain"
	"github.com/Jake-Oz/travel-ai/internal/infrastructure/logger"
	"github.com/Jake-Oz/travel-ai/internal/infrastructure/timeutil"
	"github.com/Jake-Oz/travel-ai/internal/usecase"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.MustLoad()

	logger.Init(logger.Config{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		ServiceName: "travel-ai",
	})
	log := logger.Global

	log.Info().
		Str("env", cfg.App.Env).
		Int("port", cfg.Server.Port).
		Bool("provider_configured", cfg.Provider.Configured()).
		Bool("redis_enabled", cfg.Redis.Enabled).
		Msg("Configuration loaded")

	// Provider transport
	provider := amadeus.New(amadeus.Config{
		BaseURL: cfg.Provider.BaseURL,
		Credentials: amadeus.Credentials{
			ClientID:     cfg.Provider.ClientID,
			ClientSecret: cfg.Provider.ClientSecret,
		},
		MaxAttempts:       cfg.Retry.TransportAttempts,
		BaseDelay:         cfg.Retry.TransportBaseDelay,
		MaxDelay:          cfg.Retry.TransportMaxDelay,
		RequestsPerSecond: cfg.Provider.RequestsPerSecond,
		Burst:             cfg.Provider.Burst,
		Logger:            log,
	})

	// Persistence and notification collaborators
	bookingStore := newBookingStore(cfg, log)
	notifier := store.NewLogNotifier(log)

	// Reconciliation driver
	service := usecase.NewBookingService(provider, bookingStore, notifier,
		&usecase.Config{
			BookingAttempts:  cfg.Retry.BookingAttempts,
			BookingBaseDelay: cfg.Retry.BookingBaseDelay,
		},
		usecase.WithLogger(log),
	)

	// HTTP surface
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout

	middleware.Setup(e, log)

	handler := bookinghttp.NewBookingHandler(service, provider, log)
	bookinghttp.RegisterRoutes(e, handler)
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	go func() {
		log.Info().Str("address", addr).Msg("Starting server")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	gracefulShutdown(e, log)
}

// newBookingStore returns the Redis-backed store when enabled, the log-only
// fallback otherwise. An unreachable Redis is fatal at startup rather than at
// the first booking.
func newBookingStore(cfg *config.Config, log *logger.Logger) domain.BookingStore {
	if !cfg.Redis.Enabled {
		log.Info().Msg("Redis disabled, booking results will not be persisted")
		return store.NewNoOpStore(log)
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatal().Err(err).Str("addr", cfg.Redis.Addr).Msg("Failed to connect to Redis")
	}

	log.Info().Str("addr", cfg.Redis.Addr).Msg("Connected to Redis")
	return store.NewRedisStore(client, cfg.Redis.TTL, timeutil.NewRealClock(), log)
}

// gracefulShutdown handles graceful server shutdown on interrupt signals.
func gracefulShutdown(e *echo.Echo, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Error during server shutdown")
	}

	log.Info().Msg("Server stopped")
}
