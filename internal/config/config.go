// Package config provides application configuration management.
// It loads configuration from environment variables with support for .env files.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Provider ProviderConfig
	Retry    RetryConfig
	Redis    RedisConfig
	Logging  LoggingConfig
	App      AppConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         int           `env:"SERVER_PORT" envDefault:"8080"`
	ReadTimeout  time.Duration `env:"SERVER_READ_TIMEOUT" envDefault:"10s"`
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" envDefault:"120s"`
}

// ProviderConfig holds booking provider credentials and endpoints.
// Empty credentials are valid: the engine then skips provider legs entirely.
type ProviderConfig struct {
	ClientID     string `env:"PROVIDER_CLIENT_ID"`
	ClientSecret string `env:"PROVIDER_CLIENT_SECRET"`
	BaseURL      string `env:"PROVIDER_BASE_URL" envDefault:"https://test.api.amadeus.com"`

	// RequestsPerSecond and Burst throttle outbound provider calls ahead of
	// the provider's own 429 handling.
	RequestsPerSecond float64 `env:"PROVIDER_RPS" envDefault:"10"`
	Burst             int     `env:"PROVIDER_BURST" envDefault:"20"`
}

// Configured reports whether provider credentials are present.
func (p ProviderConfig) Configured() bool {
	return p.ClientID != "" && p.ClientSecret != ""
}

// RetryConfig holds retry/backoff settings for the transport and the
// booking orchestrators.
type RetryConfig struct {
	// TransportAttempts is the max total attempts for rate-limited or
	// auth-expired provider calls.
	TransportAttempts int `env:"RETRY_TRANSPORT_ATTEMPTS" envDefault:"3"`

	// TransportBaseDelay is the first backoff delay on a 429 without a
	// Retry-After hint; subsequent delays double up to TransportMaxDelay.
	TransportBaseDelay time.Duration `env:"RETRY_TRANSPORT_BASE_DELAY" envDefault:"500ms"`
	TransportMaxDelay  time.Duration `env:"RETRY_TRANSPORT_MAX_DELAY" envDefault:"8s"`

	// BookingAttempts is the max total attempts per booking leg on
	// server-category provider failures.
	BookingAttempts int `env:"RETRY_BOOKING_ATTEMPTS" envDefault:"3"`

	// BookingBaseDelay is the first backoff delay between leg attempts.
	BookingBaseDelay time.Duration `env:"RETRY_BOOKING_BASE_DELAY" envDefault:"800ms"`
}

// RedisConfig holds settings for the Redis-backed booking store.
type RedisConfig struct {
	Enabled  bool          `env:"REDIS_ENABLED" envDefault:"false"`
	Addr     string        `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	Password string        `env:"REDIS_PASSWORD"`
	DB       int           `env:"REDIS_DB" envDefault:"0"`
	TTL      time.Duration `env:"REDIS_BOOKING_TTL" envDefault:"720h"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

// AppConfig holds general application settings.
type AppConfig struct {
	Env string `env:"APP_ENV" envDefault:"development"`
}

// Load reads configuration from environment variables.
// It attempts to load a .env file first (optional - won't fail if missing).
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found, using environment variables")
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics on error.
// Use this in main() where configuration is required to start.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}
	return cfg
}

// validate checks configuration values for correctness.
func validate(cfg *Config) error {
	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		return fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", cfg.Server.Port)
	}
	if cfg.Server.ReadTimeout <= 0 {
		return fmt.Errorf("SERVER_READ_TIMEOUT must be positive")
	}
	if cfg.Server.WriteTimeout <= 0 {
		return fmt.Errorf("SERVER_WRITE_TIMEOUT must be positive")
	}

	// Credentials must come in pairs; half-configured providers are a
	// deployment mistake, not the unconfigured fallback.
	if (cfg.Provider.ClientID == "") != (cfg.Provider.ClientSecret == "") {
		return fmt.Errorf("PROVIDER_CLIENT_ID and PROVIDER_CLIENT_SECRET must be set together")
	}
	if cfg.Provider.RequestsPerSecond <= 0 {
		return fmt.Errorf("PROVIDER_RPS must be positive")
	}
	if cfg.Provider.Burst < 1 {
		return fmt.Errorf("PROVIDER_BURST must be at least 1")
	}

	if cfg.Retry.TransportAttempts < 1 {
		return fmt.Errorf("RETRY_TRANSPORT_ATTEMPTS must be at least 1")
	}
	if cfg.Retry.BookingAttempts < 1 {
		return fmt.Errorf("RETRY_BOOKING_ATTEMPTS must be at least 1")
	}
	if cfg.Retry.TransportBaseDelay <= 0 || cfg.Retry.BookingBaseDelay <= 0 {
		return fmt.Errorf("retry base delays must be positive")
	}
	if cfg.Retry.TransportMaxDelay < cfg.Retry.TransportBaseDelay {
		return fmt.Errorf("RETRY_TRANSPORT_MAX_DELAY (%s) must not be less than RETRY_TRANSPORT_BASE_DELAY (%s)",
			cfg.Retry.TransportMaxDelay, cfg.Retry.TransportBaseDelay)
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[cfg.Logging.Level] {
		return fmt.Errorf("LOG_LEVEL must be one of: debug, info, warn, error; got %q", cfg.Logging.Level)
	}

	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[cfg.Logging.Format] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console; got %q", cfg.Logging.Format)
	}

	validEnvs := map[string]bool{"development": true, "staging": true, "production": true}
	if !validEnvs[cfg.App.Env] {
		return fmt.Errorf("APP_ENV must be one of: development, staging, production; got %q", cfg.App.Env)
	}

	return nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.App.Env == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}
