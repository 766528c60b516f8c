// Package config loads process configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	// Application
	AppEnv    string
	LogLevel  string
	LogFormat string

	// Database
	DatabaseURL      string
	DatabaseDriver   string
	SQLitePath       string
	DatabaseMaxConns int

	// Redis
	RedisURL string

	// RabbitMQ
	RabbitMQURL string

	// HTTP
	HTTPAddr            string
	HTTPReadTimeout     time.Duration
	HTTPWriteTimeout    time.Duration
	HTTPIdleTimeout     time.Duration
	HTTPShutdownTimeout time.Duration

	// Storage circuit breaker
	StorageBreakerEnabled  bool
	StorageBreakerFailures int
	StorageBreakerTimeout  time.Duration

	// Outbox relay
	OutboxPollInterval time.Duration
	OutboxMaxRetries   int

	// AuthTokens is a static "token:role:name,..." list.
	AuthTokens string
}

// Load reads .env when present, then the environment.
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:    getEnv("APP_ENV", "development"),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),

		DatabaseURL:      getEnv("DATABASE_URL", ""),
		DatabaseDriver:   getEnv("DATABASE_DRIVER", "auto"),
		SQLitePath:       getEnv("SQLITE_PATH", ""),
		DatabaseMaxConns: getIntEnv("DATABASE_MAX_CONNS", 10),

		RedisURL:    getEnv("REDIS_URL", ""),
		RabbitMQURL: getEnv("RABBITMQ_URL", ""),

		HTTPAddr:            getEnv("HTTP_ADDR", "0.0.0.0:8000"),
		HTTPReadTimeout:     getDurationEnv("HTTP_READ_TIMEOUT", 10*time.Second),
		HTTPWriteTimeout:    getDurationEnv("HTTP_WRITE_TIMEOUT", 30*time.Second),
		HTTPIdleTimeout:     getDurationEnv("HTTP_IDLE_TIMEOUT", 60*time.Second),
		HTTPShutdownTimeout: getDurationEnv("HTTP_SHUTDOWN_TIMEOUT", 15*time.Second),

		StorageBreakerEnabled:  getBoolEnv("STORAGE_BREAKER_ENABLED", true),
		StorageBreakerFailures: getIntEnv("STORAGE_BREAKER_FAILURES", 5),
		StorageBreakerTimeout:  getDurationEnv("STORAGE_BREAKER_TIMEOUT", 30*time.Second),

		OutboxPollInterval: getDurationEnv("OUTBOX_POLL_INTERVAL", time.Second),
		OutboxMaxRetries:   getIntEnv("OUTBOX_MAX_RETRIES", 5),

		AuthTokens: getEnv("AUTH_TOKENS", ""),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the process cannot start with.
func (c *Config) Validate() error {
	switch strings.ToLower(c.DatabaseDriver) {
	case "", "auto", "postgres", "sqlite":
	default:
		return fmt.Errorf("invalid DATABASE_DRIVER %q", c.DatabaseDriver)
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("invalid LOG_FORMAT %q", c.LogFormat)
	}
	if c.DatabaseMaxConns < 1 {
		return fmt.Errorf("DATABASE_MAX_CONNS must be positive, got %d", c.DatabaseMaxConns)
	}
	if c.StorageBreakerFailures < 1 {
		return fmt.Errorf("STORAGE_BREAKER_FAILURES must be positive, got %d", c.StorageBreakerFailures)
	}
	if c.OutboxPollInterval <= 0 {
		return fmt.Errorf("OUTBOX_POLL_INTERVAL must be positive, got %s", c.OutboxPollInterval)
	}
	return nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// IsLocalMode reports whether no database URL was given, which selects the
// embedded SQLite store.
func (c *Config) IsLocalMode() bool {
	return c.DatabaseURL == ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
