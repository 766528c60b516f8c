package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envVars = []string{
	"APP_ENV", "LOG_LEVEL", "LOG_FORMAT",
	"DATABASE_URL", "DATABASE_DRIVER", "SQLITE_PATH", "DATABASE_MAX_CONNS",
	"REDIS_URL", "RABBITMQ_URL",
	"HTTP_ADDR", "HTTP_READ_TIMEOUT", "HTTP_WRITE_TIMEOUT", "HTTP_IDLE_TIMEOUT", "HTTP_SHUTDOWN_TIMEOUT",
	"STORAGE_BREAKER_ENABLED", "STORAGE_BREAKER_FAILURES", "STORAGE_BREAKER_TIMEOUT",
	"OUTBOX_POLL_INTERVAL", "OUTBOX_MAX_RETRIES",
	"AUTH_TOKENS",
}

// clearEnv blanks every variable Load reads; t.Setenv restores them.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, v := range envVars {
		t.Setenv(v, "")
	}
}

func TestLoad_DefaultValues(t *testing.T) {
	clearEnv(t)
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.AppEnv)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Empty(t, cfg.DatabaseURL)
	assert.Equal(t, "auto", cfg.DatabaseDriver)
	assert.Equal(t, 10, cfg.DatabaseMaxConns)
	assert.Equal(t, "0.0.0.0:8000", cfg.HTTPAddr)
	assert.Equal(t, 10*time.Second, cfg.HTTPReadTimeout)
	assert.Equal(t, 15*time.Second, cfg.HTTPShutdownTimeout)
	assert.True(t, cfg.StorageBreakerEnabled)
	assert.Equal(t, 5, cfg.StorageBreakerFailures)
	assert.Equal(t, 30*time.Second, cfg.StorageBreakerTimeout)
	assert.Equal(t, time.Second, cfg.OutboxPollInterval)
	assert.Equal(t, 5, cfg.OutboxMaxRetries)
	assert.True(t, cfg.IsDevelopment())
	assert.True(t, cfg.IsLocalMode())
}

func TestLoad_CustomValues(t *testing.T) {
	clearEnv(t)
	t.Chdir(t.TempDir())

	t.Setenv("APP_ENV", "production")
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("DATABASE_URL", "postgres://tracker@db:5432/tracker")
	t.Setenv("DATABASE_MAX_CONNS", "25")
	t.Setenv("REDIS_URL", "redis://cache:6379/1")
	t.Setenv("HTTP_WRITE_TIMEOUT", "45s")
	t.Setenv("STORAGE_BREAKER_ENABLED", "false")
	t.Setenv("STORAGE_BREAKER_FAILURES", "3")
	t.Setenv("OUTBOX_POLL_INTERVAL", "250ms")
	t.Setenv("AUTH_TOKENS", "abc:admin:root")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.False(t, cfg.IsLocalMode())
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 25, cfg.DatabaseMaxConns)
	assert.Equal(t, "redis://cache:6379/1", cfg.RedisURL)
	assert.Equal(t, 45*time.Second, cfg.HTTPWriteTimeout)
	assert.False(t, cfg.StorageBreakerEnabled)
	assert.Equal(t, 3, cfg.StorageBreakerFailures)
	assert.Equal(t, 250*time.Millisecond, cfg.OutboxPollInterval)
	assert.Equal(t, "abc:admin:root", cfg.AuthTokens)
}

func TestLoad_MalformedNumbersFallBack(t *testing.T) {
	clearEnv(t)
	t.Chdir(t.TempDir())

	t.Setenv("DATABASE_MAX_CONNS", "many")
	t.Setenv("HTTP_READ_TIMEOUT", "soon")
	t.Setenv("STORAGE_BREAKER_ENABLED", "maybe")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.DatabaseMaxConns)
	assert.Equal(t, 10*time.Second, cfg.HTTPReadTimeout)
	assert.True(t, cfg.StorageBreakerEnabled)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"driver", "DATABASE_DRIVER", "mysql"},
		{"log format", "LOG_FORMAT", "xml"},
		{"max conns", "DATABASE_MAX_CONNS", "0"},
		{"breaker failures", "STORAGE_BREAKER_FAILURES", "-1"},
		{"outbox poll interval", "OUTBOX_POLL_INTERVAL", "-1s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Chdir(t.TempDir())
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.key)
		})
	}
}
