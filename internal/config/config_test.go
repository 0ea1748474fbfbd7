package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8081", cfg.APIBaseURL)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "memory", cfg.StorageType)
	assert.Equal(t, 168*time.Hour, cfg.SessionTTL)
	assert.Equal(t, "data/events.yaml", cfg.EventsFile)
	assert.Nil(t, cfg.CSRFKeyBytes())
	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, slog.LevelInfo, cfg.Level())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("ELEVATE_API_BASE_URL", "http://backend:9000")
	t.Setenv("ELEVATE_HOST", "127.0.0.1")
	t.Setenv("ELEVATE_PORT", "9090")
	t.Setenv("ELEVATE_STORAGE_TYPE", "redis")
	t.Setenv("ELEVATE_REDIS_URL", "redis://cache:6379")
	t.Setenv("ELEVATE_SESSION_TTL", "2h")
	t.Setenv("ELEVATE_CSRF_KEY", "0123456789abcdef0123456789abcdef")
	t.Setenv("ELEVATE_TRUSTED_ORIGINS", "localhost:8080,example.com")
	t.Setenv("ELEVATE_LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://backend:9000", cfg.APIBaseURL)
	assert.Equal(t, "127.0.0.1:9090", cfg.Addr())
	assert.Equal(t, "redis://cache:6379", cfg.RedisURL)
	assert.Equal(t, 2*time.Hour, cfg.SessionTTL)
	assert.Len(t, cfg.CSRFKeyBytes(), CSRFKeyLength)
	assert.Equal(t, []string{"localhost:8080", "example.com"}, cfg.TrustedOrigins)
	assert.Equal(t, slog.LevelDebug, cfg.Level())
}

func TestLoadParseError(t *testing.T) {
	t.Setenv("ELEVATE_PORT", "not-a-port")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse env:")
}

func TestValidate(t *testing.T) {
	valid := Config{
		APIBaseURL:  "http://localhost:8081",
		Port:        8080,
		StorageType: "memory",
		SessionTTL:  time.Hour,
	}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		modify func(*Config)
		want   string
	}{
		{"redis without url", func(c *Config) { c.StorageType = "redis" }, "ELEVATE_REDIS_URL"},
		{"unknown storage", func(c *Config) { c.StorageType = "disk" }, "invalid ELEVATE_STORAGE_TYPE"},
		{"short csrf key", func(c *Config) { c.CSRFKey = "short" }, "ELEVATE_CSRF_KEY"},
		{"zero ttl", func(c *Config) { c.SessionTTL = 0 }, "ELEVATE_SESSION_TTL"},
		{"bad port", func(c *Config) { c.Port = 70000 }, "ELEVATE_PORT"},
		{"empty base url", func(c *Config) { c.APIBaseURL = "" }, "ELEVATE_API_BASE_URL"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.modify(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
