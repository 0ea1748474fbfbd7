// Package config reads the server configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// CSRFKeyLength is the key size gorilla/csrf expects
const CSRFKeyLength = 32

// Config holds the server settings
type Config struct {
	APIBaseURL     string        `env:"ELEVATE_API_BASE_URL" envDefault:"http://localhost:8081"`
	Host           string        `env:"ELEVATE_HOST"`
	Port           int           `env:"ELEVATE_PORT" envDefault:"8080"`
	StorageType    string        `env:"ELEVATE_STORAGE_TYPE" envDefault:"memory"`
	RedisURL       string        `env:"ELEVATE_REDIS_URL"`
	SessionTTL     time.Duration `env:"ELEVATE_SESSION_TTL" envDefault:"168h"`
	EventsFile     string        `env:"ELEVATE_EVENTS_FILE" envDefault:"data/events.yaml"`
	CSRFKey        string        `env:"ELEVATE_CSRF_KEY"`
	TrustedOrigins []string      `env:"ELEVATE_TRUSTED_ORIGINS" envSeparator:","`
	SecureCookies  bool          `env:"ELEVATE_SECURE_COOKIES"`
	StaticDir      string        `env:"ELEVATE_STATIC_DIR"`
	LogLevel       string        `env:"ELEVATE_LOG_LEVEL" envDefault:"info"`
}

// Load parses the environment and validates the result
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports settings that cannot work together
func (c Config) Validate() error {
	var errs []error
	switch c.StorageType {
	case "memory":
	case "redis":
		if c.RedisURL == "" {
			errs = append(errs, errors.New("ELEVATE_REDIS_URL required when ELEVATE_STORAGE_TYPE=redis"))
		}
	default:
		errs = append(errs, fmt.Errorf("invalid ELEVATE_STORAGE_TYPE %q: must be 'memory' or 'redis'", c.StorageType))
	}
	if c.APIBaseURL == "" {
		errs = append(errs, errors.New("ELEVATE_API_BASE_URL must not be empty"))
	}
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("invalid ELEVATE_PORT %d", c.Port))
	}
	if c.SessionTTL <= 0 {
		errs = append(errs, errors.New("ELEVATE_SESSION_TTL must be positive"))
	}
	if c.CSRFKey != "" && len(c.CSRFKey) != CSRFKeyLength {
		errs = append(errs, fmt.Errorf("ELEVATE_CSRF_KEY must be %d bytes, got %d", CSRFKeyLength, len(c.CSRFKey)))
	}
	return errors.Join(errs...)
}

// Addr is the listen address
func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// CSRFKeyBytes returns the CSRF key, nil when protection is off
func (c Config) CSRFKeyBytes() []byte {
	if c.CSRFKey == "" {
		return nil
	}
	return []byte(c.CSRFKey)
}

// Level maps ELEVATE_LOG_LEVEL to a slog level, defaulting to info
func (c Config) Level() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
