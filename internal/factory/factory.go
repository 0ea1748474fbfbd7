package factory

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/mcoot/elevate/internal/apiclient"
	"github.com/mcoot/elevate/internal/dependencies/clock"
	"github.com/mcoot/elevate/internal/dependencies/ids"
	"github.com/mcoot/elevate/internal/services/auth"
	"github.com/mcoot/elevate/internal/services/calendar"
	"github.com/mcoot/elevate/internal/services/membership"
	"github.com/mcoot/elevate/internal/storage"
	"github.com/mcoot/elevate/internal/storage/memory"
	redisstorage "github.com/mcoot/elevate/internal/storage/redis"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock     clock.Clock
	IDs       ids.Generator
	APIClient *apiclient.Client

	// Services
	AuthService          *auth.Service
	MembershipController *membership.Controller
	CalendarService      *calendar.Service
}

// Config holds configuration for the application factory
type Config struct {
	// APIBaseURL is the club backend every call goes to
	APIBaseURL string
	// HTTPClient overrides the client used for backend calls (optional)
	HTTPClient *http.Client
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	if cfg.APIBaseURL == "" {
		return nil, errors.New("APIBaseURL required")
	}

	// Create storage based on type
	var store storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	opts := []apiclient.Option{apiclient.WithLogger(logger)}
	if cfg.HTTPClient != nil {
		opts = append(opts, apiclient.WithHTTPClient(cfg.HTTPClient))
	}
	client := apiclient.New(cfg.APIBaseURL, opts...)

	return newWithDependencies(store, client, clock.New(), ids.New(), logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, client *apiclient.Client, clk clock.Clock, gen ids.Generator, logger *slog.Logger) *App {
	return &App{
		Storage:              store,
		Clock:                clk,
		IDs:                  gen,
		APIClient:            client,
		AuthService:          auth.New(store, client, clk, gen, logger),
		MembershipController: membership.NewController(logger),
		CalendarService:      calendar.New(clk),
	}
}
