package factory

import (
	"fmt"
	"log/slog"

	"github.com/typerace/typerace-go/internal/dependencies/clock"
	"github.com/typerace/typerace-go/internal/dependencies/random"
	"github.com/typerace/typerace-go/internal/services/passage"
	"github.com/typerace/typerace-go/internal/services/registry"
	"github.com/typerace/typerace-go/internal/storage"
	"github.com/typerace/typerace-go/internal/storage/memory"
	redisstorage "github.com/typerace/typerace-go/internal/storage/redis"
	"github.com/typerace/typerace-go/internal/ws"
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
	Clock  clock.Clock
	Random random.Random

	// Services
	PassageService *passage.Service
	Hub            *ws.Hub
	Registry       *registry.Registry
	Gateway        *ws.Gateway
}

// Config holds configuration for the application factory
type Config struct {
	// StorageType selects the storage backend; empty defaults to memory
	StorageType string
	// RedisConfig is required when StorageType is redis
	RedisConfig *redisstorage.Config
	// Registry holds registry and room policy settings
	Registry registry.Config
	// Logger is the application logger
	Logger *slog.Logger
}

// New creates a fully wired application
func New(cfg Config) (*App, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var store storage.Storage
	switch cfg.StorageType {
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, fmt.Errorf("redis storage selected but no redis config provided")
		}
		rs, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, fmt.Errorf("connecting to redis: %w", err)
		}
		store = rs
	case StorageTypeMemory, "":
		store = memory.New()
	default:
		return nil, fmt.Errorf("unknown storage type %q", cfg.StorageType)
	}

	return newWithDependencies(store, clock.New(), random.New(), cfg.Registry, logger), nil
}

func newWithDependencies(store storage.Storage, clk clock.Clock, rnd random.Random, regCfg registry.Config, logger *slog.Logger) *App {
	passageService := passage.New(store, rnd)
	hub := ws.NewHub(logger)
	reg := registry.New(hub, passageService, clk, rnd, regCfg, logger)
	gateway := ws.NewGateway(hub, reg, logger)

	return &App{
		Storage:        store,
		Clock:          clk,
		Random:         rnd,
		PassageService: passageService,
		Hub:            hub,
		Registry:       reg,
		Gateway:        gateway,
	}
}
