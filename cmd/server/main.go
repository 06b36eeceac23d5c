package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/typerace/typerace-go/internal/api"
	"github.com/typerace/typerace-go/internal/factory"
	"github.com/typerace/typerace-go/internal/services/registry"
	redisstorage "github.com/typerace/typerace-go/internal/storage/redis"
)

func main() {
	// Set up logging with JSON output
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Build factory config from environment
	cfg := factory.Config{
		Logger:      logger,
		StorageType: os.Getenv("STORAGE_TYPE"),
		Registry:    registryConfigFromEnv(),
	}

	// Configure Redis if storage type is redis
	if cfg.StorageType == factory.StorageTypeRedis {
		redisURL := os.Getenv("REDIS_URL")
		if redisURL == "" {
			logger.Error("REDIS_URL required when STORAGE_TYPE=redis")
			os.Exit(1)
		}
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = redisURL
		cfg.RedisConfig = &redisCfg
	}

	// Create application factory
	app, err := factory.New(cfg)
	if err != nil {
		logger.Error("failed to create application", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Load the passage corpus, preferring storage over the bundled file
	passagesPath := os.Getenv("PASSAGES_PATH")
	if passagesPath == "" {
		passagesPath = "data/passages.txt"
	}
	if err := app.PassageService.LoadFromStorage(context.Background()); err != nil {
		if err := app.PassageService.LoadFromFile(context.Background(), passagesPath); err != nil {
			logger.Error("could not load passages", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}
	logger.Info("passages loaded", slog.Int("count", app.PassageService.Count()))

	// Create router
	router := api.NewRouter(api.RouterConfig{
		Logger:   logger,
		Registry: app.Registry,
		Gateway:  app.Gateway,
	})

	// Create server
	serverConfig := api.DefaultServerConfig()
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			serverConfig.Port = p
		}
	}
	server := api.NewServer(router, serverConfig, logger)

	// Handle graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		logger.Info("shutdown signal received")
		cancel()
	}()

	// Start server in goroutine
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	logger.Info("server started", slog.String("addr", server.Addr()))

	// Wait for shutdown or error
	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	case <-ctx.Done():
		if err := server.Shutdown(context.Background()); err != nil {
			logger.Error("shutdown error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	logger.Info("server stopped")
}

// registryConfigFromEnv applies countdown and capacity overrides
func registryConfigFromEnv() registry.Config {
	cfg := registry.DefaultConfig()
	if ms := os.Getenv("COUNTDOWN_MS"); ms != "" {
		if v, err := strconv.Atoi(ms); err == nil && v >= 0 {
			cfg.Room.CountdownDuration = time.Duration(v) * time.Millisecond
		}
	}
	if mp := os.Getenv("MAX_PLAYERS"); mp != "" {
		if v, err := strconv.Atoi(mp); err == nil && v >= 0 {
			cfg.Room.MaxPlayers = v
		}
	}
	return cfg
}
