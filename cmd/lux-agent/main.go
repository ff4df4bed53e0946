package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/saaga0h/lux-platform/internal/api"
	"github.com/saaga0h/lux-platform/internal/engine"
	"github.com/saaga0h/lux-platform/internal/lux"
	"github.com/saaga0h/lux-platform/internal/relay"
	"github.com/saaga0h/lux-platform/internal/scenes"
	"github.com/saaga0h/lux-platform/pkg/config"
	"github.com/saaga0h/lux-platform/pkg/health"
	"github.com/saaga0h/lux-platform/pkg/mqtt"
	"github.com/saaga0h/lux-platform/pkg/redis"
)

func main() {
	// Load configuration with hierarchy: defaults → env → flags
	cfg := config.NewConfig()
	cfg.LoadFromEnv()
	cfg.LoadFromFlags()

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}

	// Set up structured logging
	logLevel := parseLogLevel(cfg.LogLevel)
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("Starting Lux Agent",
		"version", "1.0",
		"service_name", cfg.ServiceName,
		"mqtt_broker", cfg.MQTTAddress(),
		"redis_enabled", cfg.RedisEnabled,
		"api_port", cfg.APIPort,
		"log_level", cfg.LogLevel)

	catalog, err := loadCatalog(cfg)
	if err != nil {
		logger.Error("Failed to load scene catalog", "path", cfg.ScenesFile, "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	mqttClient := mqtt.NewClient(cfg, logger)

	// Redis is optional; leave the interface nil rather than wrapping a nil client
	var redisClient redis.Client
	var store relay.Store = relay.NewMemoryStore(cfg.CommandHistory)
	if cfg.RedisEnabled {
		redisClient = redis.NewClient(cfg, logger)
		store = relay.NewRedisStore(redisClient, cfg.CommandHistory, logger)
		logger.Info("Relaying commands through Redis", "redis_host", cfg.RedisAddress())
	}

	eng := engine.New()
	agent := lux.NewAgent(mqttClient, redisClient, eng, cfg, logger)

	healthChecker := health.NewChecker(mqttClient, redisClient, logger)
	healthServer := startHealthServer(cfg.HealthPort, healthChecker, logger)

	apiServer := api.NewServer(cfg, store, agent, eng, catalog, healthChecker, logger)

	errChan := make(chan error, 2)
	go func() {
		if err := agent.Start(ctx); err != nil {
			errChan <- fmt.Errorf("agent: %w", err)
		}
	}()
	go func() {
		if err := apiServer.Start(); err != nil {
			errChan <- err
		}
	}()

	select {
	case <-sigChan:
		logger.Info("Shutdown signal received (SIGTERM/SIGINT)")
	case err := <-errChan:
		logger.Error("Service failed", "error", err)
	}

	logger.Info("Initiating graceful shutdown")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := apiServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error shutting down API server", "error", err)
	}

	if err := agent.Stop(); err != nil {
		logger.Error("Error stopping agent", "error", err)
	}

	if err := healthServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error shutting down health server", "error", err)
	}

	logger.Info("Lux agent shutdown complete")
}

func loadCatalog(cfg *config.Config) (*scenes.Catalog, error) {
	if cfg.ScenesFile == "" {
		return scenes.DefaultCatalog(), nil
	}
	return scenes.LoadCatalog(cfg.ScenesFile)
}

func startHealthServer(port int, checker *health.Checker, logger *slog.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", checker.HandlerFunc())
	mux.HandleFunc("/health/detailed", checker.DetailedHandlerFunc())

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: mux,
	}

	go func() {
		logger.Info("Starting health check server", "port", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Health server error", "error", err)
		}
	}()

	return server
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
