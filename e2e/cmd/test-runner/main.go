package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/saaga0h/lux-platform/e2e/internal/executor"
	"github.com/saaga0h/lux-platform/e2e/internal/reporter"
	"github.com/saaga0h/lux-platform/e2e/internal/scenario"
	"github.com/saaga0h/lux-platform/pkg/config"
	"github.com/saaga0h/lux-platform/pkg/mqtt"
	"github.com/saaga0h/lux-platform/pkg/redis"
)

func main() {
	cfg := config.NewConfig()
	cfg.ServiceName = "lux-e2e"
	cfg.LoadFromEnv()

	scenarioPath := pflag.String("scenario", "", "Path to YAML scenario file (required)")
	outputDir := pflag.String("output-dir", "./test-output", "Output directory for test artifacts")
	verbose := pflag.Bool("verbose", false, "Enable verbose logging")
	startupDelay := pflag.Duration("startup-delay", executor.DefaultStartupDelay, "Time given to agents before the first step")
	cfg.LoadFromFlags()

	if *scenarioPath == "" {
		fmt.Fprintf(os.Stderr, "Error: --scenario is required\n")
		pflag.Usage()
		os.Exit(1)
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	logger.Info("Loading scenario", "path", *scenarioPath)
	scen, err := scenario.LoadScenario(*scenarioPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load scenario: %v\n", err)
		os.Exit(1)
	}

	var redisClient redis.Client
	if cfg.RedisEnabled {
		redisClient = redis.NewClient(cfg, logger)
		defer redisClient.Close()
	}

	runner := executor.NewRunner(mqtt.NewClient(cfg, logger), redisClient, logger)
	runner.StartupDelay = *startupDelay

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	result, err := runner.Run(ctx, scen)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Test execution failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Print(reporter.FormatSummary(result))

	scenarioName := strings.TrimSuffix(filepath.Base(*scenarioPath), filepath.Ext(*scenarioPath))

	capturePath := filepath.Join(*outputDir, "captures", scenarioName+".json")
	if err := runner.SaveCapture(capturePath); err != nil {
		logger.Warn("Failed to save capture", "error", err)
	}

	summaryPath := filepath.Join(*outputDir, "summaries", scenarioName+".json")
	if err := reporter.SaveSummary(result, summaryPath); err != nil {
		logger.Warn("Failed to save summary", "error", err)
	} else {
		logger.Info("Summary saved", "path", summaryPath)
	}

	if !result.Passed {
		os.Exit(1)
	}
}
