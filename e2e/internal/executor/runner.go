package executor

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/saaga0h/lux-platform/e2e/internal/checker"
	"github.com/saaga0h/lux-platform/e2e/internal/observer"
	"github.com/saaga0h/lux-platform/e2e/internal/scenario"
	"github.com/saaga0h/lux-platform/pkg/mqtt"
	"github.com/saaga0h/lux-platform/pkg/redis"
)

// DefaultStartupDelay gives agents time to connect before the first step
const DefaultStartupDelay = 2 * time.Second

// Runner orchestrates test scenario execution
type Runner struct {
	mqtt     mqtt.Client
	redis    redis.Client
	logger   *slog.Logger
	observer *observer.Observer
	player   *CommandPlayer

	// StartupDelay is waited after connecting and before the first step
	StartupDelay time.Duration
}

// NewRunner creates a new test runner. redisClient may be nil, in which case
// Redis expectations fail.
func NewRunner(mqttClient mqtt.Client, redisClient redis.Client, logger *slog.Logger) *Runner {
	return &Runner{
		mqtt:         mqttClient,
		redis:        redisClient,
		logger:       logger,
		observer:     observer.NewObserver(mqttClient, "#", logger),
		player:       NewCommandPlayer(mqttClient, logger),
		StartupDelay: DefaultStartupDelay,
	}
}

// Run executes a test scenario
func (r *Runner) Run(ctx context.Context, s *scenario.Scenario) (*scenario.TestResult, error) {
	r.logger.Info("Starting scenario", "name", s.Name, "description", s.Description)

	if err := r.initialize(ctx); err != nil {
		return nil, fmt.Errorf("initialization failed: %w", err)
	}
	defer r.cleanup()

	if r.StartupDelay > 0 {
		r.logger.Info("Waiting for agents to start up", "delay", r.StartupDelay)
		if err := WaitUntil(ctx, time.Now(), r.StartupDelay); err != nil {
			return nil, err
		}
	}

	startTime := time.Now()

	for _, step := range s.Steps {
		if err := WaitUntil(ctx, startTime, step.At); err != nil {
			return nil, err
		}

		r.logger.Info("Sending command",
			"elapsed_sec", fmt.Sprintf("%.2f", GetElapsed(startTime)),
			"cmd", step.Command,
			"description", step.Description)

		if err := r.player.Send(step); err != nil {
			return nil, fmt.Errorf("failed to send step: %w", err)
		}
	}

	expectations := make([]scenario.Expectation, len(s.Expectations))
	copy(expectations, s.Expectations)
	sort.SliceStable(expectations, func(i, j int) bool {
		return expectations[i].At < expectations[j].At
	})

	results := make([]scenario.ExpectationResult, 0, len(expectations))
	passedCount := 0

	for _, exp := range expectations {
		if err := WaitUntil(ctx, startTime, exp.At); err != nil {
			return nil, err
		}

		result := r.check(ctx, exp)
		results = append(results, result)

		if result.Passed {
			passedCount++
			r.logger.Info("Expectation passed", "kind", exp.Kind(), "topic", exp.Topic, "redis_key", exp.RedisKey)
		} else {
			r.logger.Warn("Expectation failed", "kind", exp.Kind(), "topic", exp.Topic, "redis_key", exp.RedisKey, "reason", result.Reason)
		}
	}

	failedCount := len(results) - passedCount
	return &scenario.TestResult{
		Scenario:     s,
		StartTime:    startTime,
		EndTime:      time.Now(),
		Passed:       failedCount == 0,
		PassedCount:  passedCount,
		FailedCount:  failedCount,
		Expectations: results,
	}, nil
}

// check routes an expectation to the matching checker
func (r *Runner) check(ctx context.Context, exp scenario.Expectation) scenario.ExpectationResult {
	var passed bool
	var reason string
	var actual interface{}

	switch exp.Kind() {
	case "redis":
		if r.redis == nil {
			reason = "Redis is not configured"
			break
		}
		passed, reason, actual = checker.CheckRedisExpectation(ctx, r.redis, exp)
	default:
		passed, reason, actual = checker.CheckExpectation(exp, r.observer.GetAllMessages())
	}

	return scenario.ExpectationResult{
		Expectation: exp,
		Passed:      passed,
		Reason:      reason,
		Actual:      actual,
	}
}

// initialize connects to the broker and starts observing
func (r *Runner) initialize(ctx context.Context) error {
	if err := r.mqtt.Connect(ctx); err != nil {
		return fmt.Errorf("failed to connect to MQTT broker: %w", err)
	}

	if r.redis != nil {
		if err := r.redis.Ping(ctx); err != nil {
			return fmt.Errorf("failed to connect to Redis: %w", err)
		}
	}

	return r.observer.Start()
}

// cleanup disconnects from the broker
func (r *Runner) cleanup() {
	r.mqtt.Disconnect()
}

// SaveCapture saves the MQTT capture to a file
func (r *Runner) SaveCapture(filename string) error {
	return r.observer.SaveCapture(filename)
}
