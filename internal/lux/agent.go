// Package lux runs the lux agent: it turns relayed console commands into room
// light changes, animates room effects and publishes the resulting colours.
package lux

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/saaga0h/lux-platform/internal/engine"
	"github.com/saaga0h/lux-platform/pkg/config"
	"github.com/saaga0h/lux-platform/pkg/mqtt"
	"github.com/saaga0h/lux-platform/pkg/redis"
)

// Agent represents the lux agent
type Agent struct {
	mqtt   mqtt.Client
	redis  redis.Client
	engine *engine.Engine
	cfg    *config.Config
	logger *slog.Logger
	now    func() time.Time

	startedAt time.Time

	// Last published state per room, for change detection
	publishMux    sync.Mutex
	lastPublished map[string]publishedState

	// Effect step loop; tickerMux orders startStepLoop against Stop
	tickerMux sync.Mutex
	ticker    *time.Ticker
	stopChan  chan struct{}
	stopOnce  sync.Once
}

type publishedState struct {
	state engine.RoomState
	at    time.Time
}

// NewAgent creates a new lux agent. redisClient may be nil when Redis is disabled.
func NewAgent(mqttClient mqtt.Client, redisClient redis.Client, eng *engine.Engine, cfg *config.Config, logger *slog.Logger) *Agent {
	return &Agent{
		mqtt:          mqttClient,
		redis:         redisClient,
		engine:        eng,
		cfg:           cfg,
		logger:        logger,
		now:           time.Now,
		lastPublished: make(map[string]publishedState),
		stopChan:      make(chan struct{}),
	}
}

// Start connects the agent, subscribes to console commands and runs the
// effect loop until ctx is cancelled
func (a *Agent) Start(ctx context.Context) error {
	a.logger.Info("Starting lux agent",
		"service_name", a.cfg.ServiceName,
		"mqtt_broker", a.cfg.MQTTAddress(),
		"redis_enabled", a.redis != nil,
		"step_interval_ms", a.cfg.StepIntervalMs)

	if err := a.mqtt.Connect(ctx); err != nil {
		return fmt.Errorf("failed to connect to MQTT: %w", err)
	}

	if a.redis != nil {
		if err := a.redis.Ping(ctx); err != nil {
			return fmt.Errorf("failed to ping Redis: %w", err)
		}
	}

	if err := a.mqtt.Subscribe(mqtt.TopicLuxCommand, 0, a.handleCommandMessage); err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", mqtt.TopicLuxCommand, err)
	}
	a.logger.Info("Subscribed to lux commands", "topic", mqtt.TopicLuxCommand)

	a.startedAt = a.now()
	a.publishRoomStates(ctx, true)
	a.startStepLoop()

	a.logger.Info("Lux agent started and ready")

	<-ctx.Done()
	a.logger.Info("Lux agent stopping")

	return nil
}

// Stop gracefully stops the lux agent
func (a *Agent) Stop() error {
	a.logger.Info("Stopping lux agent")

	a.stopOnce.Do(func() {
		a.tickerMux.Lock()
		defer a.tickerMux.Unlock()

		if a.ticker != nil {
			a.ticker.Stop()
		}
		close(a.stopChan)
	})

	a.mqtt.Disconnect()

	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Error("Error closing Redis connection", "error", err)
			return err
		}
	}

	a.logger.Info("Lux agent stopped")
	return nil
}

// startStepLoop advances room effects on every tick. It does nothing once
// the agent has been stopped.
func (a *Agent) startStepLoop() {
	a.tickerMux.Lock()
	defer a.tickerMux.Unlock()

	select {
	case <-a.stopChan:
		a.logger.Debug("Agent already stopped, not starting effect step loop")
		return
	default:
	}

	ticker := time.NewTicker(a.cfg.StepInterval())
	a.ticker = ticker

	go func() {
		a.logger.Info("Starting effect step loop", "interval_ms", a.cfg.StepIntervalMs)
		for {
			select {
			case <-ticker.C:
				a.step(context.Background())
			case <-a.stopChan:
				return
			}
		}
	}()
}

// step advances the engine to the current time and publishes what changed
func (a *Agent) step(ctx context.Context) {
	t := a.now().Sub(a.startedAt).Seconds()
	a.engine.Step(t)
	a.publishRoomStates(ctx, false)
}

// handleCommandMessage handles console commands relayed over MQTT. The
// payload is either {"cmd": "..."} or the raw command text.
func (a *Agent) handleCommandMessage(msg mqtt.Message) {
	raw := commandFromPayload(msg.Payload())
	if raw == "" {
		a.logger.Debug("Ignoring empty command message", "topic", msg.Topic())
		return
	}

	outcome := a.Dispatch(context.Background(), raw)
	a.logger.Debug("Processed command message",
		"topic", msg.Topic(),
		"handled", outcome.Handled)
}

func commandFromPayload(payload []byte) string {
	var body struct {
		Cmd string `json:"cmd"`
	}
	if err := json.Unmarshal(payload, &body); err == nil {
		return strings.TrimSpace(body.Cmd)
	}
	return strings.TrimSpace(string(payload))
}
