package executor

import (
	"fmt"
	"log/slog"

	"github.com/saaga0h/lux-platform/e2e/internal/scenario"
	"github.com/saaga0h/lux-platform/pkg/mqtt"
)

// CommandPlayer publishes scenario commands the way the console relays them
type CommandPlayer struct {
	client mqtt.Client
	logger *slog.Logger
}

// NewCommandPlayer creates a player on an already connected client
func NewCommandPlayer(client mqtt.Client, logger *slog.Logger) *CommandPlayer {
	return &CommandPlayer{client: client, logger: logger}
}

// Send publishes a step's command to the lux command topic
func (p *CommandPlayer) Send(step scenario.Step) error {
	payload := map[string]string{"cmd": step.Command}
	if err := p.client.PublishJSON(mqtt.TopicLuxCommand, payload); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", mqtt.TopicLuxCommand, err)
	}

	p.logger.Debug("Published command", "topic", mqtt.TopicLuxCommand, "cmd", step.Command)
	return nil
}
