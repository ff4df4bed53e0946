package lux

import (
	"context"
	"time"

	"github.com/saaga0h/lux-platform/internal/command"
	"github.com/saaga0h/lux-platform/internal/engine"
	"github.com/saaga0h/lux-platform/internal/validation"
	"github.com/saaga0h/lux-platform/pkg/mqtt"
	"github.com/saaga0h/lux-platform/pkg/redis"
)

// LightCommand is published to a room's light command topic after a command
// changed it
type LightCommand struct {
	engine.RoomState
	Source    string `json:"source"`
	Command   string `json:"command"`
	Timestamp string `json:"timestamp"`
}

// RoomContext is the periodic colour context published for a room
type RoomContext struct {
	engine.RoomState
	Timestamp string `json:"timestamp"`
}

// UIEvent is published for commands that only affect the console UI
type UIEvent struct {
	Type      command.EventType `json:"type"`
	Source    string            `json:"source"`
	Timestamp string            `json:"timestamp"`
}

// Dispatch parses a console command, applies it to the engine and publishes
// the result. Shell metacharacters are stripped before parsing. The parser's
// outcome is returned unchanged.
func (a *Agent) Dispatch(ctx context.Context, raw string) command.Outcome {
	raw = validation.SanitizeCommand(raw)

	outcome := command.Parse(raw)
	if !outcome.Handled {
		a.logger.Debug("Ignoring non-lux input", "input", raw)
		return outcome
	}
	if outcome.Event == nil {
		return outcome
	}

	ev := *outcome.Event
	timestamp := a.now().UTC().Format(time.RFC3339)

	switch ev.Type {
	case command.EventSet, command.EventEffect:
		if err := a.engine.Apply(ev); err != nil {
			a.logger.Warn("Failed to apply command", "input", raw, "error", err)
			return outcome
		}
		for _, room := range command.TargetRooms(ev.Room) {
			a.publishLightCommand(room, raw, timestamp)
		}
		a.publishRoomStates(ctx, false)

	case command.EventOSOpen, command.EventConsoleOpen:
		topic := mqtt.LuxEventTopic(string(ev.Type))
		event := UIEvent{Type: ev.Type, Source: a.cfg.ServiceName, Timestamp: timestamp}
		if err := a.mqtt.PublishJSON(topic, event); err != nil {
			a.logger.Error("Failed to publish UI event", "topic", topic, "error", err)
		}
	}

	a.logger.Info("Lux command dispatched",
		"type", ev.Type,
		"room", ev.Room,
		"message", outcome.Message)

	return outcome
}

func (a *Agent) publishLightCommand(room, raw, timestamp string) {
	state, err := a.engine.Room(room)
	if err != nil {
		a.logger.Warn("Skipping light command for unknown room", "room", room)
		return
	}

	topic := mqtt.LightCommandTopic(room)
	msg := LightCommand{
		RoomState: state,
		Source:    a.cfg.ServiceName,
		Command:   raw,
		Timestamp: timestamp,
	}
	if err := a.mqtt.PublishJSON(topic, msg); err != nil {
		a.logger.Error("Failed to publish light command", "topic", topic, "error", err)
		return
	}

	a.logger.Debug("Published light command", "topic", topic, "hex", state.Hex)
}

// publishRoomStates publishes the colour context of every room whose state
// changed, or that has not been refreshed within half the room state TTL.
// force publishes every room.
func (a *Agent) publishRoomStates(ctx context.Context, force bool) {
	now := a.now()
	refresh := a.cfg.RoomStateTTL() / 2

	a.publishMux.Lock()
	defer a.publishMux.Unlock()

	for _, state := range a.engine.Snapshot() {
		last, seen := a.lastPublished[state.Name]
		if !force && seen && last.state == state && now.Sub(last.at) < refresh {
			continue
		}

		msg := RoomContext{RoomState: state, Timestamp: now.UTC().Format(time.RFC3339)}
		topic := mqtt.RoomContextTopic(state.Name)
		if err := a.mqtt.PublishJSON(topic, msg); err != nil {
			a.logger.Error("Failed to publish room context", "topic", topic, "error", err)
			continue
		}

		a.mirrorRoomState(ctx, state, now)
		a.lastPublished[state.Name] = publishedState{state: state, at: now}
	}
}

// mirrorRoomState stores a room's state in Redis with a TTL so that it
// disappears when the agent stops publishing
func (a *Agent) mirrorRoomState(ctx context.Context, state engine.RoomState, now time.Time) {
	if a.redis == nil {
		return
	}

	key := redis.RoomStateKey(state.Name)
	fields := map[string]interface{}{
		"on":         state.On,
		"brightness": state.Brightness,
		"hue":        state.Hue,
		"effect":     state.Effect,
		"hex":        state.Hex,
		"r":          state.RGB.R,
		"g":          state.RGB.G,
		"b":          state.RGB.B,
		"updated_at": now.UnixMilli(),
	}

	if err := a.redis.HSet(ctx, key, fields); err != nil {
		a.logger.Error("Failed to mirror room state", "key", key, "error", err)
		return
	}
	if err := a.redis.Expire(ctx, key, a.cfg.RoomStateTTL()); err != nil {
		a.logger.Error("Failed to set room state TTL", "key", key, "error", err)
	}
}
