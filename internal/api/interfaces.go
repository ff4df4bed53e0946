package api

import (
	"context"

	"github.com/saaga0h/lux-platform/internal/command"
	"github.com/saaga0h/lux-platform/internal/engine"
)

// Dispatcher executes a relayed console command against the lights
type Dispatcher interface {
	Dispatch(ctx context.Context, raw string) command.Outcome
}

// RoomSource exposes the current room light states
type RoomSource interface {
	Snapshot() []engine.RoomState
}
