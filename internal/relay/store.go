// Package relay keeps the most recent console commands so that other clients
// can pick them up. Only the latest command and a short history are retained.
package relay

import (
	"context"
	"time"
)

// Command is a relayed console command
type Command struct {
	ID  int64     `json:"id"`
	Cmd string    `json:"cmd"`
	At  time.Time `json:"at"`
}

// Epoch is the timestamp of the zero command
var Epoch = time.Unix(0, 0).UTC()

// Empty returns the command reported before anything has been relayed
func Empty() Command {
	return Command{At: Epoch}
}

// Store relays commands. Append assigns ids starting at 1.
type Store interface {
	// Last returns the latest command, or Empty() when none was relayed
	Last(ctx context.Context) (Command, error)

	// Append records a command and returns it with its assigned id
	Append(ctx context.Context, cmd string) (Command, error)

	// History returns up to n recent commands, newest first
	History(ctx context.Context, n int) ([]Command, error)
}
