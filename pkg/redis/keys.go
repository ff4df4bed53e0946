package redis

import "fmt"

// Key layout for the Lux platform
const (
	// CommandSeqKey is the counter that assigns relayed command ids
	CommandSeqKey = "lux:command:seq"

	// CommandLastKey holds the latest relayed command (hash: id, cmd, at)
	CommandLastKey = "lux:command:last"

	// CommandHistoryKey holds recent commands as JSON, newest first (list)
	CommandHistoryKey = "lux:command:history"
)

// RoomStateKey returns the key for a room's mirrored light state (hash)
// Pattern: lux:room:{room}
func RoomStateKey(room string) string {
	return fmt.Sprintf("lux:room:%s", room)
}
