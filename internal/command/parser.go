// Package command parses free-text "lux" console commands into light events.
package command

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// EventType names the event a command produces
type EventType string

const (
	EventSet         EventType = "lux-set"
	EventEffect      EventType = "lux-effect"
	EventOSOpen      EventType = "luxai-os-open"
	EventConsoleOpen EventType = "lux-console-open"
)

// Effect kinds understood by the room engine
const (
	EffectOff   = "off"
	EffectPulse = "pulse"
	EffectWave  = "wave"
)

// RoomAll addresses every room at once
const RoomAll = "all"

// Rooms lists the addressable rooms in engine order
var Rooms = []string{"living", "kitchen", "bedroom", "studio"}

// Event is the structured result of a handled command. Pointer fields are
// only set when the command touched them.
type Event struct {
	Type       EventType `json:"type"`
	Room       string    `json:"room,omitempty"`
	On         *bool     `json:"on,omitempty"`
	Brightness *int      `json:"brightness,omitempty"`
	Hue        *int      `json:"hue,omitempty"`
	Effect     string    `json:"effect,omitempty"`
	Speed      float64   `json:"speed,omitempty"`
	Amount     float64   `json:"amount,omitempty"`
}

// Outcome reports whether input was a lux command and what it did
type Outcome struct {
	Handled bool   `json:"handled"`
	Message string `json:"message"`
	Event   *Event `json:"event,omitempty"`
}

// HelpText lists the supported commands, one per line
var HelpText = strings.Join([]string{
	"lux help - list commands",
	"lux os|open os - open OS",
	"lux on|off <room|all>",
	"lux set <room|all> brightness <0-100>",
	"lux set <room|all> hue <0-360>",
	"lux effect <room|all> pulse|wave <speed> <amount>",
	"lux effect off <room|all>",
}, "\n")

// UnknownMessage is returned for lux-prefixed input that matches no command
const UnknownMessage = "Unknown lux command. Try 'lux help'."

const roomPattern = `(living|kitchen|bedroom|studio|all)`

var (
	luxPrefix   = regexp.MustCompile(`(?i)^lux(\b|$)`)
	stripPrefix = regexp.MustCompile(`^lux\s*`)
	onOffRe     = regexp.MustCompile(`^(on|off)\s+` + roomPattern + `$`)
	setRe       = regexp.MustCompile(`^set\s+` + roomPattern + `\s+(brightness|hue)\s+(\d{1,3})$`)
	effectRe    = regexp.MustCompile(`^effect\s+` + roomPattern + `\s+(pulse|wave)\s+(\d+(?:\.\d+)?)\s+(\d+(?:\.\d+)?)$`)
	effectOffRe = regexp.MustCompile(`^effect\s+off\s+` + roomPattern + `$`)
)

// Parse interprets raw console input. Input that does not start with the
// word "lux" is left unhandled so callers can route it elsewhere.
func Parse(raw string) Outcome {
	input := strings.TrimSpace(raw)
	if !luxPrefix.MatchString(input) {
		return Outcome{}
	}
	t := stripPrefix.ReplaceAllString(strings.ToLower(input), "")

	switch t {
	case "", "help":
		return Outcome{Handled: true, Message: HelpText}
	case "os", "open os":
		return Outcome{Handled: true, Message: "Opened OS", Event: &Event{Type: EventOSOpen}}
	case "status":
		return Outcome{Handled: true, Message: "Status available in UI (OS panel)."}
	case "console":
		return Outcome{Handled: true, Message: "Opened console", Event: &Event{Type: EventConsoleOpen}}
	}

	if m := onOffRe.FindStringSubmatch(t); m != nil {
		on := m[1] == "on"
		label := "Off"
		if on {
			label = "On"
		}
		return Outcome{
			Handled: true,
			Message: fmt.Sprintf("%s %s", label, m[2]),
			Event:   &Event{Type: EventSet, Room: m[2], On: &on},
		}
	}

	if m := setRe.FindStringSubmatch(t); m != nil {
		room, key := m[1], m[2]
		val, _ := strconv.Atoi(m[3])
		ev := &Event{Type: EventSet, Room: room}
		if key == "brightness" {
			val = clamp(val, 0, 100)
			ev.Brightness = &val
		} else {
			val = clamp(val, 0, 360)
			ev.Hue = &val
		}
		return Outcome{
			Handled: true,
			Message: fmt.Sprintf("Set %s %s %d", room, key, val),
			Event:   ev,
		}
	}

	if m := effectRe.FindStringSubmatch(t); m != nil {
		speed, _ := strconv.ParseFloat(m[3], 64)
		amount, _ := strconv.ParseFloat(m[4], 64)
		return Outcome{
			Handled: true,
			Message: fmt.Sprintf("Effect %s %s speed=%s amount=%s", m[2], m[1], formatNumber(speed), formatNumber(amount)),
			Event:   &Event{Type: EventEffect, Room: m[1], Effect: m[2], Speed: speed, Amount: amount},
		}
	}

	if m := effectOffRe.FindStringSubmatch(t); m != nil {
		return Outcome{
			Handled: true,
			Message: fmt.Sprintf("Effect off %s", m[1]),
			Event:   &Event{Type: EventEffect, Room: m[1], Effect: EffectOff},
		}
	}

	return Outcome{Handled: true, Message: UnknownMessage}
}

// TargetRooms expands a room name, resolving "all" to every room
func TargetRooms(room string) []string {
	if room == RoomAll {
		return Rooms
	}
	return []string{room}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// formatNumber prints whole numbers without a fraction and others in shortest form
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
