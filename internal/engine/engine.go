// Package engine simulates the per-room light state driven by lux commands.
package engine

import (
	"fmt"
	"math"
	"sync"

	"github.com/saaga0h/lux-platform/internal/command"
	"github.com/saaga0h/lux-platform/pkg/color"
)

// Effect codes, in the order the engine understands them
const (
	EffectOff   = command.EffectOff
	EffectPulse = command.EffectPulse
	EffectWave  = command.EffectWave
)

// Room rendering constants
const (
	defaultBrightness = 60
	defaultHue        = 210
	roomSaturation    = 80
	modulationScale   = 20
	phaseOffset       = 0.6
)

// Room is the simulated state of one room's lights
type Room struct {
	Name       string  `json:"room"`
	On         bool    `json:"on"`
	Brightness float64 `json:"brightness"`
	Hue        float64 `json:"hue"`
	Effect     string  `json:"effect"`
	Speed      float64 `json:"speed"`
	Amount     float64 `json:"amount"`
}

// RoomState is a room together with its rendered colour
type RoomState struct {
	Room
	RGB color.RGB `json:"rgb"`
	Hex string    `json:"hex"`
}

// Engine holds the light state of every room. It is safe for concurrent use.
type Engine struct {
	mu    sync.RWMutex
	rooms []*Room
	index map[string]int
}

// New creates an engine with every room on at default brightness and hue
func New() *Engine {
	e := &Engine{
		rooms: make([]*Room, len(command.Rooms)),
		index: make(map[string]int, len(command.Rooms)),
	}
	for i, name := range command.Rooms {
		e.index[name] = i
		e.rooms[i] = &Room{
			Name:       name,
			On:         true,
			Brightness: defaultBrightness,
			Hue:        defaultHue,
			Effect:     EffectOff,
			Speed:      1,
			Amount:     0,
		}
	}
	return e
}

// UnknownRoomError is returned for a room name the engine does not simulate
type UnknownRoomError struct {
	Room string
}

func (e UnknownRoomError) Error() string {
	return fmt.Sprintf("unknown room: %s", e.Room)
}

// targets resolves a room name (or "all") to engine rooms. Caller holds mu.
func (e *Engine) targets(room string) ([]*Room, error) {
	if room == command.RoomAll {
		return e.rooms, nil
	}
	i, ok := e.index[room]
	if !ok {
		return nil, UnknownRoomError{Room: room}
	}
	return []*Room{e.rooms[i]}, nil
}

// SetRoom sets power, brightness (clamped to 0-100) and hue (mod 360)
func (e *Engine) SetRoom(room string, on bool, brightness, hue float64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	rooms, err := e.targets(room)
	if err != nil {
		return err
	}
	for _, r := range rooms {
		r.On = on
		r.Brightness = clamp(brightness, 0, 100)
		r.Hue = wrapHue(hue)
	}
	return nil
}

// SetEffect configures the animation of a room
func (e *Engine) SetEffect(room, effect string, speed, amount float64) error {
	switch effect {
	case EffectOff, EffectPulse, EffectWave:
	default:
		return fmt.Errorf("unknown effect: %s", effect)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	rooms, err := e.targets(room)
	if err != nil {
		return err
	}
	for _, r := range rooms {
		r.Effect = effect
		if effect != EffectOff {
			r.Speed = speed
			r.Amount = amount
		}
	}
	return nil
}

// Apply updates the engine from a parsed command event. Events that do not
// touch light state are ignored.
func (e *Engine) Apply(ev command.Event) error {
	switch ev.Type {
	case command.EventSet:
		e.mu.Lock()
		defer e.mu.Unlock()

		rooms, err := e.targets(ev.Room)
		if err != nil {
			return err
		}
		for _, r := range rooms {
			if ev.On != nil {
				r.On = *ev.On
			}
			if ev.Brightness != nil {
				r.Brightness = clamp(float64(*ev.Brightness), 0, 100)
			}
			if ev.Hue != nil {
				r.Hue = wrapHue(float64(*ev.Hue))
			}
		}
		return nil
	case command.EventEffect:
		return e.SetEffect(ev.Room, ev.Effect, ev.Speed, ev.Amount)
	default:
		return nil
	}
}

// Step advances every animated room to time t (seconds). Pulse modulates
// brightness, wave modulates brightness and drifts the hue.
func (e *Engine) Step(t float64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	for i, r := range e.rooms {
		var mod float64
		switch r.Effect {
		case EffectPulse:
			mod = math.Sin(t*2*math.Pi*r.Speed+float64(i)*phaseOffset) * r.Amount
		case EffectWave:
			mod = math.Sin(t*r.Speed+float64(i)*phaseOffset) * r.Amount
		default:
			continue
		}

		r.Brightness = clamp(r.Brightness+mod*modulationScale, 0, 100)
		if r.Effect == EffectWave {
			r.Hue = wrapHue(r.Hue + mod*modulationScale)
		}
	}
}

// RoomRGB renders a room's current colour. Rooms that are off render black.
func (e *Engine) RoomRGB(room string) (color.RGB, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	i, ok := e.index[room]
	if !ok {
		return color.RGB{}, UnknownRoomError{Room: room}
	}
	return render(e.rooms[i]), nil
}

// Room returns a copy of a room's state with its rendered colour
func (e *Engine) Room(room string) (RoomState, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	i, ok := e.index[room]
	if !ok {
		return RoomState{}, UnknownRoomError{Room: room}
	}
	return state(e.rooms[i]), nil
}

// Snapshot returns every room in engine order
func (e *Engine) Snapshot() []RoomState {
	e.mu.RLock()
	defer e.mu.RUnlock()

	out := make([]RoomState, len(e.rooms))
	for i, r := range e.rooms {
		out[i] = state(r)
	}
	return out
}

func state(r *Room) RoomState {
	rgb := render(r)
	return RoomState{Room: *r, RGB: rgb, Hex: color.RGBToHex(rgb)}
}

func render(r *Room) color.RGB {
	value := 0.0
	if r.On {
		value = r.Brightness
	}
	return color.HSVToRGB(color.HSV{
		H: int(math.Round(r.Hue)),
		S: roomSaturation,
		V: int(math.Round(value)),
	})
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func wrapHue(h float64) float64 {
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	return h
}
