package command

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Unhandled(t *testing.T) {
	for _, in := range []string{"", "   ", "open os", "luxury lamp", "hello lux"} {
		t.Run(in, func(t *testing.T) {
			out := Parse(in)
			assert.False(t, out.Handled)
			assert.Empty(t, out.Message)
			assert.Nil(t, out.Event)
		})
	}
}

func TestParse_Help(t *testing.T) {
	for _, in := range []string{"lux", "LUX", " lux help ", "Lux HELP"} {
		out := Parse(in)
		assert.True(t, out.Handled, in)
		assert.Equal(t, HelpText, out.Message, in)
		assert.Len(t, strings.Split(out.Message, "\n"), 7)
	}
}

func TestParse_SimpleCommands(t *testing.T) {
	tests := []struct {
		in        string
		message   string
		eventType EventType
	}{
		{"lux os", "Opened OS", EventOSOpen},
		{"lux open os", "Opened OS", EventOSOpen},
		{"lux console", "Opened console", EventConsoleOpen},
		{"lux status", "Status available in UI (OS panel).", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			out := Parse(tt.in)
			require.True(t, out.Handled)
			assert.Equal(t, tt.message, out.Message)
			if tt.eventType == "" {
				assert.Nil(t, out.Event)
				return
			}
			require.NotNil(t, out.Event)
			assert.Equal(t, tt.eventType, out.Event.Type)
		})
	}
}

func TestParse_OnOff(t *testing.T) {
	out := Parse("lux on living")
	require.NotNil(t, out.Event)
	assert.Equal(t, "On living", out.Message)
	assert.Equal(t, EventSet, out.Event.Type)
	assert.Equal(t, "living", out.Event.Room)
	require.NotNil(t, out.Event.On)
	assert.True(t, *out.Event.On)

	out = Parse("LUX OFF All")
	require.NotNil(t, out.Event)
	assert.Equal(t, "Off all", out.Message)
	assert.False(t, *out.Event.On)

	out = Parse("lux on garage")
	assert.Equal(t, UnknownMessage, out.Message)
	assert.Nil(t, out.Event)
}

func TestParse_Set(t *testing.T) {
	tests := []struct {
		in             string
		message        string
		wantBrightness *int
		wantHue        *int
	}{
		{"lux set kitchen brightness 40", "Set kitchen brightness 40", intPtr(40), nil},
		{"lux set kitchen brightness 250", "Set kitchen brightness 100", intPtr(100), nil},
		{"lux set all hue 200", "Set all hue 200", nil, intPtr(200)},
		{"lux set studio hue 999", "Set studio hue 360", nil, intPtr(360)},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			out := Parse(tt.in)
			require.NotNil(t, out.Event)
			assert.Equal(t, tt.message, out.Message)
			assert.Equal(t, tt.wantBrightness, out.Event.Brightness)
			assert.Equal(t, tt.wantHue, out.Event.Hue)
			assert.Nil(t, out.Event.On)
		})
	}

	assert.Equal(t, UnknownMessage, Parse("lux set kitchen brightness 1000").Message, "at most three digits")
	assert.Equal(t, UnknownMessage, Parse("lux set kitchen saturation 10").Message)
}

func TestParse_Effect(t *testing.T) {
	out := Parse("lux effect bedroom pulse 1 0.5")
	require.NotNil(t, out.Event)
	assert.Equal(t, "Effect pulse bedroom speed=1 amount=0.5", out.Message)
	assert.Equal(t, Event{Type: EventEffect, Room: "bedroom", Effect: EffectPulse, Speed: 1, Amount: 0.5}, *out.Event)

	out = Parse("lux effect all wave 2.25 1")
	require.NotNil(t, out.Event)
	assert.Equal(t, EffectWave, out.Event.Effect)
	assert.Equal(t, 2.25, out.Event.Speed)

	out = Parse("lux effect off studio")
	require.NotNil(t, out.Event)
	assert.Equal(t, "Effect off studio", out.Message)
	assert.Equal(t, EffectOff, out.Event.Effect)

	assert.Equal(t, UnknownMessage, Parse("lux effect studio pulse fast").Message)
}

func TestTargetRooms(t *testing.T) {
	assert.Equal(t, Rooms, TargetRooms(RoomAll))
	assert.Equal(t, []string{"kitchen"}, TargetRooms("kitchen"))
}

func intPtr(v int) *int { return &v }
