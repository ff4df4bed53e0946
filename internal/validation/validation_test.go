package validation

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidators(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantErr string
	}{
		{"valid email", Email(" user@example.com "), ""},
		{"missing email", Email(""), "email is required"},
		{"blank email", Email("   "), "email cannot be empty"},
		{"long email", Email(strings.Repeat("a", 250) + "@x.io"), "too long"},
		{"bad email", Email("user@localhost"), "invalid email format"},

		{"brightness ok", Brightness(100), ""},
		{"brightness high", Brightness(101), "brightness must be between 0 and 100"},
		{"brightness NaN", Brightness(math.NaN()), "must be a number"},

		{"kelvin ok", ColorTemp(2700), ""},
		{"kelvin low", ColorTemp(2000), "between 2700K and 6500K"},

		{"hue ok", Hue(360), ""},
		{"hue negative", Hue(-1), "hue must be between 0 and 360"},
		{"saturation high", Saturation(100.5), "saturation"},
		{"percentage ok", Percentage(0), ""},

		{"rgb ok", RGBChannel(255), ""},
		{"rgb fractional", RGBChannel(12.5), "must be an integer"},
		{"rgb high", RGBChannel(256), "between 0 and 255"},

		{"hex ok", HexColor("#A0b1C2"), ""},
		{"hex short", HexColor("#fff"), "expected #RRGGBB"},
		{"hex missing", HexColor(""), "required"},

		{"command ok", Command("lux on all"), ""},
		{"command blank", Command("  "), "cannot be empty"},
		{"command long", Command(strings.Repeat("x", 1001)), "too long"},

		{"time ok", Time("23:59"), ""},
		{"time bad", Time("24:00"), "HH:MM"},

		{"device ok", DeviceID("lamp_01-a"), ""},
		{"device bad chars", DeviceID("lamp 01"), "letters, numbers"},
		{"device long", DeviceID(strings.Repeat("d", 101)), "too long"},

		{"power ok", PowerUsage(60), ""},
		{"power negative", PowerUsage(-1), "cannot be negative"},
		{"power unrealistic", PowerUsage(10001), "unrealistic"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.wantErr == "" {
				assert.NoError(t, tt.err)
				return
			}
			assert.ErrorContains(t, tt.err, tt.wantErr)
			assert.True(t, errors.Is(tt.err, ErrInvalid))
		})
	}
}

func TestSanitizeCommand(t *testing.T) {
	assert.Equal(t, "lux on all rm -rf", SanitizeCommand("  lux on all; $(rm -rf) "))
	assert.Equal(t, "lux set living hue 200", SanitizeCommand("lux set living hue 200"))
}

func TestSanitizeEmail(t *testing.T) {
	assert.Equal(t, "user@example.com", SanitizeEmail(" User@Example.com\x00 "))
	assert.Equal(t, "a@b.cobcc: x", SanitizeEmail("A@B.co\r\nBcc: x"))
}
