// Package validation checks and sanitizes user input before it reaches the
// light engine or the command relay.
package validation

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/saaga0h/lux-platform/pkg/color"
)

// Limits applied by the validators
const (
	MaxEmailLength    = 254
	MinCommandLength  = 1
	MaxCommandLength  = 1000
	MaxDeviceIDLength = 100
	MaxPowerWatts     = 10000
)

// ErrInvalid is wrapped by every validation failure
var ErrInvalid = errors.New("validation failed")

var (
	emailPattern    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	hexColorPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)
	time24hPattern  = regexp.MustCompile(`^([01]\d|2[0-3]):([0-5]\d)$`)
	deviceIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

	commandUnsafe = regexp.MustCompile("[;&|`$(){}\\[\\]<>]")
	emailUnsafe   = regexp.MustCompile("[\r\n\x00]")
)

func invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...))
}

// Email checks an email address
func Email(email string) error {
	trimmed := strings.TrimSpace(email)
	switch {
	case email == "":
		return invalid("email is required")
	case trimmed == "":
		return invalid("email cannot be empty")
	case len(trimmed) > MaxEmailLength:
		return invalid("email is too long")
	case !emailPattern.MatchString(trimmed):
		return invalid("invalid email format")
	}
	return nil
}

// inRange rejects NaN and values outside [lo, hi]
func inRange(name string, v, lo, hi float64) error {
	if math.IsNaN(v) {
		return invalid("%s must be a number", name)
	}
	if v < lo || v > hi {
		return invalid("%s must be between %g and %g", name, lo, hi)
	}
	return nil
}

// Brightness checks a brightness percentage
func Brightness(v float64) error {
	return inRange("brightness", v, 0, 100)
}

// ColorTemp checks a colour temperature against the user-facing range
func ColorTemp(kelvin float64) error {
	if math.IsNaN(kelvin) {
		return invalid("color temperature must be a number")
	}
	if kelvin < color.WarmestKelvin || kelvin > color.CoolestKelvin {
		return invalid("color temperature must be between %dK and %dK", color.WarmestKelvin, color.CoolestKelvin)
	}
	return nil
}

// Hue checks a hue in degrees
func Hue(v float64) error {
	return inRange("hue", v, 0, 360)
}

// Saturation checks a saturation percentage
func Saturation(v float64) error {
	return inRange("saturation", v, 0, 100)
}

// Percentage checks a generic percentage
func Percentage(v float64) error {
	return inRange("percentage", v, 0, 100)
}

// RGBChannel checks a single colour channel
func RGBChannel(v float64) error {
	if err := inRange("RGB value", v, 0, 255); err != nil {
		return err
	}
	if v != math.Trunc(v) {
		return invalid("RGB value must be an integer")
	}
	return nil
}

// HexColor checks a strict "#rrggbb" colour
func HexColor(hex string) error {
	if hex == "" {
		return invalid("hex color is required")
	}
	if !hexColorPattern.MatchString(hex) {
		return invalid("invalid hex color format (expected #RRGGBB)")
	}
	return nil
}

// Command checks the trimmed length of a console command
func Command(cmd string) error {
	trimmed := strings.TrimSpace(cmd)
	switch {
	case cmd == "":
		return invalid("command is required")
	case len(trimmed) < MinCommandLength:
		return invalid("command cannot be empty")
	case len(trimmed) > MaxCommandLength:
		return invalid("command is too long (max %d characters)", MaxCommandLength)
	}
	return nil
}

// Time checks a 24-hour "HH:MM" time
func Time(t string) error {
	if t == "" {
		return invalid("time is required")
	}
	if !time24hPattern.MatchString(t) {
		return invalid("invalid time format (expected HH:MM in 24-hour format)")
	}
	return nil
}

// DeviceID checks a device identifier
func DeviceID(id string) error {
	trimmed := strings.TrimSpace(id)
	switch {
	case id == "":
		return invalid("device ID is required")
	case trimmed == "":
		return invalid("device ID cannot be empty")
	case len(trimmed) > MaxDeviceIDLength:
		return invalid("device ID is too long")
	case !deviceIDPattern.MatchString(trimmed):
		return invalid("device ID can only contain letters, numbers, hyphens, and underscores")
	}
	return nil
}

// PowerUsage checks a wattage
func PowerUsage(watts float64) error {
	if math.IsNaN(watts) {
		return invalid("power usage must be a number")
	}
	if watts < 0 {
		return invalid("power usage cannot be negative")
	}
	if watts > MaxPowerWatts {
		return invalid("power usage value is unrealistic")
	}
	return nil
}

// SanitizeCommand strips shell metacharacters and surrounding whitespace
func SanitizeCommand(cmd string) string {
	return strings.TrimSpace(commandUnsafe.ReplaceAllString(cmd, ""))
}

// SanitizeEmail strips header-injection characters, trims and lowercases
func SanitizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(emailUnsafe.ReplaceAllString(email, "")))
}
