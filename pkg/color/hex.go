package color

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ErrInvalidColorFormat is matched by errors.Is for every hex parse failure
var ErrInvalidColorFormat = errors.New("invalid color format")

// InvalidColorFormatError reports a string that is not a 3 or 6 digit hex colour
type InvalidColorFormatError struct {
	Input string
}

func (e *InvalidColorFormatError) Error() string {
	return fmt.Sprintf("invalid hex color: %s", e.Input)
}

// Is reports whether target is ErrInvalidColorFormat
func (e *InvalidColorFormatError) Is(target error) bool {
	return target == ErrInvalidColorFormat
}

var hexPattern = regexp.MustCompile(`^(?:[0-9A-Fa-f]{3}|[0-9A-Fa-f]{6})$`)

// RGBToHex formats c as a lowercase "#rrggbb" string, clamping each channel
func RGBToHex(c RGB) string {
	c = ClampRGB(c)
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// HexToRGB parses "#rrggbb", "rrggbb", "#rgb" or "rgb"
func HexToRGB(hex string) (RGB, error) {
	clean := strings.TrimPrefix(hex, "#")

	if !hexPattern.MatchString(clean) {
		return RGB{}, &InvalidColorFormatError{Input: hex}
	}

	// Expand short form: fff -> ffffff
	if len(clean) == 3 {
		clean = string([]byte{clean[0], clean[0], clean[1], clean[1], clean[2], clean[2]})
	}

	v, err := strconv.ParseUint(clean, 16, 32)
	if err != nil {
		return RGB{}, &InvalidColorFormatError{Input: hex}
	}

	return RGB{
		R: int(v >> 16 & 0xff),
		G: int(v >> 8 & 0xff),
		B: int(v & 0xff),
	}, nil
}
