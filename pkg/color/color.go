// Package color converts between the colour representations used to preview
// simulated light output: RGB, HSL, HSV, hex strings and colour temperature.
//
// Every function is pure and safe for concurrent use. Numeric inputs outside
// their valid range are clamped rather than rejected; HexToRGB is the only
// operation that returns an error.
package color

import "math"

// Colour temperature bounds in Kelvin
const (
	// MinKelvin and MaxKelvin bound the input accepted by KelvinToRGB
	MinKelvin = 1000
	MaxKelvin = 40000

	// WarmestKelvin and CoolestKelvin bound the range exposed to users
	WarmestKelvin = 2700
	CoolestKelvin = 6500

	DefaultKelvin = 4000
	WarmKelvin    = 3000
	NeutralKelvin = 4000
	CoolKelvin    = 5500
)

// RGB is an additive colour with channels in [0,255]
type RGB struct {
	R int `json:"r"`
	G int `json:"g"`
	B int `json:"b"`
}

// HSL is hue [0,360), saturation [0,100] and lightness [0,100]
type HSL struct {
	H int `json:"h"`
	S int `json:"s"`
	L int `json:"l"`
}

// HSV is hue [0,360), saturation [0,100] and value [0,100]
type HSV struct {
	H int `json:"h"`
	S int `json:"s"`
	V int `json:"v"`
}

// ClampRGB constrains every channel to [0,255]
func ClampRGB(c RGB) RGB {
	return RGB{
		R: clampInt(c.R, 0, 255),
		G: clampInt(c.G, 0, 255),
		B: clampInt(c.B, 0, 255),
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// wrapHue brings a hue in degrees into [0,360).
func wrapHue(h int) int {
	h %= 360
	if h < 0 {
		h += 360
	}
	return h
}

// round rounds half up, matching how the preview UI rounds channel values.
func round(v float64) int {
	return int(math.Floor(v + 0.5))
}

// normalize returns the 0-1 channels of c with their max, min and spread.
func normalize(c RGB) (r, g, b, max, min, diff float64) {
	c = ClampRGB(c)
	r = float64(c.R) / 255
	g = float64(c.G) / 255
	b = float64(c.B) / 255
	max = math.Max(r, math.Max(g, b))
	min = math.Min(r, math.Min(g, b))
	return r, g, b, max, min, max - min
}

// hue computes the hue in [0,360) from normalized channels. diff must be non-zero.
func hue(r, g, b, max, diff float64) int {
	var h float64
	switch max {
	case r:
		h = (g - b) / diff
		if g < b {
			h += 6
		}
	case g:
		h = (b-r)/diff + 2
	default:
		h = (r-g)/diff + 4
	}

	deg := round(h / 6 * 360)
	if deg >= 360 {
		deg -= 360
	}
	return deg
}
