package color

import "math"

// KelvinToRGB approximates the colour of a black-body radiator at the given
// temperature using Tanner Helland's curve fit. Input is clamped to
// [MinKelvin, MaxKelvin]; NaN is treated as MinKelvin.
//
// The result is a visual approximation for previews, not a colorimetric
// conversion; the fit has visible seams at 1900K and 6600K.
func KelvinToRGB(kelvin float64) RGB {
	if math.IsNaN(kelvin) {
		kelvin = MinKelvin
	}
	temp := clamp(kelvin, MinKelvin, MaxKelvin) / 100

	var r, g, b float64

	// Red
	if temp <= 66 {
		r = 255
	} else {
		r = clamp(329.698727446*math.Pow(temp-60, -0.1332047592), 0, 255)
	}

	// Green
	if temp <= 66 {
		g = 99.4708025861*math.Log(temp) - 161.1195681661
	} else {
		g = 288.1221695283 * math.Pow(temp-60, -0.0755148492)
	}
	g = clamp(g, 0, 255)

	// Blue
	switch {
	case temp >= 66:
		b = 255
	case temp <= 19:
		b = 0
	default:
		b = clamp(138.5177312231*math.Log(temp-10)-305.0447927307, 0, 255)
	}

	return RGB{R: round(r), G: round(g), B: round(b)}
}
