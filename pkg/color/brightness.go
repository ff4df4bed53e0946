package color

import "math"

// CalculateBrightness returns the perceived luminance of c in [0,255]
func CalculateBrightness(c RGB) int {
	c = ClampRGB(c)
	return round(0.299*float64(c.R) + 0.587*float64(c.G) + 0.114*float64(c.B))
}

// IsLightColor reports whether c is perceived as light (brightness above 128)
func IsLightColor(c RGB) bool {
	return CalculateBrightness(c) > 128
}

// CalculatePowerUsage estimates the draw in watts of a light running at
// brightnessPercent of maxWattage. When c is non-nil the estimate grows by up
// to 15% for bright colours, a heuristic for RGB LEDs rather than an
// electrical model. The result is rounded to two decimals.
func CalculatePowerUsage(maxWattage, brightnessPercent float64, c *RGB) float64 {
	usage := maxWattage * clamp(brightnessPercent, 0, 100) / 100

	if c != nil {
		factor := 1 + float64(CalculateBrightness(*c))/255*0.15
		usage *= factor
	}

	return math.Round(usage*100) / 100
}
