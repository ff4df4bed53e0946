package scenes

import (
	"github.com/saaga0h/lux-platform/pkg/color"
)

// DefaultMaxWattage is the rated draw assumed for a light without its own rating
const DefaultMaxWattage = 10

// Preview is the rendered colour and estimated draw of a scene
type Preview struct {
	RGB   color.RGB `json:"rgb"`
	Hex   string    `json:"hex"`
	Light bool      `json:"light"`
	Watts float64   `json:"watts"`
}

// Render previews a scene on a light rated at maxWattage
func Render(s Scene, maxWattage float64) Preview {
	rgb := color.KelvinToRGB(float64(s.Temperature))
	return Preview{
		RGB:   rgb,
		Hex:   color.RGBToHex(rgb),
		Light: color.IsLightColor(rgb),
		Watts: color.CalculatePowerUsage(maxWattage, float64(s.Brightness), &rgb),
	}
}
