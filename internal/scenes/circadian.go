package scenes

import (
	"math"
	"time"

	"github.com/sixdouglas/suncalc"
)

// fullDaylightAltitude is the sun altitude (degrees) at which the circadian
// scene reaches its coolest, brightest setting
const fullDaylightAltitude = 45.0

// CircadianSettings bounds the circadian scene for a location
type CircadianSettings struct {
	Latitude      float64
	Longitude     float64
	MinKelvin     int
	MaxKelvin     int
	MinBrightness int
	MaxBrightness int
}

// DefaultCircadianSettings returns warm-to-cool bounds for a location
func DefaultCircadianSettings(lat, lon float64) CircadianSettings {
	return CircadianSettings{
		Latitude:      lat,
		Longitude:     lon,
		MinKelvin:     3000,
		MaxKelvin:     5500,
		MinBrightness: 20,
		MaxBrightness: 100,
	}
}

// Circadian builds a scene that follows the sun: warm and dim while the sun
// is below the horizon, cool and bright once it is high in the sky
func Circadian(t time.Time, settings CircadianSettings) Scene {
	position := suncalc.GetPosition(t, settings.Latitude, settings.Longitude)
	altitude := position.Altitude * (180.0 / math.Pi)

	factor := math.Max(0, math.Min(1, altitude/fullDaylightAltitude))

	return Scene{
		ID:          "circadian",
		Name:        "Circadian",
		Description: "Follows the sun's position",
		Category:    "wellness",
		Brightness:  lerp(settings.MinBrightness, settings.MaxBrightness, factor),
		Temperature: lerp(settings.MinKelvin, settings.MaxKelvin, factor),
	}
}

// ClockCircadian builds the circadian scene from the wall clock alone, for
// setups without a usable location. The time-of-day temperature is clamped
// to the settings and brightness follows it between the brightness bounds.
func ClockCircadian(t time.Time, settings CircadianSettings) Scene {
	kelvin := ByTimeOfDay(TimeOfDay(t))
	kelvin = int(math.Max(float64(settings.MinKelvin), math.Min(float64(settings.MaxKelvin), float64(kelvin))))

	factor := 1.0
	if span := settings.MaxKelvin - settings.MinKelvin; span > 0 {
		factor = float64(kelvin-settings.MinKelvin) / float64(span)
	}

	return Scene{
		ID:          "circadian",
		Name:        "Circadian",
		Description: "Follows the time of day",
		Category:    "wellness",
		Brightness:  lerp(settings.MinBrightness, settings.MaxBrightness, factor),
		Temperature: kelvin,
	}
}

// ByTimeOfDay returns the colour temperature for a time-of-day label,
// warmer toward night. Unknown labels get a neutral 4000K.
func ByTimeOfDay(timeOfDay string) int {
	colorTempMap := map[string]int{
		"early_morning": 3000, // Warm start
		"morning":       4500, // Neutral
		"midday":        5500, // Cool/daylight
		"afternoon":     4500, // Neutral
		"evening":       2700, // Warm
		"late_evening":  2700, // UI floor
		"night":         2700, // Warmest the UI allows
	}

	if temp, exists := colorTempMap[timeOfDay]; exists {
		return temp
	}

	return 4000
}

// TimeOfDay labels an hour of the day for ByTimeOfDay
func TimeOfDay(t time.Time) string {
	switch h := t.Hour(); {
	case h >= 5 && h < 7:
		return "early_morning"
	case h >= 7 && h < 11:
		return "morning"
	case h >= 11 && h < 14:
		return "midday"
	case h >= 14 && h < 18:
		return "afternoon"
	case h >= 18 && h < 21:
		return "evening"
	case h >= 21 && h < 23:
		return "late_evening"
	default:
		return "night"
	}
}

func lerp(lo, hi int, factor float64) int {
	return int(math.Round(float64(lo) + factor*float64(hi-lo)))
}
