package color

import "math"

// RGBToHSV converts an RGB colour to HSV
func RGBToHSV(c RGB) HSV {
	r, g, b, max, _, diff := normalize(c)

	if diff == 0 {
		return HSV{H: 0, S: 0, V: round(max * 100)}
	}

	s := 0.0
	if max != 0 {
		s = diff / max
	}

	return HSV{
		H: hue(r, g, b, max, diff),
		S: round(s * 100),
		V: round(max * 100),
	}
}

// HSVToRGB converts an HSV colour to RGB using the six 60° sectors
func HSVToRGB(c HSV) RGB {
	h := float64(wrapHue(c.H)) / 360
	s := clamp(float64(c.S), 0, 100) / 100
	v := clamp(float64(c.V), 0, 100) / 100

	i := math.Floor(h * 6)
	f := h*6 - i
	p := v * (1 - s)
	q := v * (1 - f*s)
	t := v * (1 - (1-f)*s)

	var r, g, b float64
	switch int(i) % 6 {
	case 0:
		r, g, b = v, t, p
	case 1:
		r, g, b = q, v, p
	case 2:
		r, g, b = p, v, t
	case 3:
		r, g, b = p, q, v
	case 4:
		r, g, b = t, p, v
	case 5:
		r, g, b = v, p, q
	}

	return RGB{
		R: round(r * 255),
		G: round(g * 255),
		B: round(b * 255),
	}
}
