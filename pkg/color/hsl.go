package color

// RGBToHSL converts an RGB colour to HSL
func RGBToHSL(c RGB) HSL {
	r, g, b, max, min, diff := normalize(c)
	l := (max + min) / 2

	if diff == 0 {
		return HSL{H: 0, S: 0, L: round(l * 100)}
	}

	var s float64
	if l > 0.5 {
		s = diff / (2 - max - min)
	} else {
		s = diff / (max + min)
	}

	return HSL{
		H: hue(r, g, b, max, diff),
		S: round(s * 100),
		L: round(l * 100),
	}
}

// HSLToRGB converts an HSL colour to RGB
func HSLToRGB(c HSL) RGB {
	h := float64(wrapHue(c.H)) / 360
	s := clamp(float64(c.S), 0, 100) / 100
	l := clamp(float64(c.L), 0, 100) / 100

	if s == 0 {
		gray := round(l * 255)
		return RGB{R: gray, G: gray, B: gray}
	}

	var q float64
	if l < 0.5 {
		q = l * (1 + s)
	} else {
		q = l + s - l*s
	}
	p := 2*l - q

	return RGB{
		R: round(hueToChannel(p, q, h+1.0/3) * 255),
		G: round(hueToChannel(p, q, h) * 255),
		B: round(hueToChannel(p, q, h-1.0/3) * 255),
	}
}

// hueToChannel evaluates one channel of the piecewise HSL hue ramp at turn t.
func hueToChannel(p, q, t float64) float64 {
	if t < 0 {
		t += 1
	}
	if t > 1 {
		t -= 1
	}

	switch {
	case t < 1.0/6:
		return p + (q-p)*6*t
	case t < 1.0/2:
		return q
	case t < 2.0/3:
		return p + (q-p)*(2.0/3-t)*6
	default:
		return p
	}
}
