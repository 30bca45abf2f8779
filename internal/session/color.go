package session

import (
	"image/color"
	"math"
)

// HandleColor tints a charge handle: red hues for positive strengths, blue
// for negative, brighter as |q| approaches MaxStrength.
func HandleColor(q float64) color.RGBA {
	h := 0.0
	if q < 0 {
		h = 240
	}
	v := 0.4 + 0.6*math.Min(math.Abs(q)/MaxStrength, 1)
	r, g, b := hsvToRGB(h, 1, v)
	return color.RGBA{uint8(r * 255), uint8(g * 255), uint8(b * 255), 255}
}

func hsvToRGB(h, s, v float64) (float64, float64, float64) {
	h = math.Mod(h, 360)
	c := v * s
	x := c * (1 - math.Abs(math.Mod(h/60, 2)-1))
	m := v - c
	var r, g, b float64
	switch {
	case h < 60:
		r, g, b = c, x, 0
	case h < 120:
		r, g, b = x, c, 0
	case h < 180:
		r, g, b = 0, c, x
	case h < 240:
		r, g, b = 0, x, c
	case h < 300:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}
	return r + m, g + m, b + m
}
