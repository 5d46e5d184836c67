package scene

import (
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// RotateHue turns c by deg degrees around the HSV hue wheel, keeping alpha
func RotateHue(c color.NRGBA, deg float64) color.NRGBA {
	col := colorful.Color{
		R: float64(c.R) / 255,
		G: float64(c.G) / 255,
		B: float64(c.B) / 255,
	}
	h, s, v := col.Hsv()
	h = math.Mod(h+deg, 360)
	if h < 0 {
		h += 360
	}
	r, g, b := colorful.Hsv(h, s, v).Clamped().RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: c.A}
}

// Blend mixes c over bg by c's alpha and returns an opaque colour
func Blend(c, bg color.NRGBA) color.NRGBA {
	a := float64(c.A) / 255
	mix := func(fg, back uint8) uint8 {
		return uint8(math.Round(float64(fg)*a + float64(back)*(1-a)))
	}
	return color.NRGBA{R: mix(c.R, bg.R), G: mix(c.G, bg.G), B: mix(c.B, bg.B), A: 255}
}
