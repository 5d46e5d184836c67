// Package haze renders a slowly drifting Perlin-noise backdrop.
package haze

import (
	"image/color"
	"math"

	"github.com/aquilax/go-perlin"
)

// Noise parameters
const (
	alpha   = 2.0
	beta    = 2.0
	octaves = 3
)

// Options configures the backdrop
type Options struct {
	Tint     color.NRGBA
	Scale    float64 // Noise frequency per grid cell
	Speed    float64 // Noise units per second along the time axis
	Strength float64 // Maximum alpha in [0, 1]
}

// Haze samples 3-D Perlin noise (x, y, time) into a coarse RGBA grid
type Haze struct {
	noise *perlin.Perlin
	opts  Options
	t     float64
}

// New creates a backdrop with a fixed noise seed
func New(seed int64, opts Options) *Haze {
	return &Haze{
		noise: perlin.NewPerlin(alpha, beta, octaves, seed),
		opts:  opts,
	}
}

// SetOptions replaces the backdrop settings without resetting time
func (h *Haze) SetOptions(opts Options) {
	h.opts = opts
}

// Options returns the current settings
func (h *Haze) Options() Options {
	return h.opts
}

// Advance moves the backdrop forward by dt seconds
func (h *Haze) Advance(dt float64) {
	h.t += dt * h.opts.Speed
}

// Time returns the current position along the noise time axis
func (h *Haze) Time() float64 {
	return h.t
}

// Fill writes cols*rows RGBA pixels into pix, row major.
// pix must hold at least cols*rows*4 bytes.
func (h *Haze) Fill(pix []byte, cols, rows int) {
	tint := h.opts.Tint
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			a := h.Sample(float64(x), float64(y))
			i := (y*cols + x) * 4
			// WritePixels expects premultiplied alpha.
			pix[i] = uint8(float64(tint.R) * a)
			pix[i+1] = uint8(float64(tint.G) * a)
			pix[i+2] = uint8(float64(tint.B) * a)
			pix[i+3] = uint8(255 * a)
		}
	}
}

// Sample returns the backdrop opacity at grid cell (x, y), in [0, Strength]
func (h *Haze) Sample(x, y float64) float64 {
	n := h.noise.Noise3D(x*h.opts.Scale, y*h.opts.Scale, h.t)
	// Noise is roughly in [-1, 1]; map to [0, 1] and clamp the tails.
	v := math.Max(0, math.Min(1, (n+1)/2))
	return v * h.opts.Strength
}
