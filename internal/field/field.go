// Package field implements the drifting particle field: a fixed set of points
// that move at constant speed, bounce off the surface edges and are joined by
// fading lines when close to each other.
package field

import (
	"math/rand"
)

// Field defaults
const (
	DefaultCount     = 100
	DefaultMaxSpeed  = 0.5
	DefaultMinRadius = 1.0
	DefaultMaxRadius = 3.0
)

// Particle struct: Represents a single particle
type Particle struct {
	X, Y   float64 // Position
	VX, VY float64 // Velocity
	R      float64 // Radius, fixed at creation
}

// Options controls how the field is populated
type Options struct {
	Count     int
	MaxSpeed  float64 // Velocity components are drawn from [-MaxSpeed, MaxSpeed]
	MinRadius float64
	MaxRadius float64
}

// DefaultOptions returns the stock field parameters
func DefaultOptions() Options {
	return Options{
		Count:     DefaultCount,
		MaxSpeed:  DefaultMaxSpeed,
		MinRadius: DefaultMinRadius,
		MaxRadius: DefaultMaxRadius,
	}
}

// Field owns the particles and the recorded surface size.
// It is not safe for concurrent use; a single loop drives it.
type Field struct {
	Width, Height float64
	particles     []Particle
	opts          Options
	style         Style
	rng           *rand.Rand
}

// New creates a field. Particles are created by Initialize.
func New(rng *rand.Rand, opts Options) *Field {
	if opts.Count <= 0 {
		opts.Count = DefaultCount
	}
	return &Field{
		opts:  opts,
		style: DefaultStyle(),
		rng:   rng,
	}
}

// Initialize records the surface size and populates the field.
// Calling it again replaces every particle.
func (f *Field) Initialize(width, height float64) {
	f.Width = width
	f.Height = height

	f.particles = make([]Particle, f.opts.Count)
	for i := range f.particles {
		f.particles[i] = Particle{
			X:  f.rng.Float64() * width,
			Y:  f.rng.Float64() * height,
			VX: f.uniform(-f.opts.MaxSpeed, f.opts.MaxSpeed),
			VY: f.uniform(-f.opts.MaxSpeed, f.opts.MaxSpeed),
			R:  f.uniform(f.opts.MinRadius, f.opts.MaxRadius),
		}
	}
}

func (f *Field) uniform(lo, hi float64) float64 {
	return lo + f.rng.Float64()*(hi-lo)
}

// Step advances every particle by its velocity and reflects it at the edges.
//
// The reflection only flips the velocity sign; a particle that crossed an edge
// stays outside for this step and comes back on the next one.
func (f *Field) Step() {
	for i := range f.particles {
		p := &f.particles[i]
		p.X += p.VX
		p.Y += p.VY

		if p.X > f.Width || p.X < 0 {
			p.VX = -p.VX
		}
		if p.Y > f.Height || p.Y < 0 {
			p.VY = -p.VY
		}
	}
}

// Resize records a new surface size. Particles are left where they are.
func (f *Field) Resize(width, height float64) {
	f.Width = width
	f.Height = height
}

// Size returns the recorded surface size
func (f *Field) Size() (float64, float64) {
	return f.Width, f.Height
}

// Len returns the number of particles
func (f *Field) Len() int {
	return len(f.particles)
}

// Particles returns a copy of the current particle state
func (f *Field) Particles() []Particle {
	out := make([]Particle, len(f.particles))
	copy(out, f.particles)
	return out
}

// SetParticles replaces the particle state. Used to set up exact scenarios.
func (f *Field) SetParticles(ps []Particle) {
	f.particles = make([]Particle, len(ps))
	copy(f.particles, ps)
}
