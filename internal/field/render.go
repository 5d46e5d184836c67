package field

import (
	"image/color"
	"math"
)

// Surface is the 2-D drawing target a field renders onto
type Surface interface {
	// Clear wipes the whole surface.
	Clear()
	FillCircle(x, y, r float64, c color.Color)
	StrokeLine(x0, y0, x1, y1, width float64, c color.Color)
}

// Style holds the colours and the connection threshold
type Style struct {
	Particle     color.NRGBA
	Link         color.NRGBA // Alpha is replaced per line by the connection opacity
	LinkDistance float64
	LinkWidth    float64
}

// DefaultStyle is violet particles at 80% alpha with 100-unit connections
func DefaultStyle() Style {
	return Style{
		Particle:     color.NRGBA{R: 139, G: 92, B: 246, A: 204},
		Link:         color.NRGBA{R: 139, G: 92, B: 246, A: 255},
		LinkDistance: 100,
		LinkWidth:    0.5,
	}
}

// Link is a connection between particles A and B, A < B
type Link struct {
	A, B     int
	Distance float64
	Opacity  float64
}

// SetStyle replaces the drawing style
func (f *Field) SetStyle(s Style) {
	if s.LinkDistance <= 0 {
		s.LinkDistance = DefaultStyle().LinkDistance
	}
	f.style = s
}

// Style returns the drawing style
func (f *Field) Style() Style {
	return f.style
}

// Opacity returns the connection opacity for two particles d units apart:
// 1 at distance 0, falling linearly to 0 at the link distance and beyond.
func (f *Field) Opacity(d float64) float64 {
	return opacity(d, f.style.LinkDistance)
}

func opacity(d, limit float64) float64 {
	if d >= limit {
		return 0
	}
	return 1 - d/limit
}

// EachLink calls fn for every unordered pair closer than the link distance.
// Each pair is visited once, with i < j.
func (f *Field) EachLink(fn func(Link)) {
	limit := f.style.LinkDistance
	for i := range f.particles {
		a := &f.particles[i]
		for j := i + 1; j < len(f.particles); j++ {
			b := &f.particles[j]
			dx := a.X - b.X
			dy := a.Y - b.Y
			d := math.Sqrt(dx*dx + dy*dy)
			if d < limit {
				fn(Link{A: i, B: j, Distance: d, Opacity: opacity(d, limit)})
			}
		}
	}
}

// Links returns every connection of the current state
func (f *Field) Links() []Link {
	var links []Link
	f.EachLink(func(l Link) {
		links = append(links, l)
	})
	return links
}

// Draw clears the surface and paints particles followed by their connections
func (f *Field) Draw(s Surface) {
	s.Clear()

	for _, p := range f.particles {
		s.FillCircle(p.X, p.Y, p.R, f.style.Particle)
	}

	f.EachLink(func(l Link) {
		a := f.particles[l.A]
		b := f.particles[l.B]
		col := f.style.Link
		col.A = uint8(math.Round(l.Opacity * 255))
		s.StrokeLine(a.X, a.Y, b.X, b.Y, f.style.LinkWidth, col)
	})
}

// Frame advances the field one step and redraws it
func (f *Field) Frame(s Surface) {
	f.Step()
	f.Draw(s)
}
