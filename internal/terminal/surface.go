// Package terminal runs the particle field inside a terminal with tcell.
package terminal

import (
	"image/color"
	"math"

	"github.com/gdamore/tcell/v2"

	"github.com/olivierh59500/particle-field/internal/scene"
)

// Particle glyphs by radius, smallest first
var particleGlyphs = []rune{'·', '•', '●'}

// Line glyphs by opacity, faintest first
var lineGlyphs = []rune{'.', ':', '+'}

// Surface draws onto a tcell screen. One cell covers CellWidth x CellHeight
// surface units; colours are blended against the background since cells have
// no alpha.
type Surface struct {
	screen     tcell.Screen
	CellWidth  float64
	CellHeight float64
	background color.NRGBA
}

// NewSurface creates a surface over screen
func NewSurface(screen tcell.Screen, cellWidth, cellHeight float64, background color.NRGBA) *Surface {
	return &Surface{
		screen:     screen,
		CellWidth:  cellWidth,
		CellHeight: cellHeight,
		background: background,
	}
}

// SetBackground changes the clear colour
func (s *Surface) SetBackground(bg color.NRGBA) {
	s.background = bg
}

// Size returns the screen size in surface units
func (s *Surface) Size() (float64, float64) {
	cols, rows := s.screen.Size()
	return float64(cols) * s.CellWidth, float64(rows) * s.CellHeight
}

func (s *Surface) Clear() {
	s.screen.Fill(' ', s.style(s.background))
}

func (s *Surface) FillCircle(x, y, r float64, c color.Color) {
	col, row := s.cell(x, y)
	glyph := particleGlyphs[0]
	switch {
	case r >= 2.5:
		glyph = particleGlyphs[2]
	case r >= 1.5:
		glyph = particleGlyphs[1]
	}
	s.set(col, row, glyph, c)
}

// StrokeLine rasterizes the segment over cells. Cells holding a particle are
// left alone. Width is ignored; a cell is the thinnest line a terminal has.
func (s *Surface) StrokeLine(x0, y0, x1, y1, _ float64, c color.Color) {
	nc := color.NRGBAModel.Convert(c).(color.NRGBA)
	if nc.A == 0 {
		return
	}
	glyph := lineGlyphs[int(float64(nc.A)/256*float64(len(lineGlyphs)))]

	cx0, cy0 := s.cell(x0, y0)
	cx1, cy1 := s.cell(x1, y1)
	bresenham(cx0, cy0, cx1, cy1, func(col, row int) {
		if isParticle(s.glyphAt(col, row)) {
			return
		}
		s.set(col, row, glyph, nc)
	})
}

// DrawText writes a string starting at (col, row) with the given colours
func (s *Surface) DrawText(col, row int, text string, fg, bg color.NRGBA) {
	style := tcell.StyleDefault.Foreground(rgb(fg)).Background(rgb(bg))
	for _, r := range text {
		s.screen.SetContent(col, row, r, nil, style)
		col++
	}
}

func (s *Surface) cell(x, y float64) (int, int) {
	return int(math.Floor(x / s.CellWidth)), int(math.Floor(y / s.CellHeight))
}

func (s *Surface) glyphAt(col, row int) rune {
	r, _, _, _ := s.screen.GetContent(col, row)
	return r
}

func (s *Surface) set(col, row int, glyph rune, c color.Color) {
	cols, rows := s.screen.Size()
	if col < 0 || row < 0 || col >= cols || row >= rows {
		return
	}
	nc := color.NRGBAModel.Convert(c).(color.NRGBA)
	s.screen.SetContent(col, row, glyph, nil, s.style(scene.Blend(nc, s.background)))
}

func (s *Surface) style(fg color.NRGBA) tcell.Style {
	return tcell.StyleDefault.Foreground(rgb(fg)).Background(rgb(s.background))
}

func rgb(c color.NRGBA) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

func isParticle(r rune) bool {
	for _, g := range particleGlyphs {
		if r == g {
			return true
		}
	}
	return false
}

// bresenham visits every cell on the line from (x0, y0) to (x1, y1), ends included
func bresenham(x0, y0, x1, y1 int, plot func(x, y int)) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	e := dx + dy

	for {
		plot(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
