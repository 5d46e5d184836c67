package game

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/olivierh59500/particle-field/internal/haze"
)

// screenSurface draws the field onto an ebiten image
type screenSurface struct {
	img        *ebiten.Image
	background color.NRGBA
	backdrop   *hazeLayer // nil when the haze is off
}

func (s *screenSurface) Clear() {
	s.img.Fill(s.background)
	if s.backdrop != nil {
		s.backdrop.draw(s.img)
	}
}

func (s *screenSurface) FillCircle(x, y, r float64, c color.Color) {
	vector.DrawFilledCircle(s.img, float32(x), float32(y), float32(r), c, true)
}

func (s *screenSurface) StrokeLine(x0, y0, x1, y1, width float64, c color.Color) {
	vector.StrokeLine(s.img, float32(x0), float32(y0), float32(x1), float32(y1), float32(width), c, true)
}

// hazeLayer renders the noise grid at one pixel per cell and scales it up
type hazeLayer struct {
	haze     *haze.Haze
	cellSize int
	cols     int
	rows     int
	pix      []byte
	img      *ebiten.Image
}

func newHazeLayer(h *haze.Haze, cellSize int) *hazeLayer {
	return &hazeLayer{haze: h, cellSize: cellSize}
}

func (l *hazeLayer) setCellSize(n int) {
	if n > 0 && n != l.cellSize {
		l.cellSize = n
		l.cols, l.rows = 0, 0
	}
}

func (l *hazeLayer) draw(dst *ebiten.Image) {
	b := dst.Bounds()
	cols := int(math.Ceil(float64(b.Dx()) / float64(l.cellSize)))
	rows := int(math.Ceil(float64(b.Dy()) / float64(l.cellSize)))
	if cols == 0 || rows == 0 {
		return
	}

	if cols != l.cols || rows != l.rows {
		if l.img != nil {
			l.img.Deallocate()
		}
		l.cols, l.rows = cols, rows
		l.pix = make([]byte, cols*rows*4)
		l.img = ebiten.NewImage(cols, rows)
	}

	l.haze.Fill(l.pix, l.cols, l.rows)
	l.img.WritePixels(l.pix)

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(l.cellSize), float64(l.cellSize))
	op.Filter = ebiten.FilterLinear
	dst.DrawImage(l.img, op)
}
