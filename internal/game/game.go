// Package game runs the particle field in a desktop window with Ebitengine.
package game

import (
	"errors"
	"image/color"
	"log/slog"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/olivierh59500/particle-field/internal/haze"
	"github.com/olivierh59500/particle-field/internal/scene"
	"github.com/olivierh59500/particle-field/internal/toast"
)

// Toast box layout
const (
	toastRight   = 30
	toastTop     = 30
	toastPadding = 10
	toastHeight  = 36
	toastGap     = 8
	glyphWidth   = 6 // ebitenutil debug font
)

var toastColors = map[toast.Severity]color.NRGBA{
	toast.Info:    {R: 139, G: 92, B: 246, A: 220},
	toast.Success: {R: 34, G: 160, B: 94, A: 220},
	toast.Error:   {R: 200, G: 50, B: 60, A: 220},
}

// Game implements ebiten.Game on top of a scene
type Game struct {
	scene   *scene.Scene
	surface *screenSurface
	haze    *hazeLayer
	logger  *slog.Logger
	now     func() time.Time
	dt      float64
}

// New creates the window front end. h may be nil to disable the backdrop.
func New(sc *scene.Scene, h *haze.Haze, logger *slog.Logger) *Game {
	if logger == nil {
		logger = slog.Default()
	}
	cfg := sc.Config()
	g := &Game{
		scene:   sc,
		surface: &screenSurface{background: cfg.BackgroundColor()},
		logger:  logger,
		now:     time.Now,
		dt:      1.0 / float64(cfg.Window.TPS),
	}
	if h != nil {
		g.haze = newHazeLayer(h, cfg.Haze.CellSize)
	}
	return g
}

// Stop ends the window loop on the next tick. Safe from any goroutine.
func (g *Game) Stop() {
	g.scene.Stop()
}

// Update is called each tick by Ebitengine
func (g *Game) Update() error {
	if g.scene.Stopped() {
		return ebiten.Termination
	}

	now := g.now()
	g.handleInput(now)
	g.scene.Tick(now)

	if g.haze != nil {
		cfg := g.scene.Config()
		g.haze.haze.SetOptions(cfg.HazeOptions())
		g.haze.setCellSize(cfg.Haze.CellSize)
		g.haze.haze.Advance(g.dt)
	}
	return nil
}

func (g *Game) handleInput(now time.Time) {
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.scene.TogglePause(now)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyH) {
		g.scene.ToggleHaze(now)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyM) {
		g.scene.Magic(now)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyQ) {
		g.logger.Info("Quit requested")
		g.scene.Stop()
	}
}

// Draw is called each frame by Ebitengine
func (g *Game) Draw(screen *ebiten.Image) {
	g.surface.img = screen
	g.surface.background = g.scene.Config().BackgroundColor()
	g.surface.backdrop = nil
	if g.haze != nil && g.scene.HazeEnabled() {
		g.surface.backdrop = g.haze
	}

	g.scene.Field.Draw(g.surface)
	g.drawToasts(screen)
}

func (g *Game) drawToasts(screen *ebiten.Image) {
	width := screen.Bounds().Dx()
	y := toastTop
	for _, t := range g.scene.Toasts.Active(g.now()) {
		w := len(t.Message)*glyphWidth + 2*toastPadding
		x := width - toastRight - w
		vector.DrawFilledRect(screen, float32(x), float32(y), float32(w), toastHeight, toastColors[t.Severity], true)
		ebitenutil.DebugPrintAt(screen, t.Message, x+toastPadding, y+(toastHeight-16)/2)
		y += toastHeight + toastGap
	}
}

// Layout maps the window 1:1 onto the surface and resizes the field when the
// window size changes
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	w, h := float64(outsideWidth), float64(outsideHeight)
	if fw, fh := g.scene.Field.Size(); fw != w || fh != h {
		g.scene.Field.Resize(w, h)
		g.logger.Debug("Surface resized", "width", outsideWidth, "height", outsideHeight)
	}
	return outsideWidth, outsideHeight
}

// Run opens the window and blocks until it is closed or the scene is stopped
func Run(g *Game) error {
	cfg := g.scene.Config()
	ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	ebiten.SetWindowTitle(cfg.Window.Title)
	ebiten.SetTPS(cfg.Window.TPS)
	if cfg.Window.Resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	}

	err := ebiten.RunGame(g)
	if errors.Is(err, ebiten.Termination) {
		return nil
	}
	return err
}
