package terminal

import (
	"context"
	"image/color"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/gdamore/tcell/v2"

	"github.com/olivierh59500/particle-field/internal/scene"
	"github.com/olivierh59500/particle-field/internal/toast"
)

const eventBuffer = 100

var toastColors = map[toast.Severity]color.NRGBA{
	toast.Info:    {R: 139, G: 92, B: 246, A: 255},
	toast.Success: {R: 34, G: 160, B: 94, A: 255},
	toast.Error:   {R: 200, G: 50, B: 60, A: 255},
}

var toastText = color.NRGBA{R: 255, G: 255, B: 255, A: 255}

// Runner drives a scene on a tcell screen at a fixed tick rate
type Runner struct {
	screen  tcell.Screen
	scene   *scene.Scene
	surface *Surface
	tick    time.Duration
	logger  *slog.Logger
	now     func() time.Time
}

// NewRunner creates a runner. The screen must already be initialized.
func NewRunner(screen tcell.Screen, sc *scene.Scene, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	cfg := sc.Config()
	return &Runner{
		screen:  screen,
		scene:   sc,
		surface: NewSurface(screen, cfg.Terminal.CellWidth, cfg.Terminal.CellHeight, cfg.BackgroundColor()),
		tick:    time.Second / time.Duration(cfg.Window.TPS),
		logger:  logger,
		now:     time.Now,
	}
}

// Surface returns the runner's drawing surface
func (r *Runner) Surface() *Surface {
	return r.surface
}

// Run blocks until ctx is done, the user quits or the scene is stopped.
// The caller owns the screen and calls Fini afterwards.
func (r *Runner) Run(ctx context.Context) error {
	r.resize()

	ticker := time.NewTicker(r.tick)
	defer ticker.Stop()

	events := make(chan tcell.Event, eventBuffer)
	go func() {
		for {
			ev := r.screen.PollEvent()
			if ev == nil {
				return // screen finalized
			}
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev := <-events:
			if !r.handleEvent(ev) {
				return nil
			}

		case <-ticker.C:
			if r.scene.Stopped() {
				return nil
			}
			r.frame()
		}
	}
}

// frame advances the scene and redraws the screen
func (r *Runner) frame() {
	now := r.now()
	r.scene.Tick(now)

	r.surface.SetBackground(r.scene.Config().BackgroundColor())
	r.scene.Field.Draw(r.surface)
	r.drawToasts(now)
	r.screen.Show()
}

func (r *Runner) drawToasts(now time.Time) {
	cols, _ := r.screen.Size()
	for i, t := range r.scene.Toasts.Active(now) {
		text := " " + t.Text() + " "
		col := cols - utf8.RuneCountInString(text) - 1
		if col < 0 {
			col = 0
		}
		r.surface.DrawText(col, 1+i, text, toastText, toastColors[t.Severity])
	}
}

// handleEvent processes one terminal event and reports whether to keep running
func (r *Runner) handleEvent(ev tcell.Event) bool {
	now := r.now()
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return false
		case tcell.KeyRune:
			switch ev.Rune() {
			case 'q':
				return false
			case ' ':
				r.scene.TogglePause(now)
			case 'm':
				r.scene.Magic(now)
			}
		}

	case *tcell.EventResize:
		r.screen.Sync()
		r.resize()
	}
	return true
}

// resize records the current terminal size on the field
func (r *Runner) resize() {
	w, h := r.surface.Size()
	if fw, fh := r.scene.Field.Size(); fw != w || fh != h {
		r.scene.Field.Resize(w, h)
		r.logger.Debug("Surface resized", "width", w, "height", h)
	}
}
