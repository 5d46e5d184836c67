// Package scene holds the state shared by the window and terminal front ends:
// the particle field, the live config, toasts and the pause/magic switches.
package scene

import (
	"log/slog"
	"math"
	"sync/atomic"
	"time"

	"github.com/olivierh59500/particle-field/internal/config"
	"github.com/olivierh59500/particle-field/internal/field"
	"github.com/olivierh59500/particle-field/internal/toast"
)

// Magic effect timing
const (
	MagicDuration = 6 * time.Second
	magicHueSpeed = 180.0 // degrees per second
)

// Scene is driven by exactly one loop. Only Stop and Stopped may be called
// from other goroutines.
type Scene struct {
	Field  *field.Field
	Toasts *toast.Queue

	cfg     *config.Config
	logger  *slog.Logger
	updates <-chan config.Update

	base       field.Style
	paused     bool
	hazeOn     bool
	magicUntil time.Time
	magicStart time.Time
	stopped    atomic.Bool
}

// New wraps an initialized field. updates may be nil when the config is not watched.
func New(f *field.Field, cfg *config.Config, updates <-chan config.Update, logger *slog.Logger) *Scene {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Scene{
		Field:   f,
		Toasts:  toast.NewQueue(cfg.Toast.Duration, cfg.Toast.MaxVisible),
		cfg:     cfg,
		logger:  logger,
		updates: updates,
		hazeOn:  cfg.Haze.Enabled,
	}
	s.applyStyle()
	return s
}

// Config returns the live config
func (s *Scene) Config() *config.Config {
	return s.cfg
}

// Tick runs once per frame: it applies a pending config reload, updates the
// magic colours and advances the field unless paused.
func (s *Scene) Tick(now time.Time) {
	s.pollUpdates(now)
	s.updateMagic(now)
	if !s.paused {
		s.Field.Step()
	}
}

func (s *Scene) pollUpdates(now time.Time) {
	if s.updates == nil {
		return
	}
	select {
	case u, ok := <-s.updates:
		if !ok {
			s.updates = nil
			return
		}
		s.Apply(u, now)
	default:
	}
}

// Apply handles one config reload result
func (s *Scene) Apply(u config.Update, now time.Time) {
	if u.Err != nil {
		s.Toasts.Push("Failed to reload config", toast.Error, now)
		return
	}
	if u.Config == nil {
		return
	}

	s.cfg.ApplyVisual(u.Config)
	s.hazeOn = s.cfg.Haze.Enabled
	s.Toasts.SetTTL(s.cfg.Toast.Duration)
	s.Toasts.SetMaxVisible(s.cfg.Toast.MaxVisible)
	s.applyStyle()

	s.logger.Info("Applied config reload")
	s.Toasts.Push("Config reloaded", toast.Success, now)
}

func (s *Scene) applyStyle() {
	s.base = s.cfg.FieldStyle()
	s.Field.SetStyle(s.base)
}

// TogglePause freezes or resumes the field. Drawing continues while paused.
func (s *Scene) TogglePause(now time.Time) {
	s.paused = !s.paused
	if s.paused {
		s.Toasts.Push("Paused", toast.Info, now)
	} else {
		s.Toasts.Push("Resumed", toast.Info, now)
	}
}

// Paused reports whether stepping is suspended
func (s *Scene) Paused() bool {
	return s.paused
}

// ToggleHaze switches the noise backdrop
func (s *Scene) ToggleHaze(now time.Time) {
	s.hazeOn = !s.hazeOn
	if s.hazeOn {
		s.Toasts.Push("Haze on", toast.Info, now)
	} else {
		s.Toasts.Push("Haze off", toast.Info, now)
	}
}

// HazeEnabled reports whether the backdrop should be drawn
func (s *Scene) HazeEnabled() bool {
	return s.hazeOn
}

// Magic cycles the field colours through the hue wheel for MagicDuration
func (s *Scene) Magic(now time.Time) {
	if !s.MagicActive(now) {
		s.magicStart = now
	}
	s.magicUntil = now.Add(MagicDuration)
	s.Toasts.Push("Magic activated!", toast.Success, now)
}

// MagicActive reports whether the hue cycle is running
func (s *Scene) MagicActive(now time.Time) bool {
	return now.Before(s.magicUntil)
}

func (s *Scene) updateMagic(now time.Time) {
	if s.magicUntil.IsZero() {
		return
	}
	if !s.MagicActive(now) {
		s.magicUntil = time.Time{}
		s.Field.SetStyle(s.base)
		return
	}

	deg := math.Mod(now.Sub(s.magicStart).Seconds()*magicHueSpeed, 360)
	st := s.base
	st.Particle = RotateHue(st.Particle, deg)
	st.Link = RotateHue(st.Link, deg)
	s.Field.SetStyle(st)
}

// Stop asks the driving loop to exit. Safe to call from any goroutine.
func (s *Scene) Stop() {
	s.stopped.Store(true)
}

// Stopped reports whether Stop was called
func (s *Scene) Stopped() bool {
	return s.stopped.Load()
}
