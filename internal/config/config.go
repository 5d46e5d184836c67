// Package config provides configuration loading and management for the
// particle field.
package config

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"

	"github.com/olivierh59500/particle-field/internal/field"
	"github.com/olivierh59500/particle-field/internal/haze"
)

// Config represents the complete configuration
type Config struct {
	Window   WindowConfig   `yaml:"window"`
	Field    FieldConfig    `yaml:"field"`
	Style    StyleConfig    `yaml:"style"`
	Haze     HazeConfig     `yaml:"haze"`
	Toast    ToastConfig    `yaml:"toast"`
	Terminal TerminalConfig `yaml:"terminal"`
}

// WindowConfig configures the desktop window
type WindowConfig struct {
	Title     string `yaml:"title"`
	Width     int    `yaml:"width"`
	Height    int    `yaml:"height"`
	Resizable bool   `yaml:"resizable"`
	// TPS is the number of field steps per second
	TPS int `yaml:"tps"`
}

// FieldConfig configures how the particles are created.
// These settings are read once; they are not hot-reloaded.
type FieldConfig struct {
	Count     int     `yaml:"count"`
	MaxSpeed  float64 `yaml:"max_speed"`
	MinRadius float64 `yaml:"min_radius"`
	MaxRadius float64 `yaml:"max_radius"`
	// Seed for the particle generator (0 = time based)
	Seed int64 `yaml:"seed"`
}

// StyleConfig holds colours as hex strings (#rrggbb or #rrggbbaa)
type StyleConfig struct {
	Background   string  `yaml:"background"`
	Particle     string  `yaml:"particle"`
	Link         string  `yaml:"link"`
	LinkDistance float64 `yaml:"link_distance"`
	LinkWidth    float64 `yaml:"link_width"`
}

// HazeConfig configures the noise backdrop
type HazeConfig struct {
	Enabled  bool    `yaml:"enabled"`
	Tint     string  `yaml:"tint"`
	CellSize int     `yaml:"cell_size"`
	Scale    float64 `yaml:"scale"`
	Speed    float64 `yaml:"speed"`
	Strength float64 `yaml:"strength"`
}

// ToastConfig configures on-screen notifications
type ToastConfig struct {
	Duration   time.Duration `yaml:"duration"`
	MaxVisible int           `yaml:"max_visible"`
}

// TerminalConfig configures the terminal backend.
// One cell covers CellWidth x CellHeight surface units.
type TerminalConfig struct {
	CellWidth  float64 `yaml:"cell_width"`
	CellHeight float64 `yaml:"cell_height"`
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	opts := field.DefaultOptions()
	return &Config{
		Window: WindowConfig{
			Title:     "Particle Field",
			Width:     800,
			Height:    600,
			Resizable: true,
			TPS:       60,
		},
		Field: FieldConfig{
			Count:     opts.Count,
			MaxSpeed:  opts.MaxSpeed,
			MinRadius: opts.MinRadius,
			MaxRadius: opts.MaxRadius,
		},
		Style: StyleConfig{
			Background:   "#0f0a1e",
			Particle:     "#8b5cf6cc",
			Link:         "#8b5cf6",
			LinkDistance: 100,
			LinkWidth:    0.5,
		},
		Haze: HazeConfig{
			Enabled:  true,
			Tint:     "#c084fc",
			CellSize: 24,
			Scale:    0.08,
			Speed:    0.15,
			Strength: 0.12,
		},
		Toast: ToastConfig{
			Duration:   3500 * time.Millisecond,
			MaxVisible: 4,
		},
		Terminal: TerminalConfig{
			CellWidth:  8,
			CellHeight: 16,
		},
	}
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height)
	}
	if c.Window.TPS <= 0 {
		return fmt.Errorf("window.tps must be positive")
	}
	if c.Field.Count <= 0 {
		return fmt.Errorf("field.count must be positive")
	}
	if c.Field.MaxSpeed < 0 {
		return fmt.Errorf("field.max_speed must not be negative")
	}
	if c.Field.MinRadius <= 0 || c.Field.MaxRadius < c.Field.MinRadius {
		return fmt.Errorf("field radius range [%g, %g] is invalid", c.Field.MinRadius, c.Field.MaxRadius)
	}
	if c.Style.LinkDistance <= 0 {
		return fmt.Errorf("style.link_distance must be positive")
	}
	if c.Style.LinkWidth <= 0 {
		return fmt.Errorf("style.link_width must be positive")
	}
	for name, value := range map[string]string{
		"style.background": c.Style.Background,
		"style.particle":   c.Style.Particle,
		"style.link":       c.Style.Link,
		"haze.tint":        c.Haze.Tint,
	} {
		if _, err := ParseColor(value); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	if c.Haze.CellSize <= 0 {
		return fmt.Errorf("haze.cell_size must be positive")
	}
	if c.Haze.Strength < 0 || c.Haze.Strength > 1 {
		return fmt.Errorf("haze.strength must be between 0 and 1")
	}
	if c.Toast.Duration <= 0 {
		return fmt.Errorf("toast.duration must be positive")
	}
	if c.Terminal.CellWidth <= 0 || c.Terminal.CellHeight <= 0 {
		return fmt.Errorf("terminal cell size must be positive")
	}
	return nil
}

// LoadFromFile loads configuration from a YAML file on top of the defaults
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveToFile saves configuration to a YAML file
func (c *Config) SaveToFile(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Merge merges another config into this one (other takes precedence for non-zero values).
// Booleans cannot be told apart from their zero value and are taken from files
// loaded with LoadFromFile, which start from the defaults.
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	// Window
	if other.Window.Title != "" {
		c.Window.Title = other.Window.Title
	}
	if other.Window.Width != 0 {
		c.Window.Width = other.Window.Width
	}
	if other.Window.Height != 0 {
		c.Window.Height = other.Window.Height
	}
	if other.Window.TPS != 0 {
		c.Window.TPS = other.Window.TPS
	}
	c.Window.Resizable = other.Window.Resizable

	// Field
	if other.Field.Count != 0 {
		c.Field.Count = other.Field.Count
	}
	if other.Field.MaxSpeed != 0 {
		c.Field.MaxSpeed = other.Field.MaxSpeed
	}
	if other.Field.MinRadius != 0 {
		c.Field.MinRadius = other.Field.MinRadius
	}
	if other.Field.MaxRadius != 0 {
		c.Field.MaxRadius = other.Field.MaxRadius
	}
	if other.Field.Seed != 0 {
		c.Field.Seed = other.Field.Seed
	}

	c.mergeVisual(other)

	// Terminal
	if other.Terminal.CellWidth != 0 {
		c.Terminal.CellWidth = other.Terminal.CellWidth
	}
	if other.Terminal.CellHeight != 0 {
		c.Terminal.CellHeight = other.Terminal.CellHeight
	}
}

// ApplyVisual replaces the settings that may change while running (style,
// haze, toast) with those of other. Field and window settings are left
// untouched. other must be a complete config, as returned by LoadFromFile:
// zero values are applied as is.
func (c *Config) ApplyVisual(other *Config) {
	if other == nil {
		return
	}
	c.Style = other.Style
	c.Haze = other.Haze
	c.Toast = other.Toast
}

func (c *Config) mergeVisual(other *Config) {
	if other.Style.Background != "" {
		c.Style.Background = other.Style.Background
	}
	if other.Style.Particle != "" {
		c.Style.Particle = other.Style.Particle
	}
	if other.Style.Link != "" {
		c.Style.Link = other.Style.Link
	}
	if other.Style.LinkDistance != 0 {
		c.Style.LinkDistance = other.Style.LinkDistance
	}
	if other.Style.LinkWidth != 0 {
		c.Style.LinkWidth = other.Style.LinkWidth
	}

	c.Haze.Enabled = other.Haze.Enabled
	if other.Haze.Tint != "" {
		c.Haze.Tint = other.Haze.Tint
	}
	if other.Haze.CellSize != 0 {
		c.Haze.CellSize = other.Haze.CellSize
	}
	if other.Haze.Scale != 0 {
		c.Haze.Scale = other.Haze.Scale
	}
	if other.Haze.Speed != 0 {
		c.Haze.Speed = other.Haze.Speed
	}
	if other.Haze.Strength != 0 {
		c.Haze.Strength = other.Haze.Strength
	}

	if other.Toast.Duration != 0 {
		c.Toast.Duration = other.Toast.Duration
	}
	if other.Toast.MaxVisible != 0 {
		c.Toast.MaxVisible = other.Toast.MaxVisible
	}
}

// FieldOptions returns the options used to populate the field
func (c *Config) FieldOptions() field.Options {
	return field.Options{
		Count:     c.Field.Count,
		MaxSpeed:  c.Field.MaxSpeed,
		MinRadius: c.Field.MinRadius,
		MaxRadius: c.Field.MaxRadius,
	}
}

// FieldStyle returns the drawing style. Colours are assumed validated; an
// unparsable colour falls back to the default.
func (c *Config) FieldStyle() field.Style {
	def := field.DefaultStyle()
	return field.Style{
		Particle:     colorOr(c.Style.Particle, def.Particle),
		Link:         colorOr(c.Style.Link, def.Link),
		LinkDistance: c.Style.LinkDistance,
		LinkWidth:    c.Style.LinkWidth,
	}
}

// BackgroundColor returns the colour the surface is cleared to
func (c *Config) BackgroundColor() color.NRGBA {
	return colorOr(c.Style.Background, color.NRGBA{R: 15, G: 10, B: 30, A: 255})
}

// HazeOptions returns the noise backdrop settings
func (c *Config) HazeOptions() haze.Options {
	return haze.Options{
		Tint:     colorOr(c.Haze.Tint, color.NRGBA{R: 192, G: 132, B: 252, A: 255}),
		Scale:    c.Haze.Scale,
		Speed:    c.Haze.Speed,
		Strength: c.Haze.Strength,
	}
}

// ParseColor parses #rrggbb or #rrggbbaa into a non-premultiplied colour
func ParseColor(s string) (color.NRGBA, error) {
	s = strings.TrimSpace(s)
	alpha := uint8(255)
	if len(s) == 9 && strings.HasPrefix(s, "#") {
		a, err := colorful.Hex("#" + s[7:9] + "0000")
		if err != nil {
			return color.NRGBA{}, fmt.Errorf("invalid colour %q: %w", s, err)
		}
		alpha = uint8(a.R*255 + 0.5)
		s = s[:7]
	}

	c, err := colorful.Hex(s)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid colour %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: alpha}, nil
}

func colorOr(s string, fallback color.NRGBA) color.NRGBA {
	c, err := ParseColor(s)
	if err != nil {
		return fallback
	}
	return c
}
