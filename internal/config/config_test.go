package config

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olivierh59500/particle-field/internal/field"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 100, cfg.Field.Count)
	assert.Equal(t, 0.5, cfg.Field.MaxSpeed)
	assert.Equal(t, 1.0, cfg.Field.MinRadius)
	assert.Equal(t, 3.0, cfg.Field.MaxRadius)
	assert.Equal(t, 100.0, cfg.Style.LinkDistance)
	assert.Equal(t, 60, cfg.Window.TPS)
	assert.Equal(t, 3500*time.Millisecond, cfg.Toast.Duration)
	require.NoError(t, cfg.Validate())

	// The default config must reproduce the stock field exactly.
	assert.Equal(t, field.DefaultOptions(), cfg.FieldOptions())
	assert.Equal(t, field.DefaultStyle(), cfg.FieldStyle())
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid default config",
			modify:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "zero width",
			modify:  func(c *Config) { c.Window.Width = 0 },
			wantErr: true,
		},
		{
			name:    "zero tps",
			modify:  func(c *Config) { c.Window.TPS = 0 },
			wantErr: true,
		},
		{
			name:    "no particles",
			modify:  func(c *Config) { c.Field.Count = 0 },
			wantErr: true,
		},
		{
			name:    "negative speed",
			modify:  func(c *Config) { c.Field.MaxSpeed = -1 },
			wantErr: true,
		},
		{
			name:    "inverted radius range",
			modify:  func(c *Config) { c.Field.MinRadius, c.Field.MaxRadius = 3, 1 },
			wantErr: true,
		},
		{
			name:    "zero link distance",
			modify:  func(c *Config) { c.Style.LinkDistance = 0 },
			wantErr: true,
		},
		{
			name:    "bad particle colour",
			modify:  func(c *Config) { c.Style.Particle = "violet" },
			wantErr: true,
		},
		{
			name:    "haze too strong",
			modify:  func(c *Config) { c.Haze.Strength = 1.5 },
			wantErr: true,
		},
		{
			name:    "zero toast duration",
			modify:  func(c *Config) { c.Toast.Duration = 0 },
			wantErr: true,
		},
		{
			name:    "zero terminal cell",
			modify:  func(c *Config) { c.Terminal.CellHeight = 0 },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "field.yaml")

	content := `
window:
  width: 1024
field:
  count: 42
  seed: 9
style:
  particle: "#ff000080"
  link_distance: 80
toast:
  duration: 2s
haze:
  enabled: false
`
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0644))

	cfg, err := LoadFromFile(configPath)
	require.NoError(t, err)

	assert.Equal(t, 1024, cfg.Window.Width)
	assert.Equal(t, 600, cfg.Window.Height, "unset values keep their defaults")
	assert.Equal(t, 42, cfg.Field.Count)
	assert.Equal(t, int64(9), cfg.Field.Seed)
	assert.Equal(t, 80.0, cfg.Style.LinkDistance)
	assert.Equal(t, 2*time.Second, cfg.Toast.Duration)
	assert.False(t, cfg.Haze.Enabled)
	assert.Equal(t, color.NRGBA{R: 255, A: 128}, cfg.FieldStyle().Particle)
	require.NoError(t, cfg.Validate())
}

func TestLoadFromFileErrors(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("field: [unclosed"), 0644))
	_, err = LoadFromFile(bad)
	assert.Error(t, err)
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "field.yaml")

	cfg := DefaultConfig()
	cfg.Field.Count = 250
	cfg.Style.Link = "#00ff00"
	require.NoError(t, cfg.SaveToFile(path))

	loaded, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestMerge(t *testing.T) {
	cfg := DefaultConfig()
	other := &Config{
		Window: WindowConfig{Title: "Portfolio", Resizable: true},
		Field:  FieldConfig{Count: 10},
		Style:  StyleConfig{LinkWidth: 2},
		Haze:   HazeConfig{Enabled: true, Strength: 0.3},
	}

	cfg.Merge(other)

	assert.Equal(t, "Portfolio", cfg.Window.Title)
	assert.Equal(t, 800, cfg.Window.Width)
	assert.Equal(t, 10, cfg.Field.Count)
	assert.Equal(t, 2.0, cfg.Style.LinkWidth)
	assert.Equal(t, 100.0, cfg.Style.LinkDistance)
	assert.Equal(t, 0.3, cfg.Haze.Strength)

	cfg.Merge(nil)
	assert.Equal(t, 10, cfg.Field.Count)
}

func TestApplyVisualLeavesFieldAlone(t *testing.T) {
	cfg := DefaultConfig()
	other := DefaultConfig()
	other.Field.Count = 5
	other.Field.MaxSpeed = 4
	other.Window.Width = 10
	other.Style.Particle = "#ffffff"
	other.Haze.Enabled = false

	cfg.ApplyVisual(other)

	assert.Equal(t, 100, cfg.Field.Count)
	assert.Equal(t, 0.5, cfg.Field.MaxSpeed)
	assert.Equal(t, 800, cfg.Window.Width)
	assert.Equal(t, "#ffffff", cfg.Style.Particle)
	assert.False(t, cfg.Haze.Enabled)
}

func TestApplyVisualKeepsZeroValues(t *testing.T) {
	cfg := DefaultConfig()
	reloaded := DefaultConfig()
	reloaded.Haze.Strength = 0
	reloaded.Haze.Speed = 0
	reloaded.Toast.MaxVisible = 0
	require.NoError(t, reloaded.Validate())

	cfg.ApplyVisual(reloaded)

	assert.Equal(t, 0.0, cfg.Haze.Strength)
	assert.Equal(t, 0.0, cfg.Haze.Speed)
	assert.Equal(t, 0, cfg.Toast.MaxVisible)

	// Merge still treats zero as unset.
	merged := DefaultConfig()
	merged.Merge(reloaded)
	assert.Equal(t, 0.12, merged.Haze.Strength)
	assert.Equal(t, 4, merged.Toast.MaxVisible)
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		want    color.NRGBA
		wantErr bool
	}{
		{in: "#8b5cf6", want: color.NRGBA{R: 139, G: 92, B: 246, A: 255}},
		{in: "#8b5cf6cc", want: color.NRGBA{R: 139, G: 92, B: 246, A: 204}},
		{in: " #0f0a1e ", want: color.NRGBA{R: 15, G: 10, B: 30, A: 255}},
		{in: "#fff", want: color.NRGBA{R: 255, G: 255, B: 255, A: 255}},
		{in: "purple", wantErr: true},
		{in: "#8b5cf6zz", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseColor(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHazeOptions(t *testing.T) {
	cfg := DefaultConfig()
	opts := cfg.HazeOptions()

	assert.Equal(t, color.NRGBA{R: 192, G: 132, B: 252, A: 255}, opts.Tint)
	assert.Equal(t, cfg.Haze.Strength, opts.Strength)
	assert.Equal(t, color.NRGBA{R: 15, G: 10, B: 30, A: 255}, cfg.BackgroundColor())
}

func TestSampleConfigMatchesDefaults(t *testing.T) {
	cfg, err := LoadFromFile(filepath.Join("..", "..", "configs", "particle-field.yaml"))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())
	assert.Equal(t, DefaultConfig(), cfg)
}
