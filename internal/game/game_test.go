package game

import (
	"math/rand"
	"testing"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olivierh59500/particle-field/internal/config"
	"github.com/olivierh59500/particle-field/internal/field"
	"github.com/olivierh59500/particle-field/internal/scene"
)

func newTestGame(t *testing.T) *Game {
	t.Helper()
	cfg := config.DefaultConfig()
	f := field.New(rand.New(rand.NewSource(1)), cfg.FieldOptions())
	f.Initialize(800, 600)
	return New(scene.New(f, cfg, nil, nil), nil, nil)
}

func TestLayoutResizesField(t *testing.T) {
	g := newTestGame(t)
	g.scene.Field.SetParticles([]field.Particle{{X: 790, Y: 590, VX: 0.1, VY: 0.1, R: 1}})

	w, h := g.Layout(400, 300)
	assert.Equal(t, 400, w)
	assert.Equal(t, 300, h)

	fw, fh := g.scene.Field.Size()
	assert.Equal(t, 400.0, fw)
	assert.Equal(t, 300.0, fh)
	assert.Equal(t, 790.0, g.scene.Field.Particles()[0].X)
}

func TestLayoutKeepsSizeWhenUnchanged(t *testing.T) {
	g := newTestGame(t)
	w, h := g.Layout(800, 600)
	assert.Equal(t, 800, w)
	assert.Equal(t, 600, h)
}

func TestUpdateTerminatesAfterStop(t *testing.T) {
	g := newTestGame(t)
	g.now = func() time.Time { return time.Unix(0, 0) }
	g.Stop()

	err := g.Update()
	require.ErrorIs(t, err, ebiten.Termination)
}

func TestTickLengthFollowsTPS(t *testing.T) {
	g := newTestGame(t)
	assert.InDelta(t, 1.0/60.0, g.dt, 1e-12)
}
