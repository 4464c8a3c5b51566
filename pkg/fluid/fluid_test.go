package fluid

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewValidatesConfig(t *testing.T) {
	tests := []struct {
		name  string
		tweak func(*Config)
		want  error
	}{
		{"too narrow", func(c *Config) { c.Width = 2 }, ErrInvalidGrid},
		{"too short", func(c *Config) { c.Height = 0 }, ErrInvalidGrid},
		{"scheme", func(c *Config) { c.Scheme = 9 }, ErrInvalidConfig},
		{"unit scale", func(c *Config) { c.UnitScale = 5 }, ErrInvalidConfig},
		{"pressure iterations", func(c *Config) { c.PressureIterations = 0 }, ErrInvalidConfig},
		{"diffuse iterations", func(c *Config) { c.DiffuseIterations = -1 }, ErrInvalidConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.tweak(&cfg)
			_, err := New(cfg)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}

	f, err := New(DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, Grid{W: 128, H: 128}, f.Grid())
}

func TestSetConfig(t *testing.T) {
	f := newTestFluid(t, 10, 8, nil)

	cfg := f.Config()
	cfg.Width = 12
	assert.True(t, errors.Is(f.SetConfig(cfg), ErrInvalidGrid))

	cfg = f.Config()
	cfg.Vorticity = 0
	cfg.Scheme = MacCormack
	require.NoError(t, f.SetConfig(cfg))
	assert.Equal(t, MacCormack, f.Config().Scheme)

	require.NoError(t, f.SetScheme(Linear))
	assert.Equal(t, Linear, f.Config().Scheme)
	assert.Error(t, f.SetScheme(Scheme(3)))
	assert.Equal(t, Linear, f.Config().Scheme)

	f.SetGravity(1, 2)
	assert.Equal(t, float32(1), f.Config().GravityX)
	assert.Equal(t, float32(2), f.Config().GravityY)
}

func TestSetObstacles(t *testing.T) {
	f := newTestFluid(t, 5, 4, nil)

	err := f.SetObstacles(make([]uint8, 7))
	assert.True(t, errors.Is(err, ErrMaskSize))

	f.SetVelocity(2, 2, 3, 4)
	f.SetDye(2, 2, 1, 1, 1)
	mask := make([]uint8, 20)
	mask[f.grid.Index(2, 2)] = 7
	require.NoError(t, f.SetObstacles(mask))

	assert.True(t, f.IsObstacle(2, 2))
	assert.False(t, f.IsObstacle(1, 2))
	assert.Equal(t, uint8(1), f.Obstacles()[f.grid.Index(2, 2)])
	u, v, err := f.Velocity().Value(2, 2)
	require.NoError(t, err)
	assert.Zero(t, u)
	assert.Zero(t, v)
	r, _, _ := f.Dye()
	assert.Zero(t, r.MaxValue)

	f.SetObstacle(2, 2, false)
	assert.False(t, f.IsObstacle(2, 2))
	assert.Panics(t, func() { f.SetObstacle(5, 0, true) })
}

func TestPaintObstacle(t *testing.T) {
	f := newTestFluid(t, 10, 10, nil)
	f.SetVelocity(5, 5, 2, 1)

	f.PaintObstacle(5, 5, 1, true)
	solid := 0
	for _, m := range f.Obstacles() {
		solid += int(m)
	}
	assert.Equal(t, 5, solid, "radius 1 covers the cell and its four neighbours")
	assert.True(t, f.IsObstacle(5, 4))
	assert.False(t, f.IsObstacle(4, 4))
	u, v, err := f.Velocity().Value(5, 5)
	require.NoError(t, err)
	assert.Zero(t, u)
	assert.Zero(t, v)

	// Brushes may hang off the grid.
	f.PaintObstacle(0, 0, 1, true)
	assert.True(t, f.borderBlocked)
	f.PaintObstacle(0, 0, 1, false)
	assert.False(t, f.borderBlocked)

	f.PaintObstacle(5, 5, 1, false)
	assert.Equal(t, make([]uint8, 100), f.Obstacles())
}

func TestSourcesIgnoreObstaclesAndOffGrid(t *testing.T) {
	f := newTestFluid(t, 6, 6, nil)
	f.SetObstacle(2, 2, true)

	f.AddSourceDensity(5, 2, 2)
	f.AddSourceVelocity(2, 1, 1, 2, 2)
	f.SetDye(2, 2, 1, 0, 0)
	f.AddSourceDensity(5, -1, 3)
	f.AddSourceVelocity(2, 1, 1, 3, 6)
	f.SetDye(9, 9, 1, 0, 0)

	for _, fld := range []Field{f.density0, f.u0, f.v0, f.r} {
		for i := range fld {
			assert.Zero(t, fld[i])
		}
	}

	f.AddSourceDensity(5, 3, 3)
	f.AddSourceDensity(1, 3, 3)
	f.AddSourceVelocity(2, 0.5, -1, 3, 3)
	ij := f.grid.Index(3, 3)
	assert.Equal(t, float32(6), f.density0[ij])
	assert.Equal(t, float32(1), f.u0[ij])
	assert.Equal(t, float32(-2), f.v0[ij])

	f.ClearSources()
	assert.Zero(t, f.density0[ij])
	assert.Zero(t, f.u0[ij])
}

func TestUpdateForces(t *testing.T) {
	f := newTestFluid(t, 6, 6, func(c *Config) {
		c.DampDensity = 0.5
		c.GravityX = 2
		c.GravityY = 10
	})
	ij := f.grid.Index(3, 3)
	f.density[ij] = 4

	f.UpdateForces(0.1)

	damped := 4 * float32(math.Exp(-0.05))
	assert.InDelta(t, damped, f.density[ij], 1e-5)
	assert.InDelta(t, 2*0.1*damped, f.u0[ij], 1e-5)
	assert.InDelta(t, 10*0.1*damped, f.v0[ij], 1e-5)
	assert.Zero(t, f.v0[f.grid.Index(2, 3)])
}

// One velocity and density step from a point source: the injected density
// spreads to the neighbouring cells.
func TestPointSourceSpreads(t *testing.T) {
	f := newTestFluid(t, 128, 128, func(c *Config) { c.Scheme = Linear })
	const dt = float32(1.0 / 60)

	f.AddSourceDensity(100, 64, 64)
	f.AddSourceVelocity(1, 5, 0, 64, 64)
	f.VelocityStep(dt)
	f.DensityStep(dt)

	density := f.Density()
	centre, err := density.Value(64, 64)
	require.NoError(t, err)
	assert.Greater(t, centre, float32(0))
	assert.Less(t, centre, 100*dt, "centre must lose density to its neighbours")
	for _, x := range []int{63, 65} {
		d, err := density.Value(x, 64)
		require.NoError(t, err)
		assert.Greater(t, d, float32(0), "neighbour (%d,64)", x)
	}
}

func TestFreeDecayStaysBounded(t *testing.T) {
	f := newTestFluid(t, 32, 32, func(c *Config) {
		c.DampVelocity = 4
		c.GravityX, c.GravityY = 0, 0
	})
	w, h := f.grid.W, f.grid.H
	for j := 1; j < h-1; j++ {
		for i := 1; i < w-1; i++ {
			dx := float64(i - 16)
			dy := float64(j - 16)
			g := math.Exp(-(dx*dx + dy*dy) / 20)
			ij := j*w + i
			f.u[ij] = float32(-dy * g * 5)
			f.v[ij] = float32(dx * g * 5)
			f.density[ij] = float32(g)
		}
	}
	e0 := f.KineticEnergy()
	m0 := f.TotalDensity()
	require.Greater(t, e0, float32(100))

	for n := 0; n < 120; n++ {
		f.Tick(1.0 / 60)
		e := f.KineticEnergy()
		if math.IsNaN(float64(e)) || e > e0*1.01 {
			t.Fatalf("tick %d: kinetic energy %f exceeds initial %f", n, e, e0)
		}
	}
	assert.Less(t, f.KineticEnergy(), 0.05*e0)
	assert.Less(t, f.TotalDensity(), m0)
	assert.GreaterOrEqual(t, f.Density().MinValue, float32(-1e-6))
}

type testJet struct {
	x, y  int
	calls int
}

// Emit feeds smoke at the jet's inlet column and pushes a 4x5 block of
// fluid to the right. A single forced column would mostly excite the
// odd-even mode of the collocated projection.
func (j *testJet) Emit(f *Fluid, dt float32) {
	j.calls++
	for dy := -2; dy <= 2; dy++ {
		f.AddSourceDensity(50, j.x, j.y+dy)
		f.SetDye(j.x, j.y+dy, 1, 0.5, 0)
		for dx := 0; dx < 4; dx++ {
			f.AddSourceVelocity(100, 1, 0, j.x+dx, j.y+dy)
		}
	}
}

func TestObstacleImpermeable(t *testing.T) {
	for _, scheme := range []Scheme{Linear, MacCormack, BFECC} {
		t.Run(scheme.String(), func(t *testing.T) {
			f := newTestFluid(t, 40, 24, func(c *Config) {
				c.Scheme = scheme
				c.DiffusionColor = 0.0001
			})
			f.SetCircularObstacle(15, 12, 3)
			for j := 0; j < f.grid.H; j++ {
				f.SetObstacle(0, j, true)
			}
			jet := &testJet{x: 4, y: 12}

			for n := 0; n < 40; n++ {
				f.Tick(1.0/60, jet)
				for i, b := range f.blocked {
					if b == 0 {
						continue
					}
					for _, fld := range []Field{f.u, f.v, f.density, f.r, f.g, f.b} {
						if fld[i] != 0 {
							t.Fatalf("tick %d: obstacle cell %d holds %f", n, i, fld[i])
						}
					}
				}
			}
			assert.Equal(t, 40, jet.calls)
			assert.Greater(t, f.TotalDensity(), float32(0))

			r, _, _ := f.Dye()
			assert.Greater(t, r.Sum(), float32(0))
		})
	}
}

func TestTickMovesSmokeDownstream(t *testing.T) {
	f := newTestFluid(t, 30, 20, func(c *Config) { c.GravityY = 0 })
	jet := &testJet{x: 3, y: 10}
	for n := 0; n < 30; n++ {
		f.Tick(1.0/60, jet)
	}
	downstream := float32(0)
	w := f.grid.W
	for j := 1; j < f.grid.H-1; j++ {
		for i := 8; i < w-1; i++ {
			downstream += f.density[j*w+i]
		}
	}
	assert.Greater(t, downstream, float32(0.1))
	assert.Greater(t, f.MaxDivergence(), float32(0))
}

func TestSnapshotIsIndependent(t *testing.T) {
	f := newTestFluid(t, 12, 12, nil)
	f.SetObstacle(6, 6, true)
	jet := &testJet{x: 3, y: 5}
	f.Tick(1.0/60, jet)

	var snap Snapshot
	f.Snapshot(&snap)
	require.Len(t, snap.Density, f.grid.Cells())
	assert.Equal(t, f.grid, snap.Grid)
	assert.Equal(t, uint8(1), snap.Blocked[f.grid.Index(6, 6)])
	saved := append([]float32(nil), snap.Density...)

	f.Tick(1.0/60, jet)
	assert.Equal(t, saved, snap.Density)

	buf := &snap.Density[0]
	f.Snapshot(&snap)
	assert.Same(t, buf, &snap.Density[0], "buffers are reused")
	assert.NotEqual(t, saved, snap.Density)
}

func TestReset(t *testing.T) {
	f := newTestFluid(t, 12, 12, nil)
	f.SetObstacle(6, 6, true)
	f.Tick(1.0/60, &testJet{x: 3, y: 5})
	require.Greater(t, f.TotalDensity(), float32(0))

	f.Reset()
	assert.Zero(t, f.TotalDensity())
	assert.Zero(t, f.KineticEnergy())
	assert.True(t, f.IsObstacle(6, 6))
	assert.Equal(t, float32(4), f.cu[f.grid.Index(4, 2)])
}

func TestPressureView(t *testing.T) {
	f := newTestFluid(t, 16, 16, nil)
	f.Tick(1.0/60, &testJet{x: 4, y: 8})
	p := f.Pressure()
	assert.Equal(t, 16, p.W)
	assert.NotEqual(t, p.MinValue, p.MaxValue)
	assert.Greater(t, f.VelocityMagnitude().MaxValue, float32(0))
}
