package fluid

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// Test that the vorticity confinement force adds velocity at regions with curl.
func TestVorticityConfinement(t *testing.T) {
	f := newTestFluid(t, 8, 8, nil)
	// Create a small 2x2 vortex in the middle of the grid.
	f.SetVelocity(4, 3, 1, 0)
	f.SetVelocity(3, 4, -1, 0)
	f.SetVelocity(3, 3, 0, 1)
	f.SetVelocity(4, 4, 0, -1)

	fx := f.grid.NewField()
	fy := f.grid.NewField()
	f.confine(fx, fy, f.u, f.v)

	moved := false
	for i := range fx {
		if fx[i] != 0 || fy[i] != 0 {
			moved = true
			break
		}
	}
	if !moved {
		t.Fatal("confinement force did not produce any force")
	}
}

func TestVorticityConfinementStillFluid(t *testing.T) {
	f := newTestFluid(t, 8, 8, nil)
	fx := f.grid.NewField()
	fy := f.grid.NewField()
	fill(fx, 9)
	fill(fy, 9)
	f.confine(fx, fy, f.u, f.v)
	for i := range fx {
		assert.Zero(t, fx[i])
		assert.Zero(t, fy[i])
	}
}

func TestVorticitySign(t *testing.T) {
	f := newTestFluid(t, 7, 7, nil)
	w := f.grid.W
	// Shear: u grows with y, so du/dy > 0 everywhere.
	for j := 1; j < f.grid.H-1; j++ {
		for i := 1; i < w-1; i++ {
			f.u[j*w+i] = float32(j)
		}
	}
	curl := f.Vorticity()
	got, err := curl.Value(3, 3)
	assert.NoError(t, err)
	assert.InDelta(t, 1, got, 1e-6)

	_, err = curl.Value(7, 0)
	assert.ErrorIs(t, err, ErrOutOfRange)
}

func TestVelocityStepSkipsConfinementWhenDisabled(t *testing.T) {
	run := func(strength float32) Field {
		f := newTestFluid(t, 10, 10, func(c *Config) {
			c.Vorticity = strength
			c.Scheme = Linear
		})
		f.SetVelocity(5, 4, 1, 0)
		f.SetVelocity(4, 5, -1, 0)
		f.SetVelocity(4, 4, 0, 1)
		f.SetVelocity(5, 5, 0, -1)
		f.VelocityStep(0.05)
		return append(Field(nil), f.u...)
	}
	assert.Equal(t, run(0), run(-3))
	assert.NotEqual(t, run(0), run(10))
}
