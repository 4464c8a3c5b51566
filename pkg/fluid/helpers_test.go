package fluid

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// newTestFluid builds a solver on a w x h grid from the default config, after
// letting tweak adjust it.
func newTestFluid(t testing.TB, w, h int, tweak func(*Config)) *Fluid {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Width = w
	cfg.Height = h
	if tweak != nil {
		tweak(&cfg)
	}
	f, err := New(cfg)
	require.NoError(t, err)
	return f
}

func interiorSum(f *Fluid, x Field) float32 {
	w := f.grid.W
	total := float32(0)
	for j := 1; j < f.grid.H-1; j++ {
		for i := 1; i < w-1; i++ {
			total += x[j*w+i]
		}
	}
	return total
}

func fieldRange(f *Fluid, x Field, minX int) (float32, float32) {
	w := f.grid.W
	lo, hi := x[w+minX], x[w+minX]
	for j := 1; j < f.grid.H-1; j++ {
		for i := minX; i < w-1; i++ {
			lo = min(lo, x[j*w+i])
			hi = max(hi, x[j*w+i])
		}
	}
	return lo, hi
}
