package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TheFellow/fluid/pkg/fluid"
)

func count(m Mask) int {
	n := 0
	for _, b := range m {
		if b != 0 {
			n++
		}
	}
	return n
}

func TestBorder(t *testing.T) {
	g := fluid.Grid{W: 6, H: 4}
	m := Border(g)
	require.Len(t, m, 24)
	assert.Equal(t, 2*6+2*2, count(m))
	for j := 0; j < g.H; j++ {
		for i := 0; i < g.W; i++ {
			assert.Equal(t, !g.Interior(i, j), m[g.Index(i, j)] != 0, "cell (%d,%d)", i, j)
		}
	}
	assert.Zero(t, count(Empty(g)))
}

func TestBaffles(t *testing.T) {
	g := fluid.Grid{W: 128, H: 128}
	m := Baffles(g)

	solid := func(x, y int) bool { return m[g.Index(x, y)] != 0 }
	assert.True(t, solid(63, 63), "bracket corner")
	assert.True(t, solid(63, 82), "bracket arm down")
	assert.True(t, solid(44, 63), "bracket arm left")
	assert.True(t, solid(69, 41), "top plate")
	assert.False(t, solid(70, 41), "top plate ends")
	assert.True(t, solid(119, 72), "plate from x=50")
	assert.True(t, solid(40, 51), "plate from x=40")
	assert.True(t, solid(31, 12), "upper bracket")
	assert.True(t, solid(50, 31), "upper bracket arm")
	assert.False(t, solid(64, 64))

	small := fluid.Grid{W: 24, H: 24}
	assert.Len(t, Baffles(small), small.Cells(), "segments are clipped")
}

func TestByName(t *testing.T) {
	g := fluid.Grid{W: 10, H: 10}
	for _, name := range Names() {
		m, err := ByName(name, g)
		require.NoError(t, err, name)
		assert.Len(t, m, g.Cells())
	}
	_, err := ByName("Border", g)
	assert.NoError(t, err)
	_, err = ByName("maze", g)
	assert.ErrorContains(t, err, "maze")
	assert.Equal(t, []string{"baffles", "border", "empty"}, Names())
}

func TestApply(t *testing.T) {
	cfg := fluid.DefaultConfig()
	cfg.Width, cfg.Height = 16, 16
	f, err := fluid.New(cfg)
	require.NoError(t, err)

	require.NoError(t, Apply(f, "border"))
	assert.True(t, f.IsObstacle(0, 5))
	assert.False(t, f.IsObstacle(5, 5))
	assert.Error(t, Apply(f, "nope"))
}
