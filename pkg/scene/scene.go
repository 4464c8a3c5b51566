// Package scene builds obstacle masks for a fluid grid.
package scene

import (
	"fmt"
	"sort"
	"strings"

	"github.com/TheFellow/fluid/pkg/fluid"
)

// Mask marks solid cells with a non-zero byte, row-major like the solver
// fields.
type Mask []uint8

// NewMask returns an empty mask for g.
func NewMask(g fluid.Grid) Mask { return make(Mask, g.Cells()) }

func set(m Mask, g fluid.Grid, x, y int) {
	if g.Contains(x, y) {
		m[g.Index(x, y)] = 1
	}
}

// Empty has no obstacles. The outer ring still reflects flow.
func Empty(g fluid.Grid) Mask { return NewMask(g) }

// Border makes the outer ring solid.
func Border(g fluid.Grid) Mask {
	m := NewMask(g)
	for j := 0; j < g.H; j++ {
		set(m, g, 0, j)
		set(m, g, g.W-1, j)
	}
	for i := 0; i < g.W; i++ {
		set(m, g, i, 0)
		set(m, g, i, g.H-1)
	}
	return m
}

// segment is a straight run of solid cells starting at (x, y) and stepping
// by (dx, dy).
type segment struct {
	x, y   int
	dx, dy int
	length int
}

// Baffles is the border plus two corner brackets and four staggered
// horizontal plates. The layout is designed for 128x128 and clipped on
// smaller grids.
func Baffles(g fluid.Grid) Mask {
	m := Border(g)
	w, h := float64(g.W), float64(g.H)
	midX, midY := int(w/2-1), int(h/2-1)
	thirdY := h / 3
	quarterX, quarterY := int(w/4-1), int(h/4-1)

	segments := []segment{
		{midX, midY, 0, 1, 20},
		{midX, midY, -1, 0, 20},
		{0, int(thirdY - 1), 1, 0, 70},
		{0, int(thirdY + 40), 1, 0, 70},
		{50, int(thirdY + 30), 1, 0, 70},
		{40, int(thirdY + 10 - 1), 1, 0, 70},
		{quarterX, quarterY, 0, -1, 20},
		{quarterX, quarterY, 1, 0, 20},
	}
	for _, s := range segments {
		for i := 0; i < s.length; i++ {
			set(m, g, s.x+i*s.dx, s.y+i*s.dy)
		}
	}
	return m
}

var builders = map[string]func(fluid.Grid) Mask{
	"empty":   Empty,
	"border":  Border,
	"baffles": Baffles,
}

// Names lists the scenes known to ByName.
func Names() []string {
	names := make([]string, 0, len(builders))
	for n := range builders {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// ByName builds the named scene for g.
func ByName(name string, g fluid.Grid) (Mask, error) {
	build, ok := builders[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("unknown scene %q (want one of %s)", name, strings.Join(Names(), ", "))
	}
	return build(g), nil
}

// Apply builds the named scene and installs it in f.
func Apply(f *fluid.Fluid, name string) error {
	m, err := ByName(name, f.Grid())
	if err != nil {
		return err
	}
	return f.SetObstacles(m)
}
