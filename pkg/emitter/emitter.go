// Package emitter turns pointer gestures into density, velocity and dye
// sources for a fluid solver.
package emitter

import (
	"math/rand"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/hsluv/hsluv-go"

	"github.com/TheFellow/fluid/pkg/fluid"
)

// MouseID is the pointer id used for the mouse. Touches use their own ids.
const MouseID = -1

// Pointer is one mouse or touch contact in grid coordinates.
type Pointer struct {
	ID int
	// Start is where the next stroke begins: the press position, then the
	// end of the last emitted stroke.
	Start mgl32.Vec2
	Pos   mgl32.Vec2
	Down  bool
}

// Emitter collects pointer input between ticks and injects it into the
// solver as strokes. It implements fluid.Source.
type Emitter struct {
	SpawnAmount float32 // density per stroke, split over its samples
	SpawnForce  float32 // force per stroke, split over its samples
	ColorSpeed  float32 // hue turns per second

	pointers  []*Pointer
	colorTime float32
	color     [3]float32
	random    func() float32
}

// New returns an emitter tuned for a grid of the given width.
func New(gridWidth int) *Emitter {
	e := &Emitter{
		SpawnAmount: 50 * 6 * 10,
		SpawnForce:  60 * float32(gridWidth),
		ColorSpeed:  0.2,
		random:      rand.Float32,
	}
	e.updateColor()
	return e
}

func (e *Emitter) pointer(id int) *Pointer {
	for _, p := range e.pointers {
		if p.ID == id {
			return p
		}
	}
	p := &Pointer{ID: id}
	e.pointers = append(e.pointers, p)
	return p
}

func cell(x, y float32) mgl32.Vec2 {
	return mgl32.Vec2{math32.Floor(x), math32.Floor(y)}
}

// Down presses pointer id at (x, y) and picks a new random colour.
func (e *Emitter) Down(id int, x, y float32) {
	p := e.pointer(id)
	p.Pos = cell(x, y)
	p.Start = p.Pos
	p.Down = true
	e.colorTime = e.random()
	e.updateColor()
}

// Move updates the position of pointer id.
func (e *Emitter) Move(id int, x, y float32) {
	e.pointer(id).Pos = cell(x, y)
}

// Up releases pointer id.
func (e *Emitter) Up(id int) {
	e.pointer(id).Down = false
}

// Pointers returns the known pointers. The slice must not be modified.
func (e *Emitter) Pointers() []*Pointer { return e.pointers }

// Color returns the dye colour of the next stroke.
func (e *Emitter) Color() (r, g, b float32) {
	return e.color[0], e.color[1], e.color[2]
}

func (e *Emitter) updateColor() {
	h := e.colorTime - math32.Floor(e.colorTime)
	r, g, b := hsluv.HsluvToRGB(360*float64(h), 100, 60)
	e.color = [3]float32{clamp01(r), clamp01(g), clamp01(b)}
}

func clamp01(x float64) float32 {
	return float32(max(0, min(x, 1)))
}

// Emit advances the colour cycle and injects a stroke for every pressed
// pointer that moved since the last tick.
func (e *Emitter) Emit(f *fluid.Fluid, dt float32) {
	e.colorTime += dt * e.ColorSpeed
	e.updateColor()

	g := f.Grid()
	for _, p := range e.pointers {
		if !p.Down || p.Pos == p.Start {
			continue
		}
		if !g.Interior(int(p.Pos.X()), int(p.Pos.Y())) {
			continue
		}
		e.stroke(f, p.Start, p.Pos)
		p.Start = p.Pos
	}
}

// dyeStencil lists the cells painted around each stroke sample.
var dyeStencil = [...][2]int{
	{0, 0}, {-1, 0}, {0, -1}, {-1, -1}, {1, 0}, {0, 1}, {1, 1},
}

// stroke walks from start to end in floor(len)+1 equal steps, sampling both
// ends, and emits at every sample that lands on an open interior cell.
func (e *Emitter) stroke(f *fluid.Fluid, start, end mgl32.Vec2) {
	g := f.Grid()
	drag := end.Sub(start)
	n := int(drag.Len()) + 1
	step := drag.Mul(1 / float32(n))
	amount := e.SpawnAmount / float32(n)
	force := e.SpawnForce / float32(n)
	r, gr, b := e.Color()

	pos := start
	for i := 0; i <= n; i++ {
		x, y := int(pos.X()), int(pos.Y())
		pos = pos.Add(step)
		if !g.Interior(x, y) || f.IsObstacle(x, y) {
			continue
		}
		f.AddSourceDensity(amount, x, y)
		f.AddSourceVelocity(force, drag.X(), drag.Y(), x, y)
		for _, o := range dyeStencil {
			f.SetDye(x+o[0], y+o[1], r, gr, b)
		}
	}
}
