package fluid

import "fmt"

func (f *Fluid) mustIndex(x, y int) int {
	if x < 0 || x >= f.grid.W {
		panic(fmt.Sprintf("invalid x-index: %d", x))
	}
	if y < 0 || y >= f.grid.H {
		panic(fmt.Sprintf("invalid y-index: %d", y))
	}
	return f.grid.Index(x, y)
}

// SetObstacle marks or clears a solid cell. It must be called between ticks.
func (f *Fluid) SetObstacle(x, y int, solid bool) {
	cell := f.mustIndex(x, y)
	if !solid {
		f.blocked[cell] = 0
		f.updateBorderBlocked()
		return
	}
	f.blocked[cell] = 1
	if !f.grid.Interior(x, y) {
		f.borderBlocked = true
	}

	// A new wall must not carry any flow or smoke, including in the
	// staging buffers that the next step folds in.
	for _, fld := range []Field{f.u, f.v, f.u0, f.v0, f.density, f.density0, f.r, f.g, f.b} {
		fld[cell] = 0
	}
}

// IsObstacle reports whether (x, y) is solid.
func (f *Fluid) IsObstacle(x, y int) bool {
	return f.blocked[f.mustIndex(x, y)] != 0
}

// SetObstacles replaces the whole obstacle mask. Any non-zero byte is solid.
func (f *Fluid) SetObstacles(mask []uint8) error {
	if len(mask) != f.grid.Cells() {
		return fmt.Errorf("%w: got %d cells, grid has %d", ErrMaskSize, len(mask), f.grid.Cells())
	}
	for i, m := range mask {
		if m != 0 {
			f.blocked[i] = 1
		} else {
			f.blocked[i] = 0
		}
	}
	f.updateBorderBlocked()
	for _, fld := range []Field{f.u, f.v, f.density, f.r, f.g, f.b} {
		for i, m := range f.blocked {
			if m != 0 {
				fld[i] = 0
			}
		}
	}
	return nil
}

// Obstacles returns a copy of the obstacle mask.
func (f *Fluid) Obstacles() []uint8 {
	return append([]uint8(nil), f.blocked...)
}

// SetCircularObstacle marks cells within the given radius as solid.
func (f *Fluid) SetCircularObstacle(cx, cy, radius int) {
	f.PaintObstacle(cx, cy, radius, true)
}

// PaintObstacle marks (solid) or clears every cell within radius of
// (cx, cy). Off-grid cells are skipped. It must be called between ticks.
func (f *Fluid) PaintObstacle(cx, cy, radius int, solid bool) {
	for j := cy - radius; j <= cy+radius; j++ {
		for i := cx - radius; i <= cx+radius; i++ {
			if !f.grid.Contains(i, j) {
				continue
			}
			dx := i - cx
			dy := j - cy
			if dx*dx+dy*dy <= radius*radius {
				f.SetObstacle(i, j, solid)
			}
		}
	}
}

func (f *Fluid) updateBorderBlocked() {
	w, h := f.grid.W, f.grid.H
	f.borderBlocked = false
	for i := 0; i < w && !f.borderBlocked; i++ {
		f.borderBlocked = f.blocked[i] != 0 || f.blocked[(h-1)*w+i] != 0
	}
	for j := 0; j < h && !f.borderBlocked; j++ {
		f.borderBlocked = f.blocked[j*w] != 0 || f.blocked[j*w+w-1] != 0
	}
}

// open returns the cell index of (x, y) when it is on the grid and not solid.
func (f *Fluid) open(x, y int) (int, bool) {
	if !f.grid.Contains(x, y) {
		return 0, false
	}
	ij := f.grid.Index(x, y)
	return ij, f.blocked[ij] == 0
}

// AddSourceDensity stages amount of density at (x, y) for the next step.
// Solid and off-grid cells are ignored.
func (f *Fluid) AddSourceDensity(amount float32, x, y int) {
	if ij, ok := f.open(x, y); ok {
		f.density0[ij] += amount
	}
}

// AddSourceVelocity stages force*(dx, dy) of velocity at (x, y) for the next
// step. Solid and off-grid cells are ignored.
func (f *Fluid) AddSourceVelocity(force, dx, dy float32, x, y int) {
	if ij, ok := f.open(x, y); ok {
		f.u0[ij] += force * dx
		f.v0[ij] += force * dy
	}
}

// SetDye paints the dye colour of (x, y). Solid and off-grid cells are
// ignored.
func (f *Fluid) SetDye(x, y int, r, g, b float32) {
	if ij, ok := f.open(x, y); ok {
		f.r[ij] = r
		f.g[ij] = g
		f.b[ij] = b
	}
}

// SetVelocity overwrites the current velocity of a fluid cell.
func (f *Fluid) SetVelocity(x, y int, u, v float32) {
	if ij, ok := f.open(x, y); ok {
		f.u[ij] = u
		f.v[ij] = v
	}
}

// SetGravity sets the density-weighted gravity vector.
func (f *Fluid) SetGravity(x, y float32) {
	f.cfg.GravityX = x
	f.cfg.GravityY = y
}
