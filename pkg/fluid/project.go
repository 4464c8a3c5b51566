package fluid

import "github.com/chewxy/math32"

// UnitScale selects the length used to normalise divergence and the pressure
// gradient.
type UnitScale int

const (
	// UnitDiagonal uses the diagonal of the interior, sqrt((W-2)^2+(H-2)^2).
	UnitDiagonal UnitScale = iota
	// UnitEdge uses the longest grid edge, max(W,H)-1.
	UnitEdge
)

func (u UnitScale) size(g Grid) float32 {
	if u == UnitEdge {
		return float32(max(g.W, g.H) - 1)
	}
	sx := float32(g.W - 2)
	sy := float32(g.H - 2)
	return math32.Sqrt(sx*sx + sy*sy)
}

// project removes the divergent part of (u, v). p and div are scratch fields
// that receive the pressure and the scaled divergence.
func (f *Fluid) project(u, v, p, div Field, iterations int) {
	w := f.grid.W
	unitSize := f.cfg.UnitScale.size(f.grid)
	unit := 1 / unitSize

	f.divergence(div, u, v, unit)
	fill(p, 0)
	f.average(div, Scalar)
	f.average(p, Scalar)

	f.jacobi(p, div, 1, 4, iterations, func(x Field) { f.average(x, Scalar) })

	k := 0.5 * unitSize
	f.grid.interiorRows(func(j int) {
		for i := 1; i < w-1; i++ {
			ij := j*w + i
			u[ij] -= k * (p[ij+1] - p[ij-1])
			v[ij] -= k * (p[ij+w] - p[ij-w])
		}
	})
	f.reflect(u, XVelocity)
	f.reflect(v, YVelocity)
}

func divergenceAt(u, v Field, ij, w int, unit float32) float32 {
	return -0.5 * unit * ((u[ij+1] - u[ij-1]) + (v[ij+w] - v[ij-w]))
}

// divergence writes -0.5*unit*(du/dx + dv/dy) for every interior fluid cell.
// Obstacle and border cells are left at 0.
func (f *Fluid) divergence(div, u, v Field, unit float32) {
	w := f.grid.W
	blocked := f.blocked
	fill(div, 0)
	f.grid.interiorRows(func(j int) {
		for i := 1; i < w-1; i++ {
			ij := j*w + i
			if blocked[ij] != 0 {
				continue
			}
			div[ij] = divergenceAt(u, v, ij, w, unit)
		}
	})
}

// Divergence writes the scaled divergence of the current velocity field into
// dst, which must have one element per cell.
func (f *Fluid) Divergence(dst []float32) {
	f.divergence(dst, f.u, f.v, 1/f.cfg.UnitScale.size(f.grid))
}

// MaxDivergence returns the largest absolute scaled divergence over the
// interior fluid cells. It does not allocate, so it can be polled every frame.
func (f *Fluid) MaxDivergence() float32 {
	w := f.grid.W
	unit := 1 / f.cfg.UnitScale.size(f.grid)
	maxDiv := float32(0)
	for j := 1; j < f.grid.H-1; j++ {
		for i := 1; i < w-1; i++ {
			ij := j*w + i
			if f.blocked[ij] != 0 {
				continue
			}
			maxDiv = max(maxDiv, math32.Abs(divergenceAt(f.u, f.v, ij, w, unit)))
		}
	}
	return maxDiv
}
