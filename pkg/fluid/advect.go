package fluid

import (
	"fmt"
	"strings"
)

// Scheme selects the advection strategy.
type Scheme int

const (
	// Linear is single-step semi-Lagrangian advection.
	Linear Scheme = iota
	// MacCormack samples along an error-corrected characteristic map.
	MacCormack
	// BFECC traces the corrected characteristic map and additionally
	// compensates the field itself with a back-and-forth pass.
	BFECC
)

var schemeNames = [...]string{
	Linear:     "linear",
	MacCormack: "maccormack",
	BFECC:      "bfecc",
}

func (s Scheme) String() string {
	if s < 0 || int(s) >= len(schemeNames) {
		return fmt.Sprintf("Scheme(%d)", int(s))
	}
	return schemeNames[s]
}

// Valid reports whether s names a known scheme.
func (s Scheme) Valid() bool { return s >= Linear && s <= BFECC }

// ParseScheme accepts a scheme name (case-insensitive) or its number.
func ParseScheme(name string) (Scheme, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range schemeNames {
		if name == n || name == fmt.Sprint(i) {
			return Scheme(i), nil
		}
	}
	if name == "mm" {
		return MacCormack, nil
	}
	return 0, fmt.Errorf("%w: unknown advection scheme %q", ErrInvalidConfig, name)
}

type advectFunc func(f *Fluid, current, previous, u, v Field, dt float32, axis Axis)

type prepareFunc func(f *Fluid, u, v Field, dt float32)

// Dispatch tables indexed by Scheme. Linear traces the velocity field
// directly and needs no characteristic map.
var (
	advectors = [...]advectFunc{
		Linear:     (*Fluid).advectLinear,
		MacCormack: (*Fluid).advectMapped,
		BFECC:      (*Fluid).advectBFECC,
	}
	preparers = [...]prepareFunc{
		Linear:     nil,
		MacCormack: (*Fluid).prepareMacCormack,
		BFECC:      (*Fluid).prepareBFECC,
	}
)

// advect transports previous into current with the configured scheme.
func (f *Fluid) advect(current, previous, u, v Field, dt float32, axis Axis) {
	advectors[f.cfg.Scheme](f, current, previous, u, v, dt, axis)
}

// prepare computes the characteristic map for schemes that use one.
func (f *Fluid) prepare(u, v Field, dt float32) {
	if p := preparers[f.cfg.Scheme]; p != nil {
		p(f, u, v, dt)
	}
}

func (f *Fluid) clampX(x float32) float32 {
	return max(0.5, min(x, float32(f.grid.W)-1.5))
}

func (f *Fluid) clampY(y float32) float32 {
	return max(0.5, min(y, float32(f.grid.H)-1.5))
}

// bilinear samples src at a position already clamped into the valid range.
func (f *Fluid) bilinear(src Field, x, y float32) float32 {
	w := f.grid.W
	i0 := int(x)
	j0 := int(y)
	s1 := x - float32(i0)
	s0 := 1 - s1
	t1 := y - float32(j0)
	t0 := 1 - t1
	ij := j0*w + i0
	return s0*(t0*src[ij]+t1*src[ij+w]) +
		s1*(t0*src[ij+1]+t1*src[ij+w+1])
}

// tapRange returns the min and max of the four taps bilinear reads at (x, y).
func (f *Fluid) tapRange(src Field, x, y float32) (float32, float32) {
	w := f.grid.W
	ij := int(y)*w + int(x)
	a, b, c, d := src[ij], src[ij+1], src[ij+w], src[ij+w+1]
	return min(a, b, c, d), max(a, b, c, d)
}

// velocityAt samples the wind-biased velocity at (x, y), clamping first.
func (f *Fluid) velocityAt(u, v Field, x, y float32) (float32, float32) {
	x = f.clampX(x)
	y = f.clampY(y)
	return f.bilinear(u, x, y) + f.cfg.WindX, f.bilinear(v, x, y) + f.cfg.WindY
}

func (f *Fluid) advectLinear(current, previous, u, v Field, dt float32, axis Axis) {
	w := f.grid.W
	wx, wy := f.cfg.WindX, f.cfg.WindY
	blocked := f.blocked
	f.grid.interiorRows(func(j int) {
		for i := 1; i < w-1; i++ {
			ij := j*w + i
			if blocked[ij] != 0 {
				continue
			}
			x := f.clampX(float32(i) - dt*(u[ij]+wx))
			y := f.clampY(float32(j) - dt*(v[ij]+wy))
			current[ij] = f.bilinear(previous, x, y)
		}
	})
	f.reflect(current, axis)
}

// prepareMacCormack stores, per cell, the back-traced position corrected by
// half the round-trip error of a trace there and back.
func (f *Fluid) prepareMacCormack(u, v Field, dt float32) {
	w := f.grid.W
	wx, wy := f.cfg.WindX, f.cfg.WindY
	f.grid.interiorRows(func(j int) {
		for i := 1; i < w-1; i++ {
			ij := j*w + i
			x := float32(i)
			y := float32(j)
			xf := x - dt*(u[ij]+wx)
			yf := y - dt*(v[ij]+wy)
			uf, vf := f.velocityAt(u, v, xf, yf)
			xb := xf + dt*uf
			yb := yf + dt*vf

			f.cu[ij] = xf + 0.5*(x-xb)
			f.cv[ij] = yf + 0.5*(y-yb)
		}
	})
}

// prepareBFECC moves the start point by half the round-trip error and traces
// back from there.
func (f *Fluid) prepareBFECC(u, v Field, dt float32) {
	w := f.grid.W
	wx, wy := f.cfg.WindX, f.cfg.WindY
	f.grid.interiorRows(func(j int) {
		for i := 1; i < w-1; i++ {
			ij := j*w + i
			x := float32(i)
			y := float32(j)
			xf := x - dt*(u[ij]+wx)
			yf := y - dt*(v[ij]+wy)
			uf, vf := f.velocityAt(u, v, xf, yf)
			xb := xf + dt*uf
			yb := yf + dt*vf

			xe := x + 0.5*(x-xb)
			ye := y + 0.5*(y-yb)
			ue, ve := f.velocityAt(u, v, xe, ye)

			f.cu[ij] = xe - dt*ue
			f.cv[ij] = ye - dt*ve
		}
	})
}

// sampleMap samples src along the characteristic map into the interior fluid
// cells of dst. With reverse set the map is mirrored about each cell, which
// traces forward instead of back.
func (f *Fluid) sampleMap(dst, src Field, reverse bool) {
	w := f.grid.W
	blocked := f.blocked
	f.grid.interiorRows(func(j int) {
		for i := 1; i < w-1; i++ {
			ij := j*w + i
			if blocked[ij] != 0 {
				continue
			}
			x, y := f.cu[ij], f.cv[ij]
			if reverse {
				x = 2*float32(i) - x
				y = 2*float32(j) - y
			}
			dst[ij] = f.bilinear(src, f.clampX(x), f.clampY(y))
		}
	})
}

func (f *Fluid) advectMapped(current, previous, _, _ Field, _ float32, axis Axis) {
	f.sampleMap(current, previous, false)
	f.reflect(current, axis)
}

// advectBFECC advects previous forward, back again, and uses half the
// round-trip difference to correct the source before the final forward pass.
// The result is limited to the range of the source taps so no new extrema
// appear.
func (f *Fluid) advectBFECC(current, previous, _, _ Field, _ float32, axis Axis) {
	w := f.grid.W
	corrected := f.scratch
	blocked := f.blocked

	f.sampleMap(current, previous, false)
	f.reflect(current, axis)

	copy(corrected, previous)
	f.sampleMap(corrected, current, true)
	f.grid.interiorRows(func(j int) {
		for i := 1; i < w-1; i++ {
			ij := j*w + i
			if blocked[ij] != 0 {
				continue
			}
			corrected[ij] = previous[ij] + 0.5*(previous[ij]-corrected[ij])
		}
	})

	f.grid.interiorRows(func(j int) {
		for i := 1; i < w-1; i++ {
			ij := j*w + i
			if blocked[ij] != 0 {
				continue
			}
			x := f.clampX(f.cu[ij])
			y := f.clampY(f.cv[ij])
			lo, hi := f.tapRange(previous, x, y)
			current[ij] = max(lo, min(f.bilinear(corrected, x, y), hi))
		}
	})
	f.reflect(current, axis)
}
