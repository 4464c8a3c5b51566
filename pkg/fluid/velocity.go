package fluid

import "github.com/chewxy/math32"

// Velocity returns a view of the velocity field.
func (f *Fluid) Velocity() VectorField {
	return VectorField{Grid: f.grid, u: f.u, v: f.v}
}

// VelocityMagnitude computes |v| at every fluid cell.
func (f *Fluid) VelocityMagnitude() ScalarField {
	vals := f.grid.NewField()
	for i := range vals {
		if f.blocked[i] != 0 {
			continue
		}
		vals[i] = math32.Sqrt(f.u[i]*f.u[i] + f.v[i]*f.v[i])
	}
	return newScalarField(f.grid, vals)
}

// KineticEnergy returns half the summed squared speed over the interior.
func (f *Fluid) KineticEnergy() float32 {
	w := f.grid.W
	e := float32(0)
	for j := 1; j < f.grid.H-1; j++ {
		for i := 1; i < w-1; i++ {
			ij := j*w + i
			e += f.u[ij]*f.u[ij] + f.v[ij]*f.v[ij]
		}
	}
	return 0.5 * e
}
