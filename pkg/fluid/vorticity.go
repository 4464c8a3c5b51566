package fluid

import "github.com/chewxy/math32"

const vorticityEpsilon = 1e-6

func curlAt(u, v Field, ij, w int) float32 {
	dudy := u[ij+w] - u[ij-w]
	dvdx := v[ij+1] - v[ij-1]
	return 0.5 * (dudy - dvdx)
}

// confine writes the vorticity confinement force for (u, v) into (fx, fy).
// The caller scales it by strength and dt.
func (f *Fluid) confine(fx, fy, u, v Field) {
	w := f.grid.W
	vort := f.scratch

	fill(vort, 0)
	f.grid.interiorRows(func(j int) {
		for i := 1; i < w-1; i++ {
			ij := j*w + i
			vort[ij] = math32.Abs(curlAt(u, v, ij, w))
		}
	})
	f.reflect(vort, Scalar)

	f.grid.interiorRows(func(j int) {
		for i := 1; i < w-1; i++ {
			ij := j*w + i
			dwdx := 0.5 * (vort[ij+1] - vort[ij-1])
			dwdy := 0.5 * (vort[ij+w] - vort[ij-w])

			ilen := 1 / (math32.Sqrt(dwdx*dwdx+dwdy*dwdy) + vorticityEpsilon)
			dwdx *= ilen
			dwdy *= ilen

			c := curlAt(u, v, ij, w)
			fx[ij] = -c * dwdy
			fy[ij] = c * dwdx
		}
	})
	f.reflect(fx, XVelocity)
	f.reflect(fy, YVelocity)
}

// Vorticity computes the signed curl of the current velocity field.
func (f *Fluid) Vorticity() ScalarField {
	w := f.grid.W
	vals := f.grid.NewField()
	for j := 1; j < f.grid.H-1; j++ {
		for i := 1; i < w-1; i++ {
			ij := j*w + i
			if f.blocked[ij] != 0 {
				continue
			}
			vals[ij] = curlAt(f.u, f.v, ij, w)
		}
	}
	return newScalarField(f.grid, vals)
}
