package fluid

// jacobi relaxes x = (x0 + a*Σ4 x)/c for the given number of sweeps. Each
// sweep reads only the previous sweep's values, ping-ponging between x and the
// solver's jacobi buffer; bound is applied to every new iterate. x0 must not
// alias x or the jacobi buffer.
func (f *Fluid) jacobi(x, x0 Field, a, c float32, iterations int, bound func(Field)) {
	w := f.grid.W
	cur, next := x, f.jacobiBuf
	for k := 0; k < iterations; k++ {
		f.grid.interiorRows(func(j int) {
			for i := 1; i < w-1; i++ {
				ij := j*w + i
				sum := cur[ij-w] + cur[ij-1] + cur[ij+1] + cur[ij+w]
				next[ij] = (x0[ij] + a*sum) / c
			}
		})
		bound(next)
		cur, next = next, cur
	}
	if !sameField(cur, x) {
		copy(x, cur)
	}
}

// diffuse solves implicit diffusion of src into dst. A rate <= 0 leaves dst
// untouched; callers that need the result must keep src in that case.
func (f *Fluid) diffuse(dst, src Field, rate, dt float32, iterations int, axis Axis) {
	if rate <= 0 {
		return
	}
	a := dt * rate * float32(f.grid.W-2) * float32(f.grid.H-2)
	copy(dst, src)
	f.reflect(dst, axis)
	f.jacobi(dst, src, a, 1+4*a, iterations, func(x Field) { f.reflect(x, axis) })
}
