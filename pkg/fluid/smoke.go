package fluid

// Density returns a view of the density field.
func (f *Fluid) Density() ScalarField {
	return newScalarField(f.grid, f.density)
}

// Dye returns views of the red, green and blue dye channels.
func (f *Fluid) Dye() (r, g, b ScalarField) {
	return newScalarField(f.grid, f.r), newScalarField(f.grid, f.g), newScalarField(f.grid, f.b)
}

// TotalDensity returns the density summed over the interior cells.
func (f *Fluid) TotalDensity() float32 {
	return f.Density().Sum()
}

// Snapshot is a caller-owned copy of the solver outputs, for a renderer that
// runs concurrently with the next step.
type Snapshot struct {
	Grid    Grid
	Density []float32
	R, G, B []float32
	U, V    []float32
	// Pressure from the last projection.
	Pressure []float32
	Blocked  []uint8
}

// Snapshot copies the current outputs into s, reusing its buffers.
func (f *Fluid) Snapshot(s *Snapshot) {
	s.Grid = f.grid
	s.Density = append(s.Density[:0], f.density...)
	s.R = append(s.R[:0], f.r...)
	s.G = append(s.G[:0], f.g...)
	s.B = append(s.B[:0], f.b...)
	s.U = append(s.U[:0], f.u...)
	s.V = append(s.V[:0], f.v...)
	s.Pressure = append(s.Pressure[:0], f.u0...)
	s.Blocked = append(s.Blocked[:0], f.blocked...)
}
