package fluid

// Pressure returns the pressure solved by the last projection of the most
// recent velocity step. The next tick clears it.
func (f *Fluid) Pressure() ScalarField {
	return newScalarField(f.grid, f.u0)
}
