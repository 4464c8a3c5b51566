package fluid

// VectorField is a read-only view of the velocity field.
type VectorField struct {
	Grid
	u, v []float32
}

// Value returns the velocity of cell (i, j).
func (vf VectorField) Value(i, j int) (float32, float32, error) {
	if err := vf.check(i, j); err != nil {
		return 0, 0, err
	}
	ij := vf.Index(i, j)
	return vf.u[ij], vf.v[ij], nil
}
