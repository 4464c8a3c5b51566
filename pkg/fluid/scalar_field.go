package fluid

import (
	"fmt"
	"math"
)

// ScalarField is a read-only view of one scalar quantity. It shares storage
// with the solver and is valid until the next step.
type ScalarField struct {
	Grid
	MinValue, MaxValue float32
	values             []float32
}

func newScalarField(g Grid, values []float32) ScalarField {
	minValue := float32(math.MaxFloat32)
	maxValue := float32(-math.MaxFloat32)
	for _, x := range values {
		minValue = min(minValue, x)
		maxValue = max(maxValue, x)
	}
	return ScalarField{
		Grid:     g,
		MinValue: minValue,
		MaxValue: maxValue,
		values:   values,
	}
}

func (g Grid) check(i, j int) error {
	if i < 0 || i >= g.W {
		return fmt.Errorf("%w: x=%d, must be between 0 and %d", ErrOutOfRange, i, g.W-1)
	}
	if j < 0 || j >= g.H {
		return fmt.Errorf("%w: y=%d, must be between 0 and %d", ErrOutOfRange, j, g.H-1)
	}
	return nil
}

func (s ScalarField) Value(i, j int) (float32, error) {
	if err := s.check(i, j); err != nil {
		return 0, err
	}
	return s.values[s.Index(i, j)], nil
}

// Sum returns the total over the interior cells.
func (s ScalarField) Sum() float32 {
	total := float32(0)
	for j := 1; j < s.H-1; j++ {
		for i := 1; i < s.W-1; i++ {
			total += s.values[s.Index(i, j)]
		}
	}
	return total
}
