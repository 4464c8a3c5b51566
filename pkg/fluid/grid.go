package fluid

// Grid describes a dense row-major W x H cell layout. The outer ring of cells
// is never advected or solved directly; it is written only by the boundary
// policy.
type Grid struct {
	W, H int
}

// Index returns the slice index of cell (x, y).
func (g Grid) Index(x, y int) int { return y*g.W + x }

// Cells returns the number of cells in the grid.
func (g Grid) Cells() int { return g.W * g.H }

// Contains reports whether (x, y) lies on the grid, border included.
func (g Grid) Contains(x, y int) bool {
	return x >= 0 && x < g.W && y >= 0 && y < g.H
}

// Interior reports whether (x, y) is an interior (non-border) cell.
func (g Grid) Interior(x, y int) bool {
	return x > 0 && x < g.W-1 && y > 0 && y < g.H-1
}

// NewField allocates a zeroed field sized for the grid.
func (g Grid) NewField() Field { return make(Field, g.Cells()) }

// Field is one physical quantity sampled at every cell of a Grid.
type Field []float32

// Axis selects the reflection convention used by the boundary policy.
type Axis int

const (
	Scalar Axis = iota
	XVelocity
	YVelocity
)

func (a Axis) String() string {
	switch a {
	case Scalar:
		return "scalar"
	case XVelocity:
		return "x-velocity"
	case YVelocity:
		return "y-velocity"
	}
	return "unknown"
}

func fill[T any](slice []T, val T) {
	for i := range slice {
		slice[i] = val
	}
}

// addSource folds an accumulator into dst: dst += src*k.
func addSource(dst, src Field, k float32) {
	for i := range dst {
		dst[i] += src[i] * k
	}
}

func scale(dst Field, k float32) {
	for i := range dst {
		dst[i] *= k
	}
}

func sameField(a, b Field) bool {
	return len(a) > 0 && len(b) > 0 && &a[0] == &b[0]
}
