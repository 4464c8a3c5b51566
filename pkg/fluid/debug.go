//go:build fluiddebug

package fluid

import (
	"fmt"

	"github.com/chewxy/math32"
)

// checkFinite panics on the first NaN or Inf found in fields.
func checkFinite(stage string, fields ...Field) {
	for n, fld := range fields {
		for i, x := range fld {
			if math32.IsNaN(x) || math32.IsInf(x, 0) {
				panic(fmt.Sprintf("fluid: %s: field %d cell %d is %v", stage, n, i, x))
			}
		}
	}
}
