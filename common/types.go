// package common contains plain value types and helpers shared across the engine packages.
package common

import "fmt"

// Color is a linear RGBA color with components in [0, 1].
type Color struct {
	R, G, B, A float64
}

// DefaultClearColor is the background the curve is drawn over.
var DefaultClearColor = Color{R: 0.1, G: 0.2, B: 0.3, A: 1.0}

// ColorFromSlice builds an opaque Color from 3 components or a Color from 4.
//
// Parameters:
//   - c: the components in R, G, B[, A] order
//
// Returns:
//   - Color: the color
//   - error: an error if c has the wrong length or a component is outside [0, 1]
func ColorFromSlice(c []float64) (Color, error) {
	if len(c) != 3 && len(c) != 4 {
		return Color{}, fmt.Errorf("color needs 3 or 4 components, got %d", len(c))
	}
	for i, v := range c {
		if v < 0 || v > 1 {
			return Color{}, fmt.Errorf("color component %d is %v, want [0, 1]", i, v)
		}
	}
	col := Color{R: c[0], G: c[1], B: c[2], A: 1.0}
	if len(c) == 4 {
		col.A = c[3]
	}
	return col, nil
}
