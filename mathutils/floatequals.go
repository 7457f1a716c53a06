package mathutils

import "math"

// FloatEquals is an imprecise float comparison, kept for the timing-based
// Watch tests in this package. It behaves exactly like utils.FloatEquals
// (utils/helpers.go); this package keeps its own copy instead of importing
// utils (see DESIGN.md).
func FloatEquals(a float64, b float64, variance ...float64) bool {
	v := 0.001
	if len(variance) >= 1 {
		v = variance[0]
	}
	return math.Abs(a-b) < v
}
