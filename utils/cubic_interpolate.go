// SPDX-License-Identifier: EPL-2.0

package utils

// Sample is the set of floating point types the interpolators accept.
type Sample interface {
	~float32 | ~float64
}

// CubicInterpolate performs Catmull-Rom interpolation between y1 and y2.
// x is the fractional position (0 <= x <= 1); y0..y3 are four consecutive
// samples.
func CubicInterpolate[T Sample](y0, y1, y2, y3, x T) T {
	a0 := -0.5*y0 + 1.5*y1 - 1.5*y2 + 0.5*y3
	a1 := y0 - 2.5*y1 + 2*y2 - 0.5*y3
	a2 := -0.5*y0 + 0.5*y2
	a3 := y1

	return ((a0*x+a1)*x+a2)*x + a3
}
