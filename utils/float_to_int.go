// SPDX-License-Identifier: EPL-2.0

package utils

import "math"

// Float32ToPCM16 is the exact inverse of Int16ToFloat32: every value produced
// by Int16ToFloat32 converts back to the original sample. Other values are
// rounded to the nearest step and clamped to the int16 range; NaN is 0.
func Float32ToPCM16(x float32) int16 {
	v := math.Round(float64(x) * 32768.0)
	if math.IsNaN(v) {
		return 0
	}
	if v > math.MaxInt16 {
		return math.MaxInt16
	}
	if v < math.MinInt16 {
		return math.MinInt16
	}

	return int16(v)
}

// Int16ToFloat32 normalizes a 16-bit sample to [-1, 1).
func Int16ToFloat32(s int16) float32 {
	return float32(s) / 32768.0
}
