// SPDX-License-Identifier: EPL-2.0

package utils

import "math"

// TruncateInt16 converts a double-precision accumulator to a 16-bit sample the
// way a C (short) cast does on common hardware: the fractional part is dropped
// toward zero and the integer result wraps modulo 2^16. No saturation is applied,
// so 32768.7 becomes -32768 and -32769 becomes 32767.
//
// NaN and ±Inf have no integer value and map to 0.
func TruncateInt16(v float64) int16 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}

	// Mod keeps the value exact and inside (-65536, 65536), so the int32
	// conversion below is always defined.
	t := math.Mod(math.Trunc(v), 65536)

	return int16(int32(t))
}
