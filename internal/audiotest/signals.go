// SPDX-License-Identifier: EPL-2.0

package audiotest

import (
	"encoding/binary"
	"math"
	"math/rand"
)

// Noise generates uniform white noise in [-amplitude, amplitude] with a fixed
// seed for reproducibility.
func Noise(seed int64, amplitude int16, n int) []int16 {
	rng := rand.New(rand.NewSource(seed))
	out := make([]int16, n)
	span := 2*int(amplitude) + 1
	for i := range out {
		out[i] = int16(rng.Intn(span) - int(amplitude))
	}

	return out
}

// Alternating generates amplitude, -amplitude, amplitude, ...
func Alternating(amplitude int16, n int) []int16 {
	out := make([]int16, n)
	for i := range out {
		if i%2 == 0 {
			out[i] = amplitude
		} else {
			out[i] = -amplitude
		}
	}

	return out
}

// Sine generates a 16-bit sine wave.
func Sine(frequency, sampleRate, amplitude float64, n int) []int16 {
	out := make([]int16, n)
	step := 2 * math.Pi * frequency / sampleRate
	for i := range out {
		out[i] = int16(amplitude * math.Sin(step*float64(i)))
	}

	return out
}

// FIR passes x through taps, where taps[k] weights the sample k positions in
// the past and samples before x[0] are zero. Outputs are truncated to int16.
func FIR(taps []float64, x []int16) []int16 {
	out := make([]int16, len(x))
	for n := range x {
		acc := 0.0
		for k, h := range taps {
			if n-k < 0 {
				break
			}
			acc += h * float64(x[n-k])
		}
		out[n] = int16(acc)
	}

	return out
}

// DecayingTaps builds a pseudo-random impulse response whose magnitude decays
// geometrically, like a short room echo path.
func DecayingTaps(seed int64, n int, gain, decay float64) []float64 {
	rng := rand.New(rand.NewSource(seed))
	taps := make([]float64, n)
	g := gain
	for i := range taps {
		if rng.Intn(2) == 0 {
			taps[i] = g
		} else {
			taps[i] = -g
		}
		g *= decay
	}

	return taps
}

// Split cuts signal into consecutive blocks of blockLen samples, dropping a
// short tail.
func Split(signal []int16, blockLen int) [][]int16 {
	blocks := make([][]int16, 0, len(signal)/blockLen)
	for start := 0; start+blockLen <= len(signal); start += blockLen {
		blocks = append(blocks, signal[start:start+blockLen])
	}

	return blocks
}

// RMS returns the root mean square of x.
func RMS(x []int16) float64 {
	if len(x) == 0 {
		return 0
	}

	sum := 0.0
	for _, s := range x {
		v := float64(s)
		sum += v * v
	}

	return math.Sqrt(sum / float64(len(x)))
}

// PCMBytes encodes samples as little-endian 16-bit PCM.
func PCMBytes(samples []int16) []byte {
	out := make([]byte, 2*len(samples))
	for i, s := range samples {
		binary.LittleEndian.PutUint16(out[2*i:], uint16(s))
	}

	return out
}
