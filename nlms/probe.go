// SPDX-License-Identifier: EPL-2.0

package nlms

import (
	"math"

	"github.com/cwbudde/algo-vecmath"
)

// Probe is a snapshot of the coefficient vector used to spot divergence.
// Taking one never changes what the filter outputs.
type Probe struct {
	// Energy is the sum of the squared taps.
	Energy float64
	// Peak is the largest absolute tap.
	Peak float64
	// Finite is false once any tap became NaN or infinite.
	Finite bool
}

// Diverging reports whether the taps are no longer finite or their energy
// exceeds limit. A converged echo path rarely has an energy above a few
// units; a step size that is too large makes the energy grow without bound.
func (p Probe) Diverging(limit float64) bool {
	return !p.Finite || p.Energy > limit
}

// Probe measures the current coefficients.
func (e *Engine) Probe() Probe {
	vecmath.MulBlock(e.scratch, e.coeffs, e.coeffs)

	p := Probe{Finite: true}
	for i, sq := range e.scratch {
		p.Energy += sq

		c := e.coeffs[i]
		if math.IsNaN(c) || math.IsInf(c, 0) {
			p.Finite = false
		}
		if a := math.Abs(c); a > p.Peak {
			p.Peak = a
		}
	}

	return p
}
