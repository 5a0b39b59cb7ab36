// SPDX-License-Identifier: EPL-2.0

// Package nlms implements a sample-by-sample Normalized Least-Mean-Squares
// adaptive FIR filter for 16-bit PCM delivered in fixed-size blocks.
//
// The filter estimates a reference (desired) signal from a related input
// signal, e.g. the echo of a far-end signal in a microphone capture, and
// returns both the estimate and the error (reference minus estimate).
//
// # Algorithm
//
// For every output sample i the filter takes the FilterLen input samples
// ending at i, and:
//
//  1. estimates y[i] = sum(c[k] * x[i-k]) in float64 and truncates it to int16
//     (no saturation: values outside the int16 range wrap),
//  2. computes e[i] = ref[i] - y[i] from the truncated estimate,
//  3. computes the window energy norm = sum(x[i-k]^2),
//  4. updates every tap c[k] += 2 * mu * x[i-k] * e[i] / (norm + eps).
//
// Steps 1-4 complete for sample i before sample i+1 starts, so the
// coefficients change BlockLen times per block.
//
// # Blocks and history
//
// A History keeps the last FilterLen-1 input samples of the previous block,
// so the first samples of a block see the same window they would in an
// unbroken stream. The history starts as silence.
//
// # Warm-up
//
// The first block a Filter processes adapts the coefficients but returns
// OutcomeWarmup: its output comes from an all-zero filter and should be
// dropped. Every later block returns OutcomeAccepted.
//
// # Usage
//
//	f, err := nlms.New(nlms.DefaultConfig())
//	if err != nil {
//	    return err
//	}
//
//	for {
//	    // read input and reference blocks of f.Config().BlockLen samples
//	    res, err := f.ProcessBlock(input, reference)
//	    if err != nil {
//	        return err
//	    }
//	    if res.Accepted() {
//	        // write res.Estimate and res.Error
//	    }
//	}
//
// # Stability
//
// The step size is a tuning knob, not a safe default for every signal. With
// 2*mu close to or above 2 the coefficients grow without bound and the
// output wraps. Filter.Probe reports the coefficient energy so callers can
// watch for this; the filter itself never clamps or stops.
//
// A Filter is not safe for concurrent use. Filter independent streams with
// independent Filter values.
package nlms
