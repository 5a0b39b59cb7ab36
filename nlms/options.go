// SPDX-License-Identifier: EPL-2.0

package nlms

type options struct {
	legacyTapOrder bool
	initial        []float64
}

// Option customizes an Engine or a Filter.
type Option func(*options)

// WithLegacyTapOrder makes the update add window[i+j] to tap j while the
// estimate still applies tap j to window[i+FilterLen-1-j]. This reproduces
// the output of the legacy C LMSFilter program bit for bit. The mismatch breaks the
// gradient for any non-symmetric response, so it is only useful to compare
// against recordings made with that program.
func WithLegacyTapOrder() Option {
	return func(o *options) { o.legacyTapOrder = true }
}

// WithInitialCoefficients starts the filter from the given taps instead of
// zero, e.g. to resume a previously converged response. The slice is copied
// and must have FilterLen entries. The first block is still reported as
// OutcomeWarmup.
func WithInitialCoefficients(taps []float64) Option {
	return func(o *options) {
		o.initial = make([]float64, len(taps))
		copy(o.initial, taps)
	}
}
