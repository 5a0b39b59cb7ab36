// SPDX-License-Identifier: EPL-2.0

package nlms

import (
	"fmt"

	"github.com/ik5/audnlms/utils"
)

// State is the warm-up state of an Engine.
type State uint8

const (
	// StateWarmup is the state of an engine that has not processed a block.
	StateWarmup State = iota
	// StateSteady is entered after the first block and never left.
	StateSteady
)

func (s State) String() string {
	switch s {
	case StateWarmup:
		return "warmup"
	case StateSteady:
		return "steady"
	default:
		return fmt.Sprintf("State(%d)", uint8(s))
	}
}

// Outcome tells the caller what to do with the output of a processed block.
type Outcome uint8

const (
	// OutcomeWarmup means the block was processed and the coefficients were
	// adapted, but the estimate and error must be discarded: the filter was
	// still at its initial state.
	OutcomeWarmup Outcome = iota
	// OutcomeAccepted means the estimate and error are valid output.
	OutcomeAccepted
)

// Accepted reports whether the output should be kept.
func (o Outcome) Accepted() bool { return o == OutcomeAccepted }

func (o Outcome) String() string {
	switch o {
	case OutcomeWarmup:
		return "warmup"
	case OutcomeAccepted:
		return "accepted"
	default:
		return fmt.Sprintf("Outcome(%d)", uint8(o))
	}
}

// Engine is the adaptive part of the filter: it owns the coefficient vector
// and the block counter, and adapts the coefficients one sample at a time
// with the normalized LMS rule.
//
// Each tap is updated with the sample it multiplies. The C LMSFilter routine
// updates tap j with window[i+j] instead, which fails to converge on an
// alternating input and grows its error there; WithLegacyTapOrder keeps that
// behaviour for comparisons.
//
// An Engine is not safe for concurrent use.
type Engine struct {
	cfg    Config
	coeffs []float64
	// scratch is reused by Probe.
	scratch []float64
	initial []float64
	blocks  uint64
	legacy  bool
}

// NewEngine creates an engine with all coefficients at zero unless
// WithInitialCoefficients says otherwise.
func NewEngine(cfg Config, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}

	e := &Engine{
		cfg:     cfg,
		coeffs:  make([]float64, cfg.FilterLen),
		scratch: make([]float64, cfg.FilterLen),
		legacy:  o.legacyTapOrder,
	}

	if o.initial != nil {
		if len(o.initial) != cfg.FilterLen {
			return nil, fmt.Errorf("%w: got %d, want %d", ErrInvalidCoefficients, len(o.initial), cfg.FilterLen)
		}
		e.initial = o.initial
		copy(e.coeffs, e.initial)
	}

	return e, nil
}

// Config returns the configuration the engine was built with.
func (e *Engine) Config() Config { return e.cfg }

// Blocks returns the number of blocks processed so far.
func (e *Engine) Blocks() uint64 { return e.blocks }

// State returns StateWarmup until the first block has been processed.
func (e *Engine) State() State {
	if e.blocks == 0 {
		return StateWarmup
	}

	return StateSteady
}

// Coefficients returns a copy of the taps. Tap k weights the sample k
// positions in the past.
func (e *Engine) Coefficients() []float64 {
	out := make([]float64, len(e.coeffs))
	copy(out, e.coeffs)

	return out
}

// Process filters one block. window must hold Config().WindowLen() samples:
// the KeepLen() samples preceding the block followed by the block itself.
// reference holds the desired signal for the block. The truncated estimate
// and the error (reference minus estimate) are written to estimate and
// errOut, which must hold at least BlockLen samples.
//
// Every sample runs the full estimate, error, normalize and update sequence
// before the next one starts, so sample i+1 sees the coefficients adapted at
// sample i. The first call returns OutcomeWarmup, later calls
// OutcomeAccepted.
//
// Lengths are checked before anything is modified.
func (e *Engine) Process(window, reference, estimate, errOut []int16) (Outcome, error) {
	blockLen, filterLen := e.cfg.BlockLen, e.cfg.FilterLen

	if len(window) != e.cfg.WindowLen() {
		return OutcomeWarmup, fmt.Errorf("%w: got %d, want %d", ErrWindowLength, len(window), e.cfg.WindowLen())
	}
	if len(reference) != blockLen {
		return OutcomeWarmup, fmt.Errorf("%w: reference has %d samples, want %d", ErrBlockLength, len(reference), blockLen)
	}
	if len(estimate) < blockLen || len(errOut) < blockLen {
		return OutcomeWarmup, fmt.Errorf("%w: need %d samples", ErrOutputLength, blockLen)
	}

	mu, eps := e.cfg.StepSize, e.cfg.Regularization
	c := e.coeffs

	for i := range blockLen {
		x := window[i : i+filterLen]

		acc := 0.0
		for j, s := range x {
			acc += c[filterLen-1-j] * float64(s)
		}
		est := utils.TruncateInt16(acc)

		// diff is not wrapped: only the stored error is.
		diff := float64(int32(reference[i]) - int32(est))
		estimate[i] = est
		errOut[i] = int16(int32(reference[i]) - int32(est))

		norm := 0.0
		for _, s := range x {
			v := float64(s)
			norm += v * v
		}
		denom := norm + eps

		if e.legacy {
			for j, s := range x {
				c[j] += 2.0 * float64(s) * mu * diff / denom
			}
			continue
		}
		for j, s := range x {
			c[filterLen-1-j] += 2.0 * float64(s) * mu * diff / denom
		}
	}

	e.blocks++
	if e.blocks == 1 {
		return OutcomeWarmup, nil
	}

	return OutcomeAccepted, nil
}

// Reset restores the coefficients the engine started with and returns it to
// StateWarmup.
func (e *Engine) Reset() {
	clear(e.coeffs)
	copy(e.coeffs, e.initial)
	e.blocks = 0
}
