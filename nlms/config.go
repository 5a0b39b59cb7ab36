// SPDX-License-Identifier: EPL-2.0

package nlms

import (
	"fmt"
	"math"
)

// Defaults of the reference design: 64 ms blocks at 16 kHz and a 16 ms filter.
const (
	DefaultBlockLen       = 1024
	DefaultFilterLen      = 256
	DefaultStepSize       = 0.0001
	DefaultRegularization = 0.0001
)

// Config holds the tuning knobs of a filter instance. They are fixed for the
// lifetime of the instance.
//
// StepSize is mu in the update rule. NLMS is only stable while 2*StepSize
// stays below 2; choosing a value that makes the filter diverge is the
// caller's responsibility and is not rejected by Validate. Use Probe to
// observe coefficient growth.
type Config struct {
	// BlockLen is the number of samples per input, reference, estimate and
	// error block.
	BlockLen int
	// FilterLen is the number of FIR taps.
	FilterLen int
	// StepSize is the adaptation rate mu.
	StepSize float64
	// Regularization is added to the window energy before dividing so a
	// silent window never divides by zero.
	Regularization float64
}

// DefaultConfig returns the reference tuning: 1024-sample blocks, 256 taps,
// mu = 0.0001 and a regularization of 0.0001.
func DefaultConfig() Config {
	return Config{
		BlockLen:       DefaultBlockLen,
		FilterLen:      DefaultFilterLen,
		StepSize:       DefaultStepSize,
		Regularization: DefaultRegularization,
	}
}

// KeepLen is the number of trailing input samples carried across blocks.
func (c Config) KeepLen() int { return c.FilterLen - 1 }

// WindowLen is the length of the processing window: history plus one block.
func (c Config) WindowLen() int { return c.BlockLen + c.KeepLen() }

// Validate reports the first invalid field.
func (c Config) Validate() error {
	if c.BlockLen < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidBlockLen, c.BlockLen)
	}
	if c.FilterLen < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidFilterLen, c.FilterLen)
	}
	if !finitePositive(c.StepSize) {
		return fmt.Errorf("%w: got %v", ErrInvalidStepSize, c.StepSize)
	}
	if !finitePositive(c.Regularization) {
		return fmt.Errorf("%w: got %v", ErrInvalidRegularization, c.Regularization)
	}

	return nil
}

func finitePositive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}
