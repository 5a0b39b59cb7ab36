// SPDX-License-Identifier: EPL-2.0

package nlms

import "fmt"

// Result is the output of Filter.ProcessBlock.
type Result struct {
	Estimate []int16
	Error    []int16
	Outcome  Outcome
}

// Accepted reports whether Estimate and Error are valid output.
func (r Result) Accepted() bool { return r.Outcome.Accepted() }

// Filter is one NLMS filter bound to one continuous stream. It combines the
// History that stitches consecutive blocks together with the Engine that
// adapts the coefficients.
//
// A Filter must only be used by one goroutine at a time. Independent streams
// need their own Filter.
type Filter struct {
	cfg     Config
	history *History
	engine  *Engine
	window  []int16
}

// New creates a filter in StateWarmup with zero coefficients and a silent
// history.
func New(cfg Config, opts ...Option) (*Filter, error) {
	engine, err := NewEngine(cfg, opts...)
	if err != nil {
		return nil, err
	}

	return &Filter{
		cfg:     cfg,
		history: NewHistory(cfg.KeepLen()),
		engine:  engine,
		window:  make([]int16, 0, cfg.WindowLen()),
	}, nil
}

// Config returns the configuration the filter was built with.
func (f *Filter) Config() Config { return f.cfg }

// ProcessBlock filters one block pair and returns freshly allocated
// estimate and error blocks.
func (f *Filter) ProcessBlock(input, reference []int16) (Result, error) {
	res := Result{
		Estimate: make([]int16, f.cfg.BlockLen),
		Error:    make([]int16, f.cfg.BlockLen),
	}

	outcome, err := f.ProcessBlockInto(res.Estimate, res.Error, input, reference)
	if err != nil {
		return Result{}, err
	}
	res.Outcome = outcome

	return res, nil
}

// ProcessBlockInto filters one block pair, writing into caller-provided
// estimate and errOut blocks. It does not allocate.
//
// The history is updated with input after every successful call, whatever
// the outcome, so it always reflects the real signal.
func (f *Filter) ProcessBlockInto(estimate, errOut, input, reference []int16) (Outcome, error) {
	if len(input) != f.cfg.BlockLen {
		return OutcomeWarmup, fmt.Errorf("%w: input has %d samples, want %d", ErrBlockLength, len(input), f.cfg.BlockLen)
	}

	f.window = f.history.Extend(f.window, input)

	outcome, err := f.engine.Process(f.window, reference, estimate, errOut)
	if err != nil {
		return outcome, err
	}

	f.history.Update(input)

	return outcome, nil
}

// Blocks returns the number of blocks processed.
func (f *Filter) Blocks() uint64 { return f.engine.Blocks() }

// State returns the warm-up state.
func (f *Filter) State() State { return f.engine.State() }

// Coefficients returns a copy of the taps.
func (f *Filter) Coefficients() []float64 { return f.engine.Coefficients() }

// History returns a copy of the retained input samples.
func (f *Filter) History() []int16 { return f.history.Samples() }

// Probe measures the current coefficients.
func (f *Filter) Probe() Probe { return f.engine.Probe() }

// Reset returns the filter to the state New left it in.
func (f *Filter) Reset() {
	f.engine.Reset()
	f.history.Reset()
}
