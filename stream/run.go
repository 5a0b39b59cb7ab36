// SPDX-License-Identifier: EPL-2.0

package stream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/ik5/audnlms/nlms"
)

// DefaultEnergyLimit is the coefficient energy above which Run warns about
// divergence.
const DefaultEnergyLimit = 1e4

// Stats summarizes a Run.
type Stats struct {
	// Blocks processed, warm-up included.
	Blocks uint64
	// Accepted blocks, the ones passed to the Writer.
	Accepted uint64
	// Discarded warm-up blocks.
	Discarded uint64
	// Probe of the coefficients after the last block.
	Probe nlms.Probe
	// Diverged is set once the probe crossed the energy limit.
	Diverged bool
}

type runOptions struct {
	logger      *slog.Logger
	energyLimit float64
}

// RunOption configures Run.
type RunOption func(*runOptions)

// WithLogger sets the logger for per-block debug records and the divergence
// warning. Run logs nothing by default.
func WithLogger(logger *slog.Logger) RunOption {
	return func(o *runOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithEnergyLimit sets the coefficient energy that counts as divergence.
func WithEnergyLimit(limit float64) RunOption {
	return func(o *runOptions) {
		if limit > 0 {
			o.energyLimit = limit
		}
	}
}

// Run feeds block pairs from r through f and writes the accepted results
// to w until r reports io.EOF. ctx is checked between blocks; a block in
// progress always completes.
//
// Divergence never stops Run: it is logged once at Warn level and recorded
// in Stats.
func Run(ctx context.Context, r Reader, w Writer, f *nlms.Filter, opts ...RunOption) (Stats, error) {
	o := runOptions{
		logger:      slog.New(slog.DiscardHandler),
		energyLimit: DefaultEnergyLimit,
	}
	for _, opt := range opts {
		opt(&o)
	}

	blockLen := f.Config().BlockLen
	input := make([]int16, blockLen)
	reference := make([]int16, blockLen)
	estimate := make([]int16, blockLen)
	errs := make([]int16, blockLen)

	var stats Stats
	for {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		err := r.ReadPair(input, reference)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return stats, fmt.Errorf("read block %d: %w", stats.Blocks, err)
		}

		outcome, err := f.ProcessBlockInto(estimate, errs, input, reference)
		if err != nil {
			return stats, fmt.Errorf("filter block %d: %w", stats.Blocks, err)
		}
		stats.Blocks++

		if outcome.Accepted() {
			if err := w.WritePair(estimate, errs); err != nil {
				return stats, fmt.Errorf("write block %d: %w", stats.Blocks-1, err)
			}
			stats.Accepted++
		} else {
			stats.Discarded++
		}

		stats.Probe = f.Probe()
		if o.logger.Enabled(ctx, slog.LevelDebug) {
			taps := f.Coefficients()
			o.logger.DebugContext(ctx, "block filtered",
				"block", stats.Blocks-1,
				"outcome", outcome,
				"taps", taps[:min(3, len(taps))],
				"energy", stats.Probe.Energy,
			)
		}

		if !stats.Diverged && stats.Probe.Diverging(o.energyLimit) {
			stats.Diverged = true
			o.logger.WarnContext(ctx, "coefficients diverging",
				"block", stats.Blocks-1,
				"energy", stats.Probe.Energy,
				"limit", o.energyLimit,
				"finite", stats.Probe.Finite,
			)
		}
	}

	o.logger.InfoContext(ctx, "stream finished",
		"blocks", stats.Blocks,
		"accepted", stats.Accepted,
		"discarded", stats.Discarded,
	)

	return stats, nil
}
