// SPDX-License-Identifier: EPL-2.0

// Command audnlms runs an NLMS adaptive filter over two PCM files and
// writes the estimate and error streams.
//
//	audnlms [flags] <input> <reference> <estimate-out> <error-out>
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/ik5/audnlms"
	"github.com/ik5/audnlms/nlms"
	"github.com/ik5/audnlms/stream"
)

// Version is injected at build time with -ldflags.
var Version = "0.1.0-dev"

type options struct {
	endpoints   stream.Endpoints
	files       stream.FileOptions
	filter      nlms.Config
	legacyTaps  bool
	energyLimit float64
	debug       bool
}

var errUsage = errors.New("usage: audnlms [flags] <input> <reference> <estimate-out> <error-out>")

func parseFlags(args []string, output io.Writer) (options, error) {
	fs := flag.NewFlagSet("audnlms", flag.ContinueOnError)
	fs.SetOutput(output)

	files := stream.DefaultFileOptions()
	filter := nlms.DefaultConfig()

	format := fs.String("format", files.Format, "Input format: raw, wav or auto (by file extension)")
	outFormat := fs.String("out-format", files.OutputFormat, "Output format: raw or wav")
	skipInput := fs.Int64("skip-input", files.InputSkip, "Bytes to skip at the start of a raw input")
	skipReference := fs.Int64("skip-reference", files.ReferenceSkip, "Bytes to skip at the start of a raw reference")
	rate := fs.Int("rate", files.SampleRate, "Sample rate of raw inputs and of the outputs")
	block := fs.Int("block", filter.BlockLen, "Samples per block")
	taps := fs.Int("taps", filter.FilterLen, "Filter length in taps")
	mu := fs.Float64("mu", filter.StepSize, "NLMS step size")
	eps := fs.Float64("eps", filter.Regularization, "Regularization added to the window energy")
	legacy := fs.Bool("legacy-taps", false, "Update taps in the reversed order of the reference implementation")
	energyLimit := fs.Float64("energy-limit", stream.DefaultEnergyLimit, "Coefficient energy that triggers the divergence warning")
	debug := fs.Bool("debug", false, "Enable debug logging with per-block tap dumps")

	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	if fs.NArg() != 4 {
		return options{}, errUsage
	}

	files.Format = *format
	files.OutputFormat = *outFormat
	files.InputSkip = *skipInput
	files.ReferenceSkip = *skipReference
	files.SampleRate = *rate

	filter.BlockLen = *block
	filter.FilterLen = *taps
	filter.StepSize = *mu
	filter.Regularization = *eps

	if err := filter.Validate(); err != nil {
		return options{}, err
	}

	return options{
		endpoints: stream.Endpoints{
			Input:     fs.Arg(0),
			Reference: fs.Arg(1),
			Estimate:  fs.Arg(2),
			Error:     fs.Arg(3),
		},
		files:       files,
		filter:      filter,
		legacyTaps:  *legacy,
		energyLimit: *energyLimit,
		debug:       *debug,
	}, nil
}

func run(ctx context.Context, opts options, logger *slog.Logger) (err error) {
	var filterOpts []nlms.Option
	if opts.legacyTaps {
		filterOpts = append(filterOpts, nlms.WithLegacyTapOrder())
	}

	f, err := nlms.New(opts.filter, filterOpts...)
	if err != nil {
		return err
	}

	session, err := stream.OpenFiles(audnlms.DefaultRegistry(), opts.endpoints, opts.files)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := session.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("close outputs: %w", closeErr))
		}
	}()

	logger.Debug("files open",
		"input", opts.endpoints.Input,
		"reference", opts.endpoints.Reference,
		"rate", session.SampleRate(),
		"block", opts.filter.BlockLen,
		"taps", opts.filter.FilterLen,
	)

	stats, err := stream.Run(ctx, session, session, f,
		stream.WithLogger(logger),
		stream.WithEnergyLimit(opts.energyLimit),
	)
	if err != nil {
		return err
	}

	logger.Info("done",
		"estimate", opts.endpoints.Estimate,
		"error", opts.endpoints.Error,
		"accepted_blocks", stats.Accepted,
		"energy", stats.Probe.Energy,
	)

	return nil
}

func main() {
	opts, err := parseFlags(os.Args[1:], os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		os.Exit(0)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	level := slog.LevelInfo
	if opts.debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	slog.Info("starting audnlms", "version", Version, "mu", opts.filter.StepSize, "taps", opts.filter.FilterLen)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)
	go func() {
		<-sigCh
		slog.Info("received interrupt, stopping after the current block")
		cancel()
	}()

	if code := exitCode(logger, run(ctx, opts, logger)); code != 0 {
		cancel()
		os.Exit(code)
	}
}

// exitCode logs the outcome of run. An interrupt stops between blocks and
// leaves complete outputs, so it is not a failure.
func exitCode(logger *slog.Logger, err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, context.Canceled):
		logger.Info("stopped by interrupt, outputs hold the blocks filtered so far")
		return 0
	default:
		logger.Error("filtering failed", "err", err)
		return 1
	}
}
