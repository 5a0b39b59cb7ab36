// SPDX-License-Identifier: EPL-2.0

package stream

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"slices"
	"strings"
	"testing"

	"github.com/ik5/audnlms/internal/audiotest"
	"github.com/ik5/audnlms/nlms"
)

var testConfig = nlms.Config{BlockLen: 64, FilterLen: 8, StepSize: 0.01, Regularization: 0.0001}

func newPairReader(t *testing.T, input, reference []int16) *PairReader {
	t.Helper()

	r, err := NewPairReader(
		audiotest.NewPCMSource(16000, 1, input),
		audiotest.NewPCMSource(16000, 1, reference),
	)
	if err != nil {
		t.Fatalf("NewPairReader() error = %v", err)
	}

	return r
}

func newFilter(t *testing.T, cfg nlms.Config) *nlms.Filter {
	t.Helper()

	f, err := nlms.New(cfg)
	if err != nil {
		t.Fatalf("nlms.New() error = %v", err)
	}

	return f
}

func TestRun_BlockCounts(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		samples      int
		wantBlocks   uint64
		wantAccepted uint64
	}{
		{"empty", 0, 0, 0},
		{"short block only", 63, 0, 0},
		{"one block", 64, 1, 0},
		{"two blocks", 128, 2, 1},
		{"two blocks and a tail", 128 + 10, 2, 1},
		{"ten blocks", 640, 10, 9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			input := audiotest.Noise(1, 8000, tt.samples)
			reference := audiotest.Noise(2, 8000, tt.samples)

			var out Collector
			stats, err := Run(context.Background(), newPairReader(t, input, reference), &out, newFilter(t, testConfig))
			if err != nil {
				t.Fatalf("Run() error = %v", err)
			}

			if stats.Blocks != tt.wantBlocks || stats.Accepted != tt.wantAccepted {
				t.Errorf("stats = %+v, want %d blocks, %d accepted", stats, tt.wantBlocks, tt.wantAccepted)
			}
			if stats.Discarded != stats.Blocks-stats.Accepted {
				t.Errorf("Discarded = %d, want %d", stats.Discarded, stats.Blocks-stats.Accepted)
			}
			if want := int(tt.wantAccepted) * testConfig.BlockLen; len(out.Estimate) != want || len(out.Error) != want {
				t.Errorf("wrote %d/%d samples, want %d", len(out.Estimate), len(out.Error), want)
			}
		})
	}
}

func TestRun_MatchesFilter(t *testing.T) {
	t.Parallel()

	input := audiotest.Noise(7, 12000, 6*testConfig.BlockLen)
	reference := audiotest.FIR(audiotest.DecayingTaps(8, 8, 0.5, 0.7), input)

	var out Collector
	if _, err := Run(context.Background(), newPairReader(t, input, reference), &out, newFilter(t, testConfig)); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	f := newFilter(t, testConfig)
	var wantEstimate, wantError []int16
	for i, block := range audiotest.Split(input, testConfig.BlockLen) {
		lo := i * testConfig.BlockLen
		res, err := f.ProcessBlock(block, reference[lo:lo+testConfig.BlockLen])
		if err != nil {
			t.Fatalf("ProcessBlock() error = %v", err)
		}
		if res.Accepted() {
			wantEstimate = append(wantEstimate, res.Estimate...)
			wantError = append(wantError, res.Error...)
		}
	}

	if !slices.Equal(out.Estimate, wantEstimate) || !slices.Equal(out.Error, wantError) {
		t.Error("Run() output differs from filtering the blocks directly")
	}
}

func TestRun_ShortReferenceEndsRun(t *testing.T) {
	t.Parallel()

	input := audiotest.Noise(1, 8000, 5*64)
	reference := audiotest.Noise(2, 8000, 3*64+1)

	var out Collector
	stats, err := Run(context.Background(), newPairReader(t, input, reference), &out, newFilter(t, testConfig))
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if stats.Blocks != 3 {
		t.Errorf("Blocks = %d, want 3", stats.Blocks)
	}
}

// cancelReader cancels ctx after n successful reads.
type cancelReader struct {
	Reader
	cancel context.CancelFunc
	n      int
}

func (c *cancelReader) ReadPair(input, reference []int16) error {
	err := c.Reader.ReadPair(input, reference)
	c.n--
	if c.n == 0 {
		c.cancel()
	}

	return err
}

func TestRun_Cancellation(t *testing.T) {
	t.Parallel()

	input := audiotest.Noise(1, 8000, 10*64)
	reference := audiotest.Noise(2, 8000, 10*64)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	r := &cancelReader{Reader: newPairReader(t, input, reference), cancel: cancel, n: 3}

	var out Collector
	stats, err := Run(ctx, r, &out, newFilter(t, testConfig))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Run() error = %v, want context.Canceled", err)
	}

	// The block in progress when ctx was canceled still completes.
	if stats.Blocks != 3 || stats.Accepted != 2 {
		t.Errorf("stats = %+v, want 3 blocks, 2 accepted", stats)
	}
	if len(out.Estimate) != 2*64 {
		t.Errorf("wrote %d samples, want %d", len(out.Estimate), 2*64)
	}
}

func TestRun_CanceledBeforeStart(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	stats, err := Run(ctx, newPairReader(t, make([]int16, 128), make([]int16, 128)), &Collector{}, newFilter(t, testConfig))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Run() error = %v, want context.Canceled", err)
	}
	if stats.Blocks != 0 {
		t.Errorf("Blocks = %d, want 0", stats.Blocks)
	}
}

type failingReader struct{ err error }

func (f failingReader) ReadPair(_, _ []int16) error { return f.err }

type failingWriter struct{ err error }

func (f failingWriter) WritePair(_, _ []int16) error { return f.err }

func TestRun_Errors(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")

	_, err := Run(context.Background(), failingReader{boom}, &Collector{}, newFilter(t, testConfig))
	if !errors.Is(err, boom) {
		t.Errorf("Run() with failing reader error = %v, want %v", err, boom)
	}

	r := newPairReader(t, make([]int16, 3*64), make([]int16, 3*64))
	stats, err := Run(context.Background(), r, failingWriter{boom}, newFilter(t, testConfig))
	if !errors.Is(err, boom) {
		t.Errorf("Run() with failing writer error = %v, want %v", err, boom)
	}
	if stats.Blocks != 2 || stats.Accepted != 0 {
		t.Errorf("stats = %+v, want the write of block 1 to fail", stats)
	}
}

func TestRun_WarnsOnceOnDivergence(t *testing.T) {
	t.Parallel()

	cfg := testConfig
	cfg.StepSize = 1.5

	input := audiotest.Noise(101, 4000, 20*cfg.BlockLen)
	reference := audiotest.FIR(audiotest.DecayingTaps(102, 8, 0.3, 0.8), input)

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))

	stats, err := Run(context.Background(), newPairReader(t, input, reference), &Collector{}, newFilter(t, cfg),
		WithLogger(logger), WithEnergyLimit(100))
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if !stats.Diverged {
		t.Fatalf("Diverged = false, probe %+v", stats.Probe)
	}
	if n := strings.Count(logs.String(), "coefficients diverging"); n != 1 {
		t.Errorf("divergence warnings = %d, want 1", n)
	}
	if n := strings.Count(logs.String(), "block filtered"); n != 20 {
		t.Errorf("debug records = %d, want 20", n)
	}
}

func TestRun_StableStepSizeDoesNotWarn(t *testing.T) {
	t.Parallel()

	input := audiotest.Noise(101, 4000, 20*testConfig.BlockLen)
	reference := audiotest.FIR(audiotest.DecayingTaps(102, 8, 0.3, 0.8), input)

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))

	stats, err := Run(context.Background(), newPairReader(t, input, reference), &Collector{}, newFilter(t, testConfig),
		WithLogger(logger))
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if stats.Diverged || strings.Contains(logs.String(), "diverging") {
		t.Errorf("stable run reported divergence: %+v", stats.Probe)
	}
	if strings.Contains(logs.String(), "block filtered") {
		t.Error("debug records logged at Info level")
	}
	if !strings.Contains(logs.String(), "stream finished") {
		t.Error("missing summary record")
	}
}

func TestPairReader_RateMismatch(t *testing.T) {
	t.Parallel()

	_, err := NewPairReader(audiotest.NewSilentSource(16000, 1, 10), audiotest.NewSilentSource(8000, 1, 10))
	if !errors.Is(err, ErrRateMismatch) {
		t.Fatalf("NewPairReader() error = %v, want ErrRateMismatch", err)
	}
}

func TestPairReader_Close(t *testing.T) {
	t.Parallel()

	in := audiotest.NewSilentSource(16000, 1, 10)
	ref := audiotest.NewSilentSource(16000, 1, 10)

	r, err := NewPairReader(in, ref)
	if err != nil {
		t.Fatalf("NewPairReader() error = %v", err)
	}
	if err := r.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if !in.Closed() || !ref.Closed() {
		t.Error("Close() left a source open")
	}
}

type recordingWriter struct {
	blocks [][]int16
	closed bool
}

func (w *recordingWriter) WriteBlock(samples []int16) error {
	w.blocks = append(w.blocks, slices.Clone(samples))
	return nil
}

func (w *recordingWriter) Close() error {
	w.closed = true
	return nil
}

func TestPairWriter(t *testing.T) {
	t.Parallel()

	est, errs := &recordingWriter{}, &recordingWriter{}
	w := NewPairWriter(est, errs)

	if err := w.WritePair([]int16{1, 2}, []int16{3, 4}); err != nil {
		t.Fatalf("WritePair() error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	if !slices.Equal(est.blocks[0], []int16{1, 2}) || !slices.Equal(errs.blocks[0], []int16{3, 4}) {
		t.Errorf("blocks = %v / %v", est.blocks, errs.blocks)
	}
	if !est.closed || !errs.closed {
		t.Error("Close() left a writer open")
	}
}

var _ io.Closer = (*PairWriter)(nil)
