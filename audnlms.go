// SPDX-License-Identifier: EPL-2.0

package audnlms

import (
	"context"
	"fmt"

	"github.com/ik5/audnlms/audio"
	"github.com/ik5/audnlms/formats/aiff"
	"github.com/ik5/audnlms/formats/mp3"
	"github.com/ik5/audnlms/formats/pcm"
	"github.com/ik5/audnlms/formats/vorbis"
	"github.com/ik5/audnlms/formats/wav"
	"github.com/ik5/audnlms/nlms"
	"github.com/ik5/audnlms/stream"
)

// SampleRate the default filter configuration is tuned for.
const SampleRate = 16000

// DefaultRegistry returns a registry with every decoder of this module,
// keyed by file extension. Raw PCM ("pcm", "raw") is read as 16 kHz mono
// without a header.
func DefaultRegistry() *audio.Registry {
	reg := audio.NewRegistry()

	reg.Register("wav", wav.Decoder{})
	reg.Register("aiff", aiff.Decoder{})
	reg.Register("aif", aiff.Decoder{})
	reg.Register("mp3", mp3.Decoder{})
	reg.Register("ogg", vorbis.Decoder{})
	reg.Register("pcm", pcm.Decoder{})
	reg.Register("raw", pcm.Decoder{})

	return reg
}

// Result of Cancel.
type Result struct {
	// Estimate of the reference, one sample per accepted input sample.
	Estimate []int16
	// Error is the reference minus the estimate.
	Error []int16
	// Stats of the run.
	Stats stream.Stats
}

// Cancel filters input against reference and collects the accepted output
// in memory. Both sources are conformed to 16 kHz mono first. The first
// block warms the filter up and is not part of the result.
//
// Cancel closes neither source.
func Cancel(ctx context.Context, input, reference audio.Source, cfg nlms.Config, opts ...nlms.Option) (Result, error) {
	f, err := nlms.New(cfg, opts...)
	if err != nil {
		return Result{}, err
	}

	in, err := audio.Conform(input, SampleRate)
	if err != nil {
		return Result{}, fmt.Errorf("input: %w", err)
	}
	ref, err := audio.Conform(reference, SampleRate)
	if err != nil {
		return Result{}, fmt.Errorf("reference: %w", err)
	}

	r, err := stream.NewPairReader(in, ref)
	if err != nil {
		return Result{}, err
	}

	var out stream.Collector
	stats, err := stream.Run(ctx, r, &out, f)

	return Result{Estimate: out.Estimate, Error: out.Error, Stats: stats}, err
}
