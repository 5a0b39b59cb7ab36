// SPDX-License-Identifier: EPL-2.0

package stream

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/ik5/audnlms/audio"
	"github.com/ik5/audnlms/formats/pcm"
	"github.com/ik5/audnlms/formats/wav"
)

// Stream formats understood by OpenFiles.
const (
	// FormatRaw is headerless little-endian 16-bit mono PCM.
	FormatRaw = "raw"
	// FormatWAV is a PCM 16-bit WAV file.
	FormatWAV = "wav"
	// FormatAuto picks the decoder from the file extension. Inputs only.
	FormatAuto = "auto"
)

// Endpoints names the four files of a filtering run.
type Endpoints struct {
	Input     string
	Reference string
	Estimate  string
	Error     string
}

// FileOptions controls how OpenFiles reads and writes the endpoints.
type FileOptions struct {
	// Format of both inputs: FormatRaw, FormatWAV or FormatAuto.
	Format string
	// OutputFormat of both outputs: FormatRaw or FormatWAV.
	OutputFormat string
	// InputSkip and ReferenceSkip are bytes dropped from the start of raw
	// inputs, including raw files picked by FormatAuto.
	InputSkip     int64
	ReferenceSkip int64
	// SampleRate of raw inputs and of every output. Decoded inputs at a
	// different rate or channel count are conformed to mono at this rate.
	SampleRate int
}

// DefaultFileOptions reads raw PCM, skipping a 44 byte header on the input
// only, and writes raw PCM at 16 kHz.
func DefaultFileOptions() FileOptions {
	return FileOptions{
		Format:        FormatRaw,
		OutputFormat:  FormatRaw,
		InputSkip:     44,
		ReferenceSkip: 0,
		SampleRate:    pcm.DefaultSampleRate,
	}
}

// Session holds the open endpoints of a run. It is both a Reader and a
// Writer.
type Session struct {
	*PairReader
	*PairWriter
}

// Close closes the inputs and finishes and closes the outputs.
func (s *Session) Close() error {
	return errors.Join(s.PairReader.Close(), s.PairWriter.Close())
}

type opener struct {
	reg     *audio.Registry
	opts    FileOptions
	cleanup []func()
}

func (o *opener) undo() {
	for i := len(o.cleanup) - 1; i >= 0; i-- {
		o.cleanup[i]()
	}
}

func (o *opener) openInput(path string, skip int64) (audio.Source, error) {
	format := strings.ToLower(o.opts.Format)

	var dec audio.Decoder
	switch format {
	case FormatRaw:
		dec = pcm.Decoder{SampleRate: o.opts.SampleRate, SkipBytes: skip}
	case FormatWAV:
		dec = wav.Decoder{}
	case FormatAuto:
		if o.reg == nil {
			return nil, fmt.Errorf("%w: no registry for %q", audio.ErrUnknownFormat, path)
		}
		d, err := o.reg.Lookup(path)
		if err != nil {
			return nil, fmt.Errorf("%q: %w", path, err)
		}
		// Raw files carry no layout, so the run's options apply to them too.
		if raw, ok := d.(pcm.Decoder); ok {
			raw.SkipBytes = skip
			if raw.SampleRate == 0 {
				raw.SampleRate = o.opts.SampleRate
			}
			d = raw
		}
		dec = d
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, o.opts.Format)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	src, err := dec.Decode(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("decode %q: %w", path, err)
	}
	o.cleanup = append(o.cleanup, func() { src.Close() })

	mono, err := audio.Conform(src, o.opts.SampleRate)
	if err != nil {
		return nil, fmt.Errorf("conform %q: %w", path, err)
	}

	return mono, nil
}

func (o *opener) createOutput(path string) (audio.BlockWriter, error) {
	format := strings.ToLower(o.opts.OutputFormat)
	if format != FormatRaw && format != FormatWAV {
		return nil, fmt.Errorf("%w: output %q", ErrUnknownFormat, o.opts.OutputFormat)
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	o.cleanup = append(o.cleanup, func() {
		f.Close()
		os.Remove(path)
	})

	if format == FormatWAV {
		return wav.NewWriter(f, o.opts.SampleRate)
	}

	return pcm.NewWriter(f), nil
}

// OpenFiles opens both inputs and creates both outputs before any block is
// read. On failure everything opened so far is closed, created outputs are
// removed, and the error wraps ErrResourceUnavailable.
//
// reg is only consulted for FormatAuto and may be nil otherwise.
func OpenFiles(reg *audio.Registry, ep Endpoints, opts FileOptions) (*Session, error) {
	if opts.SampleRate <= 0 {
		return nil, fmt.Errorf("%w: %w", ErrResourceUnavailable, audio.ErrInvalidRate)
	}

	o := &opener{reg: reg, opts: opts}
	fail := func(what string, err error) (*Session, error) {
		o.undo()
		return nil, fmt.Errorf("%w: %s: %w", ErrResourceUnavailable, what, err)
	}

	input, err := o.openInput(ep.Input, opts.InputSkip)
	if err != nil {
		return fail("input", err)
	}
	reference, err := o.openInput(ep.Reference, opts.ReferenceSkip)
	if err != nil {
		return fail("reference", err)
	}
	estimate, err := o.createOutput(ep.Estimate)
	if err != nil {
		return fail("estimate output", err)
	}
	errs, err := o.createOutput(ep.Error)
	if err != nil {
		return fail("error output", err)
	}

	reader, err := NewPairReader(input, reference)
	if err != nil {
		return fail("inputs", err)
	}

	return &Session{
		PairReader: reader,
		PairWriter: NewPairWriter(estimate, errs),
	}, nil
}
