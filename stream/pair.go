// SPDX-License-Identifier: EPL-2.0

package stream

import (
	"errors"
	"fmt"
	"io"

	"github.com/ik5/audnlms/audio"
)

// Reader supplies aligned input and reference blocks. ReadPair returns
// io.EOF once either stream cannot fill its block.
type Reader interface {
	ReadPair(input, reference []int16) error
}

// Writer receives the estimate and error blocks of every accepted block.
type Writer interface {
	WritePair(estimate, errs []int16) error
}

// PairReader reads the two mono sources in lock step.
type PairReader struct {
	input     *audio.BlockReader
	reference *audio.BlockReader
}

// NewPairReader wraps two mono sources that share a sample rate.
func NewPairReader(input, reference audio.Source) (*PairReader, error) {
	if input.SampleRate() != reference.SampleRate() {
		return nil, fmt.Errorf("%w: %d Hz and %d Hz", ErrRateMismatch, input.SampleRate(), reference.SampleRate())
	}

	in, err := audio.NewBlockReader(input)
	if err != nil {
		return nil, fmt.Errorf("input: %w", err)
	}
	ref, err := audio.NewBlockReader(reference)
	if err != nil {
		return nil, fmt.Errorf("reference: %w", err)
	}

	return &PairReader{input: in, reference: ref}, nil
}

// SampleRate shared by both sources.
func (p *PairReader) SampleRate() int { return p.input.SampleRate() }

// ReadPair fills both blocks. The reference is not read once the input has
// ended.
func (p *PairReader) ReadPair(input, reference []int16) error {
	if err := p.input.ReadBlock(input); err != nil {
		if errors.Is(err, io.EOF) {
			return io.EOF
		}
		return fmt.Errorf("input: %w", err)
	}

	if err := p.reference.ReadBlock(reference); err != nil {
		if errors.Is(err, io.EOF) {
			return io.EOF
		}
		return fmt.Errorf("reference: %w", err)
	}

	return nil
}

// Close closes both sources.
func (p *PairReader) Close() error {
	return errors.Join(p.input.Close(), p.reference.Close())
}

// PairWriter sends estimates and errors to two block writers.
type PairWriter struct {
	estimate audio.BlockWriter
	errs     audio.BlockWriter
}

func NewPairWriter(estimate, errs audio.BlockWriter) *PairWriter {
	return &PairWriter{estimate: estimate, errs: errs}
}

func (p *PairWriter) WritePair(estimate, errs []int16) error {
	if err := p.estimate.WriteBlock(estimate); err != nil {
		return fmt.Errorf("estimate: %w", err)
	}
	if err := p.errs.WriteBlock(errs); err != nil {
		return fmt.Errorf("error: %w", err)
	}

	return nil
}

// Close closes both writers that implement io.Closer. Writers that finish a
// file on Close, such as wav.Writer, must be closed for the output to be
// complete.
func (p *PairWriter) Close() error {
	var errs []error
	for _, w := range []audio.BlockWriter{p.estimate, p.errs} {
		if c, ok := w.(io.Closer); ok {
			errs = append(errs, c.Close())
		}
	}

	return errors.Join(errs...)
}

// Collector keeps every written block in memory.
type Collector struct {
	Estimate []int16
	Error    []int16
}

func (c *Collector) WritePair(estimate, errs []int16) error {
	c.Estimate = append(c.Estimate, estimate...)
	c.Error = append(c.Error, errs...)

	return nil
}
