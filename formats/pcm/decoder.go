// SPDX-License-Identifier: EPL-2.0

package pcm

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/ik5/audnlms/audio"
	"github.com/ik5/audnlms/utils"
)

// DefaultSampleRate is assumed when Decoder.SampleRate is zero.
const DefaultSampleRate = 16000

// source reads little-endian 16-bit samples.
type source struct {
	r          *bufio.Reader
	closer     io.Closer
	sampleRate int
	channels   int
	buf        []byte
	tmp        []int16
	eof        bool
}

func (s *source) SampleRate() int { return s.sampleRate }
func (s *source) Channels() int   { return s.channels }

func (s *source) Close() error {
	if s.closer == nil {
		return nil
	}
	if err := s.closer.Close(); err != nil {
		return fmt.Errorf("%w", err)
	}

	return nil
}

// ReadPCM16 fills dst with whole frames. A trailing partial frame at the
// end of the input is dropped.
func (s *source) ReadPCM16(dst []int16) (int, error) {
	if s.eof {
		return 0, io.EOF
	}
	if len(dst)%s.channels != 0 {
		return 0, audio.ErrInvalidDstSize
	}
	if len(dst) == 0 {
		return 0, nil
	}

	need := len(dst) * 2
	if cap(s.buf) < need {
		s.buf = make([]byte, need)
	}
	buf := s.buf[:need]

	n, err := io.ReadFull(s.r, buf)
	samples := n / 2
	samples -= samples % s.channels

	for i := range samples {
		dst[i] = int16(binary.LittleEndian.Uint16(buf[2*i:]))
	}

	switch {
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		s.eof = true
		return samples, io.EOF
	case err != nil:
		return samples, fmt.Errorf("read pcm: %w", err)
	}

	return samples, nil
}

func (s *source) ReadSamples(dst []float32) (int, error) {
	if cap(s.tmp) < len(dst) {
		s.tmp = make([]int16, len(dst))
	}
	tmp := s.tmp[:len(dst)]

	n, err := s.ReadPCM16(tmp)
	for i := range n {
		dst[i] = utils.Int16ToFloat32(tmp[i])
	}

	return n, err
}

// Decoder reads headerless little-endian 16-bit PCM. Raw data carries no
// metadata, so the layout comes from the fields.
type Decoder struct {
	// SampleRate in Hz, DefaultSampleRate when zero.
	SampleRate int
	// Channels, mono when zero.
	Channels int
	// SkipBytes are discarded before the first sample, e.g. 44 to step
	// over a canonical WAV header without parsing it.
	SkipBytes int64
}

// Decode skips the header and returns a Source that also implements
// audio.PCM16Reader. If r is an io.Closer, closing the Source closes r.
func (d Decoder) Decode(r io.Reader) (audio.Source, error) {
	rate, channels := d.SampleRate, d.Channels
	if rate == 0 {
		rate = DefaultSampleRate
	}
	if channels == 0 {
		channels = 1
	}
	if rate < 0 || channels < 0 || d.SkipBytes < 0 {
		return nil, ErrInvalidLayout
	}

	br := bufio.NewReader(r)
	if d.SkipBytes > 0 {
		n, err := io.CopyN(io.Discard, br, d.SkipBytes)
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: got %d of %d bytes", ErrShortHeader, n, d.SkipBytes)
		}
		if err != nil {
			return nil, fmt.Errorf("skip header: %w", err)
		}
	}

	src := &source{
		r:          br,
		sampleRate: rate,
		channels:   channels,
	}
	if c, ok := r.(io.Closer); ok {
		src.closer = c
	}

	return src, nil
}
