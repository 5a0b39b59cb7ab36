// SPDX-License-Identifier: EPL-2.0

package aiff

import (
	"bytes"
	"fmt"
	"io"

	"github.com/go-audio/aiff"
	goaudio "github.com/go-audio/audio"
	"github.com/ik5/audnlms/audio"
	"github.com/ik5/audnlms/utils"
)

// aiffReader is an interface for aiff.Decoder to allow testing
type aiffReader interface {
	Format() *goaudio.Format
	PCMBuffer(buf *goaudio.IntBuffer) (int, error)
}

// source wraps go-audio aiff.Decoder to implement audio.Source
type source struct {
	dec        aiffReader
	closer     io.Closer
	sampleRate int
	channels   int
	intBuf     *goaudio.IntBuffer
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

// ReadPCM16 returns the 16-bit samples as stored.
func (s *source) ReadPCM16(dst []int16) (int, error) {
	if s.eof {
		return 0, io.EOF
	}
	if len(dst) == 0 {
		return 0, nil
	}

	if s.intBuf == nil || cap(s.intBuf.Data) < len(dst) {
		s.intBuf = &goaudio.IntBuffer{
			Data:   make([]int, len(dst)),
			Format: s.dec.Format(),
		}
	}
	s.intBuf.Data = s.intBuf.Data[:len(dst)]

	n, err := s.dec.PCMBuffer(s.intBuf)
	for i := range n {
		dst[i] = int16(s.intBuf.Data[i])
	}

	switch {
	case err == io.EOF || (err == nil && n < len(dst)):
		// A short read means the sound data chunk is exhausted.
		s.eof = true
		return n, io.EOF
	case err != nil:
		return n, fmt.Errorf("read aiff: %w", err)
	}

	return n, nil
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

type Decoder struct{}

// Decode parses the AIFF chunks. go-audio needs to seek, so a reader that
// is not an io.ReadSeeker is read fully into memory first. If r is an
// io.Closer, closing the Source closes r.
func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	rs, ok := r.(io.ReadSeeker)
	if !ok {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("reading aiff data: %w", err)
		}
		rs = bytes.NewReader(data)
	}

	dec := aiff.NewDecoder(rs)
	if !dec.IsValidFile() {
		return nil, ErrNotAiffFile
	}

	dec.ReadInfo()

	if dec.BitDepth != 16 {
		return nil, ErrOnlyPCM16bitSupported
	}

	format := dec.Format()
	if format == nil || format.NumChannels < 1 || format.SampleRate <= 0 {
		return nil, ErrUnsupportedAiffLayout
	}

	src := &source{
		dec:        dec,
		sampleRate: format.SampleRate,
		channels:   format.NumChannels,
	}
	if c, ok := r.(io.Closer); ok {
		src.closer = c
	}

	return src, nil
}
