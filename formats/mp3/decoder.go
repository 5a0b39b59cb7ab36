// SPDX-License-Identifier: EPL-2.0

package mp3

import (
	"encoding/binary"
	"fmt"
	"io"

	gomp3 "github.com/hajimehoshi/go-mp3"
	"github.com/ik5/audnlms/audio"
	"github.com/ik5/audnlms/utils"
)

// go-mp3 always decodes to interleaved 16-bit stereo.
const mp3Channels = 2

// mp3Reader is an interface for gomp3.Decoder to allow testing
type mp3Reader interface {
	Read([]byte) (int, error)
	SampleRate() int
}

type source struct {
	dec        mp3Reader
	closer     io.Closer
	sampleRate int
	buf        []byte
	tmp        []int16
	carry      []byte // bytes of a sample split across reads
}

func (s *source) SampleRate() int { return s.sampleRate }
func (s *source) Channels() int   { return mp3Channels }

func (s *source) Close() error {
	if s.closer == nil {
		return nil
	}
	if err := s.closer.Close(); err != nil {
		return fmt.Errorf("%w", err)
	}

	return nil
}

// ReadPCM16 returns the decoder's samples unchanged.
func (s *source) ReadPCM16(dst []int16) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}

	bytesNeeded := len(dst) * 2
	if cap(s.buf) < bytesNeeded {
		s.buf = make([]byte, bytesNeeded)
	}
	buf := s.buf[:bytesNeeded]

	k := copy(buf, s.carry)
	s.carry = s.carry[:0]

	n, err := s.dec.Read(buf[k:])
	n += k

	samples := n / 2
	for i := range samples {
		dst[i] = int16(binary.LittleEndian.Uint16(buf[2*i:]))
	}
	if n%2 != 0 {
		s.carry = append(s.carry, buf[n-1])
	}

	if err == io.EOF {
		return samples, io.EOF
	}
	if err != nil {
		return samples, fmt.Errorf("read mp3: %w", err)
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

type Decoder struct{}

// Decode reads the first frame header. If r is an io.Closer, closing the
// Source closes r.
func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	dec, err := gomp3.NewDecoder(r)
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}

	src := &source{
		dec:        dec,
		sampleRate: dec.SampleRate(),
		buf:        make([]byte, 8192),
	}
	if c, ok := r.(io.Closer); ok {
		src.closer = c
	}

	return src, nil
}
