// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"bytes"
	"fmt"
	"io"

	goaudio "github.com/go-audio/audio"
	gowav "github.com/go-audio/wav"
	"github.com/ik5/audnlms/audio"
	"github.com/ik5/audnlms/utils"
)

// wavFormatPCM is the fmt chunk audio format of integer PCM.
const wavFormatPCM = 1

// pcmReader is the part of wav.Decoder the source needs.
type pcmReader interface {
	PCMBuffer(buf *goaudio.IntBuffer) (int, error)
}

type wavSource struct {
	dec        pcmReader
	closer     io.Closer
	sampleRate int
	channels   int
	intBuf     *goaudio.IntBuffer
	tmp        []int16
	eof        bool
}

func (s *wavSource) SampleRate() int { return s.sampleRate }
func (s *wavSource) Channels() int   { return s.channels }

func (s *wavSource) Close() error {
	if s.closer == nil {
		return nil
	}
	if err := s.closer.Close(); err != nil {
		return fmt.Errorf("%w", err)
	}

	return nil
}

func (s *wavSource) ReadPCM16(dst []int16) (int, error) {
	if s.eof {
		return 0, io.EOF
	}
	if len(dst) == 0 {
		return 0, nil
	}

	if s.intBuf == nil || cap(s.intBuf.Data) < len(dst) {
		s.intBuf = &goaudio.IntBuffer{
			Data:           make([]int, len(dst)),
			Format:         &goaudio.Format{NumChannels: s.channels, SampleRate: s.sampleRate},
			SourceBitDepth: 16,
		}
	}
	s.intBuf.Data = s.intBuf.Data[:len(dst)]

	n, err := s.dec.PCMBuffer(s.intBuf)
	for i := range n {
		dst[i] = int16(s.intBuf.Data[i])
	}

	switch {
	case err == io.EOF || (err == nil && n == 0):
		// go-audio reports the end of the data chunk as an empty read.
		s.eof = true
		return n, io.EOF
	case err != nil:
		return n, fmt.Errorf("read wav: %w", err)
	}

	return n, nil
}

func (s *wavSource) ReadSamples(dst []float32) (int, error) {
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

// Decoder reads PCM 16-bit WAV files with github.com/go-audio/wav.
type Decoder struct{}

// Decode parses the RIFF chunks and positions the source at the first
// sample. go-audio needs to seek, so a reader that is not an io.ReadSeeker
// is read fully into memory first. If r is an io.Closer, closing the
// Source closes r.
func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	rs, ok := r.(io.ReadSeeker)
	if !ok {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("reading wav data: %w", err)
		}
		rs = bytes.NewReader(data)
	}

	dec := gowav.NewDecoder(rs)
	if !dec.IsValidFile() {
		return nil, ErrNotWavFile
	}
	if dec.WavAudioFormat != wavFormatPCM || dec.BitDepth != 16 {
		return nil, ErrOnlyPCM16bitSupported
	}
	if dec.SampleRate == 0 {
		return nil, ErrUnsupportedWavLayout
	}
	if err := dec.FwdToPCM(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnsupportedWavChunks, err)
	}

	src := &wavSource{
		dec:        dec,
		sampleRate: int(dec.SampleRate),
		channels:   int(dec.NumChans),
	}
	if c, ok := r.(io.Closer); ok {
		src.closer = c
	}

	return src, nil
}
