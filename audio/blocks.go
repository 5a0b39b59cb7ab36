// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"io"

	"github.com/ik5/audnlms/utils"
)

// maxEmptyReads bounds how often a source may return (0, nil) in a row
// before BlockReader gives up with io.ErrNoProgress.
const maxEmptyReads = 100

// BlockWriter consumes fixed-size blocks of 16-bit samples.
type BlockWriter interface {
	WriteBlock(samples []int16) error
}

// BlockReader cuts a mono Source into fixed-size int16 blocks.
type BlockReader struct {
	src Source
	pcm PCM16Reader
	buf []float32
	eof bool
}

// NewBlockReader wraps a mono source. Sources implementing PCM16Reader are
// read without conversion; others are converted with utils.Float32ToPCM16,
// which restores 16-bit samples exactly.
func NewBlockReader(src Source) (*BlockReader, error) {
	if src.Channels() != 1 {
		return nil, fmt.Errorf("%w: source has %d channels", ErrNotMono, src.Channels())
	}

	br := &BlockReader{src: src}
	if pcm, ok := src.(PCM16Reader); ok {
		br.pcm = pcm
	}

	return br, nil
}

// SampleRate of the underlying source.
func (b *BlockReader) SampleRate() int { return b.src.SampleRate() }

// Close closes the underlying source.
func (b *BlockReader) Close() error {
	if err := b.src.Close(); err != nil {
		return fmt.Errorf("%w", err)
	}

	return nil
}

// ReadBlock fills dst completely. When the source ends before dst is full
// it returns io.EOF; the partial block is dropped, as a stream that cannot
// supply a whole block is finished.
func (b *BlockReader) ReadBlock(dst []int16) error {
	if b.eof {
		return io.EOF
	}

	filled, empty := 0, 0
	for filled < len(dst) {
		n, err := b.read(dst[filled:])
		filled += n

		if err == io.EOF {
			b.eof = true
			if filled < len(dst) {
				return io.EOF
			}
			return nil
		}
		if err != nil {
			return fmt.Errorf("%w", err)
		}

		if n == 0 {
			empty++
			if empty >= maxEmptyReads {
				return io.ErrNoProgress
			}
			continue
		}
		empty = 0
	}

	return nil
}

func (b *BlockReader) read(dst []int16) (int, error) {
	if b.pcm != nil {
		return b.pcm.ReadPCM16(dst)
	}

	if cap(b.buf) < len(dst) {
		b.buf = make([]float32, len(dst))
	}
	buf := b.buf[:len(dst)]

	n, err := b.src.ReadSamples(buf)
	for i := range n {
		dst[i] = utils.Float32ToPCM16(buf[i])
	}

	return n, err
}
