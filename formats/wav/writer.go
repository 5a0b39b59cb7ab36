// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"fmt"
	"io"

	goaudio "github.com/go-audio/audio"
	gowav "github.com/go-audio/wav"
	"github.com/ik5/audnlms/audio"
)

// Writer streams mono 16-bit blocks into a WAV file. The header sizes are
// patched on Close, which is why it needs an io.WriteSeeker. It implements
// audio.BlockWriter.
type Writer struct {
	enc     *gowav.Encoder
	closer  io.Closer
	buf     *goaudio.IntBuffer
	written int64
	started bool
	closed  bool
}

// NewWriter prepares a mono 16-bit PCM WAV at sampleRate. If ws is an
// io.Closer, Close closes it after finishing the file.
func NewWriter(ws io.WriteSeeker, sampleRate int) (*Writer, error) {
	if sampleRate <= 0 {
		return nil, audio.ErrInvalidRate
	}

	w := &Writer{
		enc: gowav.NewEncoder(ws, sampleRate, 16, 1, wavFormatPCM),
		buf: &goaudio.IntBuffer{
			Format:         &goaudio.Format{NumChannels: 1, SampleRate: sampleRate},
			SourceBitDepth: 16,
		},
	}
	if c, ok := ws.(io.Closer); ok {
		w.closer = c
	}

	return w, nil
}

// WriteBlock appends samples to the data chunk.
func (w *Writer) WriteBlock(samples []int16) error {
	if cap(w.buf.Data) < len(samples) {
		w.buf.Data = make([]int, len(samples))
	}
	w.buf.Data = w.buf.Data[:len(samples)]
	for i, s := range samples {
		w.buf.Data[i] = int(s)
	}

	if err := w.enc.Write(w.buf); err != nil {
		return fmt.Errorf("write wav: %w", err)
	}
	w.started = true
	w.written += int64(len(samples))

	return nil
}

// Samples written so far.
func (w *Writer) Samples() int64 { return w.written }

// finish writes the final chunk sizes. A file without blocks still gets a
// valid header and an empty data chunk.
func (w *Writer) finish() error {
	if w.closed {
		return nil
	}
	w.closed = true

	if !w.started {
		w.buf.Data = w.buf.Data[:0]
		if err := w.enc.Write(w.buf); err != nil {
			return fmt.Errorf("write wav header: %w", err)
		}
	}
	if err := w.enc.Close(); err != nil {
		return fmt.Errorf("finish wav: %w", err)
	}

	return nil
}

// Close finishes the file and closes the underlying writer when it is
// closable.
func (w *Writer) Close() error {
	if err := w.finish(); err != nil {
		return err
	}
	if w.closer == nil {
		return nil
	}
	if err := w.closer.Close(); err != nil {
		return fmt.Errorf("%w", err)
	}

	return nil
}

// WriteWAV16 writes samples as a complete mono 16-bit PCM WAV at
// sampleRate. ws is left open.
func WriteWAV16(ws io.WriteSeeker, sampleRate int, samples []int16) error {
	w, err := NewWriter(ws, sampleRate)
	if err != nil {
		return err
	}
	if err := w.WriteBlock(samples); err != nil {
		return err
	}

	return w.finish()
}
