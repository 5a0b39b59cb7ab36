// SPDX-License-Identifier: EPL-2.0

package pcm

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
)

// Writer writes blocks as headerless little-endian 16-bit PCM. It
// implements audio.BlockWriter.
type Writer struct {
	w       *bufio.Writer
	closer  io.Closer
	buf     []byte
	written int64
}

// NewWriter buffers writes to w. If w is an io.Closer, Close closes it.
func NewWriter(w io.Writer) *Writer {
	pw := &Writer{w: bufio.NewWriter(w)}
	if c, ok := w.(io.Closer); ok {
		pw.closer = c
	}

	return pw
}

// WriteBlock appends samples to the output.
func (w *Writer) WriteBlock(samples []int16) error {
	w.buf = w.buf[:0]
	for _, s := range samples {
		w.buf = binary.LittleEndian.AppendUint16(w.buf, uint16(s))
	}

	if _, err := w.w.Write(w.buf); err != nil {
		return fmt.Errorf("write pcm: %w", err)
	}
	w.written += int64(len(samples))

	return nil
}

// Samples written so far.
func (w *Writer) Samples() int64 { return w.written }

// Flush writes buffered data to the underlying writer.
func (w *Writer) Flush() error {
	if err := w.w.Flush(); err != nil {
		return fmt.Errorf("flush pcm: %w", err)
	}

	return nil
}

// Close flushes and closes the underlying writer when it is closable.
func (w *Writer) Close() error {
	if err := w.Flush(); err != nil {
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
