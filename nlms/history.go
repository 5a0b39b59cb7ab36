// SPDX-License-Identifier: EPL-2.0

package nlms

// History retains the trailing samples of an input stream so that a block
// can be filtered as if the stream were never split.
//
// A new History holds silence: the samples before the first block are
// assumed to be zero.
type History struct {
	keep []int16
}

// NewHistory creates a zero-filled history of keepLen samples. A negative
// keepLen is treated as zero.
func NewHistory(keepLen int) *History {
	return &History{keep: make([]int16, max(keepLen, 0))}
}

// Len returns the number of retained samples.
func (h *History) Len() int { return len(h.keep) }

// Samples returns a copy of the retained samples, oldest first.
func (h *History) Samples() []int16 {
	out := make([]int16, len(h.keep))
	copy(out, h.keep)

	return out
}

// Extend writes the retained samples followed by block into dst[:0] and
// returns the result. The history itself is not modified.
func (h *History) Extend(dst, block []int16) []int16 {
	dst = append(dst[:0], h.keep...)

	return append(dst, block...)
}

// Update makes the history hold the last Len() samples of the stream after
// block. When block is at least Len() long that is simply its tail; a shorter
// block is appended to the previous history, dropping the oldest samples.
func (h *History) Update(block []int16) {
	k := len(h.keep)
	if len(block) >= k {
		copy(h.keep, block[len(block)-k:])
		return
	}

	n := copy(h.keep, h.keep[len(block):])
	copy(h.keep[n:], block)
}

// Reset restores the cold-start silence.
func (h *History) Reset() {
	clear(h.keep)
}
