// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"io"
	"math"
	"slices"
	"testing"
)

func TestDownmixer_MonoPassthrough(t *testing.T) {
	t.Parallel()

	src := newSineSource(16000, 1, 100, 440.0)
	mono := NewDownmixer(src)

	buf := make([]float32, 100)
	n, err := mono.ReadSamples(buf)
	if err != nil && err != io.EOF {
		t.Fatalf("ReadSamples() error = %v", err)
	}
	if n != 100 {
		t.Errorf("ReadSamples() n = %d, want 100", n)
	}
	if mono.Channels() != 1 || mono.SampleRate() != 16000 {
		t.Errorf("metadata = %d ch @ %d Hz, want 1 ch @ 16000 Hz", mono.Channels(), mono.SampleRate())
	}
}

func TestDownmixer_AveragesChannels(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		channels int
		values   []float32 // per channel
		want     float32
	}{
		{"stereo", 2, []float32{0.5, -0.25}, 0.125},
		{"opposite stereo cancels", 2, []float32{0.8, -0.8}, 0},
		{"three channels", 3, []float32{0.3, 0.3, 0.9}, 0.5},
		{"quad", 4, []float32{1, 0, 0, 0}, 0.25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			src := newMockSource(16000, tt.channels, 10, func(_ int, ch int) float32 {
				return tt.values[ch]
			})
			mono := NewDownmixer(src)

			buf := make([]float32, 10)
			n, err := mono.ReadSamples(buf)
			if err != nil && err != io.EOF {
				t.Fatalf("ReadSamples() error = %v", err)
			}
			if n != 10 {
				t.Fatalf("ReadSamples() n = %d, want 10 frames", n)
			}
			for i := range n {
				if math.Abs(float64(buf[i]-tt.want)) > 1e-6 {
					t.Fatalf("sample %d = %v, want %v", i, buf[i], tt.want)
				}
			}
		})
	}
}

func TestDownmixer_EOF(t *testing.T) {
	t.Parallel()

	mono := NewDownmixer(newSilentSource(16000, 2, 5))
	buf := make([]float32, 8)

	total := 0
	for {
		n, err := mono.ReadSamples(buf)
		total += n
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("ReadSamples() error = %v", err)
		}
	}

	if total != 5 {
		t.Errorf("total frames = %d, want 5", total)
	}
}

// splitSource returns interleaved samples in reads of at most chunk samples,
// regardless of frame boundaries.
type splitSource struct {
	channels int
	data     []float32
	chunk    int
}

func (s *splitSource) SampleRate() int { return 16000 }
func (s *splitSource) Channels() int   { return s.channels }
func (s *splitSource) Close() error    { return nil }

func (s *splitSource) ReadSamples(dst []float32) (int, error) {
	if len(s.data) == 0 {
		return 0, io.EOF
	}

	n := copy(dst[:min(len(dst), s.chunk)], s.data)
	s.data = s.data[n:]

	return n, nil
}

func TestDownmixer_FrameSplitAcrossReads(t *testing.T) {
	t.Parallel()

	// Stereo frames (L, R) = (f, -f): every average is zero unless a split
	// frame shifts the channels.
	const frames = 50
	data := make([]float32, 0, 2*frames+1)
	for f := range frames {
		v := float32(f+1) / 100
		data = append(data, v, -v)
	}
	data = append(data, 0.9) // incomplete last frame

	for _, chunk := range []int{1, 3, 5, 7} {
		mono := NewDownmixer(&splitSource{channels: 2, data: slices.Clone(data), chunk: chunk})
		buf := make([]float32, 8)

		total := 0
		for {
			n, err := mono.ReadSamples(buf)
			for i := range n {
				if buf[i] != 0 {
					t.Fatalf("chunk %d: frame %d = %v, want 0", chunk, total+i, buf[i])
				}
			}
			total += n
			if err == io.EOF {
				break
			}
			if err != nil {
				t.Fatalf("chunk %d: ReadSamples() error = %v", chunk, err)
			}
		}

		if total != frames {
			t.Errorf("chunk %d: total frames = %d, want %d", chunk, total, frames)
		}
	}
}
