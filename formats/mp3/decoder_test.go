// SPDX-License-Identifier: EPL-2.0

package mp3

import (
	"bytes"
	"errors"
	"io"
	"slices"
	"testing"

	"github.com/ik5/audnlms/audio"
	"github.com/ik5/audnlms/internal/audiotest"
)

// mockMP3Reader simulates the gomp3.Decoder for testing. It returns at most
// maxRead bytes per call, which may split a sample.
type mockMP3Reader struct {
	sampleRate int
	data       *bytes.Reader
	maxRead    int
	err        error
}

func newMockMP3Reader(sampleRate int, samples []int16, maxRead int) *mockMP3Reader {
	return &mockMP3Reader{
		sampleRate: sampleRate,
		data:       bytes.NewReader(audiotest.PCMBytes(samples)),
		maxRead:    maxRead,
	}
}

func (m *mockMP3Reader) SampleRate() int { return m.sampleRate }

func (m *mockMP3Reader) Read(buf []byte) (int, error) {
	if m.err != nil {
		return 0, m.err
	}
	if m.maxRead > 0 && len(buf) > m.maxRead {
		buf = buf[:m.maxRead]
	}

	return m.data.Read(buf)
}

func readAll(t *testing.T, src *source, chunk int) []int16 {
	t.Helper()

	var out []int16
	buf := make([]int16, chunk)
	for range 100000 {
		n, err := src.ReadPCM16(buf)
		out = append(out, buf[:n]...)
		if err == io.EOF {
			return out
		}
		if err != nil {
			t.Fatalf("ReadPCM16() error = %v", err)
		}
	}
	t.Fatal("ReadPCM16() never reached io.EOF")

	return nil
}

func TestDecoder_InvalidInput(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data []byte
	}{
		{"text", []byte("This is not MP3 data")},
		{"empty", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if _, err := (Decoder{}).Decode(bytes.NewReader(tt.data)); err == nil {
				t.Error("Decode() error = nil, want error")
			}
		})
	}
}

func TestSource_Metadata(t *testing.T) {
	t.Parallel()

	src := &source{dec: newMockMP3Reader(44100, nil, 0), sampleRate: 44100}

	if src.SampleRate() != 44100 {
		t.Errorf("SampleRate() = %d, want 44100", src.SampleRate())
	}
	if src.Channels() != 2 {
		t.Errorf("Channels() = %d, want 2", src.Channels())
	}

	var _ audio.PCM16Reader = src
}

func TestSource_ReadPCM16(t *testing.T) {
	t.Parallel()

	samples := audiotest.Noise(2, 32767, 1001)

	tests := []struct {
		name    string
		maxRead int
		chunk   int
	}{
		{"whole reads", 0, 256},
		{"odd byte reads", 3, 256},
		{"single byte reads", 1, 7},
		{"tiny dst", 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			src := &source{dec: newMockMP3Reader(44100, samples, tt.maxRead), sampleRate: 44100}
			if got := readAll(t, src, tt.chunk); !slices.Equal(got, samples) {
				t.Errorf("decoded %d samples, want the %d written", len(got), len(samples))
			}
		})
	}
}

func TestSource_ReadSamples(t *testing.T) {
	t.Parallel()

	src := &source{dec: newMockMP3Reader(44100, []int16{16384, -16384, 0, -32768}, 0), sampleRate: 44100}

	buf := make([]float32, 4)
	n, err := src.ReadSamples(buf)
	if err != nil && err != io.EOF {
		t.Fatalf("ReadSamples() error = %v", err)
	}

	want := []float32{0.5, -0.5, 0, -1}
	if !slices.Equal(buf[:n], want) {
		t.Errorf("ReadSamples() = %v, want %v", buf[:n], want)
	}
}

func TestSource_ReadError(t *testing.T) {
	t.Parallel()

	boom := errors.New("corrupt frame")
	mock := newMockMP3Reader(44100, nil, 0)
	mock.err = boom
	src := &source{dec: mock, sampleRate: 44100}

	if _, err := src.ReadPCM16(make([]int16, 8)); !errors.Is(err, boom) {
		t.Errorf("ReadPCM16() error = %v, want %v", err, boom)
	}
}

type closeTracker struct {
	closed bool
}

func (c *closeTracker) Close() error {
	c.closed = true
	return nil
}

func TestSource_Close(t *testing.T) {
	t.Parallel()

	src := &source{dec: newMockMP3Reader(44100, nil, 0)}
	if err := src.Close(); err != nil {
		t.Errorf("Close() without closer error = %v", err)
	}

	c := &closeTracker{}
	src.closer = c
	if err := src.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if !c.closed {
		t.Error("Close() did not close the reader")
	}
}

func BenchmarkSource_ReadPCM16(b *testing.B) {
	samples := audiotest.Noise(1, 20000, 44100*2)
	buf := make([]int16, 4096)
	b.ReportAllocs()

	for b.Loop() {
		src := &source{dec: newMockMP3Reader(44100, samples, 0), sampleRate: 44100}
		for {
			if _, err := src.ReadPCM16(buf); err != nil {
				break
			}
		}
	}
}
