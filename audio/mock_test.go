// SPDX-License-Identifier: EPL-2.0

package audio

import "github.com/ik5/audnlms/internal/audiotest"

// mockSource adds error injection to audiotest.MockSource: once failAfter
// frames were read, ReadSamples returns readErr.
type mockSource struct {
	*audiotest.MockSource

	failAfter int
	readErr   error
	frames    int
}

func newMockSource(sampleRate, channels, frames int, waveform func(sample, channel int) float32) *mockSource {
	return &mockSource{MockSource: audiotest.NewMockSource(sampleRate, channels, frames, waveform)}
}

func newSilentSource(sampleRate, channels, frames int) *mockSource {
	return &mockSource{MockSource: audiotest.NewSilentSource(sampleRate, channels, frames)}
}

func newSineSource(sampleRate, channels, frames int, frequency float64) *mockSource {
	return &mockSource{MockSource: audiotest.NewSineSource(sampleRate, channels, frames, frequency)}
}

func (m *mockSource) ReadSamples(dst []float32) (int, error) {
	if m.failAfter > 0 && m.frames >= m.failAfter {
		return 0, m.readErr
	}

	n, err := m.MockSource.ReadSamples(dst)
	m.frames += n / m.Channels()

	return n, err
}
