// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"io"

	"github.com/ik5/audnlms/utils"
)

// Resampler converts a mono source to another sample rate with Catmull-Rom
// interpolation. When downsampling, a one-pole low-pass runs on the input to
// soften aliasing.
type Resampler struct {
	src   Source
	rate  int
	ratio float64 // source samples per output sample
	pos   float64 // fractional position between win[1] and win[2]

	// win holds four consecutive source samples; win[1] is the sample at or
	// before the current output position.
	win [4]float32
	// fake counts trailing entries of win that repeat the last real sample
	// after the source ended.
	fake   int
	primed bool
	done   bool

	in      []float32
	inPos   int
	inLen   int
	srcDone bool
	err     error

	lowpass bool
	lpReady bool
	lpState float32
}

const lowpassAlpha = 0.5

// NewResampler wraps a mono source. dstRate must be positive.
func NewResampler(src Source, dstRate int) (*Resampler, error) {
	if dstRate <= 0 || src.SampleRate() <= 0 {
		return nil, ErrInvalidRate
	}
	if src.Channels() != 1 {
		return nil, fmt.Errorf("%w: resampler input has %d channels", ErrNotMono, src.Channels())
	}

	ratio := float64(src.SampleRate()) / float64(dstRate)

	return &Resampler{
		src:     src,
		rate:    dstRate,
		ratio:   ratio,
		in:      make([]float32, 4096),
		lowpass: ratio > 1,
	}, nil
}

func (r *Resampler) SampleRate() int { return r.rate }
func (r *Resampler) Channels() int   { return 1 }

func (r *Resampler) Close() error {
	if err := r.src.Close(); err != nil {
		return fmt.Errorf("%w", err)
	}

	return nil
}

// next returns the next source sample, reading ahead in chunks.
func (r *Resampler) next() (float32, bool) {
	empty := 0
	for r.inPos >= r.inLen {
		if r.srcDone {
			return 0, false
		}

		n, err := r.src.ReadSamples(r.in)
		r.inPos, r.inLen = 0, n

		switch {
		case err == io.EOF:
			r.srcDone = true
		case err != nil:
			r.err = fmt.Errorf("%w", err)
			r.srcDone = true
		case n == 0:
			empty++
			if empty >= maxEmptyReads {
				r.err = io.ErrNoProgress
				r.srcDone = true
			}
		}
	}

	s := r.in[r.inPos]
	r.inPos++

	if r.lowpass {
		if !r.lpReady {
			// Start the filter settled on the first sample.
			r.lpState, r.lpReady = s, true
		}
		s = lowpassAlpha*s + (1-lowpassAlpha)*r.lpState
		r.lpState = s
	}

	return s, true
}

func (r *Resampler) prime() bool {
	first, ok := r.next()
	if !ok {
		return false
	}

	r.win = [4]float32{first, first, first, first}
	r.fake = 2
	for i := 2; i < 4; i++ {
		s, ok := r.next()
		if !ok {
			break
		}
		r.win[i] = s
		r.fake--
		if i == 2 {
			r.win[3] = s
		}
	}

	return true
}

// shift advances the window by one source sample. It returns false once
// win[1] would move past the last real sample.
func (r *Resampler) shift() bool {
	s, ok := r.next()
	if !ok {
		if r.fake == 2 {
			return false
		}
		r.fake++
		s = r.win[3]
	}

	r.win = [4]float32{r.win[1], r.win[2], r.win[3], s}

	return true
}

// ReadSamples produces up to len(dst) samples at the target rate.
func (r *Resampler) ReadSamples(dst []float32) (int, error) {
	if !r.primed {
		r.primed = true
		if !r.prime() {
			r.done = true
		}
	}

	n := 0
	for n < len(dst) && !r.done {
		for r.pos >= 1 {
			r.pos--
			if !r.shift() {
				r.done = true
				break
			}
		}
		if r.err != nil {
			return n, r.err
		}
		if r.done {
			break
		}

		dst[n] = utils.CubicInterpolate(r.win[0], r.win[1], r.win[2], r.win[3], float32(r.pos))
		n++
		r.pos += r.ratio
	}

	if r.err != nil && r.done {
		return n, r.err
	}
	if r.done && n == 0 {
		return 0, io.EOF
	}

	return n, nil
}
