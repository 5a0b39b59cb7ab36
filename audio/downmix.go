// SPDX-License-Identifier: EPL-2.0

package audio

import "fmt"

// Downmixer averages the channels of each frame into one mono sample.
type Downmixer struct {
	src Source
	tmp []float32
	// rem holds the samples of a frame split across two source reads.
	rem []float32
}

// NewDownmixer wraps src. A mono src passes through unchanged.
func NewDownmixer(src Source) *Downmixer {
	return &Downmixer{src: src}
}

func (d *Downmixer) SampleRate() int { return d.src.SampleRate() }
func (d *Downmixer) Channels() int   { return 1 }

func (d *Downmixer) Close() error {
	if err := d.src.Close(); err != nil {
		return fmt.Errorf("%w", err)
	}

	return nil
}

// ReadSamples reads up to len(dst) frames from the source and writes one
// averaged sample per frame. A source read that ends inside a frame is
// completed by the next call; an incomplete frame at EOF is dropped.
func (d *Downmixer) ReadSamples(dst []float32) (int, error) {
	channels := d.src.Channels()
	if channels == 1 || len(dst) == 0 {
		return d.src.ReadSamples(dst)
	}

	need := len(dst) * channels
	if cap(d.tmp) < need {
		d.tmp = make([]float32, need)
	}
	tmp := d.tmp[:need]

	carried := copy(tmp, d.rem)
	n, err := d.src.ReadSamples(tmp[carried:])
	total := carried + n

	frames := total / channels
	d.rem = append(d.rem[:0], tmp[frames*channels:total]...)

	scale := 1 / float32(channels)
	for f := range frames {
		sum := float32(0)
		for _, v := range tmp[f*channels : (f+1)*channels] {
			sum += v
		}
		dst[f] = sum * scale
	}

	return frames, err
}
