// SPDX-License-Identifier: EPL-2.0

package audio

// Conform returns a mono source at rate. Sources that already match are
// returned as is, so PCM16Reader implementations keep their exact path.
func Conform(src Source, rate int) (Source, error) {
	if rate <= 0 {
		return nil, ErrInvalidRate
	}

	out := src
	if out.Channels() != 1 {
		out = NewDownmixer(out)
	}
	if out.SampleRate() != rate {
		r, err := NewResampler(out, rate)
		if err != nil {
			return nil, err
		}
		out = r
	}

	return out, nil
}
