// SPDX-License-Identifier: EPL-2.0

package pcm

import "errors"

var (
	// ErrShortHeader is returned when the input ends inside the bytes that
	// should be skipped.
	ErrShortHeader = errors.New("input shorter than header skip")

	// ErrInvalidLayout is returned for a non-positive rate or channel count
	// or a negative skip.
	ErrInvalidLayout = errors.New("invalid raw PCM layout")
)
