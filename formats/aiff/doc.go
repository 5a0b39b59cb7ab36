// SPDX-License-Identifier: EPL-2.0

// Package aiff decodes PCM 16-bit AIFF files through github.com/go-audio/aiff.
//
//	src, err := aiff.Decoder{}.Decode(file)
//	if err != nil {
//	    return err
//	}
//	mono, err := audio.Conform(src, 16000)
//
// The Source also implements audio.PCM16Reader. Files at other bit depths
// fail with ErrOnlyPCM16bitSupported. go-audio needs an io.ReadSeeker;
// other readers are buffered in memory first.
package aiff
