// SPDX-License-Identifier: EPL-2.0

// Package vorbis decodes Ogg Vorbis files through github.com/jfreymuth/oggvorbis.
//
// Vorbis decodes to float samples, so the Source has no PCM16 fast path;
// audio.BlockReader quantizes with utils.Float32ToPCM16.
//
//	src, err := vorbis.Decoder{}.Decode(file)
//	if err != nil {
//	    return err
//	}
//	mono, err := audio.Conform(src, 16000)
//
// ReadSamples only hands out whole frames: a dst shorter than one frame
// fails with audio.ErrInvalidDstSize.
package vorbis
