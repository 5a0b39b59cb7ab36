// SPDX-License-Identifier: EPL-2.0

// Package mp3 decodes MP3 files through github.com/hajimehoshi/go-mp3.
//
// go-mp3 always produces interleaved 16-bit stereo, so the Source reports
// two channels even for mono files. Use audio.Conform to downmix and
// resample before filtering:
//
//	src, err := mp3.Decoder{}.Decode(file)
//	if err != nil {
//	    return err
//	}
//	mono, err := audio.Conform(src, 16000)
package mp3
