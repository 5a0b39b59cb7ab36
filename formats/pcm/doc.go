// SPDX-License-Identifier: EPL-2.0

// Package pcm reads and writes headerless little-endian 16-bit PCM.
//
// Raw captures often start with a container header the filter should not
// see. Decoder.SkipBytes drops a fixed number of bytes first; 44 steps over
// a canonical WAV header without validating it:
//
//	src, err := pcm.Decoder{SkipBytes: 44}.Decode(file)
//
// An input that ends before the skip completes fails with ErrShortHeader.
// A trailing odd byte, or partial frame, is ignored.
package pcm
