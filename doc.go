// SPDX-License-Identifier: EPL-2.0

// Package audnlms removes a known reference signal from a 16 kHz mono
// capture with a Normalized Least-Mean-Squares adaptive filter.
//
// The filter learns the path from the input to the reference and outputs
// two streams: the estimate of the reference, and the error, which is the
// part of the reference the input cannot explain. For echo cancellation the
// input is the far-end signal, the reference is the microphone, and the
// error is the microphone without the echo.
//
// # Quick Start
//
//	in, _ := os.Open("far.wav")
//	ref, _ := os.Open("mic.wav")
//	inSrc, _ := wav.Decoder{}.Decode(in)
//	refSrc, _ := wav.Decoder{}.Decode(ref)
//
//	res, err := audnlms.Cancel(ctx, inSrc, refSrc, nlms.DefaultConfig())
//	if err != nil {
//	    return err
//	}
//	// res.Error is the reference with the echo removed, at 16 kHz.
//
// Cancel conforms both sources to 16 kHz mono and keeps the output in
// memory. For files of any length use stream.OpenFiles and stream.Run, which
// is what the audnlms command does.
//
// # Packages
//
//   - nlms: the filter, its block history and warm-up state
//   - stream: the block loop, file endpoints and logging
//   - audio: sources, block reading, downmixing and resampling
//   - formats/pcm, formats/wav, formats/aiff, formats/mp3, formats/vorbis:
//     decoders, and writers for raw PCM and WAV
//
// DefaultRegistry maps file extensions to all decoders.
package audnlms
