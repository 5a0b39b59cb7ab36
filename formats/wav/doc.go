// SPDX-License-Identifier: EPL-2.0

// Package wav reads and writes PCM 16-bit WAV files through
// github.com/go-audio/wav.
//
// # Decoding
//
//	src, err := wav.Decoder{}.Decode(file)
//	if err != nil {
//	    return err
//	}
//
// The returned audio.Source also implements audio.PCM16Reader, so block
// readers get the stored samples unchanged. Only integer PCM at 16 bits
// is accepted (ErrOnlyPCM16bitSupported); anything go-audio cannot parse
// is ErrNotWavFile.
//
// # Writing
//
// Writer streams blocks into a mono file and fixes up the RIFF sizes on
// Close:
//
//	w, err := wav.NewWriter(file, 16000)
//	if err != nil {
//	    return err
//	}
//	for _, block := range blocks {
//	    if err := w.WriteBlock(block); err != nil {
//	        return err
//	    }
//	}
//	return w.Close()
//
// WriteWAV16 writes a whole signal in one call.
package wav
