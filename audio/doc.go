// SPDX-License-Identifier: EPL-2.0

// Package audio moves PCM between decoders and the adaptive filter.
//
// It provides:
//   - Source, the stream every decoder returns
//   - Registry, decoders by format key or file extension
//   - Downmixer and Resampler, which Conform chains to reach 16 kHz mono
//   - BlockReader, which cuts a mono Source into fixed-size int16 blocks
//   - BlockWriter, the sink for filtered blocks
//
// # Sample Format
//
// A Source delivers interleaved float32 samples in [-1.0, 1.0]. Sources that
// decode 16-bit PCM also implement PCM16Reader, and BlockReader reads those
// without conversion. For the rest it converts with utils.Float32ToPCM16,
// which is exact for values that came from 16-bit samples.
//
// # Blocks
//
//	src, err := audio.Conform(decoded, 16000)
//	if err != nil {
//	    return err
//	}
//	blocks, err := audio.NewBlockReader(src)
//	if err != nil {
//	    return err
//	}
//	block := make([]int16, 1024)
//	for {
//	    if err := blocks.ReadBlock(block); err != nil {
//	        break // io.EOF once a full block cannot be read
//	    }
//	    // filter block
//	}
//
// A stream that cannot fill the next block is finished: the partial tail
// is dropped and ReadBlock returns io.EOF.
//
// # Error Handling
//
// io.EOF marks the end of a stream everywhere in this package. Any other
// error comes from the underlying source or from invalid parameters
// (ErrNotMono, ErrInvalidRate, ErrUnknownFormat).
package audio
