// SPDX-License-Identifier: EPL-2.0

// Package flac decodes FLAC samples through github.com/mewkiz/flac.
//
// Frames are parsed one at a time and interleaved on the way out, so memory
// use is bounded by the largest FLAC block.
//
//	src, err := flac.Decoder{}.Decode(file)
//	if err != nil {
//	    return err
//	}
//	data, err := audio.ReadAll(src)
//
// # Output Format
//
//   - Sample format: float32 in range [-1.0, 1.0]
//   - Channels: as stored in the stream
//   - Bit depths: 8, 16, 24 and 32, normalized by the stream's bits per sample
//
// A frame with fewer subframes than the stream has channels fails with
// ErrCorruptFrame.
package flac
