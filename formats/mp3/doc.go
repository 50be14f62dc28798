// SPDX-License-Identifier: EPL-2.0

// Package mp3 decodes MP3 samples through github.com/hajimehoshi/go-mp3.
//
//	src, err := mp3.Decoder{}.Decode(file)
//	buf := make([]float32, 4096)
//	n, err := src.ReadSamples(buf)
//
// # Output Format
//
//   - Sample format: float32 in range [-1.0, 1.0]
//   - Channels: always 2, even for mono files
//   - Sample rate: as stored in the file
//
// The sample cache keeps such material as stereo. Reads of any length are
// accepted: an odd trailing byte from go-mp3 is held for the next call.
//
// # Limitations
//
// MP3 encoders add silent padding at the start, so MP3 samples are a poor
// fit for tightly cut drum hits or for loops.
package mp3
