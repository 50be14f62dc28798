// SPDX-License-Identifier: EPL-2.0

// Package wav decodes WAV samples and writes 16-bit PCM WAV output.
//
// Decoding is delegated to github.com/go-audio/wav, so files with extra
// chunks (LIST, cue, smpl, bext) and any integer bit depth from 8 to 32
// are accepted. The decoded source also implements audio.Looper: when the
// file carries a smpl chunk, its first loop is reported once the PCM data
// has been read to the end.
//
//	src, err := wav.Decoder{}.Decode(file)
//	data, err := audio.ReadAll(src)
//	if l, ok := src.(audio.Looper).Loop(); ok {
//	    // loop from l.Start to l.End (inclusive), in frames
//	}
//
// WriteWAV16 writes a canonical 44-byte header followed by interleaved
// samples and never seeks, so it can stream to stdout.
package wav
