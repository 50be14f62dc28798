// SPDX-License-Identifier: EPL-2.0

// Package audio provides the decoding primitives the sample cache is built on.
//
// The building blocks are:
//   - Source, a pull interface over interleaved float32 PCM
//   - Decoder and Registry, which map file extensions to format decoders
//   - Looper, for containers that carry sampler loop points
//   - Resampler, for sample rate conversion with cubic interpolation
//   - MonoMixer, for folding multi-channel material down to one channel
//   - ReadAll, for draining a Source into memory
//
// # Source Interface
//
//	type Source interface {
//	    SampleRate() int
//	    Channels() int
//	    ReadSamples(dst []float32) (int, error)
//	    BufSize() int
//	    Close() error
//	}
//
// Decoders and processors all implement Source so they can be chained:
//
//	dec, _ := registry.Lookup("piano_c4.flac")
//	src, _ := dec.Decode(file)
//	conv := audio.NewResampler(src, 48000)
//	data, err := audio.ReadAll(conv)
//
// # Sample Format
//
// Samples are float32 in [-1.0, 1.0], interleaved by channel. 0.0 is silence.
//
// # Error Handling
//
// ReadSamples returns io.EOF once the stream is exhausted, possibly together
// with the final samples. Any other error is a decoding failure.
package audio
