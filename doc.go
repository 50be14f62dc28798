// SPDX-License-Identifier: EPL-2.0

// Package sfzsynth renders SFZ instruments to audio.
//
// The work is split across subpackages:
//   - sfz parses instrument definitions
//   - sample decodes and caches the audio files they reference
//   - synth plays them in response to note events
//   - formats and audio provide the decoders and sample-rate conversion
//
// # Supported Sample Formats
//
//   - WAV (PCM 8/16/24/32-bit, smpl loops) via formats/wav
//   - AIFF via formats/aiff
//   - FLAC via formats/flac
//   - MP3 via formats/mp3
//   - Ogg Vorbis via formats/vorbis
//
// # Quick Start
//
// Render schedules a list of notes and collects the output:
//
//	s := synth.New()
//	s.SetSampleRate(48000)
//	if err := s.Load("piano.sfz"); err != nil {
//	    log.Fatal(err)
//	}
//
//	notes := []sfzsynth.Note{{Start: 0, Length: 1, Key: 60, Velocity: 100}}
//	left, right, err := sfzsynth.Render(s, notes, 2, 1024)
//
//	pcm := sfzsynth.Interleave16(left, right)
//	err = wav.WriteWAV16(out, 48000, 2, pcm)
//
// For block-by-block control use synth.Synth directly.
//
// # Commands
//
// cmd/sfzexample prints the first block of a note as text. cmd/sfzrender
// writes a note or a YAML score to a 16 or 24-bit WAV file.
package sfzsynth
