// SPDX-License-Identifier: EPL-2.0

// Package synth plays SFZ instruments.
//
// A Synth is driven in blocks. Events are queued with a frame offset into
// the next block, then Process renders the block and applies each event at
// its offset:
//
//	s := synth.New()
//	s.SetSampleRate(48000)
//	if err := s.Load("piano.sfz"); err != nil {
//	    return err
//	}
//
//	left := make([]float32, 1024)
//	right := make([]float32, 1024)
//	s.AddEventNoteOn(0, 0, 60, 100)
//	err := s.Process([][]float32{left, right}, 1024)
//
// Channels are 0-based in the event API and 1-based in SFZ lochan/hichan.
// Offsets past the end of the block are applied on its last frame.
//
// # Loading
//
// Load parses the file and decodes every sample it references in parallel,
// converting each to the current sample rate. Regions whose sample cannot
// be decoded are dropped with a warning. Load fails with
// ErrNoPlayableRegions when none are left, and a failed Load leaves the
// previous instrument in place.
//
// # Voices
//
// Each matching region starts one voice. When every voice is busy the
// oldest one is reused. A voice plays its sample with cubic interpolation,
// scales it by a linear DAHDSR envelope and mixes it into both outputs.
//
// Region selection honours key, velocity and channel ranges, the trigger
// mode (attack, release, first, legato), round robin (seq_length and
// seq_position, counted per region) and lorand/hirand against one random
// draw per note. The random source is seeded (WithSeed), so the same file
// and events always render the same output.
//
// # Controllers
//
//   - CC64 holds note-offs while the pedal is down
//   - CC120 silences the channel at once
//   - CC121 resets pitch bend and releases the pedal
//   - CC123 releases every note on the channel
//
// Pitch bend takes 0..16383 with 8192 as centre and is scaled by the
// region's bend_up and bend_down. A note-on with velocity 0 is a note-off.
//
// # Logging
//
// Diagnostics go to a standard library *log.Logger, stderr by default.
// Use WithLogger(nil) to silence them and WithLogLevel to filter.
package synth
