// SPDX-License-Identifier: EPL-2.0

// Package sfz parses SFZ instrument definitions.
//
// An SFZ file is plain text made of headers (<control>, <global>, <master>,
// <group>, <region>) each followed by name=value opcodes:
//
//	<control> default_path=samples/
//	<group> ampeg_release=0.3
//	<region> sample=piano c4.wav key=c4
//	<region> sample=piano e4.wav lokey=63 hikey=66 pitch_keycenter=64
//
// # Loading
//
// Load reads a file from disk and Parse works on text already in memory:
//
//	inst, err := sfz.Load("piano.sfz")
//	if err != nil {
//	    var pe *sfz.ParseError
//	    if errors.As(err, &pe) {
//	        // pe.File and pe.Line locate the problem
//	    }
//	    return err
//	}
//	for _, r := range inst.Regions {
//	    fmt.Println(r.Sample, r.LoKey, r.HiKey)
//	}
//
// # Inheritance
//
// Opcodes on outer headers are inherited by the regions below them
// (global, then master, then group, then region), so each Region returned
// is fully resolved. A new <group> clears the previous group's opcodes.
// <curve>, <effect>, <midi> and <sample> headers are skipped.
//
// # Values and Sample Paths
//
// A value runs until the next opcode name or header, which allows spaces in
// sample paths. A sample value also keeps a following name= that is not a
// known opcode, as long as the text so far has no audio file extension,
// so "sample=take v=2.wav" names one file. Backslashes become slashes.
// Sample paths are relative to the top-level file plus default_path.
//
// Keys accept MIDI numbers or note names: c4 is 60, c#4 and db4 are 61,
// c-1 is 0. note_offset and octave_offset in <control> shift every key.
//
// # Preprocessor
//
// The preprocessor understands // and /* */ comments (whichever opens
// first on a line wins), #define $NAME value and #include "file". An
// include is looked up next to the including file first, then next to the
// top-level file. Includes nest up to 32 deep, which also stops cycles.
//
// # Diagnostics
//
// Opcodes the synthesizer does not implement are reported once each in
// Instrument.Warnings rather than failing the load. Malformed headers,
// directives and values are returned as *ParseError wrapping ErrBadHeader,
// ErrBadDirective or ErrBadValue.
package sfz
