// SPDX-License-Identifier: EPL-2.0

// Package vorbis decodes Ogg Vorbis samples through github.com/jfreymuth/oggvorbis.
//
// SFZ libraries commonly ship their samples as .ogg to save space; the
// decoder output is already float32 so no conversion is needed.
package vorbis
