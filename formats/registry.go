// SPDX-License-Identifier: EPL-2.0

// Package formats wires every sample decoder into one registry.
package formats

import (
	"github.com/ik5/sfzsynth/audio"
	"github.com/ik5/sfzsynth/formats/aiff"
	"github.com/ik5/sfzsynth/formats/flac"
	"github.com/ik5/sfzsynth/formats/mp3"
	"github.com/ik5/sfzsynth/formats/vorbis"
	"github.com/ik5/sfzsynth/formats/wav"
)

// NewRegistry returns a registry keyed by file extension with all
// supported sample formats.
func NewRegistry() *audio.Registry {
	reg := audio.NewRegistry()

	reg.Register("wav", wav.Decoder{})
	reg.Register("wave", wav.Decoder{})
	reg.Register("aif", aiff.Decoder{})
	reg.Register("aiff", aiff.Decoder{})
	reg.Register("ogg", vorbis.Decoder{})
	reg.Register("mp3", mp3.Decoder{})
	reg.Register("flac", flac.Decoder{})

	return reg
}
