// SPDX-License-Identifier: EPL-2.0

package synth

import (
	"log"

	"github.com/ik5/sfzsynth/audio"
	"github.com/ik5/sfzsynth/sample"
)

// Option configures a Synth at construction.
type Option func(*Synth)

// WithLogger sends log output to l. A nil logger silences the synth.
func WithLogger(l *log.Logger) Option {
	return func(s *Synth) { s.logger = l }
}

// WithLogLevel drops messages below level.
func WithLogLevel(level LogLevel) Option {
	return func(s *Synth) { s.logLevel = level }
}

// WithMaxVoices sets the polyphony limit.
func WithMaxVoices(n int) Option {
	return func(s *Synth) {
		if n > 0 {
			s.maxVoices = n
		}
	}
}

// WithSampleRate sets the initial output rate.
func WithSampleRate(hz int) Option {
	return func(s *Synth) {
		if hz > 0 {
			s.rate = hz
		}
	}
}

// WithSampleCache shares a cache between synths.
func WithSampleCache(c *sample.Cache) Option {
	return func(s *Synth) { s.cache = c }
}

// WithRegistry replaces the sample decoders. Ignored when WithSampleCache is also given.
func WithRegistry(r *audio.Registry) Option {
	return func(s *Synth) { s.registry = r }
}

// WithSeed seeds the lorand/hirand random source.
func WithSeed(seed uint64) Option {
	return func(s *Synth) { s.seed = seed }
}
