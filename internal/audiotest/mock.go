// SPDX-License-Identifier: EPL-2.0

// Package audiotest holds fixtures shared by the package tests.
package audiotest

import (
	"io"
	"math"
)

// Source generates frames from a function. It satisfies audio.Source
// without importing it, so the audio package tests can use it too.
type Source struct {
	rate     int
	channels int
	frames   int
	read     int
	fn       func(frame, channel int) float32

	// Chunk caps the frames returned per call; 0 means no cap.
	Chunk int
}

func NewSource(rate, channels, frames int, fn func(frame, channel int) float32) *Source {
	return &Source{rate: rate, channels: channels, frames: frames, fn: fn}
}

// NewConstant returns frames of a fixed value on every channel.
func NewConstant(rate, channels, frames int, v float32) *Source {
	return NewSource(rate, channels, frames, func(int, int) float32 { return v })
}

// NewSine returns a sine of freq Hz on every channel.
func NewSine(rate, channels, frames int, freq float64) *Source {
	return NewSource(rate, channels, frames, func(i, _ int) float32 {
		return float32(math.Sin(2 * math.Pi * freq * float64(i) / float64(rate)))
	})
}

// NewRamp returns frame i as i/frames on channel 0 and its negation on channel 1.
func NewRamp(rate, channels, frames int) *Source {
	return NewSource(rate, channels, frames, func(i, ch int) float32 {
		v := float32(i) / float32(frames)
		if ch%2 == 1 {
			return -v
		}
		return v
	})
}

func (s *Source) SampleRate() int { return s.rate }
func (s *Source) Channels() int   { return s.channels }
func (s *Source) BufSize() int    { return 4096 }
func (s *Source) Close() error    { return nil }

// Remaining reports the frames not read yet.
func (s *Source) Remaining() int { return s.frames - s.read }

func (s *Source) ReadSamples(dst []float32) (int, error) {
	if s.read >= s.frames {
		return 0, io.EOF
	}

	n := min(len(dst)/s.channels, s.frames-s.read)
	if s.Chunk > 0 {
		n = min(n, s.Chunk)
	}

	for f := range n {
		for ch := range s.channels {
			dst[f*s.channels+ch] = s.fn(s.read+f, ch)
		}
	}
	s.read += n

	if s.read >= s.frames {
		return n * s.channels, io.EOF
	}
	return n * s.channels, nil
}
