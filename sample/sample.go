// SPDX-License-Identifier: EPL-2.0

package sample

import (
	"math"

	"github.com/ik5/sfzsynth/audio"
	"github.com/ik5/sfzsynth/utils"
)

// Sample is a decoded audio file held in memory.
type Sample struct {
	Path     string
	Channels int   // 1 or 2
	Rate     int   // rate of Data
	OrigRate int   // rate of the file on disk
	Frames   int64 // len(Data) / Channels
	Data     []float32

	// Loop from the file's sampler metadata, in frames of Data.
	Loop    audio.Loop
	HasLoop bool
}

// Scale converts a frame position written against the file on disk
// (SFZ offset, loop_start, ...) into a position in Data.
func (s *Sample) Scale(frame int64) int64 {
	if s.OrigRate == s.Rate || s.OrigRate == 0 {
		return frame
	}
	return int64(math.Round(float64(frame) * float64(s.Rate) / float64(s.OrigRate)))
}

func (s *Sample) at(idx int64, ch int) float32 {
	if idx < 0 || idx >= s.Frames {
		return 0
	}
	return s.Data[idx*int64(s.Channels)+int64(ch)]
}

// Frame returns the stereo frame at fractional position pos using cubic
// interpolation. Frames outside the data are silent. With a non-nil loop,
// taps past loop.End continue at loop.Start so the loop seam is smooth.
func (s *Sample) Frame(pos float64, loop *audio.Loop) (left, right float32) {
	base := math.Floor(pos)
	x := float32(pos - base)
	i := int64(base)

	var idx [4]int64
	for k := range idx {
		j := i - 1 + int64(k)
		if loop != nil && j > loop.End {
			j = loop.Start + (j-loop.End-1)%(loop.End-loop.Start+1)
		}
		idx[k] = j
	}

	left = utils.CubicInterpolate(s.at(idx[0], 0), s.at(idx[1], 0), s.at(idx[2], 0), s.at(idx[3], 0), x)
	if s.Channels == 1 {
		return left, left
	}

	right = utils.CubicInterpolate(s.at(idx[0], 1), s.at(idx[1], 1), s.at(idx[2], 1), s.at(idx[3], 1), x)
	return left, right
}
