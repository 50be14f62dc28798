// SPDX-License-Identifier: EPL-2.0

package sfzsynth

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/ik5/sfzsynth/synth"
	"github.com/ik5/sfzsynth/utils"
)

var ErrInvalidBlockSize = errors.New("block size must be positive")

// Note is one key press in a score. Times are in seconds. A Length of zero
// or less leaves the note held until the end of the render.
type Note struct {
	Start    float64 `yaml:"start"`
	Length   float64 `yaml:"length"`
	Channel  int     `yaml:"channel"`
	Key      int     `yaml:"key"`
	Velocity int     `yaml:"velocity"`
}

type scheduled struct {
	frame int
	on    bool
	note  Note
}

// Render plays notes through s for duration seconds, blockSize frames at a
// time, and returns the left and right channels.
func Render(s *synth.Synth, notes []Note, duration float64, blockSize int) (left, right []float32, err error) {
	if blockSize <= 0 {
		return nil, nil, ErrInvalidBlockSize
	}

	rate := float64(s.SampleRate())
	frames := int(math.Round(max(duration, 0) * rate))

	var events []scheduled
	for _, n := range notes {
		on := int(math.Round(n.Start * rate))
		events = append(events, scheduled{frame: on, on: true, note: n})
		if n.Length > 0 {
			off := int(math.Round((n.Start + n.Length) * rate))
			events = append(events, scheduled{frame: max(off, on), note: n})
		}
	}

	// Note-offs go first so a key can be struck again on the frame it is released.
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].frame != events[j].frame {
			return events[i].frame < events[j].frame
		}
		return !events[i].on && events[j].on
	})

	left = make([]float32, frames)
	right = make([]float32, frames)

	next := 0
	for pos := 0; pos < frames; pos += blockSize {
		n := min(blockSize, frames-pos)

		for ; next < len(events) && events[next].frame < pos+n; next++ {
			ev := events[next]
			offset := max(ev.frame-pos, 0)
			if ev.on {
				s.AddEventNoteOn(offset, ev.note.Channel, ev.note.Key, ev.note.Velocity)
			} else {
				s.AddEventNoteOff(offset, ev.note.Channel, ev.note.Key)
			}
		}

		if err := s.Process([][]float32{left[pos : pos+n], right[pos : pos+n]}, n); err != nil {
			return nil, nil, fmt.Errorf("rendering frame %d: %w", pos, err)
		}
	}

	return left, right, nil
}

// Interleave16 converts a stereo pair to interleaved 16-bit PCM.
// The shorter channel bounds the output.
func Interleave16(left, right []float32) []int16 {
	n := min(len(left), len(right))
	pcm := make([]int16, 2*n)

	for i := range n {
		pcm[2*i] = utils.Float32ToInt16(left[i])
		pcm[2*i+1] = utils.Float32ToInt16(right[i])
	}

	return pcm
}
