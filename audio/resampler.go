// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"io"
	"math"

	"github.com/ik5/sfzsynth/utils"
)

// Resampler converts src to another sample rate with Catmull-Rom interpolation.
// Works on interleaved samples; preserves channel count.
// When downsampling, a one-pole low-pass runs on the input first.
type Resampler struct {
	src      Source
	dstRate  int
	step     float64 // source frames consumed per output frame
	channels int

	// taps[0..3] = t-1, t0, t+1, t+2; output lies between taps[1] and taps[2].
	taps   [4][]float32
	valid  [4]bool
	frac   float64
	primed bool

	in      []float32
	inPos   int
	inLen   int
	srcDone bool

	lowpass bool
	alpha   float32
	lpState []float32
	lpInit  bool
}

func NewResampler(src Source, dstRate int) *Resampler {
	channels := src.Channels()
	step := float64(src.SampleRate()) / float64(dstRate)

	block := max(src.BufSize(), 256)
	block -= block % max(channels, 1)

	r := &Resampler{
		src:      src,
		dstRate:  dstRate,
		step:     step,
		channels: channels,
		in:       make([]float32, block),
		lpState:  make([]float32, channels),
	}

	if step > 1.0 {
		// Cutoff just under the destination Nyquist.
		cutoff := 0.45 * float64(dstRate)
		r.lowpass = true
		r.alpha = float32(1 - math.Exp(-2*math.Pi*cutoff/float64(src.SampleRate())))
	}

	for i := range r.taps {
		r.taps[i] = make([]float32, channels)
	}

	return r
}

func (r *Resampler) SampleRate() int { return r.dstRate }
func (r *Resampler) Channels() int   { return r.channels }
func (r *Resampler) BufSize() int    { return r.src.BufSize() }

func (r *Resampler) Close() error {
	if err := r.src.Close(); err != nil {
		return fmt.Errorf("%w", err)
	}
	return nil
}

// readFrame copies the next source frame into dst, filtering it when needed.
func (r *Resampler) readFrame(dst []float32) (bool, error) {
	for r.inPos >= r.inLen {
		if r.srcDone {
			return false, nil
		}

		n, err := r.src.ReadSamples(r.in)
		r.inPos = 0
		r.inLen = n - n%r.channels

		switch {
		case err == io.EOF:
			r.srcDone = true
		case err != nil:
			return false, fmt.Errorf("resampler source: %w", err)
		case n == 0:
			// Stalled decoder; treat as end of stream.
			r.srcDone = true
		}
	}

	copy(dst, r.in[r.inPos:r.inPos+r.channels])
	r.inPos += r.channels

	if r.lowpass {
		if !r.lpInit {
			copy(r.lpState, dst)
			r.lpInit = true
		}
		for c := range r.channels {
			r.lpState[c] += r.alpha * (dst[c] - r.lpState[c])
			dst[c] = r.lpState[c]
		}
	}

	return true, nil
}

func (r *Resampler) prime() error {
	r.primed = true

	ok, err := r.readFrame(r.taps[1])
	if err != nil || !ok {
		return err
	}
	r.valid[1] = true

	// Duplicate the first frame as its own predecessor.
	copy(r.taps[0], r.taps[1])
	r.valid[0] = true

	for i := 2; i < 4; i++ {
		ok, err = r.readFrame(r.taps[i])
		if err != nil {
			return err
		}
		r.valid[i] = ok
		if !ok {
			break
		}
	}

	return nil
}

// advance moves the tap window one source frame forward.
func (r *Resampler) advance() error {
	first := r.taps[0]
	r.taps[0], r.taps[1], r.taps[2] = r.taps[1], r.taps[2], r.taps[3]
	r.taps[3] = first
	r.valid[0], r.valid[1], r.valid[2] = r.valid[1], r.valid[2], r.valid[3]

	if !r.valid[2] {
		r.valid[3] = false
		return nil
	}

	ok, err := r.readFrame(r.taps[3])
	r.valid[3] = ok
	return err
}

// ReadSamples produces samples at the destination rate.
// dst length must be a multiple of the channel count.
func (r *Resampler) ReadSamples(dst []float32) (int, error) {
	if r.channels <= 0 {
		return 0, ErrNoChannels
	}

	if len(dst)%r.channels != 0 {
		return 0, ErrInvalidDstSize
	}

	if !r.primed {
		if err := r.prime(); err != nil {
			return 0, err
		}
	}

	frames := len(dst) / r.channels
	written := 0

	for written < frames {
		for r.frac >= 1.0 {
			r.frac -= 1.0
			if err := r.advance(); err != nil {
				return written * r.channels, err
			}
		}

		if !r.valid[1] {
			break
		}

		x := float32(r.frac)
		base := written * r.channels
		for c := range r.channels {
			y1 := r.taps[1][c]

			y0 := y1
			if r.valid[0] {
				y0 = r.taps[0][c]
			}

			y2 := y1
			if r.valid[2] {
				y2 = r.taps[2][c]
			}

			y3 := y2
			if r.valid[3] {
				y3 = r.taps[3][c]
			}

			dst[base+c] = utils.CubicInterpolate(y0, y1, y2, y3, x)
		}

		written++
		r.frac += r.step
	}

	if !r.valid[1] {
		return written * r.channels, io.EOF
	}

	return written * r.channels, nil
}
