// SPDX-License-Identifier: EPL-2.0

package synth

import (
	"math"

	"github.com/ik5/sfzsynth/audio"
	"github.com/ik5/sfzsynth/sample"
	"github.com/ik5/sfzsynth/sfz"
	"github.com/ik5/sfzsynth/utils"
)

// voice plays one region's sample for one note.
type voice struct {
	active bool
	serial uint64 // start order, for stealing the oldest voice

	region *sfz.Region
	smp    *sample.Sample

	channel  int
	key      int
	velocity int

	pos       float64
	step      float64 // frames of sample data per output frame, before bend
	bendRatio float64
	end       int64 // last playable frame

	mode     sfz.LoopMode
	loop     audio.Loop
	released bool

	gainL float32
	gainR float32
	env   envelope
}

func (v *voice) start(r *sfz.Region, smp *sample.Sample, rate, channel, key, velocity int, bend float64) {
	v.active = true
	v.region = r
	v.smp = smp
	v.channel = channel
	v.key = key
	v.velocity = velocity
	v.released = false

	cents := float64(key-r.PitchKeycenter)*r.PitchKeytrack + float64(r.Tune) + float64(r.Transpose)*100
	v.step = utils.CentsToRatio(cents) * float64(smp.Rate) / float64(rate)
	v.setBend(bend)

	gain := utils.DBToGain(r.Volume) * r.Amplitude / 100 * utils.VelocityGain(velocity, r.AmpVeltrack)
	l, rr := utils.PanGains(r.Pan)
	// Equal-power pan normalized so the centre position is unity gain.
	v.gainL = float32(gain * l * math.Sqrt2)
	v.gainR = float32(gain * rr * math.Sqrt2)

	v.end = smp.Frames - 1
	if r.End >= 0 {
		v.end = min(smp.Scale(r.End), v.end)
	}
	v.pos = float64(smp.Scale(max(r.Offset, 0)))

	v.loop, v.mode = loopFor(r, smp, v.end)

	v.env.start(r.AmpEG, rate)
}

// loopFor picks loop points (region opcodes win over the file's) and resolves
// the effective loop mode. Modes that need a loop fall back to no_loop without one.
func loopFor(r *sfz.Region, smp *sample.Sample, end int64) (audio.Loop, sfz.LoopMode) {
	loop := smp.Loop
	has := smp.HasLoop

	if r.LoopStart >= 0 {
		loop.Start = smp.Scale(r.LoopStart)
		has = true
	}
	if r.LoopEnd >= 0 {
		loop.End = smp.Scale(r.LoopEnd)
		has = true
	}

	has = has && loop.Start >= 0 && loop.End > loop.Start && loop.End <= end

	mode := r.LoopMode
	if mode == sfz.LoopUnset {
		mode = sfz.NoLoop
		if has {
			mode = sfz.LoopContinuous
		}
	}

	if !has && (mode == sfz.LoopContinuous || mode == sfz.LoopSustain) {
		mode = sfz.NoLoop
	}

	return loop, mode
}

func (v *voice) setBend(bend float64) {
	var cents float64
	if bend >= 0 {
		cents = bend * float64(v.region.BendUp)
	} else {
		cents = -bend * float64(v.region.BendDown)
	}
	v.bendRatio = utils.CentsToRatio(cents)
}

func (v *voice) looping() bool {
	switch v.mode {
	case sfz.LoopContinuous:
		return true
	case sfz.LoopSustain:
		return !v.released
	}
	return false
}

// noteOff starts the release stage; one_shot regions ignore it.
func (v *voice) noteOff() {
	if v.mode == sfz.OneShot {
		return
	}
	v.released = true
	v.env.release()
}

// kill fades the voice out quickly (off_by, all notes off).
func (v *voice) kill() {
	v.released = true
	v.env.kill()
}

// render mixes the voice into left and right, which have equal length.
func (v *voice) render(left, right []float32) {
	for i := range left {
		if !v.active {
			return
		}

		var loop *audio.Loop
		if v.looping() {
			loop = &v.loop
		}

		g := float32(v.env.next())
		l, r := v.smp.Frame(v.pos, loop)
		left[i] += l * v.gainL * g
		right[i] += r * v.gainR * g

		v.pos += v.step * v.bendRatio

		if loop != nil {
			length := float64(loop.End - loop.Start + 1)
			for v.pos >= float64(loop.End+1) {
				v.pos -= length
			}
		} else if v.pos > float64(v.end) {
			v.active = false
		}

		if v.env.done() {
			v.active = false
		}
	}
}
