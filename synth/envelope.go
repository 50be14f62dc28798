// SPDX-License-Identifier: EPL-2.0

package synth

import (
	"math"

	"github.com/ik5/sfzsynth/sfz"
)

type envStage int

const (
	envDelay envStage = iota
	envAttack
	envHold
	envDecay
	envSustain
	envRelease
	envDone
)

// minReleaseSeconds keeps note-off from clicking when ampeg_release is 0.
const minReleaseSeconds = 0.001

// envelope is a linear DAHDSR amplitude generator running one step per frame.
type envelope struct {
	params  sfz.Envelope
	rate    int
	sustain float64

	stage     envStage
	level     float64
	delta     float64
	remaining int64 // frames left in stage; -1 while open-ended
}

func (e *envelope) frames(seconds float64) int64 {
	if seconds <= 0 {
		return 0
	}
	return int64(math.Round(seconds * float64(e.rate)))
}

func (e *envelope) start(p sfz.Envelope, rate int) {
	e.params = p
	e.rate = rate
	e.sustain = max(0, min(100, p.Sustain)) / 100
	e.enter(envDelay)
}

func (e *envelope) enter(stage envStage) {
	e.stage = stage
	e.delta = 0

	switch stage {
	case envDelay:
		e.level = 0
		e.remaining = e.frames(e.params.Delay)
	case envAttack:
		e.level = 0
		e.remaining = e.frames(e.params.Attack)
		if e.remaining > 0 {
			e.delta = 1 / float64(e.remaining)
		}
	case envHold:
		e.level = 1
		e.remaining = e.frames(e.params.Hold)
	case envDecay:
		e.level = 1
		e.remaining = e.frames(e.params.Decay)
		if e.remaining > 0 {
			e.delta = (e.sustain - 1) / float64(e.remaining)
		}
	case envSustain:
		e.level = e.sustain
		e.remaining = -1
		if e.sustain <= 0 {
			e.enter(envDone)
		}
	case envRelease:
		e.releaseOver(max(e.frames(e.params.Release), e.frames(minReleaseSeconds), 1))
	case envDone:
		e.level = 0
		e.remaining = -1
	}
}

// releaseOver fades from the current level to silence in n frames.
func (e *envelope) releaseOver(n int64) {
	e.stage = envRelease
	e.remaining = n
	e.delta = -e.level / float64(n)
}

func (e *envelope) release() {
	if e.stage < envRelease {
		e.enter(envRelease)
	}
}

// kill fades out within the minimum release time regardless of ampeg_release.
func (e *envelope) kill() {
	if e.stage == envDone {
		return
	}
	n := max(e.frames(minReleaseSeconds), 1)
	if e.stage == envRelease && e.remaining <= n {
		return
	}
	e.releaseOver(n)
}

func (e *envelope) done() bool { return e.stage == envDone }

// next returns the gain for the current frame and advances one frame.
func (e *envelope) next() float64 {
	for e.remaining == 0 {
		e.enter(e.stage + 1)
	}

	v := e.level
	e.level += e.delta
	if e.remaining > 0 {
		e.remaining--
	}

	return max(0, v)
}
