// SPDX-License-Identifier: EPL-2.0

package sfz

// LoopMode selects how a voice treats the sample loop.
type LoopMode int

const (
	// LoopUnset defers to the sample file: loop_continuous when it carries
	// loop points, no_loop otherwise.
	LoopUnset LoopMode = iota
	NoLoop
	OneShot
	LoopContinuous
	LoopSustain
)

func (m LoopMode) String() string {
	switch m {
	case NoLoop:
		return "no_loop"
	case OneShot:
		return "one_shot"
	case LoopContinuous:
		return "loop_continuous"
	case LoopSustain:
		return "loop_sustain"
	}
	return "unset"
}

// Trigger selects which key event starts a region.
type Trigger int

const (
	TriggerAttack Trigger = iota
	TriggerRelease
	TriggerFirst
	TriggerLegato
)

func (t Trigger) String() string {
	switch t {
	case TriggerRelease:
		return "release"
	case TriggerFirst:
		return "first"
	case TriggerLegato:
		return "legato"
	}
	return "attack"
}

// Envelope holds DAHDSR times in seconds and sustain in percent.
type Envelope struct {
	Delay   float64
	Attack  float64
	Hold    float64
	Decay   float64
	Sustain float64
	Release float64
}

// Region maps a key/velocity range to one sample with playback parameters.
type Region struct {
	// Sample is the resolved path to the audio file.
	Sample string

	LoKey, HiKey   int
	PitchKeycenter int
	LoVel, HiVel   int
	// MIDI channels, 1-based as written in SFZ.
	LoChan, HiChan int

	Volume        float64 // dB
	Amplitude     float64 // percent
	Pan           float64 // -100..100
	Tune          int     // cents
	Transpose     int     // semitones
	PitchKeytrack float64 // cents per key
	AmpVeltrack   float64 // percent

	Offset int64 // frames
	End    int64 // last frame played, -1 when unset

	LoopMode  LoopMode
	LoopStart int64 // -1 when unset
	LoopEnd   int64 // -1 when unset, inclusive

	Trigger     Trigger
	SeqLength   int
	SeqPosition int
	LoRand      float64
	HiRand      float64

	Group int
	OffBy int

	AmpEG Envelope

	BendUp   int // cents
	BendDown int // cents, negative

	File string
	Line int
}

func newRegion() *Region {
	return &Region{
		LoKey:          0,
		HiKey:          127,
		PitchKeycenter: 60,
		LoVel:          1,
		HiVel:          127,
		LoChan:         1,
		HiChan:         16,
		Amplitude:      100,
		PitchKeytrack:  100,
		AmpVeltrack:    100,
		End:            -1,
		LoopStart:      -1,
		LoopEnd:        -1,
		SeqLength:      1,
		SeqPosition:    1,
		HiRand:         1,
		AmpEG:          Envelope{Sustain: 100},
		BendUp:         200,
		BendDown:       -200,
	}
}

// Matches reports whether a note with the given 0-based channel, key and
// velocity falls inside the region's ranges.
func (r *Region) Matches(channel, key, velocity int) bool {
	ch := channel + 1
	return ch >= r.LoChan && ch <= r.HiChan &&
		key >= r.LoKey && key <= r.HiKey &&
		velocity >= r.LoVel && velocity <= r.HiVel
}
