// SPDX-License-Identifier: EPL-2.0

package synth

import (
	"fmt"
	"log"
	"runtime"
	"sync"

	"github.com/ik5/sfzsynth/audio"
	"github.com/ik5/sfzsynth/formats"
	"github.com/ik5/sfzsynth/sample"
	"github.com/ik5/sfzsynth/sfz"
	"golang.org/x/exp/rand"
)

const (
	DefaultSampleRate = 44100
	DefaultMaxVoices  = 64
)

// playable is a region whose sample is in memory.
type playable struct {
	region *sfz.Region
	smp    *sample.Sample
	seq    int // round-robin counter
}

// Synth renders SFZ instruments. It is not safe for concurrent use.
type Synth struct {
	rate      int
	gain      float32
	maxVoices int
	seed      uint64

	logger   *log.Logger
	logLevel LogLevel

	registry *audio.Registry
	cache    *sample.Cache
	inst     *sfz.Instrument
	regions  []*playable

	voices []voice
	serial uint64
	events []event
	rng    *rand.Rand

	sustain [numChannels]bool
	bend    [numChannels]float64
	held    [numChannels][numKeys]bool // key physically down
	pending [numChannels][numKeys]bool // released while the pedal was down
	noteVel [numChannels][numKeys]int
}

// New returns a synth with default configuration and no instrument.
func New(opts ...Option) *Synth {
	s := &Synth{
		rate:      DefaultSampleRate,
		gain:      1,
		maxVoices: DefaultMaxVoices,
		seed:      1,
		logger:    defaultLogger(),
		logLevel:  LogWarning,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.cache == nil {
		if s.registry == nil {
			s.registry = formats.NewRegistry()
		}
		s.cache = sample.NewCache(s.registry)
	}

	s.voices = make([]voice, s.maxVoices)
	s.rng = rand.New(rand.NewSource(s.seed))

	return s
}

// SetSampleRate sets the output rate. Call it before Load: samples are
// converted to the rate that is current when they are loaded.
func (s *Synth) SetSampleRate(hz int) {
	if hz <= 0 {
		s.logf(LogError, "set sample rate %d: %v", hz, ErrInvalidSampleRate)
		return
	}
	s.rate = hz
}

func (s *Synth) SampleRate() int { return s.rate }

// SetGain scales the final mix linearly.
func (s *Synth) SetGain(g float32) { s.gain = g }

// SetMaxVoices changes polyphony. Playing voices are cut.
func (s *Synth) SetMaxVoices(n int) {
	if n <= 0 {
		return
	}
	s.maxVoices = n
	s.voices = make([]voice, n)
}

func (s *Synth) SetLogger(l *log.Logger)    { s.logger = l }
func (s *Synth) SetLogLevel(level LogLevel) { s.logLevel = level }

// Instrument returns the loaded instrument, or nil.
func (s *Synth) Instrument() *sfz.Instrument { return s.inst }

// Regions returns the regions that are ready to play.
func (s *Synth) Regions() []*sfz.Region {
	out := make([]*sfz.Region, len(s.regions))
	for i, p := range s.regions {
		out[i] = p.region
	}
	return out
}

// ActiveVoices counts voices that are currently producing sound.
func (s *Synth) ActiveVoices() int {
	n := 0
	for i := range s.voices {
		if s.voices[i].active {
			n++
		}
	}
	return n
}

// Load parses the SFZ file at path and decodes its samples. Regions whose
// sample cannot be loaded are skipped with a warning; the load fails when
// none remain. On failure the previous instrument stays in place.
func (s *Synth) Load(path string) error {
	inst, err := sfz.Load(path)
	if err != nil {
		s.logf(LogError, "%s: %v", path, err)
		return fmt.Errorf("loading %s: %w", path, err)
	}

	for _, w := range inst.Warnings {
		s.logf(LogWarning, "%s: %s", path, w)
	}

	samples := s.loadSamples(inst.Regions)

	var regions []*playable
	for _, r := range inst.Regions {
		smp := samples[r.Sample]
		if smp == nil {
			continue
		}
		regions = append(regions, &playable{region: r, smp: smp})
	}

	if len(regions) == 0 {
		s.logf(LogError, "%s: %v", path, ErrNoPlayableRegions)
		return fmt.Errorf("loading %s: %w", path, ErrNoPlayableRegions)
	}

	s.logf(LogInfo, "%s: %d regions, %d samples", path, len(regions), len(samples))

	s.AllSoundOff()
	s.inst = inst
	s.regions = regions
	s.rng = rand.New(rand.NewSource(s.seed))

	return nil
}

// loadSamples decodes every distinct sample concurrently.
// Failed samples are logged and left out of the result.
func (s *Synth) loadSamples(regions []*sfz.Region) map[string]*sample.Sample {
	var paths []string
	seen := make(map[string]bool)
	for _, r := range regions {
		if !seen[r.Sample] {
			seen[r.Sample] = true
			paths = append(paths, r.Sample)
		}
	}

	results := make([]*sample.Sample, len(paths))
	errs := make([]error, len(paths))

	var wg sync.WaitGroup
	sem := make(chan struct{}, runtime.NumCPU())
	for i, p := range paths {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			results[i], errs[i] = s.cache.Load(p, s.rate)
		}()
	}
	wg.Wait()

	out := make(map[string]*sample.Sample, len(paths))
	for i, p := range paths {
		if errs[i] != nil {
			s.logf(LogWarning, "sample %s: %v", p, errs[i])
			continue
		}
		out[p] = results[i]
	}
	return out
}

// AllSoundOff silences every voice immediately and clears pedal and key state.
func (s *Synth) AllSoundOff() {
	for i := range s.voices {
		s.voices[i].active = false
	}
	s.sustain = [numChannels]bool{}
	s.held = [numChannels][numKeys]bool{}
	s.pending = [numChannels][numKeys]bool{}
}

// Process renders nFrames into outputs[0] (left) and outputs[1] (right),
// overwriting their contents. Events queued since the last call are
// applied at their frame offsets.
func (s *Synth) Process(outputs [][]float32, nFrames int) error {
	if nFrames < 0 || len(outputs) < 2 || len(outputs[0]) < nFrames || len(outputs[1]) < nFrames {
		return ErrInvalidOutputs
	}

	left, right := outputs[0][:nFrames], outputs[1][:nFrames]
	clear(left)
	clear(right)

	sortEvents(s.events)

	pos := 0
	for _, ev := range s.events {
		t := max(0, min(ev.time, nFrames-1))
		if t > pos {
			s.render(left[pos:t], right[pos:t])
			pos = t
		}
		s.apply(ev)
	}
	s.events = s.events[:0]

	if pos < nFrames {
		s.render(left[pos:], right[pos:])
	}

	if s.gain != 1 {
		for i := range left {
			left[i] *= s.gain
			right[i] *= s.gain
		}
	}

	return nil
}

func (s *Synth) render(left, right []float32) {
	for i := range s.voices {
		if s.voices[i].active {
			s.voices[i].render(left, right)
		}
	}
}

func (s *Synth) apply(ev event) {
	switch ev.kind {
	case eventNoteOn:
		s.noteOn(ev.channel, ev.arg1, ev.arg2)
	case eventNoteOff:
		s.noteOff(ev.channel, ev.arg1)
	case eventCC:
		s.controlChange(ev.channel, ev.arg1, ev.arg2)
	case eventPitchBend:
		s.pitchBend(ev.channel, ev.arg2)
	}
}

func (s *Synth) othersHeld(channel, key int) bool {
	for k, down := range s.held[channel] {
		if down && k != key {
			return true
		}
	}
	return false
}

func (s *Synth) noteOn(channel, key, velocity int) {
	legato := s.othersHeld(channel, key)

	s.held[channel][key] = true
	s.pending[channel][key] = false
	s.noteVel[channel][key] = velocity

	var trigger []sfz.Trigger
	if legato {
		trigger = []sfz.Trigger{sfz.TriggerAttack, sfz.TriggerLegato}
	} else {
		trigger = []sfz.Trigger{sfz.TriggerAttack, sfz.TriggerFirst}
	}

	s.trigger(channel, key, velocity, trigger)
}

func (s *Synth) noteOff(channel, key int) {
	if !s.held[channel][key] {
		return
	}
	s.held[channel][key] = false

	if s.sustain[channel] {
		s.pending[channel][key] = true
		return
	}

	s.release(channel, key)
}

// release ends the voices of a key and fires its release-triggered regions.
func (s *Synth) release(channel, key int) {
	for i := range s.voices {
		v := &s.voices[i]
		if v.active && !v.released && v.channel == channel && v.key == key && v.region.Trigger != sfz.TriggerRelease {
			v.noteOff()
		}
	}

	s.trigger(channel, key, s.noteVel[channel][key], []sfz.Trigger{sfz.TriggerRelease})
}

// trigger starts a voice for every matching region whose trigger is in kinds.
func (s *Synth) trigger(channel, key, velocity int, kinds []sfz.Trigger) {
	if len(s.regions) == 0 {
		return
	}

	// One random draw per key event, shared by all regions.
	rnd := s.rng.Float64()

	var starts []*playable
	for _, p := range s.regions {
		r := p.region
		if !triggerIn(r.Trigger, kinds) || !r.Matches(channel, key, velocity) {
			continue
		}

		seq := p.seq
		p.seq++
		if r.SeqLength > 1 && seq%r.SeqLength != r.SeqPosition-1 {
			continue
		}

		if rnd < r.LoRand || rnd >= r.HiRand {
			continue
		}

		starts = append(starts, p)
	}

	for _, p := range starts {
		if p.region.Group != 0 {
			s.stopOffBy(p.region.Group)
		}
	}

	for _, p := range starts {
		v := s.allocVoice()
		v.start(p.region, p.smp, s.rate, channel, key, velocity, s.bend[channel])
		s.serial++
		v.serial = s.serial
		s.logf(LogDebug, "voice start: key=%d vel=%d sample=%s", key, velocity, p.region.Sample)
	}
}

func triggerIn(t sfz.Trigger, kinds []sfz.Trigger) bool {
	for _, k := range kinds {
		if t == k {
			return true
		}
	}
	return false
}

func (s *Synth) stopOffBy(group int) {
	for i := range s.voices {
		v := &s.voices[i]
		if v.active && v.region.OffBy == group {
			v.kill()
		}
	}
}

// allocVoice returns a free voice, or the oldest one when all are busy.
func (s *Synth) allocVoice() *voice {
	oldest := 0
	for i := range s.voices {
		if !s.voices[i].active {
			return &s.voices[i]
		}
		if s.voices[i].serial < s.voices[oldest].serial {
			oldest = i
		}
	}

	s.logf(LogDebug, "voice limit %d reached, stealing oldest", s.maxVoices)
	return &s.voices[oldest]
}

func (s *Synth) controlChange(channel, controller, value int) {
	switch controller {
	case ccSustain:
		down := value >= 64
		if s.sustain[channel] && !down {
			s.sustain[channel] = false
			for key := range s.pending[channel] {
				if s.pending[channel][key] {
					s.pending[channel][key] = false
					s.release(channel, key)
				}
			}
		}
		s.sustain[channel] = down

	case ccAllSoundOff:
		for i := range s.voices {
			if s.voices[i].channel == channel {
				s.voices[i].active = false
			}
		}

	case ccResetControllers:
		s.pitchBend(channel, bendCenter)
		s.controlChange(channel, ccSustain, 0)

	case ccAllNotesOff:
		s.held[channel] = [numKeys]bool{}
		s.pending[channel] = [numKeys]bool{}
		for i := range s.voices {
			v := &s.voices[i]
			if v.active && v.channel == channel {
				v.noteOff()
			}
		}

	default:
		s.logf(LogDebug, "cc %d on channel %d ignored", controller, channel)
	}
}

func (s *Synth) pitchBend(channel, value int) {
	b := float64(value - bendCenter)
	if b > 0 {
		b /= bendCenter - 1
	} else {
		b /= bendCenter
	}
	s.bend[channel] = b

	for i := range s.voices {
		v := &s.voices[i]
		if v.active && v.channel == channel {
			v.setBend(b)
		}
	}
}
