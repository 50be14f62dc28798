// SPDX-License-Identifier: EPL-2.0

package synth

import "sort"

type eventKind int

const (
	eventNoteOn eventKind = iota
	eventNoteOff
	eventCC
	eventPitchBend
)

// event is queued until the next Process call.
type event struct {
	time    int // frame offset into the next block
	kind    eventKind
	channel int
	arg1    int // key or controller
	arg2    int // velocity, controller value or bend value
}

// sortEvents orders by time; equal times keep submission order.
func sortEvents(events []event) {
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].time < events[j].time
	})
}

const (
	ccSustain          = 64
	ccAllSoundOff      = 120
	ccResetControllers = 121
	ccAllNotesOff      = 123

	numChannels = 16
	numKeys     = 128
	bendCenter  = 8192
)

func validChannel(ch int) bool { return ch >= 0 && ch < numChannels }
func valid7bit(v int) bool     { return v >= 0 && v < numKeys }

// AddEventNoteOn queues a note-on at frame offset timeOffset of the next block.
// Velocity 0 is treated as note-off.
func (s *Synth) AddEventNoteOn(timeOffset, channel, key, velocity int) {
	if !validChannel(channel) || !valid7bit(key) || !valid7bit(velocity) {
		s.logf(LogWarning, "note on ignored: channel=%d key=%d velocity=%d", channel, key, velocity)
		return
	}
	if velocity == 0 {
		s.AddEventNoteOff(timeOffset, channel, key)
		return
	}
	s.events = append(s.events, event{time: timeOffset, kind: eventNoteOn, channel: channel, arg1: key, arg2: velocity})
}

// AddEventNoteOff queues a note-off at frame offset timeOffset of the next block.
func (s *Synth) AddEventNoteOff(timeOffset, channel, key int) {
	if !validChannel(channel) || !valid7bit(key) {
		s.logf(LogWarning, "note off ignored: channel=%d key=%d", channel, key)
		return
	}
	s.events = append(s.events, event{time: timeOffset, kind: eventNoteOff, channel: channel, arg1: key})
}

// AddEventCC queues a controller change. Sustain (64), all sound off (120),
// reset controllers (121) and all notes off (123) are interpreted.
func (s *Synth) AddEventCC(timeOffset, channel, controller, value int) {
	if !validChannel(channel) || !valid7bit(controller) || !valid7bit(value) {
		s.logf(LogWarning, "cc ignored: channel=%d cc=%d value=%d", channel, controller, value)
		return
	}
	s.events = append(s.events, event{time: timeOffset, kind: eventCC, channel: channel, arg1: controller, arg2: value})
}

// AddEventPitchBend queues a 14-bit pitch bend, 0..16383 with 8192 as centre.
func (s *Synth) AddEventPitchBend(timeOffset, channel, value int) {
	if !validChannel(channel) || value < 0 || value > 16383 {
		s.logf(LogWarning, "pitch bend ignored: channel=%d value=%d", channel, value)
		return
	}
	s.events = append(s.events, event{time: timeOffset, kind: eventPitchBend, channel: channel, arg2: value})
}
