// SPDX-License-Identifier: EPL-2.0

package synth

import (
	"bytes"
	"errors"
	"io/fs"
	"log"
	"math"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ik5/sfzsynth/internal/audiotest"
)

const testRate = 48000

// loadSynth writes an instrument and its samples into a temp dir and loads it.
// Each sample is a mono 16-bit WAV at testRate holding a constant value.
func loadSynth(t *testing.T, sfzText string, samples map[string][]float32, opts ...Option) *Synth {
	t.Helper()

	dir := t.TempDir()
	for name, data := range samples {
		audiotest.WriteWAV(t, filepath.Join(dir, name), testRate, 1, 16, data)
	}
	path := audiotest.WriteFile(t, dir, "test.sfz", sfzText)

	opts = append([]Option{WithLogger(nil)}, opts...)
	s := New(opts...)
	s.SetSampleRate(testRate)
	if err := s.Load(path); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	return s
}

func process(t *testing.T, s *Synth, n int) (left, right []float32) {
	t.Helper()

	left = make([]float32, n)
	right = make([]float32, n)
	if err := s.Process([][]float32{left, right}, n); err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	return left, right
}

func near(a, b float32) bool {
	return math.Abs(float64(a-b)) < 1e-3
}

func TestNew_Defaults(t *testing.T) {
	t.Parallel()

	s := New(WithLogger(nil))

	if s.SampleRate() != DefaultSampleRate {
		t.Errorf("SampleRate() = %d, want %d", s.SampleRate(), DefaultSampleRate)
	}
	if len(s.voices) != DefaultMaxVoices {
		t.Errorf("voices = %d, want %d", len(s.voices), DefaultMaxVoices)
	}
	if s.Instrument() != nil {
		t.Error("Instrument() should be nil before Load")
	}
}

func TestSynth_SetSampleRateRejectsInvalid(t *testing.T) {
	t.Parallel()

	s := New(WithLogger(nil))
	s.SetSampleRate(48000)
	s.SetSampleRate(0)

	if s.SampleRate() != 48000 {
		t.Errorf("SampleRate() = %d, want 48000", s.SampleRate())
	}
}

func TestSynth_LoadMissingFile(t *testing.T) {
	t.Parallel()

	s := New(WithLogger(nil))
	err := s.Load(filepath.Join(t.TempDir(), "missing.sfz"))

	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("Load() error = %v, want fs.ErrNotExist", err)
	}
}

func TestSynth_LoadWithoutPlayableSamples(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := audiotest.WriteFile(t, dir, "test.sfz", "<region> sample=nothing.wav\n")

	s := New(WithLogger(nil))
	if err := s.Load(path); !errors.Is(err, ErrNoPlayableRegions) {
		t.Errorf("Load() error = %v, want ErrNoPlayableRegions", err)
	}
}

func TestSynth_LoadSkipsBrokenRegions(t *testing.T) {
	t.Parallel()

	s := loadSynth(t, `
<region> sample=good.wav key=60
<region> sample=missing.wav key=62
`, map[string][]float32{"good.wav": audiotest.Constant(100, 0.5)})

	if got := len(s.Regions()); got != 1 {
		t.Errorf("Regions() = %d, want 1", got)
	}
	if got := len(s.Instrument().Regions); got != 2 {
		t.Errorf("Instrument().Regions = %d, want 2", got)
	}
}

func TestSynth_ProcessWithoutNotesIsSilent(t *testing.T) {
	t.Parallel()

	s := loadSynth(t, "<region> sample=c.wav\n", map[string][]float32{"c.wav": audiotest.Constant(100, 0.5)})

	left, right := process(t, s, 256)
	for i := range left {
		if left[i] != 0 || right[i] != 0 {
			t.Fatalf("frame %d = (%v, %v), want silence", i, left[i], right[i])
		}
	}
}

func TestSynth_ProcessOverwritesOutputs(t *testing.T) {
	t.Parallel()

	s := New(WithLogger(nil))
	left := audiotest.Constant(64, 1)
	right := audiotest.Constant(64, 1)

	if err := s.Process([][]float32{left, right}, 64); err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if left[10] != 0 || right[10] != 0 {
		t.Errorf("outputs not cleared: %v %v", left[10], right[10])
	}
}

func TestSynth_ProcessInvalidOutputs(t *testing.T) {
	t.Parallel()

	s := New(WithLogger(nil))

	tests := []struct {
		name    string
		outputs [][]float32
		n       int
	}{
		{"one channel", [][]float32{make([]float32, 8)}, 8},
		{"short buffer", [][]float32{make([]float32, 8), make([]float32, 4)}, 8},
		{"negative frames", [][]float32{make([]float32, 8), make([]float32, 8)}, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := s.Process(tt.outputs, tt.n); !errors.Is(err, ErrInvalidOutputs) {
				t.Errorf("Process() error = %v, want ErrInvalidOutputs", err)
			}
		})
	}
}

func TestSynth_NoteOnPlaysSample(t *testing.T) {
	t.Parallel()

	s := loadSynth(t, "<region> sample=c.wav amp_veltrack=0\n",
		map[string][]float32{"c.wav": audiotest.Constant(4000, 0.5)})

	s.AddEventNoteOn(0, 0, 60, 100)
	left, right := process(t, s, 1024)

	for _, i := range []int{0, 1, 500, 1023} {
		if !near(left[i], 0.5) || !near(right[i], 0.5) {
			t.Errorf("frame %d = (%v, %v), want (0.5, 0.5)", i, left[i], right[i])
		}
	}
	if s.ActiveVoices() != 1 {
		t.Errorf("ActiveVoices() = %d, want 1", s.ActiveVoices())
	}
}

func TestSynth_EventOffset(t *testing.T) {
	t.Parallel()

	s := loadSynth(t, "<region> sample=c.wav amp_veltrack=0\n",
		map[string][]float32{"c.wav": audiotest.Constant(4000, 0.5)})

	s.AddEventNoteOn(100, 0, 60, 127)
	left, _ := process(t, s, 256)

	if left[99] != 0 {
		t.Errorf("frame 99 = %v, want 0 before the note", left[99])
	}
	if !near(left[100], 0.5) {
		t.Errorf("frame 100 = %v, want 0.5", left[100])
	}
}

func TestSynth_EventOffsetPastBlockIsClamped(t *testing.T) {
	t.Parallel()

	s := loadSynth(t, "<region> sample=c.wav amp_veltrack=0\n",
		map[string][]float32{"c.wav": audiotest.Constant(4000, 0.5)})

	s.AddEventNoteOn(5000, 0, 60, 127)
	left, _ := process(t, s, 64)

	if !near(left[63], 0.5) {
		t.Errorf("frame 63 = %v, want 0.5", left[63])
	}
}

func TestSynth_VelocityGain(t *testing.T) {
	t.Parallel()

	s := loadSynth(t, "<region> sample=c.wav\n",
		map[string][]float32{"c.wav": audiotest.Constant(4000, 0.5)})

	s.AddEventNoteOn(0, 0, 60, 100)
	left, _ := process(t, s, 16)

	v := 100.0 / 127
	want := float32(0.5 * v * v)
	if !near(left[0], want) {
		t.Errorf("frame 0 = %v, want %v", left[0], want)
	}
}

func TestSynth_PanHardLeft(t *testing.T) {
	t.Parallel()

	s := loadSynth(t, "<region> sample=c.wav amp_veltrack=0 pan=-100\n",
		map[string][]float32{"c.wav": audiotest.Constant(4000, 0.5)})

	s.AddEventNoteOn(0, 0, 60, 100)
	left, right := process(t, s, 16)

	want := float32(0.5 * math.Sqrt2)
	if !near(left[0], want) || !near(right[0], 0) {
		t.Errorf("frame 0 = (%v, %v), want (%v, 0)", left[0], right[0], want)
	}
}

func TestSynth_KeyAndVelocityRanges(t *testing.T) {
	t.Parallel()

	s := loadSynth(t, `
<group> amp_veltrack=0 lokey=60 hikey=61
<region> sample=soft.wav hivel=64
<region> sample=loud.wav lovel=65
`, map[string][]float32{
		"soft.wav": audiotest.Constant(4000, 0.25),
		"loud.wav": audiotest.Constant(4000, 0.5),
	})

	tests := []struct {
		key, vel int
		want     float32
	}{
		{60, 30, 0.25},
		{61, 100, 0.5},
		{62, 100, 0},
	}

	for _, tt := range tests {
		s.AllSoundOff()
		s.AddEventNoteOn(0, 0, tt.key, tt.vel)
		left, _ := process(t, s, 8)

		if !near(left[0], tt.want) {
			t.Errorf("key %d vel %d: frame 0 = %v, want %v", tt.key, tt.vel, left[0], tt.want)
		}
	}
}

func TestSynth_ChannelRange(t *testing.T) {
	t.Parallel()

	s := loadSynth(t, "<region> sample=c.wav lochan=2 hichan=2\n",
		map[string][]float32{"c.wav": audiotest.Constant(4000, 0.5)})

	s.AddEventNoteOn(0, 0, 60, 100)
	process(t, s, 8)
	if s.ActiveVoices() != 0 {
		t.Errorf("channel 0 should not match lochan=2")
	}

	s.AddEventNoteOn(0, 1, 60, 100)
	process(t, s, 8)
	if s.ActiveVoices() != 1 {
		t.Errorf("channel 1 should match lochan=2")
	}
}

func TestSynth_SampleEndStopsVoice(t *testing.T) {
	t.Parallel()

	s := loadSynth(t, "<region> sample=c.wav amp_veltrack=0\n",
		map[string][]float32{"c.wav": audiotest.Constant(100, 0.5)})

	s.AddEventNoteOn(0, 0, 60, 127)
	left, _ := process(t, s, 256)

	if !near(left[99], 0.5) {
		t.Errorf("frame 99 = %v, want 0.5", left[99])
	}
	if left[100] != 0 {
		t.Errorf("frame 100 = %v, want 0 past the sample end", left[100])
	}
	if s.ActiveVoices() != 0 {
		t.Errorf("ActiveVoices() = %d, want 0", s.ActiveVoices())
	}
}

func TestSynth_TransposePlaysFaster(t *testing.T) {
	t.Parallel()

	s := loadSynth(t, "<region> sample=c.wav amp_veltrack=0 transpose=12\n",
		map[string][]float32{"c.wav": audiotest.Constant(200, 0.5)})

	s.AddEventNoteOn(0, 0, 60, 127)
	left, _ := process(t, s, 256)

	if left[98] == 0 {
		t.Error("frame 98 should still play")
	}
	if left[100] != 0 {
		t.Errorf("frame 100 = %v, want 0 after an octave-up sample ends", left[100])
	}
}

func TestSynth_LoopContinuous(t *testing.T) {
	t.Parallel()

	s := loadSynth(t, "<region> sample=c.wav amp_veltrack=0 loop_mode=loop_continuous loop_start=10 loop_end=89\n",
		map[string][]float32{"c.wav": audiotest.Constant(100, 0.5)})

	s.AddEventNoteOn(0, 0, 60, 127)
	left, _ := process(t, s, 1000)

	if !near(left[999], 0.5) {
		t.Errorf("frame 999 = %v, want looping output", left[999])
	}
	if s.ActiveVoices() != 1 {
		t.Errorf("ActiveVoices() = %d, want 1", s.ActiveVoices())
	}
}

func TestSynth_Envelope(t *testing.T) {
	t.Parallel()

	type point struct {
		frame int
		want  float32
	}

	tests := []struct {
		name    string
		opcodes string
		points  []point
		active  int
	}{
		{
			name:    "attack",
			opcodes: "ampeg_attack=0.01",
			points:  []point{{0, 0}, {240, 0.25}, {480, 0.5}, {3000, 0.5}},
			active:  1,
		},
		{
			name:    "delay attack hold decay sustain",
			opcodes: "ampeg_delay=0.01 ampeg_attack=0.01 ampeg_hold=0.01 ampeg_decay=0.01 ampeg_sustain=50",
			points:  []point{{0, 0}, {479, 0}, {720, 0.25}, {1200, 0.5}, {1680, 0.375}, {3000, 0.25}},
			active:  1,
		},
		{
			name:    "decay to zero sustain ends the voice",
			opcodes: "ampeg_decay=0.01 ampeg_sustain=0",
			points:  []point{{0, 0.5}, {240, 0.25}, {600, 0}},
			active:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s := loadSynth(t, "<region> sample=c.wav amp_veltrack=0 "+tt.opcodes+"\n",
				map[string][]float32{"c.wav": audiotest.Constant(48000, 0.5)})

			s.AddEventNoteOn(0, 0, 60, 127)
			left, _ := process(t, s, 4096)

			for _, p := range tt.points {
				if !near(left[p.frame], p.want) {
					t.Errorf("frame %d = %v, want %v", p.frame, left[p.frame], p.want)
				}
			}
			if got := s.ActiveVoices(); got != tt.active {
				t.Errorf("ActiveVoices() = %d, want %d", got, tt.active)
			}
		})
	}
}

func TestSynth_LoopModesAfterNoteOff(t *testing.T) {
	t.Parallel()

	tests := []struct {
		mode   string
		active int // after note-off and a long release
	}{
		{"loop_sustain", 0},
		{"loop_continuous", 1},
	}

	for _, tt := range tests {
		t.Run(tt.mode, func(t *testing.T) {
			t.Parallel()

			s := loadSynth(t, "<region> sample=c.wav amp_veltrack=0 ampeg_release=1 loop_mode="+tt.mode+" loop_start=10 loop_end=89\n",
				map[string][]float32{"c.wav": audiotest.Constant(100, 0.5)})

			s.AddEventNoteOn(0, 0, 60, 127)
			left, _ := process(t, s, 1000)
			if !near(left[999], 0.5) {
				t.Fatalf("frame 999 = %v, want the loop to play while held", left[999])
			}

			s.AddEventNoteOff(0, 0, 60)
			left, _ = process(t, s, 1000)

			if left[0] <= 0.4 {
				t.Errorf("frame 0 after note-off = %v, want the tail to keep playing", left[0])
			}
			if got := s.ActiveVoices(); got != tt.active {
				t.Errorf("ActiveVoices() = %d, want %d", got, tt.active)
			}
			if tt.active == 0 && left[200] != 0 {
				t.Errorf("frame 200 = %v, want 0 once the sample end is reached", left[200])
			}
		})
	}
}

func TestSynth_NoteOffReleases(t *testing.T) {
	t.Parallel()

	s := loadSynth(t, "<region> sample=c.wav amp_veltrack=0 ampeg_release=0.01\n",
		map[string][]float32{"c.wav": audiotest.Constant(48000, 0.5)})

	s.AddEventNoteOn(0, 0, 60, 127)
	s.AddEventNoteOff(512, 0, 60)
	left, _ := process(t, s, 2048)

	if !near(left[511], 0.5) {
		t.Errorf("frame 511 = %v, want 0.5 before release", left[511])
	}
	if left[700] >= 0.5 || left[700] <= 0 {
		t.Errorf("frame 700 = %v, want a fading value", left[700])
	}
	if left[1500] != 0 {
		t.Errorf("frame 1500 = %v, want 0 after release", left[1500])
	}
	if s.ActiveVoices() != 0 {
		t.Errorf("ActiveVoices() = %d, want 0", s.ActiveVoices())
	}
}

func TestSynth_OneShotIgnoresNoteOff(t *testing.T) {
	t.Parallel()

	s := loadSynth(t, "<region> sample=c.wav loop_mode=one_shot\n",
		map[string][]float32{"c.wav": audiotest.Constant(4000, 0.5)})

	s.AddEventNoteOn(0, 0, 60, 127)
	s.AddEventNoteOff(1, 0, 60)
	process(t, s, 512)

	if s.ActiveVoices() != 1 {
		t.Errorf("ActiveVoices() = %d, want 1", s.ActiveVoices())
	}
}

func TestSynth_SustainPedal(t *testing.T) {
	t.Parallel()

	s := loadSynth(t, "<region> sample=c.wav\n",
		map[string][]float32{"c.wav": audiotest.Constant(48000, 0.5)})

	s.AddEventCC(0, 0, ccSustain, 127)
	s.AddEventNoteOn(0, 0, 60, 100)
	s.AddEventNoteOff(10, 0, 60)
	process(t, s, 512)

	if s.ActiveVoices() != 1 {
		t.Fatalf("ActiveVoices() = %d, want 1 while the pedal is down", s.ActiveVoices())
	}

	s.AddEventCC(0, 0, ccSustain, 0)
	process(t, s, 512)

	if s.ActiveVoices() != 0 {
		t.Errorf("ActiveVoices() = %d, want 0 after pedal up", s.ActiveVoices())
	}
}

func TestSynth_AllNotesOff(t *testing.T) {
	t.Parallel()

	s := loadSynth(t, "<region> sample=c.wav\n",
		map[string][]float32{"c.wav": audiotest.Constant(48000, 0.5)})

	s.AddEventNoteOn(0, 0, 60, 100)
	s.AddEventNoteOn(0, 0, 64, 100)
	s.AddEventCC(100, 0, ccAllNotesOff, 0)
	process(t, s, 512)

	if s.ActiveVoices() != 0 {
		t.Errorf("ActiveVoices() = %d, want 0", s.ActiveVoices())
	}
}

func TestSynth_AllSoundOffCC(t *testing.T) {
	t.Parallel()

	s := loadSynth(t, "<region> sample=c.wav amp_veltrack=0\n",
		map[string][]float32{"c.wav": audiotest.Constant(48000, 0.5)})

	s.AddEventNoteOn(0, 0, 60, 100)
	s.AddEventCC(10, 0, ccAllSoundOff, 0)
	left, _ := process(t, s, 64)

	if left[10] != 0 {
		t.Errorf("frame 10 = %v, want immediate silence", left[10])
	}
}

func TestSynth_VelocityZeroIsNoteOff(t *testing.T) {
	t.Parallel()

	s := loadSynth(t, "<region> sample=c.wav\n",
		map[string][]float32{"c.wav": audiotest.Constant(48000, 0.5)})

	s.AddEventNoteOn(0, 0, 60, 100)
	s.AddEventNoteOn(10, 0, 60, 0)
	process(t, s, 512)

	if s.ActiveVoices() != 0 {
		t.Errorf("ActiveVoices() = %d, want 0", s.ActiveVoices())
	}
}

func TestSynth_ReleaseTrigger(t *testing.T) {
	t.Parallel()

	s := loadSynth(t, "<region> sample=c.wav trigger=release amp_veltrack=0\n",
		map[string][]float32{"c.wav": audiotest.Constant(4000, 0.5)})

	s.AddEventNoteOn(0, 0, 60, 100)
	left, _ := process(t, s, 64)
	if left[10] != 0 || s.ActiveVoices() != 0 {
		t.Fatalf("release region played on note-on")
	}

	s.AddEventNoteOff(0, 0, 60)
	left, _ = process(t, s, 64)
	if !near(left[10], 0.5) {
		t.Errorf("frame 10 = %v, want the release sample", left[10])
	}
}

func TestSynth_FirstAndLegatoTriggers(t *testing.T) {
	t.Parallel()

	s := loadSynth(t, `
<group> amp_veltrack=0
<region> sample=first.wav trigger=first
<region> sample=legato.wav trigger=legato
`, map[string][]float32{
		"first.wav":  audiotest.Constant(4000, 0.25),
		"legato.wav": audiotest.Constant(4000, 0.5),
	})

	s.AddEventNoteOn(0, 0, 60, 100)
	left, _ := process(t, s, 8)
	if !near(left[0], 0.25) {
		t.Errorf("first note = %v, want 0.25", left[0])
	}

	s.AddEventNoteOn(0, 0, 62, 100)
	left, _ = process(t, s, 8)
	if !near(left[0], 0.75) {
		t.Errorf("legato note = %v, want 0.25 + 0.5", left[0])
	}
}

func TestSynth_RoundRobin(t *testing.T) {
	t.Parallel()

	s := loadSynth(t, `
<group> amp_veltrack=0 seq_length=2
<region> sample=a.wav seq_position=1
<region> sample=b.wav seq_position=2
`, map[string][]float32{
		"a.wav": audiotest.Constant(4000, 0.25),
		"b.wav": audiotest.Constant(4000, 0.5),
	})

	for i, want := range []float32{0.25, 0.5, 0.25} {
		s.AllSoundOff()
		s.AddEventNoteOn(0, 0, 60, 100)
		left, _ := process(t, s, 8)

		if !near(left[0], want) {
			t.Errorf("note %d = %v, want %v", i, left[0], want)
		}
	}
}

func TestSynth_RandomRegionsAreExclusive(t *testing.T) {
	t.Parallel()

	s := loadSynth(t, `
<group> amp_veltrack=0
<region> sample=a.wav hirand=0.5
<region> sample=b.wav lorand=0.5
`, map[string][]float32{
		"a.wav": audiotest.Constant(4000, 0.25),
		"b.wav": audiotest.Constant(4000, 0.5),
	})

	for range 20 {
		s.AllSoundOff()
		s.AddEventNoteOn(0, 0, 60, 100)
		left, _ := process(t, s, 8)

		if !near(left[0], 0.25) && !near(left[0], 0.5) {
			t.Fatalf("frame 0 = %v, want exactly one random region", left[0])
		}
	}
}

func TestSynth_SameSeedIsDeterministic(t *testing.T) {
	t.Parallel()

	text := `
<group> amp_veltrack=0
<region> sample=a.wav hirand=0.5
<region> sample=b.wav lorand=0.5
`
	samples := map[string][]float32{
		"a.wav": audiotest.Constant(4000, 0.25),
		"b.wav": audiotest.Constant(4000, 0.5),
	}

	a := loadSynth(t, text, samples, WithSeed(7))
	b := loadSynth(t, text, samples, WithSeed(7))

	for i := range 10 {
		a.AllSoundOff()
		b.AllSoundOff()
		a.AddEventNoteOn(0, 0, 60, 100)
		b.AddEventNoteOn(0, 0, 60, 100)
		la, _ := process(t, a, 8)
		lb, _ := process(t, b, 8)

		if la[0] != lb[0] {
			t.Fatalf("note %d differs: %v vs %v", i, la[0], lb[0])
		}
	}
}

func TestSynth_OffBy(t *testing.T) {
	t.Parallel()

	s := loadSynth(t, `
<region> sample=c.wav key=60 group=1 off_by=2
<region> sample=c.wav key=62 group=2
`, map[string][]float32{"c.wav": audiotest.Constant(48000, 0.5)})

	s.AddEventNoteOn(0, 0, 60, 100)
	s.AddEventNoteOn(10, 0, 62, 100)
	process(t, s, 512)

	if s.ActiveVoices() != 1 {
		t.Errorf("ActiveVoices() = %d, want 1 after off_by", s.ActiveVoices())
	}
}

func TestSynth_VoiceStealing(t *testing.T) {
	t.Parallel()

	s := loadSynth(t, "<region> sample=c.wav\n",
		map[string][]float32{"c.wav": audiotest.Constant(48000, 0.5)},
		WithMaxVoices(2))

	for i, key := range []int{60, 62, 64} {
		s.AddEventNoteOn(i, 0, key, 100)
	}
	process(t, s, 64)

	if s.ActiveVoices() != 2 {
		t.Fatalf("ActiveVoices() = %d, want 2", s.ActiveVoices())
	}
	for i := range s.voices {
		if s.voices[i].key == 60 {
			t.Error("oldest voice (key 60) should have been stolen")
		}
	}
}

func TestSynth_PitchBend(t *testing.T) {
	t.Parallel()

	s := loadSynth(t, "<region> sample=c.wav amp_veltrack=0 bend_up=1200\n",
		map[string][]float32{"c.wav": audiotest.Constant(200, 0.5)})

	s.AddEventPitchBend(0, 0, 16383)
	s.AddEventNoteOn(0, 0, 60, 127)
	left, _ := process(t, s, 256)

	if left[98] == 0 || left[100] != 0 {
		t.Errorf("full bend up should play an octave higher: frame 98 = %v, frame 100 = %v", left[98], left[100])
	}
}

func TestSynth_ResetControllers(t *testing.T) {
	t.Parallel()

	t.Run("pitch bend", func(t *testing.T) {
		t.Parallel()

		s := loadSynth(t, "<region> sample=c.wav amp_veltrack=0 bend_up=1200\n",
			map[string][]float32{"c.wav": audiotest.Constant(200, 0.5)})

		s.AddEventPitchBend(0, 0, 16383)
		s.AddEventNoteOn(0, 0, 60, 127)
		s.AddEventCC(0, 0, ccResetControllers, 0)
		left, _ := process(t, s, 256)

		if s.bend[0] != 0 {
			t.Errorf("bend = %v, want 0", s.bend[0])
		}
		if !near(left[150], 0.5) {
			t.Errorf("frame 150 = %v, want the sample at its original pitch", left[150])
		}
	})

	t.Run("sustain pedal", func(t *testing.T) {
		t.Parallel()

		s := loadSynth(t, "<region> sample=c.wav\n",
			map[string][]float32{"c.wav": audiotest.Constant(48000, 0.5)})

		s.AddEventCC(0, 0, ccSustain, 127)
		s.AddEventNoteOn(0, 0, 60, 100)
		s.AddEventNoteOff(10, 0, 60)
		s.AddEventCC(20, 0, ccResetControllers, 0)
		process(t, s, 512)

		if s.sustain[0] {
			t.Error("sustain pedal still down")
		}
		if s.ActiveVoices() != 0 {
			t.Errorf("ActiveVoices() = %d, want the deferred note-off applied", s.ActiveVoices())
		}
	})
}

func TestSynth_FailedLoadKeepsInstrument(t *testing.T) {
	t.Parallel()

	bad := t.TempDir()
	tests := []struct {
		name string
		path string
	}{
		{"missing file", filepath.Join(bad, "missing.sfz")},
		{"no playable regions", audiotest.WriteFile(t, bad, "empty.sfz", "<region> sample=nothing.wav\n")},
		{"parse error", audiotest.WriteFile(t, bad, "broken.sfz", "<region> sample=a.wav volume=loud\n")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s := loadSynth(t, "<region> sample=c.wav amp_veltrack=0\n",
				map[string][]float32{"c.wav": audiotest.Constant(4000, 0.5)})
			prev := s.Instrument()

			if err := s.Load(tt.path); err == nil {
				t.Fatal("Load() error = nil, want a failure")
			}

			if s.Instrument() != prev || len(s.Regions()) != 1 {
				t.Fatalf("instrument replaced after a failed load")
			}

			s.AddEventNoteOn(0, 0, 60, 127)
			left, _ := process(t, s, 8)
			if !near(left[0], 0.5) {
				t.Errorf("frame 0 = %v, want the previous instrument to play", left[0])
			}
		})
	}
}

func TestSynth_SetGain(t *testing.T) {
	t.Parallel()

	s := loadSynth(t, "<region> sample=c.wav amp_veltrack=0\n",
		map[string][]float32{"c.wav": audiotest.Constant(4000, 0.5)})
	s.SetGain(0.5)

	s.AddEventNoteOn(0, 0, 60, 100)
	left, _ := process(t, s, 8)

	if !near(left[0], 0.25) {
		t.Errorf("frame 0 = %v, want 0.25", left[0])
	}
}

func TestSynth_ResamplesAtLoad(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	audiotest.WriteWAV(t, filepath.Join(dir, "c.wav"), testRate/2, 1, 16, audiotest.Constant(100, 0.5))
	path := audiotest.WriteFile(t, dir, "test.sfz", "<region> sample=c.wav amp_veltrack=0\n")

	s := New(WithLogger(nil), WithSampleRate(testRate))
	if err := s.Load(path); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	s.AddEventNoteOn(0, 0, 60, 127)
	left, _ := process(t, s, 512)

	if left[150] == 0 {
		t.Error("frame 150 should play: a 24 kHz sample lasts twice as many output frames")
	}
	if left[300] != 0 {
		t.Errorf("frame 300 = %v, want 0", left[300])
	}
}

func TestSynth_LogsInvalidEvents(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	s := New(WithLogger(log.New(&buf, "", 0)), WithLogLevel(LogWarning))

	s.AddEventNoteOn(0, 0, 200, 100)
	s.AddEventNoteOn(0, 16, 60, 100)
	s.AddEventCC(0, 0, 64, 128)
	s.AddEventPitchBend(0, 0, 20000)

	if len(s.events) != 0 {
		t.Errorf("queued %d invalid events", len(s.events))
	}
	if got := strings.Count(buf.String(), "warning:"); got != 4 {
		t.Errorf("logged %d warnings, want 4:\n%s", got, buf.String())
	}
}

func TestSynth_LogLevelFilters(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	s := New(WithLogger(log.New(&buf, "", 0)), WithLogLevel(LogError))
	s.AddEventNoteOn(0, 0, 200, 100)

	if buf.Len() != 0 {
		t.Errorf("warning logged at error level: %q", buf.String())
	}
}

func BenchmarkSynth_Process(b *testing.B) {
	dir := b.TempDir()
	audiotest.WriteWAV(b, filepath.Join(dir, "c.wav"), testRate, 1, 16, audiotest.Constant(testRate, 0.5))
	path := audiotest.WriteFile(b, dir, "test.sfz", "<region> sample=c.wav loop_mode=loop_continuous loop_start=0 loop_end=47999\n")

	s := New(WithLogger(nil), WithSampleRate(testRate))
	if err := s.Load(path); err != nil {
		b.Fatal(err)
	}
	for key := 48; key < 64; key++ {
		s.AddEventNoteOn(0, 0, key, 100)
	}

	left := make([]float32, 1024)
	right := make([]float32, 1024)
	outputs := [][]float32{left, right}

	for b.Loop() {
		if err := s.Process(outputs, 1024); err != nil {
			b.Fatal(err)
		}
	}
}
