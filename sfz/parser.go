// SPDX-License-Identifier: EPL-2.0

package sfz

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
)

// Control carries the <control> header settings.
type Control struct {
	DefaultPath  string
	NoteOffset   int
	OctaveOffset int
}

// Instrument is a parsed SFZ file with inheritance already resolved.
type Instrument struct {
	Path     string
	Control  Control
	Regions  []*Region
	Warnings []string
}

type scope int

const (
	scopeNone scope = iota
	scopeControl
	scopeGlobal
	scopeMaster
	scopeGroup
	scopeRegion
	scopeIgnored
)

// Load parses the SFZ file at path. Sample and #include paths are resolved
// relative to the file's directory.
func Load(path string) (*Instrument, error) {
	lx := newLexer(filepath.Dir(path))
	if err := lx.includeFile(path, 0); err != nil {
		return nil, err
	}

	return build(lx, path)
}

// Parse parses SFZ source text as if it had been read from file.
func Parse(text, file string) (*Instrument, error) {
	lx := newLexer(filepath.Dir(file))
	if err := lx.lex(text, file, 0); err != nil {
		return nil, err
	}

	return build(lx, file)
}

type builder struct {
	inst   *Instrument
	dir    string
	scope  scope
	seen   map[string]bool
	global []token
	master []token
	group  []token
	region []token
	start  token
}

func build(lx *lexer, path string) (*Instrument, error) {
	b := &builder{
		inst: &Instrument{Path: path},
		dir:  filepath.Dir(path),
		seen: make(map[string]bool),
	}

	for _, tok := range lx.tokens {
		var err error
		if tok.kind == tokenHeader {
			err = b.header(tok)
		} else {
			err = b.opcode(tok)
		}
		if err != nil {
			return nil, err
		}
	}

	if err := b.flush(); err != nil {
		return nil, err
	}

	if len(b.inst.Regions) == 0 {
		return nil, ErrNoRegions
	}

	return b.inst, nil
}

func (b *builder) warn(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if b.seen[msg] {
		return
	}
	b.seen[msg] = true
	b.inst.Warnings = append(b.inst.Warnings, msg)
}

func (b *builder) header(tok token) error {
	if err := b.flush(); err != nil {
		return err
	}

	switch tok.name {
	case "region":
		b.scope = scopeRegion
		b.region = nil
		b.start = tok
	case "group":
		b.scope = scopeGroup
		b.group = nil
	case "master":
		b.scope = scopeMaster
		b.master = nil
		b.group = nil
	case "global":
		b.scope = scopeGlobal
		b.global = nil
		b.master = nil
		b.group = nil
	case "control":
		b.scope = scopeControl
	case "curve", "effect", "midi", "sample":
		b.scope = scopeIgnored
	default:
		b.warn("unsupported header <%s>", tok.name)
		b.scope = scopeIgnored
	}

	return nil
}

func (b *builder) opcode(tok token) error {
	switch b.scope {
	case scopeControl:
		return b.control(tok)
	case scopeGlobal:
		b.global = append(b.global, tok)
	case scopeMaster:
		b.master = append(b.master, tok)
	case scopeGroup:
		b.group = append(b.group, tok)
	case scopeRegion:
		b.region = append(b.region, tok)
	case scopeNone:
		b.warn("opcode %s outside of any header", tok.name)
	}
	return nil
}

func (b *builder) control(tok token) error {
	var err error

	switch tok.name {
	case "default_path":
		b.inst.Control.DefaultPath = strings.ReplaceAll(tok.value, `\`, "/")
	case "note_offset":
		b.inst.Control.NoteOffset, err = parseInt(tok.value)
	case "octave_offset":
		b.inst.Control.OctaveOffset, err = parseInt(tok.value)
	default:
		b.warn("unsupported control opcode %s", tok.name)
	}

	if err != nil {
		return &ParseError{File: tok.file, Line: tok.line, Err: err}
	}
	return nil
}

// flush turns the pending <region> into a Region, applying inherited opcodes first.
func (b *builder) flush() error {
	if b.scope != scopeRegion {
		return nil
	}
	b.scope = scopeNone

	r := newRegion()
	r.File = b.start.file
	r.Line = b.start.line

	for _, list := range [][]token{b.global, b.master, b.group, b.region} {
		for _, tok := range list {
			known, err := b.apply(r, tok)
			if err != nil {
				return &ParseError{File: tok.file, Line: tok.line, Err: err}
			}
			if !known {
				b.warn("unsupported opcode %s", tok.name)
			}
		}
	}

	if r.Sample == "" {
		b.warn("%s:%d: region without sample ignored", r.File, r.Line)
		return nil
	}
	r.Sample = b.resolve(r.Sample)

	b.inst.Regions = append(b.inst.Regions, r)
	return nil
}

func (b *builder) resolve(sample string) string {
	sample = strings.ReplaceAll(sample, `\`, "/")
	if filepath.IsAbs(sample) {
		return filepath.Clean(sample)
	}
	return filepath.Join(b.dir, filepath.FromSlash(b.inst.Control.DefaultPath), filepath.FromSlash(sample))
}

func (b *builder) key(v string) (int, error) {
	k, err := ParseKey(v)
	if err != nil {
		return 0, err
	}
	return k + b.inst.Control.NoteOffset + 12*b.inst.Control.OctaveOffset, nil
}

// knownOpcodes lists every opcode name apply or control understands.
var knownOpcodes = map[string]bool{
	"default_path": true, "note_offset": true, "octave_offset": true,

	"sample": true, "lokey": true, "hikey": true, "key": true, "pitch_keycenter": true,
	"lovel": true, "hivel": true, "lochan": true, "hichan": true,
	"volume": true, "amplitude": true, "pan": true,
	"tune": true, "pitch": true, "transpose": true, "pitch_keytrack": true, "amp_veltrack": true,
	"offset": true, "end": true,
	"loop_mode": true, "loopmode": true, "loop_start": true, "loopstart": true, "loop_end": true, "loopend": true,
	"trigger": true, "seq_length": true, "seq_position": true, "lorand": true, "hirand": true,
	"group": true, "polyphony_group": true, "off_by": true,
	"ampeg_delay": true, "ampeg_attack": true, "ampeg_hold": true,
	"ampeg_decay": true, "ampeg_sustain": true, "ampeg_release": true,
	"bend_up": true, "bendup": true, "bend_down": true, "benddown": true,
}

// apply sets one opcode on r. known is false for opcodes this synth ignores.
func (b *builder) apply(r *Region, tok token) (known bool, err error) {
	v := tok.value

	switch tok.name {
	case "sample":
		r.Sample = v
	case "lokey":
		r.LoKey, err = b.key(v)
	case "hikey":
		r.HiKey, err = b.key(v)
	case "key":
		var k int
		if k, err = b.key(v); err == nil {
			r.LoKey, r.HiKey, r.PitchKeycenter = k, k, k
		}
	case "pitch_keycenter":
		r.PitchKeycenter, err = b.key(v)
	case "lovel":
		r.LoVel, err = parseInt(v)
	case "hivel":
		r.HiVel, err = parseInt(v)
	case "lochan":
		r.LoChan, err = parseInt(v)
	case "hichan":
		r.HiChan, err = parseInt(v)
	case "volume":
		r.Volume, err = parseFloat(v)
	case "amplitude":
		r.Amplitude, err = parseFloat(v)
	case "pan":
		r.Pan, err = parseFloat(v)
	case "tune", "pitch":
		r.Tune, err = parseInt(v)
	case "transpose":
		r.Transpose, err = parseInt(v)
	case "pitch_keytrack":
		r.PitchKeytrack, err = parseFloat(v)
	case "amp_veltrack":
		r.AmpVeltrack, err = parseFloat(v)
	case "offset":
		r.Offset, err = parseInt64(v)
	case "end":
		r.End, err = parseInt64(v)
	case "loop_mode", "loopmode":
		r.LoopMode, err = parseLoopMode(v)
	case "loop_start", "loopstart":
		r.LoopStart, err = parseInt64(v)
	case "loop_end", "loopend":
		r.LoopEnd, err = parseInt64(v)
	case "trigger":
		r.Trigger, err = parseTrigger(v)
	case "seq_length":
		r.SeqLength, err = parseInt(v)
	case "seq_position":
		r.SeqPosition, err = parseInt(v)
	case "lorand":
		r.LoRand, err = parseFloat(v)
	case "hirand":
		r.HiRand, err = parseFloat(v)
	case "group", "polyphony_group":
		r.Group, err = parseInt(v)
	case "off_by":
		r.OffBy, err = parseInt(v)
	case "ampeg_delay":
		r.AmpEG.Delay, err = parseFloat(v)
	case "ampeg_attack":
		r.AmpEG.Attack, err = parseFloat(v)
	case "ampeg_hold":
		r.AmpEG.Hold, err = parseFloat(v)
	case "ampeg_decay":
		r.AmpEG.Decay, err = parseFloat(v)
	case "ampeg_sustain":
		r.AmpEG.Sustain, err = parseFloat(v)
	case "ampeg_release":
		r.AmpEG.Release, err = parseFloat(v)
	case "bend_up", "bendup":
		r.BendUp, err = parseInt(v)
	case "bend_down", "benddown":
		r.BendDown, err = parseInt(v)
	default:
		return false, nil
	}

	if err != nil {
		return true, fmt.Errorf("%s=%s: %w", tok.name, v, err)
	}
	return true, nil
}

func parseFloat(s string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, ErrBadValue
	}
	return f, nil
}

// parseInt also accepts values written as decimals ("60.0").
func parseInt(s string) (int, error) {
	n, err := parseInt64(s)
	return int(n), err
}

func parseInt64(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, nil
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, ErrBadValue
	}
	return int64(f), nil
}

func parseLoopMode(s string) (LoopMode, error) {
	switch s {
	case "no_loop":
		return NoLoop, nil
	case "one_shot":
		return OneShot, nil
	case "loop_continuous":
		return LoopContinuous, nil
	case "loop_sustain":
		return LoopSustain, nil
	}
	return LoopUnset, ErrBadValue
}

func parseTrigger(s string) (Trigger, error) {
	switch s {
	case "attack":
		return TriggerAttack, nil
	case "release":
		return TriggerRelease, nil
	case "first":
		return TriggerFirst, nil
	case "legato":
		return TriggerLegato, nil
	}
	return TriggerAttack, ErrBadValue
}
