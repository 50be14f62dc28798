// SPDX-License-Identifier: EPL-2.0

// Command sfzrender plays notes through an SFZ instrument and writes the
// result as a stereo WAV file.
//
//	sfzrender -o c4.wav -key 60 -length 2 piano.sfz
//	sfzrender -score chords.yaml -bits 24 -o chords.wav piano.sfz
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/ik5/sfzsynth"
	"github.com/ik5/sfzsynth/synth"
)

func main() {
	os.Exit(run(os.Args, os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet(args[0], flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintf(stderr, "usage: %s [flags] <sfz_filename>\n", args[0])
		fs.PrintDefaults()
	}

	var (
		out     = fs.String("o", "out.wav", "output WAV file, - for stdout")
		rate    = fs.Int("rate", 48000, "sample rate in Hz")
		bits    = fs.Int("bits", 16, "bits per sample, 16 or 24")
		score   = fs.String("score", "", "YAML score file; overrides -key, -vel and -length")
		key     = fs.Int("key", 60, "MIDI key to play")
		vel     = fs.Int("vel", 100, "note velocity")
		length  = fs.Float64("length", 1, "note length in seconds")
		tail    = fs.Float64("tail", 1, "seconds rendered after the last note-off")
		block   = fs.Int("block", 1024, "frames per Process call")
		gain    = fs.Float64("gain", 1, "output gain")
		voices  = fs.Int("voices", synth.DefaultMaxVoices, "maximum polyphony")
		seed    = fs.Uint64("seed", 1, "seed for random region selection")
		verbose = fs.Bool("v", false, "log synthesizer details")
	)

	if err := fs.Parse(args[1:]); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return 2
	}
	if *bits != 16 && *bits != 24 {
		fmt.Fprintf(stderr, "%s: -bits %d: %v\n", args[0], *bits, ErrUnsupportedBits)
		return 2
	}
	if *bits == 24 && *out == "-" {
		fmt.Fprintf(stderr, "%s: %v\n", args[0], ErrNeedsFile)
		return 2
	}
	sfzPath := fs.Arg(0)

	logger := log.New(stderr, "sfzrender: ", 0)

	notes := []sfzsynth.Note{{Length: *length, Key: *key, Velocity: *vel}}
	end := *length

	if *score != "" {
		sc, err := LoadScore(*score)
		if err != nil {
			logger.Printf("loading score: %v", err)
			return 1
		}

		notes = sc.Notes
		end = sc.End()
		if sc.SampleRate > 0 {
			*rate = sc.SampleRate
		}
		if sc.Gain > 0 {
			*gain = float64(sc.Gain)
		}
		if sc.MaxVoices > 0 {
			*voices = sc.MaxVoices
		}
		if sc.Tail > 0 {
			*tail = sc.Tail
		}
	}

	level := synth.LogWarning
	if *verbose {
		level = synth.LogDebug
	}

	s := synth.New(
		synth.WithLogger(log.New(stderr, "sfzsynth: ", 0)),
		synth.WithLogLevel(level),
		synth.WithMaxVoices(*voices),
		synth.WithSeed(*seed),
	)
	s.SetSampleRate(*rate)
	s.SetGain(float32(*gain))

	if err := s.Load(sfzPath); err != nil {
		logger.Printf("failed to load sfz file '%s': %v", sfzPath, err)
		return 1
	}
	logger.Printf("loaded %s: %d regions", sfzPath, len(s.Regions()))

	left, right, err := sfzsynth.Render(s, notes, end+*tail, *block)
	if err != nil {
		logger.Printf("render: %v", err)
		return 1
	}

	if err := writeOutput(*out, stdout, *rate, *bits, left, right); err != nil {
		logger.Printf("writing %s: %v", *out, err)
		return 1
	}
	logger.Printf("wrote %s: %d frames at %d Hz, %d-bit", *out, len(left), *rate, *bits)

	return 0
}
