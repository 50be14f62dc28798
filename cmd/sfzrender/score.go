// SPDX-License-Identifier: EPL-2.0

package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/ik5/sfzsynth"
	"gopkg.in/yaml.v3"
)

var ErrEmptyScore = errors.New("score has no notes")

// Score is a render job read from YAML. Zero values fall back to flags.
type Score struct {
	SampleRate int             `yaml:"sample_rate"`
	Gain       float32         `yaml:"gain"`
	MaxVoices  int             `yaml:"max_voices"`
	Tail       float64         `yaml:"tail"`
	Notes      []sfzsynth.Note `yaml:"notes"`
}

func LoadScore(filename string) (*Score, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	var score Score
	if err := yaml.Unmarshal(data, &score); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", filename, err)
	}

	if len(score.Notes) == 0 {
		return nil, fmt.Errorf("%s: %w", filename, ErrEmptyScore)
	}

	for i := range score.Notes {
		if score.Notes[i].Velocity == 0 {
			score.Notes[i].Velocity = 100
		}
	}

	return &score, nil
}

// End returns the time the last note is released.
func (s *Score) End() float64 {
	var end float64
	for _, n := range s.Notes {
		end = max(end, n.Start+max(n.Length, 0))
	}
	return end
}
