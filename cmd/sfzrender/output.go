// SPDX-License-Identifier: EPL-2.0

package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	goaudio "github.com/go-audio/audio"
	gowav "github.com/go-audio/wav"
	"github.com/ik5/sfzsynth"
	"github.com/ik5/sfzsynth/formats/wav"
	"github.com/ik5/sfzsynth/utils"
)

var (
	ErrUnsupportedBits = errors.New("bits must be 16 or 24")
	ErrNeedsFile       = errors.New("24-bit output needs a file, not stdout")
)

// writeOutput stores the stereo mix at path, or on stdout when path is "-".
func writeOutput(path string, stdout io.Writer, rate, bits int, left, right []float32) error {
	switch bits {
	case 16:
		if path == "-" {
			return wav.WriteWAV16(stdout, rate, 2, sfzsynth.Interleave16(left, right))
		}

		f, err := os.Create(path)
		if err != nil {
			return err
		}
		if err := wav.WriteWAV16(f, rate, 2, sfzsynth.Interleave16(left, right)); err != nil {
			f.Close()
			return err
		}
		return f.Close()

	case 24:
		if path == "-" {
			return ErrNeedsFile
		}
		return write24(path, rate, left, right)
	}

	return ErrUnsupportedBits
}

// write24 goes through the go-audio encoder, which seeks back to patch sizes.
func write24(path string, rate int, left, right []float32) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	n := min(len(left), len(right))
	data := make([]int, 2*n)
	for i := range n {
		data[2*i] = int(utils.Float32ToInt24(left[i]))
		data[2*i+1] = int(utils.Float32ToInt24(right[i]))
	}

	enc := gowav.NewEncoder(f, rate, 24, 2, 1)
	buf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: 2, SampleRate: rate},
		Data:           data,
		SourceBitDepth: 24,
	}

	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}

	return f.Close()
}
