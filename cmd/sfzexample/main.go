// SPDX-License-Identifier: EPL-2.0

// Command sfzexample loads an SFZ instrument, plays middle C for one block
// and prints the rendered frames as "<index> <left> <right>".
package main

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/ik5/sfzsynth/synth"
)

const (
	sampleRate = 48000
	blockSize  = 1024
)

func main() {
	os.Exit(run(os.Args, os.Stdout))
}

func run(args []string, stdout io.Writer) int {
	if len(args) != 2 {
		fmt.Fprintf(stdout, "usage: %s <sfz_filename>\n", args[0])
		return 1
	}

	s := synth.New()
	s.SetSampleRate(sampleRate)

	if err := s.Load(args[1]); err != nil {
		fmt.Fprintf(stdout, "%s: failed to load sfz file '%s'\n", args[0], args[1])
		return 1
	}

	left := make([]float32, blockSize)
	right := make([]float32, blockSize)

	s.AddEventNoteOn(0, 0, 60, 100)
	if err := s.Process([][]float32{left, right}, blockSize); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", args[0], err)
		return 1
	}

	w := bufio.NewWriter(stdout)
	for i := range blockSize {
		fmt.Fprintf(w, "%d %f %f\n", i, left[i], right[i])
	}
	if err := w.Flush(); err != nil {
		return 1
	}

	return 0
}
