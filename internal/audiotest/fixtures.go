// SPDX-License-Identifier: EPL-2.0

package audiotest

import (
	"encoding/binary"
	"io"
	"math"
	"os"
	"path/filepath"
	"testing"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// WriteWAV encodes interleaved samples in [-1, 1] as integer PCM of the
// given bit depth and returns the file path.
func WriteWAV(tb testing.TB, path string, rate, channels, bits int, samples []float32) string {
	tb.Helper()

	f, err := os.Create(path)
	if err != nil {
		tb.Fatalf("creating %s: %v", path, err)
	}
	defer f.Close()

	scale := float64(int64(1)<<(bits-1) - 1)
	data := make([]int, len(samples))
	for i, s := range samples {
		v := int(math.Round(float64(max(-1, min(1, s))) * scale))
		if bits == 8 {
			v += 128
		}
		data[i] = v
	}

	enc := wav.NewEncoder(f, rate, bits, channels, 1)
	buf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: channels, SampleRate: rate},
		Data:           data,
		SourceBitDepth: bits,
	}
	if err := enc.Write(buf); err != nil {
		tb.Fatalf("encoding %s: %v", path, err)
	}
	if err := enc.Close(); err != nil {
		tb.Fatalf("closing encoder for %s: %v", path, err)
	}

	return path
}

// WriteLoopedWAV writes a 16-bit WAV followed by a smpl chunk holding one
// forward loop from start to end (inclusive, in frames).
func WriteLoopedWAV(tb testing.TB, path string, rate, channels int, samples []float32, start, end uint32) string {
	tb.Helper()

	WriteWAV(tb, path, rate, channels, 16, samples)

	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		tb.Fatalf("opening %s: %v", path, err)
	}
	defer f.Close()

	chunk := make([]byte, 8+36+24)
	copy(chunk[0:4], "smpl")
	binary.LittleEndian.PutUint32(chunk[4:8], 36+24)
	body := chunk[8:]
	binary.LittleEndian.PutUint32(body[8:12], uint32(1e9/rate)) // sample period, ns
	binary.LittleEndian.PutUint32(body[12:16], 60)              // unity note
	binary.LittleEndian.PutUint32(body[28:32], 1)               // loop count
	loop := body[36:]
	binary.LittleEndian.PutUint32(loop[8:12], start)
	binary.LittleEndian.PutUint32(loop[12:16], end)

	size, err := f.Seek(0, io.SeekEnd)
	if err != nil {
		tb.Fatalf("seeking %s: %v", path, err)
	}
	if _, err := f.Write(chunk); err != nil {
		tb.Fatalf("writing smpl chunk: %v", err)
	}

	var riffSize [4]byte
	binary.LittleEndian.PutUint32(riffSize[:], uint32(size)+uint32(len(chunk))-8)
	if _, err := f.WriteAt(riffSize[:], 4); err != nil {
		tb.Fatalf("patching RIFF size: %v", err)
	}

	return path
}

// WriteFile writes text to name inside dir, creating parent directories.
func WriteFile(tb testing.TB, dir, name, text string) string {
	tb.Helper()

	path := filepath.Join(dir, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		tb.Fatalf("creating %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		tb.Fatalf("writing %s: %v", path, err)
	}

	return path
}

// Constant returns n copies of v.
func Constant(n int, v float32) []float32 {
	out := make([]float32, n)
	for i := range out {
		out[i] = v
	}
	return out
}
