// SPDX-License-Identifier: EPL-2.0

package flac

import (
	"fmt"
	"io"

	"github.com/ik5/sfzsynth/audio"
	"github.com/ik5/sfzsynth/utils"
	"github.com/mewkiz/flac"
	"github.com/mewkiz/flac/frame"
)

// frameParser is the part of flac.Stream the source needs; tests substitute it.
type frameParser interface {
	ParseNext() (*frame.Frame, error)
}

type source struct {
	stream     frameParser
	sampleRate int
	channels   int
	bitDepth   int

	// Decoded but not yet delivered samples of the current frame, interleaved.
	pending []float32
	pos     int
	eof     bool
}

func (s *source) SampleRate() int { return s.sampleRate }
func (s *source) Channels() int   { return s.channels }
func (s *source) Close() error    { return nil }
func (s *source) BufSize() int    { return 4096 }

// fill decodes the next FLAC frame into pending.
func (s *source) fill() error {
	f, err := s.stream.ParseNext()
	if err == io.EOF {
		s.eof = true
		return nil
	}
	if err != nil {
		return fmt.Errorf("parsing flac frame: %w", err)
	}

	if len(f.Subframes) < s.channels {
		return ErrCorruptFrame
	}

	block := int(f.BlockSize)
	need := block * s.channels
	if cap(s.pending) < need {
		s.pending = make([]float32, need)
	}
	s.pending = s.pending[:need]
	s.pos = 0

	for c := range s.channels {
		sub := f.Subframes[c].Samples
		for i := 0; i < block && i < len(sub); i++ {
			s.pending[i*s.channels+c] = utils.IntToFloat32(int(sub[i]), s.bitDepth)
		}
	}

	return nil
}

func (s *source) ReadSamples(dst []float32) (int, error) {
	written := 0

	for written < len(dst) {
		if s.pos >= len(s.pending) {
			if s.eof {
				break
			}
			if err := s.fill(); err != nil {
				return written, err
			}
			continue
		}

		n := copy(dst[written:], s.pending[s.pos:])
		s.pos += n
		written += n
	}

	if s.eof && s.pos >= len(s.pending) {
		return written, io.EOF
	}

	return written, nil
}

// Decoder streams FLAC through github.com/mewkiz/flac.
type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	stream, err := flac.New(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotFlacFile, err)
	}

	info := stream.Info
	if info == nil || info.NChannels < 1 {
		return nil, ErrNotFlacFile
	}

	switch info.BitsPerSample {
	case 8, 16, 24, 32:
	default:
		return nil, ErrUnsupportedBitDepth
	}

	return &source{
		stream:     stream,
		sampleRate: int(info.SampleRate),
		channels:   int(info.NChannels),
		bitDepth:   int(info.BitsPerSample),
	}, nil
}
