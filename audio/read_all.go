// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"io"
)

// ReadAll drains src and returns every interleaved sample it produced.
// The source is not closed.
func ReadAll(src Source) ([]float32, error) {
	channels := src.Channels()
	if channels <= 0 {
		return nil, ErrNoChannels
	}

	// Whole frames only, as required by Resampler.
	size := max(src.BufSize(), 1024)
	size -= size % channels
	if size == 0 {
		size = channels
	}
	buf := make([]float32, size)

	var out []float32
	for {
		n, err := src.ReadSamples(buf)
		if n > 0 {
			out = append(out, buf[:n]...)
		}

		if err == io.EOF {
			break
		}

		if err != nil {
			return out, fmt.Errorf("reading samples: %w", err)
		}

		// A decoder that reports neither data nor EOF would spin forever.
		if n == 0 {
			break
		}
	}

	return out, nil
}
