// SPDX-License-Identifier: EPL-2.0

package synth

import "errors"

var (
	ErrInvalidOutputs    = errors.New("process needs two output buffers of at least nFrames samples")
	ErrNoPlayableRegions = errors.New("no region has a loadable sample")
	ErrInvalidSampleRate = errors.New("sample rate must be positive")
)
