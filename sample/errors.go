// SPDX-License-Identifier: EPL-2.0

package sample

import "errors"

var (
	ErrEmptySample = errors.New("sample contains no audio")
	ErrInvalidRate = errors.New("target sample rate must be positive")
)
