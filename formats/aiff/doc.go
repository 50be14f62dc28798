// SPDX-License-Identifier: EPL-2.0

// Package aiff decodes AIFF samples through github.com/go-audio/aiff.
//
// Integer PCM at 8, 16, 24 and 32 bits is normalized to float32 in [-1, 1].
// The go-audio decoder needs io.ReadSeeker; other readers are buffered in
// memory first.
package aiff
