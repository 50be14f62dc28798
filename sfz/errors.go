// SPDX-License-Identifier: EPL-2.0

package sfz

import (
	"errors"
	"fmt"
)

var (
	ErrNoRegions           = errors.New("instrument defines no playable regions")
	ErrIncludeDepth        = errors.New("#include nested too deeply")
	ErrUnterminatedComment = errors.New("unterminated block comment")
	ErrBadHeader           = errors.New("malformed header")
	ErrBadDirective        = errors.New("malformed preprocessor directive")
	ErrBadValue            = errors.New("invalid opcode value")
)

// ParseError locates a failure inside an SFZ source file.
type ParseError struct {
	File string
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s:%d: %v", e.File, e.Line, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
