// SPDX-License-Identifier: EPL-2.0

package sfz

import (
	"fmt"
	"strconv"
	"strings"
)

var noteOffsets = map[byte]int{
	'c': 0, 'd': 2, 'e': 4, 'f': 5, 'g': 7, 'a': 9, 'b': 11,
}

// ParseKey accepts a MIDI note number or a note name such as "c4", "F#3"
// or "eb-1". Middle C is c4 = 60.
func ParseKey(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: empty key", ErrBadValue)
	}

	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}

	lower := strings.ToLower(s)
	base, ok := noteOffsets[lower[0]]
	if !ok {
		return 0, fmt.Errorf("%w: key %q", ErrBadValue, s)
	}

	rest := lower[1:]
	switch {
	case strings.HasPrefix(rest, "#"):
		base++
		rest = rest[1:]
	case strings.HasPrefix(rest, "b") && len(rest) > 1:
		base--
		rest = rest[1:]
	}

	octave, err := strconv.Atoi(rest)
	if err != nil {
		return 0, fmt.Errorf("%w: key %q", ErrBadValue, s)
	}

	return (octave+1)*12 + base, nil
}
