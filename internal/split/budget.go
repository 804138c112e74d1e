// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package split

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/pdiddy/adoc-split/internal/asciidoc"
)

// splitAttribute is the block attribute that opts a section's children into
// separate files: [%split] for one level, [split=N] for N levels, [split=0]
// to stop an inherited countdown.
const splitAttribute = "split"

// ErrInvalidSplit is returned for a split attribute that is not a
// non-negative integer.
var ErrInvalidSplit = errors.New("invalid split attribute")

// childCountdown returns the split countdown that applies to the children
// of s. An explicit attribute on s wins over the inherited value.
func childCountdown(s *asciidoc.Section, inherited int) (int, error) {
	if v, ok := s.Attribute(splitAttribute); ok {
		v = strings.TrimSpace(v)
		if v == "" {
			return 1, nil
		}
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return 0, fmt.Errorf("%w: section %q (line %d): %q is not a non-negative integer",
				ErrInvalidSplit, s.Title, s.Line, v)
		}
		return n, nil
	}
	if s.HasOption(splitAttribute) {
		return 1, nil
	}
	return inherited, nil
}
