// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package split

import (
	"errors"
	"fmt"
	"regexp"
	"slices"
	"sort"
	"strings"

	"github.com/pdiddy/adoc-split/internal/asciidoc"
	"github.com/pdiddy/adoc-split/pkg/types"
)

var (
	// ErrUnresolvedReference is returned when no part defines a target.
	ErrUnresolvedReference = errors.New("unresolved reference")

	// ErrAmbiguousReference is returned when more than one part defines a
	// referenced target.
	ErrAmbiguousReference = errors.New("ambiguous reference")
)

// xrefRx matches <<target>> and <<target, label>>.
var xrefRx = regexp.MustCompile(`<<(.+?)(?:, *(.+?) *)?>>`)

// ReferenceError reports a cross-reference that could not be rewritten.
type ReferenceError struct {
	Target string
	// Part is the path of the part holding the reference.
	Part string
	// Line is the 1-based line within the part.
	Line int
	// Candidates lists the defining parts for an ambiguous target.
	Candidates []string
	Err        error
}

func (e *ReferenceError) Error() string {
	if errors.Is(e.Err, ErrAmbiguousReference) {
		return fmt.Sprintf("reference %s in %s line %d is defined in several parts: %s",
			e.Target, e.Part, e.Line, strings.Join(e.Candidates, ", "))
	}
	return fmt.Sprintf("couldn't find reference %s (in %s line %d)", e.Target, e.Part, e.Line)
}

func (e *ReferenceError) Unwrap() error { return e.Err }

// anchorIndex maps an anchor id to the indexes of the parts defining it.
type anchorIndex map[string][]int

func indexAnchors(parts []*types.Part) anchorIndex {
	idx := make(anchorIndex)
	for i, p := range parts {
		for id := range p.Refs {
			idx[id] = append(idx[id], i)
		}
	}
	return idx
}

// Duplicates returns, for every anchor defined by more than one part, the
// sorted paths of those parts.
func Duplicates(parts []*types.Part) map[string][]string {
	dups := make(map[string][]string)
	for id, owners := range indexAnchors(parts) {
		if len(owners) < 2 {
			continue
		}
		paths := make([]string, len(owners))
		for i, o := range owners {
			paths[i] = parts[o].Path
		}
		sort.Strings(paths)
		dups[id] = paths
	}
	return dups
}

// Rewrite returns copies of parts in which every reference to an anchor in
// another part is turned into xref:<path>#<target>[<label>]. References to
// anchors in the same part are left as they are, even when another part
// defines the same id, and so is anything inside
// listing, literal, passthrough and comment blocks. A reference to an anchor
// no part defines, or that several parts define, fails the whole rewrite.
func Rewrite(parts []*types.Part) ([]*types.Part, error) {
	idx := indexAnchors(parts)
	out := make([]*types.Part, len(parts))
	for i, p := range parts {
		content, err := rewritePart(i, parts, idx)
		if err != nil {
			return nil, err
		}
		cp := *p
		cp.Content = content
		out[i] = &cp
	}
	return out, nil
}

func rewritePart(self int, parts []*types.Part, idx anchorIndex) (string, error) {
	lines := strings.Split(parts[self].Content, "\n")
	verbatim := asciidoc.VerbatimLines(lines)
	for n, line := range lines {
		if verbatim[n] || !strings.Contains(line, "<<") {
			continue
		}
		rewritten, err := rewriteLine(line, self, parts, idx)
		if err != nil {
			var refErr *ReferenceError
			if errors.As(err, &refErr) {
				refErr.Part = parts[self].Path
				refErr.Line = n + 1
			}
			return "", err
		}
		lines[n] = rewritten
	}
	return strings.Join(lines, "\n"), nil
}

func rewriteLine(line string, self int, parts []*types.Part, idx anchorIndex) (string, error) {
	matches := xrefRx.FindAllStringSubmatchIndex(line, -1)
	if matches == nil {
		return line, nil
	}
	var b strings.Builder
	last := 0
	for _, m := range matches {
		target := line[m[2]:m[3]]
		label := ""
		if m[4] >= 0 {
			label = line[m[4]:m[5]]
		}

		owners := idx[target]
		if slices.Contains(owners, self) {
			owners = []int{self}
		}
		switch {
		case len(owners) == 0:
			return "", &ReferenceError{Target: target, Err: ErrUnresolvedReference}
		case len(owners) > 1:
			candidates := make([]string, len(owners))
			for i, o := range owners {
				candidates[i] = parts[o].Path
			}
			sort.Strings(candidates)
			return "", &ReferenceError{Target: target, Candidates: candidates, Err: ErrAmbiguousReference}
		}

		b.WriteString(line[last:m[0]])
		if owners[0] == self {
			b.WriteString(line[m[0]:m[1]])
		} else {
			fmt.Fprintf(&b, "xref:%s#%s[%s]", parts[owners[0]].Path, target, label)
		}
		last = m[1]
	}
	b.WriteString(line[last:])
	return b.String(), nil
}
