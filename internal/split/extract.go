// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package split

import (
	"slices"
	"strings"

	"github.com/pdiddy/adoc-split/internal/asciidoc"
	"github.com/pdiddy/adoc-split/pkg/types"
)

// extractor walks the section tree and emits one descriptor per split root.
type extractor struct {
	name   Namer
	offset int
}

// walk returns the descriptors for secs and their split descendants in
// document order. floor is the first line a slice may start at (just past
// the previous heading); the returned floor is the one for the next sibling.
func (e extractor) walk(secs []*asciidoc.Section, parents []string, countdown, floor int) ([]types.Section, int, error) {
	var out []types.Section
	for _, s := range secs {
		name := e.name(s.Title)
		out = append(out, types.Section{
			Name:           name,
			ParentSections: parents,
			StartLine:      max(e.start(s), floor),
			EndLine:        types.EndOfDocument,
		})
		floor = s.Line

		effective, err := childCountdown(s, countdown)
		if err != nil {
			return nil, 0, err
		}
		if effective <= 0 {
			// Embedded subsections stay in this slice.
			floor = lastHeading(s)
			continue
		}
		chain := append(slices.Clip(parents), name)
		children, next, err := e.walk(s.Sections, chain, effective-1, floor)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, children...)
		floor = next
	}
	return out, floor, nil
}

// start is the 0-based first line of s: offset lines above the heading, or
// further up when more block attribute and anchor lines are attached to it.
func (e extractor) start(s *asciidoc.Section) int {
	start := s.Line - e.offset
	if s.MetaLine > 0 {
		start = min(start, s.MetaLine-1)
	}
	return start
}

// lastHeading returns the line of the last heading in the subtree of s.
func lastHeading(s *asciidoc.Section) int {
	for len(s.Sections) > 0 {
		s = s.Sections[len(s.Sections)-1]
	}
	return s.Line
}

// Extract returns the section descriptors of src with their line ranges
// resolved. With cfg.Preamble set to keep, content before the first section
// becomes a leading descriptor named cfg.PreambleName; a preamble of blank
// lines is folded into the first section instead.
func Extract(src Source, cfg types.Config, name Namer) ([]types.Section, error) {
	e := extractor{name: name, offset: cfg.LineOffset}
	sections, _, err := e.walk(src.Sections(), nil, cfg.SplitDepth, 0)
	if err != nil {
		return nil, err
	}
	if cfg.Preamble == types.PreambleKeep {
		sections = withPreamble(sections, src.SourceLines(), cfg.PreambleName)
	}
	return ResolveEnds(sections), nil
}

func withPreamble(sections []types.Section, lines []string, name string) []types.Section {
	head := len(lines)
	if len(sections) > 0 {
		head = sections[0].StartLine
	}
	if head == 0 {
		return sections
	}
	if blank(lines[:head]) {
		if len(sections) == 0 {
			return sections
		}
		first := sections[0]
		first.StartLine = 0
		return append([]types.Section{first}, sections[1:]...)
	}
	preamble := types.Section{Name: name, StartLine: 0, EndLine: types.EndOfDocument}
	return append([]types.Section{preamble}, sections...)
}

func blank(lines []string) bool {
	for _, l := range lines {
		if strings.TrimSpace(l) != "" {
			return false
		}
	}
	return true
}

// ResolveEnds returns a copy of sections in which every section ends where
// its successor starts and the last one runs to the end of the document.
// sections must be in document order.
func ResolveEnds(sections []types.Section) []types.Section {
	out := make([]types.Section, len(sections))
	end := types.EndOfDocument
	for i := len(sections) - 1; i >= 0; i-- {
		s := sections[i]
		s.EndLine = end
		out[i] = s
		end = s.StartLine
	}
	return out
}
