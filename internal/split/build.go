// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package split

import (
	"fmt"
	"slices"
	"strings"

	"github.com/pdiddy/adoc-split/pkg/types"
)

const headingMarker = '='

// Demote strips levels heading markers from line, one per pass, as long as
// the marker run is at least two long and followed by a space. Lines that
// are not headings are returned unchanged.
func Demote(line string, levels int) string {
	for range levels {
		n := 0
		for n < len(line) && line[n] == headingMarker {
			n++
		}
		if n < 2 || n >= len(line) || line[n] != ' ' {
			return line
		}
		line = line[1:]
	}
	return line
}

// PartPath derives the output path of a part: split ancestors become
// directories and the name becomes the file name.
func PartPath(parents []string, name, ext string) string {
	file := name + "." + ext
	if len(parents) == 0 {
		return file
	}
	return strings.Join(parents, "/") + "/" + file
}

// BuildPart slices the lines of sec out of lines, demotes its headings by
// the section depth plus one and collects the anchors the result defines.
func BuildPart(sec types.Section, lines []string, parser AnchorParser, ext string) (*types.Part, error) {
	end := sec.EndLine
	if end == types.EndOfDocument || end > len(lines) {
		end = len(lines)
	}
	start := min(max(sec.StartLine, 0), end)
	slice := lines[start:end]

	demoted := make([]string, len(slice))
	for i, l := range slice {
		demoted[i] = Demote(l, sec.Depth()+1)
	}
	content := strings.Join(demoted, "\n")

	path := PartPath(sec.ParentSections, sec.Name, ext)
	refs, err := parser.Anchors(content)
	if err != nil {
		return nil, fmt.Errorf("collecting anchors of %s: %w", path, err)
	}

	return &types.Part{
		Name:           sec.Name,
		ParentSections: slices.Clone(sec.ParentSections),
		Path:           path,
		StartLine:      start,
		EndLine:        end,
		Original:       strings.Join(slice, "\n"),
		Content:        content,
		Refs:           refs,
	}, nil
}

// BuildParts builds one part per section, in order.
func BuildParts(sections []types.Section, lines []string, parser AnchorParser, ext string) ([]*types.Part, error) {
	parts := make([]*types.Part, 0, len(sections))
	seen := make(map[string]int, len(sections))
	for i, sec := range sections {
		p, err := BuildPart(sec, lines, parser, ext)
		if err != nil {
			return nil, err
		}
		if j, dup := seen[p.Path]; dup {
			return nil, fmt.Errorf("%w: %s (sections %d and %d)", ErrDuplicatePath, p.Path, j+1, i+1)
		}
		seen[p.Path] = i
		parts = append(parts, p)
	}
	return parts, nil
}
