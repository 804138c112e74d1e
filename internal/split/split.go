// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package split turns one AsciiDoc document into a set of parts, one per
// split section, with headings demoted to the top level and cross-references
// between parts rewritten into xref links.
//
// Splitting is opt-in: a section marked [%split] puts each of its child
// sections into a file of its own, [split=N] does the same N levels deep,
// and [split=0] stops a countdown inherited from an ancestor.
package split

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/gosimple/slug"

	"github.com/pdiddy/adoc-split/internal/asciidoc"
	"github.com/pdiddy/adoc-split/pkg/types"
)

// ErrDuplicatePath is returned when two sections map to the same output file.
var ErrDuplicatePath = errors.New("duplicate output path")

// AnchorParser re-parses a text fragment and returns the anchors it defines.
type AnchorParser interface {
	Anchors(fragment string) (map[string]struct{}, error)
}

// Source is a parsed document: its section tree, its raw lines and the
// ability to parse fragments of it. *asciidoc.Document implements it.
type Source interface {
	AnchorParser
	Sections() []*asciidoc.Section
	SourceLines() []string
}

// Namer maps a section title to a path-safe identifier.
type Namer func(title string) string

// fallbackName is used for titles that slug to nothing, e.g. "!!!".
const fallbackName = "section"

// Slug is the default Namer: lowercase, transliterated, hyphen-separated.
func Slug(title string) string {
	if s := slug.Make(title); s != "" {
		return s
	}
	return fallbackName
}

// Result is the in-memory outcome of a split.
type Result struct {
	Sections []types.Section
	Parts    []*types.Part
	Nav      string

	// Warnings lists anchors defined in more than one part. They only fail
	// the split when referenced from a part that does not define them.
	Warnings []string
}

// Split runs the whole transformation: extract the section descriptors,
// build every part, then rewrite references across the complete part list.
// Nothing is written; any error aborts the run.
func Split(src Source, cfg types.Config, name Namer) (*Result, error) {
	if name == nil {
		name = Slug
	}
	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	sections, err := Extract(src, cfg, name)
	if err != nil {
		return nil, err
	}
	built, err := BuildParts(sections, src.SourceLines(), src, cfg.Extension)
	if err != nil {
		return nil, err
	}
	parts, err := Rewrite(built)
	if err != nil {
		return nil, fmt.Errorf("rewriting references: %w", err)
	}

	return &Result{
		Sections: sections,
		Parts:    parts,
		Nav:      Nav(parts),
		Warnings: duplicateWarnings(built),
	}, nil
}

func duplicateWarnings(parts []*types.Part) []string {
	dups := Duplicates(parts)
	ids := make([]string, 0, len(dups))
	for id := range dups {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	warnings := make([]string, len(ids))
	for i, id := range ids {
		warnings[i] = fmt.Sprintf("anchor %s is defined in several parts: %s", id, strings.Join(dups[id], ", "))
	}
	return warnings
}
