// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package asciidoc reads the section structure of AsciiDoc sources: the
// section tree with 1-based heading lines and block attributes, the raw
// source lines, and the anchors a text fragment defines. It is a structural
// scanner, not a renderer.
package asciidoc

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
	"unicode/utf8"
)

// ErrInvalidEncoding is returned for sources that are not valid UTF-8.
var ErrInvalidEncoding = errors.New("source is not valid UTF-8")

// Section is one titled section in the tree.
type Section struct {
	Title string

	// Level is the number of heading markers minus one ("== A" is level 1).
	Level int

	// Line is the 1-based source line of the heading.
	Line int

	// MetaLine is the 1-based line of the first block attribute or anchor
	// line attached to the heading, or Line when there is none.
	MetaLine int

	// ID is the explicit or generated anchor of the section. It is empty
	// when the sectids attribute is unset and no explicit id was given.
	ID string

	// Attributes holds the block attributes attached to the heading. Named
	// attributes keep their name, options are stored as "<name>-option" and
	// the first positional attribute as "style".
	Attributes map[string]string

	Sections []*Section
}

// Attribute returns the named block attribute.
func (s *Section) Attribute(name string) (string, bool) {
	v, ok := s.Attributes[name]
	return v, ok
}

// HasOption reports whether the section carries the option, e.g. [%split].
func (s *Section) HasOption(name string) bool {
	_, ok := s.Attributes[name+"-option"]
	return ok
}

// Document is a parsed AsciiDoc source.
type Document struct {
	title    string
	attrs    map[string]string
	sections []*Section
	lines    []string
	anchors  map[string]struct{}
	ids      idSettings
	warnings []string
}

// Load reads and parses the file at path.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	doc, err := Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return doc, nil
}

// Parse scans src into a Document.
func Parse(src string) (*Document, error) {
	if !utf8.ValidString(src) {
		return nil, ErrInvalidEncoding
	}
	s := newScanner(SplitLines(src), defaultIDSettings(), false)
	s.run()
	return &Document{
		title:    s.title,
		attrs:    s.attrs,
		sections: s.top,
		lines:    s.lines,
		anchors:  s.anchors,
		ids:      s.headerIDs,
		warnings: s.warnings,
	}, nil
}

// SplitLines splits src into lines without their terminators. A final
// newline does not produce a trailing empty line.
func SplitLines(src string) []string {
	if src == "" {
		return nil
	}
	lines := strings.Split(src, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// Title returns the document title, or "" when the source has no header.
func (d *Document) Title() string { return d.title }

// Attribute returns a document attribute set by an attribute entry.
func (d *Document) Attribute(name string) (string, bool) {
	v, ok := d.attrs[name]
	return v, ok
}

// Sections returns the top-level sections in document order.
func (d *Document) Sections() []*Section { return d.sections }

// SourceLines returns a copy of the source lines.
func (d *Document) SourceLines() []string { return slices.Clone(d.lines) }

// Refs returns every anchor defined in the document.
func (d *Document) Refs() map[string]struct{} { return d.anchors }

// Warnings lists non-fatal problems found while scanning, such as
// unterminated delimited blocks.
func (d *Document) Warnings() []string { return d.warnings }

// Anchors parses fragment on its own and returns the anchors it defines.
// Section ids are generated with the id prefix and separator of this
// document's header, so a fragment sliced from it yields the same ids.
// Every heading in the fragment registers its id, including a level-0
// heading that would otherwise be read as a document title.
func (d *Document) Anchors(fragment string) (map[string]struct{}, error) {
	return anchors(fragment, d.ids)
}

// Anchors returns the anchors a standalone fragment defines, using the
// default id prefix and separator.
func Anchors(fragment string) (map[string]struct{}, error) {
	return anchors(fragment, defaultIDSettings())
}

func anchors(fragment string, ids idSettings) (map[string]struct{}, error) {
	if !utf8.ValidString(fragment) {
		return nil, ErrInvalidEncoding
	}
	s := newScanner(SplitLines(fragment), ids, true)
	s.run()
	return s.anchors, nil
}
