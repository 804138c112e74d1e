// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the data structures shared by the splitter, the
// output writer and the CLI.
package types

// EndOfDocument marks a section whose slice runs to the last source line.
const EndOfDocument = -1

// Section describes one output unit before its content is sliced.
// StartLine and EndLine are 0-based indexes into the source lines; the range
// is half-open.
type Section struct {
	// Name is the path-safe identifier derived from the section title.
	Name string `json:"name" yaml:"name"`

	// ParentSections lists the ancestors that were themselves split into
	// separate units, outermost first.
	ParentSections []string `json:"parent_sections,omitempty" yaml:"parent_sections,omitempty"`

	StartLine int `json:"start_line" yaml:"start_line"`

	// EndLine is EndOfDocument for the last section and before resolution.
	EndLine int `json:"end_line" yaml:"end_line"`
}

// Depth returns the number of split ancestors.
func (s Section) Depth() int {
	return len(s.ParentSections)
}

// Resolved reports whether EndLine points at a concrete line.
func (s Section) Resolved() bool {
	return s.EndLine != EndOfDocument
}

// Part is one output file built from a Section.
type Part struct {
	Name           string   `json:"name" yaml:"name"`
	ParentSections []string `json:"parent_sections,omitempty" yaml:"parent_sections,omitempty"`

	// Path is relative to the pages directory, e.g. "setup/install.adoc".
	Path string `json:"path" yaml:"path"`

	StartLine int `json:"start_line" yaml:"start_line"`
	EndLine   int `json:"end_line" yaml:"end_line"`

	// Original is the slice as it appears in the source, before heading demotion.
	Original string `json:"-" yaml:"-"`

	// Content is the demoted slice, and after rewriting, the file body.
	Content string `json:"-" yaml:"-"`

	// Refs holds every anchor id defined inside Content.
	Refs map[string]struct{} `json:"-" yaml:"-"`
}

// Defines reports whether the anchor id lives in this part.
func (p *Part) Defines(id string) bool {
	_, ok := p.Refs[id]
	return ok
}

// Depth returns the number of split ancestors.
func (p *Part) Depth() int {
	return len(p.ParentSections)
}
