// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "fmt"

// PreambleMode controls what happens to lines before the first section.
type PreambleMode string

const (
	// PreambleKeep emits the document header and preamble as their own part.
	PreambleKeep PreambleMode = "keep"
	// PreambleDrop discards them.
	PreambleDrop PreambleMode = "drop"
)

// Default values applied by Config.WithDefaults.
const (
	DefaultOutputDir    = "target"
	DefaultPagesDir     = "pages"
	DefaultNavFile      = "nav.adoc"
	DefaultExtension    = "adoc"
	DefaultLineOffset   = 2
	DefaultPreambleName = "index"
	DefaultWorkers      = 4
	ManifestFile        = ".adoc-split.db"
)

// Config holds settings for a split run.
type Config struct {
	// OutputDir is the output root; pages land in OutputDir/PagesDir and the
	// navigation file in OutputDir/NavFile.
	OutputDir string `json:"output_dir" yaml:"output_dir" mapstructure:"output_dir"`

	PagesDir string `json:"pages_dir" yaml:"pages_dir" mapstructure:"pages_dir"`

	NavFile string `json:"nav_file" yaml:"nav_file" mapstructure:"nav_file"`

	// Extension is appended to every part path, without the dot.
	Extension string `json:"extension" yaml:"extension" mapstructure:"extension"`

	// LineOffset is subtracted from a section's 1-based heading line to get
	// the 0-based start of its slice (heading plus the separator above it).
	LineOffset int `json:"line_offset" yaml:"line_offset" mapstructure:"line_offset"`

	// SplitDepth is the countdown in effect at the document root (default 0:
	// nothing splits unless a section asks for it).
	SplitDepth int `json:"split_depth" yaml:"split_depth" mapstructure:"split_depth"`

	Preamble PreambleMode `json:"preamble" yaml:"preamble" mapstructure:"preamble"`

	// PreambleName is the part name used for the preamble in keep mode.
	PreambleName string `json:"preamble_name" yaml:"preamble_name" mapstructure:"preamble_name"`

	// Workers bounds the number of concurrent file writes.
	Workers int `json:"workers" yaml:"workers" mapstructure:"workers"`

	// Prune removes pages written by an earlier run of the same source that
	// the current run no longer produces.
	Prune bool `json:"prune" yaml:"prune" mapstructure:"prune"`

	// Manifest enables the SQLite output manifest.
	Manifest bool `json:"manifest" yaml:"manifest" mapstructure:"manifest"`
}

// DefaultConfig returns the settings matching a plain `adoc-split <file>` run.
func DefaultConfig() Config {
	return Config{
		OutputDir:    DefaultOutputDir,
		PagesDir:     DefaultPagesDir,
		NavFile:      DefaultNavFile,
		Extension:    DefaultExtension,
		LineOffset:   DefaultLineOffset,
		Preamble:     PreambleKeep,
		PreambleName: DefaultPreambleName,
		Workers:      DefaultWorkers,
		Manifest:     true,
	}
}

// WithDefaults fills zero-valued fields from DefaultConfig.
// SplitDepth, LineOffset, Prune and Manifest are taken as given.
func (c Config) WithDefaults() Config {
	d := DefaultConfig()
	if c.OutputDir == "" {
		c.OutputDir = d.OutputDir
	}
	if c.PagesDir == "" {
		c.PagesDir = d.PagesDir
	}
	if c.NavFile == "" {
		c.NavFile = d.NavFile
	}
	if c.Extension == "" {
		c.Extension = d.Extension
	}
	if c.Preamble == "" {
		c.Preamble = d.Preamble
	}
	if c.PreambleName == "" {
		c.PreambleName = d.PreambleName
	}
	if c.Workers <= 0 {
		c.Workers = d.Workers
	}
	return c
}

// Validate checks values that have no sensible fallback.
func (c Config) Validate() error {
	switch c.Preamble {
	case PreambleKeep, PreambleDrop:
	default:
		return fmt.Errorf("unsupported preamble mode %q: use keep or drop", c.Preamble)
	}
	if c.SplitDepth < 0 {
		return fmt.Errorf("split depth must be >= 0, got %d", c.SplitDepth)
	}
	if c.LineOffset < 0 {
		return fmt.Errorf("line offset must be >= 0, got %d", c.LineOffset)
	}
	return nil
}
