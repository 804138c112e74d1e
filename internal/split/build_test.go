// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package split

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/adoc-split/internal/asciidoc"
	"github.com/pdiddy/adoc-split/pkg/types"
)

// failingParser rejects every fragment.
type failingParser struct{ err error }

func (f failingParser) Anchors(string) (map[string]struct{}, error) {
	return nil, f.err
}

func TestDemote(t *testing.T) {
	tests := []struct {
		line   string
		levels int
		want   string
	}{
		{"== Intro", 1, "= Intro"},
		{"=== Install", 1, "== Install"},
		{"=== Install", 2, "= Install"},
		{"==== Linux", 3, "= Linux"},
		{"== Only one left", 3, "= Only one left"},
		{"= Title", 1, "= Title"},
		{"====", 1, "===="},
		{"==no space", 1, "==no space"},
		{"==\ttab", 1, "==\ttab"},
		{"text == not a heading", 1, "text == not a heading"},
		{"== Intro", 0, "== Intro"},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			assert.Equal(t, tt.want, Demote(tt.line, tt.levels))
		})
	}
}

func TestPartPath(t *testing.T) {
	assert.Equal(t, "intro.adoc", PartPath(nil, "intro", "adoc"))
	assert.Equal(t, "setup/install.adoc", PartPath([]string{"setup"}, "install", "adoc"))
	assert.Equal(t, "a/b/c.txt", PartPath([]string{"a", "b"}, "c", "txt"))
}

func TestBuildPart(t *testing.T) {
	doc := parse(t, manual)
	lines := doc.SourceLines()

	sec := types.Section{Name: "configure", ParentSections: []string{"setup"}, StartLine: 15, EndLine: 19}
	p, err := BuildPart(sec, lines, doc, "adoc")
	require.NoError(t, err)

	assert.Equal(t, "setup/configure.adoc", p.Path)
	assert.Equal(t, "[split=0]\n=== Configure\n\n==== Files", p.Original)
	assert.Equal(t, "[split=0]\n= Configure\n\n== Files", p.Content)
	assert.True(t, p.Defines("_configure"))
	assert.True(t, p.Defines("_files"))
	assert.False(t, p.Defines("_setup"))
	assert.Equal(t, 1, p.Depth())
}

func TestBuildPart_ToEndOfDocument(t *testing.T) {
	lines := asciidoc.SplitLines("== A\n\ntext\n")
	p, err := BuildPart(types.Section{Name: "a", StartLine: 0, EndLine: types.EndOfDocument}, lines, parse(t, ""), "adoc")
	require.NoError(t, err)
	assert.Equal(t, "= A\n\ntext", p.Content)
	assert.Equal(t, 3, p.EndLine)
}

func TestBuildPart_ParentsAreCopied(t *testing.T) {
	parents := []string{"setup"}
	p, err := BuildPart(types.Section{Name: "x", ParentSections: parents, EndLine: types.EndOfDocument}, nil, parse(t, ""), "adoc")
	require.NoError(t, err)
	parents[0] = "changed"
	assert.Equal(t, []string{"setup"}, p.ParentSections)
}

func TestBuildPart_ParseFailure(t *testing.T) {
	boom := errors.New("boom")
	_, err := BuildPart(types.Section{Name: "a", EndLine: types.EndOfDocument}, []string{"== A"}, failingParser{boom}, "adoc")
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "a.adoc")
}

func TestBuildParts_DuplicatePath(t *testing.T) {
	doc := parse(t, "== Notes\n\n== Notes\n")
	sections, err := Extract(doc, types.DefaultConfig(), Slug)
	require.NoError(t, err)

	_, err = BuildParts(sections, doc.SourceLines(), doc, "adoc")
	require.ErrorIs(t, err, ErrDuplicatePath)
	assert.Contains(t, err.Error(), "notes.adoc")
}

func TestBuildParts_DemotionIsDepthConsistent(t *testing.T) {
	doc := parse(t, manual)
	sections, err := Extract(doc, types.DefaultConfig(), Slug)
	require.NoError(t, err)
	parts, err := BuildParts(sections, doc.SourceLines(), doc, "adoc")
	require.NoError(t, err)

	for _, p := range parts {
		original := strings.Split(p.Original, "\n")
		demoted := strings.Split(p.Content, "\n")
		require.Len(t, demoted, len(original))
		for i := range original {
			before := markerRun(original[i])
			after := markerRun(demoted[i])
			if before < 2 {
				assert.Equal(t, original[i], demoted[i], "%s: non-heading lines are untouched", p.Path)
				continue
			}
			assert.Equal(t, max(before-(p.Depth()+1), 1), after, "%s: %q", p.Path, original[i])
		}
	}
}

func markerRun(line string) int {
	n := 0
	for n < len(line) && line[n] == '=' {
		n++
	}
	if n == len(line) || line[n] != ' ' {
		return 0
	}
	return n
}
