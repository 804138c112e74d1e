// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package asciidoc

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const guide = `= Operator Guide
:toc:

Welcome text.

== Intro

See <<install-step, see install>>.

[%split]
== Setup

=== Install

[[install-step]]
. Run the installer.

----
== Not a heading
----

=== Configure

[split=2]
== Reference

[discrete]
=== Aside
`

func sectionTitles(secs []*Section) []string {
	titles := make([]string, len(secs))
	for i, s := range secs {
		titles[i] = s.Title
	}
	return titles
}

func sortedKeys(m map[string]struct{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func TestParse_Tree(t *testing.T) {
	doc, err := Parse(guide)
	require.NoError(t, err)

	assert.Equal(t, "Operator Guide", doc.Title())
	toc, ok := doc.Attribute("toc")
	assert.True(t, ok)
	assert.Equal(t, "", toc)

	top := doc.Sections()
	require.Equal(t, []string{"Intro", "Setup", "Reference"}, sectionTitles(top))
	assert.Equal(t, 6, top[0].Line)
	assert.Equal(t, 1, top[0].Level)
	assert.Equal(t, "_intro", top[0].ID)

	setup := top[1]
	assert.Equal(t, 11, setup.Line)
	assert.True(t, setup.HasOption("split"))
	_, hasSplit := setup.Attribute("split")
	assert.False(t, hasSplit)
	require.Equal(t, []string{"Install", "Configure"}, sectionTitles(setup.Sections))
	assert.Equal(t, 2, setup.Sections[0].Level)

	ref := top[2]
	v, ok := ref.Attribute("split")
	assert.True(t, ok)
	assert.Equal(t, "2", v)
	assert.Empty(t, ref.Sections, "discrete headings are not sections")
}

func TestParse_SourceLines(t *testing.T) {
	doc, err := Parse("== A\r\ntext\n\n== B\n")
	require.NoError(t, err)

	lines := doc.SourceLines()
	assert.Equal(t, []string{"== A\r", "text", "", "== B"}, lines)
	assert.Equal(t, []string{"A", "B"}, sectionTitles(doc.Sections()))

	lines[0] = "changed"
	assert.Equal(t, "== A\r", doc.SourceLines()[0], "SourceLines returns a copy")
}

func TestParse_Refs(t *testing.T) {
	doc, err := Parse(guide)
	require.NoError(t, err)

	assert.Equal(t,
		[]string{"_aside", "_configure", "_install", "_intro", "_reference", "_setup", "install-step"},
		sortedKeys(doc.Refs()))
}

func TestParse_InvalidEncoding(t *testing.T) {
	_, err := Parse("== A\n\xff\xfe")
	assert.ErrorIs(t, err, ErrInvalidEncoding)
}

func TestParse_UnterminatedBlockWarns(t *testing.T) {
	doc, err := Parse("== A\n\n----\n== B\n")
	require.NoError(t, err)

	assert.Equal(t, []string{"A"}, sectionTitles(doc.Sections()))
	require.Len(t, doc.Warnings(), 1)
	assert.Contains(t, doc.Warnings()[0], "line 3")
}

func TestParse_ExplicitIDs(t *testing.T) {
	src := strings.Join([]string{
		"[[first]]",
		"== One",
		"",
		"[#second.role%split]",
		"== Two",
		"",
		"[id=third]",
		"== Three",
		"",
		"== Four [[fourth]]",
	}, "\n")
	doc, err := Parse(src)
	require.NoError(t, err)

	secs := doc.Sections()
	require.Len(t, secs, 4)
	assert.Equal(t, "first", secs[0].ID)
	assert.Equal(t, "second", secs[1].ID)
	assert.True(t, secs[1].HasOption("split"))
	role, _ := secs[1].Attribute("role")
	assert.Equal(t, "role", role)
	assert.Equal(t, "third", secs[2].ID)
	assert.Equal(t, "fourth", secs[3].ID)
	assert.Equal(t, "Four", secs[3].Title)
}

func TestAnchors(t *testing.T) {
	tests := []struct {
		name     string
		fragment string
		want     []string
	}{
		{
			name:     "demoted split root registers its id",
			fragment: "\n= Setup\n\n== Install\n",
			want:     []string{"_install", "_setup"},
		},
		{
			name:     "inline block and macro anchors",
			fragment: "Text [[a1]] and anchor:a2[] and [#a3]#phrase#.\n\n[#a4]\n----\ncode [[hidden]]\n----\n\n* [[[bib]]] Book",
			want:     []string{"a1", "a2", "a3", "a4", "bib"},
		},
		{
			name:     "duplicate titles get numbered ids",
			fragment: "== Notes\n\n== Notes\n\n== Notes\n",
			want:     []string{"_notes", "_notes_2", "_notes_3"},
		},
		{
			name:     "id prefix and separator entries",
			fragment: ":idprefix:\n:idseparator: -\n\n== Getting Started. Now\n",
			want:     []string{"getting-started-now"},
		},
		{
			name:     "sectids unset disables generated ids",
			fragment: ":sectids!:\n\n== Plain\n\n[[kept]]\n== Kept\n",
			want:     []string{"kept"},
		},
		{
			name:     "headings in fenced code are ignored",
			fragment: "```sh\n== not\n```\n",
			want:     []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Anchors(tt.fragment)
			require.NoError(t, err)
			assert.Equal(t, tt.want, sortedKeys(got))
		})
	}
}

func TestDocument_AnchorsUseHeaderIDSettings(t *testing.T) {
	doc, err := Parse("= Doc\n:idprefix: sec-\n:idseparator: -\n\n== First Part\n")
	require.NoError(t, err)
	assert.Equal(t, "sec-first-part", doc.Sections()[0].ID)

	got, err := doc.Anchors("= First Part\n")
	require.NoError(t, err)
	assert.Equal(t, []string{"sec-first-part"}, sortedKeys(got))
}

func TestGenerateID(t *testing.T) {
	ids := defaultIDSettings()
	tests := []struct {
		title string
		want  string
	}{
		{"Getting Started", "_getting_started"},
		{"1. Overview", "_1_overview"},
		{"What's *new*?", "_whats_new"},
		{"Café & Crème", "_café_crème"},
		{"<b>Bold</b> move", "_bold_move"},
		{"trailing_", "_trailing"},
	}
	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			assert.Equal(t, tt.want, ids.generate(tt.title))
		})
	}
}

func TestVerbatimLines(t *testing.T) {
	lines := []string{"a", "----", "<<x>>", "----", "b", "....", "lit", "....", "```go", "code", "```", "c"}
	want := []bool{false, true, true, true, false, true, true, true, true, true, true, false}
	assert.Equal(t, want, VerbatimLines(lines))
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "guide.adoc")
	require.NoError(t, os.WriteFile(path, []byte(guide), 0o644))

	doc, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, doc.Sections(), 3)

	_, err = Load(filepath.Join(dir, "missing.adoc"))
	assert.Error(t, err)
}

func TestParse_MetaLine(t *testing.T) {
	doc, err := Parse("== A\n\n[[b]]\n[%split]\n\n== B\n\n== C\n")
	require.NoError(t, err)

	secs := doc.Sections()
	require.Len(t, secs, 3)
	assert.Equal(t, 1, secs[0].MetaLine)
	assert.Equal(t, 3, secs[1].MetaLine)
	assert.Equal(t, 6, secs[1].Line)
	assert.Equal(t, "b", secs[1].ID)
	assert.Equal(t, secs[2].Line, secs[2].MetaLine)
}
