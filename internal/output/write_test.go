// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package output

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/adoc-split/pkg/types"
)

func testConfig(t *testing.T) types.Config {
	t.Helper()
	cfg := types.DefaultConfig()
	cfg.OutputDir = t.TempDir()
	cfg.Workers = 2
	return cfg
}

func testParts() []*types.Part {
	return []*types.Part{
		{Name: "intro", Path: "intro.adoc", Content: "= Intro", Refs: map[string]struct{}{"_intro": {}}},
		{Name: "setup", Path: "setup.adoc", Content: "= Setup\n", Refs: map[string]struct{}{"_setup": {}}},
		{Name: "install", ParentSections: []string{"setup"}, Path: "setup/install.adoc", Content: "= Install", Refs: map[string]struct{}{"_install": {}, "install-step": {}}},
	}
}

const testNav = "* xref:intro.adoc[]\n* xref:setup.adoc[]\n** xref:setup/install.adoc[]"

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestWritePages_Layout(t *testing.T) {
	cfg := testConfig(t)
	var out bytes.Buffer

	sum, err := WritePages(context.Background(), testParts(), testNav, cfg, &out)
	require.NoError(t, err)
	assert.Equal(t, Summary{Written: 4}, sum)

	assert.Equal(t, "= Intro\n", readFile(t, filepath.Join(cfg.OutputDir, "pages", "intro.adoc")))
	assert.Equal(t, "= Setup\n", readFile(t, filepath.Join(cfg.OutputDir, "pages", "setup.adoc")))
	assert.Equal(t, "= Install\n", readFile(t, filepath.Join(cfg.OutputDir, "pages", "setup", "install.adoc")))
	assert.Equal(t, testNav+"\n", readFile(t, filepath.Join(cfg.OutputDir, "nav.adoc")))

	assert.Equal(t,
		"wrote: pages/intro.adoc\nwrote: pages/setup.adoc\nwrote: pages/setup/install.adoc\nwrote: nav.adoc\n",
		out.String())

	leftovers, err := filepath.Glob(filepath.Join(cfg.OutputDir, "pages", ".*.tmp-*"))
	require.NoError(t, err)
	assert.Empty(t, leftovers)
}

func TestWritePages_UnchangedOnRerun(t *testing.T) {
	cfg := testConfig(t)
	ctx := context.Background()
	_, err := WritePages(ctx, testParts(), testNav, cfg, &bytes.Buffer{})
	require.NoError(t, err)

	parts := testParts()
	parts[0].Content = "= Intro\n\nNew text."
	var out bytes.Buffer
	sum, err := WritePages(ctx, parts, testNav, cfg, &out)
	require.NoError(t, err)

	assert.Equal(t, Summary{Written: 1, Unchanged: 3}, sum)
	assert.Contains(t, out.String(), "wrote: pages/intro.adoc\n")
	assert.Contains(t, out.String(), "unchanged: nav.adoc\n")
}

func TestWritePages_CanceledContext(t *testing.T) {
	cfg := testConfig(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := WritePages(ctx, testParts(), testNav, cfg, &bytes.Buffer{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.NoFileExists(t, NavPath(cfg))
	assert.NoFileExists(t, PagePath(cfg, "intro.adoc"))
}

func TestPrune(t *testing.T) {
	cfg := testConfig(t)
	_, err := WritePages(context.Background(), testParts(), testNav, cfg, &bytes.Buffer{})
	require.NoError(t, err)

	var out bytes.Buffer
	n, err := Prune([]string{"setup/install.adoc", "gone.adoc"}, cfg, &out)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	assert.NoFileExists(t, filepath.Join(cfg.OutputDir, "pages", "setup", "install.adoc"))
	assert.NoDirExists(t, filepath.Join(cfg.OutputDir, "pages", "setup"), "emptied directories are removed")
	assert.DirExists(t, filepath.Join(cfg.OutputDir, "pages"))
	assert.FileExists(t, filepath.Join(cfg.OutputDir, "pages", "setup.adoc"))
	assert.Contains(t, out.String(), "pruned: pages/setup/install.adoc\n")
}

func TestSummary_Total(t *testing.T) {
	assert.Equal(t, 6, Summary{Written: 1, Unchanged: 2, Pruned: 3}.Total())
}
