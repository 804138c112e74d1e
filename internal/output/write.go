// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package output publishes split parts to disk in the Antora layout
// (<root>/pages/<path> plus <root>/nav.adoc) and keeps a manifest of what
// each run wrote.
package output

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/adoc-split/pkg/types"
)

// Status describes what happened to one output file.
type Status string

const (
	StatusWritten   Status = "wrote"
	StatusUnchanged Status = "unchanged"
	StatusPruned    Status = "pruned"
)

// Summary counts the outcome of a publish run.
type Summary struct {
	Written   int
	Unchanged int
	Pruned    int
}

// Total returns the number of files considered.
func (s Summary) Total() int {
	return s.Written + s.Unchanged + s.Pruned
}

// PagePath returns the file a part is written to.
func PagePath(cfg types.Config, partPath string) string {
	return filepath.Join(cfg.OutputDir, cfg.PagesDir, filepath.FromSlash(partPath))
}

// NavPath returns the navigation file location.
func NavPath(cfg types.Config) string {
	return filepath.Join(cfg.OutputDir, cfg.NavFile)
}

// WritePages writes every part and the navigation file. Files run through
// at most cfg.Workers concurrent writers; each goes to a temporary file that
// is renamed into place, and files whose bytes are unchanged are left alone.
// Per-file status lines are printed to w in part order once all writes are
// done.
func WritePages(ctx context.Context, parts []*types.Part, nav string, cfg types.Config, w io.Writer) (Summary, error) {
	cfg = cfg.WithDefaults()

	statuses := make([]Status, len(parts)+1)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)

	for i, p := range parts {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			changed, err := writeFile(PagePath(cfg, p.Path), fileBody(p.Content))
			if err != nil {
				return fmt.Errorf("writing %s: %w", p.Path, err)
			}
			statuses[i] = statusFor(changed)
			return nil
		})
	}
	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		changed, err := writeFile(NavPath(cfg), fileBody(nav))
		if err != nil {
			return fmt.Errorf("writing %s: %w", cfg.NavFile, err)
		}
		statuses[len(parts)] = statusFor(changed)
		return nil
	})

	if err := g.Wait(); err != nil {
		return Summary{}, err
	}

	var sum Summary
	for i, st := range statuses {
		name := cfg.NavFile
		if i < len(parts) {
			name = filepath.ToSlash(filepath.Join(cfg.PagesDir, parts[i].Path))
		}
		fmt.Fprintf(w, "%s: %s\n", st, name)
		if st == StatusWritten {
			sum.Written++
		} else {
			sum.Unchanged++
		}
	}
	return sum, nil
}

func statusFor(changed bool) Status {
	if changed {
		return StatusWritten
	}
	return StatusUnchanged
}

// fileBody terminates content with a newline.
func fileBody(content string) []byte {
	if strings.HasSuffix(content, "\n") {
		return []byte(content)
	}
	return []byte(content + "\n")
}

// writeFile replaces path with data through a rename. It reports false when
// the file already held exactly data.
func writeFile(path string, data []byte) (bool, error) {
	if existing, err := os.ReadFile(path); err == nil && bytes.Equal(existing, data) {
		return false, nil
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return false, fmt.Errorf("creating %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return false, err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return false, err
	}
	if err := tmp.Close(); err != nil {
		return false, err
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return false, err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return false, err
	}
	return true, nil
}

// Prune deletes previously written pages that the current run no longer
// produces and removes directories left empty under the pages root.
func Prune(stale []string, cfg types.Config, w io.Writer) (int, error) {
	cfg = cfg.WithDefaults()
	root := filepath.Join(cfg.OutputDir, cfg.PagesDir)
	pruned := 0
	for _, p := range stale {
		target := PagePath(cfg, p)
		if err := os.Remove(target); err != nil && !os.IsNotExist(err) {
			return pruned, fmt.Errorf("removing %s: %w", p, err)
		}
		removeEmptyParents(filepath.Dir(target), root)
		fmt.Fprintf(w, "%s: %s\n", StatusPruned, filepath.ToSlash(filepath.Join(cfg.PagesDir, p)))
		pruned++
	}
	return pruned, nil
}

func removeEmptyParents(dir, root string) {
	for dir != root && strings.HasPrefix(dir, root) {
		if err := os.Remove(dir); err != nil {
			return
		}
		dir = filepath.Dir(dir)
	}
}
