// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package output

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/pdiddy/adoc-split/pkg/types"
)

// Publish writes parts and nav for source. With cfg.Manifest it also records
// the run in the manifest, and with cfg.Prune it deletes pages an earlier
// run of the same source wrote that this run no longer produces. Without
// Prune such pages are reported on w and left in place.
func Publish(ctx context.Context, source string, parts []*types.Part, nav string, cfg types.Config, w io.Writer) (Summary, error) {
	cfg = cfg.WithDefaults()
	summary, err := WritePages(ctx, parts, nav, cfg, w)
	if err != nil {
		return summary, err
	}
	if !cfg.Manifest {
		return summary, nil
	}

	key, err := filepath.Abs(source)
	if err != nil {
		return summary, fmt.Errorf("resolving %s: %w", source, err)
	}
	m, err := OpenManifest(cfg.OutputDir)
	if err != nil {
		return summary, err
	}
	defer m.Close()

	stale, err := m.Stale(ctx, key, parts)
	if err != nil {
		return summary, err
	}
	if cfg.Prune {
		n, err := Prune(stale, cfg, w)
		summary.Pruned = n
		if err != nil {
			return summary, err
		}
		if err := m.Forget(ctx, stale); err != nil {
			return summary, fmt.Errorf("updating manifest: %w", err)
		}
	} else if len(stale) > 0 {
		fmt.Fprintf(w, "stale: %d page(s) from an earlier run are no longer produced (use --prune to remove them)\n", len(stale))
	}

	if err := m.Record(ctx, key, parts); err != nil {
		return summary, fmt.Errorf("recording manifest: %w", err)
	}
	return summary, nil
}
