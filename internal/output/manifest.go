// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package output

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/adoc-split/pkg/types"
)

// Manifest records which pages each source produced and which anchors
// those pages define. It lives in <output>/.adoc-split.db.
type Manifest struct {
	db *sql.DB
}

// PageRecord is one page row of the manifest.
type PageRecord struct {
	Path      string    `json:"path" yaml:"path"`
	Source    string    `json:"source" yaml:"source"`
	SHA256    string    `json:"sha256" yaml:"sha256"`
	WrittenAt time.Time `json:"written_at" yaml:"written_at"`
}

// AnchorLocation names the page that defines an anchor, ready to be used as
// an xref target.
type AnchorLocation struct {
	ID     string `json:"id" yaml:"id"`
	Path   string `json:"path" yaml:"path"`
	Source string `json:"source" yaml:"source"`
}

// Xref returns the xref macro for the location.
func (a AnchorLocation) Xref() string {
	return fmt.Sprintf("xref:%s#%s[]", a.Path, a.ID)
}

// OpenManifest opens or creates the manifest database under outputDir.
func OpenManifest(outputDir string) (*Manifest, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}
	dbPath := filepath.Join(outputDir, types.ManifestFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening manifest: %w", err)
	}
	m := &Manifest{db: db}
	if err := m.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating manifest schema: %w", err)
	}
	return m, nil
}

// Close releases the database connection.
func (m *Manifest) Close() error {
	return m.db.Close()
}

func (m *Manifest) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS pages (
			path TEXT PRIMARY KEY,
			source TEXT NOT NULL,
			sha256 TEXT NOT NULL,
			written_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_pages_source ON pages(source)`,
		`CREATE TABLE IF NOT EXISTS anchors (
			id TEXT NOT NULL,
			path TEXT NOT NULL REFERENCES pages(path) ON DELETE CASCADE,
			PRIMARY KEY (id, path)
		)`,
	}
	for _, stmt := range statements {
		if _, err := m.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Record stores parts as the pages of source, replacing earlier rows for
// the same paths and their anchors. Pages of source that parts does not
// contain stay recorded until Forget removes them.
func (m *Manifest) Record(ctx context.Context, source string, parts []*types.Part) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC().Format(time.RFC3339)
	for _, p := range parts {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR REPLACE INTO pages (path, source, sha256, written_at) VALUES (?, ?, ?, ?)`,
			p.Path, source, contentHash(p.Content), now,
		); err != nil {
			return fmt.Errorf("recording page %s: %w", p.Path, err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM anchors WHERE path = ?`, p.Path); err != nil {
			return fmt.Errorf("clearing anchors of %s: %w", p.Path, err)
		}
		for _, id := range sortedRefs(p) {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO anchors (id, path) VALUES (?, ?)`, id, p.Path,
			); err != nil {
				return fmt.Errorf("recording anchor %s: %w", id, err)
			}
		}
	}

	return tx.Commit()
}

// Forget drops the given pages and their anchors.
func (m *Manifest) Forget(ctx context.Context, paths []string) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for _, p := range paths {
		if _, err := tx.ExecContext(ctx, `DELETE FROM anchors WHERE path = ?`, p); err != nil {
			return fmt.Errorf("forgetting anchors of %s: %w", p, err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM pages WHERE path = ?`, p); err != nil {
			return fmt.Errorf("forgetting page %s: %w", p, err)
		}
	}
	return tx.Commit()
}

// Stale returns the recorded pages of source that parts no longer contains.
func (m *Manifest) Stale(ctx context.Context, source string, parts []*types.Part) ([]string, error) {
	current := make(map[string]bool, len(parts))
	for _, p := range parts {
		current[p.Path] = true
	}
	recorded, err := m.Pages(ctx, source)
	if err != nil {
		return nil, err
	}
	var stale []string
	for _, r := range recorded {
		if !current[r.Path] {
			stale = append(stale, r.Path)
		}
	}
	return stale, nil
}

// Pages returns the pages recorded for source, ordered by path.
func (m *Manifest) Pages(ctx context.Context, source string) ([]PageRecord, error) {
	rows, err := m.db.QueryContext(ctx,
		`SELECT path, source, sha256, written_at FROM pages WHERE source = ? ORDER BY path`, source)
	if err != nil {
		return nil, fmt.Errorf("querying pages: %w", err)
	}
	defer rows.Close()

	var pages []PageRecord
	for rows.Next() {
		var r PageRecord
		var writtenAt string
		if err := rows.Scan(&r.Path, &r.Source, &r.SHA256, &writtenAt); err != nil {
			return nil, fmt.Errorf("scanning page: %w", err)
		}
		r.WrittenAt, _ = time.Parse(time.RFC3339, writtenAt)
		pages = append(pages, r)
	}
	return pages, rows.Err()
}

// Lookup returns every recorded page that defines the anchor id.
func (m *Manifest) Lookup(ctx context.Context, id string) ([]AnchorLocation, error) {
	rows, err := m.db.QueryContext(ctx, `
		SELECT a.id, a.path, p.source
		FROM anchors a JOIN pages p ON p.path = a.path
		WHERE a.id = ?
		ORDER BY a.path`, id)
	if err != nil {
		return nil, fmt.Errorf("querying anchor %s: %w", id, err)
	}
	defer rows.Close()

	var locs []AnchorLocation
	for rows.Next() {
		var l AnchorLocation
		if err := rows.Scan(&l.ID, &l.Path, &l.Source); err != nil {
			return nil, fmt.Errorf("scanning anchor: %w", err)
		}
		locs = append(locs, l)
	}
	return locs, rows.Err()
}

func contentHash(content string) string {
	sum := sha256.Sum256(fileBody(content))
	return hex.EncodeToString(sum[:])
}

func sortedRefs(p *types.Part) []string {
	ids := make([]string, 0, len(p.Refs))
	for id := range p.Refs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
