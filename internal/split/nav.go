// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package split

import (
	"strings"

	"github.com/pdiddy/adoc-split/pkg/types"
)

// Nav renders the navigation outline: one "* xref:<path>[]" entry per part,
// nested by split depth, in part order. The empty link text lets the site
// generator fill in the page title.
func Nav(parts []*types.Part) string {
	entries := make([]string, len(parts))
	for i, p := range parts {
		entries[i] = strings.Repeat("*", p.Depth()+1) + " xref:" + p.Path + "[]"
	}
	return strings.Join(entries, "\n")
}
