// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/adoc-split/internal/asciidoc"
	"github.com/pdiddy/adoc-split/internal/output"
	"github.com/pdiddy/adoc-split/internal/split"
	"github.com/pdiddy/adoc-split/pkg/types"
)

func runSplit(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	res, err := splitFile(args[0], cfg, os.Stderr)
	if err != nil {
		return err
	}

	summary, err := output.Publish(context.Background(), args[0], res.Parts, res.Nav, cfg, os.Stdout)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "\nSplit summary: %d parts, %d written, %d unchanged, %d pruned\n",
		len(res.Parts), summary.Written, summary.Unchanged, summary.Pruned)
	return nil
}

// splitFile loads and splits path in memory, printing parser and anchor
// warnings to diag.
func splitFile(path string, cfg types.Config, diag io.Writer) (*split.Result, error) {
	doc, err := asciidoc.Load(path)
	if err != nil {
		return nil, err
	}
	for _, w := range doc.Warnings() {
		fmt.Fprintf(diag, "warning: %s: %s\n", path, w)
	}

	res, err := split.Split(doc, cfg, split.Slug)
	if err != nil {
		return nil, fmt.Errorf("splitting %s: %w", path, err)
	}
	for _, w := range res.Warnings {
		fmt.Fprintf(diag, "warning: %s\n", w)
	}
	return res, nil
}
