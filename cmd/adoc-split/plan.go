// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"os"
	"sort"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/adoc-split/internal/split"
)

var planCmd = &cobra.Command{
	Use:   "plan <file>",
	Short: "Show how a document would be split without writing anything",
	Long: `Plan runs the full split in memory, including reference rewriting, and
prints one entry per page: its path, the source lines it covers and the
anchors it defines. Unresolved references fail the plan just as they fail a
real run.`,
	Args: requireSource,
	RunE: runPlan,
}

// planEntry is the printed form of one part.
type planEntry struct {
	Path      string   `json:"path" yaml:"path"`
	Parents   []string `json:"parents,omitempty" yaml:"parents,omitempty"`
	StartLine int      `json:"start_line" yaml:"start_line"`
	EndLine   int      `json:"end_line" yaml:"end_line"`
	Anchors   []string `json:"anchors,omitempty" yaml:"anchors,omitempty"`
}

type plan struct {
	Pages    []planEntry `json:"pages" yaml:"pages"`
	Warnings []string    `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

func runPlan(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	res, err := splitFile(args[0], cfg, os.Stderr)
	if err != nil {
		return err
	}

	p := newPlan(res)
	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(p)
	}
	enc := yaml.NewEncoder(os.Stdout)
	enc.SetIndent(2)
	defer enc.Close()
	return enc.Encode(p)
}

// newPlan reports line numbers 1-based and inclusive, as editors show them.
func newPlan(res *split.Result) plan {
	p := plan{Pages: make([]planEntry, len(res.Parts)), Warnings: res.Warnings}
	for i, part := range res.Parts {
		anchors := make([]string, 0, len(part.Refs))
		for id := range part.Refs {
			anchors = append(anchors, id)
		}
		sort.Strings(anchors)
		p.Pages[i] = planEntry{
			Path:      part.Path,
			Parents:   part.ParentSections,
			StartLine: part.StartLine + 1,
			EndLine:   part.EndLine,
			Anchors:   anchors,
		}
	}
	return p
}

func init() {
	planCmd.Flags().Bool("json", false, "output the plan as JSON")

	rootCmd.AddCommand(planCmd)
}
