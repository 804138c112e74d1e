// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/adoc-split/internal/output"
)

var lookupCmd = &cobra.Command{
	Use:   "lookup <anchor>",
	Short: "Find the page that defines an anchor",
	Long: `Lookup queries the manifest written by earlier runs and prints the xref
for every page that defines the anchor, so other documents can link to it.`,
	Args: cobra.ExactArgs(1),
	RunE: runLookup,
}

func runLookup(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	m, err := output.OpenManifest(cfg.OutputDir)
	if err != nil {
		return err
	}
	defer m.Close()

	locs, err := m.Lookup(context.Background(), args[0])
	if err != nil {
		return err
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(locs)
	}
	if len(locs) == 0 {
		return fmt.Errorf("anchor %s is not defined by any recorded page", args[0])
	}
	for _, l := range locs {
		fmt.Fprintf(os.Stdout, "%s  (%s)\n", l.Xref(), l.Source)
	}
	return nil
}

func init() {
	lookupCmd.Flags().Bool("json", false, "output locations as JSON")

	rootCmd.AddCommand(lookupCmd)
}
