// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the adoc-split CLI.
package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/adoc-split/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

var errMissingSource = errors.New("missing AsciiDoc file: provide the file to split as the first argument")

// rootCmd splits the document given as its only argument.
var rootCmd = &cobra.Command{
	Use:   "adoc-split <file>",
	Short: "Split an AsciiDoc document into one page per section",
	Long: `adoc-split splits one AsciiDoc document into one file per section, in the
Antora layout: pages go to <output>/pages/ and a navigation outline to
<output>/nav.adoc.

Splitting is opt-in per section. Mark a section [%split] to give each of its
child sections a page of its own, [split=N] to keep splitting N levels down,
or [split=0] to stop a split inherited from above. Headings are demoted so
every page starts at the top level, and <<id>> references that now point to
another page are rewritten into xref:page.adoc#id[] links.`,
	Args: requireSource,
	RunE: runSplit,
}

func requireSource(cmd *cobra.Command, args []string) error {
	switch len(args) {
	case 0:
		return errMissingSource
	case 1:
		return nil
	default:
		return fmt.Errorf("expected one AsciiDoc file, got %d arguments", len(args))
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	defaults := types.DefaultConfig()
	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "config file (default: ./adoc-split.yaml or ~/.config/adoc-split/adoc-split.yaml)")
	flags.String("output-dir", defaults.OutputDir, "output root (pages/ and nav.adoc are written below it)")
	flags.Int("split-depth", defaults.SplitDepth, "split countdown at the document root (0 = split only where sections ask)")
	flags.String("preamble", string(defaults.Preamble), "content before the first section: keep (own page) or drop")
	flags.Int("workers", defaults.Workers, "maximum concurrent file writes")

	rootCmd.Flags().Bool("prune", defaults.Prune, "delete pages an earlier run of the same file wrote that this run no longer produces")
	rootCmd.Flags().Bool("manifest", defaults.Manifest, "record written pages and anchors in <output>/"+types.ManifestFile)

	for key, flag := range map[string]string{
		"output_dir":  "output-dir",
		"split_depth": "split-depth",
		"preamble":    "preamble",
		"workers":     "workers",
	} {
		_ = viper.BindPFlag(key, flags.Lookup(flag))
	}
	_ = viper.BindPFlag("prune", rootCmd.Flags().Lookup("prune"))
	_ = viper.BindPFlag("manifest", rootCmd.Flags().Lookup("manifest"))

	viper.SetDefault("pages_dir", defaults.PagesDir)
	viper.SetDefault("nav_file", defaults.NavFile)
	viper.SetDefault("extension", defaults.Extension)
	viper.SetDefault("line_offset", defaults.LineOffset)
	viper.SetDefault("preamble_name", defaults.PreambleName)
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("adoc-split")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "adoc-split"))
		}
	}

	viper.SetEnvPrefix("ADOC_SPLIT")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// loadConfig resolves flags, environment, config file and defaults into a
// validated Config.
func loadConfig() (types.Config, error) {
	var cfg types.Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return types.Config{}, fmt.Errorf("reading configuration: %w", err)
	}
	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return types.Config{}, err
	}
	return cfg, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
