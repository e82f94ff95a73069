package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/btkit/btdiff/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "btdiff",
	Short: "btdiff reports structural changes between behavior-tree versions",
	Long: `btdiff parses two versions of a behavior-tree XML document, expands
named subtree references, and reports which nodes were added, removed,
modified or moved. Versions may be two files or the same file at two git
revisions.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", config.DefaultFile, "Path to the options file")
	rootCmd.PersistentFlags().String("profile", "", "Named options profile from the config file")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")
}

// loadOptions resolves the effective options from the config file, profile
// and command flags (flags win).
func loadOptions(cmd *cobra.Command) (config.Options, error) {
	path, _ := cmd.Flags().GetString("config")
	profile, _ := cmd.Flags().GetString("profile")

	cfg, err := config.Load(path)
	if err != nil {
		return config.Options{}, err
	}
	opts, err := cfg.Profile(profile)
	if err != nil {
		return config.Options{}, err
	}

	if cmd.Flags().Changed("tree") {
		opts.Tree, _ = cmd.Flags().GetString("tree")
	}
	if cmd.Flags().Changed("threshold") {
		opts.SimilarityThreshold, _ = cmd.Flags().GetFloat64("threshold")
	}
	if cmd.Flags().Changed("max-depth") {
		opts.MaxExpansionDepth, _ = cmd.Flags().GetInt("max-depth")
	}
	return opts, nil
}
