package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/btkit/btdiff"
	"github.com/btkit/btdiff/internal/report"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <file.xml>",
	Short: "Print a document's expanded tree structure and statistics",
	Args:  cobra.ExactArgs(1),
	RunE:  runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().String("tree", "", "Named tree to inspect (defaults to MainTree)")
	inspectCmd.Flags().Int("max-depth", 0, "Maximum subtree expansion depth")
}

func runInspect(cmd *cobra.Command, args []string) error {
	opts, err := loadOptions(cmd)
	if err != nil {
		return err
	}
	verbose, _ := cmd.Flags().GetBool("verbose")
	analyzer := btdiff.New(analyzerOptions(opts, verbose)...)

	text, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read document: %w", err)
	}
	expanded, err := analyzer.ParseDocument(btdiff.Document{Text: text, Source: args[0]})
	if err != nil {
		return err
	}

	fmt.Fprint(cmd.OutOrStdout(), report.RenderTree(expanded.Root, nil))

	stats := expanded.Stats()
	fmt.Fprintf(cmd.OutOrStdout(),
		"\n%d nodes (%d control, %d action, %d condition, %d decorator, %d subtree), max depth %d\n",
		stats.TotalNodes, stats.ControlNodes, stats.ActionNodes,
		stats.ConditionNodes, stats.DecoratorNodes, stats.SubtreeNodes, stats.MaxDepth)
	return nil
}
