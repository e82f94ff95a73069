package main

import (
	"github.com/spf13/cobra"

	mcpAdapter "github.com/btkit/btdiff/internal/adapters/mcp"
	"github.com/btkit/btdiff/internal/gitsrc"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server on stdio",
	Long: `Exposes compare_trees and compare_revisions as Model Context Protocol
tools over Stdin/Stdout, for use by agent tooling.`,
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
	mcpCmd.Flags().String("repo", ".", "Repository directory for compare_revisions")
}

func runMCP(cmd *cobra.Command, args []string) error {
	opts, err := loadOptions(cmd)
	if err != nil {
		return err
	}
	verbose, _ := cmd.Flags().GetBool("verbose")

	repo, _ := cmd.Flags().GetString("repo")
	srv := mcpAdapter.NewServer(gitsrc.New(repo), analyzerOptions(opts, verbose)...)
	return srv.ServeStdio()
}
