package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/btkit/btdiff"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the btdiff version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "btdiff %s\n", btdiff.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
