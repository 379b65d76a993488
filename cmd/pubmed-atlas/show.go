// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/pubmed-atlas/internal/aggregate"
)

var showCmd = &cobra.Command{
	Use:   "show [file]",
	Short: "Render a saved aggregation result file",
	Long: `Show reloads a result file written by query --output and renders it
without re-querying PubMed. The same output flags as query apply.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rf, err := aggregate.ReadResultFile(args[0])
		if err != nil {
			return err
		}

		fmt.Fprintf(os.Stderr, "Query %q (dimension %s, ran %s)\n",
			rf.Query.Text, rf.Params.Dimension, rf.Summary.Timestamp.Local().Format("2006-01-02 15:04"))

		jsonOutput, _ := cmd.Flags().GetBool("json")
		summaryOutput, _ := cmd.Flags().GetBool("summary")
		return formatResult(rf.Result, jsonOutput, summaryOutput)
	},
}

func init() {
	showCmd.Flags().Bool("json", false, "output the result as JSON")
	showCmd.Flags().Bool("summary", false, "output a compact rank/group/count table")

	rootCmd.AddCommand(showCmd)
}
