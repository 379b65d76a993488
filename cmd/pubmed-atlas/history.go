// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/pubmed-atlas/internal/history"
	"github.com/pdiddy/pubmed-atlas/pkg/types"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Recall past queries and their outcomes",
	Long: `History lists previously run queries from the local SQLite log, or
searches them by query text using full-text search.`,
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent queries, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openHistory()
		if err != nil {
			return err
		}
		defer store.Close()

		limit, _ := cmd.Flags().GetInt("limit")
		entries, err := store.List(context.Background(), limit)
		if err != nil {
			return err
		}

		jsonOutput, _ := cmd.Flags().GetBool("json")
		return formatHistory(entries, jsonOutput)
	},
}

var historySearchCmd = &cobra.Command{
	Use:   "search [terms]",
	Short: "Search past queries by text",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openHistory()
		if err != nil {
			return err
		}
		defer store.Close()

		limit, _ := cmd.Flags().GetInt("limit")
		entries, err := store.Search(context.Background(), strings.Join(args, " "), limit)
		if err != nil {
			return err
		}

		jsonOutput, _ := cmd.Flags().GetBool("json")
		return formatHistory(entries, jsonOutput)
	},
}

func openHistory() (*history.Store, error) {
	return history.NewStore(types.HistoryConfig{Path: viper.GetString("history.path")})
}

func formatHistory(entries []history.Entry, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}

	if len(entries) == 0 {
		fmt.Println("No history.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-16s  %-40s  %-12s  %-14s  %s\n",
		"When", "Query", "Dimension", "Outcome", "Groups")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 94))

	for _, e := range entries {
		query := e.QueryText
		if len(query) > 40 {
			query = query[:37] + "..."
		}
		fmt.Fprintf(os.Stdout, "%-16s  %-40s  %-12s  %-14s  %d\n",
			e.RanAt.Local().Format("2006-01-02 15:04"), query, e.Dimension, e.Outcome, e.GroupCount)
	}

	fmt.Fprintf(os.Stdout, "\n%d entries\n", len(entries))
	return nil
}

func init() {
	historyCmd.PersistentFlags().Int("limit", 20, "maximum entries to show")
	historyCmd.PersistentFlags().Bool("json", false, "output entries as JSON")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historySearchCmd)

	rootCmd.AddCommand(historyCmd)
}
