// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/pubmed-atlas/internal/aggregate"
	"github.com/pdiddy/pubmed-atlas/internal/history"
	"github.com/pdiddy/pubmed-atlas/internal/pubmed"
	"github.com/pdiddy/pubmed-atlas/internal/secrets"
	"github.com/pdiddy/pubmed-atlas/pkg/types"
)

var queryCmd = &cobra.Command{
	Use:   "query [search terms]",
	Short: "Run a PubMed query and aggregate the results",
	Long: `Query searches PubMed, downloads the matching article metadata, and
aggregates it by author or by institution. The output lists the top
groups with their distinct-paper counts, matched papers, co-occurring
locations, and keyword/publication-type histograms.

Location and affiliation filters are case-insensitive substrings applied
per article before aggregation: an article is kept when any author's
affiliation (or its resolved location) matches any term.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runQuery,
}

func runQuery(cmd *cobra.Command, args []string) error {
	queryText := strings.Join(args, " ")

	fromYear, _ := cmd.Flags().GetInt("from")
	dimension, _ := cmd.Flags().GetString("dimension")
	topGroups, _ := cmd.Flags().GetInt("top-groups")
	maxResults, _ := cmd.Flags().GetInt("max-results")
	workers, _ := cmd.Flags().GetInt("workers")
	apiKey, _ := cmd.Flags().GetString("api-key")
	outputPath, _ := cmd.Flags().GetString("output")

	locations := lowercaseTerms(cmd, "locations")
	affiliations := lowercaseTerms(cmd, "affiliations")

	dim := aggregate.Dimension(dimension)
	if !dim.Valid() {
		return fmt.Errorf("unknown dimension %q: use author or affiliation", dimension)
	}
	if maxResults <= 0 {
		maxResults = viper.GetInt("fetch.max_results")
	}

	fetchCfg := types.FetchConfig{
		MaxResults: maxResults,
		APIKey:     secretDefault(secrets.NCBIAPIKey, apiKey),
	}
	fetchCfg.UserAgent = "pubmed-atlas/" + version

	ctx := context.Background()
	client := pubmed.NewClient(fetchCfg)

	var result types.AggregationResult
	var parsed pubmed.ParseOutput
	var upstreamCount int

	chunks, upstreamCount, err := client.FetchAll(ctx, queryText, fromYear, os.Stderr)
	var tooLarge *pubmed.TooLargeError
	switch {
	case errors.As(err, &tooLarge):
		result = types.TooLargeResult(tooLarge.Limit, tooLarge.Actual)
	case err != nil:
		return err
	default:
		filters := pubmed.Filters{Locations: locations, Affiliations: affiliations}
		parsed, err = pubmed.ParseBatch(ctx, chunks, filters, os.Stderr)
		if err != nil {
			return err
		}

		result, err = aggregate.Run(ctx, parsed.Papers, upstreamCount, parsed.DroppedByFilter, aggregate.Options{
			Dimension:  dim,
			TopGroups:  topGroups,
			TopCoOccur: viper.GetInt("aggregate.top_co_occur"),
			Workers:    workers,
		}, os.Stderr)
		if err != nil {
			return err
		}
	}

	recordHistory(ctx, queryText, dim, fromYear, locations, affiliations, upstreamCount, result)

	if outputPath != "" {
		rf := aggregate.ResultFile{
			Query: aggregate.ResultFileQuery{
				Text:         queryText,
				FromYear:     fromYear,
				Locations:    locations,
				Affiliations: affiliations,
			},
			Params: aggregate.ResultFileParams{
				Dimension:  dim,
				TopGroups:  topGroups,
				MaxResults: maxResults,
			},
			Result: result,
			Summary: aggregate.ResultFileSummary{
				UpstreamCount:   upstreamCount,
				ParsedPapers:    len(parsed.Papers),
				DroppedByFilter: parsed.DroppedByFilter,
			},
		}
		if err := aggregate.WriteResultFile(outputPath, rf); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Saved result to %s\n", outputPath)
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	summaryOutput, _ := cmd.Flags().GetBool("summary")
	return formatResult(result, jsonOutput, summaryOutput)
}

func lowercaseTerms(cmd *cobra.Command, flag string) []string {
	values, _ := cmd.Flags().GetStringSlice(flag)
	var terms []string
	for _, v := range values {
		if v = strings.ToLower(strings.TrimSpace(v)); v != "" {
			terms = append(terms, v)
		}
	}
	return terms
}

// recordHistory logs the run to the history database. Failures warn but
// never fail the query.
func recordHistory(ctx context.Context, queryText string, dim aggregate.Dimension, fromYear int, locations, affiliations []string, upstreamCount int, result types.AggregationResult) {
	store, err := history.NewStore(types.HistoryConfig{Path: viper.GetString("history.path")})
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: could not open history: %v\n", err)
		return
	}
	defer store.Close()

	if _, err := store.Record(ctx, history.Entry{
		QueryText:     queryText,
		Dimension:     string(dim),
		FromYear:      fromYear,
		Locations:     locations,
		Affiliations:  affiliations,
		Outcome:       result.Outcome,
		GroupCount:    len(result.Bundles),
		UpstreamCount: upstreamCount,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "warning: could not record history: %v\n", err)
	}
}

func formatResult(result types.AggregationResult, jsonOutput, summaryOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	switch result.Outcome {
	case types.OutcomeNoResults:
		fmt.Println("No results for this query.")
		return nil
	case types.OutcomeFullyFiltered:
		fmt.Println("Results found, but the location/affiliation filters excluded all of them.")
		return nil
	case types.OutcomeTooLarge:
		fmt.Printf("Query too large: %d results, limit is %d. Narrow the query.\n", result.Actual, result.Limit)
		return nil
	}

	if summaryOutput {
		fmt.Fprintf(os.Stdout, "%-4s  %-40s  %-6s  %s\n", "Rank", "Group", "Papers", "Top co-occurrences")
		fmt.Fprintln(os.Stdout, strings.Repeat("-", 100))
		for i, b := range result.Bundles {
			key := b.Group.Key
			if len(key) > 40 {
				key = key[:37] + "..."
			}
			coOccur := b.Group.TopAffiliations
			if len(coOccur) == 0 {
				coOccur = b.Group.TopAuthors
			}
			fmt.Fprintf(os.Stdout, "%-4d  %-40s  %-6d  %s\n", i+1, key, b.Group.TotalPapers, joinCounts(coOccur, 3))
		}
		return nil
	}

	for i, b := range result.Bundles {
		fmt.Fprintf(os.Stdout, "%d. %s (%d papers)\n", i+1, b.Group.Key, b.Group.TotalPapers)

		if len(b.Group.TopLocations) > 0 {
			fmt.Fprintf(os.Stdout, "   locations: %s\n", joinCounts(b.Group.TopLocations, 3))
		}
		if len(b.Group.TopAffiliations) > 0 {
			fmt.Fprintf(os.Stdout, "   affiliations: %s\n", joinCounts(b.Group.TopAffiliations, 3))
		}
		if len(b.Group.TopAuthors) > 0 {
			fmt.Fprintf(os.Stdout, "   authors: %s\n", joinCounts(b.Group.TopAuthors, 3))
		}
		if len(b.KeywordHistogram) > 0 {
			fmt.Fprintf(os.Stdout, "   keywords: %s\n", joinCounts(b.KeywordHistogram, 5))
		}

		for _, link := range b.PaperLinks {
			title := link.Title
			if len(title) > 70 {
				title = title[:67] + "..."
			}
			fmt.Fprintf(os.Stdout, "   - %s  %s\n", title, link.Link)
		}
		fmt.Fprintln(os.Stdout)
	}

	fmt.Fprintf(os.Stdout, "%d groups\n", len(result.Bundles))
	return nil
}

func joinCounts(entries []types.CountEntry, limit int) string {
	if len(entries) > limit {
		entries = entries[:limit]
	}
	parts := make([]string, 0, len(entries))
	for _, e := range entries {
		parts = append(parts, fmt.Sprintf("%s (%d)", e.Value, e.Count))
	}
	return strings.Join(parts, ", ")
}

func init() {
	queryCmd.Flags().Int("from", 0, "restrict to articles added since this year")
	queryCmd.Flags().StringSlice("locations", nil, "keep articles whose resolved locations contain any term")
	queryCmd.Flags().StringSlice("affiliations", nil, "keep articles whose affiliation text contains any term")
	queryCmd.Flags().String("dimension", "author", "grouping dimension: author or affiliation")
	queryCmd.Flags().Int("top-groups", 25, "number of top groups to report")
	queryCmd.Flags().Int("max-results", 0, "reject queries with more upstream results (0 = default 15000)")
	queryCmd.Flags().Int("workers", 0, "parallel workers for indexing and assembly (0 = default)")
	queryCmd.Flags().String("api-key", "", "NCBI API key (default: .secrets/ncbi-api-key)")
	queryCmd.Flags().String("output", "", "save the full result to a YAML file")
	queryCmd.Flags().Bool("json", false, "output the result as JSON")
	queryCmd.Flags().Bool("summary", false, "output a compact rank/group/count table")

	rootCmd.AddCommand(queryCmd)
}
