// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/knowmap/internal/search"
	"github.com/pdiddy/knowmap/pkg/types"
)

var searchCmd = &cobra.Command{
	Use:   "search <query...>",
	Short: "Search one or more sources",
	Long: `Search runs a keyword query against the named sources. With a single
--source the source's result is printed; with several (or none, meaning
every supported source) the sources are queried concurrently and their
results are printed together in the order requested.

Sources: encyclopedia, papers, news. The command exits non-zero when any
requested source fails, after printing every result.`,
	Example: `  knowmap search --source papers "graph neural networks"
  knowmap search -s encyclopedia -s news --format json climate
  knowmap search -s news --headlines --category technology headlines`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().StringArrayP("source", "s", nil, "source to query (repeatable; default: all)")
	searchCmd.Flags().Int("page-size", 0, "results requested per source (default 5)")
	searchCmd.Flags().String("format", "table", "output format: table, json, yaml, csl")
	searchCmd.Flags().Bool("headlines", false, "list top headlines instead of searching (news only)")
	searchCmd.Flags().String("category", "", "headlines category (default general)")

	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	sources, _ := cmd.Flags().GetStringArray("source")
	pageSize, _ := cmd.Flags().GetInt("page-size")
	headlines, _ := cmd.Flags().GetBool("headlines")
	category, _ := cmd.Flags().GetString("category")
	formatName, _ := cmd.Flags().GetString("format")

	format, err := search.ParseFormat(formatName)
	if err != nil {
		return err
	}
	orch, err := buildOrchestrator(appConfig.Search, logger)
	if err != nil {
		return err
	}

	opts := types.SearchOptions{PageSize: pageSize, GetHeadlines: headlines, Category: category}
	return executeSearch(cmd.Context(), cmd.OutOrStdout(), orch, sources, strings.Join(args, " "), opts, format)
}

// executeSearch runs the search and prints its outcome. One source goes
// through Search; zero or several go through SearchMultiple.
func executeSearch(ctx context.Context, w io.Writer, orch *search.Orchestrator, sources []string, query string, opts types.SearchOptions, format search.Format) error {
	if len(sources) == 1 {
		r := orch.Search(ctx, sources[0], query, opts)
		if err := search.WriteResult(w, format, r); err != nil {
			return err
		}
		if !r.Success {
			return fmt.Errorf("search on %s failed", sources[0])
		}
		return nil
	}

	if len(sources) == 0 {
		sources = orch.SupportedSources()
	}
	c := orch.SearchMultiple(ctx, sources, query, opts)
	if err := search.WriteCombined(w, format, c); err != nil {
		return err
	}
	if c.Success {
		return nil
	}
	if c.Data == nil {
		return fmt.Errorf("search rejected: %s", c.Message)
	}
	return fmt.Errorf("%d of %d sources failed", countFailed(c), c.Data.Len())
}

func countFailed(c types.CombinedResult) int {
	n := 0
	for _, key := range c.Data.Keys() {
		if r, _ := c.Data.Get(key); !r.Success {
			n++
		}
	}
	return n
}
