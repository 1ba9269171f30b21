// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/knowmap/internal/search"
)

var headlinesCmd = &cobra.Command{
	Use:   "headlines",
	Short: "List top news headlines",
	Long: `Headlines lists the current top headlines from the news source for a
category. It needs no query but does need a NewsAPI key.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		category, _ := cmd.Flags().GetString("category")
		pageSize, _ := cmd.Flags().GetInt("page-size")
		formatName, _ := cmd.Flags().GetString("format")

		format, err := search.ParseFormat(formatName)
		if err != nil {
			return err
		}
		orch, err := buildOrchestrator(appConfig.Search, logger)
		if err != nil {
			return err
		}

		r := orch.Headlines(cmd.Context(), category, pageSize)
		if err := search.WriteResult(cmd.OutOrStdout(), format, r); err != nil {
			return err
		}
		if !r.Success {
			return fmt.Errorf("headlines failed")
		}
		return nil
	},
}

func init() {
	headlinesCmd.Flags().String("category", "", "category, e.g. business, technology (default general)")
	headlinesCmd.Flags().Int("page-size", 0, "number of headlines (default 5)")
	headlinesCmd.Flags().String("format", "table", "output format: table, json, yaml")

	rootCmd.AddCommand(headlinesCmd)
}
