// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/cobra"

	"github.com/pdiddy/book-recommender/internal/recommend"
)

var popularCmd = &cobra.Command{
	Use:   "popular",
	Short: "List the most popular books",
	Long: `Popular prints the top entries of the precomputed popularity table in
rank order, with author, number of ratings, and average rating.`,
	Args: cobra.NoArgs,
	RunE: runPopular,
}

func runPopular(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	store, err := loadStore(cmd.Context(), cfg.Catalog)
	if err != nil {
		return err
	}

	limit, _ := cmd.Flags().GetInt("limit")
	entries := newEngine(cfg, store).Popular(limit)

	w := cmd.OutOrStdout()
	switch outputFormat(cmd) {
	case "json":
		return recommend.FormatJSON(entries, w)
	case "yaml":
		return recommend.FormatYAML(entries, w)
	}
	recommend.FormatPopularTable(entries, w)
	return nil
}

// outputFormat returns "json", "yaml", or "table" from the output flags.
func outputFormat(cmd *cobra.Command) string {
	if v, _ := cmd.Flags().GetBool("json"); v {
		return "json"
	}
	if v, _ := cmd.Flags().GetBool("yaml"); v {
		return "yaml"
	}
	return "table"
}

func addOutputFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("json", false, "output as JSON")
	cmd.Flags().Bool("yaml", false, "output as YAML")
	cmd.MarkFlagsMutuallyExclusive("json", "yaml")
}

func init() {
	popularCmd.Flags().Int("limit", 0, "number of books to list (default from config, 10)")
	addOutputFlags(popularCmd)

	rootCmd.AddCommand(popularCmd)
}
