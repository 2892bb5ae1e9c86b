// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/book-recommender/internal/match"
)

var titlesCmd = &cobra.Command{
	Use:   "titles [pattern]",
	Short: "List catalog titles that match a pattern",
	Long: `Titles lists distinct titles from the title index, best matches first.
The pattern matches as a character subsequence, so "hpot" finds
"Harry Potter". Without a pattern titles are listed in index order.`,
	RunE: runTitles,
}

func runTitles(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	store, err := loadStore(cmd.Context(), cfg.Catalog)
	if err != nil {
		return err
	}

	limit, _ := cmd.Flags().GetInt("limit")
	titles := match.Suggest(strings.Join(args, " "), store.Titles(), limit)

	w := cmd.OutOrStdout()
	if len(titles) == 0 {
		fmt.Fprintln(w, "No titles found.")
		return nil
	}
	for _, t := range titles {
		fmt.Fprintln(w, t)
	}
	return nil
}

func init() {
	titlesCmd.Flags().Int("limit", 20, "maximum number of titles (0 for all)")

	rootCmd.AddCommand(titlesCmd)
}
