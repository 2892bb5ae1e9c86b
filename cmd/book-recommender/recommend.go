// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/book-recommender/internal/recommend"
)

var recommendCmd = &cobra.Command{
	Use:   "recommend <title...> | --from <file>",
	Short: "Recommend books similar to a title",
	Long: `Recommend resolves the given title to the closest catalog title and
prints the most similar books. Matching first looks for catalog titles that
contain the input (ignoring case) and falls back to approximate matching for
misspellings. Words after the command are joined with spaces.

A title that matches nothing is not an error: the command reports that no
matching book was found and exits zero.

With --from, the query and top-k stored in a file written by --out are
replayed against the current catalog instead of taking a title argument.`,
	Args: cobra.ArbitraryArgs,
	RunE: runRecommend,
}

func runRecommend(cmd *cobra.Command, args []string) error {
	from, _ := cmd.Flags().GetString("from")
	switch {
	case from != "" && len(args) > 0:
		return fmt.Errorf("give a title or --from, not both")
	case from == "" && len(args) == 0:
		return fmt.Errorf("requires a title or --from")
	}

	topK, _ := cmd.Flags().GetInt("top-k")
	if topK < 0 {
		return fmt.Errorf("--top-k must not be negative")
	}

	query := strings.Join(args, " ")
	var saved *recommend.ResultFile
	if from != "" {
		rf, err := recommend.ReadResultFile(from)
		if err != nil {
			return err
		}
		saved = rf
		query = rf.Query.Text
		if topK == 0 {
			topK = rf.Query.TopK
		}
	}

	cfg := loadConfig()
	store, err := loadStore(cmd.Context(), cfg.Catalog)
	if err != nil {
		return err
	}
	if topK == 0 {
		topK = cfg.Recommend.TopK
	}

	res := newEngine(cfg, store).Recommend(query, topK)
	if saved != nil && !reflect.DeepEqual(saved.Result, res) {
		logger.Warn().
			Str("file", from).
			Time("saved_at", saved.SavedAt).
			Str("saved_match", saved.Result.MatchedTitle).
			Int("saved_items", len(saved.Result.Items)).
			Msg("result differs from saved run")
	}

	if out, _ := cmd.Flags().GetString("out"); out != "" {
		if err := recommend.WriteResultFile(out, res, topK); err != nil {
			return fmt.Errorf("saving result: %w", err)
		}
		logger.Info().Str("file", out).Msg("result saved")
	}

	w := cmd.OutOrStdout()
	switch outputFormat(cmd) {
	case "json":
		return recommend.FormatJSON(res, w)
	case "yaml":
		return recommend.FormatYAML(res, w)
	}
	recommend.FormatRecommendTable(res, w)
	return nil
}

func init() {
	recommendCmd.Flags().Int("top-k", 0, "maximum number of recommendations (default from config, 10)")
	recommendCmd.Flags().String("out", "", "also save the query and result to this YAML file")
	recommendCmd.Flags().String("from", "", "replay the query saved in this YAML file")
	addOutputFlags(recommendCmd)

	rootCmd.AddCommand(recommendCmd)
}
