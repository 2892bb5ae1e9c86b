// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/book-recommender/internal/catalog"
	"github.com/pdiddy/book-recommender/pkg/types"
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Convert the CSV artifacts into a SQLite catalog",
	Long: `Import loads the four CSV artifacts from the data directory, validates
them, and writes them into the SQLite database given by --db. Existing rows
are replaced. Afterwards other commands can read the catalog with
--source sqlite.`,
	Args: cobra.NoArgs,
	RunE: runImport,
}

func runImport(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	dirCfg := cfg.Catalog
	dirCfg.Source = types.SourceDir
	store, err := loadStore(cmd.Context(), dirCfg)
	if err != nil {
		return err
	}

	summary, err := catalog.Import(cmd.Context(), store, cfg.Catalog.DBPath)
	if err != nil {
		return fmt.Errorf("importing into %s: %w", cfg.Catalog.DBPath, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Imported into %s: %d popular, %d books, %d titles, %d similarity scores\n",
		cfg.Catalog.DBPath, summary.Popular, summary.Books, summary.Titles, summary.Similarity)
	return nil
}

func init() {
	rootCmd.AddCommand(importCmd)
}
