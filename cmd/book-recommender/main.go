// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the book-recommender CLI.
// Subcommands query the catalog (popular, recommend, titles), convert the
// CSV artifacts to SQLite (import), and run the HTTP API (serve).
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/book-recommender/internal/logging"
)

// version is set at build time via ldflags.
var version = "dev"

// logger is built from the log config before any subcommand runs.
var logger = zerolog.Nop()

// rootCmd is the base command for the book-recommender CLI.
var rootCmd = &cobra.Command{
	Use:   "book-recommender",
	Short: "Popular books and title-based book recommendations",
	Long: `book-recommender answers two queries over a precomputed book catalog:
the most popular books, and books similar to a given title. Titles may be
partial or misspelled; the closest catalog title is used.

The catalog is read from a directory of CSV artifacts (popular.csv, pt.csv,
books.csv, similarity_scores.csv) or from a SQLite database built with the
import subcommand.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger = logging.New(loadConfig().Log, cmd.ErrOrStderr())
		if used := viper.ConfigFileUsed(); used != "" {
			logger.Debug().Str("file", used).Msg("using config file")
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./book-recommender.yaml or ~/.config/book-recommender/book-recommender.yaml)")
	pf.String("source", "", "catalog source: dir or sqlite")
	pf.String("data-dir", "", "directory holding the CSV artifacts")
	pf.String("db", "", "SQLite catalog database")
	pf.String("log-level", "", "log level: debug, info, warn, error")
	pf.String("log-format", "", "log format: console or json")

	bindFlag("catalog.source", "source")
	bindFlag("catalog.dir", "data-dir")
	bindFlag("catalog.db_path", "db")
	bindFlag("log.level", "log-level")
	bindFlag("log.format", "log-format")

	setDefaults()
}

func bindFlag(key, flag string) {
	if err := viper.BindPFlag(key, rootCmd.PersistentFlags().Lookup(flag)); err != nil {
		panic(fmt.Sprintf("binding flag %s: %v", flag, err))
	}
}

func initConfig() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintln(os.Stderr, "warning: reading .env:", err)
	}

	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("book-recommender")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "book-recommender"))
		}
	}

	viper.SetEnvPrefix("BOOK_RECOMMENDER")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			fmt.Fprintln(os.Stderr, "warning: reading config:", err)
		}
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
