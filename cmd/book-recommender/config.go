// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/pdiddy/book-recommender/internal/catalog"
	"github.com/pdiddy/book-recommender/internal/match"
	"github.com/pdiddy/book-recommender/internal/recommend"
	"github.com/pdiddy/book-recommender/internal/server"
	"github.com/pdiddy/book-recommender/pkg/types"
)

const defaultDBPath = "data/catalog.db"

func setDefaults() {
	viper.SetDefault("catalog.source", string(types.SourceDir))
	viper.SetDefault("catalog.dir", "data")
	viper.SetDefault("catalog.db_path", defaultDBPath)
	viper.SetDefault("match.cutoff", match.DefaultCutoff)
	viper.SetDefault("match.fold_case", false)
	viper.SetDefault("recommend.top_k", recommend.DefaultTopK)
	viper.SetDefault("recommend.popular_limit", recommend.DefaultPopularLimit)
	viper.SetDefault("server.addr", server.DefaultAddr)
	viper.SetDefault("server.read_timeout", server.DefaultReadTimeout)
	viper.SetDefault("server.write_timeout", server.DefaultWriteTimeout)
	viper.SetDefault("server.shutdown_timeout", server.DefaultShutdownTimeout)
	viper.SetDefault("server.rate_limit", 0)
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "console")
}

// loadConfig assembles the typed config from viper: flags, then
// BOOK_RECOMMENDER_* environment variables, then the config file, then
// defaults.
func loadConfig() types.Config {
	return types.Config{
		Catalog: types.CatalogConfig{
			Source:         types.CatalogSource(viper.GetString("catalog.source")),
			Dir:            viper.GetString("catalog.dir"),
			DBPath:         viper.GetString("catalog.db_path"),
			PopularFile:    viper.GetString("catalog.popular_file"),
			TitleIndexFile: viper.GetString("catalog.title_index_file"),
			BooksFile:      viper.GetString("catalog.books_file"),
			SimilarityFile: viper.GetString("catalog.similarity_file"),
		},
		Match: types.MatchConfig{
			Cutoff:   viper.GetFloat64("match.cutoff"),
			FoldCase: viper.GetBool("match.fold_case"),
		},
		Recommend: types.RecommendConfig{
			TopK:         viper.GetInt("recommend.top_k"),
			PopularLimit: viper.GetInt("recommend.popular_limit"),
		},
		Server: types.ServerConfig{
			Addr:            viper.GetString("server.addr"),
			ReadTimeout:     viper.GetDuration("server.read_timeout"),
			WriteTimeout:    viper.GetDuration("server.write_timeout"),
			ShutdownTimeout: viper.GetDuration("server.shutdown_timeout"),
			CORSOrigins:     viper.GetStringSlice("server.cors_origins"),
			RateLimit:       viper.GetInt("server.rate_limit"),
		},
		Log: types.LogConfig{
			Level:  viper.GetString("log.level"),
			Format: viper.GetString("log.format"),
		},
	}
}

// loadStore loads the catalog from the configured source. Any failure is
// fatal to the calling command; there is no partial store.
func loadStore(ctx context.Context, cfg types.CatalogConfig) (*catalog.Store, error) {
	if err := validateSource(cfg.Source); err != nil {
		return nil, err
	}
	start := time.Now()
	var (
		store *catalog.Store
		err   error
	)
	switch cfg.Source {
	case types.SourceSQLite:
		store, err = catalog.LoadSQLite(ctx, cfg.DBPath)
	default:
		store, err = catalog.LoadDir(ctx, cfg)
	}
	if err != nil {
		logger.Error().Err(err).Str("source", string(cfg.Source)).Msg("loading catalog")
		return nil, err
	}
	logger.Info().
		Str("source", string(cfg.Source)).
		Int("titles", store.Len()).
		Int("books", len(store.Books())).
		Dur("elapsed", time.Since(start)).
		Msg("catalog loaded")
	return store, nil
}

func newEngine(cfg types.Config, store *catalog.Store, opts ...recommend.Option) *recommend.Engine {
	base := []recommend.Option{
		recommend.WithMatcher(match.New(cfg.Match)),
		recommend.WithTopK(cfg.Recommend.TopK),
		recommend.WithPopularLimit(cfg.Recommend.PopularLimit),
		recommend.WithLogger(logger),
	}
	return recommend.New(store, append(base, opts...)...)
}

func validateSource(s types.CatalogSource) error {
	switch s {
	case types.SourceDir, types.SourceSQLite, "":
		return nil
	}
	return fmt.Errorf("unknown catalog source %q (want dir or sqlite)", s)
}
