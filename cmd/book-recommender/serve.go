// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/book-recommender/internal/metrics"
	"github.com/pdiddy/book-recommender/internal/recommend"
	"github.com/pdiddy/book-recommender/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the JSON API",
	Long: `Serve loads the catalog once and answers HTTP requests until interrupted:

  GET /api/popular?limit=N
  GET /api/recommend?q=TITLE&k=N
  GET /healthz
  GET /metrics

SIGINT or SIGTERM starts a graceful shutdown.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	store, err := loadStore(cmd.Context(), cfg.Catalog)
	if err != nil {
		return err
	}

	rec := metrics.NewRecorder(prometheus.DefaultRegisterer)
	rec.SetCatalogTitles(store.Len())
	engine := newEngine(cfg, store, recommend.WithObserver(rec))

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return server.New(cfg.Server, engine, logger, rec, prometheus.DefaultGatherer).Run(ctx)
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default :8080)")
	if err := viper.BindPFlag("server.addr", serveCmd.Flags().Lookup("addr")); err != nil {
		panic(err)
	}

	rootCmd.AddCommand(serveCmd)
}
