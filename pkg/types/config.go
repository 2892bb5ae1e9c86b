// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// CatalogSource selects where the catalog artifacts are loaded from.
type CatalogSource string

const (
	SourceDir    CatalogSource = "dir"
	SourceSQLite CatalogSource = "sqlite"
)

// CatalogConfig locates the four precomputed artifacts.
type CatalogConfig struct {
	// Source selects the loader: dir (CSV files) or sqlite.
	Source CatalogSource `json:"source" yaml:"source"`

	// Dir is the artifact directory for the dir source (default "data").
	Dir string `json:"dir" yaml:"dir"`

	// DBPath is the SQLite database for the sqlite source.
	DBPath string `json:"db_path" yaml:"db_path"`

	// File names inside Dir. Empty values use the defaults
	// popular.csv, pt.csv, books.csv and similarity_scores.csv.
	PopularFile    string `json:"popular_file,omitempty" yaml:"popular_file,omitempty"`
	TitleIndexFile string `json:"title_index_file,omitempty" yaml:"title_index_file,omitempty"`
	BooksFile      string `json:"books_file,omitempty" yaml:"books_file,omitempty"`
	SimilarityFile string `json:"similarity_file,omitempty" yaml:"similarity_file,omitempty"`
}

// MatchConfig tunes free-text title resolution.
type MatchConfig struct {
	// Cutoff is the minimum fuzzy similarity ratio in [0, 1] (default 0.6).
	Cutoff float64 `json:"cutoff" yaml:"cutoff"`

	// FoldCase lowercases both sides in the fuzzy tier. Off by default so
	// the fuzzy tier stays case-sensitive.
	FoldCase bool `json:"fold_case" yaml:"fold_case"`
}

// RecommendConfig holds result size defaults.
type RecommendConfig struct {
	// TopK is the default number of recommendations (default 10).
	TopK int `json:"top_k" yaml:"top_k"`

	// PopularLimit is the default size of the popular view (default 10).
	PopularLimit int `json:"popular_limit" yaml:"popular_limit"`
}

// ServerConfig holds settings for the HTTP API.
type ServerConfig struct {
	// Addr is the listen address (default ":8080").
	Addr string `json:"addr" yaml:"addr"`

	// ReadTimeout and WriteTimeout bound each request.
	ReadTimeout  time.Duration `json:"read_timeout" yaml:"read_timeout"`
	WriteTimeout time.Duration `json:"write_timeout" yaml:"write_timeout"`

	// ShutdownTimeout bounds graceful shutdown (default 10s).
	ShutdownTimeout time.Duration `json:"shutdown_timeout" yaml:"shutdown_timeout"`

	// CORSOrigins lists origins allowed to call the API from a browser.
	// Empty disables CORS headers.
	CORSOrigins []string `json:"cors_origins,omitempty" yaml:"cors_origins,omitempty"`

	// RateLimit is the per-client request budget per minute on /api
	// routes. Zero disables rate limiting.
	RateLimit int `json:"rate_limit" yaml:"rate_limit"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	// Level is the minimum level: debug, info, warn, error (default info).
	Level string `json:"level" yaml:"level"`

	// Format is json or console (default console).
	Format string `json:"format" yaml:"format"`
}

// Config groups all settings for the book-recommender.
type Config struct {
	Catalog   CatalogConfig   `json:"catalog" yaml:"catalog"`
	Match     MatchConfig     `json:"match" yaml:"match"`
	Recommend RecommendConfig `json:"recommend" yaml:"recommend"`
	Server    ServerConfig    `json:"server" yaml:"server"`
	Log       LogConfig       `json:"log" yaml:"log"`
}
