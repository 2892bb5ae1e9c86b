// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package recommend answers the two catalog queries: the popular-books view
// and title-based recommendations.
//
// A recommendation runs match → rank → assemble over an immutable catalog:
// the query resolves to a title, the title's first index position selects a
// similarity row, and the ranked rows are joined back to catalog metadata.
// An Engine keeps no per-query state, so one Engine may serve concurrent
// callers.
package recommend

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/pdiddy/book-recommender/internal/match"
	"github.com/pdiddy/book-recommender/internal/rank"
	"github.com/pdiddy/book-recommender/pkg/types"
)

const (
	DefaultTopK         = 10
	DefaultPopularLimit = 10
)

// Status distinguishes the outcomes of a recommendation query. Neither
// StatusNoMatch nor StatusNoResults is an error.
type Status string

const (
	// StatusOK means the query matched and at least one item was found.
	StatusOK Status = "ok"

	// StatusNoMatch means no title matched the query.
	StatusNoMatch Status = "no_match"

	// StatusNoResults means a title matched but no similar item has
	// catalog metadata.
	StatusNoResults Status = "no_results"
)

// Result is the answer to a recommendation query.
type Result struct {
	Query        string              `json:"query" yaml:"query"`
	MatchedTitle string              `json:"matched_title,omitempty" yaml:"matched_title,omitempty"`
	MatchTier    string              `json:"match_tier,omitempty" yaml:"match_tier,omitempty"`
	Status       Status              `json:"status" yaml:"status"`
	Items        []types.CatalogItem `json:"items" yaml:"items"`
}

// Matched reports whether the query resolved to a title.
func (r Result) Matched() bool {
	return r.Status != StatusNoMatch
}

// Catalog is the read-only data an Engine queries.
type Catalog interface {
	Lookup
	Titles() []string
	Position(title string) (int, bool)
	Matrix() [][]float64
	Popular(limit int) []types.PopularityEntry
}

// Observer receives the outcome of each recommendation query.
type Observer interface {
	ObserveRecommend(status Status, tier match.Tier, elapsed time.Duration)
}

// Engine serves popular and recommendation queries over a Catalog.
type Engine struct {
	catalog      Catalog
	matcher      match.Matcher
	topK         int
	popularLimit int
	log          zerolog.Logger
	observer     Observer
}

// Option configures an Engine.
type Option func(*Engine)

// WithMatcher sets the title matcher.
func WithMatcher(m match.Matcher) Option {
	return func(e *Engine) { e.matcher = m }
}

// WithTopK sets the default number of recommendations.
func WithTopK(k int) Option {
	return func(e *Engine) {
		if k > 0 {
			e.topK = k
		}
	}
}

// WithPopularLimit sets the default size of the popular view.
func WithPopularLimit(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.popularLimit = n
		}
	}
}

// WithLogger sets the logger used for per-query debug output.
func WithLogger(l zerolog.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// WithObserver sets a receiver for query outcomes.
func WithObserver(o Observer) Option {
	return func(e *Engine) { e.observer = o }
}

// New returns an Engine over c.
func New(c Catalog, opts ...Option) *Engine {
	e := &Engine{
		catalog:      c,
		topK:         DefaultTopK,
		popularLimit: DefaultPopularLimit,
		log:          zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Popular returns up to limit entries of the popularity table in rank
// order. A limit of zero or less uses the engine default.
func (e *Engine) Popular(limit int) []types.PopularityEntry {
	if limit <= 0 {
		limit = e.popularLimit
	}
	return e.catalog.Popular(limit)
}

// Recommend resolves query to a catalog title and returns up to k similar
// books, most similar first. A k of zero or less uses the engine default.
func (e *Engine) Recommend(query string, k int) Result {
	start := time.Now()
	if k <= 0 {
		k = e.topK
	}

	res := Result{Query: query, Items: []types.CatalogItem{}}
	title, tier := e.matcher.Resolve(query, e.catalog.Titles())
	if tier == match.TierNone {
		res.Status = StatusNoMatch
		e.finish(res, tier, start)
		return res
	}
	res.MatchedTitle = title
	res.MatchTier = tier.String()

	row, ok := e.catalog.Position(title)
	if !ok {
		res.Status = StatusNoResults
		e.finish(res, tier, start)
		return res
	}

	cands, err := rank.Rank(row, e.catalog.Matrix())
	if err != nil {
		e.log.Error().Err(err).Str("title", title).Int("row", row).Msg("ranking similarity row")
		res.Status = StatusNoResults
		e.finish(res, tier, start)
		return res
	}

	res.Items = Assemble(cands, e.catalog.Titles(), e.catalog, k, title)
	if len(res.Items) == 0 {
		res.Status = StatusNoResults
	} else {
		res.Status = StatusOK
	}
	e.finish(res, tier, start)
	return res
}

func (e *Engine) finish(res Result, tier match.Tier, start time.Time) {
	elapsed := time.Since(start)
	e.log.Debug().
		Str("query", res.Query).
		Str("matched", res.MatchedTitle).
		Stringer("tier", tier).
		Str("status", string(res.Status)).
		Int("items", len(res.Items)).
		Dur("elapsed", elapsed).
		Msg("recommend")
	if e.observer != nil {
		e.observer.ObserveRecommend(res.Status, tier, elapsed)
	}
}
