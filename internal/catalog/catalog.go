// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package catalog holds the precomputed book tables in memory: the
// popularity ranking, the full catalog, the title index and the item-item
// similarity matrix aligned with it.
//
// A Store is built once (LoadDir, LoadSQLite or New) and never mutated
// afterwards, so it may be shared by concurrent readers without locking.
// Slices returned by accessors alias the store and must not be modified.
package catalog

import (
	"math"

	"github.com/pdiddy/book-recommender/pkg/types"
)

// Store is the immutable, loaded-once catalog.
type Store struct {
	popular    []types.PopularityEntry
	titles     []string
	books      []types.CatalogItem
	similarity [][]float64

	byTitle  map[string][]types.CatalogItem
	position map[string]int
}

// New validates the four tables and builds a Store from them. The title
// index length must equal the matrix dimension and every matrix row must
// be that long with finite scores.
func New(popular []types.PopularityEntry, titles []string, books []types.CatalogItem, similarity [][]float64) (*Store, error) {
	if len(titles) == 0 {
		return nil, &LoadError{Artifact: ArtifactTitleIndex, Err: ErrEmpty}
	}
	if len(similarity) != len(titles) {
		return nil, loadErr(ArtifactSimilarity, "", "%w: %d rows for %d indexed titles",
			ErrDimension, len(similarity), len(titles))
	}
	for i, row := range similarity {
		if len(row) != len(titles) {
			return nil, loadErr(ArtifactSimilarity, "", "%w: row %d has %d columns, want %d",
				ErrDimension, i, len(row), len(titles))
		}
		for j, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, loadErr(ArtifactSimilarity, "", "non-finite score at row %d column %d", i, j)
			}
		}
	}

	s := &Store{
		popular:    popular,
		titles:     titles,
		books:      books,
		similarity: similarity,
		byTitle:    make(map[string][]types.CatalogItem),
		position:   make(map[string]int, len(titles)),
	}
	for _, b := range books {
		s.byTitle[b.Title] = append(s.byTitle[b.Title], b)
	}
	for i, t := range titles {
		if _, ok := s.position[t]; !ok {
			s.position[t] = i
		}
	}
	return s, nil
}

// Len returns the number of rows in the title index (and matrix dimension).
func (s *Store) Len() int { return len(s.titles) }

// Titles returns the title index in positional order.
func (s *Store) Titles() []string { return s.titles }

// Position returns the first title-index position holding title.
func (s *Store) Position(title string) (int, bool) {
	i, ok := s.position[title]
	return i, ok
}

// ItemsByTitle returns every catalog row with the given title, in catalog
// order. It returns nil when the catalog has no such title.
func (s *Store) ItemsByTitle(title string) []types.CatalogItem {
	return s.byTitle[title]
}

// Matrix returns the full similarity matrix.
func (s *Store) Matrix() [][]float64 { return s.similarity }

// Books returns the full catalog in load order.
func (s *Store) Books() []types.CatalogItem { return s.books }

// Popular returns up to limit popularity entries in rank order. A limit of
// zero or less returns them all.
func (s *Store) Popular(limit int) []types.PopularityEntry {
	n := len(s.popular)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]types.PopularityEntry, n)
	copy(out, s.popular[:n])
	return out
}
