// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/book-recommender/pkg/types"
)

// Default artifact file names inside the artifact directory.
const (
	DefaultPopularFile    = "popular.csv"
	DefaultTitleIndexFile = "pt.csv"
	DefaultBooksFile      = "books.csv"
	DefaultSimilarityFile = "similarity_scores.csv"
)

// Column names written by the offline pipeline.
const (
	colTitle      = "Book-Title"
	colAuthor     = "Book-Author"
	colImage      = "Image-URL-M"
	colNumRatings = "num_ratings"
	colAvgRating  = "avg_rating"
)

// Paths resolves the four artifact paths for cfg, applying default names.
func Paths(cfg types.CatalogConfig) (popular, titleIndex, books, similarity string) {
	dir := cfg.Dir
	if dir == "" {
		dir = "data"
	}
	return filepath.Join(dir, orDefault(cfg.PopularFile, DefaultPopularFile)),
		filepath.Join(dir, orDefault(cfg.TitleIndexFile, DefaultTitleIndexFile)),
		filepath.Join(dir, orDefault(cfg.BooksFile, DefaultBooksFile)),
		filepath.Join(dir, orDefault(cfg.SimilarityFile, DefaultSimilarityFile))
}

// LoadDir reads the four CSV artifacts from cfg.Dir concurrently and builds
// a Store. The first failure cancels the remaining reads; no partial store
// is ever returned.
func LoadDir(ctx context.Context, cfg types.CatalogConfig) (*Store, error) {
	popularPath, titlesPath, booksPath, simPath := Paths(cfg)

	var (
		popular    []types.PopularityEntry
		titles     []string
		books      []types.CatalogItem
		similarity [][]float64
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		popular, err = readPopular(gctx, popularPath)
		return err
	})
	g.Go(func() (err error) {
		titles, err = readTitleIndex(gctx, titlesPath)
		return err
	})
	g.Go(func() (err error) {
		books, err = readBooks(gctx, booksPath)
		return err
	})
	g.Go(func() (err error) {
		similarity, err = readSimilarity(gctx, simPath)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	s, err := New(popular, titles, books, similarity)
	if err != nil {
		var le *LoadError
		if errors.As(err, &le) && le.Path == "" {
			le.Path = simPath
		}
		return nil, err
	}
	return s, nil
}

// table is a parsed CSV file with a header row.
type table struct {
	path   string
	header map[string]int
	rows   [][]string
}

func (t *table) column(a Artifact, name string) (int, error) {
	i, ok := t.header[name]
	if !ok {
		return 0, loadErr(a, t.path, "missing column %q", name)
	}
	return i, nil
}

func readTable(ctx context.Context, a Artifact, path string) (*table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Artifact: a, Path: path, Err: err}
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		if err == io.EOF {
			return nil, &LoadError{Artifact: a, Path: path, Err: ErrEmpty}
		}
		return nil, &LoadError{Artifact: a, Path: path, Err: err}
	}

	t := &table{path: path, header: make(map[string]int, len(header))}
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		if _, dup := t.header[h]; !dup {
			t.header[h] = i
		}
	}

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &LoadError{Artifact: a, Path: path, Err: err}
		}
		t.rows = append(t.rows, rec)
	}
	return t, nil
}

func readPopular(ctx context.Context, path string) ([]types.PopularityEntry, error) {
	t, err := readTable(ctx, ArtifactPopular, path)
	if err != nil {
		return nil, err
	}
	ti, err := t.column(ArtifactPopular, colTitle)
	if err != nil {
		return nil, err
	}
	ai, err := t.column(ArtifactPopular, colAuthor)
	if err != nil {
		return nil, err
	}
	ni, err := t.column(ArtifactPopular, colNumRatings)
	if err != nil {
		return nil, err
	}
	ri, err := t.column(ArtifactPopular, colAvgRating)
	if err != nil {
		return nil, err
	}
	ii, hasImage := t.header[colImage]

	entries := make([]types.PopularityEntry, 0, len(t.rows))
	for n, rec := range t.rows {
		count, err := parseCount(rec[ni])
		if err != nil {
			return nil, loadErr(ArtifactPopular, path, "row %d: %s: %w", n+1, colNumRatings, err)
		}
		avg, err := parseScore(rec[ri])
		if err != nil {
			return nil, loadErr(ArtifactPopular, path, "row %d: %s: %w", n+1, colAvgRating, err)
		}
		e := types.PopularityEntry{
			CatalogItem: types.CatalogItem{Title: rec[ti], Author: rec[ai]},
			NumRatings:  count,
			AvgRating:   avg,
		}
		if hasImage {
			e.ImageURL = rec[ii]
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func readTitleIndex(ctx context.Context, path string) ([]string, error) {
	t, err := readTable(ctx, ArtifactTitleIndex, path)
	if err != nil {
		return nil, err
	}
	ti, err := t.column(ArtifactTitleIndex, colTitle)
	if err != nil {
		return nil, err
	}
	if len(t.rows) == 0 {
		return nil, &LoadError{Artifact: ArtifactTitleIndex, Path: path, Err: ErrEmpty}
	}
	titles := make([]string, len(t.rows))
	for i, rec := range t.rows {
		titles[i] = rec[ti]
	}
	return titles, nil
}

func readBooks(ctx context.Context, path string) ([]types.CatalogItem, error) {
	t, err := readTable(ctx, ArtifactBooks, path)
	if err != nil {
		return nil, err
	}
	ti, err := t.column(ArtifactBooks, colTitle)
	if err != nil {
		return nil, err
	}
	ai, err := t.column(ArtifactBooks, colAuthor)
	if err != nil {
		return nil, err
	}
	ii, hasImage := t.header[colImage]

	books := make([]types.CatalogItem, len(t.rows))
	for i, rec := range t.rows {
		books[i] = types.CatalogItem{Title: rec[ti], Author: rec[ai]}
		if hasImage {
			books[i].ImageURL = rec[ii]
		}
	}
	return books, nil
}

// readSimilarity parses a headerless grid of scores, one matrix row per line.
func readSimilarity(ctx context.Context, path string) ([][]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Artifact: ArtifactSimilarity, Path: path, Err: err}
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.ReuseRecord = true

	var matrix [][]float64
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var pe *csv.ParseError
			if errors.As(err, &pe) && errors.Is(pe.Err, csv.ErrFieldCount) {
				return nil, loadErr(ArtifactSimilarity, path, "%w: line %d", ErrDimension, pe.Line)
			}
			return nil, &LoadError{Artifact: ArtifactSimilarity, Path: path, Err: err}
		}
		row := make([]float64, len(rec))
		for j, field := range rec {
			v, err := parseScore(field)
			if err != nil {
				return nil, loadErr(ArtifactSimilarity, path, "row %d column %d: %w", len(matrix), j, err)
			}
			row[j] = v
		}
		matrix = append(matrix, row)
	}
	if len(matrix) == 0 {
		return nil, &LoadError{Artifact: ArtifactSimilarity, Path: path, Err: ErrEmpty}
	}
	return matrix, nil
}

func parseScore(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", s)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("non-finite number %q", s)
	}
	return v, nil
}

// parseCount accepts integers and integral floats ("250.0"), which pandas
// emits for count columns that once held missing values.
func parseCount(s string) (int, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("invalid count %q", s)
	}
	return int(f), nil
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
