// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/book-recommender/pkg/types"
)

// ImportSummary holds row counts written by Import.
type ImportSummary struct {
	Popular    int
	Books      int
	Titles     int
	Similarity int
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS popular (
		rank INTEGER PRIMARY KEY,
		title TEXT NOT NULL,
		author TEXT NOT NULL,
		image_url TEXT,
		num_ratings INTEGER NOT NULL,
		avg_rating REAL NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS books (
		seq INTEGER PRIMARY KEY,
		title TEXT NOT NULL,
		author TEXT NOT NULL,
		image_url TEXT
	)`,
	`CREATE INDEX IF NOT EXISTS idx_books_title ON books(title)`,
	`CREATE TABLE IF NOT EXISTS title_index (
		position INTEGER PRIMARY KEY,
		title TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS similarity (
		src INTEGER NOT NULL,
		dst INTEGER NOT NULL,
		score REAL NOT NULL,
		PRIMARY KEY (src, dst)
	) WITHOUT ROWID`,
}

// dsn builds a SQLite URI filename for path. The path is percent-escaped so
// '?', '#' and '%' in file names are not read as URI syntax.
func dsn(path, mode string) string {
	return "file:" + (&url.URL{Path: path}).EscapedPath() + "?mode=" + mode
}

func createSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Import writes every table of s into the SQLite database at path, creating
// the schema if needed. Existing rows are replaced in a single transaction.
func Import(ctx context.Context, s *Store, path string) (ImportSummary, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return ImportSummary{}, fmt.Errorf("creating database directory: %w", err)
	}
	db, err := sql.Open("sqlite3", dsn(path, "rwc"))
	if err != nil {
		return ImportSummary{}, fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	if err := createSchema(ctx, db); err != nil {
		return ImportSummary{}, fmt.Errorf("creating schema: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return ImportSummary{}, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"popular", "books", "title_index", "similarity"} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+table); err != nil {
			return ImportSummary{}, fmt.Errorf("clearing %s: %w", table, err)
		}
	}

	var summary ImportSummary

	err = insertRows(ctx, tx,
		`INSERT INTO popular (rank, title, author, image_url, num_ratings, avg_rating) VALUES (?, ?, ?, ?, ?, ?)`,
		len(s.popular), func(i int) []any {
			p := s.popular[i]
			return []any{i, p.Title, p.Author, p.ImageURL, p.NumRatings, p.AvgRating}
		})
	if err != nil {
		return ImportSummary{}, fmt.Errorf("inserting popularity rows: %w", err)
	}
	summary.Popular = len(s.popular)

	err = insertRows(ctx, tx,
		`INSERT INTO books (seq, title, author, image_url) VALUES (?, ?, ?, ?)`,
		len(s.books), func(i int) []any {
			b := s.books[i]
			return []any{i, b.Title, b.Author, b.ImageURL}
		})
	if err != nil {
		return ImportSummary{}, fmt.Errorf("inserting catalog rows: %w", err)
	}
	summary.Books = len(s.books)

	err = insertRows(ctx, tx,
		`INSERT INTO title_index (position, title) VALUES (?, ?)`,
		len(s.titles), func(i int) []any { return []any{i, s.titles[i]} })
	if err != nil {
		return ImportSummary{}, fmt.Errorf("inserting title index: %w", err)
	}
	summary.Titles = len(s.titles)

	n := len(s.titles)
	err = insertRows(ctx, tx,
		`INSERT INTO similarity (src, dst, score) VALUES (?, ?, ?)`,
		n*n, func(i int) []any {
			r, c := i/n, i%n
			return []any{r, c, s.similarity[r][c]}
		})
	if err != nil {
		return ImportSummary{}, fmt.Errorf("inserting similarity scores: %w", err)
	}
	summary.Similarity = n * n

	if err := tx.Commit(); err != nil {
		return ImportSummary{}, fmt.Errorf("committing import: %w", err)
	}
	return summary, nil
}

func insertRows(ctx context.Context, tx *sql.Tx, query string, n int, args func(i int) []any) error {
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i := 0; i < n; i++ {
		if _, err := stmt.ExecContext(ctx, args(i)...); err != nil {
			return fmt.Errorf("row %d: %w", i, err)
		}
	}
	return nil
}

// LoadSQLite reads the four tables written by Import and builds a Store.
// The database must already exist; it is opened read-only.
func LoadSQLite(ctx context.Context, path string) (*Store, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, &LoadError{Artifact: ArtifactTitleIndex, Path: path, Err: err}
	}
	db, err := sql.Open("sqlite3", dsn(path, "ro"))
	if err != nil {
		return nil, &LoadError{Artifact: ArtifactTitleIndex, Path: path, Err: err}
	}
	defer db.Close()

	popular, err := queryPopular(ctx, db)
	if err != nil {
		return nil, &LoadError{Artifact: ArtifactPopular, Path: path, Err: err}
	}
	books, err := queryBooks(ctx, db)
	if err != nil {
		return nil, &LoadError{Artifact: ArtifactBooks, Path: path, Err: err}
	}
	titles, err := queryTitles(ctx, db)
	if err != nil {
		return nil, &LoadError{Artifact: ArtifactTitleIndex, Path: path, Err: err}
	}
	similarity, err := querySimilarity(ctx, db, len(titles))
	if err != nil {
		return nil, &LoadError{Artifact: ArtifactSimilarity, Path: path, Err: err}
	}

	s, err := New(popular, titles, books, similarity)
	if err != nil {
		if le, ok := err.(*LoadError); ok {
			le.Path = path
		}
		return nil, err
	}
	return s, nil
}

func queryPopular(ctx context.Context, db *sql.DB) ([]types.PopularityEntry, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT title, author, image_url, num_ratings, avg_rating FROM popular ORDER BY rank`)
	if err != nil {
		return nil, fmt.Errorf("querying popular: %w", err)
	}
	defer rows.Close()

	var out []types.PopularityEntry
	for rows.Next() {
		var (
			e     types.PopularityEntry
			image sql.NullString
		)
		if err := rows.Scan(&e.Title, &e.Author, &image, &e.NumRatings, &e.AvgRating); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		e.ImageURL = image.String
		out = append(out, e)
	}
	return out, rows.Err()
}

func queryBooks(ctx context.Context, db *sql.DB) ([]types.CatalogItem, error) {
	rows, err := db.QueryContext(ctx, `SELECT title, author, image_url FROM books ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("querying books: %w", err)
	}
	defer rows.Close()

	var out []types.CatalogItem
	for rows.Next() {
		var (
			b     types.CatalogItem
			image sql.NullString
		)
		if err := rows.Scan(&b.Title, &b.Author, &image); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		b.ImageURL = image.String
		out = append(out, b)
	}
	return out, rows.Err()
}

// queryTitles requires positions to run 0..N-1 without gaps, since the
// position is the join key into the similarity matrix.
func queryTitles(ctx context.Context, db *sql.DB) ([]string, error) {
	rows, err := db.QueryContext(ctx, `SELECT position, title FROM title_index ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("querying title index: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var (
			pos   int
			title string
		)
		if err := rows.Scan(&pos, &title); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		if pos != len(out) {
			return nil, fmt.Errorf("position %d out of sequence, want %d", pos, len(out))
		}
		out = append(out, title)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, ErrEmpty
	}
	return out, nil
}

func querySimilarity(ctx context.Context, db *sql.DB, n int) ([][]float64, error) {
	rows, err := db.QueryContext(ctx, `SELECT src, dst, score FROM similarity ORDER BY src, dst`)
	if err != nil {
		return nil, fmt.Errorf("querying similarity: %w", err)
	}
	defer rows.Close()

	matrix := make([][]float64, n)
	for i := range matrix {
		matrix[i] = make([]float64, n)
	}

	count := 0
	for rows.Next() {
		var (
			r, c  int
			score float64
		)
		if err := rows.Scan(&r, &c, &score); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		if r < 0 || r >= n || c < 0 || c >= n {
			return nil, fmt.Errorf("%w: cell (%d, %d) outside %dx%d", ErrDimension, r, c, n, n)
		}
		matrix[r][c] = score
		count++
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if count != n*n {
		return nil, fmt.Errorf("%w: %d cells for a %dx%d matrix", ErrDimension, count, n, n)
	}
	return matrix, nil
}
