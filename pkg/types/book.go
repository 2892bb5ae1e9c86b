// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the book-recommender.
// Catalog records (CatalogItem, PopularityEntry) are produced by the offline
// data-preparation pipeline and consumed read-only; configuration structs
// live in config.go.
package types

import "strings"

// CatalogItem is one row of the book catalog. Several rows may share a
// title when the catalog holds more than one edition of a book.
type CatalogItem struct {
	// Title is the book title as it appears in the catalog (Book-Title).
	Title string `json:"title" yaml:"title"`

	// Author is the book author (Book-Author).
	Author string `json:"author" yaml:"author"`

	// ImageURL references the medium cover image (Image-URL-M).
	// Empty when the catalog has no image for the row.
	ImageURL string `json:"image_url,omitempty" yaml:"image_url,omitempty"`
}

// HasImage reports whether the item carries a non-blank image reference.
func (c CatalogItem) HasImage() bool {
	return strings.TrimSpace(c.ImageURL) != ""
}

// PopularityEntry is a catalog item with its aggregate rating statistics.
// Entries are stored in popularity-rank order.
type PopularityEntry struct {
	CatalogItem `yaml:",inline"`

	// NumRatings is the number of ratings the book received (num_ratings).
	NumRatings int `json:"num_ratings" yaml:"num_ratings"`

	// AvgRating is the mean rating (avg_rating).
	AvgRating float64 `json:"avg_rating" yaml:"avg_rating"`
}
