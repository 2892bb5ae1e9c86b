// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package recommend

import (
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-json"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/book-recommender/pkg/types"
)

// FormatPopularTable writes the popular view as a human-readable table.
func FormatPopularTable(entries []types.PopularityEntry, w io.Writer) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No popular books available.")
		return
	}

	fmt.Fprintf(w, "%-4s  %-50s  %-24s  %-7s  %s\n", "Rank", "Title", "Author", "Votes", "Rating")
	fmt.Fprintln(w, strings.Repeat("-", 98))

	for i, e := range entries {
		fmt.Fprintf(w, "%-4d  %-50s  %-24s  %-7d  %.3f\n",
			i+1, truncate(e.Title, 50), truncate(e.Author, 24), e.NumRatings, e.AvgRating)
	}
}

// FormatRecommendTable writes a recommendation result as a table, or the
// appropriate message when the query matched nothing or yielded no items.
func FormatRecommendTable(res Result, w io.Writer) {
	switch res.Status {
	case StatusNoMatch:
		fmt.Fprintln(w, "No matching book found. Try another title.")
		return
	case StatusNoResults:
		fmt.Fprintf(w, "Input matched to: %s\n", res.MatchedTitle)
		fmt.Fprintln(w, "No recommendations found.")
		return
	}

	fmt.Fprintf(w, "Input matched to: %s\n\n", res.MatchedTitle)
	fmt.Fprintf(w, "%-4s  %-50s  %-24s  %s\n", "Rank", "Title", "Author", "Image")
	fmt.Fprintln(w, strings.Repeat("-", 98))

	for i, item := range res.Items {
		image := "-"
		if item.HasImage() {
			image = item.ImageURL
		}
		fmt.Fprintf(w, "%-4d  %-50s  %-24s  %s\n",
			i+1, truncate(item.Title, 50), truncate(item.Author, 24), image)
	}

	fmt.Fprintf(w, "\n%d recommendations\n", len(res.Items))
}

// FormatJSON writes v as indented JSON.
func FormatJSON(v any, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// FormatYAML writes v as YAML.
func FormatYAML(v any, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	return enc.Close()
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
