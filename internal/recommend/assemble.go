// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package recommend

import (
	"github.com/pdiddy/book-recommender/internal/rank"
	"github.com/pdiddy/book-recommender/pkg/types"
)

// Lookup finds catalog rows by title.
type Lookup interface {
	ItemsByTitle(title string) []types.CatalogItem
}

// Assemble joins ranked candidates back to catalog metadata. Candidates are
// visited in order; each resolves to a title through the title index and
// contributes the first catalog row for that title. Titles without catalog
// rows, titles already emitted, and excluded titles are skipped without
// counting toward k. Assemble stops after k items.
func Assemble(cands []rank.Candidate, titles []string, lookup Lookup, k int, exclude ...string) []types.CatalogItem {
	if k <= 0 {
		return []types.CatalogItem{}
	}
	out := make([]types.CatalogItem, 0, min(k, len(cands)))

	seen := make(map[string]struct{}, len(exclude)+k)
	for _, t := range exclude {
		seen[t] = struct{}{}
	}

	for _, c := range cands {
		if c.Row < 0 || c.Row >= len(titles) {
			continue
		}
		title := titles[c.Row]
		if _, dup := seen[title]; dup {
			continue
		}
		rows := lookup.ItemsByTitle(title)
		if len(rows) == 0 {
			continue
		}
		seen[title] = struct{}{}
		out = append(out, rows[0])
		if len(out) == k {
			break
		}
	}
	return out
}
