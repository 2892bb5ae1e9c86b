// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package match

import "github.com/sahilm/fuzzy"

// Suggest returns up to limit distinct titles ranked by how well pattern
// matches them as a character subsequence. An empty pattern lists titles in
// index order. A limit of zero or less means no limit.
func Suggest(pattern string, titles []string, limit int) []string {
	seen := make(map[string]struct{})
	var out []string
	add := func(t string) bool {
		if _, ok := seen[t]; ok {
			return true
		}
		seen[t] = struct{}{}
		out = append(out, t)
		return limit <= 0 || len(out) < limit
	}

	if pattern == "" {
		for _, t := range titles {
			if !add(t) {
				break
			}
		}
		return out
	}

	for _, m := range fuzzy.Find(pattern, titles) {
		if !add(m.Str) {
			break
		}
	}
	return out
}
