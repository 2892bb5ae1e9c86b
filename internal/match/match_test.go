// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package match

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var shelf = []string{"The Hobbit", "Dune", "Neuromancer"}

func TestResolve(t *testing.T) {
	tests := []struct {
		name     string
		matcher  Matcher
		query    string
		titles   []string
		want     string
		wantTier Tier
	}{
		{"exact title", Matcher{}, "Dune", shelf, "Dune", TierSubstring},
		{"partial lowercase", Matcher{}, "hobb", shelf, "The Hobbit", TierSubstring},
		{"surrounding whitespace", Matcher{}, "  NEURO  ", shelf, "Neuromancer", TierSubstring},
		{"misspelling", Matcher{}, "Hobit", shelf, "The Hobbit", TierFuzzy},
		{"transposed letters", Matcher{}, "Dnue", shelf, "Dune", TierFuzzy},
		{"fuzzy tier is case-sensitive", Matcher{}, "THE HOBIT", shelf, "", TierNone},
		{"fold case reaches fuzzy tier", Matcher{FoldCase: true}, "THE HOBIT", shelf, "The Hobbit", TierFuzzy},
		{"no approximate match", Matcher{}, "xyzzy-nonexistent-title-zzz", shelf, "", TierNone},
		{"stricter cutoff rejects", Matcher{Cutoff: 0.7}, "Hobit", shelf, "", TierNone},
		{"equal ratios prefer greater title", Matcher{}, "abcx", []string{"abcd", "abce"}, "abce", TierFuzzy},
		{"empty title index", Matcher{}, "Dune", nil, "", TierNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, tier := tt.matcher.Resolve(tt.query, tt.titles)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantTier, tier)
		})
	}
}

func TestMatchEmptyQuery(t *testing.T) {
	for _, q := range []string{"", "   ", "\t\n"} {
		got, ok := Matcher{}.Match(q, shelf)
		assert.False(t, ok, "query %q", q)
		assert.Empty(t, got)
	}
}

func TestMatchPrefersIndexOrderOverBestMatch(t *testing.T) {
	titles := []string{
		"Harry Potter and the Goblet of Fire",
		"Harry Potter",
		"Harry Potter and the Chamber of Secrets",
	}
	got, ok := Matcher{}.Match("harry potter", titles)
	require.True(t, ok)
	assert.Equal(t, titles[0], got, "first containing title wins, not the exact one")
}

func TestMatchSubstringProperty(t *testing.T) {
	titles := []string{
		"A Time to Kill",
		"The Time Traveler's Wife",
		"Timeline",
		"Angels & Demons",
	}
	for _, title := range titles {
		for i := 0; i < len(title); i++ {
			for j := i + 1; j <= len(title); j++ {
				query := title[i:j]
				if strings.TrimSpace(query) == "" {
					continue
				}
				got, tier := Matcher{}.Resolve(query, titles)
				require.Equal(t, TierSubstring, tier, "query %q", query)

				norm := strings.ToLower(strings.TrimSpace(query))
				assert.Contains(t, strings.ToLower(got), norm)
				for _, earlier := range titles {
					if earlier == got {
						break
					}
					assert.NotContains(t, strings.ToLower(earlier), norm,
						"query %q resolved to %q but %q comes first", query, got, earlier)
				}
			}
		}
	}
}

func TestMatchIsDeterministic(t *testing.T) {
	first, _ := Matcher{}.Resolve("Neuromacner", shelf)
	require.Equal(t, "Neuromancer", first)
	for i := 0; i < 20; i++ {
		got, _ := Matcher{}.Resolve("Neuromacner", shelf)
		assert.Equal(t, first, got)
	}
}

func TestTierString(t *testing.T) {
	assert.Equal(t, "substring", TierSubstring.String())
	assert.Equal(t, "fuzzy", TierFuzzy.String())
	assert.Equal(t, "none", TierNone.String())
}

func TestSuggest(t *testing.T) {
	titles := []string{"Dune", "Dune Messiah", "The Hobbit", "Dune", "Children of Dune"}

	tests := []struct {
		name    string
		pattern string
		limit   int
		want    []string
	}{
		{"empty pattern lists distinct titles in order", "", 0, []string{"Dune", "Dune Messiah", "The Hobbit", "Children of Dune"}},
		{"empty pattern honours limit", "", 2, []string{"Dune", "Dune Messiah"}},
		{"no match", "zzz", 5, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Suggest(tt.pattern, titles, tt.limit))
		})
	}

	got := Suggest("hbt", titles, 0)
	assert.Equal(t, []string{"The Hobbit"}, got)

	got = Suggest("dune", titles, 0)
	assert.ElementsMatch(t, []string{"Dune", "Dune Messiah", "Children of Dune"}, got)
}
