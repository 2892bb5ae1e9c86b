// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package match resolves free-text queries to canonical catalog titles.
//
// Resolution has two tiers tried in order. The substring tier returns the
// first title, in index order, whose lowercase form contains the trimmed,
// lowercased query. The fuzzy tier runs only when no title contains the
// query: it scores every title with the difflib SequenceMatcher ratio and
// keeps the best one at or above the cutoff. The fuzzy tier compares the
// raw query case-sensitively unless FoldCase is set.
package match

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/pdiddy/book-recommender/pkg/types"
)

// DefaultCutoff is the minimum ratio a fuzzy candidate must reach.
const DefaultCutoff = 0.6

// Tier identifies which resolution step produced a match.
type Tier int

const (
	TierNone Tier = iota
	TierSubstring
	TierFuzzy
)

func (t Tier) String() string {
	switch t {
	case TierSubstring:
		return "substring"
	case TierFuzzy:
		return "fuzzy"
	default:
		return "none"
	}
}

// Matcher resolves queries against an ordered title index. The zero value
// uses DefaultCutoff and case-sensitive fuzzy matching.
type Matcher struct {
	// Cutoff is the minimum fuzzy ratio in [0, 1]. Zero means DefaultCutoff.
	Cutoff float64

	// FoldCase lowercases the query and titles in the fuzzy tier.
	FoldCase bool
}

// New returns a Matcher configured from cfg.
func New(cfg types.MatchConfig) Matcher {
	return Matcher{Cutoff: cfg.Cutoff, FoldCase: cfg.FoldCase}
}

// Match returns the title query resolves to, or false when neither tier
// finds one.
func (m Matcher) Match(query string, titles []string) (string, bool) {
	title, tier := m.Resolve(query, titles)
	return title, tier != TierNone
}

// Resolve is Match that also reports the tier that produced the title.
func (m Matcher) Resolve(query string, titles []string) (string, Tier) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return "", TierNone
	}

	for _, t := range titles {
		if strings.Contains(strings.ToLower(t), q) {
			return t, TierSubstring
		}
	}

	word := query
	if m.FoldCase {
		word = q
	}
	if t, ok := closeMatch(word, titles, m.cutoff(), m.FoldCase); ok {
		return t, TierFuzzy
	}
	return "", TierNone
}

func (m Matcher) cutoff() float64 {
	if m.Cutoff <= 0 {
		return DefaultCutoff
	}
	return m.Cutoff
}

// closeMatch returns the title with the highest ratio to word that reaches
// cutoff. Equal ratios go to the lexicographically greater title. The cheap
// upper bounds are checked before the full ratio.
func closeMatch(word string, titles []string, cutoff float64, fold bool) (string, bool) {
	sm := difflib.NewMatcher(nil, chars(word))

	var (
		best      string
		bestScore float64
		found     bool
	)
	for _, t := range titles {
		cand := t
		if fold {
			cand = strings.ToLower(t)
		}
		sm.SetSeq1(chars(cand))
		if sm.RealQuickRatio() < cutoff || sm.QuickRatio() < cutoff {
			continue
		}
		score := sm.Ratio()
		if score < cutoff {
			continue
		}
		if !found || score > bestScore || (score == bestScore && t > best) {
			best, bestScore, found = t, score, true
		}
	}
	return best, found
}

// chars splits s into one element per rune.
func chars(s string) []string {
	return strings.Split(s, "")
}
