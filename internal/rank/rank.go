// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package rank orders the items of a similarity matrix row.
package rank

import (
	"fmt"
	"sort"
)

// Candidate is one ranked column of a similarity row.
type Candidate struct {
	// Row is the title-index position of the candidate item.
	Row int `json:"row" yaml:"row"`

	// Score is its similarity to the query item.
	Score float64 `json:"score" yaml:"score"`
}

// Rank returns every column of matrix[row] except row itself, ordered by
// score descending. Equal scores keep column order. The self column is
// dropped by position, whatever its score.
//
// The result is not truncated: titles may repeat across rows, so callers
// stop once they have accepted enough distinct items.
func Rank(row int, matrix [][]float64) ([]Candidate, error) {
	if row < 0 || row >= len(matrix) {
		return nil, fmt.Errorf("row %d out of range [0, %d)", row, len(matrix))
	}
	scores := matrix[row]

	out := make([]Candidate, 0, len(scores))
	for col, s := range scores {
		if col == row {
			continue
		}
		out = append(out, Candidate{Row: col, Score: s})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	return out, nil
}
