package match

import (
	"fmt"

	"github.com/poiesic/cellmatch/core"
)

// BestInColumn scores candidate vectors against the query vector and returns the first
// candidate with the highest score. The search starts from a score of -1 and only a
// strictly greater score replaces the current best, so a column whose candidates all
// score NaN or -1 yields core.NoMatch.
//
// vectors[i] is the embedding of candidates[i]. Reported values come from col.Origin.
func BestInColumn(col core.SearchColumn, candidates []core.Candidate, vectors [][]float32, query []float32) (core.ColumnMatch, error) {
	if len(vectors) != len(candidates) {
		return core.ColumnMatch{}, fmt.Errorf("%w: expected %d, received %d", ErrEmbeddingCount, len(candidates), len(vectors))
	}

	best := core.NoMatch(col.Name)
	for i, cand := range candidates {
		if len(vectors[i]) != len(query) {
			return core.ColumnMatch{}, fmt.Errorf("%w: column %s value %q has %d dimensions, query has %d",
				ErrDimensionMismatch, col.Name, cand.Text, len(vectors[i]), len(query))
		}
		score := CosineSimilarity(query, vectors[i])
		if score > best.Score {
			best = core.ColumnMatch{
				Column: col.Name,
				Value:  col.Origin.Value(cand.Row),
				Score:  score,
				Key:    col.Origin.Key(cand.Row),
				Row:    cand.Row,
			}
		}
	}
	return best, nil
}

// OverallBest returns the first column match with the highest score, or nil when no
// match scores above -1.
func OverallBest(matches []core.ColumnMatch) *core.ColumnMatch {
	var best *core.ColumnMatch
	bestScore := -1.0
	for i := range matches {
		if !matches[i].Found() {
			continue
		}
		if matches[i].Score > bestScore {
			bestScore = matches[i].Score
			best = &matches[i]
		}
	}
	if best == nil {
		return nil
	}
	out := *best
	return &out
}

// MatchingRows returns every row of the table whose value in the match's column equals
// the matched value.
func MatchingRows(tbl *core.Table, m *core.ColumnMatch) []int {
	if m == nil {
		return nil
	}
	col, ok := tbl.Column(m.Column)
	if !ok {
		return nil
	}
	return col.Rows(m.Key)
}
