package core

import "fmt"

// ColumnMatch is the best scoring value of one column for one query.
type ColumnMatch struct {
	Column string  `json:"column_name"`
	Value  any     `json:"value"`
	Score  float64 `json:"similarity_score"`

	Key string `json:"-"` // canonical text of Value in the origin column
	Row int    `json:"-"` // first row holding Value, -1 when there is none
}

// NoMatch is the starting point of a column search: no value and a score of -1.
func NoMatch(column string) ColumnMatch {
	return ColumnMatch{Column: column, Score: -1, Row: -1}
}

// Found reports whether a value was selected.
func (m ColumnMatch) Found() bool {
	return m.Row >= 0
}

// QueryResult is the serialized best result of a query.
type QueryResult struct {
	ColumnName string   `json:"column_name"`
	Value      any      `json:"value"`
	RowIDs     []string `json:"row_ids"`
	BestScore  float64  `json:"best_score"`
	UserQuery  string   `json:"user_query"`
}

// QueryMatch holds everything computed for one query.
type QueryMatch struct {
	Query   string
	Columns []ColumnMatch // per-column best matches, in search order
	Best    *ColumnMatch  // nil when no column produced a match
	Rows    []int         // zero-based data rows holding the best value
}

// Result converts the match into its serialized form.
// The boolean is false when the query has no best match.
func (q *QueryMatch) Result() (QueryResult, bool) {
	if q.Best == nil {
		return QueryResult{}, false
	}
	return QueryResult{
		ColumnName: q.Best.Column,
		Value:      q.Best.Value,
		RowIDs:     RowIDs(q.Rows),
		BestScore:  q.Best.Score,
		UserQuery:  q.Query,
	}, true
}

// RowID names a zero-based data row the way a spreadsheet shows it:
// the header occupies line 1, so data row 0 is "row2".
func RowID(row int) string {
	return fmt.Sprintf("row%d", row+2)
}

// RowIDs maps RowID over rows.
func RowIDs(rows []int) []string {
	ids := make([]string, len(rows))
	for i, r := range rows {
		ids[i] = RowID(r)
	}
	return ids
}
