package core

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIDFromContent(t *testing.T) {
	assert.Equal(t, IDFromContent("test content"), IDFromContent("test content"))
	assert.Equal(t, IDFromContent(""), IDFromContent(""))
	assert.NotEqual(t, IDFromContent("content1"), IDFromContent("content2"))
	assert.Len(t, IDFromContent("x").String(), 16)
}

func TestFingerprintMatchesContentID(t *testing.T) {
	tbl, err := NewTable(&Column{Name: "a", Kind: KindTextual, Values: []any{"x"}})
	require.NoError(t, err)
	assert.Equal(t, IDFromContent("a\x00\nx\x00\n"), tbl.Fingerprint())
}

func TestColumnKindString(t *testing.T) {
	assert.Equal(t, "textual", KindTextual.String())
	assert.Equal(t, "numeric", KindInteger.String())
	assert.Equal(t, "numeric", KindFloat.String())
	assert.Equal(t, "date", KindDate.String())
	assert.Equal(t, "unknown", KindUnknown.String())
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  string
	}{
		{"missing", nil, ""},
		{"text", "Air", "Air"},
		{"integer", int64(42), "42"},
		{"negative integer", int64(-3), "-3"},
		{"integral float", 5.0, "5.0"},
		{"fractional float", 2.25, "2.25"},
		{"nan", math.NaN(), "nan"},
		{"date", time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC), "2024-03-09"},
		{"date time", time.Date(2024, 3, 9, 10, 0, 0, 0, time.UTC), "2024-03-09 10:00:00"},
		{"fractional seconds", time.Date(2024, 3, 9, 10, 0, 0, 500000000, time.UTC), "2024-03-09 10:00:00.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatValue(tt.value))
		})
	}
}

func TestColumnUnique(t *testing.T) {
	col := &Column{
		Name:   "Mode_Of_Transport",
		Kind:   KindTextual,
		Values: []any{"Air", "Sea", nil, "Air", "Road", "Sea"},
	}

	got := col.Unique()
	assert.Equal(t, []Candidate{
		{Text: "Air", Row: 0},
		{Text: "Sea", Row: 1},
		{Text: "Road", Row: 4},
	}, got)
	assert.Equal(t, []int{1, 5}, col.Rows("Sea"))
	assert.Empty(t, col.Rows("Rail"))
}

func TestColumnValue(t *testing.T) {
	col := &Column{
		Name:   "Order_date",
		Kind:   KindDate,
		Values: []any{time.Date(2023, 1, 5, 0, 0, 0, 0, time.UTC), nil},
	}

	assert.Equal(t, "2023-01-05", col.Value(0))
	assert.Nil(t, col.Value(1))
	assert.Equal(t, "", col.Key(1))
}

func TestNewTable(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		tbl, err := NewTable(
			&Column{Name: "a", Kind: KindTextual, Values: []any{"x", "y"}},
			&Column{Name: "b", Kind: KindInteger, Values: []any{int64(1), int64(2)}},
		)
		require.NoError(t, err)
		assert.Equal(t, 2, tbl.Rows())
		assert.Equal(t, []string{"a", "b"}, tbl.Names())

		col, ok := tbl.Column("b")
		require.True(t, ok)
		assert.Equal(t, KindInteger, col.Kind)

		_, ok = tbl.Column("c")
		assert.False(t, ok)
	})

	t.Run("duplicate name", func(t *testing.T) {
		_, err := NewTable(
			&Column{Name: "a", Values: []any{"x"}},
			&Column{Name: "a", Values: []any{"y"}},
		)
		assert.ErrorIs(t, err, ErrDuplicateColumn)
	})

	t.Run("ragged columns", func(t *testing.T) {
		_, err := NewTable(
			&Column{Name: "a", Values: []any{"x"}},
			&Column{Name: "b", Values: []any{"y", "z"}},
		)
		assert.ErrorIs(t, err, ErrInvalidColumn)
	})

	t.Run("empty name", func(t *testing.T) {
		_, err := NewTable(&Column{Values: []any{"x"}})
		assert.ErrorIs(t, err, ErrInvalidColumn)
	})

	t.Run("values disagree with kind", func(t *testing.T) {
		_, err := NewTable(&Column{Name: "a", Kind: KindInteger, Values: []any{int64(1), "2"}})
		assert.ErrorIs(t, err, ErrInvalidColumn)
	})
}

func TestColumnValue_SameDayTimestamps(t *testing.T) {
	col := &Column{
		Name: "ts",
		Kind: KindDate,
		Values: []any{
			time.Date(2024, 1, 5, 10, 0, 0, 0, time.UTC),
			time.Date(2024, 1, 5, 23, 59, 0, 0, time.UTC),
		},
	}

	assert.Len(t, col.Unique(), 2)
	assert.Equal(t, "2024-01-05 10:00:00", col.Value(0))
	assert.Equal(t, []int{1}, col.Rows(col.Key(1)))
}

func TestTableSearchable(t *testing.T) {
	tbl, err := NewTable(
		&Column{Name: "Carrier", Kind: KindTextual, Values: []any{"DHL"}},
		&Column{Name: "Distance", Kind: KindInteger, Values: []any{int64(10)}},
		&Column{Name: "Status", Kind: KindTextual, Values: []any{"Delivered"}},
		&Column{Name: "s_Distance", Kind: KindTextual, Source: "Distance", Values: []any{"distance 10"}},
	)
	require.NoError(t, err)

	cols := tbl.Searchable()
	require.Len(t, cols, 3)

	assert.Equal(t, "Carrier", cols[0].Name)
	assert.Equal(t, "Status", cols[1].Name)
	assert.Equal(t, "Distance", cols[2].Name)
	assert.Equal(t, "s_Distance", cols[2].Values.Name)
	assert.Equal(t, "Distance", cols[2].Origin.Name)
}

func TestTableSearchable_TwinFoundBySource(t *testing.T) {
	tbl, err := NewTable(
		&Column{Name: "weight", Kind: KindInteger, Values: []any{int64(10)}},
		&Column{Name: "s_weight", Kind: KindTextual, Values: []any{"heavy"}},
		&Column{Name: "s_weight_2", Kind: KindTextual, Source: "weight", Values: []any{"weight 10"}},
	)
	require.NoError(t, err)

	cols := tbl.Searchable()
	require.Len(t, cols, 2)
	assert.Equal(t, "s_weight", cols[0].Name)
	assert.Equal(t, "s_weight", cols[0].Values.Name)
	assert.Equal(t, "weight", cols[1].Name)
	assert.Equal(t, "s_weight_2", cols[1].Values.Name)

	twin, ok := tbl.TwinOf("weight")
	require.True(t, ok)
	assert.Equal(t, "s_weight_2", twin.Name)
	_, ok = tbl.TwinOf("s_weight")
	assert.False(t, ok)
}

func TestTableFingerprint(t *testing.T) {
	build := func(v string) *Table {
		tbl, err := NewTable(&Column{Name: "a", Kind: KindTextual, Values: []any{v}})
		require.NoError(t, err)
		return tbl
	}

	assert.Equal(t, build("x").Fingerprint(), build("x").Fingerprint())
	assert.NotEqual(t, build("x").Fingerprint(), build("y").Fingerprint())
}

func TestQueryMatchResult(t *testing.T) {
	t.Run("no best", func(t *testing.T) {
		q := &QueryMatch{Query: "anything"}
		_, ok := q.Result()
		assert.False(t, ok)
	})

	t.Run("with best", func(t *testing.T) {
		best := ColumnMatch{Column: "Carrier", Value: "DHL", Score: 0.9, Key: "DHL", Row: 0}
		q := &QueryMatch{Query: "dhl shipments", Best: &best, Rows: []int{0, 3}}

		res, ok := q.Result()
		require.True(t, ok)
		assert.Equal(t, "Carrier", res.ColumnName)
		assert.Equal(t, "DHL", res.Value)
		assert.Equal(t, []string{"row2", "row5"}, res.RowIDs)
		assert.Equal(t, 0.9, res.BestScore)
		assert.Equal(t, "dhl shipments", res.UserQuery)
	})
}

func TestNoMatch(t *testing.T) {
	m := NoMatch("Carrier")
	assert.Equal(t, -1.0, m.Score)
	assert.Nil(t, m.Value)
	assert.False(t, m.Found())
}
