package core

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"strconv"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// DateLayout is the rendering of date cells whose time of day is midnight.
const DateLayout = "2006-01-02"

// DateTimeLayout is the rendering of date cells that carry a time of day.
const DateTimeLayout = "2006-01-02 15:04:05"

// ID is a content-derived identifier.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	return digest(func(w io.Writer) {
		io.WriteString(w, text)
	})
}

// digest hashes everything write produces into an ID.
func digest(write func(w io.Writer)) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	write(h)
	return ID(binary.LittleEndian.Uint64(h.Sum(nil)))
}

// String renders the ID as fixed-width hex.
func (id ID) String() string {
	return fmt.Sprintf("%016x", uint64(id))
}

// ColumnKind is the inferred type of a table column.
type ColumnKind int

const (
	KindUnknown ColumnKind = iota
	KindTextual
	KindInteger
	KindFloat
	KindDate
)

// String returns the coarse type name: textual, numeric, date or unknown.
func (k ColumnKind) String() string {
	switch k {
	case KindTextual:
		return "textual"
	case KindInteger, KindFloat:
		return "numeric"
	case KindDate:
		return "date"
	default:
		return "unknown"
	}
}

// IsText reports whether values of this kind are already text.
func (k ColumnKind) IsText() bool {
	return k == KindTextual
}

// Column is one named column of a table.
// Values holds one entry per row; nil marks a missing cell. Depending on Kind the
// non-nil entries are string, int64, float64 or time.Time.
type Column struct {
	Name   string
	Kind   ColumnKind
	Source string // set on stringified twins: the column the twin was derived from
	Values []any
}

// Len returns the number of rows in the column.
func (c *Column) Len() int {
	return len(c.Values)
}

// IsTwin reports whether the column was derived from another column.
func (c *Column) IsTwin() bool {
	return c.Source != ""
}

// Value returns the cell at row i in a JSON friendly form.
// Dates are rendered as in FormatValue; missing cells are nil.
func (c *Column) Value(i int) any {
	v := c.Values[i]
	if t, ok := v.(time.Time); ok {
		return FormatDate(t)
	}
	return v
}

// Key returns the canonical text of the cell at row i, or "" when the cell is missing.
// Two cells hold the same value exactly when their keys are equal.
func (c *Column) Key(i int) string {
	return FormatValue(c.Values[i])
}

// Candidate is one distinct value of a column together with the first row holding it.
type Candidate struct {
	Text string
	Row  int
}

// Unique returns the distinct non-missing values of the column in first-appearance order.
func (c *Column) Unique() []Candidate {
	seen := make(map[string]struct{}, len(c.Values))
	out := make([]Candidate, 0)
	for i, v := range c.Values {
		if v == nil {
			continue
		}
		key := FormatValue(v)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, Candidate{Text: key, Row: i})
	}
	return out
}

// Rows returns the indices of every row whose key equals key.
func (c *Column) Rows(key string) []int {
	var rows []int
	for i, v := range c.Values {
		if v == nil {
			continue
		}
		if FormatValue(v) == key {
			rows = append(rows, i)
		}
	}
	return rows
}

// FormatValue renders a cell value as text.
// Integral floats keep a trailing ".0" so that integer and float columns stay distinguishable.
func FormatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		if math.IsNaN(val) {
			return "nan"
		}
		s := strconv.FormatFloat(val, 'f', -1, 64)
		if val == math.Trunc(val) && !math.IsInf(val, 0) {
			s += ".0"
		}
		return s
	case time.Time:
		return FormatDate(val)
	default:
		return fmt.Sprint(val)
	}
}

// FormatDate renders t as YYYY-MM-DD at midnight and with the time of day otherwise,
// so two timestamps of the same day stay distinct.
func FormatDate(t time.Time) string {
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0 {
		return t.Format(DateLayout)
	}
	if t.Nanosecond() != 0 {
		return t.Format("2006-01-02 15:04:05.999999999")
	}
	return t.Format(DateTimeLayout)
}
