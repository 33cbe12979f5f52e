package core

import (
	"fmt"
	"io"
)

// TwinPrefix is prepended to a column name to name its stringified twin.
const TwinPrefix = "s_"

// Table is an ordered set of equally long columns.
type Table struct {
	columns []*Column
	index   map[string]int
	rows    int
}

// NewTable builds a table from columns.
// Column names must be unique and every column must have the same length.
func NewTable(columns ...*Column) (*Table, error) {
	t := &Table{
		columns: make([]*Column, 0, len(columns)),
		index:   make(map[string]int, len(columns)),
	}
	for _, col := range columns {
		if err := t.Append(col); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// Append adds a column at the end of the table.
func (t *Table) Append(col *Column) error {
	if err := ValidateColumn(col); err != nil {
		return err
	}
	if _, ok := t.index[col.Name]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateColumn, col.Name)
	}
	if len(t.columns) > 0 && col.Len() != t.rows {
		return fmt.Errorf("%w: column %q has %d rows, table has %d", ErrInvalidColumn, col.Name, col.Len(), t.rows)
	}
	t.rows = col.Len()
	t.index[col.Name] = len(t.columns)
	t.columns = append(t.columns, col)
	return nil
}

// Columns returns the columns in table order.
func (t *Table) Columns() []*Column {
	return t.columns
}

// Column looks up a column by name.
func (t *Table) Column(name string) (*Column, bool) {
	i, ok := t.index[name]
	if !ok {
		return nil, false
	}
	return t.columns[i], true
}

// Names returns the column names in table order.
func (t *Table) Names() []string {
	names := make([]string, len(t.columns))
	for i, col := range t.columns {
		names[i] = col.Name
	}
	return names
}

// Rows returns the number of data rows.
func (t *Table) Rows() int {
	return t.rows
}

// SearchColumn pairs the column whose values are embedded with the column results refer to.
type SearchColumn struct {
	Name   string  // reported column name
	Values *Column // column whose text is embedded
	Origin *Column // column that holds the reported values
}

// Searchable lists the columns to search, in search order.
// A column that has a twin (a column whose Source names it) is searched through the
// twin, under its own name. Columns are visited in table order, so twins (appended
// last) come after the text columns.
func (t *Table) Searchable() []SearchColumn {
	twinned := make(map[string]struct{}, len(t.columns))
	for _, col := range t.columns {
		if col.IsTwin() {
			twinned[col.Source] = struct{}{}
		}
	}

	out := make([]SearchColumn, 0, len(t.columns))
	done := make(map[string]struct{}, len(t.columns))
	for _, col := range t.columns {
		if col.IsTwin() {
			if _, ok := done[col.Source]; ok {
				continue
			}
			origin, ok := t.Column(col.Source)
			if !ok {
				origin = col
			}
			out = append(out, SearchColumn{Name: col.Source, Values: col, Origin: origin})
			done[col.Source] = struct{}{}
			continue
		}
		if _, ok := twinned[col.Name]; ok {
			continue
		}
		out = append(out, SearchColumn{Name: col.Name, Values: col, Origin: col})
		done[col.Name] = struct{}{}
	}
	return out
}

// TwinOf returns the twin derived from the named column, if any.
func (t *Table) TwinOf(name string) (*Column, bool) {
	for _, col := range t.columns {
		if col.Source == name {
			return col, true
		}
	}
	return nil, false
}

// Fingerprint returns a BLAKE2b digest of the header and every cell.
func (t *Table) Fingerprint() ID {
	return digest(func(w io.Writer) {
		for _, col := range t.columns {
			io.WriteString(w, col.Name)
			w.Write([]byte{0})
		}
		w.Write([]byte{'\n'})
		for r := 0; r < t.rows; r++ {
			for _, col := range t.columns {
				io.WriteString(w, col.Key(r))
				w.Write([]byte{0})
			}
			w.Write([]byte{'\n'})
		}
	})
}
