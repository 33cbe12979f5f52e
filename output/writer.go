package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/poiesic/cellmatch/core"
)

const indent = "    "

// Details records every column's best match per query, in insertion order.
// The zero value is ready to use.
type Details struct {
	queries []string
	columns map[string][]core.ColumnMatch
}

// Set records the column matches of query. A query recorded earlier keeps its
// position and has its matches replaced.
func (d *Details) Set(query string, columns []core.ColumnMatch) {
	if d.columns == nil {
		d.columns = make(map[string][]core.ColumnMatch)
	}
	if _, ok := d.columns[query]; !ok {
		d.queries = append(d.queries, query)
	}
	d.columns[query] = columns
}

// Add records a full query match.
func (d *Details) Add(m *core.QueryMatch) {
	d.Set(m.Query, m.Columns)
}

// Queries returns the recorded queries in insertion order.
func (d *Details) Queries() []string {
	return d.queries
}

// Columns returns the recorded matches of query.
func (d *Details) Columns(query string) ([]core.ColumnMatch, bool) {
	cols, ok := d.columns[query]
	return cols, ok
}

// Len returns the number of recorded queries.
func (d *Details) Len() int {
	return len(d.queries)
}

// MarshalJSON encodes the record as
// {"<query>": {"<column>": {"column_name", "value", "similarity_score"}}}
// keeping query and column order.
func (d *Details) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, query := range d.queries {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeKey(&buf, query); err != nil {
			return nil, err
		}
		buf.WriteByte('{')
		for j, col := range d.columns[query] {
			if j > 0 {
				buf.WriteByte(',')
			}
			if err := writeKey(&buf, col.Column); err != nil {
				return nil, err
			}
			data, err := marshal(col)
			if err != nil {
				return nil, fmt.Errorf("failed to encode match for column %s: %w", col.Column, err)
			}
			buf.Write(data)
		}
		buf.WriteByte('}')
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func writeKey(buf *bytes.Buffer, key string) error {
	data, err := marshal(key)
	if err != nil {
		return err
	}
	buf.Write(data)
	buf.WriteByte(':')
	return nil
}

// WriteResults writes results to path as an indented JSON array.
// A nil slice is written as an empty array.
func WriteResults(path string, results []core.QueryResult) error {
	if results == nil {
		results = []core.QueryResult{}
	}
	if err := writeJSON(path, results); err != nil {
		return err
	}
	slog.Default().With("component", "output").Info("query results saved", "path", path, "count", len(results))
	return nil
}

// WriteDetails writes the per-column record to path as an indented JSON object.
func WriteDetails(path string, details *Details) error {
	if details == nil {
		details = &Details{}
	}
	if err := writeJSON(path, details); err != nil {
		return err
	}
	slog.Default().With("component", "output").Info("similarity calculations saved", "path", path, "queries", details.Len())
	return nil
}

// marshal encodes v compactly, leaving &, < and > as written.
func marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

func writeJSON(path string, v any) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", indent)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	data := bytes.TrimSuffix(buf.Bytes(), []byte("\n"))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
