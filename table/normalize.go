package table

import (
	"fmt"
	"strings"

	"github.com/poiesic/cellmatch/core"
)

var nameSeparators = strings.NewReplacer("_", " ", "-", " ", "/", " ")

// CleanColumnName turns a header into words: separators become spaces, the result is
// trimmed and lowercased.
func CleanColumnName(name string) string {
	return strings.ToLower(strings.TrimSpace(nameSeparators.Replace(name)))
}

// Filter keeps only the named columns, in the order given.
// An empty selection returns tbl unchanged. Repeated names are kept once.
func Filter(tbl *core.Table, cols []string) (*core.Table, error) {
	if len(cols) == 0 {
		return tbl, nil
	}

	var missing []string
	selected := make([]*core.Column, 0, len(cols))
	seen := make(map[string]struct{}, len(cols))
	for _, name := range cols {
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}

		col, ok := tbl.Column(name)
		if !ok {
			missing = append(missing, name)
			continue
		}
		selected = append(selected, col)
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(missing, ", "))
	}
	return core.NewTable(selected...)
}

// AddStringTwins returns a copy of tbl with a stringified twin appended for every
// non-textual column. A twin cell reads "<clean column name> <value>"; missing cells
// stay missing. Twins are named "s_<name>", with a numeric suffix when the table already
// has a column of that name.
func AddStringTwins(tbl *core.Table) (*core.Table, error) {
	out, err := core.NewTable(tbl.Columns()...)
	if err != nil {
		return nil, err
	}

	for _, col := range tbl.Columns() {
		if col.Kind.IsText() || col.IsTwin() {
			continue
		}
		if _, ok := tbl.TwinOf(col.Name); ok {
			continue
		}
		prefix := CleanColumnName(col.Name)
		values := make([]any, col.Len())
		for i, v := range col.Values {
			if v == nil {
				continue
			}
			values[i] = prefix + " " + core.FormatValue(v)
		}
		twin := &core.Column{
			Name:   twinName(out, col.Name),
			Kind:   core.KindTextual,
			Source: col.Name,
			Values: values,
		}
		if err := out.Append(twin); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// twinName returns "s_<name>", or "s_<name>_<n>" with the smallest n >= 2 that is free.
func twinName(tbl *core.Table, name string) string {
	candidate := core.TwinPrefix + name
	for n := 2; ; n++ {
		if _, taken := tbl.Column(candidate); !taken {
			return candidate
		}
		candidate = fmt.Sprintf("%s%s_%d", core.TwinPrefix, name, n)
	}
}
