package table

import "github.com/poiesic/cellmatch/core"

// ColumnInfo summarises one column.
type ColumnInfo struct {
	Name    string
	Kind    core.ColumnKind
	Present int // non-missing cells
	Unique  int // distinct non-missing values
	Twin    bool
}

// Inspect summarises every column of tbl in table order.
func Inspect(tbl *core.Table) []ColumnInfo {
	infos := make([]ColumnInfo, 0, len(tbl.Columns()))
	for _, col := range tbl.Columns() {
		present := 0
		for _, v := range col.Values {
			if v != nil {
				present++
			}
		}
		infos = append(infos, ColumnInfo{
			Name:    col.Name,
			Kind:    col.Kind,
			Present: present,
			Unique:  len(col.Unique()),
			Twin:    col.IsTwin(),
		})
	}
	return infos
}
