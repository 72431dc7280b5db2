package dataset

// Column is a named sequence of cells.
type Column struct {
	Name   string
	Values []Value
}

// Dataset is an ordered set of equally long columns.
type Dataset struct {
	Columns []Column
}

// RowCount returns the number of data rows (header excluded).
func (d *Dataset) RowCount() int {
	if len(d.Columns) == 0 {
		return 0
	}
	return len(d.Columns[0].Values)
}

// ColumnNames returns the column names in order.
func (d *Dataset) ColumnNames() []string {
	names := make([]string, len(d.Columns))
	for i, c := range d.Columns {
		names[i] = c.Name
	}
	return names
}

// Column returns the column with the given name.
func (d *Dataset) Column(name string) (*Column, bool) {
	for i := range d.Columns {
		if d.Columns[i].Name == name {
			return &d.Columns[i], true
		}
	}
	return nil, false
}

// Args returns the rows in column order as pgx bind arguments.
func (d *Dataset) Args() [][]any {
	rows := make([][]any, d.RowCount())
	for r := range rows {
		row := make([]any, len(d.Columns))
		for c := range d.Columns {
			row[c] = d.Columns[c].Values[r].Arg()
		}
		rows[r] = row
	}
	return rows
}
