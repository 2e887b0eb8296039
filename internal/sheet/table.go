package sheet

// Table is a block of cells with a header row. Rows are padded to the header
// width; an empty string means the cell was blank.
type Table struct {
	Columns []string
	Rows    [][]string
}

// NewTable creates an empty table with the given header.
func NewTable(columns ...string) *Table {
	return &Table{Columns: columns}
}

// ColumnIndex returns the position of the named column, or -1.
func (t *Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Append adds a row, padding or truncating it to the header width.
func (t *Table) Append(row []string) {
	t.Rows = append(t.Rows, fit(row, len(t.Columns)))
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

func fit(row []string, width int) []string {
	out := make([]string, width)
	copy(out, row)
	return out
}
