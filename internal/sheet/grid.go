package sheet

import "strings"

// Grid is the raw cell content of a sheet, row-major, starting at A1.
type Grid [][]string

// Get returns the value at ref, or "" when outside the grid.
func (g Grid) Get(ref CellRef) string {
	r := ref.Row - 1
	if r < 0 || r >= len(g) || ref.Col < 0 || ref.Col >= len(g[r]) {
		return ""
	}
	return g[r][ref.Col]
}

// Set writes value at ref, growing the grid as needed.
func (g *Grid) Set(ref CellRef, value string) {
	r := ref.Row - 1
	for len(*g) <= r {
		*g = append(*g, nil)
	}
	row := (*g)[r]
	for len(row) <= ref.Col {
		row = append(row, "")
	}
	row[ref.Col] = value
	(*g)[r] = row
}

// TableAt reads a table whose header row starts at start. Trailing blank
// header cells are dropped and every data row below the header is kept, so
// row i of the table sits on sheet row start.Row+1+i.
func (g Grid) TableAt(start CellRef) *Table {
	hr := start.Row - 1
	if hr < 0 || hr >= len(g) {
		return &Table{}
	}

	header := sliceFrom(g[hr], start.Col)
	for len(header) > 0 && strings.TrimSpace(header[len(header)-1]) == "" {
		header = header[:len(header)-1]
	}
	t := &Table{Columns: make([]string, len(header))}
	for i, h := range header {
		t.Columns[i] = strings.TrimSpace(h)
	}

	last := len(g) - 1
	for last > hr && blank(sliceFrom(g[last], start.Col)) {
		last--
	}
	for r := hr + 1; r <= last; r++ {
		t.Append(sliceFrom(g[r], start.Col))
	}
	return t
}

// PutTable writes the header and rows of t with the header at start.
func (g *Grid) PutTable(t *Table, start CellRef) {
	for c, h := range t.Columns {
		g.Set(start.Offset(0, c), h)
	}
	for r, row := range t.Rows {
		for c, v := range row {
			g.Set(start.Offset(r+1, c), v)
		}
	}
}

// Values renders the table as header plus rows, ready for a values write.
func (t *Table) Values() [][]string {
	out := make([][]string, 0, len(t.Rows)+1)
	out = append(out, t.Columns)
	return append(out, t.Rows...)
}

func sliceFrom(row []string, col int) []string {
	if col >= len(row) {
		return nil
	}
	return row[col:]
}

func blank(row []string) bool {
	for _, v := range row {
		if v != "" {
			return false
		}
	}
	return true
}
