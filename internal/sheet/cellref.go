package sheet

import (
	"fmt"
	"strconv"
	"strings"
)

// CellRef addresses a single cell in A1 notation. Col is zero-based, Row is
// one-based, matching how spreadsheets number them.
type CellRef struct {
	Col int
	Row int
}

// ParseCellRef parses an A1-style reference such as "D4" or "aa10".
func ParseCellRef(s string) (CellRef, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	i := 0
	for i < len(s) && s[i] >= 'A' && s[i] <= 'Z' {
		i++
	}
	if i == 0 || i == len(s) {
		return CellRef{}, fmt.Errorf("invalid cell reference %q", s)
	}

	col, err := ColumnIndex(s[:i])
	if err != nil {
		return CellRef{}, err
	}
	row, err := strconv.Atoi(s[i:])
	if err != nil || row < 1 {
		return CellRef{}, fmt.Errorf("invalid row in cell reference %q", s)
	}

	return CellRef{Col: col, Row: row}, nil
}

// MustParseCellRef is ParseCellRef for compile-time constants.
func MustParseCellRef(s string) CellRef {
	ref, err := ParseCellRef(s)
	if err != nil {
		panic(err)
	}
	return ref
}

// ColumnIndex converts column letters ("A", "D", "AA") to a zero-based index.
func ColumnIndex(letters string) (int, error) {
	letters = strings.ToUpper(strings.TrimSpace(letters))
	if letters == "" {
		return 0, fmt.Errorf("empty column name")
	}
	idx := 0
	for _, r := range letters {
		if r < 'A' || r > 'Z' {
			return 0, fmt.Errorf("invalid column name %q", letters)
		}
		idx = idx*26 + int(r-'A'+1)
	}
	return idx - 1, nil
}

// ColumnName converts a zero-based column index to its letters.
func ColumnName(idx int) string {
	var b []byte
	for n := idx + 1; n > 0; n = (n - 1) / 26 {
		b = append([]byte{byte('A' + (n-1)%26)}, b...)
	}
	return string(b)
}

func (c CellRef) String() string {
	return ColumnName(c.Col) + strconv.Itoa(c.Row)
}

// Offset returns the reference moved by the given number of rows and columns.
func (c CellRef) Offset(rows, cols int) CellRef {
	return CellRef{Col: c.Col + cols, Row: c.Row + rows}
}

// A1 qualifies the reference with a sheet name, quoting it for the Sheets API.
func (c CellRef) A1(sheetName string) string {
	return QuoteSheet(sheetName) + "!" + c.String()
}

// QuoteSheet wraps a sheet name in single quotes, escaping embedded quotes.
func QuoteSheet(name string) string {
	return "'" + strings.ReplaceAll(name, "'", "''") + "'"
}

// MarshalYAML renders the reference in A1 notation.
func (c CellRef) MarshalYAML() (interface{}, error) {
	return c.String(), nil
}
