// Package sheet defines the tabular model shared by the spreadsheet backends
// and the contracts the reconciliation pipeline reads from and writes to.
package sheet

import "context"

// Source downloads a table whose header row starts at the given cell.
type Source interface {
	Download(ctx context.Context, spreadsheetID, sheetName string, start CellRef) (*Table, error)
}

// Sink replaces a sheet's content with a table, or opens an existing sheet
// for cell-level writes.
type Sink interface {
	Upload(ctx context.Context, t *Table, spreadsheetID, sheetName string, start CellRef) (Handle, error)
	Open(ctx context.Context, spreadsheetID, sheetName string) (Handle, error)
}

// Store is a backend that is both a Source and a Sink.
type Store interface {
	Source
	Sink
}

// Handle writes and reads individual cells of one sheet.
type Handle interface {
	SetCell(ctx context.Context, ref CellRef, value string) error
	// SetCells applies all updates as one batch. Applying the same batch
	// twice leaves the sheet in the same state.
	SetCells(ctx context.Context, updates []CellUpdate) error
	Cell(ctx context.Context, ref CellRef) (string, error)
}

// CellUpdate is a single idempotent "set cell" command.
type CellUpdate struct {
	Ref   CellRef `yaml:"cell"`
	Value string  `yaml:"value"`
}

// Collapse keeps one update per cell. The last value wins, and cells keep the
// position at which they were first seen.
func Collapse(updates []CellUpdate) []CellUpdate {
	seen := make(map[CellRef]int, len(updates))
	out := make([]CellUpdate, 0, len(updates))
	for _, u := range updates {
		if i, ok := seen[u.Ref]; ok {
			out[i].Value = u.Value
			continue
		}
		seen[u.Ref] = len(out)
		out = append(out, u)
	}
	return out
}
