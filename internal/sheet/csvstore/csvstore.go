// Package csvstore keeps spreadsheets as CSV files on disk, one file per
// sheet under <dir>/<spreadsheet id>/<sheet name>.csv.
package csvstore

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/AlexTLDR/rsvpsync/internal/sheet"
)

// UTF-8 BOM for Excel compatibility.
var bom = []byte{0xEF, 0xBB, 0xBF}

// ErrSheetNotFound is returned when the sheet file does not exist.
var ErrSheetNotFound = errors.New("sheet not found")

type Store struct {
	dir string
}

func New(dir string) *Store {
	return &Store{dir: dir}
}

func (s *Store) path(spreadsheetID, sheetName string) string {
	return filepath.Join(s.dir, spreadsheetID, sheetName+".csv")
}

// Download reads the table whose header row starts at start.
func (s *Store) Download(_ context.Context, spreadsheetID, sheetName string, start sheet.CellRef) (*sheet.Table, error) {
	g, err := s.load(spreadsheetID, sheetName)
	if err != nil {
		return nil, err
	}
	return g.TableAt(start), nil
}

// Upload replaces the sheet with t placed at start.
func (s *Store) Upload(_ context.Context, t *sheet.Table, spreadsheetID, sheetName string, start sheet.CellRef) (sheet.Handle, error) {
	var g sheet.Grid
	g.PutTable(t, start)
	if err := s.save(spreadsheetID, sheetName, g); err != nil {
		return nil, err
	}
	return &handle{store: s, spreadsheetID: spreadsheetID, sheetName: sheetName}, nil
}

// Open returns a handle on an existing sheet.
func (s *Store) Open(_ context.Context, spreadsheetID, sheetName string) (sheet.Handle, error) {
	if _, err := os.Stat(s.path(spreadsheetID, sheetName)); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s/%s", ErrSheetNotFound, spreadsheetID, sheetName)
		}
		return nil, fmt.Errorf("failed to open sheet: %w", err)
	}
	return &handle{store: s, spreadsheetID: spreadsheetID, sheetName: sheetName}, nil
}

func (s *Store) load(spreadsheetID, sheetName string) (sheet.Grid, error) {
	data, err := os.ReadFile(s.path(spreadsheetID, sheetName))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s/%s", ErrSheetNotFound, spreadsheetID, sheetName)
		}
		return nil, fmt.Errorf("failed to read sheet: %w", err)
	}

	reader := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, bom)))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse sheet %s/%s: %w", spreadsheetID, sheetName, err)
	}
	return sheet.Grid(records), nil
}

func (s *Store) save(spreadsheetID, sheetName string, g sheet.Grid) error {
	path := s.path(spreadsheetID, sheetName)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create sheet directory: %w", err)
	}

	// The csv reader skips empty lines, so every row is padded to at least
	// two fields to keep row numbers stable.
	width := 2
	for _, row := range g {
		width = max(width, len(row))
	}

	var buf bytes.Buffer
	buf.Write(bom)
	w := csv.NewWriter(&buf)
	for _, row := range g {
		padded := make([]string, width)
		copy(padded, row)
		if err := w.Write(padded); err != nil {
			return fmt.Errorf("failed to encode sheet: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to encode sheet: %w", err)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write sheet: %w", err)
	}
	return nil
}

type handle struct {
	store         *Store
	spreadsheetID string
	sheetName     string
}

func (h *handle) SetCell(ctx context.Context, ref sheet.CellRef, value string) error {
	return h.SetCells(ctx, []sheet.CellUpdate{{Ref: ref, Value: value}})
}

func (h *handle) SetCells(_ context.Context, updates []sheet.CellUpdate) error {
	g, err := h.store.load(h.spreadsheetID, h.sheetName)
	if err != nil {
		return err
	}
	for _, u := range updates {
		g.Set(u.Ref, u.Value)
	}
	return h.store.save(h.spreadsheetID, h.sheetName, g)
}

func (h *handle) Cell(_ context.Context, ref sheet.CellRef) (string, error) {
	g, err := h.store.load(h.spreadsheetID, h.sheetName)
	if err != nil {
		return "", err
	}
	return g.Get(ref), nil
}
