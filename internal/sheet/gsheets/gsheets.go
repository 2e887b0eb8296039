// Package gsheets reads and writes Google Sheets through the Sheets v4 API.
package gsheets

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/AlexTLDR/rsvpsync/internal/sheet"
)

type Store struct {
	svc *sheets.Service
}

// New authenticates with the JSON credentials in credentialsFile, or with
// Application Default Credentials when the path is empty.
func New(ctx context.Context, credentialsFile string) (*Store, error) {
	creds, err := loadCredentials(ctx, credentialsFile)
	if err != nil {
		return nil, err
	}

	svc, err := sheets.NewService(ctx, option.WithTokenSource(creds.TokenSource))
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}
	return NewWithService(svc), nil
}

// NewWithService wraps an already configured Sheets service.
func NewWithService(svc *sheets.Service) *Store {
	return &Store{svc: svc}
}

func loadCredentials(ctx context.Context, credentialsFile string) (*google.Credentials, error) {
	if credentialsFile == "" {
		creds, err := google.FindDefaultCredentials(ctx, sheets.SpreadsheetsScope)
		if err != nil {
			return nil, fmt.Errorf("failed to find default credentials: %w", err)
		}
		return creds, nil
	}

	data, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read credentials file: %w", err)
	}
	creds, err := google.CredentialsFromJSON(ctx, data, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("failed to parse credentials: %w", err)
	}
	return creds, nil
}

// Download fetches the whole sheet and returns the table whose header row
// starts at start.
func (s *Store) Download(ctx context.Context, spreadsheetID, sheetName string, start sheet.CellRef) (*sheet.Table, error) {
	resp, err := s.svc.Spreadsheets.Values.Get(spreadsheetID, sheet.QuoteSheet(sheetName)).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to download %s/%s: %w", spreadsheetID, sheetName, err)
	}
	return toGrid(resp.Values).TableAt(start), nil
}

// Upload clears the sheet, creating it if needed, and writes t at start.
func (s *Store) Upload(ctx context.Context, t *sheet.Table, spreadsheetID, sheetName string, start sheet.CellRef) (sheet.Handle, error) {
	exists, err := s.hasSheet(ctx, spreadsheetID, sheetName)
	if err != nil {
		return nil, err
	}
	if !exists {
		if err := s.addSheet(ctx, spreadsheetID, sheetName); err != nil {
			return nil, err
		}
	}

	_, err = s.svc.Spreadsheets.Values.Clear(spreadsheetID, sheet.QuoteSheet(sheetName), &sheets.ClearValuesRequest{}).
		Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to clear %s/%s: %w", spreadsheetID, sheetName, err)
	}

	vr := &sheets.ValueRange{Values: toValues(t.Values())}
	_, err = s.svc.Spreadsheets.Values.Update(spreadsheetID, start.A1(sheetName), vr).
		ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to upload %s/%s: %w", spreadsheetID, sheetName, err)
	}

	return &handle{svc: s.svc, spreadsheetID: spreadsheetID, sheetName: sheetName}, nil
}

// Open returns a handle on an existing sheet.
func (s *Store) Open(ctx context.Context, spreadsheetID, sheetName string) (sheet.Handle, error) {
	exists, err := s.hasSheet(ctx, spreadsheetID, sheetName)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("sheet %q not found in spreadsheet %s", sheetName, spreadsheetID)
	}
	return &handle{svc: s.svc, spreadsheetID: spreadsheetID, sheetName: sheetName}, nil
}

func (s *Store) hasSheet(ctx context.Context, spreadsheetID, sheetName string) (bool, error) {
	ss, err := s.svc.Spreadsheets.Get(spreadsheetID).Fields("sheets.properties.title").Context(ctx).Do()
	if err != nil {
		return false, fmt.Errorf("failed to get spreadsheet %s: %w", spreadsheetID, err)
	}
	for _, sh := range ss.Sheets {
		if sh.Properties != nil && sh.Properties.Title == sheetName {
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) addSheet(ctx context.Context, spreadsheetID, sheetName string) error {
	req := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			AddSheet: &sheets.AddSheetRequest{
				Properties: &sheets.SheetProperties{Title: sheetName},
			},
		}},
	}
	if _, err := s.svc.Spreadsheets.BatchUpdate(spreadsheetID, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to add sheet %q: %w", sheetName, err)
	}
	return nil
}

type handle struct {
	svc           *sheets.Service
	spreadsheetID string
	sheetName     string
}

func (h *handle) SetCell(ctx context.Context, ref sheet.CellRef, value string) error {
	return h.SetCells(ctx, []sheet.CellUpdate{{Ref: ref, Value: value}})
}

// SetCells writes all updates with a single values:batchUpdate call.
func (h *handle) SetCells(ctx context.Context, updates []sheet.CellUpdate) error {
	if len(updates) == 0 {
		return nil
	}

	data := make([]*sheets.ValueRange, 0, len(updates))
	for _, u := range updates {
		data = append(data, &sheets.ValueRange{
			Range:  u.Ref.A1(h.sheetName),
			Values: [][]interface{}{{u.Value}},
		})
	}

	req := &sheets.BatchUpdateValuesRequest{ValueInputOption: "USER_ENTERED", Data: data}
	if _, err := h.svc.Spreadsheets.Values.BatchUpdate(h.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to update cells in %s/%s: %w", h.spreadsheetID, h.sheetName, err)
	}
	return nil
}

func (h *handle) Cell(ctx context.Context, ref sheet.CellRef) (string, error) {
	resp, err := h.svc.Spreadsheets.Values.Get(h.spreadsheetID, ref.A1(h.sheetName)).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", ref.A1(h.sheetName), err)
	}
	if len(resp.Values) == 0 || len(resp.Values[0]) == 0 {
		return "", nil
	}
	return cellString(resp.Values[0][0]), nil
}

func toGrid(values [][]interface{}) sheet.Grid {
	g := make(sheet.Grid, len(values))
	for r, row := range values {
		g[r] = make([]string, len(row))
		for c, v := range row {
			g[r][c] = cellString(v)
		}
	}
	return g
}

func toValues(rows [][]string) [][]interface{} {
	out := make([][]interface{}, len(rows))
	for r, row := range rows {
		out[r] = make([]interface{}, len(row))
		for c, v := range row {
			out[r][c] = v
		}
	}
	return out
}

func cellString(v interface{}) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
