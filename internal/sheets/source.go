package sheets

import (
	"context"
	"fmt"
	"strings"

	"fiery_print_jobs/internal/engine"

	"github.com/rs/zerolog/log"
)

// Header names the source resolves per run. Title and copies are looked up
// by name; status and notes fall back to configured letters when the header
// row does not carry them.
const (
	HeaderTitle  = "Job Title"
	HeaderCopies = "Copies"
	HeaderStatus = "Status"
	HeaderNotes  = "Notes"
)

// Source reads the pending-request rows from one sheet and writes per-row
// results back. Column positions are resolved once per run from the header
// row; the engine never sees sheet geometry.
type Source struct {
	client        *Client
	spreadsheetID string
	sheetName     string
	statusCol     string
	notesCol      string
}

// NewSource builds a Source with fallback status/notes column letters. The
// fallbacks apply only when FetchRows finds no matching header cells.
func NewSource(client *Client, spreadsheetID, sheetName, statusCol, notesCol string) *Source {
	return &Source{
		client:        client,
		spreadsheetID: spreadsheetID,
		sheetName:     sheetName,
		statusCol:     statusCol,
		notesCol:      notesCol,
	}
}

// SheetData is one fetched snapshot of the sheet: the header row plus every
// data row parsed into an engine request.
type SheetData struct {
	Header []string
	Rows   []engine.Row
}

// FetchRows reads the whole sheet once, splits header from data rows, and
// resolves the report column letters from the header.
func (s *Source) FetchRows(ctx context.Context) (*SheetData, error) {
	log.Debug().Str("sheet", s.sheetName).Msg("Fetching sheet rows")

	values, err := s.client.ReadSheet(ctx, s.spreadsheetID, fmt.Sprintf("%s!A:Z", s.sheetName))
	if err != nil {
		return nil, err
	}
	if len(values) == 0 {
		log.Info().Str("sheet", s.sheetName).Msg("No data found in sheet")
		return &SheetData{}, nil
	}

	header := make([]string, len(values[0]))
	for i, cell := range values[0] {
		header[i] = strings.TrimSpace(cellString(cell))
	}
	s.resolveReportColumns(header)

	titleIdx := headerIndex(header, HeaderTitle)
	copiesIdx := headerIndex(header, HeaderCopies)

	data := &SheetData{Header: header}
	for i, row := range values[1:] {
		data.Rows = append(data.Rows, engine.Row{
			Index:  i,
			Title:  cellAt(row, titleIdx),
			Copies: cellAt(row, copiesIdx),
		})
	}

	log.Info().
		Int("rows", len(data.Rows)).
		Str("sheet", s.sheetName).
		Msg("Retrieved sheet rows")
	return data, nil
}

// WriteRowResult writes the status and notes cells for one data row in a
// single update. rowIndex is the 0-based data row; the sheet row accounts
// for the header.
func (s *Source) WriteRowResult(ctx context.Context, rowIndex int, status, notes string) error {
	sheetRow := rowIndex + 2
	range_ := fmt.Sprintf("%s!%s%d:%s%d", s.sheetName, s.statusCol, sheetRow, s.notesCol, sheetRow)
	values := [][]interface{}{{status, notes}}

	if err := s.client.UpdateRange(ctx, s.spreadsheetID, range_, values); err != nil {
		return err
	}

	log.Info().
		Int("sheet_row", sheetRow).
		Str("status", status).
		Str("notes", notes).
		Msg("Sheet updated for row")
	return nil
}

// ClearReportColumns blanks the status and notes columns from row 2 down.
// Run before any processing so stale results never mix with this run's.
func (s *Source) ClearReportColumns(ctx context.Context) error {
	return s.ClearColumns(ctx, []string{s.statusCol, s.notesCol}, 2)
}

// ClearColumns blanks the given columns from fromRow down using open-ended
// ranges.
func (s *Source) ClearColumns(ctx context.Context, columns []string, fromRow int) error {
	ranges := columnRanges(s.sheetName, columns, fromRow)
	log.Info().
		Strs("columns", columns).
		Str("sheet", s.sheetName).
		Int("from_row", fromRow).
		Msg("Clearing sheet columns")
	return s.client.BatchClear(ctx, s.spreadsheetID, ranges)
}

// StatusColumn returns the resolved status column letter.
func (s *Source) StatusColumn() string { return s.statusCol }

// NotesColumn returns the resolved notes column letter.
func (s *Source) NotesColumn() string { return s.notesCol }

func (s *Source) resolveReportColumns(header []string) {
	for idx, name := range header {
		switch name {
		case HeaderStatus:
			s.statusCol = ColumnLetter(idx)
		case HeaderNotes:
			s.notesCol = ColumnLetter(idx)
		}
	}
	log.Debug().
		Str("status_col", s.statusCol).
		Str("notes_col", s.notesCol).
		Msg("Resolved report columns")
}

func columnRanges(sheetName string, columns []string, fromRow int) []string {
	ranges := make([]string, 0, len(columns))
	for _, col := range columns {
		ranges = append(ranges, fmt.Sprintf("%s!%s%d:%s", sheetName, col, fromRow, col))
	}
	return ranges
}

// ColumnLetter converts a 0-based column index to its A1 letter
// (0 -> A, 25 -> Z, 26 -> AA).
func ColumnLetter(idx int) string {
	letter := ""
	for idx >= 0 {
		letter = string(rune('A'+idx%26)) + letter
		idx = idx/26 - 1
	}
	return letter
}

func headerIndex(header []string, name string) int {
	for i, h := range header {
		if h == name {
			return i
		}
	}
	return -1
}

func cellAt(row []interface{}, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return cellString(row[idx])
}

func cellString(cell interface{}) string {
	if cell == nil {
		return ""
	}
	return fmt.Sprintf("%v", cell)
}
