package etl

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// ErrWorkbook marks structural failures of the workbook itself (unreadable
// bytes, no worksheet). Cell-level problems never produce it; those fall
// back to safe defaults during parsing.
var ErrWorkbook = errors.New("workbook is not readable")

// RawRow is one physical spreadsheet row at the fixed 76-column layout.
// Cells are the raw (unformatted) cell values; missing trailing cells read
// as empty strings.
type RawRow []string

// Cell returns the raw value at column i, or "" when the row is short.
func (r RawRow) Cell(i int) string {
	if i < 0 || i >= len(r) {
		return ""
	}
	return r[i]
}

// ExtractRows reads the first worksheet of an xlsx workbook into raw rows.
// Row 0 is the header row and is included in the result; the assembler
// skips it. Returns an error wrapping ErrWorkbook if the bytes are not a
// readable workbook.
func ExtractRows(data []byte) ([]RawRow, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("ExtractRows: %w: %v", ErrWorkbook, err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, fmt.Errorf("ExtractRows: %w: workbook has no worksheets", ErrWorkbook)
	}

	// Raw values keep date cells as Excel serials instead of locale-formatted
	// strings, which is what the cell parser expects.
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("ExtractRows: reading sheet %q: %w", sheet, err)
	}

	out := make([]RawRow, len(rows))
	for i, row := range rows {
		out[i] = RawRow(row)
	}
	return out, nil
}
