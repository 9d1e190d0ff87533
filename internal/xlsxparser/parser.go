// =============================================================================
// AKT Filler - XLSX Spreadsheet Reader
// =============================================================================
//
// This module reads the uploaded sales spreadsheet into a types.Sheet. The
// first row of the selected worksheet is the header row; every following row
// is kept as raw cell text.
//
// EXPECTED LAYOUT (header names are matched loosely by the converter):
//
//   | Satış sıralaması | ... | NV siyahısı   | ... |
//   |------------------|-----|---------------|-----|
//   | 1                |     | 12-a          |     |
//   |                  |     | 034           |     |
//   | 2                |     | N/A           |     |
//
// Cell values are read raw (no number formatting applied), so a numeric cell
// holding 7 arrives as "7" and not as "7.00" or "1,234".
//
// =============================================================================

package xlsxparser

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ginjaninja78/akt-filler/internal/types"
	"github.com/xuri/excelize/v2"
)

// ErrSheetNotFound is returned when the requested worksheet does not exist.
var ErrSheetNotFound = errors.New("worksheet not found")

// Parse reads a workbook from r and returns the named worksheet.
//
// PARAMETERS:
//   - r: The workbook bytes.
//   - sheetName: The worksheet to read. Empty selects the first sheet.
//
// RETURNS:
//   - A pointer to the Sheet (header row split from data rows).
//   - An error if the workbook cannot be opened or the sheet is missing.
func Parse(r io.Reader, sheetName string) (*types.Sheet, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	name, err := resolveSheet(f, sheetName)
	if err != nil {
		return nil, err
	}

	rows, err := f.GetRows(name, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read rows of %q: %w", name, err)
	}

	sheet := &types.Sheet{Name: name}
	if len(rows) == 0 {
		return sheet, nil
	}

	sheet.Headers = trimCells(rows[0])
	sheet.Rows = rows[1:]

	return sheet, nil
}

// resolveSheet maps the requested sheet name to an existing worksheet.
func resolveSheet(f *excelize.File, sheetName string) (string, error) {
	sheetName = strings.TrimSpace(sheetName)

	if sheetName == "" {
		name := f.GetSheetName(0)
		if name == "" {
			return "", fmt.Errorf("workbook has no sheets: %w", ErrSheetNotFound)
		}
		return name, nil
	}

	idx, err := f.GetSheetIndex(sheetName)
	if err != nil || idx < 0 {
		return "", fmt.Errorf("%q (available: %s): %w",
			sheetName, strings.Join(f.GetSheetList(), ", "), ErrSheetNotFound)
	}
	return sheetName, nil
}

// trimCells trims surrounding whitespace from header cells.
func trimCells(cells []string) []string {
	out := make([]string, len(cells))
	for i, c := range cells {
		out[i] = strings.TrimSpace(c)
	}
	return out
}
