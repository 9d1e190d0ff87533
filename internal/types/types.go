// =============================================================================
// AKT Filler - Shared Types
// =============================================================================
//
// This package contains shared types used across multiple modules to avoid
// import cycles. Types defined here are used by:
//   - xlsxparser / csvparser (producers of Sheet)
//   - converter (producer of Table, consumer of Sheet)
//
// =============================================================================

package types

// =============================================================================
// RAW SHEET
// =============================================================================

// Sheet is a spreadsheet read into memory as plain text.
// The first row of the source is treated as the header row.
type Sheet struct {
	// Name is the worksheet name (empty for CSV input).
	Name string

	// Headers contains the header row cells, in column order.
	Headers []string

	// Rows contains the data rows (header excluded).
	// Rows may be shorter than Headers; use Cell for padded access.
	Rows [][]string
}

// Cell returns the value at (row, col), or "" when the row is too short.
func (s *Sheet) Cell(row, col int) string {
	if row < 0 || row >= len(s.Rows) || col < 0 {
		return ""
	}
	r := s.Rows[row]
	if col >= len(r) {
		return ""
	}
	return r[col]
}

// =============================================================================
// NORMALIZED TABLE
// =============================================================================

// Row is one normalized spreadsheet record.
type Row struct {
	// Line is the 1-based row number in the source sheet (header is line 1).
	Line int

	// Sale is the sale identifier after forward-fill.
	// HasSale is false only for rows above the first non-blank identifier.
	Sale    int
	HasSale bool

	// Items is the raw text of the item column.
	Items string

	// Num is the numeric item code extracted from Items.
	// HasNum is false when Items contains no parseable digits.
	Num    int
	HasNum bool
}

// Table is the ordered sequence of normalized rows.
type Table struct {
	Rows []Row

	// SaleHeader and ItemsHeader record which source headers were resolved.
	SaleHeader  string
	ItemsHeader string
}
