// =============================================================================
// AKT Filler - Table Normalization
// =============================================================================
//
// This module turns a raw types.Sheet into the typed types.Table that the
// line builder works on.
//
// NORMALIZATION STEPS:
//   1. Keep only the resolved sale and items columns.
//   2. Parse the sale cell as an integer. Blank or non-numeric cells inherit
//      the last parsed value (forward-fill, top-down, applied once).
//   3. Extract the numeric item code from the items cell.
//
// =============================================================================

package converter

import (
	"math"
	"strconv"
	"strings"
	"unicode"

	"github.com/ginjaninja78/akt-filler/internal/types"
)

// ExtractNumber strips every non-digit from raw and parses the remainder.
//
// EXAMPLES:
//   "12-a"  -> 12, true
//   "  034" -> 34, true
//   "N/A"   -> 0,  false
//   "7"     -> 7,  true
//
// Values that reduce to nothing, or that overflow an int, are reported as
// absent. Absence is not an error.
func ExtractNumber(raw string) (int, bool) {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}

	digits := b.String()
	if digits == "" {
		return 0, false
	}

	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0, false
	}
	return n, true
}

// parseSale parses a sale identifier cell.
// Integral floats ("3.0", "3") are accepted; anything else is blank.
func parseSale(raw string) (int, bool) {
	raw = strings.TrimFunc(raw, unicode.IsSpace)
	if raw == "" {
		return 0, false
	}

	if n, err := strconv.Atoi(raw); err == nil {
		return n, true
	}

	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	if f != math.Trunc(f) || f > math.MaxInt32 || f < math.MinInt32 {
		return 0, false
	}
	return int(f), true
}

// Normalize builds the typed table from a sheet and its resolved columns.
func Normalize(sheet *types.Sheet, cols Columns) *types.Table {
	table := &types.Table{
		Rows:        make([]types.Row, 0, len(sheet.Rows)),
		SaleHeader:  cols.SaleHeader,
		ItemsHeader: cols.ItemsHeader,
	}

	var (
		current    int
		hasCurrent bool
	)

	for i := range sheet.Rows {
		if sale, ok := parseSale(sheet.Cell(i, cols.Sale)); ok {
			current, hasCurrent = sale, true
		}

		items := sheet.Cell(i, cols.Items)
		num, hasNum := ExtractNumber(items)

		table.Rows = append(table.Rows, types.Row{
			Line:    i + 2,
			Sale:    current,
			HasSale: hasCurrent,
			Items:   items,
			Num:     num,
			HasNum:  hasNum,
		})
	}

	return table
}
