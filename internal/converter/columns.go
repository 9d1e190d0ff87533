// =============================================================================
// AKT Filler - Column Resolver
// =============================================================================
//
// Sales sheets are typed by hand, so the two columns the pipeline needs are
// found by loose substring matching on folded header text rather than by
// exact name.
//
// FOLDING:
//   1. Azerbaijani letters without a Unicode decomposition are mapped
//      explicitly: ş→s, ı→i, ə→e (and uppercase forms).
//   2. NFD, drop non-spacing marks, case fold, NFC (golang.org/x/text).
//
// MATCHING (on folded text):
//   - sale column : contains "satis" AND ("siralama" OR "siralamasi")
//   - items column: contains "siyahi" OR "siyah"
//   When several headers match a role, the right-most one wins.
//
// =============================================================================

package converter

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// ErrColumnNotFound is wrapped by ColumnNotFoundError.
var ErrColumnNotFound = errors.New("required spreadsheet column not found")

// ColumnNotFoundError reports which roles could not be matched.
type ColumnNotFoundError struct {
	// Missing lists the unresolved roles ("sale", "items").
	Missing []string

	// Headers are the headers that were examined.
	Headers []string
}

// Error implements the error interface.
func (e *ColumnNotFoundError) Error() string {
	return fmt.Sprintf("%s: missing %s (expected headers like %q and %q; found %q)",
		ErrColumnNotFound.Error(),
		strings.Join(e.Missing, " and "),
		"Satış sıralaması", "siyahı",
		e.Headers,
	)
}

// Unwrap lets errors.Is match ErrColumnNotFound.
func (e *ColumnNotFoundError) Unwrap() error {
	return ErrColumnNotFound
}

// Columns holds the resolved column positions (0-based).
type Columns struct {
	Sale        int
	SaleHeader  string
	Items       int
	ItemsHeader string
}

var letterFolder = strings.NewReplacer(
	"ş", "s", "Ş", "S",
	"ı", "i", "İ", "I",
	"ə", "e", "Ə", "E",
)

// FoldHeader lowercases s and strips diacritics for loose comparison.
func FoldHeader(s string) string {
	s = letterFolder.Replace(strings.TrimSpace(s))

	t := transform.Chain(
		norm.NFD,
		runes.Remove(runes.In(unicode.Mn)),
		cases.Fold(),
		norm.NFC,
	)
	out, _, err := transform.String(t, s)
	if err != nil {
		return strings.ToLower(s)
	}
	return out
}

// ResolveColumns locates the sale and items columns among headers.
//
// RETURNS:
//   - The resolved Columns.
//   - A *ColumnNotFoundError if either role has no matching header.
func ResolveColumns(headers []string) (Columns, error) {
	cols := Columns{Sale: -1, Items: -1}

	for i, h := range headers {
		folded := FoldHeader(h)

		if isSaleHeader(folded) {
			cols.Sale, cols.SaleHeader = i, h
		}
		if isItemsHeader(folded) {
			cols.Items, cols.ItemsHeader = i, h
		}
	}

	var missing []string
	if cols.Sale < 0 {
		missing = append(missing, "sale")
	}
	if cols.Items < 0 {
		missing = append(missing, "items")
	}
	if len(missing) > 0 {
		return Columns{}, &ColumnNotFoundError{
			Missing: missing,
			Headers: append([]string(nil), headers...),
		}
	}

	return cols, nil
}

func isSaleHeader(folded string) bool {
	return strings.Contains(folded, "satis") &&
		(strings.Contains(folded, "siralama") || strings.Contains(folded, "siralamasi"))
}

func isItemsHeader(folded string) bool {
	return strings.Contains(folded, "siyahi") || strings.Contains(folded, "siyah")
}
