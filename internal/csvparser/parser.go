// =============================================================================
// AKT Filler - CSV Spreadsheet Reader
// =============================================================================
//
// This module reads a CSV export of the sales sheet into a types.Sheet, so
// operators whose data lives in a legacy system can skip the round trip
// through Excel. The first non-empty record is the header row.
//
// ENCODING:
//   Exports from older Windows systems are often not UTF-8. The configured
//   encoding is decoded with golang.org/x/text before parsing, and a UTF-8
//   byte order mark is dropped from the first header.
//
// =============================================================================

package csvparser

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/ginjaninja78/akt-filler/internal/types"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Settings controls how the CSV input is decoded.
type Settings struct {
	// Delimiter is the field separator. Default: ','
	Delimiter rune

	// Encoding names the character set of the input. Default: "UTF-8"
	Encoding string
}

// Parse reads CSV data from r and returns it as a Sheet.
//
// PARAMETERS:
//   - r: The CSV bytes.
//   - settings: Delimiter and encoding.
//
// RETURNS:
//   - A pointer to the Sheet (header row split from data rows).
//   - An error if the encoding is unknown or the CSV is malformed.
func Parse(r io.Reader, settings Settings) (*types.Sheet, error) {
	enc, err := lookupEncoding(settings.Encoding)
	if err != nil {
		return nil, err
	}

	reader := bufio.NewReader(transform.NewReader(r, enc.NewDecoder()))

	csvReader := csv.NewReader(reader)
	configureReader(csvReader, settings)

	allRows, err := csvReader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}

	sheet := &types.Sheet{}

	// Skip leading blank lines before the header.
	for len(allRows) > 0 && isRowEmpty(allRows[0]) {
		allRows = allRows[1:]
	}
	if len(allRows) == 0 {
		return sheet, nil
	}

	sheet.Headers = cleanHeaders(allRows[0])
	sheet.Rows = allRows[1:]

	return sheet, nil
}

// configureReader applies the settings to the CSV reader.
func configureReader(reader *csv.Reader, settings Settings) {
	if settings.Delimiter != 0 {
		reader.Comma = settings.Delimiter
	}

	// Spreadsheet exports frequently have ragged rows.
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = false
}

// lookupEncoding maps a configured encoding name to a decoder.
//
// CUSTOMIZATION: Add more charmap entries as needed.
func lookupEncoding(name string) (encoding.Encoding, error) {
	switch strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(name), "_", "-")) {
	case "", "UTF-8", "UTF8":
		return unicode.UTF8BOM, nil
	case "WINDOWS-1254", "CP1254":
		return charmap.Windows1254, nil
	case "WINDOWS-1252", "CP1252":
		return charmap.Windows1252, nil
	case "WINDOWS-1251", "CP1251":
		return charmap.Windows1251, nil
	case "ISO-8859-1", "LATIN1":
		return charmap.ISO8859_1, nil
	case "ISO-8859-9", "LATIN5":
		return charmap.ISO8859_9, nil
	default:
		return nil, fmt.Errorf("unsupported CSV encoding %q", name)
	}
}

// cleanHeaders trims whitespace around header names.
func cleanHeaders(headers []string) []string {
	out := make([]string, len(headers))
	for i, h := range headers {
		out[i] = strings.TrimSpace(h)
	}
	return out
}

// isRowEmpty checks if a row contains only empty cells.
func isRowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
