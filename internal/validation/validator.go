// =============================================================================
// AKT Filler - Input Validation
// =============================================================================
//
// This module validates the operator's inputs before any file content is
// parsed:
//   - the comma-separated sale identifier list
//   - the presence and type of the two uploaded files
//
// Every failure is fatal for the request and wraps one of the sentinel
// errors below so the transport layer can pick a status code with errors.Is.
//
// =============================================================================

package validation

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
)

// =============================================================================
// VALIDATION ERRORS
// =============================================================================

var (
	// ErrInvalidSaleList means the list is empty or has a non-integer token.
	ErrInvalidSaleList = errors.New("invalid sale list")

	// ErrMissingFile means a required upload is absent or empty.
	ErrMissingFile = errors.New("missing file")

	// ErrUnsupportedFile means an upload has an unexpected extension.
	ErrUnsupportedFile = errors.New("unsupported file type")
)

// SpreadsheetKind identifies the reader used for a spreadsheet upload.
type SpreadsheetKind string

const (
	KindXLSX SpreadsheetKind = "xlsx"
	KindCSV  SpreadsheetKind = "csv"
)

// =============================================================================
// SALE LIST
// =============================================================================

// ParseSaleList parses "1, 2,3" into []int{1, 2, 3}.
//
// Blank tokens ("1,,2") are skipped. Order and duplicates are preserved.
//
// RETURNS:
//   - The identifiers in input order.
//   - An error wrapping ErrInvalidSaleList if a token is not an integer or
//     the list is empty.
func ParseSaleList(raw string) ([]int, error) {
	var sales []int

	for _, token := range strings.Split(raw, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}

		n, err := strconv.Atoi(token)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not a whole number (example: 1,2,3)", ErrInvalidSaleList, token)
		}
		sales = append(sales, n)
	}

	if len(sales) == 0 {
		return nil, fmt.Errorf("%w: the list is empty", ErrInvalidSaleList)
	}

	return sales, nil
}

// =============================================================================
// UPLOADS
// =============================================================================

// SpreadsheetKindOf validates a spreadsheet upload and picks its reader.
func SpreadsheetKindOf(name string, size int) (SpreadsheetKind, error) {
	if err := requireFile("spreadsheet", name, size); err != nil {
		return "", err
	}

	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xlsm":
		return KindXLSX, nil
	case ".csv":
		return KindCSV, nil
	default:
		return "", fmt.Errorf("%w: spreadsheet %q must be .xlsx or .csv", ErrUnsupportedFile, name)
	}
}

// ValidateTemplate checks that the template upload is a .docx file.
func ValidateTemplate(name string, size int) error {
	if err := requireFile("template", name, size); err != nil {
		return err
	}

	if !strings.EqualFold(filepath.Ext(name), ".docx") {
		return fmt.Errorf("%w: template %q must be .docx", ErrUnsupportedFile, name)
	}
	return nil
}

func requireFile(role, name string, size int) error {
	if strings.TrimSpace(name) == "" || size == 0 {
		return fmt.Errorf("%w: %s", ErrMissingFile, role)
	}
	return nil
}
