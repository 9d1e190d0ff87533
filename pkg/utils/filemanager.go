// =============================================================================
// AKT Filler - File Manager Utility
// =============================================================================
//
// This module provides file utilities shared by the web and CLI front ends:
//   - Output file naming (timestamp + sale tag)
//   - Writing the generated document to the output directory (CLI)
//
// NAMING:
//   The default format "AKT_{timestamp}__{tag}.docx" yields names such as
//   "AKT_20240115_143022__NV-1-2-3.docx". There is no collision detection;
//   uniqueness relies on the one-second timestamp resolution.
//
// =============================================================================

package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// TimestampFormat is the layout of the {timestamp} placeholder.
const TimestampFormat = "20060102_150405"

// OutputExtension is appended to generated names that lack it.
const OutputExtension = ".docx"

// =============================================================================
// FILE NAMING
// =============================================================================

// SaleTag joins the sale identifiers into the file-name tag.
//
// EXAMPLES:
//   [1 2 3] -> "NV-1-2-3"
//   []      -> "NV"
func SaleTag(sales []int) string {
	if len(sales) == 0 {
		return "NV"
	}
	parts := make([]string, len(sales))
	for i, s := range sales {
		parts[i] = strconv.Itoa(s)
	}
	return "NV-" + strings.Join(parts, "-")
}

// GenerateOutputFileName generates an output file name from a format string.
//
// PARAMETERS:
//   - format: The format string for the file name.
//             Placeholders:
//               {uuid}      - A random UUID
//               {timestamp} - Current timestamp (YYYYMMDD_HHMMSS)
//               {date}      - Current date (YYYYMMDD)
//               {time}      - Current time (HHMMSS)
//               {<key>}     - Any key of params (e.g. {tag})
//   - params: A map of placeholder values.
//
// RETURNS:
//   - The generated file name, always ending in .docx.
func GenerateOutputFileName(format string, params map[string]string) string {
	return GenerateOutputFileNameAt(format, time.Now(), params)
}

// GenerateOutputFileNameAt is GenerateOutputFileName with a fixed clock.
func GenerateOutputFileNameAt(format string, now time.Time, params map[string]string) string {
	pairs := []string{
		"{uuid}", uuid.New().String(),
		"{timestamp}", now.Format(TimestampFormat),
		"{date}", now.Format("20060102"),
		"{time}", now.Format("150405"),
	}
	for key, value := range params {
		pairs = append(pairs, "{"+key+"}", value)
	}

	result := strings.NewReplacer(pairs...).Replace(format)

	// Keep the name a plain file name.
	result = strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' {
			return '_'
		}
		return r
	}, result)

	if !strings.HasSuffix(strings.ToLower(result), OutputExtension) {
		result += OutputExtension
	}

	return result
}

// =============================================================================
// OUTPUT WRITING
// =============================================================================

// FileManager writes generated documents for the CLI.
type FileManager struct {
	// OutputDir is the directory where output files are placed.
	OutputDir string
}

// NewFileManager creates a new FileManager for the given output directory.
func NewFileManager(outputDir string) *FileManager {
	return &FileManager{OutputDir: outputDir}
}

// EnsureDirectories creates the output directory if it doesn't exist.
func (fm *FileManager) EnsureDirectories() error {
	if err := os.MkdirAll(fm.OutputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", fm.OutputDir, err)
	}
	return nil
}

// WriteOutput writes data under name in the output directory.
//
// RETURNS:
//   - The path of the written file.
//   - An error if the directory or file cannot be written.
func (fm *FileManager) WriteOutput(name string, data []byte) (string, error) {
	if err := fm.EnsureDirectories(); err != nil {
		return "", err
	}

	outputPath := filepath.Join(fm.OutputDir, filepath.Base(name))
	if err := os.WriteFile(outputPath, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	return outputPath, nil
}

// FileExists checks if a file exists.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}
