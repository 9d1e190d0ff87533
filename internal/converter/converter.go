// =============================================================================
// AKT Filler - Converter Module
// =============================================================================
//
// This module contains the fill pipeline. It orchestrates one request, from
// the raw uploads to the finished document bytes.
//
// PIPELINE:
//   1. Validate the sale identifier list
//   2. Read the spreadsheet (xlsx, or csv by file extension)
//   3. Resolve the sale and items columns
//   4. Normalize the rows (forward-fill sale ids, extract item numbers)
//   5. Build one line per requested sale id
//   6. Open the template and locate the placeholder paragraphs
//   7. Fill the placeholders and serialize the document
//   8. Compose the output file name
//
// No partial output is produced: bytes are only returned once every step
// has succeeded.
//
// CONCURRENCY:
//   A Converter holds only read-only configuration and a logger, so one
//   instance serves concurrent requests. Each Run works on its own copies of
//   the sheet, table and document.
//
// =============================================================================

package converter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/ginjaninja78/akt-filler/internal/config"
	"github.com/ginjaninja78/akt-filler/internal/csvparser"
	"github.com/ginjaninja78/akt-filler/internal/docx"
	"github.com/ginjaninja78/akt-filler/internal/types"
	"github.com/ginjaninja78/akt-filler/internal/validation"
	"github.com/ginjaninja78/akt-filler/internal/xlsxparser"
	"github.com/ginjaninja78/akt-filler/pkg/utils"
)

// ErrUnreadableSpreadsheet wraps every failure to read the spreadsheet upload.
var ErrUnreadableSpreadsheet = errors.New("cannot read spreadsheet")

// =============================================================================
// REQUEST AND RESULT
// =============================================================================

// Request carries one fill job. Files are passed as bytes; the names are
// only used to pick a reader and for messages.
type Request struct {
	// Spreadsheet holds the .xlsx or .csv contents.
	Spreadsheet     []byte
	SpreadsheetName string

	// Template holds the .docx contents.
	Template     []byte
	TemplateName string

	// Sheet is the worksheet name. Empty falls back to the configured
	// default, then to the first sheet.
	Sheet string

	// Sales is the raw comma-separated sale identifier list.
	Sales string
}

// Result represents the outcome of a successful fill.
type Result struct {
	// FileName is the suggested download name.
	FileName string

	// Data is the filled .docx document.
	Data []byte

	// Sales are the parsed sale identifiers, in request order.
	Sales []int

	// Lines are the rendered lines, one per sale identifier.
	Lines []string

	// Rows is the number of data rows read from the spreadsheet.
	Rows int

	// Stats describes how the lines were placed.
	Stats docx.FillStats

	// ProcessingTime is the time taken by Run.
	ProcessingTime time.Duration
}

// =============================================================================
// CONVERTER STRUCTURE
// =============================================================================

// Converter runs the fill pipeline with a fixed configuration.
type Converter struct {
	cfg    *config.Config
	format docx.FormatOptions
	logger *zap.Logger
}

// New creates a new Converter.
//
// PARAMETERS:
//   - cfg: The application configuration. nil selects config.Default().
//   - logger: The logger. nil disables logging.
func New(cfg *config.Config, logger *zap.Logger) *Converter {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	doc := cfg.Document
	return &Converter{
		cfg: cfg,
		format: docx.NewFormatOptions(
			doc.FontFamily,
			doc.FontSizePt,
			doc.LineSpacing,
			doc.LabelBold(),
			doc.BoldSales,
		),
		logger: logger,
	}
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// Run executes the pipeline for one request.
//
// RETURNS:
//   - The filled document and its statistics.
//   - An error wrapping one of validation.ErrInvalidSaleList,
//     validation.ErrMissingFile, validation.ErrUnsupportedFile,
//     ErrUnreadableSpreadsheet, ErrColumnNotFound,
//     docx.ErrInvalidDocument or docx.ErrNoPlaceholder, or ctx.Err().
func (c *Converter) Run(ctx context.Context, req Request) (*Result, error) {
	startTime := time.Now()

	// =========================================================================
	// STEP 1: VALIDATE INPUTS
	// =========================================================================
	// The sale list is checked before any file content is touched.

	sales, err := validation.ParseSaleList(req.Sales)
	if err != nil {
		return nil, err
	}

	kind, err := validation.SpreadsheetKindOf(req.SpreadsheetName, len(req.Spreadsheet))
	if err != nil {
		return nil, err
	}
	if err := validation.ValidateTemplate(req.TemplateName, len(req.Template)); err != nil {
		return nil, err
	}

	log := c.logger.With(
		zap.String("spreadsheet", req.SpreadsheetName),
		zap.String("template", req.TemplateName),
		zap.Ints("sales", sales),
	)

	// =========================================================================
	// STEP 2: READ SPREADSHEET
	// =========================================================================

	sheet, err := c.readSheet(kind, req)
	if err != nil {
		return nil, err
	}
	log.Debug("spreadsheet read",
		zap.String("sheet", sheet.Name),
		zap.Int("rows", len(sheet.Rows)),
		zap.Strings("headers", sheet.Headers),
	)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// =========================================================================
	// STEP 3-5: COLUMNS, NORMALIZATION, LINES
	// =========================================================================

	cols, err := ResolveColumns(sheet.Headers)
	if err != nil {
		return nil, err
	}
	log.Debug("columns resolved",
		zap.String("sale_column", cols.SaleHeader),
		zap.String("items_column", cols.ItemsHeader),
	)

	table := Normalize(sheet, cols)
	lines := BuildLines(table, sales)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// =========================================================================
	// STEP 6-7: TEMPLATE
	// =========================================================================

	doc, err := docx.Open(req.Template)
	if err != nil {
		return nil, err
	}

	targets, err := docx.Locate(doc, c.cfg.Document.Placeholders)
	if err != nil {
		return nil, err
	}
	for _, t := range targets {
		log.Debug("placeholder found", zap.Stringer("at", t))
	}

	stats, err := docx.Fill(doc, targets, lines, c.format)
	if err != nil {
		return nil, err
	}
	if stats.UnusedLines > 0 {
		log.Warn("more lines than placeholders, surplus lines were dropped",
			zap.Int("placeholders", stats.Placeholders),
			zap.Int("unused_lines", stats.UnusedLines),
		)
	}

	data, err := doc.Bytes()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize document: %w", err)
	}

	// =========================================================================
	// STEP 8: OUTPUT NAME
	// =========================================================================

	name := utils.GenerateOutputFileName(c.cfg.Output.FileNameFormat, map[string]string{
		"tag": utils.SaleTag(sales),
	})

	result := &Result{
		FileName:       name,
		Data:           data,
		Sales:          sales,
		Lines:          lines,
		Rows:           len(table.Rows),
		Stats:          stats,
		ProcessingTime: time.Since(startTime),
	}

	log.Info("document filled",
		zap.String("output", name),
		zap.Int("rows", result.Rows),
		zap.String("mode", string(stats.Mode)),
		zap.Int("placeholders", stats.Placeholders),
		zap.Int("filled", stats.Filled),
		zap.Duration("elapsed", result.ProcessingTime),
	)

	return result, nil
}

// readSheet picks the reader for the upload kind.
func (c *Converter) readSheet(kind validation.SpreadsheetKind, req Request) (*types.Sheet, error) {
	r := bytes.NewReader(req.Spreadsheet)

	if kind == validation.KindCSV {
		settings := csvparser.Settings{Encoding: c.cfg.Spreadsheet.CSVEncoding}
		if d := []rune(c.cfg.Spreadsheet.CSVDelimiter); len(d) > 0 {
			settings.Delimiter = d[0]
		}

		sheet, err := csvparser.Parse(r, settings)
		if err != nil {
			return nil, fmt.Errorf("%w %s: %w", ErrUnreadableSpreadsheet, req.SpreadsheetName, err)
		}
		return sheet, nil
	}

	name := req.Sheet
	if name == "" {
		name = c.cfg.Spreadsheet.Sheet
	}

	sheet, err := xlsxparser.Parse(r, name)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrUnreadableSpreadsheet, req.SpreadsheetName, err)
	}
	return sheet, nil
}
