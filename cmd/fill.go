// =============================================================================
// AKT Filler - Fill Command
// =============================================================================
//
// This file defines the 'fill' command, which runs the fill pipeline from the
// command line and writes the result into the output directory.
//
// COMMAND USAGE:
//   akt fill --excel satis.xlsx --template skelet.docx --sales 1,2,3 [flags]
//
// FLAGS:
//   --excel     : Spreadsheet (.xlsx or .csv)
//   --template  : Word template (.docx); repeat to fill several templates
//   --sales     : Comma-separated sale identifiers
//   --sheet     : Worksheet name (default: configured sheet, else the first)
//   --out       : Output directory (default: output.dir)
//   --dry-run   : Run the pipeline and print the lines without writing files
//
// Several templates are filled concurrently (at most one per CPU), each from
// its own read of the spreadsheet. A failure in one template does not stop
// the others. Results are reported in flag order.
//
// =============================================================================

package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ginjaninja78/akt-filler/internal/converter"
	"github.com/ginjaninja78/akt-filler/pkg/utils"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

var (
	excelPath     string
	templatePaths []string
	salesList     string
	sheetName     string
	outDir        string
	dryRun        bool
)

// fillResult pairs a template with the outcome of filling it.
type fillResult struct {
	template string
	output   string
	result   *converter.Result
	err      error
}

// =============================================================================
// FILL COMMAND DEFINITION
// =============================================================================

var fillCmd = &cobra.Command{
	Use:   "fill",
	Short: "Fill a Word template from a spreadsheet",
	Long: `The fill command reads the spreadsheet, builds one "<n>-ci NV: ..." line
per requested sale identifier and writes the lines into every placeholder
paragraph of the template.

On success the filled document is written to the output directory under the
configured file name format (default: AKT_<timestamp>__NV-<ids>.docx).`,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runFill(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(fillCmd)

	fillCmd.Flags().StringVar(&excelPath, "excel", "", "Spreadsheet with the sale and items columns (.xlsx or .csv)")
	fillCmd.Flags().StringSliceVar(&templatePaths, "template", nil, "Word template (.docx); may be repeated")
	fillCmd.Flags().StringVar(&salesList, "sales", "", "Comma-separated sale identifiers, e.g. 1,2,3")
	fillCmd.Flags().StringVar(&sheetName, "sheet", "", "Worksheet name (empty selects the first sheet)")
	fillCmd.Flags().StringVar(&outDir, "out", "", "Output directory (overrides output.dir)")
	fillCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the lines without writing output files")

	_ = fillCmd.MarkFlagRequired("excel")
	_ = fillCmd.MarkFlagRequired("template")
	_ = fillCmd.MarkFlagRequired("sales")
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// runFill fills every template and prints a summary.
func runFill(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	startTime := time.Now()

	spreadsheet, err := os.ReadFile(excelPath)
	if err != nil {
		return fmt.Errorf("failed to read spreadsheet: %w", err)
	}

	dir := cfg.Output.Dir
	if outDir != "" {
		dir = outDir
	}
	fm := utils.NewFileManager(dir)
	conv := converter.New(cfg, logger)

	// =========================================================================
	// FILL TEMPLATES CONCURRENTLY
	// =========================================================================

	results := make([]fillResult, len(templatePaths))

	var g errgroup.Group
	g.SetLimit(runtime.NumCPU())
	for i, path := range templatePaths {
		g.Go(func() error {
			results[i] = fillOne(ctx, conv, fm, spreadsheet, path)
			return nil
		})
	}
	_ = g.Wait()

	// =========================================================================
	// COLLECT RESULTS
	// =========================================================================

	var successCount, errorCount int

	for _, r := range results {
		name := filepath.Base(r.template)
		if r.err != nil {
			errorCount++
			logger.Error("fill failed", zap.String("template", r.template), zap.Error(r.err))
			fmt.Printf("  ✗ %s: %v\n", name, r.err)
			continue
		}

		successCount++
		if dryRun {
			fmt.Printf("  ✓ %s (dry run)\n", name)
			for _, line := range r.result.Lines {
				fmt.Printf("      %s\n", line)
			}
		} else {
			fmt.Printf("  ✓ %s -> %s\n", name, r.output)
		}
		if r.result.Stats.UnusedLines > 0 {
			fmt.Printf("      %d line(s) had no placeholder left\n", r.result.Stats.UnusedLines)
		}
	}

	fmt.Println("\n=== Fill Complete ===")
	fmt.Printf("Templates:       %d\n", len(templatePaths))
	fmt.Printf("Successful:      %d\n", successCount)
	fmt.Printf("Errors:          %d\n", errorCount)
	fmt.Printf("Time elapsed:    %s\n", time.Since(startTime))

	if errorCount > 0 {
		return fmt.Errorf("%d of %d template(s) failed", errorCount, len(templatePaths))
	}
	return nil
}

// fillOne runs the pipeline for a single template and writes the result.
func fillOne(ctx context.Context, conv *converter.Converter, fm *utils.FileManager, spreadsheet []byte, templatePath string) fillResult {
	r := fillResult{template: templatePath}

	template, err := os.ReadFile(templatePath)
	if err != nil {
		r.err = fmt.Errorf("failed to read template: %w", err)
		return r
	}

	r.result, r.err = conv.Run(ctx, converter.Request{
		Spreadsheet:     spreadsheet,
		SpreadsheetName: filepath.Base(excelPath),
		Template:        template,
		TemplateName:    filepath.Base(templatePath),
		Sheet:           sheetName,
		Sales:           salesList,
	})
	if r.err != nil || dryRun {
		return r
	}

	name := r.result.FileName
	if len(templatePaths) > 1 {
		// Several templates share one timestamp and tag.
		name = templateStem(templatePath) + "_" + name
	}

	r.output, r.err = fm.WriteOutput(name, r.result.Data)
	return r
}

func templateStem(path string) string {
	base := filepath.Base(path)
	return base[:len(base)-len(filepath.Ext(base))]
}
