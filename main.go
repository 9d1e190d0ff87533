// =============================================================================
// AKT Filler - Main Entry Point
// =============================================================================
//
// USAGE:
//   akt serve       - Start the web upload form
//   akt fill        - Fill a template from the command line
//   akt version     - Display the application version
//
// ARCHITECTURE:
//   - cmd/           : CLI command definitions (Cobra)
//   - internal/      : Spreadsheet readers, docx editing, pipeline, web form
//   - pkg/           : Shared file utilities
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/akt-filler/cmd"
)

func main() {
	cmd.Execute()
}
