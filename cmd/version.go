// =============================================================================
// AKT Filler - Version Command
// =============================================================================
//
// COMMAND USAGE:
//   akt version
//
// OUTPUT:
//   AKT Filler
//   Version:    1.0.0
//   Build Date: 2024-01-01
//   Go Version: go1.24.0
//   excelize:   v2.10.0
//   fiber:      v3.0.0-beta.4
//   etree:      v1.5.0
//
// =============================================================================

package cmd

import (
	"fmt"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// These variables are set at build time using ldflags:
//   go build -ldflags "-X 'github.com/ginjaninja78/akt-filler/cmd.Version=1.0.0'"
var (
	Version   = "1.0.0"
	BuildDate = "unknown"
)

// reportedModules are the libraries whose versions affect document output.
var reportedModules = []struct{ label, path string }{
	{"excelize", "github.com/xuri/excelize/v2"},
	{"fiber", "github.com/gofiber/fiber/v3"},
	{"etree", "github.com/beevik/etree"},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Display the application version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("AKT Filler")
		fmt.Printf("Version:    %s\n", Version)
		fmt.Printf("Build Date: %s\n", BuildDate)
		fmt.Printf("Go Version: %s\n", runtime.Version())

		info, ok := debug.ReadBuildInfo()
		if !ok {
			return
		}
		for _, m := range reportedModules {
			for _, dep := range info.Deps {
				if dep.Path == m.path {
					fmt.Printf("%-11s %s\n", m.label+":", dep.Version)
				}
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
