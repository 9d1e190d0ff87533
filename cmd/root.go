// =============================================================================
// AKT Filler - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. The root command is
// the base command that all other commands are attached to.
//
// COBRA CLI STRUCTURE:
//   rootCmd (akt)
//   ├── serveCmd   (akt serve)
//   ├── fillCmd    (akt fill)
//   └── versionCmd (akt version)
//
// CONFIGURATION:
//   The root command is responsible for:
//   1. Setting up global flags (--config, --verbose)
//   2. Loading the YAML configuration
//   3. Building the zap logger shared by every subcommand
//
// =============================================================================

package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ginjaninja78/akt-filler/internal/config"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the main configuration file.
// This can be overridden using the --config flag.
var cfgFile string

// verbose enables debug logging when set to true.
var verbose bool

// cfg is the loaded configuration, set in PersistentPreRunE.
var cfg *config.Config

// logger is the process logger, set in PersistentPreRunE.
var logger *zap.Logger

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "akt",
	Short: "AKT Filler - place NV item lists from a spreadsheet into a Word template",
	Long: `AKT Filler reads a sales spreadsheet (.xlsx or .csv), groups the item
numbers of each requested sale (NV) and writes one "<n>-ci NV: ..." line per
sale into the placeholder paragraphs of a .docx template.

Example Usage:
  akt serve                                         # Start the web form on :8080
  akt fill --excel satis.xlsx --template skelet.docx --sales 1,2,3
  akt fill --config ./my.yaml ...                   # Use a custom configuration file`,

	SilenceUsage: true,

	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = loadConfig(cmd)
		if err != nil {
			return err
		}

		logger, err = newLogger(cfg.LogLevel, verbose)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},

	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},

	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute runs the root command. It is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"config.yaml",
		"Path to the main configuration file",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable verbose output for debugging",
	)
}

// loadConfig reads cfgFile. A missing default config.yaml yields the
// defaults; a missing file named explicitly with --config is an error.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	c, err := config.LoadConfig(cfgFile)
	if err == nil {
		return c, nil
	}

	if errors.Is(err, os.ErrNotExist) && !cmd.Flags().Changed("config") {
		return config.Default(), nil
	}
	return nil, fmt.Errorf("failed to load configuration: %w", err)
}

// newLogger builds the production logger at the configured level.
func newLogger(level string, verbose bool) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()

	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	if verbose {
		lvl = zapcore.DebugLevel
	}
	zc.Level = zap.NewAtomicLevelAt(lvl)

	return zc.Build()
}
