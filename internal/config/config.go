// =============================================================================
// AKT Filler - Configuration Module
// =============================================================================
//
// This module is responsible for loading and managing the application
// configuration. A single YAML file drives the web server, the spreadsheet
// readers, the document formatting policy and the output naming.
//
// CONFIGURATION FILE (config.yaml):
//
//   server:
//     listen: ":8080"
//     max_upload_mb: 20
//   spreadsheet:
//     sheet: ""              # empty = first sheet
//     csv_delimiter: ","
//     csv_encoding: "UTF-8"
//   document:
//     placeholders: [...]    # sentinel phrases
//     font_family: "Arial"
//     font_size_pt: 12
//     line_spacing: 1.15
//     bold_label: true
//     bold_sales: [1, 2]
//   output:
//     dir: "./output"
//     file_name_format: "AKT_{timestamp}__{tag}.docx"
//   log_level: "info"
//
// All fields are optional; missing values fall back to the defaults below.
//
// =============================================================================

package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultPlaceholders are the sentinel phrases recognised in templates.
var DefaultPlaceholders = []string{
	"NETICELER VE SIYAHI BURA YAZILACAQ.",
	"NETICELER VE SIYAHI BURA YAZILACAQ",
	"NETICƏLƏR VƏ SİYAHI BURA YAZILACAQ.",
	"NETICƏLƏR VƏ SİYAHI BURA YAZILACAQ",
}

// =============================================================================
// MAIN CONFIGURATION STRUCTURE
// =============================================================================

// Config holds the global application configuration.
type Config struct {
	Server      ServerConfig      `yaml:"server"`
	Spreadsheet SpreadsheetConfig `yaml:"spreadsheet"`
	Document    DocumentConfig    `yaml:"document"`
	Output      OutputConfig      `yaml:"output"`

	// LogLevel controls the verbosity of logging.
	// Valid values: "debug", "info", "warn", "error"
	// Default: "info"
	LogLevel string `yaml:"log_level"`
}

// ServerConfig configures the web form.
type ServerConfig struct {
	// Listen is the address the HTTP server binds to.
	// Default: ":8080"
	Listen string `yaml:"listen"`

	// MaxUploadMB caps the request body size in megabytes.
	// Default: 20
	MaxUploadMB int `yaml:"max_upload_mb"`
}

// SpreadsheetConfig contains settings for reading the input spreadsheet.
type SpreadsheetConfig struct {
	// Sheet is the default worksheet name. Empty selects the first sheet.
	// A sheet name supplied with the request takes precedence.
	Sheet string `yaml:"sheet"`

	// CSVDelimiter is the field separator used for .csv uploads.
	// Default: ","
	CSVDelimiter string `yaml:"csv_delimiter"`

	// CSVEncoding is the character encoding of .csv uploads.
	// Common values: "UTF-8", "Windows-1254", "Windows-1252", "ISO-8859-1"
	// Default: "UTF-8"
	CSVEncoding string `yaml:"csv_encoding"`
}

// DocumentConfig holds the template matching and formatting policy.
type DocumentConfig struct {
	// Placeholders are the sentinel phrases marking insertion points.
	// Matching is case-insensitive and whitespace-normalized.
	Placeholders []string `yaml:"placeholders"`

	// FontFamily is applied to every written run.
	// Default: "Arial"
	FontFamily string `yaml:"font_family"`

	// FontSizePt is the point size of every written run.
	// Default: 12
	FontSizePt float64 `yaml:"font_size_pt"`

	// LineSpacing is the line spacing multiple set on every touched paragraph.
	// Default: 1.15
	LineSpacing float64 `yaml:"line_spacing"`

	// BoldLabel makes the "<n>-ci NV:" label bold on every line.
	// Default: true
	BoldLabel *bool `yaml:"bold_label"`

	// BoldSales lists sale identifiers whose whole line is written bold.
	BoldSales []int `yaml:"bold_sales"`
}

// LabelBold reports the effective bold-label policy.
func (d DocumentConfig) LabelBold() bool {
	return d.BoldLabel == nil || *d.BoldLabel
}

// OutputConfig controls output naming and the CLI output directory.
type OutputConfig struct {
	// Dir is where the fill command writes its result.
	// Default: "./output"
	Dir string `yaml:"dir"`

	// FileNameFormat defines the format for output file names.
	// Placeholders:
	//   {timestamp} - Current timestamp (YYYYMMDD_HHMMSS)
	//   {date}      - Current date (YYYYMMDD)
	//   {time}      - Current time (HHMMSS)
	//   {uuid}      - A random UUID
	//   {tag}       - "NV-" followed by the sale identifiers joined by "-"
	// Default: "AKT_{timestamp}__{tag}.docx"
	FileNameFormat string `yaml:"file_name_format"`
}

// =============================================================================
// CONFIGURATION LOADING FUNCTIONS
// =============================================================================

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// LoadConfig loads the configuration from a YAML file.
//
// PARAMETERS:
//   - configPath: The path to the configuration file.
//
// RETURNS:
//   - A pointer to the Config struct.
//   - An error if the file cannot be read, parsed or validated.
func LoadConfig(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return Parse(data)
}

// Parse decodes YAML bytes, applies defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func applyDefaults(cfg *Config) {
	if cfg.Server.Listen == "" {
		cfg.Server.Listen = ":8080"
	}
	if cfg.Server.MaxUploadMB == 0 {
		cfg.Server.MaxUploadMB = 20
	}
	if cfg.Spreadsheet.CSVDelimiter == "" {
		cfg.Spreadsheet.CSVDelimiter = ","
	}
	if cfg.Spreadsheet.CSVEncoding == "" {
		cfg.Spreadsheet.CSVEncoding = "UTF-8"
	}
	if len(cfg.Document.Placeholders) == 0 {
		cfg.Document.Placeholders = append([]string(nil), DefaultPlaceholders...)
	}
	if cfg.Document.FontFamily == "" {
		cfg.Document.FontFamily = "Arial"
	}
	if cfg.Document.FontSizePt == 0 {
		cfg.Document.FontSizePt = 12
	}
	if cfg.Document.LineSpacing == 0 {
		cfg.Document.LineSpacing = 1.15
	}
	if cfg.Output.Dir == "" {
		cfg.Output.Dir = "./output"
	}
	if cfg.Output.FileNameFormat == "" {
		cfg.Output.FileNameFormat = "AKT_{timestamp}__{tag}.docx"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
}

// validate checks values that have no sensible fallback.
func validate(cfg *Config) error {
	if cfg.Server.MaxUploadMB < 0 {
		return fmt.Errorf("server.max_upload_mb must be positive, got %d", cfg.Server.MaxUploadMB)
	}
	if len([]rune(cfg.Spreadsheet.CSVDelimiter)) != 1 {
		return fmt.Errorf("spreadsheet.csv_delimiter must be a single character, got %q", cfg.Spreadsheet.CSVDelimiter)
	}
	if cfg.Document.FontSizePt < 1 || cfg.Document.FontSizePt > 1638 {
		return fmt.Errorf("document.font_size_pt out of range: %v", cfg.Document.FontSizePt)
	}
	if cfg.Document.LineSpacing <= 0 {
		return fmt.Errorf("document.line_spacing must be positive, got %v", cfg.Document.LineSpacing)
	}
	for i, p := range cfg.Document.Placeholders {
		if strings.TrimSpace(p) == "" {
			return fmt.Errorf("document.placeholders[%d] is blank", i)
		}
	}
	switch strings.ToLower(cfg.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log_level %q", cfg.LogLevel)
	}
	return nil
}
