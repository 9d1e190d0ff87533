package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, ":8080", cfg.Server.Listen)
	assert.Equal(t, 20, cfg.Server.MaxUploadMB)
	assert.Equal(t, ",", cfg.Spreadsheet.CSVDelimiter)
	assert.Equal(t, "Arial", cfg.Document.FontFamily)
	assert.Equal(t, 12.0, cfg.Document.FontSizePt)
	assert.Equal(t, 1.15, cfg.Document.LineSpacing)
	assert.True(t, cfg.Document.LabelBold())
	assert.Equal(t, DefaultPlaceholders, cfg.Document.Placeholders)
	assert.Equal(t, "AKT_{timestamp}__{tag}.docx", cfg.Output.FileNameFormat)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte(`
server:
  listen: "127.0.0.1:9000"
spreadsheet:
  sheet: "Data"
document:
  font_family: "Times New Roman"
  font_size_pt: 11
  bold_label: false
  bold_sales: [2, 5]
output:
  dir: "/tmp/akt"
log_level: debug
`)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Listen)
	assert.Equal(t, "Data", cfg.Spreadsheet.Sheet)
	assert.Equal(t, "Times New Roman", cfg.Document.FontFamily)
	assert.Equal(t, 11.0, cfg.Document.FontSizePt)
	assert.False(t, cfg.Document.LabelBold())
	assert.Equal(t, []int{2, 5}, cfg.Document.BoldSales)
	assert.Equal(t, "/tmp/akt", cfg.Output.Dir)
	assert.Equal(t, "debug", cfg.LogLevel)

	// untouched sections still get defaults
	assert.Equal(t, 1.15, cfg.Document.LineSpacing)
	assert.Len(t, cfg.Document.Placeholders, 4)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"bad yaml", "server: [\n"},
		{"delimiter", "spreadsheet:\n  csv_delimiter: \";;\"\n"},
		{"font size", "document:\n  font_size_pt: -3\n"},
		{"line spacing", "document:\n  line_spacing: -1\n"},
		{"blank placeholder", "document:\n  placeholders: [\"  \"]\n"},
		{"log level", "log_level: loud\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestLoadConfig_Example(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join("..", "..", "config.example.yaml"))
	require.NoError(t, err)

	def := Default()
	assert.Equal(t, def.Server, cfg.Server)
	assert.Equal(t, def.Spreadsheet, cfg.Spreadsheet)
	assert.Equal(t, def.Output, cfg.Output)
	assert.Equal(t, def.Document.Placeholders, cfg.Document.Placeholders)
	assert.Equal(t, def.Document.FontFamily, cfg.Document.FontFamily)
	assert.Equal(t, def.Document.LineSpacing, cfg.Document.LineSpacing)
	assert.True(t, cfg.Document.LabelBold())
	assert.Empty(t, cfg.Document.BoldSales)
}
