package utils

import (
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaleTag(t *testing.T) {
	assert.Equal(t, "NV-1-2-3", SaleTag([]int{1, 2, 3}))
	assert.Equal(t, "NV-5-5", SaleTag([]int{5, 5}))
	assert.Equal(t, "NV", SaleTag(nil))
}

func TestGenerateOutputFileNameAt(t *testing.T) {
	now := time.Date(2024, 1, 15, 14, 30, 22, 0, time.UTC)

	tests := []struct {
		name   string
		format string
		params map[string]string
		want   string
	}{
		{"default", "AKT_{timestamp}__{tag}.docx", map[string]string{"tag": "NV-1-2"}, "AKT_20240115_143022__NV-1-2.docx"},
		{"adds extension", "{date}-{time}", nil, "20240115-143022.docx"},
		{"keeps upper extension", "X.DOCX", nil, "X.DOCX"},
		{"strips separators", "a/b\\{tag}", map[string]string{"tag": "NV"}, "a_b_NV.docx"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GenerateOutputFileNameAt(tt.format, now, tt.params))
		})
	}
}

func TestGenerateOutputFileName_UUID(t *testing.T) {
	name := GenerateOutputFileName("{uuid}", nil)
	assert.Regexp(t, regexp.MustCompile(`^[0-9a-f-]{36}\.docx$`), name)
}

func TestFileManager_WriteOutput(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "out")
	fm := NewFileManager(dir)

	path, err := fm.WriteOutput("../escape.docx", []byte("data"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "escape.docx"), path)
	assert.True(t, FileExists(path))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "data", string(got))
}
