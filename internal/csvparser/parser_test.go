package csvparser

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
)

func TestParse_Basic(t *testing.T) {
	input := "\n Satış sıralaması ,NV siyahısı,Qeyd\n1,12-a,x\n,034\n2,N/A,y\n"

	sheet, err := Parse(strings.NewReader(input), Settings{})
	require.NoError(t, err)

	assert.Equal(t, []string{"Satış sıralaması", "NV siyahısı", "Qeyd"}, sheet.Headers)
	require.Len(t, sheet.Rows, 3)
	assert.Equal(t, "034", sheet.Cell(1, 1))
	assert.Equal(t, "", sheet.Cell(1, 2))
	assert.Equal(t, "N/A", sheet.Cell(2, 1))
}

func TestParse_DelimiterAndBOM(t *testing.T) {
	input := "\ufeffSatis siralamasi;Siyahi\n3;\"9; 2\"\n"

	sheet, err := Parse(strings.NewReader(input), Settings{Delimiter: ';', Encoding: "utf-8"})
	require.NoError(t, err)

	assert.Equal(t, "Satis siralamasi", sheet.Headers[0])
	assert.Equal(t, "9; 2", sheet.Cell(0, 1))
}

func TestParse_Windows1254(t *testing.T) {
	encoded, err := charmap.Windows1254.NewEncoder().String("Satış sıralaması,Siyahı\n1,5\n")
	require.NoError(t, err)

	sheet, err := Parse(bytes.NewReader([]byte(encoded)), Settings{Encoding: "Windows-1254"})
	require.NoError(t, err)

	assert.Equal(t, []string{"Satış sıralaması", "Siyahı"}, sheet.Headers)
}

func TestParse_UnknownEncoding(t *testing.T) {
	_, err := Parse(strings.NewReader("a\n"), Settings{Encoding: "EBCDIC"})
	assert.Error(t, err)
}

func TestParse_Empty(t *testing.T) {
	sheet, err := Parse(strings.NewReader("\n\n"), Settings{})
	require.NoError(t, err)
	assert.Empty(t, sheet.Headers)
}
