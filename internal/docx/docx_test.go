package docx

import (
	"archive/zip"
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// FIXTURES
// =============================================================================

const stylesXML = `<?xml version="1.0" encoding="UTF-8"?><w:styles xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"/>`

func buildDocx(t *testing.T, body string) []byte {
	t.Helper()

	document := `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
		`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` +
		body +
		`<w:sectPr/></w:body></w:document>`

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, f := range []struct{ name, data string }{
		{"[Content_Types].xml", `<?xml version="1.0"?><Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"/>`},
		{"word/document.xml", document},
		{"word/styles.xml", stylesXML},
	} {
		w, err := zw.Create(f.name)
		require.NoError(t, err)
		_, err = w.Write([]byte(f.data))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func para(text string) string {
	return `<w:p><w:r><w:t xml:space="preserve">` + text + `</w:t></w:r></w:p>`
}

func table(rows ...[]string) string {
	var b strings.Builder
	b.WriteString(`<w:tbl>`)
	for _, row := range rows {
		b.WriteString(`<w:tr>`)
		for _, cell := range row {
			b.WriteString(`<w:tc>` + para(cell) + `</w:tc>`)
		}
		b.WriteString(`</w:tr>`)
	}
	b.WriteString(`</w:tbl>`)
	return b.String()
}

func openDocx(t *testing.T, data []byte) *Document {
	t.Helper()
	d, err := Open(data)
	require.NoError(t, err)
	return d
}

type runInfo struct {
	text  string
	bold  bool
	br    bool
	font  string
	size  string
	plain bool // no rPr
}

func runsOf(p *etree.Element) []runInfo {
	var out []runInfo
	for _, r := range children(p, "r") {
		var ri runInfo
		rPr := firstChild(r, "rPr")
		ri.plain = rPr == nil
		if rPr != nil {
			if b := firstChild(rPr, "b"); b != nil {
				ri.bold = b.SelectAttrValue("w:val", "1") != "0"
			}
			if f := firstChild(rPr, "rFonts"); f != nil {
				ri.font = f.SelectAttrValue("w:ascii", "")
			}
			if s := firstChild(rPr, "sz"); s != nil {
				ri.size = s.SelectAttrValue("w:val", "")
			}
		}
		if firstChild(r, "br") != nil {
			ri.br = true
		}
		if tEl := firstChild(r, "t"); tEl != nil {
			ri.text = tEl.Text()
		}
		out = append(out, ri)
	}
	return out
}

const sentinel = "NETICELER VE SIYAHI BURA YAZILACAQ."

var phrases = []string{
	"NETICELER VE SIYAHI BURA YAZILACAQ.",
	"NETICELER VE SIYAHI BURA YAZILACAQ",
	"NETICƏLƏR VƏ SİYAHI BURA YAZILACAQ.",
	"NETICƏLƏR VƏ SİYAHI BURA YAZILACAQ",
}

func defaultOpts() FormatOptions {
	return NewFormatOptions("Arial", 12, 1.15, true, nil)
}

// =============================================================================
// OPEN / SAVE
// =============================================================================

func TestOpen_Invalid(t *testing.T) {
	_, err := Open([]byte("plain text"))
	assert.ErrorIs(t, err, ErrInvalidDocument)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	_, err = zw.Create("word/other.xml")
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	_, err = Open(buf.Bytes())
	assert.ErrorIs(t, err, ErrInvalidDocument)
}

func TestBytes_KeepsOtherParts(t *testing.T) {
	d := openDocx(t, buildDocx(t, para("hello")))

	out, err := d.Bytes()
	require.NoError(t, err)

	zr, err := zip.NewReader(bytes.NewReader(out), int64(len(out)))
	require.NoError(t, err)

	var names []string
	for _, f := range zr.File {
		names = append(names, f.Name)
		if f.Name == "word/styles.xml" {
			rc, err := f.Open()
			require.NoError(t, err)
			data, err := io.ReadAll(rc)
			rc.Close()
			require.NoError(t, err)
			assert.Equal(t, stylesXML, string(data))
		}
	}
	assert.Equal(t, []string{"[Content_Types].xml", "word/document.xml", "word/styles.xml"}, names)

	reopened := openDocx(t, out)
	assert.Equal(t, "hello", reopened.Paragraphs()[0].Text)
}

// =============================================================================
// LOCATE
// =============================================================================

func TestLocate_ScanOrder(t *testing.T) {
	body := para("intro") +
		table([]string{"a", sentinel}, []string{"NETICƏLƏR VƏ SİYAHI BURA YAZILACAQ", "b"}) +
		para("  neticeler   ve siyahi\tbura yazilacaq  ")

	d := openDocx(t, buildDocx(t, body))

	found, err := Locate(d, phrases)
	require.NoError(t, err)
	require.Len(t, found, 3)

	// body paragraphs come before tables regardless of position
	assert.False(t, found[0].InTable())
	assert.Equal(t, 1, found[0].Index)

	assert.True(t, found[1].InTable())
	assert.Equal(t, [3]int{0, 0, 1}, [3]int{found[1].Table, found[1].Row, found[1].Cell})
	assert.Equal(t, [3]int{0, 1, 0}, [3]int{found[2].Table, found[2].Row, found[2].Cell})
	assert.Equal(t, "table 0 row 1 cell 0 paragraph 0", found[2].String())
}

func TestLocate_SplitAcrossRuns(t *testing.T) {
	body := `<w:p>` +
		`<w:r><w:rPr><w:b/></w:rPr><w:t>NETICELER</w:t></w:r>` +
		`<w:r><w:t xml:space="preserve"> VE SIYAHI </w:t></w:r>` +
		`<w:r><w:t>BURA YAZILACAQ.</w:t></w:r>` +
		`</w:p>`

	d := openDocx(t, buildDocx(t, body))

	found, err := Locate(d, phrases)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "NETICELER VE SIYAHI BURA YAZILACAQ.", found[0].Text)
}

func TestLocate_None(t *testing.T) {
	d := openDocx(t, buildDocx(t, para("nothing here")+table([]string{"still nothing"})))

	found, err := Locate(d, phrases)
	assert.ErrorIs(t, err, ErrNoPlaceholder)
	assert.Nil(t, found)
}

func TestLocate_DoesNotMutate(t *testing.T) {
	data := buildDocx(t, para(sentinel))
	d := openDocx(t, data)

	before, err := d.xml.WriteToString()
	require.NoError(t, err)

	_, err = Locate(d, phrases)
	require.NoError(t, err)

	after, err := d.xml.WriteToString()
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestMatcher(t *testing.T) {
	m := NewMatcher([]string{"  Bura   YAZ ", ""})

	assert.True(t, m.Match("xx bura yaz xx"))
	assert.True(t, m.Match("BURA\n\nYAZ"))
	assert.False(t, m.Match("buraYaz"))
}

// =============================================================================
// FILL
// =============================================================================

func TestFill_SingleTarget(t *testing.T) {
	d := openDocx(t, buildDocx(t, para("before")+para(sentinel)+para("after")))

	targets, err := Locate(d, phrases)
	require.NoError(t, err)

	stats, err := Fill(d, targets, []string{"1-ci NV: 5", "2-ci NV: "}, defaultOpts())
	require.NoError(t, err)
	assert.Equal(t, FillStats{Mode: ModeSingle, Placeholders: 1, Lines: 2, Filled: 1}, stats)

	paras := children(d.body, "p")
	require.Len(t, paras, 3, "lines must share one paragraph")

	runs := runsOf(paras[1])
	require.Len(t, runs, 6)
	assert.Equal(t, runInfo{text: "1-ci NV:", bold: true, font: "Arial", size: "24"}, runs[0])
	assert.Equal(t, runInfo{text: " ", font: "Arial", size: "24"}, runs[1])
	assert.Equal(t, runInfo{text: "5", font: "Arial", size: "24"}, runs[2])
	assert.Equal(t, runInfo{br: true, plain: true}, runs[3])
	assert.Equal(t, runInfo{text: "2-ci NV:", bold: true, font: "Arial", size: "24"}, runs[4])
	assert.Equal(t, runInfo{text: " ", font: "Arial", size: "24"}, runs[5])

	assert.Equal(t, "1-ci NV: 5\n2-ci NV: ", paragraphText(paras[1]))
	assert.Equal(t, "before", paragraphText(paras[0]))
	assert.Equal(t, "after", paragraphText(paras[2]))
}

func TestFill_MultiTarget(t *testing.T) {
	body := para(sentinel) + table([]string{sentinel, "x"}, []string{"y", sentinel})
	d := openDocx(t, buildDocx(t, body))

	targets, err := Locate(d, phrases)
	require.NoError(t, err)
	require.Len(t, targets, 3)

	stats, err := Fill(d, targets, []string{"1-ci NV: 3, 4", "2-ci NV: 9"}, defaultOpts())
	require.NoError(t, err)
	assert.Equal(t, ModeMulti, stats.Mode)
	assert.Equal(t, 2, stats.Filled)
	assert.Equal(t, 1, stats.UnusedPlaceholders)
	assert.Equal(t, 0, stats.UnusedLines)

	paras := d.Paragraphs()
	assert.Equal(t, "1-ci NV: 3, 4", paras[0].Text)
	assert.Equal(t, "2-ci NV: 9", paras[1].Text)
	assert.Equal(t, sentinel, paras[4].Text, "third placeholder keeps its text")
}

func TestFill_MultiTargetSurplusLines(t *testing.T) {
	d := openDocx(t, buildDocx(t, para(sentinel)+para(sentinel)))

	targets, err := Locate(d, phrases)
	require.NoError(t, err)

	stats, err := Fill(d, targets, []string{"1-ci NV: 1", "2-ci NV: 2", "3-ci NV: 3"}, defaultOpts())
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Filled)
	assert.Equal(t, 1, stats.UnusedLines)
}

func TestFill_RoundTripRemovesPlaceholder(t *testing.T) {
	body := `<w:p><w:r><w:t>NETICƏLƏR VƏ </w:t></w:r><w:r><w:t>SİYAHI BURA YAZILACAQ</w:t></w:r></w:p>`
	d := openDocx(t, buildDocx(t, body))

	targets, err := Locate(d, phrases)
	require.NoError(t, err)
	_, err = Fill(d, targets, []string{"7-ci NV: 1, 2"}, defaultOpts())
	require.NoError(t, err)

	out, err := d.Bytes()
	require.NoError(t, err)

	_, err = Locate(openDocx(t, out), phrases)
	assert.ErrorIs(t, err, ErrNoPlaceholder)
}

func TestFill_BoldPolicy(t *testing.T) {
	tests := []struct {
		name      string
		boldLabel bool
		boldSales []int
		line      string
		want      []bool
	}{
		{"label only", true, nil, "1-ci NV: 5", []bool{true, false, false}},
		{"whole line", true, []int{2}, "2-ci NV: 7", []bool{true, true, true}},
		{"whole line without label policy", false, []int{2}, "2-ci NV: 7", []bool{true, true, true}},
		{"nothing bold", false, nil, "1-ci NV: 5", []bool{false, false, false}},
		{"empty remainder", true, nil, "4-ci NV: ", []bool{true, false}},
		{"verbatim", true, nil, "free text", []bool{false}},
		{"verbatim bold id", true, []int{-3}, "-3-ci NV: 1", []bool{true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := openDocx(t, buildDocx(t, para(sentinel)))
			targets, err := Locate(d, phrases)
			require.NoError(t, err)

			opts := NewFormatOptions("Arial", 12, 1.15, tt.boldLabel, tt.boldSales)
			_, err = Fill(d, targets, []string{tt.line}, opts)
			require.NoError(t, err)

			runs := runsOf(children(d.body, "p")[0])
			var got []bool
			for _, r := range runs {
				got = append(got, r.bold)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFill_SpacingAndProperties(t *testing.T) {
	body := `<w:p><w:pPr><w:pStyle w:val="Body"/><w:jc w:val="both"/></w:pPr>` +
		`<w:r><w:t>` + sentinel + `</w:t></w:r></w:p>`
	d := openDocx(t, buildDocx(t, body))

	targets, err := Locate(d, phrases)
	require.NoError(t, err)
	_, err = Fill(d, targets, []string{"1-ci NV: 1"}, NewFormatOptions("Arial", 10.5, 1.15, true, nil))
	require.NoError(t, err)

	p := children(d.body, "p")[0]
	pPr := firstChild(p, "pPr")
	require.NotNil(t, pPr)

	var order []string
	for _, c := range pPr.ChildElements() {
		order = append(order, c.Tag)
	}
	assert.Equal(t, []string{"pStyle", "spacing", "jc"}, order)

	spacing := firstChild(pPr, "spacing")
	assert.Equal(t, "276", spacing.SelectAttrValue("w:line", ""))
	assert.Equal(t, "auto", spacing.SelectAttrValue("w:lineRule", ""))

	assert.Equal(t, "21", runsOf(p)[0].size)
}

func TestFill_AddsParagraphProperties(t *testing.T) {
	d := openDocx(t, buildDocx(t, para(sentinel)))
	targets, err := Locate(d, phrases)
	require.NoError(t, err)

	_, err = Fill(d, targets, []string{"1-ci NV: 1"}, defaultOpts())
	require.NoError(t, err)

	p := children(d.body, "p")[0]
	first := p.ChildElements()[0]
	assert.Equal(t, "pPr", first.Tag, "pPr must be the first child of w:p")
}

func TestFill_Errors(t *testing.T) {
	d := openDocx(t, buildDocx(t, para(sentinel)))
	other := openDocx(t, buildDocx(t, para(sentinel)))

	_, err := Fill(d, nil, []string{"1-ci NV: 1"}, defaultOpts())
	assert.ErrorIs(t, err, ErrNoPlaceholder)

	foreign, err := Locate(other, phrases)
	require.NoError(t, err)
	_, err = Fill(d, foreign, []string{"1-ci NV: 1"}, defaultOpts())
	assert.ErrorIs(t, err, ErrForeignParagraph)
}

func TestFill_DuplicateTargetsFilledOnce(t *testing.T) {
	d := openDocx(t, buildDocx(t, para(sentinel)))
	targets, err := Locate(d, phrases)
	require.NoError(t, err)

	stats, err := Fill(d, append(targets, targets[0]), []string{"1-ci NV: 1", "2-ci NV: 2"}, defaultOpts())
	require.NoError(t, err)
	assert.Equal(t, ModeSingle, stats.Mode)
	assert.Equal(t, "1-ci NV: 1\n2-ci NV: 2", paragraphText(children(d.body, "p")[0]))
}
