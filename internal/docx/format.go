package docx

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/beevik/etree"
)

// labelSuffix follows the sale identifier in a rendered line.
const labelSuffix = "-ci NV:"

// linePattern splits a rendered line into label, spacing and remainder.
var linePattern = regexp.MustCompile(`^(\d+-ci NV:)(\s*)(.*)$`)

// FormatOptions is the formatting policy applied to written lines.
type FormatOptions struct {
	// FontFamily is set on every run (ascii, hAnsi and eastAsia slots).
	FontFamily string

	// FontSizePt is the run size in points.
	FontSizePt float64

	// LineSpacing is the line-spacing multiple of touched paragraphs.
	LineSpacing float64

	// BoldLabel makes the "<n>-ci NV:" label bold.
	BoldLabel bool

	// BoldSales lists sale identifiers whose whole line is bold.
	BoldSales map[int]struct{}
}

// NewFormatOptions builds options from plain config values.
func NewFormatOptions(font string, sizePt, spacing float64, boldLabel bool, boldSales []int) FormatOptions {
	set := make(map[int]struct{}, len(boldSales))
	for _, s := range boldSales {
		set[s] = struct{}{}
	}
	return FormatOptions{
		FontFamily:  font,
		FontSizePt:  sizePt,
		LineSpacing: spacing,
		BoldLabel:   boldLabel,
		BoldSales:   set,
	}
}

// boldWhole reports whether the line's leading identifier is in BoldSales.
func (o FormatOptions) boldWhole(line string) bool {
	prefix, _, found := strings.Cut(line, labelSuffix)
	if !found {
		return false
	}
	n, err := strconv.Atoi(strings.TrimSpace(prefix))
	if err != nil {
		return false
	}
	_, ok := o.BoldSales[n]
	return ok
}

// halfPoints converts the font size to the w:sz unit.
func (o FormatOptions) halfPoints() string {
	return strconv.Itoa(int(math.Round(o.FontSizePt * 2)))
}

// lineTwips converts the spacing multiple to w:line (240 = single).
func (o FormatOptions) lineTwips() string {
	return strconv.Itoa(int(math.Round(o.LineSpacing * 240)))
}

// =============================================================================
// PARAGRAPH WRITER
// =============================================================================

// pPrAfterSpacing lists the w:pPr children that must follow w:spacing.
var pPrAfterSpacing = map[string]bool{
	"ind": true, "contextualSpacing": true, "mirrorIndents": true,
	"suppressOverlap": true, "jc": true, "textDirection": true,
	"textAlignment": true, "textboxTightWrap": true, "outlineLvl": true,
	"divId": true, "cnfStyle": true, "rPr": true, "sectPr": true,
	"pPrChange": true,
}

type writer struct {
	doc  *Document
	opts FormatOptions
}

// clear removes everything from p except its paragraph properties.
func (w *writer) clear(p *etree.Element) {
	for _, tok := range append([]etree.Token(nil), p.Child...) {
		if el, ok := tok.(*etree.Element); ok && isW(el, "pPr") {
			continue
		}
		p.RemoveChild(tok)
	}
}

// setSpacing fixes the line spacing of p.
func (w *writer) setSpacing(p *etree.Element) {
	pPr := firstChild(p, "pPr")
	if pPr == nil {
		pPr = etree.NewElement(w.doc.tag("pPr"))
		p.InsertChildAt(0, pPr)
	}

	spacing := firstChild(pPr, "spacing")
	if spacing == nil {
		spacing = etree.NewElement(w.doc.tag("spacing"))
		pos := len(pPr.Child)
		for _, c := range pPr.ChildElements() {
			if c.NamespaceURI() == WordNamespace && pPrAfterSpacing[c.Tag] {
				pos = c.Index()
				break
			}
		}
		pPr.InsertChildAt(pos, spacing)
	}

	spacing.CreateAttr(w.doc.tag("line"), w.opts.lineTwips())
	spacing.CreateAttr(w.doc.tag("lineRule"), "auto")
}

// addRun appends a formatted text run to p.
func (w *writer) addRun(p *etree.Element, text string, bold bool) {
	r := p.CreateElement(w.doc.tag("r"))

	rPr := r.CreateElement(w.doc.tag("rPr"))
	fonts := rPr.CreateElement(w.doc.tag("rFonts"))
	fonts.CreateAttr(w.doc.tag("ascii"), w.opts.FontFamily)
	fonts.CreateAttr(w.doc.tag("hAnsi"), w.opts.FontFamily)
	fonts.CreateAttr(w.doc.tag("eastAsia"), w.opts.FontFamily)

	b := rPr.CreateElement(w.doc.tag("b"))
	if !bold {
		b.CreateAttr(w.doc.tag("val"), "0")
	}

	sz := rPr.CreateElement(w.doc.tag("sz"))
	sz.CreateAttr(w.doc.tag("val"), w.opts.halfPoints())

	t := r.CreateElement(w.doc.tag("t"))
	if needsPreserve(text) {
		t.CreateAttr("xml:space", "preserve")
	}
	t.SetText(text)
}

// addBreak appends a run holding a line break (not a paragraph break).
func (w *writer) addBreak(p *etree.Element) {
	r := p.CreateElement(w.doc.tag("r"))
	r.CreateElement(w.doc.tag("br"))
}

// writeLine appends one rendered line to p as up to three runs.
func (w *writer) writeLine(p *etree.Element, line string) {
	whole := w.opts.boldWhole(line)

	m := linePattern.FindStringSubmatch(line)
	if m == nil {
		w.addRun(p, line, whole)
		return
	}

	label, spaces, rest := m[1], m[2], m[3]

	w.addRun(p, label, whole || w.opts.BoldLabel)
	if spaces != "" {
		w.addRun(p, spaces, whole)
	}
	if rest != "" {
		w.addRun(p, rest, whole)
	}
}

// needsPreserve reports whether Word would drop edge whitespace of s.
func needsPreserve(s string) bool {
	if s == "" {
		return false
	}
	first := []rune(s)[0]
	last := []rune(s)[len([]rune(s))-1]
	return unicode.IsSpace(first) || unicode.IsSpace(last)
}
