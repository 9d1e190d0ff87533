// =============================================================================
// AKT Filler - Placeholder Locator
// =============================================================================
//
// Finds the paragraphs of a template that carry a sentinel phrase. Locating
// never modifies the document; it returns references that the filler applies
// to in a separate step.
//
// SCAN ORDER:
//   1. Every body-level paragraph, top to bottom.
//   2. Every body-level table, row by row, cell by cell, each cell's
//      paragraphs in order. Nested tables are not scanned.
//
// PARAGRAPH TEXT:
//   The text of the paragraph's runs is concatenated verbatim, so a phrase
//   split across differently formatted runs still matches. Whitespace runs
//   collapse to one space, the ends are trimmed, and the result is
//   lowercased before the containment test.
//
// =============================================================================

package docx

import (
	"errors"
	"fmt"
	"strings"

	"github.com/beevik/etree"
)

// ErrNoPlaceholder is returned when no paragraph carries a sentinel phrase.
var ErrNoPlaceholder = errors.New("no placeholder found in template")

// Paragraph is a reference to one paragraph of a Document.
type Paragraph struct {
	doc  *Document
	elem *etree.Element

	// Table is the body-level table index, or -1 for body paragraphs.
	Table int
	Row   int
	Cell  int

	// Index is the paragraph position within the body or the cell.
	Index int

	// Text is the paragraph's run text at scan time.
	Text string
}

// InTable reports whether the paragraph sits inside a table cell.
func (p Paragraph) InTable() bool {
	return p.Table >= 0
}

// String describes the paragraph position for logs and errors.
func (p Paragraph) String() string {
	if p.InTable() {
		return fmt.Sprintf("table %d row %d cell %d paragraph %d", p.Table, p.Row, p.Cell, p.Index)
	}
	return fmt.Sprintf("body paragraph %d", p.Index)
}

// Paragraphs returns every scanned paragraph in document scan order.
func (d *Document) Paragraphs() []Paragraph {
	var out []Paragraph

	for i, p := range children(d.body, "p") {
		out = append(out, Paragraph{doc: d, elem: p, Table: -1, Index: i, Text: paragraphText(p)})
	}

	for ti, tbl := range children(d.body, "tbl") {
		for ri, tr := range children(tbl, "tr") {
			for ci, tc := range children(tr, "tc") {
				for pi, p := range children(tc, "p") {
					out = append(out, Paragraph{
						doc:   d,
						elem:  p,
						Table: ti,
						Row:   ri,
						Cell:  ci,
						Index: pi,
						Text:  paragraphText(p),
					})
				}
			}
		}
	}

	return out
}

// paragraphText concatenates the text of the paragraph's direct runs.
func paragraphText(p *etree.Element) string {
	var b strings.Builder
	for _, r := range children(p, "r") {
		for _, c := range r.ChildElements() {
			if c.NamespaceURI() != WordNamespace {
				continue
			}
			switch c.Tag {
			case "t":
				b.WriteString(c.Text())
			case "tab":
				b.WriteByte('\t')
			case "br", "cr":
				b.WriteByte('\n')
			}
		}
	}
	return b.String()
}

// =============================================================================
// MATCHING
// =============================================================================

// Matcher tests paragraph text against a set of sentinel phrases.
type Matcher struct {
	phrases []string
}

// NewMatcher normalizes the phrases once. Blank phrases are ignored.
func NewMatcher(phrases []string) *Matcher {
	m := &Matcher{}
	for _, p := range phrases {
		if n := normalizeText(p); n != "" {
			m.phrases = append(m.phrases, n)
		}
	}
	return m
}

// Match reports whether text contains any of the phrases.
func (m *Matcher) Match(text string) bool {
	t := normalizeText(text)
	for _, p := range m.phrases {
		if strings.Contains(t, p) {
			return true
		}
	}
	return false
}

// normalizeText collapses whitespace, trims and lowercases s.
func normalizeText(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// Locate returns the placeholder paragraphs of d in scan order.
//
// RETURNS:
//   - The matching paragraphs.
//   - ErrNoPlaceholder if none matched.
func Locate(d *Document, phrases []string) ([]Paragraph, error) {
	m := NewMatcher(phrases)

	var found []Paragraph
	for _, p := range d.Paragraphs() {
		if m.Match(p.Text) {
			found = append(found, p)
		}
	}

	if len(found) == 0 {
		return nil, ErrNoPlaceholder
	}
	return found, nil
}
