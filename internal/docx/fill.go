// =============================================================================
// AKT Filler - Document Filler
// =============================================================================
//
// Applies rendered lines to located placeholder paragraphs.
//
// MODES:
//   - Single target (one placeholder): the paragraph is cleared and receives
//     every line, separated by line breaks inside the same paragraph.
//   - Multi target (several placeholders): placeholder i receives line i for
//     i < min(#placeholders, #lines). Extra placeholders keep their text;
//     extra lines are reported in FillStats.UnusedLines.
//
// Each touched paragraph keeps its paragraph properties, gets a fixed line
// spacing, and loses all of its previous runs. No other content changes.
//
// =============================================================================

package docx

import (
	"errors"

	"github.com/beevik/etree"
)

// ErrForeignParagraph is returned when a paragraph was located in another document.
var ErrForeignParagraph = errors.New("paragraph does not belong to this document")

// Mode is the fill strategy chosen from the placeholder count.
type Mode string

const (
	ModeSingle Mode = "single"
	ModeMulti  Mode = "multi"
)

// FillStats summarizes one fill.
type FillStats struct {
	Mode               Mode
	Placeholders       int
	Lines              int
	Filled             int
	UnusedLines        int
	UnusedPlaceholders int
}

// Fill writes lines into the placeholder paragraphs of d.
//
// PARAMETERS:
//   - d: The document the placeholders were located in.
//   - targets: The located placeholders, in scan order.
//   - lines: The rendered lines, in request order.
//   - opts: The formatting policy.
//
// RETURNS:
//   - Statistics about what was filled.
//   - ErrNoPlaceholder if targets is empty, ErrForeignParagraph if a target
//     belongs to another document. d is untouched when an error is returned.
func Fill(d *Document, targets []Paragraph, lines []string, opts FormatOptions) (FillStats, error) {
	if len(targets) == 0 {
		return FillStats{}, ErrNoPlaceholder
	}

	// One mutation per slot: repeated references collapse to the first.
	seen := make(map[*etree.Element]bool, len(targets))
	slots := make([]*etree.Element, 0, len(targets))
	for _, t := range targets {
		if t.doc != d || t.elem == nil {
			return FillStats{}, ErrForeignParagraph
		}
		if seen[t.elem] {
			continue
		}
		seen[t.elem] = true
		slots = append(slots, t.elem)
	}

	w := &writer{doc: d, opts: opts}
	stats := FillStats{Placeholders: len(slots), Lines: len(lines)}

	if len(slots) == 1 {
		stats.Mode = ModeSingle
		p := slots[0]

		w.clear(p)
		w.setSpacing(p)
		for i, line := range lines {
			if i > 0 {
				w.addBreak(p)
			}
			w.writeLine(p, line)
		}

		stats.Filled = 1
		return stats, nil
	}

	stats.Mode = ModeMulti
	count := min(len(slots), len(lines))
	for i := 0; i < count; i++ {
		p := slots[i]
		w.clear(p)
		w.setSpacing(p)
		w.writeLine(p, lines[i])
	}

	stats.Filled = count
	stats.UnusedLines = len(lines) - count
	stats.UnusedPlaceholders = len(slots) - count
	return stats, nil
}
