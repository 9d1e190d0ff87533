// =============================================================================
// AKT Filler - Line Builder
// =============================================================================
//
// Groups extracted item numbers by sale identifier and renders one text line
// per requested identifier:
//
//   3-ci NV: 2, 9, 15
//
// An identifier with no items renders as "3-ci NV: ". Duplicate and missing
// identifiers in the request are rendered exactly as given.
//
// =============================================================================

package converter

import (
	"slices"
	"strconv"
	"strings"

	"github.com/ginjaninja78/akt-filler/internal/types"
)

// LineLabelSuffix follows the sale identifier in every rendered line.
const LineLabelSuffix = "-ci NV:"

// SaleGroup is the sorted, de-duplicated set of item numbers of one sale.
type SaleGroup struct {
	Sale  int
	Items []int
}

// Group collects the item numbers of every row whose sale equals sale.
func Group(table *types.Table, sale int) SaleGroup {
	seen := make(map[int]struct{})
	items := []int{}

	for _, row := range table.Rows {
		if !row.HasSale || row.Sale != sale || !row.HasNum {
			continue
		}
		if _, dup := seen[row.Num]; dup {
			continue
		}
		seen[row.Num] = struct{}{}
		items = append(items, row.Num)
	}

	slices.Sort(items)
	return SaleGroup{Sale: sale, Items: items}
}

// Render formats the group as "<id>-ci NV: <n1>, <n2>, ...".
func (g SaleGroup) Render() string {
	parts := make([]string, len(g.Items))
	for i, n := range g.Items {
		parts[i] = strconv.Itoa(n)
	}
	return strconv.Itoa(g.Sale) + LineLabelSuffix + " " + strings.Join(parts, ", ")
}

// BuildLine renders the line of a single sale identifier.
func BuildLine(table *types.Table, sale int) string {
	return Group(table, sale).Render()
}

// BuildLines renders one line per requested identifier, in request order.
func BuildLines(table *types.Table, sales []int) []string {
	lines := make([]string, len(sales))
	for i, s := range sales {
		lines[i] = BuildLine(table, s)
	}
	return lines
}
