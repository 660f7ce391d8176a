// Package textmetrics fits variable-length, mixed-width text into the fixed
// cells of the settlement form. Widths are counted in cells: half-width
// runes take one cell, full-width runes take two.
package textmetrics

import (
	"unicode/utf8"

	"golang.org/x/text/width"
)

// Cell budgets of the form's free-text columns
const (
	DetailBudget = 10 // 摘要
	KukanBudget  = 22 // 区間

	// minBudget is the smallest budget that can hold any single rune
	minBudget = 2
)

// CellWidth returns 2 for full-width runes and 1 for everything else.
// East Asian ambiguous runes (○, ※, Greek, box drawing) print full-width
// in Japanese typefaces, so they count as 2.
func CellWidth(r rune) int {
	switch width.LookupRune(r).Kind() {
	case width.EastAsianWide, width.EastAsianFullwidth, width.EastAsianAmbiguous:
		return 2
	default:
		return 1
	}
}

// StringWidth returns the total cell width of s. An invalid UTF-8 byte
// counts as one cell.
func StringWidth(s string) int {
	n := 0
	for i := 0; i < len(s); {
		size, w := nextCell(s[i:])
		n += w
		i += size
	}
	return n
}

// nextCell decodes the first rune of s and returns its byte size and width
func nextCell(s string) (size, cells int) {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError && size == 1 {
		return 1, 1
	}
	return size, CellWidth(r)
}
