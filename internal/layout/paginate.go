package layout

import (
	"github.com/garyjia/travel-expense-print/internal/textmetrics"
)

// Paginate packs prepared rows into pages of RowsPerPage rows. A group that
// does not fit in the rest of the current page moves to a fresh page when it
// fits on one; longer groups are split. At least one (possibly empty) page is
// always returned.
func Paginate(rows []textmetrics.PreparedRow) [][]textmetrics.PreparedRow {
	var pages [][]textmetrics.PreparedRow
	var current []textmetrics.PreparedRow

	for _, group := range textmetrics.Groups(rows) {
		if len(current) > 0 && len(current)+len(group) > RowsPerPage && len(group) <= RowsPerPage {
			pages = append(pages, current)
			current = nil
		}
		for _, row := range group {
			if len(current) == RowsPerPage {
				pages = append(pages, current)
				current = nil
			}
			current = append(current, row)
		}
	}

	if len(current) > 0 || len(pages) == 0 {
		pages = append(pages, current)
	}
	return pages
}
