package layout

import (
	"fmt"
	"unicode"

	"github.com/garyjia/travel-expense-print/internal/fonts"
	"github.com/garyjia/travel-expense-print/internal/models"
)

type field struct {
	name string
	text string
}

// itemFields lists the caller-supplied text of item, named by where it lands
func itemFields(item *models.Item) []field {
	fs := []field{
		{"氏名", item.Name},
		{"所属", item.Office},
		{"車両No.", item.Car},
		{"出張目的", item.Purpose},
		{"備考", item.Description},
	}
	for i, r := range item.Ryohi {
		if r.Kukan != nil {
			fs = append(fs, field{fmt.Sprintf("row %d 区間", i+1), *r.Kukan})
		}
		for _, d := range r.Detail {
			fs = append(fs, field{fmt.Sprintf("row %d 摘要", i+1), d})
		}
		fs = append(fs, field{fmt.Sprintf("row %d 備考", i+1), r.Remarks})
	}
	return fs
}

// checkCoverage fails on the first rune of item text the body font cannot
// draw. Whitespace and control runes are skipped. The form's own labels are
// not checked; they belong to the deployment's font choice.
func (e *Engine) checkCoverage(item *models.Item) error {
	m := e.metrics[fonts.RoleBody]
	for _, f := range itemFields(item) {
		for _, r := range f.text {
			if unicode.IsSpace(r) || unicode.IsControl(r) {
				continue
			}
			if !m.HasGlyph(r) {
				return fmt.Errorf("%w: %q (U+%04X) in %s %q", ErrMissingGlyph, r, r, f.name, f.text)
			}
		}
	}
	return nil
}
