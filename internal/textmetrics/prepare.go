package textmetrics

import (
	"strings"

	"github.com/garyjia/travel-expense-print/internal/models"
)

// detailSeparator joins the itemized detail lines of one entry
const detailSeparator = "、"

// PreparedRow is one physical table line of the main-data block
type PreparedRow struct {
	Group   int    // index of the source Ryohi
	Line    int    // index of this line inside its group
	Date    string // first line only
	Amount  string // first line only
	Remarks string // first line only
	Kukan   string
	Detail  string
}

// First reports whether the row opens its group
func (r PreparedRow) First() bool {
	return r.Line == 0
}

// PrepareForPrint wraps and aligns each entry's detail and route text and
// flattens the result into physical rows. The input is not modified and the
// output depends on nothing but the input.
func PrepareForPrint(ryohi []models.Ryohi) []PreparedRow {
	var rows []PreparedRow
	for g := range ryohi {
		rows = append(rows, prepareEntry(g, &ryohi[g])...)
	}
	return rows
}

func prepareEntry(group int, r *models.Ryohi) []PreparedRow {
	detail := Wrap(strings.Join(r.Detail, detailSeparator), DetailBudget)

	kukan := ""
	if r.Kukan != nil {
		kukan = *r.Kukan
	}
	route := Wrap(kukan, KukanBudget)

	aligned := Align(detail, route)
	detail, route = aligned[0], aligned[1]

	rows := make([]PreparedRow, len(detail))
	for i := range detail {
		rows[i] = PreparedRow{
			Group:  group,
			Line:   i,
			Detail: detail[i],
			Kukan:  route[i],
		}
	}

	head := &rows[0]
	if r.Date != nil {
		head.Date = models.ShortDate(*r.Date)
	}
	if r.Price != nil {
		head.Amount = models.FormatPrice(*r.Price)
	}
	head.Remarks = remarks(r)

	return rows
}

func remarks(r *models.Ryohi) string {
	if r.Vol == nil {
		return r.Remarks
	}
	if r.Remarks == "" {
		return models.FormatDistance(*r.Vol)
	}
	return models.FormatDistance(*r.Vol) + " " + r.Remarks
}

// Groups splits a flat row slice back into its logical groups, preserving order
func Groups(rows []PreparedRow) [][]PreparedRow {
	var groups [][]PreparedRow
	for i, row := range rows {
		if i == 0 || row.First() {
			groups = append(groups, nil)
		}
		groups[len(groups)-1] = append(groups[len(groups)-1], row)
	}
	return groups
}
