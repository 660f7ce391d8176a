// Package layout turns one settlement item into page-drawing primitives on a
// fixed A5 landscape grid. Every coordinate is a pure function of the block
// constants in geometry.go; primitives are emitted top-down, left to right,
// so identical input always yields an identical sequence.
package layout

import (
	"fmt"
	"strings"

	"github.com/garyjia/travel-expense-print/internal/fonts"
	"github.com/garyjia/travel-expense-print/internal/models"
	"github.com/garyjia/travel-expense-print/internal/textmetrics"
)

// Font sizes in points
const (
	SizeTitle   = 14.0
	SizeLabel   = 8.0
	SizeValue   = 9.0
	SizeCell    = 8.0
	SizeKukan   = 6.5
	SizeTotal   = 12.0
	SizeSmall   = 6.5
	SizeRemarks = 7.0
	MinTextSize = 4.5
	sizeStep    = 0.5
)

const (
	mmPerPoint  = 25.4 / 72
	cellPadding = 1.0

	frameLineWidth = 0.5
	gridLineWidth  = 0.2
	ruleLineWidth  = 0.3

	remarksBudget   = 100
	remarksMaxLines = 4
	remarksLabelH   = 5.0
	remarksLineH    = 5.0
)

// Title is printed at the top of every page
const Title = "出 張 旅 費 精 算 書"

const continuedLabel = "次頁へ続く"

var approvalLabels = [ApprovalBoxes]string{"社　長", "会　計", "所　属"}

var infoLabels = [InfoRows][InfoPairs]string{
	{"氏　名", "所　属", "車両No."},
	{"支払日", "期　間", "出張目的"},
}

// Metrics measures text for a role; *fonts.Handle satisfies it
type Metrics interface {
	TextWidth(text string, sizePt float64) float64
	HasGlyph(r rune) bool
}

type alignment int

const (
	alignLeft alignment = iota
	alignRight
	alignCenter
)

// Engine lays out items using the glyph metrics of the resolved fonts
type Engine struct {
	metrics map[fonts.Role]Metrics
}

// NewEngine creates an engine. Every role in fonts.Roles needs metrics.
func NewEngine(metrics map[fonts.Role]Metrics) *Engine {
	m := make(map[fonts.Role]Metrics, len(metrics))
	for role, v := range metrics {
		m[role] = v
	}
	return &Engine{metrics: m}
}

// Layout returns the pages of one item. Rows beyond one page's capacity
// continue on further pages that repeat the title, approval and basic-info
// blocks; totals are printed on the last page only.
func (e *Engine) Layout(item *models.Item, rows []textmetrics.PreparedRow) ([]Page, error) {
	for _, role := range fonts.Roles {
		if _, ok := e.metrics[role]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingMetrics, role)
		}
	}
	if err := e.checkCoverage(item); err != nil {
		return nil, err
	}

	chunks := Paginate(rows)
	pages := make([]Page, len(chunks))
	for i, chunk := range chunks {
		p := Page{Number: i + 1, Total: len(chunks)}
		c := &canvas{}
		if err := e.drawPage(c, item, chunk, p); err != nil {
			return nil, fmt.Errorf("page %d/%d: %w", p.Number, p.Total, err)
		}
		p.Ops = c.ops
		pages[i] = p
	}
	return pages, nil
}

func (e *Engine) drawPage(c *canvas, item *models.Item, rows []textmetrics.PreparedRow, p Page) error {
	c.lineWidth(frameLineWidth)
	c.rect(MarginRect())

	if err := e.drawTitle(c, p); err != nil {
		return fmt.Errorf("title block: %w", err)
	}
	if err := e.drawApproval(c); err != nil {
		return fmt.Errorf("approval block: %w", err)
	}
	if err := e.drawBasicInfo(c, item); err != nil {
		return fmt.Errorf("basic-info block: %w", err)
	}
	if err := e.drawMainData(c, item, rows); err != nil {
		return fmt.Errorf("main-data block: %w", err)
	}
	if err := e.drawSummary(c, item, p.Number == p.Total); err != nil {
		return fmt.Errorf("summary block: %w", err)
	}
	return nil
}

func (e *Engine) drawTitle(c *canvas, p Page) error {
	indicator := Rect{X: MarginLeft + 2, Y: MarginTop - 7, W: 40, H: 5}
	if err := e.place(c, fonts.RoleBody, SizeSmall, indicator, alignLeft, fmt.Sprintf("%d / %d 頁", p.Number, p.Total)); err != nil {
		return err
	}

	box := Rect{X: MarginLeft + 3, Y: approvalBlockFloor + 5, W: approvalBlockLeft - MarginLeft - 6, H: 8}
	size, width, err := e.fit(fonts.RoleHeading, Title, SizeTitle, box.W)
	if err != nil {
		return err
	}
	c.text(fonts.RoleHeading, size, box.X, baseline(box, size), Title)

	c.lineWidth(ruleLineWidth)
	c.line(box.X, box.Y-0.5, box.X+width, box.Y-0.5)
	c.line(box.X, box.Y-1.2, box.X+width, box.Y-1.2)
	return nil
}

func (e *Engine) drawApproval(c *canvas) error {
	c.lineWidth(gridLineWidth)
	for i := 0; i < ApprovalBoxes; i++ {
		label, _ := ApprovalRects(i)
		c.rect(label)
		if err := e.place(c, fonts.RoleBody, SizeLabel, label, alignCenter, approvalLabels[i]); err != nil {
			return err
		}
	}
	for i := 0; i < ApprovalBoxes; i++ {
		_, stamp := ApprovalRects(i)
		c.rect(stamp)
	}
	return nil
}

func (e *Engine) drawBasicInfo(c *canvas, item *models.Item) error {
	values := [InfoRows][InfoPairs]string{
		{item.Name, item.Office, item.Car},
		{payDay(item.PayDay), item.Period(), item.Purpose},
	}

	for row := 0; row < InfoRows; row++ {
		for pair := 0; pair < InfoPairs; pair++ {
			label, value := InfoRects(row, pair)
			c.rect(label)
			if err := e.place(c, fonts.RoleBody, SizeLabel, label, alignCenter, infoLabels[row][pair]); err != nil {
				return err
			}
			c.rect(value)
			if err := e.place(c, fonts.RoleBody, SizeValue, value, alignLeft, values[row][pair]); err != nil {
				return fmt.Errorf("%s: %w", infoLabels[row][pair], err)
			}
		}
	}
	return nil
}

func (e *Engine) drawMainData(c *canvas, item *models.Item, rows []textmetrics.PreparedRow) error {
	for col := 0; col < NumColumns; col++ {
		h := HeaderRect(col)
		c.rect(h)
		if err := e.place(c, fonts.RoleBody, SizeLabel, h, alignCenter, ColumnHeaders[col]); err != nil {
			return err
		}
	}
	subHeader, subBody := SubtotalRect()
	c.rect(subHeader)
	if err := e.place(c, fonts.RoleBody, SizeLabel, subHeader, alignCenter, "小　計"); err != nil {
		return err
	}

	for r := 0; r < RowsPerPage; r++ {
		var row *textmetrics.PreparedRow
		if r < len(rows) {
			row = &rows[r]
		}
		for col := 0; col < NumColumns; col++ {
			cell := CellRect(r, col)
			c.rect(cell)
			if row == nil {
				continue
			}
			if err := e.drawCell(c, cell, col, row); err != nil {
				return fmt.Errorf("row %d, %s: %w", r+1, strings.ReplaceAll(ColumnHeaders[col], "　", ""), err)
			}
		}
	}

	c.rect(subBody)
	if sum, ok := pageSubtotal(item, rows); ok {
		box := Rect{X: subBody.X, Y: DataTop - RowHeight, W: subBody.W, H: RowHeight}
		if err := e.place(c, fonts.RoleBody, SizeCell, box, alignRight, models.FormatPrice(sum)); err != nil {
			return fmt.Errorf("subtotal: %w", err)
		}
	}
	return nil
}

func (e *Engine) drawCell(c *canvas, cell Rect, col int, row *textmetrics.PreparedRow) error {
	switch col {
	case ColDate:
		return e.place(c, fonts.RoleBody, SizeCell, cell, alignLeft, row.Date)
	case ColDetail:
		return e.place(c, fonts.RoleBody, SizeCell, cell, alignLeft, row.Detail)
	case ColKukan:
		return e.place(c, fonts.RoleBody, SizeKukan, cell, alignLeft, row.Kukan)
	case ColAmount:
		return e.place(c, fonts.RoleBody, SizeCell, cell, alignRight, row.Amount)
	case ColRemarks:
		return e.place(c, fonts.RoleBody, SizeCell, cell, alignLeft, row.Remarks)
	}
	return nil
}

func (e *Engine) drawSummary(c *canvas, item *models.Item, last bool) error {
	remarks, total := SummaryRects()

	c.rect(remarks)
	labelBox := Rect{X: remarks.X, Y: remarks.Top() - remarksLabelH, W: 20, H: remarksLabelH}
	if err := e.place(c, fonts.RoleBody, SizeLabel, labelBox, alignLeft, "備　考"); err != nil {
		return err
	}
	if last && item.Description != "" {
		lines := textmetrics.Wrap(item.Description, remarksBudget)
		if len(lines) > remarksMaxLines {
			return fmt.Errorf("%w: remarks need %d lines, box holds %d", ErrCellOverflow, len(lines), remarksMaxLines)
		}
		for i, line := range lines {
			box := Rect{
				X: remarks.X + 2,
				Y: remarks.Top() - remarksLabelH - float64(i+1)*remarksLineH,
				W: remarks.W - 4,
				H: remarksLineH,
			}
			if err := e.place(c, fonts.RoleBody, SizeRemarks, box, alignLeft, line); err != nil {
				return fmt.Errorf("remarks line %d: %w", i+1, err)
			}
		}
	}

	c.rect(total)
	totalLabel := Rect{X: total.X, Y: total.Top() - remarksLabelH, W: 10, H: remarksLabelH}
	if err := e.place(c, fonts.RoleBody, SizeLabel, totalLabel, alignLeft, "計"); err != nil {
		return err
	}

	amountBox := Rect{X: total.X, Y: total.Y + 8, W: total.W, H: 10}
	if !last {
		return e.place(c, fonts.RoleBody, SizeLabel, amountBox, alignCenter, continuedLabel)
	}
	if err := e.place(c, fonts.RoleHeading, SizeTotal, amountBox, alignRight, models.FormatPrice(item.Price)+"円"); err != nil {
		return fmt.Errorf("total: %w", err)
	}
	if item.TaxRate != nil {
		taxBox := Rect{X: total.X, Y: total.Y + 2, W: total.W, H: 6}
		tax := models.TaxIncluded(item.Price, *item.TaxRate)
		if err := e.place(c, fonts.RoleBody, SizeSmall, taxBox, alignRight, "内消費税 "+models.FormatPrice(tax)+"円"); err != nil {
			return fmt.Errorf("tax: %w", err)
		}
	}
	return nil
}

// place fits text into box, shrinking the size if needed, and emits it
func (e *Engine) place(c *canvas, role fonts.Role, size float64, box Rect, a alignment, text string) error {
	if text == "" {
		return nil
	}
	s, w, err := e.fit(role, text, size, box.W-2*cellPadding)
	if err != nil {
		return err
	}

	x := box.X + cellPadding
	switch a {
	case alignRight:
		x = box.Right() - cellPadding - w
	case alignCenter:
		x = box.X + (box.W-w)/2
	}
	c.text(role, s, x, baseline(box, s), text)
	return nil
}

// fit returns the largest size, in sizeStep decrements from size down to
// MinTextSize, at which text is no wider than maxWidth, and the width there
func (e *Engine) fit(role fonts.Role, text string, size, maxWidth float64) (float64, float64, error) {
	m, ok := e.metrics[role]
	if !ok {
		return 0, 0, fmt.Errorf("%w: %s", ErrMissingMetrics, role)
	}
	for s := size; s >= MinTextSize; s -= sizeStep {
		if w := m.TextWidth(text, s); w <= maxWidth {
			return s, w, nil
		}
	}
	return 0, 0, fmt.Errorf("%w: %q needs %.2fmm at %.1fpt, cell allows %.2fmm",
		ErrCellOverflow, text, m.TextWidth(text, MinTextSize), MinTextSize, maxWidth)
}

// baseline vertically centres a line of sizePt text in box
func baseline(box Rect, sizePt float64) float64 {
	h := sizePt * mmPerPoint
	return box.Y + (box.H-h)/2 + 0.15*h
}

func pageSubtotal(item *models.Item, rows []textmetrics.PreparedRow) (int64, bool) {
	var sum int64
	found := false
	for _, row := range rows {
		if !row.First() || row.Group >= len(item.Ryohi) {
			continue
		}
		if p := item.Ryohi[row.Group].Price; p != nil {
			sum += *p
			found = true
		}
	}
	return sum, found
}

func payDay(s string) string {
	if strings.Contains(s, "-") {
		return models.ParseDate(s)
	}
	return models.ParsePayDay(s)
}
