package layout

// All coordinates are millimetres with the origin at the page's lower-left corner.

// Page size (A5 landscape)
const (
	PageWidth  = 210.0
	PageHeight = 148.0
)

// Margin box
const (
	MarginLeft   = 10.0
	MarginTop    = 138.0
	MarginRight  = 200.0
	MarginBottom = 10.0
)

// Approval block (top right): three label/stamp boxes
const (
	ApprovalBoxWidth   = 15.0
	ApprovalLabelH     = 5.0
	ApprovalStampH     = 15.0
	ApprovalBoxes      = 3
	approvalBlockLeft  = MarginRight - ApprovalBoxes*ApprovalBoxWidth
	approvalBlockFloor = MarginTop - ApprovalLabelH - ApprovalStampH
)

// Basic-info block: two rows of three label/value pairs
const (
	InfoTop        = 116.0
	InfoRowHeight  = 7.0
	InfoRows       = 2
	InfoPairs      = 3
	InfoLabelWidth = 18.0
	InfoValueWidth = (MarginRight - MarginLeft - InfoPairs*InfoLabelWidth) / InfoPairs
)

// Main-data block
const (
	TableTop     = 100.0
	HeaderHeight = 6.0
	RowHeight    = 8.0
	RowsPerPage  = 7
	TableLeft    = MarginLeft
	DataTop      = TableTop - HeaderHeight
	TableBottom  = DataTop - RowsPerPage*RowHeight
)

// Main-data columns
const (
	ColDate = iota
	ColDetail
	ColKukan
	ColAmount
	ColRemarks
	NumColumns
)

// ColumnWidths are the fixed widths of the main-data columns
var ColumnWidths = [NumColumns]float64{30, 25, 28.75, 30, 30}

// ColumnHeaders label the main-data columns
var ColumnHeaders = [NumColumns]string{"月　日", "摘　要", "区　間", "金　額", "備　考"}

// Summary block: remarks box and total box share the bottom band
const (
	SummaryTop    = 36.0
	SummaryBottom = MarginBottom
)

// Rect is an axis-aligned box; (X, Y) is its lower-left corner
type Rect struct {
	X, Y, W, H float64
}

// Top returns the upper edge
func (r Rect) Top() float64 { return r.Y + r.H }

// Right returns the right edge
func (r Rect) Right() float64 { return r.X + r.W }

// TableWidth returns the summed width of the main-data columns
func TableWidth() float64 {
	w := 0.0
	for _, cw := range ColumnWidths {
		w += cw
	}
	return w
}

// columnX returns the left edge of col
func columnX(col int) float64 {
	x := TableLeft
	for i := 0; i < col; i++ {
		x += ColumnWidths[i]
	}
	return x
}

// HeaderRect returns the header cell of col
func HeaderRect(col int) Rect {
	return Rect{X: columnX(col), Y: TableTop - HeaderHeight, W: ColumnWidths[col], H: HeaderHeight}
}

// CellRect returns the data cell at (row, col). Row 0 is directly under the header.
func CellRect(row, col int) Rect {
	return Rect{
		X: columnX(col),
		Y: DataTop - float64(row+1)*RowHeight,
		W: ColumnWidths[col],
		H: RowHeight,
	}
}

// SubtotalRect returns the page-subtotal box to the right of the table
func SubtotalRect() (header, body Rect) {
	x := TableLeft + TableWidth()
	w := MarginRight - x
	header = Rect{X: x, Y: TableTop - HeaderHeight, W: w, H: HeaderHeight}
	body = Rect{X: x, Y: TableBottom, W: w, H: DataTop - TableBottom}
	return header, body
}

// ApprovalRects returns the label and stamp boxes of approval slot i (left to right)
func ApprovalRects(i int) (label, stamp Rect) {
	x := approvalBlockLeft + float64(i)*ApprovalBoxWidth
	label = Rect{X: x, Y: MarginTop - ApprovalLabelH, W: ApprovalBoxWidth, H: ApprovalLabelH}
	stamp = Rect{X: x, Y: approvalBlockFloor, W: ApprovalBoxWidth, H: ApprovalStampH}
	return label, stamp
}

// InfoRects returns the label and value cells of basic-info pair (row, pair)
func InfoRects(row, pair int) (label, value Rect) {
	x := MarginLeft + float64(pair)*(InfoLabelWidth+InfoValueWidth)
	y := InfoTop - float64(row+1)*InfoRowHeight
	label = Rect{X: x, Y: y, W: InfoLabelWidth, H: InfoRowHeight}
	value = Rect{X: x + InfoLabelWidth, Y: y, W: InfoValueWidth, H: InfoRowHeight}
	return label, value
}

// SummaryRects returns the remarks box and the total box
func SummaryRects() (remarks, total Rect) {
	h := SummaryTop - SummaryBottom
	remarks = Rect{X: TableLeft, Y: SummaryBottom, W: TableWidth(), H: h}
	total = Rect{X: TableLeft + TableWidth(), Y: SummaryBottom, W: MarginRight - TableLeft - TableWidth(), H: h}
	return remarks, total
}

// MarginRect returns the outer frame
func MarginRect() Rect {
	return Rect{X: MarginLeft, Y: MarginBottom, W: MarginRight - MarginLeft, H: MarginTop - MarginBottom}
}
