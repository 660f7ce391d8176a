// Package ledger exports settlement items as an xlsx workbook: one sheet of
// printed table rows, one sheet of per-item totals.
package ledger

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/garyjia/travel-expense-print/internal/models"
	"github.com/garyjia/travel-expense-print/internal/storage"
	"github.com/garyjia/travel-expense-print/internal/textmetrics"
)

const (
	RowsSheet    = "明細"
	SummarySheet = "合計"
)

var (
	rowHeaders     = []string{"氏名", "所属", "月日", "摘要", "区間", "金額", "備考"}
	summaryHeaders = []string{"氏名", "所属", "期間", "支払日", "明細合計", "合計", "内消費税"}
	rowColWidths   = []float64{14, 14, 8, 16, 26, 10, 20}
)

// Exporter writes ledgers through a FileStorage
type Exporter struct {
	storage storage.FileStorage
	logger  *zap.Logger
}

// NewExporter creates a new ledger exporter
func NewExporter(store storage.FileStorage, logger *zap.Logger) *Exporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Exporter{storage: store, logger: logger}
}

// PathFor returns the ledger path paired with a PDF: same name, .xlsx
// extension, inside dir when dir is set
func PathFor(pdfPath, dir string) string {
	name := strings.TrimSuffix(filepath.Base(pdfPath), filepath.Ext(pdfPath)) + ".xlsx"
	if dir == "" {
		dir = filepath.Dir(pdfPath)
	}
	return filepath.Join(dir, name)
}

// Export writes items to outputPath and returns the file size
func (e *Exporter) Export(items []models.Item, outputPath string) (int64, error) {
	e.logger.Info("Exporting ledger",
		zap.Int("items", len(items)),
		zap.String("output_path", outputPath))

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", RowsSheet); err != nil {
		return 0, models.NewFileIOError("failed to name ledger sheet", err)
	}
	if _, err := f.NewSheet(SummarySheet); err != nil {
		return 0, models.NewFileIOError("failed to add summary sheet", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return 0, models.NewFileIOError("failed to create header style", err)
	}
	e.writeHeader(f, RowsSheet, rowHeaders, headerStyle)
	e.writeHeader(f, SummarySheet, summaryHeaders, headerStyle)
	for i, w := range rowColWidths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(RowsSheet, col, col, w); err != nil {
			e.logger.Warn("Failed to set column width", zap.String("col", col), zap.Error(err))
		}
	}

	row := 2
	for i := range items {
		item := &items[i]
		for _, pr := range textmetrics.PrepareForPrint(item.Ryohi) {
			values := []interface{}{"", "", pr.Date, pr.Detail, pr.Kukan, "", pr.Remarks}
			if pr.First() {
				values[0], values[1] = item.Name, item.Office
				if p := item.Ryohi[pr.Group].Price; p != nil {
					values[5] = *p
				}
			}
			e.setRow(f, RowsSheet, row, values)
			row++
		}

		var tax interface{} = ""
		if item.TaxRate != nil {
			tax = models.TaxIncluded(item.Price, *item.TaxRate)
		}
		e.setRow(f, SummarySheet, i+2, []interface{}{
			item.Name,
			item.Office,
			item.Period(),
			item.PayDay,
			item.EntryTotal(),
			item.Price,
			tax,
		})
	}

	size, err := e.storage.SaveFileAtomic(outputPath, storage.FileTypeExcel, func(w io.Writer) error {
		return f.Write(w)
	})
	if err != nil {
		return 0, models.NewFileIOError(fmt.Sprintf("failed to save ledger %s", outputPath), err)
	}

	e.logger.Info("Ledger exported successfully",
		zap.String("output_path", outputPath),
		zap.Int("rows", row-2))
	return size, nil
}

func (e *Exporter) writeHeader(f *excelize.File, sheet string, headers []string, style int) {
	values := make([]interface{}, len(headers))
	for i, h := range headers {
		values[i] = h
	}
	e.setRow(f, sheet, 1, values)

	last, _ := excelize.CoordinatesToCellName(len(headers), 1)
	if err := f.SetCellStyle(sheet, "A1", last, style); err != nil {
		e.logger.Warn("Failed to style header", zap.String("sheet", sheet), zap.Error(err))
	}
}

// setRow writes values from column A; cell errors are logged, not fatal
func (e *Exporter) setRow(f *excelize.File, sheet string, row int, values []interface{}) {
	cell, _ := excelize.CoordinatesToCellName(1, row)
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		e.logger.Warn("Failed to set row",
			zap.String("sheet", sheet),
			zap.Int("row", row),
			zap.Error(err))
	}
}
