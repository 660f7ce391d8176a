package ledger

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/garyjia/travel-expense-print/internal/models"
	"github.com/garyjia/travel-expense-print/internal/storage"
)

func sampleItems() []models.Item {
	return []models.Item{
		{
			Name:      "山田太郎",
			Office:    "営業部",
			PayDay:    "2025/01/10",
			StartDate: "2024-12-25",
			EndDate:   "2024-12-26",
			Price:     14000,
			TaxRate:   models.Float64Ptr(0.1),
			Ryohi: []models.Ryohi{
				{
					Date:    models.StringPtr("2024-12-25"),
					Detail:  []string{"新幹線のぞみ", "指定席"},
					Kukan:   models.StringPtr("東京駅　新大阪駅"),
					Price:   models.Int64Ptr(13770),
					Remarks: "往路",
				},
				{
					Date:   models.StringPtr("2024-12-26"),
					Detail: []string{"地下鉄"},
					Price:  models.Int64Ptr(230),
				},
			},
		},
		{Name: "佐藤花子", Price: 500},
	}
}

func TestExporter_Export(t *testing.T) {
	dir := t.TempDir()
	logger, _ := zap.NewDevelopment()
	exp := NewExporter(storage.NewLocalFileStorage(dir, logger), logger)
	path := filepath.Join(dir, "ledger.xlsx")

	size, err := exp.Export(sampleItems(), path)
	require.NoError(t, err)
	assert.Positive(t, size)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	t.Run("rows sheet mirrors printed table rows", func(t *testing.T) {
		rows, err := f.GetRows(RowsSheet)
		require.NoError(t, err)
		require.Len(t, rows, 4, "header + two wrapped lines + one line")

		assert.Equal(t, rowHeaders, rows[0])
		assert.Equal(t, []string{"山田太郎", "営業部", "12/25", "新幹線のぞ", "東京駅　新大阪駅", "13770", "往路"}, rows[1])
		assert.Equal(t, "", rows[2][0])
		assert.Equal(t, "み、指定席", rows[2][3])
		assert.Equal(t, "12/26", rows[3][2])
	})

	t.Run("summary sheet has one row per item", func(t *testing.T) {
		rows, err := f.GetRows(SummarySheet)
		require.NoError(t, err)
		require.Len(t, rows, 3)
		assert.Equal(t, []string{"山田太郎", "営業部", "12/25～12/26", "2025/01/10", "14000", "14000", "1272"}, rows[1])
		assert.Equal(t, "佐藤花子", rows[2][0])
		assert.Equal(t, "500", rows[2][5])
	})
}

func TestExporter_ExportOutsideBase(t *testing.T) {
	exp := NewExporter(storage.NewLocalFileStorage(t.TempDir(), nil), nil)
	_, err := exp.Export(sampleItems(), filepath.Join(t.TempDir(), "ledger.xlsx"))
	assert.True(t, models.IsKind(err, models.KindFileIO))
}

func TestPathFor(t *testing.T) {
	assert.Equal(t, filepath.Join("/out", "travel_expense_1.xlsx"), PathFor("/out/travel_expense_1.pdf", ""))
	assert.Equal(t, filepath.Join("/ledgers", "travel_expense_1.xlsx"), PathFor("/out/travel_expense_1.pdf", "/ledgers"))
}
