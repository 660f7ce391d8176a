package layout

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/garyjia/travel-expense-print/internal/fonts"
	"github.com/garyjia/travel-expense-print/internal/models"
	"github.com/garyjia/travel-expense-print/internal/textmetrics"
)

// cellMetrics gives every half-width cell 0.5em, a full-width cell 1em
type cellMetrics struct{}

func (cellMetrics) TextWidth(text string, sizePt float64) float64 {
	return float64(textmetrics.StringWidth(text)) * sizePt * 25.4 / 72 / 2
}

func (cellMetrics) HasGlyph(rune) bool { return true }

// latinMetrics draws only ASCII, like a Latin-only font
type latinMetrics struct{ cellMetrics }

func (latinMetrics) HasGlyph(r rune) bool { return r < 0x80 }

func newTestEngine() *Engine {
	return NewEngine(map[fonts.Role]Metrics{
		fonts.RoleBody:    cellMetrics{},
		fonts.RoleHeading: cellMetrics{},
	})
}

func sampleItem() *models.Item {
	return &models.Item{
		Car:         "品川 300 あ 12-34",
		Name:        "山田太郎",
		Purpose:     "顧客打合せ",
		StartDate:   "2024-12-25",
		EndDate:     "2024-12-26",
		Price:       14000,
		TaxRate:     models.Float64Ptr(0.1),
		Description: "新幹線往復",
		Office:      "営業部",
		PayDay:      "2025/01/10",
		Ryohi: []models.Ryohi{
			{
				Date:    models.StringPtr("2024-12-25"),
				Detail:  []string{"新幹線のぞみ", "指定席"},
				Kukan:   models.StringPtr("東京駅　新大阪駅"),
				Price:   models.Int64Ptr(5000),
				Remarks: "往路",
			},
		},
	}
}

func layoutItem(t *testing.T, e *Engine, item *models.Item) []Page {
	t.Helper()
	pages, err := e.Layout(item, textmetrics.PrepareForPrint(item.Ryohi))
	require.NoError(t, err)
	return pages
}

func texts(p Page) []Primitive {
	var out []Primitive
	for _, op := range p.Ops {
		if op.Kind == OpText {
			out = append(out, op)
		}
	}
	return out
}

func findText(p Page, s string) (Primitive, bool) {
	for _, op := range texts(p) {
		if op.Text == s {
			return op, true
		}
	}
	return Primitive{}, false
}

func TestEngineLayout(t *testing.T) {
	e := newTestEngine()

	t.Run("single page carries every block", func(t *testing.T) {
		pages := layoutItem(t, e, sampleItem())
		require.Len(t, pages, 1)
		p := pages[0]
		assert.Equal(t, 1, p.Number)
		assert.Equal(t, 1, p.Total)

		require.GreaterOrEqual(t, len(p.Ops), 2)
		assert.Equal(t, OpLineWidth, p.Ops[0].Kind)
		assert.Equal(t, OpRect, p.Ops[1].Kind)

		title, ok := findText(p, Title)
		require.True(t, ok)
		assert.Equal(t, fonts.RoleHeading, title.Role)

		for _, s := range []string{"社　長", "山田太郎", "2025年01月10日", "12/25～12/26", "12/25", "5,000", "往路", "新幹線往復", "14,000円", "内消費税 1,272円", "1 / 1 頁"} {
			_, ok := findText(p, s)
			assert.True(t, ok, "missing %q", s)
		}
		_, ok = findText(p, continuedLabel)
		assert.False(t, ok)
	})

	t.Run("identical input yields identical primitives", func(t *testing.T) {
		a := layoutItem(t, e, sampleItem())
		b := layoutItem(t, e, sampleItem())
		if diff := cmp.Diff(a, b); diff != "" {
			t.Errorf("layout not deterministic (-first +second):\n%s", diff)
		}
	})

	t.Run("all text stays inside the frame", func(t *testing.T) {
		for _, op := range texts(layoutItem(t, e, sampleItem())[0]) {
			w := cellMetrics{}.TextWidth(op.Text, op.Size)
			assert.GreaterOrEqual(t, op.X1, MarginLeft, op.Text)
			assert.LessOrEqual(t, op.X1+w, MarginRight, op.Text)
			assert.GreaterOrEqual(t, op.Y1, MarginBottom, op.Text)
			assert.LessOrEqual(t, op.Y1, MarginTop, op.Text)
		}
	})

	t.Run("amount is right aligned in its column", func(t *testing.T) {
		op, ok := findText(layoutItem(t, e, sampleItem())[0], "5,000")
		require.True(t, ok)
		cell := CellRect(0, ColAmount)
		w := cellMetrics{}.TextWidth(op.Text, op.Size)
		assert.InDelta(t, cell.Right()-cellPadding, op.X1+w, 1e-9)
	})

	t.Run("tax line is omitted without a rate", func(t *testing.T) {
		item := sampleItem()
		item.TaxRate = nil
		for _, op := range texts(layoutItem(t, e, item)[0]) {
			assert.False(t, strings.HasPrefix(op.Text, "内消費税"))
		}
	})

	t.Run("long values shrink to fit", func(t *testing.T) {
		item := sampleItem()
		item.Name = strings.Repeat("長", 20)
		op, ok := findText(layoutItem(t, e, item)[0], item.Name)
		require.True(t, ok)
		assert.Equal(t, 6.0, op.Size)
	})

	t.Run("rows beyond one page continue on the next", func(t *testing.T) {
		item := sampleItem()
		item.Ryohi = nil
		for i := 0; i < 10; i++ {
			item.Ryohi = append(item.Ryohi, models.Ryohi{
				Date:   models.StringPtr("2024-12-25"),
				Detail: []string{"バス"},
				Price:  models.Int64Ptr(100),
			})
		}
		pages := layoutItem(t, e, item)
		require.Len(t, pages, 2)

		for _, p := range pages {
			_, ok := findText(p, Title)
			assert.True(t, ok)
			assert.Equal(t, 2, p.Total)
		}

		_, ok := findText(pages[0], continuedLabel)
		assert.True(t, ok)
		_, ok = findText(pages[0], "14,000円")
		assert.False(t, ok)
		_, ok = findText(pages[0], "700")
		assert.True(t, ok, "first page subtotal")

		_, ok = findText(pages[1], "14,000円")
		assert.True(t, ok)
		_, ok = findText(pages[1], "300")
		assert.True(t, ok, "second page subtotal")
	})

	t.Run("item without entries yields one page", func(t *testing.T) {
		item := sampleItem()
		item.Ryohi = nil
		pages := layoutItem(t, e, item)
		require.Len(t, pages, 1)
		_, ok := findText(pages[0], "小　計")
		assert.True(t, ok)
	})
}

func TestEngineLayoutErrors(t *testing.T) {
	t.Run("missing metrics", func(t *testing.T) {
		e := NewEngine(map[fonts.Role]Metrics{fonts.RoleBody: cellMetrics{}})
		_, err := e.Layout(sampleItem(), nil)
		assert.ErrorIs(t, err, ErrMissingMetrics)
	})

	t.Run("value too long even at minimum size", func(t *testing.T) {
		item := sampleItem()
		item.Purpose = strings.Repeat("長", 40)
		_, err := newTestEngine().Layout(item, textmetrics.PrepareForPrint(item.Ryohi))
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrCellOverflow)
		assert.Contains(t, err.Error(), "出張目的")
	})

	t.Run("body font lacks a glyph of item text", func(t *testing.T) {
		e := NewEngine(map[fonts.Role]Metrics{
			fonts.RoleBody:    latinMetrics{},
			fonts.RoleHeading: cellMetrics{},
		})
		item := sampleItem()
		item.Car, item.Name, item.Purpose, item.Description, item.Office = "C-1", "Yamada", "visit", "", "Sales"
		item.Ryohi[0].Detail = []string{"Nozomi"}
		item.Ryohi[0].Remarks = ""

		_, err := e.Layout(item, textmetrics.PrepareForPrint(item.Ryohi))
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrMissingGlyph)
		assert.Contains(t, err.Error(), "U+6771")
		assert.Contains(t, err.Error(), "row 1 区間")
	})

	t.Run("whitespace is not checked for glyphs", func(t *testing.T) {
		e := NewEngine(map[fonts.Role]Metrics{
			fonts.RoleBody:    latinMetrics{},
			fonts.RoleHeading: cellMetrics{},
		})
		item := &models.Item{Name: "Yamada\u3000Taro", Price: 100}
		_, err := e.Layout(item, nil)
		assert.NoError(t, err)
	})

	t.Run("remarks exceed the summary box", func(t *testing.T) {
		item := sampleItem()
		item.Description = strings.Repeat("備考", 120)
		_, err := newTestEngine().Layout(item, textmetrics.PrepareForPrint(item.Ryohi))
		assert.ErrorIs(t, err, ErrCellOverflow)
	})
}
