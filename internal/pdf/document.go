package pdf

import (
	"bytes"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/garyjia/travel-expense-print/internal/fonts"
	"github.com/garyjia/travel-expense-print/internal/layout"
)

const creator = "travel-expense-print"

// document serializes layout pages with fpdf. Layout coordinates have their
// origin at the lower-left corner, fpdf's at the upper-left.
type document struct {
	pdf *fpdf.Fpdf

	family string
	size   float64
}

func newDocument(handles map[fonts.Role]*fonts.Handle, author string, created time.Time) (*document, error) {
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: layout.PageWidth, Ht: layout.PageHeight},
	})
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetMargins(0, 0, 0)
	pdf.SetTitle(layout.Title, true)
	pdf.SetCreator(creator, true)
	if author != "" {
		pdf.SetAuthor(author, true)
	}
	pdf.SetCreationDate(created)
	pdf.SetCatalogSort(true)

	for _, role := range fonts.Roles {
		h, ok := handles[role]
		if !ok {
			return nil, fmt.Errorf("no font for role %s", role)
		}
		pdf.AddUTF8FontFromBytes(string(role), "", h.Bytes())
		if pdf.Err() {
			return nil, fmt.Errorf("embed font %s: %w", h.Path(), pdf.Error())
		}
	}

	return &document{pdf: pdf}, nil
}

func (d *document) render(pages []layout.Page) error {
	for _, page := range pages {
		d.pdf.AddPage()
		for _, op := range page.Ops {
			d.draw(op)
		}
		if d.pdf.Err() {
			return fmt.Errorf("page %d/%d: %w", page.Number, page.Total, d.pdf.Error())
		}
	}
	return nil
}

func (d *document) draw(op layout.Primitive) {
	switch op.Kind {
	case layout.OpLineWidth:
		d.pdf.SetLineWidth(op.Width)
	case layout.OpLine:
		d.pdf.Line(op.X1, flip(op.Y1), op.X2, flip(op.Y2))
	case layout.OpRect:
		d.pdf.Rect(op.X1, flip(op.Y2), op.X2-op.X1, op.Y2-op.Y1, "D")
	case layout.OpText:
		family := string(op.Role)
		if family != d.family || op.Size != d.size {
			d.pdf.SetFont(family, "", op.Size)
			d.family, d.size = family, op.Size
		}
		d.pdf.Text(op.X1, flip(op.Y1), op.Text)
	}
}

// bytes closes the document and returns the serialized file
func (d *document) bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := d.pdf.Output(&buf); err != nil {
		return nil, err
	}
	if buf.Len() == 0 {
		return nil, ErrEmptyOutput
	}
	return buf.Bytes(), nil
}

func flip(y float64) float64 {
	return layout.PageHeight - y
}
