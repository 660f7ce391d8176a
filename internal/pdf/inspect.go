package pdf

import (
	"fmt"
	"image/png"
	"io"
	"os"

	"github.com/gen2brain/go-fitz"

	"github.com/garyjia/travel-expense-print/internal/models"
)

// Info describes a PDF file on disk
type Info struct {
	Path  string `json:"path"`
	Size  int64  `json:"size"`
	Pages int    `json:"pages"`
}

// Inspect opens a written PDF with mupdf and reports its page count
func Inspect(path string) (*Info, error) {
	stat, err := os.Stat(path)
	if err != nil {
		return nil, models.NewFileIOError("PDF file not found", err)
	}

	doc, err := fitz.New(path)
	if err != nil {
		return nil, models.NewFileIOError(fmt.Sprintf("failed to open %s", path), err)
	}
	defer doc.Close()

	return &Info{Path: path, Size: stat.Size(), Pages: doc.NumPage()}, nil
}

// RenderPreview rasterizes one zero-based page of a PDF as PNG
func RenderPreview(path string, page int, w io.Writer) error {
	doc, err := fitz.New(path)
	if err != nil {
		return models.NewFileIOError(fmt.Sprintf("failed to open %s", path), err)
	}
	defer doc.Close()

	if page < 0 || page >= doc.NumPage() {
		return models.NewFileIOError(fmt.Sprintf("page %d out of range (document has %d)", page+1, doc.NumPage()), nil)
	}

	img, err := doc.Image(page)
	if err != nil {
		return models.NewFileIOError(fmt.Sprintf("failed to render page %d", page+1), err)
	}
	if err := png.Encode(w, img); err != nil {
		return models.NewFileIOError("failed to encode preview", err)
	}
	return nil
}
