package pdf

import (
	"context"

	"github.com/garyjia/travel-expense-print/internal/fonts"
	"github.com/garyjia/travel-expense-print/internal/models"
)

// DocumentGenerator is the entry point for rendering settlement forms
type DocumentGenerator interface {
	// Generate renders items into one PDF and returns its absolute path
	Generate(ctx context.Context, items []models.Item) (string, error)

	// GenerateAndPrint renders items and dispatches the file to printerName
	// (the OS default when empty). A print failure does not discard the file.
	GenerateAndPrint(ctx context.Context, items []models.Item, printerName string) (*Result, error)
}

// FontResolver supplies the font of a role
type FontResolver interface {
	Resolve(role fonts.Role) (*fonts.Handle, error)
}

// PrinterInterface dispatches a written file to a printer
type PrinterInterface interface {
	Print(ctx context.Context, filePath, printerName string) error
	DefaultPrinter(ctx context.Context) string
}

// Result describes one generated (and possibly printed) document
type Result struct {
	Path        string `json:"pdf_path"`
	Size        int64  `json:"file_size"`
	Pages       int    `json:"page_count"`
	Printed     bool   `json:"printed"`
	PrinterName string `json:"printer_name,omitempty"`
	PrintError  string `json:"print_error,omitempty"`

	PrintErr error `json:"-"`
}
