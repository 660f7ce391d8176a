package service

import (
	"context"
	"database/sql"

	"github.com/garyjia/travel-expense-print/internal/models"
	"github.com/garyjia/travel-expense-print/internal/pdf"
)

// GeneratorInterface renders and prints documents
type GeneratorInterface interface {
	GenerateTo(ctx context.Context, items []models.Item, outputPath string) (*pdf.Result, error)
	PrintResult(ctx context.Context, res *pdf.Result, printerName string)
}

// JobStoreInterface persists the job history
type JobStoreInterface interface {
	Create(tx *sql.Tx, job *models.PrintJob) error
	List(limit int) ([]*models.PrintJob, error)
	GetByJobID(jobID string) (*models.PrintJob, error)
}

// LedgerExporterInterface writes the optional xlsx ledger
type LedgerExporterInterface interface {
	Export(items []models.Item, outputPath string) (int64, error)
}

// PrinterQueryInterface answers questions about installed printers
type PrinterQueryInterface interface {
	ListPrinters(ctx context.Context) []string
	DefaultPrinter(ctx context.Context) string
	FindPrinter(ctx context.Context, query string) (string, bool)
}

// InspectFunc reads back a written PDF
type InspectFunc func(path string) (*pdf.Info, error)
