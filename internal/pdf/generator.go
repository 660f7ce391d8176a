// Package pdf renders settlement items into a single PDF file and optionally
// hands the file to a printer.
package pdf

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/garyjia/travel-expense-print/internal/fonts"
	"github.com/garyjia/travel-expense-print/internal/layout"
	"github.com/garyjia/travel-expense-print/internal/models"
	"github.com/garyjia/travel-expense-print/internal/storage"
	"github.com/garyjia/travel-expense-print/internal/textmetrics"
)

// Config holds generator configuration
type Config struct {
	OutputDir string // directory for generated names; os.TempDir() when empty
	Author    string // PDF metadata
}

// Generator implements DocumentGenerator
type Generator struct {
	resolver  FontResolver
	storage   storage.FileStorage
	printer   PrinterInterface
	outputDir string
	author    string
	now       func() time.Time
	logger    *zap.Logger
}

var _ DocumentGenerator = (*Generator)(nil)

// NewGenerator creates a generator. printer may be nil, in which case
// GenerateAndPrint reports every print as failed.
func NewGenerator(resolver FontResolver, store storage.FileStorage, printer PrinterInterface, cfg Config, logger *zap.Logger) *Generator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{
		resolver:  resolver,
		storage:   store,
		printer:   printer,
		outputDir: cfg.OutputDir,
		author:    cfg.Author,
		now:       time.Now,
		logger:    logger,
	}
}

// Generate renders items to a generated path
func (g *Generator) Generate(ctx context.Context, items []models.Item) (string, error) {
	res, err := g.GenerateTo(ctx, items, "")
	if err != nil {
		return "", err
	}
	return res.Path, nil
}

// GenerateAndPrint renders items and prints the result
func (g *Generator) GenerateAndPrint(ctx context.Context, items []models.Item, printerName string) (*Result, error) {
	res, err := g.GenerateTo(ctx, items, "")
	if err != nil {
		return nil, err
	}
	g.PrintResult(ctx, res, printerName)
	return res, nil
}

// GenerateTo renders items to outputPath, or to a generated path when empty.
// Either the complete file is written or nothing is.
func (g *Generator) GenerateTo(ctx context.Context, items []models.Item, outputPath string) (*Result, error) {
	if len(items) == 0 {
		return nil, models.NewGenerationError("nothing to generate", ErrNoItems)
	}
	if err := ctx.Err(); err != nil {
		return nil, models.NewGenerationError("generation cancelled", err)
	}

	start := time.Now()
	g.logger.Info("Generating settlement PDF", zap.Int("items", len(items)))

	handles, err := g.resolveFonts()
	if err != nil {
		g.logger.Error("Font resolution failed", zap.Error(err))
		return nil, models.NewGenerationError("font resolution failed", err)
	}

	metrics := make(map[fonts.Role]layout.Metrics, len(handles))
	for role, h := range handles {
		metrics[role] = h
	}
	engine := layout.NewEngine(metrics)

	var pages []layout.Page
	for i := range items {
		if err := ctx.Err(); err != nil {
			return nil, models.NewGenerationError("generation cancelled", err)
		}
		item := &items[i]
		rows := textmetrics.PrepareForPrint(item.Ryohi)
		itemPages, err := engine.Layout(item, rows)
		if err != nil {
			g.logger.Error("Layout failed",
				zap.Int("item", i+1),
				zap.String("name", item.Name),
				zap.Error(err))
			return nil, models.NewGenerationError(fmt.Sprintf("layout of item %d (%s) failed", i+1, item.Name), err)
		}
		g.logger.Debug("Item laid out",
			zap.Int("item", i+1),
			zap.Int("rows", len(rows)),
			zap.Int("pages", len(itemPages)))
		pages = append(pages, itemPages...)
	}

	doc, err := newDocument(handles, g.author, g.now())
	if err != nil {
		return nil, models.NewGenerationError("failed to set up document", err)
	}
	if err := doc.render(pages); err != nil {
		return nil, models.NewGenerationError("failed to render pages", err)
	}
	content, err := doc.bytes()
	if err != nil {
		return nil, models.NewGenerationError("failed to serialize document", err)
	}

	path, err := g.outputPath(outputPath)
	if err != nil {
		return nil, models.NewFileIOError("invalid output path", err)
	}
	size, err := g.storage.SaveFileAtomic(path, storage.FileTypePDF, func(w io.Writer) error {
		_, err := w.Write(content)
		return err
	})
	if err != nil {
		return nil, models.NewFileIOError(fmt.Sprintf("failed to write %s", path), err)
	}

	g.logger.Info("Settlement PDF generated",
		zap.String("path", path),
		zap.Int64("size", size),
		zap.Int("pages", len(pages)),
		zap.Duration("elapsed", time.Since(start)))

	return &Result{Path: path, Size: size, Pages: len(pages)}, nil
}

// PrintResult dispatches a generated file and records the outcome on res.
// Failures are recorded, never returned: the file stays valid either way.
func (g *Generator) PrintResult(ctx context.Context, res *Result, printerName string) {
	if g.printer == nil {
		res.PrintErr = models.NewPrintError("printing unavailable", ErrNoPrinter)
		res.PrintError = res.PrintErr.Error()
		return
	}

	resolved := printerName
	if resolved == "" {
		resolved = g.printer.DefaultPrinter(ctx)
	}
	res.PrinterName = resolved

	if err := g.printer.Print(ctx, res.Path, printerName); err != nil {
		var kindErr *models.Error
		if !errors.As(err, &kindErr) {
			err = models.NewPrintError("print dispatch failed", err)
		}
		g.logger.Warn("Print failed; keeping generated file",
			zap.String("path", res.Path),
			zap.String("printer", resolved),
			zap.Error(err))
		res.PrintErr = err
		res.PrintError = err.Error()
		return
	}

	res.Printed = true
	g.logger.Info("Document sent to printer",
		zap.String("path", res.Path),
		zap.String("printer", resolved))
}

func (g *Generator) resolveFonts() (map[fonts.Role]*fonts.Handle, error) {
	handles := make(map[fonts.Role]*fonts.Handle, len(fonts.Roles))
	for _, role := range fonts.Roles {
		h, err := g.resolver.Resolve(role)
		if err != nil {
			return nil, err
		}
		handles[role] = h
	}
	return handles, nil
}

func (g *Generator) outputPath(requested string) (string, error) {
	path := requested
	if path == "" {
		dir := g.outputDir
		if dir == "" {
			dir = os.TempDir()
		}
		path = filepath.Join(dir, fmt.Sprintf("travel_expense_%s.pdf", uuid.NewString()))
	}
	return filepath.Abs(path)
}
