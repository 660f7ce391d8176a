package container

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/garyjia/travel-expense-print/internal/config"
	"github.com/garyjia/travel-expense-print/internal/fonts"
	"github.com/garyjia/travel-expense-print/internal/ledger"
	"github.com/garyjia/travel-expense-print/internal/pdf"
	"github.com/garyjia/travel-expense-print/internal/printer"
	"github.com/garyjia/travel-expense-print/internal/repository"
	"github.com/garyjia/travel-expense-print/internal/service"
	"github.com/garyjia/travel-expense-print/internal/storage"
	"github.com/garyjia/travel-expense-print/pkg/database"
)

// StorageBundle holds the storages for each output kind.
type StorageBundle struct {
	PDF    storage.FileStorage
	Ledger storage.FileStorage
}

// ProvideDatabase opens the job-history database and applies pending migrations.
func ProvideDatabase(cfg *config.DatabaseConfig, logger *zap.Logger) (*database.DB, error) {
	if cfg == nil {
		return nil, fmt.Errorf("database config is required")
	}

	db, err := database.New(database.Config{
		Path:            cfg.Path,
		MaxOpenConns:    cfg.MaxOpenConns,
		MaxIdleConns:    cfg.MaxIdleConns,
		ConnMaxLifetime: cfg.ConnMaxLifetime,
	}, logger)
	if err != nil {
		return nil, err
	}

	if err := database.NewMigrator(db, logger).RunMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return db, nil
}

// ProvideFonts creates the font resolver from the configured chains and cache policy.
func ProvideFonts(cfg *config.PDFConfig, logger *zap.Logger) *fonts.Resolver {
	return fonts.NewResolver(cfg.FontChains(), logger,
		fonts.WithCachePolicy(fonts.CachePolicy(cfg.FontCache)))
}

// ProvideStorage creates the PDF and ledger storages.
// With confine set, each is rooted at its configured directory.
func ProvideStorage(cfg *config.Config, confine bool, logger *zap.Logger) *StorageBundle {
	pdfBase, ledgerBase := "", ""
	if confine {
		pdfBase = cfg.PDF.OutputDir
		ledgerBase = cfg.Ledger.Dir
		if ledgerBase == "" {
			ledgerBase = pdfBase
		}
	}
	return &StorageBundle{
		PDF:    storage.NewLocalFileStorage(pdfBase, logger),
		Ledger: storage.NewLocalFileStorage(ledgerBase, logger),
	}
}

// ProvidePrinter creates the print dispatcher for the current platform.
func ProvidePrinter(cfg *config.PrinterConfig, logger *zap.Logger) *printer.Dispatcher {
	return printer.NewDispatcher(printer.Config{
		ExecutablePath: cfg.ExecutablePath,
		Style:          printer.Style(cfg.Style),
		Silent:         cfg.Headless,
	}, logger)
}

// ServiceDeps holds dependencies required for creating the service.
type ServiceDeps struct {
	Config    *config.Config
	Generator *pdf.Generator
	Jobs      *repository.JobRepository
	Storage   *StorageBundle
	Printer   *printer.Dispatcher
	Logger    *zap.Logger
}

// ProvideService creates the print service. Optional collaborators are only
// set when configured so the service sees a nil interface otherwise.
func ProvideService(deps *ServiceDeps) *service.Service {
	sd := service.Deps{
		Generator: deps.Generator,
		Printers:  deps.Printer,
	}
	if deps.Jobs != nil {
		sd.Jobs = deps.Jobs
	}
	if deps.Config.Ledger.Enabled {
		sd.Ledger = ledger.NewExporter(deps.Storage.Ledger, deps.Logger)
	}
	if deps.Config.PDF.Verify {
		sd.Inspect = pdf.Inspect
	}

	return service.New(sd, service.Config{
		DefaultPrinter: deps.Config.Printer.Name,
		LedgerDir:      deps.Config.Ledger.Dir,
	}, deps.Logger)
}
