// Package container wires the application's components from configuration
// and manages their lifecycle.
package container

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/garyjia/travel-expense-print/internal/config"
	"github.com/garyjia/travel-expense-print/internal/fonts"
	"github.com/garyjia/travel-expense-print/internal/models"
	"github.com/garyjia/travel-expense-print/internal/pdf"
	"github.com/garyjia/travel-expense-print/internal/printer"
	"github.com/garyjia/travel-expense-print/internal/repository"
	"github.com/garyjia/travel-expense-print/internal/service"
	"github.com/garyjia/travel-expense-print/pkg/database"
)

// Options selects which optional components Start initializes
type Options struct {
	History       bool // open the job-history database
	ConfineOutput bool // reject output paths outside pdf.output_dir
}

// Container manages all application dependencies and lifecycle.
// Components are initialized in dependency order and torn down in reverse.
type Container struct {
	config *config.Config
	opts   Options
	logger *zap.Logger

	db        *database.DB
	jobs      *repository.JobRepository
	fonts     *fonts.Resolver
	storage   *StorageBundle
	printer   *printer.Dispatcher
	generator *pdf.Generator
	service   *service.Service

	mu     sync.Mutex
	ready  atomic.Bool
	closed atomic.Bool
}

// HealthStatus represents the health of all components.
type HealthStatus struct {
	Overall    bool                       `json:"overall"`
	Components map[string]ComponentHealth `json:"components"`
}

// ComponentHealth represents health of a single component.
type ComponentHealth struct {
	Healthy bool   `json:"healthy"`
	Message string `json:"message,omitempty"`
}

// NewContainer creates a new container from configuration.
// It does not initialize components - call Start() to initialize.
func NewContainer(cfg *config.Config, opts Options, logger *zap.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Container{
		config: cfg,
		opts:   opts,
		logger: logger,
	}, nil
}

// Start initializes all components:
// 1. Database and job repository (when History is set)
// 2. Fonts and storage
// 3. Printer dispatcher
// 4. Generator and service
func (c *Container) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed.Load() {
		return fmt.Errorf("container has been closed")
	}
	if c.ready.Load() {
		return fmt.Errorf("container already started")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	c.logger.Info("Starting container initialization")

	if c.opts.History {
		db, err := ProvideDatabase(&c.config.Database, c.logger)
		if err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		c.db = db
		c.jobs = repository.NewJobRepository(db.DB, c.logger)
		c.logger.Info("Database initialized")
	}

	c.fonts = ProvideFonts(&c.config.PDF, c.logger)
	c.storage = ProvideStorage(c.config, c.opts.ConfineOutput, c.logger)
	c.printer = ProvidePrinter(&c.config.Printer, c.logger)

	c.generator = pdf.NewGenerator(c.fonts, c.storage.PDF, c.printer, pdf.Config{
		OutputDir: c.config.PDF.OutputDir,
		Author:    c.config.PDF.Author,
	}, c.logger)

	c.service = ProvideService(&ServiceDeps{
		Config:    c.config,
		Generator: c.generator,
		Jobs:      c.jobs,
		Storage:   c.storage,
		Printer:   c.printer,
		Logger:    c.logger,
	})

	c.ready.Store(true)
	c.logger.Info("Container started successfully",
		zap.Bool("history", c.opts.History),
		zap.Bool("ledger", c.config.Ledger.Enabled))
	return nil
}

// Close releases all components in reverse order.
func (c *Container) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed.Load() {
		return fmt.Errorf("container already closed")
	}

	c.logger.Info("Closing container")

	var err error
	if c.db != nil {
		if err = c.db.Close(); err != nil {
			c.logger.Error("Failed to close database", zap.Error(err))
		} else {
			c.logger.Info("Database closed")
		}
	}

	c.closed.Store(true)
	c.ready.Store(false)
	return err
}

// Ready returns true when all components are initialized.
func (c *Container) Ready() bool {
	return c.ready.Load()
}

// Service returns the print service
func (c *Container) Service() *service.Service {
	return c.service
}

// Generator returns the document generator
func (c *Container) Generator() *pdf.Generator {
	return c.generator
}

// Printer returns the print dispatcher
func (c *Container) Printer() *printer.Dispatcher {
	return c.printer
}

// Health returns health status of all components.
// A missing print executable is reported but does not fail Overall,
// since documents can still be generated.
func (c *Container) Health() *HealthStatus {
	status := &HealthStatus{
		Overall:    c.ready.Load(),
		Components: make(map[string]ComponentHealth),
	}

	if c.opts.History {
		switch {
		case c.db == nil:
			status.Components["database"] = ComponentHealth{Message: "not initialized"}
			status.Overall = false
		case c.db.Ping() != nil:
			status.Components["database"] = ComponentHealth{Message: "ping failed"}
			status.Overall = false
		default:
			h := c.historyHealth()
			status.Components["database"] = h
			status.Overall = status.Overall && h.Healthy
		}
	}

	if c.fonts == nil {
		status.Components["fonts"] = ComponentHealth{Message: "not initialized"}
		status.Overall = false
	} else if handles, err := c.fonts.ResolveAll(); err != nil {
		status.Components["fonts"] = ComponentHealth{Message: err.Error()}
		status.Overall = false
	} else {
		status.Components["fonts"] = ComponentHealth{Healthy: true, Message: fontDetail(c.fonts, handles)}
	}

	if c.printer == nil {
		status.Components["printer"] = ComponentHealth{Message: "not initialized"}
	} else if path, err := c.printer.Find(); err != nil {
		status.Components["printer"] = ComponentHealth{Message: err.Error()}
	} else {
		status.Components["printer"] = ComponentHealth{Healthy: true, Message: path}
	}

	return status
}

// historyHealth reports the job counts per status
func (c *Container) historyHealth() ComponentHealth {
	counts, err := c.jobs.CountByStatus()
	if err != nil {
		return ComponentHealth{Message: fmt.Sprintf("count jobs: %v", err)}
	}
	statuses := make([]string, 0, len(counts))
	for st := range counts {
		statuses = append(statuses, string(st))
	}
	if len(statuses) == 0 {
		return ComponentHealth{Healthy: true, Message: "jobs: none"}
	}
	sort.Strings(statuses)
	parts := make([]string, len(statuses))
	for i, st := range statuses {
		parts[i] = fmt.Sprintf("%s=%d", st, counts[models.JobStatus(st)])
	}
	return ComponentHealth{Healthy: true, Message: "jobs: " + strings.Join(parts, " ")}
}

// fontDetail names the font each role resolved to and its place in the
// role's candidate chain
func fontDetail(r *fonts.Resolver, handles map[fonts.Role]*fonts.Handle) string {
	parts := make([]string, 0, len(fonts.Roles))
	for _, role := range fonts.Roles {
		h := handles[role]
		candidates := r.Candidates(role)
		pos := 0
		for i, path := range candidates {
			if path == h.Path() {
				pos = i + 1
				break
			}
		}
		parts = append(parts, fmt.Sprintf("%s: %s (candidate %d of %d)", role, h.Path(), pos, len(candidates)))
	}
	return strings.Join(parts, "; ")
}
