// Package service runs one print request end to end: generate, verify,
// export the ledger, print, and record the job.
package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/garyjia/travel-expense-print/internal/ledger"
	"github.com/garyjia/travel-expense-print/internal/models"
	"github.com/garyjia/travel-expense-print/internal/pdf"
)

// Deps are the collaborators of a Service; all but Generator are optional
type Deps struct {
	Generator GeneratorInterface
	Jobs      JobStoreInterface
	Ledger    LedgerExporterInterface
	Printers  PrinterQueryInterface
	Inspect   InspectFunc
}

// Config holds service configuration
type Config struct {
	DefaultPrinter string // used when a request names no printer
	LedgerDir      string // empty = next to the PDF
}

// Response is the outcome of one request
type Response struct {
	JobID string `json:"job_id"`
	pdf.Result
	LedgerPath string `json:"ledger_path,omitempty"`
}

// PrinterList describes installed printers
type PrinterList struct {
	Printers []string `json:"printers"`
	Default  string   `json:"default,omitempty"`
}

// Service orchestrates print requests
type Service struct {
	deps   Deps
	cfg    Config
	logger *zap.Logger
}

// New creates a new Service
func New(deps Deps, cfg Config, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{deps: deps, cfg: cfg, logger: logger}
}

// Process generates the request's document and, if asked, prints it.
// Only generation failures are returned as errors; verification, ledger,
// print and history failures are logged and reflected in the response.
func (s *Service) Process(ctx context.Context, req models.PrintRequest) (*Response, error) {
	jobID := uuid.NewString()
	log := s.logger.With(zap.String("job_id", jobID))
	log.Info("Processing print request",
		zap.Int("items", len(req.Items)),
		zap.Bool("print", req.Print))

	res, err := s.deps.Generator.GenerateTo(ctx, req.Items, req.OutputPath)
	if err != nil {
		log.Error("Generation failed", zap.Error(err))
		s.record(log, failedJob(jobID, len(req.Items), err))
		return nil, err
	}

	resp := &Response{JobID: jobID, Result: *res}
	s.verify(log, &resp.Result)

	if s.deps.Ledger != nil {
		path := ledger.PathFor(resp.Path, s.cfg.LedgerDir)
		if _, err := s.deps.Ledger.Export(req.Items, path); err != nil {
			log.Warn("Ledger export failed", zap.String("path", path), zap.Error(err))
		} else {
			resp.LedgerPath = path
		}
	}

	if req.Print {
		name := req.PrinterName
		if name == "" {
			name = s.cfg.DefaultPrinter
		}
		s.deps.Generator.PrintResult(ctx, &resp.Result, name)
	}

	s.record(log, &models.PrintJob{
		JobID:        jobID,
		Status:       statusOf(req.Print, &resp.Result),
		ItemCount:    len(req.Items),
		PageCount:    resp.Pages,
		PDFPath:      resp.Path,
		FileSize:     resp.Size,
		PrinterName:  resp.PrinterName,
		LedgerPath:   resp.LedgerPath,
		ErrorKind:    errorKind(resp.PrintErr),
		ErrorMessage: resp.PrintError,
	})

	log.Info("Print request completed",
		zap.String("path", resp.Path),
		zap.Bool("printed", resp.Printed))
	return resp, nil
}

// Printers lists installed printers and the OS default
func (s *Service) Printers(ctx context.Context) PrinterList {
	if s.deps.Printers == nil {
		return PrinterList{Printers: []string{}}
	}
	return PrinterList{
		Printers: s.deps.Printers.ListPrinters(ctx),
		Default:  s.deps.Printers.DefaultPrinter(ctx),
	}
}

// FindPrinter resolves a partial printer name
func (s *Service) FindPrinter(ctx context.Context, query string) (string, bool) {
	if s.deps.Printers == nil {
		return "", false
	}
	return s.deps.Printers.FindPrinter(ctx, query)
}

// Jobs returns recent job history, newest first
func (s *Service) Jobs(limit int) ([]*models.PrintJob, error) {
	if s.deps.Jobs == nil {
		return []*models.PrintJob{}, nil
	}
	return s.deps.Jobs.List(limit)
}

// Job returns one recorded job; (nil, nil) when unknown or history is off
func (s *Service) Job(jobID string) (*models.PrintJob, error) {
	if s.deps.Jobs == nil {
		return nil, nil
	}
	return s.deps.Jobs.GetByJobID(jobID)
}

func (s *Service) verify(log *zap.Logger, res *pdf.Result) {
	if s.deps.Inspect == nil {
		return
	}
	info, err := s.deps.Inspect(res.Path)
	if err != nil {
		log.Warn("Could not verify generated PDF", zap.String("path", res.Path), zap.Error(err))
		return
	}
	if info.Pages != res.Pages {
		log.Warn("Page count mismatch",
			zap.Int("expected", res.Pages),
			zap.Int("actual", info.Pages))
	}
}

func (s *Service) record(log *zap.Logger, job *models.PrintJob) {
	if s.deps.Jobs == nil {
		return
	}
	if err := s.deps.Jobs.Create(nil, job); err != nil {
		log.Warn("Failed to record job", zap.Error(err))
	}
}

func failedJob(jobID string, items int, err error) *models.PrintJob {
	return &models.PrintJob{
		JobID:        jobID,
		Status:       models.JobFailed,
		ItemCount:    items,
		ErrorKind:    errorKind(err),
		ErrorMessage: err.Error(),
	}
}

func statusOf(printRequested bool, res *pdf.Result) models.JobStatus {
	switch {
	case !printRequested:
		return models.JobGenerated
	case res.Printed:
		return models.JobPrinted
	default:
		return models.JobPrintFailed
	}
}

func errorKind(err error) string {
	var e *models.Error
	if errors.As(err, &e) {
		return string(e.Kind)
	}
	return ""
}
