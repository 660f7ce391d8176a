package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/garyjia/travel-expense-print/internal/container"
	"github.com/garyjia/travel-expense-print/internal/models"
	"github.com/garyjia/travel-expense-print/internal/pdf"
	"github.com/garyjia/travel-expense-print/internal/service"
	"github.com/garyjia/travel-expense-print/internal/storage"
	"github.com/garyjia/travel-expense-print/pkg/utils"
)

// PrintService is the application surface the handlers call
type PrintService interface {
	Process(ctx context.Context, req models.PrintRequest) (*service.Response, error)
	Printers(ctx context.Context) service.PrinterList
	FindPrinter(ctx context.Context, query string) (string, bool)
	Jobs(limit int) ([]*models.PrintJob, error)
	Job(jobID string) (*models.PrintJob, error)
}

// HealthReporter reports component health
type HealthReporter interface {
	Ready() bool
	Health() *container.HealthStatus
}

// Handlers contains all HTTP request handlers
type Handlers struct {
	service PrintService
	health  HealthReporter
	logger  *zap.Logger
}

// NewHandlers creates a new Handlers instance
func NewHandlers(svc PrintService, health HealthReporter, logger *zap.Logger) *Handlers {
	return &Handlers{
		service: svc,
		health:  health,
		logger:  logger,
	}
}

// Response represents a standard JSON response
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Kind    string      `json:"kind,omitempty"`
}

// ListJobsRequest represents query parameters for listing jobs
type ListJobsRequest struct {
	Limit int `form:"limit"`
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(c *gin.Context) {
	if h.health == nil {
		c.JSON(http.StatusOK, Response{Success: true, Data: gin.H{"status": "healthy"}})
		return
	}

	if !h.health.Ready() {
		c.JSON(http.StatusServiceUnavailable, Response{Success: false, Error: "service is not ready"})
		return
	}

	status := h.health.Health()
	code := http.StatusOK
	if !status.Overall {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, Response{Success: status.Overall, Data: status})
}

// GeneratePDF handles POST /api/pdf
func (h *Handlers) GeneratePDF(c *gin.Context) {
	var req models.PrintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Invalid print request body", zap.Error(err))
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid request body"})
		return
	}
	if err := validateRequest(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: err.Error()})
		return
	}

	resp, err := h.service.Process(c.Request.Context(), req)
	if err != nil {
		code, kind := statusFor(err)
		h.logger.Error("Print request failed", zap.Int("status", code), zap.Error(err))
		c.JSON(code, Response{Success: false, Error: err.Error(), Kind: kind})
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: resp})
}

// ListPrinters handles GET /api/printers
func (h *Handlers) ListPrinters(c *gin.Context) {
	c.JSON(http.StatusOK, Response{Success: true, Data: h.service.Printers(c.Request.Context())})
}

// FindPrinter handles GET /api/printers/find?q=
func (h *Handlers) FindPrinter(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "query parameter q is required"})
		return
	}

	name, ok := h.service.FindPrinter(c.Request.Context(), query)
	if !ok {
		c.JSON(http.StatusNotFound, Response{Success: false, Error: fmt.Sprintf("no printer matches %q", query)})
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: gin.H{"printer": name}})
}

// ListJobs handles GET /api/jobs
func (h *Handlers) ListJobs(c *gin.Context) {
	var req ListJobsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid query parameters"})
		return
	}

	jobs, err := h.service.Jobs(req.Limit)
	if err != nil {
		h.logger.Error("Failed to list jobs", zap.Error(err))
		c.JSON(http.StatusInternalServerError, Response{Success: false, Error: "failed to retrieve jobs"})
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: jobs})
}

// GetJob handles GET /api/jobs/:job_id
func (h *Handlers) GetJob(c *gin.Context) {
	jobID := c.Param("job_id")

	job, err := h.service.Job(jobID)
	if err != nil {
		h.logger.Error("Failed to get job", zap.String("job_id", jobID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, Response{Success: false, Error: "failed to retrieve job"})
		return
	}
	if job == nil {
		c.JSON(http.StatusNotFound, Response{Success: false, Error: fmt.Sprintf("job %s not found", jobID)})
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: job})
}

func validateRequest(req *models.PrintRequest) error {
	if err := utils.ValidatePrinterName(req.PrinterName); err != nil {
		return err
	}
	if err := utils.ValidateOutputPath(req.OutputPath); err != nil {
		return err
	}
	for i := range req.Items {
		if rate := req.Items[i].TaxRate; rate != nil {
			if err := utils.ValidateTaxRate(*rate); err != nil {
				return fmt.Errorf("items[%d]: %w", i, err)
			}
		}
	}
	return nil
}

// statusFor maps a generation failure to an HTTP status and error kind
func statusFor(err error) (int, string) {
	var e *models.Error
	if !errors.As(err, &e) {
		return http.StatusInternalServerError, ""
	}
	switch {
	case errors.Is(err, pdf.ErrNoItems), errors.Is(err, storage.ErrPathEscapesBase):
		return http.StatusBadRequest, string(e.Kind)
	case models.IsKind(err, models.KindFontLoad), e.Kind == models.KindFileIO:
		return http.StatusInternalServerError, string(e.Kind)
	case e.Kind == models.KindGeneration:
		return http.StatusUnprocessableEntity, string(e.Kind)
	default:
		return http.StatusInternalServerError, string(e.Kind)
	}
}
