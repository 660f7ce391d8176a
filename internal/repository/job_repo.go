package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/garyjia/travel-expense-print/internal/models"
)

// DefaultListLimit caps List when no positive limit is given
const DefaultListLimit = 50

// JobRepository handles print-job history database operations
type JobRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewJobRepository creates a new job repository
func NewJobRepository(db *sql.DB, logger *zap.Logger) *JobRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &JobRepository{
		db:     db,
		logger: logger,
	}
}

const jobColumns = `id, job_id, status, item_count, page_count, pdf_path, file_size,
	printer_name, ledger_path, error_kind, error_message, created_at`

// Create inserts a job record; tx may be nil
func (r *JobRepository) Create(tx *sql.Tx, job *models.PrintJob) error {
	query := `
		INSERT INTO print_jobs (
			job_id, status, item_count, page_count, pdf_path, file_size,
			printer_name, ledger_path, error_kind, error_message
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	args := []interface{}{
		job.JobID,
		string(job.Status),
		job.ItemCount,
		job.PageCount,
		job.PDFPath,
		job.FileSize,
		job.PrinterName,
		job.LedgerPath,
		job.ErrorKind,
		job.ErrorMessage,
	}

	var result sql.Result
	var err error
	if tx != nil {
		result, err = tx.Exec(query, args...)
	} else {
		result, err = r.db.Exec(query, args...)
	}
	if err != nil {
		r.logger.Error("Failed to create job record", zap.String("job_id", job.JobID), zap.Error(err))
		return fmt.Errorf("failed to create job: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	job.ID = id
	return nil
}

// GetByJobID retrieves a job by its public ID; (nil, nil) when absent
func (r *JobRepository) GetByJobID(jobID string) (*models.PrintJob, error) {
	query := `SELECT ` + jobColumns + ` FROM print_jobs WHERE job_id = ?`

	job, err := scanJob(r.db.QueryRow(query, jobID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get job", zap.String("job_id", jobID), zap.Error(err))
		return nil, fmt.Errorf("failed to get job: %w", err)
	}
	return job, nil
}

// List returns the most recent jobs, newest first
func (r *JobRepository) List(limit int) ([]*models.PrintJob, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	query := `SELECT ` + jobColumns + ` FROM print_jobs ORDER BY id DESC LIMIT ?`

	rows, err := r.db.Query(query, limit)
	if err != nil {
		r.logger.Error("Failed to list jobs", zap.Error(err))
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	defer rows.Close()

	jobs := []*models.PrintJob{}
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan job record: %w", err)
		}
		jobs = append(jobs, job)
	}
	return jobs, rows.Err()
}

// CountByStatus returns the number of jobs per status
func (r *JobRepository) CountByStatus() (map[models.JobStatus]int, error) {
	rows, err := r.db.Query(`SELECT status, COUNT(*) FROM print_jobs GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("failed to count jobs: %w", err)
	}
	defer rows.Close()

	counts := make(map[models.JobStatus]int)
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("failed to scan job count: %w", err)
		}
		counts[models.JobStatus(status)] = n
	}
	return counts, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanJob(row rowScanner) (*models.PrintJob, error) {
	var job models.PrintJob
	var status string
	err := row.Scan(
		&job.ID,
		&job.JobID,
		&status,
		&job.ItemCount,
		&job.PageCount,
		&job.PDFPath,
		&job.FileSize,
		&job.PrinterName,
		&job.LedgerPath,
		&job.ErrorKind,
		&job.ErrorMessage,
		&job.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	job.Status = models.JobStatus(status)
	return &job, nil
}
