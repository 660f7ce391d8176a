package models

import "time"

// JobStatus is the outcome of one generation request
type JobStatus string

const (
	JobGenerated   JobStatus = "GENERATED"
	JobPrinted     JobStatus = "PRINTED"
	JobPrintFailed JobStatus = "PRINT_FAILED"
	JobFailed      JobStatus = "FAILED"
)

// PrintJob is the history record of one generation request
type PrintJob struct {
	ID           int64     `json:"id"`
	JobID        string    `json:"job_id"`
	Status       JobStatus `json:"status"`
	ItemCount    int       `json:"item_count"`
	PageCount    int       `json:"page_count"`
	PDFPath      string    `json:"pdf_path,omitempty"`
	FileSize     int64     `json:"file_size"`
	PrinterName  string    `json:"printer_name,omitempty"`
	LedgerPath   string    `json:"ledger_path,omitempty"`
	ErrorKind    string    `json:"error_kind,omitempty"`
	ErrorMessage string    `json:"error_message,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}
