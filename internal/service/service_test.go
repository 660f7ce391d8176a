package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/garyjia/travel-expense-print/internal/models"
	"github.com/garyjia/travel-expense-print/internal/pdf"
)

type fakeGenerator struct {
	genErr   error
	printErr error
	printed  []string
}

func (g *fakeGenerator) GenerateTo(_ context.Context, items []models.Item, outputPath string) (*pdf.Result, error) {
	if g.genErr != nil {
		return nil, g.genErr
	}
	if outputPath == "" {
		outputPath = "/out/travel_expense_test.pdf"
	}
	return &pdf.Result{Path: outputPath, Size: 1024, Pages: len(items)}, nil
}

func (g *fakeGenerator) PrintResult(_ context.Context, res *pdf.Result, printerName string) {
	g.printed = append(g.printed, printerName)
	res.PrinterName = printerName
	if g.printErr != nil {
		res.PrintErr = g.printErr
		res.PrintError = g.printErr.Error()
		return
	}
	res.Printed = true
}

type fakeJobs struct {
	jobs []*models.PrintJob
	err  error
}

func (j *fakeJobs) Create(_ *sql.Tx, job *models.PrintJob) error {
	if j.err != nil {
		return j.err
	}
	j.jobs = append(j.jobs, job)
	return nil
}

func (j *fakeJobs) List(limit int) ([]*models.PrintJob, error) {
	if limit > len(j.jobs) {
		limit = len(j.jobs)
	}
	return j.jobs[:limit], nil
}

func (j *fakeJobs) GetByJobID(jobID string) (*models.PrintJob, error) {
	if j.err != nil {
		return nil, j.err
	}
	for _, job := range j.jobs {
		if job.JobID == jobID {
			return job, nil
		}
	}
	return nil, nil
}

type fakeLedger struct {
	paths []string
	err   error
}

func (l *fakeLedger) Export(_ []models.Item, outputPath string) (int64, error) {
	l.paths = append(l.paths, outputPath)
	return 10, l.err
}

type fakePrinters struct{}

func (fakePrinters) ListPrinters(context.Context) []string { return []string{"Office Laser", "PDF"} }
func (fakePrinters) DefaultPrinter(context.Context) string  { return "Office Laser" }
func (fakePrinters) FindPrinter(_ context.Context, q string) (string, bool) {
	if q == "laser" {
		return "Office Laser", true
	}
	return "", false
}

func items(n int) []models.Item {
	out := make([]models.Item, n)
	for i := range out {
		out[i] = models.Item{Name: "山田太郎", Price: 1000}
	}
	return out
}

func TestService_Process(t *testing.T) {
	ctx := context.Background()

	t.Run("generate only", func(t *testing.T) {
		gen, jobs := &fakeGenerator{}, &fakeJobs{}
		s := New(Deps{Generator: gen, Jobs: jobs}, Config{}, zap.NewNop())

		resp, err := s.Process(ctx, models.NewPrintRequest(items(2)))
		require.NoError(t, err)
		assert.NotEmpty(t, resp.JobID)
		assert.Equal(t, "/out/travel_expense_test.pdf", resp.Path)
		assert.Equal(t, 2, resp.Pages)
		assert.False(t, resp.Printed)
		assert.Empty(t, gen.printed)

		require.Len(t, jobs.jobs, 1)
		job := jobs.jobs[0]
		assert.Equal(t, resp.JobID, job.JobID)
		assert.Equal(t, models.JobGenerated, job.Status)
		assert.Equal(t, 2, job.ItemCount)
		assert.Equal(t, int64(1024), job.FileSize)
	})

	t.Run("print uses configured default printer", func(t *testing.T) {
		gen, jobs := &fakeGenerator{}, &fakeJobs{}
		s := New(Deps{Generator: gen, Jobs: jobs}, Config{DefaultPrinter: "Office Laser"}, zap.NewNop())

		resp, err := s.Process(ctx, models.NewPrintRequest(items(1)).WithPrint(true))
		require.NoError(t, err)
		assert.True(t, resp.Printed)
		assert.Equal(t, []string{"Office Laser"}, gen.printed)
		assert.Equal(t, models.JobPrinted, jobs.jobs[0].Status)
	})

	t.Run("request printer overrides default", func(t *testing.T) {
		gen := &fakeGenerator{}
		s := New(Deps{Generator: gen}, Config{DefaultPrinter: "Office Laser"}, nil)

		_, err := s.Process(ctx, models.NewPrintRequest(items(1)).WithPrint(true).WithPrinterName("PDF"))
		require.NoError(t, err)
		assert.Equal(t, []string{"PDF"}, gen.printed)
	})

	t.Run("print failure keeps the document", func(t *testing.T) {
		printErr := models.NewError(models.KindPrint, "printer exited with code 1", nil)
		gen, jobs := &fakeGenerator{printErr: printErr}, &fakeJobs{}
		s := New(Deps{Generator: gen, Jobs: jobs}, Config{}, zap.NewNop())

		resp, err := s.Process(ctx, models.NewPrintRequest(items(1)).WithPrint(true))
		require.NoError(t, err)
		assert.False(t, resp.Printed)
		assert.Equal(t, "/out/travel_expense_test.pdf", resp.Path)
		assert.Contains(t, resp.PrintError, "exited with code 1")

		job := jobs.jobs[0]
		assert.Equal(t, models.JobPrintFailed, job.Status)
		assert.Equal(t, "PRINT", job.ErrorKind)
		assert.Equal(t, "/out/travel_expense_test.pdf", job.PDFPath)
	})

	t.Run("generation failure is returned and recorded", func(t *testing.T) {
		genErr := models.NewError(models.KindGeneration, "no items to render", pdf.ErrNoItems)
		gen, jobs := &fakeGenerator{genErr: genErr}, &fakeJobs{}
		s := New(Deps{Generator: gen, Jobs: jobs}, Config{}, zap.NewNop())

		resp, err := s.Process(ctx, models.NewPrintRequest(nil).WithPrint(true))
		assert.Nil(t, resp)
		assert.ErrorIs(t, err, pdf.ErrNoItems)
		assert.Empty(t, gen.printed)

		require.Len(t, jobs.jobs, 1)
		assert.Equal(t, models.JobFailed, jobs.jobs[0].Status)
		assert.Equal(t, "GENERATION", jobs.jobs[0].ErrorKind)
		assert.Empty(t, jobs.jobs[0].PDFPath)
	})

	t.Run("ledger written next to the pdf", func(t *testing.T) {
		l := &fakeLedger{}
		s := New(Deps{Generator: &fakeGenerator{}, Ledger: l}, Config{}, zap.NewNop())

		resp, err := s.Process(ctx, models.NewPrintRequest(items(1)))
		require.NoError(t, err)
		assert.Equal(t, "/out/travel_expense_test.xlsx", resp.LedgerPath)
		assert.Equal(t, []string{"/out/travel_expense_test.xlsx"}, l.paths)
	})

	t.Run("ledger failure is not fatal", func(t *testing.T) {
		l := &fakeLedger{err: errors.New("disk full")}
		s := New(Deps{Generator: &fakeGenerator{}, Ledger: l}, Config{LedgerDir: "/ledgers"}, zap.NewNop())

		resp, err := s.Process(ctx, models.NewPrintRequest(items(1)))
		require.NoError(t, err)
		assert.Empty(t, resp.LedgerPath)
		assert.Equal(t, []string{"/ledgers/travel_expense_test.xlsx"}, l.paths)
	})

	t.Run("job store failure is not fatal", func(t *testing.T) {
		s := New(Deps{Generator: &fakeGenerator{}, Jobs: &fakeJobs{err: errors.New("locked")}}, Config{}, zap.NewNop())

		resp, err := s.Process(ctx, models.NewPrintRequest(items(1)))
		require.NoError(t, err)
		assert.NotEmpty(t, resp.Path)
	})

	t.Run("verification failure is not fatal", func(t *testing.T) {
		var inspected []string
		inspect := func(path string) (*pdf.Info, error) {
			inspected = append(inspected, path)
			return nil, errors.New("cannot open document")
		}
		s := New(Deps{Generator: &fakeGenerator{}, Inspect: inspect}, Config{}, zap.NewNop())

		resp, err := s.Process(ctx, models.NewPrintRequest(items(3)))
		require.NoError(t, err)
		assert.Equal(t, 3, resp.Pages)
		assert.Equal(t, []string{resp.Path}, inspected)
	})

	t.Run("unique job ids", func(t *testing.T) {
		s := New(Deps{Generator: &fakeGenerator{}}, Config{}, zap.NewNop())
		a, err := s.Process(ctx, models.NewPrintRequest(items(1)))
		require.NoError(t, err)
		b, err := s.Process(ctx, models.NewPrintRequest(items(1)))
		require.NoError(t, err)
		assert.NotEqual(t, a.JobID, b.JobID)
	})
}

func TestService_Queries(t *testing.T) {
	ctx := context.Background()

	t.Run("printers", func(t *testing.T) {
		s := New(Deps{Generator: &fakeGenerator{}, Printers: fakePrinters{}}, Config{}, zap.NewNop())
		list := s.Printers(ctx)
		assert.Equal(t, []string{"Office Laser", "PDF"}, list.Printers)
		assert.Equal(t, "Office Laser", list.Default)

		name, ok := s.FindPrinter(ctx, "laser")
		assert.True(t, ok)
		assert.Equal(t, "Office Laser", name)

		_, ok = s.FindPrinter(ctx, "plotter")
		assert.False(t, ok)
	})

	t.Run("no printer backend", func(t *testing.T) {
		s := New(Deps{Generator: &fakeGenerator{}}, Config{}, zap.NewNop())
		list := s.Printers(ctx)
		assert.NotNil(t, list.Printers)
		assert.Empty(t, list.Printers)
		_, ok := s.FindPrinter(ctx, "laser")
		assert.False(t, ok)
	})

	t.Run("jobs", func(t *testing.T) {
		jobs := &fakeJobs{}
		s := New(Deps{Generator: &fakeGenerator{}, Jobs: jobs}, Config{}, zap.NewNop())
		for i := 0; i < 3; i++ {
			_, err := s.Process(ctx, models.NewPrintRequest(items(1)))
			require.NoError(t, err)
		}
		list, err := s.Jobs(2)
		require.NoError(t, err)
		assert.Len(t, list, 2)

		empty, err := New(Deps{Generator: &fakeGenerator{}}, Config{}, nil).Jobs(10)
		require.NoError(t, err)
		assert.Empty(t, empty)
	})

	t.Run("job by id", func(t *testing.T) {
		s := New(Deps{Generator: &fakeGenerator{}, Jobs: &fakeJobs{}}, Config{}, nil)
		resp, err := s.Process(ctx, models.NewPrintRequest(items(1)))
		require.NoError(t, err)

		job, err := s.Job(resp.JobID)
		require.NoError(t, err)
		require.NotNil(t, job)
		assert.Equal(t, models.JobGenerated, job.Status)

		missing, err := s.Job("unknown")
		require.NoError(t, err)
		assert.Nil(t, missing)

		none, err := New(Deps{Generator: &fakeGenerator{}}, Config{}, nil).Job(resp.JobID)
		require.NoError(t, err)
		assert.Nil(t, none)
	})
}
