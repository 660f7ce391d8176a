package repository

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/garyjia/travel-expense-print/internal/models"
	"github.com/garyjia/travel-expense-print/pkg/database"
)

func newTestRepo(t *testing.T) *JobRepository {
	t.Helper()
	logger, _ := zap.NewDevelopment()
	db, err := database.New(database.Config{Path: filepath.Join(t.TempDir(), "jobs.db")}, logger)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, database.NewMigrator(db, logger).RunMigrations())
	return NewJobRepository(db.DB, logger)
}

func TestJobRepository(t *testing.T) {
	repo := newTestRepo(t)

	t.Run("create and fetch", func(t *testing.T) {
		job := &models.PrintJob{
			JobID:       uuid.NewString(),
			Status:      models.JobPrinted,
			ItemCount:   2,
			PageCount:   3,
			PDFPath:     "/tmp/travel_expense.pdf",
			FileSize:    12345,
			PrinterName: "Office",
		}
		require.NoError(t, repo.Create(nil, job))
		assert.NotZero(t, job.ID)

		got, err := repo.GetByJobID(job.JobID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, job.JobID, got.JobID)
		assert.Equal(t, models.JobPrinted, got.Status)
		assert.Equal(t, 3, got.PageCount)
		assert.Equal(t, int64(12345), got.FileSize)
		assert.Equal(t, "Office", got.PrinterName)
		assert.False(t, got.CreatedAt.IsZero())
	})

	t.Run("unknown job", func(t *testing.T) {
		got, err := repo.GetByJobID("missing")
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("duplicate job id is rejected", func(t *testing.T) {
		id := uuid.NewString()
		require.NoError(t, repo.Create(nil, &models.PrintJob{JobID: id, Status: models.JobGenerated}))
		assert.Error(t, repo.Create(nil, &models.PrintJob{JobID: id, Status: models.JobGenerated}))
	})
}

func TestJobRepository_List(t *testing.T) {
	repo := newTestRepo(t)

	for i := 0; i < 5; i++ {
		status := models.JobGenerated
		if i%2 == 1 {
			status = models.JobFailed
		}
		require.NoError(t, repo.Create(nil, &models.PrintJob{JobID: fmt.Sprintf("job-%d", i), Status: status}))
	}

	t.Run("newest first with limit", func(t *testing.T) {
		jobs, err := repo.List(2)
		require.NoError(t, err)
		require.Len(t, jobs, 2)
		assert.Equal(t, "job-4", jobs[0].JobID)
		assert.Equal(t, "job-3", jobs[1].JobID)
	})

	t.Run("non-positive limit uses default", func(t *testing.T) {
		jobs, err := repo.List(0)
		require.NoError(t, err)
		assert.Len(t, jobs, 5)
	})

	t.Run("counts by status", func(t *testing.T) {
		counts, err := repo.CountByStatus()
		require.NoError(t, err)
		assert.Equal(t, 3, counts[models.JobGenerated])
		assert.Equal(t, 2, counts[models.JobFailed])
	})
}
