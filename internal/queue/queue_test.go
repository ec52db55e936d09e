package queue

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestQueue(t *testing.T) (*Queue, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&Job{}))

	return NewQueue(db), db
}

func TestEnqueueJob(t *testing.T) {
	q, _ := setupTestQueue(t)

	jobID, err := q.EnqueueJob("test_job", map[string]string{"key": "value"})
	require.NoError(t, err)
	require.NotEmpty(t, jobID)

	job, err := q.GetJob(jobID)
	require.NoError(t, err)
	assert.Equal(t, JobType("test_job"), job.Type)
	assert.Equal(t, JobStatusPending, job.Status)
	assert.Equal(t, 3, job.MaxRetries)

	var payload map[string]string
	require.NoError(t, json.Unmarshal(job.Payload, &payload))
	assert.Equal(t, "value", payload["key"])
}

func TestProcessNextRunsHandler(t *testing.T) {
	q, _ := setupTestQueue(t)

	var processed bool
	q.RegisterHandler("test_job", func(ctx context.Context, job Job) error {
		processed = true
		return nil
	})

	jobID, err := q.EnqueueJob("test_job", nil)
	require.NoError(t, err)

	assert.True(t, q.processNext())
	assert.True(t, processed)

	job, err := q.GetJob(jobID)
	require.NoError(t, err)
	assert.Equal(t, JobStatusCompleted, job.Status)

	// Nothing left to pick up
	assert.False(t, q.processNext())
}

func TestProcessNextSchedulesRetryOnFailure(t *testing.T) {
	q, _ := setupTestQueue(t)

	q.RegisterHandler("failing_job", func(ctx context.Context, job Job) error {
		return errors.New("boom")
	})

	jobID, err := q.EnqueueJob("failing_job", nil)
	require.NoError(t, err)

	assert.True(t, q.processNext())

	job, err := q.GetJob(jobID)
	require.NoError(t, err)
	assert.Equal(t, JobStatusPending, job.Status)
	assert.Equal(t, 1, job.RetryCount)
	assert.Equal(t, "boom", job.Error)
	require.NotNil(t, job.NextRetry)
	assert.True(t, job.NextRetry.After(time.Now()))

	// Backoff keeps it out of reach until next_retry
	assert.False(t, q.processNext())
}

func TestProcessNextMarksFailedAfterRetryBudget(t *testing.T) {
	q, db := setupTestQueue(t)

	q.RegisterHandler("failing_job", func(ctx context.Context, job Job) error {
		return errors.New("boom")
	})

	jobID, err := q.EnqueueJob("failing_job", nil)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		// Make the retry due immediately
		require.NoError(t, db.Model(&Job{}).
			Where("id = ?", jobID).
			Update("next_retry", nil).Error)
		q.processNext()
	}

	job, err := q.GetJob(jobID)
	require.NoError(t, err)
	assert.Equal(t, JobStatusFailed, job.Status)
}

func TestProcessNextUnknownTypeFails(t *testing.T) {
	q, _ := setupTestQueue(t)

	jobID, err := q.EnqueueJob("unregistered", nil)
	require.NoError(t, err)

	assert.True(t, q.processNext())

	job, err := q.GetJob(jobID)
	require.NoError(t, err)
	assert.Equal(t, JobStatusFailed, job.Status)
}

func TestStopProcessingHaltsLoop(t *testing.T) {
	q, _ := setupTestQueue(t)

	done := make(chan struct{})
	go func() {
		q.ProcessJobs()
		close(done)
	}()

	time.Sleep(50 * time.Millisecond)
	q.StopProcessing()

	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("processing loop did not stop")
	}
}

func TestGetJobNotFound(t *testing.T) {
	q, _ := setupTestQueue(t)

	_, err := q.GetJob("7f9c0b6a-9f10-4a1f-8f0f-2f4a4f9d0c11")
	assert.Error(t, err)
}
