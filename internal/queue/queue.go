package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// JobType defines the type of background job
type JobType string

// JobStatus defines the status of a job
type JobStatus string

const (
	JobStatusPending    JobStatus = "pending"
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
)

// Job represents a background job persisted in the database
type Job struct {
	ID         uuid.UUID       `json:"id" gorm:"type:uuid;primaryKey"`
	Type       JobType         `json:"type" gorm:"type:varchar(50);index"`
	Payload    json.RawMessage `json:"payload"`
	Status     JobStatus       `json:"status" gorm:"type:varchar(20);index"`
	RetryCount int             `json:"retry_count" gorm:"default:0"`
	MaxRetries int             `json:"max_retries" gorm:"default:3"`
	NextRetry  *time.Time      `json:"next_retry,omitempty"`
	Error      string          `json:"error,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// JobHandler is a function that processes a job
type JobHandler func(ctx context.Context, job Job) error

// Queue is a database-backed job queue with a single in-process consumer
type Queue struct {
	db       *gorm.DB
	handlers map[JobType]JobHandler

	// processing is read by the consumer goroutine and written by
	// StopProcessing from other goroutines
	processing atomic.Bool
}

// NewQueue creates a new queue
func NewQueue(db *gorm.DB) *Queue {
	return &Queue{
		db:       db,
		handlers: make(map[JobType]JobHandler),
	}
}

// RegisterHandler registers a handler for a job type
func (q *Queue) RegisterHandler(jobType JobType, handler JobHandler) {
	q.handlers[jobType] = handler
}

// EnqueueJob adds a job to the queue
func (q *Queue) EnqueueJob(jobType JobType, payload interface{}) (string, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal job payload: %w", err)
	}

	job := Job{
		ID:         uuid.New(),
		Type:       jobType,
		Payload:    payloadBytes,
		Status:     JobStatusPending,
		MaxRetries: 3,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}

	if err := q.db.Create(&job).Error; err != nil {
		return "", err
	}

	return job.ID.String(), nil
}

// GetJob retrieves a job by ID
func (q *Queue) GetJob(jobID string) (*Job, error) {
	var job Job
	err := q.db.Where("id = ?", jobID).First(&job).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("job not found")
		}
		return nil, fmt.Errorf("failed to get job: %w", err)
	}

	return &job, nil
}

// ProcessJobs starts processing jobs from the queue until StopProcessing
// is called. Intended to run in its own goroutine.
func (q *Queue) ProcessJobs() {
	if !q.processing.CompareAndSwap(false, true) {
		return
	}

	for q.processing.Load() {
		if !q.processNext() {
			time.Sleep(1 * time.Second)
		}
	}
}

// StopProcessing stops the processing loop
func (q *Queue) StopProcessing() {
	q.processing.Store(false)
}

// processNext picks up a single due pending job and runs it. Returns
// false when no job was due.
func (q *Queue) processNext() bool {
	var job Job
	err := q.db.
		Where("status = ?", JobStatusPending).
		Where("next_retry IS NULL OR next_retry <= ?", time.Now()).
		Order("created_at asc").
		First(&job).Error
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			log.Printf("Error getting job from queue: %v", err)
		}
		return false
	}

	q.processJob(job)
	return true
}

func (q *Queue) processJob(job Job) {
	handler, ok := q.handlers[job.Type]
	if !ok {
		log.Printf("No handler registered for job type: %s", job.Type)
		q.markFailed(job, fmt.Errorf("no handler registered"))
		return
	}

	if err := q.db.Model(&job).Updates(map[string]interface{}{
		"status":     JobStatusProcessing,
		"updated_at": time.Now(),
	}).Error; err != nil {
		log.Printf("Failed to update job status: %v", err)
		return
	}

	if err := handler(context.Background(), job); err != nil {
		q.handleFailure(job, err)
		return
	}

	if err := q.db.Model(&job).Updates(map[string]interface{}{
		"status":     JobStatusCompleted,
		"updated_at": time.Now(),
	}).Error; err != nil {
		log.Printf("Failed to update job result: %v", err)
	}
}

// handleFailure requeues the job with exponential backoff until the
// retry budget is exhausted, then marks it failed.
func (q *Queue) handleFailure(job Job, jobErr error) {
	job.RetryCount++

	if job.RetryCount >= job.MaxRetries {
		q.markFailed(job, jobErr)
		return
	}

	nextRetry := time.Now().Add(time.Duration(1<<job.RetryCount) * time.Minute)
	if err := q.db.Model(&job).Updates(map[string]interface{}{
		"status":      JobStatusPending,
		"retry_count": job.RetryCount,
		"next_retry":  nextRetry,
		"error":       jobErr.Error(),
		"updated_at":  time.Now(),
	}).Error; err != nil {
		log.Printf("Failed to schedule job retry: %v", err)
	}

	log.Printf("Job %s failed (attempt %d/%d), retrying at %s: %v",
		job.ID, job.RetryCount, job.MaxRetries, nextRetry.Format(time.RFC3339), jobErr)
}

func (q *Queue) markFailed(job Job, jobErr error) {
	if err := q.db.Model(&job).Updates(map[string]interface{}{
		"status":     JobStatusFailed,
		"error":      jobErr.Error(),
		"updated_at": time.Now(),
	}).Error; err != nil {
		log.Printf("Failed to update job status: %v", err)
	}

	log.Printf("Job %s failed permanently: %v", job.ID, jobErr)
}
