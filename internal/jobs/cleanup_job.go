package jobs

import (
	"log"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/tuitionterminal/backend/internal/models"
	"github.com/tuitionterminal/backend/internal/queue"
	"gorm.io/gorm"
)

// completedJobRetention is how long finished queue rows are kept around
// for inspection before being pruned.
const completedJobRetention = 7 * 24 * time.Hour

// Scheduler runs recurring maintenance tasks
type Scheduler struct {
	db        *gorm.DB
	scheduler *gocron.Scheduler
}

// NewScheduler creates a new maintenance scheduler
func NewScheduler(db *gorm.DB) *Scheduler {
	return &Scheduler{
		db:        db,
		scheduler: gocron.NewScheduler(time.UTC),
	}
}

// Start registers the maintenance tasks and starts the scheduler
func (s *Scheduler) Start() {
	if _, err := s.scheduler.Every(1).Hour().Do(s.cleanupExpiredResetTokens); err != nil {
		log.Printf("Failed to schedule reset token cleanup: %v", err)
	}
	if _, err := s.scheduler.Every(24).Hours().Do(s.pruneFinishedQueueJobs); err != nil {
		log.Printf("Failed to schedule queue pruning: %v", err)
	}

	s.scheduler.StartAsync()
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

func (s *Scheduler) cleanupExpiredResetTokens() {
	// Unscoped so the rows are actually removed, not soft-deleted
	result := s.db.Unscoped().Where("expires_at < ?", time.Now()).Delete(&models.PasswordResetToken{})
	if result.Error != nil {
		log.Printf("Failed to clean up expired reset tokens: %v", result.Error)
		return
	}
	if result.RowsAffected > 0 {
		log.Printf("Removed %d expired password reset tokens", result.RowsAffected)
	}
}

func (s *Scheduler) pruneFinishedQueueJobs() {
	cutoff := time.Now().Add(-completedJobRetention)
	result := s.db.
		Where("status IN ?", []queue.JobStatus{queue.JobStatusCompleted, queue.JobStatusFailed}).
		Where("updated_at < ?", cutoff).
		Delete(&queue.Job{})
	if result.Error != nil {
		log.Printf("Failed to prune queue jobs: %v", result.Error)
		return
	}
	if result.RowsAffected > 0 {
		log.Printf("Pruned %d finished queue jobs", result.RowsAffected)
	}
}
