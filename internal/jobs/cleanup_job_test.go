package jobs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tuitionterminal/backend/internal/models"
	"github.com/tuitionterminal/backend/internal/queue"
)

func TestCleanupExpiredResetTokens(t *testing.T) {
	db := setupJobTestDB(t)
	scheduler := NewScheduler(db)

	user := models.User{FirstName: "A", LastName: "B", Email: "user@example.com", PasswordHash: "hash", Role: models.RoleStudent}
	require.NoError(t, db.Create(&user).Error)

	expired := models.PasswordResetToken{UserID: user.ID, Token: "expired", ExpiresAt: time.Now().Add(-time.Hour)}
	require.NoError(t, db.Create(&expired).Error)

	live := models.PasswordResetToken{UserID: user.ID, Token: "live", ExpiresAt: time.Now().Add(time.Hour)}
	require.NoError(t, db.Create(&live).Error)

	scheduler.cleanupExpiredResetTokens()

	// Expired rows are gone for real, not just soft-deleted
	var count int64
	require.NoError(t, db.Unscoped().Model(&models.PasswordResetToken{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	var remaining models.PasswordResetToken
	require.NoError(t, db.First(&remaining).Error)
	assert.Equal(t, "live", remaining.Token)
}

func TestPruneFinishedQueueJobs(t *testing.T) {
	db := setupJobTestDB(t)
	scheduler := NewScheduler(db)

	q := queue.NewQueue(db)

	oldID, err := q.EnqueueJob("some_job", nil)
	require.NoError(t, err)
	require.NoError(t, db.Model(&queue.Job{}).
		Where("id = ?", oldID).
		UpdateColumns(map[string]interface{}{
			"status":     queue.JobStatusCompleted,
			"updated_at": time.Now().Add(-8 * 24 * time.Hour),
		}).Error)

	pendingID, err := q.EnqueueJob("some_job", nil)
	require.NoError(t, err)

	scheduler.pruneFinishedQueueJobs()

	_, err = q.GetJob(oldID)
	assert.Error(t, err)

	_, err = q.GetJob(pendingID)
	assert.NoError(t, err)
}
