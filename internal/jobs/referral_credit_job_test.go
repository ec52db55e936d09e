package jobs

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tuitionterminal/backend/internal/models"
	"github.com/tuitionterminal/backend/internal/queue"
	"github.com/tuitionterminal/backend/internal/services/affiliate"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupJobTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.PasswordResetToken{},
		&models.Affiliate{},
		&models.AffiliateTransaction{},
		&queue.Job{},
	))

	return db
}

func queuedJob(t *testing.T, payload ReferralCreditJobPayload) queue.Job {
	t.Helper()

	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	return queue.Job{
		ID:      uuid.New(),
		Type:    ReferralCreditJobType,
		Payload: raw,
	}
}

func TestProcessReferralCreditTutor(t *testing.T) {
	db := setupJobTestDB(t)
	service := affiliate.NewService(db)

	owner := models.User{FirstName: "A", LastName: "B", Email: "owner@example.com", PasswordHash: "hash", Role: models.RoleStudent}
	require.NoError(t, db.Create(&owner).Error)

	account, err := service.Apply(owner.ID, "")
	require.NoError(t, err)

	job := NewReferralCreditJob(service)
	err = job.ProcessReferralCredit(context.Background(), queuedJob(t, ReferralCreditJobPayload{
		ReferralCode:   account.ReferralCode,
		ReferredUserID: uuid.New(),
		Role:           models.RoleTutor,
	}))
	require.NoError(t, err)

	updated, err := service.GetByUserID(owner.ID)
	require.NoError(t, err)
	assert.Equal(t, 500.0, updated.TotalEarnings)
	assert.Equal(t, 1, updated.TutorReferrals)
}

func TestProcessReferralCreditStudent(t *testing.T) {
	db := setupJobTestDB(t)
	service := affiliate.NewService(db)

	owner := models.User{FirstName: "A", LastName: "B", Email: "owner@example.com", PasswordHash: "hash", Role: models.RoleStudent}
	require.NoError(t, db.Create(&owner).Error)

	account, err := service.Apply(owner.ID, "")
	require.NoError(t, err)

	job := NewReferralCreditJob(service)
	err = job.ProcessReferralCredit(context.Background(), queuedJob(t, ReferralCreditJobPayload{
		ReferralCode:   account.ReferralCode,
		ReferredUserID: uuid.New(),
		Role:           models.RoleStudent,
	}))
	require.NoError(t, err)

	updated, err := service.GetByUserID(owner.ID)
	require.NoError(t, err)
	assert.Equal(t, 300.0, updated.TotalEarnings)
	assert.Equal(t, 1, updated.StudentReferrals)
}

func TestProcessReferralCreditUnknownCodeSucceeds(t *testing.T) {
	db := setupJobTestDB(t)
	service := affiliate.NewService(db)

	job := NewReferralCreditJob(service)
	err := job.ProcessReferralCredit(context.Background(), queuedJob(t, ReferralCreditJobPayload{
		ReferralCode:   "NOSUCHCD",
		ReferredUserID: uuid.New(),
		Role:           models.RoleStudent,
	}))
	// A bad code completes the job; the queue must not retry it
	assert.NoError(t, err)
}

func TestProcessReferralCreditRetryIsIdempotent(t *testing.T) {
	db := setupJobTestDB(t)
	service := affiliate.NewService(db)

	owner := models.User{FirstName: "A", LastName: "B", Email: "owner@example.com", PasswordHash: "hash", Role: models.RoleStudent}
	require.NoError(t, db.Create(&owner).Error)

	account, err := service.Apply(owner.ID, "")
	require.NoError(t, err)

	payload := ReferralCreditJobPayload{
		ReferralCode:   account.ReferralCode,
		ReferredUserID: uuid.New(),
		Role:           models.RoleTutor,
	}

	job := NewReferralCreditJob(service)
	require.NoError(t, job.ProcessReferralCredit(context.Background(), queuedJob(t, payload)))
	require.NoError(t, job.ProcessReferralCredit(context.Background(), queuedJob(t, payload)))

	updated, err := service.GetByUserID(owner.ID)
	require.NoError(t, err)
	assert.Equal(t, 500.0, updated.TotalEarnings)
	assert.Equal(t, 1, updated.TutorReferrals)
}
