package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/tuitionterminal/backend/internal/models"
	"github.com/tuitionterminal/backend/internal/queue"
	"github.com/tuitionterminal/backend/internal/services/affiliate"
)

const (
	// ReferralCreditJobType is the job type for crediting affiliates
	// when a referred user registers.
	ReferralCreditJobType queue.JobType = "credit_referral"
)

// Commission amounts per event, in BDT.
const (
	tutorRegistrationReward   = 500.00
	studentRegistrationReward = 300.00
)

// ReferralCreditJobPayload carries the data needed to credit a referral
type ReferralCreditJobPayload struct {
	ReferralCode   string      `json:"referral_code"`
	ReferredUserID uuid.UUID   `json:"referred_user_id"`
	Role           models.Role `json:"role"`
}

// ReferralCreditJob credits affiliate accounts for referred registrations
type ReferralCreditJob struct {
	affiliates *affiliate.Service
}

// NewReferralCreditJob creates a new referral credit job handler
func NewReferralCreditJob(affiliates *affiliate.Service) *ReferralCreditJob {
	return &ReferralCreditJob{affiliates: affiliates}
}

// RegisterReferralCreditJobHandlers registers the handler with the queue
func RegisterReferralCreditJobHandlers(q *queue.Queue, affiliates *affiliate.Service) {
	handler := NewReferralCreditJob(affiliates)
	q.RegisterHandler(ReferralCreditJobType, handler.ProcessReferralCredit)
}

// EnqueueReferralCredit queues a credit for a referred registration
func EnqueueReferralCredit(q *queue.Queue, code string, referredUserID uuid.UUID, role models.Role) error {
	_, err := q.EnqueueJob(ReferralCreditJobType, ReferralCreditJobPayload{
		ReferralCode:   code,
		ReferredUserID: referredUserID,
		Role:           role,
	})
	return err
}

// ProcessReferralCredit resolves the referral code and credits the
// owning affiliate. A stale or unknown code completes the job without
// crediting; the registration itself must never be rolled back over a
// bad referral.
func (j *ReferralCreditJob) ProcessReferralCredit(ctx context.Context, job queue.Job) error {
	var payload ReferralCreditJobPayload
	if err := json.Unmarshal(job.Payload, &payload); err != nil {
		return fmt.Errorf("failed to unmarshal referral credit payload: %w", err)
	}

	account, err := j.affiliates.GetByReferralCode(payload.ReferralCode)
	if err != nil {
		if err == affiliate.ErrNotFound {
			log.Printf("Referral code %q not found, skipping credit", payload.ReferralCode)
			return nil
		}
		return fmt.Errorf("failed to resolve referral code: %w", err)
	}

	txType := models.AffiliateTxStudentRegistration
	amount := studentRegistrationReward
	if payload.Role == models.RoleTutor {
		txType = models.AffiliateTxTutorRegistration
		amount = tutorRegistrationReward
	}

	description := fmt.Sprintf("Referral commission for %s signup", payload.Role)
	referredUserID := payload.ReferredUserID
	if _, err := j.affiliates.Credit(account.ID, &referredUserID, txType, amount, description); err != nil {
		return fmt.Errorf("failed to credit affiliate %s: %w", account.ID, err)
	}

	log.Printf("Credited affiliate %s for referred %s registration", account.ID, payload.Role)
	return nil
}
