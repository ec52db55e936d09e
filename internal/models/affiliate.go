package models

import "github.com/google/uuid"

// AffiliateTransactionType tags a ledger row with the commission event
// that produced it.
type AffiliateTransactionType string

const (
	AffiliateTxTutorRegistration   AffiliateTransactionType = "tutor_registration"
	AffiliateTxStudentRegistration AffiliateTransactionType = "student_registration"
	AffiliateTxCompletedLesson     AffiliateTransactionType = "completed_lesson"
	AffiliateTxPayout              AffiliateTransactionType = "payout"
)

// AffiliateTransactionStatus is the approval state of a ledger row
type AffiliateTransactionStatus string

const (
	AffiliateTxPending  AffiliateTransactionStatus = "pending"
	AffiliateTxApproved AffiliateTransactionStatus = "approved"
	AffiliateTxRejected AffiliateTransactionStatus = "rejected"
	AffiliateTxPaid     AffiliateTransactionStatus = "paid"
)

// Affiliate is a user enrolled to earn referral commissions.
// Invariant: TotalEarnings == PendingEarnings + PaidEarnings. The
// affiliate service maintains it by updating counters and appending
// ledger rows inside one database transaction.
type Affiliate struct {
	Base
	UserID       uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	User         User      `gorm:"foreignKey:UserID" json:"-"`
	ReferralCode string    `gorm:"type:varchar(16);uniqueIndex;not null" json:"referral_code"`

	TotalEarnings   float64 `gorm:"type:decimal(10,2);not null;default:0" json:"total_earnings"`
	PendingEarnings float64 `gorm:"type:decimal(10,2);not null;default:0" json:"pending_earnings"`
	PaidEarnings    float64 `gorm:"type:decimal(10,2);not null;default:0" json:"paid_earnings"`

	TutorReferrals   int `gorm:"not null;default:0" json:"tutor_referrals"`
	StudentReferrals int `gorm:"not null;default:0" json:"student_referrals"`
	CompletedLessons int `gorm:"not null;default:0" json:"completed_lessons"`

	PromotionMethod *string `gorm:"type:varchar(100)" json:"promotion_method"`
	PaymentMethod   *string `gorm:"type:varchar(50)" json:"payment_method"`
	PaymentDetails  JSON    `gorm:"type:text" json:"payment_details"`
	IsActive        bool    `gorm:"default:true" json:"is_active"`
}

// AffiliateTransaction is an append-only ledger row. Amounts are signed:
// credits are positive, payouts negative.
type AffiliateTransaction struct {
	Base
	AffiliateID    uuid.UUID  `gorm:"type:uuid;not null;index" json:"affiliate_id"`
	Affiliate      Affiliate  `gorm:"foreignKey:AffiliateID" json:"-"`
	ReferredUserID *uuid.UUID `gorm:"type:uuid;index" json:"referred_user_id"`
	ReferredUser   *User      `gorm:"foreignKey:ReferredUserID" json:"-"`

	TransactionType AffiliateTransactionType   `gorm:"type:varchar(30);not null" json:"transaction_type"`
	Amount          float64                    `gorm:"type:decimal(10,2);not null" json:"amount"`
	Status          AffiliateTransactionStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	Description     *string                    `gorm:"type:text" json:"description"`
}
