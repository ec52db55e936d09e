package affiliate

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/tuitionterminal/backend/internal/models"
	"github.com/tuitionterminal/backend/internal/utils"
	"gorm.io/gorm"
)

var (
	// ErrAlreadyExists is returned when a user applies twice
	ErrAlreadyExists = errors.New("affiliate account already exists")
	// ErrNotFound is returned when no affiliate account exists for a user
	ErrNotFound = errors.New("affiliate account not found")
	// ErrInsufficientPending is returned when a payout exceeds pending earnings
	ErrInsufficientPending = errors.New("payout exceeds pending earnings")
)

const referralCodeLength = 8

// Service owns the affiliate accounts and their earnings ledger. Every
// write that touches the earnings counters also appends the matching
// ledger row inside one database transaction, so
// TotalEarnings == PendingEarnings + PaidEarnings holds at all times.
type Service struct {
	db *gorm.DB
}

// NewService creates a new affiliate service
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Apply enrolls a user into the affiliate program. The unique
// constraints on user_id and referral_code are the source of truth for
// conflicts; the insert is retried with a fresh code on a code
// collision and rejected when the user already has an account.
func (s *Service) Apply(userID uuid.UUID, promotionMethod string) (*models.Affiliate, error) {
	var existing models.Affiliate
	err := s.db.Where("user_id = ?", userID).First(&existing).Error
	if err == nil {
		return nil, ErrAlreadyExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("error finding affiliate: %w", err)
	}

	var method *string
	if promotionMethod != "" {
		method = &promotionMethod
	}

	for attempt := 0; attempt < 3; attempt++ {
		account := models.Affiliate{
			UserID:          userID,
			ReferralCode:    utils.GenerateReferralCode(referralCodeLength),
			PromotionMethod: method,
			IsActive:        true,
		}

		err = s.db.Create(&account).Error
		if err == nil {
			return &account, nil
		}
		if !isUniqueViolation(err) {
			return nil, fmt.Errorf("error creating affiliate: %w", err)
		}
		// A concurrent apply for the same user also lands here; the
		// re-check distinguishes it from a referral code collision.
		if findErr := s.db.Where("user_id = ?", userID).First(&existing).Error; findErr == nil {
			return nil, ErrAlreadyExists
		}
	}

	return nil, fmt.Errorf("error creating affiliate: %w", err)
}

// GetByUserID returns the affiliate account owned by a user
func (s *Service) GetByUserID(userID uuid.UUID) (*models.Affiliate, error) {
	var account models.Affiliate
	if err := s.db.Where("user_id = ?", userID).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error finding affiliate: %w", err)
	}
	return &account, nil
}

// GetByReferralCode returns the active affiliate owning a referral code
func (s *Service) GetByReferralCode(code string) (*models.Affiliate, error) {
	var account models.Affiliate
	err := s.db.Where("referral_code = ? AND is_active = ?", code, true).First(&account).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error finding affiliate: %w", err)
	}
	return &account, nil
}

// UpdatePaymentMethod overwrites the payout method and details
func (s *Service) UpdatePaymentMethod(userID uuid.UUID, method string, details models.JSON) (*models.Affiliate, error) {
	account, err := s.GetByUserID(userID)
	if err != nil {
		return nil, err
	}

	account.PaymentMethod = &method
	account.PaymentDetails = details
	if err := s.db.Save(account).Error; err != nil {
		return nil, fmt.Errorf("error updating payment method: %w", err)
	}

	return account, nil
}

// Credit appends a commission ledger row and moves the earned amount
// into pending, bumping the referral counter that matches the type.
// Idempotent per (affiliate, referred user, type) when a referred user
// is given.
func (s *Service) Credit(affiliateID uuid.UUID, referredUserID *uuid.UUID, txType models.AffiliateTransactionType, amount float64, description string) (*models.AffiliateTransaction, error) {
	if amount <= 0 {
		return nil, errors.New("credit amount must be positive")
	}

	var transaction *models.AffiliateTransaction

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var account models.Affiliate
		if err := tx.Set("gorm:query_option", "FOR UPDATE").First(&account, "id = ?", affiliateID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("error finding affiliate: %w", err)
		}

		if referredUserID != nil {
			var existing models.AffiliateTransaction
			err := tx.Where("affiliate_id = ? AND referred_user_id = ? AND transaction_type = ?",
				affiliateID, *referredUserID, txType).First(&existing).Error
			if err == nil {
				transaction = &existing
				return nil
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("error checking existing credit: %w", err)
			}
		}

		row := models.AffiliateTransaction{
			AffiliateID:     affiliateID,
			ReferredUserID:  referredUserID,
			TransactionType: txType,
			Amount:          amount,
			Status:          models.AffiliateTxApproved,
			Description:     &description,
		}
		if err := tx.Create(&row).Error; err != nil {
			return fmt.Errorf("error creating ledger row: %w", err)
		}

		account.TotalEarnings += amount
		account.PendingEarnings += amount
		switch txType {
		case models.AffiliateTxTutorRegistration:
			account.TutorReferrals++
		case models.AffiliateTxStudentRegistration:
			account.StudentReferrals++
		case models.AffiliateTxCompletedLesson:
			account.CompletedLessons++
		}

		if err := tx.Save(&account).Error; err != nil {
			return fmt.Errorf("error updating earnings: %w", err)
		}

		transaction = &row
		return nil
	})
	if err != nil {
		return nil, err
	}

	return transaction, nil
}

// Payout moves an amount from pending to paid earnings and appends a
// negative payout row. Total earnings are unchanged.
func (s *Service) Payout(affiliateID uuid.UUID, amount float64, description string) (*models.AffiliateTransaction, error) {
	if amount <= 0 {
		return nil, errors.New("payout amount must be positive")
	}

	var transaction *models.AffiliateTransaction

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var account models.Affiliate
		if err := tx.Set("gorm:query_option", "FOR UPDATE").First(&account, "id = ?", affiliateID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("error finding affiliate: %w", err)
		}

		if account.PendingEarnings < amount {
			return ErrInsufficientPending
		}

		row := models.AffiliateTransaction{
			AffiliateID:     affiliateID,
			TransactionType: models.AffiliateTxPayout,
			Amount:          -amount,
			Status:          models.AffiliateTxPaid,
			Description:     &description,
		}
		if err := tx.Create(&row).Error; err != nil {
			return fmt.Errorf("error creating ledger row: %w", err)
		}

		account.PendingEarnings -= amount
		account.PaidEarnings += amount

		if err := tx.Save(&account).Error; err != nil {
			return fmt.Errorf("error updating earnings: %w", err)
		}

		transaction = &row
		return nil
	})
	if err != nil {
		return nil, err
	}

	return transaction, nil
}

// ListTransactions returns one page of the ledger, newest first, with
// the total row count for pagination.
func (s *Service) ListTransactions(affiliateID uuid.UUID, page, pageSize int) ([]models.AffiliateTransaction, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}

	var count int64
	if err := s.db.Model(&models.AffiliateTransaction{}).
		Where("affiliate_id = ?", affiliateID).
		Count(&count).Error; err != nil {
		return nil, 0, fmt.Errorf("error counting transactions: %w", err)
	}

	var rows []models.AffiliateTransaction
	if err := s.db.Where("affiliate_id = ?", affiliateID).
		Order("created_at DESC").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Find(&rows).Error; err != nil {
		return nil, 0, fmt.Errorf("error listing transactions: %w", err)
	}

	return rows, count, nil
}

// RecentTransactions returns the newest ledger rows for the dashboard
func (s *Service) RecentTransactions(affiliateID uuid.UUID, limit int) ([]models.AffiliateTransaction, error) {
	var rows []models.AffiliateTransaction
	if err := s.db.Where("affiliate_id = ?", affiliateID).
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("error listing transactions: %w", err)
	}
	return rows, nil
}

// isUniqueViolation matches unique-constraint errors across the
// postgres driver and the sqlite driver used in tests.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "unique constraint")
}
