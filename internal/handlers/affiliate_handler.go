package handlers

import (
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/tuitionterminal/backend/internal/models"
	"github.com/tuitionterminal/backend/internal/services/affiliate"
)

// AffiliateHandler handles affiliate program requests
type AffiliateHandler struct {
	affiliates  *affiliate.Service
	frontendURL string
}

// NewAffiliateHandler creates a new affiliate handler
func NewAffiliateHandler(affiliates *affiliate.Service, frontendURL string) *AffiliateHandler {
	return &AffiliateHandler{affiliates: affiliates, frontendURL: frontendURL}
}

// ApplyRequest represents the request body for joining the program
type ApplyRequest struct {
	PromotionMethod string `json:"promotionMethod"`
}

// Apply enrolls the authenticated user into the affiliate program
func (h *AffiliateHandler) Apply(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	// The body is optional; an absent one means no promotion method
	var req ApplyRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	account, err := h.affiliates.Apply(userID, req.PromotionMethod)
	if err != nil {
		if errors.Is(err, affiliate.ErrAlreadyExists) {
			c.JSON(http.StatusConflict, gin.H{"error": "You are already an affiliate"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create affiliate account"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"affiliate":   h.accountResponse(account),
		"referralUrl": h.referralURL(account.ReferralCode),
	})
}

// Dashboard returns the affiliate account with its recent ledger rows
func (h *AffiliateHandler) Dashboard(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	account, err := h.affiliates.GetByUserID(userID)
	if err != nil {
		if errors.Is(err, affiliate.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Affiliate account not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load affiliate account"})
		return
	}

	recent, err := h.affiliates.RecentTransactions(account.ID, 10)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load transactions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"affiliate":          h.accountResponse(account),
		"referralUrl":        h.referralURL(account.ReferralCode),
		"recentTransactions": transactionsResponse(recent),
	})
}

// UpdatePaymentMethodRequest represents the request body for setting payout details
type UpdatePaymentMethodRequest struct {
	PaymentMethod  string      `json:"paymentMethod" binding:"required"`
	PaymentDetails models.JSON `json:"paymentDetails"`
}

// UpdatePaymentMethod overwrites how the affiliate wants to be paid out
func (h *AffiliateHandler) UpdatePaymentMethod(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req UpdatePaymentMethodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	account, err := h.affiliates.UpdatePaymentMethod(userID, req.PaymentMethod, req.PaymentDetails)
	if err != nil {
		if errors.Is(err, affiliate.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Affiliate account not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update payment method"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"affiliate": h.accountResponse(account)})
}

// ListTransactions returns one page of the affiliate's ledger
func (h *AffiliateHandler) ListTransactions(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	account, err := h.affiliates.GetByUserID(userID)
	if err != nil {
		if errors.Is(err, affiliate.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Affiliate account not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load affiliate account"})
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	rows, count, err := h.affiliates.ListTransactions(account.ID, page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load transactions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"transactions": transactionsResponse(rows),
		"currentPage":  page,
		"totalPages":   int(math.Ceil(float64(count) / float64(limit))),
		"total":        count,
	})
}

// PayoutRequest represents the request body for an admin payout
type PayoutRequest struct {
	Amount      float64 `json:"amount" binding:"required"`
	Description string  `json:"description"`
}

// Payout moves pending earnings to paid for an affiliate. Admin only.
func (h *AffiliateHandler) Payout(c *gin.Context) {
	affiliateID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid affiliate ID"})
		return
	}

	var req PayoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Amount <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Payout amount must be positive"})
		return
	}

	description := req.Description
	if description == "" {
		description = fmt.Sprintf("Payout of %.2f BDT", req.Amount)
	}

	row, err := h.affiliates.Payout(affiliateID, req.Amount, description)
	if err != nil {
		switch {
		case errors.Is(err, affiliate.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Affiliate account not found"})
		case errors.Is(err, affiliate.ErrInsufficientPending):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Payout exceeds pending earnings"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process payout"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"transaction": transactionResponse(*row)})
}

func (h *AffiliateHandler) referralURL(code string) string {
	return fmt.Sprintf("%s/register?ref=%s", h.frontendURL, code)
}

func (h *AffiliateHandler) accountResponse(account *models.Affiliate) gin.H {
	return gin.H{
		"id":               account.ID,
		"referralCode":     account.ReferralCode,
		"totalEarnings":    account.TotalEarnings,
		"pendingEarnings":  account.PendingEarnings,
		"paidEarnings":     account.PaidEarnings,
		"tutorReferrals":   account.TutorReferrals,
		"studentReferrals": account.StudentReferrals,
		"completedLessons": account.CompletedLessons,
		"promotionMethod":  account.PromotionMethod,
		"paymentMethod":    account.PaymentMethod,
		"paymentDetails":   account.PaymentDetails,
		"isActive":         account.IsActive,
		"joinedAt":         account.CreatedAt,
	}
}

func transactionResponse(row models.AffiliateTransaction) gin.H {
	return gin.H{
		"id":          row.ID,
		"type":        row.TransactionType,
		"amount":      row.Amount,
		"status":      row.Status,
		"description": row.Description,
		"date":        row.CreatedAt,
	}
}

func transactionsResponse(rows []models.AffiliateTransaction) []gin.H {
	out := make([]gin.H, 0, len(rows))
	for _, row := range rows {
		out = append(out, transactionResponse(row))
	}
	return out
}

// currentUserID reads the authenticated user out of the gin context.
// The auth middleware guarantees it is present on protected routes.
func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	raw, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return uuid.Nil, false
	}

	id, ok := raw.(uuid.UUID)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return uuid.Nil, false
	}

	return id, true
}
