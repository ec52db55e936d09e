package handlers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/tuitionterminal/backend/internal/config"
	"github.com/tuitionterminal/backend/internal/jobs"
	"github.com/tuitionterminal/backend/internal/models"
	"github.com/tuitionterminal/backend/internal/queue"
	"github.com/tuitionterminal/backend/internal/utils"
	"gorm.io/gorm"
)

// AuthHandler handles authentication related requests
type AuthHandler struct {
	db       *gorm.DB
	cfg      *config.Config
	jobQueue *queue.Queue
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(db *gorm.DB, cfg *config.Config, jobQueue *queue.Queue) *AuthHandler {
	return &AuthHandler{db: db, cfg: cfg, jobQueue: jobQueue}
}

// RegisterRequest represents the request body for registration
type RegisterRequest struct {
	FirstName          string  `json:"firstName" binding:"required"`
	LastName           string  `json:"lastName" binding:"required"`
	Email              string  `json:"email" binding:"required,email"`
	Phone              *string `json:"phone"`
	Password           string  `json:"password" binding:"required"`
	Role               string  `json:"role"`
	University         *string `json:"university"`
	LanguagePreference string  `json:"languagePreference"`
	ReferralCode       string  `json:"referralCode"`
}

// LoginRequest represents the request body for login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Register handles user registration
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	role := models.Role(req.Role)
	switch role {
	case models.RoleTutor, models.RoleStudent, models.RoleParent:
	case "":
		role = models.RoleStudent
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid role"})
		return
	}

	if err := utils.ValidatePassword(req.Password); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Check if user already exists
	var existing models.User
	query := h.db.Where("email = ?", req.Email)
	if req.Phone != nil && *req.Phone != "" {
		query = h.db.Where("email = ?", req.Email).Or("phone = ?", *req.Phone)
	}
	if result := query.First(&existing); result.Error == nil {
		msg := "User already exists with this email"
		if existing.Email != req.Email {
			msg = "User already exists with this phone number"
		}
		c.JSON(http.StatusConflict, gin.H{"error": msg})
		return
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process password"})
		return
	}

	language := req.LanguagePreference
	if language == "" {
		language = "en"
	}

	verificationToken := utils.GenerateSecureToken(32)

	user := models.User{
		FirstName:          req.FirstName,
		LastName:           req.LastName,
		Email:              req.Email,
		Phone:              req.Phone,
		PasswordHash:       hashedPassword,
		Role:               role,
		LanguagePreference: language,
		VerificationToken:  &verificationToken,
	}

	tx := h.db.Begin()

	if err := tx.Create(&user).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	// Create profile based on role
	switch role {
	case models.RoleTutor:
		tutor := models.Tutor{
			UserID:             user.ID,
			University:         req.University,
			LanguagePreference: language,
			JoinedAt:           time.Now(),
		}
		if err := tx.Create(&tutor).Error; err != nil {
			tx.Rollback()
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create tutor profile"})
			return
		}
	case models.RoleStudent, models.RoleParent:
		student := models.Student{
			UserID:   user.ID,
			JoinedAt: time.Now(),
		}
		if err := tx.Create(&student).Error; err != nil {
			tx.Rollback()
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create student profile"})
			return
		}
	}

	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to complete registration"})
		return
	}

	// Credit the referring affiliate asynchronously; a bad code must not
	// fail the registration.
	if req.ReferralCode != "" && h.jobQueue != nil {
		if err := jobs.EnqueueReferralCredit(h.jobQueue, req.ReferralCode, user.ID, role); err != nil {
			log.Printf("Failed to enqueue referral credit for user %s: %v", user.ID, err)
		}
	}

	// TODO: send verification email once an email provider is wired up
	log.Printf("Verification token issued for %s", user.Email)

	token, err := utils.GenerateToken([]byte(h.cfg.JWT.Secret), user.ID, user.Email, user.Role,
		time.Duration(h.cfg.JWT.Expiration)*time.Hour)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "User registered successfully",
		"token":   token,
		"user": gin.H{
			"id":                 user.ID,
			"firstName":          user.FirstName,
			"lastName":           user.LastName,
			"email":              user.Email,
			"role":               user.Role,
			"languagePreference": user.LanguagePreference,
		},
	})
}

// Login handles user authentication
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user models.User
	if err := h.db.Where("email = ?", req.Email).First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	if !utils.CheckPasswordHash(req.Password, user.PasswordHash) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	now := time.Now()
	user.LastLoginAt = &now
	if err := h.db.Save(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update login time"})
		return
	}

	token, err := utils.GenerateToken([]byte(h.cfg.JWT.Secret), user.ID, user.Email, user.Role,
		time.Duration(h.cfg.JWT.Expiration)*time.Hour)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"token":   token,
		"user": gin.H{
			"id":        user.ID,
			"firstName": user.FirstName,
			"lastName":  user.LastName,
			"email":     user.Email,
			"role":      user.Role,
		},
	})
}

// Me returns the current authenticated user
func (h *AuthHandler) Me(c *gin.Context) {
	userID := c.MustGet("user_id").(uuid.UUID)

	var user models.User
	if err := h.db.First(&user, "id = ?", userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	c.JSON(http.StatusOK, user)
}

// VerifyEmail handles email verification via single-use token
func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	token := c.Param("token")

	var user models.User
	if err := h.db.Where("verification_token = ?", token).First(&user).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid verification token"})
		return
	}

	user.IsEmailVerified = true
	user.VerificationToken = nil
	if err := h.db.Save(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify email"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Email verified successfully"})
}

// ForgotPassword initiates the password reset process
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user models.User
	if err := h.db.Where("email = ?", req.Email).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	resetToken := models.PasswordResetToken{
		UserID:    user.ID,
		Token:     utils.GenerateSecureToken(32),
		ExpiresAt: time.Now().Add(1 * time.Hour),
	}
	if err := h.db.Create(&resetToken).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process request"})
		return
	}

	// TODO: send password reset email once an email provider is wired up
	log.Printf("Password reset token issued for %s", user.Email)

	c.JSON(http.StatusOK, gin.H{"message": "Password reset email sent"})
}

// ResetPassword consumes a reset token and sets a new password
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req struct {
		Token    string `json:"token" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var token models.PasswordResetToken
	if err := h.db.Where("token = ?", req.Token).First(&token).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or expired reset token"})
		return
	}

	if time.Now().After(token.ExpiresAt) {
		h.db.Delete(&token)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or expired reset token"})
		return
	}

	if err := utils.ValidatePassword(req.Password); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user models.User
	if err := h.db.First(&user, "id = ?", token.UserID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process password reset"})
		return
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process password"})
		return
	}

	user.PasswordHash = hashedPassword
	if err := h.db.Save(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update password"})
		return
	}

	// Single use: the token is gone whether or not the client retries
	h.db.Delete(&token)

	c.JSON(http.StatusOK, gin.H{"message": "Password reset successfully"})
}

// ChangeLanguage updates the user's language preference
func (h *AuthHandler) ChangeLanguage(c *gin.Context) {
	var req struct {
		LanguagePreference string `json:"languagePreference" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	switch req.LanguagePreference {
	case "en", "bn", "both":
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid language preference"})
		return
	}

	userID := c.MustGet("user_id").(uuid.UUID)

	var user models.User
	if err := h.db.First(&user, "id = ?", userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	user.LanguagePreference = req.LanguagePreference
	if err := h.db.Save(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update language preference"})
		return
	}

	if user.Role == models.RoleTutor {
		var tutor models.Tutor
		if err := h.db.Where("user_id = ?", user.ID).First(&tutor).Error; err == nil {
			tutor.LanguagePreference = req.LanguagePreference
			if err := h.db.Save(&tutor).Error; err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				log.Printf("Failed to update tutor language preference: %v", err)
			}
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"message":            "Language preference updated successfully",
		"languagePreference": req.LanguagePreference,
	})
}
